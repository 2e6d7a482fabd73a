package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PixCode é um código "copia e cola" gerado a partir de um perfil.
type PixCode struct {
	ID            string          `json:"id" db:"id"`
	IDPixProfile  string          `json:"id_pix_profile" db:"id_pix_profile"`
	Valor         decimal.Decimal `json:"valor" db:"valor"`
	TxID          string          `json:"txid" db:"txid"`
	PixCopiaECola string          `json:"pix_copia_e_cola" db:"pix_copia_e_cola"`
	DataCriacao   time.Time       `json:"data_criacao" db:"data_criacao"`
}
