// Package pix gera e lê o payload "PIX Copia e Cola" (BR Code, EMV-MPM).
//
// O payload é uma sequência plana de campos TLV (tag de 2 dígitos, tamanho de
// 2 dígitos e valor) terminada pelo campo 63 com o CRC16 do próprio payload.
// Todas as funções são puras e podem ser chamadas de várias goroutines.
package pix

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Tags do BR Code usadas na geração.
const (
	TagPayloadFormat    = "00"
	TagMerchantAccount  = "26"
	TagMerchantCategory = "52"
	TagCurrency         = "53"
	TagAmount           = "54"
	TagCountry          = "58"
	TagMerchantName     = "59"
	TagMerchantCity     = "60"
	TagAdditionalData   = "62"
	TagCRC              = "63"

	// subcampos do template 26
	TagGUI = "00"
	TagKey = "01"

	// subcampo do template 62
	TagTxID = "05"
)

const (
	PayloadFormat    = "01"
	GUI              = "br.gov.bcb.pix"
	MerchantCategory = "0000"
	CurrencyBRL      = "986"
	CountryBR        = "BR"

	// cabeçalho do campo CRC: tag 63, tamanho 04
	CRCHeader = TagCRC + "04"

	MaxMerchantName = 25
	MaxMerchantCity = 15
	MaxFieldLength  = 99

	DefaultName = "Abrev.io User"
	DefaultCity = "SAO PAULO"
	DefaultTxID = "***"
)

// PixData são os dados do recebedor e da cobrança usados para montar o código.
// Amount <= 0 significa valor livre, digitado pelo pagador.
type PixData struct {
	Key    string  `json:"key"`
	Name   string  `json:"name,omitempty"`
	City   string  `json:"city,omitempty"`
	Amount float64 `json:"amount,omitempty"`
	TxID   string  `json:"txid,omitempty"`
}

// WithDefaults preenche nome, cidade e txid ausentes com os valores padrão.
func (d PixData) WithDefaults() PixData {
	if d.Name == "" {
		d.Name = DefaultName
	}
	if d.City == "" {
		d.City = DefaultCity
	}
	if d.TxID == "" {
		d.TxID = DefaultTxID
	}
	return d
}

// FormatField codifica um campo TLV: id + tamanho com 2 dígitos + valor.
// Valores com mais de 99 caracteres quebram o enquadramento; use Validate antes.
func FormatField(id, value string) string {
	return fmt.Sprintf("%s%02d%s", id, utf8.RuneCountInString(value), value)
}

var combiningMarks = runes.Predicate(func(r rune) bool {
	return r >= 0x0300 && r <= 0x036F
})

// Normalize remove acentos (NFD + marcas combinantes U+0300–U+036F) e trunca
// o resultado em maxLen caracteres.
func Normalize(text string, maxLen int) string {
	t := transform.Chain(norm.NFD, runes.Remove(combiningMarks))
	out, _, err := transform.String(t, text)
	if err != nil {
		out = text
	}
	if maxLen < 0 {
		return out
	}
	r := []rune(out)
	if len(r) > maxLen {
		r = r[:maxLen]
	}
	return string(r)
}

// FormatAmount formata o valor com 2 casas decimais. Retorna false quando o
// valor não deve entrar no payload (ausente, zero, negativo ou não finito).
// O arredondamento parte do valor binário exato do float64, então 1.005 vira
// "1.00" e 2.675 vira "2.67".
func FormatAmount(amount float64) (string, bool) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return "", false
	}
	return decimal.NewFromFloatWithExponent(amount, -2).StringFixed(2), true
}

// Assemble monta o payload sem o campo de CRC, na ordem exigida pelo BR Code.
func Assemble(data PixData) string {
	data = data.WithDefaults()

	var b strings.Builder
	b.WriteString(FormatField(TagPayloadFormat, PayloadFormat))
	b.WriteString(FormatField(TagMerchantAccount, merchantAccount(data.Key)))
	b.WriteString(FormatField(TagMerchantCategory, MerchantCategory))
	b.WriteString(FormatField(TagCurrency, CurrencyBRL))
	if amount, ok := FormatAmount(data.Amount); ok {
		b.WriteString(FormatField(TagAmount, amount))
	}
	b.WriteString(FormatField(TagCountry, CountryBR))
	b.WriteString(FormatField(TagMerchantName, Normalize(data.Name, MaxMerchantName)))
	b.WriteString(FormatField(TagMerchantCity, Normalize(data.City, MaxMerchantCity)))
	b.WriteString(FormatField(TagAdditionalData, FormatField(TagTxID, data.TxID)))
	return b.String()
}

func merchantAccount(key string) string {
	return FormatField(TagGUI, GUI) + FormatField(TagKey, key)
}

// GeneratePixCode retorna o código "copia e cola" completo: payload, cabeçalho
// 6304 e o CRC16 calculado sobre ambos. Não valida a entrada.
func GeneratePixCode(data PixData) string {
	payload := Assemble(data) + CRCHeader
	return payload + CRC16(payload)
}
