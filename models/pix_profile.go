package models

import "time"

// PixProfile é o bloco PIX de uma página biolink: a chave e os dados do
// recebedor usados para gerar códigos sob demanda.
type PixProfile struct {
	ID         string    `json:"id" db:"id"`
	IDUser     string    `json:"id_user" db:"id_user"`
	Slug       string    `json:"slug" db:"slug"`
	Label      string    `json:"label" db:"label"`
	Chave      string    `json:"chave" db:"chave"`
	Nome       string    `json:"nome" db:"nome"`
	Cidade     string    `json:"cidade" db:"cidade"`
	Active     bool      `json:"active" db:"active"`
	DateCreate time.Time `json:"date_create" db:"date_create"`
	DateUpdate time.Time `json:"date_update" db:"date_update"`
}
