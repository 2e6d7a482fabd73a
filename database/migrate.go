package database

import (
	"context"
	"database/sql"

	"github.com/go-faster/errors"
)

var migrations = []string{
	`CREATE SCHEMA IF NOT EXISTS core;`,

	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,

	// Tabela user
	`CREATE TABLE IF NOT EXISTS core.user (
		id UUID PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		email VARCHAR(255) UNIQUE NOT NULL,
		password VARCHAR(255) NOT NULL,
		active BOOLEAN DEFAULT true,
		date_create TIMESTAMP DEFAULT now(),
		date_update TIMESTAMP DEFAULT now()
	);`,

	// Tabela user_login
	`CREATE TABLE IF NOT EXISTS core.user_login (
		id UUID PRIMARY KEY,
		email VARCHAR(255),
		id_user UUID REFERENCES core.user(id),
		pass_valid BOOLEAN DEFAULT false,
		date TIMESTAMP DEFAULT now()
	);`,

	// Bloco PIX da página biolink
	`CREATE TABLE IF NOT EXISTS core.pix_profile (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		id_user UUID NOT NULL REFERENCES core.user(id) ON DELETE CASCADE,
		slug VARCHAR(100) UNIQUE NOT NULL,
		label VARCHAR(255),
		chave VARCHAR(77) NOT NULL,
		nome VARCHAR(255),
		cidade VARCHAR(255),
		active BOOLEAN NOT NULL DEFAULT true,
		date_create TIMESTAMP WITHOUT TIME ZONE DEFAULT now(),
		date_update TIMESTAMP WITHOUT TIME ZONE DEFAULT now()
	);`,

	// Códigos copia e cola gerados
	`CREATE TABLE IF NOT EXISTS core.pix_code (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		id_pix_profile UUID NOT NULL REFERENCES core.pix_profile(id) ON DELETE CASCADE,
		valor NUMERIC(12,2) NOT NULL DEFAULT 0,
		txid VARCHAR(25) NOT NULL,
		pix_copia_e_cola TEXT NOT NULL,
		data_criacao TIMESTAMP WITHOUT TIME ZONE NOT NULL DEFAULT now()
	);`,

	`CREATE INDEX IF NOT EXISTS pix_code_profile_idx ON core.pix_code (id_pix_profile, data_criacao);`,
}

// RunMigrations aplica as migrações em ordem; todas são idempotentes.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	for _, query := range migrations {
		if _, err := db.ExecContext(ctx, query); err != nil {
			return errors.Wrapf(err, "erro ao executar a query\n%s", query)
		}
	}
	return nil
}
