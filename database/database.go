package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/go-faster/errors"
	_ "github.com/lib/pq" // Driver PostgreSQL

	"ABREV_GO/config"
)

// Connect cria uma conexão com o banco de dados PostgreSQL
func Connect(ctx context.Context) (*sql.DB, error) {
	dbURL, err := config.GetDatabaseURL()
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		return nil, errors.Wrap(err, "não foi possível conectar ao banco de dados")
	}
	db.SetMaxOpenConns(20)
	db.SetConnMaxIdleTime(5 * time.Minute)

	// Testa a conexão
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "erro ao testar a conexão com o banco")
	}

	return db, nil
}
