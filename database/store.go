package database

import (
	"context"
	"database/sql"

	"github.com/go-faster/errors"
	"github.com/lib/pq"

	"ABREV_GO/models"
)

var (
	ErrNotFound = errors.New("registro não encontrado")
	ErrConflict = errors.New("registro já existe")
)

// código SQLSTATE de unique_violation
const uniqueViolation = "23505"

// PixStore guarda usuários, perfis PIX e códigos gerados no PostgreSQL.
type PixStore struct {
	db *sql.DB
}

func NewPixStore(db *sql.DB) *PixStore {
	return &PixStore{db: db}
}

func (s *PixStore) CreateUser(ctx context.Context, u models.User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO core.user (id, name, email, password, active, date_create, date_update)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, u.ID, u.Name, u.Email, u.Password, u.Active, u.DateCreate, u.DateUpdate)
	return wrapErr(err, "erro ao criar o usuário")
}

func (s *PixStore) UserByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, email, password, active, date_create, date_update
		FROM core.user
		WHERE email = $1
	`, email).Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.Active, &u.DateCreate, &u.DateUpdate)
	return u, wrapErr(err, "erro ao buscar usuário")
}

func (s *PixStore) RecordLogin(ctx context.Context, l models.UserLogin) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO core.user_login (id, email, id_user, pass_valid, date)
		VALUES ($1, $2, $3, $4, $5)
	`, l.ID, l.Email, l.IDUser, l.PassValid, l.Date)
	return wrapErr(err, "erro ao registrar login")
}

func (s *PixStore) CreateProfile(ctx context.Context, p models.PixProfile) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO core.pix_profile (id, id_user, slug, label, chave, nome, cidade, active, date_create, date_update)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, p.ID, p.IDUser, p.Slug, p.Label, p.Chave, p.Nome, p.Cidade, p.Active, p.DateCreate, p.DateUpdate)
	return wrapErr(err, "erro ao salvar perfil PIX")
}

const profileColumns = `id, id_user, slug, label, chave, nome, cidade, active, date_create, date_update`

func scanProfile(row interface{ Scan(...any) error }) (models.PixProfile, error) {
	var p models.PixProfile
	err := row.Scan(&p.ID, &p.IDUser, &p.Slug, &p.Label, &p.Chave, &p.Nome, &p.Cidade, &p.Active, &p.DateCreate, &p.DateUpdate)
	return p, err
}

func (s *PixStore) ProfilesByUser(ctx context.Context, userID string) ([]models.PixProfile, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+profileColumns+`
		FROM core.pix_profile
		WHERE id_user = $1
		ORDER BY date_create
	`, userID)
	if err != nil {
		return nil, wrapErr(err, "erro ao listar perfis PIX")
	}
	defer rows.Close()

	profiles := []models.PixProfile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, wrapErr(err, "erro ao ler perfil PIX")
		}
		profiles = append(profiles, p)
	}
	return profiles, wrapErr(rows.Err(), "erro ao listar perfis PIX")
}

func (s *PixStore) ProfileBySlug(ctx context.Context, slug string) (models.PixProfile, error) {
	p, err := scanProfile(s.db.QueryRowContext(ctx, `
		SELECT `+profileColumns+`
		FROM core.pix_profile
		WHERE slug = $1
	`, slug))
	return p, wrapErr(err, "erro ao buscar perfil PIX")
}

func (s *PixStore) DeleteProfile(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM core.pix_profile
		WHERE id = $1 AND id_user = $2
	`, id, userID)
	if err != nil {
		return wrapErr(err, "erro ao remover perfil PIX")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return wrapErr(err, "erro ao remover perfil PIX")
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PixStore) SaveCode(ctx context.Context, c models.PixCode) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO core.pix_code (id, id_pix_profile, valor, txid, pix_copia_e_cola, data_criacao)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, c.ID, c.IDPixProfile, c.Valor, c.TxID, c.PixCopiaECola, c.DataCriacao)
	return wrapErr(err, "erro ao salvar código PIX")
}

// wrapErr traduz erros do driver para ErrNotFound / ErrConflict.
func wrapErr(err error, msg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return errors.Wrap(ErrConflict, pqErr.Constraint)
	}
	return errors.Wrap(err, msg)
}
