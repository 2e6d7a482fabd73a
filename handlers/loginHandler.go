package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"ABREV_GO/database"
	"ABREV_GO/middleware"
	"ABREV_GO/models"
)

const tokenTTL = 24 * time.Hour

// LoginResponse é a resposta do login com o token de acesso
type LoginResponse struct {
	Token     string      `json:"token"`
	TokenType string      `json:"token_type"`
	ExpiresIn int         `json:"expires_in"`
	User      models.User `json:"user"`
}

// LoginHandler lida com a autenticação de usuários (grant_type=password)
func LoginHandler(store Store, secret []byte, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Erro ao processar os parâmetros", http.StatusBadRequest)
			return
		}

		username := strings.ToLower(strings.TrimSpace(r.FormValue("username")))
		password := r.FormValue("password")
		if r.FormValue("grant_type") != "password" || username == "" || password == "" {
			http.Error(w, "Parâmetros inválidos", http.StatusBadRequest)
			return
		}

		user, err := store.UserByEmail(r.Context(), username)
		if err != nil && !errors.Is(err, database.ErrNotFound) {
			log.Error("erro ao buscar usuário", zap.Error(err))
			http.Error(w, "Erro ao buscar usuário", http.StatusInternalServerError)
			return
		}

		valid := err == nil && user.Active &&
			bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) == nil
		attempt := models.UserLogin{
			ID:        uuid.NewString(),
			Email:     username,
			PassValid: valid,
			Date:      time.Now(),
		}
		if err == nil {
			attempt.IDUser = &user.ID
		}
		if err := store.RecordLogin(r.Context(), attempt); err != nil {
			log.Warn("erro ao registrar login", zap.Error(err))
		}
		if !valid {
			http.Error(w, "Usuário ou senha inválidos", http.StatusUnauthorized)
			return
		}

		token, err := middleware.IssueToken(secret, user.ID, tokenTTL)
		if err != nil {
			log.Error("erro ao gerar token", zap.Error(err))
			http.Error(w, "Erro ao gerar token", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, LoginResponse{
			Token:     token,
			TokenType: "Bearer",
			ExpiresIn: int(tokenTTL.Seconds()),
			User:      user,
		})
	}
}
