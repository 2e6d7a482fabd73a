package handlers

import (
	"encoding/json"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"ABREV_GO/database"
	"ABREV_GO/models"
)

const minPasswordLength = 8

// CreateUserHandler lida com a criação de um novo usuário
func CreateUserHandler(store Store, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Name     string `json:"name"`
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Erro ao decodificar o JSON", http.StatusBadRequest)
			return
		}

		req.Name = strings.TrimSpace(req.Name)
		req.Email = strings.ToLower(strings.TrimSpace(req.Email))
		if req.Name == "" || req.Email == "" || req.Password == "" {
			http.Error(w, "Todos os campos (name, email, password) são obrigatórios", http.StatusBadRequest)
			return
		}
		if _, err := mail.ParseAddress(req.Email); err != nil {
			http.Error(w, "Email inválido", http.StatusBadRequest)
			return
		}
		if len(req.Password) < minPasswordLength {
			http.Error(w, "A senha deve ter pelo menos 8 caracteres", http.StatusBadRequest)
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Error("erro ao gerar hash da senha", zap.Error(err))
			http.Error(w, "Erro ao criar o usuário", http.StatusInternalServerError)
			return
		}

		now := time.Now()
		user := models.User{
			ID:         uuid.NewString(),
			Name:       req.Name,
			Email:      req.Email,
			Password:   string(hash),
			Active:     true,
			DateCreate: now,
			DateUpdate: now,
		}
		if err := store.CreateUser(r.Context(), user); err != nil {
			if errors.Is(err, database.ErrConflict) {
				http.Error(w, "Email já cadastrado", http.StatusConflict)
				return
			}
			log.Error("erro ao criar o usuário", zap.Error(err))
			http.Error(w, "Erro ao criar o usuário", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, map[string]string{
			"message": "Usuário criado com sucesso",
			"id":      user.ID,
		})
	}
}
