package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"ABREV_GO/config"
	"ABREV_GO/database"
	"ABREV_GO/middleware"
	"ABREV_GO/models"
	"ABREV_GO/pix"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{2,99}$`)

// tamanho das colunas label, nome e cidade em core.pix_profile
const maxTextLength = 255

// PixProfileRequest é o corpo do cadastro de um bloco PIX
type PixProfileRequest struct {
	Slug   string `json:"slug"`
	Label  string `json:"label"`
	Chave  string `json:"chave"`
	Nome   string `json:"nome"`
	Cidade string `json:"cidade"`
}

// CreateProfileHandler cadastra um perfil PIX do usuário autenticado
func CreateProfileHandler(store Store, sanitizer *middleware.Sanitizer, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.UserID(r.Context())
		if !ok {
			http.Error(w, "Token não fornecido", http.StatusUnauthorized)
			return
		}

		var req PixProfileRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Erro ao processar JSON", http.StatusBadRequest)
			return
		}

		req.Slug = strings.ToLower(strings.TrimSpace(req.Slug))
		if !slugPattern.MatchString(req.Slug) {
			http.Error(w, "Slug inválido: use de 3 a 100 letras minúsculas, números ou hífens", http.StatusBadRequest)
			return
		}
		req.Chave = strings.TrimSpace(req.Chave)

		label := sanitizer.Clean(req.Label)
		nome := sanitizer.Clean(req.Nome)
		if nome == "" {
			nome = config.GetPixDefaultName()
		}
		cidade := sanitizer.Clean(req.Cidade)
		if cidade == "" {
			cidade = config.GetPixDefaultCity()
		}
		for field, value := range map[string]string{"label": label, "nome": nome, "cidade": cidade} {
			if utf8.RuneCountInString(value) > maxTextLength {
				http.Error(w, fmt.Sprintf("Campo %s excede %d caracteres", field, maxTextLength), http.StatusBadRequest)
				return
			}
		}
		if err := pix.Validate(pix.PixData{Key: req.Chave, Name: nome, City: cidade}); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		now := time.Now()
		profile := models.PixProfile{
			ID:         uuid.NewString(),
			IDUser:     userID,
			Slug:       req.Slug,
			Label:      label,
			Chave:      req.Chave,
			Nome:       nome,
			Cidade:     cidade,
			Active:     true,
			DateCreate: now,
			DateUpdate: now,
		}
		if err := store.CreateProfile(r.Context(), profile); err != nil {
			if errors.Is(err, database.ErrConflict) {
				http.Error(w, "Slug já está em uso", http.StatusConflict)
				return
			}
			log.Error("erro ao salvar perfil PIX", zap.Error(err))
			http.Error(w, "Erro ao salvar perfil PIX", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, profile)
	}
}

// ListProfilesHandler lista os perfis PIX do usuário autenticado
func ListProfilesHandler(store Store, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.UserID(r.Context())
		if !ok {
			http.Error(w, "Token não fornecido", http.StatusUnauthorized)
			return
		}

		profiles, err := store.ProfilesByUser(r.Context(), userID)
		if err != nil {
			log.Error("erro ao listar perfis PIX", zap.Error(err))
			http.Error(w, "Erro ao listar perfis PIX", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, profiles)
	}
}

// DeleteProfileHandler remove um perfil PIX do usuário autenticado
func DeleteProfileHandler(store Store, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.UserID(r.Context())
		if !ok {
			http.Error(w, "Token não fornecido", http.StatusUnauthorized)
			return
		}

		id := mux.Vars(r)["id"]
		if _, err := uuid.Parse(id); err != nil {
			http.Error(w, "id inválido", http.StatusBadRequest)
			return
		}

		if err := store.DeleteProfile(r.Context(), userID, id); err != nil {
			if errors.Is(err, database.ErrNotFound) {
				http.Error(w, "Perfil PIX não encontrado", http.StatusNotFound)
				return
			}
			log.Error("erro ao remover perfil PIX", zap.Error(err))
			http.Error(w, "Erro ao remover perfil PIX", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
