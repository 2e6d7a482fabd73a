package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"ABREV_GO/models"
)

// Store é a persistência usada pelos handlers; implementada por database.PixStore.
type Store interface {
	CreateUser(ctx context.Context, u models.User) error
	UserByEmail(ctx context.Context, email string) (models.User, error)
	RecordLogin(ctx context.Context, l models.UserLogin) error
	CreateProfile(ctx context.Context, p models.PixProfile) error
	ProfilesByUser(ctx context.Context, userID string) ([]models.PixProfile, error)
	ProfileBySlug(ctx context.Context, slug string) (models.PixProfile, error)
	DeleteProfile(ctx context.Context, userID, id string) error
	SaveCode(ctx context.Context, c models.PixCode) error
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
