package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"ABREV_GO/database"
	"ABREV_GO/middleware"
	"ABREV_GO/models"
	"ABREV_GO/pix"
)

type memStore struct {
	mu       sync.Mutex
	users    map[string]models.User
	logins   []models.UserLogin
	profiles map[string]models.PixProfile
	codes    []models.PixCode
}

func newMemStore() *memStore {
	return &memStore{
		users:    map[string]models.User{},
		profiles: map[string]models.PixProfile{},
	}
}

func (m *memStore) CreateUser(_ context.Context, u models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.Email]; ok {
		return database.ErrConflict
	}
	m.users[u.Email] = u
	return nil
}

func (m *memStore) UserByEmail(_ context.Context, email string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[email]
	if !ok {
		return models.User{}, database.ErrNotFound
	}
	return u, nil
}

func (m *memStore) RecordLogin(_ context.Context, l models.UserLogin) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logins = append(m.logins, l)
	return nil
}

func (m *memStore) CreateProfile(_ context.Context, p models.PixProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.profiles {
		if existing.Slug == p.Slug {
			return database.ErrConflict
		}
	}
	m.profiles[p.ID] = p
	return nil
}

func (m *memStore) ProfilesByUser(_ context.Context, userID string) ([]models.PixProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.PixProfile{}
	for _, p := range m.profiles {
		if p.IDUser == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memStore) ProfileBySlug(_ context.Context, slug string) (models.PixProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.profiles {
		if p.Slug == slug {
			return p, nil
		}
	}
	return models.PixProfile{}, database.ErrNotFound
}

func (m *memStore) DeleteProfile(_ context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[id]
	if !ok || p.IDUser != userID {
		return database.ErrNotFound
	}
	delete(m.profiles, id)
	return nil
}

func (m *memStore) SaveCode(_ context.Context, c models.PixCode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.codes = append(m.codes, c)
	return nil
}

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) PingContext(ctx context.Context) error { return f(ctx) }

func TestHealthCheckHandler(t *testing.T) {
	tests := []struct {
		name       string
		ping       error
		wantStatus int
		wantBody   string
	}{
		{name: "online", wantStatus: http.StatusOK, wantBody: "online"},
		{name: "db down", ping: errors.New("conn refused"), wantStatus: http.StatusServiceUnavailable, wantBody: "degraded"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := HealthCheckHandler(pingerFunc(func(context.Context) error { return tt.ping }), zap.NewNop())
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			require.Equal(t, tt.wantStatus, rec.Code)
			var body map[string]string
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			require.Equal(t, tt.wantBody, body["status"])
		})
	}
}

func TestPixCodeHandler(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{name: "valid", body: `{"key":"user@example.com","name":"Test","city":"SAO PAULO","amount":25.5,"txid":"ABC123"}`, wantStatus: http.StatusOK},
		{name: "empty key", body: `{"key":""}`, wantStatus: http.StatusBadRequest},
		{name: "bad txid", body: `{"key":"k","txid":"a b"}`, wantStatus: http.StatusBadRequest},
		{name: "bad json", body: `{"key":`, wantStatus: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/pix/code", strings.NewReader(tt.body))
			PixCodeHandler(zap.NewNop()).ServeHTTP(rec, req)
			require.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus != http.StatusOK {
				return
			}

			var resp PixCodeResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			require.Equal(t, pix.GeneratePixCode(pix.PixData{
				Key: "user@example.com", Name: "Test", City: "SAO PAULO", Amount: 25.5, TxID: "ABC123",
			}), resp.Code)
			require.Equal(t, resp.Code[len(resp.Code)-4:], resp.CRC)
		})
	}
}

func TestPixDecodeHandler(t *testing.T) {
	code := pix.GeneratePixCode(pix.PixData{Key: "k", Amount: 10})

	rec := httptest.NewRecorder()
	body, _ := json.Marshal(map[string]string{"code": code})
	PixDecodeHandler(zap.NewNop()).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/pix/decode", strings.NewReader(string(body))))
	require.Equal(t, http.StatusOK, rec.Code)

	var data pix.PixData
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&data))
	require.Equal(t, "k", data.Key)
	require.Equal(t, 10.0, data.Amount)

	rec = httptest.NewRecorder()
	body, _ = json.Marshal(map[string]string{"code": strings.Replace(code, "10.00", "90.00", 1)})
	PixDecodeHandler(zap.NewNop()).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/pix/decode", strings.NewReader(string(body))))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestCreateUserHandler(t *testing.T) {
	store := newMemStore()
	h := CreateUserHandler(store, zap.NewNop())

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{name: "created", body: `{"name":"Ana","email":"Ana@Example.com","password":"segredo123"}`, wantStatus: http.StatusCreated},
		{name: "duplicate", body: `{"name":"Ana","email":"ana@example.com","password":"segredo123"}`, wantStatus: http.StatusConflict},
		{name: "missing field", body: `{"name":"Ana","email":"b@example.com"}`, wantStatus: http.StatusBadRequest},
		{name: "bad email", body: `{"name":"Ana","email":"nope","password":"segredo123"}`, wantStatus: http.StatusBadRequest},
		{name: "short password", body: `{"name":"Ana","email":"c@example.com","password":"123"}`, wantStatus: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(tt.body)))
			require.Equal(t, tt.wantStatus, rec.Code)
		})
	}

	u, err := store.UserByEmail(context.Background(), "ana@example.com")
	require.NoError(t, err)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("segredo123")))
}

func TestLoginHandler(t *testing.T) {
	secret := []byte("segredo")
	store := newMemStore()
	hash, err := bcrypt.GenerateFromPassword([]byte("segredo123"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, store.CreateUser(context.Background(), models.User{
		ID: uuid.NewString(), Name: "Ana", Email: "ana@example.com", Password: string(hash), Active: true,
	}))
	h := LoginHandler(store, secret, zap.NewNop())

	tests := []struct {
		name       string
		form       url.Values
		wantStatus int
	}{
		{name: "ok", form: url.Values{"grant_type": {"password"}, "username": {"ANA@example.com"}, "password": {"segredo123"}}, wantStatus: http.StatusOK},
		{name: "wrong password", form: url.Values{"grant_type": {"password"}, "username": {"ana@example.com"}, "password": {"errada"}}, wantStatus: http.StatusUnauthorized},
		{name: "unknown user", form: url.Values{"grant_type": {"password"}, "username": {"x@example.com"}, "password": {"segredo123"}}, wantStatus: http.StatusUnauthorized},
		{name: "wrong grant", form: url.Values{"grant_type": {"client_credentials"}, "username": {"ana@example.com"}, "password": {"segredo123"}}, wantStatus: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(tt.form.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			require.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus != http.StatusOK {
				return
			}

			var resp LoginResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			userID, err := middleware.ParseToken(secret, resp.Token)
			require.NoError(t, err)
			require.Equal(t, resp.User.ID, userID)
			require.NotContains(t, rec.Body.String(), string(hash))
		})
	}
	require.Len(t, store.logins, 3)
	require.True(t, store.logins[0].PassValid)
	require.False(t, store.logins[1].PassValid)
	require.Nil(t, store.logins[2].IDUser)
}

func authed(r *http.Request, userID string) *http.Request {
	return r.WithContext(middleware.WithUserID(r.Context(), userID))
}

func TestProfileHandlers(t *testing.T) {
	store := newMemStore()
	log := zap.NewNop()
	create := CreateProfileHandler(store, middleware.NewSanitizer(), log)

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{name: "created", body: `{"slug":"Loja-Ana","label":"<b>Doe</b>","chave":"ana@example.com","nome":"Ana Ção","cidade":"Recife"}`, wantStatus: http.StatusCreated},
		{name: "slug taken", body: `{"slug":"loja-ana","chave":"ana@example.com"}`, wantStatus: http.StatusConflict},
		{name: "bad slug", body: `{"slug":"a b","chave":"ana@example.com"}`, wantStatus: http.StatusBadRequest},
		{name: "empty key", body: `{"slug":"outra","chave":" "}`, wantStatus: http.StatusBadRequest},
		{name: "label too long", body: `{"slug":"outra","chave":"k","label":"` + strings.Repeat("a", 256) + `"}`, wantStatus: http.StatusBadRequest},
		{name: "nome too long", body: `{"slug":"outra","chave":"k","nome":"` + strings.Repeat("é", 256) + `"}`, wantStatus: http.StatusBadRequest},
		{name: "cidade too long", body: `{"slug":"outra","chave":"k","cidade":"` + strings.Repeat("b", 300) + `"}`, wantStatus: http.StatusBadRequest},
		{name: "escaped label too long", body: `{"slug":"outra","chave":"k","label":"` + strings.Repeat("<", 100) + `"}`, wantStatus: http.StatusBadRequest},
		{name: "nome outside latin", body: `{"slug":"outra","chave":"k","nome":"Søren"}`, wantStatus: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			create.ServeHTTP(rec, authed(httptest.NewRequest(http.MethodPost, "/pix/profiles", strings.NewReader(tt.body)), "user-1"))
			require.Equal(t, tt.wantStatus, rec.Code)
		})
	}

	rec := httptest.NewRecorder()
	ListProfilesHandler(store, log).ServeHTTP(rec, authed(httptest.NewRequest(http.MethodGet, "/pix/profiles", nil), "user-1"))
	require.Equal(t, http.StatusOK, rec.Code)
	var profiles []models.PixProfile
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&profiles))
	require.Len(t, profiles, 1)
	require.Equal(t, "loja-ana", profiles[0].Slug)
	require.Equal(t, "Doe", profiles[0].Label)

	router := mux.NewRouter()
	router.Handle("/pix/profiles/{id}", DeleteProfileHandler(store, log)).Methods(http.MethodDelete)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, authed(httptest.NewRequest(http.MethodDelete, "/pix/profiles/"+profiles[0].ID, nil), "user-2"))
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, authed(httptest.NewRequest(http.MethodDelete, "/pix/profiles/"+profiles[0].ID, nil), "user-1"))
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, authed(httptest.NewRequest(http.MethodDelete, "/pix/profiles/nao-e-uuid", nil), "user-1"))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	ListProfilesHandler(store, log).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/pix/profiles", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// textos no limite das colunas são aceitos
	body := `{"slug":"longa","chave":"k","label":"` + strings.Repeat("a", 255) + `","nome":"` + strings.Repeat("é", 255) + `"}`
	rec = httptest.NewRecorder()
	create.ServeHTTP(rec, authed(httptest.NewRequest(http.MethodPost, "/pix/profiles", strings.NewReader(body)), "user-3"))
	require.Equal(t, http.StatusCreated, rec.Code)
}

func TestBiolinkPixHandler(t *testing.T) {
	store := newMemStore()
	require.NoError(t, store.CreateProfile(context.Background(), models.PixProfile{
		ID: uuid.NewString(), IDUser: "user-1", Slug: "loja", Label: "Doações",
		Chave: "user@example.com", Nome: "José Ângelo", Cidade: "São Paulo", Active: true,
	}))
	require.NoError(t, store.CreateProfile(context.Background(), models.PixProfile{
		ID: uuid.NewString(), IDUser: "user-1", Slug: "inativa", Chave: "k", Active: false,
	}))

	router := mux.NewRouter()
	router.Handle("/p/{slug}/pix", BiolinkPixHandler(store, zap.NewNop())).Methods(http.MethodGet)

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantAmount string
		wantTxID   string
	}{
		{name: "free amount", path: "/p/loja/pix", wantStatus: http.StatusOK, wantTxID: "***"},
		{name: "comma amount", path: "/p/loja/pix?amount=25,5&txid=PED1", wantStatus: http.StatusOK, wantAmount: "25.50", wantTxID: "PED1"},
		{name: "dot amount", path: "/p/LOJA/pix?amount=10", wantStatus: http.StatusOK, wantAmount: "10.00", wantTxID: "***"},
		{name: "negative amount", path: "/p/loja/pix?amount=-1", wantStatus: http.StatusBadRequest},
		{name: "garbage amount", path: "/p/loja/pix?amount=abc", wantStatus: http.StatusBadRequest},
		{name: "bad txid", path: "/p/loja/pix?txid=a-b", wantStatus: http.StatusBadRequest},
		{name: "unknown slug", path: "/p/nada/pix", wantStatus: http.StatusNotFound},
		{name: "inactive", path: "/p/inativa/pix", wantStatus: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := len(store.codes)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			require.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus != http.StatusOK {
				require.Len(t, store.codes, before)
				return
			}

			var resp BiolinkPixResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			require.Equal(t, "Jose Angelo", resp.Name)
			require.Equal(t, "Sao Paulo", resp.City)
			require.Equal(t, "Doações", resp.Label)
			require.Equal(t, tt.wantAmount, resp.Amount)
			require.NoError(t, pix.VerifyChecksum(resp.Code))

			decoded, err := pix.Decode(resp.Code)
			require.NoError(t, err)
			require.Equal(t, "user@example.com", decoded.Key)
			require.Equal(t, tt.wantTxID, decoded.TxID)

			require.Len(t, store.codes, before+1)
			saved := store.codes[len(store.codes)-1]
			require.Equal(t, resp.Code, saved.PixCopiaECola)
			require.Equal(t, tt.wantTxID, saved.TxID)
		})
	}
}
