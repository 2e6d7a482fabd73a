package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"ABREV_GO/database"
	"ABREV_GO/models"
	"ABREV_GO/pix"
)

// BiolinkPixResponse é o que a página pública precisa para mostrar o QR e o
// botão "copia e cola".
type BiolinkPixResponse struct {
	Code   string `json:"code"`
	Label  string `json:"label,omitempty"`
	Name   string `json:"name"`
	City   string `json:"city"`
	Amount string `json:"amount,omitempty"`
}

// BiolinkPixHandler gera o código PIX do perfil público /p/{slug}.
// Query: amount (opcional, aceita vírgula decimal) e txid (opcional).
func BiolinkPixHandler(store Store, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := strings.ToLower(mux.Vars(r)["slug"])

		amount, err := parseAmount(r.URL.Query().Get("amount"))
		if err != nil {
			http.Error(w, "Valor inválido", http.StatusBadRequest)
			return
		}

		profile, err := store.ProfileBySlug(r.Context(), slug)
		if err != nil {
			if errors.Is(err, database.ErrNotFound) {
				http.Error(w, "Perfil não encontrado", http.StatusNotFound)
				return
			}
			log.Error("erro ao buscar perfil PIX", zap.String("slug", slug), zap.Error(err))
			http.Error(w, "Erro ao buscar perfil", http.StatusInternalServerError)
			return
		}
		if !profile.Active {
			http.Error(w, "Perfil não encontrado", http.StatusNotFound)
			return
		}

		data := pix.PixData{
			Key:    profile.Chave,
			Name:   profile.Nome,
			City:   profile.Cidade,
			Amount: amount.InexactFloat64(),
			TxID:   r.URL.Query().Get("txid"),
		}
		if err := pix.Validate(data); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		data = data.WithDefaults()
		code := pix.GeneratePixCode(data)

		record := models.PixCode{
			ID:            uuid.NewString(),
			IDPixProfile:  profile.ID,
			Valor:         amount,
			TxID:          data.TxID,
			PixCopiaECola: code,
			DataCriacao:   time.Now(),
		}
		if err := store.SaveCode(r.Context(), record); err != nil {
			log.Warn("erro ao salvar código PIX", zap.String("slug", slug), zap.Error(err))
		}

		resp := BiolinkPixResponse{
			Code:  code,
			Label: profile.Label,
			Name:  pix.Normalize(data.Name, pix.MaxMerchantName),
			City:  pix.Normalize(data.City, pix.MaxMerchantCity),
		}
		if amount.IsPositive() {
			resp.Amount = amount.StringFixed(2)
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// parseAmount aceita "25.50" ou "25,50"; vazio vale zero (valor livre).
func parseAmount(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, nil
	}
	amount, err := decimal.NewFromString(strings.Replace(raw, ",", ".", 1))
	if err != nil {
		return decimal.Zero, err
	}
	if amount.IsNegative() {
		return decimal.Zero, errors.New("valor negativo")
	}
	return amount.Round(2), nil
}
