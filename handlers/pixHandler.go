package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"ABREV_GO/pix"
)

type PixCodeResponse struct {
	Code string `json:"code"`
	CRC  string `json:"crc"`
}

// PixCodeHandler gera o código "copia e cola" a partir dos dados enviados.
func PixCodeHandler(log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req pix.PixData
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Erro ao decodificar JSON: "+err.Error(), http.StatusBadRequest)
			return
		}
		if err := pix.Validate(req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		code := pix.GeneratePixCode(req)
		log.Debug("código PIX gerado", zap.Int("len", len(code)))
		writeJSON(w, http.StatusOK, PixCodeResponse{
			Code: code,
			CRC:  code[len(code)-4:],
		})
	}
}

// PixDecodeHandler valida um código "copia e cola" e devolve seus campos.
func PixDecodeHandler(log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Code string `json:"code"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Erro ao decodificar JSON: "+err.Error(), http.StatusBadRequest)
			return
		}

		data, err := pix.Decode(req.Code)
		if err != nil {
			log.Debug("código PIX rejeitado", zap.Error(err))
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		writeJSON(w, http.StatusOK, data)
	}
}
