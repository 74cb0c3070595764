package utils

import (
	"crypto/rand"
	"encoding/json"
	"math/big"
	"net/http"

	"pongarena/play/internal/faults"
	"pongarena/play/internal/models"
)

// --- Helper Functions ---
func WriteJSON(w http.ResponseWriter, code int, resp models.Resp) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(resp)
}

// WriteError maps a fault kind to an HTTP status and emits the standard
// error envelope.
func WriteError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(faults.HTTPStatus(err))
	json.NewEncoder(w).Encode(struct {
		Detail string `json:"detail"`
	}{Detail: err.Error()})
}

const codeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateCode returns a short join token for lobbies and tournaments.
func GenerateCode(length int) (string, error) {
	code := make([]byte, length)
	for i := 0; i < length; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeCharset))))
		if err != nil {
			return "", err
		}
		code[i] = codeCharset[num.Int64()]
	}
	return string(code), nil
}
