package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/mesh-intelligence/moodlog/internal/catalog"
	"github.com/mesh-intelligence/moodlog/internal/log"
	"github.com/mesh-intelligence/moodlog/pkg/types"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 16

type errorResponse struct {
	Detail  string   `json:"detail"`
	Options []string `json:"opcoes,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Detail: message})
}

// statusFor maps journal errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, types.ErrNotFound):
		return http.StatusNotFound
	case catalog.IsInvalidFeeling(err), errors.Is(err, types.ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeErr writes err with its mapped status. Invalid feelings carry the
// accepted names; server errors hide their detail from the client.
func writeErr(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	resp := errorResponse{Detail: err.Error()}

	var invalid *types.InvalidFeelingError
	switch {
	case errors.As(err, &invalid):
		resp.Detail = "Sentimento inválido. Opções: " + strings.Join(invalid.Valid, ", ")
		resp.Options = invalid.Valid
	case status == http.StatusNotFound:
		resp.Detail = "Registro não encontrado"
	case status == http.StatusInternalServerError:
		log.FromContext(r.Context()).Error("request failed", log.FieldError, err)
		if !errors.Is(err, types.ErrUnknownFeeling) {
			resp.Detail = "erro interno"
		}
	}
	writeJSON(w, status, resp)
}
