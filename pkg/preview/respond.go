package preview

import (
	"encoding/json"
	"net/http"
	"os"

	nerrors "github.com/matzehuels/novelgraph/pkg/errors"
)

type errorBody struct {
	Code    nerrors.Code `json:"code"`
	Message string       `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}

func respondError(w http.ResponseWriter, err error) {
	code := nerrors.GetCode(err)
	if code == "" && os.IsNotExist(err) {
		code = nerrors.ErrCodeNotFound
	}
	if code == "" {
		code = nerrors.ErrCodeInternal
	}
	respondJSON(w, statusFor(code), errorBody{Code: code, Message: nerrors.UserMessage(err)})
}

func statusFor(code nerrors.Code) int {
	switch code {
	case nerrors.ErrCodeNotFound:
		return http.StatusNotFound
	case nerrors.ErrCodeInvalidInput, nerrors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case nerrors.ErrCodeInvalidFormat:
		return http.StatusUnprocessableEntity
	case nerrors.ErrCodeNoEntryPoint:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
