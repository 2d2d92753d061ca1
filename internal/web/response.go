package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/pantryledger/pantryledger/internal/domain"
	"github.com/pantryledger/pantryledger/internal/service"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode response", "error", err)
		}
	}
}

func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

// decodeJSON reads the body into target and runs struct validation on it.
func decodeJSON(w http.ResponseWriter, r *http.Request, target any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		return domain.Invalid("invalid request body")
	}
	if err := validate.Struct(target); err != nil {
		return validationError(err)
	}
	return nil
}

func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return domain.Invalid("invalid request")
	}
	fe := fieldErrs[0]
	switch fe.Tag() {
	case "required":
		return domain.Invalid("%s is required", fe.Field())
	case "email":
		return domain.Invalid("%s must be a valid email address", fe.Field())
	case "min", "gte":
		if fe.Kind() == reflect.String {
			return domain.Invalid("%s must be at least %s characters", fe.Field(), fe.Param())
		}
		return domain.Invalid("%s must be at least %s", fe.Field(), fe.Param())
	case "gt":
		return domain.Invalid("%s must be greater than %s", fe.Field(), fe.Param())
	case "max", "lte":
		return domain.Invalid("%s must be at most %s", fe.Field(), fe.Param())
	case "oneof":
		return domain.Invalid("%s must be one of: %s", fe.Field(), fe.Param())
	default:
		return domain.Invalid("%s is invalid", fe.Field())
	}
}

// writeError maps the error taxonomy onto HTTP statuses. Unknown errors are
// logged and reported without detail.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		validation *domain.ValidationError
		notFound   *domain.NotFoundError
	)
	switch {
	case errors.As(err, &validation):
		jsonError(w, http.StatusBadRequest, validation.Message)
	case errors.As(err, &notFound):
		jsonError(w, http.StatusNotFound, notFound.Error())
	case errors.Is(err, domain.ErrConflict):
		jsonError(w, http.StatusConflict, "record was modified concurrently, please retry")
	case errors.Is(err, service.ErrInvalidCredentials):
		jsonError(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, service.ErrImagesDisabled):
		jsonError(w, http.StatusServiceUnavailable, "image generation is not configured")
	case errors.Is(err, service.ErrUpstream):
		s.logger.Error("generation backend failed", "path", r.URL.Path, "error", err)
		jsonError(w, http.StatusBadGateway, "generation backend failed")
	default:
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
	}
}
