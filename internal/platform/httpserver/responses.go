package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strings"

	forumerrors "moringadesk/contexts/community-qa/forum-service/domain/errors"
	autherrors "moringadesk/contexts/identity-access/auth-service/domain/errors"

	"github.com/go-playground/validator/v10"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type validationErrorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}

// requestValidator checks DTO struct tags and reports fields by json name.
type requestValidator struct {
	validate *validator.Validate
}

func newRequestValidator() *requestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &requestValidator{validate: v}
}

func (v *requestValidator) Validate(i any) error {
	return v.validate.Struct(i)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return false
	}
	return true
}

// decodeAndValidate decodes the body into dst and checks its tags. It writes
// the error response itself.
func (s *Server) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if !decodeJSON(w, r, dst) {
		return false
	}
	if err := s.validator.Validate(dst); err != nil {
		writeValidationError(w, err)
		return false
	}
	return true
}

func writeValidationError(w http.ResponseWriter, err error) {
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	fields := make(map[string]string, len(fieldErrors))
	for _, fe := range fieldErrors {
		fields[fieldPath(fe)] = validationMessage(fe)
	}
	writeJSON(w, http.StatusUnprocessableEntity, validationErrorResponse{
		Code:    "validation_failed",
		Message: "request validation failed",
		Errors:  fields,
	})
}

func fieldPath(fe validator.FieldError) string {
	namespace := fe.Namespace()
	if _, rest, found := strings.Cut(namespace, "."); found {
		return rest
	}
	return fe.Field()
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "is invalid"
	}
}

// writeDomainError maps classified module errors to HTTP statuses. Errors
// without a kind become a generic 500.
func writeDomainError(w http.ResponseWriter, err error) {
	if kind := forumerrors.KindOf(err); kind != forumerrors.KindInternal {
		writeError(w, statusForKind(string(kind)), forumerrors.CodeOf(err), err.Error())
		return
	}
	if kind := autherrors.KindOf(err); kind != autherrors.KindInternal {
		writeError(w, statusForKind(string(kind)), autherrors.CodeOf(err), err.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
}

func statusForKind(kind string) int {
	switch kind {
	case string(forumerrors.KindInvalid), string(forumerrors.KindInvalidState):
		return http.StatusBadRequest
	case string(forumerrors.KindNotFound):
		return http.StatusNotFound
	case string(forumerrors.KindForbidden):
		return http.StatusForbidden
	case string(forumerrors.KindConflict):
		return http.StatusConflict
	case string(forumerrors.KindUnauthorized):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
