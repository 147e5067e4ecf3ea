package validators

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	pkgerrors "github.com/promonitor/storefront/pkg/errors"
)

// maxJSONBody caps JSON request bodies; the content document is the largest payload.
const maxJSONBody = 1 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" || tag == "-" {
			return f.Name
		}
		return tag
	})
	return v
}

// DecodeJSONBody decodes a strict JSON body into dest and validates its tags.
func DecodeJSONBody(w http.ResponseWriter, r *http.Request, dest any) error {
	return DecodeJSONBodyMessage(w, r, dest, "validation failed")
}

// DecodeJSONBodyMessage is DecodeJSONBody with a caller-chosen message for validation failures.
func DecodeJSONBodyMessage(w http.ResponseWriter, r *http.Request, dest any, message string) error {
	if err := DecodeJSON(w, r, dest, true); err != nil {
		return err
	}
	return Struct(dest, message)
}

// DecodeJSON decodes the body without struct validation.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dest any, strict bool) error {
	body := http.MaxBytesReader(w, r.Body, maxJSONBody)
	defer func() {
		_, _ = io.Copy(io.Discard, body)
	}()

	decoder := json.NewDecoder(body)
	if strict {
		decoder.DisallowUnknownFields()
	}
	if err := decoder.Decode(dest); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return pkgerrors.Wrap(pkgerrors.CodePayloadTooLarge, err, "request body too large")
		}
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request body").
			WithDetails(map[string]any{"error": err.Error()})
	}
	return nil
}

// Struct validates dest, reporting failures under message.
func Struct(dest any, message string) error {
	if err := validate.Struct(dest); err != nil {
		return formatValidationErrors(err, message)
	}
	return nil
}

func formatValidationErrors(err error, message string) *pkgerrors.Error {
	var errs validator.ValidationErrors
	if errors.As(err, &errs) {
		details := map[string]string{}
		for _, fieldErr := range errs {
			details[fieldErr.Field()] = validationMessage(fieldErr)
		}
		return pkgerrors.New(pkgerrors.CodeValidation, message).WithDetails(details)
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, message)
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "email":
		return "must be a valid email"
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	}
	return "is invalid"
}
