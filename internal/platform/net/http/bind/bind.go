// Package bind decodes and validates JSON request bodies
package bind

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"

	perr "bandwatch/internal/platform/errors"
	"bandwatch/internal/platform/logger"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entrans "github.com/go-playground/validator/v10/translations/en"
)

const defaultMaxBody = 1 << 20 // 1MB

// JSONOptions controls body parsing
type JSONOptions struct {
	MaxBytes        int64 // default 1MB
	DisallowUnknown bool
	AllowEmptyBody  bool
}

var (
	valOnce sync.Once
	val     *validator.Validate
	trans   ut.Translator
)

// validate returns the shared validator, built lazily with english
// translations and json tag names in messages
func validate() *validator.Validate {
	valOnce.Do(func() {
		locale := en.New()
		trans, _ = ut.New(locale, locale).GetTranslator("en")

		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(jsonFieldName)
		_ = entrans.RegisterDefaultTranslations(v, trans)
		shortTranslation(v, "min", "{0} must be at least {1}")
		shortTranslation(v, "max", "{0} must be at most {1}")

		val = v
	})
	return val
}

// jsonFieldName reports a struct field by its json tag so validation
// messages name the wire field, not the Go one
func jsonFieldName(fld reflect.StructField) string {
	tag := fld.Tag.Get("json")
	if tag == "" || tag == "-" {
		return fld.Name
	}
	if i := strings.Index(tag, ","); i >= 0 {
		tag = tag[:i]
	}
	return tag
}

func shortTranslation(v *validator.Validate, tag, template string) {
	_ = v.RegisterTranslation(tag, trans,
		func(t ut.Translator) error { return t.Add(tag, template, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			msg, _ := t.T(tag, fe.Field(), fe.Param())
			return msg
		},
	)
}

// ParseJSON decodes the request body into T, validates it, and maps
// failures onto project error codes
func ParseJSON[T any](r *http.Request, opts ...JSONOptions) (T, error) {
	var zero T
	o := JSONOptions{MaxBytes: defaultMaxBody, DisallowUnknown: true}
	if len(opts) > 0 {
		o = opts[0]
	}
	defer func() {
		if err := r.Body.Close(); err != nil {
			logger.Get().Error().Err(err).Msg("failed to close request body")
		}
	}()

	body, emptyOK, err := bodyReader(r, o)
	if err != nil {
		return zero, err
	}
	if body == nil {
		return zero, nil // tolerated empty body on a safe method
	}

	dec := json.NewDecoder(body)
	if o.DisallowUnknown {
		dec.DisallowUnknownFields()
	}

	var dst T
	if err := dec.Decode(&dst); err != nil {
		if emptyOK && errors.Is(err, io.EOF) {
			return dst, nil
		}
		return zero, perr.JSONErrf("invalid JSON: %v", err)
	}
	if dec.More() {
		return zero, perr.JSONErrf("unexpected trailing data")
	}

	if err := validate().Struct(dst); err != nil {
		var inv *validator.InvalidValidationError
		if errors.As(err, &inv) {
			logger.Get().Error().Err(inv).Msg("validator internal error")
			return zero, perr.JSONErrf("validation error")
		}
		field, msg := ValidationFieldAndMessage(err)
		if field != "" {
			return zero, perr.WithField(perr.Newf(perr.ErrorCodeValidation, "%s", msg), field)
		}
		return zero, perr.Newf(perr.ErrorCodeValidation, "%s", msg)
	}
	return dst, nil
}

// bodyReader wraps the request body with size limits and empty body policy.
// A nil reader with nil error means an empty body was tolerated.
func bodyReader(r *http.Request, o JSONOptions) (io.Reader, bool, error) {
	if o.AllowEmptyBody {
		return limited(r.Body, o.MaxBytes), true, nil
	}

	// probe a single byte to tell empty from present
	probe := make([]byte, 1)
	n, _ := r.Body.Read(probe)
	if n == 0 {
		switch r.Method {
		case http.MethodGet, http.MethodDelete, http.MethodHead, http.MethodOptions:
			return nil, false, nil
		}
		return nil, false, perr.JSONErrf("empty body")
	}
	return limited(io.MultiReader(bytes.NewReader(probe[:n]), r.Body), o.MaxBytes), false, nil
}

func limited(r io.Reader, max int64) io.Reader {
	if max > 0 {
		return io.LimitReader(r, max)
	}
	return r
}

// ValidationFieldAndMessage extracts the first failing field and its
// translated message from a validator error
func ValidationFieldAndMessage(err error) (field, message string) {
	if err == nil {
		return "", ""
	}
	validate() // ensure the translator exists
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fe.Field(), fe.Translate(trans)
	}
	return "", err.Error()
}
