package validators

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Ananth-NQI/nco-search-backend/internal/utils"
)

const invalidBody = "Invalid request body"

// ValidationError carries one message per offending JSON field. Error
// returns the first message in field order.
type ValidationError struct {
	Fields map[string]string
	first  string
}

func (e *ValidationError) Error() string {
	return e.first
}

func (e *ValidationError) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, seen := e.Fields[field]; seen {
		return
	}
	e.Fields[field] = msg
	if e.first == "" {
		e.first = msg
	}
}

// Validator decodes request bodies strictly and checks validate tags
type Validator struct {
	validate *validator.Validate
}

// New returns a validator with the phone and ncocode tags registered
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		_, ok := utils.NormalizePhone(fl.Field().String())
		return ok
	})
	_ = v.RegisterValidation("ncocode", func(fl validator.FieldLevel) bool {
		return utils.IsValidNCOCode(fl.Field().String())
	})
	return &Validator{validate: v}
}

// Decode parses body into dst, rejecting unknown fields and trailing data,
// then validates it
func (v *Validator) Decode(body []byte, dst interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return decodeError(err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return bodyError()
	}
	return v.Struct(dst)
}

// Struct validates an already populated value
func (v *Validator) Struct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	out := &ValidationError{}
	for _, fe := range fieldErrs {
		out.add(fe.Field(), message(fe))
	}
	return out
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "phone":
		return "Invalid phone number. Please enter a valid 10-digit Indian mobile number."
	case "ncocode":
		return fmt.Sprintf("%s must be an 8-digit NCO code", field)
	case "numeric":
		return fmt.Sprintf("%s must contain only digits", field)
	case "len":
		return fmt.Sprintf("%s must be exactly %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

func decodeError(err error) error {
	const unknownPrefix = "json: unknown field "
	if msg := err.Error(); strings.HasPrefix(msg, unknownPrefix) {
		field := strings.Trim(strings.TrimPrefix(msg, unknownPrefix), `"`)
		out := &ValidationError{}
		out.add(field, fmt.Sprintf("Unknown field: %s", field))
		return out
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		out := &ValidationError{}
		out.add(typeErr.Field, fmt.Sprintf("%s must be a %s", typeErr.Field, typeErr.Type.Kind()))
		return out
	}
	return bodyError()
}

func bodyError() error {
	out := &ValidationError{}
	out.add("body", invalidBody)
	return out
}
