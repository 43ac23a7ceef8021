package request

import (
	"errors"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/sangkips/pressing-api/pkg/apperror"
	"github.com/sangkips/pressing-api/pkg/whatsapp"
	"github.com/shopspring/decimal"
)

// RegisterValidators installs the custom tags on gin's validator:
//
//	money  a decimal amount that is not negative
//	phone  an international phone number with 8 to 15 digits
//
// Field errors are reported under their JSON names.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("unexpected validator engine")
	}
	return registerOn(v)
}

func registerOn(v *validator.Validate) error {
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})

	// Decimals are validated through their string form.
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})

	if err := v.RegisterValidation("money", func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(fl.Field().String())
		return err == nil && !d.IsNegative()
	}); err != nil {
		return err
	}
	return v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		_, err := whatsapp.NormalizePhone(fl.Field().String())
		return err == nil
	})
}

var tagMessages = map[string]string{
	"required": "This field is required",
	"email":    "Must be a valid email address",
	"money":    "Must be a non-negative amount",
	"phone":    "Must be an international phone number",
	"uuid":     "Must be a valid identifier",
	"oneof":    "Must be one of: ",
	"min":      "Must be at least ",
	"max":      "Must be at most ",
	"gte":      "Must be greater than or equal to ",
	"lte":      "Must be less than or equal to ",
	"gt":       "Must be greater than ",
	"eqfield":  "Must match ",
}

// FieldErrors converts a binding error into per-field messages. It returns nil when err
// is not a validation error (malformed JSON, wrong types).
func FieldErrors(err error) []apperror.FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	out := make([]apperror.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		// Namespace is "CreateDepositRequest.items[0].unit_price"; drop the struct name.
		field := fe.Namespace()
		if _, rest, ok := strings.Cut(field, "."); ok {
			field = rest
		}

		msg, ok := tagMessages[fe.Tag()]
		switch {
		case !ok:
			msg = "Invalid value"
		case strings.HasSuffix(msg, " "):
			msg += strings.ReplaceAll(fe.Param(), " ", ", ")
		}
		out = append(out, apperror.FieldError{Field: field, Message: msg})
	}
	return out
}
