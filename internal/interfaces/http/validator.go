package http

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Los errores usan el nombre JSON/query del campo, no el de Go.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "query"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})
	return v
}

// bodyError cuerpo que no se pudo decodificar.
type bodyError struct {
	err error
}

func (e *bodyError) Error() string { return "cuerpo inválido: " + e.err.Error() }

func (e *bodyError) Unwrap() error { return e.err }

// bindBody decodifica el JSON y valida los tags `validate`.
func bindBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return &bodyError{err: err}
	}
	return validate.Struct(out)
}

// bindQuery decodifica los query params y valida los tags `validate`.
func bindQuery(c *fiber.Ctx, out any) error {
	if err := c.QueryParser(out); err != nil {
		return &bodyError{err: err}
	}
	return validate.Struct(out)
}

// validationDetails campo -> regla incumplida. El campo es el namespace sin el nombre del struct raíz
// (ej. "items[0].quantity").
func validationDetails(errs validator.ValidationErrors) map[string]string {
	out := make(map[string]string, len(errs))
	for _, fe := range errs {
		field := fe.Namespace()
		if i := strings.Index(field, "."); i >= 0 {
			field = field[i+1:]
		}
		out[field] = fe.Tag()
	}
	return out
}
