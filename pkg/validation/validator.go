package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// validate is a singleton validator instance
	validate *validator.Validate
)

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their yaml name so messages match the config file.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
}

// Struct checks v against its `validate` struct tags and returns every
// failure, not just the first.
func Struct(v any) Result {
	var res Result

	err := validate.Struct(v)
	if err == nil {
		return res
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		res.Add("", "struct", "%v", err)
		return res
	}

	for _, e := range validationErrs {
		field := e.Field()
		param := e.Param()

		switch e.Tag() {
		case "required":
			res.Add(field, "required", "field is required")
		case "min", "gte":
			res.Add(field, "min", "value %v must be at least %s", e.Value(), param)
		case "max", "lte":
			res.Add(field, "max", "value %v must not exceed %s", e.Value(), param)
		case "oneof":
			res.Add(field, "oneof", "value %v must be one of [%s]", e.Value(), param)
		default:
			res.Add(field, e.Tag(), "validation failed (%s)", e.Tag())
		}
	}

	return res
}
