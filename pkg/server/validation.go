package server

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/mplm/rundash/pkg/record"
)

// tagName reports fields by the name the client used for them.
func tagName(field reflect.StructField) string {
	for _, tag := range []string{"json", "query", "params"} {
		name, _, _ := strings.Cut(field.Tag.Get(tag), ",")
		if name != "" && name != "-" {
			return name
		}
	}

	return field.Name
}

func NewValidator() (*validator.Validate, error) {
	validate := validator.New()
	validate.RegisterTagNameFunc(tagName)

	// Verify that the string names a record field, in snake or camel case.
	if err := validate.RegisterValidation("recordField", func(fl validator.FieldLevel) bool {
		_, err := record.ParseField(fl.Field().String())

		return err == nil
	}); err != nil {
		return nil, fmt.Errorf("validation registration for 'recordField' failed: %w", err)
	}

	return validate, nil
}
