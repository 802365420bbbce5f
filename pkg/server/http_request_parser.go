package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/tidwall/gjson"

	"github.com/mplm/rundash/pkg/contract"
)

type HTTPRequestParser struct {
	validator *validator.Validate
}

func NewHTTPRequestParser() (*HTTPRequestParser, error) {
	validate, err := NewValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to create validator: %w", err)
	}

	return &HTTPRequestParser{
		validator: validate,
	}, nil
}

func (p *HTTPRequestParser) ParseBody(ctx *fiber.Ctx, input interface{}) *contract.Error {
	if err := ctx.BodyParser(input); err != nil {
		var unmarshalTypeError *json.UnmarshalTypeError
		if errors.As(err, &unmarshalTypeError) {
			result := gjson.GetBytes(ctx.Body(), unmarshalTypeError.Field)

			value := result.Str
			if value == "" {
				value = result.Raw
			}

			return contract.NewError(
				contract.ErrorCodeInvalidParameterValue,
				fmt.Sprintf("Invalid value %s for parameter '%s' supplied", value, unmarshalTypeError.Field),
			)
		}

		return contract.NewError(contract.ErrorCodeBadRequest, err.Error())
	}

	return p.validate(input)
}

func (p *HTTPRequestParser) ParseQuery(ctx *fiber.Ctx, input interface{}) *contract.Error {
	if err := ctx.QueryParser(input); err != nil {
		return contract.NewError(contract.ErrorCodeBadRequest, err.Error())
	}

	return p.validate(input)
}

func (p *HTTPRequestParser) ParseParams(ctx *fiber.Ctx, input interface{}) *contract.Error {
	if err := ctx.ParamsParser(input); err != nil {
		return contract.NewError(
			contract.ErrorCodeInvalidParameterValue,
			fmt.Sprintf("Invalid path parameters in %s", ctx.Path()),
		)
	}

	return p.validate(input)
}

func (p *HTTPRequestParser) validate(input interface{}) *contract.Error {
	if err := p.validator.Struct(input); err != nil {
		return newErrorFromValidationError(err)
	}

	return nil
}

func dereference(value interface{}) interface{} {
	v := reflect.ValueOf(value)
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil
		}

		return v.Elem().Interface()
	}

	return value
}

func newErrorFromValidationError(err error) *contract.Error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return contract.NewError(contract.ErrorCodeInternal, err.Error())
	}

	messages := make([]string, 0, len(validationErrors))

	for _, fieldError := range validationErrors {
		field := fieldError.Field()

		switch fieldError.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("Missing value for required parameter '%s'", field))
		case "recordField":
			messages = append(messages, fmt.Sprintf(
				"Invalid value %v for parameter '%s': not a record field", dereference(fieldError.Value()), field,
			))
		default:
			messages = append(messages, fmt.Sprintf(
				"Invalid value %v for parameter '%s' supplied", dereference(fieldError.Value()), field,
			))
		}
	}

	return contract.NewError(contract.ErrorCodeInvalidParameterValue, strings.Join(messages, ", "))
}
