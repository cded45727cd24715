package http

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

var validate = validator.New()

// ReadAndValidateRequest binds the request (query for GET, body otherwise),
// applies `default` tags and validates `validate` tags. It returns nil on
// success or a []ValidationError suitable for BadRequestResponse.
func ReadAndValidateRequest(c echo.Context, req interface{}) []ValidationError {
	if err := c.Bind(req); err != nil {
		return toValidationErrors(err)
	}
	if err := defaults.Set(req); err != nil {
		return toValidationErrors(err)
	}
	if err := validate.StructCtx(c.Request().Context(), req); err != nil {
		return toValidationErrors(err)
	}
	return nil
}

func toValidationErrors(err error) []ValidationError {
	var fes validator.ValidationErrors
	if errors.As(err, &fes) {
		out := make([]ValidationError, 0, len(fes))
		for _, fe := range fes {
			out = append(out, fieldError(fe))
		}
		return out
	}

	msg := err.Error()
	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg = fmt.Sprint(he.Message)
	}
	return []ValidationError{{Code: "ERR_UNKNOWN", Message: msg}}
}

func fieldError(fe validator.FieldError) ValidationError {
	ve := ValidationError{
		Code:  "ERR_" + strings.ToUpper(fe.Tag()),
		Field: fe.Field(),
	}
	unit := ""
	if fe.Kind() == reflect.String {
		unit = " characters"
	}

	switch fe.Tag() {
	case "required":
		ve.Message = fe.Field() + " is required"
	case "min", "gte":
		ve.Message = fmt.Sprintf("%s must be at least %s%s", fe.Field(), fe.Param(), unit)
		ve.Params = map[string]interface{}{"min": fe.Param()}
	case "max", "lte":
		ve.Message = fmt.Sprintf("%s must be at most %s%s", fe.Field(), fe.Param(), unit)
		ve.Params = map[string]interface{}{"max": fe.Param()}
	case "oneof":
		opts := strings.Fields(fe.Param())
		ve.Message = fmt.Sprintf("%s must be one of: %s", fe.Field(), strings.Join(opts, ", "))
		ve.Params = map[string]interface{}{"options": opts}
	default:
		ve.Message = fmt.Sprintf("%s failed validation: %s", fe.Field(), fe.Tag())
	}
	return ve
}
