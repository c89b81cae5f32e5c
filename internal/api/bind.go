package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"recipe_backend/internal/shared/apperr"
)

// Bind はリクエストボディをobjにバインドし、失敗時はフィールド単位のValidationErrorを返します。
// Content-Typeに応じてJSONまたはフォームとして解釈されます。
func Bind(c *gin.Context, obj any) error {
	if err := c.ShouldBind(obj); err != nil {
		slog.Warn("request binding failed", "error", err, "path", c.FullPath(), "remote_addr", c.ClientIP())
		return BindError(err)
	}
	return nil
}

// BindError はgin/validatorのバインドエラーをValidationErrorに変換します。
func BindError(err error) *apperr.ValidationError {
	out := &apperr.ValidationError{}

	var verrs validator.ValidationErrors
	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError
	var numErr *strconv.NumError
	switch {
	case errors.As(err, &verrs):
		for _, fe := range verrs {
			out.Add(fe.Field(), messageFor(fe))
		}
	case errors.As(err, &typeErr) && typeErr.Field != "":
		out.Add(typeErr.Field, fmt.Sprintf("Incorrect type. Expected %s.", typeErr.Type.String()))
	case errors.As(err, &syntaxErr):
		out.Add(apperr.NonFieldErrors, "JSON parse error.")
	case errors.As(err, &numErr):
		out.Add(apperr.NonFieldErrors, "A valid number is required.")
	case errors.Is(err, io.EOF):
		out.Add(apperr.NonFieldErrors, "Request body is empty.")
	default:
		out.Add(apperr.NonFieldErrors, "Invalid request body.")
	}
	return out
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "notblank":
		return "This field may not be blank."
	case "email":
		return "Enter a valid email address."
	case "url":
		return "Enter a valid URL."
	case "min":
		if isNumeric(fe) {
			return fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())
		}
		return fmt.Sprintf("Ensure this field has at least %s characters.", fe.Param())
	case "max":
		if isNumeric(fe) {
			return fmt.Sprintf("Ensure this value is less than or equal to %s.", fe.Param())
		}
		return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
	case "gte":
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())
	default:
		return fmt.Sprintf("Failed on the %q rule.", fe.Tag())
	}
}

func isNumeric(fe validator.FieldError) bool {
	switch fe.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
