// Package validation registers the custom rules used by request DTOs on gin's validator.
package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Register はginのバリデーターエンジンにカスタムルールとJSONフィールド名を登録します。
// ルーター生成前に一度だけ呼び出します。
func Register() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	return Configure(v)
}

// Configure は与えられたvalidatorにnotblankルールとタグ名関数を設定します。
func Configure(v *validator.Validate) error {
	v.RegisterTagNameFunc(fieldName)
	return v.RegisterValidation("notblank", notBlank)
}

// fieldName はjsonタグ、なければformタグの名前をエラー用のフィールド名として返します。
func fieldName(f reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}

// notBlank rejects strings that are empty after trimming whitespace.
func notBlank(fl validator.FieldLevel) bool {
	field := fl.Field()
	switch field.Kind() {
	case reflect.String:
		return strings.TrimSpace(field.String()) != ""
	default:
		return true
	}
}
