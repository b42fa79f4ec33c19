package validator

import (
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"stayledger/shared/constant"
	"stayledger/shared/failure"
	"strings"
	"time"
	"unicode"

	val "github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

const currencyCodeLength = 3

var validate = newValidate()

func isCurrency(field val.FieldLevel) bool {
	code := field.Field().String()
	if len(code) != currencyCodeLength {
		return false
	}

	for _, r := range code {
		if !unicode.IsUpper(r) {
			return false
		}
	}

	return true
}

func isDate(field val.FieldLevel) bool {
	_, err := time.Parse(constant.DateOnlyFormat, field.Field().String())

	return err == nil
}

// decimalValue lets numeric tags such as gt=0 apply to decimal amounts.
func decimalValue(field reflect.Value) any {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		f, _ := d.Float64()

		return f
	}

	return nil
}

// jsonName reports fields by their JSON name so messages match the request body.
func jsonName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")

	switch name {
	case "-":
		return constant.Empty
	case "":
		return field.Name
	default:
		return name
	}
}

func newValidate() *val.Validate {
	v := val.New(val.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonName)
	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})

	for tag, fn := range map[string]val.Func{
		"currency": isCurrency,
		"date":     isDate,
	} {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(err)
		}
	}

	return v
}

// Validate decodes the JSON body into data and validates it.
// https://github.com/go-playground/validator
func Validate[T any](r io.Reader, data *T) error {
	if err := Decode(r, data); err != nil {
		return err
	}

	return ValidateStruct(data)
}

// Decode reads JSON into data without validating it, for handlers that complete the struct from
// other parts of the request first.
func Decode[T any](r io.Reader, data *T) error {
	if err := json.NewDecoder(r).Decode(data); err != nil {
		return failure.BadRequest(fmt.Errorf("failed to decode request body: %w", err)) //nolint:wrapcheck
	}

	return nil
}

func ValidateStruct[T any](data *T) error {
	if err := validate.Struct(data); err != nil {
		return failure.BadRequestFromString(message(err)) //nolint:wrapcheck
	}

	return nil
}
