package tax

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// ValidationError reports the first input that fails validation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

var inputValidator = newInputValidator()

func newInputValidator() *validator.Validate {
	v := validator.New()

	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.InexactFloat64()
		}
		return nil
	}, decimal.Decimal{})

	v.RegisterStructValidation(func(sl validator.StructLevel) {
		claims := sl.Current().Interface().(HomeOfficeClaims)

		if claims.Enabled && claims.TotalArea.IsPositive() && claims.OfficeArea.GreaterThan(claims.TotalArea) {
			sl.ReportError(claims.OfficeArea, "OfficeArea", "OfficeArea", "office_area", "")
		}
	}, HomeOfficeClaims{})

	return v
}

// Validate rejects negative amounts, negative counts, unknown age categories
// and an office area larger than the total home area.
func Validate(in Input) error {
	if !in.AgeCategory.Valid() {
		return &ValidationError{Field: "AgeCategory", Reason: "unknown age category"}
	}

	err := inputValidator.Struct(in)
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return err
	}

	fe := errs[0]

	reason := "is invalid"
	switch fe.Tag() {
	case "gte":
		reason = "must not be negative"
	case "office_area":
		reason = "office area exceeds total area"
	}

	return &ValidationError{
		Field:  strings.TrimPrefix(fe.Namespace(), "Input."),
		Reason: reason,
	}
}
