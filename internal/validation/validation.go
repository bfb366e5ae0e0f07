// Package validation builds the validator used by every form in cantinho.
package validation

import (
	"reflect"
	"regexp"
	"strings"

	"cantinho/internal/money"
	"cantinho/internal/schedule"

	"github.com/go-playground/validator/v10"
)

var phonePattern = regexp.MustCompile(`^[\d\s()+-]+$`)

// New returns a validator that reports JSON field names and knows the
// domain tags: phone, weekday and slot_start. Money fields validate as floats,
// so `gt=0` works on them.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if m, ok := field.Interface().(money.Money); ok {
			return m.InexactFloat64()
		}
		return nil
	}, money.Money{})

	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("weekday", func(fl validator.FieldLevel) bool {
		return schedule.DayOfWeek(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("slot_start", func(fl validator.FieldLevel) bool {
		return schedule.IsAllowedStart(fl.Field().String())
	})

	return v
}
