package validation_test

import (
	"errors"
	"testing"

	"cantinho/internal/money"
	"cantinho/internal/validation"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type form struct {
	Phone string      `json:"telefone" validate:"required,phone"`
	Day   string      `json:"dia" validate:"required,weekday"`
	Start string      `json:"inicio" validate:"required,slot_start"`
	Fee   money.Money `json:"valor" validate:"gt=0"`
}

func TestValidator_DomainTags(t *testing.T) {
	v := validation.New()

	ok := form{Phone: "(11) 98765-4321", Day: "SEXTA", Start: "14:00", Fee: money.MustParse("150")}
	require.NoError(t, v.Struct(ok))

	bad := form{Phone: "call me", Day: "FRIDAY", Start: "14:30", Fee: money.Zero}
	err := v.Struct(bad)
	require.Error(t, err)

	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))

	fields := map[string]string{}
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Tag()
	}
	assert.Equal(t, map[string]string{
		"telefone": "phone",
		"dia":      "weekday",
		"inicio":   "slot_start",
		"valor":    "gt",
	}, fields)
}
