package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type hours struct {
	Start string `json:"start" validate:"required,hhmm"`
	End   string `json:"end" validate:"required,hhmm"`
}

type sample struct {
	Name  string   `json:"name" validate:"required,max=5"`
	Email string   `json:"email" validate:"omitempty,email"`
	Role  string   `json:"role" validate:"oneof=barber admin"`
	Days  []*hours `json:"days" validate:"dive,omitempty"`
	Price float64  `json:"price" validate:"gte=0"`
}

func TestStruct_Valid(t *testing.T) {
	v := New()

	err := v.Struct(sample{
		Name: "Ana",
		Role: "barber",
		Days: []*hours{{Start: "09:00", End: "18:00"}, nil},
	})
	assert.NoError(t, err)
}

func TestStruct_FieldErrors(t *testing.T) {
	v := New()

	err := v.Struct(sample{
		Name:  "Too long name",
		Email: "not-an-email",
		Role:  "owner",
		Days:  []*hours{{Start: "9h", End: "18:00"}},
		Price: -1,
	})
	require.Error(t, err)

	var fieldErrs FieldErrors
	require.ErrorAs(t, err, &fieldErrs)

	got := map[string]string{}
	for _, fe := range fieldErrs {
		got[fe.Field] = fe.Message
	}
	assert.Equal(t, "must be at most 5 characters long", got["name"])
	assert.Equal(t, "must be a valid email", got["email"])
	assert.Equal(t, "must be one of: barber admin", got["role"])
	assert.Equal(t, "must be in HH:MM format", got["days[0].start"])
	assert.Equal(t, "must be greater than or equal to 0", got["price"])
}

func TestStruct_RequiredMessage(t *testing.T) {
	v := New()

	err := v.Struct(sample{Role: "admin"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name: is required")
}
