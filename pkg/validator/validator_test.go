package validator

import (
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type color string

func (c color) IsValid() bool { return c == "red" || c == "blue" }

type day struct{ t time.Time }

type sample struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"omitempty,email"`
	Color color  `json:"color" validate:"required,enum"`
	Day   day    `json:"day" validate:"required"`
}

func dayFunc() TypeFunc {
	return TypeFunc{
		Fn: func(v reflect.Value) interface{} {
			d := v.Interface().(day)
			if d.t.IsZero() {
				return ""
			}
			return d.t.Format(time.DateOnly)
		},
		Types: []interface{}{day{}},
	}
}

func TestValidateCollectsFieldErrors(t *testing.T) {
	v := New(dayFunc())

	err := v.Validate(sample{Email: "nope", Color: "green"})
	require.Error(t, err)

	var fe *FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, []string{
		"name is required",
		"email must be a valid email",
		`color has an invalid value "green"`,
		"day is required",
	}, fe.Messages)
}

func TestValidatePasses(t *testing.T) {
	v := New(dayFunc())
	err := v.Validate(sample{Name: "Ana", Color: "red", Day: day{t: time.Now()}})
	assert.NoError(t, err)
}
