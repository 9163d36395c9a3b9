package model

import (
	"reflect"

	"github.com/google/uuid"

	apperrors "github.com/jwalitptl/clinic-records/pkg/errors"
	"github.com/jwalitptl/clinic-records/pkg/validator"
)

var validate = validator.New(
	validator.TypeFunc{
		Fn: func(v reflect.Value) interface{} {
			return v.Interface().(Date).String()
		},
		Types: []interface{}{Date{}},
	},
	validator.TypeFunc{
		Fn: func(v reflect.Value) interface{} {
			id := v.Interface().(uuid.UUID)
			if id == uuid.Nil {
				return ""
			}
			return id.String()
		},
		Types: []interface{}{uuid.UUID{}},
	},
)

func check(entity string, v interface{}) error {
	if err := validate.Validate(v); err != nil {
		return apperrors.BadRequest("invalid "+entity, err)
	}
	return nil
}
