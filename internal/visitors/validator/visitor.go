package validator

import (
	"zoo/pkg/logger"
	"zoo/pkg/model"
	"zoo/pkg/validation"
)

var messages = validation.Messages{
	"name:min":      "Name must be at least 3 characters long",
	"phone:phone10": "Phone number must be exactly 10 digits",
}

type VisitorValidator struct {
	validate *validation.Validator
}

func NewVisitorValidator(log *logger.Logger) *VisitorValidator {
	return &VisitorValidator{validate: validation.New(log)}
}

func (v *VisitorValidator) ValidateCreate(in *model.VisitorCreate) error {
	return v.validate.Struct(in, messages)
}

func (v *VisitorValidator) ValidateUpdate(in *model.VisitorUpdate) error {
	return v.validate.Struct(in, messages)
}

func (v *VisitorValidator) ValidateFilter(f *model.VisitorFilter) error {
	return v.validate.Struct(f, nil)
}
