package validator

import (
	"zoo/pkg/logger"
	"zoo/pkg/model"
	"zoo/pkg/validation"
)

type AnimalValidator struct {
	validate *validation.Validator
}

func NewAnimalValidator(log *logger.Logger) *AnimalValidator {
	return &AnimalValidator{validate: validation.New(log)}
}

func (v *AnimalValidator) ValidateCreate(in *model.AnimalCreate) error {
	return v.validate.Struct(in, nil)
}

func (v *AnimalValidator) ValidateUpdate(in *model.AnimalUpdate) error {
	return v.validate.Struct(in, nil)
}

func (v *AnimalValidator) ValidateFilter(f *model.AnimalFilter) error {
	return v.validate.Struct(f, nil)
}
