package validator

import (
	"zoo/pkg/auth"
	"zoo/pkg/logger"
	"zoo/pkg/model"
	"zoo/pkg/validation"
)

var messages = validation.Messages{
	"password:min":         "Password must be at least 8 characters long",
	"shift.startTime:hhmm": "Start time must be in HH:MM format",
	"shift.endTime:hhmm":   "End time must be in HH:MM format",
}

type StaffValidator struct {
	validate *validation.Validator
}

func NewStaffValidator(log *logger.Logger) *StaffValidator {
	v := validation.New(log)
	if err := v.RegisterValidation("permission", auth.IsKnownPermission); err != nil {
		log.Fatal("Failed to register validator", "tag", "permission", "error", err)
	}
	return &StaffValidator{validate: v}
}

func (v *StaffValidator) ValidateCreate(in *model.StaffCreate) error {
	return v.validate.Struct(in, messages)
}

func (v *StaffValidator) ValidateUpdate(in *model.StaffUpdate) error {
	return v.validate.Struct(in, messages)
}

func (v *StaffValidator) ValidateFilter(f *model.StaffFilter) error {
	return v.validate.Struct(f, nil)
}
