package validator

import (
	"zoo/pkg/logger"
	"zoo/pkg/model"
	"zoo/pkg/validation"
)

var messages = validation.Messages{
	"visitorId:required": "at least one visitor ID required",
	"visitorId:min":      "at least one visitor ID required",
	"visitorId:max":      "A ticket can cover at most 10 visitors",
}

type TicketValidator struct {
	validate *validation.Validator
}

func NewTicketValidator(log *logger.Logger) *TicketValidator {
	return &TicketValidator{validate: validation.New(log)}
}

func (v *TicketValidator) ValidateCreate(in *model.TicketCreate) error {
	return v.validate.Struct(in, messages)
}

func (v *TicketValidator) ValidateUpdate(in *model.TicketUpdate) error {
	return v.validate.Struct(in, messages)
}

func (v *TicketValidator) ValidateFilter(f *model.TicketFilter) error {
	return v.validate.Struct(f, nil)
}
