package validator

import (
	"zoo/pkg/logger"
	"zoo/pkg/model"
	"zoo/pkg/validation"
)

var messages = validation.Messages{
	"email:required":    "Email is required",
	"email:email":       "Email must be a valid email address",
	"password:required": "Password is required",
}

type AuthValidator struct {
	validate *validation.Validator
}

func NewAuthValidator(log *logger.Logger) *AuthValidator {
	return &AuthValidator{validate: validation.New(log)}
}

func (v *AuthValidator) ValidateLogin(in *model.LoginRequest) error {
	return v.validate.Struct(in, messages)
}
