package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	apperrors "zoo/pkg/errors"
	"zoo/pkg/logger"
)

const ValidationFailedMessage = "Input validation failed"

var (
	hhmmPattern    = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
	phone10Pattern = regexp.MustCompile(`^\d{10}$`)

	weekdays = map[string]struct{}{
		"Monday": {}, "Tuesday": {}, "Wednesday": {}, "Thursday": {},
		"Friday": {}, "Saturday": {}, "Sunday": {},
	}
)

// Messages overrides the default message for a failed rule. Keys are
// "<path>:<tag>", for example "visitorId:min".
type Messages map[string]string

// Validator wraps go-playground/validator with the custom tags shared by all
// resources and translates failures into itemized field errors.
type Validator struct {
	validate *validator.Validate
}

func New(log *logger.Logger) *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	custom := map[string]validator.Func{
		"hhmm":    validateHHMM,
		"weekday": validateWeekday,
		"isodate": validateISODate,
		"phone10": validatePhone10,
	}
	for tag, fn := range custom {
		if err := v.RegisterValidation(tag, fn); err != nil {
			log.Fatal("Failed to register validator", "tag", tag, "error", err)
		}
	}

	return &Validator{validate: v}
}

// RegisterValidation adds a resource specific rule.
func (v *Validator) RegisterValidation(tag string, fn func(value string) bool) error {
	return v.validate.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return fn(fl.Field().String())
	})
}

// Struct validates s and returns a 400 AppError listing every failed field.
func (v *Validator) Struct(s any, messages Messages) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return apperrors.InvalidInput(err.Error())
	}

	fields := make([]apperrors.FieldError, 0, len(validationErrs))
	for _, fe := range validationErrs {
		path := fieldPath(fe)
		message, ok := messages[path+":"+fe.Tag()]
		if !ok {
			message = defaultMessage(path, fe)
		}
		fields = append(fields, apperrors.FieldError{
			Path:    path,
			Message: message,
			Code:    fe.Tag(),
		})
	}

	return apperrors.Validation(ValidationFailedMessage, fields)
}

// fieldPath strips the root struct name: "AnimalCreate.enclosure.type"
// becomes "enclosure.type".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func defaultMessage(path string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", path)
	case "min":
		if isCollection(fe.Kind()) {
			return fmt.Sprintf("%s must contain at least %s item(s)", path, fe.Param())
		}
		if isNumber(fe.Kind()) {
			return fmt.Sprintf("%s must be at least %s", path, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s characters", path, fe.Param())
	case "max":
		if isCollection(fe.Kind()) {
			return fmt.Sprintf("%s must contain at most %s item(s)", path, fe.Param())
		}
		if isNumber(fe.Kind()) {
			return fmt.Sprintf("%s must be at most %s", path, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s characters", path, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", path, strings.ReplaceAll(fe.Param(), "'", ""))
	case "email":
		return fmt.Sprintf("%s must be a valid email address", path)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", path)
	case "mongodb":
		return fmt.Sprintf("%s must be a valid identifier", path)
	case "datetime", "isodate":
		return fmt.Sprintf("%s must be a valid date (YYYY-MM-DD)", path)
	case "hhmm":
		return fmt.Sprintf("%s must be in HH:MM 24-hour format", path)
	case "weekday":
		return fmt.Sprintf("%s must be a weekday name (Monday-Sunday)", path)
	case "phone10":
		return fmt.Sprintf("%s must be exactly 10 digits", path)
	case "permission":
		return fmt.Sprintf("%s is not a known permission", path)
	default:
		return fmt.Sprintf("%s failed the %s rule", path, fe.Tag())
	}
}

func isCollection(k reflect.Kind) bool {
	return k == reflect.Slice || k == reflect.Array || k == reflect.Map
}

func isNumber(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func validateHHMM(fl validator.FieldLevel) bool {
	return hhmmPattern.MatchString(fl.Field().String())
}

func validateWeekday(fl validator.FieldLevel) bool {
	_, ok := weekdays[fl.Field().String()]
	return ok
}

func validatePhone10(fl validator.FieldLevel) bool {
	return phone10Pattern.MatchString(fl.Field().String())
}

// validateISODate accepts a calendar date or a full RFC 3339 timestamp.
func validateISODate(fl validator.FieldLevel) bool {
	s := strings.TrimSpace(fl.Field().String())
	if _, err := time.Parse(time.DateOnly, s); err == nil {
		return true
	}
	_, err := time.Parse(time.RFC3339, s)
	return err == nil
}
