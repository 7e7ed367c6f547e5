package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "zoo/pkg/errors"
	"zoo/pkg/logger"
)

type shift struct {
	StartTime string   `json:"startTime" validate:"required,hhmm"`
	WorkDays  []string `json:"workDays" validate:"required,min=1,dive,weekday"`
}

type sample struct {
	Name    string   `json:"name" validate:"required,min=3"`
	Age     *int     `json:"age" validate:"required,min=0,max=150"`
	Born    string   `json:"born" validate:"omitempty,isodate"`
	Phone   string   `json:"phone" validate:"omitempty,phone10"`
	Shift   shift    `json:"shift"`
	Visitor []string `json:"visitorId" validate:"required,min=1"`
}

func intPtr(v int) *int { return &v }

func validSample() *sample {
	return &sample{
		Name:    "Leo",
		Age:     intPtr(30),
		Born:    "2020-01-31",
		Phone:   "9876543210",
		Shift:   shift{StartTime: "08:30", WorkDays: []string{"Monday"}},
		Visitor: []string{"x"},
	}
}

func fieldPaths(t *testing.T, err error) map[string]apperrors.FieldError {
	t.Helper()
	appErr := apperrors.AsAppError(err)
	require.Equal(t, apperrors.CodeValidation, appErr.Code)
	out := make(map[string]apperrors.FieldError, len(appErr.Fields))
	for _, f := range appErr.Fields {
		out[f.Path] = f
	}
	return out
}

func TestStruct_Valid(t *testing.T) {
	v := New(logger.Discard())
	assert.NoError(t, v.Struct(validSample(), nil))
}

func TestStruct_ItemizedErrors(t *testing.T) {
	v := New(logger.Discard())
	s := validSample()
	s.Name = ""
	s.Age = nil
	s.Shift.StartTime = "25:00"
	s.Shift.WorkDays = []string{"Funday"}

	err := v.Struct(s, nil)
	require.Error(t, err)
	assert.Equal(t, 400, apperrors.AsAppError(err).StatusCode())

	fields := fieldPaths(t, err)
	assert.Equal(t, "required", fields["name"].Code)
	assert.Equal(t, "required", fields["age"].Code)
	assert.Equal(t, "hhmm", fields["shift.startTime"].Code)
	assert.Equal(t, "weekday", fields["shift.workDays[0]"].Code)
}

func TestStruct_CustomMessage(t *testing.T) {
	v := New(logger.Discard())
	s := validSample()
	s.Visitor = []string{}

	err := v.Struct(s, Messages{"visitorId:min": "at least one visitor ID required"})
	fields := fieldPaths(t, err)
	assert.Equal(t, "at least one visitor ID required", fields["visitorId"].Message)
}

func TestStruct_Formats(t *testing.T) {
	v := New(logger.Discard())

	tests := []struct {
		name  string
		edit  func(*sample)
		field string
	}{
		{"rfc3339 date accepted", func(s *sample) { s.Born = "2020-01-31T10:00:00Z" }, ""},
		{"bad date", func(s *sample) { s.Born = "31/01/2020" }, "born"},
		{"short phone", func(s *sample) { s.Phone = "12345" }, "phone"},
		{"age over max", func(s *sample) { s.Age = intPtr(151) }, "age"},
		{"age zero allowed", func(s *sample) { s.Age = intPtr(0) }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSample()
			tt.edit(s)
			err := v.Struct(s, nil)
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, fieldPaths(t, err), tt.field)
		})
	}
}

func TestRegisterValidation(t *testing.T) {
	v := New(logger.Discard())
	require.NoError(t, v.RegisterValidation("lion", func(s string) bool { return s == "lion" }))

	type animal struct {
		Kind string `json:"kind" validate:"lion"`
	}
	assert.NoError(t, v.Struct(&animal{Kind: "lion"}, nil))
	assert.Error(t, v.Struct(&animal{Kind: "tiger"}, nil))
}
