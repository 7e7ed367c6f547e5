package validator

import (
	"testing"

	"zoo/pkg/logger"
	"zoo/pkg/model"
)

func validAnimal() *model.AnimalCreate {
	return &model.AnimalCreate{
		Name:        "Leo",
		Species:     "Lion",
		DateOfBirth: "2018-04-12",
		Gender:      model.GenderMale,
		ArrivalDate: "2019-01-05",
		Enclosure: &model.Enclosure{
			Name: "Savannah",
			Type: model.EnclosureSafari,
		},
	}
}

func strPtr(s string) *string { return &s }

func TestValidateCreate(t *testing.T) {
	v := NewAnimalValidator(logger.Discard())

	tests := []struct {
		name    string
		modify  func(*model.AnimalCreate)
		wantErr bool
	}{
		{"valid", func(*model.AnimalCreate) {}, false},
		{"missing name", func(a *model.AnimalCreate) { a.Name = "" }, true},
		{"bad gender", func(a *model.AnimalCreate) { a.Gender = "Unknown" }, true},
		{"bad health status", func(a *model.AnimalCreate) { a.HealthStatus = "Sick" }, true},
		{"health status with spaces", func(a *model.AnimalCreate) { a.HealthStatus = model.HealthRequiresAttention }, false},
		{"missing arrival date", func(a *model.AnimalCreate) { a.ArrivalDate = "" }, true},
		{"bad arrival date", func(a *model.AnimalCreate) { a.ArrivalDate = "05/01/2019" }, true},
		{"timestamp date of birth", func(a *model.AnimalCreate) { a.DateOfBirth = "2018-04-12T00:00:00Z" }, false},
		{"bad enclosure type", func(a *model.AnimalCreate) { a.Enclosure.Type = "Aquarium" }, true},
		{"enclosure type with spaces", func(a *model.AnimalCreate) { a.Enclosure.Type = model.EnclosureReptileHouse }, false},
		{"no enclosure", func(a *model.AnimalCreate) { a.Enclosure = nil }, false},
		{"bad image url", func(a *model.AnimalCreate) { a.ImageURL = "not a url" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := validAnimal()
			tt.modify(a)
			err := v.ValidateCreate(a)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCreate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateUpdate(t *testing.T) {
	v := NewAnimalValidator(logger.Discard())

	if err := v.ValidateUpdate(&model.AnimalUpdate{}); err != nil {
		t.Errorf("empty update should be valid, got %v", err)
	}
	if err := v.ValidateUpdate(&model.AnimalUpdate{Name: strPtr("Simba")}); err != nil {
		t.Errorf("partial update should be valid, got %v", err)
	}
	if err := v.ValidateUpdate(&model.AnimalUpdate{Gender: strPtr("Other")}); err == nil {
		t.Error("expected error for invalid gender")
	}
}

func TestValidateFilter(t *testing.T) {
	v := NewAnimalValidator(logger.Discard())

	if err := v.ValidateFilter(&model.AnimalFilter{Species: "lion"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := v.ValidateFilter(&model.AnimalFilter{Gender: "x"}); err == nil {
		t.Error("expected error for invalid gender filter")
	}
}
