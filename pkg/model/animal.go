package model

import "time"

const (
	GenderMale   = "Male"
	GenderFemale = "Female"

	HealthHealthy           = "Healthy"
	HealthUnderObservation  = "Under Observation"
	HealthRequiresAttention = "Requires Attention"

	EnclosureSafari        = "Safari"
	EnclosureBirdSanctuary = "Bird Sanctuary"
	EnclosureReptileHouse  = "Reptile House"
)

type Enclosure struct {
	Name     string `json:"name" bson:"name" validate:"required,min=1,max=100"`
	Type     string `json:"type" bson:"type" validate:"required,oneof=Safari 'Bird Sanctuary' 'Reptile House'"`
	Location string `json:"location,omitempty" bson:"location,omitempty" validate:"omitempty,max=200"`
}

type Animal struct {
	ID            string     `json:"id,omitempty" bson:"_id,omitempty"`
	Name          string     `json:"name" bson:"name"`
	Species       string     `json:"species" bson:"species"`
	DateOfBirth   string     `json:"date_of_birth" bson:"date_of_birth"`
	Gender        string     `json:"gender" bson:"gender"`
	HealthStatus  string     `json:"health_status" bson:"health_status"`
	ImageURL      string     `json:"imageUrl,omitempty" bson:"imageUrl,omitempty"`
	ImagePublicID string     `json:"-" bson:"imagePublicId,omitempty"`
	Description   string     `json:"description,omitempty" bson:"description,omitempty"`
	ArrivalDate   string     `json:"arrival_date" bson:"arrival_date"`
	Enclosure     *Enclosure `json:"enclosure,omitempty" bson:"enclosure,omitempty"`
	CreatedAt     time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt" bson:"updatedAt"`
}

type AnimalCreate struct {
	Name         string     `json:"name" validate:"required,min=1,max=100"`
	Species      string     `json:"species" validate:"required,min=1,max=100"`
	DateOfBirth  string     `json:"date_of_birth" validate:"required,isodate"`
	Gender       string     `json:"gender" validate:"required,oneof=Male Female"`
	HealthStatus string     `json:"health_status" validate:"omitempty,oneof=Healthy 'Under Observation' 'Requires Attention'"`
	ImageURL     string     `json:"imageUrl" validate:"omitempty,url"`
	Description  string     `json:"description" validate:"omitempty,max=2000"`
	ArrivalDate  string     `json:"arrival_date" validate:"required,datetime=2006-01-02"`
	Enclosure    *Enclosure `json:"enclosure" validate:"omitempty"`
}

func (c *AnimalCreate) ToAnimal() *Animal {
	status := c.HealthStatus
	if status == "" {
		status = HealthHealthy
	}
	return &Animal{
		Name:         c.Name,
		Species:      c.Species,
		DateOfBirth:  c.DateOfBirth,
		Gender:       c.Gender,
		HealthStatus: status,
		ImageURL:     c.ImageURL,
		Description:  c.Description,
		ArrivalDate:  c.ArrivalDate,
		Enclosure:    c.Enclosure,
	}
}

// AnimalUpdate is a partial update: nil fields are left untouched.
type AnimalUpdate struct {
	Name          *string    `json:"name" bson:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Species       *string    `json:"species" bson:"species,omitempty" validate:"omitempty,min=1,max=100"`
	DateOfBirth   *string    `json:"date_of_birth" bson:"date_of_birth,omitempty" validate:"omitempty,isodate"`
	Gender        *string    `json:"gender" bson:"gender,omitempty" validate:"omitempty,oneof=Male Female"`
	HealthStatus  *string    `json:"health_status" bson:"health_status,omitempty" validate:"omitempty,oneof=Healthy 'Under Observation' 'Requires Attention'"`
	ImageURL      *string    `json:"imageUrl" bson:"imageUrl,omitempty" validate:"omitempty,url"`
	ImagePublicID *string    `json:"-" bson:"imagePublicId,omitempty"`
	Description   *string    `json:"description" bson:"description,omitempty" validate:"omitempty,max=2000"`
	ArrivalDate   *string    `json:"arrival_date" bson:"arrival_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Enclosure     *Enclosure `json:"enclosure" bson:"enclosure,omitempty" validate:"omitempty"`
}

// DropEmptyEnums treats an empty enum string as absent.
func (u *AnimalUpdate) DropEmptyEnums() {
	if u.Gender != nil && *u.Gender == "" {
		u.Gender = nil
	}
	if u.HealthStatus != nil && *u.HealthStatus == "" {
		u.HealthStatus = nil
	}
}

type AnimalFilter struct {
	Species       string `json:"species" validate:"omitempty,max=100"`
	Name          string `json:"name" validate:"omitempty,max=100"`
	Gender        string `json:"gender" validate:"omitempty,oneof=Male Female"`
	HealthStatus  string `json:"health_status" validate:"omitempty,oneof=Healthy 'Under Observation' 'Requires Attention'"`
	EnclosureType string `json:"enclosureType" validate:"omitempty,oneof=Safari 'Bird Sanctuary' 'Reptile House'"`
}
