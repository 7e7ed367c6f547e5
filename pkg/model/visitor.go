package model

import "time"

const (
	AgeGroupChild = "Child"
	AgeGroupAdult = "Adult"

	NationalityIndian    = "Indian"
	NationalityForeigner = "Foreigner"

	childAgeLimit = 12
)

// AgeGroupFor derives the visitor age group. It is the only source of ageGroup.
func AgeGroupFor(age int) string {
	if age < childAgeLimit {
		return AgeGroupChild
	}
	return AgeGroupAdult
}

type Visitor struct {
	ID           string    `json:"id,omitempty" bson:"_id,omitempty"`
	Name         string    `json:"name" bson:"name"`
	Age          int       `json:"age" bson:"age"`
	Email        string    `json:"email" bson:"email"`
	AgeGroup     string    `json:"ageGroup" bson:"ageGroup"`
	Nationality  string    `json:"nationality" bson:"nationality"`
	Phone        string    `json:"phone,omitempty" bson:"phone,omitempty"`
	RegisteredAt time.Time `json:"registeredAt" bson:"registeredAt"`
	TotalVisits  int       `json:"totalVisits" bson:"totalVisits"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updatedAt"`
}

// VisitorCreate has no ageGroup, registeredAt or totalVisits fields: the
// server owns them and any client value is dropped while decoding.
type VisitorCreate struct {
	Name        string `json:"name" validate:"required,min=3,max=100"`
	Age         *int   `json:"age" validate:"required,min=0,max=150"`
	Email       string `json:"email" validate:"required,email,max=254"`
	Nationality string `json:"nationality" validate:"omitempty,oneof=Indian Foreigner"`
	Phone       string `json:"phone" validate:"omitempty,phone10"`
}

func (c *VisitorCreate) ToVisitor() *Visitor {
	nationality := c.Nationality
	if nationality == "" {
		nationality = NationalityIndian
	}
	age := 0
	if c.Age != nil {
		age = *c.Age
	}
	return &Visitor{
		Name:        c.Name,
		Age:         age,
		Email:       c.Email,
		AgeGroup:    AgeGroupFor(age),
		Nationality: nationality,
		Phone:       c.Phone,
	}
}

type VisitorUpdate struct {
	Name        *string `json:"name" bson:"name,omitempty" validate:"omitempty,min=3,max=100"`
	Age         *int    `json:"age" bson:"age,omitempty" validate:"omitempty,min=0,max=150"`
	Email       *string `json:"email" bson:"email,omitempty" validate:"omitempty,email,max=254"`
	Nationality *string `json:"nationality" bson:"nationality,omitempty" validate:"omitempty,oneof=Indian Foreigner"`
	Phone       *string `json:"phone" bson:"phone,omitempty" validate:"omitempty,phone10"`
	AgeGroup    *string `json:"-" bson:"ageGroup,omitempty"`
}

type VisitorFilter struct {
	Name        string `json:"name" validate:"omitempty,max=100"`
	Email       string `json:"email" validate:"omitempty,max=254"`
	Nationality string `json:"nationality" validate:"omitempty,oneof=Indian Foreigner"`
	AgeGroup    string `json:"ageGroup" validate:"omitempty,oneof=Child Adult"`
	SortBy      string `json:"sortBy" validate:"omitempty,oneof=createdAt name age totalVisits registeredAt"`
	Order       string `json:"order" validate:"omitempty,oneof=asc desc"`
}
