package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	TicketActive    = "Active"
	TicketUsed      = "Used"
	TicketExpired   = "Expired"
	TicketCancelled = "Cancelled"

	PriceAdult = "Adult"
	PriceChild = "Child"

	MaxVisitorsPerTicket = 10
)

type Ticket struct {
	ID            string               `json:"id,omitempty" bson:"_id,omitempty"`
	VisitorIDs    []primitive.ObjectID `json:"visitorId" bson:"visitorId"`
	EnclosureType string               `json:"enclosureType" bson:"enclosureType"`
	PriceCategory string               `json:"priceCategory" bson:"priceCategory"`
	PriceAmount   float64              `json:"priceAmount" bson:"priceAmount"`
	IssuedAt      time.Time            `json:"issuedAt" bson:"issuedAt"`
	ExpiresAt     time.Time            `json:"expiresAt" bson:"expiresAt"`
	Status        string               `json:"status" bson:"status"`
	EntryTime     *time.Time           `json:"entryTime" bson:"entryTime"`
	ExitTime      *time.Time           `json:"exitTime" bson:"exitTime"`
	CreatedAt     time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt" bson:"updatedAt"`
}

// Usable reports whether the ticket can still be used for entry at now.
func (t *Ticket) Usable(now time.Time) bool {
	return t.Status == TicketActive && now.Before(t.ExpiresAt)
}

type TicketCreate struct {
	VisitorIDs    []string   `json:"visitorId" validate:"required,min=1,max=10,dive,mongodb"`
	EnclosureType string     `json:"enclosureType" validate:"required,oneof=Safari 'Bird Sanctuary' 'Reptile House'"`
	PriceCategory string     `json:"priceCategory" validate:"required,oneof=Adult Child"`
	PriceAmount   *float64   `json:"priceAmount" validate:"required,min=0"`
	ExpiresAt     *time.Time `json:"expiresAt"`
}

type TicketUpdate struct {
	VisitorIDs       []string              `json:"visitorId" bson:"-" validate:"omitempty,min=1,max=10,dive,mongodb"`
	VisitorObjectIDs *[]primitive.ObjectID `json:"-" bson:"visitorId,omitempty"`
	EnclosureType    *string               `json:"enclosureType" bson:"enclosureType,omitempty" validate:"omitempty,oneof=Safari 'Bird Sanctuary' 'Reptile House'"`
	PriceCategory    *string               `json:"priceCategory" bson:"priceCategory,omitempty" validate:"omitempty,oneof=Adult Child"`
	PriceAmount      *float64              `json:"priceAmount" bson:"priceAmount,omitempty" validate:"omitempty,min=0"`
	Status           *string               `json:"status" bson:"status,omitempty" validate:"omitempty,oneof=Active Used Expired Cancelled"`
	ExpiresAt        *time.Time            `json:"expiresAt" bson:"expiresAt,omitempty"`
	EntryTime        *time.Time            `json:"entryTime" bson:"entryTime,omitempty"`
	ExitTime         *time.Time            `json:"exitTime" bson:"exitTime,omitempty"`
}

type TicketFilter struct {
	EnclosureType string `json:"enclosureType" validate:"omitempty,max=50"`
	Status        string `json:"status" validate:"omitempty,max=20"`
	PriceCategory string `json:"priceCategory" validate:"omitempty,oneof=Adult Child"`
	VisitorID     string `json:"visitorId" validate:"omitempty,mongodb"`
	SortBy        string `json:"sortBy" validate:"omitempty,oneof=createdAt issuedAt expiresAt priceAmount status"`
	Order         string `json:"order" validate:"omitempty,oneof=asc desc"`
}

func ObjectIDs(hexes []string) ([]primitive.ObjectID, error) {
	ids := make([]primitive.ObjectID, 0, len(hexes))
	for _, h := range hexes {
		id, err := primitive.ObjectIDFromHex(h)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
