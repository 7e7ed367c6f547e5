package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "zoo/pkg/errors"
	"zoo/pkg/logger"
	"zoo/pkg/model"
)

func price(v float64) *float64 { return &v }

func validTicket() *model.TicketCreate {
	return &model.TicketCreate{
		VisitorIDs:    []string{"65f1c0a2e4b0a1b2c3d4e5f6"},
		EnclosureType: model.EnclosureSafari,
		PriceCategory: model.PriceAdult,
		PriceAmount:   price(250),
	}
}

func TestValidateCreate(t *testing.T) {
	v := NewTicketValidator(logger.Discard())

	eleven := make([]string, 11)
	for i := range eleven {
		eleven[i] = "65f1c0a2e4b0a1b2c3d4e5f6"
	}

	tests := []struct {
		name    string
		modify  func(*model.TicketCreate)
		wantErr bool
	}{
		{"valid", func(*model.TicketCreate) {}, false},
		{"free ticket", func(c *model.TicketCreate) { c.PriceAmount = price(0) }, false},
		{"missing price", func(c *model.TicketCreate) { c.PriceAmount = nil }, true},
		{"negative price", func(c *model.TicketCreate) { c.PriceAmount = price(-1) }, true},
		{"no visitors", func(c *model.TicketCreate) { c.VisitorIDs = []string{} }, true},
		{"too many visitors", func(c *model.TicketCreate) { c.VisitorIDs = eleven }, true},
		{"bad visitor id", func(c *model.TicketCreate) { c.VisitorIDs = []string{"abc"} }, true},
		{"bad enclosure", func(c *model.TicketCreate) { c.EnclosureType = "Premium" }, true},
		{"bad category", func(c *model.TicketCreate) { c.PriceCategory = "Senior" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validTicket()
			tt.modify(c)
			err := v.ValidateCreate(c)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCreate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateCreate_VisitorLimitMessage(t *testing.T) {
	v := NewTicketValidator(logger.Discard())

	c := validTicket()
	c.VisitorIDs = make([]string, 11)
	for i := range c.VisitorIDs {
		c.VisitorIDs[i] = "65f1c0a2e4b0a1b2c3d4e5f6"
	}

	err := v.ValidateCreate(c)
	require.Error(t, err)
	fields := apperrors.AsAppError(err).Fields
	require.Len(t, fields, 1)
	assert.Equal(t, "visitorId", fields[0].Path)
	assert.Equal(t, "A ticket can cover at most 10 visitors", fields[0].Message)
}

func TestValidateCreate_EmptyVisitorsMessage(t *testing.T) {
	v := NewTicketValidator(logger.Discard())

	for _, ids := range [][]string{nil, {}} {
		c := validTicket()
		c.VisitorIDs = ids

		err := v.ValidateCreate(c)
		require.Error(t, err)
		fields := apperrors.AsAppError(err).Fields
		require.Len(t, fields, 1)
		assert.Equal(t, "visitorId", fields[0].Path)
		assert.Equal(t, "at least one visitor ID required", fields[0].Message)
	}
}

func TestValidateUpdate(t *testing.T) {
	v := NewTicketValidator(logger.Discard())

	status := "Lost"
	assert.Error(t, v.ValidateUpdate(&model.TicketUpdate{Status: &status}))

	status = model.TicketCancelled
	assert.NoError(t, v.ValidateUpdate(&model.TicketUpdate{Status: &status}))
}
