package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPage_TotalPages(t *testing.T) {
	tests := []struct {
		name      string
		total     int64
		req       PageRequest
		wantPages int
		wantNext  bool
		wantPrev  bool
	}{
		{"exact multiple", 20, PageRequest{Page: 1, Limit: 10}, 2, true, false},
		{"rounds up", 12, PageRequest{Page: 2, Limit: 5}, 3, true, true},
		{"last page", 12, PageRequest{Page: 3, Limit: 5}, 3, false, true},
		{"empty", 0, PageRequest{Page: 1, Limit: 10}, 0, false, false},
		{"single partial page", 3, PageRequest{Page: 1, Limit: 10}, 1, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := NewPage[int]("items", nil, tt.total, tt.req)
			assert.Equal(t, tt.wantPages, page.Pagination.TotalPages)
			assert.Equal(t, tt.wantNext, page.Pagination.HasNext)
			assert.Equal(t, tt.wantPrev, page.Pagination.HasPrev)
			assert.Equal(t, tt.total, page.Pagination.TotalCount)
			assert.NotNil(t, page.Items)
		})
	}
}

func TestPage_MarshalJSONUsesResourceKey(t *testing.T) {
	page := NewPage("animals", []*Animal{{Name: "Leo"}}, 1, PageRequest{Page: 1, Limit: 10})

	raw, err := json.Marshal(page)
	require.NoError(t, err)

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Contains(t, decoded, "animals")
	assert.Contains(t, decoded, "pagination")

	var pagination Pagination
	require.NoError(t, json.Unmarshal(decoded["pagination"], &pagination))
	assert.Equal(t, 1, pagination.CurrentPage)
	assert.Equal(t, 1, pagination.TotalPages)
}

func TestPageRequest_Skip(t *testing.T) {
	assert.Equal(t, int64(5), PageRequest{Page: 2, Limit: 5}.Skip())
	assert.Equal(t, int64(0), PageRequest{Page: 1, Limit: 5}.Skip())
	assert.Equal(t, int64(0), PageRequest{Page: 0, Limit: 5}.Skip())
}

func TestAgeGroupFor(t *testing.T) {
	assert.Equal(t, AgeGroupChild, AgeGroupFor(0))
	assert.Equal(t, AgeGroupChild, AgeGroupFor(11))
	assert.Equal(t, AgeGroupAdult, AgeGroupFor(12))
	assert.Equal(t, AgeGroupAdult, AgeGroupFor(80))
}

func TestVisitorCreate_ToVisitorDefaults(t *testing.T) {
	age := 8
	v := (&VisitorCreate{Name: "Asha Rao", Age: &age, Email: "asha@example.com"}).ToVisitor()

	assert.Equal(t, AgeGroupChild, v.AgeGroup)
	assert.Equal(t, NationalityIndian, v.Nationality)
	assert.Equal(t, 0, v.TotalVisits)
}

func TestAnimalCreate_DefaultHealthStatus(t *testing.T) {
	a := (&AnimalCreate{Name: "Leo", Species: "Lion"}).ToAnimal()
	assert.Equal(t, HealthHealthy, a.HealthStatus)
}

func TestStaffRecord_ViewHasNoSecrets(t *testing.T) {
	record := &StaffRecord{
		ID:               "665f1c2b9d3e4a0012345678",
		Email:            "vet@zoo.org",
		PasswordHash:     "$2a$10$hash",
		RefreshTokenHash: "deadbeef",
	}

	raw, err := json.Marshal(record.View())
	require.NoError(t, err)

	body := string(raw)
	assert.NotContains(t, body, "password")
	assert.NotContains(t, body, "refreshToken")
	assert.NotContains(t, body, "$2a$10$hash")
	assert.Contains(t, body, `"permissions":[]`)
}

func TestTicket_Usable(t *testing.T) {
	now := time.Now()
	active := &Ticket{Status: TicketActive, ExpiresAt: now.Add(time.Hour)}
	expired := &Ticket{Status: TicketActive, ExpiresAt: now.Add(-time.Minute)}
	used := &Ticket{Status: TicketUsed, ExpiresAt: now.Add(time.Hour)}

	assert.True(t, active.Usable(now))
	assert.False(t, expired.Usable(now))
	assert.False(t, used.Usable(now))
}

func TestObjectIDs(t *testing.T) {
	ids, err := ObjectIDs([]string{"665f1c2b9d3e4a0012345678"})
	require.NoError(t, err)
	assert.Len(t, ids, 1)

	_, err = ObjectIDs([]string{"not-an-id"})
	assert.Error(t, err)
}
