package testutil

import (
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"

	"zoo/pkg/client"
)

func unique() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

func ValidAnimal() map[string]any {
	return map[string]any{
		"name":          "Raja",
		"species":       "Bengal Tiger",
		"date_of_birth": "2018-04-12",
		"gender":        "Male",
		"arrival_date":  "2020-01-05",
		"enclosure": map[string]any{
			"name": "Tiger Ridge",
			"type": "Safari",
		},
	}
}

func ValidVisitor(age int) map[string]any {
	return map[string]any{
		"name":        "Visitor " + unique(),
		"age":         age,
		"email":       "visitor-" + unique() + "@zoo.test",
		"nationality": "Indian",
	}
}

func ValidStaff(role, password string) map[string]any {
	return map[string]any{
		"employeeId": "EMP-" + unique(),
		"firstName":  "Asha",
		"lastName":   "Rao",
		"email":      "staff-" + unique() + "@zoo.test",
		"password":   password,
		"phone":      "9876543210",
		"role":       role,
		"department": "Visitor Services",
		"hireDate":   "2023-06-01",
		"shift": map[string]any{
			"startTime": "09:00",
			"endTime":   "17:00",
			"workDays":  []string{"Monday", "Tuesday"},
		},
		"emergencyContact": map[string]any{
			"name":         "Ravi Rao",
			"phone":        "9876500000",
			"relationship": "Brother",
		},
	}
}

func ValidTicket(visitorIDs ...string) map[string]any {
	return map[string]any{
		"visitorId":     visitorIDs,
		"enclosureType": "Safari",
		"priceCategory": "Adult",
		"priceAmount":   250,
	}
}

func AssertStatusCode(t *testing.T, resp *client.Response, expected int) {
	t.Helper()
	if resp.StatusCode != expected {
		t.Fatalf("expected status %d, got %d: %s", expected, resp.StatusCode, resp.ToString())
	}
}

// MustCreate posts body and returns the created resource's id.
func MustCreate(t *testing.T, zoo *client.ZooClient, resource string, body any) string {
	t.Helper()
	resp, err := zoo.Create(resource, body)
	if err != nil {
		t.Fatalf("create %s: %v", resource, err)
	}
	AssertStatusCode(t, resp, http.StatusCreated)

	created, err := client.DecodeData[struct {
		ID string `json:"id"`
	}](resp)
	if err != nil {
		t.Fatal(err)
	}
	return created.ID
}
