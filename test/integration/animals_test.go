package integration

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zoo/pkg/client"
	"zoo/pkg/model"
	"zoo/test/integration/testutil"
)

func TestAnimals_Lifecycle(t *testing.T) {
	env := testutil.NewTestEnv(t)
	_, zoo := env.Setup(t)

	id := testutil.MustCreate(t, zoo, "animals", testutil.ValidAnimal())

	resp, err := zoo.Get("animals", id)
	require.NoError(t, err)
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	animal, err := client.DecodeData[model.Animal](resp)
	require.NoError(t, err)
	assert.Equal(t, model.HealthHealthy, animal.HealthStatus)

	resp, err = zoo.Update("animals", id, map[string]any{"health_status": "Under Observation"})
	require.NoError(t, err)
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	animal, err = client.DecodeData[model.Animal](resp)
	require.NoError(t, err)
	assert.Equal(t, model.HealthUnderObservation, animal.HealthStatus)
	assert.Equal(t, "Raja", animal.Name)

	resp, err = zoo.List("animals", url.Values{"species": {"tiger"}, "enclosureType": {"Safari"}})
	require.NoError(t, err)
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	items, pagination, err := client.DecodePage[model.Animal](resp, "animals")
	require.NoError(t, err)
	assert.NotEmpty(t, items)
	assert.Equal(t, 1, pagination.CurrentPage)

	resp, err = zoo.Delete("animals", id)
	require.NoError(t, err)
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	resp, err = zoo.Get("animals", id)
	require.NoError(t, err)
	testutil.AssertStatusCode(t, resp, http.StatusNotFound)
}

func TestAnimals_ValidationErrors(t *testing.T) {
	env := testutil.NewTestEnv(t)
	_, zoo := env.Setup(t)

	body := testutil.ValidAnimal()
	body["gender"] = "Unknown"
	delete(body, "species")

	resp, err := zoo.Create("animals", body)
	require.NoError(t, err)
	testutil.AssertStatusCode(t, resp, http.StatusBadRequest)

	var envelope struct {
		Success bool `json:"success"`
		Code    string
		Errors  []struct {
			Path string `json:"path"`
		} `json:"errors"`
	}
	require.NoError(t, resp.DecodeJSON(&envelope))
	assert.False(t, envelope.Success)
	assert.Equal(t, "VALIDATION_ERROR", envelope.Code)

	paths := make([]string, 0, len(envelope.Errors))
	for _, e := range envelope.Errors {
		paths = append(paths, e.Path)
	}
	assert.ElementsMatch(t, []string{"species", "gender"}, paths)

	resp, err = zoo.Get("animals", "not-an-id")
	require.NoError(t, err)
	testutil.AssertStatusCode(t, resp, http.StatusBadRequest)
}
