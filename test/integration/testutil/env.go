package testutil

import (
	"os"
	"sync"
	"testing"
	"time"

	"zoo/pkg/client"
)

const (
	DefaultAdminEmail         = "admin@zoo.local"
	DefaultHealthCheckTimeout = 30 * time.Second
)

// adminToken is shared by every test so the suite stays under the login rate
// limit.
var (
	adminTokenMu sync.Mutex
	adminToken   string
)

type TestEnv struct {
	ServerURL     string
	AdminEmail    string
	AdminPassword string
	MongoURI      string
	DatabaseName  string
}

// NewTestEnv reads the suite settings. The suite runs against an already
// started server and is skipped when TEST_SERVER_URL is unset.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	serverURL := os.Getenv("TEST_SERVER_URL")
	if serverURL == "" {
		t.Skip("TEST_SERVER_URL not set, skipping end-to-end test")
	}

	password := os.Getenv("TEST_ADMIN_PASSWORD")
	if password == "" {
		t.Skip("TEST_ADMIN_PASSWORD not set, skipping end-to-end test")
	}

	return &TestEnv{
		ServerURL:     serverURL,
		AdminEmail:    getEnv("TEST_ADMIN_EMAIL", DefaultAdminEmail),
		AdminPassword: password,
		MongoURI:      os.Getenv("TEST_MONGO_URI"),
		DatabaseName:  getEnv("TEST_DB_NAME", DefaultDatabaseName),
	}
}

// Setup returns a client logged in as the seeded admin. When TEST_MONGO_URI
// is set the non-staff collections are emptied first.
func (e *TestEnv) Setup(t *testing.T) (*MongoHelper, *client.ZooClient) {
	t.Helper()

	var mongo *MongoHelper
	if e.MongoURI != "" {
		mongo = NewMongoHelper(t, e.MongoURI, e.DatabaseName)
		mongo.CleanDatabase(t)
		t.Cleanup(func() { mongo.Close(t) })
	}

	zoo := client.NewZooClient(e.ServerURL)
	if err := zoo.HTTP().WaitForHealthy(DefaultHealthCheckTimeout); err != nil {
		t.Fatalf("server not healthy: %v", err)
	}

	adminTokenMu.Lock()
	defer adminTokenMu.Unlock()
	if adminToken == "" {
		if err := zoo.LoginAs(e.AdminEmail, e.AdminPassword); err != nil {
			t.Fatalf("admin login failed: %v", err)
		}
		adminToken = zoo.HTTP().Token()
	}
	zoo.HTTP().SetToken(adminToken)

	return mongo, zoo
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
