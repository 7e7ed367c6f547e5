package config

import (
	"errors"
	"fmt"
	"io/fs"
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"zoo/pkg/client"
	"zoo/pkg/logger"
)

// Config is built once in main and handed to every component that needs it.
type Config struct {
	ServiceName string `env:"-"`
	Environment string `env:"APP_ENV" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	MongoURI          string        `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
	MongoDatabaseName string        `env:"MONGO_DATABASE_NAME" envDefault:"zoo"`
	MongoConnTimeout  time.Duration `env:"MONGO_CONN_TIMEOUT" envDefault:"10s"`

	RedisURL string `env:"REDIS_URL"`

	Port string `env:"PORT" envDefault:"8080"`

	JWTAccessSecret  string        `env:"JWT_ACCESS_SECRET"`
	JWTRefreshSecret string        `env:"JWT_REFRESH_SECRET"`
	JWTAccessTTL     time.Duration `env:"JWT_ACCESS_TTL" envDefault:"15m"`
	JWTRefreshTTL    time.Duration `env:"JWT_REFRESH_TTL" envDefault:"168h"`
	JWTIssuer        string        `env:"JWT_ISSUER" envDefault:"zoo-api"`
	CookieSecure     bool          `env:"COOKIE_SECURE" envDefault:"true"`

	CloudinaryCloudName string `env:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey    string `env:"CLOUDINARY_API_KEY"`
	CloudinaryAPISecret string `env:"CLOUDINARY_API_SECRET"`
	CloudinaryFolder    string `env:"CLOUDINARY_FOLDER" envDefault:"zoo"`

	AdminEmail      string `env:"ADMIN_EMAIL" envDefault:"admin@zoo.local"`
	AdminPassword   string `env:"ADMIN_PASSWORD"`
	AdminEmployeeID string `env:"ADMIN_EMPLOYEE_ID" envDefault:"ADMIN-001"`

	StaffLookupKey string `env:"STAFF_LOOKUP_KEY" envDefault:"id"`

	TicketValidity       time.Duration `env:"TICKET_VALIDITY" envDefault:"12h"`
	TicketExpirySchedule string        `env:"TICKET_EXPIRY_SCHEDULE" envDefault:"@every 5m"`

	KafkaBrokers     []string `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaEventsTopic string   `env:"KAFKA_EVENTS_TOPIC" envDefault:"zoo.events"`
	KafkaDLQTopic    string   `env:"KAFKA_DLQ_TOPIC"`

	RateLimitRPS        float64       `env:"RATE_LIMIT_RPS" envDefault:"20"`
	RateLimitBurst      int           `env:"RATE_LIMIT_BURST" envDefault:"40"`
	LoginRateLimitRPM   int           `env:"LOGIN_RATE_LIMIT_PER_MINUTE" envDefault:"5"`
	RateLimitCleanupTTL time.Duration `env:"RATE_LIMIT_CLIENT_TTL" envDefault:"10m"`

	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`
	IdempotencyTTL time.Duration `env:"IDEMPOTENCY_TTL" envDefault:"24h"`
	MaxRequestSize int           `env:"MAX_REQUEST_SIZE" envDefault:"10485760"`

	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"15s"`
	IdleTimeout     time.Duration `env:"IDLE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	Log    *logger.Logger `env:"-"`
	Client *client.Client `env:"-"`
}

func Load(serviceName string) *Config {
	bootLog := logger.New(logger.Config{Format: logger.JSON, Service: serviceName})

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		bootLog.Warn("Failed to read .env file", "error", err)
	}

	cfg, err := Parse()
	if err != nil {
		bootLog.Fatal("Failed to parse configuration", "error", err)
	}
	cfg.ServiceName = serviceName
	cfg.Log = logger.New(logger.Config{
		Level:     cfg.LogLevel,
		Format:    logger.JSON,
		AddSource: true,
		Service:   serviceName,
	})
	cfg.Client = client.NewClient()

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

// Parse reads the environment into a Config without side effects.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

// SetRedis connects to Redis when REDIS_URL is configured.
func (cfg *Config) SetRedis() {
	if cfg.RedisURL == "" {
		cfg.Log.Info("REDIS_URL not set, using in-memory stores")
		return
	}
	cfg.Client.SetRedis(cfg.Log, cfg.RedisURL)
}

func (cfg *Config) IsProduction() bool {
	return cfg.Environment == EnvProduction
}

func (cfg *Config) CloudinaryEnabled() bool {
	return cfg.CloudinaryCloudName != "" && cfg.CloudinaryAPIKey != "" && cfg.CloudinaryAPISecret != ""
}

func (cfg *Config) KafkaEnabled() bool {
	return len(cfg.KafkaBrokers) > 0
}

func (cfg *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.Environment != EnvDevelopment && cfg.Environment != EnvProduction {
		errs = append(errs, fmt.Sprintf("APP_ENV must be '%s' or '%s', got: %s", EnvDevelopment, EnvProduction, cfg.Environment))
	}

	if cfg.MongoURI == "" {
		errs = append(errs, "MongoURI cannot be empty")
	} else if !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
		errs = append(errs, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", redactMongoURI(cfg.MongoURI)))
	}
	if cfg.MongoDatabaseName == "" {
		errs = append(errs, "MongoDatabaseName cannot be empty")
	}

	if cfg.StaffLookupKey != StaffLookupByID && cfg.StaffLookupKey != StaffLookupByEmployeeID {
		errs = append(errs, fmt.Sprintf("STAFF_LOOKUP_KEY must be '%s' or '%s', got: %s", StaffLookupByID, StaffLookupByEmployeeID, cfg.StaffLookupKey))
	}

	positive := map[string]time.Duration{
		"MongoConnTimeout": cfg.MongoConnTimeout,
		"JWTAccessTTL":     cfg.JWTAccessTTL,
		"JWTRefreshTTL":    cfg.JWTRefreshTTL,
		"TicketValidity":   cfg.TicketValidity,
		"RequestTimeout":   cfg.RequestTimeout,
		"IdempotencyTTL":   cfg.IdempotencyTTL,
		"ReadTimeout":      cfg.ReadTimeout,
		"WriteTimeout":     cfg.WriteTimeout,
		"IdleTimeout":      cfg.IdleTimeout,
		"ShutdownTimeout":  cfg.ShutdownTimeout,
	}
	for _, name := range sortedKeys(positive) {
		if positive[name] <= 0 {
			errs = append(errs, fmt.Sprintf("%s must be positive, got: %s", name, positive[name]))
		}
	}

	if cfg.JWTRefreshTTL > 0 && cfg.JWTAccessTTL >= cfg.JWTRefreshTTL {
		errs = append(errs, fmt.Sprintf("JWTAccessTTL (%s) must be shorter than JWTRefreshTTL (%s)", cfg.JWTAccessTTL, cfg.JWTRefreshTTL))
	}
	if cfg.RateLimitRPS <= 0 {
		errs = append(errs, fmt.Sprintf("RateLimitRPS must be positive, got: %v", cfg.RateLimitRPS))
	}
	if cfg.RateLimitBurst <= 0 {
		errs = append(errs, fmt.Sprintf("RateLimitBurst must be positive, got: %d", cfg.RateLimitBurst))
	}
	if cfg.LoginRateLimitRPM <= 0 {
		errs = append(errs, fmt.Sprintf("LoginRateLimitRPM must be positive, got: %d", cfg.LoginRateLimitRPM))
	}
	if cfg.MaxRequestSize <= 0 {
		errs = append(errs, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}

	return joinErrors(errs)
}

// ValidateSecrets checks the settings only the API server needs.
func (cfg *Config) ValidateSecrets() error {
	var errs []string
	if len(cfg.JWTAccessSecret) < 32 {
		errs = append(errs, "JWT_ACCESS_SECRET must be at least 32 characters")
	}
	if len(cfg.JWTRefreshSecret) < 32 {
		errs = append(errs, "JWT_REFRESH_SECRET must be at least 32 characters")
	}
	if cfg.JWTAccessSecret != "" && cfg.JWTAccessSecret == cfg.JWTRefreshSecret {
		errs = append(errs, "JWT_ACCESS_SECRET and JWT_REFRESH_SECRET must differ")
	}
	return joinErrors(errs)
}

func joinErrors(errs []string) error {
	if len(errs) == 0 {
		return nil
	}
	errMsg := "Configuration validation failed:\n"
	for i, err := range errs {
		errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
	}
	return fmt.Errorf("%s", errMsg)
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"environment", cfg.Environment,
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"redis_enabled", cfg.RedisURL != "",
		"port", cfg.Port,
		"jwt_access_ttl", cfg.JWTAccessTTL,
		"jwt_refresh_ttl", cfg.JWTRefreshTTL,
		"cookie_secure", cfg.CookieSecure,
		"cloudinary_enabled", cfg.CloudinaryEnabled(),
		"admin_seed_enabled", cfg.AdminPassword != "",
		"staff_lookup_key", cfg.StaffLookupKey,
		"ticket_validity", cfg.TicketValidity,
		"ticket_expiry_schedule", cfg.TicketExpirySchedule,
		"kafka_enabled", cfg.KafkaEnabled(),
		"kafka_events_topic", cfg.KafkaEventsTopic,
		"rate_limit_rps", cfg.RateLimitRPS,
		"rate_limit_burst", cfg.RateLimitBurst,
		"login_rate_limit_per_minute", cfg.LoginRateLimitRPM,
		"request_timeout", cfg.RequestTimeout,
		"idempotency_ttl", cfg.IdempotencyTTL,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
	)
}

func redactMongoURI(uri string) string {
	credentialRegex := regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown(cfg.Log)
}

func sortedKeys(m map[string]time.Duration) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
