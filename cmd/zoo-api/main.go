package main

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	animalhandler "zoo/internal/animals/handler"
	animalrepo "zoo/internal/animals/repository"
	animalservice "zoo/internal/animals/service"
	animalvalidator "zoo/internal/animals/validator"
	authhandler "zoo/internal/auth/handler"
	authservice "zoo/internal/auth/service"
	authvalidator "zoo/internal/auth/validator"
	healthhandler "zoo/internal/health/handler"
	staffhandler "zoo/internal/staff/handler"
	staffrepo "zoo/internal/staff/repository"
	staffservice "zoo/internal/staff/service"
	staffvalidator "zoo/internal/staff/validator"
	tickethandler "zoo/internal/tickets/handler"
	"zoo/internal/tickets/jobs"
	ticketrepo "zoo/internal/tickets/repository"
	ticketservice "zoo/internal/tickets/service"
	ticketvalidator "zoo/internal/tickets/validator"
	visitorhandler "zoo/internal/visitors/handler"
	visitorrepo "zoo/internal/visitors/repository"
	visitorservice "zoo/internal/visitors/service"
	visitorvalidator "zoo/internal/visitors/validator"
	"zoo/pkg/app"
	"zoo/pkg/auth"
	"zoo/pkg/config"
	mongodb "zoo/pkg/db/mongo"
	"zoo/pkg/events"
	httputil "zoo/pkg/http"
	"zoo/pkg/kafka"
	kafka_config "zoo/pkg/kafka/config"
	kafka_middleware "zoo/pkg/kafka/middleware"
	"zoo/pkg/middleware"
	"zoo/pkg/storage"
)

const (
	ServiceName = "zoo-api"

	metricsNamespace   = "zoo"
	eventPublishWindow = 5 * time.Second
	seedTimeout        = 10 * time.Second
)

func main() {
	cfg := config.Load(ServiceName)
	if err := cfg.ValidateSecrets(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.SetMongo()
	cfg.SetRedis()
	httputil.SetProductionMode(cfg.IsProduction())

	metrics := middleware.NewMetrics(metricsNamespace)
	tokens := auth.NewTokenIssuer(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL, cfg.JWTIssuer)
	guard := middleware.NewGuard(tokens, cfg.Log)
	serverApp := app.NewApplication(cfg, guard, metrics)

	publisher := initEvents(cfg, metrics, serverApp)
	images := initImageStore(cfg)

	staffRepo := staffrepo.NewMongoStaffRepository(cfg)
	staffSvc := staffservice.NewStaffService(staffRepo, staffvalidator.NewStaffValidator(cfg.Log), images, publisher, cfg)
	authSvc := authservice.NewAuthService(staffRepo, tokens, authvalidator.NewAuthValidator(cfg.Log), publisher, cfg)
	seedAdmin(cfg, authSvc)

	animalSvc := animalservice.NewAnimalService(
		animalrepo.NewMongoAnimalRepository(cfg),
		animalvalidator.NewAnimalValidator(cfg.Log),
		images,
		publisher,
		cfg,
	)

	visitorRepo := visitorrepo.NewMongoVisitorRepository(cfg)
	visitorSvc := visitorservice.NewVisitorService(visitorRepo, visitorvalidator.NewVisitorValidator(cfg.Log), publisher, cfg)

	ticketSvc := ticketservice.NewTicketService(
		ticketrepo.NewMongoTicketRepository(cfg),
		visitorRepo,
		mongodb.NewTransactionManager(cfg.Client.Mongo, cfg.Log),
		ticketvalidator.NewTicketValidator(cfg.Log),
		publisher,
		cfg,
	)
	startExpirySweeper(cfg, ticketSvc, serverApp)

	loginLimiter := middleware.NewClientRateLimiter(
		rate.Every(time.Minute/time.Duration(cfg.LoginRateLimitRPM)),
		cfg.LoginRateLimitRPM,
		cfg.RateLimitCleanupTTL,
		middleware.ClientIP,
		cfg.Log,
	)
	serverApp.AddWorker(stopFunc(loginLimiter.Stop))

	serverApp.SetApp(
		healthhandler.NewHealthHandler(cfg.Client.Mongo, metrics.Handler(), cfg.Log),
		authhandler.NewAuthHandler(
			authSvc,
			staffSvc,
			cfg.Log,
			loginLimiter,
			cfg.CookieSecure,
			int(cfg.JWTRefreshTTL.Seconds()),
			config.DefaultMaxUploadMemory,
		),
		animalhandler.NewAnimalHandler(animalSvc, cfg.Log, config.DefaultMaxUploadMemory),
		staffhandler.NewStaffHandler(staffSvc, cfg.Log, config.DefaultMaxUploadMemory),
		visitorhandler.NewVisitorHandler(visitorSvc, cfg.Log),
		tickethandler.NewTicketHandler(ticketSvc, cfg.Log),
	)

	cfg.Log.Info("Zoo API initialized", "database", cfg.MongoDatabaseName)
	serverApp.Run()
}

// initEvents publishes domain events to Kafka when brokers are configured.
func initEvents(cfg *config.Config, metrics *middleware.Metrics, serverApp *app.Application) events.Publisher {
	if !cfg.KafkaEnabled() {
		cfg.Log.Info("KAFKA_BROKERS not set, domain events disabled")
		return events.NewNoopPublisher()
	}

	kafkaCfg, err := kafka_config.Load(cfg.KafkaBrokers)
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}

	producer, err := kafka.NewProducer(kafkaCfg, cfg.KafkaEventsTopic, cfg.KafkaDLQTopic, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	if kafkaCfg.EnableMiddleware {
		producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))
		producer.Use(kafka_middleware.NewMetrics(metricsNamespace, metrics.Registry()).ProducerMiddleware())
	}

	publisher := events.NewKafkaPublisher(producer, ServiceName, eventPublishWindow, cfg.Log)
	serverApp.AddCloser(publisher.Close)
	cfg.Log.Info("Domain events enabled", "topic", cfg.KafkaEventsTopic, "brokers", len(cfg.KafkaBrokers))
	return publisher
}

func initImageStore(cfg *config.Config) storage.ImageStore {
	if !cfg.CloudinaryEnabled() {
		cfg.Log.Warn("Cloudinary credentials not set, image uploads disabled")
		return storage.NewDisabledStore()
	}

	images, err := storage.NewCloudinaryStore(
		cfg.CloudinaryCloudName,
		cfg.CloudinaryAPIKey,
		cfg.CloudinaryAPISecret,
		cfg.CloudinaryFolder,
		cfg.Log,
	)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize Cloudinary", "error", err)
	}
	return images
}

func seedAdmin(cfg *config.Config, svc authservice.AuthService) {
	ctx, cancel := context.WithTimeout(context.Background(), seedTimeout)
	defer cancel()

	if err := svc.SeedAdmin(ctx); err != nil {
		cfg.Log.Error("Failed to seed default admin", "error", err)
	}
}

func startExpirySweeper(cfg *config.Config, svc ticketservice.TicketService, serverApp *app.Application) {
	if cfg.TicketExpirySchedule == "" {
		cfg.Log.Info("TICKET_EXPIRY_SCHEDULE empty, expiry sweep disabled")
		return
	}

	sweeper, err := jobs.NewExpirySweeper(svc, cfg.TicketExpirySchedule, cfg.WriteTimeout, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to schedule ticket expiry", "error", err)
	}
	sweeper.Start()
	serverApp.AddWorker(sweeper)
}

type stopFunc func()

func (f stopFunc) Stop(context.Context) {
	f()
}
