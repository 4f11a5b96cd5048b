package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/mid-portal-api/internal/application/mid"
	"github.com/jhoicas/mid-portal-api/internal/application/onboarding"
	"github.com/jhoicas/mid-portal-api/internal/application/usecase"
	domainmid "github.com/jhoicas/mid-portal-api/internal/domain/mid"
	"github.com/jhoicas/mid-portal-api/internal/infrastructure/messaging"
	"github.com/jhoicas/mid-portal-api/internal/infrastructure/postgres"
	"github.com/jhoicas/mid-portal-api/internal/infrastructure/region"
	httpRouter "github.com/jhoicas/mid-portal-api/internal/interfaces/http"
	"github.com/jhoicas/mid-portal-api/pkg/config"
	"github.com/jhoicas/mid-portal-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migración del esquema")
	}

	orgRepo := postgres.NewOrganizationRepository(pool)
	submissionRepo := postgres.NewSubmissionRepository(pool)
	onboardingRepo := postgres.NewOnboardingRepository(pool)
	inviteRepo := postgres.NewInviteRepository(pool)
	onboardingFeed := postgres.NewOnboardingFeed(pool, log)

	// Región: Redis y OpenPLZ son opcionales; sin ellos sólo rangos postales estáticos.
	var regionCache *region.Cache
	if cfg.Redis.Address != "" {
		rdb, err := region.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Address).Msg("redis no disponible, región sin caché")
		} else {
			defer rdb.Close()
			regionCache = region.NewCache(rdb, cfg.Region.CacheTTL)
		}
	}
	var remote region.StateResolver
	if cfg.Region.LookupURL != "" {
		remote = region.NewOpenPLZClient(cfg.Region.LookupURL, cfg.Region.RequestTimeout)
	}
	regionSvc := region.NewService(remote, regionCache, cfg.Region.EligibleState, log)

	// Recordatorios de reaplicación: RabbitMQ si está configurado, si no sólo log.
	var reminders mid.ReminderScheduler = messaging.NewLogScheduler(log)
	if cfg.RabbitMQ.URL != "" {
		publisher, err := messaging.NewReminderPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, log)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a RabbitMQ")
		}
		defer publisher.Close()
		reminders = publisher
	}

	businessLoc, err := time.LoadLocation(cfg.MID.Timezone)
	if err != nil {
		log.Fatal().Err(err).Str("timezone", cfg.MID.Timezone).Msg("zona horaria MID inválida")
	}
	policy := domainmid.Policy{
		CooldownMonths:          cfg.MID.CooldownMonths,
		MaxEmployees:            cfg.MID.MaxEmployees,
		LargeEnterpriseCategory: cfg.MID.LargeEnterprise,
		Location:                businessLoc,
	}

	onboardingUC := onboarding.NewUseCase(onboardingRepo, orgRepo, submissionRepo, inviteRepo, nil, log)
	organizationUC := usecase.NewOrganizationUseCase(orgRepo, onboardingUC, log)
	inviteUC := usecase.NewInviteUseCase(inviteRepo, orgRepo, onboardingUC, log)
	eligibilityUC := mid.NewEligibilityUseCase(orgRepo, regionSvc, reminders, policy, log)
	submissionUC := mid.NewSubmissionUseCase(submissionRepo, orgRepo, eligibilityUC, onboardingUC, log)

	// Sin WriteTimeout: /api/onboarding/stream mantiene la respuesta abierta.
	app := fiber.New(fiber.Config{
		AppName:     cfg.App.Name,
		ReadTimeout: time.Second * 10,
		IdleTimeout: time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "MID Portal API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		OrganizationUC: organizationUC,
		InviteUC:       inviteUC,
		EligibilityUC:  eligibilityUC,
		SubmissionUC:   submissionUC,
		OnboardingUC:   onboardingUC,
		OnboardingFeed: onboardingFeed,
		JWTSecret:      cfg.JWT.Secret,
		JWTIssuer:      cfg.JWT.Issuer,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	log.Info().Msg("aplicación detenida")
}
