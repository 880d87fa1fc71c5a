package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hpsconstructions/hps-platform/cmd/mainconfig"
	"github.com/hpsconstructions/hps-platform/internal/api/router"
	"github.com/hpsconstructions/hps-platform/internal/app/bootstrap"
	"github.com/hpsconstructions/hps-platform/internal/catalog"
	appconfig "github.com/hpsconstructions/hps-platform/internal/config"
	"github.com/hpsconstructions/hps-platform/internal/content"
	"github.com/hpsconstructions/hps-platform/internal/forms"
	httpmiddleware "github.com/hpsconstructions/hps-platform/internal/http/middleware"
	"github.com/hpsconstructions/hps-platform/internal/leads"
	"github.com/hpsconstructions/hps-platform/internal/notify"
	"github.com/hpsconstructions/hps-platform/internal/observability/metrics"
	"github.com/hpsconstructions/hps-platform/internal/profile"
	"github.com/hpsconstructions/hps-platform/internal/relay"
	"github.com/hpsconstructions/hps-platform/internal/session"
	"github.com/hpsconstructions/hps-platform/internal/templates"
	"github.com/hpsconstructions/hps-platform/internal/whatsapp"
	"github.com/hpsconstructions/hps-platform/pkg/logging"
)

func main() {
	// .env is optional outside local development
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting hps-platform API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()
	handler, cleanup, err := buildApp(ctx, cfg, prometheus.NewRegistry(), logger)
	if err != nil {
		logger.Error("failed to build app", "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}
	cleanup(shutdownCtx)

	logger.Info("server exited")
}

// buildApp wires every component behind the public router. cleanup flushes
// pending profile writes and releases pools; it is safe to call once.
func buildApp(ctx context.Context, cfg *appconfig.Config, reg *prometheus.Registry, logger *logging.Logger) (http.Handler, func(context.Context), error) {
	var awsCfg *aws.Config
	if bootstrap.NeedsAWS(cfg) {
		loaded, err := mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("load aws config: %w", err)
		}
		awsCfg = &loaded
	}

	redisClient := bootstrap.BuildRedisClient(ctx, cfg, logger, true)

	profileStore, profileBackend, err := bootstrap.BuildProfileStore(cfg, redisClient, awsCfg, logger)
	if err != nil {
		return nil, nil, err
	}
	repo, closeRepo, err := bootstrap.BuildLeadRepository(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	emailSender, emailProvider, err := bootstrap.BuildEmailSender(cfg, awsCfg, logger)
	if err != nil {
		closeRepo()
		return nil, nil, err
	}
	logger.Info("backends selected", "profile_store", profileBackend, "email_provider", emailProvider)

	accessor := profile.NewAccessor(profileStore, profile.AccessorConfig{
		Debounce: cfg.ProfileDebounce,
		Logger:   logger.Component("profile"),
	})
	sessions := session.NewService(bootstrap.BuildSessionStore(cfg, redisClient), session.Timing{
		AutoOpenDelay:       cfg.WidgetAutoOpenDelay,
		FloatingDelay:       cfg.WidgetFloatingDelay,
		SubmitCloseDelay:    cfg.WidgetSubmitCloseDelay,
		SubmitFloatingDelay: cfg.WidgetSubmitFloatingDelay,
		ReopenOnFocus:       cfg.WidgetReopenOnFocus,
		ReopenOnFocusDelay:  cfg.WidgetReopenFocusDelay,
	}, logger.Component("session"))
	sessions.OnEnd(accessor.Evict)

	renderer := templates.New()
	loc := cfg.Location()
	mailer := notify.NewService(emailSender, notify.ServiceConfig{
		InboxEmail:   cfg.LeadInboxEmail,
		InboxName:    cfg.LeadInboxName,
		TemplateID:   cfg.SendGridTemplateID,
		BusinessName: cfg.BusinessName,
		Location:     loc,
	}, renderer, logger.Component("notify"))

	cat := catalog.MustDefault()
	lib, err := content.Default()
	if err != nil {
		closeRepo()
		return nil, nil, fmt.Errorf("load content: %w", err)
	}

	leadMetrics := metrics.NewLeadMetrics(reg)
	dispatchCfg := leads.DispatcherConfig{
		Email:    mailer,
		WhatsApp: whatsapp.NewComposer(cfg.WhatsAppNumber, cfg.WhatsAppFallbackNumber, cfg.BusinessName, loc, renderer),
		Profiles: accessor,
		Repo:     repo,
		Metrics:  leadMetrics,
		Timeout:  cfg.DispatchTimeout,
		Logger:   logger.Component("dispatch"),
	}
	if cfg.RelayURL != "" {
		dispatchCfg.Relay = relay.NewClient(cfg.RelayURL, nil)
	}
	dispatcher := leads.NewDispatcher(dispatchCfg)

	rateLimit, limiter := httpmiddleware.RateLimit(cfg.RateLimitPerSecond, cfg.RateLimitBurst)

	handler := router.New(&router.Config{
		Logger:         logger,
		CatalogHandler: catalog.NewHandler(cat, cfg.BusinessName, logger),
		ContentHandler: content.NewHandler(lib),
		FormsHandler:   forms.NewHandler(forms.DefaultRegistry(), logger),
		SessionHandler: session.NewHandler(sessions, logger),
		ProfileHandler: profile.NewHandler(accessor, logger),
		LeadsHandler: leads.NewHandler(leads.HandlerConfig{
			Dispatcher: dispatcher,
			Profiles:   accessor,
			Widget:     sessions,
			Sessions:   sessions,
			Catalog:    cat,
			Repo:       repo,
			Metrics:    leadMetrics,
			Logger:     logger.Component("leads"),
		}),
		MetricsHandler:     promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		AdminAuthSecret:    cfg.AdminJWTSecret,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimit:          rateLimit,
	})

	cleanup := func(ctx context.Context) {
		if err := accessor.Close(ctx); err != nil {
			logger.Warn("profile flush incomplete", "error", err)
		}
		limiter.Close()
		closeRepo()
		if redisClient != nil {
			_ = redisClient.Close()
		}
	}
	return handler, cleanup, nil
}
