// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"learnhub-checkout/internal/config"
	"learnhub-checkout/internal/domain/model"
	"learnhub-checkout/internal/domain/ports/adapter"
	payAdapters "learnhub-checkout/internal/infra/adapters/payment"
	"learnhub-checkout/internal/infra/api"
	pg "learnhub-checkout/internal/infra/db/postgres"
	"learnhub-checkout/internal/infra/logging"
	"learnhub-checkout/internal/infra/mail"
	"learnhub-checkout/internal/infra/metrics"
	red "learnhub-checkout/internal/infra/redis"
	"learnhub-checkout/internal/infra/sched"
	"learnhub-checkout/internal/infra/security"
	"learnhub-checkout/internal/infra/telegram"
	"learnhub-checkout/internal/infra/web"
	"learnhub-checkout/internal/usecase"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (noop gateways for unconfigured providers)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Warn().Msg("developer mode enabled")
	}
	metrics.SetBuildInfo(version, commit)

	// ---- Postgres ----
	pool := pg.MustConnectPostgres(cfg.Database)
	defer pool.Close()
	go pg.ReportPoolStats(ctx, pool)

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis")
	}
	defer redisClient.Close()
	rateLimiter := red.NewRateLimiter(redisClient)
	balanceCache := red.NewBalanceCache(redisClient, cfg.Redis.TTL, logger)
	statusCache := red.NewStatusCache(redisClient, cfg.Redis.TTL, logger)
	locker := red.NewLocker(redisClient)

	// ---- Token vault ----
	encKey := cfg.Security.EncryptionKey
	if len(encKey) != 32 {
		if !cfg.Runtime.Dev {
			logger.Fatal().Msg("security.encryption_key must be 32 bytes")
		}
		logger.Warn().Msg("security.encryption_key not set; using dev key (INSECURE)")
		encKey = "0123456789abcdef0123456789abcdef"
	}
	vault, err := security.NewTokenVault(encKey)
	if err != nil {
		logger.Fatal().Err(err).Msg("token vault")
	}

	// ---- Repositories ----
	planRepo := pg.NewPlanRepo(pool)
	subRepo := pg.NewSubscriptionRepo(pool)
	payRepo := pg.NewPaymentRepo(pool)
	walletRepo := pg.NewWalletRepo(pool)
	gatewayRepo := pg.NewGatewayRepo(pool)
	savedRepo := pg.NewSavedMethodRepo(pool)
	tm := pg.NewTxManager(pool)

	// ---- Notification channels ----
	var mailer adapter.Mailer
	if cfg.Mail.Host != "" {
		mailer, err = mail.NewSMTPMailer(cfg.Mail)
		if err != nil {
			logger.Fatal().Err(err).Msg("smtp mailer")
		}
	} else {
		logger.Warn().Msg("mail.host not set; receipt mail disabled")
	}
	var alerts adapter.AlertNotifier
	if cfg.Alerts.TelegramToken != "" {
		alerts, err = telegram.NewAlertBot(cfg.Alerts)
		if err != nil {
			logger.Fatal().Err(err).Msg("telegram alerts")
		}
	}

	// ---- Payment gateways ----
	gws := buildGateways(cfg, logger)

	// ---- Use cases ----
	registry := usecase.NewGatewayRegistry(gatewayRepo, logger)
	methodsUC := usecase.NewSavedMethodUseCase(savedRepo, vault, logger)
	walletUC := usecase.NewWalletUseCase(walletRepo, balanceCache, logger)
	subUC := usecase.NewSubscriptionUseCase(subRepo, statusCache, logger)
	notifyUC := usecase.NewNotificationUseCase(subRepo, mailer, alerts, logger)
	statsUC := usecase.NewStatsUseCase(payRepo, subRepo)
	checkoutUC := usecase.NewCheckoutUseCase(registry, methodsUC, walletUC, subUC, payRepo, planRepo, tm, gws, logger)

	// ---- Checkout API ----
	apiSrv := api.NewServer(cfg.Server, checkoutUC, walletUC, methodsUC, registry, planRepo, notifyUC, rateLimiter, logger)
	go func() {
		if err := apiSrv.Run(cfg.Auth.UserSecret); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("checkout api stopped")
		}
	}()

	// ---- Admin API ----
	if cfg.Auth.AdminSecret == "" {
		logger.Warn().Msg("auth.admin_secret not set; admin API disabled")
	} else {
		auth := web.NewAuthManager(cfg.Auth.AdminSecret, !cfg.Runtime.Dev, "", cfg.Auth.SessionTTL)
		adminSrv := web.NewServer(statsUC, planRepo, gatewayRepo, cfg.Auth.AdminSecret, auth, logger)
		mux := http.NewServeMux()
		adminSrv.RegisterRoutes(mux)
		addr := fmt.Sprintf(":%d", cfg.Server.AdminPort)
		go func() {
			logger.Info().Str("addr", addr).Msg("admin api listening")
			if err := http.ListenAndServe(addr, mux); err != nil && err != http.ErrServerClosed {
				logger.Error().Err(err).Msg("admin api stopped")
			}
		}()
	}

	// ---- Background workers ----
	reconciler := sched.NewPaymentReconciler(checkoutUC, payRepo, notifyUC, locker,
		cfg.Scheduler.ReconcileInterval, cfg.Scheduler.StaleAfter, logger)
	go func() { _ = reconciler.Run(ctx) }()

	expiry := sched.NewExpiryWorker(cfg.Scheduler.ExpiryInterval, subUC, subRepo, logger)
	go func() { _ = expiry.Run(ctx) }()

	reminders := sched.NewNotificationWorker(cfg.Scheduler.ReminderInterval, cfg.Scheduler.ReminderLeadDays, notifyUC, logger)
	go func() { _ = reminders.Run(ctx) }()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")
	cancel()
	time.Sleep(500 * time.Millisecond) // let workers observe cancellation
}

// buildGateways wires each configured provider; in dev mode unconfigured
// providers fall back to the noop gateway so the full flow stays exercisable.
func buildGateways(cfg *config.Config, logger *zerolog.Logger) usecase.Gateways {
	gws := usecase.Gateways{Redirects: make(map[model.GatewayID]adapter.RedirectGateway)}

	if cfg.Payment.Stripe.SecretKey != "" {
		stripe, err := payAdapters.NewStripeGateway(cfg.Payment.Stripe)
		if err != nil {
			logger.Fatal().Err(err).Msg("stripe gateway")
		}
		gws.Intent = stripe
	} else if cfg.Runtime.Dev {
		gws.Intent = payAdapters.NewNoopGateway(model.GatewayStripe)
	}

	if cfg.Payment.PayPal.ClientID != "" {
		paypal, err := payAdapters.NewPayPalGateway(cfg.Payment.PayPal)
		if err != nil {
			logger.Fatal().Err(err).Msg("paypal gateway")
		}
		gws.Redirects[model.GatewayPayPal] = paypal
	} else if cfg.Runtime.Dev {
		gws.Redirects[model.GatewayPayPal] = payAdapters.NewNoopGateway(model.GatewayPayPal)
	}

	if cfg.Payment.VodaPay.MerchantID != "" {
		vodapay, err := payAdapters.NewVodaPayGateway(cfg.Payment.VodaPay)
		if err != nil {
			logger.Fatal().Err(err).Msg("vodapay gateway")
		}
		gws.Redirects[model.GatewayVodaPay] = vodapay
	} else if cfg.Runtime.Dev {
		gws.Redirects[model.GatewayVodaPay] = payAdapters.NewNoopGateway(model.GatewayVodaPay)
	}

	if cfg.Payment.Paystack.SecretKey != "" {
		paystack, err := payAdapters.NewPaystackGateway(cfg.Payment.Paystack)
		if err != nil {
			logger.Fatal().Err(err).Msg("paystack gateway")
		}
		gws.Widget = paystack
	} else if cfg.Runtime.Dev {
		gws.Widget = payAdapters.NewNoopGateway(model.GatewayPaystack)
	}

	if cfg.Payment.DodoPay.APIKey != "" {
		dodopay, err := payAdapters.NewDodoPayGateway(cfg.Payment.DodoPay)
		if err != nil {
			logger.Fatal().Err(err).Msg("dodopay gateway")
		}
		gws.Overlay = dodopay
	} else if cfg.Runtime.Dev {
		gws.Overlay = payAdapters.NewNoopGateway(model.GatewayDodoPay)
	}

	return gws
}
