package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sharetools/internal/app/commands"
	availabilityapp "sharetools/internal/app/handlers/availability"
	cartapp "sharetools/internal/app/handlers/cart"
	itemsapp "sharetools/internal/app/handlers/items"
	rentalapp "sharetools/internal/app/handlers/rental"
	reviewapp "sharetools/internal/app/handlers/reviews"
	"sharetools/internal/app/middleware"
	appoutbox "sharetools/internal/app/outbox"
	"sharetools/internal/app/policies"
	"sharetools/internal/app/queries"
	"sharetools/internal/app/uow"
	domainpricing "sharetools/internal/domain/pricing"
	"sharetools/internal/domain/shared/money"
	"sharetools/internal/infra/broker/kafka"
	"sharetools/internal/infra/config"
	mongodb "sharetools/internal/infra/db/mongo"
	ginserver "sharetools/internal/infra/http/gin"
	"sharetools/internal/infra/obs"
	infraoutbox "sharetools/internal/infra/outbox"
	"sharetools/internal/infra/payments"
	"sharetools/internal/infra/schedule"
	"sharetools/internal/infra/storage/memory"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env := getenv("APP_ENV", "dev")
	logger := obs.NewLogger(env)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("configuration invalid", "error", err)
		os.Exit(1)
	}

	app, err := buildApplication(cfg, logger)
	if err != nil {
		logger.Error("application wiring failed", "error", err)
		os.Exit(1)
	}

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{
		Ready: app.ready,
	}, app.handlers)

	for _, worker := range app.workers {
		w := worker
		go func() {
			if err := w(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("worker stopped", "error", err)
			}
		}()
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "storage", cfg.StorageMode)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	app.close()
	logger.Info("HTTP server stopped")
}

type application struct {
	handlers ginserver.Handlers
	workers  []func(context.Context) error
	ready    func() error
	close    func()
}

func buildApplication(cfg config.Config, logger *slog.Logger) (application, error) {
	pricingCfg := domainpricing.Config{
		FallbackDailyRate: money.GBP(cfg.FallbackDailyRatePence),
		ServiceFeePercent: cfg.ServiceFeePercent,
		ServiceFeeMinimum: money.GBP(cfg.ServiceFeeMinimumPence),
	}
	processor := payments.NewSimulator(logger, cfg.PaymentSuccessRate)

	var (
		uowFactory uow.UoWFactory
		outboxPort appoutbox.Outbox
		idStore    middleware.IdempotencyStore
		ready      = func() error { return nil }
		closeFn    = func() {}
		workers    []func(context.Context) error
	)

	switch cfg.StorageMode {
	case "mongo":
		client, err := mongodb.New(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return application{}, err
		}
		uowFactory = mongodb.NewFactory(client.DB)
		outboxStore := infraoutbox.NewStore(client.DB)
		outboxPort = outboxStore
		idStore = mongodb.NewIdempotencyStore(client.DB)
		ready = func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return client.Ping(pingCtx)
		}
		if len(cfg.KafkaBrokers) > 0 {
			producer, err := kafka.NewProducer(cfg.KafkaBrokers, nil)
			if err != nil {
				return application{}, err
			}
			closeFn = func() { _ = producer.Close() }
			outboxWorker := &infraoutbox.Worker{
				Store:       outboxStore,
				Producer:    producer,
				Interval:    cfg.OutboxPollInterval,
				TopicPrefix: cfg.KafkaTopicPrefix,
				Source:      "sharetools",
				Backoff:     cfg.RetryBackoff,
			}
			workers = append(workers, outboxWorker.Run)
		} else {
			logger.Warn("no kafka brokers configured, outbox events stay queued")
		}
	default:
		uowFactory = memory.NewFactory()
		outboxPort = memory.NewOutbox()
		idStore = memory.NewIdempotencyStore()
	}

	commandBus := commands.NewInMemoryBus()
	queryBus := queries.NewInMemoryBus()
	registerHandlers(commandBus, queryBus, uowFactory, pricingCfg, processor, outboxPort)

	commandBusWithMiddleware := middleware.ChainCommands(
		commandBus,
		middleware.SelfValidation(),
		middleware.Idempotency(idStore, nil),
		middleware.Transaction(uowFactory, nil),
		middleware.OutboxFlush(outboxPort),
	)
	queryBusWithMiddleware := middleware.ChainQueries(
		queryBus,
		middleware.QuerySelfValidation(),
	)

	completion := &schedule.CompletionWorker{
		Bus:      commandBusWithMiddleware,
		Interval: cfg.CompletionInterval,
		Logger:   logger,
	}
	workers = append(workers, completion.Run)

	return application{
		handlers: ginserver.Handlers{
			Items:        ginserver.ItemHandler{Commands: commandBusWithMiddleware, Queries: queryBusWithMiddleware},
			Rentals:      ginserver.RentalHandler{Commands: commandBusWithMiddleware, Queries: queryBusWithMiddleware},
			Availability: ginserver.AvailabilityHandler{Queries: queryBusWithMiddleware},
			Cart:         ginserver.CartHandler{Commands: commandBusWithMiddleware, Queries: queryBusWithMiddleware},
			Reviews:      ginserver.ReviewHandler{Commands: commandBusWithMiddleware, Queries: queryBusWithMiddleware},
		},
		workers: workers,
		ready:   ready,
		close:   closeFn,
	}, nil
}

func registerHandlers(
	commandBus *commands.InMemoryBus,
	queryBus *queries.InMemoryBus,
	uowFactory uow.UoWFactory,
	pricingCfg domainpricing.Config,
	processor policies.PaymentProcessor,
	outboxPort appoutbox.Outbox,
) {
	encoder := appoutbox.JSONEventEncoder{}

	commands.RegisterHandler(commandBus, rentalapp.CreateRentalCommand{}.Key(), &rentalapp.CreateRentalHandler{
		UoWFactory: uowFactory,
		Payments:   processor,
		Pricing:    pricingCfg,
		Outbox:     outboxPort,
		Encoder:    encoder,
	})
	commands.RegisterHandler(commandBus, rentalapp.CancelRentalCommand{}.Key(), &rentalapp.CancelRentalHandler{
		UoWFactory: uowFactory,
		Payments:   processor,
		Outbox:     outboxPort,
		Encoder:    encoder,
	})
	commands.RegisterHandler(commandBus, rentalapp.CompleteDueCommand{}.Key(), &rentalapp.CompleteDueHandler{
		UoWFactory: uowFactory,
		Outbox:     outboxPort,
		Encoder:    encoder,
	})
	commands.RegisterHandler(commandBus, itemsapp.CreateItemCommand{}.Key(), &itemsapp.CreateItemHandler{
		UoWFactory: uowFactory,
		Outbox:     outboxPort,
		Encoder:    encoder,
	})
	publishHandler := &itemsapp.PublishItemHandler{
		UoWFactory: uowFactory,
		Outbox:     outboxPort,
		Encoder:    encoder,
	}
	commands.RegisterHandler(commandBus, itemsapp.PublishItemCommand{}.Key(), publishHandler)
	commands.RegisterHandler(commandBus, itemsapp.UnpublishItemCommand{}.Key(), &itemsapp.UnpublishItemHandler{PublishItemHandler: publishHandler})
	commands.RegisterHandler(commandBus, cartapp.AddToCartCommand{}.Key(), &cartapp.AddToCartHandler{
		UoWFactory: uowFactory,
		Pricing:    pricingCfg,
	})
	commands.RegisterHandler(commandBus, cartapp.RemoveFromCartCommand{}.Key(), &cartapp.RemoveFromCartHandler{
		UoWFactory: uowFactory,
	})
	commands.RegisterHandler(commandBus, reviewapp.SubmitReviewCommand{}.Key(), &reviewapp.SubmitReviewHandler{
		UoWFactory: uowFactory,
		Outbox:     outboxPort,
		Encoder:    encoder,
	})

	queries.RegisterHandler(queryBus, itemsapp.GetItemQuery{}.Key(), &itemsapp.GetItemHandler{UoWFactory: uowFactory})
	catalogHandler := &itemsapp.SearchCatalogHandler{UoWFactory: uowFactory}
	queries.RegisterHandler(queryBus, itemsapp.SearchCatalogQuery{}.Key(), catalogHandler)
	queries.RegisterHandler(queryBus, itemsapp.MyItemsQuery{}.Key(), &itemsapp.MyItemsHandler{SearchCatalogHandler: catalogHandler})
	queries.RegisterHandler(queryBus, availabilityapp.GetAvailabilityQuery{}.Key(), &availabilityapp.GetAvailabilityHandler{UoWFactory: uowFactory})
	queries.RegisterHandler(queryBus, rentalapp.ListRentalsQuery{}.Key(), &rentalapp.ListRentalsHandler{UoWFactory: uowFactory})
	queries.RegisterHandler(queryBus, rentalapp.GetRentalQuery{}.Key(), &rentalapp.GetRentalHandler{UoWFactory: uowFactory})
	queries.RegisterHandler(queryBus, rentalapp.SummaryQuery{}.Key(), &rentalapp.SummaryHandler{UoWFactory: uowFactory})
	queries.RegisterHandler(queryBus, cartapp.GetCartQuery{}.Key(), &cartapp.GetCartHandler{UoWFactory: uowFactory, Pricing: pricingCfg})
	queries.RegisterHandler(queryBus, reviewapp.ListReviewsQuery{}.Key(), &reviewapp.ListReviewsHandler{UoWFactory: uowFactory})
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
