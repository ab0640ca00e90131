package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/Domenick1991/airreserve/api"
	"github.com/Domenick1991/airreserve/config"
	"github.com/Domenick1991/airreserve/internal/baggage"
	"github.com/Domenick1991/airreserve/internal/cache"
	"github.com/Domenick1991/airreserve/internal/identifier"
	"github.com/Domenick1991/airreserve/internal/kafka"
	"github.com/Domenick1991/airreserve/internal/repository"
	"github.com/Domenick1991/airreserve/internal/service/booking"
	"github.com/Domenick1991/airreserve/internal/service/flights"
	"github.com/Domenick1991/airreserve/internal/service/passengers"
)

const kafkaCheckTimeout = 5 * time.Second

// App holds the wired dependencies shared by the binaries.
type App struct {
	Config   *config.Config
	Pool     *pgxpool.Pool
	Store    *repository.Store
	API      *api.ReservationAPI
	redis    *redis.Client
	producer *kafka.Producer
	log      logrus.FieldLogger
}

// New connects to Postgres and, when configured, Redis and Kafka. Redis and
// Kafka are optional: without them flights are read from Postgres on every
// lookup and booking events are not published. A configured Kafka that does
// not answer is treated as absent.
func New(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (*App, error) {
	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	app := &App{Config: cfg, Pool: pool, Store: repository.NewStore(pool), log: log}

	var flightCache flights.FlightCache
	if cfg.Redis.Addr != "" {
		app.redis = cache.NewRedisClient(cfg.Redis)
		redisCache := cache.NewRedisCache(app.redis, time.Duration(cfg.Booking.FlightsCacheTTL)*time.Second)
		if err := redisCache.Ping(ctx); err != nil {
			log.WithError(err).Warn("redis unavailable, flight cache disabled")
		} else {
			flightCache = redisCache
		}
	}

	var producer booking.Producer
	if len(cfg.Kafka.Brokers) > 0 && cfg.Kafka.BookingTopic != "" {
		kafkaProducer := kafka.NewProducer(cfg.Kafka.Brokers, log)
		checkCtx, cancel := context.WithTimeout(ctx, kafkaCheckTimeout)
		err := kafkaProducer.CheckConnection(checkCtx)
		cancel()
		if err != nil {
			log.WithError(err).Warn("kafka unavailable, booking events disabled")
			if err := kafkaProducer.Close(); err != nil {
				log.WithError(err).Warn("close kafka producer")
			}
		} else {
			app.producer = kafkaProducer
			producer = kafkaProducer
		}
	}

	queries := app.Store.Queries()
	flightService := flights.NewFlightService(
		repository.NewFlightRepository(pool),
		flightCache,
		flights.WithLogger(log),
	)
	ids := identifier.New(identifier.NewRandomSource(), identifier.WithMaxAttempts(cfg.Booking.MaxCodeAttempts))
	bookingService := booking.NewBookingService(
		app.Store,
		flightService,
		ids,
		producer,
		cfg.Kafka.BookingTopic,
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		booking.WithCancelUnknownNoop(cfg.Booking.CancelUnknownIsNoop),
		booking.WithPublishRetries(cfg.Kafka.PublishRetries),
		booking.WithLogger(log),
	)
	baggageService := baggage.NewService(app.Store, queries, log)
	passengerService := passengers.NewPassengerService(app.Store, queries, log)

	app.API = api.New(flightService, bookingService, baggageService, passengerService, queries)
	return app, nil
}

// OpenInventory schedules flightID on date with seats available.
func (a *App) OpenInventory(ctx context.Context, flightID int64, date time.Time, seats int) error {
	return a.Store.Queries().OpenInventory(ctx, flightID, date, seats)
}

func (a *App) Close() {
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.log.WithError(err).Warn("close kafka producer")
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.WithError(err).Warn("close redis")
		}
	}
	a.Pool.Close()
}
