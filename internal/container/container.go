// Package container wires the application together with samber/do.
// Each XxxPackage function registers one slice of the object graph so
// the server and the consumer binaries can compose only what they need.
package container

import (
	"context"
	"fmt"
	"time"

	"github.com/Roisfaozi/gas.to/internal/biopage"
	"github.com/Roisfaozi/gas.to/internal/clicks"
	"github.com/Roisfaozi/gas.to/internal/dispatch"
	"github.com/Roisfaozi/gas.to/internal/enrich"
	"github.com/Roisfaozi/gas.to/internal/geo"
	"github.com/Roisfaozi/gas.to/internal/handlers"
	"github.com/Roisfaozi/gas.to/internal/messaging"
	"github.com/Roisfaozi/gas.to/internal/middleware"
	"github.com/Roisfaozi/gas.to/internal/ratelimit"
	"github.com/Roisfaozi/gas.to/internal/shortlink"
	"github.com/Roisfaozi/gas.to/internal/stats"
	"github.com/Roisfaozi/gas.to/internal/store"
	"github.com/Roisfaozi/gas.to/internal/visitor"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor" // CBOR format support for huma
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jaevor/go-nanoid"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"go.uber.org/zap"
)

// TopicClicks carries completed click records from the redirect path
// to the persistence consumer.
const TopicClicks = "clicks"

type Options struct {
	Port              int    `default:"8888"                              help:"Port to listen on"                        short:"p"`
	BaseURL           string `default:""                                  help:"Public base URL for short links"`
	CodeLength        int    `default:"8"                                 help:"Length of generated short codes"          short:"c"`
	RedisAddr         string `default:"localhost:6379"                    help:"Redis server address"                     short:"r"`
	PostgresDSN       string `default:"postgres://localhost:5432/gasto"   help:"Postgres connection string"`
	GeoAPIURL         string `default:""                                  help:"Geo lookup base URL (ip-api format), empty disables"`
	GeoTimeoutMillis  int    `default:"2000"                              help:"Geo lookup timeout in milliseconds"`
	UniqueWindowHours int    `default:"24"                                help:"Trailing window for unique visit detection"`
	CacheTTLSeconds   int    `default:"3600"                              help:"Redis link cache TTL in seconds"`
	LogFormat         string `default:"console"                           help:"Log format: console or json"`
}

// PublicBaseURL is the base URL short links are minted against.
func (o *Options) PublicBaseURL() string {
	if o.BaseURL != "" {
		return o.BaseURL
	}

	return fmt.Sprintf("http://localhost:%d", o.Port)
}

// LoggerPackage provides the zap logger.
func LoggerPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*zap.Logger, error) {
		options := do.MustInvoke[*Options](i)

		if options.LogFormat == "json" {
			return zap.NewProduction()
		}

		return zap.NewDevelopment()
	})
}

// RedisPackage provides the shared Redis client.
func RedisPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*redis.Client, error) {
		options := do.MustInvoke[*Options](i)

		return redis.NewClient(&redis.Options{
			Addr: options.RedisAddr,
		}), nil
	})
}

// PostgresPackage provides the pgx connection pool.
func PostgresPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*pgxpool.Pool, error) {
		options := do.MustInvoke[*Options](i)

		pool, err := pgxpool.New(context.Background(), options.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("creating postgres pool: %w", err)
		}

		return pool, nil
	})
}

// GeoPackage provides the IP geo resolver. An empty GeoAPIURL wires
// the noop resolver so clicks simply record without location.
func GeoPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (geo.Resolver, error) {
		options := do.MustInvoke[*Options](i)
		if options.GeoAPIURL == "" {
			return geo.NoopResolver{}, nil
		}

		logger := do.MustInvoke[*zap.Logger](i)
		timeout := time.Duration(options.GeoTimeoutMillis) * time.Millisecond

		return geo.NewClient(options.GeoAPIURL, timeout, logger), nil
	})
}

// RepositoryPackage provides the storage layer: Postgres repositories,
// the Redis read-through cache on the link hot path, and the short
// code generator.
func RepositoryPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (shortlink.Repository, error) {
		options := do.MustInvoke[*Options](i)
		pool := do.MustInvoke[*pgxpool.Pool](i)
		redisClient := do.MustInvoke[*redis.Client](i)
		ttl := time.Duration(options.CacheTTLSeconds) * time.Second

		return store.NewRedisLinkCache(store.NewPostgresLinkStore(pool), redisClient, ttl), nil
	})

	do.Provide(injector, func(i *do.Injector) (biopage.Repository, error) {
		return store.NewPostgresBioPageStore(do.MustInvoke[*pgxpool.Pool](i)), nil
	})

	do.Provide(injector, func(i *do.Injector) (clicks.Store, error) {
		return store.NewPostgresClickStore(do.MustInvoke[*pgxpool.Pool](i)), nil
	})

	do.Provide(injector, func(i *do.Injector) (visitor.SessionStore, error) {
		return store.NewPostgresSessionStore(do.MustInvoke[*pgxpool.Pool](i)), nil
	})

	do.Provide(injector, func(i *do.Injector) (shortlink.CodeGenerator, error) {
		options := do.MustInvoke[*Options](i)

		generator, err := nanoid.Standard(options.CodeLength)
		if err != nil {
			return nil, fmt.Errorf("creating code generator: %w", err)
		}

		return shortlink.CodeGenerator(generator), nil
	})
}

// RateLimitPackage provides the write-API rate limiter backed by
// Redis so limits hold across instances.
func RateLimitPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*ratelimit.Limiter, error) {
		redisClient := do.MustInvoke[*redis.Client](i)

		return ratelimit.NewLimiter(store.NewRateLimitRedisStore(redisClient)), nil
	})
}

// PublisherGroupPackage provides the Redis stream publisher and the
// click recorder that feeds the persistence consumer.
func PublisherGroupPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*messaging.PublisherGroup, error) {
		redisClient := do.MustInvoke[*redis.Client](i)

		publisher, err := redisstream.NewPublisher(redisstream.PublisherConfig{
			Client: redisClient,
		}, watermill.NewStdLogger(false, false))
		if err != nil {
			return nil, fmt.Errorf("creating stream publisher: %w", err)
		}

		return messaging.NewPublisherGroup(publisher), nil
	})

	do.Provide(injector, func(i *do.Injector) (dispatch.Recorder, error) {
		group := do.MustInvoke[*messaging.PublisherGroup](i)
		publish := messaging.NewPublishFunc[clicks.ClickRecord](group.Publisher(), TopicClicks)

		return dispatch.Recorder(publish), nil
	})
}

// HTTPPackage provides the router, the API with its middlewares, and
// every handler, and registers the routes.
func HTTPPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*chi.Mux, error) {
		return chi.NewMux(), nil
	})

	do.Provide(injector, func(i *do.Injector) (*dispatch.Dispatcher, error) {
		options := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)
		clickStore := do.MustInvoke[clicks.Store](i)
		window := time.Duration(options.UniqueWindowHours) * time.Hour

		return dispatch.NewDispatcher(
			do.MustInvoke[shortlink.Repository](i),
			do.MustInvoke[biopage.Repository](i),
			enrich.NewExtractor(do.MustInvoke[geo.Resolver](i)),
			visitor.NewResolver(do.MustInvoke[visitor.SessionStore](i), logger),
			clicks.NewClassifier(clickStore, window, logger),
			do.MustInvoke[dispatch.Recorder](i),
			logger,
		), nil
	})

	do.Provide(injector, func(i *do.Injector) (huma.API, error) {
		options := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)
		router := do.MustInvoke[*chi.Mux](i)
		dispatcher := do.MustInvoke[*dispatch.Dispatcher](i)

		api := humachi.New(router, huma.DefaultConfig("gas.to", "1.0.0"))
		api.UseMiddleware(
			middleware.RequestMeta(api),
			middleware.RateLimiter(api, do.MustInvoke[*ratelimit.Limiter](i), logger),
		)

		statsService := stats.NewService(
			do.MustInvoke[clicks.Store](i),
			do.MustInvoke[biopage.Repository](i),
		)

		handlers.RegisterRoutes(api,
			handlers.NewRedirectHandler(dispatcher, logger),
			handlers.NewBioHandler(dispatcher, logger),
			handlers.NewStatsHandler(statsService, logger),
			handlers.NewLinkHandler(
				do.MustInvoke[shortlink.Repository](i),
				do.MustInvoke[shortlink.CodeGenerator](i),
				options.PublicBaseURL(),
				logger,
			),
			handlers.NewHealthHandler(
				handlers.NewRedisPinger(do.MustInvoke[*redis.Client](i)),
				handlers.NewPostgresPinger(do.MustInvoke[*pgxpool.Pool](i)),
			),
		)

		return api, nil
	})
}

// ConsumerGroupPackage provides the consumer group that drains the
// click stream into Postgres.
func ConsumerGroupPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*messaging.ConsumerGroup, error) {
		logger := do.MustInvoke[*zap.Logger](i)
		redisClient := do.MustInvoke[*redis.Client](i)
		clickStore := do.MustInvoke[clicks.Store](i)

		subscriber, err := redisstream.NewSubscriber(redisstream.SubscriberConfig{
			Client:        redisClient,
			ConsumerGroup: "clicks-writer",
		}, watermill.NewStdLogger(false, false))
		if err != nil {
			return nil, fmt.Errorf("creating stream subscriber: %w", err)
		}

		group := messaging.NewConsumerGroup(subscriber, logger)
		group.Add(messaging.NewConsumer(subscriber, TopicClicks,
			func(ctx context.Context, record *clicks.ClickRecord) error {
				return clickStore.Insert(ctx, record)
			}, logger))

		return group, nil
	})
}
