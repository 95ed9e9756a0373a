// Package app builds the object graph shared by the HTTP server, the CLI and
// the MCP server from a loaded configuration.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"tradeverify/internal/consistency"
	chandler "tradeverify/internal/consistency/handler"
	cmetrics "tradeverify/internal/consistency/metrics"
	"tradeverify/internal/gazetteer"
	"tradeverify/internal/gazetteer/portmatch"
	httpapi "tradeverify/internal/http"
	jwttoken "tradeverify/internal/jwt_token"
	"tradeverify/internal/platform/config"
	"tradeverify/internal/platform/lifecycle"
	"tradeverify/internal/platform/metrics"
	"tradeverify/internal/platform/redis"
	"tradeverify/internal/ratelimit"
	rlstore "tradeverify/internal/ratelimit/store"
	"tradeverify/internal/sources"
	"tradeverify/internal/verification"
	vhandler "tradeverify/internal/verification/handler"
	vmetrics "tradeverify/internal/verification/metrics"
	"tradeverify/internal/verification/store"
	"tradeverify/pkg/platform/audit"
	"tradeverify/pkg/platform/audit/kafka"
	"tradeverify/pkg/platform/audit/publisher"
	auditmemory "tradeverify/pkg/platform/audit/store/memory"
)

// Prometheus collectors register on the default registry, so each set is
// created once per process even when App is built several times (tests, CLI).
var (
	httpMetrics         = sync.OnceValue(metrics.New)
	verificationMetrics = sync.OnceValue(vmetrics.New)
	consistencyMetrics  = sync.OnceValue(cmetrics.New)
	auditMetrics        = sync.OnceValue(publisher.NewMetrics)
	rateLimitMetrics    = sync.OnceValue(ratelimit.NewMetrics)
)

// App holds the wired components.
type App struct {
	Config    *config.Config
	Logger    *slog.Logger
	Lifecycle *lifecycle.Coordinator

	Sources   *sources.Registry
	Gazetteer *gazetteer.Loader
	Verifier  verification.Verifier
	Batch     *verification.Batch
	Validator *consistency.Validator
	RateLimit *ratelimit.Middleware

	// Tokens is nil when bearer auth is disabled.
	Tokens *jwttoken.JWTService
	// AuditEvents is set when the audit sink is the in-memory store.
	AuditEvents *auditmemory.InMemoryStore

	redis *redis.Client
}

// New wires every component from cfg. Shutdown hooks for the clients it opens
// are registered on the returned App's Lifecycle.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	a := &App{
		Config:    cfg,
		Logger:    logger,
		Lifecycle: lifecycle.New(logger),
	}

	emitter, err := a.buildAudit()
	if err != nil {
		return nil, err
	}

	vm := verificationMetrics()
	registry, err := buildSources(cfg.Sources, logger, vm, emitter)
	if err != nil {
		return nil, fmt.Errorf("sources: %w", err)
	}
	a.Sources = registry

	policy := verification.DefaultPolicy()
	if cfg.Policy.Path != "" {
		policy, err = verification.LoadPolicy(cfg.Policy.Path)
		if err != nil {
			return nil, fmt.Errorf("policy: %w", err)
		}
	}

	a.Gazetteer = gazetteer.NewLoader(cfg.Gazetteer.Path, logger)
	if cfg.Gazetteer.Warm {
		a.Lifecycle.OnStartup("gazetteer", a.Gazetteer.Warm)
	}

	svc := verification.New(registry,
		verification.WithLogger(logger),
		verification.WithMetrics(vm),
		verification.WithPolicy(policy),
		verification.WithPortMatcher(portmatch.New(a.Gazetteer)),
	)

	var chain verification.Verifier = svc
	resultStore, err := a.buildCache(ctx)
	if err != nil {
		return nil, err
	}
	if resultStore != nil {
		chain = verification.Cached(chain, resultStore, logger, vm)
	}
	if emitter != nil {
		chain = verification.Audited(chain, emitter, logger)
	}
	a.Verifier = verification.Timed(chain)
	a.Batch = verification.NewBatch(a.Verifier, cfg.Batch.Concurrency, logger, vm)
	if emitter != nil {
		a.Batch.WithEmitter(emitter)
	}

	vopts := []consistency.Option{
		consistency.WithLogger(logger),
		consistency.WithMetrics(consistencyMetrics()),
	}
	if emitter != nil {
		vopts = append(vopts, consistency.WithEmitter(emitter))
	}
	a.Validator = consistency.New(vopts...)

	if !cfg.RateLimit.Disabled {
		a.RateLimit, err = a.buildRateLimit(ctx)
		if err != nil {
			return nil, err
		}
	}

	if cfg.Server.AuthEnabled() {
		a.Tokens = jwttoken.NewJWTService(cfg.Server.AuthSigningKey, cfg.Server.AuthIssuer, cfg.Server.AuthAudience)
	}
	return a, nil
}

// emitter is the subset of the publisher the domain packages need.
type emitter interface {
	Emit(ctx context.Context, event audit.Event) error
}

func (a *App) buildAudit() (emitter, error) {
	cfg := a.Config.Audit
	var sink audit.Sink
	switch cfg.Sink {
	case config.AuditNone:
		return nil, nil
	case config.AuditMemory:
		a.AuditEvents = auditmemory.NewInMemoryStore()
		sink = a.AuditEvents
	case config.AuditKafka:
		k, err := kafka.NewSink(cfg.Brokers, cfg.Topic)
		if err != nil {
			return nil, fmt.Errorf("audit: %w", err)
		}
		a.Lifecycle.OnShutdown("kafka", k.Close)
		a.Lifecycle.OnStartup("kafka", func(ctx context.Context) error {
			if err := k.Ping(ctx); err != nil {
				return err
			}
			return k.EnsureTopic(ctx)
		})
		sink = k
	default:
		return nil, fmt.Errorf("audit: unknown sink %q", cfg.Sink)
	}

	pub := publisher.NewPublisher(sink,
		publisher.WithAsyncBuffer(cfg.BufferSize),
		publisher.WithLogger(a.Logger),
		publisher.WithMetrics(auditMetrics()),
	)
	// Registered after the sink so it runs first: drain, then close.
	a.Lifecycle.OnShutdown("audit publisher", func(context.Context) error {
		pub.Close()
		return nil
	})
	return pub, nil
}

func (a *App) buildCache(ctx context.Context) (verification.ResultStore, error) {
	cfg := a.Config.Cache
	switch cfg.Backend {
	case config.CacheNone:
		return nil, nil
	case config.CacheMemory:
		return store.NewInMemoryCache(cfg.TTLDuration()), nil
	case config.CacheRedis:
		client, err := a.redisClient(ctx)
		if err != nil {
			return nil, fmt.Errorf("cache: %w", err)
		}
		return store.NewRedisCache(client.Client, cfg.TTLDuration()), nil
	default:
		return nil, fmt.Errorf("cache: unknown backend %q", cfg.Backend)
	}
}

// buildRateLimit shares windows through Redis when it is configured.
func (a *App) buildRateLimit(ctx context.Context) (*ratelimit.Middleware, error) {
	cfg := a.Config.RateLimit
	var st ratelimit.Store = rlstore.NewInMemoryStore()
	if a.Config.Redis.URL != "" {
		client, err := a.redisClient(ctx)
		if err != nil {
			return nil, fmt.Errorf("ratelimit: %w", err)
		}
		st = rlstore.NewRedisStore(client.Client)
	}
	return ratelimit.New(st, cfg.Requests, cfg.WindowDuration(), a.Logger,
		ratelimit.WithMetrics(rateLimitMetrics()),
	), nil
}

// redisClient opens the shared connection on first use.
func (a *App) redisClient(ctx context.Context) (*redis.Client, error) {
	if a.redis != nil {
		return a.redis, nil
	}
	client, err := redis.New(ctx, a.Config.Redis)
	if err != nil {
		return nil, err
	}
	a.Lifecycle.OnShutdown("redis", func(context.Context) error {
		return client.Close()
	})
	a.redis = client
	return client, nil
}

// Router builds the HTTP handler.
func (a *App) Router() http.Handler {
	deps := httpapi.Deps{
		Logger:     a.Logger,
		Metrics:    httpMetrics(),
		Verify:     vhandler.New(a.Verifier, a.Batch, a.Config.Batch.MaxItems, a.Logger),
		Validate:   chandler.New(a.Validator, a.Logger),
		Ready:      a.Lifecycle.Ready,
		AdminToken: a.Config.Server.AdminToken,
		Sources:    a.Sources,
	}
	if a.RateLimit != nil {
		deps.RateLimit = a.RateLimit.Handler
	}
	if a.Tokens != nil {
		deps.Tokens = jwttoken.NewJWTServiceAdapter(a.Tokens)
		deps.VerifyScope = jwttoken.ScopeVerify
		deps.ValidateScope = jwttoken.ScopeValidate
	}
	return httpapi.NewRouter(deps)
}

// Close runs the shutdown hooks.
func (a *App) Close(timeout time.Duration) error {
	return a.Lifecycle.Shutdown(timeout)
}
