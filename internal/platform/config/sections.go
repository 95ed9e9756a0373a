package config

import (
	"fmt"
	"time"
)

const (
	EnvRedisURL = "REDIS_URL"

	EnvCacheBackend = "TRADEVERIFY_CACHE_BACKEND"
	EnvCacheTTL     = "TRADEVERIFY_CACHE_TTL"

	EnvGazetteerPath = "UNLOCODE_CSV_PATH"
	EnvGazetteerWarm = "TRADEVERIFY_GAZETTEER_WARM"

	EnvPolicyPath = "TRADEVERIFY_POLICY_PATH"

	EnvBatchConcurrency = "TRADEVERIFY_BATCH_CONCURRENCY"

	EnvRateLimitRequests = "TRADEVERIFY_RATELIMIT_REQUESTS"
	EnvRateLimitWindow   = "TRADEVERIFY_RATELIMIT_WINDOW"
	EnvRateLimitDisabled = "TRADEVERIFY_RATELIMIT_DISABLED"

	EnvAuditSink    = "TRADEVERIFY_AUDIT_SINK"
	EnvAuditBrokers = "KAFKA_BROKERS"
	EnvAuditTopic   = "TRADEVERIFY_AUDIT_TOPIC"
)

// RedisConfig holds Redis connection configuration. Redis is optional; an
// empty URL leaves it disabled.
type RedisConfig struct {
	URL          string `toml:"url"`
	PoolSize     int    `toml:"pool_size"`
	MinIdleConns int    `toml:"min_idle_conns"`
	DialTimeout  string `toml:"dial_timeout"`
	ReadTimeout  string `toml:"read_timeout"`
	WriteTimeout string `toml:"write_timeout"`
}

func (r *RedisConfig) Merge(o *RedisConfig) {
	if o.URL != "" {
		r.URL = o.URL
	}
	if o.PoolSize != 0 {
		r.PoolSize = o.PoolSize
	}
	if o.MinIdleConns != 0 {
		r.MinIdleConns = o.MinIdleConns
	}
	if o.DialTimeout != "" {
		r.DialTimeout = o.DialTimeout
	}
	if o.ReadTimeout != "" {
		r.ReadTimeout = o.ReadTimeout
	}
	if o.WriteTimeout != "" {
		r.WriteTimeout = o.WriteTimeout
	}
}

func (r *RedisConfig) Finalize() error {
	if r.PoolSize == 0 {
		r.PoolSize = 10
	}
	if r.MinIdleConns == 0 {
		r.MinIdleConns = 2
	}
	if r.DialTimeout == "" {
		r.DialTimeout = "5s"
	}
	if r.ReadTimeout == "" {
		r.ReadTimeout = "3s"
	}
	if r.WriteTimeout == "" {
		r.WriteTimeout = "3s"
	}
	setString(&r.URL, EnvRedisURL)

	for name, v := range map[string]string{
		"dial_timeout":  r.DialTimeout,
		"read_timeout":  r.ReadTimeout,
		"write_timeout": r.WriteTimeout,
	} {
		if _, err := parseDuration(name, v); err != nil {
			return err
		}
	}
	return nil
}

func (r *RedisConfig) DialTimeoutDuration() time.Duration  { return mustDuration(r.DialTimeout) }
func (r *RedisConfig) ReadTimeoutDuration() time.Duration  { return mustDuration(r.ReadTimeout) }
func (r *RedisConfig) WriteTimeoutDuration() time.Duration { return mustDuration(r.WriteTimeout) }

// Cache backends.
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// CacheConfig controls the verification result cache.
type CacheConfig struct {
	Backend string `toml:"backend"`
	TTL     string `toml:"ttl"`
}

func (c *CacheConfig) Merge(o *CacheConfig) {
	if o.Backend != "" {
		c.Backend = o.Backend
	}
	if o.TTL != "" {
		c.TTL = o.TTL
	}
}

// Finalize defaults the backend to redis when Redis is configured, memory otherwise.
func (c *CacheConfig) Finalize(redisConfigured bool) error {
	if c.Backend == "" {
		c.Backend = CacheMemory
		if redisConfigured {
			c.Backend = CacheRedis
		}
	}
	if c.TTL == "" {
		c.TTL = "15m"
	}
	setString(&c.Backend, EnvCacheBackend)
	setString(&c.TTL, EnvCacheTTL)

	switch c.Backend {
	case CacheNone, CacheMemory:
	case CacheRedis:
		if !redisConfigured {
			return fmt.Errorf("backend %q requires redis.url", c.Backend)
		}
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	_, err := parseDuration("ttl", c.TTL)
	return err
}

func (c *CacheConfig) TTLDuration() time.Duration {
	return mustDuration(c.TTL)
}

// GazetteerConfig points at a UN/LOCODE CSV file or a directory of them.
type GazetteerConfig struct {
	Path string `toml:"path"`
	Warm bool   `toml:"warm"`
}

func (g *GazetteerConfig) Merge(o *GazetteerConfig) {
	if o.Path != "" {
		g.Path = o.Path
	}
	if o.Warm {
		g.Warm = true
	}
}

func (g *GazetteerConfig) Finalize() {
	setString(&g.Path, EnvGazetteerPath)
	setBool(&g.Warm, EnvGazetteerWarm)
}

// PolicyConfig points at the YAML phrase policy. Empty uses built-in lists.
type PolicyConfig struct {
	Path string `toml:"path"`
}

func (p *PolicyConfig) Merge(o *PolicyConfig) {
	if o.Path != "" {
		p.Path = o.Path
	}
}

func (p *PolicyConfig) Finalize() {
	setString(&p.Path, EnvPolicyPath)
}

// BatchConfig bounds batch verification fan-out.
type BatchConfig struct {
	Concurrency int `toml:"concurrency"`
	MaxItems    int `toml:"max_items"`
}

func (b *BatchConfig) Merge(o *BatchConfig) {
	if o.Concurrency != 0 {
		b.Concurrency = o.Concurrency
	}
	if o.MaxItems != 0 {
		b.MaxItems = o.MaxItems
	}
}

func (b *BatchConfig) Finalize() error {
	if b.Concurrency == 0 {
		b.Concurrency = 8
	}
	if b.MaxItems == 0 {
		b.MaxItems = 100
	}
	setInt(&b.Concurrency, EnvBatchConcurrency)
	if b.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1")
	}
	if b.MaxItems < 1 {
		return fmt.Errorf("max_items must be at least 1")
	}
	return nil
}

// RateLimitConfig throttles /v1 callers. Windows are shared through Redis
// when redis.url is set.
type RateLimitConfig struct {
	Requests int    `toml:"requests"`
	Window   string `toml:"window"`
	Disabled bool   `toml:"disabled"`
}

func (r *RateLimitConfig) Merge(o *RateLimitConfig) {
	if o.Requests != 0 {
		r.Requests = o.Requests
	}
	if o.Window != "" {
		r.Window = o.Window
	}
	if o.Disabled {
		r.Disabled = true
	}
}

func (r *RateLimitConfig) Finalize() error {
	if r.Requests == 0 {
		r.Requests = 120
	}
	if r.Window == "" {
		r.Window = "1m"
	}
	setInt(&r.Requests, EnvRateLimitRequests)
	setString(&r.Window, EnvRateLimitWindow)
	setBool(&r.Disabled, EnvRateLimitDisabled)

	if r.Requests < 1 {
		return fmt.Errorf("requests must be at least 1")
	}
	_, err := parseDuration("window", r.Window)
	return err
}

func (r *RateLimitConfig) WindowDuration() time.Duration {
	return mustDuration(r.Window)
}

// Audit sinks.
const (
	AuditNone   = "none"
	AuditMemory = "memory"
	AuditKafka  = "kafka"
)

// AuditConfig selects where verification audit events go.
type AuditConfig struct {
	Sink       string   `toml:"sink"`
	Brokers    []string `toml:"brokers"`
	Topic      string   `toml:"topic"`
	BufferSize int      `toml:"buffer_size"`
}

func (a *AuditConfig) Merge(o *AuditConfig) {
	if o.Sink != "" {
		a.Sink = o.Sink
	}
	if len(o.Brokers) > 0 {
		a.Brokers = o.Brokers
	}
	if o.Topic != "" {
		a.Topic = o.Topic
	}
	if o.BufferSize != 0 {
		a.BufferSize = o.BufferSize
	}
}

func (a *AuditConfig) Finalize() error {
	if a.Sink == "" {
		a.Sink = AuditMemory
	}
	if a.Topic == "" {
		a.Topic = "tradeverify.audit"
	}
	if a.BufferSize == 0 {
		a.BufferSize = 256
	}
	setString(&a.Sink, EnvAuditSink)
	setList(&a.Brokers, EnvAuditBrokers)
	setString(&a.Topic, EnvAuditTopic)

	switch a.Sink {
	case AuditNone, AuditMemory:
	case AuditKafka:
		if len(a.Brokers) == 0 {
			return fmt.Errorf("sink %q requires brokers", a.Sink)
		}
	default:
		return fmt.Errorf("unknown sink %q", a.Sink)
	}
	if a.BufferSize < 1 {
		return fmt.Errorf("buffer_size must be at least 1")
	}
	return nil
}
