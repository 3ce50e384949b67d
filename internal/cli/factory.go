package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/courier"
	"github.com/aretw0/courier/internal/adapters/file"
	"github.com/aretw0/courier/internal/logging"
	"github.com/aretw0/courier/pkg/adapters/memory"
	"github.com/aretw0/courier/pkg/adapters/redis"
	"github.com/aretw0/courier/pkg/domain"
	"github.com/aretw0/courier/pkg/observability"
	"github.com/aretw0/courier/pkg/persistence/middleware"
	"github.com/aretw0/courier/pkg/ports"
	"github.com/aretw0/courier/pkg/session"
)

// CreateLogger configures the application logger. debug forces debug level.
func CreateLogger(cfg Config, debug bool) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	if debug {
		level = slog.LevelDebug
	}
	return logging.NewWithFormat(os.Stderr, level, cfg.LogFormat), nil
}

// CreateEngine initializes an Engine with CLI conventions: debug hooks when
// debugging and out-of-grid notices logged at warn level.
func CreateEngine(cfg Config, logger *slog.Logger, debug bool, hooks ...domain.LifecycleHooks) *courier.Engine {
	if debug {
		hooks = append(hooks, observability.LoggingHooks(logger))
	}
	return courier.New(
		courier.WithLogger(logger),
		courier.WithDelay(cfg.Delay),
		courier.WithLifecycleHooks(domain.MergeHooks(hooks...)),
	)
}

// CreateSessions builds the session manager for cfg.Store. Redis stores
// also get a distributed locker sharing their client.
// The returned close func releases the backend.
func CreateSessions(cfg Config, logger *slog.Logger) (*session.Manager, func() error, error) {
	opts := []session.Option{session.WithLogger(logger)}
	var store ports.SessionStore
	closer := func() error { return nil }

	switch cfg.Store {
	case StoreMemory:
		store = memory.NewStore()
	case StoreFile:
		store = file.New(cfg.SessionDir)
	case StoreRedis:
		var storeOpts []redis.Option
		if cfg.Redis.Prefix != "" {
			storeOpts = append(storeOpts, redis.WithPrefix(cfg.Redis.Prefix))
		}
		if cfg.Redis.TTL > 0 {
			storeOpts = append(storeOpts, redis.WithTTL(cfg.Redis.TTL))
		}
		rs := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, storeOpts...)
		store = rs
		closer = rs.Close
		opts = append(opts, session.WithLocker(redis.NewLocker(rs.Client(), cfg.Redis.Prefix)))
	default:
		return nil, nil, fmt.Errorf("unknown store %q", cfg.Store)
	}

	if cfg.EncryptionKey != "" {
		encrypt, err := encryptionMiddleware(cfg)
		if err != nil {
			_ = closer()
			return nil, nil, err
		}
		store = middleware.Chain(store, encrypt)
	}

	logger.Debug("session store ready", "store", cfg.Store, "encrypted", cfg.EncryptionKey != "")
	return session.NewManager(store, opts...), closer, nil
}

func encryptionMiddleware(cfg Config) (middleware.Middleware, error) {
	active, err := middleware.ParseKey(cfg.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("encryption_key: %w", err)
	}
	conf := middleware.EncryptionConfig{ActiveKey: active}
	for i, k := range cfg.FallbackKeys {
		key, err := middleware.ParseKey(k)
		if err != nil {
			return nil, fmt.Errorf("fallback_keys[%d]: %w", i, err)
		}
		conf.FallbackKeys = append(conf.FallbackKeys, key)
	}
	return middleware.NewEncryptionMiddleware(conf)
}
