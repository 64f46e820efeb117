package cache

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/shopfront/backend/internal/domain/checkout"
	"github.com/shopfront/backend/internal/infrastructure/config"
)

// SessionStoreFactory creates checkout session stores based on configuration
type SessionStoreFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewSessionStoreFactory creates a new factory
func NewSessionStoreFactory(cfg *config.Config, logger *zap.Logger) *SessionStoreFactory {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionStoreFactory{cfg: cfg, logger: logger}
}

// CreateStore creates the session store named by session.store.
// The memory store keeps sessions local to one process; config validation
// already rejects it in production.
func (f *SessionStoreFactory) CreateStore() (checkout.SessionStore, error) {
	switch f.cfg.Session.Store {
	case "redis":
		store, err := NewRedisSessionStore(RedisConfig{
			Host:     f.cfg.Redis.Host,
			Port:     f.cfg.Redis.Port,
			Password: f.cfg.Redis.Password,
			DB:       f.cfg.Redis.DB,
		}, f.cfg.Session.TTL)
		if err != nil {
			return nil, fmt.Errorf("failed to create Redis session store: %w", err)
		}
		f.logger.Info("Using Redis checkout session store",
			zap.String("addr", f.cfg.Redis.Addr()),
			zap.Duration("ttl", f.cfg.Session.TTL))
		return store, nil

	case "memory":
		f.logger.Warn("Using in-memory checkout session store, sessions will not survive restarts")
		return NewInMemorySessionStore(f.cfg.Session.TTL), nil

	default:
		return nil, fmt.Errorf("unknown session store %q", f.cfg.Session.Store)
	}
}
