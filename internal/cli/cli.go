package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/jiapu/pkg/api"
	"github.com/matzehuels/jiapu/pkg/cache"
	"github.com/matzehuels/jiapu/pkg/config"
	"github.com/matzehuels/jiapu/pkg/errors"
	"github.com/matzehuels/jiapu/pkg/pipeline"
	"github.com/matzehuels/jiapu/pkg/session"
	"github.com/matzehuels/jiapu/pkg/storage"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "jiapu"

	// storeTimeout bounds connecting to the snapshot database.
	storeTimeout = 10 * time.Second
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands. Backends are opened lazily on
// first use and released by Close.
type CLI struct {
	Logger *log.Logger

	// ConfigPath overrides the default config file location.
	ConfigPath string

	cfg      *config.Config
	sessions session.Store
	redis    *redis.Client
}

// New creates a new CLI instance with a logger writing to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// Close releases backend connections.
func (c *CLI) Close() error {
	if c.redis != nil {
		err := c.redis.Close()
		c.redis = nil
		return err
	}
	return nil
}

// =============================================================================
// Backends
// =============================================================================

func (c *CLI) config() (config.Config, error) {
	if c.cfg == nil {
		cfg, err := config.Load(c.ConfigPath)
		if err != nil {
			return cfg, err
		}
		c.cfg = &cfg
	}
	return *c.cfg, nil
}

func (c *CLI) redisClient(cfg config.Config) *redis.Client {
	if c.redis == nil {
		c.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	return c.redis
}

// sessionStore opens the configured session backend.
func (c *CLI) sessionStore() (session.Store, error) {
	if c.sessions != nil {
		return c.sessions, nil
	}
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	switch cfg.Session.Backend {
	case config.BackendRedis:
		c.sessions = session.NewRedisStore(c.redisClient(cfg), cfg.Session.Profile)
	case config.BackendMemory:
		c.sessions = session.NewMemoryStore()
	default:
		fs, err := session.NewFileStore(sessionPath(cfg.Session.Profile))
		if err != nil {
			return nil, err
		}
		c.sessions = fs
	}
	return c.sessions, nil
}

// apiClient returns a client authenticated with the stored session.
func (c *CLI) apiClient() (*api.Client, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	store, err := c.sessionStore()
	if err != nil {
		return nil, err
	}
	return api.New(api.Options{
		BaseURL:  cfg.APIBaseURL,
		Timeout:  cfg.Timeout.Duration,
		Sessions: store,
		Logger:   c.Logger,
	})
}

// newCache opens the configured cache backend. An unreachable redis falls
// back to no caching.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, cache.Keyer, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, nil, err
	}
	var keyer cache.Keyer = cache.NewDefaultKeyer()
	if cfg.Session.Profile != "" {
		keyer = cache.NewScopedKeyer(keyer, cfg.Session.Profile)
	}
	if noCache || cfg.Cache.Backend == config.BackendNone {
		return cache.NewNullCache(), keyer, nil
	}

	if cfg.Cache.Backend == config.BackendRedis {
		rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   appName + ":cache:",
		})
		if err != nil {
			c.Logger.Warn("redis cache unavailable, caching disabled", "addr", cfg.Redis.Addr, "err", err)
			return cache.NewNullCache(), keyer, nil
		}
		return rc, keyer, nil
	}

	dir, err := c.fileCacheDir(cfg)
	if err != nil {
		c.Logger.Warn("no cache directory, caching disabled", "err", err)
		return cache.NewNullCache(), keyer, nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, nil, err
	}
	return fc, keyer, nil
}

// newRunner creates a pipeline runner. withSource attaches the API client;
// offline commands pass false.
func (c *CLI) newRunner(ctx context.Context, noCache, withSource bool) (*pipeline.Runner, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	ch, keyer, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	var src pipeline.Source
	if withSource {
		client, err := c.apiClient()
		if err != nil {
			ch.Close()
			return nil, err
		}
		src = client
	}
	r := pipeline.NewRunner(ch, keyer, src, c.Logger)
	if ttl := cfg.Cache.TTL.Duration; ttl > 0 {
		r.FamilyTTL = ttl
	}
	return r, nil
}

// snapshotStore connects to the configured MongoDB.
func (c *CLI) snapshotStore(ctx context.Context) (storage.Store, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	if cfg.Mongo.URI == "" {
		return nil, errors.New(errors.ErrCodeUnsupported, "mongo.uri is not configured")
	}
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()
	return storage.NewMongoStore(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
}

// closeStore disconnects s on a fresh context: the command context is
// usually cancelled by the time deferred cleanup runs.
func (c *CLI) closeStore(s storage.Store) {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	if err := s.Close(ctx); err != nil {
		c.Logger.Warn("closing snapshot store", "err", err)
	}
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/jiapu/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// sessionPath returns the session file for profile; empty means the
// default location.
func sessionPath(profile string) string {
	if profile == "" {
		return ""
	}
	dir, err := config.Dir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "sessions", profile+".json")
}
