// Package logger holds the process-wide zap logger. Every entry carries
// service=kiptrack; ForUser adds the ledger document's user_key.
package logger

import (
	"sync"

	"go.uber.org/zap"
)

// ServiceName is attached to every log entry.
const ServiceName = "kiptrack"

var (
	mu    sync.RWMutex
	sugar *zap.SugaredLogger
	once  sync.Once
)

// Init initializes the global logger for the given environment.
// "production" logs JSON at info level, anything else logs to the console at
// debug level. A non-empty level ("debug", "info", "warn", "error") overrides
// the environment's default.
func Init(env, level string) {
	once.Do(func() {
		base, err := newConfig(env, level).Build()
		if err != nil {
			// Fallback to nop logger if initialization fails.
			base = zap.NewNop()
		}
		set(base)
		if _, err := zap.ParseAtomicLevel(level); level != "" && err != nil {
			Get().Warnw("Ignoring unknown LOG_LEVEL", "level", level)
		}
	})
}

func newConfig(env, level string) zap.Config {
	cfg := zap.NewDevelopmentConfig()
	if env == "production" {
		cfg = zap.NewProductionConfig()
	}
	if level != "" {
		if lvl, err := zap.ParseAtomicLevel(level); err == nil {
			cfg.Level = lvl
		}
	}
	cfg.InitialFields = map[string]interface{}{"service": ServiceName}
	return cfg
}

func set(base *zap.Logger) {
	mu.Lock()
	sugar = base.Sugar()
	mu.Unlock()
}

// Get returns the global sugared logger.
// If Init has not been called, it initializes a development logger.
func Get() *zap.SugaredLogger {
	mu.RLock()
	l := sugar
	mu.RUnlock()
	if l != nil {
		return l
	}
	Init("development", "")
	mu.RLock()
	defer mu.RUnlock()
	return sugar
}

// ForUser returns the global logger with the user_key field set.
func ForUser(key string) *zap.SugaredLogger {
	return Get().With("user_key", key)
}

// Sync flushes any buffered log entries. Call this before application exit.
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	if sugar != nil {
		_ = sugar.Sync()
	}
}
