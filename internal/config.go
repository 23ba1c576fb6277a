package internal

import (
	"fmt"
	"taskmarket/services"
	"time"
)

const (
	BackendBadger = "badger"
	BackendMongo  = "mongo"
)

type Config struct {
	StoreBackend                string        `env:"STORE_BACKEND,default=badger"`
	BadgerFilepath              string        `env:"BADGER_FILEPATH,default=./data/badger"`
	MongoURI                    string        `env:"MONGO_URI"`
	MongoDatabase               string        `env:"MONGO_DATABASE,default=taskmarket"`
	MongoWatch                  bool          `env:"MONGO_WATCH,default=false"`
	BlugeFilepath               string        `env:"BLUGE_FILEPATH,default=./data/bluge"`
	BlobDir                     string        `env:"BLOB_DIR,default=./data/blobs"`
	LogLevel                    string        `env:"LOG_LEVEL,default=INFO"`
	StoreTimeout                time.Duration `env:"STORE_TIMEOUT,default=10s"`
	MaxConflictRetries          int           `env:"MAX_CONFLICT_RETRIES,default=5"`
	ReactivationWindow          time.Duration `env:"REACTIVATION_WINDOW,default=2h"`
	AuthTokenDuration           time.Duration `env:"AUTH_TOKEN_DURATION,default=720h"`
	AuthSecret                  string        `env:"AUTH_SECRET,required=true"`
	CharReplacement             string        `env:"CHARACTER_REPLACEMENT,default=*"`
	SubscriptionRestartInterval time.Duration `env:"SUBSCRIPTION_RESTART_INTERVAL,default=1s"`
	SessionFile                 string        `env:"SESSION_FILE,default=./data/session.json"`
	Colours                     bool          `env:"COLOURS,default=true"`
}

// Validate checks what the env tags cannot express.
func (c Config) Validate() error {
	switch c.StoreBackend {
	case BackendBadger:
	case BackendMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("MONGO_URI is required with STORE_BACKEND=%s", BackendMongo)
		}
	default:
		return fmt.Errorf("STORE_BACKEND must be %q or %q, got %q", BackendBadger, BackendMongo, c.StoreBackend)
	}
	if c.StoreTimeout <= 0 {
		return fmt.Errorf("STORE_TIMEOUT must be positive, got %s", c.StoreTimeout)
	}
	if c.MaxConflictRetries < 0 {
		return fmt.Errorf("MAX_CONFLICT_RETRIES must not be negative, got %d", c.MaxConflictRetries)
	}
	if len(c.AuthSecret) < 32 {
		return fmt.Errorf("AUTH_SECRET must be at least 32 bytes")
	}
	_, err := CharacterRune(c.CharReplacement)
	return err
}

func (c Config) ServiceOptions() services.Options {
	return services.Options{
		StoreTimeout:       c.StoreTimeout,
		MaxConflictRetries: c.MaxConflictRetries,
		ReactivationWindow: c.ReactivationWindow,
	}
}

func CharacterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"CHARACTER_REPLACEMENT must be a single character, got %q",
			str,
		)
	}
	return r[0], nil
}
