package internal

import (
	"strings"
	"testing"
	"time"

	"github.com/Netflix/go-env"
	"github.com/stretchr/testify/require"
)

func TestConfig_Defaults(t *testing.T) {
	req := require.New(t)
	var config Config

	// AUTH_SECRET is the only required key
	err := env.Unmarshal(env.EnvSet{"AUTH_SECRET": strings.Repeat("x", 32)}, &config)

	req.NoError(err)
	req.Equal(2*time.Hour, config.ReactivationWindow)
	req.Equal(BackendBadger, config.StoreBackend)
	req.NoError(config.Validate())
	req.Equal(config.StoreTimeout, config.ServiceOptions().StoreTimeout)

	err = env.Unmarshal(env.EnvSet{}, &Config{})
	req.Error(err)
}

func TestConfig_Validate(t *testing.T) {
	valid := Config{
		StoreBackend:    BackendBadger,
		StoreTimeout:    time.Second,
		AuthSecret:      strings.Repeat("x", 32),
		CharReplacement: "*",
	}
	tests := []struct {
		name    string
		modify  func(c *Config)
		wantErr bool
	}{
		{"Valid", func(*Config) {}, false},
		{"Unknown backend", func(c *Config) { c.StoreBackend = "sqlite" }, true},
		{"Mongo without uri", func(c *Config) { c.StoreBackend = BackendMongo }, true},
		{"Mongo with uri", func(c *Config) { c.StoreBackend, c.MongoURI = BackendMongo, "mongodb://localhost" }, false},
		{"Short secret", func(c *Config) { c.AuthSecret = "short" }, true},
		{"Two replacement chars", func(c *Config) { c.CharReplacement = "**" }, true},
		{"No timeout", func(c *Config) { c.StoreTimeout = 0 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.modify(&c)
			err := c.Validate()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}
