package test

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// MONGO_URI enables the MongoDB run of the marketplace suite
	MongoURI      string `envconfig:"MONGO_URI"`
	MongoDatabase string `envconfig:"MONGO_TEST_DATABASE" default:"taskmarket_test"`
	// TEST_COLOURS enables colorized step headers for better log readability
	Colours bool `envconfig:"TEST_COLOURS" default:"true"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
