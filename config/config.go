package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

type Config struct {
	Mode   string `mapstructure:"mode"`
	Server struct {
		HTTPPort string        `mapstructure:"HTTPPort"`
		Timeout  time.Duration `mapstructure:"HTTPTimeout"`
	} `mapstructure:"server"`
	Repositories struct {
		Postgres struct {
			Host     string `mapstructure:"host"`
			Password string `mapstructure:"password"`
			Port     string `mapstructure:"port"`
			Username string `mapstructure:"username"`
			DB       string `mapstructure:"db"`
			SSLMode  string `mapstructure:"sslmode"`
		} `mapstructure:"postgres"`
	} `mapstructure:"repositories"`
	Gemini struct {
		Model             string        `mapstructure:"model"`
		Temperature       float64       `mapstructure:"temperature"`
		MaxOutputTokens   int           `mapstructure:"maxOutputTokens"`
		CompletionTimeout time.Duration `mapstructure:"completionTimeout"`
	} `mapstructure:"gemini"`
	GoogleMaps struct {
		SearchRadiusMeters int           `mapstructure:"searchRadiusMeters"`
		MaxPages           int           `mapstructure:"maxPages"`
		PageTokenDelay     time.Duration `mapstructure:"pageTokenDelay"`
	} `mapstructure:"googleMaps"`
	Enrichment struct {
		Interval    time.Duration `mapstructure:"interval"`
		Concurrency int           `mapstructure:"concurrency"`
	} `mapstructure:"enrichment"`
}

func InitConfig() (Config, error) {
	var config Config
	v := viper.New()

	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	// Try to load file-based config, fall back to the embedded copy.
	err := v.ReadInConfig()
	if err != nil {
		fmt.Printf("Warning: Failed to find file-based config: %s. Falling back to embedded config.\n", err)
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %s", err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %s", err)
	}
	return config, nil
}
