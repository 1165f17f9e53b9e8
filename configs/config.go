package configs

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/spf13/viper"
)

var (
	config *Config
	once   sync.Once
)

type Config struct {
	Viper *viper.Viper
}

func GetConfig() *Config {
	once.Do(func() {
		config = &Config{
			Viper: initializeViper(),
		}
	})
	return config
}

func initializeViper() *viper.Viper {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			log.Fatalf("Failed to read config file: %v", err)
		}
		// No config file is fine, defaults + env cover local runs
	}

	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8000)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "chantierpro")
	v.SetDefault("database.password", "chantierpro")
	v.SetDefault("database.name", "chantierpro")
	v.SetDefault("database.ssl", "disable")
	v.SetDefault("database.timezone", "Europe/Paris")

	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("jwt.expiration_time", int((72 * time.Hour).Seconds()))
	v.SetDefault("jwt.secret", "dev-only-secret-change-me")

	v.SetDefault("minio.endpoint", "localhost:9000")
	v.SetDefault("minio.external_endpoint", "localhost:9000")
	v.SetDefault("minio.access_key_id", "")
	v.SetDefault("minio.secret_access_key", "")
	v.SetDefault("minio.use_ssl", false)

	v.SetDefault("messaging.poll_interval", "30s")
	v.SetDefault("messaging.notify_throttle", "5s")
	v.SetDefault("messaging.http_timeout", "15s")
	v.SetDefault("messaging.page_size", 200)
}
