// Package config содержит функции для загрузки конфигурации приложения
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultPath путь к файлу конфигурации по умолчанию
const DefaultPath = "~/.playdeck/config.yaml"

// EnvPrefix префикс переменных окружения
const EnvPrefix = "PLAYDECK"

// Config структура для хранения конфигурации приложения
type Config struct {
	LibraryFile      string        `mapstructure:"library_file" yaml:"library_file"`
	StateFile        string        `mapstructure:"state_file" yaml:"state_file"`
	Volume           float64       `mapstructure:"volume" yaml:"volume"`
	ProbeConcurrency int           `mapstructure:"probe_concurrency" yaml:"probe_concurrency"`
	LogFile          string        `mapstructure:"log_file" yaml:"log_file"`
	LogLevel         string        `mapstructure:"log_level" yaml:"log_level"`
	AwsBucketName    string        `mapstructure:"aws_bucket_name" yaml:"aws_bucket_name"`
	AwsAccessKey     string        `mapstructure:"aws_access_key" yaml:"aws_access_key"`
	AwsSecretKey     string        `mapstructure:"aws_secret_key" yaml:"aws_secret_key"`
	AwsRegion        string        `mapstructure:"aws_region" yaml:"aws_region"`
	AwsEndpoint      string        `mapstructure:"aws_endpoint" yaml:"aws_endpoint"`
	PresignTTL       time.Duration `mapstructure:"presign_ttl" yaml:"presign_ttl"`
}

// defaults значения по умолчанию для всех ключей
var defaults = map[string]any{
	"library_file":      "~/.playdeck/library.yaml",
	"state_file":        "~/.playdeck/state.db",
	"volume":            1.0,
	"probe_concurrency": 4,
	"log_file":          "~/.playdeck/playdeck.log",
	"log_level":         "INFO",
	"aws_bucket_name":   "",
	"aws_access_key":    "",
	"aws_secret_key":    "",
	"aws_region":        "",
	"aws_endpoint":      "",
	"presign_ttl":       "15m",
}

// S3Enabled сообщает, заданы ли параметры доступа к S3
func (c *Config) S3Enabled() bool {
	return c.AwsAccessKey != "" && c.AwsSecretKey != "" && c.AwsRegion != ""
}

// LoadConfig загружает конфигурацию приложения из указанного файла.
// Отсутствующий файл не является ошибкой: используются значения по умолчанию
func LoadConfig(filePath string) (*Config, error) {
	path, err := expandHome(filePath)
	if err != nil {
		return nil, err
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Переменные окружения переопределяют файл: PLAYDECK_VOLUME и т.д.
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("ошибка чтения файла конфигурации: %w", err)
			}
		}
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("ошибка разбора конфигурации: %w", err)
	}

	// Раскрываем тильду в путях
	for _, p := range []*string{&config.LibraryFile, &config.StateFile, &config.LogFile} {
		if *p, err = expandHome(*p); err != nil {
			return nil, err
		}
	}

	if config.ProbeConcurrency < 1 {
		config.ProbeConcurrency = 1
	}
	config.Volume = min(max(config.Volume, 0), 1)

	return config, nil
}

func expandHome(filePath string) (string, error) {
	if !strings.HasPrefix(filePath, "~") {
		return filePath, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return strings.Replace(filePath, "~", home, 1), nil
}
