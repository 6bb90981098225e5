// Package config reads the process configuration from viper, which is bound
// to environment variables and command flags by the cobra root command.
package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/productos/catalog-api/internal/query"
)

var validate = validator.New()

type Config struct {
	Host        string `validate:"required"`
	Port        int    `validate:"min=1,max=65535"`
	Environment string `validate:"required"`
	DatabaseURL string `validate:"required"`
	DBMaxConns  int    `validate:"min=1"`

	DefaultPageSize  int    `validate:"min=1,ltefield=MaxPageSize"`
	MaxPageSize      int    `validate:"min=1"`
	DefaultSortField string `validate:"required"`

	LogLevel  string `validate:"oneof=debug info warn error"`
	LogFormat string `validate:"oneof=text json"`

	RateLimitRPS   int `validate:"min=1"`
	MaxBodyBytes   int64
	AllowedOrigins string
}

// SetDefaults registers default values for every configuration key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("HOST", "0.0.0.0")
	v.SetDefault("PORT", 3000)
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DEFAULT_PAGE_SIZE", 50)
	v.SetDefault("MAX_PAGE_SIZE", 1000)
	v.SetDefault("DEFAULT_SORT_FIELD", "id")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("RATE_LIMIT_RPS", 100)
	v.SetDefault("MAX_REQUEST_BODY_BYTES", 1048576)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
}

func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Host:             v.GetString("HOST"),
		Port:             v.GetInt("PORT"),
		Environment:      v.GetString("APP_ENV"),
		DatabaseURL:      v.GetString("DATABASE_URL"),
		DBMaxConns:       v.GetInt("DB_MAX_CONNS"),
		DefaultPageSize:  v.GetInt("DEFAULT_PAGE_SIZE"),
		MaxPageSize:      v.GetInt("MAX_PAGE_SIZE"),
		DefaultSortField: v.GetString("DEFAULT_SORT_FIELD"),
		LogLevel:         strings.ToLower(v.GetString("LOG_LEVEL")),
		LogFormat:        strings.ToLower(v.GetString("LOG_FORMAT")),
		RateLimitRPS:     v.GetInt("RATE_LIMIT_RPS"),
		MaxBodyBytes:     v.GetInt64("MAX_REQUEST_BODY_BYTES"),
		AllowedOrigins:   v.GetString("CORS_ALLOWED_ORIGINS"),
	}

	if err := ValidateStruct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if _, ok := query.ProductSortFields[cfg.DefaultSortField]; !ok {
		return nil, fmt.Errorf("invalid configuration: DEFAULT_SORT_FIELD %q is not sortable", cfg.DefaultSortField)
	}

	return cfg, nil
}

// QueryOptions returns the list-parameter bounds for product listings.
func (c *Config) QueryOptions() query.Options {
	return query.Options{
		DefaultPageSize:  c.DefaultPageSize,
		MaxPageSize:      c.MaxPageSize,
		DefaultSortField: c.DefaultSortField,
		SortableFields:   query.ProductSortFields,
	}
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// PoolURL returns DatabaseURL with the pool size applied as pool_max_conns,
// unless the DSN already sets it. Both URL and keyword/value DSNs are accepted.
func (c *Config) PoolURL() (string, error) {
	if !strings.Contains(c.DatabaseURL, "://") {
		dsn := strings.TrimSpace(c.DatabaseURL)
		for _, field := range strings.Fields(dsn) {
			if strings.HasPrefix(field, "pool_max_conns=") {
				return dsn, nil
			}
		}
		return dsn + " pool_max_conns=" + strconv.Itoa(c.DBMaxConns), nil
	}

	u, err := url.Parse(c.DatabaseURL)
	if err != nil {
		return "", fmt.Errorf("parse DATABASE_URL: %w", err)
	}

	q := u.Query()
	if q.Get("pool_max_conns") == "" {
		q.Set("pool_max_conns", strconv.Itoa(c.DBMaxConns))
	}
	u.RawQuery = q.Encode()

	return u.String(), nil
}

func ValidateStruct(s any) error {
	if err := validate.Struct(s); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			var messages []string
			for _, fieldError := range validationErrors {
				messages = append(messages, formatValidationError(fieldError))
			}
			return fmt.Errorf("%s", strings.Join(messages, "; "))
		}
		return err
	}
	return nil
}

func formatValidationError(err validator.FieldError) string {
	field := strings.ToLower(err.Field())

	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, err.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, err.Param())
	case "ltefield":
		return fmt.Sprintf("%s must not exceed %s", field, strings.ToLower(err.Param()))
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, err.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
