package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Config holds the project config values
type Config struct {
	URL             string        `mapstructure:"DB_URI"`
	DatabaseName    string        `mapstructure:"DB_NAME"`
	Transactions    bool          `mapstructure:"DB_TRANSACTIONS"`
	BaseURL         string        `mapstructure:"BASE_URL"`
	Port            string        `mapstructure:"PORT"`
	Env             string        `mapstructure:"APP_ENV"`
	JWTSecret       string        `mapstructure:"JWT_SECRET"`
	JWTTTL          time.Duration `mapstructure:"JWT_TTL"`
	SendGridAPIKey  string        `mapstructure:"SENDGRID_API_KEY"`
	MailFrom        string        `mapstructure:"MAIL_FROM"`
	CleanupSchedule string        `mapstructure:"INVITE_CLEANUP_SCHEDULE"`
	InviteRetention time.Duration `mapstructure:"INVITE_RETENTION"`
}

var keys = []string{
	"DB_URI", "DB_NAME", "DB_TRANSACTIONS", "BASE_URL", "PORT", "APP_ENV", "JWT_SECRET", "JWT_TTL",
	"SENDGRID_API_KEY", "MAIL_FROM", "INVITE_CLEANUP_SCHEDULE", "INVITE_RETENTION",
}

// New sets up all config related services. Values come from the environment, with an
// optional .env file in the working directory filling the gaps.
func New() *Config {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // a missing .env is fine

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	v.SetDefault("PORT", "8080")
	v.SetDefault("DB_NAME", "sparkup")
	v.SetDefault("DB_TRANSACTIONS", true)
	v.SetDefault("APP_ENV", "local")
	v.SetDefault("JWT_TTL", "24h")
	v.SetDefault("MAIL_FROM", "no-reply@sparkup.app")
	v.SetDefault("INVITE_CLEANUP_SCHEDULE", "0 3 * * *")
	v.SetDefault("INVITE_RETENTION", "720h")

	//setup zap logger and replace default logger
	logger, err := setLogger(v.GetString("APP_ENV"))
	if err != nil {
		logger = zap.NewExample()
	}
	defer logger.Sync()
	_ = zap.ReplaceGlobals(logger)

	conf := &Config{}
	if err := v.Unmarshal(conf); err != nil {
		zap.S().Errorw("failed to decode config, falling back to defaults", "error", err)
	}
	if conf.JWTTTL <= 0 {
		conf.JWTTTL = 24 * time.Hour
	}
	if conf.InviteRetention < 0 {
		conf.InviteRetention = 0
	}
	if conf.JWTSecret == "" && conf.Env == "local" {
		zap.S().Warnw("JWT_SECRET is not set, tokens are signed with an empty key", "env", conf.Env)
	}
	return conf
}

// ErrMissingJWTSecret is returned by Validate outside local runs without a signing key
var ErrMissingJWTSecret = errors.New("JWT_SECRET must be set when APP_ENV is not local")

// Validate reports settings the service cannot safely start with
func (c *Config) Validate() error {
	if c.JWTSecret == "" && c.Env != "local" {
		return ErrMissingJWTSecret
	}
	return nil
}

// ErrorStatus is a useful function that will log, write http headers and body for a
// give message, status code and err
func ErrorStatus(message string, httpStatusCode int, w http.ResponseWriter, err error) {
	zap.S().Errorw(message, "status", httpStatusCode, "error", err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{"response": fmt.Sprintf("%s, %v", message, err)})
}
