package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Env is the process configuration. Sources, lowest precedence first:
// defaults, fleetfin.yaml, FLEETFIN_* environment variables, command flags.
type Env struct {
	AppAddr         string        `mapstructure:"app_addr"`
	GinMode         string        `mapstructure:"gin_mode"`
	DBDriver        string        `mapstructure:"db_driver"`
	DBDSN           string        `mapstructure:"db_dsn"`
	JWTSecret       string        `mapstructure:"jwt_secret"`
	TokenTTL        time.Duration `mapstructure:"token_ttl"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
	LogLevel        string        `mapstructure:"log_level"`
	LogFormat       string        `mapstructure:"log_format"`
	Currency        string        `mapstructure:"currency"`
	AdminUsername   string        `mapstructure:"admin_username"`
	AdminPassword   string        `mapstructure:"admin_password"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

const devSecret = "dev-secret-change-me"

var defaults = map[string]any{
	"app_addr":         ":8080",
	"gin_mode":         "",
	"db_driver":        "sqlite",
	"db_dsn":           "fleetfin.db",
	"jwt_secret":       devSecret,
	"token_ttl":        "12h",
	"cors_origins":     []string{"http://localhost:3000", "http://localhost:5173"},
	"log_level":        "info",
	"log_format":       "json",
	"currency":         "BRL",
	"admin_username":   "admin",
	"admin_password":   "",
	"shutdown_timeout": "10s",
}

// LoadEnv reads configuration with no flag overrides.
func LoadEnv() (Env, error) {
	return Load(nil, "")
}

// Load reads configuration. file may be empty to search ./fleetfin.yaml and
// /etc/fleetfin/fleetfin.yaml; flags may be nil.
func Load(flags *pflag.FlagSet, file string) (Env, error) {
	var env Env
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	v.SetConfigName("fleetfin")
	v.SetConfigType("yaml")
	if file != "" {
		v.SetConfigFile(file)
	}
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/fleetfin")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return env, err
		}
	}

	v.SetEnvPrefix("fleetfin")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		var bindErr error
		flags.VisitAll(func(f *pflag.Flag) {
			key := strings.ReplaceAll(f.Name, "-", "_")
			if _, known := defaults[key]; known && bindErr == nil {
				bindErr = v.BindPFlag(key, f)
			}
		})
		if bindErr != nil {
			return env, bindErr
		}
	}

	if err := v.Unmarshal(&env); err != nil {
		return env, err
	}
	env.normalize()
	return env, nil
}

func (e *Env) normalize() {
	e.AppAddr = strings.TrimSpace(e.AppAddr)
	e.DBDriver = strings.ToLower(strings.TrimSpace(e.DBDriver))
	e.LogFormat = strings.ToLower(strings.TrimSpace(e.LogFormat))
	// FLEETFIN_CORS_ORIGINS arrives as one comma separated string
	var origins []string
	for _, o := range e.CORSOrigins {
		for _, part := range strings.Split(o, ",") {
			if part = strings.TrimSpace(part); part != "" {
				origins = append(origins, part)
			}
		}
	}
	e.CORSOrigins = origins
}

// Validate rejects settings that would make the server unsafe to start.
func (e Env) Validate() error {
	switch e.DBDriver {
	case DriverMySQL, DriverSQLite:
	default:
		return errors.New("db_driver must be mysql or sqlite")
	}
	if strings.TrimSpace(e.DBDSN) == "" {
		return errors.New("db_dsn is required")
	}
	if e.GinMode == "release" && (e.JWTSecret == "" || e.JWTSecret == devSecret) {
		return errors.New("jwt_secret must be set in release mode")
	}
	if e.TokenTTL <= 0 {
		return errors.New("token_ttl must be positive")
	}
	return nil
}
