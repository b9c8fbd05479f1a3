package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

type Config struct {
	App struct {
		Env      string `validate:"omitempty,oneof=dev prod test"`
		Timezone string
	} `mapstructure:"app"`

	Telegram struct {
		Token       string `validate:"required"`
		AdminChatID int64  `mapstructure:"admin_chat_id"`
		TimeoutSec  int    `mapstructure:"timeout_sec" validate:"gte=0"`
	} `mapstructure:"telegram"`

	HTTP struct {
		Addr string `validate:"required"`
	} `mapstructure:"http"`

	Postgres struct {
		DSN string `validate:"required"`
	} `mapstructure:"postgres"`

	Metrics struct {
		Enabled bool
	} `mapstructure:"metrics"`

	Storage struct {
		Backend         string `validate:"oneof=local gcs"`
		Root            string `validate:"required_if=Backend local"`
		Bucket          string `validate:"required_if=Backend gcs"`
		Prefix          string
		CredentialsFile string `mapstructure:"credentials_file"`
	} `mapstructure:"storage"`

	Lock struct {
		Backend       string        `validate:"oneof=local redis"`
		RedisAddr     string        `mapstructure:"redis_addr" validate:"required_if=Backend redis"`
		RedisPassword string        `mapstructure:"redis_password"`
		RedisDB       int           `mapstructure:"redis_db"`
		TTL           time.Duration `mapstructure:"ttl" validate:"gt=0"`
	} `mapstructure:"lock"`

	Render struct {
		// empty means the built in template
		Template string
	} `mapstructure:"render"`
}

var defaults = map[string]any{
	"app.env":                  "prod",
	"app.timezone":             "Asia/Tehran",
	"telegram.token":           "",
	"telegram.admin_chat_id":   0,
	"telegram.timeout_sec":     30,
	"http.addr":                ":8080",
	"postgres.dsn":             "",
	"metrics.enabled":          true,
	"storage.backend":          "local",
	"storage.root":             "data",
	"storage.bucket":           "",
	"storage.prefix":           "",
	"storage.credentials_file": "",
	"lock.backend":             "local",
	"lock.redis_addr":          "",
	"lock.redis_password":      "",
	"lock.redis_db":            0,
	"lock.ttl":                 "30s",
	"render.template":          "",
}

// Load reads the YAML file at path. A .env file in the working directory
// is loaded into the environment first, and APP_ variables override the
// file, e.g. APP_POSTGRES_DSN.
func Load(path string) (Config, error) {
	var c Config
	if err := gotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return c, fmt.Errorf("config: .env: %w", err)
	}

	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetConfigFile(path)
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return c, err
	}
	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}
	if err := validator.New().Struct(c); err != nil {
		return c, fmt.Errorf("config: %w", err)
	}
	return c, nil
}
