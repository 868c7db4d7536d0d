package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App     AppConfig     `mapstructure:"app"`
	Log     LogConfig     `mapstructure:"log"`
	DB      DBConfig      `mapstructure:"db"`
	HubSpot HubSpotConfig `mapstructure:"hubspot"`
	Sync    SyncConfig    `mapstructure:"sync"`
	Retry   RetryConfig   `mapstructure:"retry"`
}

type AppConfig struct {
	Env string `mapstructure:"env"`
}

type LogConfig struct {
	Level             string `mapstructure:"level"`
	Encoding          string `mapstructure:"encoding"`
	File              string `mapstructure:"file"`
	Development       bool   `mapstructure:"development"`
	Sampling          bool   `mapstructure:"sampling"`
	DisableCaller     bool   `mapstructure:"disable_caller"`
	DisableStacktrace bool   `mapstructure:"disable_stacktrace"`
}

type DBConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	Timezone        string        `mapstructure:"timezone"`
}

type HubSpotConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Token   string        `mapstructure:"token"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type SyncConfig struct {
	ObjectTypes []string `mapstructure:"object_types"`
	PageLimit   int      `mapstructure:"page_limit"`
	MaxPages    int      `mapstructure:"max_pages"`
	// InitialLookback bounds the first sync when no checkpoint exists.
	// Zero means fetch everything since the epoch.
	InitialLookback    time.Duration       `mapstructure:"initial_lookback"`
	DiscoverProperties bool                `mapstructure:"discover_properties"`
	Properties         map[string][]string `mapstructure:"properties"`
}

type RetryConfig struct {
	MaxAttempts    int           `mapstructure:"max_attempts"`
	InitialBackoff time.Duration `mapstructure:"initial_backoff"`
	MaxBackoff     time.Duration `mapstructure:"max_backoff"`
}

// Load builds the configuration from defaults, an optional YAML file, and the
// environment (HUBSYNC_ prefix, dots replaced by underscores). Environment
// values always win. An empty path skips file loading entirely, which is the
// normal mode under CI.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("HUBSYNC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetDefault("app.env", "dev")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")
	v.SetDefault("log.file", "sync.log")
	v.SetDefault("log.development", true)
	v.SetDefault("log.sampling", false)
	v.SetDefault("log.disable_caller", false)
	v.SetDefault("log.disable_stacktrace", false)
	// Required keys get an empty default so viper registers them and env-only
	// runs can still fill them in. validate() rejects the empty values.
	v.SetDefault("db.dsn", "")
	v.SetDefault("db.max_open_conns", 20)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("db.conn_max_lifetime", "30m")
	v.SetDefault("db.conn_max_idle_time", "5m")
	v.SetDefault("db.timezone", "UTC")
	v.SetDefault("hubspot.base_url", "https://api.hubapi.com/crm/v3")
	v.SetDefault("hubspot.token", "")
	v.SetDefault("hubspot.timeout", "30s")
	v.SetDefault("sync.object_types", []string{"contacts", "companies", "deals"})
	v.SetDefault("sync.page_limit", 100)
	v.SetDefault("sync.max_pages", 0)
	v.SetDefault("sync.initial_lookback", "0")
	v.SetDefault("sync.discover_properties", false)
	v.SetDefault("sync.properties.contacts", []string{
		"email", "firstname", "lastname", "phone", "company", "hs_object_id",
		"createdate", "lastmodifieddate", "hs_lead_status", "lifecyclestage",
	})
	v.SetDefault("sync.properties.companies", []string{
		"name", "domain", "phone", "hs_object_id", "createdate",
		"lastmodifieddate", "industry", "city", "state", "country", "website",
	})
	v.SetDefault("sync.properties.deals", []string{
		"dealname", "dealstage", "pipeline", "amount", "closedate",
		"createdate", "hs_object_id", "lastmodifieddate", "hubspot_owner_id",
	})
	v.SetDefault("retry.max_attempts", 5)
	v.SetDefault("retry.initial_backoff", "1s")
	v.SetDefault("retry.max_backoff", "30s")

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

var knownObjectTypes = map[string]bool{
	"contacts":  true,
	"companies": true,
	"deals":     true,
}

func (c Config) validate() error {
	var missing []string
	if c.DB.DSN == "" {
		missing = append(missing, "db.dsn (HUBSYNC_DB_DSN)")
	}
	if c.HubSpot.Token == "" {
		missing = append(missing, "hubspot.token (HUBSYNC_HUBSPOT_TOKEN)")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required config: %s", strings.Join(missing, ", "))
	}
	for _, ot := range c.Sync.ObjectTypes {
		if !knownObjectTypes[ot] {
			return fmt.Errorf("unknown object type %q in sync.object_types", ot)
		}
	}
	return nil
}
