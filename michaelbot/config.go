package michaelbot

import (
	"fmt"
	"path/filepath"
	"slices"

	"github.com/disgoorg/snowflake/v2"
	"github.com/spf13/viper"
)

// Profile is one entry of profiles.json. Each profile names the secret
// file carrying its credentials so that several bot identities (stable,
// dev) can live side by side in one config directory.
type Profile struct {
	Description   string   `mapstructure:"description"`
	Version       string   `mapstructure:"version"`
	Prefix        string   `mapstructure:"prefix"`
	SecretFile    string   `mapstructure:"secret"`
	LaunchOptions []string `mapstructure:"launch_options"`
}

type DBConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	Database     string `mapstructure:"database"`
	PoolSize     int    `mapstructure:"pool_size"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	MaxLifetime  int    `mapstructure:"max_lifetime"`
}

type LavalinkConfig struct {
	Name     string `mapstructure:"name"`
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	Secure   bool   `mapstructure:"secure"`
}

// ArchiveConfig points at the S3-compatible bucket used to offload log
// payloads too large for an embed.
type ArchiveConfig struct {
	Key      string `mapstructure:"key"`
	Secret   string `mapstructure:"secret"`
	Region   string `mapstructure:"region"`
	Endpoint string `mapstructure:"endpoint"`
	Bucket   string `mapstructure:"bucket"`
}

type Secrets struct {
	Token         string         `mapstructure:"token"`
	DB            DBConfig       `mapstructure:"db"`
	WeatherAPIKey string         `mapstructure:"weather_api_key"`
	Lavalink      LavalinkConfig `mapstructure:"lavalink"`
	Archive       ArchiveConfig  `mapstructure:"archive"`
	DevGuilds     []snowflake.ID `mapstructure:"dev_guilds"`
	// ReportChannel receives bug reports and suggestions; zero disables.
	ReportChannel snowflake.ID `mapstructure:"report_channel"`
}

type Config struct {
	ProfileName string
	Profile     Profile
	Secrets     Secrets
}

// LoadConfig reads <dir>/profiles.json, picks the named profile and then
// reads the secret file the profile points at.
func LoadConfig(dir, profileName string) (*Config, error) {
	pv := viper.New()
	pv.SetConfigFile(filepath.Join(dir, "profiles.json"))
	pv.SetConfigType("json")
	if err := pv.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read profiles: %w", err)
	}

	var profiles map[string]Profile
	if err := pv.Unmarshal(&profiles); err != nil {
		return nil, fmt.Errorf("failed to decode profiles: %w", err)
	}

	profile, ok := profiles[profileName]
	if !ok {
		return nil, fmt.Errorf("unknown bot profile %q", profileName)
	}
	if profile.SecretFile == "" {
		return nil, fmt.Errorf("profile %q names no secret file", profileName)
	}

	sv := viper.New()
	sv.SetConfigFile(filepath.Join(dir, profile.SecretFile))
	sv.SetConfigType("json")
	if err := sv.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read secrets: %w", err)
	}

	var secrets Secrets
	if err := sv.Unmarshal(&secrets); err != nil {
		return nil, fmt.Errorf("failed to decode secrets: %w", err)
	}
	if secrets.Token == "" {
		return nil, fmt.Errorf("profile %q has an empty token", profileName)
	}

	return &Config{
		ProfileName: profileName,
		Profile:     profile,
		Secrets:     secrets,
	}, nil
}

// Debug reports whether the profile was launched with the --debug option.
func (c *Config) Debug() bool {
	return slices.Contains(c.Profile.LaunchOptions, "--debug")
}
