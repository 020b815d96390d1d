package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	AuthPersonal = "personal"
	AuthService  = "service"
)

var DefaultScopes = []string{
	"https://www.googleapis.com/auth/spreadsheets",
	"https://spreadsheets.google.com/feeds",
	"https://www.googleapis.com/auth/drive",
}

// Read loads the configuration from path, or from config.{yaml,toml,json} in the working
// directory and ./config when path is empty. Environment variables prefixed with GSUITE_
// override file values (GSUITE_GOOGLE_AUTH, GSUITE_DRIVE_FOLDERURL, ...). The result is not
// validated; callers apply their own overrides and then call Validate.
func Read(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("GSUITE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("unable to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unable to decode config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("google.auth", AuthService)
	v.SetDefault("google.keypath", "credentials.json")
	v.SetDefault("google.clientsecretspath", "client_secrets.json")
	v.SetDefault("google.tokenpath", "token.json")
	v.SetDefault("google.scopes", DefaultScopes)
	v.SetDefault("drive.folderurl", "")
	v.SetDefault("drive.pathseparator", "/")
	v.SetDefault("drive.maxpathdepth", 64)
	v.SetDefault("log.level", "info")
	v.SetDefault("report.spreadsheetid", "")
	v.SetDefault("report.range", "Uploads!A:G")
}

func (c Config) Validate() error {
	switch c.Google.Auth {
	case AuthPersonal, AuthService:
	default:
		return fmt.Errorf("invalid google.auth %q: want %q or %q", c.Google.Auth, AuthPersonal, AuthService)
	}
	if c.Drive.MaxPathDepth <= 0 {
		return fmt.Errorf("drive.maxPathDepth must be positive, got %d", c.Drive.MaxPathDepth)
	}
	for _, u := range c.Uploads {
		if u.Schedule == "" || u.FilePath == "" {
			return fmt.Errorf("upload %q needs both schedule and filePath", u.Name)
		}
	}
	return nil
}
