// Package settings loads CLI configuration from the environment, with an
// optional .env file in the working directory as fallback. Real environment
// variables always win over .env entries.
package settings

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Configuration keys. The premium keys configure the hosted provisioning
// service; when absent, standard Hetzner provisioning is used.
const (
	keyHetznerToken     = "hetzner_api_token"
	keyDebug            = "clwd_debug"
	keyPremiumServerURL = "clwd_premium_server_url"
	keyPremiumTokenFile = "clwd_premium_token_file"

	defaultPremiumServerURL = "https://premium.clwd.com"
)

// Settings is the resolved CLI configuration.
type Settings struct {
	HetznerAPIToken  string
	Debug            bool
	PremiumServerURL string
	PremiumTokenFile string
}

// Load resolves settings from the environment and an optional .env file in
// the current directory.
func Load() (*Settings, error) {
	return loadFrom(".")
}

func loadFrom(dir string) (*Settings, error) {
	v := viper.New()
	v.SetDefault(keyHetznerToken, "")
	v.SetDefault(keyDebug, false)
	v.SetDefault(keyPremiumServerURL, defaultPremiumServerURL)
	v.SetDefault(keyPremiumTokenFile, "~/.clwd/premium_token")

	v.AutomaticEnv()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(dir)
	if err := v.ReadInConfig(); err != nil {
		// A missing or unreadable .env is fine; the environment alone is a
		// complete configuration source.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, err
		}
	}

	tokenFile, err := expandHome(v.GetString(keyPremiumTokenFile))
	if err != nil {
		return nil, err
	}

	return &Settings{
		HetznerAPIToken:  v.GetString(keyHetznerToken),
		Debug:            v.GetBool(keyDebug),
		PremiumServerURL: v.GetString(keyPremiumServerURL),
		PremiumTokenFile: tokenFile,
	}, nil
}

// HasHetznerToken reports whether a Hetzner API token is configured.
func (s *Settings) HasHetznerToken() bool {
	return s.HetznerAPIToken != ""
}

// IsPremiumConfigured reports whether the premium service URL was changed
// from its placeholder default.
func (s *Settings) IsPremiumConfigured() bool {
	return s.PremiumServerURL != "" && s.PremiumServerURL != defaultPremiumServerURL
}

// HasPremiumToken reports whether the premium token file exists.
func (s *Settings) HasPremiumToken() bool {
	info, err := os.Stat(s.PremiumTokenFile)
	return err == nil && !info.IsDir()
}

func expandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
