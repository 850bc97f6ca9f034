// Package config loads adapter settings from an optional YAML file and the
// environment. Environment variables win over file values.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultAPIURL = "http://127.0.0.1:12315"

	// The Logseq HTTP server runs on the same machine, so connecting is
	// cheap; reads can take longer on large pages.
	defaultConnectTimeoutSeconds = 3
	defaultReadTimeoutSeconds    = 6
)

// Config holds everything needed to reach the Logseq HTTP API.
type Config struct {
	APIURL         string
	APIToken       string
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
}

// fileConfig mirrors the YAML config file layout.
type fileConfig struct {
	APIURL                string `yaml:"api_url"`
	APIToken              string `yaml:"api_token"`
	ConnectTimeoutSeconds int    `yaml:"connect_timeout_seconds"`
	ReadTimeoutSeconds    int    `yaml:"read_timeout_seconds"`
}

// Load builds a Config from the YAML file at path (may be empty) and the
// LOGSEQ_* environment variables.
func Load(path string) (Config, error) {
	var fc fileConfig
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	apiURL := strings.TrimSpace(os.Getenv("LOGSEQ_API_URL"))
	if apiURL == "" {
		apiURL = fc.APIURL
	}
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	if err := validateAPIURL(apiURL); err != nil {
		return Config{}, err
	}

	token := strings.TrimSpace(os.Getenv("LOGSEQ_API_TOKEN"))
	if token == "" {
		token = fc.APIToken
	}
	if token == "" {
		return Config{}, errors.New("LOGSEQ_API_TOKEN is required (or api_token in the config file)")
	}

	connectSeconds, err := readIntEnv("LOGSEQ_CONNECT_TIMEOUT_SECONDS", firstPositive(fc.ConnectTimeoutSeconds, defaultConnectTimeoutSeconds))
	if err != nil {
		return Config{}, err
	}
	readSeconds, err := readIntEnv("LOGSEQ_READ_TIMEOUT_SECONDS", firstPositive(fc.ReadTimeoutSeconds, defaultReadTimeoutSeconds))
	if err != nil {
		return Config{}, err
	}
	if connectSeconds <= 0 || readSeconds <= 0 {
		return Config{}, errors.New("timeouts must be > 0 seconds")
	}

	return Config{
		APIURL:         strings.TrimRight(apiURL, "/"),
		APIToken:       token,
		ConnectTimeout: time.Duration(connectSeconds) * time.Second,
		ReadTimeout:    time.Duration(readSeconds) * time.Second,
	}, nil
}

func validateAPIURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("parse LOGSEQ_API_URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("LOGSEQ_API_URL must use http or https, got %q", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("LOGSEQ_API_URL must include a host, got %q", raw)
	}
	return nil
}

func readIntEnv(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", key)
	}
	return v, nil
}

func firstPositive(v, fallback int) int {
	if v > 0 {
		return v
	}
	return fallback
}
