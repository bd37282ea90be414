package config

import (
	"encoding/json"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/daybookhq/daybook/internal/errors"
)

// Env variable names for the remote API. All three are required before the
// first remote call; there are no file-based fallbacks for credentials.
const (
	EnvAPIURL   = "DAYBOOK_API_URL"
	EnvUsername = "DAYBOOK_USERNAME"
	EnvPassword = "DAYBOOK_PASSWORD"
)

// Config holds application configuration.
type Config struct {
	// PhotoMode selects how photo bytes are stored and displayed.
	// "native" references saved files by URI directly; "transcode" reads
	// file bytes back and base64-encodes them for display. Resolved once
	// at startup and injected into the gallery store.
	PhotoMode string `json:"photo_mode,omitempty"`

	// ThumbnailMaxPx is the bounding edge, in pixels, for locally generated
	// gallery thumbnail renditions.
	ThumbnailMaxPx int `json:"thumbnail_max_px,omitempty"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	// Unknown tool names are logged as warnings.
	DisabledTools []string `json:"disabled_tools,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		PhotoMode:      "native",
		ThumbnailMaxPx: 240,
	}
}

// Load loads configuration from baseDir/config.json.
// Returns default config if the file doesn't exist.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.daybook.
func Load(baseDir string) (*Config, error) {
	cfg, err := loadFileRaw(filepath.Join(baseDir, "config.json"))
	if err != nil {
		return nil, err
	}
	return Merge(DefaultConfig(), cfg), nil
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; arrays are merged (deduplicated).
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	result.PhotoMode = overlay.PhotoMode
	if result.PhotoMode == "" {
		result.PhotoMode = base.PhotoMode
	}

	result.ThumbnailMaxPx = overlay.ThumbnailMaxPx
	if result.ThumbnailMaxPx == 0 {
		result.ThumbnailMaxPx = base.ThumbnailMaxPx
	}

	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)

	return result
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range a {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}
	for _, s := range b {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}

// Remote holds credentials for the content API.
type Remote struct {
	APIURL   string
	Username string
	Password string
}

// LoadRemote reads remote API settings from the environment.
// Fails fast on the first missing variable. The base URL is normalized by
// trimming trailing slashes.
func LoadRemote() (*Remote, error) {
	apiURL, err := requireEnv(EnvAPIURL)
	if err != nil {
		return nil, err
	}
	username, err := requireEnv(EnvUsername)
	if err != nil {
		return nil, err
	}
	password, err := requireEnv(EnvPassword)
	if err != nil {
		return nil, err
	}

	return &Remote{
		APIURL:   strings.TrimRight(apiURL, "/"),
		Username: username,
		Password: password,
	}, nil
}

func requireEnv(name string) (string, error) {
	value := os.Getenv(name)
	if value == "" {
		return "", errors.NewConfigMissing(name)
	}
	return value, nil
}
