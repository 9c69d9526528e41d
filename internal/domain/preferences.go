package domain

import (
	"fmt"

	"alcyxob/workout-tracker/internal/units"
)

// ThemeMode is the appearance preference.
type ThemeMode string

const (
	ThemeLight  ThemeMode = "light"
	ThemeDark   ThemeMode = "dark"
	ThemeSystem ThemeMode = "system"
)

// ParseThemeMode validates a theme name.
func ParseThemeMode(raw string) (ThemeMode, error) {
	switch ThemeMode(raw) {
	case ThemeLight, ThemeDark, ThemeSystem:
		return ThemeMode(raw), nil
	}
	return "", fmt.Errorf("%w: unknown theme mode %q", ErrInvalidArgument, raw)
}

// RemoteBackend names a remote document store implementation.
type RemoteBackend string

const (
	BackendMongo RemoteBackend = "mongo"
	BackendS3    RemoteBackend = "s3"
)

// RemoteCredentials carries everything needed to reach the remote backup store.
type RemoteCredentials struct {
	Backend RemoteBackend `json:"backend"`

	// Mongo
	URI      string `json:"uri,omitempty"`
	Database string `json:"database,omitempty"`

	// S3-compatible
	Endpoint        string `json:"endpoint,omitempty"`
	Region          string `json:"region,omitempty"`
	Bucket          string `json:"bucket,omitempty"`
	AccessKeyID     string `json:"accessKeyId,omitempty"`
	SecretAccessKey string `json:"secretAccessKey,omitempty"`
}

// Complete reports whether the credentials carry the minimum for their backend.
func (c RemoteCredentials) Complete() bool {
	switch c.Backend {
	case BackendMongo:
		return c.URI != "" && c.Database != ""
	case BackendS3:
		return c.Bucket != "" && c.Region != "" && c.AccessKeyID != "" && c.SecretAccessKey != ""
	}
	return false
}

// Preferences are the persisted user settings plus the sync state.
type Preferences struct {
	WeightUnit       units.WeightUnit   `json:"weightUnit"`
	ThemeMode        ThemeMode          `json:"themeMode"`
	HighlightColor   string             `json:"highlightColor"`
	RemoteIdentifier string             `json:"remoteIdentifier"`
	Remote           *RemoteCredentials `json:"-"`
	Dirty            bool               `json:"hasUnsyncedChanges"`
	PasscodeHash     string             `json:"-"`
}

// DefaultPreferences is what a fresh install starts with.
func DefaultPreferences() Preferences {
	return Preferences{
		WeightUnit:     units.Kilograms,
		ThemeMode:      ThemeSystem,
		HighlightColor: "#007AFF",
	}
}
