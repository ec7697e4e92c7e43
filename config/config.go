// Package config loads the deployment file for the yuva command: which
// record store and identity provider to use, the deletion tunables and the
// ordered list of collections to clean.
//
// YAML and TOML are accepted, chosen by file extension. A few settings can
// be overridden from the environment so secrets stay out of the file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/jozzer182/Yuva"
	"github.com/jozzer182/Yuva/cleanup"
	"github.com/jozzer182/Yuva/resource"
)

// Environment overrides.
const (
	EnvStoreDSN      = "YUVA_STORE_DSN"
	EnvStoreDriver   = "YUVA_STORE_DRIVER"
	EnvToolkitAPIKey = "YUVA_TOOLKIT_API_KEY"
)

// Store drivers.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverBun      = "bun"
	DriverMongo    = "mongo"
	DriverRedis    = "redis"
)

// Identity providers.
const (
	ProviderMemory  = "memory"
	ProviderToolkit = "toolkit"
)

// ErrUnknownFormat is returned by Load for extensions other than .yaml,
// .yml and .toml.
var ErrUnknownFormat = errors.New("config: unknown file format")

// File models the configuration file.
type File struct {
	Store       StoreConfig        `yaml:"store" toml:"store"`
	Identity    IdentityConfig     `yaml:"identity" toml:"identity"`
	Deletion    DeletionConfig     `yaml:"deletion" toml:"deletion"`
	Log         LogConfig          `yaml:"log" toml:"log"`
	Collections []CollectionConfig `yaml:"collections" toml:"collections"`
}

// StoreConfig selects the record store.
type StoreConfig struct {
	Driver    string `yaml:"driver" toml:"driver"`
	DSN       string `yaml:"dsn,omitempty" toml:"dsn,omitempty"`
	Database  string `yaml:"database,omitempty" toml:"database,omitempty"`
	KeyColumn string `yaml:"key_column,omitempty" toml:"key_column,omitempty"`
}

// IdentityConfig selects the identity provider.
type IdentityConfig struct {
	Provider         string            `yaml:"provider" toml:"provider"`
	APIKey           string            `yaml:"api_key,omitempty" toml:"api_key,omitempty"`
	Endpoint         string            `yaml:"endpoint,omitempty" toml:"endpoint,omitempty"`
	MaxCredentialAge Duration          `yaml:"max_credential_age,omitempty" toml:"max_credential_age,omitempty"`
	Accounts         []AccountConfig   `yaml:"accounts,omitempty" toml:"accounts,omitempty"`
	Federated        []FederatedConfig `yaml:"federated,omitempty" toml:"federated,omitempty"`
}

// AccountConfig seeds an email and password account in the memory provider.
type AccountConfig struct {
	Email    string `yaml:"email" toml:"email"`
	Password string `yaml:"password" toml:"password"`
}

// FederatedConfig seeds a federated identity in the memory provider.
type FederatedConfig struct {
	Provider string `yaml:"provider" toml:"provider"`
	Token    string `yaml:"token" toml:"token"`
	Email    string `yaml:"email" toml:"email"`
}

// DeletionConfig holds the engine tunables.
type DeletionConfig struct {
	ConfirmationPhrase string   `yaml:"confirmation_phrase,omitempty" toml:"confirmation_phrase,omitempty"`
	StepTimeout        Duration `yaml:"step_timeout,omitempty" toml:"step_timeout,omitempty"`
	RemovalTimeout     Duration `yaml:"removal_timeout,omitempty" toml:"removal_timeout,omitempty"`
	StepAttempts       int      `yaml:"step_attempts,omitempty" toml:"step_attempts,omitempty"`
}

// LogConfig selects the log level and format.
type LogConfig struct {
	Level  string `yaml:"level,omitempty" toml:"level,omitempty"`
	Format string `yaml:"format,omitempty" toml:"format,omitempty"`
}

// CollectionConfig is one entry of the cleanup plan.
type CollectionConfig struct {
	Name       string `yaml:"name" toml:"name"`
	OwnerField string `yaml:"owner_field" toml:"owner_field"`
	Progress   string `yaml:"progress,omitempty" toml:"progress,omitempty"`
}

// Default returns the configuration used when no file is given: in-memory
// store and provider, engine defaults and the standard collections.
func Default() File {
	def := yuva.DefaultConfig()
	f := File{
		Store:    StoreConfig{Driver: DriverMemory},
		Identity: IdentityConfig{Provider: ProviderMemory},
		Deletion: DeletionConfig{
			ConfirmationPhrase: def.ConfirmationPhrase,
			StepTimeout:        Duration(def.StepTimeout),
			RemovalTimeout:     Duration(def.RemovalTimeout),
			StepAttempts:       def.StepAttempts,
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
	for _, t := range cleanup.DefaultCollections() {
		f.Collections = append(f.Collections, CollectionConfig{
			Name:       t.Collection.Name,
			OwnerField: t.Collection.OwnerField,
			Progress:   t.Progress,
		})
	}
	return f
}

// Load reads path, applies environment overrides and defaults, and
// validates the result.
func Load(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("config: load %s: %w", path, err)
	}

	var f File
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &f)
	case ".toml":
		err = toml.Unmarshal(data, &f)
	default:
		return File{}, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
	if err != nil {
		return File{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	f.applyEnv(os.Getenv)
	f.fillDefaults()
	if err := f.Validate(); err != nil {
		return File{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return f, nil
}

// FromEnv returns the default configuration with environment overrides.
func FromEnv() (File, error) {
	f := Default()
	f.applyEnv(os.Getenv)
	if err := f.Validate(); err != nil {
		return File{}, fmt.Errorf("config: %w", err)
	}
	return f, nil
}

func (f *File) applyEnv(getenv func(string) string) {
	if v := getenv(EnvStoreDriver); v != "" {
		f.Store.Driver = v
	}
	if v := getenv(EnvStoreDSN); v != "" {
		f.Store.DSN = v
	}
	if v := getenv(EnvToolkitAPIKey); v != "" {
		f.Identity.APIKey = v
	}
}

func (f *File) fillDefaults() {
	def := Default()
	if f.Store.Driver == "" {
		f.Store.Driver = def.Store.Driver
	}
	if f.Identity.Provider == "" {
		f.Identity.Provider = def.Identity.Provider
	}
	if f.Deletion.ConfirmationPhrase == "" {
		f.Deletion.ConfirmationPhrase = def.Deletion.ConfirmationPhrase
	}
	if f.Deletion.StepTimeout == 0 {
		f.Deletion.StepTimeout = def.Deletion.StepTimeout
	}
	if f.Deletion.RemovalTimeout == 0 {
		f.Deletion.RemovalTimeout = def.Deletion.RemovalTimeout
	}
	if f.Deletion.StepAttempts == 0 {
		f.Deletion.StepAttempts = def.Deletion.StepAttempts
	}
	if len(f.Collections) == 0 {
		f.Collections = def.Collections
	}
}

// Validate checks the configuration and names the offending field.
func (f File) Validate() error {
	switch f.Store.Driver {
	case DriverMemory:
	case DriverPostgres, DriverBun, DriverRedis:
		if strings.TrimSpace(f.Store.DSN) == "" {
			return fmt.Errorf("store.dsn is required for driver %q", f.Store.Driver)
		}
	case DriverMongo:
		if strings.TrimSpace(f.Store.DSN) == "" {
			return fmt.Errorf("store.dsn is required for driver %q", f.Store.Driver)
		}
		if strings.TrimSpace(f.Store.Database) == "" {
			return fmt.Errorf("store.database is required for driver %q", f.Store.Driver)
		}
	default:
		return fmt.Errorf("store.driver: %w: %q", yuva.ErrUnknownDriver, f.Store.Driver)
	}

	switch f.Identity.Provider {
	case ProviderMemory:
		for i, a := range f.Identity.Accounts {
			if a.Email == "" || a.Password == "" {
				return fmt.Errorf("identity.accounts[%d]: email and password are required", i)
			}
		}
		for i, fed := range f.Identity.Federated {
			if fed.Provider == "" || fed.Token == "" || fed.Email == "" {
				return fmt.Errorf("identity.federated[%d]: provider, token and email are required", i)
			}
		}
	case ProviderToolkit:
		if strings.TrimSpace(f.Identity.APIKey) == "" {
			return fmt.Errorf("identity.api_key is required for provider %q", f.Identity.Provider)
		}
	default:
		return fmt.Errorf("identity.provider: unknown provider %q", f.Identity.Provider)
	}

	if f.Deletion.StepAttempts < 0 {
		return fmt.Errorf("deletion.step_attempts must not be negative, got %d", f.Deletion.StepAttempts)
	}
	if f.Deletion.StepTimeout < 0 || f.Deletion.RemovalTimeout < 0 {
		return errors.New("deletion timeouts must not be negative")
	}

	seen := make(map[string]bool, len(f.Collections))
	for i, c := range f.Collections {
		ref := resource.Collection{Name: c.Name, OwnerField: c.OwnerField}
		if err := ref.Validate(); err != nil {
			return fmt.Errorf("collections[%d]: %w", i, err)
		}
		if seen[c.Name] || c.Name == cleanup.RemovalStepName {
			return fmt.Errorf("collections[%d]: %w: %q", i, yuva.ErrDuplicateStep, c.Name)
		}
		seen[c.Name] = true
	}
	return nil
}

// Targets returns the ordered cleanup plan entries. Entries without a
// progress message get a generic one.
func (f File) Targets() []cleanup.Target {
	out := make([]cleanup.Target, 0, len(f.Collections))
	for _, c := range f.Collections {
		progress := c.Progress
		if progress == "" {
			progress = fmt.Sprintf("Eliminando %s...", c.Name)
		}
		out = append(out, cleanup.Target{
			Collection: resource.Collection{Name: c.Name, OwnerField: c.OwnerField},
			Progress:   progress,
		})
	}
	return out
}

// Engine returns the engine tunables.
func (f File) Engine() yuva.Config {
	return yuva.Config{
		ConfirmationPhrase: f.Deletion.ConfirmationPhrase,
		StepTimeout:        time.Duration(f.Deletion.StepTimeout),
		RemovalTimeout:     time.Duration(f.Deletion.RemovalTimeout),
		StepAttempts:       f.Deletion.StepAttempts,
	}
}
