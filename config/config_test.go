package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jozzer182/Yuva"
	"github.com/jozzer182/Yuva/cleanup"
	"github.com/jozzer182/Yuva/resource"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

const yamlConfig = `
store:
  driver: postgres
  dsn: postgres://app@localhost/app
  key_column: uid
identity:
  provider: memory
  max_credential_age: 10m
  accounts:
    - email: ana@example.com
      password: s3cret
deletion:
  confirmation_phrase: BORRAR
  step_timeout: 5s
  step_attempts: 3
collections:
  - name: profiles
    owner_field: $key
    progress: Eliminando perfil...
  - name: orders
    owner_field: buyerId
`

const tomlConfig = `
[store]
driver = "mongo"
dsn = "mongodb://localhost:27017"
database = "app"

[identity]
provider = "toolkit"
api_key = "k"

[deletion]
removal_timeout = "45s"

[[collections]]
name = "users"
owner_field = "$key"
`

func TestLoad_YAML(t *testing.T) {
	f, err := Load(writeFile(t, "yuva.yaml", yamlConfig))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if f.Store.Driver != DriverPostgres || f.Store.KeyColumn != "uid" {
		t.Errorf("store = %+v", f.Store)
	}
	if time.Duration(f.Identity.MaxCredentialAge) != 10*time.Minute {
		t.Errorf("max credential age = %v, want 10m", f.Identity.MaxCredentialAge)
	}
	if len(f.Identity.Accounts) != 1 || f.Identity.Accounts[0].Email != "ana@example.com" {
		t.Errorf("accounts = %+v", f.Identity.Accounts)
	}

	cfg := f.Engine()
	want := yuva.Config{
		ConfirmationPhrase: "BORRAR",
		StepTimeout:        5 * time.Second,
		RemovalTimeout:     yuva.DefaultConfig().RemovalTimeout,
		StepAttempts:       3,
	}
	if cfg != want {
		t.Errorf("engine config = %+v, want %+v", cfg, want)
	}

	targets := f.Targets()
	if len(targets) != 2 {
		t.Fatalf("targets = %d, want 2", len(targets))
	}
	if targets[0].Collection != (resource.Collection{Name: "profiles", OwnerField: resource.DocumentKey}) {
		t.Errorf("targets[0] = %+v", targets[0])
	}
	if targets[1].Progress != "Eliminando orders..." {
		t.Errorf("generated progress = %q", targets[1].Progress)
	}
}

func TestLoad_TOML(t *testing.T) {
	f, err := Load(writeFile(t, "yuva.toml", tomlConfig))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if f.Store.Driver != DriverMongo || f.Store.Database != "app" {
		t.Errorf("store = %+v", f.Store)
	}
	if time.Duration(f.Deletion.RemovalTimeout) != 45*time.Second {
		t.Errorf("removal timeout = %v, want 45s", f.Deletion.RemovalTimeout)
	}
	if f.Deletion.ConfirmationPhrase != yuva.DefaultConfirmationPhrase {
		t.Errorf("phrase = %q, want default", f.Deletion.ConfirmationPhrase)
	}
	if len(f.Collections) != 1 {
		t.Errorf("collections = %d, want 1", len(f.Collections))
	}
}

func TestLoad_DefaultsCollections(t *testing.T) {
	f, err := Load(writeFile(t, "min.yaml", "store:\n  driver: memory\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	targets := f.Targets()
	want := cleanup.DefaultCollections()
	if len(targets) != len(want) {
		t.Fatalf("targets = %d, want %d", len(targets), len(want))
	}
	for i := range want {
		if targets[i] != want[i] {
			t.Errorf("targets[%d] = %+v, want %+v", i, targets[i], want[i])
		}
	}
}

func TestLoad_UnknownExtension(t *testing.T) {
	_, err := Load(writeFile(t, "yuva.json", "{}"))
	if !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("err = %v, want %v", err, ErrUnknownFormat)
	}
}

func TestApplyEnv(t *testing.T) {
	f := Default()
	env := map[string]string{
		EnvStoreDriver:   "redis",
		EnvStoreDSN:      "redis://localhost:6379/0",
		EnvToolkitAPIKey: "from-env",
	}
	f.applyEnv(func(k string) string { return env[k] })

	if f.Store.Driver != DriverRedis || f.Store.DSN != env[EnvStoreDSN] {
		t.Errorf("store = %+v", f.Store)
	}
	if f.Identity.APIKey != "from-env" {
		t.Errorf("api key = %q", f.Identity.APIKey)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*File)
		wantErr error
		field   string
	}{
		{"defaults", func(*File) {}, nil, ""},
		{"unknown driver", func(f *File) { f.Store.Driver = "cassandra" }, yuva.ErrUnknownDriver, "store.driver"},
		{"postgres without dsn", func(f *File) { f.Store.Driver = DriverPostgres }, nil, "store.dsn"},
		{"mongo without database", func(f *File) {
			f.Store.Driver = DriverMongo
			f.Store.DSN = "mongodb://x"
		}, nil, "store.database"},
		{"toolkit without key", func(f *File) { f.Identity.Provider = ProviderToolkit }, nil, "identity.api_key"},
		{"unknown provider", func(f *File) { f.Identity.Provider = "ldap" }, nil, "identity.provider"},
		{"negative attempts", func(f *File) { f.Deletion.StepAttempts = -1 }, nil, "deletion.step_attempts"},
		{"collection without owner", func(f *File) {
			f.Collections = append(f.Collections, CollectionConfig{Name: "orders"})
		}, yuva.ErrInvalidCollection, "collections[4]"},
		{"duplicate collection", func(f *File) {
			f.Collections = append(f.Collections, f.Collections[1])
		}, yuva.ErrDuplicateStep, "collections[4]"},
		{"reserved name", func(f *File) {
			f.Collections = append(f.Collections, CollectionConfig{Name: cleanup.RemovalStepName, OwnerField: "uid"})
		}, yuva.ErrDuplicateStep, "collections[4]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Default()
			tt.mutate(&f)
			err := f.Validate()
			if tt.field == "" {
				if err != nil {
					t.Fatalf("Validate: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("err = %v, want it to name %s", err, tt.field)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestDuration_Invalid(t *testing.T) {
	var d Duration
	if err := d.UnmarshalText([]byte("soon")); err == nil {
		t.Error("expected error for invalid duration")
	}
}
