package config

import (
	"os"
	"path/filepath"
	"testing"

	"onhostel/internal/models"
)

func TestLoadConfig(t *testing.T) {
	// Create a temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
database:
  path: "test.db"
auth:
  jwt_secret: "test_secret"
  users:
    - email: "admin@hostel.test"
      password_hash: "$2a$10$abcdefghijklmnopqrstuv"
      name: "Admin"
units:
  - id: room-1
    name: "Habitacion 1"
    kind: room
  - id: camping-1
    name: "Zona Carpas"
    kind: tent
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Database.Path != "test.db" {
		t.Errorf("expected database path test.db, got %s", cfg.Database.Path)
	}

	if len(cfg.Units) != 2 || cfg.Units[0].ID != "room-1" {
		t.Errorf("expected 2 units with first ID room-1")
	}

	if cfg.API.Port != 8080 {
		t.Errorf("expected default api port 8080, got %d", cfg.API.Port)
	}

	if cfg.Auth.SessionTTL != models.DefaultSessionTTL {
		t.Errorf("expected default session ttl, got %d", cfg.Auth.SessionTTL)
	}
}

func TestValidateConfig(t *testing.T) {
	validAuth := AuthConfig{
		JWTSecret: "secret",
		Users:     []PanelUser{{Email: "a@b.c", PasswordHash: "hash"}},
	}
	validUnits := []models.Unit{{ID: "room-1", Name: "Habitacion 1", Kind: models.UnitKindRoom}}

	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "valid config",
			cfg: Config{
				Database: DatabaseConfig{Path: "path"},
				Auth:     validAuth,
				Units:    validUnits,
			},
			wantErr: false,
		},
		{
			name: "missing database path",
			cfg: Config{
				Auth:  validAuth,
				Units: validUnits,
			},
			wantErr: true,
		},
		{
			name: "missing jwt secret",
			cfg: Config{
				Database: DatabaseConfig{Path: "path"},
				Auth:     AuthConfig{Users: validAuth.Users},
				Units:    validUnits,
			},
			wantErr: true,
		},
		{
			name: "no users",
			cfg: Config{
				Database: DatabaseConfig{Path: "path"},
				Auth:     AuthConfig{JWTSecret: "secret"},
				Units:    validUnits,
			},
			wantErr: true,
		},
		{
			name: "duplicate unit id",
			cfg: Config{
				Database: DatabaseConfig{Path: "path"},
				Auth:     validAuth,
				Units: []models.Unit{
					{ID: "room-1", Name: "Habitacion 1", Kind: models.UnitKindRoom},
					{ID: "room-1", Name: "Habitacion 2", Kind: models.UnitKindRoom},
				},
			},
			wantErr: true,
		},
		{
			name: "unknown unit kind",
			cfg: Config{
				Database: DatabaseConfig{Path: "path"},
				Auth:     validAuth,
				Units:    []models.Unit{{ID: "pool-1", Name: "Piscina", Kind: "pool"}},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
