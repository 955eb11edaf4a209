package cliconfig

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestApplyFileConfig(t *testing.T) {
	trueVal := true
	falseVal := false

	tests := []struct {
		name       string
		fileConfig FileConfig
		changed    map[string]bool
		initial    Config
		expected   Config
		wantErr    bool
	}{
		{
			name: "applies all valid config values",
			fileConfig: FileConfig{
				Token:         "secret",
				CollectorHost: "collector",
				HTTPTimeout:   "5s",
				Workers:       4,
				Gzip:          &trueVal,
			},
			changed: map[string]bool{},
			initial: Config{},
			expected: Config{
				Token:         "secret",
				CollectorHost: "collector",
				HTTPTimeout:   5 * time.Second,
				Workers:       4,
				Gzip:          true,
			},
			wantErr: false,
		},
		{
			name: "respects changed flags",
			fileConfig: FileConfig{
				Token:         "file-token",
				CollectorHost: "file-host",
			},
			changed: map[string]bool{"token": true},
			initial: Config{
				Token:         "flag-token",
				CollectorHost: "flag-host",
			},
			expected: Config{
				Token:         "flag-token", // unchanged because flag was set
				CollectorHost: "file-host",
			},
			wantErr: false,
		},
		{
			name: "returns error for invalid duration",
			fileConfig: FileConfig{
				HTTPTimeout: "soon",
			},
			changed: map[string]bool{},
			wantErr: true,
		},
		{
			name: "handles all field types correctly",
			fileConfig: FileConfig{
				Token:              "secret",
				CollectorHost:      "collector",
				LocalHost:          "web-1",
				Port:               9443,
				UseTLS:             &falseVal,
				InsecureSkipVerify: &trueVal,
				MaxBatchBytes:      2048,
				Workers:            3,
				QueueCapacity:      64,
				Overflow:           "drop-oldest",
				Gzip:               &trueVal,
				HTTPTimeout:        "10s",
				ShutdownTimeout:    "1m",
				Debug:              &trueVal,
				LogLevel:           "warn",
				LogFile:            "/var/log/hecship.log",
			},
			changed: map[string]bool{},
			initial: Config{UseTLS: true},
			expected: Config{
				Token:              "secret",
				CollectorHost:      "collector",
				LocalHost:          "web-1",
				Port:               9443,
				UseTLS:             false,
				InsecureSkipVerify: true,
				MaxBatchBytes:      2048,
				Workers:            3,
				QueueCapacity:      64,
				Overflow:           "drop-oldest",
				Gzip:               true,
				HTTPTimeout:        10 * time.Second,
				ShutdownTimeout:    time.Minute,
				Debug:              true,
				LogLevel:           "warn",
				LogFile:            "/var/log/hecship.log",
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.initial
			err := ApplyFileConfig(&cfg, tt.fileConfig, tt.changed)

			if tt.wantErr && err == nil {
				t.Error("ApplyFileConfig() expected error but got nil")
				return
			}
			if !tt.wantErr && err != nil {
				t.Errorf("ApplyFileConfig() unexpected error: %v", err)
				return
			}

			if !tt.wantErr && cfg != tt.expected {
				t.Errorf("ApplyFileConfig() = %+v, want %+v", cfg, tt.expected)
			}
		})
	}
}

func TestLoadFileConfig(t *testing.T) {
	// Create a temporary TOML file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test-config.toml")

	tomlContent := `
token = "secret"
collector_host = "collector.example.com"
port = 8443
tls = false
http_timeout = "5s"
overflow = "reject"
`

	if err := os.WriteFile(configPath, []byte(tomlContent), 0644); err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}

	fc, err := LoadFileConfig(configPath)
	if err != nil {
		t.Fatalf("LoadFileConfig() error = %v", err)
	}

	if fc.Token != "secret" {
		t.Errorf("Token = %v, want secret", fc.Token)
	}
	if fc.CollectorHost != "collector.example.com" {
		t.Errorf("CollectorHost = %v, want collector.example.com", fc.CollectorHost)
	}
	if fc.Port != 8443 {
		t.Errorf("Port = %v, want 8443", fc.Port)
	}
	if fc.UseTLS == nil || *fc.UseTLS {
		t.Errorf("UseTLS = %v, want false", fc.UseTLS)
	}
	if fc.HTTPTimeout != "5s" {
		t.Errorf("HTTPTimeout = %v, want 5s", fc.HTTPTimeout)
	}
	if fc.Overflow != "reject" {
		t.Errorf("Overflow = %v, want reject", fc.Overflow)
	}
	if fc.Gzip != nil {
		t.Errorf("Gzip = %v, want nil when absent", fc.Gzip)
	}
}

func TestLoadFileConfig_Errors(t *testing.T) {
	if _, err := LoadFileConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("LoadFileConfig() expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("token = "), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFileConfig(path); err == nil {
		t.Error("LoadFileConfig() expected error for malformed TOML")
	}
}

func TestDefaultConfigPath(t *testing.T) {
	p := DefaultConfigPath()
	if p == "" {
		t.Skip("home directory not available")
	}
	if !strings.HasSuffix(p, filepath.Join(".hecship", "config.toml")) {
		t.Errorf("DefaultConfigPath() = %v", p)
	}
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "present")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatal(err)
	}
	if !FileExists(path) {
		t.Error("FileExists() = false for existing file")
	}
	if FileExists(filepath.Join(dir, "absent")) {
		t.Error("FileExists() = true for missing file")
	}
}
