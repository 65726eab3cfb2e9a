package config

import (
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "")
	t.Setenv("TABLE_PREFIX", "")
	t.Setenv("MAX_TREE_DEPTH", "")

	cfg := Load()

	if cfg.Environment != "dev" {
		t.Errorf("Environment = %s, want dev", cfg.Environment)
	}
	if cfg.TablePrefix != "dev_" {
		t.Errorf("TablePrefix = %s, want dev_", cfg.TablePrefix)
	}
	if cfg.MaxTreeDepth != DefaultMaxTreeDepth {
		t.Errorf("MaxTreeDepth = %d, want %d", cfg.MaxTreeDepth, DefaultMaxTreeDepth)
	}
	if cfg.Store != "postgres" {
		t.Errorf("Store = %s, want postgres", cfg.Store)
	}
}

func TestLoad_Overrides(t *testing.T) {
	tests := []struct {
		name   string
		env    map[string]string
		check  func(*Config) bool
		expect string
	}{
		{
			name:   "prod prefix",
			env:    map[string]string{"ENVIRONMENT": "prod", "TABLE_PREFIX": ""},
			check:  func(c *Config) bool { return c.TablePrefix == "prod_" },
			expect: "TablePrefix prod_",
		},
		{
			name:   "explicit prefix wins",
			env:    map[string]string{"ENVIRONMENT": "prod", "TABLE_PREFIX": "cms_"},
			check:  func(c *Config) bool { return c.TablePrefix == "cms_" },
			expect: "TablePrefix cms_",
		},
		{
			name:   "invalid depth keeps default",
			env:    map[string]string{"MAX_TREE_DEPTH": "-4"},
			check:  func(c *Config) bool { return c.MaxTreeDepth == DefaultMaxTreeDepth },
			expect: "default MaxTreeDepth",
		},
		{
			name:   "numeric depth",
			env:    map[string]string{"MAX_TREE_DEPTH": "12"},
			check:  func(c *Config) bool { return c.MaxTreeDepth == 12 },
			expect: "MaxTreeDepth 12",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if cfg := Load(); !tt.check(cfg) {
				t.Errorf("Load() = %+v, want %s", cfg, tt.expect)
			}
		})
	}
}

func TestAllowedOrigins(t *testing.T) {
	cfg := &Config{CORSOrigins: " http://a.test ,, http://b.test"}
	got := cfg.AllowedOrigins()
	if len(got) != 2 || got[0] != "http://a.test" || got[1] != "http://b.test" {
		t.Errorf("AllowedOrigins() = %v", got)
	}
}
