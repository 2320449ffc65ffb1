package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewDefaults(t *testing.T) {
	cfg, err := New()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Fatalf("server addr. Got: %s", cfg.Server.Addr)
	}
	if cfg.Server.OutputURL != "http://localhost:8080/outputs" {
		t.Fatalf("output url. Got: %s", cfg.Server.OutputURL)
	}
	if cfg.DB.Driver != "sqlite" {
		t.Fatalf("db driver. Got: %s", cfg.DB.Driver)
	}
	if cfg.DB.Schema != "wpsio" {
		t.Fatalf("db schema. Got: %s", cfg.DB.Schema)
	}
	if cfg.Bucket.BaseURL != "http://localhost:8080/objects" {
		t.Fatalf("bucket base url. Got: %s", cfg.Bucket.BaseURL)
	}
}

func TestNewFromEnv(t *testing.T) {
	t.Setenv("WPSIO_SERVER_ADDR", ":9090")
	t.Setenv("WPSIO_DB_DRIVER", "postgres")
	t.Setenv("WPSIO_BUCKET_DIR", "/tmp/bucket")

	cfg, err := New()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Addr != ":9090" {
		t.Fatalf("server addr. Got: %s", cfg.Server.Addr)
	}
	if cfg.DB.Driver != "postgres" {
		t.Fatalf("db driver. Got: %s", cfg.DB.Driver)
	}
	if cfg.Bucket.Dir != "/tmp/bucket" {
		t.Fatalf("bucket dir. Got: %s", cfg.Bucket.Dir)
	}
}

func TestNewFromEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	env := "WPSIO_DB_NAME=wpsio_test\nWPSIO_DB_SCHEMA=outputs\n"
	if err := os.WriteFile(path, []byte(env), 0o644); err != nil {
		t.Fatal(err)
	}
	// godotenv sets the process environment, clean up after the test
	t.Cleanup(func() {
		os.Unsetenv("WPSIO_DB_NAME")
		os.Unsetenv("WPSIO_DB_SCHEMA")
	})

	cfg, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DB.Name != "wpsio_test" {
		t.Fatalf("db name. Got: %s", cfg.DB.Name)
	}
	if cfg.DB.Schema != "outputs" {
		t.Fatalf("db schema. Got: %s", cfg.DB.Schema)
	}
}

func TestNewMissingEnvFile(t *testing.T) {
	if _, err := New(filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Fatal("expected an error for a missing env file")
	}
}
