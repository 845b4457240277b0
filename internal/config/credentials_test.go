package config

import (
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const credsJSON = `{"uri":"mongodb://localhost:27017","database":"attendance"}`

// TestResolveCredentials_RawJSON verifies the first-priority source.
func TestResolveCredentials_RawJSON(t *testing.T) {
	creds, err := resolveCredentials(env(map[string]string{
		"SEED_CREDENTIALS": credsJSON,
	}), "missing.json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if creds.URI != "mongodb://localhost:27017" || creds.Database != "attendance" {
		t.Errorf("wrong credentials: %+v", creds)
	}
}

// TestResolveCredentials_Base64 verifies the second-priority source.
func TestResolveCredentials_Base64(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString([]byte(credsJSON))
	creds, err := resolveCredentials(env(map[string]string{
		"SEED_CREDENTIALS_BASE64": encoded,
	}), "missing.json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if creds.Database != "attendance" {
		t.Errorf("wrong credentials: %+v", creds)
	}
}

// TestResolveCredentials_DiscreteVars verifies the third-priority source and
// its paired-variable requirement.
func TestResolveCredentials_DiscreteVars(t *testing.T) {
	creds, err := resolveCredentials(env(map[string]string{
		"SEED_MONGO_URI": "mongodb://host:27017",
		"SEED_MONGO_DB":  "attendance",
	}), "missing.json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if creds.URI != "mongodb://host:27017" || creds.Database != "attendance" {
		t.Errorf("wrong credentials: %+v", creds)
	}

	_, err = resolveCredentials(env(map[string]string{
		"SEED_MONGO_URI": "mongodb://host:27017",
	}), "missing.json")
	if err == nil {
		t.Error("URI without database should fail, not fall through")
	}
}

// TestResolveCredentials_File verifies the local-file fallback.
func TestResolveCredentials_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store-credentials.json")
	if err := os.WriteFile(path, []byte(credsJSON), 0o600); err != nil {
		t.Fatal(err)
	}

	creds, err := resolveCredentials(env(nil), path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if creds.Database != "attendance" {
		t.Errorf("wrong credentials: %+v", creds)
	}
}

// TestResolveCredentials_Priority verifies raw JSON beats every later source.
func TestResolveCredentials_Priority(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store-credentials.json")
	if err := os.WriteFile(path, []byte(`{"uri":"mongodb://file","database":"file"}`), 0o600); err != nil {
		t.Fatal(err)
	}

	creds, err := resolveCredentials(env(map[string]string{
		"SEED_CREDENTIALS": credsJSON,
		"SEED_MONGO_URI":   "mongodb://discrete",
		"SEED_MONGO_DB":    "discrete",
	}), path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if creds.Database != "attendance" {
		t.Errorf("raw JSON should win, got %+v", creds)
	}
}

// TestResolveCredentials_MalformedAborts verifies present-but-broken material
// never falls through to a later source.
func TestResolveCredentials_MalformedAborts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store-credentials.json")
	if err := os.WriteFile(path, []byte(credsJSON), 0o600); err != nil {
		t.Fatal(err)
	}

	cases := []map[string]string{
		{"SEED_CREDENTIALS": "{not json"},
		{"SEED_CREDENTIALS": `{"uri":"","database":"x"}`},
		{"SEED_CREDENTIALS_BASE64": "!!! not base64 !!!"},
		{"SEED_CREDENTIALS_BASE64": base64.StdEncoding.EncodeToString([]byte("{broken"))},
	}
	for _, vars := range cases {
		if _, err := resolveCredentials(env(vars), path); err == nil {
			t.Errorf("resolveCredentials(%v): expected abort, got fall-through", vars)
		}
	}
}

// TestResolveCredentials_NothingFound verifies the sentinel for an entirely
// unconfigured environment.
func TestResolveCredentials_NothingFound(t *testing.T) {
	_, err := resolveCredentials(env(nil), filepath.Join(t.TempDir(), "absent.json"))
	if !errors.Is(err, ErrNoCredentials) {
		t.Errorf("expected ErrNoCredentials, got %v", err)
	}
}

// TestResolveCredentials_MalformedFile verifies a broken local file reports
// its problem instead of ErrNoCredentials.
func TestResolveCredentials_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store-credentials.json")
	if err := os.WriteFile(path, []byte("{broken"), 0o600); err != nil {
		t.Fatal(err)
	}
	_, err := resolveCredentials(env(nil), path)
	if err == nil || errors.Is(err, ErrNoCredentials) {
		t.Errorf("expected parse error, got %v", err)
	}
}
