package config

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// CredentialsFile is the local fallback read when no credential environment
// variable is set, for running the seeder by hand.
const CredentialsFile = "store-credentials.json"

// ErrNoCredentials is returned when none of the four credential sources
// yields anything.
var ErrNoCredentials = errors.New(
	"no store credentials found: provide SEED_CREDENTIALS, SEED_CREDENTIALS_BASE64, SEED_MONGO_URI/SEED_MONGO_DB, or " + CredentialsFile)

// StoreCredentials is what the document store needs to connect.
type StoreCredentials struct {
	URI      string `json:"uri"`
	Database string `json:"database"`
}

// ResolveCredentials tries the four credential sources in fixed priority
// order: raw JSON, base64 JSON, discrete variables, local file. Material
// that is present but malformed aborts immediately rather than falling
// through, so a typo never silently selects a different source.
// POST: Returned credentials have a non-empty URI and database
func ResolveCredentials() (StoreCredentials, error) {
	return resolveCredentials(os.Getenv, CredentialsFile)
}

// resolveCredentials is the testable body of ResolveCredentials.
func resolveCredentials(getenv func(string) string, file string) (StoreCredentials, error) {
	if raw := getenv("SEED_CREDENTIALS"); raw != "" {
		return parseCredentials([]byte(raw), "SEED_CREDENTIALS")
	}

	if b64 := getenv("SEED_CREDENTIALS_BASE64"); b64 != "" {
		decoded, err := base64.StdEncoding.DecodeString(b64)
		if err != nil {
			return StoreCredentials{}, fmt.Errorf("SEED_CREDENTIALS_BASE64: %w", err)
		}
		return parseCredentials(decoded, "SEED_CREDENTIALS_BASE64")
	}

	if uri := getenv("SEED_MONGO_URI"); uri != "" {
		creds := StoreCredentials{URI: uri, Database: getenv("SEED_MONGO_DB")}
		if creds.Database == "" {
			return StoreCredentials{}, errors.New("SEED_MONGO_URI is set but SEED_MONGO_DB is empty")
		}
		return creds, nil
	}

	data, err := os.ReadFile(file)
	if err != nil {
		if os.IsNotExist(err) {
			return StoreCredentials{}, ErrNoCredentials
		}
		return StoreCredentials{}, fmt.Errorf("read %s: %w", file, err)
	}
	return parseCredentials(data, file)
}

func parseCredentials(data []byte, source string) (StoreCredentials, error) {
	var creds StoreCredentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return StoreCredentials{}, fmt.Errorf("%s: %w", source, err)
	}
	if creds.URI == "" || creds.Database == "" {
		return StoreCredentials{}, fmt.Errorf("%s: uri and database are both required", source)
	}
	return creds, nil
}
