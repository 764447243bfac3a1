package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_ValidConfig(t *testing.T) {
	cfg := &Config{
		FirebaseProjectID:       "crewcall-test",
		FirebaseCredentialsPath: "/etc/crewcall/firebase.json",
		GmailUserID:             "bookings@example.com",
	}

	err := Validate(cfg)
	assert.NoError(t, err)
}

func TestValidate_MissingProjectID(t *testing.T) {
	cfg := &Config{
		FirebaseCredentialsPath: "/etc/crewcall/firebase.json",
		GmailUserID:             "bookings@example.com",
	}

	err := Validate(cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestValidate_InvalidRecurrence(t *testing.T) {
	cfg := &Config{
		FirebaseProjectID:       "crewcall-test",
		FirebaseCredentialsPath: "/etc/crewcall/firebase.json",
		GmailUserID:             "bookings@example.com",
		DefaultRecurrence:       "FREQ=SOMETIMES",
	}

	err := Validate(cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid rrule")
}

func TestValidate_OccurrencesOutOfRange(t *testing.T) {
	cfg := &Config{
		FirebaseProjectID:       "crewcall-test",
		FirebaseCredentialsPath: "/etc/crewcall/firebase.json",
		GmailUserID:             "bookings@example.com",
		DefaultOccurrences:      100,
	}

	err := Validate(cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestLoadFromPath_ValidConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "crewcall_config.yaml")

	validConfig := `firebaseProjectID: crewcall-test
firebaseCredentialsPath: /etc/crewcall/firebase.json
gmailUserID: bookings@example.com
gmailSender: CrewCall Bookings
defaultRecurrence: FREQ=WEEKLY
defaultOccurrences: 4
`

	err := os.WriteFile(configPath, []byte(validConfig), 0644)
	require.NoError(t, err)

	cfg, err := LoadFromPath(configPath)
	require.NoError(t, err)

	assert.Equal(t, "crewcall-test", cfg.FirebaseProjectID)
	assert.Equal(t, "/etc/crewcall/firebase.json", cfg.FirebaseCredentialsPath)
	assert.Equal(t, "bookings@example.com", cfg.GmailUserID)
	assert.Equal(t, "CrewCall Bookings", cfg.GmailSender)
	assert.Equal(t, "FREQ=WEEKLY", cfg.DefaultRecurrence)
	assert.Equal(t, 4, cfg.DefaultOccurrences)
}

func TestLoadFromPath_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid_config.yaml")

	invalidYAML := `firebaseProjectID: [unclosed`

	err := os.WriteFile(configPath, []byte(invalidYAML), 0644)
	require.NoError(t, err)

	_, err = LoadFromPath(configPath)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoadFromPath_FileNotFound(t *testing.T) {
	_, err := LoadFromPath("/nonexistent/path/crewcall_config.yaml")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}
