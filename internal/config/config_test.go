package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validConfig() *Config {
	return &Config{
		Env:        "development",
		Port:       "8473",
		JWTSecret:  "secure-secret-at-least-32-chars-long",
		DBPassword: "secure-password",
		DBSSLMode:  "disable",
		RedisURL:   "localhost:6379",
	}
}

func TestConfig_ValidateProduction(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		expectError bool
	}{
		{"valid production", func(c *Config) {
			c.Env = "production"
			c.DBSSLMode = "require"
		}, false},
		{"default jwt secret rejected", func(c *Config) {
			c.Env = "production"
			c.DBSSLMode = "require"
			c.JWTSecret = "your-secret-key-change-in-production"
		}, true},
		{"short jwt secret rejected", func(c *Config) {
			c.Env = "production"
			c.DBSSLMode = "require"
			c.JWTSecret = "short"
		}, true},
		{"weak db password rejected", func(c *Config) {
			c.Env = "production"
			c.DBSSLMode = "require"
			c.DBPassword = "password"
		}, true},
		{"ssl disable rejected", func(c *Config) {
			c.Env = "production"
			c.DBSSLMode = "disable"
		}, true},
		{"development tolerates defaults", func(c *Config) {
			c.JWTSecret = "dev"
		}, false},
		{"missing port rejected", func(c *Config) {
			c.Port = ""
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)
			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_SafetyListOverrides(t *testing.T) {
	c := validConfig()

	assert.Nil(t, c.ProfanityWords(), "empty override should fall back to built-in list")
	assert.Nil(t, c.SpamPhrases())

	c.SafetyProfanityWords = " frak , gorram ,,shiny "
	c.SafetySpamPhrases = "act now,limited offer"

	assert.Equal(t, []string{"frak", "gorram", "shiny"}, c.ProfanityWords())
	assert.Equal(t, []string{"act now", "limited offer"}, c.SpamPhrases())
}
