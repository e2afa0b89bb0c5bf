package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	LoadConfig()

	if AppConfig.Port == "" {
		t.Error("Expected a default port")
	}
	if AppConfig.GenerationModel == "" {
		t.Error("Expected a default generation model")
	}
	if AppConfig.SearchResultCount <= 0 {
		t.Errorf("Expected a positive search result count, got %d", AppConfig.SearchResultCount)
	}
	if AppConfig.GatewayTimeout() != time.Duration(AppConfig.GatewayTimeoutSeconds)*time.Second {
		t.Error("GatewayTimeout does not match GatewayTimeoutSeconds")
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("SEARCH_RESULT_COUNT", "4")

	LoadConfig()

	if AppConfig.Port != "9999" {
		t.Errorf("Expected port 9999, got %q", AppConfig.Port)
	}
	if AppConfig.SearchResultCount != 4 {
		t.Errorf("Expected search result count 4, got %d", AppConfig.SearchResultCount)
	}
}

func TestLoadConfigBadIntFallsBack(t *testing.T) {
	t.Setenv("GATEWAY_TIMEOUT_SECONDS", "not-a-number")

	LoadConfig()

	if AppConfig.GatewayTimeoutSeconds != 60 {
		t.Errorf("Expected default timeout 60, got %d", AppConfig.GatewayTimeoutSeconds)
	}
}

func TestLoadConfigFileOverlay(t *testing.T) {
	cfg := &Config{
		GenerationBaseURL: "https://original.example",
		GenerationModel:   "gemini-1.5-pro",
	}

	yaml := strings.NewReader("generation_base_url: https://overridden.example\ngeneration_model: gemini-2.0-flash\n")
	if err := LoadConfigFile(yaml, cfg); err != nil {
		t.Fatalf("LoadConfigFile failed: %v", err)
	}

	if cfg.GenerationBaseURL != "https://overridden.example" {
		t.Errorf("Base URL not overlaid: %q", cfg.GenerationBaseURL)
	}
	if cfg.GenerationModel != "gemini-2.0-flash" {
		t.Errorf("Model not overlaid: %q", cfg.GenerationModel)
	}
}

func TestLoadConfigFileInvalid(t *testing.T) {
	cfg := &Config{}
	if err := LoadConfigFile(strings.NewReader("{nope"), cfg); err == nil {
		t.Error("Expected error for invalid yaml")
	}
}
