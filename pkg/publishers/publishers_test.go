package publishers

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadRegistryEnabledFilter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "publishers.yaml")
	raw := `
publishers:
  - id: http1
    type: http
    enabled: false
    http:
      url: https://example.com
  - id: http2
    type: http
    enabled: true
    http:
      url: https://example.com/2
  - id: queue1
    type: sqs
    enabled: false
    sqs:
      uri: https://sqs.example.com/queue
      region: eu-west-1
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	enabled := reg.Enabled()
	if len(enabled) != 1 || enabled[0].ID != "http2" {
		t.Fatalf("expected only http2 enabled, got %#v", enabled)
	}
	if _, ok := reg.ByID("queue1"); !ok {
		t.Fatalf("expected queue1 to be loaded even though disabled")
	}
}

func TestLoadRegistryRejectsDuplicateIDs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "publishers.yaml")
	raw := `
publishers:
  - id: same
    type: http
    http:
      url: https://example.com
  - id: same
    type: http
    http:
      url: https://example.com/2
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	if _, err := LoadRegistry(path); err == nil {
		t.Fatalf("expected duplicate id error")
	}
}

func TestValidatePublisherConfigRequiredFields(t *testing.T) {
	cases := []struct {
		name string
		cfg  PublisherConfig
	}{
		{"missing http block", PublisherConfig{ID: "h1", Type: TypeHTTP}},
		{"missing sqs uri", PublisherConfig{ID: "q1", Type: TypeSQS, SQS: &SQSPublisherConfig{Region: "eu-west-1"}}},
		{"missing sns topic", PublisherConfig{ID: "t1", Type: TypeSNS, SNS: &SNSPublisherConfig{Region: "eu-west-1"}}},
		{"missing gcp topic", PublisherConfig{ID: "g1", Type: TypeGCPPubSub, GCP: &GCPQueueConfig{ProjectID: "p"}}},
		{"missing id", PublisherConfig{Type: TypeHTTP, HTTP: &HTTPPublisherConfig{URL: "https://example.com"}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := validatePublisherConfig(tc.cfg); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestSanitizeAppliesHTTPDefaults(t *testing.T) {
	cfg := sanitizePublisherConfig(PublisherConfig{
		ID:   " hook ",
		Type: " HTTP ",
		HTTP: &HTTPPublisherConfig{URL: " https://example.com "},
	})
	if cfg.ID != "hook" || cfg.Type != TypeHTTP {
		t.Fatalf("sanitize did not trim fields: %#v", cfg)
	}
	if cfg.HTTP.Method != "POST" || cfg.HTTP.TimeoutSeconds != httpDefaultTimeoutSeconds {
		t.Fatalf("http defaults not applied: %#v", cfg.HTTP)
	}
	if !cfg.EnabledValue() {
		t.Fatalf("enabled should default to true")
	}
}
