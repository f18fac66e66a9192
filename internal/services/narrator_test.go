package services

import (
	"strings"
	"testing"

	"stocktracker/internal/config"
)

func TestSanitizeASCII(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain text", "AAPL is up 2%", "AAPL is up 2%"},
		{"emoji", "stock is up \U0001F680 today", "stock is up  today"},
		{"smart quotes", "“growth” stock", "growth stock"},
		{"accented", "Société Générale", "Socit Gnrale"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitizeASCII(tt.input); got != tt.expected {
				t.Errorf("sanitizeASCII(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt := buildPrompt("Current AAPL Stock Data:\n- Current Price: $150.00", "Should I worry \U0001F628?")

	if !strings.Contains(prompt, "Current Price: $150.00") {
		t.Error("expected context block in prompt")
	}
	if !strings.Contains(prompt, "User Query: Should I worry ?") {
		t.Error("expected sanitized question in prompt")
	}
	if !strings.Contains(prompt, "Provide helpful analysis based on the data above.") {
		t.Error("expected trailing instruction in prompt")
	}
	for _, r := range prompt {
		if r > 127 {
			t.Fatalf("prompt contains non-ASCII rune %q", r)
		}
	}
}

func TestAnalysisModes(t *testing.T) {
	tests := []struct {
		mode      string
		baseRange string
	}{
		{"performance", "1mo"},
		{"insights", "3mo"},
		{"technical", "6mo"},
	}

	for _, tt := range tests {
		m, ok := analysisModes[tt.mode]
		if !ok {
			t.Errorf("missing mode %s", tt.mode)
			continue
		}
		if m.baseRange != tt.baseRange {
			t.Errorf("mode %s: expected base range %s, got %s", tt.mode, tt.baseRange, m.baseRange)
		}
		if m.question == "" {
			t.Errorf("mode %s: empty question", tt.mode)
		}
	}

	if _, ok := analysisModes["forecast"]; ok {
		t.Error("unexpected mode forecast")
	}
}

func TestNewNarrator_Disabled(t *testing.T) {
	n, err := NewNarrator(&config.Config{}, nil, NewSessionStore(0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.Enabled() {
		t.Error("narrator without an API key must be disabled")
	}
}

func TestOrNA(t *testing.T) {
	if got := orNA(""); got != "N/A" {
		t.Errorf("expected N/A, got %s", got)
	}
	if got := orNA("Technology"); got != "Technology" {
		t.Errorf("expected Technology, got %s", got)
	}
}
