package errors

import (
	"math"
	"strings"
	"testing"
)

func TestValidateItemID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"simple id", "photo-001", false},
		{"uuid style", "a3bb189e-8bf9-3888-9912-ace4e6543002", false},
		{"empty", "", true},
		{"path traversal", "../etc/passwd", true},
		{"double slash", "a//b", true},
		{"backslash", "a\\b", true},
		{"null byte", "a\x00b", true},
		{"control character", "a\tb", true},
		{"too long", strings.Repeat("x", 257), true},
		{"max length ok", strings.Repeat("x", 256), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateItemID(tt.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateItemID(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidBoard) {
				t.Errorf("error should carry INVALID_BOARD: %v", err)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"http", "http://example.com/feed", false},
		{"https", "https://example.com/feed", false},
		{"empty", "", true},
		{"file scheme", "file:///etc/passwd", true},
		{"no scheme", "example.com/feed", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
		})
	}
}

func TestValidateHexColor(t *testing.T) {
	tests := []struct {
		name    string
		color   string
		wantErr bool
	}{
		{"empty is allowed", "", false},
		{"short form", "#abc", false},
		{"long form", "#A1B2C3", false},
		{"missing hash", "a1b2c3", true},
		{"wrong length", "#ab", true},
		{"non-hex", "#xyzxyz", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateHexColor(tt.color)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateHexColor(%q) error = %v, wantErr %v", tt.color, err, tt.wantErr)
			}
		})
	}
}

func TestValidateColumnBounds(t *testing.T) {
	if err := ValidateColumnBounds(2, 10); err != nil {
		t.Errorf("valid bounds rejected: %v", err)
	}
	if err := ValidateColumnBounds(0, 10); err == nil {
		t.Error("zero min columns should be rejected")
	}
	if err := ValidateColumnBounds(5, 3); err == nil {
		t.Error("max below min should be rejected")
	}
	if err := ValidateColumnBounds(3, 3); err != nil {
		t.Errorf("equal bounds rejected: %v", err)
	}
}

func TestValidatePreload(t *testing.T) {
	if err := ValidatePreload(0, 0); err != nil {
		t.Errorf("zero preload rejected: %v", err)
	}
	if err := ValidatePreload(1.5, 2); err != nil {
		t.Errorf("valid preload rejected: %v", err)
	}
	if err := ValidatePreload(-1, 0); err == nil {
		t.Error("negative preload should be rejected")
	}
	if err := ValidatePreload(0, math.NaN()); err == nil {
		t.Error("NaN preload should be rejected")
	}
	if err := ValidatePreload(math.Inf(1), 0); err == nil {
		t.Error("infinite preload should be rejected")
	}
}

func TestValidateScrollQuery(t *testing.T) {
	if err := ValidateScrollQuery(120, 900); err != nil {
		t.Errorf("valid query rejected: %v", err)
	}
	if err := ValidateScrollQuery(-50, 900); err != nil {
		t.Errorf("negative scroll is a valid overscroll state: %v", err)
	}
	if err := ValidateScrollQuery(0, 0); err != nil {
		t.Errorf("zero extent is valid: %v", err)
	}
	if err := ValidateScrollQuery(math.NaN(), 900); err == nil {
		t.Error("NaN scroll should be rejected")
	}
	if err := ValidateScrollQuery(0, -10); err == nil {
		t.Error("negative extent should be rejected")
	}
	if err := ValidateScrollQuery(0, math.Inf(1)); err == nil {
		t.Error("infinite extent should be rejected")
	}
}
