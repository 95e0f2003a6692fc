package errors

import (
	"math"
	"strings"
	"testing"
)

func TestValidateElementID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "map", false},
		{"valid with dash", "well-log-1", false},
		{"valid uuid prefix", "3f2a9c1d", false},
		{"valid with spaces inside", "Intersection view", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 300), true},
		{"null byte", "foo\x00bar", true},
		{"control char", "foo\x01bar", true},
		{"newline", "foo\nbar", true},
		{"leading space", " map", true},
		{"slash", "left/top", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateElementID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateElementID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("ValidateElementID(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestValidateNormalizedRect(t *testing.T) {
	tests := []struct {
		name       string
		x, y, w, h float64
		wantErr    bool
	}{
		{"unit square", 0, 0, 1, 1, false},
		{"quarter", 0.5, 0.5, 0.5, 0.5, false},
		{"zero area", 0.5, 0.5, 0, 0, false},
		{"drift within tolerance", 0, 0, 1 + 1e-9, 1, false},

		{"negative width", 0, 0, -0.1, 1, true},
		{"outside right", 0.6, 0, 0.5, 1, true},
		{"negative origin", -0.5, 0, 0.5, 1, true},
		{"nan", math.NaN(), 0, 1, 1, true},
		{"inf", 0, 0, math.Inf(1), 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNormalizedRect(tt.x, tt.y, tt.w, tt.h, 1e-6)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateNormalizedRect() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidRect) {
				t.Errorf("ValidateNormalizedRect() returned wrong error code: %v", err)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "panels.json", false},
		{"valid nested", "layouts/dashboard/panels.yaml", false},
		{"valid absolute", "/tmp/panels.toml", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 5000), true},
		{"null byte", "foo\x00bar", true},
		{"control char", "foo\x01bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPath) {
				t.Errorf("ValidatePath(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestErrorCodesAreUnique(t *testing.T) {
	codes := []Code{
		ErrCodeInvalidInput,
		ErrCodeInvalidRect,
		ErrCodeInvalidFormat,
		ErrCodeInvalidConfig,
		ErrCodeInvalidPath,
		ErrCodeDuplicateID,
		ErrCodeNotFound,
		ErrCodeFileNotFound,
		ErrCodeUnpartitionable,
		ErrCodeNetwork,
		ErrCodeTimeout,
		ErrCodeInternal,
		ErrCodeUnsupported,
	}

	seen := make(map[Code]bool)
	for _, code := range codes {
		if seen[code] {
			t.Errorf("Duplicate error code: %s", code)
		}
		seen[code] = true
	}
}
