package logger

import (
	"strings"
	"testing"
)

func TestMaskParams(t *testing.T) {
	s := NewSanitizer(nil)

	tests := []struct {
		name       string
		sql        string
		params     []interface{}
		wantMasked bool
	}{
		{
			name:       "password_column",
			sql:        "UPDATE users SET password = $1 WHERE id = $2",
			params:     []interface{}{"hunter2", 1},
			wantMasked: true,
		},
		{
			name:       "api_key_column",
			sql:        "INSERT INTO credentials (api_key) VALUES ($1)",
			params:     []interface{}{"sk-123456"},
			wantMasked: true,
		},
		{
			name:       "plain_select",
			sql:        "SELECT * FROM users WHERE id = $1",
			params:     []interface{}{42},
			wantMasked: false,
		},
		{
			name:       "no_params",
			sql:        "UPDATE users SET password = 'x'",
			params:     nil,
			wantMasked: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.MaskParams(tt.sql, tt.params)
			if len(got) != len(tt.params) {
				t.Fatalf("MaskParams() returned %d params, want %d", len(got), len(tt.params))
			}
			for i, v := range got {
				masked := v == "***REDACTED***"
				if masked != tt.wantMasked {
					t.Errorf("param %d: masked=%v, want %v", i, masked, tt.wantMasked)
				}
			}
		})
	}
}

func TestMaskParamsDoesNotModifyOriginal(t *testing.T) {
	s := NewSanitizer(nil)
	params := []interface{}{"hunter2"}
	s.MaskParams("UPDATE users SET password = $1", params)
	if params[0] != "hunter2" {
		t.Errorf("original params modified: %v", params)
	}
}

func TestMaskNamed(t *testing.T) {
	s := NewSanitizer(nil)

	replacements := map[string]interface{}{
		"user_id":  7,
		"password": "hunter2",
		"token":    "abc",
	}
	got := s.MaskNamed(replacements)

	if got["user_id"] != 7 {
		t.Errorf("non-sensitive key masked: %v", got["user_id"])
	}
	if got["password"] != "***REDACTED***" {
		t.Errorf("password not masked: %v", got["password"])
	}
	if got["token"] != "***REDACTED***" {
		t.Errorf("token not masked: %v", got["token"])
	}
	if replacements["password"] != "hunter2" {
		t.Errorf("original map modified")
	}
}

func TestMaskNamedCustomFields(t *testing.T) {
	s := NewSanitizer([]string{"pin"})

	got := s.MaskNamed(map[string]interface{}{"pin": "0000", "password": "x"})
	if got["pin"] != "***REDACTED***" {
		t.Errorf("custom field not masked")
	}
	// Custom field list replaces the defaults entirely.
	if got["password"] != "x" {
		t.Errorf("default field unexpectedly masked with custom list")
	}
}

func TestFormatParams(t *testing.T) {
	s := NewSanitizer(nil)

	if got := s.FormatParams(nil); got != "[]" {
		t.Errorf("FormatParams(nil) = %q", got)
	}

	got := s.FormatParams([]interface{}{1, "two", nil})
	if got != "[1, two, NULL]" {
		t.Errorf("FormatParams() = %q", got)
	}

	long := strings.Repeat("x", 200)
	got = s.FormatParams([]interface{}{long})
	if len(got) >= 200 {
		t.Errorf("long value not truncated: %d chars", len(got))
	}
	if !strings.Contains(got, "...") {
		t.Errorf("truncated value missing ellipsis: %q", got)
	}
}
