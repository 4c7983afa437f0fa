package logger

import (
	"fmt"
	"regexp"
	"strings"
)

// Sanitizer masks sensitive data in statement parameters to prevent
// accidental logging of secrets. Detection is based on field names appearing
// in the statement text and on replacement keys themselves.
type Sanitizer struct {
	sensitiveFields []string
	maskValue       string
	// Compiled patterns for faster matching
	patterns []*regexp.Regexp
}

// NewSanitizer creates a new sanitizer with the specified sensitive field names.
// If no fields are provided, a default set of common sensitive field names is used.
func NewSanitizer(sensitiveFields []string) *Sanitizer {
	if len(sensitiveFields) == 0 {
		// Default sensitive field names (common patterns)
		sensitiveFields = []string{
			"password", "passwd", "pwd",
			"token", "api_key", "apikey", "api_token",
			"secret", "auth", "authorization",
			"credit_card", "card_number", "cvv", "cvc",
			"ssn", "social_security",
			"private_key", "priv_key",
		}
	}

	patterns := make([]*regexp.Regexp, 0, len(sensitiveFields))
	for _, field := range sensitiveFields {
		// Match field name in SQL (case-insensitive, with word boundaries)
		pattern := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(field) + `\b`)
		patterns = append(patterns, pattern)
	}

	return &Sanitizer{
		sensitiveFields: sensitiveFields,
		maskValue:       "***REDACTED***",
		patterns:        patterns,
	}
}

// MaskParams masks bound parameters when the statement references sensitive
// fields. It returns a new slice; the original parameters are not modified.
func (s *Sanitizer) MaskParams(sql string, params []interface{}) []interface{} {
	if len(params) == 0 {
		return params
	}

	if !s.containsSensitivePattern(sql) {
		return params
	}

	// Parameter positions are not mapped to columns, so mask everything
	// once a sensitive field shows up in the statement.
	masked := make([]interface{}, len(params))
	for i := range params {
		masked[i] = s.maskValue
	}
	return masked
}

// MaskNamed masks named replacement values whose key matches a sensitive
// field. It returns a new map; the original is not modified.
func (s *Sanitizer) MaskNamed(replacements map[string]interface{}) map[string]interface{} {
	if len(replacements) == 0 {
		return replacements
	}

	masked := make(map[string]interface{}, len(replacements))
	for k, v := range replacements {
		if s.containsSensitivePattern(k) {
			masked[k] = s.maskValue
		} else {
			masked[k] = v
		}
	}
	return masked
}

// containsSensitivePattern checks if text mentions any sensitive field.
func (s *Sanitizer) containsSensitivePattern(text string) bool {
	for _, pattern := range s.patterns {
		if pattern.MatchString(text) {
			return true
		}
	}
	return false
}

// FormatParams converts parameters to a safe string representation for logging.
// Sensitive values should be masked using MaskParams before calling this.
func (s *Sanitizer) FormatParams(params []interface{}) string {
	if len(params) == 0 {
		return "[]"
	}

	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = s.formatValue(p)
	}

	return "[" + strings.Join(parts, ", ") + "]"
}

// formatValue formats a single parameter value for logging.
// Truncates very long values to prevent log pollution.
func (s *Sanitizer) formatValue(v interface{}) string {
	if v == nil {
		return "NULL"
	}

	str := fmt.Sprintf("%v", v)

	const maxLen = 100
	if len(str) > maxLen {
		return str[:maxLen] + "..."
	}

	return str
}
