// Package redact strips sensitive material from error strings before
// they reach logs. Raw errors can carry connection strings, tokens, or
// query text; everything logged through the API layer passes through
// here first.
package redact

import "regexp"

type rule struct {
	pattern     *regexp.Regexp
	placeholder string
}

var rules = []rule{
	// Connection strings with embedded credentials
	{regexp.MustCompile(`(?i)(postgres(ql)?|mysql|mongodb)://[^@\s]+@`), "[REDACTED_DSN]"},
	// JWT tokens (three base64url segments starting with eyJ)
	{regexp.MustCompile(`eyJ[A-Za-z0-9_-]+\.eyJ[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+`), "[REDACTED_JWT]"},
	// API keys and secrets in key=value or key: value form
	{regexp.MustCompile(`(?i)(api[_-]?key|secret|token|password)['"\s:=]+[^\s'"]{8,}`), "[REDACTED_KEY]"},
	// Email addresses
	{regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`), "[REDACTED_EMAIL]"},
	// SQL fragments leaked from the database driver
	{regexp.MustCompile(`(?i)(SELECT|INSERT|UPDATE|DELETE)\s+[\s\w,*()='"$]+\s+(FROM|INTO|SET|WHERE)[\s\w,*()='"$]*`), "[REDACTED_SQL]"},
	// Filesystem paths
	{regexp.MustCompile(`(/[\w.-]+){2,}`), "[REDACTED_PATH]"},
}

// String redacts sensitive content from s.
func String(s string) string {
	for _, r := range rules {
		s = r.pattern.ReplaceAllString(s, r.placeholder)
	}
	return s
}

// Error redacts sensitive content from an error's message.
// Returns the empty string for a nil error.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
