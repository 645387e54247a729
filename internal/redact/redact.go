// Package redact strips credentials, connection strings, file paths and SQL
// from text before it is logged or returned in an error response. Storage
// engines report errors that routinely embed all of these.
package redact

import "regexp"

// Placeholders substituted for redacted fragments.
const (
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	RedactedPathPlaceholder       = "[REDACTED_PATH]"
	RedactedSQLPlaceholder        = "[REDACTED_SQL]"
	RedactedKeyPlaceholder        = "[REDACTED_KEY]"
)

type rule struct {
	pattern     *regexp.Regexp
	placeholder string
}

// rules are applied in order; connection strings go first so the path rule
// does not split a URL in half.
var rules = []rule{
	{
		// user:password@ in postgres://, postgresql://, file: and similar URLs
		pattern:     regexp.MustCompile(`(?i)\b([a-z][a-z0-9+.-]*://)[^/@\s]+@`),
		placeholder: "${1}" + RedactedCredentialPlaceholder + "@",
	},
	{
		// libpq key=value DSNs: password=secret
		pattern:     regexp.MustCompile(`(?i)\b(password|passwd|pwd)\s*=\s*('[^']*'|\S+)`),
		placeholder: "${1}=" + RedactedCredentialPlaceholder,
	},
	{
		pattern:     regexp.MustCompile(`(?i)\b(api[_-]?key|token|secret)(["'\s:=]+)[A-Za-z0-9_\-.~+/]{8,}`),
		placeholder: "${1}${2}" + RedactedKeyPlaceholder,
	},
	{
		pattern:     regexp.MustCompile(`(?i)\b(SELECT|INSERT|UPDATE|DELETE|CREATE|ALTER|DROP)\b[^;]*?\b(FROM|INTO|SET|TABLE)\b\s+\w+`),
		placeholder: RedactedSQLPlaceholder,
	},
	{
		pattern:     regexp.MustCompile(`(?:[A-Za-z]:\\|/)(?:[\w.-]+[/\\]){1,}[\w.-]*`),
		placeholder: RedactedPathPlaceholder,
	},
}

// String redacts sensitive information from the input string.
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, r := range rules {
		result = r.pattern.ReplaceAllString(result, r.placeholder)
	}
	return result
}

// Error redacts sensitive information from an error's Error() output.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
