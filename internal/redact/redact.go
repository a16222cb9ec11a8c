// Package redact provides utilities for redacting sensitive information from
// operation details before they are logged or persisted to the operation log.
// The processor handles arbitrary user payloads, passphrases, and ciphertext;
// this package keeps them out of log output and audit rows.
package redact

import "regexp"

// Constants for redaction placeholders
const (
	RedactionPlaceholder          = "[REDACTED]"
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	RedactedCiphertextPlaceholder = "[REDACTED_CIPHERTEXT]"
	RedactedEmailPlaceholder      = "[REDACTED_EMAIL]"
	RedactedConnectionPlaceholder = "[REDACTED_CONNECTION]"
)

// Precompiled regex patterns
var (
	// Passphrases, passwords, and key material in key=value or key: value form
	credentialRegex = regexp.MustCompile(
		`(?i)(password|passphrase|passwd|pwd|secret|api[_-]?key|token)([=:\s]['"]?)[^'"&\s]{3,}`,
	)

	// Connection strings carrying credentials
	connRegex = regexp.MustCompile(`(?i)(sqlite|postgres|mysql|db|database)://[^@\s]+@`)

	// Base64 envelopes produced by the encryption operations; anything long
	// enough to be a salt+IV+ciphertext blob
	ciphertextRegex = regexp.MustCompile(`\b[A-Za-z0-9+/]{48,}={0,2}\b`)

	// Email addresses appearing in processed text
	emailRegex = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,}\b`)

	// All patterns and their placeholders
	patterns = []*regexp.Regexp{
		credentialRegex, connRegex, ciphertextRegex, emailRegex,
	}

	patternPlaceholders = map[*regexp.Regexp]string{
		credentialRegex: RedactedCredentialPlaceholder,
		connRegex:       RedactedConnectionPlaceholder,
		ciphertextRegex: RedactedCiphertextPlaceholder,
		emailRegex:      RedactedEmailPlaceholder,
	}
)

// String redacts sensitive information from the input string
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, pattern := range patterns {
		placeholder := RedactionPlaceholder
		if ph, ok := patternPlaceholders[pattern]; ok {
			placeholder = ph
		}
		result = pattern.ReplaceAllString(result, placeholder)
	}

	return result
}

// Error redacts sensitive information from an error's Error() output
func Error(err error) string {
	if err == nil {
		return ""
	}

	return String(err.Error())
}
