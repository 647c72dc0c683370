// Package redaction masks secrets and personal data before text is logged,
// spoken aloud, or written to the utterance history. Agent output routinely
// contains API keys and tokens; speaking one through the system speaker is
// worse than logging it.
package redaction

import (
	"regexp"
	"strings"
	"sync"
)

// Config controls which classes of data are redacted.
type Config struct {
	// Enabled controls whether redaction is active.
	Enabled bool `json:"enabled"`

	// RedactSecrets redacts API keys, bearer tokens and password assignments.
	RedactSecrets bool `json:"redact_secrets"`

	// RedactEmails redacts email addresses.
	RedactEmails bool `json:"redact_emails"`

	// CustomPatterns allows additional regex patterns to redact.
	CustomPatterns []string `json:"custom_patterns,omitempty"`

	// Replacement is the string substituted for sensitive data.
	Replacement string `json:"replacement"`
}

// DefaultConfig returns the default redaction configuration.
func DefaultConfig() Config {
	return Config{
		Enabled:       true,
		RedactSecrets: true,
		RedactEmails:  true,
		Replacement:   "redacted",
	}
}

var secretPatterns = []*regexp.Regexp{
	// key/token/password assignments
	regexp.MustCompile(`(?i)(api[_-]?key|apikey|secret[_-]?key|auth[_-]?token|access[_-]?token|password|passwd)\s*[=:]\s*['"]?([^\s'"]{8,})['"]?`),
	// bearer tokens
	regexp.MustCompile(`(?i)bearer\s+([a-zA-Z0-9_\-\.]{20,})`),
	// OpenAI / Anthropic style keys
	regexp.MustCompile(`sk-(?:ant-)?[a-zA-Z0-9\-]{20,}`),
	// JWTs
	regexp.MustCompile(`eyJ[a-zA-Z0-9_-]+\.eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+`),
	// AWS access keys
	regexp.MustCompile(`AKIA[0-9A-Z]{16}`),
}

var emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

// Redactor applies the configured redaction rules.
type Redactor struct {
	config Config
	custom []*regexp.Regexp
}

// NewRedactor compiles the custom patterns and returns a Redactor.
// Invalid custom patterns are skipped.
func NewRedactor(config Config) *Redactor {
	r := &Redactor{config: config}
	for _, pattern := range config.CustomPatterns {
		if re, err := regexp.Compile(pattern); err == nil {
			r.custom = append(r.custom, re)
		}
	}
	return r
}

// Redact applies all configured rules to the input string.
func (r *Redactor) Redact(input string) string {
	if !r.config.Enabled {
		return input
	}

	result := input
	if r.config.RedactSecrets {
		for _, re := range secretPatterns {
			result = re.ReplaceAllStringFunc(result, func(match string) string {
				sub := re.FindStringSubmatch(match)
				if len(sub) > 1 && sub[len(sub)-1] != "" {
					return strings.Replace(match, sub[len(sub)-1], r.config.Replacement, 1)
				}
				return r.config.Replacement
			})
		}
	}
	if r.config.RedactEmails {
		result = emailPattern.ReplaceAllStringFunc(result, maskEmail)
	}
	for _, re := range r.custom {
		result = re.ReplaceAllString(result, r.config.Replacement)
	}
	return result
}

// maskEmail keeps the first character and the domain so logs stay debuggable.
func maskEmail(email string) string {
	at := strings.Index(email, "@")
	if at < 1 {
		return "***"
	}
	return email[:1] + "***" + email[at:]
}

var (
	defaultRedactor = NewRedactor(DefaultConfig())
	defaultMu       sync.RWMutex
)

// SetDefault replaces the package-level redactor, typically after config load.
func SetDefault(r *Redactor) {
	defaultMu.Lock()
	defaultRedactor = r
	defaultMu.Unlock()
}

// Redact applies the package-level redactor.
func Redact(input string) string {
	defaultMu.RLock()
	r := defaultRedactor
	defaultMu.RUnlock()
	return r.Redact(input)
}

// RedactFields redacts every string value in a log field map.
func RedactFields(fields map[string]any) map[string]any {
	defaultMu.RLock()
	r := defaultRedactor
	defaultMu.RUnlock()

	out := make(map[string]any, len(fields))
	for k, v := range fields {
		if s, ok := v.(string); ok {
			out[k] = r.Redact(s)
		} else {
			out[k] = v
		}
	}
	return out
}
