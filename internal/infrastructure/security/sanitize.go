// Package security provides input sanitization, password hashing, JWT token
// utilities, and secure random generation.
package security

import (
	"net"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"
)

// SanitizeOptions controls SanitizeString behavior per field mode.
type SanitizeOptions struct {
	MaxLength     int
	AllowNewlines bool
	ToLowerCase   bool
	ToUpperCase   bool
}

var (
	scriptBlockRe  = regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script>`)
	styleBlockRe   = regexp.MustCompile(`(?is)<style\b[^>]*>.*?</style>`)
	htmlTagRe      = regexp.MustCompile(`<[^>]*>`)
	jsSchemeRe     = regexp.MustCompile(`(?i)javascript\s*:`)
	eventHandlerRe = regexp.MustCompile(`(?i)\bon\w+\s*=`)
	newlineRunRe   = regexp.MustCompile(`[\r\n]+`)
	multiSpaceRe   = regexp.MustCompile(`\s{2,}`)
	controlCharRe  = regexp.MustCompile("[\x00-\x08\x0B\x0C\x0E-\x1F\x7F]")
	nameCharRe     = regexp.MustCompile(`[^a-zA-ZÀ-ÿ\s'\-.]`)
	emailShapeRe   = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

// SanitizeString cleans a raw string: HTML stripped, script payload patterns
// removed, control characters dropped, trimmed, and capped at MaxLength
// (default 1000). Newlines collapse to spaces unless AllowNewlines is set.
// Malformed input is neutralized, never rejected.
func SanitizeString(input string, opts SanitizeOptions) string {
	maxLength := opts.MaxLength
	if maxLength <= 0 {
		maxLength = 1000
	}

	sanitized := scriptBlockRe.ReplaceAllString(input, "")
	sanitized = styleBlockRe.ReplaceAllString(sanitized, "")
	sanitized = htmlTagRe.ReplaceAllString(sanitized, "")
	sanitized = jsSchemeRe.ReplaceAllString(sanitized, "")
	sanitized = eventHandlerRe.ReplaceAllString(sanitized, "")

	sanitized = strings.TrimSpace(sanitized)

	if !opts.AllowNewlines {
		sanitized = newlineRunRe.ReplaceAllString(sanitized, " ")
	} else {
		sanitized = strings.ReplaceAll(sanitized, "\r\n", "\n")
		sanitized = strings.ReplaceAll(sanitized, "\r", "\n")
	}

	sanitized = controlCharRe.ReplaceAllString(sanitized, "")

	if len(sanitized) > maxLength {
		// Walk back to a rune boundary so the cut never splits a
		// multibyte character.
		cut := maxLength
		for cut > 0 && !utf8.RuneStart(sanitized[cut]) {
			cut--
		}
		sanitized = sanitized[:cut]
	}

	if opts.ToLowerCase {
		sanitized = strings.ToLower(sanitized)
	} else if opts.ToUpperCase {
		sanitized = strings.ToUpper(sanitized)
	}

	return sanitized
}

// SanitizeEmail normalizes and validates an email address. Returns the
// lowercased address, or "" when it fails the user@domain.tld shape.
func SanitizeEmail(email string) string {
	sanitized := strings.ToLower(strings.TrimSpace(email))
	sanitized = htmlTagRe.ReplaceAllString(sanitized, "")

	if !emailShapeRe.MatchString(sanitized) {
		return ""
	}

	return sanitized
}

// SanitizeName cleans a person/company name: letters (including accented
// Latin-1), spaces, apostrophes, hyphens, and dots only, capped at 100.
func SanitizeName(name string) string {
	sanitized := SanitizeString(name, SanitizeOptions{MaxLength: 100})
	sanitized = nameCharRe.ReplaceAllString(sanitized, "")
	sanitized = multiSpaceRe.ReplaceAllString(sanitized, " ")
	return strings.TrimSpace(sanitized)
}

// SanitizeMessage cleans free-text input, preserving newlines, capped at 5000.
func SanitizeMessage(message string) string {
	return SanitizeString(message, SanitizeOptions{
		MaxLength:     5000,
		AllowNewlines: true,
	})
}

// SanitizeIP returns the trimmed input when it parses as IPv4/IPv6, else "".
func SanitizeIP(ip string) string {
	trimmed := strings.TrimSpace(ip)
	if net.ParseIP(trimmed) == nil {
		return ""
	}
	return trimmed
}

// SanitizeURL returns the trimmed input when it parses as an absolute
// http(s) URL, else "".
func SanitizeURL(raw string) string {
	sanitized := strings.TrimSpace(raw)
	sanitized = htmlTagRe.ReplaceAllString(sanitized, "")

	parsed, err := url.Parse(sanitized)
	if err != nil {
		return ""
	}
	if (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return ""
	}

	return sanitized
}

var sqlPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(SELECT|INSERT|UPDATE|DELETE|DROP|CREATE|ALTER|EXEC|UNION|FETCH|DECLARE|TRUNCATE)\b`),
	regexp.MustCompile(`(--|#|/\*|\*/)`),
	regexp.MustCompile(`(?i)\bOR\b\s+\d+\s*=\s*\d+`),
	regexp.MustCompile(`(?i)\bAND\b\s+\d+\s*=\s*\d+`),
	regexp.MustCompile("(';|\";|`)"),
	regexp.MustCompile(`(?i)\b(WAITFOR|BENCHMARK|SLEEP)\b`),
}

var xssPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)<script\b[^>]*>`),
	regexp.MustCompile(`(?i)javascript:`),
	regexp.MustCompile(`(?i)\bon\w+\s*=`),
	regexp.MustCompile(`(?i)<iframe\b`),
	regexp.MustCompile(`(?i)<object\b`),
	regexp.MustCompile(`(?i)<embed\b`),
	regexp.MustCompile(`(?i)<link\b[^>]*href`),
	regexp.MustCompile(`(?i)expression\s*\(`),
	regexp.MustCompile(`(?i)url\s*\(`),
}

// DetectSQLInjection reports whether the input matches a known SQL keyword or
// comment-sequence pattern. Advisory only: callers log and audit a hit, the
// submission itself is decided by post-sanitize field validation.
func DetectSQLInjection(input string) bool {
	for _, pattern := range sqlPatterns {
		if pattern.MatchString(input) {
			return true
		}
	}
	return false
}

// DetectXSS reports whether the input matches a known script/markup injection
// pattern. Advisory only, same policy as DetectSQLInjection.
func DetectXSS(input string) bool {
	for _, pattern := range xssPatterns {
		if pattern.MatchString(input) {
			return true
		}
	}
	return false
}

// ContactFormInput is the raw contact submission payload before sanitization.
type ContactFormInput struct {
	FirstName string
	LastName  string
	Email     string
	Company   string
	JobTitle  string
	Message   string
}

// ContactFormResult carries the sanitized fields plus field-level validation
// errors and advisory injection warnings.
type ContactFormResult struct {
	Sanitized ContactFormInput
	Errors    []string
	Warnings  []string
}

// IsValid reports whether the form passed required-field validation.
func (r *ContactFormResult) IsValid() bool {
	return len(r.Errors) == 0
}

// ValidateContactForm sanitizes every field and validates requiredness.
// Detection hits populate Warnings without failing the form.
func ValidateContactForm(input ContactFormInput) *ContactFormResult {
	result := &ContactFormResult{
		Sanitized: ContactFormInput{
			FirstName: SanitizeName(input.FirstName),
			LastName:  SanitizeName(input.LastName),
			Email:     SanitizeEmail(input.Email),
			Company:   SanitizeName(input.Company),
			JobTitle:  SanitizeName(input.JobTitle),
			Message:   SanitizeMessage(input.Message),
		},
	}

	for _, raw := range []string{input.FirstName, input.LastName, input.Email, input.Company, input.JobTitle, input.Message} {
		if raw == "" {
			continue
		}
		if DetectSQLInjection(raw) {
			result.Warnings = append(result.Warnings, "Suspicious pattern detected in input")
		}
		if DetectXSS(raw) {
			result.Warnings = append(result.Warnings, "HTML/script content detected and removed")
		}
	}

	// Minimums count characters, not bytes, so accented names measure
	// the same as ASCII ones.
	if utf8.RuneCountInString(result.Sanitized.FirstName) < 2 {
		result.Errors = append(result.Errors, "First name is required and must be at least 2 characters")
	}
	if utf8.RuneCountInString(result.Sanitized.LastName) < 2 {
		result.Errors = append(result.Errors, "Last name is required and must be at least 2 characters")
	}
	if result.Sanitized.Email == "" {
		result.Errors = append(result.Errors, "A valid email address is required")
	}
	if utf8.RuneCountInString(result.Sanitized.Message) < 10 {
		result.Errors = append(result.Errors, "Message is required and must be at least 10 characters")
	}

	return result
}
