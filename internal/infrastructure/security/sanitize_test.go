package security

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSanitizeString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		opts     SanitizeOptions
		expected string
	}{
		{
			name:     "plain text unchanged",
			input:    "Hello world",
			opts:     SanitizeOptions{},
			expected: "Hello world",
		},
		{
			name:     "script block removed with payload",
			input:    "<script>alert(1)</script>Hello",
			opts:     SanitizeOptions{},
			expected: "Hello",
		},
		{
			name:     "html tags stripped but text kept",
			input:    "Click <a href=\"x\">here</a>",
			opts:     SanitizeOptions{},
			expected: "Click here",
		},
		{
			name:     "javascript scheme removed",
			input:    "javascript:alert(1)",
			opts:     SanitizeOptions{},
			expected: "alert(1)",
		},
		{
			name:     "event handler attribute removed",
			input:    "foo onclick=bad",
			opts:     SanitizeOptions{},
			expected: "foo bad",
		},
		{
			name:     "self-contained tag with handler fully stripped",
			input:    "<img src=x onerror=alert(1)>",
			opts:     SanitizeOptions{},
			expected: "",
		},
		{
			name:     "whitespace trimmed",
			input:    "   hi   ",
			opts:     SanitizeOptions{},
			expected: "hi",
		},
		{
			name:     "newlines collapse without AllowNewlines",
			input:    "line1\nline2",
			opts:     SanitizeOptions{},
			expected: "line1 line2",
		},
		{
			name:     "crlf normalized with AllowNewlines",
			input:    "line1\r\nline2",
			opts:     SanitizeOptions{AllowNewlines: true},
			expected: "line1\nline2",
		},
		{
			name:     "control characters dropped",
			input:    "a\x00b\x07c",
			opts:     SanitizeOptions{},
			expected: "abc",
		},
		{
			name:     "max length enforced",
			input:    strings.Repeat("a", 20),
			opts:     SanitizeOptions{MaxLength: 10},
			expected: strings.Repeat("a", 10),
		},
		{
			name:     "lowercase option",
			input:    "MiXeD",
			opts:     SanitizeOptions{ToLowerCase: true},
			expected: "mixed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeString(tt.input, tt.opts)
			if got != tt.expected {
				t.Errorf("SanitizeString(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSanitizeStringNeutralizesInjectionMarkers(t *testing.T) {
	inputs := []string{
		"<script>document.cookie</script>",
		"<ScRiPt src='x'>payload</sCrIpT> trailing",
		"prefix javascript:void(0)",
		"attr onmouseover = steal()",
	}
	for _, input := range inputs {
		got := SanitizeString(input, SanitizeOptions{})
		lower := strings.ToLower(got)
		if strings.Contains(lower, "<script") {
			t.Errorf("output %q still contains script tag", got)
		}
		if strings.Contains(lower, "javascript:") {
			t.Errorf("output %q still contains javascript scheme", got)
		}
		if DetectXSS(got) {
			t.Errorf("output %q still trips XSS detection", got)
		}
	}
}

func TestSanitizeEmail(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"  John@Example.COM ", "john@example.com"},
		{"user+tag@mail.co", "user+tag@mail.co"},
		{"not-an-email", ""},
		{"a@b.c", ""},
		{"", ""},
		{"two@at@signs.com", ""},
		{"<b>admin@site.com</b>", "admin@site.com"},
	}
	for _, tt := range tests {
		if got := SanitizeEmail(tt.input); got != tt.expected {
			t.Errorf("SanitizeEmail(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Jean-Luc", "Jean-Luc"},
		{"O'Brien", "O'Brien"},
		{"<b>Ana</b>", "Ana"},
		{"Ana123", "Ana"},
		{"  spaced   name  ", "spaced name"},
	}
	for _, tt := range tests {
		if got := SanitizeName(tt.input); got != tt.expected {
			t.Errorf("SanitizeName(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestSanitizeMessageCapsLength(t *testing.T) {
	got := SanitizeMessage(strings.Repeat("a", 6000))
	if len(got) != 5000 {
		t.Errorf("expected message capped at 5000, got %d", len(got))
	}
	if SanitizeMessage("line1\r\nline2") != "line1\nline2" {
		t.Error("expected newlines preserved and normalized in messages")
	}
}

func TestSanitizeStringTruncatesOnRuneBoundary(t *testing.T) {
	got := SanitizeString(strings.Repeat("a", 99)+"日本", SanitizeOptions{MaxLength: 100})
	if !utf8.ValidString(got) {
		t.Errorf("expected valid UTF-8 after truncation, got %q", got)
	}
	if len(got) != 99 {
		t.Errorf("expected cut before the split rune at 99 bytes, got %d", len(got))
	}

	got = SanitizeString(strings.Repeat("é", 60), SanitizeOptions{MaxLength: 100})
	if !utf8.ValidString(got) {
		t.Errorf("expected valid UTF-8 after truncation, got %q", got)
	}
	if len(got) != 100 {
		t.Errorf("expected exact cut on the rune boundary at 100 bytes, got %d", len(got))
	}
}

func TestSanitizeIP(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"192.168.1.1", "192.168.1.1"},
		{" 10.0.0.1 ", "10.0.0.1"},
		{"::1", "::1"},
		{"999.1.1.1", ""},
		{"1.2.3.4; DROP TABLE", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := SanitizeIP(tt.input); got != tt.expected {
			t.Errorf("SanitizeIP(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestSanitizeURL(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"https://example.com/page", "https://example.com/page"},
		{"http://localhost:3000", "http://localhost:3000"},
		{"ftp://example.com", ""},
		{"javascript:alert(1)", ""},
		{"not a url", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := SanitizeURL(tt.input); got != tt.expected {
			t.Errorf("SanitizeURL(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestDetectSQLInjection(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"SELECT * FROM users", true},
		{"1 OR 1=1", true},
		{"value'; --", true},
		{"UNION ALL SELECT password", true},
		{"WAITFOR DELAY '0:0:5'", true},
		{"hello world", false},
		{"I like unions at work", false},
		{"a perfectly normal message about security testing", false},
	}
	for _, tt := range tests {
		if got := DetectSQLInjection(tt.input); got != tt.expected {
			t.Errorf("DetectSQLInjection(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestDetectXSS(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"<script>alert(1)</script>", true},
		{"<ScRiPt src=x>", true},
		{"javascript:void(0)", true},
		{"onmouseover=evil()", true},
		{"<iframe src=x>", true},
		{"expression(alert(1))", true},
		{"plain text", false},
		{"money online today", false},
	}
	for _, tt := range tests {
		if got := DetectXSS(tt.input); got != tt.expected {
			t.Errorf("DetectXSS(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestValidateContactForm(t *testing.T) {
	valid := ContactFormInput{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane@example.com",
		Message:   "I need a penetration test for our platform.",
	}

	t.Run("valid form passes", func(t *testing.T) {
		result := ValidateContactForm(valid)
		if !result.IsValid() {
			t.Fatalf("expected valid form, got errors: %v", result.Errors)
		}
		if result.Sanitized.Email != "jane@example.com" {
			t.Errorf("unexpected sanitized email %q", result.Sanitized.Email)
		}
	})

	t.Run("message nine chars rejected ten accepted", func(t *testing.T) {
		short := valid
		short.Message = strings.Repeat("x", 9)
		if ValidateContactForm(short).IsValid() {
			t.Error("expected 9-char message to fail")
		}
		short.Message = strings.Repeat("x", 10)
		if !ValidateContactForm(short).IsValid() {
			t.Error("expected 10-char message to pass")
		}
	})

	t.Run("short first name rejected", func(t *testing.T) {
		bad := valid
		bad.FirstName = "A"
		result := ValidateContactForm(bad)
		if result.IsValid() {
			t.Error("expected single-char first name to fail")
		}
	})

	t.Run("minimums count characters not bytes", func(t *testing.T) {
		bad := valid
		bad.FirstName = "É"
		if ValidateContactForm(bad).IsValid() {
			t.Error("expected single accented character to fail the 2-char minimum")
		}

		ok := valid
		ok.FirstName = "Éa"
		ok.LastName = "Ñé"
		if result := ValidateContactForm(ok); !result.IsValid() {
			t.Errorf("expected two-character accented names to pass, errors: %v", result.Errors)
		}

		short := valid
		short.Message = strings.Repeat("é", 9)
		if ValidateContactForm(short).IsValid() {
			t.Error("expected 9-char accented message to fail")
		}
		short.Message = strings.Repeat("é", 10)
		if !ValidateContactForm(short).IsValid() {
			t.Error("expected 10-char accented message to pass")
		}
	})

	t.Run("invalid email rejected", func(t *testing.T) {
		bad := valid
		bad.Email = "nope"
		if ValidateContactForm(bad).IsValid() {
			t.Error("expected malformed email to fail")
		}
	})

	t.Run("xss input sanitized with warning", func(t *testing.T) {
		sneaky := valid
		sneaky.Message = "<script>steal()</script> Please review our infrastructure setup."
		result := ValidateContactForm(sneaky)
		if !result.IsValid() {
			t.Fatalf("expected sanitized form to remain valid, errors: %v", result.Errors)
		}
		if len(result.Warnings) == 0 {
			t.Error("expected an injection warning")
		}
		if strings.Contains(strings.ToLower(result.Sanitized.Message), "<script") {
			t.Errorf("sanitized message still contains script tag: %q", result.Sanitized.Message)
		}
	})

	t.Run("sql-looking input sanitized with warning but not rejected", func(t *testing.T) {
		sneaky := valid
		sneaky.Message = "Robert'); DROP TABLE students; -- we actually test for this"
		result := ValidateContactForm(sneaky)
		if !result.IsValid() {
			t.Fatalf("expected advisory-only detection, errors: %v", result.Errors)
		}
		if len(result.Warnings) == 0 {
			t.Error("expected a SQL injection warning")
		}
	})
}
