package security

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple", 4)
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "correct horse battery staple" {
		t.Fatal("hash must not equal the plaintext")
	}

	if !CheckPassword(hash, "correct horse battery staple") {
		t.Error("expected matching password to verify")
	}
	if CheckPassword(hash, "wrong password") {
		t.Error("expected non-matching password to fail")
	}
}

func TestHashPasswordUniqueSalts(t *testing.T) {
	a, err := HashPassword("same-input", 4)
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	b, err := HashPassword("same-input", 4)
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if a == b {
		t.Error("expected distinct hashes for the same input")
	}
}

func TestDummyCompareNeverMatches(t *testing.T) {
	for _, password := range []string{"", "admin", "hunter2"} {
		if DummyCompare(password) {
			t.Errorf("DummyCompare(%q) unexpectedly returned true", password)
		}
	}
}

func TestValidUUID(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{GenerateUUID(), true},
		{"123e4567-e89b-42d3-a456-426614174000", true},
		{"123E4567-E89B-42D3-A456-426614174000", true},
		{"not-a-uuid", false},
		{"123e4567-e89b-12d3-a456-426614174000", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := ValidUUID(tt.input); got != tt.expected {
			t.Errorf("ValidUUID(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}
