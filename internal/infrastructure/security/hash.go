package security

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// decoyHash is a fixed bcrypt hash compared against when a login names an
// unknown username, so the response time stays indistinguishable from a real
// failed attempt.
const decoyHash = "$2a$12$LQv3c1yqBWVHxkd0LHAkCOYz6TtxMQJqhN8/X4.FzS5H1nQxKgB3S"

// HashPassword creates a bcrypt hash of the password at the given cost.
func HashPassword(password string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(bytes), nil
}

// CheckPassword compares a password against a bcrypt hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// DummyCompare burns a bcrypt compare against the decoy hash. Always false.
func DummyCompare(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(decoyHash), []byte(password)) == nil
}
