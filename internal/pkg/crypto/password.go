package crypto

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidPin = errors.New("pin must be a whole number")

var hashCost = bcrypt.DefaultCost

// SetHashCost changes the bcrypt cost for hashes created afterwards.
func SetHashCost(cost int) {
	hashCost = cost
}

// HashPassword hashes a secret using bcrypt
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword compares a secret with its bcrypt hash
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// NormalizePin turns numeric input given in any textual form ("1111",
// " 1111 ", "1111.0") into its canonical decimal string, so a pin matches
// regardless of how the client encoded it.
func NormalizePin(input string) (string, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return "", ErrInvalidPin
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return "", ErrInvalidPin
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return "", ErrInvalidPin
	}

	return strconv.FormatInt(int64(f), 10), nil
}

// HashPin stores a pin by its canonical form.
func HashPin(pin int) (string, error) {
	return HashPassword(strconv.Itoa(pin))
}

// CheckPin reports whether input normalises to the pin behind hash.
func CheckPin(input, hash string) bool {
	canonical, err := NormalizePin(input)
	if err != nil {
		return false
	}
	return CheckPassword(canonical, hash)
}
