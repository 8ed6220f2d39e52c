package catalog

import (
	"math/rand"
	"strings"
)

const (
	// SectionCodeLen / FamilyCodeLen cap derived grouping codes at 4 characters.
	SectionCodeLen = 4
	FamilyCodeLen  = 4

	// ShortCodeLen is the length of a generated article short code.
	ShortCodeLen = 6

	// BarcodePrefix is the fixed company prefix for generated EAN-13 values.
	BarcodePrefix = "775"

	// BarcodeLen is prefix + random digits + check digit.
	BarcodeLen = 13

	// DefaultMaxAttempts bounds the collision-retry loops. The 10^6 short-code
	// space dwarfs any realistic catalog, so hitting the bound means something
	// is wrong with the exists oracle rather than bad luck.
	DefaultMaxAttempts = 1000
)

// ExistsFunc reports whether a candidate code is already taken. It is a
// best-effort pre-check; the storage layer's unique constraints remain the
// source of truth under concurrent writers.
type ExistsFunc func(code string) (bool, error)

// DeriveSectionCode uppercases name and truncates it to its first 4 runes.
// Only a fully empty name is rejected; shorter names yield shorter codes.
func DeriveSectionCode(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", invalidf("section name must not be empty")
	}
	r := []rune(strings.ToUpper(name))
	if len(r) > SectionCodeLen {
		r = r[:SectionCodeLen]
	}
	return string(r), nil
}

// DeriveFamilyCode uppercases name and truncates it to its first 4 runes.
// Unlike sections, a family code must carry 4 meaningful characters, so
// shorter names are rejected outright.
func DeriveFamilyCode(name string) (string, error) {
	name = strings.TrimSpace(name)
	r := []rune(name)
	if len(r) < FamilyCodeLen {
		return "", invalidf("family name must have at least %d characters", FamilyCodeLen)
	}
	return strings.ToUpper(string(r[:FamilyCodeLen])), nil
}

// ComputeEAN13CheckDigit returns the check digit for the first 12 digits of
// base. Weighting is 3 on even 0-based indexes and 1 on odd ones; generated
// values and validation must agree on this exact convention.
func ComputeEAN13CheckDigit(base string) (string, error) {
	if len(base) < 12 {
		return "", invalidf("EAN-13 base must have at least 12 digits, got %d", len(base))
	}
	sum := 0
	for i, c := range base[:12] {
		if c < '0' || c > '9' {
			return "", invalidf("EAN-13 base must be numeric, got %q at index %d", c, i)
		}
		weight := 1
		if i%2 == 0 {
			weight = 3
		}
		sum += weight * int(c-'0')
	}
	check := (10 - sum%10) % 10
	return string(rune('0' + check)), nil
}

// ValidateBarcode checks that value is exactly 13 digits and that its last
// digit matches the checksum of the first 12.
func ValidateBarcode(value string) error {
	if len(value) != BarcodeLen {
		return invalidf("barcode must be exactly %d digits, got %d", BarcodeLen, len(value))
	}
	check, err := ComputeEAN13CheckDigit(value)
	if err != nil {
		return err
	}
	if value[BarcodeLen-1:] != check {
		return invalidf("barcode %s has check digit %s, want %s", value, value[BarcodeLen-1:], check)
	}
	return nil
}

// GenerateShortCode draws 6-digit codes from rng until exists reports a free
// one. maxAttempts <= 0 means retry until success.
func GenerateShortCode(rng *rand.Rand, exists ExistsFunc, maxAttempts int) (string, error) {
	for attempt := 0; maxAttempts <= 0 || attempt < maxAttempts; attempt++ {
		code := randomDigits(rng, ShortCodeLen)
		taken, err := exists(code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
	return "", &ExhaustedRetriesError{Kind: "short code", Attempts: maxAttempts}
}

// GenerateBarcode builds a 12-digit base from the fixed prefix plus 9 random
// digits, appends the check digit, and redraws the random part on collision.
// Same retry contract as GenerateShortCode.
func GenerateBarcode(rng *rand.Rand, exists ExistsFunc, maxAttempts int) (string, error) {
	for attempt := 0; maxAttempts <= 0 || attempt < maxAttempts; attempt++ {
		base := BarcodePrefix + randomDigits(rng, BarcodeLen-1-len(BarcodePrefix))
		check, err := ComputeEAN13CheckDigit(base)
		if err != nil {
			return "", err
		}
		value := base + check
		taken, err := exists(value)
		if err != nil {
			return "", err
		}
		if !taken {
			return value, nil
		}
	}
	return "", &ExhaustedRetriesError{Kind: "barcode", Attempts: maxAttempts}
}

func randomDigits(rng *rand.Rand, n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte('0' + rng.Intn(10))
	}
	return string(b)
}
