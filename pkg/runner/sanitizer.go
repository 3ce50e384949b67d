package runner

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Limits applied to a route request before it reaches the parser.
// Ordering is quadratic in the number of targets, so point groups are
// bounded on their own and not only through the byte size.
var (
	// DefaultMaxInputSize bounds the raw request in bytes.
	DefaultMaxInputSize = 4096
	// EnvMaxInputSize overrides DefaultMaxInputSize.
	EnvMaxInputSize = "COURIER_MAX_INPUT_SIZE"
	// DefaultMaxPoints bounds the number of "(x, y)" groups.
	DefaultMaxPoints = 256
	// EnvMaxPoints overrides DefaultMaxPoints.
	EnvMaxPoints = "COURIER_MAX_POINTS"
)

var (
	ErrInputTooLarge = errors.New("input exceeds maximum allowed size")
	ErrTooManyPoints = errors.New("input has too many point groups")
	ErrInvalidUTF8   = errors.New("input contains invalid UTF-8 sequences")
)

// SanitizeInput turns a raw route request into the single line the parser
// expects. Control characters are dropped, whitespace runs (newlines and
// tabs included) collapse to one space and the ends are trimmed, so
// "5x5\n(1,\t3)" becomes "5x5 (1, 3)". Oversized input is rejected, never
// truncated.
func SanitizeInput(input string) (string, error) {
	if limit := envLimit(EnvMaxInputSize, DefaultMaxInputSize); len(input) > limit {
		return "", fmt.Errorf("%w: size=%d limit=%d", ErrInputTooLarge, len(input), limit)
	}

	if !utf8.ValidString(input) {
		return "", ErrInvalidUTF8
	}

	visible := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && !unicode.IsSpace(r) {
			return -1
		}
		return r
	}, input)
	clean := strings.Join(strings.Fields(visible), " ")

	if limit := envLimit(EnvMaxPoints, DefaultMaxPoints); strings.Count(clean, "(") > limit {
		return "", fmt.Errorf("%w: points=%d limit=%d", ErrTooManyPoints, strings.Count(clean, "("), limit)
	}
	return clean, nil
}

func envLimit(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
