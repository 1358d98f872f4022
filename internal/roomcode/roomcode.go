package roomcode

import (
	"fmt"
	rand "math/rand/v2"
)

// Room codes are 6-digit numeric strings, 100000-999999, so they stay easy
// to type and read aloud.
const (
	codeLen = 6
	codeMin = 100000
	span    = 900000
)

// RandSource interface for dependency injection of randomness.
type RandSource interface {
	IntN(n int) int
}

// Generator produces room codes from a configurable randomness source.
type Generator struct {
	src RandSource
}

// NewGenerator creates a generator. A nil source is replaced with the
// process-wide default.
func NewGenerator(src RandSource) *Generator {
	if src == nil {
		src = defaultSource{}
	}
	return &Generator{src: src}
}

type defaultSource struct{}

func (defaultSource) IntN(n int) int { return rand.IntN(n) }

// Generate returns a fresh room code. Uniqueness is the caller's concern;
// the registry retries on collision.
func (g *Generator) Generate() string {
	return fmt.Sprintf("%06d", codeMin+g.src.IntN(span))
}

// Validate checks that a string is a well-formed room code.
func Validate(code string) error {
	if len(code) != codeLen {
		return fmt.Errorf("room code must be exactly %d digits, got %d", codeLen, len(code))
	}
	for i, c := range code {
		if c < '0' || c > '9' {
			return fmt.Errorf("invalid character %c at position %d", c, i)
		}
	}
	if code[0] == '0' {
		return fmt.Errorf("room code must not start with 0")
	}
	return nil
}
