package codegen

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
)

// DefaultAlphabet is the character set used for human-presentable codes.
const DefaultAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// maxAttempts bounds the generate-check-retry loop.
const maxAttempts = 10

// ErrExhausted indicates code generation kept colliding with existing codes.
var ErrExhausted = errors.New("codegen: exhausted generation attempts")

// ExistsFunc reports whether a candidate code is already taken.
type ExistsFunc func(code string) (bool, error)

// Random returns a random code of the given length drawn from the alphabet.
func Random(alphabet string, length int) (string, error) {
	if alphabet == "" {
		alphabet = DefaultAlphabet
	}
	if length <= 0 {
		return "", fmt.Errorf("codegen: invalid length %d", length)
	}
	max := big.NewInt(int64(len(alphabet)))
	out := make([]byte, length)
	for i := range out {
		n, errRand := rand.Int(rand.Reader, max)
		if errRand != nil {
			return "", fmt.Errorf("codegen: random: %w", errRand)
		}
		out[i] = alphabet[n.Int64()]
	}
	return string(out), nil
}

// Generate produces a unique random code, retrying while exists reports a
// collision. A nil exists func skips uniqueness checking.
func Generate(alphabet string, length int, exists ExistsFunc) (string, error) {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		code, errRandom := Random(alphabet, length)
		if errRandom != nil {
			return "", errRandom
		}
		if exists == nil {
			return code, nil
		}
		taken, errExists := exists(code)
		if errExists != nil {
			return "", errExists
		}
		if !taken {
			return code, nil
		}
	}
	return "", ErrExhausted
}
