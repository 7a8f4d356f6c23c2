package encryption

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
)

const (
	// MaxRounds is the number of rounds a key schedule can describe.
	MaxRounds = 8
	// DefaultKeySize is the number of hex digits in a generated key.
	DefaultKeySize = 32

	// Each round consumes a slice of this many nibbles from the key.
	nibblesPerRound = 4
)

const hexDigits = "0123456789abcdef"

// DiffusionRound holds the parameters of a single diffusion round.
type DiffusionRound struct {
	BlockSize int
	X         int
	Y         int
}

// SubstitutionRound holds the parameters of a single substitution round.
type SubstitutionRound struct {
	BlockSize int
}

// Key is a parsed hexadecimal key, one entry per nibble.
type Key []int

// ParseKey converts a string of hex digits into a Key. Upper and lower case
// digits are both accepted.
func ParseKey(s string) (Key, error) {
	if s == "" {
		return nil, fmt.Errorf("%w: empty key", ErrInvalidKey)
	}
	key := make(Key, len(s))
	for i, ch := range strings.ToLower(s) {
		n := strings.IndexRune(hexDigits, ch)
		if n < 0 {
			return nil, fmt.Errorf("%w: %q at position %d is not a hex digit", ErrInvalidKey, ch, i)
		}
		key[i] = n
	}
	return key, nil
}

// String returns the normalized (lowercase) form of the key.
func (k Key) String() string {
	var sb strings.Builder
	for _, n := range k {
		sb.WriteByte(hexDigits[n])
	}
	return sb.String()
}

// Fingerprint identifies a key without revealing it.
func (k Key) Fingerprint() string {
	sum := sha256.Sum256([]byte(k.String()))
	return hex.EncodeToString(sum[:8])
}

// sum adds up the nibbles at the given offsets of the slice starting at start.
func (k Key) sum(start int, offsets ...int) int {
	total := 0
	for _, off := range offsets {
		total += k[start+off]
	}
	return total
}

func checkRounds(rounds int) error {
	if rounds < 1 || rounds > MaxRounds {
		return fmt.Errorf("%w: rounds must be between 1 and %d, got %d", ErrInvalidKey, MaxRounds, rounds)
	}
	return nil
}

// DiffusionSchedule derives the block size and starting cell of each
// diffusion round. Round r reads the four nibbles starting at 4(r-1).
func DiffusionSchedule(key Key, rounds int) ([]DiffusionRound, error) {
	if err := checkRounds(rounds); err != nil {
		return nil, err
	}
	if need := nibblesPerRound * rounds; len(key) < need {
		return nil, fmt.Errorf("%w: %d rounds need %d hex digits, key has %d", ErrInvalidKey, rounds, need, len(key))
	}

	schedule := make([]DiffusionRound, rounds)
	for r := range schedule {
		start := nibblesPerRound * r
		schedule[r] = DiffusionRound{
			BlockSize: key.sum(start, 0, 1, 2, 3),
			X:         key.sum(start, 0, 1, 2),
			Y:         key.sum(start, 1, 2, 3),
		}
		if schedule[r].BlockSize == 0 {
			return nil, fmt.Errorf("%w: diffusion round %d derives a zero block size", ErrInvalidBlockSize, r+1)
		}
	}
	return schedule, nil
}

// SubstitutionSchedule derives the block size of each substitution round.
// The key is read back to front: round r uses the slice of round 8-r, so the
// full key is needed no matter how many rounds are requested.
func SubstitutionSchedule(key Key, rounds int) ([]SubstitutionRound, error) {
	if err := checkRounds(rounds); err != nil {
		return nil, err
	}
	if need := nibblesPerRound * MaxRounds; len(key) < need {
		return nil, fmt.Errorf("%w: substitution needs %d hex digits, key has %d", ErrInvalidKey, need, len(key))
	}

	schedule := make([]SubstitutionRound, rounds)
	for r := range schedule {
		start := nibblesPerRound * (MaxRounds - 1 - r)
		schedule[r] = SubstitutionRound{BlockSize: key.sum(start, 0, 1, 2)}
		if schedule[r].BlockSize == 0 {
			return nil, fmt.Errorf("%w: substitution round %d derives a zero block size", ErrInvalidBlockSize, r+1)
		}
	}
	return schedule, nil
}

// GenerateKey returns a cryptographically random string of size hex digits.
func GenerateKey(size int) (string, error) {
	if size <= 0 {
		return "", fmt.Errorf("%w: key size must be positive, got %d", ErrInvalidKey, size)
	}
	max := big.NewInt(int64(len(hexDigits)))
	var sb strings.Builder
	for i := 0; i < size; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("reading random source: %w", err)
		}
		sb.WriteByte(hexDigits[n.Int64()])
	}
	return sb.String(), nil
}
