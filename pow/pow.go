package pow

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"inet.af/netaddr"
)

// MaxDifficulty is the largest number of leading zero bits a SHA-256 digest can have.
const MaxDifficulty = sha256.Size * 8

var ErrUnsatisfiableDifficulty = errors.New("difficulty exceeds digest length")

type Challenge struct {
	Prefix     []byte
	Difficulty uint32
	TaskID     string
	IP         netaddr.IP
}

// DecodeChallenge builds a challenge from the hex prefix and difficulty issued by the server.
func DecodeChallenge(pref string, n uint32) (*Challenge, error) {
	prefix, err := hex.DecodeString(pref)
	if err != nil {
		return nil, fmt.Errorf("decode prefix: %w", err)
	}
	return &Challenge{Prefix: prefix, Difficulty: n}, nil
}

func GenerateChallenge(d uint32) *Challenge {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return &Challenge{
		Prefix:     b,
		Difficulty: d,
	}
}

func (c *Challenge) String() string {
	return hex.EncodeToString(c.Prefix)
}

// Digest hashes the raw concatenation of prefix and suffix.
func Digest(prefix, suffix []byte) [sha256.Size]byte {
	h := sha256.New()
	h.Write(prefix)
	h.Write(suffix)
	var d [sha256.Size]byte
	h.Sum(d[:0])
	return d
}

// HasLeadingZeroBits reports whether the first bits bits of digest are zero,
// reading each byte most significant bit first.
func HasLeadingZeroBits(digest []byte, bits uint32) bool {
	if uint64(bits) > uint64(len(digest))*8 {
		return false
	}
	full := int(bits / 8)
	for _, b := range digest[:full] {
		if b != 0 {
			return false
		}
	}
	rem := bits % 8
	if rem == 0 {
		return true
	}
	mask := byte(0xff << (8 - rem))
	return digest[full]&mask == 0
}

func Verify(prefix, suffix []byte, bits uint32) bool {
	d := Digest(prefix, suffix)
	return HasLeadingZeroBits(d[:], bits)
}

func (c *Challenge) Check(s string) (bool, error) {
	suffix, err := hex.DecodeString(s)
	if err != nil {
		return false, fmt.Errorf("decode solution: %w", err)
	}
	return Verify(c.Prefix, suffix, c.Difficulty), nil
}
