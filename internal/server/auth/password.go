package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/dmitrijs2005/sportstore/internal/common"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

const (
	MinPasswordLength = 6
	// bcrypt only looks at the first 72 bytes of its input.
	maxBcryptPasswordBytes = 72

	AlgorithmBcrypt   = "bcrypt"
	AlgorithmArgon2id = "argon2id"
)

// ErrPasswordTooLong is returned by the bcrypt hasher for inputs it would
// otherwise truncate.
var ErrPasswordTooLong = fmt.Errorf("%w: password must be at most %d bytes", common.ErrValidation, maxBcryptPasswordBytes)

// Hasher hashes and verifies account passwords.
type Hasher interface {
	// Hash returns a salted one-way hash of password.
	Hash(password string) (string, error)

	// Verify reports whether password matches hash. It returns false for
	// malformed hashes and never panics.
	Verify(password, hash string) bool

	// DummyHash returns a valid hash of an unguessable secret. Login verifies
	// against it when the account does not exist so both paths cost the same.
	DummyHash() string
}

// NewHasher builds the Hasher named by algorithm.
func NewHasher(algorithm string, bcryptCost int) (Hasher, error) {
	switch algorithm {
	case AlgorithmBcrypt, "":
		return NewBcryptHasher(bcryptCost), nil
	case AlgorithmArgon2id:
		return NewArgon2idHasher(DefaultArgon2Params), nil
	default:
		return nil, fmt.Errorf("unsupported password hash algorithm %q", algorithm)
	}
}

func checkMinLength(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return common.Validationf("password must be at least %d characters", MinPasswordLength)
	}
	return nil
}

// dummy lazily hashes a random secret once per hasher.
type dummy struct {
	once sync.Once
	hash string
}

func (d *dummy) get(h Hasher) string {
	d.once.Do(func() {
		secret := make([]byte, 24)
		_, _ = rand.Read(secret)
		d.hash, _ = h.Hash(hex.EncodeToString(secret))
	})
	return d.hash
}

// BcryptHasher implements Hasher using bcrypt.
type BcryptHasher struct {
	cost  int
	dummy dummy
}

// NewBcryptHasher returns a bcrypt hasher. Costs outside bcrypt's range
// fall back to bcrypt.DefaultCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	if err := checkMinLength(password); err != nil {
		return "", err
	}
	if len(password) > maxBcryptPasswordBytes {
		return "", ErrPasswordTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(hash), nil
}

func (h *BcryptHasher) Verify(password, hash string) bool {
	if len(password) > maxBcryptPasswordBytes {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func (h *BcryptHasher) DummyHash() string {
	return h.dummy.get(h)
}

// Argon2Params are the argon2id cost parameters written into new hashes.
type Argon2Params struct {
	Time    uint32
	Memory  uint32 // KiB
	Threads uint8
	SaltLen int
	KeyLen  uint32
}

// DefaultArgon2Params follow the OWASP recommendation for argon2id.
var DefaultArgon2Params = Argon2Params{
	Time:    1,
	Memory:  64 * 1024,
	Threads: 4,
	SaltLen: 16,
	KeyLen:  32,
}

// Upper bounds accepted when reading parameters back from a stored hash.
const (
	maxArgon2Time   = 16
	maxArgon2Memory = 1 << 20 // 1 GiB
	maxArgon2KeyLen = 1024
)

// Argon2idHasher implements Hasher using argon2id with PHC encoded output:
// $argon2id$v=19$m=65536,t=1,p=4$<salt>$<hash>
type Argon2idHasher struct {
	params Argon2Params
	dummy  dummy
}

func NewArgon2idHasher(params Argon2Params) *Argon2idHasher {
	return &Argon2idHasher{params: params}
}

func (h *Argon2idHasher) Hash(password string) (string, error) {
	if err := checkMinLength(password); err != nil {
		return "", err
	}

	salt := make([]byte, h.params.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("argon2id: salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, h.params.Time, h.params.Memory, h.params.Threads, h.params.KeyLen)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.params.Memory, h.params.Time, h.params.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

func (h *Argon2idHasher) Verify(password, encodedHash string) bool {
	p, salt, expected, ok := decodeArgon2id(encodedHash)
	if !ok {
		return false
	}
	key := argon2.IDKey([]byte(password), salt, p.Time, p.Memory, p.Threads, uint32(len(expected)))
	return subtle.ConstantTimeCompare(key, expected) == 1
}

func (h *Argon2idHasher) DummyHash() string {
	return h.dummy.get(h)
}

func decodeArgon2id(encoded string) (p Argon2Params, salt, key []byte, ok bool) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return p, nil, nil, false
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return p, nil, nil, false
	}

	var threads uint32
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.Memory, &p.Time, &threads); err != nil {
		return p, nil, nil, false
	}
	if p.Time < 1 || p.Time > maxArgon2Time || p.Memory < 8 || p.Memory > maxArgon2Memory || threads < 1 || threads > 255 {
		return p, nil, nil, false
	}
	p.Threads = uint8(threads)

	var err error
	if salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil || len(salt) == 0 {
		return p, nil, nil, false
	}
	if key, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil || len(key) == 0 || len(key) > maxArgon2KeyLen {
		return p, nil, nil, false
	}
	return p, salt, key, true
}
