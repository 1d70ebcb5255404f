package hash

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"

	"github.com/identityhub/auth-service/internal/domain/password"
)

const (
	defaultTimeCost = 18
	saltLength      = 16
	keyLength       = 32
)

// Argon2 hashes credentials with argon2id and encodes them in the standard
// $argon2id$v=..$m=..,t=..,p=..$salt$key form. The time cost is the knob
// exposed to configuration; memory and parallelism are fixed here.
type Argon2 struct {
	time    uint32
	memory  uint32
	threads uint8
}

func NewArgon2(timeCost uint32) *Argon2 {
	if timeCost == 0 {
		timeCost = defaultTimeCost
	}
	return &Argon2{time: timeCost, memory: 64 * 1024, threads: 2}
}

func (a *Argon2) Hash(plaintext string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	key := argon2.IDKey([]byte(plaintext), salt, a.time, a.memory, a.threads, keyLength)
	encoded := fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, a.memory, a.time, a.threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key))
	return encoded, nil
}

// Verify reports whether plaintext matches the encoded hash. Parameters are
// taken from the hash itself so cost changes do not invalidate old
// credentials. The digest comparison is constant-time; malformed hashes
// verify as false.
func (a *Argon2) Verify(plaintext, encoded string) bool {
	memory, timeCost, threads, salt, key, err := decode(encoded)
	if err != nil {
		return false
	}
	candidate := argon2.IDKey([]byte(plaintext), salt, timeCost, memory, threads, uint32(len(key)))
	return subtle.ConstantTimeCompare(candidate, key) == 1
}

func decode(encoded string) (memory, timeCost uint32, threads uint8, salt, key []byte, err error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		err = errors.New("malformed argon2id hash")
		return
	}
	var version int
	if _, err = fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return
	}
	if version != argon2.Version {
		err = errors.New("unsupported argon2 version")
		return
	}
	if _, err = fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &timeCost, &threads); err != nil {
		return
	}
	if salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil {
		return
	}
	key, err = base64.RawStdEncoding.DecodeString(parts[5])
	return
}

var _ password.Hasher = (*Argon2)(nil)
