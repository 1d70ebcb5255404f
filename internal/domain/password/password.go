package password

import "fmt"

// Hasher is the one-way credential hashing capability. Hash output embeds a
// random salt, so two hashes of the same plaintext differ; Verify must still
// accept any of them.
type Hasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, encoded string) bool
}

// Policy validates a candidate plaintext password before it is hashed.
// It is consulted on registration and password reset, never on login.
type Policy interface {
	Validate(plaintext string) error
}

// PolicyError reports which acceptance rule a candidate password failed.
type PolicyError struct {
	Rule   string
	Detail string
}

func (e *PolicyError) Error() string {
	return fmt.Sprintf("password policy violation (%s): %s", e.Rule, e.Detail)
}
