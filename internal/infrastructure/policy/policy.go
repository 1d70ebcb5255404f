package policy

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/identityhub/auth-service/internal/domain/password"
)

// Rules configures the password acceptance rules. MinLength falls back to 8
// when unset; the character-class rules are opt-in.
type Rules struct {
	MinLength    int
	RequireDigit bool
	RequireUpper bool
}

type Validator struct {
	rules Rules
}

func New(rules Rules) *Validator {
	if rules.MinLength <= 0 {
		rules.MinLength = 8
	}
	return &Validator{rules: rules}
}

func (v *Validator) Validate(plaintext string) error {
	if len(plaintext) < v.rules.MinLength {
		return &password.PolicyError{
			Rule:   "min_length",
			Detail: fmt.Sprintf("must be at least %d characters", v.rules.MinLength),
		}
	}
	if v.rules.RequireDigit && !strings.ContainsFunc(plaintext, unicode.IsDigit) {
		return &password.PolicyError{Rule: "digit", Detail: "must contain at least one digit"}
	}
	if v.rules.RequireUpper && !strings.ContainsFunc(plaintext, unicode.IsUpper) {
		return &password.PolicyError{Rule: "uppercase", Detail: "must contain at least one uppercase letter"}
	}
	return nil
}

var _ password.Policy = (*Validator)(nil)
