package validation

import (
	"errors"
	"fmt"
	"strings"

	"clinichat/pkg/models"
)

// Rules captures the ingress contract for submitted messages. The store
// itself does not re-validate; enforcement happens here, at the caller.
type Rules struct {
	// MaxTextLen bounds the message body in bytes.
	MaxTextLen int
	// Roles is the accepted sender-role set. Empty means the built-in
	// closed set from pkg/models.
	Roles []string
}

var rules = Rules{MaxTextLen: 4000}

// SetRules installs the process-wide validation rules.
func SetRules(r Rules) {
	if r.MaxTextLen <= 0 {
		r.MaxTextLen = 4000
	}
	rules = r
}

// ValidateMessage checks a submitted message against the ingress rules.
func ValidateMessage(m models.Message) error {
	var errs []string
	if strings.TrimSpace(m.Text) == "" {
		errs = append(errs, "text is required")
	}
	if len(m.Text) > rules.MaxTextLen {
		errs = append(errs, fmt.Sprintf("text too long: %d > %d", len(m.Text), rules.MaxTextLen))
	}
	if !roleAllowed(m.SenderRole) {
		errs = append(errs, fmt.Sprintf("invalid sender_role: %q", m.SenderRole))
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func roleAllowed(role string) bool {
	if len(rules.Roles) == 0 {
		return models.ValidRole(role)
	}
	for _, r := range rules.Roles {
		if r == role {
			return true
		}
	}
	return false
}
