package validation

import (
	"strings"
	"testing"

	"clinichat/pkg/models"
)

func TestValidateMessageAcceptsWellFormed(t *testing.T) {
	m := models.Message{Text: "hello", SenderRole: models.RolePatient}
	if err := ValidateMessage(m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateMessageRejectsEmptyText(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\t"} {
		m := models.Message{Text: text, SenderRole: models.RoleGuest}
		if err := ValidateMessage(m); err == nil {
			t.Fatalf("expected error for text %q", text)
		}
	}
}

func TestValidateMessageRejectsUnknownRole(t *testing.T) {
	m := models.Message{Text: "hi", SenderRole: "doctor"}
	err := ValidateMessage(m)
	if err == nil || !strings.Contains(err.Error(), "sender_role") {
		t.Fatalf("expected sender_role error, got %v", err)
	}
}

func TestValidateMessageLengthBound(t *testing.T) {
	SetRules(Rules{MaxTextLen: 10})
	defer SetRules(Rules{})

	if err := ValidateMessage(models.Message{Text: "short", SenderRole: models.RolePatient}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	long := strings.Repeat("x", 11)
	if err := ValidateMessage(models.Message{Text: long, SenderRole: models.RolePatient}); err == nil {
		t.Fatalf("expected length error")
	}
}

func TestValidateMessageJoinsErrors(t *testing.T) {
	err := ValidateMessage(models.Message{Text: "", SenderRole: "bogus"})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), ";") {
		t.Fatalf("expected joined errors, got %v", err)
	}
}

func TestCustomRoleSet(t *testing.T) {
	SetRules(Rules{Roles: []string{"nurse"}})
	defer SetRules(Rules{})

	if err := ValidateMessage(models.Message{Text: "hi", SenderRole: "nurse"}); err != nil {
		t.Fatalf("custom role rejected: %v", err)
	}
	if err := ValidateMessage(models.Message{Text: "hi", SenderRole: models.RolePatient}); err == nil {
		t.Fatalf("default role should not pass under a custom set")
	}
}
