package models

// Sender roles form a closed set; ingress validation rejects anything else.
const (
	RoleGuest     = "guest"
	RolePatient   = "patient"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

// ValidRole reports whether r is one of the known sender roles.
func ValidRole(r string) bool {
	switch r {
	case RoleGuest, RolePatient, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

// Message is one text entry within a thread. Messages are immutable once
// appended; the per-thread log is append-only.
type Message struct {
	ID         string `json:"id"`
	ThreadID   string `json:"thread_id"`
	Text       string `json:"text"`
	SenderRole string `json:"sender_role"`
	// SenderID identifies the authenticated sender; empty for guests.
	SenderID string `json:"sender_id,omitempty"`
	// CreatedAt is assigned by the store at append time (ms since epoch).
	// Caller-supplied values are ignored so log order matches arrival order.
	CreatedAt int64 `json:"created_at"`
}
