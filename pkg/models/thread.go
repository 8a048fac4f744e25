package models

// Thread is one ongoing support conversation, optionally tied to an
// authenticated portal user. All timestamps are wall-clock milliseconds
// since epoch.
type Thread struct {
	ID string `json:"id"`
	// UserID associates the thread with an authenticated user; empty for
	// anonymous visitors. At most one live thread per user is minted by the
	// registry's lookup-or-create path.
	UserID string `json:"user_id,omitempty"`
	// UserName is a display name cached at creation/association time.
	UserName  string `json:"user_name,omitempty"`
	CreatedAt int64  `json:"created_at"`
	// LastActivityAt is monotonically non-decreasing and bumped on every
	// message append.
	LastActivityAt int64 `json:"last_activity_at"`
	// ArchivedAt is zero while the thread is live; the sweeper sets it once
	// the thread has been idle past the retention window. Archived threads
	// drop out of staff listings but stay addressable until purged.
	ArchivedAt int64 `json:"archived_at,omitempty"`
}

// Archived reports whether the thread has been swept as inactive.
func (t *Thread) Archived() bool { return t.ArchivedAt != 0 }
