package store

import (
	"sort"
	"sync"
	"time"

	"clinichat/pkg/logger"
	"clinichat/pkg/models"
	"clinichat/pkg/utils"
)

// Event types delivered to subscribers.
const (
	// EventMessage is delivered to per-thread subscribers for each append.
	EventMessage = "message"
	// EventMessageNew is delivered to admin subscribers for every message
	// posted anywhere, together with the updated thread snapshot.
	EventMessageNew = "message:new"
	// EventThreadNew is delivered to admin subscribers when the registry
	// mints a new thread.
	EventThreadNew = "thread:new"
)

// Event is a single fan-out notification. Message is set for message
// events; Thread carries the thread snapshot for admin-scoped events.
type Event struct {
	Type    string          `json:"type"`
	Message *models.Message `json:"message,omitempty"`
	Thread  *models.Thread  `json:"thread,omitempty"`
}

// Defaults applied by New when an option is zero.
const (
	DefaultArchiveAfter     = 7 * 24 * time.Hour
	DefaultPurgeAfter       = 30 * 24 * time.Hour
	DefaultSubscriberBuffer = 32
	DefaultHistoryLimit     = 50
)

// Options tunes the store. Zero values fall back to the defaults above.
type Options struct {
	// ArchiveAfter is the idle window after which a sweep archives a thread.
	ArchiveAfter time.Duration
	// PurgeAfter is how long a thread stays archived before Purge evicts it.
	PurgeAfter time.Duration
	// SubscriberBuffer is the per-subscriber channel capacity. When a
	// consumer falls this far behind, the oldest buffered event is dropped.
	SubscriberBuffer int
}

type subscriber struct {
	ch     chan Event
	closed bool
}

// Store holds all chat state for the process: the thread registry, the
// per-thread message logs and the subscriber sets. One Store is constructed
// at startup and passed by reference into every handler; nothing here is
// persisted, so a restart wipes all of it.
//
// A single mutex serializes every operation, making each one atomic with
// respect to the others. Fan-out happens while the lock is held so
// subscribers observe events in exact call order; sends never block because
// subscriber channels use drop-oldest overflow.
type Store struct {
	mu   sync.Mutex
	opts Options

	threads  map[string]*models.Thread
	byUser   map[string]string // user id -> thread id, maintained by the registry
	messages map[string][]models.Message

	subs      map[string][]*subscriber
	adminSubs []*subscriber
}

// New constructs an empty store.
func New(opts Options) *Store {
	if opts.ArchiveAfter <= 0 {
		opts.ArchiveAfter = DefaultArchiveAfter
	}
	if opts.PurgeAfter <= 0 {
		opts.PurgeAfter = DefaultPurgeAfter
	}
	if opts.SubscriberBuffer <= 0 {
		opts.SubscriberBuffer = DefaultSubscriberBuffer
	}
	return &Store{
		opts:     opts,
		threads:  make(map[string]*models.Thread),
		byUser:   make(map[string]string),
		messages: make(map[string][]models.Message),
		subs:     make(map[string][]*subscriber),
	}
}

// CreateOpts drives GetOrCreateThread. All fields are optional.
type CreateOpts struct {
	UserID   string
	UserName string
	// PreferredID lets a client that already knows its thread id (from a
	// persisted cookie) reattach deterministically.
	PreferredID string
}

// GetOrCreateThread resolves a thread per the registry contract:
// a PreferredID is ensured to exist (created if missing, user fields updated
// if supplied); otherwise a UserID lookup returns the user's existing thread
// unchanged, archived or not, until it has been hard-evicted; otherwise a
// fresh thread is minted. New threads are announced to admin subscribers as
// thread:new. The operation cannot fail.
func (s *Store) GetOrCreateThread(opts CreateOpts) models.Thread {
	s.mu.Lock()
	defer s.mu.Unlock()

	if opts.PreferredID != "" {
		if t, ok := s.threads[opts.PreferredID]; ok {
			if opts.UserID != "" {
				// the previous owner must not keep resolving to a thread
				// that now belongs to someone else
				if t.UserID != "" && t.UserID != opts.UserID && s.byUser[t.UserID] == t.ID {
					delete(s.byUser, t.UserID)
				}
				t.UserID = opts.UserID
				s.byUser[opts.UserID] = t.ID
			}
			if opts.UserName != "" {
				t.UserName = opts.UserName
			}
			return *t
		}
		return s.createLocked(opts.PreferredID, opts.UserID, opts.UserName)
	}

	if opts.UserID != "" {
		if id, ok := s.byUser[opts.UserID]; ok {
			if t, ok := s.threads[id]; ok {
				return *t
			}
		}
	}

	return s.createLocked(utils.GenThreadID(), opts.UserID, opts.UserName)
}

// createLocked mints a thread and notifies admin subscribers. Caller holds mu.
func (s *Store) createLocked(id, userID, userName string) models.Thread {
	now := time.Now().UnixMilli()
	t := &models.Thread{
		ID:             id,
		UserID:         userID,
		UserName:       userName,
		CreatedAt:      now,
		LastActivityAt: now,
	}
	s.threads[id] = t
	if userID != "" {
		s.byUser[userID] = id
	}
	metricThreadsLive.Inc()
	logger.Debug("thread_created", "thread", id, "user", userID)
	snap := *t
	s.notifyAdminLocked(Event{Type: EventThreadNew, Thread: &snap})
	return snap
}

// PostMessage appends a message to its thread's log, creating the thread on
// the fly when the id is unseen (documented leniency: a client holding a
// stale thread cookie keeps working after the server lost its state). The
// message id is assigned when empty and CreatedAt is always server-assigned.
// The owning thread's LastActivityAt is bumped to the message's CreatedAt,
// then per-thread and admin subscribers are notified. Always succeeds.
func (s *Store) PostMessage(m models.Message) models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	if m.ThreadID == "" {
		m.ThreadID = utils.GenThreadID()
	}
	t, ok := s.threads[m.ThreadID]
	if !ok {
		s.createLocked(m.ThreadID, "", "")
		t = s.threads[m.ThreadID]
	}

	if m.ID == "" {
		m.ID = utils.GenMessageID()
	}
	m.CreatedAt = time.Now().UnixMilli()
	// keep LastActivityAt monotonic even if the wall clock stepped back
	if m.CreatedAt < t.LastActivityAt {
		m.CreatedAt = t.LastActivityAt
	}
	t.LastActivityAt = m.CreatedAt

	s.messages[m.ThreadID] = append(s.messages[m.ThreadID], m)
	metricMessagesPosted.Inc()

	msg := m
	snap := *t
	s.notifyThreadLocked(m.ThreadID, Event{Type: EventMessage, Message: &msg})
	s.notifyAdminLocked(Event{Type: EventMessageNew, Message: &msg, Thread: &snap})
	return m
}

// ListMessages returns up to the most recent limit messages of a thread,
// oldest first within the returned window. Unknown threads yield an empty
// slice. limit <= 0 falls back to DefaultHistoryLimit.
func (s *Store) ListMessages(threadID string, limit int) []models.Message {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	log := s.messages[threadID]
	if len(log) > limit {
		log = log[len(log)-limit:]
	}
	out := make([]models.Message, len(log))
	copy(out, log)
	return out
}

// ListThreads returns all non-archived threads, most recently active first.
func (s *Store) ListThreads() []models.Thread {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Thread, 0, len(s.threads))
	for _, t := range s.threads {
		if t.Archived() {
			continue
		}
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LastActivityAt != out[j].LastActivityAt {
			return out[i].LastActivityAt > out[j].LastActivityAt
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// ListAllThreads returns every thread including archived ones, most recently
// active first. Admin surface only.
func (s *Store) ListAllThreads() []models.Thread {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Thread, 0, len(s.threads))
	for _, t := range s.threads {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LastActivityAt != out[j].LastActivityAt {
			return out[i].LastActivityAt > out[j].LastActivityAt
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// GetThread returns a snapshot of the thread, archived or not.
func (s *Store) GetThread(id string) (models.Thread, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.threads[id]
	if !ok {
		return models.Thread{}, false
	}
	return *t, true
}

// Subscribe registers a live subscriber for one thread. Events are delivered
// from this point forward only; callers wanting history must ListMessages
// separately. The returned cancel removes exactly this subscriber and closes
// its channel; when it was the thread's last subscriber the set is dropped
// entirely. Cancel is idempotent.
func (s *Store) Subscribe(threadID string) (<-chan Event, func()) {
	sub := &subscriber{ch: make(chan Event, s.opts.SubscriberBuffer)}
	s.mu.Lock()
	s.subs[threadID] = append(s.subs[threadID], sub)
	metricSubscribers.Inc()
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if sub.closed {
			return
		}
		sub.closed = true
		list := s.subs[threadID]
		for i, cand := range list {
			if cand == sub {
				s.subs[threadID] = append(list[:i], list[i+1:]...)
				break
			}
		}
		if len(s.subs[threadID]) == 0 {
			delete(s.subs, threadID)
		}
		metricSubscribers.Dec()
		close(sub.ch)
	}
	return sub.ch, cancel
}

// SubscribeAdmin registers a global subscriber that observes thread:new and
// message:new events for the whole system, interleaved in call order. Used
// by staff dashboards that must see every conversation without subscribing
// thread by thread.
func (s *Store) SubscribeAdmin() (<-chan Event, func()) {
	sub := &subscriber{ch: make(chan Event, s.opts.SubscriberBuffer)}
	s.mu.Lock()
	s.adminSubs = append(s.adminSubs, sub)
	metricSubscribers.Inc()
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if sub.closed {
			return
		}
		sub.closed = true
		for i, cand := range s.adminSubs {
			if cand == sub {
				s.adminSubs = append(s.adminSubs[:i], s.adminSubs[i+1:]...)
				break
			}
		}
		metricSubscribers.Dec()
		close(sub.ch)
	}
	return sub.ch, cancel
}

// notifyThreadLocked delivers to the thread's subscribers in insertion
// order. Caller holds mu, so no subscriber can be added or closed mid-loop.
func (s *Store) notifyThreadLocked(threadID string, ev Event) {
	for _, sub := range s.subs[threadID] {
		deliver(sub, ev)
	}
}

func (s *Store) notifyAdminLocked(ev Event) {
	for _, sub := range s.adminSubs {
		deliver(sub, ev)
	}
}

// deliver hands the event to one subscriber without ever blocking the
// producer: on a full buffer the oldest pending event is dropped first.
func deliver(sub *subscriber, ev Event) {
	select {
	case sub.ch <- ev:
		metricEventsDelivered.Inc()
		return
	default:
	}
	select {
	case <-sub.ch:
		metricEventsDropped.Inc()
	default:
	}
	select {
	case sub.ch <- ev:
		metricEventsDelivered.Inc()
	default:
		metricEventsDropped.Inc()
	}
}

// SweepInactive archives every live thread whose LastActivityAt is older
// than ArchiveAfter relative to now, and returns how many it archived. Data
// is kept; only listing visibility flips.
func (s *Store) SweepInactive(now time.Time) int {
	cutoff := now.Add(-s.opts.ArchiveAfter).UnixMilli()
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.threads {
		if t.Archived() || t.LastActivityAt >= cutoff {
			continue
		}
		t.ArchivedAt = now.UnixMilli()
		n++
	}
	if n > 0 {
		metricThreadsLive.Sub(float64(n))
		metricThreadsArchived.Add(float64(n))
		logger.Info("threads_archived", "count", n)
	}
	return n
}

// Purge hard-evicts threads whose ArchivedAt is older than PurgeAfter
// relative to now, dropping their message logs with them. Subscriber sets
// are left alone: dangling stream registrations are the transport layer's to
// clean up. Repeated invocation when nothing qualifies is a no-op.
func (s *Store) Purge(now time.Time) (threads, messages int) {
	cutoff := now.Add(-s.opts.PurgeAfter).UnixMilli()
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, t := range s.threads {
		if !t.Archived() || t.ArchivedAt >= cutoff {
			continue
		}
		threads++
		messages += len(s.messages[id])
		delete(s.threads, id)
		delete(s.messages, id)
		if t.UserID != "" && s.byUser[t.UserID] == id {
			delete(s.byUser, t.UserID)
		}
	}
	if threads > 0 {
		metricThreadsPurged.Add(float64(threads))
		logger.Info("threads_purged", "threads", threads, "messages", messages)
	}
	return threads, messages
}

// Stats is a point-in-time summary for the admin surface.
type Stats struct {
	Threads         int `json:"threads"`
	ArchivedThreads int `json:"archived_threads"`
	Messages        int `json:"messages"`
	Subscribers     int `json:"subscribers"`
}

// Snapshot returns current counts.
func (s *Store) Snapshot() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := Stats{Threads: len(s.threads), Subscribers: len(s.adminSubs)}
	for _, t := range s.threads {
		if t.Archived() {
			st.ArchivedThreads++
		}
	}
	for _, log := range s.messages {
		st.Messages += len(log)
	}
	for _, list := range s.subs {
		st.Subscribers += len(list)
	}
	return st
}
