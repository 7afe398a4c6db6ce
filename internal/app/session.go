package app

import (
	"sync"
	"time"

	"curriculum-editor/internal/collapse"
	"curriculum-editor/internal/curriculum"
	"curriculum-editor/internal/domain"
	"curriculum-editor/internal/payload"
	"curriculum-editor/internal/validation"
)

// UpdateKind tells subscribers what an Update carries.
type UpdateKind string

const (
	UpdateState        UpdateKind = "state"
	UpdateNotification UpdateKind = "notification"
	UpdateFieldErrors  UpdateKind = "fieldErrors"
)

// Update is pushed to session subscribers.
type Update struct {
	Kind         UpdateKind             `json:"kind"`
	View         *View                  `json:"view,omitempty"`
	Notification *domain.Notification   `json:"notification,omitempty"`
	Fields       validation.FieldErrors `json:"fields,omitempty"`
}

// View is the editor state rendered for a client.
type View struct {
	SessionID string            `json:"sessionId"`
	Course    curriculum.Course `json:"course"`
	Collapsed []string          `json:"collapsed"`
	// Visible maps activity keys ("1:0") to the fields the activity type shows.
	Visible     map[string][]string    `json:"visible"`
	Dirty       bool                   `json:"dirty"`
	FieldErrors validation.FieldErrors `json:"fieldErrors,omitempty"`
}

// Session is one open editor: the tree, its collapse state and the clients watching it.
type Session struct {
	id        string
	createdAt time.Time
	now       func() time.Time

	mu          sync.Mutex
	tree        *curriculum.Tree
	collapse    *collapse.Store
	errors      validation.FieldErrors
	subscribers map[chan Update]struct{}
}

// NewSession wraps a tree. Exported for infrastructure layers and tests.
func NewSession(id string, tree *curriculum.Tree, store *collapse.Store) *Session {
	return newSessionWithClock(id, tree, store, time.Now)
}

func newSessionWithClock(id string, tree *curriculum.Tree, store *collapse.Store, now func() time.Time) *Session {
	s := &Session{
		id:          id,
		createdAt:   now(),
		now:         now,
		tree:        tree,
		collapse:    store,
		subscribers: make(map[chan Update]struct{}),
	}
	tree.Observe(s.follow)
	return s
}

func (s *Session) ID() string { return s.id }

// follow keeps collapse state attached to entities as lists change shape.
// Field errors address positions, so any structural change invalidates them.
func (s *Session) follow(ev curriculum.Event) {
	switch ev.Kind {
	case curriculum.EventAdded:
		s.collapse.Insert(ev.Path)
	case curriculum.EventRemoved:
		s.collapse.Remove(ev.Path)
	case curriculum.EventMoved:
		s.collapse.Move(ev.Path, ev.To)
	}
	s.errors = nil
}

func (s *Session) clearFieldError(p curriculum.Path, field string) {
	var out validation.FieldErrors
	for _, fe := range s.errors {
		if fe.Field == field && fe.Path.Equal(p) {
			continue
		}
		out = append(out, fe)
	}
	s.errors = out
}

// View renders the session state.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

func (s *Session) viewLocked() View {
	course := s.tree.Snapshot()
	visible := make(map[string][]string)
	for i, m := range course.Modules {
		for j, a := range m.Activities {
			visible[curriculum.ActivityPath(i, j).Key()] = payload.Visible(a.Type)
		}
	}
	return View{
		SessionID:   s.id,
		Course:      course,
		Collapsed:   s.collapse.Collapsed(),
		Visible:     visible,
		Dirty:       s.tree.Dirty(),
		FieldErrors: s.errors,
	}
}

// publishLocked sends the fresh state to every subscriber and returns it.
func (s *Session) publishLocked() View {
	v := s.viewLocked()
	s.broadcastLocked(Update{Kind: UpdateState, View: &v})
	return v
}

func (s *Session) notifyLocked(level domain.NotificationLevel, title string, messages ...string) {
	n := domain.Notification{Level: level, Title: title, CreatedAt: s.now()}
	if len(messages) > validation.MaxNotificationMessages {
		n.More = len(messages) - validation.MaxNotificationMessages
		messages = messages[:validation.MaxNotificationMessages]
	}
	n.Messages = messages
	s.broadcastLocked(Update{Kind: UpdateNotification, Notification: &n})
}

func (s *Session) subscribe() (<-chan Update, func()) {
	ch := make(chan Update, 8)

	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	v := s.viewLocked()
	s.mu.Unlock()

	ch <- Update{Kind: UpdateState, View: &v}

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *Session) broadcastLocked(u Update) {
	for ch := range s.subscribers {
		select {
		case ch <- u:
		default:
			// slow client: drop its oldest pending update
			select {
			case <-ch:
			default:
			}
			ch <- u
		}
	}
}

func (s *Session) closeSubscribers() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ch := range s.subscribers {
		delete(s.subscribers, ch)
		close(ch)
	}
}
