package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"curriculum-editor/internal/collapse"
	"curriculum-editor/internal/curriculum"
	"curriculum-editor/internal/domain"
	"curriculum-editor/internal/logger"
	"curriculum-editor/internal/payload"
)

// DefaultRefreshLimit bounds concurrent video lookups in RefreshVideoDurations.
const DefaultRefreshLimit = 4

// Dependencies wires an EditorService. Collapse, Videos and Uploads are optional.
type Dependencies struct {
	Sessions     SessionRepository
	Courses      CourseRepository
	Bank         BankRepository
	Collapse     CollapseRepository
	Videos       DurationLookup
	Uploads      Uploader
	Money        payload.Money
	Logger       logger.Logger
	RefreshLimit int
}

// EditorService contains the curriculum editor use cases.
type EditorService struct {
	sessions     SessionRepository
	courses      CourseRepository
	bank         BankRepository
	collapseRepo CollapseRepository
	videos       DurationLookup
	uploads      Uploader
	money        payload.Money
	log          logger.Logger
	refreshLimit int
	newID        func() string
	now          func() time.Time
}

func NewEditorService(deps Dependencies) *EditorService {
	s := &EditorService{
		sessions:     deps.Sessions,
		courses:      deps.Courses,
		bank:         deps.Bank,
		collapseRepo: deps.Collapse,
		videos:       deps.Videos,
		uploads:      deps.Uploads,
		money:        deps.Money,
		log:          deps.Logger,
		refreshLimit: deps.RefreshLimit,
		newID:        uuid.NewString,
		now:          time.Now,
	}
	if s.log == nil {
		s.log = logger.Nop{}
	}
	if s.refreshLimit <= 0 {
		s.refreshLimit = DefaultRefreshLimit
	}
	return s
}

// Open starts an editor session. An empty course id opens a blank course.
// Modules and activities of a loaded course start collapsed unless a saved collapse state exists.
func (s *EditorService) Open(ctx context.Context, courseID string) (View, error) {
	var tree *curriculum.Tree
	if courseID == "" {
		tree = curriculum.NewTree(curriculum.CourseFields{DurationUnit: domain.UnitHours, Installments: domain.MinInstallments})
	} else {
		rec, err := s.courses.GetCourse(ctx, courseID)
		if err != nil {
			return View{}, fmt.Errorf("open course %s: %w", courseID, err)
		}
		tree = payload.Denormalize(rec, s.money)
	}

	store := collapse.NewStore(tree.Course().ID)
	if s.collapseRepo != nil && store.Scope() != collapse.NewCourseScope {
		state, ok, err := s.collapseRepo.LoadCollapse(ctx, store.Scope())
		switch {
		case err != nil:
			s.log.Warn("load collapse state", err, map[string]interface{}{"scope": store.Scope()})
		case ok:
			store.Restore(state)
		}
	}
	store.Seed(append(tree.Paths(curriculum.LevelModule), tree.Paths(curriculum.LevelActivity)...))

	session := newSessionWithClock(s.newID(), tree, store, s.now)
	s.sessions.Put(session)
	s.log.Info("editor session opened", map[string]interface{}{"session": session.id, "course": courseID})
	return session.View(), nil
}

// Close persists the collapse state and forgets the session. Subscribers are closed.
func (s *EditorService) Close(ctx context.Context, sessionID string) error {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.ErrSessionNotFound
	}
	s.persistCollapse(ctx, session)
	session.closeSubscribers()
	s.sessions.Delete(sessionID)
	return nil
}

func (s *EditorService) persistCollapse(ctx context.Context, session *Session) {
	if s.collapseRepo == nil {
		return
	}
	scope := session.collapse.Scope()
	if scope == collapse.NewCourseScope {
		return
	}
	if err := s.collapseRepo.SaveCollapse(ctx, scope, session.collapse.Snapshot()); err != nil {
		s.log.Warn("save collapse state", err, map[string]interface{}{"scope": scope})
	}
}

// View returns the current state of a session.
func (s *EditorService) View(_ context.Context, sessionID string) (View, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return View{}, domain.ErrSessionNotFound
	}
	return session.View(), nil
}

// Subscribe returns a channel that receives state updates and notifications for a session.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *EditorService) Subscribe(_ context.Context, sessionID string) (<-chan Update, func(), error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, nil, domain.ErrSessionNotFound
	}
	ch, cancel := session.subscribe()
	return ch, cancel, nil
}

// mutate runs fn under the session lock. When fn reports a change the new state is published.
func (s *EditorService) mutate(sessionID string, fn func(*Session) bool) (View, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return View{}, domain.ErrSessionNotFound
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	if fn(session) {
		return session.publishLocked(), nil
	}
	return session.viewLocked(), nil
}
