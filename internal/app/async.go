package app

import (
	"context"
	"fmt"
	"io"
	"sync"

	"golang.org/x/sync/errgroup"

	"curriculum-editor/internal/curriculum"
	"curriculum-editor/internal/domain"
	"curriculum-editor/internal/payload"
)

// BankModules lists the catalog modules available for import.
func (s *EditorService) BankModules(ctx context.Context) ([]payload.ModuleRecord, error) {
	return s.bank.ListModules(ctx)
}

// BankActivities lists the catalog activities available for import.
func (s *EditorService) BankActivities(ctx context.Context) ([]payload.ActivityRecord, error) {
	return s.bank.ListActivities(ctx)
}

// ImportModule copies a catalog module to the end of the course. The catalog is read
// without holding the session lock.
func (s *EditorService) ImportModule(ctx context.Context, sessionID, bankID string) (View, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return View{}, domain.ErrSessionNotFound
	}

	rec, err := s.bank.GetModule(ctx, bankID)

	session.mu.Lock()
	defer session.mu.Unlock()
	if err != nil {
		s.log.Warn("import module", err, map[string]interface{}{"bankId": bankID})
		session.notifyLocked(domain.LevelWarning, "Could not import module", err.Error())
		return session.viewLocked(), fmt.Errorf("import module %s: %w", bankID, err)
	}
	session.tree.ImportModule(bankID, payload.DenormalizeModule(rec))
	return session.publishLocked(), nil
}

// ImportActivity copies a catalog activity into the module at index module. If that module is
// removed while the catalog is read, the result is dropped.
func (s *EditorService) ImportActivity(ctx context.Context, sessionID string, module int, bankID string) (View, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return View{}, domain.ErrSessionNotFound
	}

	session.mu.Lock()
	target, ok := session.tree.NodeAt(curriculum.ModulePath(module))
	session.mu.Unlock()
	if !ok {
		return session.View(), nil
	}

	rec, err := s.bank.GetActivity(ctx, bankID)

	session.mu.Lock()
	defer session.mu.Unlock()
	if err != nil {
		s.log.Warn("import activity", err, map[string]interface{}{"bankId": bankID})
		session.notifyLocked(domain.LevelWarning, "Could not import activity", err.Error())
		return session.viewLocked(), fmt.Errorf("import activity %s: %w", bankID, err)
	}
	p, ok := session.tree.Locate(target)
	if !ok {
		session.notifyLocked(domain.LevelWarning, "Import discarded", "the target module was removed")
		return session.viewLocked(), domain.ErrStaleResult
	}
	session.tree.ImportActivity(p[0], bankID, payload.DenormalizeActivity(rec))
	return session.publishLocked(), nil
}

// Upload stores a file and writes its URL into the course cover (empty path) or the file
// URL of the activity at p. The result is dropped if the target was edited or removed meanwhile.
func (s *EditorService) Upload(ctx context.Context, sessionID string, p curriculum.Path, name string, body io.Reader) (View, error) {
	if s.uploads == nil {
		return View{}, fmt.Errorf("%w: uploads", domain.ErrNotConfigured)
	}
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return View{}, domain.ErrSessionNotFound
	}
	if p.Level() != curriculum.LevelCourse && p.Level() != curriculum.LevelActivity {
		return session.View(), nil
	}

	session.mu.Lock()
	var target curriculum.NodeID
	if p.Level() == curriculum.LevelActivity {
		target, ok = session.tree.NodeAt(p)
		if !ok {
			session.mu.Unlock()
			return session.View(), nil
		}
	}
	rev, _ := session.tree.Revision(target)
	session.mu.Unlock()

	up, err := s.uploads.Upload(ctx, name, body)

	session.mu.Lock()
	defer session.mu.Unlock()
	if err != nil {
		s.log.Warn("upload", err, map[string]interface{}{"name": name})
		session.notifyLocked(domain.LevelWarning, "Upload failed", err.Error())
		return session.viewLocked(), fmt.Errorf("upload %s: %w", name, err)
	}
	if now, ok := session.tree.Revision(target); !ok || now != rev {
		session.notifyLocked(domain.LevelWarning, "Upload discarded", "the target changed while uploading")
		return session.viewLocked(), domain.ErrStaleResult
	}

	if target == "" {
		session.tree.UpdateCourse(func(c *curriculum.CourseFields) {
			c.Cover = curriculum.Cover{URL: up.URL, FileID: up.FileID, Title: up.Title}
		})
		session.clearFieldError(curriculum.Path{}, curriculum.FieldCoverURL)
	} else {
		at, _ := session.tree.Locate(target)
		session.tree.SetField(at, curriculum.FieldFileURL, up.URL)
		session.clearFieldError(at, curriculum.FieldFileURL)
	}
	return session.publishLocked(), nil
}

// videoTarget captures what a duration lookup was started for.
type videoTarget struct {
	node     curriculum.NodeID
	url      string
	duration int64
	unit     domain.DurationUnit
}

func (s *EditorService) videoTargetLocked(session *Session, p curriculum.Path) (videoTarget, bool) {
	if p.Level() != curriculum.LevelActivity {
		return videoTarget{}, false
	}
	a, ok := session.tree.Activity(p[0], p[1])
	if !ok || a.Type != domain.ActivityVideo || a.VideoURL == "" {
		return videoTarget{}, false
	}
	id, _ := session.tree.NodeAt(p)
	return videoTarget{node: id, url: a.VideoURL, duration: a.Duration, unit: a.DurationUnit}, true
}

// applyDurationLocked writes a looked-up duration if the activity still has the URL and
// duration it had when the lookup started. The activity unit is kept when the length divides evenly.
func (s *EditorService) applyDurationLocked(session *Session, target videoTarget, seconds int64) error {
	p, ok := session.tree.Locate(target.node)
	if !ok {
		return domain.ErrStaleResult
	}
	a, _ := session.tree.Activity(p[0], p[1])
	if a.Type != domain.ActivityVideo || a.VideoURL != target.url || a.Duration != target.duration || a.DurationUnit != target.unit {
		return domain.ErrStaleResult
	}
	amount, unit := seconds, domain.UnitSeconds
	if per := target.unit.Seconds(); target.unit.Valid() && seconds%per == 0 {
		amount, unit = seconds/per, target.unit
	}
	session.tree.UpdateActivity(p[0], p[1], func(f *curriculum.ActivityFields) {
		f.Duration = amount
		f.DurationUnit = unit
	})
	return nil
}

// RefreshVideoDuration looks up the length of the video activity at p. Failures leave the
// duration untouched and raise a notification.
func (s *EditorService) RefreshVideoDuration(ctx context.Context, sessionID string, p curriculum.Path) (View, error) {
	if s.videos == nil {
		return View{}, fmt.Errorf("%w: video lookup", domain.ErrNotConfigured)
	}
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return View{}, domain.ErrSessionNotFound
	}

	session.mu.Lock()
	target, ok := s.videoTargetLocked(session, p)
	session.mu.Unlock()
	if !ok {
		return session.View(), nil
	}

	seconds, err := s.videos.VideoDuration(ctx, target.url)

	session.mu.Lock()
	defer session.mu.Unlock()
	if err != nil {
		s.log.Warn("video duration lookup", err, map[string]interface{}{"url": target.url})
		session.notifyLocked(domain.LevelWarning, "Could not read the video duration", err.Error())
		return session.viewLocked(), fmt.Errorf("video duration %s: %w", target.url, err)
	}
	if err := s.applyDurationLocked(session, target, seconds); err != nil {
		session.notifyLocked(domain.LevelInfo, "Video duration discarded", "the activity changed during the lookup")
		return session.viewLocked(), err
	}
	return session.publishLocked(), nil
}

// RefreshVideoDurations looks up every video activity concurrently and applies what it can.
// It returns how many durations were updated; failures are reported in one notification.
func (s *EditorService) RefreshVideoDurations(ctx context.Context, sessionID string) (int, error) {
	if s.videos == nil {
		return 0, fmt.Errorf("%w: video lookup", domain.ErrNotConfigured)
	}
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return 0, domain.ErrSessionNotFound
	}

	session.mu.Lock()
	var targets []videoTarget
	for _, p := range session.tree.Paths(curriculum.LevelActivity) {
		if target, ok := s.videoTargetLocked(session, p); ok {
			targets = append(targets, target)
		}
	}
	session.mu.Unlock()

	results := make([]int64, len(targets))
	var (
		mu       sync.Mutex
		failures []string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.refreshLimit)
	for i, target := range targets {
		i, target := i, target
		g.Go(func() error {
			seconds, err := s.videos.VideoDuration(gctx, target.url)
			if err != nil {
				mu.Lock()
				failures = append(failures, fmt.Sprintf("%s: %v", target.url, err))
				mu.Unlock()
				results[i] = -1
				return nil
			}
			results[i] = seconds
			return nil
		})
	}
	_ = g.Wait()

	session.mu.Lock()
	defer session.mu.Unlock()
	updated := 0
	for i, target := range targets {
		if results[i] < 0 {
			continue
		}
		if err := s.applyDurationLocked(session, target, results[i]); err == nil {
			updated++
		}
	}
	if len(failures) > 0 {
		s.log.Warn("video duration refresh", map[string]interface{}{"failed": len(failures)})
		session.notifyLocked(domain.LevelWarning, "Some video durations could not be read", failures...)
	}
	if updated > 0 {
		session.publishLocked()
	}
	return updated, nil
}
