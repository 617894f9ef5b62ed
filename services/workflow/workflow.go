package workflow

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	carRepo "avtorent/database/repository/car"
	categoryRepo "avtorent/database/repository/category"
	"avtorent/services/storage"
)

// CleanupQueue schedules background removal of photos that no persisted car
// references. A nil queue disables cleanup (photos are simply left behind).
type CleanupQueue interface {
	EnqueuePhotoCleanup(draftKey string, urls []string) error
}

// Workflow drives the guided car-entry conversation. It is transport
// independent: the bot adapter feeds it Events and renders its Replies.
type Workflow struct {
	Categories categoryRepo.CategoryRepository
	Cars       carRepo.CarRepository
	Photos     storage.PhotoStore
	Sessions   SessionStore
	Cleanup    CleanupQueue
	Logger     *zap.Logger

	now func() time.Time

	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

// NewWorkflow wires the car-entry workflow from its collaborators.
func NewWorkflow(categories categoryRepo.CategoryRepository, cars carRepo.CarRepository, photos storage.PhotoStore, sessions SessionStore, cleanup CleanupQueue, logger *zap.Logger) *Workflow {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Workflow{
		Categories: categories,
		Cars:       cars,
		Photos:     photos,
		Sessions:   sessions,
		Cleanup:    cleanup,
		Logger:     logger,
		now:        time.Now,
		locks:      make(map[int64]*sync.Mutex),
	}
}

// lockFor returns the per-administrator mutex, creating it on first use.
// Events for one administrator are serialized; different administrators
// proceed concurrently.
func (w *Workflow) lockFor(adminID int64) *sync.Mutex {
	w.mu.Lock()
	defer w.mu.Unlock()
	l, ok := w.locks[adminID]
	if !ok {
		l = &sync.Mutex{}
		w.locks[adminID] = l
	}
	return l
}

// Start begins a new car entry, replacing any unfinished session. Photos
// already uploaded for the replaced draft are queued for cleanup.
func (w *Workflow) Start(ctx context.Context, adminID int64) (Reply, error) {
	l := w.lockFor(adminID)
	l.Lock()
	defer l.Unlock()

	if prev, err := w.Sessions.Get(ctx, adminID); err == nil && prev != nil {
		w.enqueueCleanup(prev.DraftKey, prev.Draft.PhotoURLs())
	}

	now := w.now().UTC()
	sess := &Session{
		AdminID:   adminID,
		DraftKey:  "cars/draft_" + uuid.NewString(),
		State:     StateBrand,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := w.Sessions.Put(ctx, sess); err != nil {
		return Reply{}, &UpstreamError{Op: "store session", Err: err}
	}
	return Reply{Text: msgStart}, nil
}

// HandleEvent advances the administrator's session by one event. Input
// validation failures re-prompt in place; conflicts and upstream faults
// terminate the run, discard the session and queue photo cleanup. The error
// return reports infrastructure trouble only; the replies always carry the
// message the administrator should see.
func (w *Workflow) HandleEvent(ctx context.Context, adminID int64, ev Event) ([]Reply, error) {
	l := w.lockFor(adminID)
	l.Lock()
	defer l.Unlock()

	sess, err := w.Sessions.Get(ctx, adminID)
	if err != nil {
		return []Reply{{Text: msgSystemFault}}, &UpstreamError{Op: "load session", Err: err}
	}
	if sess == nil {
		return []Reply{{Text: msgNoSession}}, nil
	}

	replies, done, err := w.advance(ctx, sess, ev)
	if err != nil {
		// Terminal: discard the session and release its photos.
		w.discard(ctx, sess)
		if IsConflict(err) {
			w.Logger.Warn("car entry aborted",
				zap.Int64("adminID", adminID),
				zap.String("state", sess.State.String()),
				zap.Error(err))
			return []Reply{{Text: err.Error()}}, nil
		}
		w.Logger.Error("car entry failed",
			zap.Int64("adminID", adminID),
			zap.String("state", sess.State.String()),
			zap.Error(err))
		return []Reply{{Text: msgSystemFault}}, err
	}

	if done {
		if err := w.Sessions.Delete(ctx, adminID); err != nil {
			w.Logger.Warn("session delete failed", zap.Int64("adminID", adminID), zap.Error(err))
		}
		return replies, nil
	}

	sess.UpdatedAt = w.now().UTC()
	if err := w.Sessions.Put(ctx, sess); err != nil {
		w.discard(ctx, sess)
		return []Reply{{Text: msgSystemFault}}, &UpstreamError{Op: "store session", Err: err}
	}
	return replies, nil
}

// Cancel discards the administrator's session regardless of state and queues
// cleanup for any photos the draft already uploaded.
func (w *Workflow) Cancel(ctx context.Context, adminID int64) (Reply, error) {
	l := w.lockFor(adminID)
	l.Lock()
	defer l.Unlock()

	sess, err := w.Sessions.Get(ctx, adminID)
	if err != nil {
		return Reply{Text: msgSystemFault}, &UpstreamError{Op: "load session", Err: err}
	}
	if sess == nil {
		return Reply{Text: msgNoSession}, nil
	}
	w.discard(ctx, sess)
	return Reply{Text: msgCancelled}, nil
}

// Active reports whether the administrator has an entry in progress.
func (w *Workflow) Active(ctx context.Context, adminID int64) (bool, error) {
	sess, err := w.Sessions.Get(ctx, adminID)
	if err != nil {
		return false, err
	}
	return sess != nil, nil
}

func (w *Workflow) discard(ctx context.Context, sess *Session) {
	w.enqueueCleanup(sess.DraftKey, sess.Draft.PhotoURLs())
	if err := w.Sessions.Delete(ctx, sess.AdminID); err != nil {
		w.Logger.Warn("session delete failed", zap.Int64("adminID", sess.AdminID), zap.Error(err))
	}
}

func (w *Workflow) enqueueCleanup(draftKey string, urls []string) {
	if w.Cleanup == nil || len(urls) == 0 {
		return
	}
	if err := w.Cleanup.EnqueuePhotoCleanup(draftKey, urls); err != nil {
		w.Logger.Warn("photo cleanup enqueue failed",
			zap.String("draftKey", draftKey),
			zap.Int("photos", len(urls)),
			zap.Error(err))
	}
}

func (w *Workflow) logError(msg string, err error) {
	w.Logger.Error(msg, zap.Error(err))
}
