package tasks

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const TypePhotoCleanup = "photos:cleanup"

// PhotoCleanupPayload names the photos a discarded or trimmed draft left
// behind. URLs are carried explicitly so the handler never has to probe the
// stores for what belongs to a draft key.
type PhotoCleanupPayload struct {
	DraftKey string   `json:"draftKey"`
	URLs     []string `json:"urls"`
}

// NewPhotoCleanupTask builds the cleanup task with retry headroom; uploads
// that briefly outlive a Cloudinary hiccup still get removed.
func NewPhotoCleanupTask(payload PhotoCleanupPayload) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypePhotoCleanup, b)
	opts := []asynq.Option{asynq.MaxRetry(5)}
	return task, opts, nil
}

// Enqueuer submits cleanup tasks to the queue. It satisfies the workflow's
// CleanupQueue contract.
type Enqueuer struct {
	Client *asynq.Client
}

// NewEnqueuer wraps an asynq client.
func NewEnqueuer(client *asynq.Client) *Enqueuer {
	return &Enqueuer{Client: client}
}

// EnqueuePhotoCleanup schedules removal of the listed photo URLs.
func (e *Enqueuer) EnqueuePhotoCleanup(draftKey string, urls []string) error {
	if e.Client == nil {
		return fmt.Errorf("asynq client is nil, photo cleanup cannot be enqueued")
	}
	if len(urls) == 0 {
		return nil
	}
	task, opts, err := NewPhotoCleanupTask(PhotoCleanupPayload{DraftKey: draftKey, URLs: urls})
	if err != nil {
		return err
	}
	if _, err := e.Client.Enqueue(task, opts...); err != nil {
		return fmt.Errorf("failed to enqueue photo cleanup: %w", err)
	}
	return nil
}
