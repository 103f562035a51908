package services

import (
	"context"
	"errors"
	"sync"

	"imageworld/config"
	"imageworld/internal/gallery"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

// SaveJob persists one generated image on the caller's behalf.
type SaveJob struct {
	JobID  string
	HubKey string
	Input  gallery.SaveInput
}

var (
	ErrSaveQueueShuttingDown = errors.New("save queue shutting down")
	ErrSaveQueueFull         = errors.New("save queue full")
)

type SaveQueue struct {
	hub   *Hub
	posts PostSaver

	queue chan SaveJob
	group errgroup.Group
	done  chan struct{}

	mu      sync.RWMutex
	closing bool
	started bool

	// ctx outlives the caller's context so accepted jobs finish during shutdown.
	ctx    context.Context
	cancel context.CancelFunc
	logger *log.Logger
}

func NewSaveQueue(ctx context.Context, hub *Hub, posts PostSaver, cfg config.GalleryConfig) *SaveQueue {
	size := cfg.QueueSize
	if size <= 0 {
		size = 64
	}
	qctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	q := &SaveQueue{
		hub:    hub,
		posts:  posts,
		queue:  make(chan SaveJob, size),
		done:   make(chan struct{}),
		ctx:    qctx,
		cancel: cancel,
		logger: log.With("component", "save-queue"),
	}
	if cfg.MaxConcurrent > 0 {
		q.group.SetLimit(cfg.MaxConcurrent)
	}
	return q
}

func (q *SaveQueue) Run() {
	q.mu.Lock()
	if q.started {
		q.mu.Unlock()
		return
	}
	q.started = true
	q.mu.Unlock()

	go func() {
		defer close(q.done)
		// runs until Shutdown closes the queue
		for job := range q.queue {
			q.group.Go(func() error {
				q.runJob(job)
				return nil
			})
		}
	}()
}

// Enqueue never blocks; a full queue is reported to the caller.
func (q *SaveQueue) Enqueue(job SaveJob) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closing {
		return ErrSaveQueueShuttingDown
	}
	select {
	case q.queue <- job:
		return nil
	default:
		return ErrSaveQueueFull
	}
}

func (q *SaveQueue) Shutdown() {
	q.mu.Lock()
	if !q.closing {
		q.closing = true
		close(q.queue)
	}
	started := q.started
	q.mu.Unlock()

	if started {
		<-q.done
	}
	_ = q.group.Wait()
	q.cancel()
}

// Result delivery is best effort: a client that is not connected misses it.
func (q *SaveQueue) runJob(job SaveJob) {
	post, err := q.posts.Save(q.ctx, job.Input)
	if err != nil {
		q.logger.Error("save failed", "job", job.JobID, "owner", job.Input.Owner.UserID, "err", err)
		q.hub.SendTo(job.HubKey, WSEvent{
			Type:    EventGalleryFailed,
			JobID:   job.JobID,
			Message: saveFailedMessage,
		})
		return
	}

	q.logger.Info("saved", "job", job.JobID, "post", post.ID)
	q.hub.SendTo(job.HubKey, WSEvent{
		Type:     EventGallerySaved,
		JobID:    job.JobID,
		PostID:   post.ID,
		ImageUrl: post.ImageURL,
	})
}
