package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/litcircle/litcircle/config"
	"github.com/litcircle/litcircle/covers"
	"github.com/litcircle/litcircle/log"
	"github.com/litcircle/litcircle/store"
)

// CoverValidationPool fans cover validation jobs out to background workers.
type CoverValidationPool struct {
	queue chan CoverJob
}

func NewCoverValidationPool(store *store.Store, size int) *CoverValidationPool {
	pool := &CoverValidationPool{
		queue: make(chan CoverJob),
	}

	validator := covers.NewValidator()
	for i := 0; i < size; i++ {
		worker := &CoverWorker{id: i, store: store, validator: validator}
		go worker.Run(pool.queue)
	}

	return pool
}

func (p *CoverValidationPool) GetQueue() chan CoverJob {
	return p.queue
}

// Push implements the WorkPool interface.
func (p *CoverValidationPool) Push(job CoverJob) {
	p.queue <- job
}

type CoverWorker struct {
	id        int
	store     *store.Store
	validator *covers.Validator
}

// Run validates image URLs until the queue closes. A cover that never
// validates is replaced with the configured placeholder so clients are not
// left rendering broken links.
func (w *CoverWorker) Run(c <-chan CoverJob) {
	log.Debug("CoverWorker is running", zap.Int("worker_id", w.id))

	for job := range c {
		log.Debug("Job received by worker",
			zap.Int("worker_id", w.id),
			zap.Int32("book_id", job.BookID),
			zap.Int32("user_id", job.UserID),
			zap.String("image_url", job.ImageURL))

		err := w.validator.Validate(context.Background(), job.ImageURL)
		switch {
		case err == nil && job.BookID != 0:
			if err := w.store.StampBookImageValidated(job.BookID); err != nil {
				log.Error("Error stamping book image", zap.Error(err))
			}
		case err == nil && job.UserID != 0:
			if err := w.store.StampUserImageValidated(job.UserID); err != nil {
				log.Error("Error stamping user image", zap.Error(err))
			}
		case job.BookID != 0:
			log.Warn("Cover failed validation, using placeholder",
				zap.Int32("book_id", job.BookID),
				zap.String("image_url", job.ImageURL),
				zap.Error(err))
			if err := w.store.SetBookImageURL(job.BookID, config.Opts.CoverPlaceholderURL); err != nil {
				log.Error("Error setting placeholder cover", zap.Error(err))
			}
		default:
			log.Warn("Profile image failed validation",
				zap.Int32("user_id", job.UserID),
				zap.String("image_url", job.ImageURL),
				zap.Error(err))
		}
	}
}
