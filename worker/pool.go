package worker // import "github.com/litcircle/litcircle/worker"

// CoverJob asks a worker to validate one image URL.
type CoverJob struct {
	// BookID is set for book covers, UserID for profile images. Exactly one
	// of the two is non-zero.
	BookID   int32
	UserID   int32
	ImageURL string
}

// WorkPool is the queue surface handlers push jobs onto.
type WorkPool interface {
	Push(job CoverJob)
}
