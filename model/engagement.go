package model

// Review rating bounds, inclusive.
const (
	MinRating = 1
	MaxRating = 5
)

type Review struct {
	ID        int32  `json:"id"`
	UserID    int32  `json:"user_id"`
	BookID    int32  `json:"book_id"`
	Rating    int    `json:"rating"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	IsSpoiler bool   `json:"is_spoiler"`
	// SessionID links the review to the reading session it came out of,
	// zero when the review was written outside any club.
	SessionID int32 `json:"session_id"`
	CreatedTs int64 `json:"created_ts"`
	UpdatedTs int64 `json:"updated_ts"`
}

type FindReview struct {
	ID        *int32
	UserID    *int32
	BookID    *int32
	SessionID *int32
	Offset    *int
	Limit     *int
}

type ReviewCreateRequest struct {
	BookID    int32  `json:"book_id"`
	Rating    int    `json:"rating"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	IsSpoiler bool   `json:"is_spoiler"`
	SessionID int32  `json:"session_id"`
}

type ReadingProgress struct {
	ID          int32  `json:"id"`
	UserID      int32  `json:"user_id"`
	BookID      int32  `json:"book_id"`
	SessionID   int32  `json:"session_id"`
	CurrentPage int    `json:"current_page"`
	IsFinished  bool   `json:"is_finished"`
	StartedTs   int64  `json:"started_ts"`
	FinishedTs  int64  `json:"finished_ts"`
	Notes       string `json:"notes"`
	UpdatedTs   int64  `json:"updated_ts"`
}

// ProgressPercentage is current_page over the book's page count, nil when
// the page count is unknown.
func (p *ReadingProgress) ProgressPercentage(pageCount int) *float64 {
	if pageCount <= 0 {
		return nil
	}
	pct := float64(p.CurrentPage) / float64(pageCount) * 100
	if pct > 100 {
		pct = 100
	}
	return &pct
}

type FindReadingProgress struct {
	UserID    *int32
	BookID    *int32
	SessionID *int32
}

type ProgressUpdateRequest struct {
	BookID      int32  `json:"book_id"`
	SessionID   int32  `json:"session_id"`
	CurrentPage *int   `json:"current_page"`
	IsFinished  *bool  `json:"is_finished"`
	Notes       string `json:"notes"`

	// PageCount is the book's page count, filled by the handler so finishing
	// a book can snap current_page to the end. Zero when unknown.
	PageCount int `json:"-"`
}

// DiscussionType partitions club discussions.
type DiscussionType string

const (
	DiscussionGeneral DiscussionType = "general"
	DiscussionChapter DiscussionType = "chapter"
	DiscussionReview  DiscussionType = "review"
	DiscussionMeeting DiscussionType = "meeting"
)

type Discussion struct {
	ID            int32          `json:"id"`
	ClubID        int32          `json:"club_id"`
	BookID        int32          `json:"book_id"`
	SessionID     int32          `json:"session_id"`
	AuthorID      int32          `json:"author_id"`
	Title         string         `json:"title"`
	Content       string         `json:"content"`
	Type          DiscussionType `json:"discussion_type"`
	ChapterNumber int            `json:"chapter_number"`
	IsPinned      bool           `json:"is_pinned"`
	IsSpoiler     bool           `json:"is_spoiler"`
	CreatedTs     int64          `json:"created_ts"`
	UpdatedTs     int64          `json:"updated_ts"`

	ReplyCount int `json:"reply_count"`
}

type FindDiscussion struct {
	ID        *int32
	ClubID    *int32
	BookID    *int32
	SessionID *int32
	AuthorID  *int32
	// CreatedAfter restricts to discussions newer than the given epoch.
	CreatedAfter *int64
	Offset       *int
	Limit        *int
}

type DiscussionCreateRequest struct {
	BookID        int32          `json:"book_id"`
	SessionID     int32          `json:"session_id"`
	Title         string         `json:"title"`
	Content       string         `json:"content"`
	Type          DiscussionType `json:"discussion_type"`
	ChapterNumber int            `json:"chapter_number"`
	IsSpoiler     bool           `json:"is_spoiler"`
}

type DiscussionReply struct {
	ID           int32  `json:"id"`
	DiscussionID int32  `json:"discussion_id"`
	AuthorID     int32  `json:"author_id"`
	Content      string `json:"content"`
	// ParentReplyID threads replies; zero means a top-level reply. The
	// back-reference does not own its parent, cascade runs from the
	// discussion down.
	ParentReplyID int32 `json:"parent_reply_id"`
	IsSpoiler     bool  `json:"is_spoiler"`
	CreatedTs     int64 `json:"created_ts"`
	UpdatedTs     int64 `json:"updated_ts"`
}

type FindDiscussionReply struct {
	DiscussionID  *int32
	ParentReplyID *int32
}

type ReplyCreateRequest struct {
	Content       string `json:"content"`
	ParentReplyID int32  `json:"parent_reply_id"`
	IsSpoiler     bool   `json:"is_spoiler"`
}

// RecommendationStatus is set by a moderator decision, never computed from
// the vote counters.
type RecommendationStatus string

const (
	RecommendationPending  RecommendationStatus = "pending"
	RecommendationApproved RecommendationStatus = "approved"
	RecommendationRejected RecommendationStatus = "rejected"
	RecommendationSelected RecommendationStatus = "selected"
)

type Recommendation struct {
	ID            int32                `json:"id"`
	ClubID        int32                `json:"club_id"`
	BookID        int32                `json:"book_id"`
	RecommendedBy int32                `json:"recommended_by"`
	Reason        string               `json:"reason"`
	Status        RecommendationStatus `json:"status"`
	VotesFor      int                  `json:"votes_for"`
	VotesAgainst  int                  `json:"votes_against"`
	CreatedTs     int64                `json:"created_ts"`
	UpdatedTs     int64                `json:"updated_ts"`
}

func (r *Recommendation) TotalVotes() int {
	return r.VotesFor + r.VotesAgainst
}

func (r *Recommendation) ApprovalRatio() float64 {
	total := r.TotalVotes()
	if total == 0 {
		return 0
	}
	return float64(r.VotesFor) / float64(total)
}

type FindRecommendation struct {
	ID     *int32
	ClubID *int32
	BookID *int32
	Status *RecommendationStatus
}

type RecommendationCreateRequest struct {
	BookID int32  `json:"book_id"`
	Reason string `json:"reason"`
}

type VoteRequest struct {
	// Vote is "for" or "against".
	Vote string `json:"vote"`
}

type RecommendationStatusRequest struct {
	Status RecommendationStatus `json:"status"`
}
