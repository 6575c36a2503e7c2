package model

// MembershipRole is a user's role inside one club, unrelated to the
// service-wide account Role.
type MembershipRole string

const (
	MembershipRoleMember    MembershipRole = "member"
	MembershipRoleModerator MembershipRole = "moderator"
	MembershipRoleAdmin     MembershipRole = "admin"
)

const (
	// MinClubMembers is the smallest allowed capacity: the creator plus one.
	MinClubMembers = 2
	// MaxClubMembers caps the capacity of any club.
	MaxClubMembers = 1000
	// DefaultClubMembers is the capacity used when a request omits it.
	DefaultClubMembers = 50
)

type Club struct {
	ID               int32  `json:"id"`
	Name             string `json:"name"`
	Description      string `json:"description"`
	CreatorID        int32  `json:"creator_id"`
	Category         string `json:"category"`
	IsPrivate        bool   `json:"is_private"`
	MaxMembers       int    `json:"max_members"`
	Location         string `json:"location"`
	MeetingFrequency string `json:"meeting_frequency"`
	ImageURL         string `json:"image_url"`
	ImageUpdatedTs   int64  `json:"image_updated_ts"`
	ExternalID       string `json:"external_id"`
	Source           Source `json:"source"`
	CreatedTs        int64  `json:"created_ts"`
	UpdatedTs        int64  `json:"updated_ts"`

	// MemberCount is the number of active memberships, filled on read.
	MemberCount int `json:"member_count"`
}

type FindClub struct {
	ID         *int32
	Name       *string
	CreatorID  *int32
	IsPrivate  *bool
	ExternalID *string
	Source     *Source

	// Search matches against name, description and location.
	Search *string

	// VisibleTo applies the privacy predicate for the given user: public
	// clubs, clubs the user created, clubs the user actively belongs to.
	// Anonymous callers should filter on IsPrivate instead.
	VisibleTo *int32

	// MemberID restricts to clubs the given user actively belongs to.
	MemberID *int32

	OrderBy *string
	Offset  *int
	Limit   *int
}

type ClubCreateRequest struct {
	Name             string `json:"name"`
	Description      string `json:"description"`
	Category         string `json:"category"`
	IsPrivate        bool   `json:"is_private"`
	MaxMembers       int    `json:"max_members"`
	Location         string `json:"location"`
	MeetingFrequency string `json:"meeting_frequency"`
	ImageURL         string `json:"image_url"`
}

type ClubUpdateRequest struct {
	Name             *string `json:"name"`
	Description      *string `json:"description"`
	Category         *string `json:"category"`
	IsPrivate        *bool   `json:"is_private"`
	MaxMembers       *int    `json:"max_members"`
	Location         *string `json:"location"`
	MeetingFrequency *string `json:"meeting_frequency"`
	ImageURL         *string `json:"image_url"`
}

type Membership struct {
	ID       int32          `json:"id"`
	UserID   int32          `json:"user_id"`
	ClubID   int32          `json:"club_id"`
	Role     MembershipRole `json:"role"`
	IsActive bool           `json:"is_active"`
	JoinedTs int64          `json:"joined_ts"`
}

type FindMembership struct {
	ID     *int32
	UserID *int32
	ClubID *int32
	Role   *MembershipRole
	// ActiveOnly skips soft-deactivated rows.
	ActiveOnly bool
}

type ClubInviteRequest struct {
	Email   string `json:"email"`
	Message string `json:"message"`
}

// ClubInviteResult is notification-only: no membership is created and the
// invitee still has to join on their own.
type ClubInviteResult struct {
	Message   string `json:"message"`
	Club      string `json:"book_club"`
	InvitedBy string `json:"invited_by"`
}

type MyMembershipsResult struct {
	Count       int           `json:"count"`
	Memberships []*Membership `json:"memberships"`
}

type MyClubsResult struct {
	CreatedCount int     `json:"created_count"`
	MemberCount  int     `json:"member_count"`
	TotalCount   int     `json:"total_count"`
	Clubs        []*Club `json:"clubs"`
}

type ClubActivity struct {
	NewDiscussions int    `json:"new_discussions"`
	NewReviews     int    `json:"new_reviews"`
	Period         string `json:"period"`
}

type ClubStats struct {
	ID                int32         `json:"id"`
	Name              string        `json:"name"`
	Description       string        `json:"description"`
	Creator           *User         `json:"creator"`
	MemberCount       int           `json:"member_count"`
	CurrentBook       *Book         `json:"current_book"`
	TotalBooksRead    int           `json:"total_books_read"`
	ActiveDiscussions int           `json:"active_discussions"`
	RecentActivity    *ClubActivity `json:"recent_activity"`
	CreatedTs         int64         `json:"created_ts"`
}

type ClubDiscoveryResult struct {
	Featured         []*Club `json:"featured"`
	Recent           []*Club `json:"recent"`
	Popular          []*Club `json:"popular"`
	TotalPublicClubs int     `json:"total_public_clubs"`
}
