package model //import "github.com/litcircle/litcircle/model"

// Role is the type of a role.
type Role string

const (
	// RoleHost is the HOST role, granted to the first registered account.
	RoleHost Role = "HOST"
	// RoleAdmin is the ADMIN role, the staff flag of the service.
	RoleAdmin Role = "ADMIN"
	// RoleUser is the USER role.
	RoleUser Role = "USER"
)

func (e Role) String() string {
	switch e {
	case RoleHost:
		return "HOST"
	case RoleAdmin:
		return "ADMIN"
	case RoleUser:
		return "USER"
	}
	return "USER"
}

type User struct {
	ID int32 `json:"id"`

	RowStatus RowStatus `json:"row_status"`
	CreatedTs int64     `json:"created_ts"`
	UpdatedTs int64     `json:"updated_ts"`

	Username     string `json:"username"`
	Role         Role   `json:"role"`
	Email        string `json:"email"`
	Nickname     string `json:"nickname"`
	PasswordHash string `json:"password_hash"`
	Bio          string `json:"bio"`
	Location     string `json:"location"`
	Website      string `json:"website"`
	ImageURL     string `json:"image_url"`
	// ImageUpdatedTs is when the external profile image was last validated.
	ImageUpdatedTs int64 `json:"image_updated_ts"`
	LastLoginTs    int64 `json:"last_login_ts"`
}

type FindUser struct {
	ID        *int32     `json:"id"`
	RowStatus *RowStatus `json:"row_status"`
	Username  *string    `json:"username"`
	Role      *Role      `json:"role"`
	Email     *string    `json:"email"`

	// ExcludeRole filters out accounts holding the given role.
	ExcludeRole *Role

	// The maximum number of users to return.
	Limit *int
}

type UserRegisterRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
	Nickname        string `json:"nickname"`
}

type UserLoginRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	NeverExpire bool   `json:"never_expire"`
}

type UserUpdateRequest struct {
	Nickname *string `json:"nickname"`
	Bio      *string `json:"bio"`
	Location *string `json:"location"`
	Website  *string `json:"website"`
	ImageURL *string `json:"image_url"`
}

// AdminUserUpdateRequest toggles the staff flag of an account.
type AdminUserUpdateRequest struct {
	IsStaff bool `json:"is_staff"`
}

type Follow struct {
	ID          int32 `json:"id"`
	FollowerID  int32 `json:"follower_id"`
	FollowingID int32 `json:"following_id"`
	CreatedTs   int64 `json:"created_ts"`
}

type FindFollow struct {
	FollowerID  *int32
	FollowingID *int32
}
