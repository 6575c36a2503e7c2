package response

import (
	"github.com/litcircle/litcircle/model"
)

// UserResponse strips the credential fields before a user record leaves the
// service.
func UserResponse(user *model.User) *model.User {
	return &model.User{
		ID:          user.ID,
		RowStatus:   user.RowStatus,
		CreatedTs:   user.CreatedTs,
		Username:    user.Username,
		Role:        user.Role,
		Email:       user.Email,
		Nickname:    user.Nickname,
		Bio:         user.Bio,
		Location:    user.Location,
		Website:     user.Website,
		ImageURL:    user.ImageURL,
		LastLoginTs: user.LastLoginTs,
	}
}

func UserListResponse(users []*model.User) []*model.User {
	response := make([]*model.User, 0, len(users))
	for _, user := range users {
		response = append(response, UserResponse(user))
	}
	return response
}
