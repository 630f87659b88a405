package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/rakaputra/warungpos-backend/pkg/db/models"
	"github.com/rakaputra/warungpos-backend/pkg/enums"
)

// UserView is the API shape of an account. The password hash never leaves
// the service layer.
type UserView struct {
	ID        uuid.UUID      `json:"id"`
	Email     string         `json:"email"`
	FullName  string         `json:"full_name"`
	Role      enums.UserRole `json:"role"`
	IsActive  bool           `json:"is_active"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// LoginView carries the minted token alongside the account.
type LoginView struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      UserView  `json:"user"`
}

// NewUserView maps a user row onto its API shape.
func NewUserView(user *models.User) UserView {
	return UserView{
		ID:        user.ID,
		Email:     user.Email,
		FullName:  user.FullName,
		Role:      user.Role,
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

// NewUserViews maps a page of user rows.
func NewUserViews(rows []models.User) []UserView {
	views := make([]UserView, 0, len(rows))
	for i := range rows {
		views = append(views, NewUserView(&rows[i]))
	}
	return views
}

// NewLoginView maps a login result onto its API shape.
func NewLoginView(result *LoginResult) LoginView {
	return LoginView{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		User:      NewUserView(result.User),
	}
}
