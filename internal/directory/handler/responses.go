package handler

import (
	"time"

	"docroute/internal/directory/models"
)

// UserResponse is the user shape returned to clients. The stored password
// never crosses the HTTP boundary.
type UserResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	Division  string    `json:"division"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

func userView(u models.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Role:      string(u.Role),
		Division:  u.Division,
		Name:      u.Name,
		CreatedAt: u.CreatedAt,
	}
}

func userViews(users []models.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, userView(u))
	}
	return out
}
