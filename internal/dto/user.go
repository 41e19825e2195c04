package dto

import (
	"github.com/SscSPs/bizdesk/internal/core/domain"
)

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email,max=254"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest defines the data allowed for updating one's own profile.
type UpdateProfileRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

type GoogleExchangeRequest struct {
	Code string `json:"code" binding:"required"`
}

type TeamMemberRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email,max=254"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	Role     string `json:"role" binding:"required,oneof=MANAGER SALESPERSON FINANCE VIEWER RESTRICTED"`
}

type TeamRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=MANAGER SALESPERSON FINANCE VIEWER RESTRICTED"`
}

type UserResponse struct {
	UserID        string      `json:"userID"`
	Name          string      `json:"name"`
	Email         string      `json:"email"`
	Role          domain.Role `json:"role"`
	ParentAdminID *string     `json:"parentAdminID,omitempty"`
}

func ToUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		UserID:        user.UserID,
		Name:          user.Name,
		Email:         user.Email,
		Role:          user.Role,
		ParentAdminID: user.ParentAdminID,
	}
}

// ToUserListResponse converts a slice of domain.User to responses
func ToUserListResponse(users []domain.User) []UserResponse {
	out := make([]UserResponse, len(users))
	for i := range users {
		out[i] = ToUserResponse(&users[i])
	}
	return out
}

type IntegrationConfigResponse struct {
	Provider       domain.IntegrationProvider `json:"provider"`
	StoreID        string                     `json:"storeID"`
	SyncEnabled    bool                       `json:"syncEnabled"`
	HasAccessToken bool                       `json:"hasAccessToken"`
}

func ToIntegrationConfigResponse(cfg *domain.IntegrationConfig) IntegrationConfigResponse {
	return IntegrationConfigResponse{
		Provider:       cfg.Provider,
		StoreID:        cfg.StoreID,
		SyncEnabled:    cfg.SyncEnabled,
		HasAccessToken: cfg.AccessToken != "",
	}
}
