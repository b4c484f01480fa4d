package dto

import "github.com/emlak-portal/models"

type OrganizationRequest struct {
	Name string `json:"name" binding:"required,max=200"`
	Slug string `json:"slug" binding:"omitempty,max=200"`
}

type OfficeRequest struct {
	Name           string `json:"name" binding:"required,max=200"`
	Slug           string `json:"slug" binding:"omitempty,max=200"`
	OrganizationID string `json:"organizationId" binding:"required"`
	Phone          string `json:"phone" binding:"omitempty,max=40"`
	Email          string `json:"email" binding:"omitempty,email"`
	Address        string `json:"address" binding:"omitempty,max=500"`
	NeighborhoodID string `json:"neighborhoodId"`
}

// OfficeWorkerRequest creates a worker, or updates one when ID is set
type OfficeWorkerRequest struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName" binding:"required,max=100"`
	LastName  string `json:"lastName" binding:"required,max=100"`
	Slug      string `json:"slug" binding:"omitempty,max=200"`
	Email     string `json:"email" binding:"omitempty,email"`
	Phone     string `json:"phone" binding:"omitempty,max=40"`
	Title     string `json:"title" binding:"omitempty,max=100"`
	OfficeID  string `json:"officeId" binding:"required"`
	RoleID    string `json:"roleId" binding:"required"`
	UserID    string `json:"userId"`
}

type RoleRequest struct {
	Name string `json:"name" binding:"required,max=100"`
	Slug string `json:"slug" binding:"required"`
}

// CurrentUserResponse is served at /api/user/current. Both fields are null
// without a session.
type CurrentUserResponse struct {
	User *models.User     `json:"user"`
	Role *models.RoleSlug `json:"role"`
}

// DashboardStats feeds the admin landing page
type DashboardStats struct {
	Properties      map[models.PublishingStatus]int64 `json:"properties"`
	Projects        int64                             `json:"projects"`
	Users           int64                             `json:"users"`
	PendingContacts int64                             `json:"pendingContacts"`
	PendingAgents   int64                             `json:"pendingAgents"`
	PendingLeads    int64                             `json:"pendingLeads"`
	PendingReviews  int64                             `json:"pendingReviews"`
}
