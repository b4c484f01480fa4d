package services

import (
	"context"

	"github.com/emlak-portal/dto"
	"github.com/emlak-portal/repositories"
	"gorm.io/gorm"
)

// DashboardService gathers the counts shown on the admin landing page
type DashboardService struct {
	properties *repositories.PropertyRepository
	projects   *repositories.ProjectRepository
	users      *repositories.UserRepository
	leads      *LeadService
	reviews    *ReviewService
}

func NewDashboardService(db *gorm.DB, leads *LeadService, reviews *ReviewService) *DashboardService {
	return &DashboardService{
		properties: repositories.NewPropertyRepository(db),
		projects:   repositories.NewProjectRepository(db),
		users:      repositories.NewUserRepository(db),
		leads:      leads,
		reviews:    reviews,
	}
}

func (s *DashboardService) Stats(ctx context.Context) (dto.DashboardStats, error) {
	var (
		stats dto.DashboardStats
		err   error
	)
	if stats.Properties, err = s.properties.CountByStatus(ctx); err != nil {
		return stats, err
	}
	if stats.Projects, err = s.projects.Count(ctx); err != nil {
		return stats, err
	}
	if stats.Users, err = s.users.Count(ctx); err != nil {
		return stats, err
	}
	if stats.PendingContacts, err = s.leads.Contacts.CountPending(ctx); err != nil {
		return stats, err
	}
	if stats.PendingAgents, err = s.leads.Agents.CountPending(ctx); err != nil {
		return stats, err
	}
	if stats.PendingLeads, err = s.leads.Customers.CountPending(ctx); err != nil {
		return stats, err
	}
	if stats.PendingReviews, err = s.reviews.CountPending(ctx); err != nil {
		return stats, err
	}
	return stats, nil
}
