package services

import (
	"context"
	"sync"
	"testing"

	"github.com/emlak-portal/dto"
	"github.com/emlak-portal/identity"
	"github.com/emlak-portal/models"
	"github.com/emlak-portal/notify"
	"github.com/emlak-portal/testutil"
	"github.com/emlak-portal/utils"
	"gorm.io/gorm"
)

// capturedEvents records published events instead of delivering them
type capturedEvents struct {
	mu     sync.Mutex
	events []notify.Event
	err    error
}

func (c *capturedEvents) Publish(event notify.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
	return c.err
}

func (c *capturedEvents) all() []notify.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]notify.Event(nil), c.events...)
}

// staticVerifier accepts exactly one token
type staticVerifier struct {
	token string
	id    identity.Identity
}

func (v staticVerifier) Verify(_ context.Context, token string) (identity.Identity, error) {
	if token == "" {
		return identity.Identity{}, identity.ErrMissingToken
	}
	if token != v.token {
		return identity.Identity{}, identity.ErrInvalidToken
	}
	return v.id, nil
}

func principalFor(t *testing.T, db *gorm.DB, office models.Office, role models.Role, slug string) *Principal {
	t.Helper()
	user, worker := testutil.CreateWorker(t, db, office, role, slug)
	return &Principal{User: user, Worker: &worker, Role: role.Slug}
}

func apartmentRequest(f *testutil.Fixtures) dto.PropertyRequest {
	return dto.PropertyRequest{
		Name:       "Moda'da 3+1 daire",
		Price:      utils.Ptr(25000.0),
		TypeID:     f.Residential.ID,
		SubTypeID:  f.Apartment.ID,
		ContractID: f.ForRent.ID,
		StatusID:   f.Empty.ID,
		Location: &dto.LocationInput{
			NeighborhoodID: f.Neighborhood.ID,
			Address:        "Moda Cd. No:1",
			Latitude:       utils.Ptr(40.9833),
			Longitude:      utils.Ptr(29.0297),
		},
		Feature: dto.PropertyFeatureInput{
			Bedrooms:  utils.Ptr(3),
			Bathrooms: utils.Ptr(1),
			Floor:     utils.Ptr(2),
		},
		Images: []dto.ImageInput{
			{URL: "https://cdn.example.com/b.jpg", Order: utils.Ptr(1)},
			{URL: "https://cdn.example.com/a.jpg", Order: utils.Ptr(0)},
			{URL: "https://cdn.example.com/c.jpg"},
		},
		DescriptorIDs: []string{f.Interior[0].ID},
	}
}
