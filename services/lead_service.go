package services

import (
	"context"

	"github.com/emlak-portal/apperr"
	"github.com/emlak-portal/dto"
	"github.com/emlak-portal/models"
	"github.com/emlak-portal/repositories"
	"github.com/emlak-portal/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const leadStatusMessage = "must be one of PENDING, PROCESSED, REJECTED"

// LeadBook is the admin side of one lead table
type LeadBook[T repositories.LeadRow] struct {
	repo *repositories.LeadRepository[T]
	log  *zap.Logger
}

func newLeadBook[T repositories.LeadRow](repo *repositories.LeadRepository[T], log *zap.Logger) *LeadBook[T] {
	return &LeadBook[T]{repo: repo, log: log}
}

func parseLeadStatus(field, s string, required bool) (models.LeadStatus, error) {
	if s == "" && !required {
		return "", nil
	}
	status := models.LeadStatus(s)
	if !status.Valid() {
		return "", apperr.Validation(map[string]string{field: leadStatusMessage})
	}
	return status, nil
}

// List returns leads newest first, optionally for one status
func (b *LeadBook[T]) List(ctx context.Context, q dto.LeadQuery) (dto.ListResponse[T], error) {
	status, err := parseLeadStatus("status", q.Status, false)
	if err != nil {
		return dto.ListResponse[T]{}, err
	}
	page := pageOf(q.PageQuery)
	rows, total, err := b.repo.List(ctx, status, page)
	if err != nil {
		return dto.ListResponse[T]{}, err
	}
	return dto.NewListResponse(rows, total, page.Number, page.Size), nil
}

func (b *LeadBook[T]) Get(ctx context.Context, id string) (T, error) {
	return b.repo.FindByID(ctx, id)
}

// SetStatus allows any transition between lead statuses.
func (b *LeadBook[T]) SetStatus(ctx context.Context, id, status string) (T, error) {
	next, err := parseLeadStatus("status", status, true)
	if err != nil {
		var zero T
		return zero, err
	}
	if err := b.repo.UpdateStatus(ctx, id, next); err != nil {
		var zero T
		return zero, err
	}
	b.log.Info("lead status changed",
		zap.String("entity", b.repo.Entity()),
		zap.String("id", id),
		zap.String("status", string(next)),
	)
	return b.repo.FindByID(ctx, id)
}

func (b *LeadBook[T]) Delete(ctx context.Context, id string) error {
	return b.repo.Delete(ctx, id)
}

func (b *LeadBook[T]) CountPending(ctx context.Context) (int64, error) {
	return b.repo.CountByStatus(ctx, models.LeadPending)
}

// LeadService accepts public inquiries and exposes one LeadBook per table
type LeadService struct {
	Contacts  *LeadBook[models.ContactForm]
	Agents    *LeadBook[models.ProspectAgent]
	Customers *LeadBook[models.ProspectCustomer]

	properties *repositories.PropertyRepository
	log        *zap.Logger
}

func NewLeadService(db *gorm.DB, log *zap.Logger) *LeadService {
	log = log.Named("leads")
	return &LeadService{
		Contacts:   newLeadBook(repositories.NewContactFormRepository(db), log),
		Agents:     newLeadBook(repositories.NewProspectAgentRepository(db), log),
		Customers:  newLeadBook(repositories.NewProspectCustomerRepository(db), log),
		properties: repositories.NewPropertyRepository(db),
		log:        log,
	}
}

func (s *LeadService) SubmitContact(ctx context.Context, req dto.ContactFormRequest) (models.ContactForm, error) {
	form := models.ContactForm{
		Name:    utils.SanitizePlainText(req.Name),
		Email:   req.Email,
		Phone:   utils.SanitizePlainText(req.Phone),
		Subject: utils.SanitizePlainText(req.Subject),
		Message: utils.SanitizePlainText(req.Message),
		Status:  models.LeadPending,
	}
	if err := s.Contacts.repo.Create(ctx, &form); err != nil {
		return models.ContactForm{}, err
	}
	s.log.Info("contact form received", zap.String("id", form.ID))
	return form, nil
}

func (s *LeadService) SubmitProspectAgent(ctx context.Context, req dto.ProspectAgentRequest) (models.ProspectAgent, error) {
	prospect := models.ProspectAgent{
		FirstName: utils.SanitizePlainText(req.FirstName),
		LastName:  utils.SanitizePlainText(req.LastName),
		Email:     req.Email,
		Phone:     utils.SanitizePlainText(req.Phone),
		City:      utils.SanitizePlainText(req.City),
		Message:   utils.SanitizePlainText(req.Message),
		Status:    models.LeadPending,
	}
	if err := s.Agents.repo.Create(ctx, &prospect); err != nil {
		return models.ProspectAgent{}, err
	}
	s.log.Info("agent application received", zap.String("id", prospect.ID))
	return prospect, nil
}

// SubmitProspectCustomer records an inquiry. A referenced listing must be
// published.
func (s *LeadService) SubmitProspectCustomer(ctx context.Context, req dto.ProspectCustomerRequest) (models.ProspectCustomer, error) {
	if req.PropertyID != "" {
		property, err := s.properties.FindByID(ctx, req.PropertyID)
		if apperr.Is(err, apperr.KindNotFound) || (err == nil && property.PublishingStatus != models.StatusPublished) {
			return models.ProspectCustomer{}, apperr.Validation(map[string]string{"propertyId": "does not exist"})
		}
		if err != nil {
			return models.ProspectCustomer{}, err
		}
	}
	prospect := models.ProspectCustomer{
		Name:       utils.SanitizePlainText(req.Name),
		Email:      req.Email,
		Phone:      utils.SanitizePlainText(req.Phone),
		PropertyID: utils.NilIfEmpty(req.PropertyID),
		Message:    utils.SanitizePlainText(req.Message),
		Status:     models.LeadPending,
	}
	if err := s.Customers.repo.Create(ctx, &prospect); err != nil {
		return models.ProspectCustomer{}, err
	}
	s.log.Info("customer inquiry received", zap.String("id", prospect.ID))
	return prospect, nil
}
