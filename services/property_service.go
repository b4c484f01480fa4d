package services

import (
	"context"
	"errors"
	"time"

	"github.com/emlak-portal/apperr"
	"github.com/emlak-portal/dto"
	"github.com/emlak-portal/models"
	"github.com/emlak-portal/notify"
	"github.com/emlak-portal/repositories"
	"github.com/emlak-portal/utils"
	"github.com/emlak-portal/validation"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultCurrency = "TRY"

// PropertyService writes and reads the listing aggregate. A listing and
// everything it owns is written in one transaction; change events go out
// only after that transaction commits.
type PropertyService struct {
	db           *gorm.DB
	properties   *repositories.PropertyRepository
	taxonomy     *repositories.TaxonomyRepository
	contracts    *repositories.LookupRepository[models.PropertyContract]
	statuses     *repositories.LookupRepository[models.PropertyStatus]
	deedStatuses *repositories.LookupRepository[models.PropertyDeedStatus]
	locations    *repositories.LocationRepository
	offices      *repositories.OfficeRepository
	workers      *repositories.OfficeWorkerRepository
	validate     *validator.Validate
	notifier     Notifier
	log          *zap.Logger
}

func NewPropertyService(db *gorm.DB, notifier Notifier, log *zap.Logger) *PropertyService {
	return &PropertyService{
		db:           db,
		properties:   repositories.NewPropertyRepository(db),
		taxonomy:     repositories.NewTaxonomyRepository(db),
		contracts:    repositories.NewContractRepository(db),
		statuses:     repositories.NewStatusRepository(db),
		deedStatuses: repositories.NewDeedStatusRepository(db),
		locations:    repositories.NewLocationRepository(db),
		offices:      repositories.NewOfficeRepository(db),
		workers:      repositories.NewOfficeWorkerRepository(db),
		validate:     validation.New(),
		notifier:     orDiscard(notifier),
		log:          log.Named("properties"),
	}
}

// GetPublished returns a listing visible to the public site
func (s *PropertyService) GetPublished(ctx context.Context, id string) (models.Property, error) {
	property, err := s.properties.FindByID(ctx, id)
	if err != nil {
		return property, err
	}
	if property.PublishingStatus != models.StatusPublished {
		return models.Property{}, apperr.NotFound("property")
	}
	return property, nil
}

// ListPublished is the public search. Any status in the query is ignored.
func (s *PropertyService) ListPublished(ctx context.Context, q dto.PropertyQuery) (dto.ListResponse[models.Property], error) {
	filter := propertyFilter(q)
	filter.PublishingStatus = models.StatusPublished
	filter.OfficeID = q.OfficeID
	return s.list(ctx, filter)
}

// List returns the listings the principal may manage. Agents see their own,
// office admins their office's and site admins everything.
func (s *PropertyService) List(ctx context.Context, p *Principal, q dto.PropertyQuery) (dto.ListResponse[models.Property], error) {
	filter := propertyFilter(q)
	if q.Status != "" {
		status := models.PublishingStatus(q.Status)
		if !status.Valid() {
			return dto.ListResponse[models.Property]{}, apperr.Validation(map[string]string{"status": "must be one of PENDING, PUBLISHED, REJECTED"})
		}
		filter.PublishingStatus = status
	}

	switch {
	case p.IsSiteAdmin():
		filter.OfficeID = q.OfficeID
	case p.HasRole(models.RoleOfficeAdmin):
		filter.OfficeID = p.OfficeID()
	case p.HasRole(models.RoleAgent):
		filter.AgentID = p.WorkerID()
	default:
		return dto.ListResponse[models.Property]{}, apperr.Forbidden("no role grants access to listings")
	}
	return s.list(ctx, filter)
}

func (s *PropertyService) list(ctx context.Context, filter repositories.PropertyFilter) (dto.ListResponse[models.Property], error) {
	if filter.GeohashPrefix != "" && !utils.IsGeohashPrefix(filter.GeohashPrefix) {
		return dto.ListResponse[models.Property]{}, apperr.Validation(map[string]string{"geohash": "must be a geohash prefix"})
	}
	properties, total, err := s.properties.FindWithPagination(ctx, filter)
	if err != nil {
		return dto.ListResponse[models.Property]{}, err
	}
	return dto.NewListResponse(properties, total, filter.Page.Number, filter.Page.Size), nil
}

func propertyFilter(q dto.PropertyQuery) repositories.PropertyFilter {
	return repositories.PropertyFilter{
		TypeID:        q.TypeID,
		SubTypeID:     q.SubTypeID,
		ContractID:    q.ContractID,
		CityID:        q.CityID,
		DistrictID:    q.DistrictID,
		GeohashPrefix: q.Geohash,
		MinPrice:      q.MinPrice,
		MaxPrice:      q.MaxPrice,
		Search:        q.Search,
		SortBy:        q.SortBy,
		SortOrder:     q.SortOrder,
		Page:          pageOf(q.PageQuery),
	}
}

// Get returns a listing the principal may manage
func (s *PropertyService) Get(ctx context.Context, p *Principal, id string) (models.Property, error) {
	property, err := s.properties.FindByID(ctx, id)
	if err != nil {
		return property, err
	}
	if err := canManage(p, property); err != nil {
		return models.Property{}, err
	}
	return property, nil
}

// canManage enforces listing ownership for writes and portal reads
func canManage(p *Principal, property models.Property) error {
	switch {
	case p.IsSiteAdmin():
		return nil
	case p.HasRole(models.RoleOfficeAdmin) && property.OfficeID == p.OfficeID():
		return nil
	case p.HasRole(models.RoleAgent) && property.AgentID != nil && *property.AgentID == p.WorkerID():
		return nil
	}
	return apperr.Forbidden("you cannot manage this property")
}

// Create validates the request and writes a new pending listing.
func (s *PropertyService) Create(ctx context.Context, p *Principal, req dto.PropertyRequest) (models.Property, error) {
	property := models.Property{PublishingStatus: models.StatusPending}
	if err := s.assemble(ctx, p, req, &property); err != nil {
		return models.Property{}, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.properties.WithTx(tx).Create(ctx, &property)
	})
	if err != nil {
		return models.Property{}, err
	}

	s.log.Info("property created",
		zap.String("id", property.ID),
		zap.String("slug", property.Slug),
		zap.String("office_id", property.OfficeID),
	)
	return s.properties.FindByID(ctx, property.ID)
}

// Update replaces a listing's columns and owned rows. The publishing status
// and creation time are kept.
func (s *PropertyService) Update(ctx context.Context, p *Principal, id string, req dto.PropertyRequest) (models.Property, error) {
	existing, err := s.properties.FindByID(ctx, id)
	if err != nil {
		return models.Property{}, err
	}
	if err := canManage(p, existing); err != nil {
		return models.Property{}, err
	}

	property := models.Property{
		ID:               existing.ID,
		Slug:             existing.Slug,
		PublishingStatus: existing.PublishingStatus,
		CreatedAt:        existing.CreatedAt,
		OfficeID:         existing.OfficeID,
		OrganizationID:   existing.OrganizationID,
		AgentID:          existing.AgentID,
	}
	if err := s.assemble(ctx, p, req, &property); err != nil {
		return models.Property{}, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.properties.WithTx(tx).Replace(ctx, &property)
	})
	if err != nil {
		return models.Property{}, err
	}

	s.log.Info("property updated", zap.String("id", property.ID))
	return s.properties.FindByID(ctx, property.ID)
}

// SetPublishingStatus moves a listing to any publishing status. The change
// is announced after commit; delivery failures never undo it.
func (s *PropertyService) SetPublishingStatus(ctx context.Context, id, status string) (models.Property, error) {
	next := models.PublishingStatus(status)
	if !next.Valid() {
		return models.Property{}, apperr.Validation(map[string]string{
			"publishingStatus": "must be one of PENDING, PUBLISHED, REJECTED",
		})
	}
	if err := s.properties.UpdatePublishingStatus(ctx, id, next); err != nil {
		return models.Property{}, err
	}

	property, err := s.properties.FindByID(ctx, id)
	if err != nil {
		return models.Property{}, err
	}
	s.log.Info("property publishing status changed",
		zap.String("id", id),
		zap.String("status", string(next)),
	)
	s.publish(notify.Event{
		Kind:       notify.PublishingChanged,
		EntityType: notify.EntityProperty,
		ID:         property.ID,
		Slug:       property.Slug,
		Status:     string(next),
		Public:     next == models.StatusPublished,
		Document:   NewPropertyDocument(property),
	})
	return property, nil
}

// Delete removes a listing and everything it owns.
func (s *PropertyService) Delete(ctx context.Context, p *Principal, id string) error {
	property, err := s.properties.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := canManage(p, property); err != nil {
		return err
	}
	if err := s.properties.Delete(ctx, id); err != nil {
		return err
	}

	s.log.Info("property deleted", zap.String("id", id))
	s.publish(notify.Event{
		Kind:       notify.Deleted,
		EntityType: notify.EntityProperty,
		ID:         property.ID,
		Slug:       property.Slug,
	})
	return nil
}

func (s *PropertyService) publish(event notify.Event) {
	event.OccurredAt = time.Now().UTC()
	if err := s.notifier.Publish(event); err != nil {
		s.log.Warn("property event dropped",
			zap.String("id", event.ID),
			zap.String("kind", string(event.Kind)),
			zap.Error(err),
		)
	}
}

// assemble validates req and fills property with the columns and owned
// rows it describes. No field error means property is ready to write.
func (s *PropertyService) assemble(ctx context.Context, p *Principal, req dto.PropertyRequest, property *models.Property) error {
	fields := apperr.FieldErrors{}
	if err := s.validate.Struct(req); err != nil {
		structFields, ok := validation.Fields(err)
		if !ok {
			return apperr.Internal(err)
		}
		for field, message := range structFields {
			fields.Add(field, message)
		}
	}

	typ, subType, err := s.resolveTaxonomy(ctx, fields, req)
	if err != nil {
		return err
	}
	deedStatusID, err := s.resolveLookups(ctx, fields, req)
	if err != nil {
		return err
	}
	descriptors, err := s.resolveDescriptors(ctx, fields, req.DescriptorIDs, typ)
	if err != nil {
		return err
	}
	checkFeature(fields, req.Feature, typ, subType)

	snapshot, err := snapshotLocation(ctx, s.locations, fields, req.Location)
	if err != nil {
		return err
	}
	if err := s.resolveTenancy(ctx, fields, p, req, property); err != nil {
		return err
	}

	property.Name = utils.SanitizePlainText(req.Name)
	property.Slug = listingSlug(fields, req.Slug, property.Slug, property.Name)
	if err := fields.Err(); err != nil {
		return err
	}

	property.Description = utils.SanitizeRichText(req.Description)
	property.Price = utils.Deref(req.Price)
	property.Currency = req.Currency
	if property.Currency == "" {
		property.Currency = defaultCurrency
	}
	property.TypeID = typ.ID
	property.SubTypeID = subType.ID
	property.ContractID = req.ContractID
	property.StatusID = req.StatusID
	property.DeedStatusID = deedStatusID
	property.Location = &models.PropertyLocation{LocationSnapshot: snapshot}
	property.Feature = featureFromInput(req.Feature)
	orders := make([]*int, len(req.Images))
	for i, image := range req.Images {
		orders[i] = image.Order
	}
	imagePositions := positions(orders)
	property.Images = make([]models.PropertyImage, 0, len(req.Images))
	for i, image := range req.Images {
		property.Images = append(property.Images, models.PropertyImage{
			URL:   image.URL,
			Order: imagePositions[i],
		})
	}
	property.Descriptors = descriptors
	return nil
}

// resolveTaxonomy loads the type and sub-type and checks they belong together
func (s *PropertyService) resolveTaxonomy(ctx context.Context, fields apperr.FieldErrors, req dto.PropertyRequest) (models.PropertyType, models.PropertySubType, error) {
	var (
		typ     models.PropertyType
		subType models.PropertySubType
		err     error
	)
	if req.TypeID != "" {
		typ, err = s.taxonomy.FindType(ctx, req.TypeID)
		if err = missingAsField(fields, "typeId", err); err != nil {
			return typ, subType, err
		}
	}
	if req.SubTypeID != "" {
		subType, err = s.taxonomy.FindSubType(ctx, req.SubTypeID)
		if err = missingAsField(fields, "subTypeId", err); err != nil {
			return typ, subType, err
		}
	}
	if typ.ID != "" && subType.ID != "" && subType.TypeID != typ.ID {
		fields.Add("subTypeId", "does not belong to the selected type")
	}
	return typ, subType, nil
}

// resolveLookups checks the contract and status and returns the deed status
// to store. Listings that are not for sale fall back to "not applicable".
func (s *PropertyService) resolveLookups(ctx context.Context, fields apperr.FieldErrors, req dto.PropertyRequest) (string, error) {
	if req.StatusID != "" {
		_, err := s.statuses.FindByID(ctx, req.StatusID)
		if err = missingAsField(fields, "statusId", err); err != nil {
			return "", err
		}
	}
	if req.ContractID == "" {
		return req.DeedStatusID, nil
	}
	contract, err := s.contracts.FindByID(ctx, req.ContractID)
	if err = missingAsField(fields, "contractId", err); err != nil || contract.ID == "" {
		return "", err
	}

	if req.DeedStatusID != "" {
		_, err := s.deedStatuses.FindByID(ctx, req.DeedStatusID)
		if err = missingAsField(fields, "deedStatusId", err); err != nil {
			return "", err
		}
		return req.DeedStatusID, nil
	}
	if contract.Slug == models.ContractSlugForSale {
		fields.Add("deedStatusId", "is required for listings for sale")
		return "", nil
	}
	fallback, err := s.deedStatuses.FindBySlug(ctx, models.DeedStatusSlugNotApplicable)
	if err != nil {
		return "", apperr.Internal(errors.New("deed status " + models.DeedStatusSlugNotApplicable + " is not seeded"))
	}
	return fallback.ID, nil
}

// resolveDescriptors loads descriptors and checks their categories are
// scoped to the listing's type
func (s *PropertyService) resolveDescriptors(ctx context.Context, fields apperr.FieldErrors, ids []string, typ models.PropertyType) ([]models.PropertyDescriptor, error) {
	if len(ids) == 0 || fields.Has("descriptorIds") {
		return nil, nil
	}
	descriptors, err := s.taxonomy.FindDescriptors(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(descriptors) != len(ids) {
		fields.Add("descriptorIds", "contains descriptors that do not exist")
		return nil, nil
	}
	if typ.ID == "" {
		return descriptors, nil
	}
	for _, d := range descriptors {
		if d.Category == nil || d.Category.TypeID != typ.ID {
			fields.Add("descriptorIds", "must belong to categories of the selected type")
			break
		}
	}
	return descriptors, nil
}

// checkFeature applies the type-dependent feature rules. Room counts are
// needed except for detached houses and land; land needs its parcel.
func checkFeature(fields apperr.FieldErrors, f dto.PropertyFeatureInput, typ models.PropertyType, subType models.PropertySubType) {
	if typ.ID == "" || subType.ID == "" {
		return
	}
	isLand := typ.Slug == models.TypeSlugLand
	if subType.Slug != models.SubTypeSlugDetachedHouse && !isLand {
		if f.Bedrooms == nil {
			fields.Add("feature.bedrooms", "is required")
		}
		if f.Bathrooms == nil {
			fields.Add("feature.bathrooms", "is required")
		}
		if f.Floor == nil {
			fields.Add("feature.floor", "is required")
		}
	}
	if isLand {
		requireText(fields, "feature.parcelNumber", f.ParcelNumber)
		requireText(fields, "feature.blockNumber", f.BlockNumber)
	}
}

func featureFromInput(f dto.PropertyFeatureInput) *models.PropertyFeature {
	return &models.PropertyFeature{
		Bedrooms:     f.Bedrooms,
		Bathrooms:    f.Bathrooms,
		Floor:        f.Floor,
		TotalFloors:  f.TotalFloors,
		BuildingAge:  f.BuildingAge,
		GrossArea:    f.GrossArea,
		NetArea:      f.NetArea,
		ParcelNumber: utils.SanitizePlainText(f.ParcelNumber),
		BlockNumber:  utils.SanitizePlainText(f.BlockNumber),
		HasBalcony:   f.HasBalcony,
		HasElevator:  f.HasElevator,
		HasParking:   f.HasParking,
		HasGarden:    f.HasGarden,
		HasPool:      f.HasPool,
		IsFurnished:  f.IsFurnished,
		InComplex:    f.InComplex,
	}
}

// resolveTenancy sets office, organization and agent. Site admins choose
// them; office admins stay in their office; agents always own the listing.
func (s *PropertyService) resolveTenancy(ctx context.Context, fields apperr.FieldErrors, p *Principal, req dto.PropertyRequest, property *models.Property) error {
	switch {
	case p.IsSiteAdmin():
		officeID := req.OfficeID
		if officeID == "" {
			officeID = property.OfficeID
		}
		if officeID == "" {
			officeID = p.OfficeID()
		}
		if officeID == "" {
			fields.Add("officeId", "is required")
			return nil
		}
		office, err := s.offices.FindByID(ctx, officeID)
		if err = missingAsField(fields, "officeId", err); err != nil || office.ID == "" {
			return err
		}
		if req.OrganizationID != "" && req.OrganizationID != office.OrganizationID {
			fields.Add("organizationId", "does not match the office")
		}
		property.OfficeID, property.OrganizationID = office.ID, office.OrganizationID
		return s.assignAgent(ctx, fields, req.AgentID, property)

	case p.HasRole(models.RoleOfficeAdmin):
		office, err := s.offices.FindByID(ctx, p.OfficeID())
		if err != nil {
			return err
		}
		property.OfficeID, property.OrganizationID = office.ID, office.OrganizationID
		return s.assignAgent(ctx, fields, req.AgentID, property)

	case p.HasRole(models.RoleAgent):
		if property.OfficeID == "" || property.OrganizationID == "" {
			office, err := s.offices.FindByID(ctx, p.OfficeID())
			if err != nil {
				return err
			}
			property.OfficeID, property.OrganizationID = office.ID, office.OrganizationID
		}
		property.AgentID = utils.Ptr(p.WorkerID())
		return nil
	}
	return apperr.Forbidden("no role grants access to listings")
}

// assignAgent sets the listing's agent when agentID names a worker of the
// listing's office.
func (s *PropertyService) assignAgent(ctx context.Context, fields apperr.FieldErrors, agentID string, property *models.Property) error {
	if agentID == "" {
		return nil
	}
	worker, err := s.workers.FindByID(ctx, agentID)
	if err = missingAsField(fields, "agentId", err); err != nil || worker.ID == "" {
		return err
	}
	if worker.OfficeID != property.OfficeID {
		fields.Add("agentId", "must work at the listing's office")
		return nil
	}
	property.AgentID = utils.Ptr(worker.ID)
	return nil
}

// missingAsField records a NotFound as a field error and returns any other
// error unchanged.
func missingAsField(fields apperr.FieldErrors, field string, err error) error {
	if apperr.Is(err, apperr.KindNotFound) {
		fields.Add(field, "does not exist")
		return nil
	}
	return err
}

// PropertyDocument is the search index representation of a listing
type PropertyDocument struct {
	ID           string   `json:"id"`
	Slug         string   `json:"slug"`
	Name         string   `json:"name"`
	Price        float64  `json:"price"`
	Currency     string   `json:"currency"`
	TypeID       string   `json:"typeId"`
	SubTypeID    string   `json:"subTypeId"`
	ContractID   string   `json:"contractId"`
	OfficeID     string   `json:"officeId"`
	CityName     string   `json:"cityName,omitempty"`
	DistrictName string   `json:"districtName,omitempty"`
	Geohash      string   `json:"geohash,omitempty"`
	Image        string   `json:"image,omitempty"`
	Descriptors  []string `json:"descriptors"`
}

func NewPropertyDocument(p models.Property) PropertyDocument {
	doc := PropertyDocument{
		ID:          p.ID,
		Slug:        p.Slug,
		Name:        p.Name,
		Price:       p.Price,
		Currency:    p.Currency,
		TypeID:      p.TypeID,
		SubTypeID:   p.SubTypeID,
		ContractID:  p.ContractID,
		OfficeID:    p.OfficeID,
		Descriptors: make([]string, 0, len(p.Descriptors)),
	}
	if p.Location != nil {
		doc.CityName = p.Location.CityName
		doc.DistrictName = p.Location.DistrictName
		doc.Geohash = p.Location.Geohash
	}
	if len(p.Images) > 0 {
		doc.Image = p.Images[0].URL
	}
	for _, d := range p.Descriptors {
		doc.Descriptors = append(doc.Descriptors, d.Slug)
	}
	return doc
}
