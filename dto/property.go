package dto

import (
	"time"
)

// LocationInput points a listing at a neighborhood; the service copies the
// names of the whole ancestry into the snapshot.
type LocationInput struct {
	NeighborhoodID string   `json:"neighborhoodId" validate:"required"`
	Address        string   `json:"address" validate:"max=500"`
	Latitude       *float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude      *float64 `json:"longitude" validate:"omitempty,longitude"`
}

// ImageInput is one externally stored image
type ImageInput struct {
	URL   string `json:"url" validate:"required,url"`
	Order *int   `json:"order" validate:"omitempty,min=0"`
}

// PropertyFeatureInput is the feature sheet of a listing
type PropertyFeatureInput struct {
	Bedrooms     *int     `json:"bedrooms" validate:"omitempty,min=0,max=100"`
	Bathrooms    *int     `json:"bathrooms" validate:"omitempty,min=0,max=100"`
	Floor        *int     `json:"floor" validate:"omitempty,min=-10,max=300"`
	TotalFloors  *int     `json:"totalFloors" validate:"omitempty,min=0,max=300"`
	BuildingAge  *int     `json:"buildingAge" validate:"omitempty,min=0,max=500"`
	GrossArea    *float64 `json:"grossArea" validate:"omitempty,gt=0"`
	NetArea      *float64 `json:"netArea" validate:"omitempty,gt=0"`
	ParcelNumber string   `json:"parcelNumber" validate:"max=50"`
	BlockNumber  string   `json:"blockNumber" validate:"max=50"`
	HasBalcony   bool     `json:"hasBalcony"`
	HasElevator  bool     `json:"hasElevator"`
	HasParking   bool     `json:"hasParking"`
	HasGarden    bool     `json:"hasGarden"`
	HasPool      bool     `json:"hasPool"`
	IsFurnished  bool     `json:"isFurnished"`
	InComplex    bool     `json:"inComplex"`
}

// PropertyRequest creates or replaces a listing. OfficeID, OrganizationID and
// AgentID are only honored for site admins; other callers get their own.
type PropertyRequest struct {
	Name           string               `json:"name" validate:"required,max=200"`
	Slug           string               `json:"slug" validate:"omitempty,max=200"`
	Description    string               `json:"description"`
	Price          *float64             `json:"price" validate:"required,gte=0"`
	Currency       string               `json:"currency" validate:"omitempty,len=3"`
	TypeID         string               `json:"typeId" validate:"required"`
	SubTypeID      string               `json:"subTypeId" validate:"required"`
	ContractID     string               `json:"contractId" validate:"required"`
	StatusID       string               `json:"statusId" validate:"required"`
	DeedStatusID   string               `json:"deedStatusId"`
	OfficeID       string               `json:"officeId"`
	OrganizationID string               `json:"organizationId"`
	AgentID        string               `json:"agentId"`
	Location       *LocationInput       `json:"location"`
	Feature        PropertyFeatureInput `json:"feature"`
	Images         []ImageInput         `json:"images" validate:"max=50,dive"`
	DescriptorIDs  []string             `json:"descriptorIds" validate:"unique,dive,required"`
}

// PropertyQuery is the public listing search
type PropertyQuery struct {
	PageQuery
	CityID     string   `form:"cityId"`
	DistrictID string   `form:"districtId"`
	TypeID     string   `form:"typeId"`
	SubTypeID  string   `form:"subTypeId"`
	ContractID string   `form:"contractId"`
	MinPrice   *float64 `form:"minPrice" binding:"omitempty,gte=0"`
	MaxPrice   *float64 `form:"maxPrice" binding:"omitempty,gte=0"`
	Geohash    string   `form:"geohash" binding:"omitempty,max=12"`
	Search     string   `form:"search"`
	SortBy     string   `form:"sortBy"`
	SortOrder  string   `form:"sortOrder"`
	Status     string   `form:"status"`
	OfficeID   string   `form:"officeId"`
}

// ProjectFeatureInput is the feature sheet of a project
type ProjectFeatureInput struct {
	TotalArea     *float64 `json:"totalArea" validate:"omitempty,gt=0"`
	BlockCount    *int     `json:"blockCount" validate:"omitempty,min=0"`
	FloorCount    *int     `json:"floorCount" validate:"omitempty,min=0"`
	UnitCount     *int     `json:"unitCount" validate:"omitempty,min=0"`
	HasPool       bool     `json:"hasPool"`
	HasGym        bool     `json:"hasGym"`
	HasParking    bool     `json:"hasParking"`
	HasSecurity   bool     `json:"hasSecurity"`
	HasPlayground bool     `json:"hasPlayground"`
}

// UnitSizeInput is one floor-plan variant
type UnitSizeInput struct {
	Value     string   `json:"value" validate:"required,max=100"`
	GrossArea *float64 `json:"grossArea" validate:"omitempty,gt=0"`
	NetArea   *float64 `json:"netArea" validate:"omitempty,gt=0"`
	Price     *float64 `json:"price" validate:"omitempty,gte=0"`
	Order     *int     `json:"order" validate:"omitempty,min=0"`
}

// ProjectRequest creates or replaces a project
type ProjectRequest struct {
	Name             string              `json:"name" validate:"required,max=200"`
	Slug             string              `json:"slug" validate:"omitempty,max=200"`
	Description      string              `json:"description"`
	OfficeID         string              `json:"officeId"`
	PublishingStatus string              `json:"publishingStatus"`
	DeliveryDate     *time.Time          `json:"deliveryDate"`
	Location         *LocationInput      `json:"location"`
	Feature          ProjectFeatureInput `json:"feature"`
	Images           []ImageInput        `json:"images" validate:"max=50,dive"`
	UnitSizes        []UnitSizeInput     `json:"unitSizes" validate:"max=50,dive"`
	SocialFeatures   []string            `json:"socialFeatures" validate:"max=50,dive,required,max=100"`
}

// ProjectQuery is the public project search
type ProjectQuery struct {
	PageQuery
	CityID    string `form:"cityId"`
	OfficeID  string `form:"officeId"`
	Search    string `form:"search"`
	SortBy    string `form:"sortBy"`
	SortOrder string `form:"sortOrder"`
	Status    string `form:"status"`
}
