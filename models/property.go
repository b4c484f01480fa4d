package models

import (
	"time"

	"gorm.io/gorm"
)

// Property is a listing aggregate. Location, Feature, Images and the
// descriptor assignments are owned and written together with it.
type Property struct {
	ID               string           `json:"id" gorm:"primaryKey;size:36"`
	Name             string           `json:"name" gorm:"not null"`
	Slug             string           `json:"slug" gorm:"not null;uniqueIndex"`
	Description      string           `json:"description" gorm:"type:text"`
	Price            float64          `json:"price" gorm:"not null;index"`
	Currency         string           `json:"currency" gorm:"size:3;default:'TRY'"`
	TypeID           string           `json:"typeId" gorm:"size:36;not null;index"`
	SubTypeID        string           `json:"subTypeId" gorm:"size:36;not null;index"`
	ContractID       string           `json:"contractId" gorm:"size:36;not null;index"`
	StatusID         string           `json:"statusId" gorm:"size:36;not null"`
	DeedStatusID     string           `json:"deedStatusId" gorm:"size:36;not null"`
	OfficeID         string           `json:"officeId" gorm:"size:36;not null;index"`
	OrganizationID   string           `json:"organizationId" gorm:"size:36;not null;index"`
	AgentID          *string          `json:"agentId" gorm:"size:36;index"`
	PublishingStatus PublishingStatus `json:"publishingStatus" gorm:"type:varchar(16);not null;default:'PENDING';index"`
	CreatedAt        time.Time        `json:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt"`

	// Relations
	Type         *PropertyType        `json:"type,omitempty" gorm:"foreignKey:TypeID;constraint:OnDelete:RESTRICT"`
	SubType      *PropertySubType     `json:"subType,omitempty" gorm:"foreignKey:SubTypeID;constraint:OnDelete:RESTRICT"`
	Contract     *PropertyContract    `json:"contract,omitempty" gorm:"foreignKey:ContractID;constraint:OnDelete:RESTRICT"`
	Status       *PropertyStatus      `json:"status,omitempty" gorm:"foreignKey:StatusID;constraint:OnDelete:RESTRICT"`
	DeedStatus   *PropertyDeedStatus  `json:"deedStatus,omitempty" gorm:"foreignKey:DeedStatusID;constraint:OnDelete:RESTRICT"`
	Office       *Office              `json:"office,omitempty" gorm:"foreignKey:OfficeID;constraint:OnDelete:RESTRICT"`
	Organization *Organization        `json:"-" gorm:"foreignKey:OrganizationID;constraint:OnDelete:RESTRICT"`
	Agent        *OfficeWorker        `json:"agent,omitempty" gorm:"foreignKey:AgentID;constraint:OnDelete:RESTRICT"`
	Location     *PropertyLocation    `json:"location,omitempty" gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE"`
	Feature      *PropertyFeature     `json:"feature,omitempty" gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE"`
	Images       []PropertyImage      `json:"images" gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE"`
	Descriptors  []PropertyDescriptor `json:"descriptors" gorm:"many2many:property_descriptor_assignments;constraint:OnDelete:CASCADE"`
}

func (p *Property) BeforeCreate(tx *gorm.DB) error {
	assignID(&p.ID)
	return nil
}

type PropertyLocation struct {
	ID         string `json:"-" gorm:"primaryKey;size:36"`
	PropertyID string `json:"-" gorm:"size:36;not null;uniqueIndex"`
	LocationSnapshot
}

func (l *PropertyLocation) BeforeCreate(tx *gorm.DB) error {
	assignID(&l.ID)
	return nil
}

// PropertyFeature is the feature sheet of a listing
type PropertyFeature struct {
	ID           string   `json:"-" gorm:"primaryKey;size:36"`
	PropertyID   string   `json:"-" gorm:"size:36;not null;uniqueIndex"`
	Bedrooms     *int     `json:"bedrooms"`
	Bathrooms    *int     `json:"bathrooms"`
	Floor        *int     `json:"floor"`
	TotalFloors  *int     `json:"totalFloors"`
	BuildingAge  *int     `json:"buildingAge"`
	GrossArea    *float64 `json:"grossArea"`
	NetArea      *float64 `json:"netArea"`
	ParcelNumber string   `json:"parcelNumber"`
	BlockNumber  string   `json:"blockNumber"`
	HasBalcony   bool     `json:"hasBalcony"`
	HasElevator  bool     `json:"hasElevator"`
	HasParking   bool     `json:"hasParking"`
	HasGarden    bool     `json:"hasGarden"`
	HasPool      bool     `json:"hasPool"`
	IsFurnished  bool     `json:"isFurnished"`
	InComplex    bool     `json:"inComplex"`
}

func (f *PropertyFeature) BeforeCreate(tx *gorm.DB) error {
	assignID(&f.ID)
	return nil
}

type PropertyImage struct {
	ID         string `json:"id" gorm:"primaryKey;size:36"`
	PropertyID string `json:"-" gorm:"size:36;not null;index"`
	URL        string `json:"url" gorm:"not null"`
	Order      int    `json:"order" gorm:"column:sort_order;not null;default:0"`
}

func (i *PropertyImage) BeforeCreate(tx *gorm.DB) error {
	assignID(&i.ID)
	return nil
}

// PropertyDescriptorAssignment is the join row behind Property.Descriptors
type PropertyDescriptorAssignment struct {
	PropertyID           string `gorm:"primaryKey;size:36"`
	PropertyDescriptorID string `gorm:"primaryKey;size:36;index"`
}

func (PropertyDescriptorAssignment) TableName() string {
	return "property_descriptor_assignments"
}
