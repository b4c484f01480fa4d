package models

import (
	"time"

	"gorm.io/gorm"
)

// Project represents a development (a building complex sold off-plan)
type Project struct {
	ID               string        `json:"id" gorm:"primaryKey;size:36"`
	Name             string        `json:"name" gorm:"not null"`
	Slug             string        `json:"slug" gorm:"not null;uniqueIndex"`
	Description      string        `json:"description" gorm:"type:text"`
	OfficeID         *string       `json:"officeId" gorm:"size:36;index"`
	OrganizationID   *string       `json:"organizationId" gorm:"size:36;index"`
	PublishingStatus ProjectStatus `json:"publishingStatus" gorm:"type:varchar(16);not null;default:'DRAFT';index"`
	DeliveryDate     *time.Time    `json:"deliveryDate"`
	CreatedAt        time.Time     `json:"createdAt"`
	UpdatedAt        time.Time     `json:"updatedAt"`

	// Relations
	Office         *Office                `json:"office,omitempty" gorm:"foreignKey:OfficeID;constraint:OnDelete:SET NULL"`
	Location       *ProjectLocation       `json:"location,omitempty" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
	Feature        *ProjectFeature        `json:"feature,omitempty" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
	Images         []ProjectImage         `json:"images" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
	UnitSizes      []ProjectUnitSize      `json:"unitSizes" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
	SocialFeatures []ProjectSocialFeature `json:"socialFeatures" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	assignID(&p.ID)
	return nil
}

type ProjectLocation struct {
	ID        string `json:"-" gorm:"primaryKey;size:36"`
	ProjectID string `json:"-" gorm:"size:36;not null;uniqueIndex"`
	LocationSnapshot
}

func (l *ProjectLocation) BeforeCreate(tx *gorm.DB) error {
	assignID(&l.ID)
	return nil
}

type ProjectFeature struct {
	ID            string   `json:"-" gorm:"primaryKey;size:36"`
	ProjectID     string   `json:"-" gorm:"size:36;not null;uniqueIndex"`
	TotalArea     *float64 `json:"totalArea"`
	BlockCount    *int     `json:"blockCount"`
	FloorCount    *int     `json:"floorCount"`
	UnitCount     *int     `json:"unitCount"`
	HasPool       bool     `json:"hasPool"`
	HasGym        bool     `json:"hasGym"`
	HasParking    bool     `json:"hasParking"`
	HasSecurity   bool     `json:"hasSecurity"`
	HasPlayground bool     `json:"hasPlayground"`
}

func (f *ProjectFeature) BeforeCreate(tx *gorm.DB) error {
	assignID(&f.ID)
	return nil
}

type ProjectImage struct {
	ID        string `json:"id" gorm:"primaryKey;size:36"`
	ProjectID string `json:"-" gorm:"size:36;not null;index"`
	URL       string `json:"url" gorm:"not null"`
	Order     int    `json:"order" gorm:"column:sort_order;not null;default:0"`
}

func (i *ProjectImage) BeforeCreate(tx *gorm.DB) error {
	assignID(&i.ID)
	return nil
}

// ProjectUnitSize is one floor-plan variant, e.g. "2+1, 95 m²"
type ProjectUnitSize struct {
	ID        string   `json:"id" gorm:"primaryKey;size:36"`
	ProjectID string   `json:"-" gorm:"size:36;not null;index"`
	Value     string   `json:"value" gorm:"not null"`
	GrossArea *float64 `json:"grossArea"`
	NetArea   *float64 `json:"netArea"`
	Price     *float64 `json:"price"`
	Order     int      `json:"order" gorm:"column:sort_order;not null;default:0"`
}

func (u *ProjectUnitSize) BeforeCreate(tx *gorm.DB) error {
	assignID(&u.ID)
	return nil
}

type ProjectSocialFeature struct {
	ID        string `json:"id" gorm:"primaryKey;size:36"`
	ProjectID string `json:"-" gorm:"size:36;not null;index"`
	Value     string `json:"value" gorm:"not null"`
}

func (f *ProjectSocialFeature) BeforeCreate(tx *gorm.DB) error {
	assignID(&f.ID)
	return nil
}
