package models

import (
	"time"

	"gorm.io/gorm"
)

// Slugs the listing rules depend on. Seed data creates rows carrying them.
const (
	TypeSlugLand                = "land"
	SubTypeSlugDetachedHouse    = "detached-house"
	ContractSlugForSale         = "for-sale"
	DeedStatusSlugNotApplicable = "not-applicable"
)

// PropertyType is the top of the listing taxonomy (Konut, Arsa, ...)
type PropertyType struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	Value     string    `json:"value" gorm:"not null"`
	Slug      string    `json:"slug" gorm:"not null;uniqueIndex"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Relations
	SubTypes             []PropertySubType            `json:"subTypes,omitempty" gorm:"foreignKey:TypeID;constraint:OnDelete:RESTRICT"`
	DescriptorCategories []PropertyDescriptorCategory `json:"descriptorCategories,omitempty" gorm:"foreignKey:TypeID;constraint:OnDelete:RESTRICT"`
}

func (t *PropertyType) BeforeCreate(tx *gorm.DB) error {
	assignID(&t.ID)
	return nil
}

type PropertySubType struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	Value     string    `json:"value" gorm:"not null"`
	Slug      string    `json:"slug" gorm:"not null;uniqueIndex:idx_sub_types_type_slug"`
	TypeID    string    `json:"typeId" gorm:"size:36;not null;uniqueIndex:idx_sub_types_type_slug"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (s *PropertySubType) BeforeCreate(tx *gorm.DB) error {
	assignID(&s.ID)
	return nil
}

// PropertyDescriptorCategory groups descriptors and is scoped to one type
type PropertyDescriptorCategory struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	Value     string    `json:"value" gorm:"not null"`
	Slug      string    `json:"slug" gorm:"not null;uniqueIndex"`
	TypeID    string    `json:"typeId" gorm:"size:36;not null;index"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Relations
	Descriptors []PropertyDescriptor `json:"descriptors" gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
}

func (c *PropertyDescriptorCategory) BeforeCreate(tx *gorm.DB) error {
	assignID(&c.ID)
	return nil
}

// PropertyDescriptor is a leaf tag such as "has pool"
type PropertyDescriptor struct {
	ID         string    `json:"id" gorm:"primaryKey;size:36"`
	Value      string    `json:"value" gorm:"not null"`
	Slug       string    `json:"slug" gorm:"not null;uniqueIndex:idx_descriptors_category_slug"`
	CategoryID string    `json:"categoryId" gorm:"size:36;not null;uniqueIndex:idx_descriptors_category_slug"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`

	Category *PropertyDescriptorCategory `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
}

func (d *PropertyDescriptor) BeforeCreate(tx *gorm.DB) error {
	assignID(&d.ID)
	return nil
}

// PropertyContract is a lookup row such as "Satılık" (for-sale) or "Kiralık"
type PropertyContract struct {
	ID    string `json:"id" gorm:"primaryKey;size:36"`
	Value string `json:"value" gorm:"not null"`
	Slug  string `json:"slug" gorm:"not null;uniqueIndex"`
}

func (c *PropertyContract) BeforeCreate(tx *gorm.DB) error {
	assignID(&c.ID)
	return nil
}

// PropertyStatus describes occupancy such as "Boş" or "Kiracılı"
type PropertyStatus struct {
	ID    string `json:"id" gorm:"primaryKey;size:36"`
	Value string `json:"value" gorm:"not null"`
	Slug  string `json:"slug" gorm:"not null;uniqueIndex"`
}

func (s *PropertyStatus) BeforeCreate(tx *gorm.DB) error {
	assignID(&s.ID)
	return nil
}

// PropertyDeedStatus is the title-deed kind (Kat Mülkiyeti, ...)
type PropertyDeedStatus struct {
	ID    string `json:"id" gorm:"primaryKey;size:36"`
	Value string `json:"value" gorm:"not null"`
	Slug  string `json:"slug" gorm:"not null;uniqueIndex"`
}

func (d *PropertyDeedStatus) BeforeCreate(tx *gorm.DB) error {
	assignID(&d.ID)
	return nil
}
