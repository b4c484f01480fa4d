package models

import (
	"time"

	"gorm.io/gorm"
)

// Organization owns offices
type Organization struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	Name      string    `json:"name" gorm:"not null"`
	Slug      string    `json:"slug" gorm:"not null;uniqueIndex"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Relations
	Offices []Office `json:"offices,omitempty" gorm:"foreignKey:OrganizationID;constraint:OnDelete:RESTRICT"`
}

func (o *Organization) BeforeCreate(tx *gorm.DB) error {
	assignID(&o.ID)
	return nil
}

// Office is a branch of an organization. Its location is read through
// the neighborhood row rather than copied.
type Office struct {
	ID             string    `json:"id" gorm:"primaryKey;size:36"`
	Name           string    `json:"name" gorm:"not null"`
	Slug           string    `json:"slug" gorm:"not null;uniqueIndex"`
	OrganizationID string    `json:"organizationId" gorm:"size:36;not null;index"`
	Phone          string    `json:"phone"`
	Email          string    `json:"email"`
	Address        string    `json:"address"`
	NeighborhoodID *string   `json:"neighborhoodId" gorm:"size:36;index"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`

	// Relations
	Neighborhood *Neighborhood  `json:"neighborhood,omitempty" gorm:"foreignKey:NeighborhoodID;constraint:OnDelete:RESTRICT"`
	Workers      []OfficeWorker `json:"workers,omitempty" gorm:"foreignKey:OfficeID;constraint:OnDelete:RESTRICT"`
}

func (o *Office) BeforeCreate(tx *gorm.DB) error {
	assignID(&o.ID)
	return nil
}

// OfficeWorker is a staff member of an office. The linked role is the only
// authorization signal; UserID links at most one identity.
type OfficeWorker struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	FirstName string    `json:"firstName" gorm:"not null"`
	LastName  string    `json:"lastName" gorm:"not null"`
	Slug      string    `json:"slug" gorm:"not null;uniqueIndex"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Title     string    `json:"title"`
	OfficeID  string    `json:"officeId" gorm:"size:36;not null;index"`
	RoleID    string    `json:"roleId" gorm:"size:36;not null;index"`
	UserID    *string   `json:"userId" gorm:"size:36;uniqueIndex"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Relations
	Office  *Office              `json:"office,omitempty" gorm:"foreignKey:OfficeID"`
	Role    *Role                `json:"role,omitempty" gorm:"foreignKey:RoleID;constraint:OnDelete:RESTRICT"`
	User    *User                `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL"`
	Reviews []OfficeWorkerReview `json:"reviews,omitempty" gorm:"foreignKey:OfficeWorkerID;constraint:OnDelete:CASCADE"`
}

func (w *OfficeWorker) BeforeCreate(tx *gorm.DB) error {
	assignID(&w.ID)
	return nil
}

// FullName joins first and last name.
func (w OfficeWorker) FullName() string {
	if w.LastName == "" {
		return w.FirstName
	}
	return w.FirstName + " " + w.LastName
}
