package models

import (
	"time"

	"gorm.io/gorm"
)

// ContactForm is a message submitted through the public contact page
type ContactForm struct {
	ID        string     `json:"id" gorm:"primaryKey;size:36"`
	Name      string     `json:"name" gorm:"not null"`
	Email     string     `json:"email" gorm:"not null"`
	Phone     string     `json:"phone"`
	Subject   string     `json:"subject"`
	Message   string     `json:"message" gorm:"type:text"`
	Status    LeadStatus `json:"status" gorm:"type:varchar(16);not null;default:'PENDING';index"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func (f *ContactForm) BeforeCreate(tx *gorm.DB) error {
	assignID(&f.ID)
	return nil
}

// ProspectAgent is an application from someone who wants to join as an agent
type ProspectAgent struct {
	ID        string     `json:"id" gorm:"primaryKey;size:36"`
	FirstName string     `json:"firstName" gorm:"not null"`
	LastName  string     `json:"lastName" gorm:"not null"`
	Email     string     `json:"email" gorm:"not null"`
	Phone     string     `json:"phone"`
	City      string     `json:"city"`
	Message   string     `json:"message" gorm:"type:text"`
	Status    LeadStatus `json:"status" gorm:"type:varchar(16);not null;default:'PENDING';index"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func (p *ProspectAgent) BeforeCreate(tx *gorm.DB) error {
	assignID(&p.ID)
	return nil
}

// ProspectCustomer is a buyer or tenant inquiry, optionally about a listing
type ProspectCustomer struct {
	ID         string     `json:"id" gorm:"primaryKey;size:36"`
	Name       string     `json:"name" gorm:"not null"`
	Email      string     `json:"email"`
	Phone      string     `json:"phone" gorm:"not null"`
	PropertyID *string    `json:"propertyId" gorm:"size:36;index"`
	Message    string     `json:"message" gorm:"type:text"`
	Status     LeadStatus `json:"status" gorm:"type:varchar(16);not null;default:'PENDING';index"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`

	Property *Property `json:"-" gorm:"foreignKey:PropertyID;constraint:OnDelete:SET NULL"`
}

func (p *ProspectCustomer) BeforeCreate(tx *gorm.DB) error {
	assignID(&p.ID)
	return nil
}

// OfficeWorkerReview is a customer rating of an agent, moderated before display
type OfficeWorkerReview struct {
	ID             string           `json:"id" gorm:"primaryKey;size:36"`
	OfficeWorkerID string           `json:"officeWorkerId" gorm:"size:36;not null;index"`
	AuthorName     string           `json:"authorName" gorm:"not null"`
	AuthorEmail    string           `json:"-"`
	Rating         int              `json:"rating" gorm:"not null"`
	Comment        string           `json:"comment" gorm:"type:text"`
	Status         PublishingStatus `json:"status" gorm:"type:varchar(16);not null;default:'PENDING';index"`
	CreatedAt      time.Time        `json:"createdAt"`
	UpdatedAt      time.Time        `json:"updatedAt"`
}

func (r *OfficeWorkerReview) BeforeCreate(tx *gorm.DB) error {
	assignID(&r.ID)
	return nil
}
