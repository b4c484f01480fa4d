package dto

type ContactFormRequest struct {
	Name    string `json:"name" binding:"required,max=200"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone" binding:"omitempty,max=40"`
	Subject string `json:"subject" binding:"omitempty,max=200"`
	Message string `json:"message" binding:"required,max=5000"`
}

type ProspectAgentRequest struct {
	FirstName string `json:"firstName" binding:"required,max=100"`
	LastName  string `json:"lastName" binding:"required,max=100"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone" binding:"required,max=40"`
	City      string `json:"city" binding:"omitempty,max=100"`
	Message   string `json:"message" binding:"omitempty,max=5000"`
}

type ProspectCustomerRequest struct {
	Name       string `json:"name" binding:"required,max=200"`
	Email      string `json:"email" binding:"omitempty,email"`
	Phone      string `json:"phone" binding:"required,max=40"`
	PropertyID string `json:"propertyId"`
	Message    string `json:"message" binding:"omitempty,max=5000"`
}

type ReviewRequest struct {
	OfficeWorkerID string `json:"officeWorkerId" binding:"required"`
	AuthorName     string `json:"authorName" binding:"required,max=200"`
	AuthorEmail    string `json:"authorEmail" binding:"omitempty,email"`
	Rating         int    `json:"rating" binding:"required,min=1,max=5"`
	Comment        string `json:"comment" binding:"omitempty,max=5000"`
}

// LeadQuery filters admin lead listings
type LeadQuery struct {
	PageQuery
	Status string `form:"status"`
}

// ReviewSummary is a worker's published rating
type ReviewSummary struct {
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}
