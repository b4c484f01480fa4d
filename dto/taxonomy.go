package dto

// TaxonomyRequest creates or updates a type, sub-type, descriptor category
// or descriptor. TypeID is read for sub-types and categories, CategoryID for
// descriptors.
type TaxonomyRequest struct {
	Value      string `json:"value" binding:"required,max=200"`
	Slug       string `json:"slug" binding:"omitempty,max=200"`
	TypeID     string `json:"typeId"`
	CategoryID string `json:"categoryId"`
}

// LookupRequest creates or updates a contract, status or deed status
type LookupRequest struct {
	Value string `json:"value" binding:"required,max=200"`
	Slug  string `json:"slug" binding:"omitempty,max=200"`
}
