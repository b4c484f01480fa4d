package models

// PublishingStatus moderates properties and reviews.
// Every transition between values is allowed.
type PublishingStatus string

const (
	StatusPending   PublishingStatus = "PENDING"
	StatusPublished PublishingStatus = "PUBLISHED"
	StatusRejected  PublishingStatus = "REJECTED"
)

func (s PublishingStatus) Valid() bool {
	switch s {
	case StatusPending, StatusPublished, StatusRejected:
		return true
	}
	return false
}

// ProjectStatus is the lifecycle of a development project, with no terminal state
type ProjectStatus string

const (
	ProjectDraft     ProjectStatus = "DRAFT"
	ProjectPublished ProjectStatus = "PUBLISHED"
	ProjectArchived  ProjectStatus = "ARCHIVED"
)

func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectDraft, ProjectPublished, ProjectArchived:
		return true
	}
	return false
}

// LeadStatus tracks contact forms and prospects
type LeadStatus string

const (
	LeadPending   LeadStatus = "PENDING"
	LeadProcessed LeadStatus = "PROCESSED"
	LeadRejected  LeadStatus = "REJECTED"
)

func (s LeadStatus) Valid() bool {
	switch s {
	case LeadPending, LeadProcessed, LeadRejected:
		return true
	}
	return false
}
