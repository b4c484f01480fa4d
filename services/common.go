package services

import (
	"strings"

	"github.com/emlak-portal/apperr"
	"github.com/emlak-portal/notify"
	"github.com/emlak-portal/utils"
)

// Notifier receives change events after commit
type Notifier interface {
	Publish(event notify.Event) error
}

type discard struct{}

func (discard) Publish(notify.Event) error { return nil }

func orDiscard(n Notifier) Notifier {
	if n == nil {
		return discard{}
	}
	return n
}

const slugMessage = "must contain only lowercase letters, digits and dashes"

// resolveSlug validates a supplied slug or derives one from name.
func resolveSlug(fields apperr.FieldErrors, slug, name string) string {
	slug = strings.TrimSpace(slug)
	if slug != "" && !utils.IsValidSlug(slug) {
		fields.Add("slug", slugMessage)
		return slug
	}
	derived := utils.SlugOrDerive(slug, name)
	if derived == "" && strings.TrimSpace(name) != "" {
		fields.Add("slug", "cannot be derived from the name")
	}
	return derived
}

// requireText trims v and records a required error when empty.
func requireText(fields apperr.FieldErrors, field, v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		fields.Add(field, "is required")
	}
	return v
}
