package prompts

import (
	"slices"

	"github.com/promptdeck/promptdeck/internal/session"
	"github.com/promptdeck/promptdeck/pkg/query"
)

// Owner reports whether the acting user controls the prompt: admins control
// everything, otherwise the creator does.
func Owner(p Prompt, u session.Identity) bool {
	return u.IsAdmin || p.UserID == u.ID
}

// CanShare reports whether the acting user may grow the sharing list.
// Only published prompts can be shared.
func CanShare(p Prompt, u session.Identity) bool {
	return Owner(p, u) && p.IsPublished
}

// CanDuplicate reports whether the acting user may copy the prompt: a
// non-owner whose email appears in the sharing list.
func CanDuplicate(p Prompt, u session.Identity) bool {
	return !Owner(p, u) && slices.Contains(p.SharedWith, u.Email)
}

// Visible scopes a query to records the acting user may read: admins see
// everything; everyone else sees what they own plus published records
// shared with their email.
func Visible(qb *query.Builder, u session.Identity) *query.Builder {
	if u.IsAdmin {
		return qb
	}
	return qb.WhereOr(
		query.Eq("UserID", u.ID),
		query.And(
			query.JSONContains("SharedWith", u.Email),
			query.Eq("IsPublished", true),
		),
	)
}
