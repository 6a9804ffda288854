package access

import (
	"fmt"
	"strings"

	"github.com/contentpulse/contentpulse-backend/models"
	"github.com/contentpulse/contentpulse-backend/services/tenancy"
	"github.com/google/uuid"
)

// Predicate is one extra condition conjoined onto the organization scope.
// Column names come from callers inside this module, never from user input.
type Predicate struct {
	Column string
	Op     string
	Value  interface{}
}

// Eq builds an equality predicate
func Eq(column string, value interface{}) Predicate {
	return Predicate{Column: column, Op: "=", Value: value}
}

// Filter is an immutable organization-scoped query predicate. It always
// conjoins the resolved organization ID with any extra predicates; there is
// no way to build one without a tenancy context, so an unscoped query cannot
// be expressed. Safe to share between concurrent readers.
type Filter struct {
	orgID      uuid.UUID
	predicates []Predicate
	statuses   []models.DraftStatus
}

// Scope builds a filter from a resolved tenancy context plus optional extra
// predicates
func Scope(tc *tenancy.Context, extra ...Predicate) *Filter {
	return &Filter{
		orgID:      tc.OrgID,
		predicates: extra,
	}
}

// WithVisibleStatuses returns a copy of the filter restricted to the draft
// statuses the context's role may read
func (f *Filter) WithVisibleStatuses(role models.Role) *Filter {
	return &Filter{
		orgID:      f.orgID,
		predicates: f.predicates,
		statuses:   VisibleStatuses(role),
	}
}

// OrgID returns the organization the filter is scoped to
func (f *Filter) OrgID() uuid.UUID {
	return f.orgID
}

// Clause renders the WHERE fragment starting at the given positional
// argument index, returning the fragment and its arguments. The org
// equality always comes first.
func (f *Filter) Clause(argIndex int) (string, []interface{}) {
	parts := []string{fmt.Sprintf("org_id = $%d", argIndex)}
	args := []interface{}{f.orgID}
	argIndex++

	for _, p := range f.predicates {
		parts = append(parts, fmt.Sprintf("%s %s $%d", p.Column, p.Op, argIndex))
		args = append(args, p.Value)
		argIndex++
	}

	if len(f.statuses) > 0 {
		placeholders := make([]string, len(f.statuses))
		for i, s := range f.statuses {
			placeholders[i] = fmt.Sprintf("$%d", argIndex)
			args = append(args, s)
			argIndex++
		}
		parts = append(parts, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ", ")))
	}

	return strings.Join(parts, " AND "), args
}

// VisibleStatuses returns the set of draft statuses a role may read.
// Reviewers never see work in progress: a client's view starts at
// AwaitingFeedback, and a viewer only sees finished work. Working roles
// inside the organization see all states.
func VisibleStatuses(role models.Role) []models.DraftStatus {
	switch role {
	case models.RoleClient:
		return []models.DraftStatus{
			models.DraftStatusAwaitingFeedback,
			models.DraftStatusAwaitingRevision,
			models.DraftStatusApproved,
			models.DraftStatusRejected,
			models.DraftStatusPublished,
		}
	case models.RoleViewer:
		return []models.DraftStatus{
			models.DraftStatusApproved,
			models.DraftStatusPublished,
		}
	default:
		statuses := make([]models.DraftStatus, len(models.AllDraftStatuses))
		copy(statuses, models.AllDraftStatuses)
		return statuses
	}
}

// CanSeeStatus reports whether a role may read a draft in the given status
func CanSeeStatus(role models.Role, status models.DraftStatus) bool {
	for _, s := range VisibleStatuses(role) {
		if s == status {
			return true
		}
	}
	return false
}
