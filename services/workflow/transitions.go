package workflow

import (
	"github.com/contentpulse/contentpulse-backend/models"
	"github.com/contentpulse/contentpulse-backend/services"
	"github.com/contentpulse/contentpulse-backend/services/tenancy"
)

// DraftAction is a requested operation on a content draft's lifecycle
type DraftAction string

const (
	ActionSubmit           DraftAction = "submit"
	ActionApprove          DraftAction = "approve"
	ActionRequestRevision  DraftAction = "request_revision"
	ActionReject           DraftAction = "reject"
	ActionResubmit         DraftAction = "resubmit"
	ActionPublishSucceeded DraftAction = "publish_succeeded"
)

// draftTransitions is the complete draft state machine. Any (state, action)
// pair absent from this table is an invalid transition. Rejected and
// Published appear in no row: they are terminal.
var draftTransitions = map[models.DraftStatus]map[DraftAction]models.DraftStatus{
	models.DraftStatusDraft: {
		ActionSubmit: models.DraftStatusAwaitingFeedback,
	},
	models.DraftStatusAwaitingFeedback: {
		ActionApprove:         models.DraftStatusApproved,
		ActionRequestRevision: models.DraftStatusAwaitingRevision,
		ActionReject:          models.DraftStatusRejected,
	},
	models.DraftStatusAwaitingRevision: {
		ActionResubmit: models.DraftStatusAwaitingFeedback,
	},
	models.DraftStatusApproved: {
		ActionPublishSucceeded: models.DraftStatusPublished,
	},
}

// actionTargets names the state each action tries to reach, for error
// reporting on invalid transitions
var actionTargets = map[DraftAction]models.DraftStatus{
	ActionSubmit:           models.DraftStatusAwaitingFeedback,
	ActionApprove:          models.DraftStatusApproved,
	ActionRequestRevision:  models.DraftStatusAwaitingRevision,
	ActionReject:           models.DraftStatusRejected,
	ActionResubmit:         models.DraftStatusAwaitingFeedback,
	ActionPublishSucceeded: models.DraftStatusPublished,
}

// draftAuditActions maps each action to its audit log entry type
var draftAuditActions = map[DraftAction]models.AuditAction{
	ActionSubmit:           models.AuditActionDraftSubmitted,
	ActionApprove:          models.AuditActionDraftApproved,
	ActionRequestRevision:  models.AuditActionRevisionRequested,
	ActionReject:           models.AuditActionDraftRejected,
	ActionResubmit:         models.AuditActionDraftResubmitted,
	ActionPublishSucceeded: models.AuditActionDraftPublished,
}

// nextDraftStatus validates a requested action against the current state,
// returning the target state or InvalidTransition with the offending
// from/to pair. The stored state is never touched on failure.
func nextDraftStatus(current models.DraftStatus, action DraftAction) (models.DraftStatus, error) {
	if targets, ok := draftTransitions[current]; ok {
		if to, ok := targets[action]; ok {
			return to, nil
		}
	}
	return "", services.NewInvalidTransition(string(current), string(actionTargets[action]))
}

// PermittedDraftActions computes the actions a context may request on a
// draft in its current state, combining the state machine with role guards
func PermittedDraftActions(tc *tenancy.Context, draft *models.ContentDraft) []DraftAction {
	targets, ok := draftTransitions[draft.Status]
	if !ok {
		return nil
	}

	var actions []DraftAction
	for action := range targets {
		if draftActionAllowed(tc, draft, action) {
			actions = append(actions, action)
		}
	}
	return actions
}

// draftActionAllowed applies the role guard for one action. Submit and
// resubmit belong to the creator (or an admin); review actions belong to
// the client role (or an admin). The publish transition is driven by the
// publish coordinator on behalf of anyone holding draft:publish.
func draftActionAllowed(tc *tenancy.Context, draft *models.ContentDraft, action DraftAction) bool {
	switch action {
	case ActionSubmit, ActionResubmit:
		return tc.PrincipalID == draft.CreatorID || tc.IsAdmin()
	case ActionApprove, ActionRequestRevision, ActionReject:
		return tc.CanReview()
	case ActionPublishSucceeded:
		return tc.HasPermission(models.PermDraftPublish)
	default:
		return false
	}
}
