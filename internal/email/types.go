package email

import "time"

// Action is the closed set of account moderation events a user can be
// notified about. Adding a value requires extending the subject and
// template switches in templates.go.
type Action string

const (
	ActionBanned      Action = "banned"
	ActionSuspended   Action = "suspended"
	ActionDeleted     Action = "deleted"
	ActionRestored    Action = "restored"
	ActionRoleChanged Action = "role_changed"
)

// Actions lists every Action value.
var Actions = []Action{ActionBanned, ActionSuspended, ActionDeleted, ActionRestored, ActionRoleChanged}

func (a Action) Valid() bool {
	switch a {
	case ActionBanned, ActionSuspended, ActionDeleted, ActionRestored, ActionRoleChanged:
		return true
	}
	return false
}

// VerificationData carries both verification artifacts; the message offers
// the link and the code as alternative paths.
type VerificationData struct {
	Link string
	Code string
}

// AccountActionData describes a moderation notification. Until is only set
// for suspensions, NewRole only for role changes.
type AccountActionData struct {
	Action    Action
	Reason    string
	Until     *time.Time
	AdminName string
	UserName  string
	NewRole   string
}

// Provider is the dispatch contract the services depend on. Callers treat
// failures as best-effort: a send error never reverses a state change.
type Provider interface {
	SendVerification(to string, data VerificationData) error
	SendAccountAction(to string, data AccountActionData) error
}
