package role

import "github.com/gleeworld/approvals/internal/domain/workflow"

// Required returns the minimum tier for a trigger. RESUBMIT carries no tier
// requirement; it is instead restricted to the request's owner.
func Required(trigger workflow.Trigger) Tier {
	switch trigger {
	case workflow.TriggerForward, workflow.TriggerReturn:
		return TierSecretary
	case workflow.TriggerApprove, workflow.TriggerDeny:
		return TierDirector
	default:
		return TierMember
	}
}

// Allows reports whether an actor with the given tier may fire the trigger.
// This gates authorization only; whether the edge exists from the current
// state is the state machine's concern.
func Allows(trigger workflow.Trigger, tier Tier, isRequester bool) bool {
	if trigger == workflow.TriggerResubmit {
		return isRequester
	}
	return tier >= Required(trigger)
}

// CanOverrideDelete reports whether the tier may delete a request outright,
// bypassing the transition graph entirely.
func CanOverrideDelete(tier Tier) bool {
	return tier >= TierDirector
}
