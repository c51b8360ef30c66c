package workflow

import (
	domainwf "github.com/gleeworld/approvals/internal/domain/workflow"
)

// BuildRequestStateMachine creates a state machine configured with the
// request approval graph. The same graph serves both excuse and ticket
// requests.
//
//	pending   --FORWARD-->  forwarded
//	pending   --RETURN--->  returned
//	forwarded --APPROVE-->  approved (terminal)
//	forwarded --DENY----->  denied   (terminal)
//	returned  --RESUBMIT->  pending
func BuildRequestStateMachine(initialState domainwf.State) domainwf.StateMachine {
	builder := domainwf.NewBuilder()

	builder.Configure(domainwf.StatePending).
		Permit(domainwf.TriggerForward, domainwf.StateForwarded).
		Permit(domainwf.TriggerReturn, domainwf.StateReturned)

	builder.Configure(domainwf.StateForwarded).
		Permit(domainwf.TriggerApprove, domainwf.StateApproved).
		Permit(domainwf.TriggerDeny, domainwf.StateDenied)

	builder.Configure(domainwf.StateReturned).
		Permit(domainwf.TriggerResubmit, domainwf.StatePending)

	// approved and denied are terminal, no outbound edges

	return builder.Build(initialState)
}
