package workflow

import (
	"context"
	"errors"
	"testing"
)

func TestState_IsTerminal(t *testing.T) {
	tests := []struct {
		state    State
		expected bool
	}{
		{StatePending, false},
		{StateForwarded, false},
		{StateReturned, false},
		{StateApproved, true},
		{StateDenied, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			if got := tt.state.IsTerminal(); got != tt.expected {
				t.Errorf("State.IsTerminal() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestState_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		state    State
		expected bool
	}{
		{"pending", StatePending, true},
		{"denied", StateDenied, true},
		{"unknown state", State("archived"), false},
		{"empty state", State(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.IsValid(); got != tt.expected {
				t.Errorf("State.IsValid() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestState_String(t *testing.T) {
	if got := StateForwarded.String(); got != "forwarded" {
		t.Errorf("State.String() = %v, want %v", got, "forwarded")
	}
}

func TestTrigger_String(t *testing.T) {
	if got := TriggerForward.String(); got != "FORWARD" {
		t.Errorf("Trigger.String() = %v, want %v", got, "FORWARD")
	}
}

func TestBuilder_Configure(t *testing.T) {
	builder := NewBuilder()

	config := builder.Configure(StatePending)
	if config == nil {
		t.Fatal("Configure() returned nil")
	}

	config2 := builder.Configure(StatePending)
	if config != config2 {
		t.Error("Configure() should return same config for same state")
	}
}

func TestBuilder_ConfigurePanicsOnInvalidState(t *testing.T) {
	builder := NewBuilder()

	defer func() {
		if r := recover(); r == nil {
			t.Error("Configure() should panic on invalid state")
		}
	}()

	builder.Configure(State("archived"))
}

func TestBuilder_BuildPanicsOnInvalidInitialState(t *testing.T) {
	builder := NewBuilder()

	defer func() {
		if r := recover(); r == nil {
			t.Error("Build() should panic on invalid initial state")
		}
	}()

	builder.Build(State("archived"))
}

func TestStateConfiguration_Permit(t *testing.T) {
	builder := NewBuilder()
	builder.Configure(StatePending).
		Permit(TriggerForward, StateForwarded)

	machine := builder.Build(StatePending)

	if !machine.CanFire(TriggerForward) {
		t.Error("CanFire() should return true for permitted trigger")
	}

	if err := machine.Fire(context.Background(), TriggerForward); err != nil {
		t.Errorf("Fire() failed: %v", err)
	}

	if machine.State() != StateForwarded {
		t.Errorf("State after Fire() = %v, want %v", machine.State(), StateForwarded)
	}
}

func TestStateConfiguration_PermitIf_GuardPasses(t *testing.T) {
	builder := NewBuilder()
	builder.Configure(StatePending).
		PermitIf(TriggerForward, StateForwarded, func(ctx context.Context) bool {
			return true
		})

	machine := builder.Build(StatePending)

	if err := machine.Fire(context.Background(), TriggerForward); err != nil {
		t.Errorf("Fire() failed: %v", err)
	}

	if machine.State() != StateForwarded {
		t.Errorf("State after Fire() = %v, want %v", machine.State(), StateForwarded)
	}
}

func TestStateConfiguration_PermitIf_GuardFails(t *testing.T) {
	builder := NewBuilder()
	builder.Configure(StatePending).
		PermitIf(TriggerForward, StateForwarded, func(ctx context.Context) bool {
			return false
		})

	machine := builder.Build(StatePending)

	err := machine.Fire(context.Background(), TriggerForward)
	if err == nil {
		t.Fatal("Fire() should fail when guard fails")
	}

	if !errors.Is(err, ErrGuardFailed) {
		t.Errorf("Fire() error = %v, want %v", err, ErrGuardFailed)
	}

	if machine.State() != StatePending {
		t.Errorf("State should remain %v after failed Fire(), got %v", StatePending, machine.State())
	}
}

func TestStateConfiguration_PermitPanicsOnInvalidState(t *testing.T) {
	builder := NewBuilder()

	defer func() {
		if r := recover(); r == nil {
			t.Error("Permit() should panic on invalid target state")
		}
	}()

	builder.Configure(StatePending).Permit(TriggerForward, State("archived"))
}

func TestStateMachine_CanFire(t *testing.T) {
	builder := NewBuilder()
	builder.Configure(StatePending).
		Permit(TriggerForward, StateForwarded).
		Permit(TriggerReturn, StateReturned)

	machine := builder.Build(StatePending)

	tests := []struct {
		trigger  Trigger
		expected bool
	}{
		{TriggerForward, true},
		{TriggerReturn, true},
		{TriggerApprove, false},
		{TriggerDeny, false},
		{TriggerResubmit, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.trigger), func(t *testing.T) {
			if got := machine.CanFire(tt.trigger); got != tt.expected {
				t.Errorf("CanFire() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestStateMachine_Fire_InvalidTransition(t *testing.T) {
	builder := NewBuilder()
	builder.Configure(StatePending).
		Permit(TriggerForward, StateForwarded)

	machine := builder.Build(StatePending)

	err := machine.Fire(context.Background(), TriggerApprove)
	if err == nil {
		t.Fatal("Fire() should fail for invalid transition")
	}

	if !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Fire() error = %v, want %v", err, ErrInvalidTransition)
	}

	if machine.State() != StatePending {
		t.Errorf("State should remain %v after failed Fire(), got %v", StatePending, machine.State())
	}
}

func TestStateMachine_Fire_NoConfiguration(t *testing.T) {
	builder := NewBuilder()
	machine := builder.Build(StateApproved)

	err := machine.Fire(context.Background(), TriggerApprove)
	if err == nil {
		t.Fatal("Fire() should fail when no configuration exists")
	}

	if !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Fire() error = %v, want %v", err, ErrInvalidTransition)
	}
}

func TestStateMachine_PermittedTriggers(t *testing.T) {
	builder := NewBuilder()
	builder.Configure(StatePending).
		Permit(TriggerForward, StateForwarded).
		Permit(TriggerReturn, StateReturned)

	machine := builder.Build(StatePending)

	triggers := machine.PermittedTriggers()
	if len(triggers) != 2 {
		t.Errorf("PermittedTriggers() returned %d triggers, want 2", len(triggers))
	}

	hasForward := false
	hasReturn := false
	for _, trigger := range triggers {
		if trigger == TriggerForward {
			hasForward = true
		}
		if trigger == TriggerReturn {
			hasReturn = true
		}
	}

	if !hasForward || !hasReturn {
		t.Errorf("PermittedTriggers() = %v, want both TriggerForward and TriggerReturn", triggers)
	}
}

func TestStateMachine_PermittedTriggers_NoConfiguration(t *testing.T) {
	builder := NewBuilder()
	machine := builder.Build(StateDenied)

	triggers := machine.PermittedTriggers()
	if len(triggers) != 0 {
		t.Errorf("PermittedTriggers() returned %d triggers, want 0", len(triggers))
	}
}

func TestStateMachine_Immutability(t *testing.T) {
	builder := NewBuilder()
	builder.Configure(StatePending).
		Permit(TriggerForward, StateForwarded)

	machine1 := builder.Build(StatePending)
	machine2 := builder.Build(StatePending)

	if err := machine1.Fire(context.Background(), TriggerForward); err != nil {
		t.Errorf("Fire() failed: %v", err)
	}

	if machine2.State() != StatePending {
		t.Errorf("machine2 state = %v, want %v (machines should be independent)", machine2.State(), StatePending)
	}

	if machine1.State() != StateForwarded {
		t.Errorf("machine1 state = %v, want %v", machine1.State(), StateForwarded)
	}
}

func TestStateMachine_ApprovalWorkflow(t *testing.T) {
	builder := NewBuilder()

	builder.Configure(StatePending).
		Permit(TriggerForward, StateForwarded).
		Permit(TriggerReturn, StateReturned)

	builder.Configure(StateForwarded).
		Permit(TriggerApprove, StateApproved).
		Permit(TriggerDeny, StateDenied)

	builder.Configure(StateReturned).
		Permit(TriggerResubmit, StatePending)

	machine := builder.Build(StatePending)

	steps := []struct {
		trigger       Trigger
		expectedState State
	}{
		{TriggerReturn, StateReturned},
		{TriggerResubmit, StatePending},
		{TriggerForward, StateForwarded},
		{TriggerApprove, StateApproved},
	}

	for i, step := range steps {
		if err := machine.Fire(context.Background(), step.trigger); err != nil {
			t.Errorf("Step %d: Fire(%v) failed: %v", i, step.trigger, err)
		}

		if machine.State() != step.expectedState {
			t.Errorf("Step %d: State after Fire(%v) = %v, want %v", i, step.trigger, machine.State(), step.expectedState)
		}
	}

	if !machine.State().IsTerminal() {
		t.Error("Final state should be terminal")
	}

	triggers := machine.PermittedTriggers()
	if len(triggers) != 0 {
		t.Errorf("Terminal state should have 0 permitted triggers, got %d", len(triggers))
	}
}

func TestStateMachine_DenialPath(t *testing.T) {
	builder := NewBuilder()
	builder.Configure(StatePending).
		Permit(TriggerForward, StateForwarded)

	builder.Configure(StateForwarded).
		Permit(TriggerDeny, StateDenied)

	machine := builder.Build(StatePending)

	if err := machine.Fire(context.Background(), TriggerForward); err != nil {
		t.Errorf("Fire(TriggerForward) failed: %v", err)
	}

	if err := machine.Fire(context.Background(), TriggerDeny); err != nil {
		t.Errorf("Fire(TriggerDeny) failed: %v", err)
	}

	if machine.State() != StateDenied {
		t.Errorf("State = %v, want %v", machine.State(), StateDenied)
	}

	if !machine.State().IsTerminal() {
		t.Error("Denied state should be terminal")
	}
}
