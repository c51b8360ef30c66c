package role

import (
	"testing"

	"github.com/gleeworld/approvals/internal/domain/entity"
	"github.com/gleeworld/approvals/internal/domain/workflow"
)

func TestTierOf(t *testing.T) {
	tests := []struct {
		name     string
		profile  *entity.Profile
		expected Tier
	}{
		{"nil profile", nil, TierMember},
		{"plain member", &entity.Profile{Role: "member"}, TierMember},
		{"empty role", &entity.Profile{}, TierMember},
		{"secretary role", &entity.Profile{Role: entity.RoleSecretary}, TierSecretary},
		{"director role", &entity.Profile{Role: entity.RoleDirector}, TierDirector},
		{"admin flag", &entity.Profile{IsAdmin: true}, TierDirector},
		{"super admin flag", &entity.Profile{IsSuperAdmin: true}, TierDirector},
		{"admin flag beats member role", &entity.Profile{Role: "member", IsAdmin: true}, TierDirector},
		{"admin flag beats secretary role", &entity.Profile{Role: entity.RoleSecretary, IsAdmin: true}, TierDirector},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TierOf(tt.profile); got != tt.expected {
				t.Errorf("TierOf() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestTier_String(t *testing.T) {
	tests := []struct {
		tier     Tier
		expected string
	}{
		{TierMember, "member"},
		{TierSecretary, "secretary"},
		{TierDirector, "director"},
	}

	for _, tt := range tests {
		if got := tt.tier.String(); got != tt.expected {
			t.Errorf("Tier.String() = %v, want %v", got, tt.expected)
		}
	}
}

func TestRequired(t *testing.T) {
	tests := []struct {
		trigger  workflow.Trigger
		expected Tier
	}{
		{workflow.TriggerForward, TierSecretary},
		{workflow.TriggerReturn, TierSecretary},
		{workflow.TriggerApprove, TierDirector},
		{workflow.TriggerDeny, TierDirector},
		{workflow.TriggerResubmit, TierMember},
	}

	for _, tt := range tests {
		t.Run(string(tt.trigger), func(t *testing.T) {
			if got := Required(tt.trigger); got != tt.expected {
				t.Errorf("Required() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestAllows(t *testing.T) {
	tests := []struct {
		name        string
		trigger     workflow.Trigger
		tier        Tier
		isRequester bool
		expected    bool
	}{
		{"member cannot forward", workflow.TriggerForward, TierMember, false, false},
		{"secretary can forward", workflow.TriggerForward, TierSecretary, false, true},
		{"director can forward", workflow.TriggerForward, TierDirector, false, true},
		{"secretary can return", workflow.TriggerReturn, TierSecretary, false, true},
		{"secretary cannot approve", workflow.TriggerApprove, TierSecretary, false, false},
		{"secretary cannot deny", workflow.TriggerDeny, TierSecretary, false, false},
		{"director can approve", workflow.TriggerApprove, TierDirector, false, true},
		{"director can deny", workflow.TriggerDeny, TierDirector, false, true},
		{"requester can resubmit", workflow.TriggerResubmit, TierMember, true, true},
		{"non-requester cannot resubmit", workflow.TriggerResubmit, TierMember, false, false},
		{"director cannot resubmit someone else's request", workflow.TriggerResubmit, TierDirector, false, false},
		{"requester tier irrelevant for resubmit", workflow.TriggerResubmit, TierDirector, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Allows(tt.trigger, tt.tier, tt.isRequester); got != tt.expected {
				t.Errorf("Allows() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestCanOverrideDelete(t *testing.T) {
	tests := []struct {
		tier     Tier
		expected bool
	}{
		{TierMember, false},
		{TierSecretary, false},
		{TierDirector, true},
	}

	for _, tt := range tests {
		t.Run(tt.tier.String(), func(t *testing.T) {
			if got := CanOverrideDelete(tt.tier); got != tt.expected {
				t.Errorf("CanOverrideDelete() = %v, want %v", got, tt.expected)
			}
		})
	}
}
