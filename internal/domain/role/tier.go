package role

import "github.com/gleeworld/approvals/internal/domain/entity"

// Tier is an actor's review capability level. Tiers are ordered: a higher
// tier may do everything a lower tier may do.
type Tier int

const (
	// TierMember can submit requests and resubmit their own returned ones.
	TierMember Tier = iota
	// TierSecretary is the first-line reviewer: may forward or return a
	// pending request, but not finally decide it.
	TierSecretary
	// TierDirector is the final approver: may approve or deny a forwarded
	// request, and may override-delete outside the workflow graph.
	TierDirector
)

// String returns a human-readable tier name
func (t Tier) String() string {
	switch t {
	case TierSecretary:
		return "secretary"
	case TierDirector:
		return "director"
	default:
		return "member"
	}
}

// TierOf resolves an actor's tier from their stored profile. The admin flags
// and role string come from the profile record, never from client claims.
func TierOf(p *entity.Profile) Tier {
	if p == nil {
		return TierMember
	}
	if p.IsAdmin || p.IsSuperAdmin || p.Role == entity.RoleDirector {
		return TierDirector
	}
	if p.Role == entity.RoleSecretary {
		return TierSecretary
	}
	return TierMember
}
