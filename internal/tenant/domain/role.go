package domain

import "strings"

// Role is the closed, ordered tenant role set: viewer < editor < admin.
type Role string

const (
	RoleViewer Role = "viewer"
	RoleEditor Role = "editor"
	RoleAdmin  Role = "admin"
)

var roleRanks = map[Role]int{
	RoleViewer: 1,
	RoleEditor: 2,
	RoleAdmin:  3,
}

// Rank returns the role's position in the total order; unknown roles rank 0.
func (r Role) Rank() int {
	return roleRanks[r]
}

// Valid reports whether r is one of the closed role set.
func (r Role) Valid() bool {
	return r.Rank() > 0
}

// ParseRole normalizes a raw role string, reporting whether it is known.
func ParseRole(raw string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(raw)))
	return r, r.Valid()
}

// Authorize allows the membership when its rank meets the lowest acceptable
// rank among required. Passing several roles means "any of these suffices",
// so the gate is the minimum of their ranks. Absence of a membership is a
// distinct failure from an insufficient one.
func Authorize(m *Membership, required ...Role) error {
	if m == nil {
		return ErrMembershipRequired
	}
	if len(required) == 0 {
		return nil
	}

	minRank := 0
	for _, r := range required {
		rank := r.Rank()
		if rank == 0 {
			continue
		}
		if minRank == 0 || rank < minRank {
			minRank = rank
		}
	}
	if minRank == 0 {
		return ErrForbidden
	}
	if m.Role.Rank() < minRank {
		return ErrForbidden
	}
	return nil
}
