package domain

import (
	"errors"
	"testing"
)

func member(role Role) *Membership {
	return &Membership{TenantID: "cafe1", UserID: "u1", Role: role}
}

func TestAuthorizeRoleOrdering(t *testing.T) {
	cases := []struct {
		name     string
		m        *Membership
		required []Role
		want     error
	}{
		{"editor meets editor-or-admin", member(RoleEditor), []Role{RoleEditor, RoleAdmin}, nil},
		{"viewer denied admin", member(RoleViewer), []Role{RoleAdmin}, ErrForbidden},
		{"editor denied admin-only", member(RoleEditor), []Role{RoleAdmin}, ErrForbidden},
		{"admin meets everything", member(RoleAdmin), []Role{RoleViewer}, nil},
		{"viewer meets viewer", member(RoleViewer), []Role{RoleViewer}, nil},
		{"viewer meets viewer-or-admin", member(RoleViewer), []Role{RoleViewer, RoleAdmin}, nil},
		{"absent membership", nil, []Role{RoleViewer}, ErrMembershipRequired},
		{"no requirement passes", member(RoleViewer), nil, nil},
		{"unknown required role denies", member(RoleAdmin), []Role{Role("owner")}, ErrForbidden},
		{"unknown member role denies", member(Role("barista")), []Role{RoleViewer}, ErrForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Authorize(tc.m, tc.required...)
			if tc.want == nil {
				if err != nil {
					t.Fatalf("authorize: %v", err)
				}
				return
			}
			if !errors.Is(err, tc.want) {
				t.Fatalf("authorize = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestAuthorizeMinimumOfRequiredSet(t *testing.T) {
	// [editor, admin] is satisfiable at editor rank; the set reads "any of
	// these", gated at the lowest.
	if err := Authorize(member(RoleEditor), RoleAdmin, RoleEditor); err != nil {
		t.Fatalf("editor should satisfy [admin, editor]: %v", err)
	}
	if err := Authorize(member(RoleViewer), RoleAdmin, RoleEditor); !errors.Is(err, ErrForbidden) {
		t.Fatalf("viewer should not satisfy [admin, editor], got %v", err)
	}
}

func TestParseRole(t *testing.T) {
	if r, ok := ParseRole(" Admin "); !ok || r != RoleAdmin {
		t.Fatalf("parse admin: %v %v", r, ok)
	}
	if _, ok := ParseRole("owner"); ok {
		t.Fatal("owner should not parse")
	}
	if RoleViewer.Rank() >= RoleEditor.Rank() || RoleEditor.Rank() >= RoleAdmin.Rank() {
		t.Fatal("role order must be viewer < editor < admin")
	}
}
