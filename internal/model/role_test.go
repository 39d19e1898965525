package model

import "testing"

func TestParseRole(t *testing.T) {
	cases := []struct {
		in   string
		want Role
		ok   bool
	}{
		{"owner", RoleOwner, true},
		{"admin", RoleAdmin, true},
		{"student", RoleStudent, true},
		{"Owner", "", false},
		{"superadmin", "", false},
		{"", "", false},
	}

	for _, tc := range cases {
		got, ok := ParseRole(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Errorf("ParseRole(%q) = (%q, %v), want (%q, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestCanInvite(t *testing.T) {
	cases := []struct {
		actor, invite Role
		want          bool
	}{
		{RoleOwner, RoleAdmin, true},
		{RoleOwner, RoleStudent, true},
		{RoleOwner, RoleOwner, false},
		{RoleAdmin, RoleStudent, true},
		{RoleAdmin, RoleAdmin, false},
		{RoleAdmin, RoleOwner, false},
		{RoleStudent, RoleStudent, false},
		{RoleStudent, RoleAdmin, false},
	}

	for _, tc := range cases {
		if got := CanInvite(tc.actor, tc.invite); got != tc.want {
			t.Errorf("CanInvite(%s, %s) = %v, want %v", tc.actor, tc.invite, got, tc.want)
		}
	}
}

func TestCanRemove(t *testing.T) {
	cases := []struct {
		actor, target Role
		want          bool
	}{
		{RoleOwner, RoleAdmin, true},
		{RoleOwner, RoleStudent, true},
		{RoleOwner, RoleOwner, false},
		{RoleAdmin, RoleStudent, true},
		{RoleAdmin, RoleAdmin, false},
		{RoleAdmin, RoleOwner, false},
		{RoleStudent, RoleStudent, false},
		{RoleStudent, RoleOwner, false},
	}

	for _, tc := range cases {
		if got := CanRemove(tc.actor, tc.target); got != tc.want {
			t.Errorf("CanRemove(%s, %s) = %v, want %v", tc.actor, tc.target, got, tc.want)
		}
	}
}

func TestCanChangeRole(t *testing.T) {
	cases := []struct {
		actor, target, newRole Role
		want                   bool
	}{
		{RoleOwner, RoleStudent, RoleAdmin, true},
		{RoleOwner, RoleAdmin, RoleStudent, true},
		{RoleOwner, RoleOwner, RoleAdmin, false},
		{RoleOwner, RoleStudent, RoleOwner, false},
		{RoleAdmin, RoleStudent, RoleAdmin, false},
		{RoleStudent, RoleStudent, RoleAdmin, false},
	}

	for _, tc := range cases {
		if got := CanChangeRole(tc.actor, tc.target, tc.newRole); got != tc.want {
			t.Errorf("CanChangeRole(%s, %s, %s) = %v, want %v",
				tc.actor, tc.target, tc.newRole, got, tc.want)
		}
	}
}

func TestRoleSetContains(t *testing.T) {
	if !RolesManageMembers.Contains(RoleOwner) || !RolesManageMembers.Contains(RoleAdmin) {
		t.Error("RolesManageMembers should contain owner and admin")
	}
	if RolesManageMembers.Contains(RoleStudent) {
		t.Error("RolesManageMembers should not contain student")
	}
	if RolesDeleteRoom.Contains(RoleAdmin) {
		t.Error("RolesDeleteRoom should be owner-only")
	}
	if RolesInvitable.Contains(RoleOwner) {
		t.Error("owner must not be an invitable role")
	}
}
