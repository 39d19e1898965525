package model

// Role is a room membership role. The set is closed: every membership
// row holds exactly one of these values.
type Role string

const (
	RoleOwner   Role = "owner"
	RoleAdmin   Role = "admin"
	RoleStudent Role = "student"
)

// ParseRole validates a raw role string against the closed enumeration.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleOwner, RoleAdmin, RoleStudent:
		return Role(s), true
	default:
		return "", false
	}
}

// RoleSet is an explicit set of roles allowed to perform an action.
type RoleSet map[Role]struct{}

// NewRoleSet builds a RoleSet from its members.
func NewRoleSet(roles ...Role) RoleSet {
	s := make(RoleSet, len(roles))
	for _, r := range roles {
		s[r] = struct{}{}
	}
	return s
}

// Contains reports whether the role is in the set.
func (s RoleSet) Contains(r Role) bool {
	_, ok := s[r]
	return ok
}

// Allowed-role sets per room action. Keeping these as data makes each
// rule auditable in one place instead of scattered string comparisons.
var (
	// RolesManageMembers may invite users and assign quizzes.
	RolesManageMembers = NewRoleSet(RoleOwner, RoleAdmin)
	// RolesDeleteRoom may delete the room.
	RolesDeleteRoom = NewRoleSet(RoleOwner)
	// RolesChangeRole may promote/demote between admin and student.
	RolesChangeRole = NewRoleSet(RoleOwner)
	// RolesInvitable are the roles an invitation may carry.
	RolesInvitable = NewRoleSet(RoleAdmin, RoleStudent)
)

// CanInvite reports whether an actor with the given role may send an
// invitation carrying inviteRole. Owners may invite admins and students;
// admins may invite students only.
func CanInvite(actor, inviteRole Role) bool {
	if !RolesManageMembers.Contains(actor) || !RolesInvitable.Contains(inviteRole) {
		return false
	}
	if actor == RoleAdmin && inviteRole == RoleAdmin {
		return false
	}
	return true
}

// CanRemove reports whether an actor may remove a member holding target.
// The owner membership is never removable.
func CanRemove(actor, target Role) bool {
	if target == RoleOwner {
		return false
	}
	switch actor {
	case RoleOwner:
		return true
	case RoleAdmin:
		return target == RoleStudent
	default:
		return false
	}
}

// CanChangeRole reports whether an actor may change a member's role to
// newRole. Only the owner may, the target must not be the owner, and the
// resulting role must be admin or student.
func CanChangeRole(actor, target, newRole Role) bool {
	return RolesChangeRole.Contains(actor) &&
		target != RoleOwner &&
		RolesInvitable.Contains(newRole)
}
