package team

import "errors"

type Role string

const (
	RoleMember  Role = "MEMBER"
	RoleManager Role = "MANAGER"
)

var (
	ErrNotFound      = errors.New("team member not found")
	ErrNotAuthorized = errors.New("user is not the owner or a manager of the event")
)

// MemberKey is the composite identity of a team member row. One role
// per (event, user) pair; comparisons go through the whole key, never
// a single half of it.
type MemberKey struct {
	EventID int64
	UserID  int64
}

type TeamMember struct {
	EventID int64 `json:"eventId"`
	UserID  int64 `json:"userId"`
	Role    Role  `json:"role"`
}

func (m TeamMember) Key() MemberKey {
	return MemberKey{EventID: m.EventID, UserID: m.UserID}
}

type NewTeamMemberRequest struct {
	EventID int64 `json:"eventId" binding:"required"`
	UserID  int64 `json:"userId" binding:"required"`
	Role    Role  `json:"role" binding:"required,oneof=MEMBER MANAGER"`
}

type UpdateTeamMemberRequest struct {
	Role Role `json:"role" binding:"required,oneof=MEMBER MANAGER"`
}
