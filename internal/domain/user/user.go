package user

import "errors"

var (
	ErrNotFound = errors.New("user was not found")
	ErrUnknown  = errors.New("unknown user service error")
)

// User mirrors the payload served by the remote user service. It is
// fetched per request and never persisted here.
type User struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	AboutMe  string `json:"aboutMe"`
}
