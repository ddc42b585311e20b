package event

import (
	"errors"
	"strings"
	"time"
)

type RegistrationStatus string

const (
	RegistrationOpen      RegistrationStatus = "OPEN"
	RegistrationClosed    RegistrationStatus = "CLOSED"
	RegistrationSuspended RegistrationStatus = "SUSPENDED"
)

var (
	ErrNotFound      = errors.New("event not found")
	ErrNotOwner      = errors.New("user is not the owner of the event")
	ErrDateRange     = errors.New("end datetime is before start datetime")
	ErrUnknownStatus = errors.New("unknown registration status")
)

// ParseRegistrationStatus resolves a status name case-insensitively,
// the same way the list filter accepts it on the wire.
func ParseRegistrationStatus(name string) (RegistrationStatus, error) {
	switch strings.ToUpper(name) {
	case string(RegistrationOpen):
		return RegistrationOpen, nil
	case string(RegistrationClosed):
		return RegistrationClosed, nil
	case string(RegistrationSuspended):
		return RegistrationSuspended, nil
	}

	return "", ErrUnknownStatus
}

type Event struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	// nil when the reader is not the owner
	CreatedDateTime    *time.Time         `json:"createdDateTime"`
	StartDateTime      time.Time          `json:"startDateTime"`
	EndDateTime        time.Time          `json:"endDateTime"`
	Location           string             `json:"location"`
	OwnerID            int64              `json:"ownerId"`
	ParticipantLimit   int                `json:"participantLimit"`
	RegistrationStatus RegistrationStatus `json:"registrationStatus"`
}

type CreateEventRequest struct {
	Name               string             `json:"name" binding:"required"`
	Description        string             `json:"description" binding:"required"`
	StartDateTime      time.Time          `json:"startDateTime" binding:"required"`
	EndDateTime        time.Time          `json:"endDateTime" binding:"required"`
	Location           string             `json:"location" binding:"required"`
	ParticipantLimit   int                `json:"participantLimit" binding:"omitempty,gte=0"`
	RegistrationStatus RegistrationStatus `json:"registrationStatus" binding:"required,oneof=OPEN CLOSED SUSPENDED"`
}

// patch payload: nil fields are left untouched on the stored entity
type UpdateEventRequest struct {
	Name               *string             `json:"name" binding:"omitempty,min=1"`
	Description        *string             `json:"description" binding:"omitempty,min=1"`
	StartDateTime      *time.Time          `json:"startDateTime"`
	EndDateTime        *time.Time          `json:"endDateTime"`
	Location           *string             `json:"location" binding:"omitempty,min=1"`
	ParticipantLimit   *int                `json:"participantLimit" binding:"omitempty,gte=0"`
	RegistrationStatus *RegistrationStatus `json:"registrationStatus" binding:"omitempty,oneof=OPEN CLOSED SUSPENDED"`
}

// with pointers if optional, it will be nil
type SearchFilter struct {
	OwnerID *int64
	Status  *RegistrationStatus
}
