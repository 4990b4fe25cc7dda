package types

import "github.com/google/uuid"

// User is the authenticated identity held by the session. Credential
// verification happens upstream; this core only carries the result.
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name" validate:"required"`
	Email        string    `json:"email" validate:"required,email"`
	ProfileImage string    `json:"profile_image,omitempty"`
}
