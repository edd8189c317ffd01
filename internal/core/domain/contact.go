package domain

import (
	"fmt"
	"time"
)

// ContactMessage is written from the public contact form and only read or
// deleted by admins.
type ContactMessage struct {
	ID        string    `json:"id" bson:"_id"`
	FirstName string    `json:"first_name" bson:"first_name"`
	LastName  string    `json:"last_name" bson:"last_name"`
	Email     string    `json:"email" bson:"email"`
	Message   string    `json:"message" bson:"message"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}

func (m *ContactMessage) Validate() error {
	if m.ID == "" || m.Email == "" || m.Message == "" {
		return fmt.Errorf("%w: contact message is incomplete", ErrInvalidRecord)
	}
	return nil
}
