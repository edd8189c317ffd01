package domain

import (
	"fmt"
	"time"
)

// Credential providers.
const (
	ProviderPassword  = "password"
	ProviderFederated = "federated"
)

// Credential is the identity provider's private account record. It is never
// returned over the API.
type Credential struct {
	ID           string `bson:"_id"`
	Email        string `bson:"email"`
	DisplayName  string `bson:"display_name"`
	PasswordHash string `bson:"password_hash,omitempty"`
	Provider     string `bson:"provider"`
	// Subject is the federated provider's account id, set once linked.
	Subject   string    `bson:"subject,omitempty"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func (c *Credential) Validate() error {
	if c.ID == "" || c.Email == "" {
		return fmt.Errorf("%w: credential is missing its id or email", ErrInvalidRecord)
	}
	if c.PasswordHash == "" && c.Subject == "" {
		return fmt.Errorf("%w: credential %s has no way to sign in", ErrInvalidRecord, c.ID)
	}
	return nil
}

// Identity returns the public view of the credential.
func (c *Credential) Identity() Identity {
	return Identity{ID: c.ID, DisplayName: c.DisplayName, Email: c.Email}
}
