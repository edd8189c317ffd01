package ports

import (
	"context"

	"github.com/eventhub/storefront/internal/core/domain"
)

type ContactInput struct {
	FirstName string
	LastName  string
	Email     string
	Message   string
}

type ContactService interface {
	Submit(ctx context.Context, in ContactInput) (*domain.ContactMessage, error)
	// List returns messages newest first, optionally filtered by a
	// case-insensitive search over names, email and message.
	List(ctx context.Context, search string) ([]domain.ContactMessage, error)
	Delete(ctx context.Context, id string) error
}
