package ports

import "github.com/eventhub/storefront/internal/core/domain"

// Catalog is the read-only listing reference data.
type Catalog interface {
	List() []domain.Listing
	// Get returns domain.ErrListingNotFound for unknown ids.
	Get(id int) (domain.Listing, error)
}
