// Package catalog serves the read-only listing reference data.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/eventhub/storefront/internal/core/domain"
)

//go:embed listings.json
var defaultListings []byte

// Catalog is an immutable, in-memory listing set.
type Catalog struct {
	listings []domain.Listing
	byID     map[int]domain.Listing
}

// Load reads the catalog from path, or the embedded default when path is empty.
func Load(path string) (*Catalog, error) {
	data := defaultListings
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("catalog: read %s: %w", path, err)
		}
		data = b
	}
	return Parse(data)
}

// Parse builds a catalog from a JSON array of listings. Ids must be positive
// and unique.
func Parse(data []byte) (*Catalog, error) {
	var listings []domain.Listing
	if err := json.Unmarshal(data, &listings); err != nil {
		return nil, fmt.Errorf("catalog: decode: %w", err)
	}

	byID := make(map[int]domain.Listing, len(listings))
	for _, l := range listings {
		if l.ID <= 0 {
			return nil, fmt.Errorf("catalog: listing %q has invalid id %d", l.Title, l.ID)
		}
		if _, dup := byID[l.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate listing id %d", l.ID)
		}
		byID[l.ID] = l
	}
	return &Catalog{listings: listings, byID: byID}, nil
}

// List returns a copy of every listing in file order.
func (c *Catalog) List() []domain.Listing {
	out := make([]domain.Listing, len(c.listings))
	copy(out, c.listings)
	return out
}

func (c *Catalog) Get(id int) (domain.Listing, error) {
	l, ok := c.byID[id]
	if !ok {
		return domain.Listing{}, domain.ErrListingNotFound
	}
	return l, nil
}
