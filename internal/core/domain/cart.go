package domain

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// CartLine is a listing snapshot placed in an identity's cart. Lines are keyed
// by (identity, listing id), so adding the same listing twice overwrites.
type CartLine struct {
	ID          string    `json:"id" bson:"line_id"`
	IdentityID  string    `json:"-" bson:"user_id"`
	ListingID   int       `json:"listing_id" bson:"listing_id"`
	Title       string    `json:"title" bson:"title"`
	Image       string    `json:"image" bson:"image"`
	Cost        string    `json:"cost" bson:"cost"`
	Description string    `json:"description" bson:"description"`
	Location    string    `json:"location" bson:"location"`
	Duration    string    `json:"duration" bson:"duration"`
	AddedAt     time.Time `json:"added_at" bson:"added_at"`
}

// LineID returns the cart key used for a listing.
func LineID(listingID int) string {
	return strconv.Itoa(listingID)
}

// NewCartLine snapshots a listing into a cart line stamped with addedAt.
func NewCartLine(identityID string, l Listing, addedAt time.Time) CartLine {
	return CartLine{
		ID:          LineID(l.ID),
		IdentityID:  identityID,
		ListingID:   l.ID,
		Title:       l.Title,
		Image:       l.Image,
		Cost:        l.Cost,
		Description: l.Description,
		Location:    l.Location,
		Duration:    l.Duration,
		AddedAt:     addedAt,
	}
}

// Validate checks the line before it is written or after it is decoded.
func (c *CartLine) Validate() error {
	if c.IdentityID == "" {
		return fmt.Errorf("%w: cart line has no owner", ErrInvalidRecord)
	}
	if c.ID == "" || c.ID != LineID(c.ListingID) {
		return fmt.Errorf("%w: cart line id %q does not match listing %d", ErrInvalidRecord, c.ID, c.ListingID)
	}
	return nil
}

// ParseCost extracts the digits from a display cost string such as "₹1,200"
// and parses them as a base-10 integer. Strings without digits parse as 0;
// digit runs beyond int64 saturate at math.MaxInt64.
func ParseCost(cost string) int64 {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, cost)
	if digits == "" {
		return 0
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if errors.Is(err, strconv.ErrRange) {
		return math.MaxInt64
	}
	if err != nil {
		return 0
	}
	return n
}

// ComputeTotal sums ParseCost over every line, saturating at math.MaxInt64.
func ComputeTotal(lines []CartLine) int64 {
	var total int64
	for _, l := range lines {
		cost := ParseCost(l.Cost)
		if total > math.MaxInt64-cost {
			return math.MaxInt64
		}
		total += cost
	}
	return total
}

// CloneLines returns a deep copy of lines. CartLine holds only value fields,
// so a copied slice shares no state with the original.
func CloneLines(lines []CartLine) []CartLine {
	out := make([]CartLine, len(lines))
	copy(out, lines)
	return out
}
