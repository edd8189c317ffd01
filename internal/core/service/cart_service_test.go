package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventhub/storefront/internal/core/domain"
)

func TestCartService_ListWithoutIdentityIsEmpty(t *testing.T) {
	svc := NewCartService(newMemCart(), testCatalog(), zerolog.Nop())

	lines, err := svc.ListCart(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestCartService_AddIsIdempotentPerListing(t *testing.T) {
	repo := newMemCart()
	svc := NewCartService(repo, testCatalog(), zerolog.Nop())
	ctx := context.Background()

	first, err := svc.AddToCart(ctx, "u1", 2)
	require.NoError(t, err)
	assert.Equal(t, "2", first.ID)
	assert.Equal(t, "Concert Night", first.Title)

	_, err = svc.AddToCart(ctx, "u1", 2)
	require.NoError(t, err)

	lines, err := svc.ListCart(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, lines, 1)
}

func TestCartService_AddRequiresIdentity(t *testing.T) {
	svc := NewCartService(newMemCart(), testCatalog(), zerolog.Nop())

	_, err := svc.AddToCart(context.Background(), "", 1)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestCartService_AddUnknownListing(t *testing.T) {
	repo := newMemCart()
	svc := NewCartService(repo, testCatalog(), zerolog.Nop())

	_, err := svc.AddToCart(context.Background(), "u1", 99)
	assert.ErrorIs(t, err, domain.ErrListingNotFound)
	assert.Zero(t, repo.count("u1"))
}

func TestCartService_RemoveMissingLineSucceeds(t *testing.T) {
	repo := newMemCart()
	svc := NewCartService(repo, testCatalog(), zerolog.Nop())
	ctx := context.Background()

	_, err := svc.AddToCart(ctx, "u1", 1)
	require.NoError(t, err)

	require.NoError(t, svc.RemoveFromCart(ctx, "u1", "1"))
	require.NoError(t, svc.RemoveFromCart(ctx, "u1", "1"))
	assert.Zero(t, repo.count("u1"))
}

func TestCartService_PartitionsByIdentity(t *testing.T) {
	repo := newMemCart()
	svc := NewCartService(repo, testCatalog(), zerolog.Nop())
	ctx := context.Background()

	_, err := svc.AddToCart(ctx, "u1", 1)
	require.NoError(t, err)

	lines, err := svc.ListCart(ctx, "u2")
	require.NoError(t, err)
	assert.Empty(t, lines)
}
