package domain

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCost(t *testing.T) {
	cases := map[string]int64{
		"₹1,200":  1200,
		"₹800":    800,
		"$ 15.00": 1500,
		"Free":    0,
		"":        0,
		"1 2 3":   123,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseCost(in), "ParseCost(%q)", in)
	}
	assert.Equal(t, int64(math.MaxInt64), ParseCost("₹99999999999999999999999"), "overflow saturates")
}

func TestComputeTotal(t *testing.T) {
	lines := []CartLine{{Cost: "₹1,200"}, {Cost: "₹800"}}
	assert.Equal(t, int64(2000), ComputeTotal(lines))
	assert.Equal(t, int64(0), ComputeTotal(nil))
	assert.Equal(t, int64(500), ComputeTotal([]CartLine{{Cost: "₹500"}, {Cost: "call us"}}))
	assert.Equal(t, int64(math.MaxInt64), ComputeTotal([]CartLine{{Cost: "₹9223372036854775000"}, {Cost: "₹1,000"}}))
}

func TestCloneLines_Independent(t *testing.T) {
	src := []CartLine{{ID: "1", Title: "Wedding"}}
	dst := CloneLines(src)
	dst[0].Title = "changed"
	assert.Equal(t, "Wedding", src[0].Title)
}

func TestNewCartLine_KeyedByListing(t *testing.T) {
	now := time.Now().UTC()
	line := NewCartLine("u1", Listing{ID: 7, Title: "Concert", Cost: "₹500"}, now)

	assert.Equal(t, "7", line.ID)
	assert.Equal(t, 7, line.ListingID)
	assert.Equal(t, "u1", line.IdentityID)
	assert.Equal(t, now, line.AddedAt)
	require.NoError(t, line.Validate())

	line.ID = "8"
	assert.ErrorIs(t, line.Validate(), ErrInvalidRecord)
}

func TestAverageRating(t *testing.T) {
	assert.Equal(t, 4.0, AverageRating([]Feedback{{Rating: 5}, {Rating: 4}, {Rating: 3}}))
	assert.Equal(t, 0.0, AverageRating(nil))
	assert.Equal(t, 4.7, AverageRating([]Feedback{{Rating: 5}, {Rating: 5}, {Rating: 4}}))
	assert.Equal(t, 4.5, AverageRating([]Feedback{{Rating: 5}, {Rating: 4}}))
}

func TestComputeFeedbackStats(t *testing.T) {
	st := ComputeFeedbackStats([]Feedback{{Rating: 5}, {Rating: 5}, {Rating: 3}})

	require.Len(t, st.Distribution, 5)
	assert.Equal(t, 3, st.Total)
	assert.Equal(t, 4.3, st.Average)
	assert.Equal(t, RatingBucket{Rating: 5, Count: 2, Percentage: 67}, st.Distribution[0])
	assert.Equal(t, RatingBucket{Rating: 3, Count: 1, Percentage: 33}, st.Distribution[2])
	assert.Equal(t, RatingBucket{Rating: 1}, st.Distribution[4])

	empty := ComputeFeedbackStats(nil)
	assert.Equal(t, 0, empty.Total)
	assert.Equal(t, 0.0, empty.Average)
	assert.Len(t, empty.Distribution, 5)
}

func TestValidateRating(t *testing.T) {
	assert.ErrorIs(t, ValidateRating(0), ErrRatingRequired)
	assert.ErrorIs(t, ValidateRating(6), ErrInvalidRating)
	assert.ErrorIs(t, ValidateRating(-1), ErrInvalidRating)
	assert.NoError(t, ValidateRating(1))
	assert.NoError(t, ValidateRating(5))
}

func TestOrderStatus_NoTransitionGraph(t *testing.T) {
	for _, s := range OrderStatuses {
		assert.True(t, s.Valid())
	}
	assert.False(t, OrderStatus("shipped").Valid())
}

func TestComputeOrderStats(t *testing.T) {
	st := ComputeOrderStats([]Order{
		{Status: StatusPending, TotalCost: 100},
		{Status: StatusConfirmed, TotalCost: 200},
		{Status: StatusCompleted, TotalCost: 300},
		{Status: StatusCancelled, TotalCost: 1000},
	})
	assert.Equal(t, OrderStats{Total: 4, Pending: 1, Confirmed: 1, Completed: 1, Revenue: 600}, st)
}

func TestUserProfile_Validate(t *testing.T) {
	p := &UserProfile{ID: "u1", Role: RoleUser}
	assert.NoError(t, p.Validate())
	assert.False(t, p.IsAdmin())

	p.Role = "superuser"
	assert.ErrorIs(t, p.Validate(), ErrInvalidRecord)

	var nilProfile *UserProfile
	assert.False(t, nilProfile.IsAdmin())
}

func TestIdentity_Name(t *testing.T) {
	assert.Equal(t, "Asha", Identity{DisplayName: "Asha", Email: "a@x.io"}.Name())
	assert.Equal(t, "a@x.io", Identity{Email: "a@x.io"}.Name())
}
