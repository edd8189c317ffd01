package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/eventhub/storefront/internal/api/middleware"
	"github.com/eventhub/storefront/internal/core/domain"
	"github.com/eventhub/storefront/internal/core/ports"
	"github.com/eventhub/storefront/internal/core/session"
)

type stubProfiles map[string]domain.Role

func (s stubProfiles) Get(_ context.Context, id string) (*domain.UserProfile, error) {
	role, ok := s[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &domain.UserProfile{ID: id, Role: role}, nil
}

var testProfiles = stubProfiles{"u1": domain.RoleUser, "a1": domain.RoleAdmin}

// newContext builds an echo context with a validator and, when identity is
// non-nil, a signed-in session.
func newContext(method, target, body string, identity *domain.Identity) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	sess := session.New(testProfiles, zerolog.Nop())
	if identity != nil {
		sess.HandleAuthState(context.Background(), identity)
		c.Set(middleware.TokenKey, "token-"+identity.ID)
	}
	c.Set(middleware.SessionKey, sess)
	return c, rec
}

type stubAuthService struct {
	ports.AuthService

	signUpFn  func(in ports.SignUpInput) (*ports.SignInResult, error)
	signInFn  func(email, password string) (*ports.SignInResult, error)
	signedOut []string
	profile   *domain.UserProfile
	renamed   string
}

func (s *stubAuthService) SignUp(_ context.Context, in ports.SignUpInput) (*ports.SignInResult, error) {
	return s.signUpFn(in)
}

func (s *stubAuthService) SignIn(_ context.Context, email, password string) (*ports.SignInResult, error) {
	return s.signInFn(email, password)
}

func (s *stubAuthService) SignOut(_ context.Context, token string) error {
	if token == "" {
		return domain.ErrUnauthenticated
	}
	s.signedOut = append(s.signedOut, token)
	return nil
}

func (s *stubAuthService) Profile(_ context.Context, id string) (*domain.UserProfile, error) {
	if s.profile == nil || s.profile.ID != id {
		return nil, domain.ErrUserNotFound
	}
	return s.profile, nil
}

func (s *stubAuthService) UpdateDisplayName(_ context.Context, id, name string) (*domain.Identity, error) {
	s.renamed = name
	return &domain.Identity{ID: id, DisplayName: name}, nil
}

type stubCartService struct {
	ports.CartService

	lines []domain.CartLine
	added []int
}

func (s *stubCartService) ListCart(context.Context, string) ([]domain.CartLine, error) {
	return s.lines, nil
}

func (s *stubCartService) AddToCart(_ context.Context, identityID string, listingID int) (*domain.CartLine, error) {
	if listingID == 99 {
		return nil, domain.ErrListingNotFound
	}
	s.added = append(s.added, listingID)
	return &domain.CartLine{ID: domain.LineID(listingID), IdentityID: identityID, ListingID: listingID}, nil
}

type stubCheckoutService struct {
	result *ports.CheckoutResult
	err    error
	calls  int
}

func (s *stubCheckoutService) Checkout(context.Context, string) (*ports.CheckoutResult, error) {
	s.calls++
	return s.result, s.err
}

type stubOrderService struct {
	ports.OrderService

	mu      sync.Mutex
	views   []domain.OrderView
	filters []ports.OrderFilter
	updated []domain.OrderStatus
	stats   *ports.ProfileStats
}

func (s *stubOrderService) ListAllOrders(_ context.Context, filter ports.OrderFilter) ([]domain.OrderView, error) {
	s.mu.Lock()
	s.filters = append(s.filters, filter)
	s.mu.Unlock()
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, domain.ErrInvalidStatus
	}
	var out []domain.OrderView
	for _, v := range s.views {
		if filter.Status == "" || v.Status == filter.Status {
			out = append(out, v)
		}
	}
	return out, nil
}

func (s *stubOrderService) UpdateOrderStatus(_ context.Context, _, _ string, status domain.OrderStatus) error {
	if !status.Valid() {
		return domain.ErrInvalidStatus
	}
	s.updated = append(s.updated, status)
	return nil
}

func (s *stubOrderService) ProfileStats(context.Context, string) (*ports.ProfileStats, error) {
	return s.stats, nil
}

type stubFeedbackService struct {
	ports.FeedbackService

	submitted []ports.SubmitFeedbackInput
	filter    ports.FeedbackFilter
}

func (s *stubFeedbackService) SubmitFeedback(_ context.Context, in ports.SubmitFeedbackInput) (*ports.ListingFeedback, error) {
	if err := domain.ValidateRating(in.Rating); err != nil {
		return nil, err
	}
	s.submitted = append(s.submitted, in)
	return &ports.ListingFeedback{ListingID: in.ListingID, Count: 1, AverageRating: float64(in.Rating)}, nil
}

func (s *stubFeedbackService) ListAllFeedback(_ context.Context, filter ports.FeedbackFilter) (*ports.FeedbackConsole, error) {
	s.filter = filter
	return &ports.FeedbackConsole{Feedbacks: []domain.Feedback{}}, nil
}

var (
	_ ports.AuthService     = (*stubAuthService)(nil)
	_ ports.CartService     = (*stubCartService)(nil)
	_ ports.CheckoutService = (*stubCheckoutService)(nil)
	_ ports.OrderService    = (*stubOrderService)(nil)
	_ ports.FeedbackService = (*stubFeedbackService)(nil)
)
