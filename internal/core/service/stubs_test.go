package service

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/eventhub/storefront/internal/core/domain"
	"github.com/eventhub/storefront/internal/core/ports"
)

type memCart struct {
	mu    sync.Mutex
	lines map[string][]domain.CartLine
	// listErr fails every List after listOK successful calls when set.
	listErr error
	listOK  int
	lists   int
	// deleteErr fails Delete for the listed line ids.
	deleteErr map[string]error
	// afterList runs after each List, outside the lock.
	afterList func(call int)
	// honorCancel makes List and Delete fail once ctx is done, as a network
	// store would.
	honorCancel bool
}

func newMemCart() *memCart {
	return &memCart{lines: make(map[string][]domain.CartLine)}
}

func (c *memCart) List(ctx context.Context, identityID string) ([]domain.CartLine, error) {
	if c.honorCancel && ctx.Err() != nil {
		return nil, ctx.Err()
	}
	c.mu.Lock()
	c.lists++
	call := c.lists
	if c.listErr != nil && call > c.listOK {
		c.mu.Unlock()
		return nil, c.listErr
	}
	out := domain.CloneLines(c.lines[identityID])
	hook := c.afterList
	c.mu.Unlock()

	if hook != nil {
		hook(call)
	}
	if out == nil {
		out = []domain.CartLine{}
	}
	return out, nil
}

func (c *memCart) Upsert(_ context.Context, line domain.CartLine) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	lines := c.lines[line.IdentityID]
	for i := range lines {
		if lines[i].ID == line.ID {
			lines[i] = line
			return nil
		}
	}
	c.lines[line.IdentityID] = append(lines, line)
	return nil
}

func (c *memCart) Delete(ctx context.Context, identityID, lineID string) error {
	if c.honorCancel && ctx.Err() != nil {
		return ctx.Err()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.deleteErr[lineID]; err != nil {
		return err
	}
	lines := c.lines[identityID]
	for i := range lines {
		if lines[i].ID == lineID {
			c.lines[identityID] = append(lines[:i:i], lines[i+1:]...)
			return nil
		}
	}
	return nil
}

func (c *memCart) count(identityID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines[identityID])
}

type memOrders struct {
	mu        sync.Mutex
	orders    map[string][]domain.Order
	createErr error
	listErr   error
	// afterCreate runs once an order is stored.
	afterCreate func()
}

func newMemOrders() *memOrders {
	return &memOrders{orders: make(map[string][]domain.Order)}
}

func (r *memOrders) Create(_ context.Context, o *domain.Order) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *o
	cp.Items = domain.CloneLines(o.Items)
	r.orders[o.IdentityID] = append(r.orders[o.IdentityID], cp)
	if r.afterCreate != nil {
		r.afterCreate()
	}
	return nil
}

func (r *memOrders) ListByIdentity(_ context.Context, identityID string) ([]domain.Order, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := append([]domain.Order{}, r.orders[identityID]...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memOrders) UpdateStatus(_ context.Context, identityID, orderID string, status domain.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.orders[identityID] {
		if r.orders[identityID][i].ID == orderID {
			r.orders[identityID][i].Status = status
			return nil
		}
	}
	return domain.ErrOrderNotFound
}

func (r *memOrders) all(identityID string) []domain.Order {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Order{}, r.orders[identityID]...)
}

type stubGuard struct {
	mu       sync.Mutex
	held     map[string]string
	err      error
	seq      int
	released int
	// releaseCtxErr records ctx.Err() seen by Release.
	releaseCtxErr error
}

func newStubGuard() *stubGuard { return &stubGuard{held: make(map[string]string)} }

func (g *stubGuard) Acquire(_ context.Context, id string) (string, bool, error) {
	if g.err != nil {
		return "", false, g.err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.held[id]; ok {
		return "", false, nil
	}
	g.seq++
	token := fmt.Sprintf("t%d", g.seq)
	g.held[id] = token
	return token, true, nil
}

func (g *stubGuard) Release(ctx context.Context, id, token string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.releaseCtxErr = ctx.Err()
	if g.held[id] == token {
		delete(g.held, id)
		g.released++
	}
	return nil
}

type recordingPublisher struct {
	mu      sync.Mutex
	placed  []domain.Order
	updated []domain.OrderStatus
	err     error
}

func (p *recordingPublisher) OrderPlaced(_ context.Context, o domain.Order) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.placed = append(p.placed, o)
	return p.err
}

func (p *recordingPublisher) OrderStatusUpdated(_ context.Context, _, _ string, s domain.OrderStatus) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.updated = append(p.updated, s)
	return p.err
}

type stubCatalog struct {
	listings []domain.Listing
}

func (c stubCatalog) List() []domain.Listing { return c.listings }

func (c stubCatalog) Get(id int) (domain.Listing, error) {
	for _, l := range c.listings {
		if l.ID == id {
			return l, nil
		}
	}
	return domain.Listing{}, domain.ErrListingNotFound
}

func testCatalog() stubCatalog {
	return stubCatalog{listings: []domain.Listing{
		{ID: 1, Title: "Wedding Planning", Cost: "₹500", Category: "wedding"},
		{ID: 2, Title: "Concert Night", Cost: "₹1,500", Category: "concert"},
		{ID: 3, Title: "Birthday Bash", Cost: "₹1,200", Category: "birthday"},
	}}
}

type memProfiles struct {
	mu       sync.Mutex
	profiles map[string]domain.UserProfile
	order    []string
	err      error
}

func newMemProfiles(ps ...domain.UserProfile) *memProfiles {
	m := &memProfiles{profiles: make(map[string]domain.UserProfile)}
	for _, p := range ps {
		m.profiles[p.ID] = p
		m.order = append(m.order, p.ID)
	}
	return m
}

func (m *memProfiles) Get(_ context.Context, id string) (*domain.UserProfile, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &p, nil
}

func (m *memProfiles) Upsert(_ context.Context, p *domain.UserProfile) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.profiles[p.ID]; !ok {
		m.order = append(m.order, p.ID)
	}
	m.profiles[p.ID] = *p
	return nil
}

func (m *memProfiles) CreateIfMissing(ctx context.Context, p *domain.UserProfile) (bool, error) {
	m.mu.Lock()
	_, ok := m.profiles[p.ID]
	m.mu.Unlock()
	if ok {
		return false, nil
	}
	return true, m.Upsert(ctx, p)
}

func (m *memProfiles) UpdateDisplayName(_ context.Context, id, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	p.DisplayName = name
	m.profiles[id] = p
	return nil
}

func (m *memProfiles) List(_ context.Context) ([]domain.UserProfile, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.UserProfile, 0, len(m.order))
	for _, id := range m.order {
		if p, ok := m.profiles[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memProfiles) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.profiles[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(m.profiles, id)
	return nil
}

func (m *memProfiles) Count(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.profiles)), nil
}

type memFeedback struct {
	mu        sync.Mutex
	records   []domain.Feedback
	createErr error
}

func (m *memFeedback) Create(_ context.Context, f *domain.Feedback) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.records {
		if r.IdentityID == f.IdentityID && r.ListingID == f.ListingID {
			return domain.ErrDuplicateFeedback
		}
	}
	m.records = append(m.records, *f)
	return nil
}

func (m *memFeedback) FindByIdentityAndListing(_ context.Context, identityID string, listingID int) (*domain.Feedback, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.records {
		if r.IdentityID == identityID && r.ListingID == listingID {
			f := r
			return &f, nil
		}
	}
	return nil, domain.ErrFeedbackNotFound
}

func (m *memFeedback) ListByListing(_ context.Context, listingID int) ([]domain.Feedback, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Feedback
	for _, r := range m.records {
		if r.ListingID == listingID {
			out = append(out, r)
		}
	}
	sortFeedbackDesc(out)
	return out, nil
}

func (m *memFeedback) List(_ context.Context) ([]domain.Feedback, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := append([]domain.Feedback{}, m.records...)
	sortFeedbackDesc(out)
	return out, nil
}

func (m *memFeedback) CountByIdentity(_ context.Context, identityID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, r := range m.records {
		if r.IdentityID == identityID {
			n++
		}
	}
	return n, nil
}

func (m *memFeedback) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.records {
		if r.ID == id {
			m.records = append(m.records[:i], m.records[i+1:]...)
			return nil
		}
	}
	return domain.ErrFeedbackNotFound
}

func sortFeedbackDesc(fs []domain.Feedback) {
	sort.SliceStable(fs, func(i, j int) bool { return fs[i].CreatedAt.After(fs[j].CreatedAt) })
}

type memContacts struct {
	mu      sync.Mutex
	records []domain.ContactMessage
}

func (m *memContacts) Create(_ context.Context, c *domain.ContactMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, *c)
	return nil
}

func (m *memContacts) List(_ context.Context) ([]domain.ContactMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := append([]domain.ContactMessage{}, m.records...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}

func (m *memContacts) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.records {
		if r.ID == id {
			m.records = append(m.records[:i], m.records[i+1:]...)
			return nil
		}
	}
	return domain.ErrContactNotFound
}

func (m *memContacts) Count(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.records)), nil
}

var (
	_ ports.CartRepository      = (*memCart)(nil)
	_ ports.OrderRepository     = (*memOrders)(nil)
	_ ports.CheckoutGuard       = (*stubGuard)(nil)
	_ ports.OrderEventPublisher = (*recordingPublisher)(nil)
	_ ports.Catalog             = stubCatalog{}
	_ ports.ProfileRepository   = (*memProfiles)(nil)
	_ ports.FeedbackRepository  = (*memFeedback)(nil)
	_ ports.ContactRepository   = (*memContacts)(nil)
)
