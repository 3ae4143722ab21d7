package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/mashangjie/taskmarket/internal/core/domain"
	"github.com/mashangjie/taskmarket/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories. Conditional updates hold the mutex for the
// whole compare-and-swap, mirroring a single-document Mongo update.
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	mu          sync.Mutex
	byID        map[string]*domain.User
	findErr     error
	incremented map[string]int
}

func newStubUserRepo(users ...*domain.User) *stubUserRepo {
	r := &stubUserRepo{byID: make(map[string]*domain.User), incremented: make(map[string]int)}
	for _, u := range users {
		r.byID[u.ID] = u
	}
	return r
}

func cloneUser(u *domain.User) *domain.User {
	c := *u
	return &c
}

func (r *stubUserRepo) Register(_ context.Context, u *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if existing.Identity == u.Identity {
			existing.Nickname = u.Nickname
			existing.Avatar = u.Avatar
			existing.Role = u.Role
			existing.Skills = u.Skills
			existing.UpdatedAt = u.UpdatedAt
			return cloneUser(existing), nil
		}
	}
	r.byID[u.ID] = cloneUser(u)
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByIdentity(_ context.Context, identity string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, u := range r.byID {
		if u.Identity == identity {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByIDs(_ context.Context, ids []string) (map[string]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]*domain.User)
	for _, id := range ids {
		if u, ok := r.byID[id]; ok {
			out[id] = cloneUser(u)
		}
	}
	return out, nil
}

func (r *stubUserRepo) UpdateProfile(_ context.Context, id string, p domain.ProfileUpdate) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
	if p.Skills != nil {
		u.Skills = p.Skills
	}
	if p.Avatar != nil {
		u.Avatar = *p.Avatar
	}
	if p.Nickname != nil {
		u.Nickname = *p.Nickname
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) IncrementCompletedOrders(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.CompletedOrders++
	r.incremented[id]++
	return nil
}

func (r *stubUserRepo) SetRating(_ context.Context, id string, rating float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Rating = rating
	return nil
}

func (r *stubUserRepo) get(id string) *domain.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	return cloneUser(r.byID[id])
}

// ---------------------------------------------------------------------------

type stubTaskRepo struct {
	mu        sync.Mutex
	byID      map[string]*domain.Task
	createErr error
	// beforeTransition, when set, runs before the compare-and-swap and lets
	// tests line up concurrent callers.
	beforeTransition func()
}

func newStubTaskRepo(tasks ...*domain.Task) *stubTaskRepo {
	r := &stubTaskRepo{byID: make(map[string]*domain.Task)}
	for _, t := range tasks {
		r.byID[t.ID] = t
	}
	return r
}

func cloneTask(t *domain.Task) *domain.Task {
	c := *t
	return &c
}

func (r *stubTaskRepo) Create(_ context.Context, t *domain.Task) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[t.ID] = cloneTask(t)
	return nil
}

func (r *stubTaskRepo) FindByID(_ context.Context, id string) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	return cloneTask(t), nil
}

func (r *stubTaskRepo) FindByIDs(_ context.Context, ids []string) (map[string]*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]*domain.Task)
	for _, id := range ids {
		if t, ok := r.byID[id]; ok {
			out[id] = cloneTask(t)
		}
	}
	return out, nil
}

// List applies the same filters the real Mongo repo would use.
func (r *stubTaskRepo) List(_ context.Context, f ports.TaskFilter) ([]*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*domain.Task
	for _, t := range r.byID {
		if len(f.Statuses) > 0 && !containsStatus(f.Statuses, t.Status) {
			continue
		}
		if f.MaxPrice != nil && t.FinalPrice > *f.MaxPrice {
			continue
		}
		if len(f.TechStack) > 0 && !overlaps(f.TechStack, t.TechStack) {
			continue
		}
		if f.CustomerID != "" && t.CustomerID != f.CustomerID {
			continue
		}
		if f.DeveloperID != "" && t.DeveloperID != f.DeveloperID {
			continue
		}
		matched = append(matched, cloneTask(t))
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	if f.Limit > 0 && len(matched) > f.Limit {
		matched = matched[:f.Limit]
	}
	return matched, nil
}

func (r *stubTaskRepo) Transition(_ context.Context, id string, from []domain.TaskStatus, change domain.TaskChange) (*domain.Task, error) {
	if r.beforeTransition != nil {
		r.beforeTransition()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.byID[id]
	if !ok || !containsStatus(from, t.Status) {
		return nil, domain.ErrStaleState
	}
	t.Status = change.Status
	if change.DeveloperID != "" {
		t.DeveloperID = change.DeveloperID
	}
	t.UpdatedAt = time.Now().UTC()
	return cloneTask(t), nil
}

func (r *stubTaskRepo) get(id string) *domain.Task {
	r.mu.Lock()
	defer r.mu.Unlock()
	return cloneTask(r.byID[id])
}

func containsStatus(set []domain.TaskStatus, s domain.TaskStatus) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

func overlaps(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}

// ---------------------------------------------------------------------------

type stubOrderRepo struct {
	mu      sync.Mutex
	byID    map[string]*domain.Order
	findErr error
}

func newStubOrderRepo(orders ...*domain.Order) *stubOrderRepo {
	r := &stubOrderRepo{byID: make(map[string]*domain.Order)}
	for _, o := range orders {
		r.byID[o.ID] = o
	}
	return r
}

func cloneOrder(o *domain.Order) *domain.Order {
	c := *o
	return &c
}

// Create enforces the one-order-per-task unique index.
func (r *stubOrderRepo) Create(_ context.Context, o *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if existing.TaskID == o.TaskID {
			return domain.ErrOrderExists
		}
	}
	r.byID[o.ID] = cloneOrder(o)
	return nil
}

func (r *stubOrderRepo) FindByID(_ context.Context, id string) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	o, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return cloneOrder(o), nil
}

func (r *stubOrderRepo) FindByTaskID(_ context.Context, taskID string) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.byID {
		if o.TaskID == taskID {
			return cloneOrder(o), nil
		}
	}
	return nil, domain.ErrOrderNotFound
}

func (r *stubOrderRepo) ListByParticipant(_ context.Context, userID string) ([]*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Order
	for _, o := range r.byID {
		if o.IsParticipant(userID) {
			out = append(out, cloneOrder(o))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *stubOrderRepo) ListByPaymentStatus(_ context.Context, status domain.PaymentStatus) ([]*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Order
	for _, o := range r.byID {
		if o.PaymentStatus == status {
			out = append(out, cloneOrder(o))
		}
	}
	return out, nil
}

func (r *stubOrderRepo) SetOutTradeNo(_ context.Context, id, outTradeNo string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.byID[id]
	if !ok {
		return domain.ErrOrderNotFound
	}
	o.OutTradeNo = outTradeNo
	return nil
}

func (r *stubOrderRepo) TransitionDeposit(_ context.Context, id string, from, to domain.DepositStatus, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.byID[id]
	if !ok || o.DepositStatus != from {
		return domain.ErrStaleState
	}
	o.DepositStatus = to
	o.DepositPaidAt = &at
	return nil
}

func (r *stubOrderRepo) TransitionPayment(_ context.Context, id string, from, to domain.PaymentStatus, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.byID[id]
	if !ok || o.PaymentStatus != from {
		return domain.ErrStaleState
	}
	o.PaymentStatus = to
	switch to {
	case domain.PaymentSettling:
		o.CompletedAt = &at
	case domain.PaymentPaid:
		o.SettledAt = &at
	}
	return nil
}

func (r *stubOrderRepo) get(id string) *domain.Order {
	r.mu.Lock()
	defer r.mu.Unlock()
	return cloneOrder(r.byID[id])
}

// ---------------------------------------------------------------------------

type stubReviewRepo struct {
	mu      sync.Mutex
	reviews []*domain.Review
}

// Create enforces the (task, author) unique index.
func (r *stubReviewRepo) Create(_ context.Context, rv *domain.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.reviews {
		if existing.TaskID == rv.TaskID && existing.FromUserID == rv.FromUserID {
			return domain.ErrReviewExists
		}
	}
	c := *rv
	r.reviews = append(r.reviews, &c)
	return nil
}

func (r *stubReviewRepo) ExistsByTaskAndAuthor(_ context.Context, taskID, fromUserID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.reviews {
		if existing.TaskID == taskID && existing.FromUserID == fromUserID {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubReviewRepo) ListByRecipient(_ context.Context, toUserID string, limit int) ([]*domain.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Review
	for i := len(r.reviews) - 1; i >= 0; i-- {
		if r.reviews[i].ToUserID == toUserID {
			c := *r.reviews[i]
			out = append(out, &c)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *stubReviewRepo) RatingStats(_ context.Context, toUserID string) (domain.RatingStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var s domain.RatingStats
	for _, rv := range r.reviews {
		if rv.ToUserID == toUserID {
			s.Sum += int64(rv.Rating)
			s.Count++
		}
	}
	return s, nil
}

// ---------------------------------------------------------------------------

type stubEventRepo struct {
	insertErr error
	inserted  []*domain.PaymentEvent
}

func (r *stubEventRepo) Insert(_ context.Context, e *domain.PaymentEvent) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	r.inserted = append(r.inserted, e)
	return nil
}

type stubDedup struct {
	dupResult bool
	dupErr    error
	markErr   error
	marked    []string
}

func (d *stubDedup) IsDuplicate(_ context.Context, outTradeNo, resultCode string) (bool, error) {
	return d.dupResult, d.dupErr
}

func (d *stubDedup) Mark(_ context.Context, outTradeNo, resultCode string) error {
	if d.markErr != nil {
		return d.markErr
	}
	d.marked = append(d.marked, outTradeNo+":"+resultCode)
	return nil
}

type stubGateway struct {
	err     error
	intents []domain.PaymentIntent
}

func (g *stubGateway) CreateIntent(_ context.Context, in domain.PaymentIntent) (*domain.PaymentParams, error) {
	if g.err != nil {
		return nil, g.err
	}
	g.intents = append(g.intents, in)
	return &domain.PaymentParams{OrderID: in.OrderID, OutTradeNo: in.OutTradeNo, TotalFee: in.TotalFee, PrepayID: "prepay-1"}, nil
}

type stubPayout struct {
	err     error
	payouts []domain.Payout
}

func (p *stubPayout) Payout(_ context.Context, po domain.Payout) error {
	if p.err != nil {
		return p.err
	}
	p.payouts = append(p.payouts, po)
	return nil
}

type stubQueue struct {
	mu   sync.Mutex
	jobs []ports.SettlementJob
}

func (q *stubQueue) Enqueue(job ports.SettlementJob) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.jobs = append(q.jobs, job)
}

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

var errBoom = errors.New("boom")

func customer(id string) *domain.User {
	return &domain.User{ID: id, Identity: "idp-" + id, Role: domain.RoleCustomer, Rating: domain.DefaultRating, Skills: []string{}}
}

func developer(id string) *domain.User {
	return &domain.User{ID: id, Identity: "idp-" + id, Role: domain.RoleDeveloper, Rating: domain.DefaultRating, Skills: []string{"go"}}
}

func callerOf(u *domain.User) domain.Caller {
	return domain.Caller{Identity: u.Identity}
}

func taskIn(id, customerID, developerID string, status domain.TaskStatus) *domain.Task {
	now := time.Now().UTC()
	return &domain.Task{
		ID:          id,
		CustomerID:  customerID,
		DeveloperID: developerID,
		Title:       "task " + id,
		BudgetRange: domain.BudgetRange{Min: 1000, Max: 2000},
		TechStack:   []string{"go"},
		FinalPrice:  1500,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
