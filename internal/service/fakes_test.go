package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/natours/natours-backend/internal/models"
	"github.com/natours/natours-backend/internal/repository"
	"github.com/natours/natours-backend/pkg/payment"
)

// fakeUsers stores copies, so a mutation is only visible after Save.
type fakeUsers struct {
	mu     sync.Mutex
	rows   map[uint]models.User
	nextID uint
	saves  int
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{rows: map[uint]models.User{}, nextID: 1}
}

func (f *fakeUsers) Create(ctx context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.rows {
		if u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	user.ID = f.nextID
	f.nextID++
	f.rows[user.ID] = *user
	return nil
}

func (f *fakeUsers) Save(ctx context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, u := range f.rows {
		if id != user.ID && u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	f.rows[user.ID] = *user
	f.saves++
	return nil
}

func (f *fakeUsers) find(match func(u models.User) bool) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.rows {
		if u.Active && match(u) {
			cp := u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUsers) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return f.find(func(u models.User) bool { return u.ID == id })
}

func (f *fakeUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	email = models.NormalizeEmail(email)
	return f.find(func(u models.User) bool { return u.Email == email })
}

func (f *fakeUsers) GetByCheckEmailToken(ctx context.Context, hash string) (*models.User, error) {
	return f.find(func(u models.User) bool { return u.CheckEmailToken != "" && u.CheckEmailToken == hash })
}

func (f *fakeUsers) GetByResetToken(ctx context.Context, hash string, now time.Time) (*models.User, error) {
	return f.find(func(u models.User) bool {
		return u.PasswordResetToken != "" && u.PasswordResetToken == hash &&
			u.PasswordResetExpire != nil && u.PasswordResetExpire.After(now)
	})
}

func (f *fakeUsers) EmailExists(ctx context.Context, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	email = models.NormalizeEmail(email)
	for _, u := range f.rows {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUsers) List(ctx context.Context) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var users []models.User
	for _, u := range f.rows {
		if u.Active {
			users = append(users, u)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (f *fakeUsers) Deactivate(ctx context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.rows[id]
	if !ok || !u.Active {
		return repository.ErrNotFound
	}
	u.Active = false
	f.rows[id] = u
	return nil
}

func (f *fakeUsers) get(id uint) models.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rows[id]
}

type fakeTours struct {
	mu     sync.Mutex
	rows   map[uint]models.Tour
	nextID uint

	ratingsErr error
	lastQuery  struct {
		center   models.GeoPoint
		distance float64
		radius   float64
	}
}

func newFakeTours() *fakeTours {
	return &fakeTours{rows: map[uint]models.Tour{}, nextID: 1}
}

func (f *fakeTours) Create(ctx context.Context, tour *models.Tour) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.rows {
		if t.Name == tour.Name {
			return repository.ErrDuplicate
		}
	}
	tour.ID = f.nextID
	f.nextID++
	f.rows[tour.ID] = *tour
	return nil
}

func (f *fakeTours) Save(ctx context.Context, tour *models.Tour) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[tour.ID] = *tour
	return nil
}

func (f *fakeTours) GetByID(ctx context.Context, id uint) (*models.Tour, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &t, nil
}

func (f *fakeTours) GetWithReviews(ctx context.Context, id uint) (*models.Tour, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeTours) GetByIDs(ctx context.Context, ids []uint) ([]models.Tour, error) {
	tours := []models.Tour{}
	for _, id := range ids {
		if t, err := f.GetByID(ctx, id); err == nil {
			tours = append(tours, *t)
		}
	}
	return tours, nil
}

func (f *fakeTours) List(ctx context.Context, q models.TourQuery) ([]models.Tour, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var tours []models.Tour
	for _, t := range f.rows {
		tours = append(tours, t)
	}
	sort.Slice(tours, func(i, j int) bool { return tours[i].ID < tours[j].ID })
	if q.Limit > 0 && len(tours) > q.Limit {
		tours = tours[:q.Limit]
	}
	return tours, nil
}

func (f *fakeTours) ReplaceStartDates(ctx context.Context, tourID uint, dates []time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.rows[tourID]
	if !ok {
		return repository.ErrNotFound
	}
	t.StartDates = nil
	for _, d := range dates {
		t.StartDates = append(t.StartDates, models.TourStartDate{TourID: tourID, StartsAt: d})
	}
	f.rows[tourID] = t
	return nil
}

func (f *fakeTours) UpdateRatings(ctx context.Context, tourID uint, quantity int64, average float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ratingsErr != nil {
		return f.ratingsErr
	}
	t, ok := f.rows[tourID]
	if !ok {
		return nil
	}
	t.RatingsQuantity = int(quantity)
	t.RatingsAverage = average
	f.rows[tourID] = t
	return nil
}

func (f *fakeTours) Stats(ctx context.Context, minRating float64) ([]models.TourStats, error) {
	return nil, nil
}

func (f *fakeTours) MonthlyPlan(ctx context.Context, year int) ([]models.MonthlyPlan, error) {
	return []models.MonthlyPlan{}, nil
}

func (f *fakeTours) Within(ctx context.Context, center models.GeoPoint, distance, radius float64) ([]models.Tour, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastQuery.center, f.lastQuery.distance, f.lastQuery.radius = center, distance, radius
	return []models.Tour{}, nil
}

func (f *fakeTours) Distances(ctx context.Context, center models.GeoPoint, radius float64) ([]models.TourDistance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastQuery.center, f.lastQuery.radius = center, radius
	return []models.TourDistance{}, nil
}

func (f *fakeTours) Delete(ctx context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeTours) get(id uint) models.Tour {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rows[id]
}

type fakeReviews struct {
	mu     sync.Mutex
	rows   map[uint]models.Review
	nextID uint
}

func newFakeReviews() *fakeReviews {
	return &fakeReviews{rows: map[uint]models.Review{}, nextID: 1}
}

func (f *fakeReviews) Create(ctx context.Context, review *models.Review) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows {
		if r.TourID == review.TourID && r.UserID == review.UserID {
			return repository.ErrDuplicate
		}
	}
	review.ID = f.nextID
	f.nextID++
	f.rows[review.ID] = *review
	return nil
}

func (f *fakeReviews) Save(ctx context.Context, review *models.Review) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[review.ID] = *review
	return nil
}

func (f *fakeReviews) GetByID(ctx context.Context, id uint) (*models.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &r, nil
}

func (f *fakeReviews) List(ctx context.Context, filter models.ReviewFilter) ([]models.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	reviews := []models.Review{}
	for _, r := range f.rows {
		if filter.TourID != 0 && r.TourID != filter.TourID {
			continue
		}
		if filter.UserID != 0 && r.UserID != filter.UserID {
			continue
		}
		reviews = append(reviews, r)
	}
	return reviews, nil
}

func (f *fakeReviews) Delete(ctx context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeReviews) RatingStats(ctx context.Context, tourID uint) (models.RatingStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var stats models.RatingStats
	var sum float64
	for _, r := range f.rows {
		if r.TourID == tourID {
			stats.Quantity++
			sum += r.Rating
		}
	}
	if stats.Quantity > 0 {
		stats.Average = sum / float64(stats.Quantity)
	}
	return stats, nil
}

type fakeBookings struct {
	mu     sync.Mutex
	rows   map[uint]models.Booking
	nextID uint
}

func newFakeBookings() *fakeBookings {
	return &fakeBookings{rows: map[uint]models.Booking{}, nextID: 1}
}

func (f *fakeBookings) Create(ctx context.Context, booking *models.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.rows {
		if b.PaymentRef == booking.PaymentRef {
			return repository.ErrDuplicate
		}
	}
	booking.ID = f.nextID
	f.nextID++
	f.rows[booking.ID] = *booking
	return nil
}

func (f *fakeBookings) Save(ctx context.Context, booking *models.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[booking.ID] = *booking
	return nil
}

func (f *fakeBookings) GetByID(ctx context.Context, id uint) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &b, nil
}

func (f *fakeBookings) GetByPaymentRef(ctx context.Context, ref string) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.rows {
		if b.PaymentRef == ref {
			cp := b
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeBookings) List(ctx context.Context) ([]models.Booking, error) {
	return f.ListByUser(ctx, 0)
}

func (f *fakeBookings) ListByUser(ctx context.Context, userID uint) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	bookings := []models.Booking{}
	for _, b := range f.rows {
		if userID == 0 || b.UserID == userID {
			bookings = append(bookings, b)
		}
	}
	sort.Slice(bookings, func(i, j int) bool { return bookings[i].ID < bookings[j].ID })
	return bookings, nil
}

func (f *fakeBookings) Delete(ctx context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.rows, id)
	return nil
}

type sentMail struct {
	Kind  string
	To    string
	Token string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *fakeMailer) record(kind, to, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{Kind: kind, To: to, Token: token})
	return nil
}

func (m *fakeMailer) SendWelcomeEmail(ctx context.Context, to, name string) error {
	return m.record("welcome", to, "")
}

func (m *fakeMailer) SendVerificationEmail(ctx context.Context, to, name, token string) error {
	return m.record("verification", to, token)
}

func (m *fakeMailer) SendPasswordResetEmail(ctx context.Context, to, name, token string) error {
	return m.record("reset", to, token)
}

// last returns the most recent mail of kind.
func (m *fakeMailer) last(kind string) (sentMail, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.sent) - 1; i >= 0; i-- {
		if m.sent[i].Kind == kind {
			return m.sent[i], true
		}
	}
	return sentMail{}, false
}

type fakeGateway struct {
	charge     *payment.Charge
	chargeErr  error
	charged    []payment.ChargeRequest
	checkout   []payment.CheckoutRequest
	completion *payment.CheckoutCompletion
	webhookErr error
}

func (g *fakeGateway) Charge(ctx context.Context, req payment.ChargeRequest) (*payment.Charge, error) {
	g.charged = append(g.charged, req)
	if g.chargeErr != nil {
		return nil, g.chargeErr
	}
	return g.charge, nil
}

func (g *fakeGateway) CreateCheckoutSession(ctx context.Context, req payment.CheckoutRequest) (*payment.CheckoutSession, error) {
	g.checkout = append(g.checkout, req)
	return &payment.CheckoutSession{ID: "cs_test_1", URL: "https://checkout.stripe.com/c/pay/cs_test_1"}, nil
}

func (g *fakeGateway) ParseCheckoutWebhook(payload []byte, signature string) (*payment.CheckoutCompletion, error) {
	if g.webhookErr != nil {
		return nil, g.webhookErr
	}
	return g.completion, nil
}

var errSMTPDown = errors.New("smtp: connection refused")

// clock is a settable time source shared by the services under test.
type clock struct {
	mu sync.Mutex
	t  time.Time
}

func newClock(t time.Time) *clock { return &clock{t: t} }

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}
