package usecase

import (
	"context"
	"maps"
	"sort"
	"sync"
	"testing"
	"time"

	"food-ordering/internal/data/entity"
	"food-ordering/internal/data/repository"
	"food-ordering/pkg/apperror"
	"food-ordering/pkg/crypto"
	"food-ordering/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap/zaptest"
	"golang.org/x/crypto/bcrypt"
)

// fakeStore keeps rows the way the database would: users in stored
// (encrypted) form, everything else by value.
type fakeStore struct {
	mu        sync.Mutex
	users     map[uuid.UUID]repository.StoredUser
	locations map[uuid.UUID]entity.Location
	foods     map[uuid.UUID]entity.Food
	orders    map[uuid.UUID]entity.Order
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:     map[uuid.UUID]repository.StoredUser{},
		locations: map[uuid.UUID]entity.Location{},
		foods:     map[uuid.UUID]entity.Food{},
		orders:    map[uuid.UUID]entity.Order{},
	}
}

type storeSnapshot struct {
	users     map[uuid.UUID]repository.StoredUser
	locations map[uuid.UUID]entity.Location
	foods     map[uuid.UUID]entity.Food
	orders    map[uuid.UUID]entity.Order
}

func (s *fakeStore) snapshot() storeSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return storeSnapshot{maps.Clone(s.users), maps.Clone(s.locations), maps.Clone(s.foods), maps.Clone(s.orders)}
}

func (s *fakeStore) restore(snap storeSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users, s.locations, s.foods, s.orders = snap.users, snap.locations, snap.foods, snap.orders
}

// fakeTx rolls the store back when fn fails.
type fakeTx struct {
	store *fakeStore
	repo  *repository.Repository
}

func (t *fakeTx) Within(_ context.Context, fn func(repo *repository.Repository) error) error {
	snap := t.store.snapshot()
	if err := fn(t.repo); err != nil {
		t.store.restore(snap)
		return err
	}
	return nil
}

// ---- users ----

type fakeUserRepo struct {
	store  *fakeStore
	mapper *repository.UserMapper
}

func (r *fakeUserRepo) save(ctx context.Context, user *entity.User, isNew bool) error {
	stored, err := r.mapper.ToStored(ctx, user, isNew)
	if err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.users[stored.ID]; !isNew && !exists {
		return apperror.NotFound("No user found with that ID.")
	}
	for id, other := range r.store.users {
		if id != stored.ID && other.Active && other.Phone == stored.Phone {
			return repository.ErrPhoneTaken
		}
	}
	stored.Locations = append([]uuid.UUID{}, stored.Locations...)
	r.store.users[stored.ID] = *stored
	return nil
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	return r.save(ctx, user, true)
}

func (r *fakeUserRepo) Update(ctx context.Context, user *entity.User) error {
	user.UpdatedAt = time.Now()
	return r.save(ctx, user, false)
}

func (r *fakeUserRepo) find(match func(repository.StoredUser) bool) (*entity.User, error) {
	r.store.mu.Lock()
	var (
		found repository.StoredUser
		ok    bool
	)
	for _, s := range r.store.users {
		if s.Active && match(s) {
			found, ok = s, true
			break
		}
	}
	r.store.mu.Unlock()

	if !ok {
		return nil, nil
	}
	return r.mapper.FromStored(&found)
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	return r.find(func(s repository.StoredUser) bool { return s.ID == id })
}

func (r *fakeUserRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeUserRepo) FindByPhone(_ context.Context, phone string) (*entity.User, error) {
	key := r.mapper.PhoneKey(phone)
	return r.find(func(s repository.StoredUser) bool { return s.Phone == key })
}

func (r *fakeUserRepo) FindByResetToken(_ context.Context, digest string) (*entity.User, error) {
	return r.find(func(s repository.StoredUser) bool {
		return s.PasswordResetToken != nil && *s.PasswordResetToken == digest
	})
}

func (r *fakeUserRepo) FindAll(_ context.Context, limit, offset int) ([]*entity.User, error) {
	r.store.mu.Lock()
	var rows []repository.StoredUser
	for _, s := range r.store.users {
		if s.Active {
			rows = append(rows, s)
		}
	}
	r.store.mu.Unlock()

	sort.Slice(rows, func(i, j int) bool { return rows[i].CreatedAt.After(rows[j].CreatedAt) })

	var users []*entity.User
	for _, s := range page(rows, limit, offset) {
		u, err := r.mapper.FromStored(&s)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}

func (r *fakeUserRepo) CountAll(_ context.Context) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var n int64
	for _, s := range r.store.users {
		if s.Active {
			n++
		}
	}
	return n, nil
}

func (r *fakeUserRepo) Deactivate(_ context.Context, id uuid.UUID) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	s, ok := r.store.users[id]
	if !ok || !s.Active {
		return false, nil
	}
	s.Active = false
	s.Locations = nil
	s.ActiveAddress = 0
	r.store.users[id] = s
	return true, nil
}

// ---- locations ----

type fakeLocationRepo struct {
	store *fakeStore
}

func cloneLocation(l entity.Location) *entity.Location {
	if l.Description != nil {
		d := *l.Description
		l.Description = &d
	}
	return &l
}

func (r *fakeLocationRepo) Create(_ context.Context, l *entity.Location) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.locations[l.ID] = *cloneLocation(*l)
	return nil
}

func (r *fakeLocationRepo) Update(ctx context.Context, l *entity.Location) error {
	return r.Create(ctx, l)
}

func (r *fakeLocationRepo) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	_, ok := r.store.locations[id]
	delete(r.store.locations, id)
	return ok, nil
}

func (r *fakeLocationRepo) DeleteByUser(_ context.Context, userID uuid.UUID) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var n int64
	for id, l := range r.store.locations {
		if l.UserID == userID {
			delete(r.store.locations, id)
			n++
		}
	}
	return n, nil
}

func (r *fakeLocationRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Location, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	l, ok := r.store.locations[id]
	if !ok {
		return nil, nil
	}
	return cloneLocation(l), nil
}

func (r *fakeLocationRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]*entity.Location, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	out := []*entity.Location{}
	for _, id := range ids {
		if l, ok := r.store.locations[id]; ok {
			out = append(out, cloneLocation(l))
		}
	}
	return out, nil
}

func (r *fakeLocationRepo) FindWithin(_ context.Context, center entity.Point, km float64) ([]*entity.Location, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	out := []*entity.Location{}
	for _, l := range r.store.locations {
		if l.Point == center && km > 0 {
			out = append(out, cloneLocation(l))
		}
	}
	return out, nil
}

// ---- foods ----

type fakeFoodRepo struct {
	store *fakeStore
}

func cloneFood(f entity.Food) *entity.Food {
	f.Ingredients = append([]string{}, f.Ingredients...)
	return &f
}

func (r *fakeFoodRepo) Create(_ context.Context, f *entity.Food) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, other := range r.store.foods {
		if other.ID != f.ID && other.Name == f.Name {
			return repository.ErrFoodNameTaken
		}
	}
	r.store.foods[f.ID] = *cloneFood(*f)
	return nil
}

func (r *fakeFoodRepo) Update(ctx context.Context, f *entity.Food) error {
	return r.Create(ctx, f)
}

func (r *fakeFoodRepo) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	_, ok := r.store.foods[id]
	delete(r.store.foods, id)
	return ok, nil
}

func (r *fakeFoodRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Food, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	f, ok := r.store.foods[id]
	if !ok {
		return nil, nil
	}
	return cloneFood(f), nil
}

func (r *fakeFoodRepo) available(category *entity.FoodCategory) []entity.Food {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []entity.Food
	for _, f := range r.store.foods {
		if !f.IsFinished && (category == nil || f.Category == *category) {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (r *fakeFoodRepo) FindAvailable(_ context.Context, category *entity.FoodCategory, limit, offset int) ([]*entity.Food, error) {
	out := []*entity.Food{}
	for _, f := range page(r.available(category), limit, offset) {
		out = append(out, cloneFood(f))
	}
	return out, nil
}

func (r *fakeFoodRepo) CountAvailable(_ context.Context, category *entity.FoodCategory) (int64, error) {
	return int64(len(r.available(category))), nil
}

func (r *fakeFoodRepo) FindAvailableByIDsForShare(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]*entity.Food, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	out := map[uuid.UUID]*entity.Food{}
	for _, id := range ids {
		if f, ok := r.store.foods[id]; ok && !f.IsFinished {
			out[id] = cloneFood(f)
		}
	}
	return out, nil
}

// ---- orders ----

type fakeOrderRepo struct {
	store  *fakeStore
	mapper *repository.UserMapper
}

func (r *fakeOrderRepo) Create(_ context.Context, o *entity.Order) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	stored := *o
	stored.Items = append([]entity.OrderItem{}, o.Items...)
	stored.User = nil
	r.store.orders[o.ID] = stored
	return nil
}

func (r *fakeOrderRepo) UpdateReview(_ context.Context, o *entity.Order) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	stored, ok := r.store.orders[o.ID]
	if !ok || stored.ReviewedAt != nil {
		return entity.ErrAlreadyReviewed
	}
	stored.Review, stored.Rating, stored.ReviewedAt, stored.UpdatedAt = o.Review, o.Rating, o.ReviewedAt, o.UpdatedAt
	r.store.orders[o.ID] = stored
	return nil
}

// withUser mimics the join with users. Caller holds the lock.
func (r *fakeOrderRepo) withUser(o entity.Order) (*entity.Order, error) {
	o.Items = append([]entity.OrderItem{}, o.Items...)
	u := r.store.users[o.UserID]
	name, phone, err := r.mapper.DecryptContact(u.Name, u.Phone)
	if err != nil {
		return nil, err
	}
	o.User = &entity.OrderUser{ID: o.UserID, Name: name, Phone: phone}
	return &o, nil
}

func (r *fakeOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	o, ok := r.store.orders[id]
	if !ok {
		return nil, nil
	}
	return r.withUser(o)
}

func (r *fakeOrderRepo) list(match func(entity.Order) bool, less func(a, b entity.Order) bool, limit, offset int) ([]*entity.Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var rows []entity.Order
	for _, o := range r.store.orders {
		if match(o) {
			rows = append(rows, o)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return less(rows[i], rows[j]) })

	out := []*entity.Order{}
	for _, o := range page(rows, limit, offset) {
		withUser, err := r.withUser(o)
		if err != nil {
			return nil, err
		}
		out = append(out, withUser)
	}
	return out, nil
}

func byDateDesc(a, b entity.Order) bool { return a.Date.After(b.Date) }

func inPeriod(period *entity.DateRange) func(entity.Order) bool {
	return func(o entity.Order) bool {
		return period == nil || (!o.Date.Before(period.From) && o.Date.Before(period.To))
	}
}

func (r *fakeOrderRepo) FindAll(_ context.Context, limit, offset int) ([]*entity.Order, error) {
	return r.list(func(entity.Order) bool { return true }, byDateDesc, limit, offset)
}

func (r *fakeOrderRepo) CountAll(_ context.Context) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return int64(len(r.store.orders)), nil
}

func (r *fakeOrderRepo) FindByUser(_ context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Order, error) {
	return r.list(func(o entity.Order) bool { return o.UserID == userID }, byDateDesc, limit, offset)
}

func (r *fakeOrderRepo) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	orders, err := r.FindByUser(ctx, userID, 1<<30, 0)
	return int64(len(orders)), err
}

func (r *fakeOrderRepo) RatingStats(_ context.Context, period *entity.DateRange) (*entity.RatingStats, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	stats := &entity.RatingStats{}
	var sum int
	match := inPeriod(period)
	for _, o := range r.store.orders {
		if !match(o) {
			continue
		}
		if stats.AllOrders == 0 || o.Rating < stats.MinRate {
			stats.MinRate = o.Rating
		}
		if o.Rating > stats.MaxRate {
			stats.MaxRate = o.Rating
		}
		stats.AllOrders++
		sum += o.Rating
	}
	if stats.AllOrders > 0 {
		stats.RatingAverage = float64(sum) / float64(stats.AllOrders)
	}
	return stats, nil
}

func (r *fakeOrderRepo) TopByCost(_ context.Context, n int, period *entity.DateRange) ([]*entity.Order, error) {
	return r.list(inPeriod(period), func(a, b entity.Order) bool { return a.Cost > b.Cost }, n, 0)
}

func page[T any](rows []T, limit, offset int) []T {
	if offset >= len(rows) {
		return nil
	}
	end := min(offset+limit, len(rows))
	return rows[offset:end]
}

// ---- environment ----

type testEnv struct {
	store  *fakeStore
	repo   *repository.Repository
	mapper *repository.UserMapper
	hasher *utils.PasswordHasher
	tokens *utils.TokenManager
	config *utils.Config
	svc    *Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	codec, err := crypto.NewCodec("aes-256-cbc", "0123456789abcdef0123456789abcdef", "fedcba9876543210")
	if err != nil {
		t.Fatal(err)
	}

	hasher := utils.NewPasswordHasher(bcrypt.MinCost, 4)
	mapper := repository.NewUserMapper(codec, hasher)
	store := newFakeStore()

	repo := &repository.Repository{
		User:     &fakeUserRepo{store: store, mapper: mapper},
		Location: &fakeLocationRepo{store: store},
		Food:     &fakeFoodRepo{store: store},
		Order:    &fakeOrderRepo{store: store, mapper: mapper},
	}
	repo.Tx = &fakeTx{store: store, repo: repo}

	config := &utils.Config{
		App:      utils.AppConfig{Name: "food-ordering-test", Debug: true},
		Password: utils.PasswordConfig{ResetTokenLifetime: 10 * time.Minute},
		Geo:      utils.GeoConfig{BaseLng: 51.389, BaseLat: 35.6892},
	}
	tokens := utils.NewTokenManager("test-secret", time.Hour)

	return &testEnv{
		store:  store,
		repo:   repo,
		mapper: mapper,
		hasher: hasher,
		tokens: tokens,
		config: config,
		svc:    NewService(repo, tokens, hasher, config, zaptest.NewLogger(t)),
	}
}

// newUser stores a user straight through the repository.
func (e *testEnv) newUser(t *testing.T, name, phone string, role entity.UserRole) *entity.User {
	t.Helper()
	u := entity.NewUser(time.Now(), role)
	u.Name, u.Phone = name, phone
	u.Birthday = entity.Birthday{Month: 1, Day: 1}
	if err := u.SetPassword("password1", "password1"); err != nil {
		t.Fatal(err)
	}
	if err := e.repo.User.Create(context.Background(), u); err != nil {
		t.Fatal(err)
	}
	return u
}

func (e *testEnv) newFood(t *testing.T, name string, price float64) *entity.Food {
	t.Helper()
	f := &entity.Food{Base: entity.NewBase(time.Now()), Name: name, Category: entity.CategoryPizza, Ingredients: []string{"dough"}, Price: price}
	if err := e.repo.Food.Create(context.Background(), f); err != nil {
		t.Fatal(err)
	}
	return f
}

func ptr[T any](v T) *T { return &v }

func requireKind(t *testing.T, err error, kind apperror.Kind) {
	t.Helper()
	if !apperror.Is(err, kind) {
		t.Fatalf("expected %s error, got %v", kind, err)
	}
}
