package usecase

import (
	"context"
	"errors"
	"testing"

	"food-ordering/internal/data/entity"
	"food-ordering/internal/dto/request"
	"food-ordering/pkg/apperror"

	"github.com/google/uuid"
)

func addLocation(t *testing.T, env *testEnv, userID uuid.UUID, address string) string {
	t.Helper()
	loc, err := env.svc.Location.AddLocation(context.Background(), userID, &request.CreateLocationRequest{
		Coordinates: []float64{51.4, 35.7},
		Address:     address,
	})
	if err != nil {
		t.Fatalf("add location: %v", err)
	}
	return loc.ID
}

func orderRequest(lines ...request.OrderItemRequest) *request.CreateOrderRequest {
	return &request.CreateOrderRequest{Items: lines}
}

func item(food *entity.Food, amount int) request.OrderItemRequest {
	return request.OrderItemRequest{Food: food.ID.String(), Amount: amount}
}

func TestCreateOrderSnapshotsFoodsAndLocation(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	user := env.newUser(t, "Sara", "9121111111", entity.RoleUser)
	locationID := addLocation(t, env, user.ID, "Home")

	pizza := env.newFood(t, "Margherita", 10)
	cola := env.newFood(t, "Cola", 5)

	created, err := env.svc.Order.CreateOrder(ctx, user.ID, orderRequest(item(pizza, 2), item(cola, 1)))
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if created.Cost != 25 {
		t.Errorf("cost = %v, want 25", created.Cost)
	}
	if created.Review != entity.DefaultReview || created.Rating != entity.DefaultRating {
		t.Errorf("defaults = %q/%d", created.Review, created.Rating)
	}
	if created.Location.LocationID.String() != locationID || created.Location.Address != "Home" {
		t.Errorf("location snapshot = %+v", created.Location)
	}
	if created.User == nil || created.User.Name != "Sara" || created.User.Phone != "09121111111" {
		t.Errorf("user = %+v", created.User)
	}

	// later catalogue and address changes do not touch the order
	if _, err := env.svc.Food.UpdateFood(ctx, pizza.ID.String(), &request.UpdateFoodRequest{Price: ptr(99.0)}); err != nil {
		t.Fatal(err)
	}
	if _, err := env.svc.Location.UpdateLocation(ctx, user.ID, locationID, &request.UpdateLocationRequest{Address: ptr("Office")}); err != nil {
		t.Fatal(err)
	}

	stored, err := env.repo.Order.FindByID(ctx, uuid.MustParse(created.ID))
	if err != nil || stored == nil {
		t.Fatalf("find order: %v", err)
	}
	if stored.Cost != 25 || stored.Items[0].Price != 10 || stored.Items[0].Name != "Margherita" {
		t.Errorf("stored order changed: cost %v items %+v", stored.Cost, stored.Items)
	}
	if stored.Location.Address != "Home" {
		t.Errorf("stored address = %q", stored.Location.Address)
	}
}

func TestCreateOrderWithoutLocation(t *testing.T) {
	env := newTestEnv(t)
	user := env.newUser(t, "Sara", "9121111111", entity.RoleUser)
	pizza := env.newFood(t, "Margherita", 10)

	_, err := env.svc.Order.CreateOrder(context.Background(), user.ID, orderRequest(item(pizza, 1)))
	if !errors.Is(err, entity.ErrNoLocationRegistered) {
		t.Fatalf("err = %v, want ErrNoLocationRegistered", err)
	}
	if n := len(env.store.orders); n != 0 {
		t.Errorf("%d orders persisted", n)
	}
}

func TestCreateOrderUnknownOrFinishedFood(t *testing.T) {
	env := newTestEnv(t)
	user := env.newUser(t, "Sara", "9121111111", entity.RoleUser)
	addLocation(t, env, user.ID, "Home")

	pizza := env.newFood(t, "Margherita", 10)
	soup := env.newFood(t, "Soup", 4)
	soup.IsFinished = true
	if err := env.repo.Food.Update(context.Background(), soup); err != nil {
		t.Fatal(err)
	}

	cases := map[string]*request.CreateOrderRequest{
		"unknown":  orderRequest(item(pizza, 1), request.OrderItemRequest{Food: uuid.NewString(), Amount: 1}),
		"finished": orderRequest(item(soup, 1)),
		"amount":   orderRequest(item(pizza, 11)),
		"empty":    orderRequest(),
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := env.svc.Order.CreateOrder(context.Background(), user.ID, req)
			requireKind(t, err, apperror.KindValidation)
			if n := len(env.store.orders); n != 0 {
				t.Errorf("%d orders persisted", n)
			}
		})
	}
}

func TestReviewOrder(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	owner := env.newUser(t, "Sara", "9121111111", entity.RoleUser)
	stranger := env.newUser(t, "Omid", "9122222222", entity.RoleUser)
	addLocation(t, env, owner.ID, "Home")
	pizza := env.newFood(t, "Margherita", 10)

	created, err := env.svc.Order.CreateOrder(ctx, owner.ID, orderRequest(item(pizza, 1)))
	if err != nil {
		t.Fatal(err)
	}

	review := &request.ReviewOrderRequest{Rating: ptr(5)}

	_, err = env.svc.Order.ReviewOrder(ctx, stranger.ID, created.ID, review)
	requireKind(t, err, apperror.KindAuthorization)

	reviewed, err := env.svc.Order.ReviewOrder(ctx, owner.ID, created.ID, review)
	if err != nil {
		t.Fatalf("owner review: %v", err)
	}
	if reviewed.Rating != 5 || reviewed.Review != entity.DefaultReview || reviewed.ReviewedAt == nil {
		t.Errorf("reviewed = %+v", reviewed)
	}

	_, err = env.svc.Order.ReviewOrder(ctx, owner.ID, created.ID, &request.ReviewOrderRequest{Review: ptr("Cold pizza")})
	if !errors.Is(err, entity.ErrAlreadyReviewed) {
		t.Errorf("second review err = %v", err)
	}

	_, err = env.svc.Order.ReviewOrder(ctx, owner.ID, uuid.NewString(), review)
	requireKind(t, err, apperror.KindNotFound)
}

func TestOrderReports(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	user := env.newUser(t, "Sara", "9121111111", entity.RoleUser)
	addLocation(t, env, user.ID, "Home")
	pizza := env.newFood(t, "Margherita", 10)

	for _, amount := range []int{1, 3, 2} {
		if _, err := env.svc.Order.CreateOrder(ctx, user.ID, orderRequest(item(pizza, amount))); err != nil {
			t.Fatal(err)
		}
	}

	top, err := env.svc.Order.TopOrders(ctx, 2, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(top) != 2 || top[0].Cost != 30 || top[1].Cost != 20 || top[0].User != "Sara" {
		t.Errorf("top = %+v", top)
	}

	for _, n := range []int{0, MaxTopOrders + 1} {
		_, err := env.svc.Order.TopOrders(ctx, n, nil)
		requireKind(t, err, apperror.KindValidation)
	}

	stats, err := env.svc.Order.RatingStats(ctx, nil)
	if err != nil {
		t.Fatal(err)
	}
	if stats.AllOrders != 3 || stats.RatingAverage != entity.DefaultRating {
		t.Errorf("stats = %+v", stats)
	}

	mine, err := env.svc.Order.GetMyOrders(ctx, user.ID, request.NewPaginatedRequest("1", "2"))
	if err != nil {
		t.Fatal(err)
	}
	if len(mine.Data) != 2 || mine.Pagination.Total != 3 {
		t.Errorf("my orders = %+v", mine)
	}
}
