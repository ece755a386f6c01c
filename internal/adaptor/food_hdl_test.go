package adaptor

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"food-ordering/internal/dto/request"
	"food-ordering/internal/dto/response"
	"food-ordering/internal/usecase"
	"food-ordering/pkg/apperror"
	"food-ordering/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap/zaptest"
)

// stubFoods records what the handler passed in and answers with err.
type stubFoods struct {
	usecase.FoodService
	err      error
	listReq  *request.FoodListRequest
	created  *request.CreateFoodRequest
	deleteID string
}

func (s *stubFoods) GetAllFoods(_ context.Context, req *request.FoodListRequest) (*response.PaginatedResponse[response.FoodResponse], error) {
	s.listReq = req
	if s.err != nil {
		return nil, s.err
	}
	return response.NewPaginatedResponse([]response.FoodResponse{{Name: "Margherita"}}, req.Page, req.Limit(), 1), nil
}

func (s *stubFoods) CreateFood(_ context.Context, req *request.CreateFoodRequest) (*response.FoodResponse, error) {
	s.created = req
	if s.err != nil {
		return nil, s.err
	}
	return &response.FoodResponse{Name: req.Name}, nil
}

func (s *stubFoods) DeleteFood(_ context.Context, id string) error {
	s.deleteID = id
	return s.err
}

func foodRouter(t *testing.T, stub *stubFoods, debug bool) http.Handler {
	h := NewFoodHandler(stub, debug, zaptest.NewLogger(t))
	r := chi.NewRouter()
	r.Get("/foods", h.GetFoods)
	r.Post("/foods", h.CreateFood)
	r.Delete("/foods/{id}", h.DeleteFood)
	return r
}

func serve(h http.Handler, method, path, body string) (*httptest.ResponseRecorder, utils.Response) {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))

	var resp utils.Response
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	return rec, resp
}

func TestGetFoodsReadsQuery(t *testing.T) {
	stub := &stubFoods{}
	rec, resp := serve(foodRouter(t, stub, false), http.MethodGet, "/foods?page=2&per_page=5&category=pizza", "")

	if rec.Code != http.StatusOK || !resp.Status {
		t.Fatalf("got %d %+v", rec.Code, resp)
	}
	if stub.listReq.Page != 2 || stub.listReq.PerPage != 5 || stub.listReq.Category != "pizza" {
		t.Errorf("request = %+v", stub.listReq)
	}
}

func TestCreateFood(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		stub := &stubFoods{}
		rec, resp := serve(foodRouter(t, stub, false), http.MethodPost, "/foods", `{"name":"Margherita","price":12.5}`)
		if rec.Code != http.StatusCreated || !resp.Status {
			t.Fatalf("got %d %+v", rec.Code, resp)
		}
		if stub.created.Name != "Margherita" || stub.created.Price == nil || *stub.created.Price != 12.5 {
			t.Errorf("request = %+v", stub.created)
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		stub := &stubFoods{}
		rec, resp := serve(foodRouter(t, stub, false), http.MethodPost, "/foods", `{"name":`)
		if rec.Code != http.StatusBadRequest || resp.Message != "Invalid request body" {
			t.Fatalf("got %d %+v", rec.Code, resp)
		}
		if stub.created != nil {
			t.Error("service called with a malformed body")
		}
	})

	t.Run("service rejects", func(t *testing.T) {
		stub := &stubFoods{err: apperror.Conflict("A food with this name already exists.")}
		rec, resp := serve(foodRouter(t, stub, false), http.MethodPost, "/foods", `{}`)
		if rec.Code != http.StatusConflict || resp.Message != "A food with this name already exists." {
			t.Fatalf("got %d %+v", rec.Code, resp)
		}
	})
}

func TestDeleteFood(t *testing.T) {
	stub := &stubFoods{}
	rec, _ := serve(foodRouter(t, stub, false), http.MethodDelete, "/foods/abc", "")
	if rec.Code != http.StatusNoContent || rec.Body.Len() != 0 {
		t.Fatalf("got %d %q", rec.Code, rec.Body.String())
	}
	if stub.deleteID != "abc" {
		t.Errorf("id = %q", stub.deleteID)
	}
}

func TestUnexpectedErrorIsHidden(t *testing.T) {
	stub := &stubFoods{err: errors.New("connection reset")}

	rec, resp := serve(foodRouter(t, stub, false), http.MethodGet, "/foods", "")
	if rec.Code != http.StatusInternalServerError || resp.Message != "Some unexpected error happened." || resp.Errors != nil {
		t.Fatalf("got %d %+v", rec.Code, resp)
	}

	rec, resp = serve(foodRouter(t, stub, true), http.MethodGet, "/foods", "")
	if rec.Code != http.StatusInternalServerError || resp.Errors == nil {
		t.Fatalf("debug: got %d %+v", rec.Code, resp)
	}
}

func TestMonthPeriod(t *testing.T) {
	r := chi.NewRouter()
	var gotErr error
	var gotMonth int
	handler := func(w http.ResponseWriter, r *http.Request) {
		period, err := monthPeriod(r)
		gotErr, gotMonth = err, 0
		if period != nil {
			gotMonth = int(period.From.Month())
		}
	}
	r.Get("/stats", handler)
	r.Get("/stats/{year}/{month}", handler)

	cases := []struct {
		path    string
		month   int
		wantErr bool
	}{
		{"/stats", 0, false},
		{"/stats/2024/3", 3, false},
		{"/stats/2024/13", 0, true},
		{"/stats/x/3", 0, true},
	}
	for _, c := range cases {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, c.path, nil))
		if (gotErr != nil) != c.wantErr || gotMonth != c.month {
			t.Errorf("%s: month %d err %v", c.path, gotMonth, gotErr)
		}
	}
}
