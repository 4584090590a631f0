package handler_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/pamsartech/ldv-admin-panel-sub001/internal/backend"
	"github.com/pamsartech/ldv-admin-panel-sub001/internal/handler"
	"github.com/pamsartech/ldv-admin-panel-sub001/internal/model"
)

// --- Mock store ---

type mockCustomerStore struct {
	customers map[string]model.Customer // keyed by customer ID
	order     []string
	writes    int
}

func newMockCustomerStore() *mockCustomerStore {
	return &mockCustomerStore{customers: make(map[string]model.Customer)}
}

func (m *mockCustomerStore) add(c model.Customer) {
	m.customers[c.ID] = c
	m.order = append(m.order, c.ID)
}

func (m *mockCustomerStore) ListCustomers(_ context.Context) ([]model.Customer, error) {
	out := make([]model.Customer, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.customers[id])
	}
	return out, nil
}

func (m *mockCustomerStore) GetCustomer(_ context.Context, id string) (*model.Customer, error) {
	c, ok := m.customers[id]
	if !ok {
		return nil, backend.ErrNotFound
	}
	return &c, nil
}

func (m *mockCustomerStore) CreateCustomer(_ context.Context, c *model.Customer) (*model.Customer, error) {
	m.writes++
	created := *c
	created.ID = fmt.Sprintf("c%d", len(m.order)+1)
	m.add(created)
	return &created, nil
}

func (m *mockCustomerStore) UpdateCustomer(_ context.Context, id string, c *model.Customer) (*model.Customer, error) {
	m.writes++
	if _, ok := m.customers[id]; !ok {
		return nil, backend.ErrNotFound
	}
	m.customers[id] = *c
	return c, nil
}

// --- Helpers ---

func setupCustomerRouter(store *mockCustomerStore) *chi.Mux {
	h := handler.NewCustomerHandler(store)
	r := chi.NewRouter()
	r.Route("/admin/customers", h.RegisterRoutes)
	return r
}

func customerBody() map[string]interface{} {
	return map[string]interface{}{
		"first_name": "Giulia",
		"last_name":  "Rossi",
		"email":      "giulia@example.com",
		"phone":      "+39 055 123 4567",
		"address": map[string]string{
			"street": "Via Roma 1", "city": "Firenze", "postal_code": "50123", "country": "IT",
		},
		"marketing_sms": true,
	}
}

// --- Tests ---

func TestCustomerCreate(t *testing.T) {
	store := newMockCustomerStore()
	router := setupCustomerRouter(store)

	rr := doRequest(t, router, "POST", "/admin/customers", customerBody())
	if rr.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusCreated, rr.Body.String())
	}
	resp := decodeResponse(t, rr)
	if resp["status"] != "ACTIVE" || resp["communication_method"] != "EMAIL" {
		t.Errorf("defaults: got status %v, method %v", resp["status"], resp["communication_method"])
	}
	if resp["marketing_sms"] != true {
		t.Errorf("marketing_sms: got %v", resp["marketing_sms"])
	}
}

func TestCustomerCreate_RequiredFieldBlocksWrite(t *testing.T) {
	store := newMockCustomerStore()
	router := setupCustomerRouter(store)

	body := customerBody()
	delete(body, "last_name")
	body["phone"] = "call me"
	body["communication_method"] = "PIGEON"

	rr := doRequest(t, router, "POST", "/admin/customers", body)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
	fields := fieldErrors(t, decodeResponse(t, rr))
	if fields["last_name"] != "this field is required" {
		t.Errorf("last_name: got %v", fields["last_name"])
	}
	if fields["phone"] != "must be a valid phone number" {
		t.Errorf("phone: got %v", fields["phone"])
	}
	if _, ok := fields["communication_method"]; !ok {
		t.Errorf("expected communication_method error, got %v", fields)
	}
	if store.writes != 0 {
		t.Errorf("expected no remote write, got %d", store.writes)
	}
}

func TestCustomerUpdate(t *testing.T) {
	store := newMockCustomerStore()
	store.add(model.Customer{ID: "c1", FirstName: "Old"})
	router := setupCustomerRouter(store)

	body := customerBody()
	body["status"] = "INACTIVE"
	rr := doRequest(t, router, "PUT", "/admin/customers/c1", body)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d; body: %s", rr.Code, rr.Body.String())
	}
	got := store.customers["c1"]
	if got.FirstName != "Giulia" || got.Status != "INACTIVE" || got.Address.City != "Firenze" {
		t.Errorf("stored customer: got %+v", got)
	}

	rr = doRequest(t, router, "PUT", "/admin/customers/c9", customerBody())
	if rr.Code != http.StatusNotFound {
		t.Errorf("missing customer: got %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestCustomerList_SearchByEmail(t *testing.T) {
	store := newMockCustomerStore()
	store.add(model.Customer{ID: "c1", FirstName: "Giulia", LastName: "Rossi", Email: "giulia@example.com", Status: "ACTIVE"})
	store.add(model.Customer{ID: "c2", FirstName: "Marco", LastName: "Bianchi", Email: "marco@example.com", Status: "INACTIVE"})
	router := setupCustomerRouter(store)

	rr := doRequest(t, router, "GET", "/admin/customers?search=MARCO@", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d", rr.Code)
	}
	_, items := decodePage(t, rr)
	if len(items) != 1 {
		t.Fatalf("got %d rows, want 1", len(items))
	}
	if items[0]["name"] != "Marco Bianchi" || items[0]["badge"] != "gray" {
		t.Errorf("row: got %v", items[0])
	}
}

func TestCustomerList_EmptySearchKeepsOrder(t *testing.T) {
	store := newMockCustomerStore()
	store.add(model.Customer{ID: "c2", FirstName: "Zeno"})
	store.add(model.Customer{ID: "c1", FirstName: "Anna"})
	router := setupCustomerRouter(store)

	rr := doRequest(t, router, "GET", "/admin/customers", nil)
	_, items := decodePage(t, rr)
	if len(items) != 2 || items[0]["id"] != "c2" || items[1]["id"] != "c1" {
		t.Errorf("expected original order, got %v", items)
	}
}

func TestCustomerGet_NotFound(t *testing.T) {
	router := setupCustomerRouter(newMockCustomerStore())

	rr := doRequest(t, router, "GET", "/admin/customers/nope", nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusNotFound)
	}
	if resp := decodeResponse(t, rr); resp["error"] != "customer not found" {
		t.Errorf("error: got %v", resp["error"])
	}
}
