package customer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"sisera-crm/internal/domain"
	"sisera-crm/internal/gateway"
	custrepo "sisera-crm/internal/repository/customer"
)

// stubRepo lets tests fail individual calls and block List.
type stubRepo struct {
	custrepo.Repository
	listErr   error
	createErr error
	updateErr error
	deleteErr error
	listGate  chan struct{}
	listRes   [][]domain.Customer
	listCalls int
	mu        sync.Mutex
}

func (s *stubRepo) List(ctx context.Context) ([]domain.Customer, error) {
	s.mu.Lock()
	call := s.listCalls
	s.listCalls++
	s.mu.Unlock()
	if s.listGate != nil && call == 0 {
		<-s.listGate
	}
	if s.listErr != nil {
		return nil, s.listErr
	}
	if call < len(s.listRes) {
		return s.listRes[call], nil
	}
	return s.Repository.List(ctx)
}

func (s *stubRepo) Create(ctx context.Context, f domain.CustomerFields) (*domain.Customer, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	return s.Repository.Create(ctx, f)
}

func (s *stubRepo) Update(ctx context.Context, id string, f domain.CustomerFields) (*domain.Customer, error) {
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	return s.Repository.Update(ctx, id, f)
}

func (s *stubRepo) Delete(ctx context.Context, id string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	return s.Repository.Delete(ctx, id)
}

func strPtr(s string) *string { return &s }

func newFields(first string, shop domain.Shop) domain.CustomerFields {
	return domain.CustomerFields{
		FirstName: strPtr(first),
		LastName:  strPtr("Test"),
		Email:     strPtr(strings.ToLower(first) + "@example.be"),
		Phone:     strPtr("0470 00 00 00"),
		Store:     &shop,
	}
}

func newRegistry(gw gateway.Gateway) (*Registry, *stubRepo) {
	repo := &stubRepo{Repository: custrepo.NewGateway(gw, nil)}
	return NewRegistry(repo, nil), repo
}

func TestLoadThenDelete_Scenario(t *testing.T) {
	gw := gateway.NewMemory()
	gw.Seed(custrepo.Table, gateway.Row{
		"id":         "1",
		"first_name": "A",
		"last_name":  "B",
		"email":      "a@b.be",
		"phone":      "1",
		"store":      "sisera",
		"created_at": "2025-01-01T00:00:00.000000Z",
		"updated_at": "2025-01-01T00:00:00.000000Z",
	})
	reg, _ := newRegistry(gw)
	ctx := context.Background()

	if err := reg.LoadCustomers(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	list := reg.Customers()
	if len(list) != 1 || list[0].FirstName != "A" {
		t.Fatalf("unexpected list %+v", list)
	}

	if err := reg.DeleteCustomer(ctx, "1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if n := len(reg.Customers()); n != 0 {
		t.Fatalf("expected empty list, got %d", n)
	}
	if reg.Err() != "" {
		t.Fatalf("expected no error, got %q", reg.Err())
	}
	if reg.IsLoading() {
		t.Fatalf("loading flag left set")
	}
}

func TestLoadCustomers_NewestFirst(t *testing.T) {
	clock := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	gw := gateway.NewMemory(gateway.WithClock(func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}))
	reg, _ := newRegistry(gw)
	ctx := context.Background()
	for _, name := range []string{"Old", "Mid", "New"} {
		if _, err := gw.Insert(ctx, custrepo.Table, []gateway.Row{custrepo.ToRemote(newFields(name, domain.ShopSisera))}); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	if err := reg.LoadCustomers(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	list := reg.Customers()
	if len(list) != 3 || list[0].FirstName != "New" || list[2].FirstName != "Old" {
		t.Fatalf("expected newest first, got %v, %v, %v", list[0].FirstName, list[1].FirstName, list[2].FirstName)
	}
}

func TestLoadCustomers_FailureKeepsList(t *testing.T) {
	reg, repo := newRegistry(gateway.NewMemory())
	reg.SetCustomers([]domain.Customer{{ID: "keep"}})
	repo.listErr = &gateway.Error{Message: "connection refused"}

	err := reg.LoadCustomers(context.Background())
	if err == nil {
		t.Fatalf("expected error")
	}
	if got := reg.Err(); got != "Fout bij het laden van klanten: connection refused" {
		t.Fatalf("unexpected error message %q", got)
	}
	if list := reg.Customers(); len(list) != 1 || list[0].ID != "keep" {
		t.Fatalf("previous list not kept: %+v", list)
	}
}

func TestAddCustomer_PrependsBackendRow(t *testing.T) {
	reg, _ := newRegistry(gateway.NewMemory())
	reg.SetCustomers([]domain.Customer{{ID: "existing"}})

	created, err := reg.AddCustomer(context.Background(), newFields("Nieuw", domain.ShopBoss))
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	list := reg.Customers()
	if len(list) != 2 {
		t.Fatalf("expected one more entry, got %d", len(list))
	}
	head := list[0]
	if head.ID == "" || head.ID != created.ID || head.CreatedAt.IsZero() || head.UpdatedAt.IsZero() {
		t.Fatalf("expected backend-populated head, got %+v", head)
	}
	if head.Store != domain.ShopBoss {
		t.Fatalf("unexpected store %q", head.Store)
	}
}

func TestAddCustomer_FailureLeavesListUntouched(t *testing.T) {
	reg, repo := newRegistry(gateway.NewMemory())
	repo.createErr = &gateway.Error{Code: "42501", Message: "new row violates row-level security policy"}

	if _, err := reg.AddCustomer(context.Background(), newFields("X", domain.ShopSisera)); err == nil {
		t.Fatalf("expected error")
	}
	if len(reg.Customers()) != 0 {
		t.Fatalf("no optimistic insert expected")
	}
	if !strings.HasPrefix(reg.Err(), "Fout bij het toevoegen van klant: new row violates") {
		t.Fatalf("unexpected message %q", reg.Err())
	}
}

func TestUpdateCustomer_ReplacesEntry(t *testing.T) {
	clock := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	gw := gateway.NewMemory(gateway.WithClock(func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}))
	reg, _ := newRegistry(gw)
	ctx := context.Background()
	created, err := reg.AddCustomer(ctx, newFields("Vera", domain.ShopSisera))
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	if _, err := reg.UpdateCustomer(ctx, created.ID, domain.CustomerFields{Notes: strPtr("VIP")}); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, ok := reg.GetCustomer(created.ID)
	if !ok {
		t.Fatalf("customer missing after update")
	}
	if got.Notes != "VIP" {
		t.Fatalf("expected notes VIP, got %q", got.Notes)
	}
	if got.UpdatedAt.Before(created.UpdatedAt) {
		t.Fatalf("updatedAt went backwards")
	}
	if got.FirstName != "Vera" {
		t.Fatalf("unsupplied field changed: %+v", got)
	}
}

func TestUpdateCustomer_RejectsStoreChange(t *testing.T) {
	reg, _ := newRegistry(gateway.NewMemory())
	shop := domain.ShopBoss
	_, err := reg.UpdateCustomer(context.Background(), "id", domain.CustomerFields{Store: &shop})
	if !errors.Is(err, domain.ErrStoreImmutable) {
		t.Fatalf("expected ErrStoreImmutable, got %v", err)
	}
}

func TestUpdateCustomer_FailureLeavesEntry(t *testing.T) {
	reg, repo := newRegistry(gateway.NewMemory())
	reg.SetCustomers([]domain.Customer{{ID: "1", Notes: "old"}})
	repo.updateErr = domain.ErrNotFound

	if _, err := reg.UpdateCustomer(context.Background(), "1", domain.CustomerFields{Notes: strPtr("new")}); err == nil {
		t.Fatalf("expected error")
	}
	got, _ := reg.GetCustomer("1")
	if got.Notes != "old" {
		t.Fatalf("entry changed on failure: %+v", got)
	}
	if reg.Err() != "Fout bij het bijwerken van klant: klant niet gevonden" {
		t.Fatalf("unexpected message %q", reg.Err())
	}
}

func TestDeleteCustomer_FailureLeavesList(t *testing.T) {
	reg, repo := newRegistry(gateway.NewMemory())
	reg.SetCustomers([]domain.Customer{{ID: "1"}})
	repo.deleteErr = errors.New("timeout")

	if err := reg.DeleteCustomer(context.Background(), "1"); err == nil {
		t.Fatalf("expected error")
	}
	if _, ok := reg.GetCustomer("1"); !ok {
		t.Fatalf("entry removed on failure")
	}
	if reg.Err() != "Fout bij het verwijderen van klant: timeout" {
		t.Fatalf("unexpected message %q", reg.Err())
	}
}

func TestNextCallClearsError(t *testing.T) {
	reg, repo := newRegistry(gateway.NewMemory())
	repo.listErr = errors.New("down")
	_ = reg.LoadCustomers(context.Background())
	if reg.Err() == "" {
		t.Fatalf("expected error recorded")
	}
	repo.listErr = nil
	if err := reg.LoadCustomers(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	if reg.Err() != "" {
		t.Fatalf("expected error cleared, got %q", reg.Err())
	}
}

func TestLoadCustomers_SupersededLoadIsDiscarded(t *testing.T) {
	reg, repo := newRegistry(gateway.NewMemory())
	repo.listGate = make(chan struct{})
	repo.listRes = [][]domain.Customer{
		{{ID: "stale"}},
		{{ID: "fresh"}},
	}

	done := make(chan error, 1)
	go func() { done <- reg.LoadCustomers(context.Background()) }()

	waitForList(repo, 1)

	if err := reg.LoadCustomers(context.Background()); err != nil {
		t.Fatalf("second load: %v", err)
	}
	close(repo.listGate)
	if err := <-done; err != nil {
		t.Fatalf("first load: %v", err)
	}

	list := reg.Customers()
	if len(list) != 1 || list[0].ID != "fresh" {
		t.Fatalf("expected the newest load to win, got %+v", list)
	}
	if reg.IsLoading() {
		t.Fatalf("loading flag left set")
	}
}

// waitForList blocks until n List calls have started.
func waitForList(repo *stubRepo, n int) {
	for {
		repo.mu.Lock()
		started := repo.listCalls
		repo.mu.Unlock()
		if started >= n {
			return
		}
		time.Sleep(time.Millisecond)
	}
}

func TestLoadCustomers_DeleteDuringLoadStaysDeleted(t *testing.T) {
	gw := gateway.NewMemory()
	gw.Seed(custrepo.Table, gateway.Row{
		"id":         "1",
		"first_name": "A",
		"last_name":  "B",
		"email":      "a@b.be",
		"phone":      "1",
		"store":      "sisera",
		"created_at": "2025-01-01T00:00:00.000000Z",
		"updated_at": "2025-01-01T00:00:00.000000Z",
	})
	reg, repo := newRegistry(gw)
	reg.SetCustomers([]domain.Customer{{ID: "1", FirstName: "A"}})
	repo.listGate = make(chan struct{})
	repo.listRes = [][]domain.Customer{{{ID: "1", FirstName: "A"}}}

	done := make(chan error, 1)
	go func() { done <- reg.LoadCustomers(context.Background()) }()
	waitForList(repo, 1)

	if err := reg.DeleteCustomer(context.Background(), "1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	close(repo.listGate)
	if err := <-done; err != nil {
		t.Fatalf("load: %v", err)
	}

	if _, ok := reg.GetCustomer("1"); ok {
		t.Fatalf("deleted customer reappeared after a concurrent load")
	}
	if reg.IsLoading() {
		t.Fatalf("loading flag left set")
	}
}

func TestLoadCustomers_AddDuringLoadIsKept(t *testing.T) {
	reg, repo := newRegistry(gateway.NewMemory())
	repo.listGate = make(chan struct{})
	repo.listRes = [][]domain.Customer{{}}

	done := make(chan error, 1)
	go func() { done <- reg.LoadCustomers(context.Background()) }()
	waitForList(repo, 1)

	created, err := reg.AddCustomer(context.Background(), newFields("Late", domain.ShopBoss))
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	close(repo.listGate)
	if err := <-done; err != nil {
		t.Fatalf("load: %v", err)
	}

	if _, ok := reg.GetCustomer(created.ID); !ok {
		t.Fatalf("added customer lost to a concurrent load")
	}
}

func TestLoadCustomers_SupersededFailureKeepsErrorClear(t *testing.T) {
	reg, repo := newRegistry(gateway.NewMemory())
	repo.listGate = make(chan struct{})
	repo.listErr = errors.New("connection reset")

	done := make(chan error, 1)
	go func() { done <- reg.LoadCustomers(context.Background()) }()
	waitForList(repo, 1)

	if _, err := reg.AddCustomer(context.Background(), newFields("Kept", domain.ShopSisera)); err != nil {
		t.Fatalf("add: %v", err)
	}
	close(repo.listGate)
	if err := <-done; err == nil {
		t.Fatalf("expected the failed load to report its error")
	}

	if msg := reg.Err(); msg != "" {
		t.Fatalf("superseded load recorded an error: %q", msg)
	}
	if n := len(reg.Customers()); n != 1 {
		t.Fatalf("expected the added customer to remain, got %d", n)
	}
}

func TestConcurrentUpdatesSameCustomer(t *testing.T) {
	reg, _ := newRegistry(gateway.NewMemory())
	ctx := context.Background()
	created, err := reg.AddCustomer(ctx, newFields("Race", domain.ShopSisera))
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := reg.UpdateCustomer(ctx, created.ID, domain.CustomerFields{Notes: strPtr(fmt.Sprintf("note-%d", i))}); err != nil {
				t.Errorf("update %d: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	if reg.IsLoading() {
		t.Fatalf("loading flag left set")
	}
	if n := len(reg.Customers()); n != 1 {
		t.Fatalf("expected a single entry, got %d", n)
	}
	if len(reg.locks.locks) != 0 {
		t.Fatalf("expected entity locks to be released")
	}
}
