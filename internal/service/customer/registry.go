package customer

import (
	"context"
	"errors"
	"sync"

	"sisera-crm/internal/domain"
	"sisera-crm/internal/gateway"
	"sisera-crm/internal/logging"
	custrepo "sisera-crm/internal/repository/customer"

	"go.uber.org/zap"
)

// Messages recorded in the registry state when a backend call fails. The
// backend's own message is appended.
const (
	msgLoadFailed   = "Fout bij het laden van klanten: "
	msgAddFailed    = "Fout bij het toevoegen van klant: "
	msgUpdateFailed = "Fout bij het bijwerken van klant: "
	msgDeleteFailed = "Fout bij het verwijderen van klant: "
)

// State is a point-in-time copy of the registry.
type State struct {
	Customers []domain.Customer `json:"customers"`
	IsLoading bool              `json:"isLoading"`
	Error     string            `json:"error,omitempty"`
}

// Registry mirrors the remote customers table in memory. Mutations for the
// same customer id are serialized. A load only applies if no newer load was
// started and no mutation was applied while it ran.
type Registry struct {
	repo   custrepo.Repository
	logger *zap.Logger
	locks  *keyedLocker

	mu        sync.RWMutex
	customers []domain.Customer
	inflight  int
	lastErr   string
	loadSeq   uint64
	mutGen    uint64
}

// NewRegistry creates an empty registry on top of repo.
func NewRegistry(repo custrepo.Repository, logger *zap.Logger) *Registry {
	return &Registry{
		repo:   repo,
		logger: logging.OrNop(logger),
		locks:  newKeyedLocker(),
	}
}

// LoadCustomers replaces the in-memory list with every remote customer,
// newest first. On failure the previous list is kept.
func (r *Registry) LoadCustomers(ctx context.Context) error {
	seq, gen := r.begin(true)
	list, err := r.repo.List(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.inflight--
	if seq != r.loadSeq || gen != r.mutGen {
		r.logger.Debug("discarding superseded customer load",
			zap.Uint64("seq", seq), zap.Uint64("gen", gen), zap.Error(err))
		return err
	}
	if err != nil {
		r.fail(msgLoadFailed, "load customers", err)
		return err
	}
	r.customers = list
	return nil
}

// RefreshCustomers reloads the list from the backend.
func (r *Registry) RefreshCustomers(ctx context.Context) error {
	return r.LoadCustomers(ctx)
}

// AddCustomer inserts a customer and prepends the stored row to the list.
func (r *Registry) AddCustomer(ctx context.Context, fields domain.CustomerFields) (*domain.Customer, error) {
	r.begin(false)
	created, err := r.repo.Create(ctx, fields)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.inflight--
	if err != nil {
		r.fail(msgAddFailed, "add customer", err)
		return nil, err
	}
	r.mutGen++
	r.customers = append([]domain.Customer{*created}, r.customers...)
	return created, nil
}

// UpdateCustomer applies the supplied fields and replaces the local entry with
// the row returned by the backend. Store affiliation cannot change.
func (r *Registry) UpdateCustomer(ctx context.Context, id string, fields domain.CustomerFields) (*domain.Customer, error) {
	if fields.Store != nil {
		return nil, domain.ErrStoreImmutable
	}
	unlock := r.locks.Lock(id)
	defer unlock()

	r.begin(false)
	updated, err := r.repo.Update(ctx, id, fields)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.inflight--
	if err != nil {
		r.fail(msgUpdateFailed, "update customer", err)
		return nil, err
	}
	r.mutGen++
	for i := range r.customers {
		if r.customers[i].ID == id {
			r.customers[i] = *updated
		}
	}
	return updated, nil
}

// DeleteCustomer removes a customer remotely and then locally.
func (r *Registry) DeleteCustomer(ctx context.Context, id string) error {
	unlock := r.locks.Lock(id)
	defer unlock()

	r.begin(false)
	err := r.repo.Delete(ctx, id)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.inflight--
	if err != nil {
		r.fail(msgDeleteFailed, "delete customer", err)
		return err
	}
	r.mutGen++
	kept := make([]domain.Customer, 0, len(r.customers))
	for _, c := range r.customers {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	r.customers = kept
	return nil
}

// GetCustomer looks id up in the in-memory list.
func (r *Registry) GetCustomer(id string) (domain.Customer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.customers {
		if c.ID == id {
			return c, true
		}
	}
	return domain.Customer{}, false
}

// SetCustomers replaces the in-memory list without contacting the backend.
func (r *Registry) SetCustomers(list []domain.Customer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mutGen++
	r.customers = copyList(list)
}

// Customers returns a copy of the in-memory list.
func (r *Registry) Customers() []domain.Customer {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return copyList(r.customers)
}

// IsLoading reports whether any backend call is in flight.
func (r *Registry) IsLoading() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.inflight > 0
}

// Err returns the message of the last failed call, or "".
func (r *Registry) Err() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lastErr
}

// Snapshot returns the whole registry state.
func (r *Registry) Snapshot() State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return State{
		Customers: copyList(r.customers),
		IsLoading: r.inflight > 0,
		Error:     r.lastErr,
	}
}

// begin marks a call as started and clears the last error. Loads also take a
// new sequence number. The returned mutation generation lets a load detect
// writes applied while it ran.
func (r *Registry) begin(load bool) (seq, gen uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inflight++
	r.lastErr = ""
	if load {
		r.loadSeq++
	}
	return r.loadSeq, r.mutGen
}

// fail records a failed call. Callers hold r.mu.
func (r *Registry) fail(prefix, op string, err error) {
	r.lastErr = prefix + ErrorDetail(err)
	r.logger.Error("customer registry call failed", zap.String("op", op), zap.Error(err))
}

// ErrorDetail extracts the human-readable backend message from err.
func ErrorDetail(err error) string {
	var gwErr *gateway.Error
	if errors.As(err, &gwErr) {
		return gwErr.Message
	}
	if errors.Is(err, domain.ErrNotFound) {
		return "klant niet gevonden"
	}
	return err.Error()
}

func copyList(list []domain.Customer) []domain.Customer {
	out := make([]domain.Customer, len(list))
	copy(out, list)
	return out
}
