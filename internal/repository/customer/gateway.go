package customer

import (
	"context"
	"errors"
	"fmt"

	"sisera-crm/internal/domain"
	"sisera-crm/internal/gateway"
	"sisera-crm/internal/logging"

	"go.uber.org/zap"
)

type gatewayRepo struct {
	gw     gateway.Gateway
	logger *zap.Logger
}

// NewGateway returns a Repository backed by the remote customers table.
func NewGateway(gw gateway.Gateway, logger *zap.Logger) Repository {
	return &gatewayRepo{gw: gw, logger: logging.OrNop(logger)}
}

func (r *gatewayRepo) List(ctx context.Context) ([]domain.Customer, error) {
	rows, err := r.gw.Select(ctx, Table, gateway.Query{
		Order: &gateway.Order{Column: colCreatedAt, Descending: true},
	})
	if err != nil {
		return nil, fmt.Errorf("select customers: %w", err)
	}
	out := make([]domain.Customer, 0, len(rows))
	for _, row := range rows {
		out = append(out, ToLocal(row))
	}
	r.logger.Debug("customers loaded", zap.Int("count", len(out)))
	return out, nil
}

func (r *gatewayRepo) Create(ctx context.Context, fields domain.CustomerFields) (*domain.Customer, error) {
	rows, err := r.gw.Insert(ctx, Table, []gateway.Row{ToRemote(fields)})
	if err != nil {
		return nil, fmt.Errorf("insert customer: %w", translate(err))
	}
	if len(rows) == 0 {
		return nil, errors.New("insert customer: backend returned no row")
	}
	c := ToLocal(rows[0])
	return &c, nil
}

func (r *gatewayRepo) Update(ctx context.Context, id string, fields domain.CustomerFields) (*domain.Customer, error) {
	rows, err := r.gw.Update(ctx, Table, ToRemote(fields), []gateway.Filter{gateway.Eq(colID, id)})
	if err != nil {
		return nil, fmt.Errorf("update customer %s: %w", id, translate(err))
	}
	if len(rows) == 0 {
		return nil, domain.ErrNotFound
	}
	c := ToLocal(rows[0])
	return &c, nil
}

func (r *gatewayRepo) Delete(ctx context.Context, id string) error {
	rows, err := r.gw.Delete(ctx, Table, []gateway.Filter{gateway.Eq(colID, id)})
	if err != nil {
		return fmt.Errorf("delete customer %s: %w", id, err)
	}
	if len(rows) == 0 {
		r.logger.Debug("delete matched no customer", zap.String("id", id))
	}
	return nil
}

// translate keeps the backend error and adds domain sentinels where the
// SQLSTATE carries one.
func translate(err error) error {
	var gwErr *gateway.Error
	if errors.As(err, &gwErr) && gwErr.Code == "23505" {
		return errors.Join(err, domain.ErrAlreadyExists)
	}
	return err
}
