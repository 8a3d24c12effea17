package gateway

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"sisera-crm/internal/logging"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Postgres implements Gateway on a pgx pool.
type Postgres struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPostgres returns a Gateway backed by Postgres.
func NewPostgres(pool *pgxpool.Pool, logger *zap.Logger) *Postgres {
	return &Postgres{pool: pool, logger: logging.OrNop(logger)}
}

func (p *Postgres) Select(ctx context.Context, table string, q Query) ([]Row, error) {
	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(columnList(q.Columns))
	sb.WriteString(" FROM ")
	sb.WriteString(ident(table))
	args := writeWhere(&sb, q.Filters, nil)
	if q.Order != nil {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(ident(q.Order.Column))
		if q.Order.Descending {
			sb.WriteString(" DESC")
		}
	}

	rows, err := p.pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, p.translate("select", table, err)
	}
	out, err := collectRows(rows)
	if err != nil {
		return nil, p.translate("select", table, err)
	}
	return out, nil
}

func (p *Postgres) Insert(ctx context.Context, table string, rows []Row) ([]Row, error) {
	var out []Row
	err := pgx.BeginFunc(ctx, p.pool, func(tx pgx.Tx) error {
		for _, row := range rows {
			cols := sortedColumns(row)
			var sb strings.Builder
			sb.WriteString("INSERT INTO ")
			sb.WriteString(ident(table))
			if len(cols) == 0 {
				sb.WriteString(" DEFAULT VALUES")
			} else {
				sb.WriteString(" (")
				for i, c := range cols {
					if i > 0 {
						sb.WriteString(", ")
					}
					sb.WriteString(ident(c))
				}
				sb.WriteString(") VALUES (")
				for i := range cols {
					if i > 0 {
						sb.WriteString(", ")
					}
					fmt.Fprintf(&sb, "$%d", i+1)
				}
				sb.WriteString(")")
			}
			sb.WriteString(" RETURNING *")

			args := make([]any, 0, len(cols))
			for _, c := range cols {
				args = append(args, row[c])
			}
			res, err := tx.Query(ctx, sb.String(), args...)
			if err != nil {
				return err
			}
			inserted, err := collectRows(res)
			if err != nil {
				return err
			}
			out = append(out, inserted...)
		}
		return nil
	})
	if err != nil {
		return nil, p.translate("insert", table, err)
	}
	return out, nil
}

func (p *Postgres) Update(ctx context.Context, table string, patch Row, filters []Filter) ([]Row, error) {
	if len(filters) == 0 {
		return nil, errMissingFilter("update")
	}
	cols := sortedColumns(patch)
	if len(cols) == 0 {
		return nil, errEmptyPatch()
	}

	var sb strings.Builder
	sb.WriteString("UPDATE ")
	sb.WriteString(ident(table))
	sb.WriteString(" SET ")
	args := make([]any, 0, len(cols)+len(filters))
	for i, c := range cols {
		if i > 0 {
			sb.WriteString(", ")
		}
		args = append(args, patch[c])
		fmt.Fprintf(&sb, "%s = $%d", ident(c), len(args))
	}
	args = writeWhere(&sb, filters, args)
	sb.WriteString(" RETURNING *")

	rows, err := p.pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, p.translate("update", table, err)
	}
	out, err := collectRows(rows)
	if err != nil {
		return nil, p.translate("update", table, err)
	}
	return out, nil
}

func (p *Postgres) Delete(ctx context.Context, table string, filters []Filter) ([]Row, error) {
	if len(filters) == 0 {
		return nil, errMissingFilter("delete")
	}
	var sb strings.Builder
	sb.WriteString("DELETE FROM ")
	sb.WriteString(ident(table))
	args := writeWhere(&sb, filters, nil)
	sb.WriteString(" RETURNING *")

	rows, err := p.pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, p.translate("delete", table, err)
	}
	out, err := collectRows(rows)
	if err != nil {
		return nil, p.translate("delete", table, err)
	}
	return out, nil
}

func (p *Postgres) Ping(ctx context.Context) error {
	if err := p.pool.Ping(ctx); err != nil {
		return p.translate("ping", "", err)
	}
	return nil
}

func (p *Postgres) translate(op, table string, err error) error {
	gwErr := translateError(err)
	p.logger.Warn("gateway call failed",
		zap.String("op", op),
		zap.String("table", table),
		zap.String("code", gwErr.Code),
		zap.Error(err),
	)
	return gwErr
}

func translateError(err error) *Error {
	var gwErr *Error
	if errors.As(err, &gwErr) {
		return gwErr
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return &Error{
			Code:    pgErr.Code,
			Message: pgErr.Message,
			Details: pgErr.Detail,
			Hint:    pgErr.Hint,
			cause:   err,
		}
	}
	return &Error{Message: err.Error(), cause: err}
}

func collectRows(rows pgx.Rows) ([]Row, error) {
	defer rows.Close()
	fields := rows.FieldDescriptions()
	var out []Row
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}
		row := make(Row, len(fields))
		for i, fd := range fields {
			row[fd.Name] = wireValue(fd.DataTypeOID, values[i])
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func wireValue(oid uint32, v any) any {
	switch val := v.(type) {
	case time.Time:
		if oid == pgtype.DateOID {
			return val.Format(DateLayout)
		}
		return val.UTC().Format(TimestampLayout)
	case [16]byte:
		return uuid.UUID(val).String()
	default:
		return val
	}
}

func writeWhere(sb *strings.Builder, filters []Filter, args []any) []any {
	for i, f := range filters {
		if i == 0 {
			sb.WriteString(" WHERE ")
		} else {
			sb.WriteString(" AND ")
		}
		args = append(args, f.Value)
		fmt.Fprintf(sb, "%s = $%d", ident(f.Column), len(args))
	}
	return args
}

func columnList(cols []string) string {
	if len(cols) == 0 {
		return "*"
	}
	quoted := make([]string, 0, len(cols))
	for _, c := range cols {
		if c == "*" {
			return "*"
		}
		quoted = append(quoted, ident(c))
	}
	return strings.Join(quoted, ", ")
}

func sortedColumns(row Row) []string {
	cols := make([]string, 0, len(row))
	for c := range row {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	return cols
}

func ident(name string) string {
	return pgx.Identifier{name}.Sanitize()
}
