// Package gateway exposes generic table CRUD against the hosted data backend.
//
// Rows travel in their wire shape: snake_case column names, timestamps as
// RFC 3339 strings in UTC, dates as YYYY-MM-DD and identifiers as strings.
package gateway

import (
	"context"
	"fmt"
)

// TimestampLayout renders timestamps with fixed microsecond precision so that
// lexical and chronological order agree.
const TimestampLayout = "2006-01-02T15:04:05.000000Z07:00"

// DateLayout renders calendar dates.
const DateLayout = "2006-01-02"

// Row is a single record keyed by column name.
type Row map[string]any

// Clone returns a shallow copy of r.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Filter restricts an operation to rows whose column equals Value.
type Filter struct {
	Column string
	Value  any
}

// Eq builds an equality filter.
func Eq(column string, value any) Filter {
	return Filter{Column: column, Value: value}
}

// Order sorts a selection by one column.
type Order struct {
	Column     string
	Descending bool
}

// Query describes a selection. Empty Columns selects every column.
type Query struct {
	Columns []string
	Filters []Filter
	Order   *Order
}

// Gateway is the backend capability consumed by the repositories.
type Gateway interface {
	Select(ctx context.Context, table string, q Query) ([]Row, error)
	Insert(ctx context.Context, table string, rows []Row) ([]Row, error)
	Update(ctx context.Context, table string, patch Row, filters []Filter) ([]Row, error)
	Delete(ctx context.Context, table string, filters []Filter) ([]Row, error)
	Ping(ctx context.Context) error
}

// Error is the structured failure returned by every gateway call. Transport
// failures carry an empty Code.
type Error struct {
	Code    string
	Message string
	Details string
	Hint    string
	cause   error
}

func (e *Error) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return fmt.Sprintf("%s (code %s)", e.Message, e.Code)
}

func (e *Error) Unwrap() error {
	return e.cause
}

const (
	// CodeMissingFilter rejects unfiltered updates and deletes.
	CodeMissingFilter = "CRM01"
	// CodeEmptyPatch rejects updates without columns.
	CodeEmptyPatch = "CRM02"
)

func errMissingFilter(op string) error {
	return &Error{Code: CodeMissingFilter, Message: op + " requires at least one filter"}
}

func errEmptyPatch() error {
	return &Error{Code: CodeEmptyPatch, Message: "update requires at least one column"}
}
