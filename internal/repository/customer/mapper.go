package customer

import (
	"fmt"
	"time"

	"sisera-crm/internal/domain"
	"sisera-crm/internal/gateway"
)

const (
	colID        = "id"
	colFirstName = "first_name"
	colLastName  = "last_name"
	colEmail     = "email"
	colPhone     = "phone"
	colAddress   = "address"
	colBirthDate = "birth_date"
	colStore     = "store"
	colNotes     = "notes"
	colCreatedAt = "created_at"
	colUpdatedAt = "updated_at"
)

// ToLocal converts a remote row into a Customer. Missing or malformed values
// become zero values instead of errors; the backend owns the schema.
func ToLocal(row gateway.Row) domain.Customer {
	return domain.Customer{
		ID:        text(row, colID),
		FirstName: text(row, colFirstName),
		LastName:  text(row, colLastName),
		Email:     text(row, colEmail),
		Phone:     text(row, colPhone),
		Address:   text(row, colAddress),
		BirthDate: text(row, colBirthDate),
		Store:     domain.Shop(text(row, colStore)),
		Notes:     text(row, colNotes),
		CreatedAt: timestamp(row, colCreatedAt),
		UpdatedAt: timestamp(row, colUpdatedAt),
	}
}

// ToRemote converts supplied fields into a remote row. Nil fields are omitted
// so updates leave those columns alone. An empty birth date is sent as NULL.
func ToRemote(f domain.CustomerFields) gateway.Row {
	row := gateway.Row{}
	put := func(col string, v *string) {
		if v != nil {
			row[col] = *v
		}
	}
	put(colFirstName, f.FirstName)
	put(colLastName, f.LastName)
	put(colEmail, f.Email)
	put(colPhone, f.Phone)
	put(colAddress, f.Address)
	put(colNotes, f.Notes)
	if f.BirthDate != nil {
		if *f.BirthDate == "" {
			row[colBirthDate] = nil
		} else {
			row[colBirthDate] = *f.BirthDate
		}
	}
	if f.Store != nil {
		row[colStore] = string(*f.Store)
	}
	return row
}

func text(row gateway.Row, col string) string {
	switch v := row[col].(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}

func timestamp(row gateway.Row, col string) time.Time {
	switch v := row[col].(type) {
	case time.Time:
		return v
	case string:
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return time.Time{}
		}
		return t
	default:
		return time.Time{}
	}
}
