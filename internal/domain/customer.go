package domain

import "time"

// Customer is a registered client of one of the storefronts.
type Customer struct {
	ID        string    `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address,omitempty"`
	BirthDate string    `json:"birthDate,omitempty"`
	Store     Shop      `json:"store"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FullName joins first and last name the way lists display them.
func (c Customer) FullName() string {
	return c.FirstName + " " + c.LastName
}

// CustomerFields carries a partial customer. Nil fields are not supplied and
// are left out of inserts and updates.
type CustomerFields struct {
	FirstName *string
	LastName  *string
	Email     *string
	Phone     *string
	Address   *string
	BirthDate *string
	Store     *Shop
	Notes     *string
}

// FieldsOf returns the full set of writable fields of c.
func FieldsOf(c Customer) CustomerFields {
	store := c.Store
	return CustomerFields{
		FirstName: &c.FirstName,
		LastName:  &c.LastName,
		Email:     &c.Email,
		Phone:     &c.Phone,
		Address:   &c.Address,
		BirthDate: &c.BirthDate,
		Store:     &store,
		Notes:     &c.Notes,
	}
}
