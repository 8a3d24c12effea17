// Package forms validates the customer-facing and back-office customer forms
// and produces the field messages shown next to each input.
package forms

import (
	"strings"

	"sisera-crm/internal/domain"
)

// Profile holds the personal details every onboarding path asks for.
type Profile struct {
	FirstName string      `json:"firstName" validate:"notblank"`
	LastName  string      `json:"lastName" validate:"notblank"`
	Email     string      `json:"email" validate:"notblank,looseemail"`
	Phone     string      `json:"phone" validate:"notblank"`
	Address   string      `json:"address" validate:"notblank"`
	BirthDate string      `json:"birthDate" validate:"required,isodate"`
	Store     domain.Shop `json:"store" validate:"required,shop"`
}

// Fields converts the profile into an insert payload. Notes are not part of
// the profile.
func (p Profile) Fields() domain.CustomerFields {
	store := p.Store
	return domain.CustomerFields{
		FirstName: &p.FirstName,
		LastName:  &p.LastName,
		Email:     &p.Email,
		Phone:     &p.Phone,
		Address:   &p.Address,
		BirthDate: &p.BirthDate,
		Store:     &store,
	}
}

// RegistrationForm is the public self-registration form.
type RegistrationForm struct {
	Profile
	AcceptMarketing bool `json:"acceptMarketing"`
	AcceptTerms     bool `json:"acceptTerms" validate:"required"`
}

// OnboardingForm is the guided onboarding used by staff.
type OnboardingForm struct {
	Profile
}

// CustomerForm is the quick-add form of the customer overview. The store is
// taken from the selected shop.
type CustomerForm struct {
	FirstName string `json:"firstName" validate:"notblank"`
	LastName  string `json:"lastName" validate:"notblank"`
	Email     string `json:"email" validate:"notblank,looseemail"`
	Phone     string `json:"phone" validate:"notblank"`
	Address   string `json:"address"`
	BirthDate string `json:"birthDate" validate:"omitempty,isodate"`
	Notes     string `json:"notes"`
}

// Fields converts the form into an insert payload for shop.
func (f CustomerForm) Fields(shop domain.Shop) domain.CustomerFields {
	return domain.CustomerFields{
		FirstName: &f.FirstName,
		LastName:  &f.LastName,
		Email:     &f.Email,
		Phone:     &f.Phone,
		Address:   &f.Address,
		BirthDate: &f.BirthDate,
		Store:     &shop,
		Notes:     &f.Notes,
	}
}

// UpdateForm is a partial edit. Absent fields are left untouched.
type UpdateForm struct {
	FirstName *string      `json:"firstName" validate:"omitnil,notblank"`
	LastName  *string      `json:"lastName" validate:"omitnil,notblank"`
	Email     *string      `json:"email" validate:"omitnil,notblank,looseemail"`
	Phone     *string      `json:"phone" validate:"omitnil,notblank"`
	Address   *string      `json:"address"`
	BirthDate *string      `json:"birthDate" validate:"omitnil,isodate|eq="`
	Store     *domain.Shop `json:"store"`
	Notes     *string      `json:"notes"`
}

// Fields converts the form into an update payload.
func (f UpdateForm) Fields() domain.CustomerFields {
	return domain.CustomerFields{
		FirstName: f.FirstName,
		LastName:  f.LastName,
		Email:     f.Email,
		Phone:     f.Phone,
		Address:   f.Address,
		BirthDate: f.BirthDate,
		Store:     f.Store,
		Notes:     f.Notes,
	}
}

// Empty reports whether no field was supplied.
func (f UpdateForm) Empty() bool {
	return f.FirstName == nil && f.LastName == nil && f.Email == nil && f.Phone == nil &&
		f.Address == nil && f.BirthDate == nil && f.Store == nil && f.Notes == nil
}

// Trim removes surrounding whitespace from the free-text fields of f.
func (f *CustomerForm) Trim() {
	f.FirstName = strings.TrimSpace(f.FirstName)
	f.LastName = strings.TrimSpace(f.LastName)
	f.Email = strings.TrimSpace(f.Email)
	f.Phone = strings.TrimSpace(f.Phone)
	f.Address = strings.TrimSpace(f.Address)
	f.BirthDate = strings.TrimSpace(f.BirthDate)
}

// Trim removes surrounding whitespace from the free-text fields of p.
func (p *Profile) Trim() {
	p.FirstName = strings.TrimSpace(p.FirstName)
	p.LastName = strings.TrimSpace(p.LastName)
	p.Email = strings.TrimSpace(p.Email)
	p.Phone = strings.TrimSpace(p.Phone)
	p.Address = strings.TrimSpace(p.Address)
}
