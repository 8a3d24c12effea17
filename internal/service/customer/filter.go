package customer

import (
	"strings"

	"sisera-crm/internal/domain"
)

// FilterByShop keeps the customers affiliated with shop, preserving order.
func FilterByShop(list []domain.Customer, shop domain.Shop) []domain.Customer {
	out := make([]domain.Customer, 0, len(list))
	for _, c := range list {
		if c.Store == shop {
			out = append(out, c)
		}
	}
	return out
}

// Search matches term against the full name and email (case-insensitive) and
// the phone number (verbatim). An empty term matches everything.
func Search(list []domain.Customer, term string) []domain.Customer {
	if term == "" {
		return append([]domain.Customer(nil), list...)
	}
	lower := strings.ToLower(term)
	out := make([]domain.Customer, 0, len(list))
	for _, c := range list {
		if strings.Contains(strings.ToLower(c.FullName()), lower) ||
			strings.Contains(strings.ToLower(c.Email), lower) ||
			strings.Contains(c.Phone, term) {
			out = append(out, c)
		}
	}
	return out
}
