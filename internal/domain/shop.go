package domain

import "slices"

// Shop identifies one of the two storefronts.
type Shop string

const (
	ShopSisera Shop = "sisera"
	ShopBoss   Shop = "boss"
)

// DefaultShop is selected until the user picks another one.
const DefaultShop = ShopSisera

// Shops lists every storefront in display order.
var Shops = []Shop{ShopSisera, ShopBoss}

// Valid reports whether s is a known storefront.
func (s Shop) Valid() bool {
	return slices.Contains(Shops, s)
}

// ParseShop validates a raw storefront value.
func ParseShop(raw string) (Shop, error) {
	s := Shop(raw)
	if !s.Valid() {
		return "", ErrUnknownShop
	}
	return s, nil
}
