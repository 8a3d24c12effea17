package dashboard

import (
	"sort"
	"strings"
	"time"

	"sisera-crm/internal/domain"
)

// RecentLimit caps the recent customers list.
const RecentLimit = 5

// Stats summarises one storefront's customers.
type Stats struct {
	Shop         domain.Shop       `json:"shop"`
	ShopName     string            `json:"shopName"`
	Total        int               `json:"total"`
	NewThisMonth int               `json:"newThisMonth"`
	VIP          int               `json:"vip"`
	Online       int               `json:"online"`
	Recent       []domain.Customer `json:"recent"`
}

// Compute derives the dashboard counters for shop. Months are compared in
// now's location.
func Compute(customers []domain.Customer, shop domain.Shop, now time.Time) Stats {
	st := Stats{Shop: shop, Recent: []domain.Customer{}}
	var own []domain.Customer
	for _, c := range customers {
		if c.Store != shop {
			continue
		}
		own = append(own, c)
		created := c.CreatedAt.In(now.Location())
		if created.Year() == now.Year() && created.Month() == now.Month() {
			st.NewThisMonth++
		}
		notes := strings.ToLower(c.Notes)
		if strings.Contains(notes, "vip") {
			st.VIP++
		}
		if strings.Contains(notes, "online") {
			st.Online++
		}
	}
	st.Total = len(own)

	sort.SliceStable(own, func(i, j int) bool {
		return own[i].CreatedAt.After(own[j].CreatedAt)
	})
	if len(own) > RecentLimit {
		own = own[:RecentLimit]
	}
	st.Recent = append(st.Recent, own...)
	return st
}
