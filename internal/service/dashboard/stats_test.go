package dashboard

import (
	"fmt"
	"testing"
	"time"

	"sisera-crm/internal/domain"
)

func TestCompute(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	var list []domain.Customer
	for i := 0; i < 7; i++ {
		list = append(list, domain.Customer{
			ID:        fmt.Sprint(i),
			Store:     domain.ShopSisera,
			CreatedAt: now.AddDate(0, 0, -i*5),
		})
	}
	list[0].Notes = "VIP klant"
	list[1].Notes = "vip, bestelt online"
	list[2].Notes = "Online shopper"
	list = append(list, domain.Customer{ID: "boss", Store: domain.ShopBoss, CreatedAt: now, Notes: "VIP"})

	st := Compute(list, domain.ShopSisera, now)
	if st.Total != 7 {
		t.Fatalf("expected 7 sisera customers, got %d", st.Total)
	}
	// created on days 15, 10, 5 of June; the rest fall in May
	if st.NewThisMonth != 3 {
		t.Fatalf("expected 3 new this month, got %d", st.NewThisMonth)
	}
	if st.VIP != 2 || st.Online != 2 {
		t.Fatalf("unexpected vip/online counts %d/%d", st.VIP, st.Online)
	}
	if len(st.Recent) != RecentLimit || st.Recent[0].ID != "0" || st.Recent[4].ID != "4" {
		t.Fatalf("unexpected recent list %+v", st.Recent)
	}
}

func TestCompute_OrdersRecentNewestFirst(t *testing.T) {
	now := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
	list := []domain.Customer{
		{ID: "old", Store: domain.ShopBoss, CreatedAt: now.AddDate(-1, 0, 0)},
		{ID: "new", Store: domain.ShopBoss, CreatedAt: now},
	}
	st := Compute(list, domain.ShopBoss, now)
	if st.Recent[0].ID != "new" || st.Recent[1].ID != "old" {
		t.Fatalf("unexpected order %+v", st.Recent)
	}
	if st.NewThisMonth != 1 {
		t.Fatalf("same month of another year must not count, got %d", st.NewThisMonth)
	}
	if list[0].ID != "old" {
		t.Fatalf("input slice was reordered")
	}
}

func TestCompute_Empty(t *testing.T) {
	st := Compute(nil, domain.ShopSisera, time.Now())
	if st.Total != 0 || st.Recent == nil || len(st.Recent) != 0 {
		t.Fatalf("unexpected stats %+v", st)
	}
}
