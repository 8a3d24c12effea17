package seed

import (
	"context"
	"fmt"
	"strings"

	"sisera-crm/internal/domain"
)

// Registry is the part of the customer registry the seeder needs.
type Registry interface {
	LoadCustomers(ctx context.Context) error
	Customers() []domain.Customer
	AddCustomer(ctx context.Context, fields domain.CustomerFields) (*domain.Customer, error)
}

// Demo lists the customers inserted for manual testing.
var Demo = []domain.Customer{
	{FirstName: "Lotte", LastName: "Janssens", Email: "lotte.janssens@example.be", Phone: "+32 470 11 22 33", Address: "Meir 1, 2000 Antwerpen", BirthDate: "1988-07-14", Store: domain.ShopSisera, Notes: "VIP klant"},
	{FirstName: "Anke", LastName: "Maes", Email: "anke.maes@example.be", Phone: "+32 486 00 11 22", Address: "Veldstraat 12, 9000 Gent", BirthDate: "1995-02-03", Store: domain.ShopSisera, Notes: "Bestelt vooral online"},
	{FirstName: "Sofie", LastName: "Claes", Email: "sofie.claes@example.be", Phone: "+32 475 98 76 54", Store: domain.ShopSisera},
	{FirstName: "Tom", LastName: "Peeters", Email: "tom.peeters@example.be", Phone: "+32 499 12 34 56", Address: "Bondgenotenlaan 5, 3000 Leuven", BirthDate: "1990-11-21", Store: domain.ShopBoss, Notes: "VIP, online shopper"},
	{FirstName: "Pieter", LastName: "Wouters", Email: "pieter.wouters@example.be", Phone: "+32 468 55 44 33", Store: domain.ShopBoss},
}

// Apply inserts the demo customers that are not present yet, matched by email.
// It returns how many were added.
func Apply(ctx context.Context, reg Registry) (int, error) {
	if err := reg.LoadCustomers(ctx); err != nil {
		return 0, fmt.Errorf("load customers: %w", err)
	}
	existing := make(map[string]struct{})
	for _, c := range reg.Customers() {
		existing[strings.ToLower(c.Email)] = struct{}{}
	}

	added := 0
	for _, c := range Demo {
		if _, ok := existing[strings.ToLower(c.Email)]; ok {
			continue
		}
		if _, err := reg.AddCustomer(ctx, domain.FieldsOf(c)); err != nil {
			return added, fmt.Errorf("add customer %s: %w", c.Email, err)
		}
		added++
	}
	return added, nil
}
