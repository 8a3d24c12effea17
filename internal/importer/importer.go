package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"sisera-crm/internal/domain"
	"sisera-crm/internal/forms"
)

// CustomerWriter receives each imported customer.
type CustomerWriter interface {
	AddCustomer(ctx context.Context, fields domain.CustomerFields) (*domain.Customer, error)
}

// CSVImporter reads customer CSV exports and inserts them one by one. Headers
// may use either the remote column names (first_name) or the local ones
// (firstName).
type CSVImporter struct {
	reader      *csv.Reader
	writer      CustomerWriter
	defaultShop domain.Shop
}

func NewCSVImporter(r io.Reader, writer CustomerWriter, defaultShop domain.Shop) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	csvr.TrimLeadingSpace = true
	return &CSVImporter{
		reader:      csvr,
		writer:      writer,
		defaultShop: defaultShop,
	}
}

var columnAliases = map[string]string{
	"first_name": "firstName",
	"last_name":  "lastName",
	"birth_date": "birthDate",
	"shop":       "store",
}

// Run parses CSV rows and adds one customer per row. It stops at the first
// invalid or rejected row and reports how many were added before it.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	if _, ok := index["email"]; !ok {
		return 0, errors.New("read headers: missing email column")
	}

	imported := 0
	for line := 2; ; line++ {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row %d: %w", line, err)
		}
		if blank(record) {
			continue
		}

		profile, notes := i.parseRow(record, index)
		if err := forms.Validate(forms.CustomerForm{
			FirstName: profile.FirstName,
			LastName:  profile.LastName,
			Email:     profile.Email,
			Phone:     profile.Phone,
			BirthDate: profile.BirthDate,
		}); err != nil {
			return imported, fmt.Errorf("row %d (%s): %w", line, profile.Email, err)
		}
		if !profile.Store.Valid() {
			return imported, fmt.Errorf("row %d (%s): %w", line, profile.Email, domain.ErrUnknownShop)
		}

		fields := profile.Fields()
		if notes != "" {
			fields.Notes = &notes
		}
		if _, err := i.writer.AddCustomer(ctx, fields); err != nil {
			return imported, fmt.Errorf("add customer %q: %w", profile.Email, err)
		}
		imported++
	}
	return imported, nil
}

func (i *CSVImporter) parseRow(record []string, index map[string]int) (forms.Profile, string) {
	p := forms.Profile{
		FirstName: pick(record, index, "firstName"),
		LastName:  pick(record, index, "lastName"),
		Email:     pick(record, index, "email"),
		Phone:     pick(record, index, "phone"),
		Address:   pick(record, index, "address"),
		BirthDate: pick(record, index, "birthDate"),
		Store:     domain.Shop(strings.ToLower(pick(record, index, "store"))),
	}
	if p.Store == "" {
		p.Store = i.defaultShop
	}
	return p, pick(record, index, "notes")
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if alias, ok := columnAliases[h]; ok {
			h = alias
		}
		idx[h] = i
	}
	return idx
}

func blank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
