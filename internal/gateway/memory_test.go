package gateway

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func fixedClock(start time.Time, step time.Duration) func() time.Time {
	current := start
	return func() time.Time {
		now := current
		current = current.Add(step)
		return now
	}
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func TestMemory_InsertAssignsIDAndTimestamps(t *testing.T) {
	start := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	gw := NewMemory(WithClock(fixedClock(start, time.Second)), WithIDs(sequentialIDs()))

	rows, err := gw.Insert(context.Background(), "customers", []Row{{"first_name": "Ann"}})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	got := rows[0]
	if got["id"] != "id-1" {
		t.Fatalf("unexpected id %v", got["id"])
	}
	if got["created_at"] != "2025-03-01T10:00:00.000000Z" || got["updated_at"] != got["created_at"] {
		t.Fatalf("unexpected timestamps %v / %v", got["created_at"], got["updated_at"])
	}
}

func TestMemory_SelectOrdersAndFilters(t *testing.T) {
	gw := NewMemory(WithClock(fixedClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), time.Minute)))
	ctx := context.Background()
	for _, store := range []string{"sisera", "boss", "sisera"} {
		if _, err := gw.Insert(ctx, "customers", []Row{{"store": store}}); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	rows, err := gw.Select(ctx, "customers", Query{
		Filters: []Filter{Eq("store", "sisera")},
		Order:   &Order{Column: "created_at", Descending: true},
	})
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0]["created_at"].(string) <= rows[1]["created_at"].(string) {
		t.Fatalf("expected newest first, got %v then %v", rows[0]["created_at"], rows[1]["created_at"])
	}

	projected, err := gw.Select(ctx, "customers", Query{Columns: []string{"store"}})
	if err != nil {
		t.Fatalf("select columns: %v", err)
	}
	if _, ok := projected[0]["id"]; ok || len(projected[0]) != 1 {
		t.Fatalf("expected projection to only carry store, got %v", projected[0])
	}
}

func TestMemory_UpdateRefreshesUpdatedAt(t *testing.T) {
	gw := NewMemory(WithClock(fixedClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), time.Hour)), WithIDs(sequentialIDs()))
	ctx := context.Background()
	inserted, _ := gw.Insert(ctx, "customers", []Row{{"notes": ""}})

	rows, err := gw.Update(ctx, "customers", Row{"notes": "VIP"}, []Filter{Eq("id", "id-1")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(rows) != 1 || rows[0]["notes"] != "VIP" {
		t.Fatalf("unexpected update result %v", rows)
	}
	if rows[0]["updated_at"].(string) <= inserted[0]["updated_at"].(string) {
		t.Fatalf("updated_at did not advance: %v", rows[0]["updated_at"])
	}
	if rows[0]["created_at"] != inserted[0]["created_at"] {
		t.Fatalf("created_at changed")
	}
}

func TestMemory_StampNeverGoesBackwards(t *testing.T) {
	times := []time.Time{
		time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	i := 0
	gw := NewMemory(WithClock(func() time.Time {
		now := times[i]
		if i < len(times)-1 {
			i++
		}
		return now
	}), WithIDs(sequentialIDs()))
	ctx := context.Background()
	first, _ := gw.Insert(ctx, "customers", []Row{{}})
	updated, _ := gw.Update(ctx, "customers", Row{"notes": "x"}, []Filter{Eq("id", "id-1")})
	if updated[0]["updated_at"].(string) < first[0]["updated_at"].(string) {
		t.Fatalf("updated_at went backwards")
	}
}

func TestMemory_DeleteRemovesMatches(t *testing.T) {
	gw := NewMemory(WithIDs(sequentialIDs()))
	ctx := context.Background()
	_, _ = gw.Insert(ctx, "customers", []Row{{}, {}})

	removed, err := gw.Delete(ctx, "customers", []Filter{Eq("id", "id-1")})
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(removed) != 1 {
		t.Fatalf("expected one removed row, got %d", len(removed))
	}
	rest, _ := gw.Select(ctx, "customers", Query{})
	if len(rest) != 1 || rest[0]["id"] != "id-2" {
		t.Fatalf("unexpected remaining rows %v", rest)
	}
}

func TestMemory_RejectsUnfilteredMutations(t *testing.T) {
	gw := NewMemory()
	ctx := context.Background()

	_, err := gw.Delete(ctx, "customers", nil)
	var gwErr *Error
	if !errors.As(err, &gwErr) || gwErr.Code != CodeMissingFilter {
		t.Fatalf("expected missing filter error, got %v", err)
	}
	_, err = gw.Update(ctx, "customers", Row{}, []Filter{Eq("id", "x")})
	if !errors.As(err, &gwErr) || gwErr.Code != CodeEmptyPatch {
		t.Fatalf("expected empty patch error, got %v", err)
	}
}

func TestError_Message(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := &Error{Message: "dial tcp: refused", cause: cause}
	if err.Error() != "dial tcp: refused" {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected unwrap to cause")
	}
	coded := &Error{Code: "23505", Message: "duplicate key"}
	if coded.Error() != "duplicate key (code 23505)" {
		t.Fatalf("unexpected coded message %q", coded.Error())
	}
}
