package store

import (
	"errors"
	"testing"

	"github.com/dukerupert/wanderpack/internal/model"
)

func createTestList(t *testing.T, ps *PackingStore, userID int64, labels ...string) *model.PackingList {
	t.Helper()
	temp := 31.0
	l, err := ps.CreateList(model.PackingList{
		UserID:      userID,
		Destination: "Japan",
		StartDate:   "2026-04-01",
		EndDate:     "2026-04-07",
		TripType:    "Leisure",
		Activities:  []string{"Beach", "Photography"},
		PackingPref: "normal",
		Weather:     &model.Weather{TempC: &temp, Description: "clear sky"},
	}, labels)
	if err != nil {
		t.Fatalf("create list: %v", err)
	}
	return l
}

func TestPackingCreateList(t *testing.T) {
	db := setupTestDB(t)
	ps := NewPackingStore(db)
	u := createTestUser(t, db, "alice@example.com")

	l := createTestList(t, ps, u.ID, "Casual Wear", "Sunscreen", "Casual Wear", "Camera")

	if len(l.Activities) != 2 || l.Activities[1] != "Photography" {
		t.Errorf("activities = %v", l.Activities)
	}
	if l.Weather == nil || l.Weather.TempC == nil || *l.Weather.TempC != 31 {
		t.Errorf("weather = %+v", l.Weather)
	}
	want := []string{"Casual Wear", "Sunscreen", "Camera"}
	if len(l.Items) != len(want) {
		t.Fatalf("got %d items, want %d", len(l.Items), len(want))
	}
	for i, label := range want {
		if l.Items[i].Label != label {
			t.Errorf("items[%d] = %q, want %q", i, l.Items[i].Label, label)
		}
	}
}

func TestPackingCreateListWeatherWithoutTemperature(t *testing.T) {
	db := setupTestDB(t)
	ps := NewPackingStore(db)
	u := createTestUser(t, db, "alice@example.com")

	l, err := ps.CreateList(model.PackingList{
		UserID:  u.ID,
		Weather: &model.Weather{Description: "clear sky"},
	}, nil)
	if err != nil {
		t.Fatalf("create list: %v", err)
	}
	if l.Weather == nil {
		t.Fatal("expected weather description to be kept")
	}
	if l.Weather.TempC != nil {
		t.Errorf("TempC = %v, want nil", *l.Weather.TempC)
	}
	if l.Weather.Description != "clear sky" {
		t.Errorf("Description = %q, want %q", l.Weather.Description, "clear sky")
	}
}

func TestPackingCreateListWithoutWeather(t *testing.T) {
	db := setupTestDB(t)
	ps := NewPackingStore(db)
	u := createTestUser(t, db, "alice@example.com")

	l, err := ps.CreateList(model.PackingList{UserID: u.ID, TripType: "Business"}, nil)
	if err != nil {
		t.Fatalf("create list: %v", err)
	}
	if l.Weather != nil {
		t.Errorf("weather = %+v, want nil", l.Weather)
	}
	if l.Activities == nil || len(l.Activities) != 0 {
		t.Errorf("activities = %v, want empty", l.Activities)
	}
	if l.Items == nil {
		t.Error("expected empty, non-nil items")
	}
}

func TestPackingListsScopedToUser(t *testing.T) {
	db := setupTestDB(t)
	ps := NewPackingStore(db)
	alice := createTestUser(t, db, "alice@example.com")
	bob := createTestUser(t, db, "bob@example.com")

	l := createTestList(t, ps, alice.ID, "Camera")
	createTestList(t, ps, alice.ID, "Laptop")

	lists, err := ps.ListLists(alice.ID)
	if err != nil {
		t.Fatalf("list lists: %v", err)
	}
	if len(lists) != 2 {
		t.Fatalf("got %d lists, want 2", len(lists))
	}

	got, err := ps.GetList(bob.ID, l.ID)
	if err != nil {
		t.Fatalf("get list: %v", err)
	}
	if got != nil {
		t.Error("expected nil for other user's list")
	}
}

func TestPackingAddItem(t *testing.T) {
	db := setupTestDB(t)
	ps := NewPackingStore(db)
	u := createTestUser(t, db, "alice@example.com")
	l := createTestList(t, ps, u.ID, "Camera", "Laptop")

	item, err := ps.AddItem(l.ID, "Passport")
	if err != nil {
		t.Fatalf("add item: %v", err)
	}
	if item.SortOrder != 2 {
		t.Errorf("sort_order = %d, want 2", item.SortOrder)
	}

	_, err = ps.AddItem(l.ID, "Camera")
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("err = %v, want ErrDuplicate", err)
	}
}

func TestPackingTogglePacked(t *testing.T) {
	db := setupTestDB(t)
	ps := NewPackingStore(db)
	u := createTestUser(t, db, "alice@example.com")
	l := createTestList(t, ps, u.ID, "Camera", "Laptop")
	id := l.Items[0].ID

	item, err := ps.TogglePacked(l.ID, id)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !item.Packed || item.PackedAt == nil {
		t.Errorf("expected packed with timestamp, got %+v", item)
	}

	n, err := ps.CountUnpacked(l.ID)
	if err != nil {
		t.Fatalf("count unpacked: %v", err)
	}
	if n != 1 {
		t.Errorf("unpacked = %d, want 1", n)
	}

	item, _ = ps.TogglePacked(l.ID, id)
	if item.Packed || item.PackedAt != nil {
		t.Errorf("expected unpacked, got %+v", item)
	}

	missing, err := ps.TogglePacked(l.ID, 999)
	if err != nil {
		t.Fatalf("toggle missing: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for missing item")
	}
}

func TestPackingDeleteList(t *testing.T) {
	db := setupTestDB(t)
	ps := NewPackingStore(db)
	u := createTestUser(t, db, "alice@example.com")
	l := createTestList(t, ps, u.ID, "Camera")

	deleted, err := ps.DeleteList(u.ID, l.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !deleted {
		t.Fatal("expected list deleted")
	}
	items, err := ps.ListItems(l.ID)
	if err != nil {
		t.Fatalf("list items: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("got %d items, want 0", len(items))
	}
}
