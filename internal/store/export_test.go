package store

import (
	"errors"
	"testing"
	"time"
)

func TestExports_CreateGet(t *testing.T) {
	r := newTestStore(t).Exports()

	rec := &ExportRecord{
		ID:               "exp-1",
		Filename:         "hand-drawing-2024-06-01T12-30-45.png",
		Width:            1000,
		Height:           750,
		Template:         "cat",
		IncludedTemplate: true,
		Bytes:            2048,
	}
	if err := r.Create(rec); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if rec.CreatedAt.IsZero() {
		t.Error("Create() should set CreatedAt")
	}

	got, err := r.GetByID("exp-1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Filename != rec.Filename || got.Width != 1000 || got.Height != 750 {
		t.Errorf("GetByID() = %+v, want %+v", got, rec)
	}
	if got.Template != "cat" || !got.IncludedTemplate || got.Bytes != 2048 {
		t.Errorf("GetByID() = %+v, want template cat included, 2048 bytes", got)
	}

	if _, err := r.GetByID("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID(missing) error = %v, want ErrNotFound", err)
	}
}

func TestExports_Validation(t *testing.T) {
	r := newTestStore(t).Exports()

	tests := []struct {
		name string
		rec  ExportRecord
	}{
		{name: "zero width", rec: ExportRecord{ID: "a", Filename: "a.png", Width: 0, Height: 10}},
		{name: "zero height", rec: ExportRecord{ID: "b", Filename: "b.png", Width: 10, Height: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := tt.rec
			if err := r.Create(&rec); err == nil {
				t.Error("Create() should reject a non-positive size")
			}
		})
	}
}

func TestExports_ListNewestFirst(t *testing.T) {
	r := newTestStore(t).Exports()
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	for i, id := range []string{"first", "second", "third"} {
		rec := &ExportRecord{
			ID:        id,
			Filename:  id + ".png",
			Width:     100,
			Height:    75,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := r.Create(rec); err != nil {
			t.Fatalf("Create(%s) error = %v", id, err)
		}
	}

	tests := []struct {
		name  string
		limit int
		want  []string
	}{
		{name: "all", limit: 0, want: []string{"third", "second", "first"}},
		{name: "limited", limit: 2, want: []string{"third", "second"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.List(tt.limit)
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("List() returned %d records, want %d", len(got), len(tt.want))
			}
			for i, id := range tt.want {
				if got[i].ID != id {
					t.Errorf("List()[%d].ID = %q, want %q", i, got[i].ID, id)
				}
			}
		})
	}
}

func TestExports_Delete(t *testing.T) {
	r := newTestStore(t).Exports()

	if err := r.Create(&ExportRecord{ID: "x", Filename: "x.png", Width: 1, Height: 1}); err != nil {
		t.Fatal(err)
	}
	if err := r.Delete("x"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := r.Delete("x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
}
