package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/mapforge/mapforge/adapters/memory"
	"github.com/mapforge/mapforge/domain/document"
	"github.com/mapforge/mapforge/domain/mapping"
)

func testMapping(t *testing.T, name string) mapping.Config {
	t.Helper()
	src, err := document.ParsePath("Order/ID")
	if err != nil {
		t.Fatal(err)
	}
	tgt, err := document.ParsePath("Invoice/ID")
	if err != nil {
		t.Fatal(err)
	}
	return mapping.Config{
		Name: name,
		Connections: []mapping.Connection{
			{ID: "c1", SourcePaths: []document.Path{src}, TargetPath: tgt},
		},
	}
}

func TestMappingStore_SaveGet(t *testing.T) {
	s := memory.NewMappingStore()
	ctx := context.Background()

	if err := s.Save(ctx, testMapping(t, "m1")); err != nil {
		t.Fatal(err)
	}
	got, err := s.Get(ctx, "m1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "m1" || len(got.Connections) != 1 {
		t.Errorf("got = %+v", got)
	}
}

// Saved configurations are immutable: saving over a name fails.
func TestMappingStore_SaveExisting(t *testing.T) {
	s := memory.NewMappingStore()
	ctx := context.Background()

	if err := s.Save(ctx, testMapping(t, "m1")); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(ctx, testMapping(t, "m1")); !errors.Is(err, memory.ErrExists) {
		t.Errorf("err = %v, want ErrExists", err)
	}
}

func TestMappingStore_GetMissing(t *testing.T) {
	s := memory.NewMappingStore()
	if _, err := s.Get(context.Background(), "nope"); !errors.Is(err, memory.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestMappingStore_ListSorted(t *testing.T) {
	s := memory.NewMappingStore()
	ctx := context.Background()

	for _, name := range []string{"zeta", "alpha", "mid"} {
		if err := s.Save(ctx, testMapping(t, name)); err != nil {
			t.Fatal(err)
		}
	}
	names, err := s.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"alpha", "mid", "zeta"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("names = %v, want %v", names, want)
		}
	}
}

func TestMappingStore_Delete(t *testing.T) {
	s := memory.NewMappingStore()
	ctx := context.Background()

	if err := s.Save(ctx, testMapping(t, "m1")); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(ctx, "m1"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(ctx, "m1"); !errors.Is(err, memory.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if err := s.Delete(ctx, "m1"); !errors.Is(err, memory.ErrNotFound) {
		t.Errorf("double delete err = %v, want ErrNotFound", err)
	}
}
