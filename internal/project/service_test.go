package project

import (
	"context"
	"strconv"
	"testing"
)

func TestMemoryListProjectsFilters(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	seed := []Project{
		{ID: "p1", Title: "Solar Car", CreatorID: "c1", CreatedAt: 100},
		{ID: "p2", Title: "Solar Oven", CreatorID: "c2", CreatedAt: 200},
		{ID: "p3", Title: "Wind Tunnel", CreatorID: "c1", CreatedAt: 300},
	}
	for _, p := range seed {
		if err := store.PutProject(ctx, p); err != nil {
			t.Fatal(err)
		}
	}

	out, err := store.ListProjects(ctx, ListOpts{CreatorID: "c1"})
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 || out[0].ID != "p3" || out[1].ID != "p1" {
		t.Errorf("creator filter: got %v", out)
	}

	out, err = store.ListProjects(ctx, ListOpts{Q: "Solar"})
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 || out[0].ID != "p2" || out[1].ID != "p1" {
		t.Errorf("title filter: got %v", out)
	}

	out, err = store.ListProjects(ctx, ListOpts{Q: "Solar", CreatorID: "c2"})
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 || out[0].ID != "p2" {
		t.Errorf("combined filter: got %v", out)
	}
}

func TestMemoryListProjectsPagination(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	for i := 0; i < 5; i++ {
		p := Project{ID: "p" + strconv.Itoa(i), Title: "Project", CreatedAt: int64(100 + i)}
		if err := store.PutProject(ctx, p); err != nil {
			t.Fatal(err)
		}
	}

	out, err := store.ListProjects(ctx, ListOpts{Limit: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 || out[0].ID != "p4" || out[1].ID != "p3" {
		t.Errorf("limit page: got %v", out)
	}

	out, err = store.ListProjects(ctx, ListOpts{Limit: 2, Offset: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 || out[0].ID != "p2" || out[1].ID != "p1" {
		t.Errorf("offset page: got %v", out)
	}

	out, err = store.ListProjects(ctx, ListOpts{Offset: 99})
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 0 {
		t.Errorf("past-the-end offset: got %v", out)
	}
}
