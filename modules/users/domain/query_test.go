package domain_test

import (
	"math"
	"reflect"
	"testing"

	"github.com/rai/user-management-api/modules/users/domain"
)

func TestBuildCriteria_NoFilters(t *testing.T) {
	c := domain.BuildCriteria(domain.DefaultListParams())

	if len(c.Predicates) != 0 {
		t.Errorf("expected no predicates, got %v", c.Predicates)
	}
	if c.Skip != 0 || c.Take != 10 {
		t.Errorf("expected skip 0 take 10, got skip %d take %d", c.Skip, c.Take)
	}
	wantSort := []domain.SortKey{{Field: "name"}, {Field: "id"}}
	if !reflect.DeepEqual(c.Sort, wantSort) {
		t.Errorf("expected sort %v, got %v", wantSort, c.Sort)
	}
}

func TestBuildCriteria_AllFilters(t *testing.T) {
	p := domain.ListParams{
		Q:        "ana",
		MinAge:   ptr(18),
		MaxAge:   ptr(30),
		IsActive: ptr(true),
		Page:     3,
		Limit:    20,
	}

	c := domain.BuildCriteria(p)

	want := []domain.Predicate{
		{Field: "name", Conditions: []domain.Condition{{Op: domain.OpContainsFold, Value: "ana"}}},
		{Field: "age", Conditions: []domain.Condition{{Op: domain.OpGte, Value: 18}, {Op: domain.OpLte, Value: 30}}},
		{Field: "is_active", Conditions: []domain.Condition{{Op: domain.OpEq, Value: true}}},
	}
	if !reflect.DeepEqual(c.Predicates, want) {
		t.Errorf("unexpected predicates:\n got  %v\n want %v", c.Predicates, want)
	}
	if c.Skip != 40 || c.Take != 20 {
		t.Errorf("expected skip 40 take 20, got skip %d take %d", c.Skip, c.Take)
	}
}

func TestBuildCriteria_SingleAgeBound(t *testing.T) {
	tests := []struct {
		name   string
		params domain.ListParams
		want   []domain.Condition
	}{
		{"min only", domain.ListParams{MinAge: ptr(21), Page: 1, Limit: 10}, []domain.Condition{{Op: domain.OpGte, Value: 21}}},
		{"max only", domain.ListParams{MaxAge: ptr(65), Page: 1, Limit: 10}, []domain.Condition{{Op: domain.OpLte, Value: 65}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := domain.BuildCriteria(tt.params)
			if len(c.Predicates) != 1 || c.Predicates[0].Field != "age" {
				t.Fatalf("expected a single age predicate, got %v", c.Predicates)
			}
			if !reflect.DeepEqual(c.Predicates[0].Conditions, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, c.Predicates[0].Conditions)
			}
		})
	}
}

func TestBuildCriteria_EmptyQueryIgnored(t *testing.T) {
	p := domain.DefaultListParams()
	p.Q = ""
	if c := domain.BuildCriteria(p); len(c.Predicates) != 0 {
		t.Errorf("expected empty q to add no predicate, got %v", c.Predicates)
	}
}

func TestBuildCriteria_Deterministic(t *testing.T) {
	p := domain.ListParams{Q: "x", MinAge: ptr(1), IsActive: ptr(false), Page: 2, Limit: 5}
	if !reflect.DeepEqual(domain.BuildCriteria(p), domain.BuildCriteria(p)) {
		t.Error("expected identical criteria for identical params")
	}
}

func TestBuildCriteria_Skip(t *testing.T) {
	tests := []struct {
		name        string
		page, limit int
		wantSkip    int
	}{
		{"first page", 1, 10, 0},
		{"third page", 3, 10, 20},
		{"largest page that fits", math.MaxInt/100 + 1, 100, (math.MaxInt / 100) * 100},
		{"overflow saturates", 92233720368547760, 100, math.MaxInt},
		{"overflow that would wrap small", 1152921504606846977, 16, math.MaxInt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := domain.BuildCriteria(domain.ListParams{Page: tt.page, Limit: tt.limit})
			if c.Skip != tt.wantSkip {
				t.Errorf("expected skip %d, got %d", tt.wantSkip, c.Skip)
			}
			if c.Skip < 0 {
				t.Errorf("skip must never be negative, got %d", c.Skip)
			}
		})
	}
}
