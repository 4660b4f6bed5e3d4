package domain

import "math"

// Operator is a comparison applied to a stored field.
type Operator string

const (
	OpEq           Operator = "eq"
	OpGte          Operator = "gte"
	OpLte          Operator = "lte"
	OpContainsFold Operator = "contains_fold" // case-insensitive literal substring
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Condition is one comparison inside a Predicate.
type Condition struct {
	Op    Operator
	Value any
}

// Predicate constrains a single field; its conditions are ANDed.
type Predicate struct {
	Field      string
	Conditions []Condition
}

// SortKey orders results by one field.
type SortKey struct {
	Field      string
	Descending bool
}

// Criteria is a storage-neutral list query: the conjunction of Predicates,
// ordered by Sort, windowed by Skip and Take.
type Criteria struct {
	Predicates []Predicate
	Sort       []SortKey
	Skip       int
	Take       int
}

// ListParams are the list filters as supplied by the caller.
type ListParams struct {
	Q        string `json:"q"`
	MinAge   *int   `json:"min_age" validate:"omitnil,gte=0"`
	MaxAge   *int   `json:"max_age" validate:"omitnil,gte=0"`
	IsActive *bool  `json:"is_active"`
	Page     int    `json:"page" validate:"gte=1"`
	Limit    int    `json:"limit" validate:"gte=1,lte=100"`
}

// DefaultListParams returns params with the default page and limit and no filters.
func DefaultListParams() ListParams {
	return ListParams{Page: DefaultPage, Limit: DefaultLimit}
}

// BuildCriteria turns validated list params into Criteria. Predicates are
// always emitted in the order name, age, is_active.
func BuildCriteria(p ListParams) Criteria {
	var predicates []Predicate

	if p.Q != "" {
		predicates = append(predicates, Predicate{
			Field:      FieldName,
			Conditions: []Condition{{Op: OpContainsFold, Value: p.Q}},
		})
	}

	if p.MinAge != nil || p.MaxAge != nil {
		age := Predicate{Field: FieldAge}
		if p.MinAge != nil {
			age.Conditions = append(age.Conditions, Condition{Op: OpGte, Value: *p.MinAge})
		}
		if p.MaxAge != nil {
			age.Conditions = append(age.Conditions, Condition{Op: OpLte, Value: *p.MaxAge})
		}
		predicates = append(predicates, age)
	}

	if p.IsActive != nil {
		predicates = append(predicates, Predicate{
			Field:      FieldIsActive,
			Conditions: []Condition{{Op: OpEq, Value: *p.IsActive}},
		})
	}

	return Criteria{
		Predicates: predicates,
		// id breaks ties between equal names so pages never overlap.
		Sort: []SortKey{{Field: FieldName}, {Field: FieldID}},
		Skip: skipFor(p.Page, p.Limit),
		Take: p.Limit,
	}
}

// skipFor returns (page-1)*limit, saturating at math.MaxInt so a page past
// any reachable offset yields an empty result instead of wrapping.
func skipFor(page, limit int) int {
	if page <= 1 || limit <= 0 {
		return 0
	}
	if pageTooLarge(page, limit) {
		return math.MaxInt
	}
	return (page - 1) * limit
}

// pageTooLarge reports whether (page-1)*limit overflows int.
func pageTooLarge(page, limit int) bool {
	return limit > 0 && page-1 > math.MaxInt/limit
}
