package persistence

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/rai/user-management-api/modules/users/domain"
)

// InMemoryRepository implements UserRepository using in-memory storage.
// Email uniqueness is enforced under the write lock, the same guarantee
// a unique index gives the other backends.
type InMemoryRepository struct {
	mu    sync.RWMutex
	users map[domain.UserID]*domain.User
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		users: make(map[domain.UserID]*domain.User),
	}
}

// Compile-time interface check.
var _ domain.UserRepository = (*InMemoryRepository)(nil)

func (r *InMemoryRepository) Insert(ctx context.Context, draft domain.UserDraft) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.emailTaken(draft.Email, domain.UserID{}) {
		return nil, domain.ErrDuplicateKey
	}

	user := draft.WithID(domain.NewUserID())
	r.users[user.ID()] = user
	return user, nil
}

func (r *InMemoryRepository) FindByID(ctx context.Context, id domain.UserID) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	user, exists := r.users[id]
	if !exists {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (r *InMemoryRepository) Find(ctx context.Context, criteria domain.Criteria) ([]*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	matched := make([]*domain.User, 0, len(r.users))
	for _, user := range r.users {
		if matchesAll(user, criteria.Predicates) {
			matched = append(matched, user)
		}
	}
	r.mu.RUnlock()

	slices.SortStableFunc(matched, func(a, b *domain.User) int {
		for _, key := range criteria.Sort {
			c := compareField(a, b, key.Field)
			if key.Descending {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return 0
	})

	start := min(max(criteria.Skip, 0), len(matched))
	end := start + min(max(criteria.Take, 0), len(matched)-start)
	return matched[start:end], nil
}

func (r *InMemoryRepository) Update(ctx context.Context, id domain.UserID, patch domain.UserPatch) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	user, exists := r.users[id]
	if !exists {
		return false, nil
	}
	if patch.Email != nil && r.emailTaken(*patch.Email, id) {
		return false, domain.ErrDuplicateKey
	}

	r.users[id] = patch.ApplyTo(user)
	return true, nil
}

func (r *InMemoryRepository) Delete(ctx context.Context, id domain.UserID) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.users[id]; !exists {
		return false, nil
	}
	delete(r.users, id)
	return true, nil
}

// emailTaken reports whether a record other than except holds email.
// Callers must hold the lock.
func (r *InMemoryRepository) emailTaken(email string, except domain.UserID) bool {
	for id, user := range r.users {
		if id != except && user.Email() == email {
			return true
		}
	}
	return false
}

func matchesAll(user *domain.User, predicates []domain.Predicate) bool {
	for _, p := range predicates {
		for _, c := range p.Conditions {
			if !matches(fieldValue(user, p.Field), c) {
				return false
			}
		}
	}
	return true
}

func matches(value any, c domain.Condition) bool {
	switch c.Op {
	case domain.OpEq:
		return value == c.Value
	case domain.OpGte, domain.OpLte:
		v, ok1 := value.(int)
		bound, ok2 := c.Value.(int)
		if !ok1 || !ok2 {
			return false
		}
		if c.Op == domain.OpGte {
			return v >= bound
		}
		return v <= bound
	case domain.OpContainsFold:
		v, ok1 := value.(string)
		sub, ok2 := c.Value.(string)
		return ok1 && ok2 && strings.Contains(strings.ToLower(v), strings.ToLower(sub))
	}
	return false
}

func fieldValue(user *domain.User, field string) any {
	switch field {
	case domain.FieldID:
		return user.ID().String()
	case domain.FieldName:
		return user.Name()
	case domain.FieldEmail:
		return user.Email()
	case domain.FieldAge:
		return user.Age()
	case domain.FieldIsActive:
		return user.IsActive()
	}
	return nil
}

func compareField(a, b *domain.User, field string) int {
	switch field {
	case domain.FieldID:
		return strings.Compare(a.ID().String(), b.ID().String())
	case domain.FieldName:
		return strings.Compare(a.Name(), b.Name())
	case domain.FieldEmail:
		return strings.Compare(a.Email(), b.Email())
	case domain.FieldAge:
		return cmp.Compare(a.Age(), b.Age())
	case domain.FieldIsActive:
		return cmp.Compare(boolRank(a.IsActive()), boolRank(b.IsActive()))
	}
	return 0
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}
