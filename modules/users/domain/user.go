// Package domain contains the business entities and rules for users.
// This is the innermost layer - it has no dependencies on outer layers.
package domain

// Stored field names, shared by the query builder, patches and repositories.
const (
	FieldID       = "id"
	FieldName     = "name"
	FieldEmail    = "email"
	FieldAge      = "age"
	FieldIsActive = "is_active"
)

// User is a persisted user record. Every User satisfies the field
// constraints enforced by ValidateCreate and ValidateUpdate.
type User struct {
	id       UserID
	name     string
	email    string
	age      int
	isActive bool
}

// Reconstitute recreates a User from persistence.
func Reconstitute(id UserID, name, email string, age int, isActive bool) *User {
	return &User{
		id:       id,
		name:     name,
		email:    email,
		age:      age,
		isActive: isActive,
	}
}

func (u *User) ID() UserID     { return u.id }
func (u *User) Name() string   { return u.name }
func (u *User) Email() string  { return u.email }
func (u *User) Age() int       { return u.age }
func (u *User) IsActive() bool { return u.isActive }

// UserDraft is a validated creation record that has not been assigned an ID yet.
type UserDraft struct {
	Name     string
	Email    string
	Age      int
	IsActive bool
}

// WithID materializes the draft as a User with the store-assigned id.
func (d UserDraft) WithID(id UserID) *User {
	return Reconstitute(id, d.Name, d.Email, d.Age, d.IsActive)
}

// UserPatch is a sparse field set: nil fields were not supplied and are left untouched.
type UserPatch struct {
	Name     *string
	Email    *string
	Age      *int
	IsActive *bool
}

func (p UserPatch) IsEmpty() bool {
	return p.Name == nil && p.Email == nil && p.Age == nil && p.IsActive == nil
}

// FieldNames lists the supplied fields in a fixed order.
func (p UserPatch) FieldNames() []string {
	var names []string
	if p.Name != nil {
		names = append(names, FieldName)
	}
	if p.Email != nil {
		names = append(names, FieldEmail)
	}
	if p.Age != nil {
		names = append(names, FieldAge)
	}
	if p.IsActive != nil {
		names = append(names, FieldIsActive)
	}
	return names
}

// Fields returns the supplied values keyed by stored field name.
func (p UserPatch) Fields() map[string]any {
	fields := make(map[string]any, 4)
	if p.Name != nil {
		fields[FieldName] = *p.Name
	}
	if p.Email != nil {
		fields[FieldEmail] = *p.Email
	}
	if p.Age != nil {
		fields[FieldAge] = *p.Age
	}
	if p.IsActive != nil {
		fields[FieldIsActive] = *p.IsActive
	}
	return fields
}

// ApplyTo returns a copy of u with the supplied fields replaced.
func (p UserPatch) ApplyTo(u *User) *User {
	updated := *u
	if p.Name != nil {
		updated.name = *p.Name
	}
	if p.Email != nil {
		updated.email = *p.Email
	}
	if p.Age != nil {
		updated.age = *p.Age
	}
	if p.IsActive != nil {
		updated.isActive = *p.IsActive
	}
	return &updated
}
