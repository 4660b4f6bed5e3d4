// Package persistence implements repository interfaces for users.
package persistence

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"

	"github.com/rai/user-management-api/modules/users/domain"
)

// SpannerSchema is the DDL the SpannerRepository expects.
const SpannerSchema = `CREATE TABLE Users (
  UserID   STRING(24) NOT NULL,
  Name     STRING(80) NOT NULL,
  Email    STRING(MAX) NOT NULL,
  Age      INT64 NOT NULL,
  IsActive BOOL NOT NULL,
) PRIMARY KEY (UserID);

CREATE UNIQUE INDEX UsersByEmail ON Users(Email);`

var userColumns = []string{"UserID", "Name", "Email", "Age", "IsActive"}

// spannerColumns maps domain field names to Users columns.
var spannerColumns = map[string]string{
	domain.FieldID:       "UserID",
	domain.FieldName:     "Name",
	domain.FieldEmail:    "Email",
	domain.FieldAge:      "Age",
	domain.FieldIsActive: "IsActive",
}

// SpannerRepository implements UserRepository using Cloud Spanner.
type SpannerRepository struct {
	client *spanner.Client
}

// NewSpannerRepository creates a new Spanner-backed user repository.
func NewSpannerRepository(client *spanner.Client) *SpannerRepository {
	return &SpannerRepository{client: client}
}

// Compile-time interface check.
var _ domain.UserRepository = (*SpannerRepository)(nil)

func (r *SpannerRepository) Insert(ctx context.Context, draft domain.UserDraft) (_ *domain.User, err error) {
	ctx, span := startSpan(ctx, "spanner", "insert")
	defer func() { finishSpan(span, err) }()

	id := domain.NewUserID()
	mutations := []*spanner.Mutation{
		spanner.Insert("Users", userColumns, []interface{}{
			id.String(),
			draft.Name,
			draft.Email,
			int64(draft.Age),
			draft.IsActive,
		}),
	}

	if _, err := r.client.Apply(ctx, mutations); err != nil {
		if spanner.ErrCode(err) == codes.AlreadyExists {
			return nil, fmt.Errorf("failed to insert user: %w", domain.ErrDuplicateKey)
		}
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}
	return draft.WithID(id), nil
}

func (r *SpannerRepository) FindByID(ctx context.Context, id domain.UserID) (_ *domain.User, err error) {
	ctx, span := startSpan(ctx, "spanner", "read_row")
	defer func() { finishSpan(span, err) }()

	row, err := r.client.Single().ReadRow(ctx, "Users", spanner.Key{id.String()}, userColumns)
	if err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to read user: %w", err)
	}
	return scanUser(row)
}

func (r *SpannerRepository) Find(ctx context.Context, criteria domain.Criteria) (_ []*domain.User, err error) {
	ctx, span := startSpan(ctx, "spanner", "query")
	defer func() { finishSpan(span, err) }()

	iter := r.client.Single().Query(ctx, buildStatement(criteria))
	defer iter.Stop()

	users := []*domain.User{}
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to query users: %w", err)
		}

		user, err := scanUser(row)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func (r *SpannerRepository) Update(ctx context.Context, id domain.UserID, patch domain.UserPatch) (_ bool, err error) {
	ctx, span := startSpan(ctx, "spanner", "update")
	defer func() { finishSpan(span, err) }()

	rows, err := r.execDML(ctx, buildUpdateStatement(id, patch))
	if err != nil {
		if spanner.ErrCode(err) == codes.AlreadyExists {
			return false, fmt.Errorf("failed to update user: %w", domain.ErrDuplicateKey)
		}
		return false, fmt.Errorf("failed to update user: %w", err)
	}
	return rows > 0, nil
}

func (r *SpannerRepository) Delete(ctx context.Context, id domain.UserID) (_ bool, err error) {
	ctx, span := startSpan(ctx, "spanner", "delete")
	defer func() { finishSpan(span, err) }()

	rows, err := r.execDML(ctx, spanner.Statement{
		SQL:    `DELETE FROM Users WHERE UserID = @id`,
		Params: map[string]interface{}{"id": id.String()},
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete user: %w", err)
	}
	return rows > 0, nil
}

// execDML runs a single DML statement and returns the affected row count.
func (r *SpannerRepository) execDML(ctx context.Context, stmt spanner.Statement) (int64, error) {
	var rows int64
	_, err := r.client.ReadWriteTransaction(ctx, func(ctx context.Context, txn *spanner.ReadWriteTransaction) error {
		n, err := txn.Update(ctx, stmt)
		if err != nil {
			return err
		}
		rows = n
		return nil
	})
	return rows, err
}

// buildStatement renders criteria as a parameterized Spanner SQL query.
func buildStatement(criteria domain.Criteria) spanner.Statement {
	var (
		where  []string
		params = map[string]interface{}{}
	)

	for _, p := range criteria.Predicates {
		col := spannerColumns[p.Field]
		for _, c := range p.Conditions {
			param := fmt.Sprintf("%s_%s", p.Field, c.Op)
			switch c.Op {
			case domain.OpEq:
				where = append(where, fmt.Sprintf("%s = @%s", col, param))
			case domain.OpGte:
				where = append(where, fmt.Sprintf("%s >= @%s", col, param))
			case domain.OpLte:
				where = append(where, fmt.Sprintf("%s <= @%s", col, param))
			case domain.OpContainsFold:
				where = append(where, fmt.Sprintf("STRPOS(LOWER(%s), LOWER(@%s)) > 0", col, param))
			default:
				continue
			}
			params[param] = spannerValue(c.Value)
		}
	}

	var sql strings.Builder
	sql.WriteString("SELECT " + strings.Join(userColumns, ", ") + " FROM Users")
	if len(where) > 0 {
		sql.WriteString(" WHERE " + strings.Join(where, " AND "))
	}
	if len(criteria.Sort) > 0 {
		order := make([]string, len(criteria.Sort))
		for i, key := range criteria.Sort {
			dir := "ASC"
			if key.Descending {
				dir = "DESC"
			}
			order[i] = spannerColumns[key.Field] + " " + dir
		}
		sql.WriteString(" ORDER BY " + strings.Join(order, ", "))
	}
	sql.WriteString(" LIMIT @limit OFFSET @offset")
	params["limit"] = int64(criteria.Take)
	params["offset"] = int64(criteria.Skip)

	return spanner.Statement{SQL: sql.String(), Params: params}
}

// buildUpdateStatement renders a sparse patch as an UPDATE over the supplied columns.
func buildUpdateStatement(id domain.UserID, patch domain.UserPatch) spanner.Statement {
	fields := patch.Fields()
	params := map[string]interface{}{"id": id.String()}

	var sets []string
	for _, field := range patch.FieldNames() {
		sets = append(sets, fmt.Sprintf("%s = @%s", spannerColumns[field], field))
		params[field] = spannerValue(fields[field])
	}

	return spanner.Statement{
		SQL:    "UPDATE Users SET " + strings.Join(sets, ", ") + " WHERE UserID = @id",
		Params: params,
	}
}

// spannerValue widens ints to INT64.
func spannerValue(v any) any {
	if n, ok := v.(int); ok {
		return int64(n)
	}
	return v
}

func scanUser(row *spanner.Row) (*domain.User, error) {
	var (
		rawID, name, email string
		age                int64
		isActive           bool
	)
	if err := row.Columns(&rawID, &name, &email, &age, &isActive); err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}

	id, err := domain.ParseUserID(rawID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse user id: %w", err)
	}
	return domain.Reconstitute(id, name, email, int(age), isActive), nil
}
