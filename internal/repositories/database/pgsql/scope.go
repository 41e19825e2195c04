package pgsql

import (
	"context"
	"fmt"
	"strings"

	"github.com/SscSPs/bizdesk/internal/apperrors"
	"github.com/SscSPs/bizdesk/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

var auditColumns = []string{"created_at", "created_by", "last_updated_at", "last_updated_by"}

// table describes a tenant-owned table. columns must match the db tags of
// the row struct, in order.
type table struct {
	name      string
	entity    string
	idColumn  string
	partition string
	columns   []string
	search    []string
	orderBy   string
}

func (t table) partitionColumn() string {
	if t.partition == "" {
		return "user_id"
	}
	return t.partition
}

func (t table) selectList() string {
	return strings.Join(t.columns, ", ")
}

func withAudit(cols ...string) []string {
	return append(cols, auditColumns...)
}

func auditValues(a domain.AuditFields) []any {
	return []any{a.CreatedAt, a.CreatedBy, a.LastUpdatedAt, a.LastUpdatedBy}
}

func errMissingTenant() error {
	return fmt.Errorf("tenant scope is empty: %w", apperrors.ErrUnauthenticated)
}

// scopedWhere is the single builder for row-level predicates on tenant data:
// "<id> = $n AND <partition> = $n+1". Placeholders start after argOffset.
func scopedWhere(scope domain.TenantScope, t table, id string, argOffset int) (string, []any, error) {
	if !scope.Valid() {
		return "", nil, errMissingTenant()
	}
	clause := fmt.Sprintf("%s = $%d AND %s = $%d", t.idColumn, argOffset+1, t.partitionColumn(), argOffset+2)
	return clause, []any{id, scope.TenantID}, nil
}

// tenantWhere builds the predicate for listings, optionally narrowed by a search term.
func tenantWhere(scope domain.TenantScope, t table, search string) (string, []any, error) {
	if !scope.Valid() {
		return "", nil, errMissingTenant()
	}
	clause := t.partitionColumn() + " = $1"
	args := []any{scope.TenantID}

	search = strings.TrimSpace(search)
	if search != "" && len(t.search) > 0 {
		parts := make([]string, len(t.search))
		for i, col := range t.search {
			parts[i] = col + " ILIKE $2"
		}
		clause += " AND (" + strings.Join(parts, " OR ") + ")"
		args = append(args, "%"+search+"%")
	}
	return clause, args, nil
}

func findScoped[T any](ctx context.Context, db DBTX, t table, scope domain.TenantScope, id string) (*T, error) {
	where, args, err := scopedWhere(scope, t, id, 0)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s", t.selectList(), t.name, where)
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, t.entity)
	}
	item, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[T])
	if err != nil {
		return nil, mapError(err, t.entity)
	}
	return item, nil
}

// findOneWhere looks up a single tenant row by an arbitrary column.
func findOneWhere[T any](ctx context.Context, db DBTX, t table, scope domain.TenantScope, column string, value any) (*T, error) {
	if !scope.Valid() {
		return nil, errMissingTenant()
	}
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1 AND %s = $2 ORDER BY created_at LIMIT 1",
		t.selectList(), t.name, column, t.partitionColumn())
	rows, err := db.Query(ctx, query, value, scope.TenantID)
	if err != nil {
		return nil, mapError(err, t.entity)
	}
	item, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[T])
	if err != nil {
		return nil, mapError(err, t.entity)
	}
	return item, nil
}

func listScoped[T any](ctx context.Context, db DBTX, t table, scope domain.TenantScope, params domain.ListParams) (domain.Page[T], error) {
	params = params.Normalize()
	where, args, err := tenantWhere(scope, t, params.Search)
	if err != nil {
		return domain.Page[T]{}, err
	}

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s", t.name, where)
	if err := db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return domain.Page[T]{}, mapError(err, t.entity)
	}

	n := len(args)
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s ORDER BY %s LIMIT $%d OFFSET $%d",
		t.selectList(), t.name, where, t.orderBy, n+1, n+2)
	rows, err := db.Query(ctx, query, append(args, params.PageSize, params.Offset())...)
	if err != nil {
		return domain.Page[T]{}, mapError(err, t.entity)
	}
	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		return domain.Page[T]{}, mapError(err, t.entity)
	}
	if items == nil {
		items = []T{}
	}
	return domain.Page[T]{Items: items, Total: total}, nil
}

// insertScoped inserts a full row. The partition column is always taken from scope.
func insertScoped(ctx context.Context, db DBTX, t table, scope domain.TenantScope, values []any) error {
	if !scope.Valid() {
		return errMissingTenant()
	}
	if len(values) != len(t.columns) {
		return apperrors.NewInternalServerError(fmt.Sprintf("insert into %s: %d values for %d columns", t.name, len(values), len(t.columns)))
	}
	placeholders := make([]string, len(t.columns))
	for i, col := range t.columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		if col == t.partitionColumn() {
			values[i] = scope.TenantID
		}
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", t.name, t.selectList(), strings.Join(placeholders, ", "))
	if _, err := db.Exec(ctx, query, values...); err != nil {
		return mapError(err, t.entity)
	}
	return nil
}

// updateScoped sets columns on one tenant row and reports NotFound when
// the row does not exist in the caller's partition.
func updateScoped(ctx context.Context, db DBTX, t table, scope domain.TenantScope, id string, columns []string, values []any) error {
	where, whereArgs, err := scopedWhere(scope, t, id, len(columns))
	if err != nil {
		return err
	}
	sets := make([]string, len(columns))
	for i, col := range columns {
		sets[i] = fmt.Sprintf("%s = $%d", col, i+1)
	}
	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s", t.name, strings.Join(sets, ", "), where)
	args := append(append([]any{}, values...), whereArgs...)
	tag, err := db.Exec(ctx, query, args...)
	if err != nil {
		return mapError(err, t.entity)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(t.entity + " not found")
	}
	return nil
}

func deleteScoped(ctx context.Context, db DBTX, t table, scope domain.TenantScope, id string) error {
	where, args, err := scopedWhere(scope, t, id, 0)
	if err != nil {
		return err
	}
	tag, err := db.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE %s", t.name, where), args...)
	if err != nil {
		return mapError(err, t.entity)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(t.entity + " not found")
	}
	return nil
}

// reference is a tenant table holding a foreign key to another entity.
type reference struct {
	table  string
	column string
}

// countReferences sums the rows in refs that point at id within the tenant.
func countReferences(ctx context.Context, db DBTX, scope domain.TenantScope, id string, refs ...reference) (int, error) {
	if !scope.Valid() {
		return 0, errMissingTenant()
	}
	parts := make([]string, len(refs))
	for i, ref := range refs {
		parts[i] = fmt.Sprintf("(SELECT COUNT(*) FROM %s WHERE %s = $1 AND user_id = $2)", ref.table, ref.column)
	}
	var total int
	if err := db.QueryRow(ctx, "SELECT "+strings.Join(parts, " + "), id, scope.TenantID).Scan(&total); err != nil {
		return 0, mapError(err, "reference")
	}
	return total, nil
}
