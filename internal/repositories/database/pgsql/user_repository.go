package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/bizdesk/internal/apperrors"
	"github.com/SscSPs/bizdesk/internal/core/domain"
	portsrepo "github.com/SscSPs/bizdesk/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
)

var userColumns = []string{"user_id", "name", "email", "password_hash", "role", "parent_admin_id",
	"refresh_token_hash", "refresh_token_expiry_time", "created_at", "created_by", "last_updated_at",
	"last_updated_by", "deleted_at"}

// teamTable scopes users by their parent administrator instead of user_id.
var teamTable = table{
	name:      "users",
	entity:    "team member",
	idColumn:  "user_id",
	partition: "parent_admin_id",
	columns:   userColumns,
	orderBy:   "name",
}

// tenantTables lists every tenant-partitioned table in delete order.
var tenantTables = []string{
	"shipments", "transactions", "sale_items", "sales", "supplier_quote_items", "supplier_quotes",
	"products", "services", "categories", "customers", "suppliers", "companies", "integration_configs",
}

type PgxUserRepository struct {
	BaseRepository
}

func newPgxUserRepository(pool DBPool) portsrepo.UserRepositoryFacade {
	return &PgxUserRepository{BaseRepository{Pool: pool}}
}

// Ensure PgxUserRepository implements portsrepo.UserRepositoryFacade
var _ portsrepo.UserRepositoryFacade = (*PgxUserRepository)(nil)

func (r *PgxUserRepository) findOne(ctx context.Context, where string, arg any) (*domain.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE %s AND deleted_at IS NULL", strings.Join(userColumns, ", "), where)
	rows, err := r.Pool.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	user, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[domain.User])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return user, nil
}

func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return r.findOne(ctx, "user_id = $1", userID)
}

func (r *PgxUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, "lower(email) = lower($1)", email)
}

func (r *PgxUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	query := `
		INSERT INTO users (user_id, name, email, password_hash, role, parent_admin_id,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.Pool.Exec(ctx, query,
		user.UserID,
		user.Name,
		strings.ToLower(user.Email),
		user.PasswordHash,
		user.Role,
		user.ParentAdminID,
		user.CreatedAt,
		user.CreatedBy,
		user.LastUpdatedAt,
		user.LastUpdatedBy,
	)
	if err != nil {
		return mapError(err, "user")
	}
	return nil
}

func (r *PgxUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	query := `
		UPDATE users
		SET name = $1, last_updated_at = $2, last_updated_by = $3
		WHERE user_id = $4 AND deleted_at IS NULL`
	cmdTag, err := r.Pool.Exec(ctx, query, user.Name, user.LastUpdatedAt, user.LastUpdatedBy, user.UserID)
	if err != nil {
		return fmt.Errorf("failed to execute update user query: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("user not found or already deleted: %w", apperrors.ErrNotFound)
	}
	return nil
}

func (r *PgxUserRepository) UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, refreshTokenExpiryTime time.Time) error {
	query := `UPDATE users SET refresh_token_hash = $1, refresh_token_expiry_time = $2 WHERE user_id = $3 AND deleted_at IS NULL`
	cmdTag, err := r.Pool.Exec(ctx, query, refreshTokenHash, refreshTokenExpiryTime, userID)
	if err != nil {
		return fmt.Errorf("failed to update refresh token: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxUserRepository) ClearRefreshToken(ctx context.Context, userID string) error {
	query := `UPDATE users SET refresh_token_hash = '', refresh_token_expiry_time = NULL WHERE user_id = $1`
	if _, err := r.Pool.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to clear refresh token: %w", err)
	}
	return nil
}

func (r *PgxUserRepository) ListTeamMembers(ctx context.Context, scope domain.TenantScope) ([]domain.User, error) {
	if !scope.Valid() {
		return nil, errMissingTenant()
	}
	query := fmt.Sprintf("SELECT %s FROM users WHERE parent_admin_id = $1 AND deleted_at IS NULL ORDER BY name",
		strings.Join(userColumns, ", "))
	rows, err := r.Pool.Query(ctx, query, scope.TenantID)
	if err != nil {
		return nil, mapError(err, teamTable.entity)
	}
	users, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.User])
	if err != nil {
		return nil, mapError(err, teamTable.entity)
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}

func (r *PgxUserRepository) FindTeamMember(ctx context.Context, scope domain.TenantScope, userID string) (*domain.User, error) {
	return findScoped[domain.User](ctx, r.Pool, teamTable, scope, userID)
}

func (r *PgxUserRepository) UpdateTeamMemberRole(ctx context.Context, scope domain.TenantScope, userID string, role domain.Role, at time.Time) error {
	return updateScoped(ctx, r.Pool, teamTable, scope, userID,
		[]string{"role", "last_updated_at", "last_updated_by"},
		[]any{role, at, scope.ActorID})
}

func (r *PgxUserRepository) DeleteTeamMember(ctx context.Context, scope domain.TenantScope, userID string) error {
	return deleteScoped(ctx, r.Pool, teamTable, scope, userID)
}

func (r *PgxUserRepository) ListTenants(ctx context.Context, params domain.ListParams) (domain.Page[domain.TenantSummary], error) {
	params = params.Normalize()
	where := "u.parent_admin_id IS NULL AND u.role = 'ADMIN' AND u.deleted_at IS NULL"
	args := []any{}
	if s := strings.TrimSpace(params.Search); s != "" {
		where += " AND (u.name ILIKE $1 OR u.email ILIKE $1)"
		args = append(args, "%"+s+"%")
	}

	var total int
	if err := r.Pool.QueryRow(ctx, "SELECT COUNT(*) FROM users u WHERE "+where, args...).Scan(&total); err != nil {
		return domain.Page[domain.TenantSummary]{}, mapError(err, "tenant")
	}

	n := len(args)
	query := fmt.Sprintf(`
		SELECT u.user_id, u.name, u.email, u.created_at,
			(SELECT COUNT(*) FROM users m WHERE m.parent_admin_id = u.user_id AND m.deleted_at IS NULL) AS member_count
		FROM users u
		WHERE %s
		ORDER BY u.created_at DESC
		LIMIT $%d OFFSET $%d`, where, n+1, n+2)
	rows, err := r.Pool.Query(ctx, query, append(args, params.PageSize, params.Offset())...)
	if err != nil {
		return domain.Page[domain.TenantSummary]{}, mapError(err, "tenant")
	}
	tenants, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.TenantSummary])
	if err != nil {
		return domain.Page[domain.TenantSummary]{}, mapError(err, "tenant")
	}
	if tenants == nil {
		tenants = []domain.TenantSummary{}
	}
	return domain.Page[domain.TenantSummary]{Items: tenants, Total: total}, nil
}

// DeleteTenant is the privileged cascade: partition rows, team, then the root.
func (r *PgxUserRepository) DeleteTenant(ctx context.Context, tenantID string) error {
	if tenantID == "" {
		return errMissingTenant()
	}
	return r.withTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, "SELECT 1 FROM users WHERE user_id = $1 AND parent_admin_id IS NULL AND role = 'ADMIN'", tenantID)
		if err != nil {
			return mapError(err, "tenant")
		}
		if tag.RowsAffected() == 0 {
			return apperrors.NewNotFoundError("tenant not found")
		}
		for _, name := range tenantTables {
			if _, err := tx.Exec(ctx, "DELETE FROM "+name+" WHERE user_id = $1", tenantID); err != nil {
				return mapError(err, "tenant")
			}
		}
		if _, err := tx.Exec(ctx, "DELETE FROM users WHERE parent_admin_id = $1", tenantID); err != nil {
			return mapError(err, "tenant")
		}
		if _, err := tx.Exec(ctx, "DELETE FROM users WHERE user_id = $1", tenantID); err != nil {
			return mapError(err, "tenant")
		}
		return nil
	})
}
