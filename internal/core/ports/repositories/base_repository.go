package repositories

import (
	"context"

	"github.com/SscSPs/bizdesk/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// TransactionManager defines methods for transaction management
type TransactionManager interface {
	// Begin starts a new database transaction
	Begin(ctx context.Context) (pgx.Tx, error)

	// Commit commits a transaction
	Commit(ctx context.Context, tx pgx.Tx) error

	// Rollback rolls back a transaction
	Rollback(ctx context.Context, tx pgx.Tx) error
}

// ScopedReader reads rows of one tenant partition. Every implementation must
// filter by scope.TenantID and reject an empty scope.
type ScopedReader[T any] interface {
	FindByID(ctx context.Context, scope domain.TenantScope, id string) (*T, error)
	List(ctx context.Context, scope domain.TenantScope, params domain.ListParams) (domain.Page[T], error)
}

// ScopedWriter mutates rows of one tenant partition. Create stamps the
// partition key from scope regardless of the entity's own field.
type ScopedWriter[T any] interface {
	Create(ctx context.Context, scope domain.TenantScope, entity T) error
	Update(ctx context.Context, scope domain.TenantScope, entity T) error
	Delete(ctx context.Context, scope domain.TenantScope, id string) error
}

// ScopedRepository is the common CRUD surface of tenant-owned entities.
type ScopedRepository[T any] interface {
	ScopedReader[T]
	ScopedWriter[T]
}

// ReferenceCounter reports how many tenant rows depend on an entity.
type ReferenceCounter interface {
	CountReferences(ctx context.Context, scope domain.TenantScope, id string) (int, error)
}
