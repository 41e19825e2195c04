package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/bizdesk/internal/core/domain"
	portsrepo "github.com/SscSPs/bizdesk/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
)

var integrationTable = table{
	name:     "integration_configs",
	entity:   "integration config",
	idColumn: "integration_id",
	columns:  withAudit("integration_id", "user_id", "provider", "store_id", "access_token", "sync_enabled"),
	orderBy:  "provider",
}

type integrationRepository struct {
	BaseRepository
}

func newIntegrationRepository(pool DBPool) portsrepo.IntegrationConfigRepositoryFacade {
	return &integrationRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.IntegrationConfigRepositoryFacade = (*integrationRepository)(nil)

func (r *integrationRepository) Find(ctx context.Context, scope domain.TenantScope, provider domain.IntegrationProvider) (*domain.IntegrationConfig, error) {
	return findOneWhere[domain.IntegrationConfig](ctx, r.Pool, integrationTable, scope, "provider", provider)
}

func (r *integrationRepository) Upsert(ctx context.Context, scope domain.TenantScope, cfg domain.IntegrationConfig) error {
	if !scope.Valid() {
		return errMissingTenant()
	}
	query := `
		INSERT INTO integration_configs (integration_id, user_id, provider, store_id, access_token, sync_enabled,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (user_id, provider) DO UPDATE SET
			store_id = EXCLUDED.store_id,
			access_token = EXCLUDED.access_token,
			sync_enabled = EXCLUDED.sync_enabled,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by`
	_, err := r.Pool.Exec(ctx, query, cfg.IntegrationID, scope.TenantID, cfg.Provider, cfg.StoreID, cfg.AccessToken,
		cfg.SyncEnabled, cfg.CreatedAt, cfg.CreatedBy, cfg.LastUpdatedAt, cfg.LastUpdatedBy)
	return mapError(err, integrationTable.entity)
}

func (r *integrationRepository) FindEnabledByStore(ctx context.Context, provider domain.IntegrationProvider, storeID string) (*domain.IntegrationConfig, error) {
	query := fmt.Sprintf(`SELECT %s FROM integration_configs
		WHERE provider = $1 AND store_id = $2 AND sync_enabled
		ORDER BY created_at LIMIT 1`, integrationTable.selectList())
	rows, err := r.Pool.Query(ctx, query, provider, storeID)
	if err != nil {
		return nil, mapError(err, integrationTable.entity)
	}
	cfg, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[domain.IntegrationConfig])
	if err != nil {
		return nil, mapError(err, integrationTable.entity)
	}
	return cfg, nil
}
