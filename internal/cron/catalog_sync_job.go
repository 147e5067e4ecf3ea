package cron

import (
	"context"
	"errors"

	"github.com/promonitor/storefront/internal/catalog"
)

// ErrSyncFailed is returned when the reconciler reports a failed run. The
// reconciler has already logged the cause.
var ErrSyncFailed = errors.New("catalog sync failed")

type catalogSyncer interface {
	Sync(ctx context.Context) catalog.Result
}

// CatalogSyncJob mirrors the remote product feed into the local catalog.
type CatalogSyncJob struct {
	syncer catalogSyncer
}

func NewCatalogSyncJob(syncer catalogSyncer) (*CatalogSyncJob, error) {
	if syncer == nil {
		return nil, errors.New("catalog syncer required")
	}
	return &CatalogSyncJob{syncer: syncer}, nil
}

func (j *CatalogSyncJob) Name() string { return "catalog_sync" }

func (j *CatalogSyncJob) Run(ctx context.Context) error {
	if result := j.syncer.Sync(ctx); !result.OK {
		return ErrSyncFailed
	}
	return nil
}
