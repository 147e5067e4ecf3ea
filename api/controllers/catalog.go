package controllers

import (
	"context"
	"net/http"

	"github.com/promonitor/storefront/api/responses"
	"github.com/promonitor/storefront/internal/catalog"
	"github.com/promonitor/storefront/pkg/logger"
)

type catalogSyncer interface {
	Sync(ctx context.Context) catalog.Result
}

// AdminSyncCatalog runs the feed reconciler now. A failed run is still a 200
// with ok=false; the reconciler has already logged the cause.
func AdminSyncCatalog(syncer catalogSyncer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result := syncer.Sync(r.Context())
		if logg != nil {
			logg.Info(logg.WithFields(r.Context(), map[string]any{"ok": result.OK, "count": result.Count}), "catalog.sync_requested")
		}
		responses.WriteSuccess(w, result)
	}
}
