package handlers

import (
	"net/http"

	"github.com/denmor86/ya-reseller/internal/cache"
	"github.com/denmor86/ya-reseller/internal/helpers"
	"github.com/denmor86/ya-reseller/internal/logger"
	"github.com/denmor86/ya-reseller/internal/models"
	"github.com/denmor86/ya-reseller/internal/validators"
)

var validate = validators.New()

// InvalidateCacheHandler - сброс кэша по тегам
func InvalidateCacheHandler(store cache.Store) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req models.InvalidateRequest
		if err := decodeBody(r, &req); err != nil {
			WriteError(w, "Invalid invalidation request", err)
			return
		}
		if err := validate.Struct(req); err != nil {
			WriteError(w, "Invalid invalidation request", invalid(err))
			return
		}

		removed := 0
		if store != nil {
			var err error
			removed, err = store.InvalidateTags(r.Context(), req.Tags...)
			if err != nil {
				WriteError(w, "Failed to invalidate cache", err)
				return
			}
		}

		subject, _ := helpers.AdminSubject(r.Context())
		logger.Infow("Cache invalidated", "tags", req.Tags, "removed", removed, "subject", subject)
		writeJSON(w, http.StatusOK, models.InvalidateResponse{Tags: req.Tags, Removed: removed})
	})
}

// HealthHandler - проверка живости сервиса
func HealthHandler() http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
}
