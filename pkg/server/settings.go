package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/hearthcast/hearthcast/pkg/log"
	"github.com/hearthcast/hearthcast/pkg/types"
)

type settingsWithVersion struct {
	types.Settings
	version int
}

func (s *Server) getSettingsWithMigration(ctx context.Context, siteID string) (settingsWithVersion, error) {
	settings, version, err := s.storage.GetSettings(ctx, siteID)
	if err != nil {
		return settingsWithVersion{}, err
	}
	sv := settingsWithVersion{
		Settings: settings,
		version:  version,
	}

	// Check for migration
	if version < types.CurrentSettingsVersion {
		log.Ctx(ctx).InfoContext(ctx, "migrating settings", slog.Int("oldVersion", version), slog.Int("newVersion", types.CurrentSettingsVersion))
		newSettings, changed, err := types.MigrateSettings(settings, version)
		if err != nil {
			// Log error but return settings as is (best effort)
			log.Ctx(ctx).ErrorContext(ctx, "failed to migrate settings", slog.Int("currentVersion", version), slog.Any("error", err))
		} else if changed {
			sv.Settings = newSettings
			sv.version = types.CurrentSettingsVersion
			if err := s.storage.SetSettings(ctx, siteID, newSettings, types.CurrentSettingsVersion); err != nil {
				log.Ctx(ctx).ErrorContext(ctx, "failed to save migrated settings", slog.Any("error", err))
				// Return migrated settings even if save failed, so current request works with new defaults
			} else {
				log.Ctx(ctx).InfoContext(ctx, "saved migrated settings", slog.Int("oldVersion", version), slog.Int("newVersion", types.CurrentSettingsVersion))
			}
		}
	}

	return sv, nil
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	siteID := s.getSiteID(r)
	settings, err := s.getSettingsWithMigration(ctx, siteID)
	if err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to get settings", slog.Any("error", err))
		writeJSONError(w, "failed to get settings", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, settings.Settings)
}

func validateSettings(ns types.Settings) string {
	if ns.Building.SquareFeet <= 0 {
		return "square feet must be positive"
	}
	if ns.Building.InsulationLevel < 0.5 || ns.Building.InsulationLevel > 2 {
		return "insulation level must be between 0.5 and 2"
	}
	if ns.Building.CeilingHeightFt < 7 || ns.Building.CeilingHeightFt > 30 {
		return "ceiling height must be between 7 and 30 feet"
	}
	switch ns.System.PrimarySystem {
	case types.SystemHeatPump, types.SystemGasFurnace:
	default:
		return "unknown primary system"
	}
	if ns.System.CapacityKBTU < 0 {
		return "system capacity cannot be negative"
	}
	if ns.System.SEER2 < 0 || ns.System.HSPF2 < 0 {
		return "efficiency ratings cannot be negative"
	}
	if ns.HumidityPct < 0 || ns.HumidityPct > 100 {
		return "humidity must be between 0 and 100"
	}
	if ns.ElectricFixedMonthly < 0 || ns.GasFixedMonthly < 0 {
		return "fixed monthly charges cannot be negative"
	}
	if ns.AnalyzerHeatLossBtuPerDegF < 0 {
		return "analyzer heat loss cannot be negative"
	}
	return ""
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	siteID := s.getSiteID(r)

	var newSettings types.Settings
	if err := json.NewDecoder(r.Body).Decode(&newSettings); err != nil {
		log.Ctx(ctx).WarnContext(ctx, "failed to decode settings", slog.Any("error", err))
		writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if msg := validateSettings(newSettings); msg != "" {
		writeJSONError(w, msg, http.StatusBadRequest)
		return
	}

	if err := s.storage.SetSettings(ctx, siteID, newSettings, types.CurrentSettingsVersion); err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to save settings", slog.Any("error", err))
		writeJSONError(w, "failed to save settings", http.StatusInternalServerError)
		return
	}

	log.Ctx(ctx).InfoContext(ctx, "settings updated", slog.String("siteID", siteID))
	w.WriteHeader(http.StatusOK)
}
