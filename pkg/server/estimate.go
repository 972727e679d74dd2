package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/hearthcast/hearthcast/pkg/estimator"
	"github.com/hearthcast/hearthcast/pkg/log"
	"github.com/hearthcast/hearthcast/pkg/thermal"
	"github.com/hearthcast/hearthcast/pkg/types"
)

// parseEstimateParams reads the shared year/month/mode/strategy query
// parameters, defaulting to the current month and heating.
func parseEstimateParams(r *http.Request) (int, time.Month, estimator.EnergyMode, types.WeatherStrategy, error) {
	now := time.Now()
	year := now.Year()
	month := now.Month()

	if v := r.URL.Query().Get("year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil || y < 1900 || y > 2200 {
			return 0, 0, "", "", fmt.Errorf("invalid year: %s", v)
		}
		year = y
	}
	if v := r.URL.Query().Get("month"); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil || m < 1 || m > 12 {
			return 0, 0, "", "", fmt.Errorf("invalid month: %s", v)
		}
		month = time.Month(m)
	}

	mode := estimator.ModeHeating
	switch v := r.URL.Query().Get("mode"); v {
	case "", "heating":
	case "cooling":
		mode = estimator.ModeCooling
	case "auto":
		mode = estimator.ModeAuto
	default:
		return 0, 0, "", "", fmt.Errorf("invalid mode: %s", v)
	}

	var strategy types.WeatherStrategy
	switch v := r.URL.Query().Get("strategy"); v {
	case "":
	case string(types.WeatherTypical), string(types.WeatherCurrent), string(types.WeatherPolarVortex):
		strategy = types.WeatherStrategy(v)
	default:
		return 0, 0, "", "", fmt.Errorf("invalid strategy: %s", v)
	}

	return year, month, mode, strategy, nil
}

func (s *Server) handleEstimateMonthly(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	siteID := s.getSiteID(r)

	year, month, mode, strategy, err := parseEstimateParams(r)
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	settings, err := s.getSettingsWithMigration(ctx, siteID)
	if err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to get settings", slog.Any("error", err))
		writeJSONError(w, "failed to get settings", http.StatusInternalServerError)
		return
	}

	est := s.engine.MonthlyEstimate(ctx, estimator.MonthParams{
		Settings: settings.Settings,
		Year:     year,
		Month:    month,
		Mode:     mode,
		Strategy: strategy,
	})

	// record the run so the history view can show drift over time
	saved := types.SavedEstimate{
		Timestamp: time.Now().UTC(),
		Year:      year,
		Month:     month,
		Mode:      string(mode),
		Strategy:  strategy,
		Location:  settings.Location,
		Estimate:  est,
	}
	if err := s.storage.SaveEstimate(ctx, siteID, saved); err != nil {
		log.Ctx(ctx).WarnContext(ctx, "failed to save estimate", slog.Any("error", err))
	}

	writeJSON(w, est)
}

func (s *Server) handleEstimateAnnual(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	siteID := s.getSiteID(r)

	year, _, _, strategy, err := parseEstimateParams(r)
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	settings, err := s.getSettingsWithMigration(ctx, siteID)
	if err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to get settings", slog.Any("error", err))
		writeJSONError(w, "failed to get settings", http.StatusInternalServerError)
		return
	}

	annual := s.engine.AnnualEstimate(ctx, estimator.AnnualParams{
		Settings: settings.Settings,
		Year:     year,
		Strategy: strategy,
	})
	writeJSON(w, annual)
}

func (s *Server) handleEstimateCompare(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	siteID := s.getSiteID(r)

	year, month, mode, _, err := parseEstimateParams(r)
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	q := r.URL.Query()
	locB := types.Location{
		City:  q.Get("cityB"),
		State: q.Get("stateB"),
	}
	if locB.City == "" || locB.State == "" {
		writeJSONError(w, "cityB and stateB are required", http.StatusBadRequest)
		return
	}
	if v := q.Get("latB"); v != "" {
		if locB.Lat, err = strconv.ParseFloat(v, 64); err != nil {
			writeJSONError(w, "invalid latB", http.StatusBadRequest)
			return
		}
	}
	if v := q.Get("lonB"); v != "" {
		if locB.Lon, err = strconv.ParseFloat(v, 64); err != nil {
			writeJSONError(w, "invalid lonB", http.StatusBadRequest)
			return
		}
	}

	settings, err := s.getSettingsWithMigration(ctx, siteID)
	if err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to get settings", slog.Any("error", err))
		writeJSONError(w, "failed to get settings", http.StatusInternalServerError)
		return
	}

	cmp := s.engine.CompareLocations(ctx, settings.Settings, year, month, mode, settings.Location, locB)
	writeJSON(w, cmp)
}

// BalancePointRes is the response type for the balance-point endpoint.
type BalancePointRes struct {
	// BalancePointF is nil when the heat pump covers the load across the
	// whole scanned range and never needs auxiliary heat.
	BalancePointF *float64 `json:"balancePoint"`
	// Undersized is set when capacity never meets the load (sentinel result).
	Undersized bool `json:"undersized"`

	LossBtuPerDegF float64 `json:"lossBtuPerDegF"`
	Tons           float64 `json:"tons"`
}

func (s *Server) handleBalancePoint(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	siteID := s.getSiteID(r)

	settings, err := s.getSettingsWithMigration(ctx, siteID)
	if err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to get settings", slog.Any("error", err))
		writeJSONError(w, "failed to get settings", http.StatusInternalServerError)
		return
	}

	sched := settings.Schedule()
	var indoorSum float64
	for h := 0; h < 24; h++ {
		indoorSum += sched.SetpointsAt(h, time.Monday).HeatF
	}
	indoor := indoorSum / 24

	lossPerDeg := thermal.LossPerDegree(settings.Building, settings.AnalyzerHeatLossBtuPerDegF)
	tons := settings.System.Tons()
	bp := thermal.BalancePoint(lossPerDeg, indoor, tons)

	res := BalancePointRes{
		BalancePointF:  bp,
		LossBtuPerDegF: lossPerDeg,
		Tons:           tons,
	}
	if bp != nil && *bp == thermal.BalancePointSentinelF {
		res.Undersized = true
	}
	writeJSON(w, res)
}
