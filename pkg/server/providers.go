package server

import (
	"net/http"
	"time"

	"github.com/hearthcast/hearthcast/pkg/climate"
	"github.com/hearthcast/hearthcast/pkg/log"
	"github.com/hearthcast/hearthcast/pkg/types"
)

// RatesRes is the response type for the rates endpoint.
type RatesRes struct {
	State       string          `json:"state"`
	Electricity types.RateQuote `json:"electricity"`
	Gas         types.RateQuote `json:"gas"`
}

func (s *Server) handleRates(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	state := r.URL.Query().Get("state")
	if state == "" {
		settings, err := s.getSettingsWithMigration(ctx, s.getSiteID(r))
		if err != nil {
			log.Ctx(ctx).ErrorContext(ctx, "failed to get settings", "error", err)
			writeJSONError(w, "failed to get settings", http.StatusInternalServerError)
			return
		}
		state = settings.Location.State
	}

	res := RatesRes{
		State:       state,
		Electricity: s.rates.Quote(ctx, types.FuelElectricity, state),
		Gas:         s.rates.Quote(ctx, types.FuelGas, state),
	}

	// rates move slowly, let clients cache for an hour
	w.Header().Set("Cache-Control", "private, max-age=3600")
	writeJSON(w, res)
}

// DegreeDaysRes is the response type for the degree-days endpoint.
type DegreeDaysRes struct {
	City  string `json:"city"`
	State string `json:"state"`
	// Known is false when the location missed the normals table and the
	// national defaults were returned instead.
	Known bool `json:"known"`

	AnnualHDD float64 `json:"annualHDD"`
	AnnualCDD float64 `json:"annualCDD"`

	MonthlyHDD [12]float64 `json:"monthlyHDD"`
	MonthlyCDD [12]float64 `json:"monthlyCDD"`
}

func (s *Server) handleDegreeDays(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	city := r.URL.Query().Get("city")
	state := r.URL.Query().Get("state")
	if city == "" || state == "" {
		settings, err := s.getSettingsWithMigration(ctx, s.getSiteID(r))
		if err != nil {
			log.Ctx(ctx).ErrorContext(ctx, "failed to get settings", "error", err)
			writeJSONError(w, "failed to get settings", http.StatusInternalServerError)
			return
		}
		city = settings.Location.City
		state = settings.Location.State
	}

	res := DegreeDaysRes{
		City:      city,
		State:     state,
		Known:     s.degreeDays.Known(city, state),
		AnnualHDD: s.degreeDays.AnnualHDD(city, state),
		AnnualCDD: s.degreeDays.AnnualCDD(city, state),
	}
	for m := time.January; m <= time.December; m++ {
		res.MonthlyHDD[m-1] = climate.MonthHDD(res.AnnualHDD, m)
		res.MonthlyCDD[m-1] = climate.MonthCDD(res.AnnualCDD, m)
	}

	// climatology is static
	w.Header().Set("Cache-Control", "private, max-age=86400")
	writeJSON(w, res)
}
