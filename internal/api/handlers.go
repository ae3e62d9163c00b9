package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"quanta-tokenomics/internal/budget"
	"quanta-tokenomics/internal/domain"
	"quanta-tokenomics/internal/economics"
	"quanta-tokenomics/internal/reporting"
	"quanta-tokenomics/internal/supply"
	"quanta-tokenomics/internal/verification"
)

// errBadRequest marks malformed requests that never reach the engine.
var errBadRequest = errors.New("bad request")

// DefaultsResponse describes the parameter surface.
type DefaultsResponse struct {
	Parameters domain.EconomicParameters          `json:"parameters"`
	Fields     []domain.ParamField                `json:"fields"`
	Ranges     map[domain.ParamField]domain.Range `json:"ranges"`
}

// RebalanceRequest edits one tier and asks for the balanced split.
type RebalanceRequest struct {
	Tiers domain.TierSplit  `json:"tiers"`
	Field domain.ParamField `json:"field"`
	Value float64           `json:"value"`
}

// SupplyResponse is the supply projection with its summary.
type SupplyResponse struct {
	Points  []domain.SupplyPoint `json:"points"`
	Summary supply.Summary       `json:"summary"`
}

// BudgetRequest selects a preset and slider positions.
// Omitted adjustments take their neutral defaults.
type BudgetRequest struct {
	Preset      string                  `json:"preset"`
	Adjustments *domain.CostAdjustments `json:"adjustments,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (s *Server) handleDefaultParameters(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, DefaultsResponse{
		Parameters: domain.DefaultParameters(),
		Fields:     domain.Fields(),
		Ranges:     domain.ParameterRanges,
	})
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	p, err := decodeParameters(w, r)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	sim, err := s.runner.Simulate(r.Context(), p)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sim)
}

func (s *Server) handleEpoch(w http.ResponseWriter, r *http.Request) {
	p, err := decodeParameters(w, r)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	epoch, err := s.runner.Epoch(r.Context(), p)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, epoch)
}

func (s *Server) handleMonthly(w http.ResponseWriter, r *http.Request) {
	p, err := decodeParameters(w, r)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	monthly, err := s.runner.Monthly(r.Context(), p)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, monthly)
}

func (s *Server) handleRebalance(w http.ResponseWriter, r *http.Request) {
	req := RebalanceRequest{Tiers: domain.DefaultTierSplit()}
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeFailure(w, err)
		return
	}
	if !req.Field.IsTier() {
		s.writeFailure(w, fmt.Errorf("%w: %q is not a tier field", domain.ErrUnknownField, req.Field))
		return
	}
	writeJSON(w, http.StatusOK, economics.RebalanceTiers(req.Tiers, req.Field, req.Value))
}

func (s *Server) handlePowerLaw(w http.ResponseWriter, r *http.Request) {
	gamma, err := queryFloat(r, "gamma", domain.DefaultPowerLawGamma)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	n, err := queryInt(r, "n", domain.DefaultPowerLawRanks)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	points, err := s.runner.PowerLaw(r.Context(), gamma, n)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, points)
}

func (s *Server) handleSupply(w http.ResponseWriter, r *http.Request) {
	months, err := queryInt(r, "months", domain.DefaultSupplyMonths)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	points, err := s.runner.Supply(r.Context(), months)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SupplyResponse{
		Points:  points,
		Summary: supply.Summarize(domain.InitialSupply, points),
	})
}

func (s *Server) handleBudgetPresets(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, budget.Presets())
}

func (s *Server) handleBudget(w http.ResponseWriter, r *http.Request) {
	var req BudgetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeFailure(w, err)
		return
	}
	adj := domain.DefaultCostAdjustments()
	if req.Adjustments != nil {
		adj = *req.Adjustments
	}
	res, err := s.runner.Budget(r.Context(), req.Preset, adj)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// handleBurnCurve reads the preset and sliders from the query string:
// preset, grant, api, dev, infra, team, marketData.
func (s *Server) handleBurnCurve(w http.ResponseWriter, r *http.Request) {
	adj, err := queryAdjustments(r)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	preset := r.URL.Query().Get("preset")
	if preset == "" {
		preset = domain.PresetBalanced
	}
	res, err := s.runner.Budget(r.Context(), preset, adj)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res.BurnCurve)
}

// handleReport renders the markdown report for the posted parameters.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	p, err := decodeParameters(w, r)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	rep, err := s.reports.Generate(r.Context(), p, domain.DefaultCostAdjustments())
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	s.metrics.RecordReport()

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, reporting.RenderMarkdown(rep))
}

// handleVerify recomputes a posted simulation and reports divergences.
func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	var stored domain.Simulation
	if err := decodeJSON(w, r, &stored); err != nil {
		s.writeFailure(w, err)
		return
	}
	res, err := verification.Verify(r.Context(), s.runner, &stored)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// decodeParameters decodes a parameter set over the defaults,
// so a partial body only overrides the fields it names.
func decodeParameters(w http.ResponseWriter, r *http.Request) (domain.EconomicParameters, error) {
	p := domain.DefaultParameters()
	if err := decodeJSON(w, r, &p); err != nil {
		return domain.EconomicParameters{}, err
	}
	return p, nil
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: decode body: %v", errBadRequest, err)
	}
	return nil
}

func queryFloat(r *http.Request, key string, def float64) (float64, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", errBadRequest, key, err)
	}
	return v, nil
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", errBadRequest, key, err)
	}
	return v, nil
}

func queryAdjustments(r *http.Request) (domain.CostAdjustments, error) {
	adj := domain.DefaultCostAdjustments()
	fields := []struct {
		key string
		dst *float64
	}{
		{"grant", &adj.GrantOffset},
		{"api", &adj.APIRevenueOffset},
		{"dev", &adj.DevScalePercent},
		{"infra", &adj.InfraScalePercent},
		{"team", &adj.TeamScalePercent},
	}
	for _, f := range fields {
		v, err := queryFloat(r, f.key, *f.dst)
		if err != nil {
			return domain.CostAdjustments{}, err
		}
		*f.dst = v
	}
	if tier := r.URL.Query().Get("marketData"); tier != "" {
		adj.MarketDataTier = tier
	}
	return adj, nil
}

// statusFor maps engine errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrUnknownField):
		return http.StatusBadRequest
	case errors.Is(err, budget.ErrUnknownPreset):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeFailure(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Printf("request failed: %v", err)
	}
	writeError(w, status, err)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
