package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/elcfinder/elcfinder/core/algo"
	"github.com/elcfinder/elcfinder/internal/contract"
	"github.com/elcfinder/elcfinder/schema"
)

// rankQuery holds the ranking parameters of one request.
type rankQuery struct {
	weights  schema.Weights
	limit    int
	tieBreak schema.TieBreak
}

type errorResponse struct {
	Error string `json:"error"`
}

// parseRankQuery merges query parameters over the configured defaults.
// Weights are given per criterion, e.g. ?cost=8&nqs=10.
func (s *Server) parseRankQuery(values url.Values) (rankQuery, error) {
	base := s.cfg.Weights
	if base == nil {
		base = schema.DefaultWeights()
	}
	q := rankQuery{
		weights:  base.Clone(),
		limit:    s.cfg.ResultLimit,
		tieBreak: s.cfg.TieBreak,
	}

	for _, c := range schema.AllCriteria {
		raw := strings.TrimSpace(values.Get(string(c)))
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return q, fmt.Errorf("invalid weight value '%s' for %s", raw, c)
		}
		if err := contract.ValidateWeight(c, v); err != nil {
			return q, err
		}
		q.weights[c] = v
	}

	if raw := strings.TrimSpace(values.Get("limit")); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > contract.MaxResultLimit {
			return q, fmt.Errorf("limit must be between 1 and %d", contract.MaxResultLimit)
		}
		q.limit = limit
	}

	if raw := strings.TrimSpace(values.Get("tie_break")); raw != "" {
		tb := schema.TieBreak(strings.ToLower(raw))
		if _, ok := schema.ValidTieBreaks[tb]; !ok {
			return q, fmt.Errorf("invalid tie_break '%s', must be input, pairwise or name", raw)
		}
		q.tieBreak = tb
	}
	return q, nil
}

// rank parses the request and ranks the active snapshot. It writes a 400
// response and returns false when the query is invalid.
func (s *Server) rank(w http.ResponseWriter, r *http.Request) (rankQuery, []schema.ScoredSchool, bool) {
	q, err := s.parseRankQuery(r.URL.Query())
	if err != nil {
		jsonErr(w, http.StatusBadRequest, err.Error())
		return q, nil, false
	}
	return q, algo.RankSchools(s.snap.Schools(), q.weights, q.tieBreak, q.limit), true
}

func (s *Server) handleSchools(w http.ResponseWriter, _ *http.Request) {
	schools := s.snap.Schools()
	if schools == nil {
		schools = []schema.School{}
	}
	jsonResp(w, http.StatusOK, schools)
}

func (s *Server) handleRankings(w http.ResponseWriter, r *http.Request) {
	if _, ranked, ok := s.rank(w, r); ok {
		jsonResp(w, http.StatusOK, schema.EnrichSchools(ranked))
	}
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	if _, ranked, ok := s.rank(w, r); ok {
		jsonResp(w, http.StatusOK, algo.ChartPoints(ranked))
	}
}

func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	if _, ranked, ok := s.rank(w, r); ok {
		jsonResp(w, http.StatusOK, algo.MapMarkers(ranked))
	}
}

func (s *Server) handleInsight(w http.ResponseWriter, r *http.Request) {
	if q, ranked, ok := s.rank(w, r); ok {
		jsonResp(w, http.StatusOK, algo.BuildInsight(ranked, q.weights, nil))
	}
}

func (s *Server) handleCriteria(w http.ResponseWriter, r *http.Request) {
	q, err := s.parseRankQuery(r.URL.Query())
	if err != nil {
		jsonErr(w, http.StatusBadRequest, err.Error())
		return
	}
	jsonResp(w, http.StatusOK, algo.BuildCriteriaModel(q.weights))
}

// --- helpers ----------------------------------------------------------------

// jsonResp encodes v before writing the header so an encoding failure
// becomes a 500 instead of a truncated 200.
func jsonResp(w http.ResponseWriter, code int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		slog.Error("server: encode response", "err", err)
		code = http.StatusInternalServerError
		body, _ = json.Marshal(errorResponse{Error: "failed to encode response"})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(append(body, '\n'))
}

func jsonErr(w http.ResponseWriter, code int, msg string) {
	jsonResp(w, code, errorResponse{Error: msg})
}
