package ingest

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/elcfinder/elcfinder/internal/contract"
	"github.com/elcfinder/elcfinder/schema"
)

// ErrNotArray is returned when a payload does not decode to a JSON array.
var ErrNotArray = errors.New("school data is not a JSON array")

// keyAliases maps alternate field names onto the canonical record keys.
var keyAliases = map[string]string{
	"centre":    "name",
	"latitude":  "lat",
	"longitude": "lng",
}

// Normalize decodes a JSON array of school objects. Elements that are not
// objects are skipped. A payload that is not an array yields no schools and ErrNotArray.
func Normalize(data []byte, policy schema.MissingRatings) ([]schema.School, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode school data: %w", err)
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, ErrNotArray
	}

	schools := make([]schema.School, 0, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		schools = append(schools, NormalizeRecord(obj, i+1, policy))
	}
	if dups := DuplicateIDs(schools); len(dups) > 0 {
		contract.LogWarn("Duplicate school ids", fmt.Errorf("ids %v are shared by more than one school; status updates apply to all of them", dups))
	}
	return schools, nil
}

// DuplicateIDs returns the ids used by more than one school, in first-seen order.
func DuplicateIDs(schools []schema.School) []int {
	seen := make(map[int]int, len(schools))
	var dups []int
	for _, s := range schools {
		seen[s.ID]++
		if seen[s.ID] == 2 {
			dups = append(dups, s.ID)
		}
	}
	return dups
}

// maxID bounds record ids to the range a float64 holds exactly.
const maxID = 1 << 53

// NormalizeRecord builds a School from a loosely typed record. Keys are matched
// case-insensitively and position is used as the ID when none is present or it
// is out of range.
func NormalizeRecord(obj map[string]any, position int, policy schema.MissingRatings) schema.School {
	fields := canonicalKeys(obj)

	s := schema.School{
		ID:        position,
		Name:      textOr(fields["name"], schema.UnnamedSchool),
		Address:   textOr(fields["address"], schema.NoAddressProvided),
		Lat:       numberOrZero(fields["lat"]),
		Lng:       numberOrZero(fields["lng"]),
		FeePerDay: numberOrZero(fields["fee_per_day"]),
	}
	if id, ok := toNumber(fields["id"]); ok && math.Abs(id) <= maxID {
		s.ID = int(math.Trunc(id))
	}
	for _, c := range schema.AllCriteria {
		s.SetRating(c, ratingValue(fields[string(c)], policy))
	}
	if text, ok := fields["status"].(string); ok {
		if status, ok := schema.ParseSchoolStatus(text); ok {
			s.Status = status
		}
	}
	return s
}

// ApplyStatuses replaces the status of every school whose ID is in overlay.
func ApplyStatuses(schools []schema.School, overlay map[int]schema.SchoolStatus) {
	if len(overlay) == 0 {
		return
	}
	for i := range schools {
		if status, ok := overlay[schools[i].ID]; ok {
			schools[i].Status = status
		}
	}
}

// canonicalKeys lower-cases and trims keys and resolves aliases.
// A canonical key present in the record wins over an alias.
func canonicalKeys(obj map[string]any) map[string]any {
	fields := make(map[string]any, len(obj))
	aliased := make(map[string]any)
	for k, v := range obj {
		key := strings.ToLower(strings.TrimSpace(k))
		if canonical, ok := keyAliases[key]; ok {
			aliased[canonical] = v
			continue
		}
		fields[key] = v
	}
	for k, v := range aliased {
		if _, exists := fields[k]; !exists {
			fields[k] = v
		}
	}
	return fields
}

// ratingValue applies the missing-ratings policy to an unusable value.
func ratingValue(v any, policy schema.MissingRatings) float64 {
	if n, ok := toNumber(v); ok {
		return n
	}
	if policy == schema.SkipMissingRatings {
		return math.NaN()
	}
	return 0
}

// toNumber accepts finite numbers and numeric strings.
func toNumber(v any) (float64, bool) {
	var n float64
	switch val := v.(type) {
	case float64:
		n = val
	case int:
		n = float64(val)
	case int64:
		n = float64(val)
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return 0, false
		}
		n = f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0, false
		}
		n = f
	default:
		return 0, false
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

func numberOrZero(v any) float64 {
	n, _ := toNumber(v)
	return n
}

func textOr(v any, fallback string) string {
	if text, ok := v.(string); ok {
		if trimmed := strings.TrimSpace(text); trimmed != "" {
			return trimmed
		}
	}
	return fallback
}
