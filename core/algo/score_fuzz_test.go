package algo

import (
	"math"
	"testing"

	"github.com/elcfinder/elcfinder/schema"
)

// FuzzComputeScore checks that scoring is total, finite and stays within the rating range.
func FuzzComputeScore(f *testing.F) {
	f.Add(7.0, 8.0, 9.0, 8.0, 8.0, 9.0, 1.0, 1.0, 1.0, 1.0, 1.0, 1.0)
	f.Add(0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0)
	f.Add(math.NaN(), 5.0, 5.0, 5.0, 5.0, 5.0, 10.0, 0.0, 0.0, 0.0, 0.0, 0.0)
	f.Add(3.0, math.Inf(1), 2.0, 1.0, 0.0, 10.0, 5.0, 5.0, -1.0, math.NaN(), 2.0, 3.0)
	f.Add(1e308, 5.0, 1e308, -1e308, 0.0, 0.0, 5.0, 5.0, 5.0, 5.0, 5.0, 5.0)
	f.Add(9.0, 1.0, 0.0, 0.0, 0.0, 0.0, 1e308, 1e308, 0.0, 0.0, 0.0, 0.0)

	f.Fuzz(func(t *testing.T, cost, edu, staff, fac, rep, nqs, wc, we, ws, wf, wr, wn float64) {
		s := schema.School{
			Cost:       schema.Rating(cost),
			Education:  schema.Rating(edu),
			Staff:      schema.Rating(staff),
			Facilities: schema.Rating(fac),
			Reputation: schema.Rating(rep),
			NQS:        schema.Rating(nqs),
		}
		w := schema.Weights{
			schema.CostCriterion:       wc,
			schema.EducationCriterion:  we,
			schema.StaffCriterion:      ws,
			schema.FacilitiesCriterion: wf,
			schema.ReputationCriterion: wr,
			schema.NQSCriterion:        wn,
		}

		got := ComputeScore(s, w)
		if math.IsNaN(got) || math.IsInf(got, 0) {
			t.Fatalf("score %v is not finite", got)
		}
		for c, share := range ComputeBreakdown(s, w) {
			if math.IsNaN(share) || math.IsInf(share, 0) {
				t.Fatalf("breakdown share %v for %s is not finite", share, c)
			}
		}

		lo, hi := math.Inf(1), math.Inf(-1)
		for _, c := range schema.AllCriteria {
			if !usable(s.Rating(c), w[c]) || w[c] == 0 {
				continue
			}
			lo = math.Min(lo, s.Rating(c))
			hi = math.Max(hi, s.Rating(c))
		}
		if math.IsInf(lo, 1) {
			return
		}
		tol := 1e-9 * math.Max(1, math.Max(math.Abs(lo), math.Abs(hi)))
		if got < lo-tol || got > hi+tol {
			t.Fatalf("score %v outside [%v, %v]", got, lo, hi)
		}
	})
}
