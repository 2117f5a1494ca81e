package ingest

import (
	"testing"

	"github.com/elcfinder/elcfinder/schema"
)

// FuzzNormalize checks that arbitrary payloads never panic and always produce
// named schools with valid-or-NaN ratings.
func FuzzNormalize(f *testing.F) {
	f.Add([]byte(`[{"id":1,"name":"A","cost":5}]`))
	f.Add([]byte(`[{"Centre":"B","latitude":"-33.1","nqs":"x"}, 3, null]`))
	f.Add([]byte(`{"not":"an array"}`))
	f.Add([]byte(`[`))

	f.Fuzz(func(t *testing.T, data []byte) {
		for _, policy := range []schema.MissingRatings{schema.ZeroMissingRatings, schema.SkipMissingRatings} {
			schools, err := Normalize(data, policy)
			if err != nil {
				if len(schools) != 0 {
					t.Fatalf("error result should carry no schools, got %d", len(schools))
				}
				continue
			}
			for _, s := range schools {
				if s.Name == "" || s.Address == "" {
					t.Fatalf("name and address must never be empty: %+v", s)
				}
				if policy == schema.ZeroMissingRatings {
					for _, c := range schema.AllCriteria {
						if !schema.Rating(s.Rating(c)).Valid() {
							t.Fatalf("zero policy produced invalid %s rating", c)
						}
					}
				}
			}
		}
	})
}
