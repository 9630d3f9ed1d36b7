// internal/output/json.go
package output

import (
	"encoding/json"
	"io"
	"slices"
	"time"

	"irfold/core/engine"
	"irfold/pkg/api"
)

// ToAPI converts a fold result to the stable wire schema (v1). Candidates
// are attached when withCandidates is set.
func ToAPI(id string, maxTuple int, res engine.Result, withCandidates bool) api.FoldResultV1 {
	v := api.FoldResultV1{
		ID:         id,
		Sequence:   res.Sequence,
		Length:     len(res.Sequence),
		DotBracket: res.DotBracket,
		Objective:  res.Objective,
		Status:     string(res.Status),
		MaxTuple:   maxTuple,
		Stats: &api.StatsV1{
			Variables:   res.Stats.Variables,
			Exclusions:  res.Stats.Exclusions,
			Corrections: res.Stats.Corrections,
			OracleCalls: res.Stats.OracleCalls,
			FindMS:      ms(res.Stats.FindTime),
			BuildMS:     ms(res.Stats.BuildTime),
			SolveMS:     ms(res.Stats.SolveTime),
		},
	}
	if withCandidates {
		v.Candidates = make([]api.MotifV1, 0, len(res.Candidates))
		for i, m := range res.Candidates {
			v.Candidates = append(v.Candidates, api.MotifV1{
				LeftStart:  m.Left.Start,
				LeftEnd:    m.Left.End,
				RightStart: m.Right.Start,
				RightEnd:   m.Right.End,
				Valid:      slices.Contains(res.Valid, i),
				Selected:   slices.Contains(res.Selected, i),
			})
		}
	}
	return v
}

// Failed is the record emitted for a sequence whose fold returned an error.
func Failed(id, sequence string, err error) api.FoldResultV1 {
	return api.FoldResultV1{ID: id, Sequence: sequence, Length: len(sequence), Error: err.Error()}
}

func ms(d time.Duration) float64 { return float64(d.Microseconds()) / 1e3 }

// WriteJSON writes all records as one indented JSON array.
func WriteJSON(w io.Writer, list []api.FoldResultV1) error {
	if list == nil {
		list = []api.FoldResultV1{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(list)
}
