// pkg/api/fold_v1.go
package api

// MotifV1 is one candidate inverted repeat. Coordinates are 0-based and
// inclusive.
type MotifV1 struct {
	LeftStart  int  `json:"left_start"`
	LeftEnd    int  `json:"left_end"`
	RightStart int  `json:"right_start"`
	RightEnd   int  `json:"right_end"`
	Valid      bool `json:"valid"`
	Selected   bool `json:"selected"`
}

// StatsV1 reports model size and stage timings in milliseconds.
type StatsV1 struct {
	Variables   int     `json:"variables"`
	Exclusions  int     `json:"exclusions"`
	Corrections int     `json:"corrections"`
	OracleCalls int     `json:"oracle_calls"`
	FindMS      float64 `json:"find_ms"`
	BuildMS     float64 `json:"build_ms"`
	SolveMS     float64 `json:"solve_ms"`
}

// FoldResultV1 is the stable JSON/JSONL schema for one folded sequence.
// Keep fields, names, and types stable. Add new fields only with ",omitempty".
type FoldResultV1 struct {
	ID         string    `json:"id"`
	Sequence   string    `json:"sequence"`
	Length     int       `json:"length"`
	DotBracket string    `json:"dot_bracket"`
	Objective  float64   `json:"objective"` // kcal/mol
	Status     string    `json:"status"`
	MaxTuple   int       `json:"max_tuple_size"`
	Candidates []MotifV1 `json:"candidates,omitempty"`
	Stats      *StatsV1  `json:"stats,omitempty"`
	Error      string    `json:"error,omitempty"`
}
