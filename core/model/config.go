package model

import (
	"errors"
	"fmt"
	"strings"

	"irfold/core/geometry"
)

// Baseline selects what a correction is measured against.
type Baseline int

const (
	// BaselineCumulative measures against the value the model already
	// assigns the tuple: singletons plus every corrected proper sub-tuple.
	// With it the objective of any selection equals its union energy up to
	// the correction depth.
	BaselineCumulative Baseline = iota
	// BaselineSingletons always measures against the sum of singleton energies.
	BaselineSingletons
)

func (b Baseline) String() string {
	if b == BaselineSingletons {
		return "singletons"
	}
	return "cumulative"
}

// ParseBaseline accepts "cumulative" (or "") and "singletons".
func ParseBaseline(s string) (Baseline, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "cumulative":
		return BaselineCumulative, nil
	case "singletons", "singleton":
		return BaselineSingletons, nil
	}
	return 0, fmt.Errorf("unknown baseline %q (want cumulative | singletons)", s)
}

// Config drives the builder. Zero values select defaults, except
// PairExclusion (false disables it) and MaxCorrectionTupleSize (0 disables
// corrections). Start from Default.
type Config struct {
	Predicates geometry.PredicateSet
	// PairExclusion adds x_a + x_b ≤ 1 for every incompatible pair.
	PairExclusion bool
	// NWiseExclusion adds Σx ≤ n-1 for incompatible n-tuples that no pair
	// exclusion already covers.
	NWiseExclusion         bool
	MaxCorrectionTupleSize int
	MinLoopSize            int
	EnergyScale            int
	Baseline               Baseline
}

// Default is the base model with pair exclusions and no corrections.
func Default() Config {
	return Config{PairExclusion: true}.WithDefaults()
}

var ErrInvalidConfig = errors.New("model: invalid configuration")

// WithDefaults fills unset fields.
func (c Config) WithDefaults() Config {
	if c.MinLoopSize == 0 {
		c.MinLoopSize = geometry.DefaultMinLoopSize
	}
	if c.Predicates == nil {
		c.Predicates = geometry.RelativePosition{}
	}
	if c.EnergyScale == 0 {
		c.EnergyScale = 1
	}
	return c
}

// Validate rejects settings no model can be built from.
func (c Config) Validate() error {
	switch {
	case c.MaxCorrectionTupleSize < 0 || c.MaxCorrectionTupleSize == 1:
		return fmt.Errorf("%w: max correction tuple size %d (want 0 or >= 2)", ErrInvalidConfig, c.MaxCorrectionTupleSize)
	case c.MinLoopSize < 0:
		return fmt.Errorf("%w: min loop size %d", ErrInvalidConfig, c.MinLoopSize)
	case c.EnergyScale < 0:
		return fmt.Errorf("%w: energy scale %d", ErrInvalidConfig, c.EnergyScale)
	case c.Baseline != BaselineCumulative && c.Baseline != BaselineSingletons:
		return fmt.Errorf("%w: baseline %d", ErrInvalidConfig, int(c.Baseline))
	}
	return nil
}
