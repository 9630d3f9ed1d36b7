// core/energy/oracle.go
// Free-energy oracle contract shared by the model builder and the adapters.
// Energies are in kcal/mol; lower is more stable.

package energy

import "context"

const (
	// Sentinel is returned for structures the model cannot score.
	Sentinel = 100000.0
	// InvalidThreshold separates real energies from sentinel-like values.
	InvalidThreshold = 90000.0
)

// Oracle evaluates the free energy of a dot-bracket structure on a sequence.
// workDir is scratch space for implementations that shell out; it may be
// ignored by in-process models.
type Oracle interface {
	Energy(ctx context.Context, dotBracket, sequence, workDir string) (float64, error)
}

// OracleFunc adapts a plain function to Oracle.
type OracleFunc func(ctx context.Context, dotBracket, sequence, workDir string) (float64, error)

func (f OracleFunc) Energy(ctx context.Context, dotBracket, sequence, workDir string) (float64, error) {
	return f(ctx, dotBracket, sequence, workDir)
}

// IsInvalid reports whether e is at or above InvalidThreshold.
func IsInvalid(e float64) bool { return e >= InvalidThreshold }
