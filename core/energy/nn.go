// core/energy/nn.go
// Nearest-neighbour free energy for RNA secondary structures (Turner 2004,
// 37 °C). All tables are in dcal/mol and the total is converted to kcal/mol
// at the end.
//
// Loop decomposition:
//  1) external loop: terminal AU/GU penalty per outermost pair
//  2) hairpin: initiation by size, log extrapolation above 9 nt
//  3) stack / bulge / interior for loops closed by two pairs
//  4) multiloop: a + c·branches + terminal penalties
//
// Hairpins shorter than three bases, non-canonical pairs and unbalanced
// brackets are scored as Sentinel.

package energy

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
)

var ErrLengthMismatch = errors.New("energy: structure and sequence differ in length")

// pair types, in table order
const (
	pairCG = iota
	pairGC
	pairGU
	pairUG
	pairAU
	pairUA
	pairNone = -1
)

// stack[type(i,j)][type(q,p)] for outer pair (i,j) and inner pair (p,q).
var stack = [6][6]int{
	//  CG    GC    GU    UG    AU    UA
	{-240, -330, -210, -140, -210, -210}, // CG
	{-330, -340, -250, -150, -220, -240}, // GC
	{-210, -250, 130, -50, -140, -130},   // GU
	{-140, -150, -50, 30, -60, -100},     // UG
	{-210, -220, -140, -60, -110, -90},   // AU
	{-210, -240, -130, -100, -90, -130},  // UA
}

var (
	hairpinInit  = map[int]int{3: 540, 4: 560, 5: 570, 6: 540, 7: 600, 8: 550, 9: 640}
	bulgeInit    = map[int]int{1: 380, 2: 280, 3: 320, 4: 360, 5: 400, 6: 440, 7: 459, 8: 470, 9: 480, 10: 490}
	interiorInit = map[int]int{2: 50, 3: 160, 4: 110, 5: 200, 6: 200, 7: 220, 8: 230, 9: 240, 10: 250}
)

const (
	terminalAU     = 50
	interiorAU     = 70
	ninioPerNt     = 60
	ninioMax       = 300
	multiA         = 340
	multiC         = 40
	rtDcal         = 61.632 // RT at 37 °C
	loopExtrapDcal = 107.856
	minHairpin     = 3
)

// NearestNeighbour is an in-process Oracle.
type NearestNeighbour struct{}

func (NearestNeighbour) Energy(_ context.Context, dotBracket, sequence, _ string) (float64, error) {
	return Evaluate(dotBracket, sequence)
}

// Evaluate scores dotBracket on sequence. A length mismatch is an error; any
// structure the model cannot score returns Sentinel with a nil error.
func Evaluate(dotBracket, sequence string) (float64, error) {
	if len(dotBracket) != len(sequence) {
		return 0, fmt.Errorf("%w (%d vs %d)", ErrLengthMismatch, len(dotBracket), len(sequence))
	}
	seq := normalise(sequence)
	pt, ok := pairTable(dotBracket)
	if !ok {
		return Sentinel, nil
	}
	for i, j := range pt {
		if j > i && pairType(seq[i], seq[j]) == pairNone {
			return Sentinel, nil
		}
	}
	e := &evaluator{seq: seq, pt: pt}
	total := 0
	for i := 0; i < len(pt); i++ {
		j := pt[i]
		if j < 0 {
			continue
		}
		total += e.terminal(i, j)
		total += e.loop(i, j)
		if e.invalid {
			return Sentinel, nil
		}
		i = j
	}
	return float64(total) / 100, nil
}

func normalise(s string) []byte {
	b := []byte(strings.ToUpper(s))
	for i, c := range b {
		if c == 'T' {
			b[i] = 'U'
		}
	}
	return b
}

// pairTable maps each position to its partner, or -1.
func pairTable(db string) ([]int, bool) {
	pt := make([]int, len(db))
	var open []int
	for i := 0; i < len(db); i++ {
		pt[i] = -1
		switch db[i] {
		case '(':
			open = append(open, i)
		case ')':
			if len(open) == 0 {
				return nil, false
			}
			j := open[len(open)-1]
			open = open[:len(open)-1]
			pt[i], pt[j] = j, i
		case '.':
		default:
			return nil, false
		}
	}
	return pt, len(open) == 0
}

func pairType(a, b byte) int {
	switch string([]byte{a, b}) {
	case "CG":
		return pairCG
	case "GC":
		return pairGC
	case "GU":
		return pairGU
	case "UG":
		return pairUG
	case "AU":
		return pairAU
	case "UA":
		return pairUA
	}
	return pairNone
}

type evaluator struct {
	seq     []byte
	pt      []int
	invalid bool
}

func (e *evaluator) typ(i, j int) int { return pairType(e.seq[i], e.seq[j]) }

// terminal is the AU/GU end penalty for pair (i,j).
func (e *evaluator) terminal(i, j int) int {
	if e.typ(i, j) >= pairGU {
		return terminalAU
	}
	return 0
}

// loop scores the loop closed by (i,j) and everything nested in it.
func (e *evaluator) loop(i, j int) int {
	var branches [][2]int
	for k := i + 1; k < j; k++ {
		if q := e.pt[k]; q > k {
			branches = append(branches, [2]int{k, q})
			k = q
		}
	}
	switch len(branches) {
	case 0:
		return e.hairpin(i, j)
	case 1:
		p, q := branches[0][0], branches[0][1]
		return e.twoPair(i, j, p, q) + e.loop(p, q)
	default:
		total := multiA + multiC*(len(branches)+1) + e.terminal(i, j)
		for _, br := range branches {
			total += e.terminal(br[0], br[1]) + e.loop(br[0], br[1])
		}
		return total
	}
}

func (e *evaluator) hairpin(i, j int) int {
	size := j - i - 1
	if size < minHairpin {
		e.invalid = true
		return 0
	}
	if v, ok := hairpinInit[size]; ok {
		return v
	}
	return hairpinInit[9] + int(math.Round(1.75*rtDcal*math.Log(float64(size)/9)))
}

// twoPair scores a stack, bulge or interior loop between outer (i,j) and inner (p,q).
func (e *evaluator) twoPair(i, j, p, q int) int {
	l1, l2 := p-i-1, j-q-1
	outer, inner := e.typ(i, j), e.typ(q, p)
	switch {
	case l1 == 0 && l2 == 0:
		return stack[outer][inner]
	case l1 == 0 || l2 == 0:
		n := l1 + l2
		v := extrapolate(bulgeInit, 10, n)
		if n == 1 {
			return v + stack[outer][inner]
		}
		return v + e.terminal(i, j) + e.terminal(p, q)
	default:
		n := l1 + l2
		v := extrapolate(interiorInit, 10, n)
		v += min(ninioMax, ninioPerNt*abs(l1-l2))
		if outer >= pairGU {
			v += interiorAU
		}
		if inner >= pairGU {
			v += interiorAU
		}
		return v
	}
}

func extrapolate(table map[int]int, maxKnown, n int) int {
	if v, ok := table[n]; ok {
		return v
	}
	return table[maxKnown] + int(math.Round(loopExtrapDcal*math.Log(float64(n)/float64(maxKnown))))
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
