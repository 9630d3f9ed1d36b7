package motif

// Symbol is one position of a dot-bracket structure.
type Symbol byte

const (
	Unpaired Symbol = '.'
	Open     Symbol = '('
	Close    Symbol = ')'
)

// Structure is a per-position dot-bracket assignment.
type Structure []Symbol

// Unfolded returns an all-unpaired structure of length n.
func Unfolded(n int) Structure {
	s := make(Structure, n)
	for i := range s {
		s[i] = Unpaired
	}
	return s
}

// Project marks every motif's left strand open and right strand closed.
// Motifs must not overlap; later motifs overwrite earlier ones if they do.
func Project(motifs []Motif, seqLen int) Structure {
	s := Unfolded(seqLen)
	for _, m := range motifs {
		fill(s, m.Left, Open)
		fill(s, m.Right, Close)
	}
	return s
}

func fill(s Structure, iv Interval, sym Symbol) {
	for i := max(iv.Start, 0); i <= iv.End && i < len(s); i++ {
		s[i] = sym
	}
}

// Counts returns the number of open and close symbols.
func (s Structure) Counts() (open, close int) {
	for _, c := range s {
		switch c {
		case Open:
			open++
		case Close:
			close++
		}
	}
	return open, close
}

func (s Structure) String() string {
	b := make([]byte, len(s))
	for i, c := range s {
		b[i] = byte(c)
	}
	return string(b)
}

// DotBracket projects motifs straight to a string.
func DotBracket(motifs []Motif, seqLen int) string {
	return Project(motifs, seqLen).String()
}
