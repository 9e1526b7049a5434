package timepad

import "fmt"

// Outcome is the state of a Resolution.
type Outcome int

const (
	NotFound Outcome = iota
	Resolved
	NeedsSelection
	Cancelled
)

func (o Outcome) String() string {
	switch o {
	case NotFound:
		return "not found"
	case Resolved:
		return "resolved"
	case NeedsSelection:
		return "needs selection"
	case Cancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Cancel is the selection value meaning the user aborted.
const Cancel = 0

// Resolution is the result of narrowing query matches to one entry.
// Only NeedsSelection carries candidates; only Resolved carries an entry.
type Resolution struct {
	Outcome    Outcome
	Entry      Entry
	Candidates []Entry
}

// Resolve classifies matches: none is NotFound, one is Resolved, more
// need a user selection among the candidates in the order received.
func Resolve(matches []Entry) Resolution {
	switch len(matches) {
	case 0:
		return Resolution{Outcome: NotFound}
	case 1:
		return Resolution{Outcome: Resolved, Entry: matches[0]}
	default:
		return Resolution{Outcome: NeedsSelection, Candidates: matches}
	}
}

// Select applies a 1-based choice to a NeedsSelection resolution. Cancel or
// an index outside [1, len(Candidates)] yields Cancelled. Other outcomes are
// returned unchanged.
func (r Resolution) Select(choice int) Resolution {
	if r.Outcome != NeedsSelection {
		return r
	}
	if choice < 1 || choice > len(r.Candidates) {
		return Resolution{Outcome: Cancelled}
	}
	return Resolution{Outcome: Resolved, Entry: r.Candidates[choice-1]}
}

// Err maps terminal outcomes to their sentinel errors. Resolved returns nil.
func (r Resolution) Err() error {
	switch r.Outcome {
	case Resolved:
		return nil
	case NotFound:
		return ErrNotFound
	case Cancelled:
		return ErrCancelled
	default:
		return fmt.Errorf("resolution still %s", r.Outcome)
	}
}
