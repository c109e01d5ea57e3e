package plan

// Pair is a normalized unordered pair of agent ids (Lo < Hi). Always
// construct through NewPair so (i,j) and (j,i) hash identically.
type Pair struct {
	Lo, Hi int
}

// NewPair normalizes (a, b) into a Pair.
func NewPair(a, b int) Pair {
	if a > b {
		a, b = b, a
	}
	return Pair{Lo: a, Hi: b}
}

// MeetingHistory derives, from the whole schedule, the set of agent pairs
// that have shared a group at least once. Pure read-side derivation.
func MeetingHistory(s *Schedule) map[Pair]struct{} {
	history := make(map[Pair]struct{})
	for _, r := range s.Rounds {
		for _, g := range r.Groups {
			for i := 0; i < len(g); i++ {
				for j := i + 1; j < len(g); j++ {
					history[NewPair(g[i], g[j])] = struct{}{}
				}
			}
		}
	}
	return history
}

// PairCounts derives the per-pair co-seating count over the whole
// schedule. A count above 1 is a repeat.
func PairCounts(s *Schedule) map[Pair]int {
	counts := make(map[Pair]int)
	for _, r := range s.Rounds {
		for _, g := range r.Groups {
			for i := 0; i < len(g); i++ {
				for j := i + 1; j < len(g); j++ {
					counts[NewPair(g[i], g[j])]++
				}
			}
		}
	}
	return counts
}

// groupRepeats counts the pairs within one group that are already present
// in history. The swap evaluator's unit of account.
func groupRepeats(g Group, history map[Pair]struct{}) int {
	repeats := 0
	for i := 0; i < len(g); i++ {
		for j := i + 1; j < len(g); j++ {
			if _, met := history[NewPair(g[i], g[j])]; met {
				repeats++
			}
		}
	}
	return repeats
}

// Ledger is the incrementally-maintained form of the contact bookkeeping:
// pair counts plus the derived met-at-least-once set, kept current across
// swaps so the improvement scan never pays for a full recomputation.
// Scoped to a single pipeline invocation; never share one across
// schedules. ApplySwap must produce the same state as rebuilding from the
// mutated schedule — ledger_test.go holds that property.
type Ledger struct {
	counts  map[Pair]int
	history map[Pair]struct{}
}

// NewLedger builds a Ledger from the schedule's current state.
func NewLedger(s *Schedule) *Ledger {
	l := &Ledger{
		counts:  PairCounts(s),
		history: make(map[Pair]struct{}),
	}
	for p := range l.counts {
		l.history[p] = struct{}{}
	}
	return l
}

// History returns the live met-at-least-once view. The map stays current
// as swaps are applied; callers must not mutate it.
func (l *Ledger) History() map[Pair]struct{} {
	return l.history
}

// Count returns how many rounds the pair has shared a group.
func (l *Ledger) Count(p Pair) int {
	return l.counts[p]
}

// UniquePairs returns the number of distinct pairs that have met.
func (l *Ledger) UniquePairs() int {
	return len(l.history)
}

// RepeatPairs returns the number of pairs that have met more than once.
func (l *Ledger) RepeatPairs() int {
	repeats := 0
	for _, c := range l.counts {
		if c > 1 {
			repeats++
		}
	}
	return repeats
}

// ApplySwap updates the ledger for the exchange of a1 (in round.Groups[g1])
// with a2 (in round.Groups[g2]). Call BEFORE Round.Swap mutates the
// groups: the update reads the pre-swap memberships.
func (l *Ledger) ApplySwap(round *Round, g1, a1, g2, a2 int) {
	for _, m := range round.Groups[g1] {
		if m == a1 {
			continue
		}
		l.dec(NewPair(a1, m))
		l.inc(NewPair(a2, m))
	}
	for _, m := range round.Groups[g2] {
		if m == a2 {
			continue
		}
		l.dec(NewPair(a2, m))
		l.inc(NewPair(a1, m))
	}
}

func (l *Ledger) inc(p Pair) {
	l.counts[p]++
	l.history[p] = struct{}{}
}

func (l *Ledger) dec(p Pair) {
	l.counts[p]--
	if l.counts[p] <= 0 {
		delete(l.counts, p)
		delete(l.history, p)
	}
}
