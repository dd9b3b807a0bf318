package clonebox

// Op names a controller transition.
type Op string

const (
	OpInit   Op = "init"
	OpAdd    Op = "add"
	OpDelete Op = "delete"
	OpReset  Op = "reset"
)

// Reasons attached to transitions that did not run their structural change.
const (
	ReasonLimitReached   = "limit reached"
	ReasonLastRowCleared = "last row cleared in place"
	ReasonNoTarget       = "target is not inside a row"
	ReasonNoRows         = "container has no rows"
)

// Mutation records one completed transition.
type Mutation struct {
	Seq uint64 `json:"seq"`
	Op  Op     `json:"op"`
	// Index is the row position the transition acted on, -1 when not
	// applicable.
	Index  int `json:"index"`
	Before int `json:"before"`
	After  int `json:"after"`
	// Applied is false when the structural change was skipped.
	Applied bool   `json:"applied"`
	Reason  string `json:"reason,omitempty"`
	// Rewritten counts attribute values changed by the reindex pass.
	Rewritten   int  `json:"rewritten"`
	AddDisabled bool `json:"addDisabled"`
}

type journal struct {
	size    int
	seq     uint64
	entries []Mutation
}

func newJournal(size int) *journal {
	if size < 1 {
		size = defaultJournalEntries
	}
	return &journal{size: size}
}

func (j *journal) record(m Mutation) Mutation {
	j.seq++
	m.Seq = j.seq
	j.entries = append(j.entries, m)
	if over := len(j.entries) - j.size; over > 0 {
		j.entries = append(j.entries[:0], j.entries[over:]...)
	}
	return m
}

func (j *journal) snapshot() []Mutation {
	out := make([]Mutation, len(j.entries))
	copy(out, j.entries)
	return out
}
