package symbols

// Kind is the category tag used to build LaTeX labels, e.g. "sec" in \label{sec:intro}.
type Kind string

const (
	Sec       Kind = "sec"
	Subsec    Kind = "subsec"
	Subsubsec Kind = "subsubsec"
	Par       Kind = "par"
	Txt       Kind = "txt"
	Eq        Kind = "eq"
	Fig       Kind = "fig"
	Tab       Kind = "tab"
)

// headlineKinds maps an aligned heading level to its tag. Deeper levels use Txt.
var headlineKinds = []Kind{Sec, Subsec, Subsubsec, Par}

// noHeadline is the minimum level before any heading has been observed.
const noHeadline = 100

// HeadlineKind returns the tag for an aligned heading level.
func HeadlineKind(alignedLevel int) Kind {
	if alignedLevel < 0 {
		alignedLevel = 0
	}
	if alignedLevel >= len(headlineKinds) {
		return Txt
	}
	return headlineKinds[alignedLevel]
}

// Label formats a reference as a LaTeX label key.
func Label(kind Kind, ref string) string {
	return string(kind) + ":" + ref
}

// Table maps reference identifiers to kind tags and tracks the shallowest heading level
// seen during a render. A Table belongs to a single render and is not safe for
// concurrent use.
type Table struct {
	refs     map[string]Kind
	minLevel int
}

// New creates an empty table
func New() *Table {
	return &Table{
		refs:     make(map[string]Kind),
		minLevel: noHeadline,
	}
}

// Register records ref under kind. Registering the same ref again overwrites it.
func (t *Table) Register(ref string, kind Kind) {
	if ref == "" {
		return
	}
	t.refs[ref] = kind
}

// Lookup returns the kind registered for ref
func (t *Table) Lookup(ref string) (Kind, bool) {
	kind, ok := t.refs[ref]
	return kind, ok
}

// Len returns the number of registered references
func (t *Table) Len() int {
	return len(t.refs)
}

// ObserveHeadline lowers the minimum heading level if level is shallower
func (t *Table) ObserveHeadline(level int) {
	if level < t.minLevel {
		t.minLevel = level
	}
}

// MinHeadlineLevel returns the shallowest heading level observed, or 0 if none
func (t *Table) MinHeadlineLevel() int {
	if t.minLevel == noHeadline {
		return 0
	}
	return t.minLevel
}

// Align shifts level so the shallowest observed heading becomes level 0
func (t *Table) Align(level int) int {
	aligned := level - t.MinHeadlineLevel()
	if aligned < 0 {
		return 0
	}
	return aligned
}

// Snapshot returns a copy of the registered references
func (t *Table) Snapshot() map[string]Kind {
	out := make(map[string]Kind, len(t.refs))
	for ref, kind := range t.refs {
		out[ref] = kind
	}
	return out
}

// Reset clears all references and the heading level
func (t *Table) Reset() {
	clear(t.refs)
	t.minLevel = noHeadline
}
