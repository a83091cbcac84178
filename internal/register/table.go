package register

// Default, BlackholeName, ClipboardName, and SelectionName are the
// special, non-letter register names.
const (
	Default   byte = '"'
	BlackholeName byte = '_'
	ClipboardName byte = '+'
	SelectionName byte = '*'
)

// Table holds every register the editor exposes: the 26 named
// letters, the default (unnamed) register every plain delete/yank
// targets, the blackhole, the clipboard bridge, and the per-selection
// slot register used by multi-cursor yank/paste.
type Table struct {
	named     [26]*Register
	def       *Register
	blackhole *Register
	clipboard *Register
	selection *Register
}

// NewTable creates a Table with all registers initialized and empty.
func NewTable() *Table {
	t := &Table{
		def:       New(Normal),
		blackhole: New(Blackhole),
		clipboard: New(Clipboard),
		selection: New(Normal),
	}
	for i := range t.named {
		t.named[i] = New(Normal)
	}
	return t
}

// Get returns the register named by name: 'a'..'z' (case-insensitive)
// for a letter register, Default for the unnamed register, BlackholeName,
// ClipboardName, or SelectionName. It returns ErrUnknownName for
// anything else.
func (t *Table) Get(name byte) (*Register, error) {
	switch {
	case name >= 'a' && name <= 'z':
		return t.named[name-'a'], nil
	case name >= 'A' && name <= 'Z':
		return t.named[name-'A'], nil
	case name == Default:
		return t.def, nil
	case name == BlackholeName:
		return t.blackhole, nil
	case name == ClipboardName:
		return t.clipboard, nil
	case name == SelectionName:
		return t.selection, nil
	default:
		return nil, ErrUnknownName
	}
}

// Default returns the unnamed register every plain delete/yank targets
// when no register name is given.
func (t *Table) Default() *Register { return t.def }

// Blackhole returns the register that discards everything written to it.
func (t *Table) Blackhole() *Register { return t.blackhole }

// Clipboard returns the register bridging to the host clipboard.
func (t *Table) Clipboard() *Register { return t.clipboard }

// Selection returns the per-selection slot register used by
// multi-cursor yank and paste.
func (t *Table) Selection() *Register { return t.selection }
