package command

import "sudokucore/pkg/domain"

// noteRole selects which of a cell's two notes a command edits.
type noteRole int

const (
	roleCorner noteRole = iota
	roleCenter
)

func (r noteRole) get(g *domain.Grid, row, col int) (domain.Note, error) {
	if r == roleCenter {
		return g.CenterNote(row, col)
	}
	return g.CornerNote(row, col)
}

func (r noteRole) set(g *domain.Grid, row, col int, n domain.Note) error {
	if r == roleCenter {
		return g.SetCenterNote(row, col, n)
	}
	return g.SetCornerNote(row, col, n)
}

// editNote toggles a single digit in one note of one cell.
type editNote struct {
	role    noteRole
	row     int
	col     int
	digit   int
	oldNote domain.Note
}

func newEditNote(role noteRole, row, col, digit int) (editNote, error) {
	if err := domain.ValidatePosition(row, col); err != nil {
		return editNote{}, err
	}
	if _, err := domain.EmptyNote.Toggle(digit); err != nil {
		return editNote{}, err
	}
	return editNote{role: role, row: row, col: col, digit: digit}, nil
}

// Target returns the edited cell.
func (c *editNote) Target() domain.Position { return domain.Position{Row: c.row, Col: c.col} }

// Digit returns the toggled digit.
func (c *editNote) Digit() int { return c.digit }

// Apply implements Command.
func (c *editNote) Apply(g *domain.Grid) error {
	old, err := c.role.get(g, c.row, c.col)
	if err != nil {
		return err
	}
	next, err := old.Toggle(c.digit)
	if err != nil {
		return err
	}
	c.oldNote = old
	return c.role.set(g, c.row, c.col, next)
}

// Reverse implements Command.
func (c *editNote) Reverse(g *domain.Grid) error {
	return c.role.set(g, c.row, c.col, c.oldNote)
}

// Encode implements Command.
func (c *editNote) Encode(w *domain.TokenWriter) {
	w.Int(c.row)
	w.Int(c.col)
	w.Int(c.digit)
	w.Note(c.oldNote)
}

// Decode implements Command.
func (c *editNote) Decode(r *domain.TokenReader) error {
	pos, err := r.Position()
	if err != nil {
		return err
	}
	digit, err := r.Int("digit")
	if err != nil {
		return err
	}
	if _, err := domain.EmptyNote.Toggle(digit); err != nil {
		return err
	}
	old, err := r.Note("old note")
	if err != nil {
		return err
	}
	c.row, c.col, c.digit, c.oldNote = pos.Row, pos.Col, digit, old
	return nil
}

// EditCornerNote toggles a digit in a cell's corner note.
type EditCornerNote struct {
	editNote
}

var _ Command = (*EditCornerNote)(nil)

// NewEditCornerNote validates the target and digit.
func NewEditCornerNote(row, col, digit int) (*EditCornerNote, error) {
	e, err := newEditNote(roleCorner, row, col, digit)
	if err != nil {
		return nil, err
	}
	return &EditCornerNote{editNote: e}, nil
}

// Kind implements Command.
func (c *EditCornerNote) Kind() Kind { return KindEditCornerNote }

// EditCenterNote toggles a digit in a cell's center note.
type EditCenterNote struct {
	editNote
}

var _ Command = (*EditCenterNote)(nil)

// NewEditCenterNote validates the target and digit.
func NewEditCenterNote(row, col, digit int) (*EditCenterNote, error) {
	e, err := newEditNote(roleCenter, row, col, digit)
	if err != nil {
		return nil, err
	}
	return &EditCenterNote{editNote: e}, nil
}

// Kind implements Command.
func (c *EditCenterNote) Kind() Kind { return KindEditCenterNote }
