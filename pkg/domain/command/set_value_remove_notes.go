package command

import "sudokucore/pkg/domain"

// SetValueAndRemoveNotes places a value and strips it from the notes of the
// cell's peers. All 81 cells' notes are captured before the strip so
// Reverse restores every peer exactly.
type SetValueAndRemoveNotes struct {
	multiNote
	row      int
	col      int
	value    int
	oldValue int
}

var _ Command = (*SetValueAndRemoveNotes)(nil)

// NewSetValueAndRemoveNotes validates the target and value. The old value and
// the note snapshot are captured by Apply, not here.
func NewSetValueAndRemoveNotes(row, col, value int) (*SetValueAndRemoveNotes, error) {
	if err := domain.ValidatePosition(row, col); err != nil {
		return nil, err
	}
	if err := domain.ValidateValue(value); err != nil {
		return nil, err
	}
	return &SetValueAndRemoveNotes{row: row, col: col, value: value}, nil
}

// Kind implements Command.
func (c *SetValueAndRemoveNotes) Kind() Kind { return KindSetValueAndRemoveNotes }

// Target returns the cell the command writes.
func (c *SetValueAndRemoveNotes) Target() domain.Position {
	return domain.Position{Row: c.row, Col: c.col}
}

// Value returns the value placed by Apply.
func (c *SetValueAndRemoveNotes) Value() int { return c.value }

// OldValue returns the value recorded by Apply.
func (c *SetValueAndRemoveNotes) OldValue() int { return c.oldValue }

// Apply implements Command.
func (c *SetValueAndRemoveNotes) Apply(g *domain.Grid) error {
	if err := domain.ValidatePosition(c.row, c.col); err != nil {
		return err
	}
	c.oldCorner = c.oldCorner[:0]
	c.oldCenter = c.oldCenter[:0]
	c.saveAllNotes(g)
	if err := g.RemoveNotesForChangedCell(c.row, c.col, c.value); err != nil {
		return err
	}
	old, err := g.Value(c.row, c.col)
	if err != nil {
		return err
	}
	c.oldValue = old
	return g.SetValue(c.row, c.col, c.value)
}

// Reverse restores notes first, then the value, so a value listener sees a
// fully restored cell.
func (c *SetValueAndRemoveNotes) Reverse(g *domain.Grid) error {
	if err := c.restoreNotes(g); err != nil {
		return err
	}
	return g.SetValue(c.row, c.col, c.oldValue)
}

// Encode implements Command.
func (c *SetValueAndRemoveNotes) Encode(w *domain.TokenWriter) {
	c.multiNote.Encode(w)
	w.Int(c.row)
	w.Int(c.col)
	w.Int(c.value)
	w.Int(c.oldValue)
}

// setValueTail is the number of tokens written after the note lists.
const setValueTail = 4

// Decode implements Command. The center list is omitted by older saves, which
// are recognized by exactly setValueTail tokens following the corner list.
func (c *SetValueAndRemoveNotes) Decode(r *domain.TokenReader) error {
	if err := c.multiNote.decodeNotes(r, setValueTail); err != nil {
		return err
	}
	pos, err := r.Position()
	if err != nil {
		return err
	}
	value, err := decodeValue(r, "value")
	if err != nil {
		return err
	}
	oldValue, err := decodeValue(r, "old value")
	if err != nil {
		return err
	}
	c.row, c.col, c.value, c.oldValue = pos.Row, pos.Col, value, oldValue
	return nil
}

func decodeValue(r *domain.TokenReader, field string) (int, error) {
	v, err := r.Int(field)
	if err != nil {
		return 0, err
	}
	if err := domain.ValidateValue(v); err != nil {
		return 0, err
	}
	return v, nil
}
