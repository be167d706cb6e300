package command

import "sudokucore/pkg/domain"

// SetValue places a value without touching any note.
type SetValue struct {
	row      int
	col      int
	value    int
	oldValue int
}

var _ Command = (*SetValue)(nil)

// NewSetValue validates the target and value.
func NewSetValue(row, col, value int) (*SetValue, error) {
	if err := domain.ValidatePosition(row, col); err != nil {
		return nil, err
	}
	if err := domain.ValidateValue(value); err != nil {
		return nil, err
	}
	return &SetValue{row: row, col: col, value: value}, nil
}

// Kind implements Command.
func (c *SetValue) Kind() Kind { return KindSetValue }

// Target returns the cell the command writes.
func (c *SetValue) Target() domain.Position { return domain.Position{Row: c.row, Col: c.col} }

// Apply implements Command.
func (c *SetValue) Apply(g *domain.Grid) error {
	old, err := g.Value(c.row, c.col)
	if err != nil {
		return err
	}
	c.oldValue = old
	return g.SetValue(c.row, c.col, c.value)
}

// Reverse implements Command.
func (c *SetValue) Reverse(g *domain.Grid) error {
	return g.SetValue(c.row, c.col, c.oldValue)
}

// Encode implements Command.
func (c *SetValue) Encode(w *domain.TokenWriter) {
	w.Int(c.row)
	w.Int(c.col)
	w.Int(c.value)
	w.Int(c.oldValue)
}

// Decode implements Command.
func (c *SetValue) Decode(r *domain.TokenReader) error {
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
