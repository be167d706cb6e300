package command

import "sudokucore/pkg/domain"

// ClearAllNotes empties the notes of every cell whose corner note is
// non-empty. Both roles are captured and cleared for such a cell, keeping
// the two snapshot lists aligned. A cell with only a center note is left
// untouched.
type ClearAllNotes struct {
	multiNote
}

var _ Command = (*ClearAllNotes)(nil)

// NewClearAllNotes returns the command.
func NewClearAllNotes() *ClearAllNotes { return &ClearAllNotes{} }

// Kind implements Command.
func (c *ClearAllNotes) Kind() Kind { return KindClearAllNotes }

// Apply implements Command.
func (c *ClearAllNotes) Apply(g *domain.Grid) error {
	c.oldCorner = c.oldCorner[:0]
	c.oldCenter = c.oldCenter[:0]
	for _, cell := range g.Cells() {
		if cell.Corner.IsEmpty() {
			continue
		}
		c.oldCorner = append(c.oldCorner, NoteEntry{Row: cell.Row, Col: cell.Col, Note: cell.Corner})
		c.oldCenter = append(c.oldCenter, NoteEntry{Row: cell.Row, Col: cell.Col, Note: cell.Center})
		if err := g.SetCornerNote(cell.Row, cell.Col, domain.EmptyNote); err != nil {
			return err
		}
		if err := g.SetCenterNote(cell.Row, cell.Col, domain.EmptyNote); err != nil {
			return err
		}
	}
	return nil
}
