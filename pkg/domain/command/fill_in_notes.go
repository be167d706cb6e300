package command

import "sudokucore/pkg/domain"

// FillInNotes replaces the corner note of every empty cell with the digits
// not yet placed among its peers. Filled cells keep their notes.
type FillInNotes struct {
	multiNote
}

var _ Command = (*FillInNotes)(nil)

// NewFillInNotes returns the command.
func NewFillInNotes() *FillInNotes { return &FillInNotes{} }

// Kind implements Command.
func (c *FillInNotes) Kind() Kind { return KindFillInNotes }

// Apply implements Command.
func (c *FillInNotes) Apply(g *domain.Grid) error {
	c.oldCorner = c.oldCorner[:0]
	c.oldCenter = c.oldCenter[:0]
	c.saveAllNotes(g)
	for _, cell := range g.Cells() {
		if cell.Value != 0 {
			continue
		}
		cand, err := g.Candidates(cell.Row, cell.Col)
		if err != nil {
			return err
		}
		if err := g.SetCornerNote(cell.Row, cell.Col, cand); err != nil {
			return err
		}
	}
	return nil
}
