package command

import (
	"sudokucore/pkg/domain"
)

// NoteEntry is one captured note at an exact address.
type NoteEntry struct {
	Row  int
	Col  int
	Note domain.Note
}

// multiNote is embedded by commands whose Apply may rewrite notes on any
// number of cells. It holds the pre-apply corner and center notes and knows
// how to restore and encode them.
type multiNote struct {
	oldCorner []NoteEntry
	oldCenter []NoteEntry
}

// saveAllNotes appends both notes of all 81 cells, row-major.
func (m *multiNote) saveAllNotes(g *domain.Grid) {
	for _, c := range g.Cells() {
		m.oldCorner = append(m.oldCorner, NoteEntry{Row: c.Row, Col: c.Col, Note: c.Corner})
		m.oldCenter = append(m.oldCenter, NoteEntry{Row: c.Row, Col: c.Col, Note: c.Center})
	}
}

// restoreNotes writes every captured entry back by address, so entry order
// does not matter.
func (m *multiNote) restoreNotes(g *domain.Grid) error {
	for _, e := range m.oldCorner {
		if err := g.SetCornerNote(e.Row, e.Col, e.Note); err != nil {
			return err
		}
	}
	for _, e := range m.oldCenter {
		if err := g.SetCenterNote(e.Row, e.Col, e.Note); err != nil {
			return err
		}
	}
	return nil
}

// Reverse replays the snapshot.
func (m *multiNote) Reverse(g *domain.Grid) error {
	return m.restoreNotes(g)
}

// CornerSnapshot returns a copy of the captured corner entries.
func (m *multiNote) CornerSnapshot() []NoteEntry { return append([]NoteEntry(nil), m.oldCorner...) }

// CenterSnapshot returns a copy of the captured center entries.
func (m *multiNote) CenterSnapshot() []NoteEntry { return append([]NoteEntry(nil), m.oldCenter...) }

// Encode writes both lists; writers always emit the center list.
func (m *multiNote) Encode(w *domain.TokenWriter) {
	encodeEntries(w, m.oldCorner)
	encodeEntries(w, m.oldCenter)
}

func encodeEntries(w *domain.TokenWriter, entries []NoteEntry) {
	w.Int(len(entries))
	for _, e := range entries {
		w.Int(e.Row)
		w.Int(e.Col)
		w.Note(e.Note)
	}
}

// Decode reads the corner list, then the center list only if tokens remain.
// Saves written before center notes existed end after the corner list.
func (m *multiNote) Decode(r *domain.TokenReader) error {
	return m.decodeNotes(r, 0)
}

// decodeNotes reads both lists for a command whose payload continues with
// tail fixed tokens. The center list is present only when more than tail
// tokens remain after the corner list, so r must be bounded to this
// command's payload.
func (m *multiNote) decodeNotes(r *domain.TokenReader, tail int) error {
	corner, err := decodeEntries(r, "corner note count")
	if err != nil {
		return err
	}
	m.oldCorner = corner
	m.oldCenter = nil
	if r.Remaining() <= tail {
		return nil
	}
	center, err := decodeEntries(r, "center note count")
	if err != nil {
		return err
	}
	m.oldCenter = center
	return nil
}

func decodeEntries(r *domain.TokenReader, field string) ([]NoteEntry, error) {
	n, err := r.Count(field, domain.CellCount)
	if err != nil {
		return nil, err
	}
	entries := make([]NoteEntry, 0, n)
	for i := 0; i < n; i++ {
		pos, err := r.Position()
		if err != nil {
			return nil, err
		}
		note, err := r.Note("note")
		if err != nil {
			return nil, err
		}
		entries = append(entries, NoteEntry{Row: pos.Row, Col: pos.Col, Note: note})
	}
	return entries, nil
}
