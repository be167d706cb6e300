package domain

import (
	"strconv"
	"strings"
)

// GridFormatVersion is written at the head of every encoded grid.
const GridFormatVersion = 1

const gridVersionTag = "version"

// EncodeGrid writes the full board state: a version header followed by
// value, corner note, center note and editable flag for each cell in
// row-major order.
func EncodeGrid(w *TokenWriter, g *Grid) {
	w.String(gridVersionTag)
	w.Int(GridFormatVersion)
	for i := range g.cells {
		c := &g.cells[i]
		w.Int(c.Value)
		w.Note(c.Corner)
		w.Note(c.Center)
		w.Bool(c.Editable)
	}
}

// DecodeGrid reads a board written by EncodeGrid.
func DecodeGrid(r *TokenReader) (*Grid, error) {
	pos := r.Pos()
	tag, err := r.Next("grid version tag")
	if err != nil {
		return nil, err
	}
	if tag != gridVersionTag {
		return nil, MalformedSaveError{Field: "grid version tag", Pos: pos, Token: tag, Reason: "missing version header"}
	}
	pos = r.Pos()
	version, err := r.Int("grid version")
	if err != nil {
		return nil, err
	}
	if version != GridFormatVersion {
		return nil, MalformedSaveError{Field: "grid version", Pos: pos, Token: strconv.Itoa(version), Reason: "unsupported version"}
	}
	g := NewGrid()
	for i := range g.cells {
		c := &g.cells[i]
		pos = r.Pos()
		v, err := r.Int("cell value")
		if err != nil {
			return nil, err
		}
		if ValidateValue(v) != nil {
			return nil, MalformedSaveError{Field: "cell value", Pos: pos, Token: strconv.Itoa(v), Reason: "value out of range"}
		}
		if c.Corner, err = r.Note("corner note"); err != nil {
			return nil, err
		}
		if c.Center, err = r.Note("center note"); err != nil {
			return nil, err
		}
		if c.Editable, err = r.Bool("editable"); err != nil {
			return nil, err
		}
		c.Value = v
	}
	return g, nil
}

// FormatGrid is EncodeGrid into a string.
func FormatGrid(g *Grid) string {
	var w TokenWriter
	EncodeGrid(&w, g)
	return w.Encoded()
}

// ParseGrid accepts either the full encoding produced by FormatGrid or an
// 81-character puzzle line where '0' or '.' is an empty cell and any digit
// is a given clue. Clues are marked non-editable.
func ParseGrid(data string) (*Grid, error) {
	trimmed := strings.TrimSpace(data)
	if strings.HasPrefix(trimmed, gridVersionTag+TokenSeparator) {
		return DecodeGrid(NewTokenReader(trimmed))
	}
	return parsePuzzle(trimmed)
}

func parsePuzzle(line string) (*Grid, error) {
	if len(line) != CellCount {
		return nil, MalformedSaveError{Field: "puzzle", Pos: 0, Reason: "expected " + strconv.Itoa(CellCount) + " cells, got " + strconv.Itoa(len(line))}
	}
	g := NewGrid()
	for i := 0; i < CellCount; i++ {
		ch := line[i]
		switch {
		case ch == '.' || ch == '0':
		case ch >= '1' && ch <= '9':
			g.cells[i].Value = int(ch - '0')
			g.cells[i].Editable = false
		default:
			return nil, MalformedSaveError{Field: "puzzle", Pos: i, Token: string(ch), Reason: "expected digit or '.'"}
		}
	}
	return g, nil
}
