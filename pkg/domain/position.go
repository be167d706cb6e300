package domain

const (
	// GridSize is the number of rows (and columns) of the board.
	GridSize = 9
	// BoxSize is the edge length of a 3x3 box.
	BoxSize = 3
	// CellCount is the number of cells on the board.
	CellCount = GridSize * GridSize
	// MaxDigit is the largest placeable digit.
	MaxDigit = 9
)

// Position addresses a cell by row and column.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Valid reports whether both indices are inside the board.
func (p Position) Valid() bool {
	return p.Row >= 0 && p.Row < GridSize && p.Col >= 0 && p.Col < GridSize
}

// index returns the row-major offset of p. Callers validate first.
func (p Position) index() int { return p.Row*GridSize + p.Col }

// ValidatePosition returns a CoordinateError when row or col fall outside [0,8].
func ValidatePosition(row, col int) error {
	if !(Position{Row: row, Col: col}).Valid() {
		return CoordinateError{Row: row, Col: col}
	}
	return nil
}

// ValidateValue accepts cell values in [0,9]; zero clears the cell.
func ValidateValue(v int) error {
	if v < 0 || v > MaxDigit {
		return DigitError{Digit: v, Min: 0, Max: MaxDigit}
	}
	return nil
}

func validateNoteDigit(d int) error {
	if d < 1 || d > MaxDigit {
		return DigitError{Digit: d, Min: 1, Max: MaxDigit}
	}
	return nil
}
