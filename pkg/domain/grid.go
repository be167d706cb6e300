package domain

// Cell is a copy of one board position's state. Mutate the board through
// Grid setters; changing a Cell value has no effect on the Grid.
type Cell struct {
	Position
	Value    int  `json:"value"`
	Corner   Note `json:"-"`
	Center   Note `json:"-"`
	Editable bool `json:"editable"`
}

// ChangeListener is notified after a cell mutation.
type ChangeListener func(Position)

// Grid owns the 81 cells of a board in row-major order. It is not safe for
// concurrent use; callers serialize all access.
type Grid struct {
	cells     [CellCount]Cell
	listeners []ChangeListener
}

// NewGrid returns an empty board with every cell editable.
func NewGrid() *Grid {
	g := &Grid{}
	for r := 0; r < GridSize; r++ {
		for c := 0; c < GridSize; c++ {
			pos := Position{Row: r, Col: c}
			g.cells[pos.index()] = Cell{Position: pos, Editable: true}
		}
	}
	return g
}

// AddChangeListener registers fn for every subsequent mutation.
func (g *Grid) AddChangeListener(fn ChangeListener) {
	if fn != nil {
		g.listeners = append(g.listeners, fn)
	}
}

func (g *Grid) notify(pos Position) {
	for _, fn := range g.listeners {
		fn(pos)
	}
}

func (g *Grid) cell(row, col int) (*Cell, error) {
	if err := ValidatePosition(row, col); err != nil {
		return nil, err
	}
	return &g.cells[Position{Row: row, Col: col}.index()], nil
}

// Cell returns a copy of the cell at (row, col).
func (g *Grid) Cell(row, col int) (Cell, error) {
	c, err := g.cell(row, col)
	if err != nil {
		return Cell{}, err
	}
	return *c, nil
}

// Cells returns copies of all cells in row-major order.
func (g *Grid) Cells() []Cell {
	out := make([]Cell, CellCount)
	copy(out, g.cells[:])
	return out
}

// Value returns the digit at (row, col), 0 when empty.
func (g *Grid) Value(row, col int) (int, error) {
	c, err := g.cell(row, col)
	if err != nil {
		return 0, err
	}
	return c.Value, nil
}

// CornerNote returns the corner note at (row, col).
func (g *Grid) CornerNote(row, col int) (Note, error) {
	c, err := g.cell(row, col)
	if err != nil {
		return Note{}, err
	}
	return c.Corner, nil
}

// CenterNote returns the center note at (row, col).
func (g *Grid) CenterNote(row, col int) (Note, error) {
	c, err := g.cell(row, col)
	if err != nil {
		return Note{}, err
	}
	return c.Center, nil
}

// SetValue places v (0 clears) at (row, col).
func (g *Grid) SetValue(row, col, v int) error {
	c, err := g.cell(row, col)
	if err != nil {
		return err
	}
	if err := ValidateValue(v); err != nil {
		return err
	}
	c.Value = v
	g.notify(c.Position)
	return nil
}

// SetCornerNote replaces the corner note at (row, col).
func (g *Grid) SetCornerNote(row, col int, n Note) error {
	c, err := g.cell(row, col)
	if err != nil {
		return err
	}
	c.Corner = n
	g.notify(c.Position)
	return nil
}

// SetCenterNote replaces the center note at (row, col).
func (g *Grid) SetCenterNote(row, col int, n Note) error {
	c, err := g.cell(row, col)
	if err != nil {
		return err
	}
	c.Center = n
	g.notify(c.Position)
	return nil
}

// SetEditable marks whether the cell holds a player value or a given clue.
func (g *Grid) SetEditable(row, col int, editable bool) error {
	c, err := g.cell(row, col)
	if err != nil {
		return err
	}
	c.Editable = editable
	return nil
}

// Peers returns the 20 distinct cells sharing a row, column or box with
// (row, col), in row-major order.
func (g *Grid) Peers(row, col int) ([]Position, error) {
	if err := ValidatePosition(row, col); err != nil {
		return nil, err
	}
	return peersOf(row, col), nil
}

func peersOf(row, col int) []Position {
	boxRow, boxCol := row/BoxSize*BoxSize, col/BoxSize*BoxSize
	out := make([]Position, 0, 2*(GridSize-1)+(BoxSize-1)*(BoxSize-1))
	for r := 0; r < GridSize; r++ {
		for c := 0; c < GridSize; c++ {
			if r == row && c == col {
				continue
			}
			inBox := r >= boxRow && r < boxRow+BoxSize && c >= boxCol && c < boxCol+BoxSize
			if r == row || c == col || inBox {
				out = append(out, Position{Row: r, Col: c})
			}
		}
	}
	return out
}

// RemoveNotesForChangedCell strips value from the corner and center notes of
// every peer of (row, col). A zero value strips nothing.
func (g *Grid) RemoveNotesForChangedCell(row, col, value int) error {
	if err := ValidatePosition(row, col); err != nil {
		return err
	}
	if err := ValidateValue(value); err != nil {
		return err
	}
	if value == 0 {
		return nil
	}
	for _, p := range peersOf(row, col) {
		c := &g.cells[p.index()]
		corner, center := c.Corner.Without(value), c.Center.Without(value)
		if corner == c.Corner && center == c.Center {
			continue
		}
		c.Corner, c.Center = corner, center
		g.notify(p)
	}
	return nil
}

// Candidates returns the digits not placed in any peer of (row, col).
func (g *Grid) Candidates(row, col int) (Note, error) {
	if err := ValidatePosition(row, col); err != nil {
		return Note{}, err
	}
	all := Note{mask: 1<<MaxDigit - 1}
	for _, p := range peersOf(row, col) {
		all = all.Without(g.cells[p.index()].Value)
	}
	return all, nil
}

// ValueCounts reports how many cells hold each digit; index 0 is unused.
func (g *Grid) ValueCounts() [MaxDigit + 1]int {
	var counts [MaxDigit + 1]int
	for i := range g.cells {
		if v := g.cells[i].Value; v > 0 {
			counts[v]++
		}
	}
	return counts
}

// Filled reports whether every cell holds a value.
func (g *Grid) Filled() bool {
	for i := range g.cells {
		if g.cells[i].Value == 0 {
			return false
		}
	}
	return true
}

// Clone returns an independent copy without listeners.
func (g *Grid) Clone() *Grid {
	return &Grid{cells: g.cells}
}

// Equal compares values, both notes and editability of every cell.
func (g *Grid) Equal(other *Grid) bool {
	if g == nil || other == nil {
		return g == other
	}
	return g.cells == other.cells
}
