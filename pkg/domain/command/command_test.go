package command

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"

	"sudokucore/pkg/domain"
)

var noteComparer = cmp.Comparer(func(a, b domain.Note) bool { return a == b })

func gridDiff(want, got *domain.Grid) string {
	return cmp.Diff(want.Cells(), got.Cells(), noteComparer)
}

func mustApply(t *testing.T, g *domain.Grid, cmd Command) {
	t.Helper()
	if err := cmd.Apply(g); err != nil {
		t.Fatalf("apply %s: %v", cmd.Kind().Name(), err)
	}
}

func mustReverse(t *testing.T, g *domain.Grid, cmd Command) {
	t.Helper()
	if err := cmd.Reverse(g); err != nil {
		t.Fatalf("reverse %s: %v", cmd.Kind().Name(), err)
	}
}

func roundTrip(t *testing.T, cmd Command) Command {
	t.Helper()
	decoded, err := Unmarshal(Marshal(cmd))
	if err != nil {
		t.Fatalf("round trip %s: %v", cmd.Kind().Name(), err)
	}
	if decoded.Kind() != cmd.Kind() {
		t.Fatalf("kind changed: %s -> %s", cmd.Kind(), decoded.Kind())
	}
	return decoded
}

func TestSetValueAndRemoveNotesScenario(t *testing.T) {
	g := domain.NewGrid()
	_ = g.SetCornerNote(0, 0, domain.MustNote(3, 7))
	_ = g.SetCornerNote(0, 5, domain.MustNote(5, 6)) // row peer
	_ = g.SetCenterNote(7, 0, domain.MustNote(5))    // column peer
	_ = g.SetCornerNote(2, 1, domain.MustNote(1, 5)) // box peer
	_ = g.SetCornerNote(5, 5, domain.MustNote(5))    // not a peer
	before := g.Clone()

	cmd, err := NewSetValueAndRemoveNotes(0, 0, 5)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	mustApply(t, g, cmd)

	if v, _ := g.Value(0, 0); v != 5 {
		t.Fatalf("value not set: %d", v)
	}
	if n, _ := g.CornerNote(0, 5); n != domain.MustNote(6) {
		t.Fatalf("row peer note: %s", n)
	}
	if n, _ := g.CenterNote(7, 0); !n.IsEmpty() {
		t.Fatalf("column peer note: %s", n)
	}
	if n, _ := g.CornerNote(2, 1); n != domain.MustNote(1) {
		t.Fatalf("box peer note: %s", n)
	}
	if n, _ := g.CornerNote(5, 5); n != domain.MustNote(5) {
		t.Fatalf("non-peer note changed: %s", n)
	}
	if cmd.OldValue() != 0 {
		t.Fatalf("old value: %d", cmd.OldValue())
	}
	if len(cmd.CornerSnapshot()) != domain.CellCount || len(cmd.CenterSnapshot()) != domain.CellCount {
		t.Fatalf("expected full snapshot, got %d/%d", len(cmd.CornerSnapshot()), len(cmd.CenterSnapshot()))
	}

	mustReverse(t, g, cmd)
	if diff := gridDiff(before, g); diff != "" {
		t.Fatalf("reverse mismatch (-want +got):\n%s", diff)
	}
}

func TestSetValueAndRemoveNotesReverseOrder(t *testing.T) {
	g := domain.NewGrid()
	_ = g.SetValue(4, 4, 2)
	var order []string
	g.AddChangeListener(func(p domain.Position) {
		if p == (domain.Position{Row: 4, Col: 4}) {
			v, _ := g.Value(4, 4)
			order = append(order, map[bool]string{true: "value", false: "note"}[v == 2])
		}
	})
	cmd, _ := NewSetValueAndRemoveNotes(4, 4, 8)
	mustApply(t, g, cmd)
	order = nil
	mustReverse(t, g, cmd)
	if len(order) == 0 || order[len(order)-1] != "value" {
		t.Fatalf("value must be restored last, got %v", order)
	}
	for _, step := range order[:len(order)-1] {
		if step != "note" {
			t.Fatalf("notes must be restored before the value, got %v", order)
		}
	}
}

func TestSetValueAndRemoveNotesValidation(t *testing.T) {
	if _, err := NewSetValueAndRemoveNotes(9, 0, 1); !errors.Is(err, domain.ErrInvalidCoordinate) {
		t.Fatalf("expected ErrInvalidCoordinate, got %v", err)
	}
	if _, err := NewSetValueAndRemoveNotes(0, -1, 1); !errors.Is(err, domain.ErrInvalidCoordinate) {
		t.Fatalf("expected ErrInvalidCoordinate, got %v", err)
	}
	if _, err := NewSetValueAndRemoveNotes(0, 0, 10); !errors.Is(err, domain.ErrInvalidDigit) {
		t.Fatalf("expected ErrInvalidDigit, got %v", err)
	}
	bad := &SetValueAndRemoveNotes{row: 12}
	if err := bad.Apply(domain.NewGrid()); !errors.Is(err, domain.ErrInvalidCoordinate) {
		t.Fatalf("expected ErrInvalidCoordinate from apply, got %v", err)
	}
}

func TestClearAllNotesScenario(t *testing.T) {
	g := domain.NewGrid()
	_ = g.SetCornerNote(2, 2, domain.MustNote(1))
	_ = g.SetCenterNote(4, 4, domain.MustNote(9))
	before := g.Clone()

	cmd := NewClearAllNotes()
	mustApply(t, g, cmd)

	if n, _ := g.CornerNote(2, 2); !n.IsEmpty() {
		t.Fatalf("corner note not cleared: %s", n)
	}
	if n, _ := g.CenterNote(2, 2); !n.IsEmpty() {
		t.Fatalf("center note not cleared: %s", n)
	}
	if n, _ := g.CenterNote(4, 4); n != domain.MustNote(9) {
		t.Fatalf("center-only cell must be untouched, got %s", n)
	}
	corner, center := cmd.CornerSnapshot(), cmd.CenterSnapshot()
	if len(corner) != 1 || len(center) != 1 {
		t.Fatalf("expected one aligned entry per list, got %d/%d", len(corner), len(center))
	}
	if corner[0] != (NoteEntry{Row: 2, Col: 2, Note: domain.MustNote(1)}) || center[0] != (NoteEntry{Row: 2, Col: 2}) {
		t.Fatalf("unexpected snapshot: %+v %+v", corner, center)
	}

	mustReverse(t, g, cmd)
	if diff := gridDiff(before, g); diff != "" {
		t.Fatalf("reverse mismatch (-want +got):\n%s", diff)
	}
}

func TestClearAllNotesEncodeDecodeTwoCells(t *testing.T) {
	g := domain.NewGrid()
	_ = g.SetCornerNote(0, 1, domain.MustNote(2, 3))
	_ = g.SetCenterNote(0, 1, domain.MustNote(4))
	_ = g.SetCornerNote(6, 8, domain.MustNote(9))
	before := g.Clone()

	cmd := NewClearAllNotes()
	mustApply(t, g, cmd)
	encoded := Marshal(cmd)
	if want := "c1|2|0|1|2,3,|6|8|9,|2|0|1|4,|6|8|-|"; encoded != want {
		t.Fatalf("encoding: want %q got %q", want, encoded)
	}

	decoded := roundTrip(t, cmd).(*ClearAllNotes)
	if diff := cmp.Diff(cmd.CornerSnapshot(), decoded.CornerSnapshot(), noteComparer); diff != "" {
		t.Fatalf("corner snapshot mismatch:\n%s", diff)
	}
	mustReverse(t, g, decoded)
	if diff := gridDiff(before, g); diff != "" {
		t.Fatalf("decoded reverse mismatch (-want +got):\n%s", diff)
	}
}

func TestMultiNoteDecodeWithoutCenterList(t *testing.T) {
	// Saves written before center notes existed stop after the corner list.
	cmd, err := Unmarshal("c1|2|0|1|2,3,|6|8|9,|")
	if err != nil {
		t.Fatalf("decode old save: %v", err)
	}
	old := cmd.(*ClearAllNotes)
	if len(old.CornerSnapshot()) != 2 {
		t.Fatalf("corner entries: %d", len(old.CornerSnapshot()))
	}
	if len(old.CenterSnapshot()) != 0 {
		t.Fatalf("center entries should be empty, got %d", len(old.CenterSnapshot()))
	}

	g := domain.NewGrid()
	_ = g.SetCenterNote(0, 1, domain.MustNote(7))
	mustReverse(t, g, old)
	if n, _ := g.CornerNote(0, 1); n != domain.MustNote(2, 3) {
		t.Fatalf("corner not restored: %s", n)
	}
	if n, _ := g.CenterNote(0, 1); n != domain.MustNote(7) {
		t.Fatalf("center touched without snapshot: %s", n)
	}
}

func TestSetValueAndRemoveNotesDecodeWithoutCenterList(t *testing.T) {
	cases := []struct {
		name   string
		data   string
		corner int
		center int
	}{
		{"old one corner entry", "c6|1|0|1|5,|2|3|5|0|", 1, 0},
		{"old no entries", "c6|0|2|3|5|0|", 0, 0},
		{"current empty center", "c6|1|0|1|5,|0|2|3|5|0|", 1, 0},
		{"current one center entry", "c6|1|0|1|5,|1|0|1|-|2|3|5|0|", 1, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cmd, err := Unmarshal(tc.data)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			c := cmd.(*SetValueAndRemoveNotes)
			if c.Target() != (domain.Position{Row: 2, Col: 3}) || c.Value() != 5 || c.OldValue() != 0 {
				t.Fatalf("fields: %v %d %d", c.Target(), c.Value(), c.OldValue())
			}
			if len(c.CornerSnapshot()) != tc.corner || len(c.CenterSnapshot()) != tc.center {
				t.Fatalf("snapshots: corner %d center %d", len(c.CornerSnapshot()), len(c.CenterSnapshot()))
			}
		})
	}

	cmd, err := Unmarshal("c6|1|0|1|5,|2|3|5|0|")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	g := domain.NewGrid()
	_ = g.SetValue(2, 3, 5)
	_ = g.SetCenterNote(0, 1, domain.MustNote(8))
	mustReverse(t, g, cmd)
	if v, _ := g.Value(2, 3); v != 0 {
		t.Fatalf("value not restored: %d", v)
	}
	if n, _ := g.CornerNote(0, 1); n != domain.MustNote(5) {
		t.Fatalf("corner not restored: %s", n)
	}
	if n, _ := g.CenterNote(0, 1); n != domain.MustNote(8) {
		t.Fatalf("center touched without snapshot: %s", n)
	}

	if _, err := Unmarshal("c6|1|0|1|5,|2|3|5|"); !errors.Is(err, domain.ErrMalformedSave) {
		t.Fatalf("short payload: %v", err)
	}
}

func TestMultiNoteRestoreIsOrderIndependent(t *testing.T) {
	m := multiNote{oldCorner: []NoteEntry{
		{Row: 8, Col: 8, Note: domain.MustNote(1)},
		{Row: 0, Col: 0, Note: domain.MustNote(2)},
	}}
	g := domain.NewGrid()
	if err := m.Reverse(g); err != nil {
		t.Fatalf("reverse: %v", err)
	}
	if n, _ := g.CornerNote(8, 8); n != domain.MustNote(1) {
		t.Fatalf("(8,8): %s", n)
	}
	if n, _ := g.CornerNote(0, 0); n != domain.MustNote(2) {
		t.Fatalf("(0,0): %s", n)
	}
}

func TestDecodeErrors(t *testing.T) {
	cases := map[string]struct {
		data string
		want error
	}{
		"unknown kind":        {"zz|", domain.ErrMalformedSave},
		"empty":               {"", domain.ErrMalformedSave},
		"bad count":           {"c1|x|", domain.ErrMalformedSave},
		"count too large":     {"c1|82|", domain.ErrMalformedSave},
		"truncated entry":     {"c1|1|0|", domain.ErrMalformedSave},
		"bad note":            {"c1|1|0|0|a,|0|", domain.ErrMalformedSave},
		"note digit range":    {"c1|1|0|0|12,|0|", domain.ErrInvalidDigit},
		"coordinate range":    {"c1|1|9|0|1,|0|", domain.ErrInvalidCoordinate},
		"truncated center":    {"c1|0|1|0|", domain.ErrMalformedSave},
		"set value missing":   {"c6|0|0|0|5|", domain.ErrMalformedSave},
		"set value bad digit": {"c4|0|0|11|0|", domain.ErrInvalidDigit},
		"edit note bad digit": {"c2|0|0|0|-|", domain.ErrInvalidDigit},
		"trailing data":       {"c3|0|0|extra|", domain.ErrMalformedSave},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Unmarshal(tc.data); !errors.Is(err, tc.want) {
				t.Fatalf("want %v, got %v", tc.want, err)
			}
		})
	}
}

func TestEditNotes(t *testing.T) {
	g := domain.NewGrid()
	_ = g.SetCenterNote(3, 4, domain.MustNote(1))
	before := g.Clone()

	corner, err := NewEditCornerNote(3, 4, 6)
	if err != nil {
		t.Fatalf("new corner: %v", err)
	}
	center, err := NewEditCenterNote(3, 4, 1)
	if err != nil {
		t.Fatalf("new center: %v", err)
	}
	mustApply(t, g, corner)
	mustApply(t, g, center)
	if n, _ := g.CornerNote(3, 4); n != domain.MustNote(6) {
		t.Fatalf("corner: %s", n)
	}
	if n, _ := g.CenterNote(3, 4); !n.IsEmpty() {
		t.Fatalf("center: %s", n)
	}

	decodedCenter := roundTrip(t, center)
	decodedCorner := roundTrip(t, corner)
	mustReverse(t, g, decodedCenter)
	mustReverse(t, g, decodedCorner)
	if diff := gridDiff(before, g); diff != "" {
		t.Fatalf("reverse mismatch (-want +got):\n%s", diff)
	}

	if _, err := NewEditCornerNote(0, 0, 0); !errors.Is(err, domain.ErrInvalidDigit) {
		t.Fatalf("expected ErrInvalidDigit, got %v", err)
	}
	if _, err := NewEditCenterNote(0, 9, 1); !errors.Is(err, domain.ErrInvalidCoordinate) {
		t.Fatalf("expected ErrInvalidCoordinate, got %v", err)
	}
}

func TestFillInNotes(t *testing.T) {
	g, err := domain.ParseGrid("53..7....6..195....98....6.8...6...34..8.3..17...2...6.6....28....419..5....8..79")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	_ = g.SetCenterNote(0, 2, domain.MustNote(9))
	before := g.Clone()

	cmd := NewFillInNotes()
	mustApply(t, g, cmd)
	if n, _ := g.CornerNote(0, 2); n != domain.MustNote(1, 2, 4) {
		t.Fatalf("candidates for (0,2): %s", n)
	}
	if n, _ := g.CornerNote(0, 0); !n.IsEmpty() {
		t.Fatalf("filled cell got notes: %s", n)
	}
	if n, _ := g.CenterNote(0, 2); n != domain.MustNote(9) {
		t.Fatalf("center note touched: %s", n)
	}

	mustReverse(t, g, roundTrip(t, cmd))
	if diff := gridDiff(before, g); diff != "" {
		t.Fatalf("reverse mismatch (-want +got):\n%s", diff)
	}
}

func TestSetValue(t *testing.T) {
	g := domain.NewGrid()
	_ = g.SetValue(1, 1, 3)
	_ = g.SetCornerNote(1, 2, domain.MustNote(4))
	before := g.Clone()
	cmd, err := NewSetValue(1, 1, 4)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	mustApply(t, g, cmd)
	if n, _ := g.CornerNote(1, 2); n != domain.MustNote(4) {
		t.Fatalf("plain set must not strip notes: %s", n)
	}
	if got := Marshal(cmd); got != "c4|1|1|4|3|" {
		t.Fatalf("encoding: %q", got)
	}
	mustReverse(t, g, roundTrip(t, cmd))
	if diff := gridDiff(before, g); diff != "" {
		t.Fatalf("reverse mismatch (-want +got):\n%s", diff)
	}
	if _, err := NewSetValue(0, 0, -1); !errors.Is(err, domain.ErrInvalidDigit) {
		t.Fatalf("expected ErrInvalidDigit, got %v", err)
	}
}

func randomCommand(rng *rand.Rand) Command {
	row, col := rng.Intn(domain.GridSize), rng.Intn(domain.GridSize)
	digit := 1 + rng.Intn(domain.MaxDigit)
	switch rng.Intn(6) {
	case 0:
		return NewClearAllNotes()
	case 1:
		c, _ := NewEditCornerNote(row, col, digit)
		return c
	case 2:
		return NewFillInNotes()
	case 3:
		c, _ := NewSetValue(row, col, rng.Intn(domain.MaxDigit+1))
		return c
	case 4:
		c, _ := NewEditCenterNote(row, col, digit)
		return c
	default:
		c, _ := NewSetValueAndRemoveNotes(row, col, digit)
		return c
	}
}

func TestReverseSequenceRestoresGrid(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for round := 0; round < 20; round++ {
		g := domain.NewGrid()
		initial := g.Clone()
		var applied []Command
		for i := 0; i < 40; i++ {
			cmd := randomCommand(rng)
			mustApply(t, g, cmd)
			applied = append(applied, cmd)
		}
		// Reverse half through decoded copies to cover the persisted path.
		for i := len(applied) - 1; i >= 0; i-- {
			cmd := applied[i]
			if i%2 == 0 {
				cmd = roundTrip(t, cmd)
			}
			mustReverse(t, g, cmd)
		}
		if diff := gridDiff(initial, g); diff != "" {
			t.Fatalf("round %d: grid not restored (-want +got):\n%s", round, diff)
		}
	}
}

type noopCommand struct{}

func (noopCommand) Kind() Kind                       { return "test-noop" }
func (noopCommand) Apply(*domain.Grid) error         { return nil }
func (noopCommand) Reverse(*domain.Grid) error       { return nil }
func (noopCommand) Encode(*domain.TokenWriter)       {}
func (noopCommand) Decode(*domain.TokenReader) error { return nil }

func TestRegistry(t *testing.T) {
	kinds := Kinds()
	if len(kinds) < 6 || kinds[0] != KindClearAllNotes {
		t.Fatalf("unexpected kinds: %v", kinds)
	}
	if err := Register(KindSetValue, func() Command { return &SetValue{} }); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
	if err := Register("", nil); err == nil {
		t.Fatalf("expected validation error")
	}
	if _, ok := New("test-noop"); !ok {
		if err := Register("test-noop", func() Command { return noopCommand{} }); err != nil {
			t.Fatalf("register: %v", err)
		}
	}
	cmd, err := Unmarshal("test-noop|")
	if err != nil {
		t.Fatalf("decode registered kind: %v", err)
	}
	if cmd.Kind() != "test-noop" || Kind("test-noop").Name() != "test-noop" {
		t.Fatalf("unexpected kind %s", cmd.Kind())
	}
	if KindSetValueAndRemoveNotes.Name() != "set-value-remove-notes" {
		t.Fatalf("name: %s", KindSetValueAndRemoveNotes.Name())
	}
}
