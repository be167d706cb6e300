package domain

import (
	"strconv"
	"strings"
)

// emptyNoteToken is written for a note with no digits so the token is never
// empty; the tokenizer drops empty tokens.
const emptyNoteToken = "-"

// Note is an immutable set of pencil-mark digits in [1,9]. The zero value is
// the empty set. Each cell carries two independent notes, corner and center.
type Note struct {
	mask uint16
}

// EmptyNote is the note with no digits.
var EmptyNote = Note{}

// NewNote builds a note containing the supplied digits.
func NewNote(digits ...int) (Note, error) {
	var n Note
	for _, d := range digits {
		if err := validateNoteDigit(d); err != nil {
			return Note{}, err
		}
		n.mask |= bit(d)
	}
	return n, nil
}

// MustNote is NewNote for literals known to be valid.
func MustNote(digits ...int) Note {
	n, err := NewNote(digits...)
	if err != nil {
		panic(err)
	}
	return n
}

func bit(d int) uint16 { return 1 << uint(d-1) }

// Toggle returns a copy of n with d added when absent or removed when present.
func (n Note) Toggle(d int) (Note, error) {
	if err := validateNoteDigit(d); err != nil {
		return n, err
	}
	return Note{mask: n.mask ^ bit(d)}, nil
}

// Without returns a copy of n with d removed. Digits outside [1,9] are never
// present, so the note is returned unchanged for them.
func (n Note) Without(d int) Note {
	if d < 1 || d > MaxDigit {
		return n
	}
	return Note{mask: n.mask &^ bit(d)}
}

// IsEmpty reports whether no digit is marked.
func (n Note) IsEmpty() bool { return n.mask == 0 }

// Contains reports whether d is marked.
func (n Note) Contains(d int) bool {
	if d < 1 || d > MaxDigit {
		return false
	}
	return n.mask&bit(d) != 0
}

// Len returns the number of marked digits.
func (n Note) Len() int {
	count := 0
	for m := n.mask; m != 0; m &= m - 1 {
		count++
	}
	return count
}

// Digits returns the marked digits in ascending order.
func (n Note) Digits() []int {
	out := make([]int, 0, n.Len())
	for d := 1; d <= MaxDigit; d++ {
		if n.Contains(d) {
			out = append(out, d)
		}
	}
	return out
}

// Token encodes n as ascending digits each terminated by a comma, e.g. "3,7,".
// The empty note encodes as "-".
func (n Note) Token() string {
	if n.IsEmpty() {
		return emptyNoteToken
	}
	var b strings.Builder
	for _, d := range n.Digits() {
		b.WriteString(strconv.Itoa(d))
		b.WriteByte(',')
	}
	return b.String()
}

func (n Note) String() string { return n.Token() }

// ParseNote decodes a token produced by Token. Only the canonical form is
// accepted: "-", or ascending distinct digits each followed by a comma.
func ParseNote(token string) (Note, error) {
	if token == emptyNoteToken {
		return EmptyNote, nil
	}
	malformed := func(reason string) (Note, error) {
		return Note{}, MalformedSaveError{Field: "note", Pos: -1, Token: token, Reason: reason}
	}
	if !strings.HasSuffix(token, ",") {
		return malformed("missing terminating comma")
	}
	var n Note
	last := 0
	for _, part := range strings.Split(strings.TrimSuffix(token, ","), ",") {
		if part == "" || strings.TrimLeft(part, "0123456789") != "" || (len(part) > 1 && part[0] == '0') {
			return malformed("not a digit list")
		}
		d, err := strconv.Atoi(part)
		if err != nil {
			return malformed("not a digit list")
		}
		if err := validateNoteDigit(d); err != nil {
			return Note{}, err
		}
		if d <= last {
			return malformed("digits not in ascending order")
		}
		last = d
		n.mask |= bit(d)
	}
	return n, nil
}
