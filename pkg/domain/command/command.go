// Package command implements reversible, serializable board edits.
//
// A Command is applied once against a Grid, may later be reversed once, and
// can be encoded into the pipe-delimited save format at any point after
// Apply. Decoding yields a command that is ready to be reversed; Apply is not
// re-derivable from a decoded command.
//
// Every encoded command starts with its Kind tag. The tag selects a factory
// from the dispatch table, and the fresh command decodes its own payload.
package command

import (
	"fmt"
	"sort"
	"sync"

	"sudokucore/pkg/domain"
)

// Kind is the type discriminator written ahead of each command payload.
type Kind string

const (
	KindClearAllNotes          Kind = "c1"
	KindEditCornerNote         Kind = "c2"
	KindFillInNotes            Kind = "c3"
	KindSetValue               Kind = "c4"
	KindEditCenterNote         Kind = "c5"
	KindSetValueAndRemoveNotes Kind = "c6"
)

var kindNames = map[Kind]string{
	KindClearAllNotes:          "clear-all-notes",
	KindEditCornerNote:         "edit-corner-note",
	KindFillInNotes:            "fill-in-notes",
	KindSetValue:               "set-value",
	KindEditCenterNote:         "edit-center-note",
	KindSetValueAndRemoveNotes: "set-value-remove-notes",
}

// Name returns a readable label for built-in kinds and the raw tag otherwise.
func (k Kind) Name() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return string(k)
}

// Command is one unit of board history. Grid access is explicit: the board
// is passed to Apply and Reverse and never retained.
type Command interface {
	Kind() Kind
	// Apply performs the forward mutation. Called once, before Reverse.
	Apply(g *domain.Grid) error
	// Reverse restores every cell Apply touched. Called at most once.
	Reverse(g *domain.Grid) error
	// Encode appends the payload (not the Kind tag) in fixed field order.
	Encode(w *domain.TokenWriter)
	// Decode reads the payload in the order Encode wrote it.
	Decode(r *domain.TokenReader) error
}

// Factory builds an empty command ready for Decode.
type Factory func() Command

var (
	registryMu sync.RWMutex
	registry   = map[Kind]Factory{
		KindClearAllNotes:          func() Command { return &ClearAllNotes{} },
		KindEditCornerNote:         func() Command { return &EditCornerNote{} },
		KindFillInNotes:            func() Command { return &FillInNotes{} },
		KindSetValue:               func() Command { return &SetValue{} },
		KindEditCenterNote:         func() Command { return &EditCenterNote{editNote: editNote{role: roleCenter}} },
		KindSetValueAndRemoveNotes: func() Command { return &SetValueAndRemoveNotes{} },
	}
)

// Register adds a command kind to the dispatch table. Re-registering an
// existing kind is an error.
func Register(kind Kind, factory Factory) error {
	if kind == "" || factory == nil {
		return fmt.Errorf("register command: kind and factory are required")
	}
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := registry[kind]; exists {
		return fmt.Errorf("register command: kind %q already registered", kind)
	}
	registry[kind] = factory
	return nil
}

// Kinds returns the registered kinds in sorted order.
func Kinds() []Kind {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]Kind, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// New returns an empty command of the given kind.
func New(kind Kind) (Command, bool) {
	registryMu.RLock()
	factory, ok := registry[kind]
	registryMu.RUnlock()
	if !ok {
		return nil, false
	}
	return factory(), true
}

// Write encodes cmd preceded by its Kind tag.
func Write(w *domain.TokenWriter, cmd Command) {
	w.String(string(cmd.Kind()))
	cmd.Encode(w)
}

// Read decodes one tagged command from r.
func Read(r *domain.TokenReader) (Command, error) {
	pos := r.Pos()
	tag, err := r.Next("command kind")
	if err != nil {
		return nil, err
	}
	cmd, ok := New(Kind(tag))
	if !ok {
		return nil, domain.MalformedSaveError{Field: "command kind", Pos: pos, Token: tag, Reason: "unknown command kind"}
	}
	if err := cmd.Decode(r); err != nil {
		return nil, fmt.Errorf("decode %s: %w", tag, err)
	}
	return cmd, nil
}

// Marshal encodes a single tagged command into a string.
func Marshal(cmd Command) string {
	var w domain.TokenWriter
	Write(&w, cmd)
	return w.Encoded()
}

// Unmarshal decodes a single tagged command and rejects trailing tokens.
func Unmarshal(data string) (Command, error) {
	r := domain.NewTokenReader(data)
	cmd, err := Read(r)
	if err != nil {
		return nil, err
	}
	if r.HasNext() {
		tok, _ := r.Peek()
		return nil, domain.MalformedSaveError{Field: "command", Pos: r.Pos(), Token: tok, Reason: "trailing data"}
	}
	return cmd, nil
}
