// Package journal keeps the ordered list of applied commands for one game and
// encodes it as the history section of a save.
//
// Encoding: a command count, then one frame per command holding the number
// of tokens that follow and the tagged command itself. Framing bounds each
// command's payload, which lets a command tell from the remaining token count
// whether an older save left out its center note list.
package journal

import (
	"errors"
	"fmt"

	"sudokucore/pkg/domain"
	"sudokucore/pkg/domain/command"
)

// ErrNothingToUndo is returned by Undo on an empty log.
var ErrNothingToUndo = errors.New("nothing to undo")

// maxCommands bounds the decoded history length.
const maxCommands = 1 << 20

// Log is a stack of applied commands. It is not safe for concurrent use.
type Log struct {
	cmds []command.Command
}

// New returns an empty log.
func New() *Log { return &Log{} }

// Execute applies cmd to g and records it. A failed apply records nothing.
func (l *Log) Execute(g *domain.Grid, cmd command.Command) error {
	if cmd == nil {
		return fmt.Errorf("execute: nil command")
	}
	if err := cmd.Apply(g); err != nil {
		return fmt.Errorf("apply %s: %w", cmd.Kind().Name(), err)
	}
	l.cmds = append(l.cmds, cmd)
	return nil
}

// Undo reverses and drops the most recent command.
func (l *Log) Undo(g *domain.Grid) (command.Command, error) {
	if len(l.cmds) == 0 {
		return nil, ErrNothingToUndo
	}
	last := l.cmds[len(l.cmds)-1]
	if err := last.Reverse(g); err != nil {
		return nil, fmt.Errorf("reverse %s: %w", last.Kind().Name(), err)
	}
	l.cmds[len(l.cmds)-1] = nil
	l.cmds = l.cmds[:len(l.cmds)-1]
	return last, nil
}

// Len returns the number of recorded commands.
func (l *Log) Len() int { return len(l.cmds) }

// Commands returns the recorded commands, oldest first.
func (l *Log) Commands() []command.Command {
	return append([]command.Command(nil), l.cmds...)
}

// Encode writes the history section.
func (l *Log) Encode(w *domain.TokenWriter) {
	w.Int(len(l.cmds))
	for _, cmd := range l.cmds {
		var frame domain.TokenWriter
		command.Write(&frame, cmd)
		w.Int(frame.Len())
		w.Append(&frame)
	}
}

// String returns the encoded history.
func (l *Log) String() string {
	var w domain.TokenWriter
	l.Encode(&w)
	return w.Encoded()
}

// Decode reads a history section. Every decoded command is in the applied
// state and can be undone against the grid saved alongside it.
func Decode(r *domain.TokenReader) (*Log, error) {
	n, err := r.Count("command count", maxCommands)
	if err != nil {
		return nil, err
	}
	l := &Log{cmds: make([]command.Command, 0, n)}
	for i := 0; i < n; i++ {
		size, err := r.Count("command frame", r.Remaining())
		if err != nil {
			return nil, fmt.Errorf("command %d: %w", i, err)
		}
		frame, err := r.Sub(size, "command frame")
		if err != nil {
			return nil, fmt.Errorf("command %d: %w", i, err)
		}
		cmd, err := command.Read(frame)
		if err != nil {
			return nil, fmt.Errorf("command %d: %w", i, err)
		}
		if frame.HasNext() {
			tok, _ := frame.Peek()
			return nil, fmt.Errorf("command %d: %w", i, domain.MalformedSaveError{Field: "command frame", Pos: frame.Pos(), Token: tok, Reason: "trailing data"})
		}
		l.cmds = append(l.cmds, cmd)
	}
	return l, nil
}

// Parse decodes a history produced by String. Empty input is an empty log.
func Parse(data string) (*Log, error) {
	r := domain.NewTokenReader(data)
	if !r.HasNext() {
		return New(), nil
	}
	l, err := Decode(r)
	if err != nil {
		return nil, err
	}
	if r.HasNext() {
		tok, _ := r.Peek()
		return nil, domain.MalformedSaveError{Field: "history", Pos: r.Pos(), Token: tok, Reason: "trailing data"}
	}
	return l, nil
}
