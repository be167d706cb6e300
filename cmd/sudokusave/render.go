package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"sudokucore/internal/journal"
	"sudokucore/pkg/domain"
	"sudokucore/pkg/domain/command"
)

func inspect(w io.Writer, saved domain.SavedGame, raw bool) error {
	grid, err := domain.ParseGrid(saved.Grid)
	if err != nil {
		return fmt.Errorf("grid: %w", err)
	}
	log, err := journal.Parse(saved.History)
	if err != nil {
		return fmt.Errorf("history: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "id:       %s\n", saved.ID)
	fmt.Fprintf(&b, "state:    %s\n", saved.State)
	fmt.Fprintf(&b, "commands: %d\n", log.Len())
	fmt.Fprintf(&b, "elapsed:  %s\n", saved.Elapsed.Round(time.Second))
	if !saved.UpdatedAt.IsZero() {
		fmt.Fprintf(&b, "updated:  %s\n", saved.UpdatedAt.Format(time.RFC3339))
	}
	b.WriteString("\n")
	renderGrid(&b, grid)

	var corner, center int
	for _, c := range grid.Cells() {
		if !c.Corner.IsEmpty() {
			corner++
		}
		if !c.Center.IsEmpty() {
			center++
		}
	}
	fmt.Fprintf(&b, "notes: %d cells with corner notes, %d with center notes\n", corner, center)

	if log.Len() > 0 {
		b.WriteString("\nhistory (oldest first):\n")
		for i, cmd := range log.Commands() {
			fmt.Fprintf(&b, "%4d  %-24s %s\n", i+1, cmd.Kind().Name(), describe(cmd))
		}
	}
	if raw {
		fmt.Fprintf(&b, "\ngrid:    %s\nhistory: %s\n", saved.Grid, saved.History)
	}
	_, err = io.WriteString(w, b.String())
	return err
}

// describe summarizes a decoded command for humans.
func describe(cmd command.Command) string {
	switch c := cmd.(type) {
	case *command.SetValueAndRemoveNotes:
		pos := c.Target()
		return fmt.Sprintf("r%dc%d %d -> %d, %d note snapshots", pos.Row+1, pos.Col+1, c.OldValue(), c.Value(), len(c.CornerSnapshot()))
	case *command.ClearAllNotes:
		return fmt.Sprintf("%d cells cleared", len(c.CornerSnapshot()))
	case *command.FillInNotes:
		return fmt.Sprintf("%d note snapshots", len(c.CornerSnapshot()))
	default:
		return command.Marshal(cmd)
	}
}

func renderGrid(b *strings.Builder, g *domain.Grid) {
	const rule = "+-------+-------+-------+\n"
	for row := 0; row < domain.GridSize; row++ {
		if row%domain.BoxSize == 0 {
			b.WriteString(rule)
		}
		for col := 0; col < domain.GridSize; col++ {
			if col%domain.BoxSize == 0 {
				b.WriteString("| ")
			}
			v, _ := g.Value(row, col)
			if v == 0 {
				b.WriteString(". ")
			} else {
				fmt.Fprintf(b, "%d ", v)
			}
		}
		b.WriteString("|\n")
	}
	b.WriteString(rule)
}
