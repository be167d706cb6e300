package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sudokucore/internal/archive"
	"sudokucore/internal/config"
	"sudokucore/internal/journal"
	"sudokucore/pkg/domain"
	"sudokucore/pkg/domain/command"
)

const samplePuzzle = "53..7....6..195....98....6.8...6...34..8.3..17...2...6.6....28....419..5....8..79"

func runCLI(t *testing.T, vars map[string]string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	load := func() (config.Config, error) { return config.LoadFrom(vars) }
	code := cli(context.Background(), args, &stdout, &stderr, load)
	return code, stdout.String(), stderr.String()
}

func tempEnv(t *testing.T) map[string]string {
	dir := t.TempDir()
	return map[string]string{
		"SUDOKU_STORAGE_DRIVER":      "sqlite",
		"SUDOKU_STORAGE_SQLITE_PATH": filepath.Join(dir, "games.db"),
		"SUDOKU_ARCHIVE_DRIVER":      "fs",
		"SUDOKU_ARCHIVE_FS_ROOT":     filepath.Join(dir, "archive"),
		"SUDOKU_LOG_LEVEL":           "error",
	}
}

func writeSaveFile(t *testing.T) string {
	t.Helper()
	g, err := domain.ParseGrid(samplePuzzle)
	require.NoError(t, err)
	log := journal.New()
	require.NoError(t, log.Execute(g, command.NewFillInNotes()))
	set, err := command.NewSetValueAndRemoveNotes(0, 2, 4)
	require.NoError(t, err)
	require.NoError(t, log.Execute(g, set))

	data, err := archive.EncodeSave(domain.SavedGame{
		ID:           "g1",
		Grid:         domain.FormatGrid(g),
		History:      log.String(),
		State:        domain.GamePlaying,
		CommandCount: log.Len(),
	})
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "g1.sav")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestInspectPrintsBoardAndHistory(t *testing.T) {
	path := writeSaveFile(t)
	code, out, stderr := runCLI(t, nil, "inspect", "--raw", path)
	require.Equal(t, 0, code, stderr)

	assert.Contains(t, out, "id:       g1")
	assert.Contains(t, out, "commands: 2")
	assert.Contains(t, out, "| 5 3 4 | . 7 . | . . . |")
	assert.Contains(t, out, "fill-in-notes")
	assert.Contains(t, out, "set-value-remove-notes")
	assert.Contains(t, out, "r1c3 0 -> 4, 81 note snapshots")
	assert.Contains(t, out, "history: 2|")
}

func TestInspectRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.sav")
	require.NoError(t, os.WriteFile(path, []byte(`{"format":"sudokusave","version":1,"game":{"id":"x","grid":"version|1|","history":"0|"}}`), 0o600))
	code, _, stderr := runCLI(t, nil, "inspect", path)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "malformed save")
}

func TestGameLifecycle(t *testing.T) {
	env := tempEnv(t)

	code, out, stderr := runCLI(t, env, "new", samplePuzzle)
	require.Equal(t, 0, code, stderr)
	id := strings.TrimSpace(out)
	require.NotEmpty(t, id)

	code, out, _ = runCLI(t, env, "list")
	require.Equal(t, 0, code)
	assert.Contains(t, out, id)
	assert.Contains(t, out, "playing")

	code, out, stderr = runCLI(t, env, "export", id)
	require.Equal(t, 0, code, stderr)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, archive.SaveKey(id), lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "file://"), lines[1])

	code, out, _ = runCLI(t, env, "list", "--archived")
	require.Equal(t, 0, code)
	assert.Contains(t, out, archive.SaveKey(id))

	code, out, _ = runCLI(t, env, "delete", id)
	require.Equal(t, 0, code)
	assert.Contains(t, out, "deleted "+id)

	code, _, stderr = runCLI(t, env, "delete", id)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "not found")

	code, out, stderr = runCLI(t, env, "import", archive.SaveKey(id))
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, out, "imported "+id+" (0 commands)")
}

func TestConfigAndLoggerErrors(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := cli(context.Background(), []string{"list"}, &stdout, &stderr, func() (config.Config, error) {
		return config.Config{}, errors.New("bad env")
	})
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr.String(), "bad env")

	code, _, stderr2 := runCLI(t, map[string]string{"SUDOKU_LOG_LEVEL": "loud"}, "list")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr2, "log level")
}

func TestUnknownStorageDriver(t *testing.T) {
	env := tempEnv(t)
	env["SUDOKU_STORAGE_DRIVER"] = "redis"
	code, _, stderr := runCLI(t, env, "list")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "unknown storage driver")
}

func TestNewLoggerEncoders(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(config.Log{Level: "INFO", JSON: true}, &buf)
	require.NoError(t, err)
	logger.Info("hello")
	assert.Contains(t, buf.String(), `"msg":"hello"`)

	buf.Reset()
	logger, err = newLogger(config.Log{Level: "debug"}, &buf)
	require.NoError(t, err)
	logger.Debug("console")
	assert.Contains(t, buf.String(), "console")
}
