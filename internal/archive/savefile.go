package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"sudokucore/pkg/domain"
)

const (
	// SaveFormat names the envelope written into every save file.
	SaveFormat = "sudokusave"
	// SaveVersion is the current envelope version.
	SaveVersion = 1
	// ContentType is attached to exported save files.
	ContentType = "application/vnd.sudoku.save+json"
	// SavePrefix is the key prefix all save files live under.
	SavePrefix = "saves/"
	saveSuffix = ".sav"
)

type envelope struct {
	Format  string           `json:"format"`
	Version int              `json:"version"`
	Game    domain.SavedGame `json:"game"`
}

// SaveKey returns the archive key for a game id.
func SaveKey(id string) string { return SavePrefix + id + saveSuffix }

// GameIDFromKey reverses SaveKey.
func GameIDFromKey(key string) (string, bool) {
	if !strings.HasPrefix(key, SavePrefix) || !strings.HasSuffix(key, saveSuffix) {
		return "", false
	}
	id := strings.TrimSuffix(strings.TrimPrefix(key, SavePrefix), saveSuffix)
	return id, id != ""
}

// EncodeSave renders game as a save file.
func EncodeSave(game domain.SavedGame) ([]byte, error) {
	b, err := json.MarshalIndent(envelope{Format: SaveFormat, Version: SaveVersion, Game: game}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode save %s: %w", game.ID, err)
	}
	return append(b, '\n'), nil
}

// DecodeSave parses a save file. Structural problems are reported as
// domain.ErrMalformedSave.
func DecodeSave(r io.Reader) (domain.SavedGame, error) {
	var env envelope
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&env); err != nil {
		return domain.SavedGame{}, domain.MalformedSaveError{Field: "save file", Pos: -1, Reason: err.Error()}
	}
	if env.Format != SaveFormat {
		return domain.SavedGame{}, domain.MalformedSaveError{Field: "format", Pos: -1, Token: env.Format, Reason: "not a save file"}
	}
	if env.Version != SaveVersion {
		return domain.SavedGame{}, domain.MalformedSaveError{Field: "version", Pos: -1, Token: strconv.Itoa(env.Version), Reason: "unsupported version"}
	}
	if env.Game.ID == "" || env.Game.Grid == "" {
		return domain.SavedGame{}, domain.MalformedSaveError{Field: "game", Pos: -1, Reason: "id and grid required"}
	}
	return env.Game, nil
}

// WriteSave stores game under SaveKey, replacing an earlier export.
func WriteSave(ctx context.Context, store Store, game domain.SavedGame) (Object, error) {
	data, err := EncodeSave(game)
	if err != nil {
		return Object{}, err
	}
	key := SaveKey(game.ID)
	if _, err := store.Delete(ctx, key); err != nil {
		return Object{}, fmt.Errorf("replace %s: %w", key, err)
	}
	obj, err := store.Put(ctx, key, bytes.NewReader(data), PutOptions{
		ContentType: ContentType,
		Metadata: map[string]string{
			"game-id":  game.ID,
			"state":    string(game.State),
			"commands": strconv.Itoa(game.CommandCount),
		},
	})
	if err != nil {
		return Object{}, fmt.Errorf("put %s: %w", key, err)
	}
	return obj, nil
}

// ReadSave loads and decodes the save file at key.
func ReadSave(ctx context.Context, store Store, key string) (domain.SavedGame, error) {
	_, rc, err := store.Get(ctx, key)
	if err != nil {
		return domain.SavedGame{}, fmt.Errorf("get %s: %w", key, err)
	}
	defer func() { _ = rc.Close() }()
	game, err := DecodeSave(rc)
	if err != nil {
		return domain.SavedGame{}, fmt.Errorf("read %s: %w", key, err)
	}
	return game, nil
}

// ListSaves returns the save files in store, ordered by key.
func ListSaves(ctx context.Context, store Store) ([]Object, error) {
	objs, err := store.List(ctx, SavePrefix)
	if err != nil {
		return nil, err
	}
	out := objs[:0]
	for _, o := range objs {
		if _, ok := GameIDFromKey(o.Key); ok {
			out = append(out, o)
		}
	}
	return out, nil
}

// IsNotFound reports whether err wraps ErrNotFound.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
