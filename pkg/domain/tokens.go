package domain

import (
	"errors"
	"strconv"
	"strings"
)

// TokenSeparator delimits tokens in the save encoding.
const TokenSeparator = "|"

// TokenWriter appends pipe-terminated tokens. The zero value is ready to use.
type TokenWriter struct {
	b strings.Builder
	n int
}

// String writes a raw token.
func (w *TokenWriter) String(tok string) {
	w.b.WriteString(tok)
	w.b.WriteString(TokenSeparator)
	w.n++
}

// Int writes an integer token.
func (w *TokenWriter) Int(v int) {
	w.String(strconv.Itoa(v))
}

// Note writes the note's token.
func (w *TokenWriter) Note(n Note) {
	w.String(n.Token())
}

// Bool writes 1 or 0.
func (w *TokenWriter) Bool(v bool) {
	if v {
		w.Int(1)
		return
	}
	w.Int(0)
}

// Encoded returns everything written so far.
func (w *TokenWriter) Encoded() string { return w.b.String() }

// Len returns the number of tokens written.
func (w *TokenWriter) Len() int { return w.n }

// Append copies every token of other into w.
func (w *TokenWriter) Append(other *TokenWriter) {
	w.b.WriteString(other.b.String())
	w.n += other.n
}

// TokenReader is a cursor over a pipe-delimited token stream. Empty tokens
// are skipped, so "a||b|" yields "a" then "b".
//
// Mandatory fields are read unconditionally and fail with a
// MalformedSaveError once the stream is exhausted. Optional trailing fields
// must be guarded with HasNext.
type TokenReader struct {
	tokens []string
	pos    int
}

// NewTokenReader tokenizes data.
func NewTokenReader(data string) *TokenReader {
	raw := strings.Split(data, TokenSeparator)
	tokens := make([]string, 0, len(raw))
	for _, t := range raw {
		if t == "" {
			continue
		}
		tokens = append(tokens, t)
	}
	return &TokenReader{tokens: tokens}
}

// HasNext reports whether another token is available.
func (r *TokenReader) HasNext() bool { return r.pos < len(r.tokens) }

// Pos returns the index of the next token.
func (r *TokenReader) Pos() int { return r.pos }

// Remaining returns the number of unread tokens.
func (r *TokenReader) Remaining() int { return len(r.tokens) - r.pos }

// Peek returns the next token without consuming it.
func (r *TokenReader) Peek() (string, bool) {
	if !r.HasNext() {
		return "", false
	}
	return r.tokens[r.pos], true
}

// Next consumes a mandatory token. field names the value for error reports.
func (r *TokenReader) Next(field string) (string, error) {
	if !r.HasNext() {
		return "", MalformedSaveError{Field: field, Pos: r.pos, Reason: "unexpected end of data"}
	}
	tok := r.tokens[r.pos]
	r.pos++
	return tok, nil
}

// Sub consumes the next n tokens and returns a reader bounded to them, so a
// framed record can stop early on HasNext without running into the next one.
func (r *TokenReader) Sub(n int, field string) (*TokenReader, error) {
	if n < 0 || n > r.Remaining() {
		return nil, MalformedSaveError{Field: field, Pos: r.pos, Token: strconv.Itoa(n), Reason: "frame exceeds data"}
	}
	sub := &TokenReader{tokens: r.tokens[r.pos : r.pos+n]}
	r.pos += n
	return sub, nil
}

// Int consumes a mandatory integer token.
func (r *TokenReader) Int(field string) (int, error) {
	pos := r.pos
	tok, err := r.Next(field)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(tok)
	if err != nil {
		return 0, MalformedSaveError{Field: field, Pos: pos, Token: tok, Reason: "not an integer"}
	}
	return v, nil
}

// Count consumes a mandatory non-negative list length no larger than max.
func (r *TokenReader) Count(field string, max int) (int, error) {
	pos := r.pos
	n, err := r.Int(field)
	if err != nil {
		return 0, err
	}
	if n < 0 || n > max {
		return 0, MalformedSaveError{Field: field, Pos: pos, Token: strconv.Itoa(n), Reason: "count out of range"}
	}
	return n, nil
}

// Position consumes a row token and a column token and validates them.
func (r *TokenReader) Position() (Position, error) {
	row, err := r.Int("row")
	if err != nil {
		return Position{}, err
	}
	col, err := r.Int("col")
	if err != nil {
		return Position{}, err
	}
	if err := ValidatePosition(row, col); err != nil {
		return Position{}, err
	}
	return Position{Row: row, Col: col}, nil
}

// Note consumes a mandatory note token.
func (r *TokenReader) Note(field string) (Note, error) {
	pos := r.pos
	tok, err := r.Next(field)
	if err != nil {
		return Note{}, err
	}
	n, err := ParseNote(tok)
	if err != nil {
		var mse MalformedSaveError
		if errors.As(err, &mse) {
			mse.Field = field
			mse.Pos = pos
			return Note{}, mse
		}
		return Note{}, err
	}
	return n, nil
}

// Bool consumes a mandatory 0/1 token.
func (r *TokenReader) Bool(field string) (bool, error) {
	pos := r.pos
	v, err := r.Int(field)
	if err != nil {
		return false, err
	}
	switch v {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, MalformedSaveError{Field: field, Pos: pos, Token: strconv.Itoa(v), Reason: "expected 0 or 1"}
	}
}
