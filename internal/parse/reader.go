// Package parse implements a lookahead, schema-driven JSON reader
// specialized for Lottie documents, and the document-level parser built
// on top of it.
//
// Reader is not a general-purpose JSON library: it exposes the small set
// of cursor operations a Lottie walk actually needs (enter an object,
// step to its next key, enter an array, step to its next element, read a
// scalar, or skip a value whole) and tracks one of eleven named states so
// callers and tests can assert exactly where the cursor sits. Lower-level
// tokenization is delegated to encoding/json.Decoder.Token(), which
// already does streaming single-pass token-at-a-time decoding without
// materializing a DOM; Reader's job is the stateful walking contract on
// top of it, not re-deriving a byte-level scanner the standard library
// already provides.
package parse

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// State is the reader's current cursor position, named after the kind of
// token it just produced or the container edge it just crossed.
type State int

const (
	StateInit State = iota
	StateError
	StateHasNull
	StateHasBool
	StateHasNumber
	StateHasString
	StateHasKey
	StateEnteringObject
	StateExitingObject
	StateEnteringArray
	StateExitingArray
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateError:
		return "error"
	case StateHasNull:
		return "has_null"
	case StateHasBool:
		return "has_bool"
	case StateHasNumber:
		return "has_number"
	case StateHasString:
		return "has_string"
	case StateHasKey:
		return "has_key"
	case StateEnteringObject:
		return "entering_object"
	case StateExitingObject:
		return "exiting_object"
	case StateEnteringArray:
		return "entering_array"
	case StateExitingArray:
		return "exiting_array"
	default:
		return "unknown"
	}
}

// Reader is a forward-only cursor over a single JSON document. Once it
// enters StateError every subsequent operation is a no-op that returns a
// zero value; callers can run a whole parse function without checking
// the error after every call and inspect Err() once at the end.
type Reader struct {
	dec   *json.Decoder
	state State
	err   error
}

// NewReader builds a Reader over data.
func NewReader(data []byte) *Reader {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return &Reader{dec: dec, state: StateInit}
}

// State returns the reader's current named state.
func (r *Reader) State() State { return r.state }

// Err returns the first error encountered, or nil.
func (r *Reader) Err() error { return r.err }

func (r *Reader) fail(err error) {
	if r.state != StateError {
		r.err = err
	}
	r.state = StateError
}

// failed reports whether the reader has already latched an error.
func (r *Reader) failed() bool { return r.state == StateError }

// EnterObject consumes a '{' and moves to StateEnteringObject.
func (r *Reader) EnterObject() bool {
	if r.failed() {
		return false
	}
	tok, err := r.dec.Token()
	if err != nil {
		r.fail(fmt.Errorf("parse: enter object: %w", err))
		return false
	}
	d, ok := tok.(json.Delim)
	if !ok || d != '{' {
		r.fail(fmt.Errorf("parse: expected object, got %v", tok))
		return false
	}
	r.state = StateEnteringObject
	return true
}

// NextObjectKey advances to the next key of the object the cursor last
// entered. Returns ("", false) once the object closes, leaving the
// reader in StateExitingObject. The caller must fully consume each key's
// value (a scalar get*, Skip, or a nested Enter*) before the next call.
func (r *Reader) NextObjectKey() (string, bool) {
	if r.failed() {
		return "", false
	}
	if !r.dec.More() {
		if _, err := r.dec.Token(); err != nil { // consume '}'
			r.fail(fmt.Errorf("parse: exit object: %w", err))
			return "", false
		}
		r.state = StateExitingObject
		return "", false
	}
	tok, err := r.dec.Token()
	if err != nil {
		r.fail(fmt.Errorf("parse: object key: %w", err))
		return "", false
	}
	key, ok := tok.(string)
	if !ok {
		r.fail(fmt.Errorf("parse: expected object key, got %v", tok))
		return "", false
	}
	r.state = StateHasKey
	return key, true
}

// EnterArray consumes a '[' and moves to StateEnteringArray.
func (r *Reader) EnterArray() bool {
	if r.failed() {
		return false
	}
	tok, err := r.dec.Token()
	if err != nil {
		r.fail(fmt.Errorf("parse: enter array: %w", err))
		return false
	}
	d, ok := tok.(json.Delim)
	if !ok || d != '[' {
		r.fail(fmt.Errorf("parse: expected array, got %v", tok))
		return false
	}
	r.state = StateEnteringArray
	return true
}

// NextArrayValue reports whether another element follows in the array
// the cursor last entered. On false the reader moves to
// StateExitingArray having consumed the closing ']'. The caller is
// responsible for consuming each element (get*, Skip, or a nested
// Enter*) before calling this again.
func (r *Reader) NextArrayValue() bool {
	if r.failed() {
		return false
	}
	if !r.dec.More() {
		if _, err := r.dec.Token(); err != nil { // consume ']'
			r.fail(fmt.Errorf("parse: exit array: %w", err))
			return false
		}
		r.state = StateExitingArray
		return false
	}
	return true
}

// GetDouble reads the next token as a number (or null, reported via ok
// but returned as 0).
func (r *Reader) GetDouble() (float64, bool) {
	if r.failed() {
		return 0, false
	}
	tok, err := r.dec.Token()
	if err != nil {
		r.fail(fmt.Errorf("parse: number: %w", err))
		return 0, false
	}
	switch v := tok.(type) {
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			r.fail(fmt.Errorf("parse: number: %w", err))
			return 0, false
		}
		r.state = StateHasNumber
		return f, true
	case nil:
		r.state = StateHasNull
		return 0, true
	default:
		r.fail(fmt.Errorf("parse: expected number, got %v", tok))
		return 0, false
	}
}

// GetInt reads the next token as a number, rounding to the nearest int.
func (r *Reader) GetInt() (int, bool) {
	f, ok := r.GetDouble()
	return int(math.Round(f)), ok
}

// GetBool reads the next token as a boolean. Lottie also encodes some
// boolean-shaped fields ("closed", "3d") as 0/1 integers; a number is
// accepted here too and treated as truthy when non-zero.
func (r *Reader) GetBool() (bool, bool) {
	if r.failed() {
		return false, false
	}
	tok, err := r.dec.Token()
	if err != nil {
		r.fail(fmt.Errorf("parse: bool: %w", err))
		return false, false
	}
	switch v := tok.(type) {
	case bool:
		r.state = StateHasBool
		return v, true
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			r.fail(fmt.Errorf("parse: bool: %w", err))
			return false, false
		}
		r.state = StateHasBool
		return f != 0, true
	case nil:
		r.state = StateHasNull
		return false, true
	default:
		r.fail(fmt.Errorf("parse: expected bool, got %v", tok))
		return false, false
	}
}

// GetString reads the next token as a string.
func (r *Reader) GetString() (string, bool) {
	if r.failed() {
		return "", false
	}
	tok, err := r.dec.Token()
	if err != nil {
		r.fail(fmt.Errorf("parse: string: %w", err))
		return "", false
	}
	switch v := tok.(type) {
	case string:
		r.state = StateHasString
		return v, true
	case nil:
		r.state = StateHasNull
		return "", true
	default:
		r.fail(fmt.Errorf("parse: expected string, got %v", tok))
		return "", false
	}
}

// GetNull consumes a JSON null.
func (r *Reader) GetNull() bool {
	if r.failed() {
		return false
	}
	tok, err := r.dec.Token()
	if err != nil {
		r.fail(fmt.Errorf("parse: null: %w", err))
		return false
	}
	if tok != nil {
		r.fail(fmt.Errorf("parse: expected null, got %v", tok))
		return false
	}
	r.state = StateHasNull
	return true
}

// RawValue decodes the next JSON value verbatim into a json.RawMessage,
// for the handful of Lottie leaves whose shape is genuinely polymorphic
// (an animated property's "k" is a number, a flat array of numbers, or
// an array of keyframe objects — which one is only known by looking at
// it). encoding/json's Decoder explicitly supports interleaving Token
// and Decode calls on one stream, so this stays within the same single
// pass as the rest of the cursor rather than re-reading the input.
func (r *Reader) RawValue() (json.RawMessage, bool) {
	if r.failed() {
		return nil, false
	}
	var raw json.RawMessage
	if err := r.dec.Decode(&raw); err != nil {
		r.fail(fmt.Errorf("parse: raw value: %w", err))
		return nil, false
	}
	r.state = StateHasString
	return raw, true
}

// Skip discards the next JSON value whole (scalar, object, or array),
// used when an object key or array element isn't one this parser cares
// about. Unknown-but-well-formed input is simply dropped, matching the
// error-handling stance that unrecognized fields are not fatal.
func (r *Reader) Skip() {
	if r.failed() {
		return
	}
	tok, err := r.dec.Token()
	if err != nil {
		r.fail(fmt.Errorf("parse: skip: %w", err))
		return
	}
	d, ok := tok.(json.Delim)
	if !ok || (d != '{' && d != '[') {
		return // scalar already consumed
	}
	depth := 1
	for depth > 0 {
		tok, err := r.dec.Token()
		if err != nil {
			r.fail(fmt.Errorf("parse: skip: %w", err))
			return
		}
		if dd, ok := tok.(json.Delim); ok {
			switch dd {
			case '{', '[':
				depth++
			case '}', ']':
				depth--
			}
		}
	}
}
