package metadata

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charlieegan3/preview-console/pkg/exiftool"
)

// ErrMalformedOutput is returned when the tool produced output that
// could not be parsed as a metadata record.
var ErrMalformedOutput = errors.New("metadata: malformed tool output")

const (
	binaryMarkerPrefix = "(Binary data"

	truncateThreshold = 200
	truncateKeep      = 40
	truncateSuffix    = "......"
)

// BinaryInfo describes a placeholder the tool emits in place of
// embedded binary data, e.g.
// "(Binary data 842612 bytes, use -b option to extract)".
type BinaryInfo struct {
	DeclaredSize int64
}

// Value is a single metadata value. Raw always holds the decoded JSON
// value; Binary is set as well when the value is a binary placeholder
// whose declared size could be parsed.
type Value struct {
	Raw    any
	Binary *BinaryInfo
}

// Record is a flat metadata record which preserves the key order the
// tool emitted.
type Record struct {
	keys   []string
	values map[string]Value
}

func (r *Record) Len() int {
	return len(r.keys)
}

// Keys returns the record's keys in emission order.
func (r *Record) Keys() []string {
	return r.keys
}

func (r *Record) Get(key string) (Value, bool) {
	v, ok := r.values[key]

	return v, ok
}

// Raw returns the raw value for key, or nil when absent.
func (r *Record) Raw(key string) any {
	return r.values[key].Raw
}

func (r *Record) set(key string, v Value) {
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}

	r.values[key] = v
}

// MarshalJSON renders the record as a JSON object with keys in
// emission order.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')

	for i, key := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}

		kb, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}

		buf.Write(kb)
		buf.WriteByte(':')

		vb, err := json.Marshal(r.values[key].Raw)
		if err != nil {
			return nil, err
		}

		buf.Write(vb)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// Truncated returns a copy of the record with oversized string values
// shortened, recursing into nested objects and arrays. Binary
// placeholder information is carried over untouched.
func (r *Record) Truncated() *Record {
	out := &Record{
		keys:   append([]string(nil), r.keys...),
		values: make(map[string]Value, len(r.values)),
	}

	for _, key := range r.keys {
		v := r.values[key]
		out.values[key] = Value{
			Raw:    truncateValue(v.Raw),
			Binary: v.Binary,
		}
	}

	return out
}

func truncateValue(raw any) any {
	switch v := raw.(type) {
	case string:
		runes := []rune(v)
		if len(runes) > truncateThreshold {
			return string(runes[:truncateKeep]) + truncateSuffix
		}

		return v
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[key] = truncateValue(item)
		}

		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = truncateValue(item)
		}

		return out
	}

	return raw
}

// Parse decodes a tool dump: a JSON array holding one object per file.
// Empty output and an empty array both yield an empty record rather
// than an error.
func Parse(data []byte) (*Record, error) {
	record := &Record{values: map[string]Value{}}

	if len(bytes.TrimSpace(data)) == 0 {
		return record, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedOutput, err)
	}

	if delim, ok := tok.(json.Delim); !ok || delim != '[' {
		return nil, fmt.Errorf("%w: expected array, got %v", ErrMalformedOutput, tok)
	}

	if !dec.More() {
		return record, nil
	}

	tok, err = dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedOutput, err)
	}

	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("%w: expected object, got %v", ErrMalformedOutput, tok)
	}

	for dec.More() {
		tok, err = dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrMalformedOutput, err)
		}

		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("%w: expected object key, got %v", ErrMalformedOutput, tok)
		}

		var raw any

		err = dec.Decode(&raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrMalformedOutput, err)
		}

		record.set(key, newValue(raw))
	}

	return record, nil
}

func newValue(raw any) Value {
	v := Value{Raw: raw}

	s, ok := raw.(string)
	if !ok || !strings.Contains(s, binaryMarkerPrefix) {
		return v
	}

	fields := strings.Fields(s)
	if len(fields) < 3 {
		return v
	}

	size, err := strconv.ParseInt(fields[2], 10, 64)
	if err != nil {
		return v
	}

	v.Binary = &BinaryInfo{DeclaredSize: size}

	return v
}

// Read dumps the metadata for the file at path and returns it with
// oversized string values already truncated.
func Read(ctx context.Context, client *exiftool.Client, path string) (*Record, error) {
	out, err := client.Dump(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to dump metadata: %w", err)
	}

	record, err := Parse(out)
	if err != nil {
		return nil, err
	}

	return record.Truncated(), nil
}
