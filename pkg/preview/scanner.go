package preview

import (
	"strings"

	"github.com/charlieegan3/preview-console/pkg/metadata"
)

// Declared sizes outside this window are not worth extracting: below
// it the data is an icon or placeholder, above it the field is more
// likely the raw sensor data itself.
const (
	minDeclaredSize = 10 * 1024
	maxDeclaredSize = 20 * 1024 * 1024
)

// Candidate is a metadata field whose value declares an embedded
// binary block plausibly holding a preview image.
type Candidate struct {
	FullKey      string
	Tag          string
	DeclaredSize int64
}

// Scan finds preview candidates in a record without touching the file
// itself. The candidate's tag is the key's suffix after the last group
// separator; fields sharing a tag collapse to one candidate with the
// last declaration winning, since extraction is addressed by tag.
func Scan(record *metadata.Record) []Candidate {
	var candidates []Candidate

	position := map[string]int{}

	for _, fullKey := range record.Keys() {
		v, _ := record.Get(fullKey)
		if v.Binary == nil {
			continue
		}

		size := v.Binary.DeclaredSize
		if size < minDeclaredSize || size > maxDeclaredSize {
			continue
		}

		tag := fullKey
		if i := strings.LastIndex(fullKey, ":"); i >= 0 {
			tag = fullKey[i+1:]
		}

		candidate := Candidate{
			FullKey:      fullKey,
			Tag:          tag,
			DeclaredSize: size,
		}

		if i, ok := position[tag]; ok {
			candidates[i] = candidate

			continue
		}

		position[tag] = len(candidates)
		candidates = append(candidates, candidate)
	}

	return candidates
}
