package preview

import (
	"context"
	"fmt"
	"sort"

	"github.com/charlieegan3/preview-console/pkg/metadata"
	"github.com/charlieegan3/preview-console/pkg/utils"
)

// Entry describes one converted preview in an upload's manifest.
type Entry struct {
	Tag             string `json:"tag"`
	FullTag         string `json:"full_tag"`
	SizeStr         string `json:"size_str"`
	SizeBytes       int    `json:"size_bytes"`
	RawSizeStr      string `json:"raw_size_str"`
	RawSizeBytes    int64  `json:"raw_size_bytes"`
	Width           int    `json:"width"`
	Height          int    `json:"height"`
	ResolutionStr   string `json:"resolution_str"`
	OriginalFormat  string `json:"original_format"`
	ConvertedFormat string `json:"converted_format"`
	UsedTag         string `json:"used_tag"`
	AccentColor     string `json:"accent_color"`
}

// BuildManifest extracts and converts the record's preview candidates
// for the file at path, largest declared size first, keeping at most
// opts.MaxCount of them. Candidates that fail extraction or
// conversion, or convert to nothing, are logged and dropped rather
// than failing the manifest: one corrupt field should not hide the
// valid previews beside it.
func BuildManifest(ctx context.Context, path string, record *metadata.Record, opts *Options) []Entry {
	candidates := Scan(record)

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].DeclaredSize > candidates[j].DeclaredSize
	})

	if opts.MaxCount > 0 && len(candidates) > opts.MaxCount {
		candidates = candidates[:opts.MaxCount]
	}

	entries := []Entry{}

	for _, candidate := range candidates {
		data, usedTag, err := Extract(ctx, path, candidate.Tag, opts)
		if err != nil {
			opts.errorf("skipping %s in %s: %s", candidate.FullKey, path, err)

			continue
		}

		converted, err := Convert(ctx, data, path, opts)
		if err != nil {
			opts.errorf("skipping %s in %s: %s", candidate.FullKey, path, err)

			continue
		}

		if len(converted.Data) == 0 {
			continue
		}

		entries = append(entries, Entry{
			Tag:             candidate.Tag,
			FullTag:         candidate.FullKey,
			SizeStr:         utils.FormatByteSize(int64(len(converted.Data))),
			SizeBytes:       len(converted.Data),
			RawSizeStr:      utils.FormatByteSize(candidate.DeclaredSize),
			RawSizeBytes:    candidate.DeclaredSize,
			Width:           converted.Width,
			Height:          converted.Height,
			ResolutionStr:   fmt.Sprintf("%d×%d", converted.Width, converted.Height),
			OriginalFormat:  converted.OriginalFormat,
			ConvertedFormat: ConvertedFormatLabel(converted.OriginalFormat),
			UsedTag:         usedTag,
			AccentColor:     AccentColor(converted.Data, opts),
		})
	}

	// extraction already ran in size order, but conversion must not
	// disturb the ranking
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].RawSizeBytes > entries[j].RawSizeBytes
	})

	return entries
}
