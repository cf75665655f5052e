package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charlieegan3/preview-console/pkg/exiftool"
	"github.com/charlieegan3/preview-console/pkg/test"
)

func TestParse(t *testing.T) {
	payload := `[{
		"SourceFile": "input.NEF",
		"EXIF:Model": "NIKON Z 6_2",
		"EXIF:ISO": 400,
		"EXIF:ExposureTime": 0.002,
		"MakerNotes:PreviewImage": "(Binary data 842612 bytes, use -b option to extract)"
	}]`

	record, err := Parse([]byte(payload))
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	expectedKeys := []string{
		"SourceFile",
		"EXIF:Model",
		"EXIF:ISO",
		"EXIF:ExposureTime",
		"MakerNotes:PreviewImage",
	}

	if len(record.Keys()) != len(expectedKeys) {
		t.Fatalf("unexpected key count: %d", len(record.Keys()))
	}

	for i, key := range record.Keys() {
		if key != expectedKeys[i] {
			t.Fatalf("unexpected key at %d: %s", i, key)
		}
	}

	if record.Raw("EXIF:Model") != "NIKON Z 6_2" {
		t.Fatalf("unexpected model: %v", record.Raw("EXIF:Model"))
	}

	if record.Raw("EXIF:ISO") != json.Number("400") {
		t.Fatalf("unexpected iso: %v", record.Raw("EXIF:ISO"))
	}

	preview, ok := record.Get("MakerNotes:PreviewImage")
	if !ok {
		t.Fatalf("expected preview value to be present")
	}

	if preview.Binary == nil {
		t.Fatalf("expected binary placeholder to be recognized")
	}

	if preview.Binary.DeclaredSize != 842612 {
		t.Fatalf("unexpected declared size: %d", preview.Binary.DeclaredSize)
	}
}

func TestParseEdgeCases(t *testing.T) {
	testCases := map[string]struct {
		input       string
		expectError bool
		expectedLen int
	}{
		"empty input":      {input: "", expectedLen: 0},
		"whitespace input": {input: " \n\t", expectedLen: 0},
		"empty array":      {input: "[]", expectedLen: 0},
		"single key":       {input: `[{"SourceFile":"a.nef"}]`, expectedLen: 1},
		"not json":         {input: "{invalid", expectError: true},
		"not an array":     {input: `{"SourceFile":"a.nef"}`, expectError: true},
		"scalar element":   {input: "[42]", expectError: true},
	}

	for name, testCase := range testCases {
		t.Run(name, func(t *testing.T) {
			record, err := Parse([]byte(testCase.input))
			if testCase.expectError {
				if err == nil {
					t.Fatalf("expected error")
				}

				if !errors.Is(err, ErrMalformedOutput) {
					t.Fatalf("unexpected error: %s", err)
				}

				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %s", err)
			}

			if record.Len() != testCase.expectedLen {
				t.Fatalf("unexpected length: %d", record.Len())
			}
		})
	}
}

func TestParseBinaryMarkers(t *testing.T) {
	testCases := map[string]struct {
		value        string
		expectedSize int64
		plain        bool
	}{
		"well formed":      {value: "(Binary data 571 bytes, use -b option to extract)", expectedSize: 571},
		"large":            {value: "(Binary data 20971520 bytes, use -b option to extract)", expectedSize: 20971520},
		"no size":          {value: "(Binary data)", plain: true},
		"unparsable size":  {value: "(Binary data lots bytes, use -b option to extract)", plain: true},
		"ordinary string":  {value: "NIKON CORPORATION", plain: true},
		"similar sentence": {value: "Binary data 571 bytes", plain: true},
		"marker mid string": {value: "thumb (Binary data 99 bytes)", plain: true},
	}

	for name, testCase := range testCases {
		t.Run(name, func(t *testing.T) {
			payload := fmt.Sprintf(`[{"MakerNotes:Blob":%q}]`, testCase.value)

			record, err := Parse([]byte(payload))
			if err != nil {
				t.Fatalf("unexpected error: %s", err)
			}

			v, ok := record.Get("MakerNotes:Blob")
			if !ok {
				t.Fatalf("expected value to be present")
			}

			if testCase.plain {
				if v.Binary != nil {
					t.Fatalf("expected plain value, got binary placeholder")
				}

				return
			}

			if v.Binary == nil {
				t.Fatalf("expected binary placeholder")
			}

			if v.Binary.DeclaredSize != testCase.expectedSize {
				t.Fatalf("unexpected declared size: %d", v.Binary.DeclaredSize)
			}
		})
	}
}

func TestRecordMarshalJSON(t *testing.T) {
	payload := `[{"SourceFile":"a.nef","EXIF:Model":"X-T5","EXIF:ISO":100,"EXIF:ExposureTime":0.002}]`

	record, err := Parse([]byte(payload))
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	out, err := json.Marshal(record)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	expected := `{"SourceFile":"a.nef","EXIF:Model":"X-T5","EXIF:ISO":100,"EXIF:ExposureTime":0.002}`
	if string(out) != expected {
		t.Fatalf("unexpected output: %s", out)
	}
}

func TestRecordTruncated(t *testing.T) {
	long := strings.Repeat("あ", 250)
	boundary := strings.Repeat("x", 200)

	payload := fmt.Sprintf(
		`[{"EXIF:UserComment":%q,"EXIF:Boundary":%q,"XMP:History":[%q,"short"],"XMP:Seal":{"inner":%q},"MakerNotes:Data":"(Binary data 9999999 bytes, use -b option to extract)"}]`,
		long, boundary, long, long,
	)

	record, err := Parse([]byte(payload))
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	truncated := record.Truncated()

	expected := strings.Repeat("あ", 40) + "......"
	if truncated.Raw("EXIF:UserComment") != expected {
		t.Fatalf("unexpected value: %v", truncated.Raw("EXIF:UserComment"))
	}

	// 200 characters is the threshold, not over it
	if truncated.Raw("EXIF:Boundary") != boundary {
		t.Fatalf("unexpected value: %v", truncated.Raw("EXIF:Boundary"))
	}

	list, ok := truncated.Raw("XMP:History").([]any)
	if !ok {
		t.Fatalf("unexpected type: %T", truncated.Raw("XMP:History"))
	}

	if list[0] != expected || list[1] != "short" {
		t.Fatalf("unexpected list: %v", list)
	}

	nested, ok := truncated.Raw("XMP:Seal").(map[string]any)
	if !ok {
		t.Fatalf("unexpected type: %T", truncated.Raw("XMP:Seal"))
	}

	if nested["inner"] != expected {
		t.Fatalf("unexpected nested value: %v", nested["inner"])
	}

	v, _ := truncated.Get("MakerNotes:Data")
	if v.Binary == nil || v.Binary.DeclaredSize != 9999999 {
		t.Fatalf("expected binary placeholder to survive truncation")
	}

	// the original record is left alone
	if record.Raw("EXIF:UserComment") != long {
		t.Fatalf("source record was modified")
	}
}

func TestRead(t *testing.T) {
	long := strings.Repeat("v", 300)

	binary := test.StubExiftool(t, test.StubExiftoolOptions{
		DumpJSON: fmt.Sprintf(`[{"SourceFile":"input.NEF","EXIF:UserComment":%q}]`, long),
	})

	client := exiftool.New(binary, time.Second)

	path := filepath.Join(t.TempDir(), "input.NEF")

	err := os.WriteFile(path, []byte("raw"), 0o644)
	if err != nil {
		t.Fatalf("failed to write input: %s", err)
	}

	record, err := Read(context.Background(), client, path)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	expected := strings.Repeat("v", 40) + "......"
	if record.Raw("EXIF:UserComment") != expected {
		t.Fatalf("expected truncated value, got: %v", record.Raw("EXIF:UserComment"))
	}
}

func TestReadToolFailure(t *testing.T) {
	binary := test.StubExiftool(t, test.StubExiftoolOptions{
		DumpError: "Error: Unknown file type",
	})

	client := exiftool.New(binary, time.Second)

	_, err := Read(context.Background(), client, "input.NEF")
	if err == nil {
		t.Fatalf("expected error")
	}

	var runErr *exiftool.RunError
	if !errors.As(err, &runErr) {
		t.Fatalf("unexpected error type: %T", err)
	}
}
