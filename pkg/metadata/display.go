package metadata

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/charlieegan3/preview-console/pkg/utils"
)

// Unknown is the sentinel used for display fields that could not be
// resolved from the record.
const Unknown = "unknown"

// Fallback chains per display field, most vendor-specific key first.
// Vendors populate different tag groups for the same semantic field,
// so new vendors are supported by extending these lists.
var (
	chainShootTime    = []string{"Composite:SubSecDateTimeOriginal", "EXIF:DateTimeOriginal", "MakerNotes:DateTimeOriginal"}
	chainCameraModel  = []string{"IFD0:Model", "EXIF:Model", "MakerNotes:Model"}
	chainLensModel    = []string{"Canon:LensModel", "EXIF:LensModel", "MakerNotes:LensModel", "Composite:LensID"}
	chainSensorWidth  = []string{"Canon:SensorWidth", "EXIF:SensorWidth"}
	chainSensorHeight = []string{"Canon:SensorHeight", "EXIF:SensorHeight"}
	chainWidth        = []string{"EXIF:ImageWidth", "MakerNotes:ImageWidth"}
	chainHeight       = []string{"EXIF:ImageHeight", "MakerNotes:ImageHeight"}
	chainISO          = []string{"Composite:ISO", "EXIF:ISO", "MakerNotes:ISO"}
	chainShutterSpeed = []string{"Composite:ShutterSpeed", "EXIF:ExposureTime", "MakerNotes:ExposureTime"}
	chainAperture     = []string{"Composite:Aperture", "EXIF:FNumber", "MakerNotes:Aperture"}
	chainFocalLength  = []string{"Canon:FocalLength", "EXIF:FocalLength", "MakerNotes:FocalLength"}
	chainExposureBias = []string{"Canon:ExposureCompensation", "EXIF:ExposureBiasValue", "MakerNotes:ExposureCompensation"}
	chainWhiteBalance = []string{"Canon:WhiteBalance", "EXIF:WhiteBalance", "MakerNotes:WhiteBalance"}
	chainFileSize     = []string{"System:FileSize", "File:FileSize"}
)

// Resolution carries image dimensions through to the client. The tool
// emits numbers, so the fields pass raw values rather than strings.
type Resolution struct {
	Width  any `json:"width"`
	Height any `json:"height"`
}

// Display is the normalized user-facing metadata record. Fields typed
// any pass the tool's value through unchanged, numeric or string, with
// Unknown standing in when no key in the field's chain resolved.
type Display struct {
	FileName     string     `json:"fileName"`
	FileSize     string     `json:"fileSize"`
	FileFormat   string     `json:"fileFormat"`
	ShootTime    any        `json:"shootTime"`
	CameraModel  any        `json:"cameraModel"`
	LensModel    any        `json:"lensModel"`
	SensorSize   string     `json:"sensorSize"`
	Resolution   Resolution `json:"resolution"`
	ISO          any        `json:"iso"`
	ShutterSpeed any        `json:"shutterSpeed"`
	Aperture     any        `json:"aperture"`
	FocalLength  any        `json:"focalLength"`
	ExposureBias any        `json:"exposureBias"`
	WhiteBalance any        `json:"whiteBalance"`
}

// Normalize maps a record onto the fixed display schema. It is pure
// and cannot fail; unresolved fields carry the Unknown sentinel.
func Normalize(record *Record, originalFileName string) Display {
	sensorSize := Unknown

	width, wok := resolveNumber(record, chainSensorWidth)
	height, hok := resolveNumber(record, chainSensorHeight)
	if wok && hok {
		// sensor dimensions are stored in thousandths of a millimeter
		sensorSize = fmt.Sprintf("%.2f × %.2f mm", width/1000, height/1000)
	}

	return Display{
		FileName:     originalFileName,
		FileSize:     resolveFileSize(record),
		FileFormat:   resolveFormat(record),
		ShootTime:    resolve(record, chainShootTime),
		CameraModel:  resolve(record, chainCameraModel),
		LensModel:    resolve(record, chainLensModel),
		SensorSize:   sensorSize,
		Resolution: Resolution{
			Width:  resolve(record, chainWidth),
			Height: resolve(record, chainHeight),
		},
		ISO:          resolve(record, chainISO),
		ShutterSpeed: resolve(record, chainShutterSpeed),
		Aperture:     resolve(record, chainAperture),
		FocalLength:  resolve(record, chainFocalLength),
		ExposureBias: resolve(record, chainExposureBias),
		WhiteBalance: resolve(record, chainWhiteBalance),
	}
}

// resolve returns the first present, non-empty, non-zero value along
// the chain.
func resolve(record *Record, keys []string) any {
	for _, key := range keys {
		v := record.Raw(key)
		if present(v) {
			return v
		}
	}

	return Unknown
}

func resolveNumber(record *Record, keys []string) (float64, bool) {
	for _, key := range keys {
		v := record.Raw(key)
		if !present(v) {
			continue
		}

		switch n := v.(type) {
		case json.Number:
			f, err := n.Float64()
			if err == nil {
				return f, true
			}
		case string:
			f, err := strconv.ParseFloat(n, 64)
			if err == nil {
				return f, true
			}
		}
	}

	return 0, false
}

func resolveFileSize(record *Record) string {
	size, ok := resolveNumber(record, chainFileSize)
	if !ok {
		return Unknown
	}

	return utils.FormatByteSize(int64(size))
}

func resolveFormat(record *Record) string {
	raw := record.Raw("File:FileTypeExtension")
	if raw == nil {
		return Unknown
	}

	return strings.ToUpper(fmt.Sprint(raw))
}

// present reports whether a value should satisfy a fallback chain:
// absent, empty and zero values all fall through to the next key.
func present(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case bool:
		return t
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return true
		}

		return f != 0
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	}

	return true
}
