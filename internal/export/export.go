// Package export writes rendered reports to disk. It never touches the
// in-memory report: a failed write leaves the caller's data exactly as it
// was, and the error carries enough context to show the user.
package export

import (
	"os"
	"path/filepath"
	"time"

	"github.com/hostscope/hostscope/internal/errors"
	"github.com/hostscope/hostscope/internal/report"
)

// Format selects the on-disk representation.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a --format flag value.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatText, FormatJSON, FormatYAML:
		return Format(s), nil
	case "":
		return FormatText, nil
	default:
		return "", errors.New(errors.ErrExport,
			"Unknown export format: "+s,
			"Supported formats: text, json, yaml")
	}
}

// Extension returns the conventional file extension for the format.
func (f Format) Extension() string {
	switch f {
	case FormatJSON:
		return ".json"
	case FormatYAML:
		return ".yaml"
	default:
		return ".txt"
	}
}

// FormatForPath picks the format from the filename extension, defaulting
// to text.
func FormatForPath(path string) Format {
	switch filepath.Ext(path) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatText
	}
}

// DefaultFilename returns the timestamped default export name, e.g.
// "hostscope_report_20260825_103000.txt".
func DefaultFilename(now time.Time, format Format) string {
	return "hostscope_report_" + now.Format("20060102_150405") + format.Extension()
}

// Render produces the serialized bytes for the report in the given format.
// The text form is exactly what the display surfaces show.
func Render(r report.Report, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		data, err := report.EncodeJSON(r)
		if err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrExport,
				"Couldn't encode report as JSON", "")
		}
		return data, nil
	case FormatYAML:
		data, err := report.EncodeYAML(r)
		if err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrExport,
				"Couldn't encode report as YAML", "")
		}
		return data, nil
	default:
		return []byte(report.RenderText(r)), nil
	}
}

// Write serializes the report and writes it to path, creating or
// overwriting the file. The path's parent directory must already exist.
func Write(r report.Report, path string, format Format) error {
	data, err := Render(r, format)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.WrapWithCode(err, errors.ErrExport,
			"Couldn't write report to "+path,
			"Check the directory exists and is writable")
	}
	return nil
}

// ResolvePath expands a possibly-bare filename against the configured
// export directory. Absolute paths and paths with a directory component
// pass through untouched.
func ResolvePath(path, exportDir string) string {
	if exportDir == "" || filepath.IsAbs(path) || filepath.Dir(path) != "." {
		return path
	}
	return filepath.Join(exportDir, path)
}
