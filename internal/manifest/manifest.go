package manifest

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FileName is the manifest file simtagger looks for in each addon directory.
const FileName = "manifest.json"

// Manifest fields consumed and produced. Everything else in the file is
// preserved verbatim on rewrite.
const (
	fieldVersion = "package_version"
	fieldTitle   = "title"
	// FieldSimType is the tag field reconciliation rewrites.
	FieldSimType = "simType"
)

// Record is one installed package manifest.
type Record struct {
	// Path is the manifest.json location, Dir its owning directory.
	Path   string
	Dir    string
	Folder string

	// Raw holds the full parsed object; nil when parsing failed.
	Raw      map[string]any
	ParseErr error

	// Version is the declared package_version string, untrimmed of format
	// quirks (normalization happens during reconciliation).
	Version string
	Title   string
	// SimType is the current tag field value as parsed: a string, nil for
	// JSON null or a missing field.
	SimType any
}

// Scan walks the addons root and returns every manifest path as one batch.
func Scan(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.IsDir() && entry.Name() == FileName {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}
	return paths, nil
}

// Load parses one manifest file. Parse failures are recorded on the returned
// Record rather than reported as errors so the caller can classify them.
func Load(path string) Record {
	record := Record{
		Path:   path,
		Dir:    filepath.Dir(path),
		Folder: filepath.Base(filepath.Dir(path)),
	}

	payload, err := os.ReadFile(path)
	if err != nil {
		record.ParseErr = err
		return record
	}

	var raw map[string]any
	if err := json.Unmarshal(payload, &raw); err != nil {
		record.ParseErr = err
		return record
	}

	record.Raw = raw
	if value, ok := raw[fieldVersion].(string); ok {
		record.Version = strings.TrimSpace(value)
	}
	if value, ok := raw[fieldTitle].(string); ok {
		record.Title = value
	}
	record.SimType = raw[FieldSimType]
	return record
}

// Rewrite sets the tag field and re-serializes the manifest as formatted
// JSON. The write goes to a temp file in the owning directory followed by a
// rename, so a failure cannot leave the manifest half-updated.
func (r *Record) Rewrite(tag string) error {
	if r.Raw == nil {
		return fmt.Errorf("rewrite %s: manifest not parsed", r.Path)
	}
	r.Raw[FieldSimType] = tag

	payload, err := json.MarshalIndent(r.Raw, "", "  ")
	if err != nil {
		return fmt.Errorf("encode manifest %s: %w", r.Path, err)
	}
	payload = append(payload, '\n')

	tmp, err := os.CreateTemp(r.Dir, ".manifest-*.json")
	if err != nil {
		return fmt.Errorf("stage manifest %s: %w", r.Path, err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("stage manifest %s: %w", r.Path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("stage manifest %s: %w", r.Path, err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("stage manifest %s: %w", r.Path, err)
	}
	if err := os.Rename(tmpPath, r.Path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace manifest %s: %w", r.Path, err)
	}
	r.SimType = tag
	return nil
}

// TagString renders a current tag value for report lines; nil becomes "null"
// to mirror how the field reads in the manifest.
func TagString(value any) string {
	if value == nil {
		return "null"
	}
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprint(value)
}
