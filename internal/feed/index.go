package feed

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"simtagger/internal/logging"
)

// Key identifies one index slot.
type Key struct {
	Code    string
	Version string
}

// Row is one index mapping, used for listings.
type Row struct {
	Code    string
	Version string
	Tag     string
}

// Index maps (identifier, normalized version) to the feed tag. It is built
// once per run and read-only afterwards; later sources overwrite earlier ones
// for the same key, so exactly one tag exists per key.
type Index struct {
	tags map[Key]string
}

// Lookup returns the tag stored for (code, version).
func (idx *Index) Lookup(code, version string) (string, bool) {
	tag, ok := idx.tags[Key{Code: code, Version: version}]
	return tag, ok
}

// Len returns the number of indexed keys.
func (idx *Index) Len() int {
	return len(idx.tags)
}

// Rows returns every mapping sorted by identifier then version.
func (idx *Index) Rows() []Row {
	rows := make([]Row, 0, len(idx.tags))
	for key, tag := range idx.tags {
		rows = append(rows, Row{Code: key.Code, Version: key.Version, Tag: tag})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Code != rows[j].Code {
			return rows[i].Code < rows[j].Code
		}
		return rows[i].Version < rows[j].Version
	})
	return rows
}

func (idx *Index) add(entry Entry) {
	for _, code := range entry.Codes {
		idx.tags[Key{Code: code, Version: entry.Version}] = entry.Tag
	}
}

// LoadIndex reads every *.json source under root in lexicographic name order
// and indexes the acceptable entries. Unreadable or malformed sources are
// logged and skipped.
func LoadIndex(root, acceptedTag string, logger *slog.Logger) (*Index, error) {
	logger = logging.NewComponentLogger(logger, "feed")
	index := &Index{tags: make(map[Key]string)}

	sources, err := filepath.Glob(filepath.Join(root, "*.json"))
	if err != nil {
		return nil, err
	}
	sort.Strings(sources)

	for _, source := range sources {
		payload, err := os.ReadFile(source)
		if err != nil {
			logger.Warn("skipping unreadable feed source", logging.String("source", source), logging.Error(err))
			continue
		}
		var decoded any
		if err := json.Unmarshal(payload, &decoded); err != nil {
			logger.Warn("skipping malformed feed source", logging.String("source", source), logging.Error(err))
			continue
		}

		items, ok := itemList(decoded)
		if !ok {
			logger.Warn("skipping feed source without item list", logging.String("source", source))
			continue
		}
		for _, item := range items {
			raw, ok := item.(map[string]any)
			if !ok {
				continue
			}
			entry := newEntry(source, raw)
			if entry.Acceptable(acceptedTag) {
				index.add(entry)
			}
		}
	}

	return index, nil
}

// itemList unwraps the two accepted payload shapes: a bare list, or an object
// with the list under "items".
func itemList(decoded any) ([]any, bool) {
	switch value := decoded.(type) {
	case []any:
		return value, true
	case map[string]any:
		items, ok := value["items"].([]any)
		return items, ok
	default:
		return nil, false
	}
}
