package metadata

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// IndexFileName is the conventional name of the dataset index file.
const IndexFileName = "metadata.csv"

// WavsDirName is the conventional name of the asset directory.
const WavsDirName = "wavs"

// ErrEmptyIndex indicates the index file parsed to zero usable records.
var ErrEmptyIndex = errors.New("index file contains no usable records")

// Record is one dataset entry. ID locates the audio asset by filename
// convention; the two text fields are carried through verbatim.
type Record struct {
	ID             string
	Text           string
	NormalizedText string
}

// AssetName returns the conventional audio filename for a record id.
func AssetName(id string) string {
	return id + ".wav"
}

// AssetPath returns the asset path for id under the given wavs directory.
func AssetPath(dir, id string) string {
	return filepath.Join(dir, AssetName(id))
}

// ReadIndex parses the index file at path into ordered records. Blank lines
// are skipped; two-field lines default the normalized text to the raw text;
// lines with fewer than two fields are dropped. An index that yields zero
// records returns ErrEmptyIndex.
func ReadIndex(path string) ([]Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open index %s: %w", path, err)
	}
	defer file.Close()

	var records []Record
	scanner := bufio.NewScanner(file)
	// Transcript lines can be long; the default token limit is too small.
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, "|", 3)
		switch len(parts) {
		case 3:
			records = append(records, Record{ID: parts[0], Text: parts[1], NormalizedText: parts[2]})
		case 2:
			records = append(records, Record{ID: parts[0], Text: parts[1], NormalizedText: parts[1]})
		default:
			// Unusable line, silently dropped.
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read index %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyIndex, path)
	}
	return records, nil
}

// WriteIndex serializes records to path in the same pipe-delimited format,
// creating parent directories and overwriting any existing file. Field
// contents pass through untouched.
func WriteIndex(path string, records []Record) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create index directory %s: %w", dir, err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create index %s: %w", path, err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	for _, rec := range records {
		if _, err := fmt.Fprintf(writer, "%s|%s|%s\n", rec.ID, rec.Text, rec.NormalizedText); err != nil {
			return fmt.Errorf("write index %s: %w", path, err)
		}
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("flush index %s: %w", path, err)
	}
	return file.Close()
}
