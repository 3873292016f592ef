package dataset

import (
	"bufio"
	"bytes"
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/theapemachine/errnie"

	"github.com/theapemachine/qsearch"
)

var (
	ErrTargetNotFound  = errors.New("target not found in dataset")
	ErrUnsupportedType = errors.New("unsupported dataset type")
	ErrWindowTooLarge  = errors.New("dataset smaller than requested window")
)

// Encode hashes the string form of v to a stable hex SHA-256 digest.
func Encode(v any) string {
	sum := sha256.Sum256([]byte(fmt.Sprint(v)))
	return hex.EncodeToString(sum[:])
}

/*
Dataset is a file's records in load order. Raw holds the text each record
was matched against; Encoded holds its digest at the same index.
*/
type Dataset struct {
	Path    string
	Raw     []string
	Encoded []string
}

// Match is the first record that contained a needle.
type Match struct {
	Index   int
	Raw     string
	Encoded string
}

/*
Load reads a line, CSV or JSON dataset, chosen by extension. A trailing .gz
is decompressed first. maxRows <= 0 reads everything; otherwise at most
maxRows input rows are considered, blank lines included.
*/
func Load(path string, maxRows int) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	name := strings.ToLower(path)

	if strings.HasSuffix(name, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		defer gz.Close()

		r = gz
		name = strings.TrimSuffix(name, ".gz")
	}

	var raw []string
	switch ext := filepath.Ext(name); ext {
	case ".txt", ".log":
		raw, err = readLines(r, maxRows)
	case ".csv":
		raw, err = readCSV(r, maxRows)
	case ".json":
		raw, err = readJSON(r, maxRows)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, ext)
	}

	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	ds := &Dataset{
		Path:    path,
		Raw:     raw,
		Encoded: make([]string, len(raw)),
	}

	for i, record := range raw {
		ds.Encoded[i] = Encode(record)
	}

	errnie.Info("loaded %d records from %s", len(raw), path)

	return ds, nil
}

func readLines(r io.Reader, maxRows int) ([]string, error) {
	var out []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	for i := 0; scanner.Scan(); i++ {
		if maxRows > 0 && i >= maxRows {
			break
		}

		if line := strings.TrimSpace(scanner.Text()); line != "" {
			out = append(out, line)
		}
	}

	return out, scanner.Err()
}

func readCSV(r io.Reader, maxRows int) ([]string, error) {
	var out []string
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	for i := 0; maxRows <= 0 || i < maxRows; i++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		out = append(out, strings.Join(row, " "))
	}

	return out, nil
}

func readJSON(r io.Reader, maxRows int) ([]string, error) {
	var items []json.RawMessage
	if err := json.NewDecoder(r).Decode(&items); err != nil {
		return nil, fmt.Errorf("expected a JSON array of records: %w", err)
	}

	if maxRows > 0 && len(items) > maxRows {
		items = items[:maxRows]
	}

	out := make([]string, len(items))
	for i, item := range items {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			out[i] = s
			continue
		}

		var buf bytes.Buffer
		if err := json.Compact(&buf, item); err != nil {
			return nil, err
		}
		out[i] = buf.String()
	}

	return out, nil
}

// Len is the number of records.
func (d *Dataset) Len() int {
	return len(d.Raw)
}

// Find returns the first record containing needle, ignoring case.
func (d *Dataset) Find(needle string) (Match, error) {
	lower := strings.ToLower(needle)

	for i, record := range d.Raw {
		if strings.Contains(strings.ToLower(record), lower) {
			return Match{Index: i, Raw: record, Encoded: d.Encoded[i]}, nil
		}
	}

	return Match{}, fmt.Errorf("%w: %q in %s", ErrTargetNotFound, needle, d.Path)
}

/*
Window draws size distinct records without replacement, in random order.
size must be a valid search size (a power of two, at least 2).
*/
func (d *Dataset) Window(size int, rng *rand.Rand) ([]string, error) {
	if err := qsearch.ValidateSize(size); err != nil {
		return nil, err
	}

	if size > len(d.Encoded) {
		return nil, fmt.Errorf("%w: %d > %d", ErrWindowTooLarge, size, len(d.Encoded))
	}

	perm := rng.Perm(len(d.Encoded))[:size]
	out := make([]string, size)
	for i, idx := range perm {
		out[i] = d.Encoded[idx]
	}

	return out, nil
}

// QubitWindow is the register width of the largest window the dataset fills.
func QubitWindow(d *Dataset) (int, error) {
	q := 0
	for n := d.Len(); n > 1; n >>= 1 {
		q++
	}

	if q == 0 {
		return 0, fmt.Errorf("%w: %d records", ErrWindowTooLarge, d.Len())
	}

	return q, nil
}
