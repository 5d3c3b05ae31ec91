package inventory

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// RequiredColumns is the exact column set a source must carry. Labels are
// compared case-insensitively after trimming.
var RequiredColumns = []string{
	"PartNumber",
	"Quantity",
	"Shelf",
	"Location",
	"Passport",
	"Category",
	"SerialNumber",
	"Check",
}

// FormatSpec describes a CSV layout for sources that are not spreadsheets.
type FormatSpec struct {
	Delimiter string `yaml:"delimiter"`
	Encoding  string `yaml:"encoding"`
}

// Dataset is one immutable, fully-loaded inventory table. It is built aside
// and swapped into service as a unit; readers holding a snapshot never see
// partial rows.
type Dataset struct {
	Source   string
	LoadedAt time.Time
	Records  []Record
}

// Len returns the number of loaded rows.
func (d *Dataset) Len() int { return len(d.Records) }

// ParseXLSX reads the first sheet of an xlsx workbook. The first row is the
// header.
func ParseXLSX(r io.Reader, source string) (*Dataset, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &UnreadableSourceError{Err: err}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &UnreadableSourceError{Err: errors.New("workbook has no sheets")}
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, &UnreadableSourceError{Err: err}
	}
	return fromRows(rows, source)
}

// ParseCSV reads a delimited table. Non-UTF-8 encodings declared in the
// format spec are transcoded before parsing.
func ParseCSV(r io.Reader, spec FormatSpec, source string) (*Dataset, error) {
	if enc := spec.Encoding; enc != "" && !isUTF8(enc) {
		e, err := htmlindex.Get(enc)
		if err != nil {
			return nil, &UnreadableSourceError{Err: fmt.Errorf("unsupported encoding %q: %w", enc, err)}
		}
		r = transform.NewReader(r, e.NewDecoder())
	}

	cr := csv.NewReader(r)
	if spec.Delimiter != "" {
		cr.Comma = []rune(spec.Delimiter)[0]
	}
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, &UnreadableSourceError{Err: err}
	}
	return fromRows(rows, source)
}

// fromRows validates the header and coerces data rows into Records. Rows
// with an empty PartNumber are skipped; everything else recovers to a safe
// default instead of failing the load.
func fromRows(rows [][]string, source string) (*Dataset, error) {
	if len(rows) == 0 {
		return nil, &UnreadableSourceError{Err: errors.New("empty table")}
	}

	// Header labels trimmed, matched case-insensitively. First occurrence
	// wins on duplicate labels.
	index := make(map[string]int, len(rows[0]))
	for i, label := range rows[0] {
		key := strings.ToLower(strings.TrimSpace(label))
		if _, ok := index[key]; !ok {
			index[key] = i
		}
	}

	cols := make(map[string]int, len(RequiredColumns))
	var missing []string
	for _, name := range RequiredColumns {
		i, ok := index[strings.ToLower(name)]
		if !ok {
			missing = append(missing, name)
			continue
		}
		cols[name] = i
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, &MissingColumnsError{Columns: missing}
	}

	cell := func(row []string, name string) string {
		i := cols[name]
		if i >= len(row) {
			return ""
		}
		return row[i]
	}

	records := make([]Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec, ok := newRecord(
			cell(row, "PartNumber"),
			cell(row, "Quantity"),
			cell(row, "Shelf"),
			cell(row, "Location"),
			cell(row, "Passport"),
			cell(row, "Category"),
			cell(row, "SerialNumber"),
			cell(row, "Check"),
		)
		if !ok {
			continue
		}
		records = append(records, rec)
	}

	return &Dataset{
		Source:   source,
		LoadedAt: time.Now(),
		Records:  records,
	}, nil
}

func isUTF8(enc string) bool {
	e := strings.ToLower(strings.ReplaceAll(enc, "-", ""))
	return e == "utf8" || e == ""
}
