package importer

import (
	"encoding/csv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Row is one data line of an upload, keyed by normalized column name.
// Columns missing on a short line are simply absent; lookups yield "".
type Row struct {
	// Line is the 1-indexed display line (header is line 1, first data row 2),
	// used verbatim in operator-facing error messages.
	Line   int
	Fields map[string]string
}

// Get returns the trimmed value of a column, or "" when absent.
func (r Row) Get(name string) string {
	return r.Fields[name]
}

// DecodeRows turns an uploaded byte blob into header-keyed rows: encoding
// trial (UTF-8, UTF-8 with BOM, Latin-1, Windows-1252), BOM strip, delimiter
// sniff on the header line (tab, then semicolon, then comma), header
// normalization (trim + lower-case).
func DecodeRows(data []byte) ([]Row, error) {
	text, err := decodeText(data)
	if err != nil {
		return nil, err
	}
	text = strings.TrimPrefix(text, "\ufeff")

	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyInput
	}

	delim := sniffDelimiter(headerLine(text))

	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = delim
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, &DecodeError{Reason: "malformed delimited text", Err: err}
	}
	if len(records) == 0 {
		return nil, ErrEmptyInput
	}

	header := records[0]
	for i := range header {
		header[i] = strings.ToLower(strings.TrimSpace(header[i]))
	}

	rows := make([]Row, 0, len(records)-1)
	for i, record := range records[1:] {
		fields := make(map[string]string, len(header))
		for j, name := range header {
			if j < len(record) {
				fields[name] = strings.TrimSpace(record[j])
			}
		}
		rows = append(rows, Row{Line: i + 2, Fields: fields})
	}
	return rows, nil
}

// decodeText tries each supported encoding in order; the first that decodes
// without error wins.
func decodeText(data []byte) (string, error) {
	if utf8.Valid(data) {
		return string(data), nil
	}
	for _, cm := range []*charmap.Charmap{charmap.ISO8859_1, charmap.Windows1252} {
		decoded, err := cm.NewDecoder().Bytes(data)
		if err == nil {
			return string(decoded), nil
		}
	}
	return "", &DecodeError{Reason: "unsupported text encoding"}
}

func headerLine(text string) string {
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		return text[:idx]
	}
	return text
}

// sniffDelimiter prefers tab, then semicolon; comma is the fallback.
func sniffDelimiter(header string) rune {
	switch {
	case strings.ContainsRune(header, '\t'):
		return '\t'
	case strings.ContainsRune(header, ';'):
		return ';'
	default:
		return ','
	}
}
