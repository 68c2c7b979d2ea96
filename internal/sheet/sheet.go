package sheet

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"bilingo/internal/services"
	"bilingo/internal/textutil"
)

// Row is one phrase pair.
type Row struct {
	Text1 string
	Text2 string
}

// Table is the usable content of an input file.
type Table struct {
	Source  string
	Rows    []Row
	Skipped int
}

// SampleRows are written by WriteSample.
var SampleRows = []Row{
	{Text1: "I have a car", Text2: "J'ai une voiture"},
	{Text1: "The sky is blue", Text2: "Le ciel est bleu"},
	{Text1: "Hello world", Text2: "Bonjour le monde"},
}

// Load reads path according to its extension: .xlsx/.xlsm use the first
// worksheet, .csv and .tsv are parsed as delimited text.
func Load(path string) (Table, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Table{}, services.Wrap(services.ErrInput, "sheet", "load", "path required", nil)
	}
	if _, err := os.Stat(path); err != nil {
		return Table{}, services.Wrap(services.ErrInput, "sheet", "load", path, err)
	}

	var (
		records [][]string
		err     error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		records, err = readWorkbook(path)
	case ".csv":
		records, err = readDelimited(path, ',')
	case ".tsv", ".tab":
		records, err = readDelimited(path, '\t')
	default:
		return Table{}, services.Wrap(services.ErrInput, "sheet", "load", fmt.Sprintf("unsupported file type %q", ext), nil)
	}
	if err != nil {
		return Table{}, services.Wrap(services.ErrInput, "sheet", "load", path, err)
	}

	table := Table{Source: path}
	table.Rows, table.Skipped = Normalize(records)
	return table, nil
}

// Normalize converts raw records into rows, dropping any record whose first
// or second field is blank. Extra columns are ignored.
func Normalize(records [][]string) ([]Row, int) {
	rows := make([]Row, 0, len(records))
	skipped := 0
	for _, record := range records {
		var text1, text2 string
		if len(record) > 0 {
			text1 = strings.TrimSpace(record[0])
		}
		if len(record) > 1 {
			text2 = strings.TrimSpace(record[1])
		}
		if text1 == "" || text2 == "" {
			skipped++
			continue
		}
		rows = append(rows, Row{Text1: text1, Text2: text2})
	}
	return rows, skipped
}

func readWorkbook(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	return f.GetRows(sheets[0])
}

func readDelimited(path string, comma rune) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	// Spreadsheet exports often start with a byte order mark; UTF-16 files
	// always do.
	decoded := transform.NewReader(file, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	reader := csv.NewReader(decoded)
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	var records [][]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

// WriteSample writes rows to path as a headerless two-column workbook, or as
// delimited text when path ends in .csv or .tsv. Nil rows writes SampleRows.
func WriteSample(path string, rows []Row) error {
	if rows == nil {
		rows = SampleRows
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create sample dir: %w", err)
		}
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return writeDelimited(path, ',', rows)
	case ".tsv", ".tab":
		return writeDelimited(path, '\t', rows)
	}

	f := excelize.NewFile()
	defer f.Close()
	sheetName := f.GetSheetName(0)
	for i, row := range rows {
		if err := f.SetSheetRow(sheetName, fmt.Sprintf("A%d", i+1), &[]any{row.Text1, row.Text2}); err != nil {
			return fmt.Errorf("write sample row %d: %w", i+1, err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save sample: %w", err)
	}
	return nil
}

func writeDelimited(path string, comma rune, rows []Row) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create sample: %w", err)
	}
	writer := csv.NewWriter(file)
	writer.Comma = comma
	for _, row := range rows {
		if err := writer.Write([]string{row.Text1, row.Text2}); err != nil {
			file.Close()
			return fmt.Errorf("write sample: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		file.Close()
		return fmt.Errorf("write sample: %w", err)
	}
	return file.Close()
}

// DefaultOutputPath returns <dir>/<stem>_slideshow.mp4 for input.
func DefaultOutputPath(input string) string {
	dir := filepath.Dir(input)
	stem := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	return filepath.Join(dir, textutil.FileStem(stem)+"_slideshow.mp4")
}
