package report

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

// Cell fills.
const (
	fillBudget       = "FFF2CC"
	fillBoth         = "FFF2CC"
	fillSynergy      = "E6F3FF"
	fillHighPercent  = "FFCCCC"
	fillAttachHigh   = "CCFFCC"
	fillAttachMedium = "FFCCCC"
	fillAverage      = "CCE5FF"
	fillSynergyHigh  = "90EE90"
	fillSynergyMid   = "FFD700"
	fillShared       = "FFE6CC"
)

// priorityFills colors the priority column by tier.
var priorityFills = map[int]string{
	1: "FFD700",
	2: "CCFFCC",
	3: "CCE5FF",
	4: "F0F0F0",
}

const (
	maxSheetName = 31
	defaultSheet = "Sheet1"
)

var sheetNameReplacer = strings.NewReplacer(
	":", "_", `\`, "_", "/", "_", "?", "_", "*", "_", "[", "(", "]", ")",
)

// Workbook is a spreadsheet artifact under construction.
type Workbook struct {
	f       *excelize.File
	fills   map[string]int
	link    int
	hasLink bool
	names   map[string]struct{}
	sheets  []string
}

func newWorkbook() *Workbook {
	return &Workbook{
		f:     excelize.NewFile(),
		fills: make(map[string]int),
		names: make(map[string]struct{}),
	}
}

// Sheets returns the sheet names in creation order.
func (wb *Workbook) Sheets() []string {
	return append([]string(nil), wb.sheets...)
}

// SaveAs writes the workbook to path.
func (wb *Workbook) SaveAs(path string) error {
	if err := wb.f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// Write writes the workbook to w.
func (wb *Workbook) Write(w io.Writer) error {
	if err := wb.f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// Close releases the workbook.
func (wb *Workbook) Close() error {
	return wb.f.Close()
}

// SheetName makes name usable as a sheet name: forbidden characters are
// replaced and the result is cut to 31 characters.
func SheetName(name string) string {
	name = strings.Trim(sheetNameReplacer.Replace(strings.TrimSpace(name)), "'")
	if name == "" {
		name = "Sheet"
	}
	return truncateRunes(name, maxSheetName)
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// uniqueName suffixes name until it differs from every sheet so far,
// case-insensitively.
func (wb *Workbook) uniqueName(name string) string {
	name = SheetName(name)
	candidate := name
	for i := 2; ; i++ {
		if _, taken := wb.names[strings.ToLower(candidate)]; !taken {
			break
		}
		suffix := fmt.Sprintf(" (%d)", i)
		candidate = truncateRunes(name, maxSheetName-len(suffix)) + suffix
	}
	wb.names[strings.ToLower(candidate)] = struct{}{}
	return candidate
}

// addSheet creates a sheet with a header row. The first sheet replaces the
// default one.
func (wb *Workbook) addSheet(name string, headers ...string) (*sheet, error) {
	name = wb.uniqueName(name)
	if len(wb.sheets) == 0 {
		if err := wb.f.SetSheetName(defaultSheet, name); err != nil {
			return nil, fmt.Errorf("failed to name sheet %q: %w", name, err)
		}
	} else if _, err := wb.f.NewSheet(name); err != nil {
		return nil, fmt.Errorf("failed to add sheet %q: %w", name, err)
	}
	wb.sheets = append(wb.sheets, name)

	s := &sheet{wb: wb, name: name}
	row := make([]interface{}, len(headers))
	for i, h := range headers {
		row[i] = h
	}
	if _, err := s.append(row...); err != nil {
		return nil, err
	}
	return s, nil
}

func (wb *Workbook) fillStyle(color string) (int, error) {
	if id, ok := wb.fills[color]; ok {
		return id, nil
	}
	id, err := wb.f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create fill style: %w", err)
	}
	wb.fills[color] = id
	return id, nil
}

func (wb *Workbook) linkStyle() (int, error) {
	if wb.hasLink {
		return wb.link, nil
	}
	id, err := wb.f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Color: "0563C1", Underline: "single"},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create link style: %w", err)
	}
	wb.link, wb.hasLink = id, true
	return id, nil
}

// sheet appends rows to one worksheet.
type sheet struct {
	wb   *Workbook
	name string
	rows int
}

// append writes values as the next row and returns its 1-based number.
func (s *sheet) append(values ...interface{}) (int, error) {
	s.rows++
	cell, err := excelize.CoordinatesToCellName(1, s.rows)
	if err != nil {
		return 0, err
	}
	if err := s.wb.f.SetSheetRow(s.name, cell, &values); err != nil {
		return 0, fmt.Errorf("failed to write row %d of %q: %w", s.rows, s.name, err)
	}
	return s.rows, nil
}

// fill colors one cell. An empty color leaves the cell as is.
func (s *sheet) fill(col, row int, color string) error {
	if color == "" {
		return nil
	}
	id, err := s.wb.fillStyle(color)
	if err != nil {
		return err
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return s.wb.f.SetCellStyle(s.name, cell, cell, id)
}

// link turns one cell into a hyperlink. Non-http links are ignored.
func (s *sheet) link(col, row int, url string) error {
	if !strings.HasPrefix(url, "http") {
		return nil
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if err := s.wb.f.SetCellHyperLink(s.name, cell, url, "External"); err != nil {
		return fmt.Errorf("failed to link %s on %q: %w", cell, s.name, err)
	}
	id, err := s.wb.linkStyle()
	if err != nil {
		return err
	}
	return s.wb.f.SetCellStyle(s.name, cell, cell, id)
}

// widths sets column widths starting at column A.
func (s *sheet) widths(widths ...float64) error {
	for i, w := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := s.wb.f.SetColWidth(s.name, col, col, w); err != nil {
			return err
		}
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// optional renders a missing number as an empty cell.
func optional(v float64, ok bool) interface{} {
	if !ok {
		return nil
	}
	return v
}
