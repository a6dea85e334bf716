package helper

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

// ExportColumn: Key = kunci di row, Label = judul kolom.
type ExportColumn struct {
	Key   string
	Label string
}

type ExportRow map[string]any

func exportCell(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case *string:
		if t == nil {
			return ""
		}
		return *t
	case time.Time:
		if t.IsZero() {
			return ""
		}
		return FormatTanggal(t)
	case *time.Time:
		if t == nil || t.IsZero() {
			return ""
		}
		return FormatTanggal(*t)
	case Date:
		if t.IsZero() {
			return ""
		}
		return FormatTanggal(t.Time)
	case float64:
		return fmt.Sprintf("%.0f", t)
	case Number:
		return fmt.Sprintf("%.0f", float64(t))
	default:
		return fmt.Sprint(t)
	}
}

func csvQuote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func csvHeaderCell(s string) string {
	if strings.ContainsAny(s, ",\"\n") {
		return csvQuote(s)
	}
	return s
}

// ExportCSV: baris header lalu baris data yang setiap sel-nya dikutip,
// dipisah koma, urutan baris dipertahankan.
func ExportCSV(columns []ExportColumn, rows []ExportRow) string {
	var b strings.Builder

	head := make([]string, len(columns))
	for i, col := range columns {
		head[i] = csvHeaderCell(col.Label)
	}
	b.WriteString(strings.Join(head, ","))

	cells := make([]string, len(columns))
	for _, row := range rows {
		for i, col := range columns {
			cells[i] = csvQuote(exportCell(row[col.Key]))
		}
		b.WriteString("\n")
		b.WriteString(strings.Join(cells, ","))
	}
	return b.String()
}

// ExportXLSX membuat workbook satu sheet; header dicetak tebal.
func ExportXLSX(sheet string, columns []ExportColumn, rows []ExportRow) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if sheet == "" {
		sheet = "Data"
	}
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("gagal set nama sheet: %w", err)
	}

	for i, col := range columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, col.Label); err != nil {
			return nil, err
		}
	}
	if len(columns) > 0 {
		style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
		if err == nil {
			last, _ := excelize.CoordinatesToCellName(len(columns), 1)
			_ = f.SetCellStyle(sheet, "A1", last, style)
		}
	}

	for r, row := range rows {
		for i, col := range columns {
			cell, err := excelize.CoordinatesToCellName(i+1, r+2)
			if err != nil {
				return nil, err
			}
			var v any = exportCell(row[col.Key])
			switch n := row[col.Key].(type) {
			case int, int64, float64:
				v = n
			case Number:
				v = float64(n)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("gagal menulis xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

// SendCSV / SendXLSX menulis file unduhan dengan nama berstempel tanggal.
func SendCSV(c *fiber.Ctx, name string, columns []ExportColumn, rows []ExportRow) error {
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s-%s.csv"`, name, time.Now().Format("20060102")))
	return c.SendString(ExportCSV(columns, rows))
}

func SendXLSX(c *fiber.Ctx, name string, columns []ExportColumn, rows []ExportRow) error {
	data, err := ExportXLSX(name, columns, rows)
	if err != nil {
		return JsonError(c, fiber.StatusInternalServerError, "Gagal membuat file Excel")
	}
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s-%s.xlsx"`, name, time.Now().Format("20060102")))
	return c.Send(data)
}
