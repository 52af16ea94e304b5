package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/fieldsales/visitform/internal/domain/entity"
	"github.com/fieldsales/visitform/pkg/utils"
)

var (
	nameHeaders   = []string{"nombre", "name", "vendedor"}
	phoneHeaders  = []string{"telefono", "teléfono", "phone", "celular"}
	activeHeaders = []string{"activo", "active"}
)

// RowError describes a roster row that could not be imported
type RowError struct {
	Row    int
	Reason string
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Row, e.Reason)
}

// ParseRoster reads salespeople from the first sheet of an .xlsx workbook.
// The first row is a header naming the name, phone and optional active columns.
// Rows that fail validation are reported and skipped.
func ParseRoster(r io.Reader) ([]*entity.Salesperson, []RowError, error) {
	file, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() { _ = file.Close() }()

	sheetName := file.GetSheetName(0)
	if sheetName == "" {
		return nil, nil, fmt.Errorf("no worksheet found")
	}

	rows, err := file.GetRows(sheetName)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("worksheet is empty")
	}

	header := rows[0]
	nameIdx := columnIndex(header, nameHeaders)
	phoneIdx := columnIndex(header, phoneHeaders)
	activeIdx := columnIndex(header, activeHeaders)
	if nameIdx < 0 || phoneIdx < 0 {
		return nil, nil, fmt.Errorf("header must contain name and phone columns")
	}

	var people []*entity.Salesperson
	var rowErrors []RowError
	seen := make(map[string]int)

	for i, row := range rows[1:] {
		rowNum := i + 2
		name := strings.Join(strings.Fields(cellValue(row, nameIdx)), " ")
		phone := utils.NormalizeDigits(cellValue(row, phoneIdx))

		if name == "" && phone == "" {
			continue
		}
		if name == "" {
			rowErrors = append(rowErrors, RowError{Row: rowNum, Reason: "missing name"})
			continue
		}
		if !utils.IsPhoneNumber(phone) {
			rowErrors = append(rowErrors, RowError{Row: rowNum, Reason: fmt.Sprintf("phone must have %d digits", utils.PhoneDigits)})
			continue
		}
		if prev, ok := seen[phone]; ok {
			rowErrors = append(rowErrors, RowError{Row: rowNum, Reason: fmt.Sprintf("duplicate phone, first seen on row %d", prev)})
			continue
		}
		seen[phone] = rowNum

		people = append(people, &entity.Salesperson{
			Name:   utils.TitleCase(name),
			Phone:  phone,
			Active: parseActive(cellValue(row, activeIdx)),
		})
	}

	return people, rowErrors, nil
}

func columnIndex(header []string, names []string) int {
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(h))
		for _, name := range names {
			if h == name {
				return i
			}
		}
	}
	return -1
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseActive treats an empty cell as active
func parseActive(value string) bool {
	switch strings.ToLower(value) {
	case "no", "0", "false", "inactivo", "n":
		return false
	default:
		return true
	}
}
