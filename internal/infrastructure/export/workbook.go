package export

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/fieldsales/visitform/internal/application/port"
	"github.com/fieldsales/visitform/internal/domain/entity"
)

const visitsSheet = "Visitas"

var visitHeaders = []interface{}{
	"ID", "Fecha", "N° Cliente", "Cliente", "Latitud", "Longitud",
	"Mapa", "Vendedor", "Teléfono", "Estado", "Error",
}

// VisitsWorkbook renders visits as an .xlsx workbook.
// Dates are shown in loc.
func VisitsWorkbook(visits []*entity.Visit, loc *time.Location) ([]byte, error) {
	if loc == nil {
		loc = time.Local
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", visitsSheet); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}

	if err := f.SetSheetRow(visitsSheet, "A1", &visitHeaders); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create style: %w", err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(visitHeaders))
	if err := f.SetCellStyle(visitsSheet, "A1", lastCol+"1", bold); err != nil {
		return nil, fmt.Errorf("failed to style header: %w", err)
	}
	if err := f.SetColWidth(visitsSheet, "A", lastCol, 18); err != nil {
		return nil, fmt.Errorf("failed to set column width: %w", err)
	}

	for i, v := range visits {
		row := i + 2
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return nil, err
		}

		link := v.Coordinates().MapLink()
		values := []interface{}{
			v.ID,
			v.CreatedAt.In(loc).Format("2006-01-02 15:04"),
			v.ClientNumber,
			v.ClientName,
			v.Latitude,
			v.Longitude,
			link,
			v.SalespersonName,
			v.SalespersonPhone,
			v.Status,
			v.ErrorMessage,
		}
		if err := f.SetSheetRow(visitsSheet, cell, &values); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", row, err)
		}

		linkCell, _ := excelize.CoordinatesToCellName(7, row)
		if err := f.SetCellHyperLink(visitsSheet, linkCell, link, "External"); err != nil {
			return nil, fmt.Errorf("failed to set link on row %d: %w", row, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// RosterWorkbook renders salespeople in the layout ParseRoster reads
func RosterWorkbook(people []*entity.Salesperson) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	header := []interface{}{"Nombre", "Teléfono", "Activo"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	for i, sp := range people {
		active := "sí"
		if !sp.Active {
			active = "no"
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []interface{}{sp.Name, sp.Phone, active}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// Renderer implements port.ReportRenderer with dates shown in Location
type Renderer struct {
	Location *time.Location
}

// RenderVisits renders the visits workbook
func (r Renderer) RenderVisits(visits []*entity.Visit) ([]byte, error) {
	return VisitsWorkbook(visits, r.Location)
}

var _ port.ReportRenderer = Renderer{}
