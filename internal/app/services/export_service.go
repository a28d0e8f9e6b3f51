package services

import (
	"bytes"
	"context"
	"fmt"
	"strconv"

	"github.com/tce-csbs/participation-portal/internal/app/repositories"
	"github.com/tce-csbs/participation-portal/internal/pkg/helpers"
	"github.com/xuri/excelize/v2"
)

type sheetSpec struct {
	Title  string
	Header []string
	Rows   [][]string
}

// ExportService renders participation workbooks for admins
type ExportService struct {
	stores Stores
}

// NewExportService creates a new ExportService
func NewExportService(stores Stores) *ExportService {
	return &ExportService{stores: stores}
}

// HackathonWorkbook renders every hackathon record of year (all years when zero) plus a
// per-year summary sheet as an xlsx file.
func (s *ExportService) HackathonWorkbook(ctx context.Context, year int) ([]byte, error) {
	hackathons, err := s.stores.Hackathons.List(ctx, repositories.HackathonFilter{Year: year})
	if err != nil {
		return nil, err
	}
	stats, err := s.stores.Hackathons.StatsByYear(ctx)
	if err != nil {
		return nil, err
	}

	records := sheetSpec{
		Title: "Hackathons",
		Header: []string{"Title", "Organization", "Mode", "Date", "Year", "Status", "Participants",
			"Student", "Register No", "Department", "Student Year", "Rejection Reason"},
	}
	for _, h := range hackathons {
		var name, regNo, dept, studYear string
		if h.Student != nil {
			name, regNo, dept, studYear = h.Student.Name, h.Student.RegisterNo, h.Student.Department, h.Student.Year
		}
		records.Rows = append(records.Rows, []string{
			h.Title, h.Organization, string(h.Mode), h.Date.Format(helpers.DateLayout), strconv.Itoa(h.Year),
			string(h.Status), strconv.Itoa(h.ParticipantCount), name, regNo, dept, studYear, deref(h.RejectionReason),
		})
	}

	summary := sheetSpec{
		Title:  "Summary",
		Header: []string{"Year", "Records", "Unique Hackathons", "Participants"},
	}
	for _, st := range stats {
		if year != 0 && st.Year != year {
			continue
		}
		summary.Rows = append(summary.Rows, []string{
			strconv.Itoa(st.Year),
			strconv.FormatInt(st.TotalHackathons, 10),
			strconv.FormatInt(st.UniqueHackathonCount, 10),
			strconv.FormatInt(st.TotalParticipants, 10),
		})
	}

	return buildWorkbook([]sheetSpec{records, summary})
}

// HackathonWorkbookName is the download filename for a workbook of year
func HackathonWorkbookName(year int) string {
	if year == 0 {
		return "hackathons_all_years.xlsx"
	}
	return fmt.Sprintf("hackathons_%d.xlsx", year)
}

func buildWorkbook(sheets []sheetSpec) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("new style: %w", err)
	}

	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet.Title); err != nil {
				return nil, fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sheet.Title); err != nil {
			return nil, fmt.Errorf("new sheet: %w", err)
		}

		for c, h := range sheet.Header {
			cell, _ := excelize.CoordinatesToCellName(c+1, 1)
			if err := f.SetCellStr(sheet.Title, cell, h); err != nil {
				return nil, fmt.Errorf("set cell %s: %w", cell, err)
			}
		}
		end, _ := excelize.CoordinatesToCellName(len(sheet.Header), 1)
		_ = f.SetCellStyle(sheet.Title, "A1", end, bold)
		_ = f.AutoFilter(sheet.Title, "A1:"+end, nil)

		for r, row := range sheet.Rows {
			for c, val := range row {
				cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
				if err := f.SetCellStr(sheet.Title, cell, val); err != nil {
					return nil, fmt.Errorf("set cell %s: %w", cell, err)
				}
			}
		}

		for c := range sheet.Header {
			width := float64(len(sheet.Header[c]))
			for _, row := range sheet.Rows {
				if l := float64(len(row[c])); l > width {
					width = l
				}
			}
			width = min(max(width*1.1, 12), 50)
			col, _ := excelize.ColumnNumberToName(c + 1)
			_ = f.SetColWidth(sheet.Title, col, col, width)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
