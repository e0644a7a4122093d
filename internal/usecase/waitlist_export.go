package usecase

import (
	"bytes"
	"context"
	"fmt"

	"candidate-portal/internal/domain"
	"candidate-portal/pkg/apperror"

	"github.com/xuri/excelize/v2"
)

const maxExportRows = 50000

var waitlistColumns = []string{"EMAIL", "NAME", "ROLE INTEREST", "SOURCE", "SYNCED AT", "SIGNED UP AT"}

func (u *waitlistUsecase) Export(ctx context.Context) ([]byte, string, error) {
	entries, err := u.repo.List(ctx, maxExportRows)
	if err != nil {
		return nil, "", apperror.Internal(err)
	}

	data, err := waitlistWorkbook(entries)
	if err != nil {
		return nil, "", apperror.Internal(err)
	}
	filename := fmt.Sprintf("waitlist_%s.xlsx", u.now().UTC().Format("20060102_150405"))
	return data, filename, nil
}

func waitlistWorkbook(entries []domain.WaitlistEntry) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Waitlist"
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	for i, header := range waitlistColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	// Dark Blue header with White text
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#1E3A5F"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	endCell, _ := excelize.CoordinatesToCellName(len(waitlistColumns), 1)
	f.SetCellStyle(sheetName, "A1", endCell, headerStyle)

	for rowIdx, e := range entries {
		synced := ""
		if e.SyncedAt != nil {
			synced = e.SyncedAt.UTC().Format("2006-01-02 15:04")
		}
		values := []interface{}{e.Email, e.Name, string(e.RoleInterest), e.Source, synced, e.CreatedAt.UTC().Format("2006-01-02 15:04")}
		for colIdx, v := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheetName, cell, v)
		}
	}

	for i := range waitlistColumns {
		colName, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, colName, colName, 24)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), nil
}
