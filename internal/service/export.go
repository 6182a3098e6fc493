package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"github.com/reservation-desk/backend/internal/model"
)

const exportSheet = "Reservations"

var exportHeaders = []string{"Date", "Time", "Booked", "Name", "Tel", "Remarks"}

// ExportReservations - 원장 전체를 xlsx 로 내보냄
func (s *ReservationService) ExportReservations(ctx context.Context) ([]byte, error) {
	rows, err := s.ledger.ListSlots(ctx)
	if err != nil {
		logrus.WithError(err).Error("export reservations failed")
		return nil, fmt.Errorf("export reservations: %w", err)
	}

	data, err := buildWorkbook(rows)
	if err != nil {
		return nil, fmt.Errorf("export reservations: %w", err)
	}
	return data, nil
}

func buildWorkbook(rows []model.ReservationSlot) ([]byte, error) {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	index, err := f.NewSheet(exportSheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, err
	}
	bookedStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#C6EFCE"}, Pattern: 1},
	})
	if err != nil {
		return nil, err
	}

	for i, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(exportSheet, cell, header); err != nil {
			return nil, err
		}
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(exportHeaders), 1)
	if err := f.SetCellStyle(exportSheet, "A1", lastHeader, headerStyle); err != nil {
		return nil, err
	}

	for i, row := range rows {
		line := i + 2
		booked := "no"
		if row.IsBooked {
			booked = "yes"
		}
		values := []any{row.Date, row.Time, booked, row.Name, row.Tel, row.Remarks}
		cell, _ := excelize.CoordinatesToCellName(1, line)
		if err := f.SetSheetRow(exportSheet, cell, &values); err != nil {
			return nil, err
		}
		if row.IsBooked {
			last, _ := excelize.CoordinatesToCellName(len(exportHeaders), line)
			if err := f.SetCellStyle(exportSheet, cell, last, bookedStyle); err != nil {
				return nil, err
			}
		}
	}

	if err := f.SetColWidth(exportSheet, "A", "B", 12); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(exportSheet, "D", "E", 20); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(exportSheet, "F", "F", 40); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
