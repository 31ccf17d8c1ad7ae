package utils

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

const latestStatusSheet = "Latest Status"

// LatestStatusRow - одна строка выгрузки: состояние машины на текущий момент.
// Nil-поля остаются пустыми ячейками; отсутствие crowding помечается "N/A"
// в колонке уровня.
type LatestStatusRow struct {
	BusID              string
	Capacity           int
	CrowdingLevel      string
	OccupancyRatio     *float64
	CrowdingTimestamp  *time.Time
	StopID             string
	StopName           string
	EtaMinutes         *float64
	DistanceM          *float64
	EtaSourceTimestamp *time.Time
}

var latestStatusHeader = []string{
	"bus_id", "capacity", "crowding_level", "occupancy_ratio", "crowding_timestamp",
	"stop_id", "stop_name", "eta_minutes", "distance_m", "eta_source_timestamp",
}

// BuildLatestStatusWorkbook собирает книгу с единственным листом "Latest Status"
func BuildLatestStatusWorkbook(rows []LatestStatusRow) (*excelize.File, error) {
	f := excelize.NewFile()

	index, err := f.NewSheet(latestStatusSheet)
	if err != nil {
		return nil, err
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)

	for i, header := range latestStatusHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(latestStatusSheet, cell, header); err != nil {
			return nil, err
		}
	}

	for rowIdx, row := range rows {
		rowNum := rowIdx + 2 // заголовок в первой строке

		f.SetCellValue(latestStatusSheet, fmt.Sprintf("A%d", rowNum), row.BusID)
		f.SetCellValue(latestStatusSheet, fmt.Sprintf("B%d", rowNum), row.Capacity)
		f.SetCellValue(latestStatusSheet, fmt.Sprintf("C%d", rowNum), row.CrowdingLevel)
		if row.OccupancyRatio != nil {
			f.SetCellValue(latestStatusSheet, fmt.Sprintf("D%d", rowNum), *row.OccupancyRatio)
		}
		if row.CrowdingTimestamp != nil {
			f.SetCellValue(latestStatusSheet, fmt.Sprintf("E%d", rowNum),
				row.CrowdingTimestamp.UTC().Format("2006-01-02 15:04:05"))
		}
		if row.StopID != "" {
			f.SetCellValue(latestStatusSheet, fmt.Sprintf("F%d", rowNum), row.StopID)
			f.SetCellValue(latestStatusSheet, fmt.Sprintf("G%d", rowNum), row.StopName)
		}
		if row.EtaMinutes != nil {
			f.SetCellValue(latestStatusSheet, fmt.Sprintf("H%d", rowNum), *row.EtaMinutes)
		}
		if row.DistanceM != nil {
			f.SetCellValue(latestStatusSheet, fmt.Sprintf("I%d", rowNum), *row.DistanceM)
		}
		if row.EtaSourceTimestamp != nil {
			f.SetCellValue(latestStatusSheet, fmt.Sprintf("J%d", rowNum),
				row.EtaSourceTimestamp.UTC().Format("2006-01-02 15:04:05"))
		}
	}

	// Ширина колонок под читаемость
	for i := 1; i <= len(latestStatusHeader); i++ {
		colName, _ := excelize.ColumnNumberToName(i)
		f.SetColWidth(latestStatusSheet, colName, colName, 20)
	}

	return f, nil
}
