package service

import (
	"context"
	"fmt"

	"buspulse/internal/models"
	"buspulse/internal/repository"
	"buspulse/internal/utils"

	"github.com/xuri/excelize/v2"
)

// ExportService строит выгрузку "Latest Status": одна строка на машину,
// сортировка по идентификатору
type ExportService interface {
	LatestStatusWorkbook(ctx context.Context, stopID string) (*excelize.File, error)
}

type exportService struct {
	buses    repository.BusRepository
	stops    repository.StopRepository
	crowding repository.CrowdingRepository
	eta      repository.EtaRepository
}

func NewExportService(
	buses repository.BusRepository,
	stops repository.StopRepository,
	crowdingRepo repository.CrowdingRepository,
	eta repository.EtaRepository,
) ExportService {
	return &exportService{
		buses:    buses,
		stops:    stops,
		crowding: crowdingRepo,
		eta:      eta,
	}
}

func (s *exportService) LatestStatusWorkbook(ctx context.Context, stopID string) (*excelize.File, error) {
	buses, err := s.buses.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list buses: %w", err)
	}

	var stop *models.BusStop
	if stopID != "" {
		stop, err = s.stops.GetByStopID(ctx, stopID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve stop %q: %w", stopID, err)
		}
	}

	rows := make([]utils.LatestStatusRow, 0, len(buses))
	for _, bus := range buses {
		row := utils.LatestStatusRow{
			BusID:         bus.BusID,
			Capacity:      bus.Capacity,
			CrowdingLevel: "N/A",
		}

		latest, err := s.crowding.LatestForBus(ctx, bus.ID)
		if err != nil {
			return nil, err
		}
		if latest != nil {
			ratio := latest.OccupancyRatio
			ts := latest.Timestamp
			row.CrowdingLevel = latest.Level
			row.OccupancyRatio = &ratio
			row.CrowdingTimestamp = &ts
		}

		// Без выбранной остановки колонки stop/eta остаются пустыми
		if stop != nil {
			latestEta, err := s.eta.LatestForBusAndStop(ctx, bus.ID, stop.ID)
			if err != nil {
				return nil, err
			}
			if latestEta != nil {
				row.StopID = stop.StopID
				row.StopName = stop.Name
				dist := latestEta.DistanceM
				row.DistanceM = &dist
				ts := latestEta.SourceTimestamp
				row.EtaSourceTimestamp = &ts
				if latestEta.EtaMinutes != nil {
					mins := *latestEta.EtaMinutes
					row.EtaMinutes = &mins
				}
			}
		}

		rows = append(rows, row)
	}

	return utils.BuildLatestStatusWorkbook(rows)
}
