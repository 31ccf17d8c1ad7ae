package service

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"buspulse/internal/models"
	"buspulse/internal/repository"
)

// BusCard - сводка по машине для карточки дашборда
type BusCard struct {
	BusID          string     `json:"bus_id"`
	Capacity       int        `json:"capacity"`
	Level          string     `json:"level,omitempty"`
	OccupancyRatio *float64   `json:"occupancy_ratio,omitempty"`
	Timestamp      *time.Time `json:"timestamp,omitempty"`
	EtaMinutes     *float64   `json:"eta_minutes,omitempty"`
	DistanceM      *float64   `json:"distance_m,omitempty"`
}

// BusSeries - ряды для графиков одной машины. Ряд ETA выровнен с рядом
// загруженности по рангу свежести, а не по точному совпадению меток времени -
// осознанное приближение, сохранено как есть.
type BusSeries struct {
	BusID      string     `json:"bus_id"`
	Occupancy  []float64  `json:"occupancy"`
	EtaMinutes []*float64 `json:"eta_minutes,omitempty"`
}

// ChartData - общие подписи берутся из меток загруженности первой машины;
// при разных моментах замеров это упрощение
type ChartData struct {
	Labels []string    `json:"labels"`
	Series []BusSeries `json:"series"`
}

type DashboardData struct {
	GeneratedAt time.Time       `json:"generated_at"`
	Stop        *models.BusStop `json:"stop,omitempty"`
	Buses       []BusCard       `json:"buses"`
	Chart       ChartData       `json:"chart"`
}

// DashboardService - read-side агрегация: свежайшие записи по машинам и
// ограниченные временные ряды. Работает независимо от загрузки.
type DashboardService interface {
	Overview(ctx context.Context, stopID string) (*DashboardData, error)
}

type dashboardService struct {
	buses        repository.BusRepository
	stops        repository.StopRepository
	crowding     repository.CrowdingRepository
	eta          repository.EtaRepository
	cache        repository.CacheRepository
	seriesWindow int
	cacheTTL     time.Duration
}

func NewDashboardService(
	buses repository.BusRepository,
	stops repository.StopRepository,
	crowdingRepo repository.CrowdingRepository,
	eta repository.EtaRepository,
	cache repository.CacheRepository,
	seriesWindow int,
	cacheTTL time.Duration,
) DashboardService {
	if seriesWindow < 1 {
		seriesWindow = 20
	}
	return &dashboardService{
		buses:        buses,
		stops:        stops,
		crowding:     crowdingRepo,
		eta:          eta,
		cache:        cache,
		seriesWindow: seriesWindow,
		cacheTTL:     cacheTTL,
	}
}

func (s *dashboardService) Overview(ctx context.Context, stopID string) (*DashboardData, error) {
	cacheKey := dashboardCacheKey(stopID)
	if s.cache != nil {
		var cached DashboardData
		hit, err := s.cache.GetJSON(ctx, cacheKey, &cached)
		if err != nil {
			log.Printf("Dashboard cache read failed: %v", err)
		} else if hit {
			return &cached, nil
		}
	}

	data, err := s.buildOverview(ctx, stopID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, cacheKey, data, s.cacheTTL); err != nil {
			log.Printf("Dashboard cache write failed: %v", err)
		}
	}

	return data, nil
}

func (s *dashboardService) buildOverview(ctx context.Context, stopID string) (*DashboardData, error) {
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

	data := &DashboardData{
		GeneratedAt: time.Now().UTC(),
		Stop:        stop,
		Buses:       make([]BusCard, 0, len(buses)),
	}

	for _, bus := range buses {
		card := BusCard{BusID: bus.BusID, Capacity: bus.Capacity}

		latest, err := s.crowding.LatestForBus(ctx, bus.ID)
		if err != nil {
			return nil, err
		}
		if latest != nil {
			ratio := roundTo(latest.OccupancyRatio, 3)
			ts := latest.Timestamp
			card.Level = latest.Level
			card.OccupancyRatio = &ratio
			card.Timestamp = &ts
		}

		if stop != nil {
			latestEta, err := s.eta.LatestForBusAndStop(ctx, bus.ID, stop.ID)
			if err != nil {
				return nil, err
			}
			if latestEta != nil {
				dist := latestEta.DistanceM
				card.DistanceM = &dist
				if latestEta.EtaMinutes != nil {
					mins := roundTo(*latestEta.EtaMinutes, 1)
					card.EtaMinutes = &mins
				}
			}
		}

		data.Buses = append(data.Buses, card)

		series, err := s.buildSeries(ctx, &bus, stop)
		if err != nil {
			return nil, err
		}
		if len(series.Occupancy) > 0 {
			// Подписи - метки времени первой машины с данными
			if len(data.Chart.Labels) == 0 {
				labels, err := s.seriesLabels(ctx, &bus)
				if err != nil {
					return nil, err
				}
				data.Chart.Labels = labels
			}
			data.Chart.Series = append(data.Chart.Series, series)
		}
	}

	return data, nil
}

// buildSeries возвращает последние N замеров в хронологическом порядке
// (старейший из окна первым)
func (s *dashboardService) buildSeries(ctx context.Context, bus *models.Bus, stop *models.BusStop) (BusSeries, error) {
	series := BusSeries{BusID: bus.BusID}

	samples, err := s.crowding.RecentForBus(ctx, bus.ID, s.seriesWindow)
	if err != nil {
		return series, err
	}
	reverseCrowding(samples)
	for _, sample := range samples {
		series.Occupancy = append(series.Occupancy, roundTo(sample.OccupancyRatio, 3))
	}

	if stop != nil && len(samples) > 0 {
		etas, err := s.eta.RecentForBusAndStop(ctx, bus.ID, stop.ID, s.seriesWindow)
		if err != nil {
			return series, err
		}
		reverseEta(etas)
		for _, e := range etas {
			if e.EtaMinutes != nil {
				mins := roundTo(*e.EtaMinutes, 1)
				series.EtaMinutes = append(series.EtaMinutes, &mins)
			} else {
				series.EtaMinutes = append(series.EtaMinutes, nil)
			}
		}
	}

	return series, nil
}

func (s *dashboardService) seriesLabels(ctx context.Context, bus *models.Bus) ([]string, error) {
	samples, err := s.crowding.RecentForBus(ctx, bus.ID, s.seriesWindow)
	if err != nil {
		return nil, err
	}
	reverseCrowding(samples)
	labels := make([]string, 0, len(samples))
	for _, sample := range samples {
		labels = append(labels, sample.Timestamp.UTC().Format("15:04:05"))
	}
	return labels, nil
}

func dashboardCacheKey(stopID string) string {
	if stopID == "" {
		return "dashboard:all"
	}
	return "dashboard:stop:" + stopID
}

func roundTo(v float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	return math.Round(v*scale) / scale
}

func reverseCrowding(samples []models.CrowdingSample) {
	for i, j := 0, len(samples)-1; i < j; i, j = i+1, j-1 {
		samples[i], samples[j] = samples[j], samples[i]
	}
}

func reverseEta(samples []models.EtaSample) {
	for i, j := 0, len(samples)-1; i < j; i, j = i+1, j-1 {
		samples[i], samples[j] = samples[j], samples[i]
	}
}
