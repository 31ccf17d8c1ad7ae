package service

import (
	"context"
	"math"
	"time"

	"buspulse/internal/crowding"
	"buspulse/internal/geo"
	"buspulse/internal/models"
	"buspulse/internal/parser"
	"buspulse/internal/repository"
)

// Числовая политика деривации (настраивается в тестах)
var (
	// KilogramsPerPassenger - принятая средняя масса пассажира
	KilogramsPerPassenger = 75.0
	// MinMovingSpeedMPS - ниже этой скорости ETA не публикуется
	MinMovingSpeedMPS = 1.0
)

// DerivationService сохраняет наблюдение и строит по нему производные записи:
// загруженность салона и оценку прибытия
type DerivationService interface {
	RecordObservation(ctx context.Context, bus *models.Bus, row *parser.Row) (*models.GPSRecord, error)
	DeriveCrowding(ctx context.Context, obs *models.GPSRecord, bus *models.Bus) (*models.CrowdingSample, error)
	DeriveEta(ctx context.Context, obs *models.GPSRecord, bus *models.Bus, stop *models.BusStop) (*models.EtaSample, error)
}

type derivationService struct {
	gps      repository.GPSRepository
	crowding repository.CrowdingRepository
	eta      repository.EtaRepository
	now      func() time.Time
}

func NewDerivationService(
	gps repository.GPSRepository,
	crowdingRepo repository.CrowdingRepository,
	eta repository.EtaRepository,
) DerivationService {
	return &derivationService{
		gps:      gps,
		crowding: crowdingRepo,
		eta:      eta,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// RecordObservation - чистая вставка, без побочной деривации
func (s *derivationService) RecordObservation(ctx context.Context, bus *models.Bus, row *parser.Row) (*models.GPSRecord, error) {
	record := &models.GPSRecord{
		BusID:     bus.ID,
		Timestamp: row.Timestamp,
		Latitude:  row.Latitude,
		Longitude: row.Longitude,
		Speed:     row.Speed,
		WeightKg:  row.WeightKg,
	}
	if err := s.gps.Create(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// DeriveCrowding создает запись только при наличии веса и вместимости > 0.
// Невыполненное условие - не ошибка: строка просто не дает сигнала загруженности.
func (s *derivationService) DeriveCrowding(ctx context.Context, obs *models.GPSRecord, bus *models.Bus) (*models.CrowdingSample, error) {
	if obs.WeightKg == nil || bus.Capacity <= 0 {
		return nil, nil
	}

	passengers := *obs.WeightKg / KilogramsPerPassenger
	ratio := passengers / float64(bus.Capacity)

	sample := &models.CrowdingSample{
		BusID:          bus.ID,
		Timestamp:      obs.Timestamp,
		OccupancyRatio: ratio,
		Level:          string(crowding.Classify(ratio)),
	}
	if err := s.crowding.Create(ctx, sample); err != nil {
		return nil, err
	}
	return sample, nil
}

// DeriveEta всегда пишет запись для строки с остановкой. Если скорость ниже
// порога, поля ETA остаются nil, но дистанция фиксируется: у стоящей машины
// расстояние отслеживается без бессмысленного времени прибытия.
func (s *derivationService) DeriveEta(ctx context.Context, obs *models.GPSRecord, bus *models.Bus, stop *models.BusStop) (*models.EtaSample, error) {
	distance := geo.Distance(obs.Latitude, obs.Longitude, stop.Latitude, stop.Longitude)
	speedMPS := geo.SpeedToMPS(obs.Speed)

	sample := &models.EtaSample{
		BusID:           bus.ID,
		StopID:          stop.ID,
		SourceTimestamp: obs.Timestamp,
		ComputedAt:      s.now(),
		DistanceM:       distance,
	}

	if speedMPS >= MinMovingSpeedMPS {
		// Усечение вниз, не округление к ближайшему
		secs := int64(math.Floor(distance / speedMPS))
		mins := float64(secs) / 60.0
		sample.EtaSeconds = &secs
		sample.EtaMinutes = &mins
	}

	if err := s.eta.Create(ctx, sample); err != nil {
		return nil, err
	}
	return sample, nil
}
