package service

import (
	"context"
	"sort"
	"time"

	"buspulse/internal/models"
)

// Фейковые репозитории в памяти повторяют upsert-семантику хранилища

type fakeBusRepo struct {
	buses  map[string]*models.Bus
	nextID uint
}

func newFakeBusRepo() *fakeBusRepo {
	return &fakeBusRepo{buses: make(map[string]*models.Bus), nextID: 1}
}

func (f *fakeBusRepo) Upsert(_ context.Context, busID string, capacity int) (*models.Bus, error) {
	if bus, ok := f.buses[busID]; ok {
		if bus.Capacity != capacity {
			bus.Capacity = capacity
		}
		copied := *bus
		return &copied, nil
	}
	bus := &models.Bus{ID: f.nextID, BusID: busID, Capacity: capacity}
	f.nextID++
	f.buses[busID] = bus
	copied := *bus
	return &copied, nil
}

func (f *fakeBusRepo) List(_ context.Context) ([]models.Bus, error) {
	var out []models.Bus
	for _, b := range f.buses {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BusID < out[j].BusID })
	return out, nil
}

func (f *fakeBusRepo) Count(_ context.Context) (int64, error) {
	return int64(len(f.buses)), nil
}

type fakeStopRepo struct {
	stops  map[string]*models.BusStop
	nextID uint
}

func newFakeStopRepo() *fakeStopRepo {
	return &fakeStopRepo{stops: make(map[string]*models.BusStop), nextID: 1}
}

func (f *fakeStopRepo) Upsert(_ context.Context, stopID, name string, lat, lon *float64) (*models.BusStop, error) {
	if stop, ok := f.stops[stopID]; ok {
		stop.Name = name
		if lat != nil && lon != nil {
			stop.Latitude = *lat
			stop.Longitude = *lon
		}
		copied := *stop
		return &copied, nil
	}
	stop := &models.BusStop{ID: f.nextID, StopID: stopID, Name: name}
	if lat != nil && lon != nil {
		stop.Latitude = *lat
		stop.Longitude = *lon
	}
	f.nextID++
	f.stops[stopID] = stop
	copied := *stop
	return &copied, nil
}

func (f *fakeStopRepo) GetByStopID(_ context.Context, stopID string) (*models.BusStop, error) {
	stop, ok := f.stops[stopID]
	if !ok {
		return nil, nil
	}
	copied := *stop
	return &copied, nil
}

func (f *fakeStopRepo) List(_ context.Context) ([]models.BusStop, error) {
	var out []models.BusStop
	for _, s := range f.stops {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StopID < out[j].StopID })
	return out, nil
}

func (f *fakeStopRepo) Count(_ context.Context) (int64, error) {
	return int64(len(f.stops)), nil
}

type fakeGPSRepo struct {
	records []models.GPSRecord
	nextID  uint
}

func newFakeGPSRepo() *fakeGPSRepo {
	return &fakeGPSRepo{nextID: 1}
}

func (f *fakeGPSRepo) Create(_ context.Context, record *models.GPSRecord) error {
	record.ID = f.nextID
	f.nextID++
	f.records = append(f.records, *record)
	return nil
}

func (f *fakeGPSRepo) Count(_ context.Context) (int64, error) {
	return int64(len(f.records)), nil
}

func (f *fakeGPSRepo) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	var kept []models.GPSRecord
	var deleted int64
	for _, r := range f.records {
		if r.Timestamp.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, r)
	}
	f.records = kept
	return deleted, nil
}

type fakeCrowdingRepo struct {
	samples []models.CrowdingSample
	nextID  uint
}

func newFakeCrowdingRepo() *fakeCrowdingRepo {
	return &fakeCrowdingRepo{nextID: 1}
}

func (f *fakeCrowdingRepo) Create(_ context.Context, sample *models.CrowdingSample) error {
	sample.ID = f.nextID
	f.nextID++
	f.samples = append(f.samples, *sample)
	return nil
}

func (f *fakeCrowdingRepo) LatestForBus(_ context.Context, busID uint) (*models.CrowdingSample, error) {
	var latest *models.CrowdingSample
	for i := range f.samples {
		s := &f.samples[i]
		if s.BusID != busID {
			continue
		}
		if latest == nil || s.Timestamp.After(latest.Timestamp) {
			latest = s
		}
	}
	if latest == nil {
		return nil, nil
	}
	copied := *latest
	return &copied, nil
}

func (f *fakeCrowdingRepo) RecentForBus(_ context.Context, busID uint, limit int) ([]models.CrowdingSample, error) {
	var out []models.CrowdingSample
	for _, s := range f.samples {
		if s.BusID == busID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeCrowdingRepo) Count(_ context.Context) (int64, error) {
	return int64(len(f.samples)), nil
}

func (f *fakeCrowdingRepo) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	var kept []models.CrowdingSample
	var deleted int64
	for _, s := range f.samples {
		if s.Timestamp.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, s)
	}
	f.samples = kept
	return deleted, nil
}

type fakeEtaRepo struct {
	samples []models.EtaSample
	nextID  uint
}

func newFakeEtaRepo() *fakeEtaRepo {
	return &fakeEtaRepo{nextID: 1}
}

func (f *fakeEtaRepo) Create(_ context.Context, sample *models.EtaSample) error {
	sample.ID = f.nextID
	f.nextID++
	f.samples = append(f.samples, *sample)
	return nil
}

func (f *fakeEtaRepo) LatestForBusAndStop(_ context.Context, busID, stopID uint) (*models.EtaSample, error) {
	var latest *models.EtaSample
	for i := range f.samples {
		s := &f.samples[i]
		if s.BusID != busID || s.StopID != stopID {
			continue
		}
		if latest == nil || s.SourceTimestamp.After(latest.SourceTimestamp) {
			latest = s
		}
	}
	if latest == nil {
		return nil, nil
	}
	copied := *latest
	return &copied, nil
}

func (f *fakeEtaRepo) RecentForBusAndStop(_ context.Context, busID, stopID uint, limit int) ([]models.EtaSample, error) {
	var out []models.EtaSample
	for _, s := range f.samples {
		if s.BusID == busID && s.StopID == stopID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SourceTimestamp.After(out[j].SourceTimestamp) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeEtaRepo) Count(_ context.Context) (int64, error) {
	return int64(len(f.samples)), nil
}

func (f *fakeEtaRepo) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	var kept []models.EtaSample
	var deleted int64
	for _, s := range f.samples {
		if s.SourceTimestamp.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, s)
	}
	f.samples = kept
	return deleted, nil
}
