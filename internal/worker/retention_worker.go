package worker

import (
	"context"
	"log"
	"time"

	"buspulse/internal/repository"
)

// RetentionWorker периодически удаляет телеметрию и производные записи
// старше заданного возраста
type RetentionWorker struct {
	gps      repository.GPSRepository
	crowding repository.CrowdingRepository
	eta      repository.EtaRepository
	maxAge   time.Duration
	interval time.Duration
	stopChan chan struct{}
	running  bool
}

func NewRetentionWorker(
	gps repository.GPSRepository,
	crowding repository.CrowdingRepository,
	eta repository.EtaRepository,
	maxAge, interval time.Duration,
) *RetentionWorker {
	return &RetentionWorker{
		gps:      gps,
		crowding: crowding,
		eta:      eta,
		maxAge:   maxAge,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

func (w *RetentionWorker) Start() {
	if w.running {
		return
	}

	w.running = true
	log.Printf("Retention Worker started (max age: %v, interval: %v)", w.maxAge, w.interval)

	// Первый проход сразу при старте
	w.prune()

	go w.run()
}

func (w *RetentionWorker) Stop() {
	if !w.running {
		return
	}

	close(w.stopChan)
	w.running = false
	log.Println("Retention Worker stopped")
}

func (w *RetentionWorker) run() {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.prune()
		case <-w.stopChan:
			return
		}
	}
}

func (w *RetentionWorker) prune() {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	cutoff := time.Now().UTC().Add(-w.maxAge)

	gpsDeleted, err := w.gps.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		log.Printf("Retention Worker: failed to prune gps records: %v", err)
	}
	crowdingDeleted, err := w.crowding.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		log.Printf("Retention Worker: failed to prune crowding samples: %v", err)
	}
	etaDeleted, err := w.eta.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		log.Printf("Retention Worker: failed to prune eta samples: %v", err)
	}

	if gpsDeleted+crowdingDeleted+etaDeleted > 0 {
		log.Printf("Retention Worker: pruned %d gps, %d crowding, %d eta records older than %v",
			gpsDeleted, crowdingDeleted, etaDeleted, cutoff.Format("2006-01-02 15:04:05"))
	}
}
