package jobs

import (
	"context"
	"log"
	"time"

	"nimbusdrive/services"
)

// ReservationSweeper periodically removes upload reservations whose
// presigned URL has expired without a matching commit.
type ReservationSweeper struct {
	uploads  *services.UploadService
	interval time.Duration
	logger   *log.Logger
}

func NewReservationSweeper(uploads *services.UploadService, interval time.Duration) *ReservationSweeper {
	return &ReservationSweeper{
		uploads:  uploads,
		interval: interval,
		logger:   log.New(log.Writer(), "[RESERVATION_SWEEPER] ", log.LstdFlags),
	}
}

// Start runs the sweep loop until the context is cancelled. It sweeps once
// immediately and then on every tick.
func (rs *ReservationSweeper) Start(ctx context.Context) {
	rs.logger.Println("Starting reservation sweeper job...")

	rs.runSweep(ctx)

	ticker := time.NewTicker(rs.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			rs.logger.Println("Stopping reservation sweeper job")
			return
		case <-ticker.C:
			rs.runSweep(ctx)
		}
	}
}

func (rs *ReservationSweeper) runSweep(ctx context.Context) {
	sweepCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	swept, err := rs.uploads.SweepStaleReservations(sweepCtx)
	if err != nil {
		rs.logger.Printf("Error sweeping stale reservations: %v", err)
		return
	}
	if swept > 0 {
		rs.logger.Printf("Swept %d stale reservations", swept)
	}
}
