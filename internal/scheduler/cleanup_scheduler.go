package scheduler

import (
	"github.com/clothely/clothely-backend/internal/app/repository"
	"github.com/clothely/clothely-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// Cart items older than this are considered abandoned.
const staleCartDays = 30

// CleanupScheduler prunes abandoned cart items and orphaned variant
// images on a daily schedule.
type CleanupScheduler struct {
	cron     *cron.Cron
	carts    repository.CartRepository
	products repository.ProductRepository
}

func NewCleanupScheduler(carts repository.CartRepository, products repository.ProductRepository) *CleanupScheduler {
	return &CleanupScheduler{
		cron:     cron.New(),
		carts:    carts,
		products: products,
	}
}

// Start registers the cleanup job, daily at 04:00.
func (s *CleanupScheduler) Start() error {
	_, err := s.cron.AddFunc("0 4 * * *", func() {
		logger.Info("Starting scheduled cleanup", nil)

		removed, err := s.carts.DeleteStale(staleCartDays)
		if err != nil {
			logger.Error("Failed to clean up stale cart items", err, nil)
		} else {
			logger.Info("Stale cart items cleaned up", map[string]interface{}{
				"removed": removed,
			})
		}

		orphaned, err := s.products.DeleteOrphanedImages()
		if err != nil {
			logger.Error("Failed to clean up orphaned variant images", err, nil)
		} else if orphaned > 0 {
			logger.Info("Orphaned variant images cleaned up", map[string]interface{}{
				"removed": orphaned,
			})
		}
	})
	if err != nil {
		logger.Error("Failed to register cleanup job", err, nil)
		return err
	}

	s.cron.Start()
	logger.Info("Cleanup scheduler started (daily at 4:00 AM)", nil)
	return nil
}

// Stop halts the scheduler.
func (s *CleanupScheduler) Stop() {
	s.cron.Stop()
	logger.Info("Cleanup scheduler stopped", nil)
}
