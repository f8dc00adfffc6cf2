package orders

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// RunExpiryWorker cancels overdue unpaid orders every interval until ctx
// is done. A zero ttl disables the worker.
func (s *Service) RunExpiryWorker(ctx context.Context, interval, ttl time.Duration) error {
	if ttl <= 0 || interval <= 0 {
		s.log.Info("expiry worker disabled")
		return nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.log.Info("expiry worker started", zap.Duration("interval", interval), zap.Duration("ttl", ttl))
	for {
		select {
		case <-ctx.Done():
			s.log.Info("expiry worker stopped")
			return nil
		case <-ticker.C:
			n, err := s.CancelExpired(ctx, ttl)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				s.log.Error("expiry sweep failed", zap.Error(err))
				continue
			}
			if n > 0 {
				s.log.Info("expired orders cancelled", zap.Int("count", n))
			}
		}
	}
}
