package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/ray-remotestate/restroadmin/models"
)

type StatsService struct {
	store AmountStore
}

func NewStatsService(store AmountStore) *StatsService {
	return &StatsService{store: store}
}

// Summarize counts orders per status and sums total_amount over delivered
// orders. Every status is reported, with zero when there are none.
func (s *StatsService) Summarize(ctx context.Context, window models.StatsWindow) (*models.OrderStats, error) {
	const op = "summarize orders"
	if !window.From.IsZero() && !window.To.IsZero() && !window.From.Before(window.To) {
		return nil, models.WithOp(op, models.NewError(models.KindValidation, "from must be before to"))
	}

	amounts, err := s.store.ListOrderAmounts(ctx, window)
	if err != nil {
		return nil, models.WithOp(op, err)
	}
	return aggregate(amounts), nil
}

func aggregate(amounts []models.OrderAmount) *models.OrderStats {
	stats := &models.OrderStats{TotalRevenue: decimal.Zero}
	for _, a := range amounts {
		stats.TotalOrders++
		switch a.Status {
		case models.OrderStatusPending:
			stats.Pending++
		case models.OrderStatusPreparing:
			stats.Preparing++
		case models.OrderStatusDelivered:
			stats.Delivered++
			stats.TotalRevenue = stats.TotalRevenue.Add(a.TotalAmount)
		case models.OrderStatusCancelled:
			stats.Cancelled++
		}
	}
	return stats
}
