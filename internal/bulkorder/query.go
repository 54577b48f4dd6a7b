package bulkorder

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bulk-order-api-server/internal/auth"
	"bulk-order-api-server/internal/models"

	"golang.org/x/sync/errgroup"
)

const recentWindow = 30 * 24 * time.Hour

// ListOwn returns the caller's orders, newest submission first.
func (s *Service) ListOwn(ctx context.Context, caller auth.Caller, page Page) (*OrderList, error) {
	owner := caller.UserID
	return s.list(ctx, ListFilter{User: &owner}, page)
}

// Detail returns one of the caller's orders. Orders owned by someone else are
// reported as not found.
func (s *Service) Detail(ctx context.Context, caller auth.Caller, orderID string) (*OrderView, error) {
	id, err := parseOrderID(orderID)
	if err != nil {
		return nil, err
	}
	order, err := s.store.FindOwned(ctx, id, caller.UserID)
	if err != nil {
		return nil, wrapStoreErr("load bulk order", err)
	}
	return s.view(ctx, order)
}

// ListAll returns every order for administrators, optionally narrowed to one
// status. An unrecognised status is ignored rather than rejected.
func (s *Service) ListAll(ctx context.Context, caller auth.Caller, status string, page Page) (*OrderList, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	filter := ListFilter{}
	if st := models.OrderStatus(strings.TrimSpace(status)); st.Valid() {
		filter.Status = st
	}

	list, err := s.list(ctx, filter, page)
	if err != nil {
		return nil, err
	}
	counts, err := s.store.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("count bulk orders by status: %w", err)
	}
	list.StatusCounts = zeroFilledStatusCounts(counts)
	return list, nil
}

func (s *Service) list(ctx context.Context, filter ListFilter, page Page) (*OrderList, error) {
	page = NewPage(page.Number, page.Limit)
	orders, total, err := s.store.List(ctx, filter, page)
	if err != nil {
		return nil, fmt.Errorf("list bulk orders: %w", err)
	}
	views, err := s.views(ctx, orders...)
	if err != nil {
		return nil, err
	}
	return &OrderList{
		Orders: views,
		Pagination: Pagination{
			Page:  page.Number,
			Limit: page.Limit,
			Total: total,
			Pages: page.Pages(total),
		},
	}, nil
}

// Analytics computes the dashboard aggregates concurrently.
func (s *Service) Analytics(ctx context.Context, caller auth.Caller) (*Analytics, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}

	var (
		statusCounts map[models.OrderStatus]int64
		buyerTypes   map[models.BuyerType]int64
		recent       int64
		quantity     int64
	)
	since := s.now().Add(-recentWindow)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		statusCounts, err = s.store.CountByStatus(gctx)
		return err
	})
	g.Go(func() (err error) {
		buyerTypes, err = s.store.CountByBuyerType(gctx)
		return err
	})
	g.Go(func() (err error) {
		recent, err = s.store.CountSubmittedSince(gctx, since)
		return err
	})
	g.Go(func() (err error) {
		quantity, err = s.store.SumTotalQuantity(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load analytics: %w", err)
	}

	counts := zeroFilledStatusCounts(statusCounts)
	var total int64
	for _, n := range counts {
		total += n
	}

	types := make(map[models.BuyerType]int64, len(models.BuyerTypes))
	for _, bt := range models.BuyerTypes {
		types[bt] = buyerTypes[bt]
	}

	return &Analytics{
		StatusCounts:  counts,
		RecentOrders:  recent,
		TotalQuantity: quantity,
		BuyerTypes:    types,
		TotalOrders:   total,
	}, nil
}

func zeroFilledStatusCounts(in map[models.OrderStatus]int64) map[models.OrderStatus]int64 {
	out := make(map[models.OrderStatus]int64, len(models.OrderStatuses))
	for _, st := range models.OrderStatuses {
		out[st] = in[st]
	}
	return out
}
