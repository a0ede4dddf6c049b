package service

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"hotelchain/internal/billing/models"
	"hotelchain/internal/billing/store/invoice"
	"hotelchain/internal/billing/store/payment"
	id "hotelchain/pkg/domain"
	"hotelchain/pkg/requestcontext"
)

const (
	summaryWindow = 30 * 24 * time.Hour
	summaryRecent = 10
)

// BranchSummary is the manager's view of a branch's money: totals over all
// time and the latest invoices and payments of the past thirty days.
func (s *Service) BranchSummary(ctx context.Context, branchID id.BranchID) (*models.Summary, error) {
	since := requestcontext.Now(ctx).Add(-summaryWindow)

	var (
		totals   invoice.Totals
		paid     id.Money
		invoices []*models.Invoice
		payments []*models.Payment
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		totals, err = s.invoices.Totals(gctx, branchID)
		return err
	})
	g.Go(func() error {
		var err error
		paid, err = s.payments.SumCompleted(gctx, branchID)
		return err
	})
	g.Go(func() error {
		var err error
		invoices, err = s.invoices.List(gctx, invoice.Filter{BranchID: branchID, IssuedSince: since, Limit: summaryRecent})
		return err
	})
	g.Go(func() error {
		var err error
		payments, err = s.payments.List(gctx, payment.Filter{BranchID: branchID, Since: since, Limit: summaryRecent})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, wrapStoreErr(err, "branch", "load billing summary")
	}

	views, err := s.views(ctx, invoices)
	if err != nil {
		return nil, err
	}
	return &models.Summary{
		TotalInvoiced:  totals.Invoiced,
		TotalPaid:      paid,
		Outstanding:    totals.Outstanding,
		RecentInvoices: views,
		RecentPayments: payments,
	}, nil
}
