// Periodically re-reconciles the payment status of orders with recent
// payment or refund activity. It is the backstop for reconciliations
// missed inline, for example when a downstream processor confirms a
// charge out of band.
package async

import (
	"context"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/sirupsen/logrus"

	"github.com/bloom-commerce/bloom-server/pkg/bloom/async"
	bloom_data "github.com/bloom-commerce/bloom-server/pkg/bloom/data"
	"github.com/bloom-commerce/bloom-server/pkg/bloom/data/payment"
	"github.com/bloom-commerce/bloom-server/pkg/bloom/data/refund"
	"github.com/bloom-commerce/bloom-server/pkg/bloom/settlement"
	"github.com/bloom-commerce/bloom-server/pkg/metrics"
	"github.com/bloom-commerce/bloom-server/pkg/retry"
	"github.com/bloom-commerce/bloom-server/pkg/retry/backoff"
)

const (
	sweepCompletedEventName = "SettlementSweepCompleted"
)

type service struct {
	log  *logrus.Entry
	data bloom_data.Provider
	conf *conf
}

func New(data bloom_data.Provider, configProvider ConfigProvider) async.Service {
	return &service{
		log:  logrus.StandardLogger().WithField("service", "settlement_sweep"),
		data: data,
		conf: configProvider(),
	}
}

func (p *service) Start(serviceCtx context.Context, interval time.Duration) error {
	for {
		_, err := retry.Retry(
			func() error {
				p.log.Trace("sweeping orders with recent payment activity")

				nr := serviceCtx.Value(metrics.NewRelicContextKey).(*newrelic.Application)
				m := nr.StartTransaction("async__settlement_sweep")
				defer m.End()
				tracedCtx := newrelic.NewContext(serviceCtx, m)

				err := p.sweep(tracedCtx)
				if err != nil {
					m.NoticeError(err)
					p.log.WithError(err).Warn("failed to sweep recent payment activity")
				}

				return err
			},
			retry.NonRetriableErrors(context.Canceled),
			retry.BackoffWithJitter(backoff.BinaryExponential(time.Second), interval, 0.1),
		)
		if err != nil {
			if err != context.Canceled {
				// Should not happen since only non-retriable error is context.Canceled
				p.log.WithError(err).Warn("unexpected error when sweeping recent payment activity")
			}

			return err
		}

		select {
		case <-serviceCtx.Done():
			return serviceCtx.Err()
		case <-time.After(interval):
		}
	}
}

func (p *service) sweep(ctx context.Context) error {
	since := time.Now().Add(-p.conf.lookback.Get(ctx))

	orderIds, err := p.ordersWithActivitySince(ctx, since)
	if err != nil {
		return err
	}
	if len(orderIds) == 0 {
		return nil
	}

	updated, err := settlement.Reconcile(ctx, p.data, orderIds)
	if err != nil {
		return err
	}

	metrics.RecordEvent(ctx, sweepCompletedEventName, map[string]interface{}{
		"orders":  len(orderIds),
		"updated": updated,
	})

	if updated > 0 {
		p.log.
			WithField("orders", len(orderIds)).
			WithField("updated", updated).
			Info("reconciled orders with recent payment activity")
	}

	return nil
}

func (p *service) ordersWithActivitySince(ctx context.Context, since time.Time) ([]string, error) {
	var orderIds []string

	fromPayments, err := p.data.GetOrderIdsWithPaymentActivitySince(ctx, since)
	if err != nil && err != payment.ErrNotFound {
		return nil, err
	}
	orderIds = append(orderIds, fromPayments...)

	fromRefunds, err := p.data.GetOrderIdsWithRefundActivitySince(ctx, since)
	if err != nil && err != refund.ErrNotFound {
		return nil, err
	}
	orderIds = append(orderIds, fromRefunds...)

	return orderIds, nil
}
