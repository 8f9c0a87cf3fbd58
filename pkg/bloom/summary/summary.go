// Package summary produces end-of-day tender summaries over completed
// transactions.
package summary

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	bloom_data "github.com/bloom-commerce/bloom-server/pkg/bloom/data"
	"github.com/bloom-commerce/bloom-server/pkg/bloom/data/transaction"
	"github.com/bloom-commerce/bloom-server/pkg/bloom/settlement"
	q "github.com/bloom-commerce/bloom-server/pkg/database/query"
	"github.com/bloom-commerce/bloom-server/pkg/metrics"
)

const (
	metricsPackageName = "summary"
)

// Report is the per-day tender rollup. All amounts are in cents.
type Report struct {
	Day time.Time

	TransactionCount int

	GrossAmount       int64
	TaxAmount         int64
	TipAmount         int64
	SettledAmount     int64
	OutstandingAmount int64

	AmountByMethod map[transaction.MethodType]int64
}

type Service struct {
	log  *logrus.Entry
	data bloom_data.Provider
	conf *conf
}

func NewService(data bloom_data.Provider, configProvider ConfigProvider) *Service {
	return &Service{
		log:  logrus.StandardLogger().WithField("service", "summary"),
		data: data,
		conf: configProvider(),
	}
}

// GenerateDailyReport rolls up every transaction completed on the
// provided day, in the day's own location.
func (s *Service) GenerateDailyReport(ctx context.Context, day time.Time) (*Report, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsPackageName, "GenerateDailyReport")
	defer tracer.End()

	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)

	report := &Report{
		Day:            start,
		AmountByMethod: make(map[transaction.MethodType]int64),
	}

	records, err := s.data.GetAllTransactionsCompletedInRange(ctx, start, end, q.Ascending)
	if err == transaction.ErrNotFound {
		return report, nil
	} else if err != nil {
		tracer.OnError(err)
		return nil, err
	}

	for _, record := range records {
		report.TransactionCount++
		report.GrossAmount += record.Amount
		report.TaxAmount += record.TaxAmount
		report.TipAmount += record.TipAmount

		for _, method := range record.Methods {
			report.AmountByMethod[method.Type] += method.Amount

			if settlement.IsSettlingMethod(method.Type) {
				report.SettledAmount += method.Amount
			} else {
				report.OutstandingAmount += method.Amount
			}
		}
	}

	return report, nil
}

// FormatReport renders a report for logs or a printed till slip, using
// the configured locale for number formatting.
func (s *Service) FormatReport(ctx context.Context, report *Report) string {
	locale, err := language.Parse(s.conf.reportLocale.Get(ctx))
	if err != nil {
		locale = language.English
	}
	printer := message.NewPrinter(locale)

	formatCents := func(amount int64) string {
		return "$" + printer.Sprint(number.Decimal(float64(amount)/100, number.Scale(2)))
	}

	var b strings.Builder
	b.WriteString(printer.Sprintf("Daily summary for %s\n", report.Day.Format("2006-01-02")))
	b.WriteString(printer.Sprintf("Transactions: %d\n", report.TransactionCount))
	b.WriteString(printer.Sprintf("Gross: %s (tax %s, tips %s)\n",
		formatCents(report.GrossAmount),
		formatCents(report.TaxAmount),
		formatCents(report.TipAmount),
	))
	b.WriteString(printer.Sprintf("Settled: %s\n", formatCents(report.SettledAmount)))
	b.WriteString(printer.Sprintf("Outstanding: %s\n", formatCents(report.OutstandingAmount)))

	methodTypes := make([]transaction.MethodType, 0, len(report.AmountByMethod))
	for methodType := range report.AmountByMethod {
		methodTypes = append(methodTypes, methodType)
	}
	sort.Slice(methodTypes, func(i, j int) bool { return methodTypes[i] < methodTypes[j] })

	for _, methodType := range methodTypes {
		b.WriteString(printer.Sprintf("  %s: %s\n", methodType.String(), formatCents(report.AmountByMethod[methodType])))
	}

	return b.String()
}
