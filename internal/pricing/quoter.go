package pricing

import (
	"context"

	"go.uber.org/zap"

	"cloudquote/internal/domain"
	"cloudquote/internal/port"
)

// Options shape every price query a Quoter issues.
type Options struct {
	ChargeType   domain.ChargeType
	Unit         domain.PriceUnit
	Period       int
	SystemDiskGB int
}

// DefaultOptions quote one month of a prepaid instance with a 40 GB
// system disk.
func DefaultOptions() Options {
	return Options{
		ChargeType:   domain.ChargePrePaid,
		Unit:         domain.UnitMonth,
		Period:       1,
		SystemDiskGB: 40,
	}
}

// Quoter prices a resolved instance type.
type Quoter interface {
	Quote(ctx context.Context, region string, sku domain.SKUCandidate, storageGB int) (*domain.PriceQuote, error)
}

type quoter struct {
	api    port.PriceAPI
	opts   Options
	logger *zap.Logger
}

func New(api port.PriceAPI, opts Options, logger *zap.Logger) Quoter {
	if opts.Period < 1 {
		opts.Period = 1
	}
	if opts.SystemDiskGB <= 0 {
		opts.SystemDiskGB = 40
	}
	return &quoter{api: api, opts: opts, logger: logger}
}

// Quote fetches the monthly subscription price for sku, attaching a data
// disk of storageGB when the requirement asked for one.
func (q *quoter) Quote(ctx context.Context, region string, sku domain.SKUCandidate, storageGB int) (*domain.PriceQuote, error) {
	category := DiskCategoryFor(sku.InstanceType)
	price, err := q.api.DescribePrice(ctx, port.PriceQuery{
		Region:       region,
		InstanceType: sku.InstanceType,
		ChargeType:   q.opts.ChargeType,
		Unit:         q.opts.Unit,
		Period:       q.opts.Period,
		SystemDiskGB: q.opts.SystemDiskGB,
		DiskCategory: category,
		DataDiskGB:   storageGB,
	})
	if err != nil {
		return nil, err
	}
	q.logger.Debug("price quoted",
		zap.String("instance_type", sku.InstanceType),
		zap.String("disk_category", category),
		zap.String("monthly", price.String()))
	return &domain.PriceQuote{Monthly: price, DiskCategory: category}, nil
}
