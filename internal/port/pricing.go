package port

import (
	"context"

	"github.com/shopspring/decimal"

	"cloudquote/internal/domain"
)

// PriceQuery are the parameters for one subscription price lookup.
type PriceQuery struct {
	Region       string
	InstanceType string
	ChargeType   domain.ChargeType
	Unit         domain.PriceUnit
	Period       int
	// SystemDiskGB and DiskCategory describe the system disk the price
	// is quoted with.
	SystemDiskGB int
	DiskCategory string
	// DataDiskGB adds one data disk of the same category when positive.
	DataDiskGB int
}

// PriceAPI fetches the original (undiscounted) price for a query.
type PriceAPI interface {
	DescribePrice(ctx context.Context, q PriceQuery) (decimal.Decimal, error)
}
