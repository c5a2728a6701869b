package alicloud

import (
	"context"
	"errors"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"

	"cloudquote/internal/domain"
	"cloudquote/internal/port"
)

// Error codes the price API answers with when no subscription pricing
// plan exists for the requested instance type in the region.
var noPricingPlanCodes = map[string]bool{
	"PriceNotFound":                         true,
	"Price.PricingPlanResultNotFound":       true,
	"InvalidInstanceType.NotSupported":      true,
	"InvalidInstanceType.ValueNotSupported": true,
}

type priceResponse struct {
	RequestID string `json:"RequestId"`
	PriceInfo *struct {
		Price struct {
			Currency      string  `json:"Currency"`
			OriginalPrice float64 `json:"OriginalPrice"`
			TradePrice    float64 `json:"TradePrice"`
			DiscountPrice float64 `json:"DiscountPrice"`
		} `json:"Price"`
	} `json:"PriceInfo"`
}

// DescribePrice quotes one subscription instance and returns the original
// (undiscounted) price. A missing pricing plan comes back as
// *domain.PriceUnavailableError; transport and other API failures are
// returned as-is.
func (c *Client) DescribePrice(ctx context.Context, q port.PriceQuery) (decimal.Decimal, error) {
	params := url.Values{}
	params.Set("RegionId", q.Region)
	params.Set("ResourceType", "instance")
	params.Set("InstanceType", q.InstanceType)
	if q.ChargeType != "" {
		params.Set("InstanceChargeType", string(q.ChargeType))
	}
	params.Set("PriceUnit", string(q.Unit))
	params.Set("Period", strconv.Itoa(q.Period))
	params.Set("SystemDisk.Size", strconv.Itoa(q.SystemDiskGB))
	params.Set("SystemDisk.Category", q.DiskCategory)
	if q.DataDiskGB > 0 {
		params.Set("DataDisk.1.Size", strconv.Itoa(q.DataDiskGB))
		params.Set("DataDisk.1.Category", q.DiskCategory)
	}

	var resp priceResponse
	if err := c.do(ctx, "DescribePrice", params, &resp); err != nil {
		var apiErr *domain.RemoteAPIError
		if errors.As(err, &apiErr) && noPricingPlanCodes[apiErr.Code] {
			return decimal.Zero, &domain.PriceUnavailableError{
				InstanceType: q.InstanceType,
				Region:       q.Region,
				Cause:        err,
			}
		}
		return decimal.Zero, err
	}
	if resp.PriceInfo == nil || resp.PriceInfo.Price.OriginalPrice <= 0 {
		return decimal.Zero, &domain.PriceUnavailableError{
			InstanceType: q.InstanceType,
			Region:       q.Region,
			Cause:        errors.New("price missing from response"),
		}
	}
	return decimal.NewFromFloat(resp.PriceInfo.Price.OriginalPrice), nil
}
