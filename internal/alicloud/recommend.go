package alicloud

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"cloudquote/internal/domain"
	"cloudquote/internal/port"
)

type recommendResponse struct {
	RequestID string `json:"RequestId"`
	Data      struct {
		RecommendInstanceType []struct {
			RegionNo     string `json:"RegionNo"`
			ZoneID       string `json:"ZoneId"`
			InstanceType struct {
				InstanceType       string  `json:"InstanceType"`
				InstanceTypeFamily string  `json:"InstanceTypeFamily"`
				Cores              int     `json:"Cores"`
				Memory             float64 `json:"Memory"`
			} `json:"InstanceType"`
		} `json:"RecommendInstanceType"`
	} `json:"Data"`
}

// Recommend calls DescribeRecommendInstanceType and maps the response to
// domain candidates, preserving the service's ordering.
func (c *Client) Recommend(ctx context.Context, q port.RecommendQuery) ([]domain.SKUCandidate, error) {
	if !q.Strategy.Valid() {
		return nil, fmt.Errorf("alicloud: invalid rank strategy %q", q.Strategy)
	}

	params := url.Values{}
	params.Set("RegionId", q.Region)
	params.Set("NetworkType", "vpc")
	params.Set("Cores", strconv.Itoa(q.CPUCores))
	params.Set("Memory", strconv.FormatFloat(float64(q.MemoryGiB), 'f', -1, 64))
	params.Set("InstanceChargeType", string(domain.ChargePrePaid))
	params.Set("IoOptimized", "optimized")
	params.Set("PriorityStrategy", string(q.Strategy))
	params.Set("Scene", "CREATE")
	for i, family := range q.Families {
		params.Set(fmt.Sprintf("InstanceTypeFamily.%d", i+1), family)
	}
	if q.ZoneID != "" {
		params.Set("ZoneId", q.ZoneID)
		params.Set("ZoneMatchMode", "Include")
	}

	var resp recommendResponse
	if err := c.do(ctx, "DescribeRecommendInstanceType", params, &resp); err != nil {
		return nil, err
	}

	candidates := make([]domain.SKUCandidate, 0, len(resp.Data.RecommendInstanceType))
	for _, item := range resp.Data.RecommendInstanceType {
		candidates = append(candidates, domain.SKUCandidate{
			InstanceType:   item.InstanceType.InstanceType,
			InstanceFamily: item.InstanceType.InstanceTypeFamily,
			CPUCores:       item.InstanceType.Cores,
			MemoryGiB:      int(item.InstanceType.Memory),
			ZoneID:         item.ZoneID,
		})
	}
	return candidates, nil
}
