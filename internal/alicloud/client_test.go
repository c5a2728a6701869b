package alicloud

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"cloudquote/internal/config"
	"cloudquote/internal/domain"
	"cloudquote/internal/port"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient(config.AliCloudConfig{
		AccessKeyID:     "testing-ak",
		AccessKeySecret: "testing-secret",
		Endpoint:        srv.URL,
		Region:          "cn-beijing",
	}, zap.NewNop())
	c.now = func() time.Time { return time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC) }
	c.nonce = func() string { return "fixed-nonce" }
	return c
}

func TestClient_SignsRequests(t *testing.T) {
	var captured *http.Request
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		captured = r.Clone(r.Context())
		w.Write([]byte(`{"RequestId": "req-1", "Data": {"RecommendInstanceType": []}}`))
	})

	_, err := c.Recommend(context.Background(), port.RecommendQuery{
		Region: "cn-beijing", CPUCores: 4, MemoryGiB: 8,
		Strategy: domain.RankNewProductFirst,
	})
	require.NoError(t, err)
	require.NotNil(t, captured)

	auth := captured.Header.Get("Authorization")
	assert.True(t, strings.HasPrefix(auth, "ACS3-HMAC-SHA256 Credential=testing-ak,SignedHeaders="), auth)
	assert.Contains(t, auth, ",Signature=")
	assert.Equal(t, "DescribeRecommendInstanceType", captured.Header.Get("x-acs-action"))
	assert.Equal(t, ecsAPIVersion, captured.Header.Get("x-acs-version"))
	assert.Equal(t, "2026-08-01T12:00:00Z", captured.Header.Get("x-acs-date"))
	assert.Equal(t, "fixed-nonce", captured.Header.Get("x-acs-signature-nonce"))
	assert.NotEmpty(t, captured.Header.Get("x-acs-content-sha256"))

	q := captured.URL.Query()
	assert.Equal(t, "cn-beijing", q.Get("RegionId"))
	assert.Equal(t, "4", q.Get("Cores"))
	assert.Equal(t, "8", q.Get("Memory"))
	assert.Equal(t, "vpc", q.Get("NetworkType"))
	assert.Equal(t, "optimized", q.Get("IoOptimized"))
	assert.Equal(t, "PrePaid", q.Get("InstanceChargeType"))
	assert.Equal(t, "NewProductFirst", q.Get("PriorityStrategy"))
	assert.Equal(t, "CREATE", q.Get("Scene"))
}

func TestClient_Recommend(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "ecs.g8y", r.URL.Query().Get("InstanceTypeFamily.1"))
		assert.Equal(t, "ecs.c8y", r.URL.Query().Get("InstanceTypeFamily.2"))
		w.Write([]byte(`{
			"RequestId": "req-2",
			"Data": {"RecommendInstanceType": [
				{"RegionNo": "cn-beijing", "ZoneId": "cn-beijing-h",
				 "InstanceType": {"InstanceType": "ecs.g8y.xlarge", "InstanceTypeFamily": "ecs.g8y", "Cores": 4, "Memory": 8.0}},
				{"RegionNo": "cn-beijing", "ZoneId": "cn-beijing-i",
				 "InstanceType": {"InstanceType": "ecs.c8y.xlarge", "InstanceTypeFamily": "ecs.c8y", "Cores": 4, "Memory": 8.0}}
			]}
		}`))
	})

	candidates, err := c.Recommend(context.Background(), port.RecommendQuery{
		Region: "cn-beijing", CPUCores: 4, MemoryGiB: 8,
		Strategy: domain.RankInventoryFirst,
		Families: []string{"ecs.g8y", "ecs.c8y"},
	})

	require.NoError(t, err)
	require.Len(t, candidates, 2)
	assert.Equal(t, "ecs.g8y.xlarge", candidates[0].InstanceType)
	assert.Equal(t, "ecs.g8y", candidates[0].InstanceFamily)
	assert.Equal(t, 4, candidates[0].CPUCores)
	assert.Equal(t, 8, candidates[0].MemoryGiB)
	assert.Equal(t, "cn-beijing-h", candidates[0].ZoneID)
}

func TestClient_RecommendRejectsBadStrategy(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request must not be sent")
	})
	_, err := c.Recommend(context.Background(), port.RecommendQuery{
		Region: "cn-beijing", CPUCores: 4, MemoryGiB: 8,
		Strategy: domain.RankStrategy("CheapestFirst"),
	})
	assert.Error(t, err)
}

func TestClient_APIErrorMapping(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"RequestId": "req-3", "Code": "InvalidRegionId.NotFound", "Message": "The specified RegionId does not exist."}`))
	})

	_, err := c.Recommend(context.Background(), port.RecommendQuery{
		Region: "cn-nowhere", CPUCores: 4, MemoryGiB: 8,
		Strategy: domain.RankNewProductFirst,
	})

	var remote *domain.RemoteAPIError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, "DescribeRecommendInstanceType", remote.API)
	assert.Equal(t, http.StatusBadRequest, remote.StatusCode)
	assert.Equal(t, "InvalidRegionId.NotFound", remote.Code)
	assert.Equal(t, "req-3", remote.RequestID)
}

func TestClient_DescribePrice(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "DescribePrice", r.Header.Get("x-acs-action"))
		assert.Equal(t, "instance", q.Get("ResourceType"))
		assert.Equal(t, "ecs.g8y.xlarge", q.Get("InstanceType"))
		assert.Equal(t, "PrePaid", q.Get("InstanceChargeType"))
		assert.Equal(t, "Month", q.Get("PriceUnit"))
		assert.Equal(t, "1", q.Get("Period"))
		assert.Equal(t, "40", q.Get("SystemDisk.Size"))
		assert.Equal(t, "cloud_essd", q.Get("SystemDisk.Category"))
		assert.Equal(t, "500", q.Get("DataDisk.1.Size"))
		assert.Equal(t, "cloud_essd", q.Get("DataDisk.1.Category"))
		w.Write([]byte(`{
			"RequestId": "req-4",
			"PriceInfo": {"Price": {"Currency": "CNY", "OriginalPrice": 712.5, "TradePrice": 698.1, "DiscountPrice": 14.4}}
		}`))
	})

	price, err := c.DescribePrice(context.Background(), port.PriceQuery{
		Region:       "cn-beijing",
		InstanceType: "ecs.g8y.xlarge",
		ChargeType:   domain.ChargePrePaid,
		Unit:         domain.UnitMonth,
		Period:       1,
		SystemDiskGB: 40,
		DiskCategory: "cloud_essd",
		DataDiskGB:   500,
	})

	require.NoError(t, err)
	assert.Equal(t, "712.5", price.String())
}

func TestClient_DescribePriceUnavailable(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"RequestId": "req-5", "Code": "InvalidInstanceType.NotSupported", "Message": "not purchasable in this region"}`))
	})

	_, err := c.DescribePrice(context.Background(), port.PriceQuery{
		Region:       "cn-beijing",
		InstanceType: "ecs.g8y.xlarge",
		Unit:         domain.UnitMonth,
		Period:       1,
		SystemDiskGB: 40,
		DiskCategory: "cloud_essd",
	})

	var unavailable *domain.PriceUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, "ecs.g8y.xlarge", unavailable.InstanceType)
	var remote *domain.RemoteAPIError
	assert.ErrorAs(t, err, &remote)
}

func TestClient_DescribePriceMissingPriceInfo(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"RequestId": "req-6"}`))
	})

	price, err := c.DescribePrice(context.Background(), port.PriceQuery{
		Region:       "cn-beijing",
		InstanceType: "ecs.g8y.xlarge",
		Unit:         domain.UnitMonth,
		Period:       1,
		SystemDiskGB: 40,
		DiskCategory: "cloud_essd",
	})

	var unavailable *domain.PriceUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.True(t, price.IsZero())
}

func TestClient_DescribePriceKeepsOtherAPIErrors(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"RequestId": "req-7", "Code": "IncompleteSignature", "Message": "signature does not conform"}`))
	})

	_, err := c.DescribePrice(context.Background(), port.PriceQuery{
		Region:       "cn-beijing",
		InstanceType: "ecs.g8y.xlarge",
		Unit:         domain.UnitMonth,
		Period:       1,
		SystemDiskGB: 40,
		DiskCategory: "cloud_essd",
	})

	var unavailable *domain.PriceUnavailableError
	assert.False(t, errors.As(err, &unavailable))
	var remote *domain.RemoteAPIError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, "IncompleteSignature", remote.Code)
}

func TestClient_DescribePriceTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	c := NewClient(config.AliCloudConfig{
		AccessKeyID:     "testing-ak",
		AccessKeySecret: "testing-secret",
		Endpoint:        srv.URL,
		Region:          "cn-beijing",
	}, zap.NewNop())
	srv.Close()

	_, err := c.DescribePrice(context.Background(), port.PriceQuery{
		Region:       "cn-beijing",
		InstanceType: "ecs.g8y.xlarge",
		Unit:         domain.UnitMonth,
		Period:       1,
		SystemDiskGB: 40,
		DiskCategory: "cloud_essd",
	})

	require.Error(t, err)
	var unavailable *domain.PriceUnavailableError
	assert.False(t, errors.As(err, &unavailable))
}
