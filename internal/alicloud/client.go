package alicloud

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"cloudquote/internal/config"
	"cloudquote/internal/domain"
)

const (
	signatureAlgorithm = "ACS3-HMAC-SHA256"
	ecsAPIVersion      = "2014-05-26"
)

// Client is a minimal ECS OpenAPI client signing requests with the V3
// (ACS3-HMAC-SHA256) scheme.
type Client struct {
	accessKeyID     string
	accessKeySecret string
	endpoint        string
	region          string
	http            *http.Client
	logger          *zap.Logger

	// now and nonce are swapped out by tests for deterministic signing.
	now   func() time.Time
	nonce func() string
}

func NewClient(cfg config.AliCloudConfig, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		accessKeyID:     cfg.AccessKeyID,
		accessKeySecret: cfg.AccessKeySecret,
		endpoint:        strings.TrimSuffix(cfg.Endpoint, "/"),
		region:          cfg.Region,
		http:            &http.Client{Timeout: timeout},
		logger:          logger,
		now:             time.Now,
		nonce:           randomNonce,
	}
}

// Region returns the default region the client was configured with.
func (c *Client) Region() string { return c.region }

type apiErrorBody struct {
	RequestID string `json:"RequestId"`
	Code      string `json:"Code"`
	Message   string `json:"Message"`
}

// do performs one RPC-style API call and unmarshals the response into out.
func (c *Client) do(ctx context.Context, action string, params url.Values, out any) error {
	query := canonicalQuery(params)
	reqURL := c.endpoint + "/?" + query

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, nil)
	if err != nil {
		return fmt.Errorf("alicloud: build request: %w", err)
	}

	host := req.URL.Host
	payloadHash := sha256Hex(nil)
	headers := map[string]string{
		"host":                  host,
		"x-acs-action":          action,
		"x-acs-version":         ecsAPIVersion,
		"x-acs-date":            c.now().UTC().Format("2006-01-02T15:04:05Z"),
		"x-acs-signature-nonce": c.nonce(),
		"x-acs-content-sha256":  payloadHash,
	}
	for k, v := range headers {
		if k != "host" {
			req.Header.Set(k, v)
		}
	}
	req.Header.Set("Authorization", c.authorization(http.MethodPost, "/", query, headers, payloadHash))

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("alicloud: %s: send request: %w", action, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("alicloud: %s: read response: %w", action, err)
	}
	c.logger.Debug("api call",
		zap.String("action", action),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode != http.StatusOK {
		var body apiErrorBody
		_ = json.Unmarshal(raw, &body)
		return &domain.RemoteAPIError{
			API:        action,
			StatusCode: resp.StatusCode,
			Code:       body.Code,
			Message:    firstNonEmpty(body.Message, string(raw)),
			RequestID:  body.RequestID,
		}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("alicloud: %s: decode response: %w", action, err)
	}
	return nil
}

// authorization builds the ACS3-HMAC-SHA256 Authorization header value.
func (c *Client) authorization(method, path, query string, headers map[string]string, payloadHash string) string {
	names := make([]string, 0, len(headers))
	for k := range headers {
		names = append(names, k)
	}
	sort.Strings(names)

	var canonHeaders strings.Builder
	for _, k := range names {
		canonHeaders.WriteString(k)
		canonHeaders.WriteString(":")
		canonHeaders.WriteString(strings.TrimSpace(headers[k]))
		canonHeaders.WriteString("\n")
	}
	signedHeaders := strings.Join(names, ";")

	canonicalRequest := strings.Join([]string{
		method, path, query, canonHeaders.String(), signedHeaders, payloadHash,
	}, "\n")

	stringToSign := signatureAlgorithm + "\n" + sha256Hex([]byte(canonicalRequest))
	mac := hmac.New(sha256.New, []byte(c.accessKeySecret))
	mac.Write([]byte(stringToSign))
	signature := hex.EncodeToString(mac.Sum(nil))

	return fmt.Sprintf("%s Credential=%s,SignedHeaders=%s,Signature=%s",
		signatureAlgorithm, c.accessKeyID, signedHeaders, signature)
}

// canonicalQuery renders params sorted by key with RFC 3986 escaping, as
// the signature scheme requires.
func canonicalQuery(params url.Values) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteString("&")
		}
		b.WriteString(percentEncode(k))
		b.WriteString("=")
		b.WriteString(percentEncode(params.Get(k)))
	}
	return b.String()
}

func percentEncode(s string) string {
	escaped := url.QueryEscape(s)
	escaped = strings.ReplaceAll(escaped, "+", "%20")
	escaped = strings.ReplaceAll(escaped, "*", "%2A")
	return strings.ReplaceAll(escaped, "%7E", "~")
}

func sha256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func randomNonce() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
