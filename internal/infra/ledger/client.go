package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	domain "entitlement-service/internal/domain/ledger"
	"entitlement-service/internal/domain/purchase"
	"entitlement-service/internal/pkg/config"
	"entitlement-service/internal/pkg/errs"
	"entitlement-service/internal/usecase/shared"
)

// Client is the HTTP/websocket adapter to the commerce platform. It holds no
// durable state; every method is safe to call concurrently.
type Client struct {
	http          *http.Client
	baseURL       string
	streamURL     string
	reconnectBase time.Duration
	reconnectMax  time.Duration
	logger        *slog.Logger
}

func NewClient(cfg config.LedgerConfig, logger *slog.Logger) *Client {
	return &Client{
		http:          &http.Client{Timeout: cfg.Timeout},
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		streamURL:     strings.TrimRight(cfg.StreamURL, "/"),
		reconnectBase: cfg.ReconnectBase,
		reconnectMax:  cfg.ReconnectMax,
		logger:        logger,
	}
}

type recordDTO struct {
	TransactionID string     `json:"transaction_id"`
	ProductID     string     `json:"product_id"`
	Trust         string     `json:"trust"`
	TrustReason   string     `json:"trust_reason,omitempty"`
	RevokedAt     *time.Time `json:"revoked_at,omitempty"`
}

type ownedRecordsResponse struct {
	Records []recordDTO `json:"records"`
}

type productDTO struct {
	ID           string `json:"id"`
	DisplayName  string `json:"display_name"`
	DisplayPrice string `json:"display_price"`
}

type productsResponse struct {
	Products []productDTO `json:"products"`
}

type purchaseRequest struct {
	ProductID string `json:"product_id"`
}

type purchaseResponse struct {
	Status   string `json:"status"`
	Verified bool   `json:"verified"`
	Error    string `json:"error,omitempty"`
}

func (c *Client) FetchOwnedRecords(ctx context.Context, userID uuid.UUID) ([]domain.Record, error) {
	endpoint := fmt.Sprintf("%s/v1/users/%s/entitlements", c.baseURL, userID)

	var resp ownedRecordsResponse
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, err
	}

	records := make([]domain.Record, 0, len(resp.Records))
	for _, dto := range resp.Records {
		records = append(records, toRecord(dto))
	}
	return records, nil
}

func (c *Client) FetchProducts(ctx context.Context, ids []domain.ProductID) ([]domain.ProductMetadata, error) {
	if len(ids) == 0 {
		return []domain.ProductMetadata{}, nil
	}

	params := make([]string, 0, len(ids))
	for _, id := range ids {
		params = append(params, url.QueryEscape(id.String()))
	}
	endpoint := fmt.Sprintf("%s/v1/products?ids=%s", c.baseURL, strings.Join(params, ","))

	var resp productsResponse
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, err
	}

	metas := make([]domain.ProductMetadata, 0, len(resp.Products))
	for _, dto := range resp.Products {
		metas = append(metas, domain.ProductMetadata{
			ID:           domain.ProductID(dto.ID),
			DisplayName:  dto.DisplayName,
			DisplayPrice: dto.DisplayPrice,
		})
	}
	return metas, nil
}

func (c *Client) Purchase(ctx context.Context, userID uuid.UUID, productID domain.ProductID) (purchase.RawResult, error) {
	endpoint := fmt.Sprintf("%s/v1/users/%s/purchases", c.baseURL, userID)

	body, err := json.Marshal(purchaseRequest{ProductID: productID.String()})
	if err != nil {
		return purchase.RawResult{}, errs.Wrap(err, "failed to encode purchase request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return purchase.RawResult{}, errs.Wrap(err, "failed to build purchase request")
	}
	req.Header.Set("Content-Type", "application/json")

	httpResp, err := c.http.Do(req)
	if err != nil {
		return purchase.RawResult{}, errs.Mark(err, shared.ErrLedgerUnavailable)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return purchase.RawResult{}, errs.Mark(
			errs.New(fmt.Sprintf("ledger returned status %d", httpResp.StatusCode)),
			shared.ErrLedgerUnavailable,
		)
	}

	var resp purchaseResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return purchase.RawResult{}, errs.Mark(err, shared.ErrLedgerUnavailable)
	}

	switch resp.Status {
	case "granted":
		return purchase.RawResult{Status: purchase.RawGranted, Verified: resp.Verified}, nil
	case "cancelled":
		return purchase.RawResult{Status: purchase.RawCancelled}, nil
	case "pending":
		return purchase.RawResult{Status: purchase.RawPending}, nil
	case "failed":
		return purchase.RawResult{Status: purchase.RawFailed, Err: errs.New(resp.Error)}, nil
	default:
		return purchase.RawResult{}, errs.Mark(
			errs.New("ledger returned unknown purchase status: "+resp.Status),
			shared.ErrLedgerUnavailable,
		)
	}
}

func (c *Client) SubscribeToUpdates(ctx context.Context, userID uuid.UUID) (shared.UpdateStream, error) {
	endpoint := fmt.Sprintf("%s/v1/users/%s/transactions/stream", c.streamURL, userID)
	return newUpdateStream(endpoint, c.reconnectBase, c.reconnectMax, c.logger), nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return errs.Wrap(err, "failed to build ledger request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errs.Mark(err, shared.ErrLedgerUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errs.Mark(
			errs.New(fmt.Sprintf("ledger returned status %d", resp.StatusCode)),
			shared.ErrLedgerUnavailable,
		)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errs.Mark(err, shared.ErrLedgerUnavailable)
	}
	return nil
}

func toRecord(dto recordDTO) domain.Record {
	// Transaction identifiers are opaque; an unparsable one still yields a
	// usable record, it just cannot be correlated in logs.
	transactionID, _ := uuid.Parse(dto.TransactionID)

	trust := domain.TrustUnverified
	if dto.Trust == string(domain.TrustVerified) {
		trust = domain.TrustVerified
	}

	return domain.Record{
		TransactionID: transactionID,
		ProductID:     domain.ProductID(dto.ProductID),
		Trust:         trust,
		TrustReason:   dto.TrustReason,
		RevokedAt:     dto.RevokedAt,
	}
}
