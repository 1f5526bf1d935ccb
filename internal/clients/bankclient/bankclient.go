package bankclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	sdkmath "cosmossdk.io/math"
	"github.com/avast/retry-go/v4"
	"github.com/rs/zerolog/log"

	"github.com/lockstake/staking-ledger/internal/config"
	"github.com/lockstake/staking-ledger/internal/observability/metrics"
	"github.com/lockstake/staking-ledger/internal/types"
)

const (
	pullPath    = "/v1/transfers/pull"
	pushPath    = "/v1/transfers/push"
	recoverPath = "/v1/transfers/recover"
)

type BankClient struct {
	httpClient *http.Client
	cfg        *config.BankConfig
}

func NewBankClient(cfg *config.BankConfig) *BankClient {
	return &BankClient{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cfg:        cfg,
	}
}

type transferRequest struct {
	Account string `json:"account"`
	Amount  string `json:"amount"`
	Asset   string `json:"asset,omitempty"`
}

func (c *BankClient) Pull(ctx context.Context, from string, amount sdkmath.Int) error {
	return c.post(ctx, pullPath, transferRequest{Account: from, Amount: amount.String()})
}

func (c *BankClient) Push(ctx context.Context, to string, amount sdkmath.Int) error {
	return c.post(ctx, pushPath, transferRequest{Account: to, Amount: amount.String()})
}

func (c *BankClient) Recover(ctx context.Context, asset, to string, amount sdkmath.Int) error {
	return c.post(ctx, recoverPath, transferRequest{Account: to, Amount: amount.String(), Asset: asset})
}

// rejectionError marks a definitive rejection by the bank (4xx). It is
// never retried; the ledger rolls the operation back.
type rejectionError struct {
	status int
	body   string
}

func (e *rejectionError) Error() string {
	return fmt.Sprintf("bank rejected transfer: status %d: %s", e.status, e.body)
}

func (c *BankClient) post(ctx context.Context, path string, req transferRequest) error {
	call := func() error {
		return c.doPost(ctx, path, req)
	}

	err := clientCallWithRetry(call, c.cfg)
	if err != nil {
		return types.ErrTransferFailed.WithMessagef("transfer via %s failed: %v", path, err)
	}
	return nil
}

func (c *BankClient) doPost(ctx context.Context, path string, req transferRequest) error {
	body, err := json.Marshal(req)
	if err != nil {
		return retry.Unrecoverable(err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return retry.Unrecoverable(err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	timer := metrics.StartClientRequestDurationTimer(c.cfg.BaseURL, http.MethodPost, path)
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		timer(0)
		return err
	}
	defer resp.Body.Close()
	timer(resp.StatusCode)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		return retry.Unrecoverable(&rejectionError{status: resp.StatusCode, body: string(respBody)})
	}

	return fmt.Errorf("bank returned status %d: %s", resp.StatusCode, respBody)
}

func clientCallWithRetry(call retry.RetryableFunc, cfg *config.BankConfig) error {
	return retry.Do(call, retry.Attempts(cfg.MaxRetryTimes), retry.Delay(cfg.RetryInterval), retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.Debug().
				Uint("attempt", n+1).
				Uint("max_attempts", cfg.MaxRetryTimes).
				Err(err).
				Msg("failed to call the bank service")
		}))
}
