package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lockstake/staking-ledger/internal/config"
	"github.com/lockstake/staking-ledger/internal/ledger"
	"github.com/lockstake/staking-ledger/internal/types"
	"github.com/lockstake/staking-ledger/testutil"
)

const testOperatorKey = "test-operator-key"

type apiFixture struct {
	server *Server
	bank   *testutil.FakeBank
}

func newApiFixture(t *testing.T) *apiFixture {
	t.Helper()

	cfg := &config.Config{
		Ledger: config.LedgerConfig{
			OperatorKey:  testOperatorKey,
			StakingAsset: "ustake",
		},
		Api: config.ApiConfig{Host: "127.0.0.1", Port: 8080},
	}

	bank := testutil.NewFakeBank()
	svc := ledger.NewService(cfg, testutil.NewMemoryDb(), bank, testutil.NewCapturingEvents())

	return &apiFixture{
		server: New(&cfg.Api, svc),
		bank:   bank,
	}
}

func (f *apiFixture) do(t *testing.T, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, req)
	return rec
}

func (f *apiFixture) asOperator(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	return f.do(t, method, path, body, map[string]string{operatorKeyHeader: testOperatorKey})
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var resp errorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestHealthcheck(t *testing.T) {
	f := newApiFixture(t)
	rec := f.do(t, http.MethodGet, "/healthcheck", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestTiersEndpoints(t *testing.T) {
	f := newApiFixture(t)

	t.Run("empty registry", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/v1/tiers", nil, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, "[]", rec.Body.String())
	})

	t.Run("add requires operator key", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/v1/admin/tiers",
			addTierRequest{LockPeriodDays: 30, ApyBasisPoints: 1000}, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "UNAUTHORIZED", decodeError(t, rec).ErrorCode)
	})

	t.Run("add with operator key", func(t *testing.T) {
		rec := f.asOperator(t, http.MethodPost, "/v1/admin/tiers",
			addTierRequest{LockPeriodDays: 30, ApyBasisPoints: 1000})
		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("registry lists the tier", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/v1/tiers", nil, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var tiers []tierResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&tiers))
		require.Len(t, tiers, 1)
		assert.Equal(t, uint32(30), tiers[0].LockPeriodDays)
	})

	t.Run("duplicate lock period maps to bad request", func(t *testing.T) {
		rec := f.asOperator(t, http.MethodPost, "/v1/admin/tiers",
			addTierRequest{LockPeriodDays: 30, ApyBasisPoints: 2000})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "DUPLICATE_LOCK_PERIOD", decodeError(t, rec).ErrorCode)
	})

	t.Run("update tier apy", func(t *testing.T) {
		rec := f.asOperator(t, http.MethodPut, "/v1/admin/tiers/0",
			updateTierRequest{ApyBasisPoints: 1200})
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("update with bad index", func(t *testing.T) {
		rec := f.asOperator(t, http.MethodPut, "/v1/admin/tiers/nope",
			updateTierRequest{ApyBasisPoints: 1200})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestStakeEndpoints(t *testing.T) {
	f := newApiFixture(t)
	rec := f.asOperator(t, http.MethodPost, "/v1/admin/tiers",
		addTierRequest{LockPeriodDays: 30, ApyBasisPoints: 1000})
	require.Equal(t, http.StatusCreated, rec.Code)

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/stakes", bytes.NewBufferString("{"))
		out := httptest.NewRecorder()
		f.server.Handler().ServeHTTP(out, req)
		assert.Equal(t, http.StatusBadRequest, out.Code)
	})

	t.Run("non numeric amount", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/v1/stakes",
			stakeRequest{Account: "alice", Amount: "lots", LockPeriodDays: 30}, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing account", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/v1/stakes",
			stakeRequest{Amount: "100", LockPeriodDays: 30}, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("open a stake", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/v1/stakes",
			stakeRequest{Account: "alice", Amount: "1000", LockPeriodDays: 30}, nil)
		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("read it back", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/v1/stakes/alice", nil, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp stakeResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, "1000", resp.Amount)
		assert.Equal(t, "LOCKED", resp.State)
	})

	t.Run("second stake conflicts", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/v1/stakes",
			stakeRequest{Account: "alice", Amount: "500", LockPeriodDays: 30}, nil)
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "EXISTING_STAKE_FOUND", decodeError(t, rec).ErrorCode)
	})

	t.Run("unknown account", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/v1/stakes/nobody", nil, nil)
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "NO_STAKE_FOUND", decodeError(t, rec).ErrorCode)
	})

	t.Run("unstake while locked", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/v1/stakes/alice/unstake", nil, nil)
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "STAKE_STILL_LOCKED", decodeError(t, rec).ErrorCode)
	})

	t.Run("immediate claim finds nothing", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/v1/stakes/alice/claim", nil, nil)
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "NO_REWARDS_TO_CLAIM", decodeError(t, rec).ErrorCode)
	})

	t.Run("pending reward", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/v1/stakes/alice/reward", nil, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp amountResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, "0", resp.Amount)
	})

	t.Run("emergency exit", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/v1/stakes/alice/emergency-exit", nil, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestPoolEndpoints(t *testing.T) {
	f := newApiFixture(t)

	t.Run("fund the pool", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/v1/pool/fund",
			fundPoolRequest{Account: "treasury", Amount: "5000"}, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("read the pool", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/v1/pool", nil, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp poolResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, "5000", resp.RewardPoolBalance)
		assert.Equal(t, "0", resp.TotalStaked)
		assert.False(t, resp.Paused)
	})

	t.Run("rejected transfer maps to bad gateway", func(t *testing.T) {
		f.bank.PullErr = types.ErrTransferFailed
		defer func() { f.bank.PullErr = nil }()

		rec := f.do(t, http.MethodPost, "/v1/pool/fund",
			fundPoolRequest{Account: "treasury", Amount: "5000"}, nil)
		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Equal(t, "TRANSFER_FAILED", decodeError(t, rec).ErrorCode)
	})
}

func TestPauseEndpoints(t *testing.T) {
	f := newApiFixture(t)
	rec := f.asOperator(t, http.MethodPost, "/v1/admin/tiers",
		addTierRequest{LockPeriodDays: 30, ApyBasisPoints: 1000})
	require.Equal(t, http.StatusCreated, rec.Code)

	t.Run("pause requires operator key", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/v1/admin/pause", nil, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("pause blocks staking", func(t *testing.T) {
		rec := f.asOperator(t, http.MethodPost, "/v1/admin/pause", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = f.do(t, http.MethodPost, "/v1/stakes",
			stakeRequest{Account: "alice", Amount: "100", LockPeriodDays: 30}, nil)
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "LEDGER_PAUSED", decodeError(t, rec).ErrorCode)
	})

	t.Run("unpause restores staking", func(t *testing.T) {
		rec := f.asOperator(t, http.MethodPost, "/v1/admin/unpause", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = f.do(t, http.MethodPost, "/v1/stakes",
			stakeRequest{Account: "alice", Amount: "100", LockPeriodDays: 30}, nil)
		assert.Equal(t, http.StatusCreated, rec.Code)
	})
}

func TestRecoverEndpoint(t *testing.T) {
	f := newApiFixture(t)

	t.Run("staking asset is rejected", func(t *testing.T) {
		rec := f.asOperator(t, http.MethodPost, "/v1/admin/recover",
			recoverAssetRequest{Asset: "ustake", To: "treasury", Amount: "10"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "RECOVER_STAKING_ASSET", decodeError(t, rec).ErrorCode)
	})

	t.Run("foreign asset moves", func(t *testing.T) {
		rec := f.asOperator(t, http.MethodPost, "/v1/admin/recover",
			recoverAssetRequest{Asset: "uatom", To: "treasury", Amount: "10"})
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
