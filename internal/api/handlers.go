package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/lockstake/staking-ledger/internal/types"
)

type errorResponse struct {
	ErrorCode string `json:"error_code"`
	Message   string `json:"message"`
}

type tierResponse struct {
	Index          int    `json:"index"`
	LockPeriodDays uint32 `json:"lock_period_days"`
	ApyBasisPoints uint32 `json:"apy_basis_points"`
}

type stakeResponse struct {
	Account        string `json:"account"`
	Amount         string `json:"amount"`
	State          string `json:"state"`
	StartTime      string `json:"start_time"`
	LockEndTime    string `json:"lock_end_time"`
	LastClaimTime  string `json:"last_claim_time"`
	ApyBasisPoints uint32 `json:"apy_basis_points"`
}

type amountResponse struct {
	Amount string `json:"amount"`
}

type poolResponse struct {
	RewardPoolBalance string `json:"reward_pool_balance"`
	TotalStaked       string `json:"total_staked"`
	Paused            bool   `json:"paused"`
}

type unstakeResponse struct {
	Principal string `json:"principal"`
	Reward    string `json:"reward"`
}

type stakeRequest struct {
	Account        string `json:"account"`
	Amount         string `json:"amount"`
	LockPeriodDays uint32 `json:"lock_period_days"`
}

type fundPoolRequest struct {
	Account string `json:"account"`
	Amount  string `json:"amount"`
}

type addTierRequest struct {
	LockPeriodDays uint32 `json:"lock_period_days"`
	ApyBasisPoints uint32 `json:"apy_basis_points"`
}

type updateTierRequest struct {
	ApyBasisPoints uint32 `json:"apy_basis_points"`
}

type recoverAssetRequest struct {
	Asset  string `json:"asset"`
	To     string `json:"to"`
	Amount string `json:"amount"`
}

func (s *Server) handleHealthcheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListTiers(w http.ResponseWriter, r *http.Request) {
	tiers := s.svc.Tiers()
	resp := make([]tierResponse, 0, len(tiers))
	for i, tier := range tiers {
		resp = append(resp, tierResponse{
			Index:          i,
			LockPeriodDays: tier.LockPeriodDays,
			ApyBasisPoints: tier.ApyBasisPoints,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleStake(w http.ResponseWriter, r *http.Request) {
	var req stakeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	amount, ok := parseAmount(w, req.Amount)
	if !ok {
		return
	}
	if req.Account == "" {
		writeBadRequest(w, "account is required")
		return
	}

	if err := s.svc.Stake(r.Context(), req.Account, amount, req.LockPeriodDays); err != nil {
		writeError(r, w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"account": req.Account})
}

func (s *Server) handleGetStake(w http.ResponseWriter, r *http.Request) {
	account := chi.URLParam(r, "account")
	rec, ok := s.svc.StakeOf(account)
	if !ok {
		writeError(r, w, types.ErrNoStakeFound)
		return
	}

	writeJSON(w, http.StatusOK, stakeResponse{
		Account:        account,
		Amount:         rec.Amount.String(),
		State:          rec.State(time.Now().UTC()).String(),
		StartTime:      rec.StartTime.Format(time.RFC3339),
		LockEndTime:    rec.LockEndTime.Format(time.RFC3339),
		LastClaimTime:  rec.LastClaimTime.Format(time.RFC3339),
		ApyBasisPoints: rec.ApyBasisPoints,
	})
}

func (s *Server) handlePendingReward(w http.ResponseWriter, r *http.Request) {
	reward, err := s.svc.PendingReward(chi.URLParam(r, "account"))
	if err != nil {
		writeError(r, w, err)
		return
	}
	writeJSON(w, http.StatusOK, amountResponse{Amount: reward.String()})
}

func (s *Server) handleClaimRewards(w http.ResponseWriter, r *http.Request) {
	reward, err := s.svc.ClaimRewards(r.Context(), chi.URLParam(r, "account"))
	if err != nil {
		writeError(r, w, err)
		return
	}
	writeJSON(w, http.StatusOK, amountResponse{Amount: reward.String()})
}

func (s *Server) handleUnstake(w http.ResponseWriter, r *http.Request) {
	principal, reward, err := s.svc.Unstake(r.Context(), chi.URLParam(r, "account"))
	if err != nil {
		writeError(r, w, err)
		return
	}
	writeJSON(w, http.StatusOK, unstakeResponse{
		Principal: principal.String(),
		Reward:    reward.String(),
	})
}

func (s *Server) handleEmergencyExit(w http.ResponseWriter, r *http.Request) {
	principal, err := s.svc.EmergencyExit(r.Context(), chi.URLParam(r, "account"))
	if err != nil {
		writeError(r, w, err)
		return
	}
	writeJSON(w, http.StatusOK, amountResponse{Amount: principal.String()})
}

func (s *Server) handleGetPool(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, poolResponse{
		RewardPoolBalance: s.svc.RewardPoolBalance().String(),
		TotalStaked:       s.svc.TotalStaked().String(),
		Paused:            s.svc.Paused(),
	})
}

func (s *Server) handleFundPool(w http.ResponseWriter, r *http.Request) {
	var req fundPoolRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	amount, ok := parseAmount(w, req.Amount)
	if !ok {
		return
	}
	if req.Account == "" {
		writeBadRequest(w, "account is required")
		return
	}

	if err := s.svc.FundPool(r.Context(), req.Account, amount); err != nil {
		writeError(r, w, err)
		return
	}
	writeJSON(w, http.StatusOK, amountResponse{Amount: amount.String()})
}

func (s *Server) handleAddTier(w http.ResponseWriter, r *http.Request) {
	var req addTierRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	index, err := s.svc.AddTier(r.Context(), operatorKey(r), req.LockPeriodDays, req.ApyBasisPoints)
	if err != nil {
		writeError(r, w, err)
		return
	}
	writeJSON(w, http.StatusCreated, tierResponse{
		Index:          index,
		LockPeriodDays: req.LockPeriodDays,
		ApyBasisPoints: req.ApyBasisPoints,
	})
}

func (s *Server) handleUpdateTier(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeBadRequest(w, "tier index must be an integer")
		return
	}
	var req updateTierRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := s.svc.UpdateTierAPY(r.Context(), operatorKey(r), index, req.ApyBasisPoints); err != nil {
		writeError(r, w, err)
		return
	}
	writeJSON(w, http.StatusOK, tierResponse{
		Index:          index,
		ApyBasisPoints: req.ApyBasisPoints,
	})
}

func (s *Server) handlePause(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Pause(r.Context(), operatorKey(r)); err != nil {
		writeError(r, w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"paused": true})
}

func (s *Server) handleUnpause(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Unpause(r.Context(), operatorKey(r)); err != nil {
		writeError(r, w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"paused": false})
}

func (s *Server) handleRecoverAsset(w http.ResponseWriter, r *http.Request) {
	var req recoverAssetRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	amount, ok := parseAmount(w, req.Amount)
	if !ok {
		return
	}

	if err := s.svc.RecoverAsset(r.Context(), operatorKey(r), req.Asset, req.To, amount); err != nil {
		writeError(r, w, err)
		return
	}
	writeJSON(w, http.StatusOK, amountResponse{Amount: amount.String()})
}

func operatorKey(r *http.Request) string {
	return r.Header.Get(operatorKeyHeader)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeBadRequest(w, "invalid request body")
		return false
	}
	return true
}

func parseAmount(w http.ResponseWriter, raw string) (sdkmath.Int, bool) {
	amount, ok := sdkmath.NewIntFromString(raw)
	if !ok {
		writeBadRequest(w, "amount must be a decimal integer string")
		return sdkmath.Int{}, false
	}
	return amount, true
}

func writeBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{
		ErrorCode: "BAD_REQUEST",
		Message:   message,
	})
}

// writeError maps ledger errors onto HTTP statuses by kind. Anything
// that is not a typed ledger error is an internal failure.
func writeError(r *http.Request, w http.ResponseWriter, err error) {
	var ledgerErr *types.Error
	if !errors.As(err, &ledgerErr) {
		log.Ctx(r.Context()).Error().Err(err).Msg("request failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			ErrorCode: "INTERNAL",
			Message:   "internal server error",
		})
		return
	}

	status := http.StatusInternalServerError
	switch ledgerErr.Kind {
	case types.KindValidation:
		status = http.StatusBadRequest
	case types.KindStateConflict:
		status = http.StatusConflict
	case types.KindTransfer:
		status = http.StatusBadGateway
	case types.KindUnauthorized:
		status = http.StatusUnauthorized
	case types.KindInternal:
		log.Ctx(r.Context()).Error().Err(err).Msg("request failed")
	}

	writeJSON(w, status, errorResponse{
		ErrorCode: ledgerErr.Code,
		Message:   ledgerErr.Message,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}
