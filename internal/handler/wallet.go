package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/AlexZinkM/auto-respawn/autonomys"
	"github.com/AlexZinkM/auto-respawn/internal/apperr"
	"github.com/AlexZinkM/auto-respawn/internal/model"
)

// WalletHandler serves read-only wallet, balance and anchor queries.
// No endpoint decrypts a wallet.
type WalletHandler struct {
	service *autonomys.Service
	timeout time.Duration
}

// NewWalletHandler creates a new WalletHandler; timeout bounds each chain call.
func NewWalletHandler(service *autonomys.Service, timeout time.Duration) *WalletHandler {
	return &WalletHandler{service: service, timeout: timeout}
}

// ListWallets handles GET /wallets
// @Summary      List wallets
// @Description  Lists stored wallets with their consensus and Auto-EVM addresses
// @Tags         wallets
// @Produce      json
// @Success      200  {object}  model.WalletListResponse
// @Failure      500  {object}  model.ErrorResponse
// @Router       /wallets [get]
func (h *WalletHandler) ListWallets(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	wallets, err := h.service.ListWallets(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, wallets)
}

// NormalizeAddress handles GET /address
// @Summary      Normalize address
// @Description  Validates a consensus (su…/5…) or Auto-EVM (0x…) address and returns its canonical form
// @Tags         address
// @Produce      json
// @Param        address  query     string  true  "Address of either family"
// @Success      200      {object}  model.AddressResult
// @Failure      400      {object}  model.ErrorResponse
// @Router       /address [get]
func (h *WalletHandler) NormalizeAddress(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	result, err := autonomys.NormalizeAddress(r.URL.Query().Get("address"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// GetBalance handles GET /balance
// @Summary      Get consensus balance
// @Description  Gets free, reserved and frozen balance of a consensus address
// @Tags         balance
// @Produce      json
// @Param        address  query     string  true  "Consensus address (su… or 5…)"
// @Success      200      {object}  model.BalanceResult
// @Failure      400      {object}  model.ErrorResponse
// @Failure      502      {object}  model.ErrorResponse
// @Router       /balance [get]
func (h *WalletHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	ctx, cancel := h.chainContext(r)
	defer cancel()

	balance, err := h.service.Balance(ctx, r.URL.Query().Get("address"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, balance)
}

// GetEvmBalance handles GET /evm/balance
// @Summary      Get Auto-EVM balance
// @Description  Gets the native token balance of an Auto-EVM address
// @Tags         balance
// @Produce      json
// @Param        address  query     string  true  "Auto-EVM address (0x…)"
// @Success      200      {object}  model.EvmBalanceResult
// @Failure      400      {object}  model.ErrorResponse
// @Failure      502      {object}  model.ErrorResponse
// @Router       /evm/balance [get]
func (h *WalletHandler) GetEvmBalance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	ctx, cancel := h.chainContext(r)
	defer cancel()

	balance, err := h.service.EvmBalance(ctx, r.URL.Query().Get("address"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, balance)
}

// GetHead handles GET /anchor/head
// @Summary      Get last anchored CID
// @Description  Reads the latest memory CID anchored by an Auto-EVM address or stored wallet. cid is null when nothing is anchored.
// @Tags         anchor
// @Produce      json
// @Param        address  query     string  true  "Auto-EVM address (0x…) or wallet name"
// @Success      200      {object}  model.HeadResult
// @Failure      400      {object}  model.ErrorResponse
// @Failure      404      {object}  model.ErrorResponse
// @Failure      502      {object}  model.ErrorResponse
// @Router       /anchor/head [get]
func (h *WalletHandler) GetHead(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	ctx, cancel := h.chainContext(r)
	defer cancel()

	head, err := h.service.GetHead(ctx, r.URL.Query().Get("address"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, head)
}

func (h *WalletHandler) chainContext(r *http.Request) (context.Context, context.CancelFunc) {
	if h.timeout <= 0 {
		return context.WithCancel(r.Context())
	}
	return context.WithTimeout(r.Context(), h.timeout)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	kind := apperr.KindOf(err)
	writeJSON(w, StatusForKind(kind), model.ErrorResponse{Error: err.Error(), Kind: string(kind)})
}

// StatusForKind maps an error kind to an HTTP status code.
func StatusForKind(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindAuthentication:
		return http.StatusUnauthorized
	case apperr.KindNetwork:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
