// Package api is the host gateway: it decodes HTTP invocations into contract
// operations, resolves the caller identity and attached value, and serialises
// invocations the way the contract's execution model assumes.
package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/punchamoorthee/transmitter/internal/contract"
	"github.com/punchamoorthee/transmitter/internal/models"
)

// CallerHeader names the account the host resolved as the invocation caller.
const CallerHeader = "X-Caller-Account"

// Metrics
var (
	opsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "transmitter_operations_total",
		Help: "Contract invocations processed, labeled by operation and HTTP status",
	}, []string{"op", "status"})

	opLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "transmitter_operation_duration_seconds",
		Help:    "Invocation latency distribution",
		Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
	}, []string{"op"})
)

type Handler struct {
	contract *contract.Contract

	// mu serialises invocations: the core assumes one at a time, run to
	// completion. height is the invocation ordinal the gateway hands the
	// core as block height.
	mu     sync.Mutex
	height uint64

	transfer    contract.TransferFunc
	replaceCode contract.ReplaceCodeFunc
}

// NewHandler wires the gateway to a contract. transfer and replaceCode are the
// host primitives; either may be nil, in which case external transfers fail
// (and degrade to ledger credits where the operation allows it) and code
// upgrades are rejected.
func NewHandler(c *contract.Contract, transfer contract.TransferFunc, replaceCode contract.ReplaceCodeFunc) *Handler {
	return &Handler{contract: c, transfer: transfer, replaceCode: replaceCode}
}

// env builds the per-invocation environment. Callers must hold h.mu.
func (h *Handler) env(caller contract.AccountID, attached int64) contract.Env {
	h.height++
	return contract.Env{
		Caller:      caller,
		Transferred: attached,
		BlockHeight: h.height,
		Now:         time.Now().Unix(),
		Transfer:    h.transfer,
		ReplaceCode: h.replaceCode,
	}
}

// caller extracts the invocation identity the host resolved upstream.
func (h *Handler) caller(w http.ResponseWriter, r *http.Request, op string) (contract.AccountID, bool) {
	id := r.Header.Get(CallerHeader)
	if id == "" {
		h.respondError(w, http.StatusBadRequest, "Missing "+CallerHeader+" header", op)
		return "", false
	}
	return contract.AccountID(id), true
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, out interface{}, op string) bool {
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		h.respondError(w, http.StatusBadRequest, "Malformed JSON body", op)
		return false
	}
	return true
}

// respondContractError maps a contract error onto an HTTP status, keeping the
// structured payment context intact.
func (h *Handler) respondContractError(w http.ResponseWriter, err error, op string) {
	var paymentErr *contract.PaymentError
	if errors.As(err, &paymentErr) {
		h.respondJSON(w, http.StatusPaymentRequired, models.PaymentErrorBody{
			Error:    paymentErr.Error(),
			Received: paymentErr.Received,
			Required: paymentErr.Required,
			Missing:  paymentErr.Missing,
		}, op)
		return
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, contract.ErrNameNonexistent),
		errors.Is(err, contract.ErrNoAccount),
		errors.Is(err, contract.ErrNoNames),
		errors.Is(err, contract.ErrNoMessages),
		errors.Is(err, contract.ErrMessageNonexistent),
		errors.Is(err, contract.ErrUsernameNotInSale),
		errors.Is(err, contract.ErrNoSalesForYou):
		status = http.StatusNotFound
	case errors.Is(err, contract.ErrWrongAccount),
		errors.Is(err, contract.ErrNotContractOwner):
		status = http.StatusForbidden
	case errors.Is(err, contract.ErrNameTaken),
		errors.Is(err, contract.ErrUsernameAlreadyInSale):
		status = http.StatusConflict
	case errors.Is(err, contract.ErrInvalidName),
		errors.Is(err, contract.ErrInsufficientBalance),
		errors.Is(err, contract.ErrNoBalance):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, contract.ErrWithdrawFailed),
		errors.Is(err, contract.ErrCloseAccountFailed),
		errors.Is(err, contract.ErrUpgradeFailed):
		status = http.StatusBadGateway
	default:
		log.Printf("op %s: %v", op, err)
	}
	h.respondError(w, status, err.Error(), op)
}

// Helpers
func (h *Handler) respondJSON(w http.ResponseWriter, code int, payload interface{}, op string) {
	opsTotal.WithLabelValues(op, strconv.Itoa(code)).Inc()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

func (h *Handler) respondError(w http.ResponseWriter, code int, msg, op string) {
	h.respondJSON(w, code, map[string]string{"error": msg}, op)
}
