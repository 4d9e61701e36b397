package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/punchamoorthee/transmitter/internal/contract"
	"github.com/punchamoorthee/transmitter/internal/models"
)

// Register wires every contract operation onto the router.
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/fee", h.CheckFee).Methods("GET")
	r.HandleFunc("/names", h.RegisterUsername).Methods("POST")
	r.HandleFunc("/names", h.GetUsernames).Methods("GET")
	r.HandleFunc("/names/{name}/messages", h.GetAllMessages).Methods("GET")
	r.HandleFunc("/names/{name}/messages", h.DeleteAllMessages).Methods("DELETE")
	r.HandleFunc("/names/{name}/messages/{hash}", h.DeleteMessage).Methods("DELETE")
	r.HandleFunc("/messages", h.SendMessage).Methods("POST")
	r.HandleFunc("/balance", h.GetBalance).Methods("GET")
	r.HandleFunc("/withdrawals", h.WithdrawBalance).Methods("POST")
	r.HandleFunc("/sales", h.SellUsernameTo).Methods("POST")
	r.HandleFunc("/sales", h.GetSalePropositions).Methods("GET")
	r.HandleFunc("/sales/{name}", h.CancelSale).Methods("DELETE")
	r.HandleFunc("/sales/{name}/buy", h.BuyUsername).Methods("POST")
	r.HandleFunc("/sales/{name}/refuse", h.RefuseToBuy).Methods("POST")
	r.HandleFunc("/account", h.CloseAccount).Methods("DELETE")
	r.HandleFunc("/admin/fee", h.SetFee).Methods("POST")
	r.HandleFunc("/admin/owner", h.TransferOwnership).Methods("POST")
	r.HandleFunc("/admin/withdrawals", h.OwnerWithdrawBalance).Methods("POST")
	r.HandleFunc("/admin/code", h.SetCode).Methods("POST")
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"}, "health")
}

func (h *Handler) CheckFee(w http.ResponseWriter, r *http.Request) {
	const op = "check_fee"
	fee, err := h.contract.CheckFee(r.Context())
	if err != nil {
		h.respondContractError(w, err, op)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]int64{"fee": fee}, op)
}

func (h *Handler) RegisterUsername(w http.ResponseWriter, r *http.Request) {
	const op = "register_username"
	timer := prometheus.NewTimer(opLatency.WithLabelValues(op))
	defer timer.ObserveDuration()

	caller, ok := h.caller(w, r, op)
	if !ok {
		return
	}
	var req models.RegisterRequest
	if !h.decode(w, r, &req, op) {
		return
	}
	if req.AttachedValue < 0 {
		h.respondError(w, http.StatusUnprocessableEntity, "Attached value must not be negative", op)
		return
	}

	h.mu.Lock()
	err := h.contract.RegisterUsername(r.Context(), h.env(caller, req.AttachedValue), req.Name)
	h.mu.Unlock()
	if err != nil {
		h.respondContractError(w, err, op)
		return
	}
	h.respondJSON(w, http.StatusCreated, map[string]contract.Username{"name": req.Name}, op)
}

func (h *Handler) GetUsernames(w http.ResponseWriter, r *http.Request) {
	const op = "get_usernames"
	caller, ok := h.caller(w, r, op)
	if !ok {
		return
	}
	h.mu.Lock()
	names, err := h.contract.GetUsernames(r.Context(), h.env(caller, 0))
	h.mu.Unlock()
	if err != nil {
		h.respondContractError(w, err, op)
		return
	}
	h.respondJSON(w, http.StatusOK, names, op)
}

func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	const op = "send_message"
	timer := prometheus.NewTimer(opLatency.WithLabelValues(op))
	defer timer.ObserveDuration()

	caller, ok := h.caller(w, r, op)
	if !ok {
		return
	}
	var req models.SendMessageRequest
	if !h.decode(w, r, &req, op) {
		return
	}

	h.mu.Lock()
	err := h.contract.SendMessage(r.Context(), h.env(caller, 0), req.From, req.To, req.Type, req.Content)
	h.mu.Unlock()
	if err != nil {
		h.respondContractError(w, err, op)
		return
	}
	h.respondJSON(w, http.StatusCreated, nil, op)
}

func (h *Handler) GetAllMessages(w http.ResponseWriter, r *http.Request) {
	const op = "get_all_messages"
	caller, ok := h.caller(w, r, op)
	if !ok {
		return
	}
	name := contract.Username(mux.Vars(r)["name"])

	h.mu.Lock()
	messages, err := h.contract.GetAllMessages(r.Context(), h.env(caller, 0), name)
	h.mu.Unlock()
	if err != nil {
		h.respondContractError(w, err, op)
		return
	}
	h.respondJSON(w, http.StatusOK, messages, op)
}

func (h *Handler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	const op = "delete_message"
	caller, ok := h.caller(w, r, op)
	if !ok {
		return
	}
	vars := mux.Vars(r)
	name := contract.Username(vars["name"])
	var hash contract.Hash
	if err := hash.UnmarshalText([]byte(vars["hash"])); err != nil {
		h.respondError(w, http.StatusBadRequest, "Malformed message hash", op)
		return
	}

	h.mu.Lock()
	err := h.contract.DeleteMessage(r.Context(), h.env(caller, 0), name, hash)
	h.mu.Unlock()
	if err != nil {
		h.respondContractError(w, err, op)
		return
	}
	h.respondJSON(w, http.StatusOK, nil, op)
}

func (h *Handler) DeleteAllMessages(w http.ResponseWriter, r *http.Request) {
	const op = "delete_all_messages"
	caller, ok := h.caller(w, r, op)
	if !ok {
		return
	}
	name := contract.Username(mux.Vars(r)["name"])

	h.mu.Lock()
	err := h.contract.DeleteAllMessages(r.Context(), h.env(caller, 0), name)
	h.mu.Unlock()
	if err != nil {
		h.respondContractError(w, err, op)
		return
	}
	h.respondJSON(w, http.StatusOK, nil, op)
}

func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	const op = "get_balance"
	caller, ok := h.caller(w, r, op)
	if !ok {
		return
	}
	h.mu.Lock()
	balance, err := h.contract.GetBalance(r.Context(), h.env(caller, 0))
	h.mu.Unlock()
	if err != nil {
		h.respondContractError(w, err, op)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]int64{"balance": balance}, op)
}

func (h *Handler) WithdrawBalance(w http.ResponseWriter, r *http.Request) {
	const op = "withdraw_balance"
	timer := prometheus.NewTimer(opLatency.WithLabelValues(op))
	defer timer.ObserveDuration()

	caller, ok := h.caller(w, r, op)
	if !ok {
		return
	}
	h.mu.Lock()
	err := h.contract.WithdrawBalance(r.Context(), h.env(caller, 0))
	h.mu.Unlock()
	if err != nil {
		h.respondContractError(w, err, op)
		return
	}
	h.respondJSON(w, http.StatusOK, nil, op)
}

func (h *Handler) SellUsernameTo(w http.ResponseWriter, r *http.Request) {
	const op = "sell_username_to"
	caller, ok := h.caller(w, r, op)
	if !ok {
		return
	}
	var req models.SellRequest
	if !h.decode(w, r, &req, op) {
		return
	}
	if req.Price < 0 {
		h.respondError(w, http.StatusUnprocessableEntity, "Price must not be negative", op)
		return
	}

	h.mu.Lock()
	err := h.contract.SellUsernameTo(r.Context(), h.env(caller, 0), req.Username, req.To, req.Price)
	h.mu.Unlock()
	if err != nil {
		h.respondContractError(w, err, op)
		return
	}
	h.respondJSON(w, http.StatusCreated, nil, op)
}

func (h *Handler) CancelSale(w http.ResponseWriter, r *http.Request) {
	const op = "cancel_sale"
	caller, ok := h.caller(w, r, op)
	if !ok {
		return
	}
	name := contract.Username(mux.Vars(r)["name"])

	h.mu.Lock()
	err := h.contract.CancelSale(r.Context(), h.env(caller, 0), name)
	h.mu.Unlock()
	if err != nil {
		h.respondContractError(w, err, op)
		return
	}
	h.respondJSON(w, http.StatusOK, nil, op)
}

func (h *Handler) GetSalePropositions(w http.ResponseWriter, r *http.Request) {
	const op = "get_sale_propositions"
	caller, ok := h.caller(w, r, op)
	if !ok {
		return
	}
	h.mu.Lock()
	propositions, err := h.contract.GetSalePropositions(r.Context(), h.env(caller, 0))
	h.mu.Unlock()
	if err != nil {
		h.respondContractError(w, err, op)
		return
	}
	h.respondJSON(w, http.StatusOK, propositions, op)
}

func (h *Handler) BuyUsername(w http.ResponseWriter, r *http.Request) {
	const op = "buy_username"
	timer := prometheus.NewTimer(opLatency.WithLabelValues(op))
	defer timer.ObserveDuration()

	caller, ok := h.caller(w, r, op)
	if !ok {
		return
	}
	name := contract.Username(mux.Vars(r)["name"])
	var req models.BuyRequest
	if !h.decode(w, r, &req, op) {
		return
	}
	if req.AttachedValue < 0 {
		h.respondError(w, http.StatusUnprocessableEntity, "Attached value must not be negative", op)
		return
	}

	h.mu.Lock()
	err := h.contract.BuyUsername(r.Context(), h.env(caller, req.AttachedValue), name)
	h.mu.Unlock()
	if err != nil {
		h.respondContractError(w, err, op)
		return
	}
	h.respondJSON(w, http.StatusOK, nil, op)
}

func (h *Handler) RefuseToBuy(w http.ResponseWriter, r *http.Request) {
	const op = "refuse_to_buy"
	caller, ok := h.caller(w, r, op)
	if !ok {
		return
	}
	name := contract.Username(mux.Vars(r)["name"])

	h.mu.Lock()
	err := h.contract.RefuseToBuy(r.Context(), h.env(caller, 0), name)
	h.mu.Unlock()
	if err != nil {
		h.respondContractError(w, err, op)
		return
	}
	h.respondJSON(w, http.StatusOK, nil, op)
}

func (h *Handler) CloseAccount(w http.ResponseWriter, r *http.Request) {
	const op = "close_account"
	caller, ok := h.caller(w, r, op)
	if !ok {
		return
	}
	h.mu.Lock()
	err := h.contract.CloseAccount(r.Context(), h.env(caller, 0))
	h.mu.Unlock()
	if err != nil {
		h.respondContractError(w, err, op)
		return
	}
	h.respondJSON(w, http.StatusOK, nil, op)
}

func (h *Handler) SetFee(w http.ResponseWriter, r *http.Request) {
	const op = "set_fee"
	caller, ok := h.caller(w, r, op)
	if !ok {
		return
	}
	var req models.SetFeeRequest
	if !h.decode(w, r, &req, op) {
		return
	}
	if req.Fee < 0 {
		h.respondError(w, http.StatusUnprocessableEntity, "Fee must not be negative", op)
		return
	}

	h.mu.Lock()
	err := h.contract.SetFee(r.Context(), h.env(caller, 0), req.Fee)
	h.mu.Unlock()
	if err != nil {
		h.respondContractError(w, err, op)
		return
	}
	h.respondJSON(w, http.StatusOK, nil, op)
}

func (h *Handler) TransferOwnership(w http.ResponseWriter, r *http.Request) {
	const op = "transfer_ownership"
	caller, ok := h.caller(w, r, op)
	if !ok {
		return
	}
	var req models.TransferOwnershipRequest
	if !h.decode(w, r, &req, op) {
		return
	}

	h.mu.Lock()
	err := h.contract.TransferContractOwnership(r.Context(), h.env(caller, 0), req.NewOwner)
	h.mu.Unlock()
	if err != nil {
		h.respondContractError(w, err, op)
		return
	}
	h.respondJSON(w, http.StatusOK, nil, op)
}

func (h *Handler) OwnerWithdrawBalance(w http.ResponseWriter, r *http.Request) {
	const op = "owner_withdraw_balance"
	caller, ok := h.caller(w, r, op)
	if !ok {
		return
	}
	h.mu.Lock()
	err := h.contract.OwnerWithdrawBalance(r.Context(), h.env(caller, 0))
	h.mu.Unlock()
	if err != nil {
		h.respondContractError(w, err, op)
		return
	}
	h.respondJSON(w, http.StatusOK, nil, op)
}

func (h *Handler) SetCode(w http.ResponseWriter, r *http.Request) {
	const op = "set_code"
	caller, ok := h.caller(w, r, op)
	if !ok {
		return
	}
	var req models.SetCodeRequest
	if !h.decode(w, r, &req, op) {
		return
	}
	if req.Ref == "" {
		h.respondError(w, http.StatusUnprocessableEntity, "Code reference required", op)
		return
	}

	h.mu.Lock()
	err := h.contract.SetCode(r.Context(), h.env(caller, 0), req.Ref)
	h.mu.Unlock()
	if err != nil {
		h.respondContractError(w, err, op)
		return
	}
	h.respondJSON(w, http.StatusOK, nil, op)
}
