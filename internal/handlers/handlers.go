package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/MdShahnawaz474/Paytm-project/configs"
	"github.com/MdShahnawaz474/Paytm-project/internal/httputil"
	"github.com/MdShahnawaz474/Paytm-project/internal/ledger"
	"github.com/MdShahnawaz474/Paytm-project/internal/logger"
	appmw "github.com/MdShahnawaz474/Paytm-project/internal/middleware"
	"github.com/MdShahnawaz474/Paytm-project/internal/models"
	"github.com/MdShahnawaz474/Paytm-project/internal/money"
)

// Handler is the HTTP glue over the ledger core. Everything here is
// presentation: decode, call the service, encode.
type Handler struct {
	Ledger *ledger.Service
	DB     *gorm.DB
}

func New(svc *ledger.Service, db *gorm.DB) *Handler {
	return &Handler{Ledger: svc, DB: db}
}

var statusByReason = map[string]int{
	"InvalidInput":       http.StatusBadRequest,
	"Unauthenticated":    http.StatusUnauthorized,
	"RecipientNotFound":  http.StatusNotFound,
	"InsufficientFunds":  http.StatusUnprocessableEntity,
	"Conflict":           http.StatusConflict,
	"StorageUnavailable": http.StatusServiceUnavailable,
}

var messageByReason = map[string]string{
	"InvalidInput":       "invalid input data",
	"Unauthenticated":    "authentication required",
	"RecipientNotFound":  "user not found",
	"InsufficientFunds":  "insufficient funds",
	"Conflict":           "operation conflicted, retry later",
	"StorageUnavailable": "service temporarily unavailable",
}

func writeLedgerError(w http.ResponseWriter, err error) {
	reason := ledger.Reason(err)
	code, ok := statusByReason[reason]
	if !ok {
		code = http.StatusInternalServerError
	}
	httputil.WriteError(w, code, reason, messageByReason[reason])
}

type LoginRequest struct {
	Number   string `json:"number"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

func (h *Handler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "InvalidInput", "invalid request body")
		return
	}

	if req.Number == "" || req.Password == "" {
		httputil.WriteError(w, http.StatusBadRequest, "InvalidInput", "number and password are required")
		return
	}

	var user models.User
	if err := h.DB.Where("number = ?", req.Number).First(&user).Error; err != nil {
		httputil.WriteError(w, http.StatusUnauthorized, "Unauthenticated", "invalid number or password")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		httputil.WriteError(w, http.StatusUnauthorized, "Unauthenticated", "invalid number or password")
		return
	}

	claims := jwt.MapClaims{
		"sub": user.ID,
		"exp": time.Now().Add(24 * time.Hour).Unix(),
		"iat": time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(configs.AppConfig.JWT.SECRET))
	if err != nil {
		logger.Log.Error("failed to sign jwt", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "StorageUnavailable", "failed to create token")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, LoginResponse{Token: signed})
}

type MeResponse struct {
	ID     uint64 `json:"id"`
	Name   string `json:"name"`
	Number string `json:"number"`
}

func (h *Handler) MeHandler(w http.ResponseWriter, r *http.Request) {
	userID := appmw.UserID(r)
	if userID == 0 {
		httputil.WriteError(w, http.StatusUnauthorized, "Unauthenticated", "authentication required")
		return
	}

	var user models.User
	if err := h.DB.First(&user, userID).Error; err != nil {
		httputil.WriteError(w, http.StatusNotFound, "RecipientNotFound", "user not found")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, MeResponse{ID: uint64(user.ID), Name: user.Name, Number: user.Number})
}

type TransferRequest struct {
	To     string `json:"to"`
	Amount int64  `json:"amount"`
}

type TransferResponse struct {
	Status string `json:"status"`
	ID     uint64 `json:"id"`
}

// TransferHandler executes a peer-to-peer transfer from the authenticated
// caller to the user owning the given phone number. Amount is in minor units.
func (h *Handler) TransferHandler(w http.ResponseWriter, r *http.Request) {
	var req TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "InvalidInput", "invalid request body")
		return
	}

	record, err := h.Ledger.Transfer(r.Context(), appmw.UserID(r), req.To, req.Amount)
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, TransferResponse{Status: "ok", ID: uint64(record.ID)})
}

type BalanceResponse struct {
	Available          int64  `json:"available"`
	Locked             int64  `json:"locked"`
	AvailableFormatted string `json:"available_formatted"`
	LockedFormatted    string `json:"locked_formatted"`
}

func (h *Handler) BalanceHandler(w http.ResponseWriter, r *http.Request) {
	bal, err := h.Ledger.GetAvailableBalance(r.Context(), appmw.UserID(r))
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, BalanceResponse{
		Available:          bal.Available,
		Locked:             bal.Locked,
		AvailableFormatted: money.Format(bal.Available),
		LockedFormatted:    money.Format(bal.Locked),
	})
}

func (h *Handler) TransfersHandler(w http.ResponseWriter, r *http.Request) {
	order := r.URL.Query().Get("order")
	if order == "" {
		order = ledger.OrderDesc
	}
	views, err := h.Ledger.ListTransfers(r.Context(), appmw.UserID(r), order)
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, views)
}

type DepositView struct {
	ID        uint64    `json:"id"`
	Amount    int64     `json:"amount"`
	Provider  string    `json:"provider"`
	Status    string    `json:"status"`
	StartTime time.Time `json:"start_time"`
}

func (h *Handler) DepositsHandler(w http.ResponseWriter, r *http.Request) {
	deposits, err := h.Ledger.ListDeposits(r.Context(), appmw.UserID(r))
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	views := make([]DepositView, 0, len(deposits))
	for _, d := range deposits {
		views = append(views, DepositView{
			ID:        uint64(d.ID),
			Amount:    d.Amount,
			Provider:  d.Provider,
			Status:    d.Status,
			StartTime: d.StartTime,
		})
	}
	httputil.WriteJSON(w, http.StatusOK, views)
}

type BeginDepositRequest struct {
	Amount   int64  `json:"amount"`
	Provider string `json:"provider"`
}

type BeginDepositResponse struct {
	Status string `json:"status"`
	ID     uint64 `json:"id"`
	Token  string `json:"token"`
}

func (h *Handler) BeginDepositHandler(w http.ResponseWriter, r *http.Request) {
	var req BeginDepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "InvalidInput", "invalid request body")
		return
	}
	dep, err := h.Ledger.BeginDeposit(r.Context(), appmw.UserID(r), req.Amount, req.Provider)
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, BeginDepositResponse{Status: "ok", ID: uint64(dep.ID), Token: dep.Token})
}

type SettleDepositRequest struct {
	Outcome string `json:"outcome"`
}

// SettleDepositHandler is the settlement hook the bank collaborator calls
// once an on-ramp deposit reaches a terminal state.
func (h *Handler) SettleDepositHandler(w http.ResponseWriter, r *http.Request) {
	depositID, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "InvalidInput", "invalid deposit id")
		return
	}

	var req SettleDepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "InvalidInput", "invalid request body")
		return
	}

	dep, err := h.Ledger.SettleDeposit(r.Context(), depositID, req.Outcome)
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, DepositView{
		ID:        uint64(dep.ID),
		Amount:    dep.Amount,
		Provider:  dep.Provider,
		Status:    dep.Status,
		StartTime: dep.StartTime,
	})
}
