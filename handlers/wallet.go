package handlers

import (
	"errors"
	"net/http"
	"time"

	"washlane/services/wallet"
	"washlane/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// WalletHandler binds ledger endpoints to the wallet service.
type WalletHandler struct {
	Service wallet.WalletService
}

func NewWalletHandler(svc wallet.WalletService) *WalletHandler {
	return &WalletHandler{Service: svc}
}

// parseDateParam reads an optional ?date=YYYY-MM-DD query and returns the end
// of that day, so the point-in-time balance includes the whole date.
func parseDateParam(c *gin.Context) (*time.Time, error) {
	raw := c.Query("date")
	if raw == "" {
		return nil, nil
	}
	d, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}
	end := d.Add(24*time.Hour - time.Nanosecond)
	return &end, nil
}

func walletError(c *gin.Context, action string, err error) {
	var ve *wallet.ValidationError
	var nf *wallet.NotFoundError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Message})
	case errors.As(err, &nf):
		c.JSON(http.StatusNotFound, gin.H{"error": nf.Error()})
	case errors.Is(err, wallet.ErrAlreadySettled):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		utils.GetLogger().Error("Wallet operation failed", zap.String("action", action), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "wallet operation failed"})
	}
}

// GetMyWalletHandler handles GET /api/wallets/me for the signed-in attendant.
func (h *WalletHandler) GetMyWalletHandler(c *gin.Context) {
	at, err := parseDateParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
		return
	}

	view, err := h.Service.GetMyWallet(c.GetString("userID"), at)
	if err != nil {
		walletError(c, "getMyWallet", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// GetAllWalletsHandler handles GET /api/wallets for admins.
func (h *WalletHandler) GetAllWalletsHandler(c *gin.Context) {
	at, err := parseDateParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
		return
	}

	views, err := h.Service.GetAllWallets(at)
	if err != nil {
		walletError(c, "getAllWallets", err)
		return
	}
	c.JSON(http.StatusOK, views)
}

// MarkPaidHandler handles POST /api/wallets/:attendantId/mark-paid.
func (h *WalletHandler) MarkPaidHandler(c *gin.Context) {
	attendantID := c.Param("attendantId")
	w, err := h.Service.MarkPaid(attendantID)
	if err != nil {
		walletError(c, "markPaid", err)
		return
	}
	utils.GetLogger().Info("Attendant settled", zap.String("attendantID", attendantID))
	c.JSON(http.StatusOK, w)
}

// SettleManyHandler handles POST /api/wallets/settle.
func (h *WalletHandler) SettleManyHandler(c *gin.Context) {
	var req struct {
		AttendantIDs []string `json:"attendantIds" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	result, err := h.Service.SettleMany(req.AttendantIDs)
	if err != nil {
		walletError(c, "settleMany", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// RebuildHandler handles POST /api/wallets/:attendantId/rebuild.
func (h *WalletHandler) RebuildHandler(c *gin.Context) {
	attendantID := c.Param("attendantId")
	w, err := h.Service.Rebuild(attendantID)
	if err != nil {
		walletError(c, "rebuild", err)
		return
	}
	utils.GetLogger().Info("Wallet rebuilt", zap.String("attendantID", attendantID))
	c.JSON(http.StatusOK, w)
}

// AdjustHandler handles POST /api/wallets/:attendantId/adjust.
func (h *WalletHandler) AdjustHandler(c *gin.Context) {
	var req struct {
		Type   string `json:"type" binding:"required"`
		Amount string `json:"amount" binding:"required"`
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	amount, err := utils.ParseAmount(req.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	w, err := h.Service.Adjust(c.Param("attendantId"), req.Type, amount, req.Reason, c.GetString("userID"))
	if err != nil {
		walletError(c, "adjust", err)
		return
	}
	c.JSON(http.StatusOK, w)
}

// GetSystemWalletHandler handles GET /api/wallets/system.
func (h *WalletHandler) GetSystemWalletHandler(c *gin.Context) {
	sw, err := h.Service.GetSystemWallet()
	if err != nil {
		walletError(c, "getSystemWallet", err)
		return
	}
	c.JSON(http.StatusOK, sw)
}
