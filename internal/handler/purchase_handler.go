package handler

import (
	"errors"
	"net/http"

	"refearn/internal/domain"
	"refearn/internal/repository"
	"refearn/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type PurchaseHandler struct {
	purchases *service.PurchaseService
}

func NewPurchaseHandler(purchases *service.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{purchases: purchases}
}

type purchaseRequest struct {
	UserID         uint            `json:"user_id" binding:"required"`
	PurchaseAmount decimal.Decimal `json:"purchase_amount" binding:"required"`
}

// Process handles POST /api/purchase.
func (h *PurchaseHandler) Process(c *gin.Context) {
	var req purchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id and purchase_amount are required"})
		return
	}
	outcome, err := h.purchases.ProcessPurchase(c.Request.Context(), req.UserID, req.PurchaseAmount)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrBelowThreshold):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "outcome": outcome})
		case errors.Is(err, domain.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "purchaser not found", "outcome": outcome})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "purchase processing failed", "outcome": outcome})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"outcome": outcome})
}

// RetryDistribution handles POST /api/transactions/:reference/distribute.
// Safe to call repeatedly: levels already credited are no-ops.
func (h *PurchaseHandler) RetryDistribution(c *gin.Context) {
	outcome, err := h.purchases.RetryDistribution(c.Request.Context(), c.Param("reference"))
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrTransactionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "transaction not found"})
		case errors.Is(err, domain.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "purchaser not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "distribution retry failed", "outcome": outcome})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"outcome": outcome})
}
