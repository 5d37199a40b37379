package handler

import (
	"net/http"
	"strconv"

	"refearn/internal/cache"
	"refearn/internal/models"
	"refearn/internal/repository"
	"refearn/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type EarningHandler struct {
	ledger *repository.LedgerRepository
	cache  *cache.Client
}

func NewEarningHandler(ledger *repository.LedgerRepository, cacheClient *cache.Client) *EarningHandler {
	return &EarningHandler{ledger: ledger, cache: cacheClient}
}

// List handles GET /api/earnings?user_id=. Most recent first, each earning
// carrying its originating transaction. The default page is served from the
// redis cache when available; the dispatcher invalidates it on new credits.
func (h *EarningHandler) List(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Query("user_id"), 10, 64)
	if err != nil || userID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	useCache := limit == 20 && offset == 0
	key := service.EarningsCacheKey(uint(userID))
	if useCache {
		var cached []models.Earning
		if hit, err := h.cache.Get(c.Request.Context(), key, &cached); err == nil && hit {
			c.JSON(http.StatusOK, gin.H{"earnings": cached})
			return
		}
	}

	list, err := h.ledger.ListByUserID(c.Request.Context(), uint(userID), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list earnings"})
		return
	}
	if useCache {
		if err := h.cache.Set(c.Request.Context(), key, list); err != nil {
			logrus.WithError(err).Debug("earnings cache set failed")
		}
	}
	c.JSON(http.StatusOK, gin.H{"earnings": list})
}
