package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"refearn/internal/cache"
	"refearn/internal/domain"
	"refearn/internal/models"
	"refearn/internal/repository"
	"refearn/internal/ws"

	"github.com/sirupsen/logrus"
)

// EarningsCacheKey is the redis key holding a user's cached earnings report.
func EarningsCacheKey(userID uint) string {
	return fmt.Sprintf("earnings:%d", userID)
}

// Dispatcher delivers earning events to beneficiaries' live channels and
// stores a Notification row for later reading. Everything here is
// best-effort: a failure is logged and absorbed, never propagated back to
// the ledger write that triggered it.
type Dispatcher struct {
	hub       *ws.Hub
	notifRepo *repository.NotificationRepository
	cache     *cache.Client
	timeout   time.Duration
}

func NewDispatcher(hub *ws.Hub, notifRepo *repository.NotificationRepository, cacheClient *cache.Client, timeout time.Duration) *Dispatcher {
	return &Dispatcher{hub: hub, notifRepo: notifRepo, cache: cacheClient, timeout: timeout}
}

type earningPush struct {
	Event string              `json:"event"`
	Data  domain.EarningEvent `json:"data"`
}

// DispatchEarnings processes events in order, so the level 1 push is
// attempted before level 2. Callers run it in its own goroutine: the ledger
// commit has already succeeded and must not wait on delivery.
func (d *Dispatcher) DispatchEarnings(events []domain.EarningEvent) {
	for _, ev := range events {
		d.dispatchOne(ev)
	}
}

func (d *Dispatcher) dispatchOne(ev domain.EarningEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	if err := d.cache.Delete(ctx, EarningsCacheKey(ev.BeneficiaryID)); err != nil {
		logrus.WithError(err).Debug("earnings cache invalidation failed")
	}

	if d.notifRepo != nil {
		data, _ := json.Marshal(ev)
		err := d.notifRepo.Create(ctx, &models.Notification{
			UserID: ev.BeneficiaryID,
			Type:   domain.NotifTypeEarning,
			Title:  "Commission earned",
			Body:   fmt.Sprintf("%s's purchase earned you a level %d commission", ev.PurchaserName, ev.Level),
			Data:   string(data),
		})
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"beneficiary": ev.BeneficiaryID,
				"transaction": ev.TransactionRef,
			}).WithError(err).Warn("notification persist failed")
		}
	}

	if d.hub != nil {
		d.hub.SendToUser(ev.BeneficiaryID, earningPush{Event: "earningUpdate", Data: ev})
	}
}
