package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"hotel-pms/internal/models"
	"hotel-pms/internal/repository"
	"hotel-pms/internal/transport"
	"hotel-pms/pkg/rabbitmq"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrReservationNotFound = errors.New("offline reservation not found")
	ErrConflictNotFound    = errors.New("conflict not found")
	ErrConflictResolved    = errors.New("conflict is already resolved")
	ErrInvalidResolution   = errors.New("invalid conflict resolution")
)

// Codes avoid 0/O and 1/I so front-desk staff can read them over the phone.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

type SyncResult struct {
	Synced    int                   `json:"synced"`
	Errors    int                   `json:"errors"`
	Conflicts []models.SyncConflict `json:"conflicts"`
}

// SyncService reconciles the offline reservation queue against the channel
// buffer: it detects overlapping stays, exposes manual conflict resolution
// and pushes conflict-free entries to the channel manager.
type SyncService interface {
	AddToQueue(ctx context.Context, res *models.OfflineReservation) (*models.OfflineReservation, error)
	DetectConflicts(ctx context.Context) ([]models.SyncConflict, error)
	ResolveConflict(ctx context.Context, conflictID string, resolution models.Resolution) (*models.SyncConflict, error)
	SyncReservations(ctx context.Context) (*SyncResult, error)
}

type syncService struct {
	queue     repository.OfflineQueueRepository
	buffer    repository.ChannelBufferRepository
	conflicts repository.ConflictRepository
	logs      repository.SyncLogRepository
	submitter transport.Submitter
	alerts    *rabbitmq.Publisher
	timeout   time.Duration
}

func NewSyncService(
	queue repository.OfflineQueueRepository,
	buffer repository.ChannelBufferRepository,
	conflicts repository.ConflictRepository,
	logs repository.SyncLogRepository,
	submitter transport.Submitter,
	alerts *rabbitmq.Publisher,
	timeout time.Duration,
) SyncService {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &syncService{
		queue:     queue,
		buffer:    buffer,
		conflicts: conflicts,
		logs:      logs,
		submitter: submitter,
		alerts:    alerts,
		timeout:   timeout,
	}
}

func (s *syncService) AddToQueue(ctx context.Context, res *models.OfflineReservation) (*models.OfflineReservation, error) {
	if res.LocalID == "" {
		res.LocalID = uuid.NewString()
	}
	res.ConfirmationCode = GenerateConfirmationCode()
	res.SyncStatus = models.StatusPending
	res.CreatedOffline = true

	if err := s.queue.Create(ctx, res); err != nil {
		return nil, fmt.Errorf("queue reservation: %w", err)
	}

	s.logAction(ctx, res.LocalID, models.ActionQueued,
		fmt.Sprintf("reservation %s queued for sync", res.ConfirmationCode))
	return res, nil
}

// DetectConflicts pairs every not-yet-synced local reservation against every
// channel reservation with the same room category and overlapping dates.
// A (local, channel) pair that was ever recorded is never raised again, so
// repeated passes over an unchanged queue create nothing new.
func (s *syncService) DetectConflicts(ctx context.Context) ([]models.SyncConflict, error) {
	locals, err := s.queue.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	channels, err := s.buffer.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	created := []models.SyncConflict{}
	for i := range locals {
		l := &locals[i]
		if l.SyncStatus == models.StatusSynced || l.SyncStatus == models.StatusConflict {
			continue
		}
		for j := range channels {
			c := &channels[j]
			if l.RoomCategory != c.RoomCategory {
				continue
			}
			if !rangesOverlap(l.CheckIn, l.CheckOut, c.CheckIn, c.CheckOut) {
				continue
			}

			seen, err := s.conflicts.PairExists(ctx, l.LocalID, c.ChannelID)
			if err != nil {
				return nil, err
			}
			if seen {
				continue
			}

			conflict := newConflict(l, c)
			if err := s.conflicts.Create(ctx, conflict); err != nil {
				return nil, fmt.Errorf("record conflict: %w", err)
			}
			if err := s.queue.UpdateStatus(ctx, l.LocalID, models.StatusConflict); err != nil {
				return nil, err
			}
			s.logAction(ctx, l.LocalID, models.ActionConflictDetected, conflict.Description)
			if s.alerts != nil {
				_ = s.alerts.Publish("conflict.detected", conflict)
			}
			created = append(created, *conflict)
		}
	}
	return created, nil
}

func (s *syncService) ResolveConflict(ctx context.Context, conflictID string, resolution models.Resolution) (*models.SyncConflict, error) {
	conflict, err := s.conflicts.FindByID(ctx, conflictID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConflictNotFound
		}
		return nil, err
	}
	if conflict.Resolved() {
		return nil, ErrConflictResolved
	}

	now := time.Now()
	switch resolution {
	case models.ResolveKeepLocal:
		// Local wins: treat it as the synced copy, drop the channel's claim.
		if err := s.queue.MarkSynced(ctx, conflict.LocalID, now); err != nil {
			return nil, err
		}
		if err := s.buffer.Delete(ctx, conflict.ChannelID); err != nil {
			return nil, err
		}
	case models.ResolveKeepRemote:
		// Channel wins: the local capture is discarded entirely.
		if err := s.queue.Delete(ctx, conflict.LocalID); err != nil {
			return nil, err
		}
	case models.ResolveMerge:
		// Both stand; staff re-assign physical rooms out of band.
		if err := s.queue.MarkSynced(ctx, conflict.LocalID, now); err != nil {
			return nil, err
		}
	case models.ResolveDismiss:
		// Back to pending, re-evaluated on the next detection pass.
		if err := s.queue.UpdateStatus(ctx, conflict.LocalID, models.StatusPending); err != nil {
			return nil, err
		}
	default:
		return nil, ErrInvalidResolution
	}

	if err := s.conflicts.Resolve(ctx, conflict.ID, resolution, now); err != nil {
		return nil, err
	}
	conflict.Resolution = resolution
	conflict.ResolvedAt = &now

	s.logAction(ctx, conflict.LocalID, models.ActionConflictResolved,
		fmt.Sprintf("conflict %s resolved: %s", conflict.ID, resolution))
	return conflict, nil
}

// SyncReservations runs one sync pass: detect conflicts first, then submit
// every still-pending entry. Each item is claimed with a conditional
// pending → syncing update, so concurrent passes never double-submit.
func (s *syncService) SyncReservations(ctx context.Context) (*SyncResult, error) {
	newConflicts, err := s.DetectConflicts(ctx)
	if err != nil {
		return nil, err
	}
	result := &SyncResult{Conflicts: newConflicts}

	pending, err := s.queue.FindByStatus(ctx, models.StatusPending)
	if err != nil {
		return nil, err
	}

	for i := range pending {
		r := &pending[i]

		claimed, err := s.queue.ClaimForSync(ctx, r.LocalID)
		if err != nil {
			return nil, err
		}
		if !claimed {
			continue
		}
		s.logAction(ctx, r.LocalID, models.ActionSyncStart,
			fmt.Sprintf("submitting %s to channel manager", r.ConfirmationCode))

		submitCtx, cancel := context.WithTimeout(ctx, s.timeout)
		submitErr := s.submitter.Submit(submitCtx, r)
		cancel()

		if submitErr != nil {
			if err := s.queue.MarkError(ctx, r.LocalID, submitErr.Error()); err != nil {
				return nil, err
			}
			s.logAction(ctx, r.LocalID, models.ActionSyncFail, submitErr.Error())
			result.Errors++
			continue
		}

		if err := s.queue.MarkSynced(ctx, r.LocalID, time.Now()); err != nil {
			return nil, err
		}
		s.logAction(ctx, r.LocalID, models.ActionSyncSuccess,
			fmt.Sprintf("reservation %s synced", r.ConfirmationCode))
		result.Synced++
	}

	return result, nil
}

func (s *syncService) logAction(ctx context.Context, reservationID string, action models.SyncAction, detail string) {
	entry := &models.SyncLogEntry{
		ReservationID: reservationID,
		Action:        action,
		Detail:        detail,
	}
	if err := s.logs.Append(ctx, entry); err != nil {
		log.Printf("[SyncService] failed to append %s log for %s: %v", action, reservationID, err)
	}
}

// rangesOverlap applies the half-open overlap test: back-to-back stays where
// one checks out the day the other checks in do not overlap.
func rangesOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	as, ae := models.DateOnly(aStart), models.DateOnly(aEnd)
	bs, be := models.DateOnly(bStart), models.DateOnly(bEnd)
	return as.Before(be) && bs.Before(ae)
}

func newConflict(l *models.OfflineReservation, c *models.ChannelReservation) *models.SyncConflict {
	conflict := &models.SyncConflict{
		ID:        uuid.NewString(),
		LocalID:   l.LocalID,
		ChannelID: c.ChannelID,
		Type:      models.ConflictDateOverlap,
		Severity:  models.SeverityMedium,
	}

	exact := models.DateOnly(l.CheckIn).Equal(models.DateOnly(c.CheckIn)) &&
		models.DateOnly(l.CheckOut).Equal(models.DateOnly(c.CheckOut))
	if exact {
		conflict.Type = models.ConflictOverbooking
		conflict.Severity = models.SeverityHigh
		conflict.Description = fmt.Sprintf(
			"overbooking: local %s and %s reservation %s both hold a %s room for %s to %s",
			l.ConfirmationCode, c.Channel, c.ConfirmationCode, l.RoomCategory,
			l.CheckIn.Format("2006-01-02"), l.CheckOut.Format("2006-01-02"))
	} else {
		conflict.Description = fmt.Sprintf(
			"date overlap: local %s (%s to %s) collides with %s reservation %s (%s to %s) for a %s room",
			l.ConfirmationCode, l.CheckIn.Format("2006-01-02"), l.CheckOut.Format("2006-01-02"),
			c.Channel, c.ConfirmationCode, c.CheckIn.Format("2006-01-02"), c.CheckOut.Format("2006-01-02"),
			l.RoomCategory)
	}
	return conflict
}

// GenerateConfirmationCode returns a short code like CRT-7KQ2NM.
func GenerateConfirmationCode() string {
	b := make([]byte, 6)
	for i := range b {
		b[i] = codeAlphabet[rand.Intn(len(codeAlphabet))]
	}
	return "CRT-" + string(b)
}
