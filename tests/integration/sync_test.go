//go:build integration

package integration

import (
	"context"
	"testing"
	"time"

	"hotel-pms/internal/models"
	"hotel-pms/internal/repository"
	"hotel-pms/internal/service"
	"hotel-pms/internal/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	t, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		panic(err)
	}
	return t
}

func newSyncService() (service.SyncService, repository.OfflineQueueRepository, repository.ChannelBufferRepository, repository.ConflictRepository, repository.SyncLogRepository) {
	queueRepo := repository.NewOfflineQueueRepository(testDB)
	channelRepo := repository.NewChannelBufferRepository(testDB)
	conflictRepo := repository.NewConflictRepository(testDB)
	logRepo := repository.NewSyncLogRepository(testDB)

	// Zero delay, zero failure rate: deterministic submits.
	submitter := transport.NewSimulatedChannel(0, 0, 0)
	svc := service.NewSyncService(queueRepo, channelRepo, conflictRepo, logRepo, submitter, nil, time.Second)
	return svc, queueRepo, channelRepo, conflictRepo, logRepo
}

func TestSyncFlow_CleanQueueSyncs(t *testing.T) {
	cleanTables()
	svc, queueRepo, _, _, _ := newSyncService()
	ctx := context.Background()

	res, err := svc.AddToQueue(ctx, &models.OfflineReservation{
		GuestName:    "Alice",
		RoomCategory: "standard",
		CheckIn:      date("2024-09-01"),
		CheckOut:     date("2024-09-03"),
	})
	require.NoError(t, err)

	result, err := svc.SyncReservations(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Synced)
	assert.Equal(t, 0, result.Errors)
	assert.Empty(t, result.Conflicts)

	stored, err := queueRepo.FindByLocalID(ctx, res.LocalID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSynced, stored.SyncStatus)
	assert.NotNil(t, stored.SyncedAt)
}

func TestSyncFlow_ConflictBlocksThenKeepRemoteClears(t *testing.T) {
	cleanTables()
	svc, queueRepo, channelRepo, conflictRepo, _ := newSyncService()
	ctx := context.Background()

	local, err := svc.AddToQueue(ctx, &models.OfflineReservation{
		GuestName:    "Bob",
		RoomCategory: "standard",
		CheckIn:      date("2024-09-01"),
		CheckOut:     date("2024-09-03"),
	})
	require.NoError(t, err)

	require.NoError(t, channelRepo.Upsert(ctx, &models.ChannelReservation{
		ChannelID:        "bk-100",
		Channel:          models.ChannelBooking,
		ConfirmationCode: "BK-100",
		RoomCategory:     "standard",
		CheckIn:          date("2024-09-02"),
		CheckOut:         date("2024-09-04"),
	}))

	result, err := svc.SyncReservations(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Synced)
	require.Len(t, result.Conflicts, 1)
	assert.Equal(t, models.ConflictDateOverlap, result.Conflicts[0].Type)
	assert.Equal(t, models.SeverityMedium, result.Conflicts[0].Severity)

	// Re-running detection creates nothing new.
	again, err := svc.DetectConflicts(ctx)
	require.NoError(t, err)
	assert.Empty(t, again)

	_, err = svc.ResolveConflict(ctx, result.Conflicts[0].ID, models.ResolveKeepRemote)
	require.NoError(t, err)

	// Local entry gone from the queue, conflict record kept.
	_, err = queueRepo.FindByLocalID(ctx, local.LocalID)
	assert.Error(t, err)

	kept, err := conflictRepo.FindByID(ctx, result.Conflicts[0].ID)
	require.NoError(t, err)
	assert.Equal(t, models.ResolveKeepRemote, kept.Resolution)
	assert.NotNil(t, kept.ResolvedAt)
}

func TestSyncLog_CappedInDatabase(t *testing.T) {
	cleanTables()
	svc, _, _, _, logRepo := newSyncService()
	ctx := context.Background()

	for i := 0; i < 150; i++ {
		_, err := svc.AddToQueue(ctx, &models.OfflineReservation{
			GuestName:    "Guest",
			RoomCategory: "standard",
			CheckIn:      date("2024-09-01"),
			CheckOut:     date("2024-09-02"),
		})
		require.NoError(t, err)
	}

	entries, err := logRepo.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, entries, models.SyncLogCap)

	var count int64
	testDB.Model(&models.SyncLogEntry{}).Count(&count)
	assert.Equal(t, int64(models.SyncLogCap), count)
}

func TestRateService_AgainstDatabase(t *testing.T) {
	cleanTables()
	planRepo := repository.NewRatePlanRepository(testDB)
	offerRepo := repository.NewSpecialOfferRepository(testDB)
	svc := service.NewRateService(planRepo, offerRepo, nil, 0)
	ctx := context.Background()

	require.NoError(t, planRepo.Create(ctx, &models.RatePlan{
		Name: "Summer Season", SeasonType: models.SeasonHigh,
		StartDate: date("2024-06-01"), EndDate: date("2024-08-31"),
		Prices: models.PriceTable{"standard": 2000}, Priority: 1, Active: true,
	}))
	require.NoError(t, planRepo.Create(ctx, &models.RatePlan{
		Name: "Peak Holidays", SeasonType: models.SeasonPeak,
		StartDate: date("2024-07-15"), EndDate: date("2024-08-15"),
		Prices: models.PriceTable{"standard": 3500}, Priority: 10, Active: true,
	}))

	quote, err := svc.QuoteStay(ctx, date("2024-07-14"), date("2024-07-16"), "standard")
	require.NoError(t, err)
	assert.Equal(t, 2, quote.Nights)
	assert.Equal(t, 5500.0, quote.TotalAmount)
	assert.Equal(t, 2750.0, quote.AvgRate)
}
