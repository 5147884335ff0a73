package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"hotel-pms/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// --- In-memory repositories ---

type fakeQueueRepo struct {
	items []*models.OfflineReservation
}

func (f *fakeQueueRepo) find(localID string) *models.OfflineReservation {
	for _, r := range f.items {
		if r.LocalID == localID {
			return r
		}
	}
	return nil
}

func (f *fakeQueueRepo) Create(ctx context.Context, res *models.OfflineReservation) error {
	cp := *res
	f.items = append(f.items, &cp)
	return nil
}

func (f *fakeQueueRepo) FindByLocalID(ctx context.Context, localID string) (*models.OfflineReservation, error) {
	if r := f.find(localID); r != nil {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeQueueRepo) FindAll(ctx context.Context) ([]models.OfflineReservation, error) {
	out := make([]models.OfflineReservation, len(f.items))
	for i, r := range f.items {
		out[i] = *r
	}
	return out, nil
}

func (f *fakeQueueRepo) FindByStatus(ctx context.Context, status models.SyncStatus) ([]models.OfflineReservation, error) {
	var out []models.OfflineReservation
	for _, r := range f.items {
		if r.SyncStatus == status {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeQueueRepo) UpdateStatus(ctx context.Context, localID string, status models.SyncStatus) error {
	if r := f.find(localID); r != nil {
		r.SyncStatus = status
	}
	return nil
}

func (f *fakeQueueRepo) ClaimForSync(ctx context.Context, localID string) (bool, error) {
	r := f.find(localID)
	if r == nil || r.SyncStatus != models.StatusPending {
		return false, nil
	}
	r.SyncStatus = models.StatusSyncing
	return true, nil
}

func (f *fakeQueueRepo) MarkSynced(ctx context.Context, localID string, at time.Time) error {
	if r := f.find(localID); r != nil {
		r.SyncStatus = models.StatusSynced
		r.SyncError = ""
		r.SyncedAt = &at
	}
	return nil
}

func (f *fakeQueueRepo) MarkError(ctx context.Context, localID string, msg string) error {
	if r := f.find(localID); r != nil {
		r.SyncStatus = models.StatusError
		r.SyncError = msg
	}
	return nil
}

func (f *fakeQueueRepo) Delete(ctx context.Context, localID string) error {
	for i, r := range f.items {
		if r.LocalID == localID {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return nil
}

type fakeBufferRepo struct {
	items []models.ChannelReservation
}

func (f *fakeBufferRepo) Upsert(ctx context.Context, res *models.ChannelReservation) error {
	for i := range f.items {
		if f.items[i].ChannelID == res.ChannelID {
			f.items[i] = *res
			return nil
		}
	}
	f.items = append(f.items, *res)
	return nil
}

func (f *fakeBufferRepo) FindAll(ctx context.Context) ([]models.ChannelReservation, error) {
	return append([]models.ChannelReservation{}, f.items...), nil
}

func (f *fakeBufferRepo) Delete(ctx context.Context, channelID string) error {
	for i := range f.items {
		if f.items[i].ChannelID == channelID {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return nil
}

type fakeConflictRepo struct {
	items []*models.SyncConflict
}

func (f *fakeConflictRepo) Create(ctx context.Context, c *models.SyncConflict) error {
	cp := *c
	f.items = append(f.items, &cp)
	return nil
}

func (f *fakeConflictRepo) FindByID(ctx context.Context, id string) (*models.SyncConflict, error) {
	for _, c := range f.items {
		if c.ID == id {
			cp := *c
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeConflictRepo) FindAll(ctx context.Context) ([]models.SyncConflict, error) {
	out := make([]models.SyncConflict, len(f.items))
	for i, c := range f.items {
		out[i] = *c
	}
	return out, nil
}

func (f *fakeConflictRepo) FindUnresolved(ctx context.Context) ([]models.SyncConflict, error) {
	var out []models.SyncConflict
	for _, c := range f.items {
		if !c.Resolved() {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeConflictRepo) PairExists(ctx context.Context, localID, channelID string) (bool, error) {
	for _, c := range f.items {
		if c.LocalID == localID && c.ChannelID == channelID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeConflictRepo) Resolve(ctx context.Context, id string, res models.Resolution, at time.Time) error {
	for _, c := range f.items {
		if c.ID == id {
			c.Resolution = res
			c.ResolvedAt = &at
		}
	}
	return nil
}

type fakeLogRepo struct {
	entries []models.SyncLogEntry
	nextID  uint
}

func (f *fakeLogRepo) Append(ctx context.Context, entry *models.SyncLogEntry) error {
	f.nextID++
	entry.ID = f.nextID
	entry.CreatedAt = time.Now()
	f.entries = append(f.entries, *entry)
	if len(f.entries) > models.SyncLogCap {
		f.entries = f.entries[len(f.entries)-models.SyncLogCap:]
	}
	return nil
}

func (f *fakeLogRepo) Recent(ctx context.Context, limit int) ([]models.SyncLogEntry, error) {
	if limit <= 0 || limit > models.SyncLogCap {
		limit = models.SyncLogCap
	}
	var out []models.SyncLogEntry
	for i := len(f.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, f.entries[i])
	}
	return out, nil
}

type fakeSubmitter struct {
	err   error
	calls []string
}

func (f *fakeSubmitter) Submit(ctx context.Context, res *models.OfflineReservation) error {
	f.calls = append(f.calls, res.LocalID)
	return f.err
}

// --- Fixture ---

type syncFixture struct {
	queue     *fakeQueueRepo
	buffer    *fakeBufferRepo
	conflicts *fakeConflictRepo
	logs      *fakeLogRepo
	submitter *fakeSubmitter
	svc       SyncService
}

func newSyncFixture() *syncFixture {
	fx := &syncFixture{
		queue:     &fakeQueueRepo{},
		buffer:    &fakeBufferRepo{},
		conflicts: &fakeConflictRepo{},
		logs:      &fakeLogRepo{},
		submitter: &fakeSubmitter{},
	}
	fx.svc = NewSyncService(fx.queue, fx.buffer, fx.conflicts, fx.logs, fx.submitter, nil, time.Second)
	return fx
}

func (fx *syncFixture) addLocal(localID, category, checkIn, checkOut string) *models.OfflineReservation {
	r := &models.OfflineReservation{
		LocalID:          localID,
		ConfirmationCode: "CRT-TEST" + localID,
		GuestName:        "Guest " + localID,
		RoomCategory:     category,
		CheckIn:          date(checkIn),
		CheckOut:         date(checkOut),
		SyncStatus:       models.StatusPending,
		CreatedOffline:   true,
	}
	fx.queue.items = append(fx.queue.items, r)
	return r
}

func (fx *syncFixture) addChannel(channelID, category, checkIn, checkOut string) {
	fx.buffer.items = append(fx.buffer.items, models.ChannelReservation{
		ChannelID:        channelID,
		Channel:          models.ChannelBooking,
		ConfirmationCode: "BK-" + channelID,
		RoomCategory:     category,
		CheckIn:          date(checkIn),
		CheckOut:         date(checkOut),
	})
}

// --- AddToQueue ---

func TestAddToQueue(t *testing.T) {
	fx := newSyncFixture()

	res, err := fx.svc.AddToQueue(context.Background(), &models.OfflineReservation{
		GuestName:    "Alice",
		RoomCategory: "standard",
		CheckIn:      date("2024-09-01"),
		CheckOut:     date("2024-09-03"),
	})
	require.NoError(t, err)

	assert.NotEmpty(t, res.LocalID)
	assert.Regexp(t, "^CRT-[ABCDEFGHJKLMNPQRSTUVWXYZ23456789]{6}$", res.ConfirmationCode)
	assert.Equal(t, models.StatusPending, res.SyncStatus)
	assert.True(t, res.CreatedOffline)

	entries, _ := fx.logs.Recent(context.Background(), 10)
	require.Len(t, entries, 1)
	assert.Equal(t, models.ActionQueued, entries[0].Action)
	assert.Equal(t, res.LocalID, entries[0].ReservationID)
}

// --- DetectConflicts ---

func TestDetectConflicts_ExactOverlapIsOverbooking(t *testing.T) {
	fx := newSyncFixture()
	fx.addLocal("l1", "standard", "2024-09-01", "2024-09-03")
	fx.addChannel("ch1", "standard", "2024-09-01", "2024-09-03")

	conflicts, err := fx.svc.DetectConflicts(context.Background())
	require.NoError(t, err)

	require.Len(t, conflicts, 1)
	assert.Equal(t, models.ConflictOverbooking, conflicts[0].Type)
	assert.Equal(t, models.SeverityHigh, conflicts[0].Severity)
	assert.Equal(t, models.StatusConflict, fx.queue.find("l1").SyncStatus)

	entries, _ := fx.logs.Recent(context.Background(), 10)
	require.Len(t, entries, 1)
	assert.Equal(t, models.ActionConflictDetected, entries[0].Action)
}

func TestDetectConflicts_PartialOverlapIsMedium(t *testing.T) {
	fx := newSyncFixture()
	fx.addLocal("l1", "standard", "2024-09-01", "2024-09-03")
	fx.addChannel("ch1", "standard", "2024-09-02", "2024-09-04")

	conflicts, err := fx.svc.DetectConflicts(context.Background())
	require.NoError(t, err)

	require.Len(t, conflicts, 1)
	assert.Equal(t, models.ConflictDateOverlap, conflicts[0].Type)
	assert.Equal(t, models.SeverityMedium, conflicts[0].Severity)
}

func TestDetectConflicts_BackToBackDoesNotOverlap(t *testing.T) {
	fx := newSyncFixture()
	fx.addLocal("l1", "standard", "2024-09-01", "2024-09-03")
	fx.addChannel("ch1", "standard", "2024-09-03", "2024-09-05")

	conflicts, err := fx.svc.DetectConflicts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, conflicts)
	assert.Equal(t, models.StatusPending, fx.queue.find("l1").SyncStatus)
}

func TestDetectConflicts_DifferentCategoryDoesNotConflict(t *testing.T) {
	fx := newSyncFixture()
	fx.addLocal("l1", "standard", "2024-09-01", "2024-09-03")
	fx.addChannel("ch1", "deluxe", "2024-09-01", "2024-09-03")

	conflicts, err := fx.svc.DetectConflicts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, conflicts)
}

func TestDetectConflicts_Idempotent(t *testing.T) {
	fx := newSyncFixture()
	fx.addLocal("l1", "standard", "2024-09-01", "2024-09-03")
	fx.addChannel("ch1", "standard", "2024-09-02", "2024-09-04")

	first, err := fx.svc.DetectConflicts(context.Background())
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := fx.svc.DetectConflicts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, second)
	assert.Len(t, fx.conflicts.items, 1)
}

func TestDetectConflicts_QueueEntriesDoNotConflictWithEachOther(t *testing.T) {
	fx := newSyncFixture()
	fx.addLocal("l1", "standard", "2024-09-01", "2024-09-03")
	fx.addLocal("l2", "standard", "2024-09-01", "2024-09-03")

	conflicts, err := fx.svc.DetectConflicts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, conflicts)
}

func TestDetectConflicts_SyncedLocalSkipped(t *testing.T) {
	fx := newSyncFixture()
	r := fx.addLocal("l1", "standard", "2024-09-01", "2024-09-03")
	r.SyncStatus = models.StatusSynced
	fx.addChannel("ch1", "standard", "2024-09-01", "2024-09-03")

	conflicts, err := fx.svc.DetectConflicts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, conflicts)
}

// --- ResolveConflict ---

func detectOne(t *testing.T, fx *syncFixture) models.SyncConflict {
	t.Helper()
	conflicts, err := fx.svc.DetectConflicts(context.Background())
	require.NoError(t, err)
	require.Len(t, conflicts, 1)
	return conflicts[0]
}

func TestResolveConflict_KeepLocal(t *testing.T) {
	fx := newSyncFixture()
	fx.addLocal("l1", "standard", "2024-09-01", "2024-09-03")
	fx.addChannel("ch1", "standard", "2024-09-01", "2024-09-03")
	conflict := detectOne(t, fx)

	resolved, err := fx.svc.ResolveConflict(context.Background(), conflict.ID, models.ResolveKeepLocal)
	require.NoError(t, err)

	assert.Equal(t, models.StatusSynced, fx.queue.find("l1").SyncStatus)
	assert.Empty(t, fx.buffer.items)
	assert.Equal(t, models.ResolveKeepLocal, resolved.Resolution)
	assert.NotNil(t, resolved.ResolvedAt)
}

func TestResolveConflict_KeepRemote(t *testing.T) {
	fx := newSyncFixture()
	fx.addLocal("l1", "standard", "2024-09-01", "2024-09-03")
	fx.addChannel("ch1", "standard", "2024-09-01", "2024-09-03")
	conflict := detectOne(t, fx)

	_, err := fx.svc.ResolveConflict(context.Background(), conflict.ID, models.ResolveKeepRemote)
	require.NoError(t, err)

	assert.Nil(t, fx.queue.find("l1"))
	assert.Len(t, fx.buffer.items, 1)

	// The conflict record survives as audit trail.
	kept, err := fx.conflicts.FindByID(context.Background(), conflict.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ResolveKeepRemote, kept.Resolution)
}

func TestResolveConflict_Merge(t *testing.T) {
	fx := newSyncFixture()
	fx.addLocal("l1", "standard", "2024-09-01", "2024-09-03")
	fx.addChannel("ch1", "standard", "2024-09-01", "2024-09-03")
	conflict := detectOne(t, fx)

	_, err := fx.svc.ResolveConflict(context.Background(), conflict.ID, models.ResolveMerge)
	require.NoError(t, err)

	assert.Equal(t, models.StatusSynced, fx.queue.find("l1").SyncStatus)
	assert.Len(t, fx.buffer.items, 1)
}

func TestResolveConflict_DismissRevertsToPending(t *testing.T) {
	fx := newSyncFixture()
	fx.addLocal("l1", "standard", "2024-09-01", "2024-09-03")
	fx.addChannel("ch1", "standard", "2024-09-01", "2024-09-03")
	conflict := detectOne(t, fx)

	_, err := fx.svc.ResolveConflict(context.Background(), conflict.ID, models.ResolveDismiss)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, fx.queue.find("l1").SyncStatus)

	// The recorded pair is not raised again; the next pass syncs the entry.
	result, err := fx.svc.SyncReservations(context.Background())
	require.NoError(t, err)
	assert.Empty(t, result.Conflicts)
	assert.Equal(t, 1, result.Synced)
	assert.Equal(t, models.StatusSynced, fx.queue.find("l1").SyncStatus)
}

func TestResolveConflict_AlreadyResolved(t *testing.T) {
	fx := newSyncFixture()
	fx.addLocal("l1", "standard", "2024-09-01", "2024-09-03")
	fx.addChannel("ch1", "standard", "2024-09-01", "2024-09-03")
	conflict := detectOne(t, fx)

	_, err := fx.svc.ResolveConflict(context.Background(), conflict.ID, models.ResolveMerge)
	require.NoError(t, err)

	_, err = fx.svc.ResolveConflict(context.Background(), conflict.ID, models.ResolveDismiss)
	assert.ErrorIs(t, err, ErrConflictResolved)
}

func TestResolveConflict_NotFound(t *testing.T) {
	fx := newSyncFixture()

	_, err := fx.svc.ResolveConflict(context.Background(), "missing", models.ResolveMerge)
	assert.ErrorIs(t, err, ErrConflictNotFound)
}

func TestResolveConflict_InvalidResolution(t *testing.T) {
	fx := newSyncFixture()
	fx.addLocal("l1", "standard", "2024-09-01", "2024-09-03")
	fx.addChannel("ch1", "standard", "2024-09-01", "2024-09-03")
	conflict := detectOne(t, fx)

	_, err := fx.svc.ResolveConflict(context.Background(), conflict.ID, models.Resolution("split"))
	assert.ErrorIs(t, err, ErrInvalidResolution)
}

// --- SyncReservations ---

func TestSyncReservations_EmptyQueueIsNoOp(t *testing.T) {
	fx := newSyncFixture()

	result, err := fx.svc.SyncReservations(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, result.Synced)
	assert.Equal(t, 0, result.Errors)
	assert.Empty(t, result.Conflicts)
	assert.Empty(t, fx.submitter.calls)

	entries, _ := fx.logs.Recent(context.Background(), 10)
	assert.Empty(t, entries)
}

func TestSyncReservations_SyncsPendingEntries(t *testing.T) {
	fx := newSyncFixture()
	fx.addLocal("l1", "standard", "2024-09-01", "2024-09-03")
	fx.addLocal("l2", "deluxe", "2024-09-05", "2024-09-08")

	result, err := fx.svc.SyncReservations(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, result.Synced)
	assert.Equal(t, 0, result.Errors)
	assert.Len(t, fx.submitter.calls, 2)

	for _, id := range []string{"l1", "l2"} {
		r := fx.queue.find(id)
		assert.Equal(t, models.StatusSynced, r.SyncStatus)
		assert.NotNil(t, r.SyncedAt)
	}

	entries, _ := fx.logs.Recent(context.Background(), 10)
	assert.Equal(t, models.ActionSyncSuccess, entries[0].Action)
}

func TestSyncReservations_FailureIsPerItemState(t *testing.T) {
	fx := newSyncFixture()
	fx.submitter.err = errors.New("channel manager unavailable")
	fx.addLocal("l1", "standard", "2024-09-01", "2024-09-03")

	result, err := fx.svc.SyncReservations(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, result.Synced)
	assert.Equal(t, 1, result.Errors)

	r := fx.queue.find("l1")
	assert.Equal(t, models.StatusError, r.SyncStatus)
	assert.Equal(t, "channel manager unavailable", r.SyncError)

	entries, _ := fx.logs.Recent(context.Background(), 10)
	assert.Equal(t, models.ActionSyncFail, entries[0].Action)
}

func TestSyncReservations_ConflictingEntrySkipped(t *testing.T) {
	fx := newSyncFixture()
	fx.addLocal("l1", "standard", "2024-09-01", "2024-09-03")
	fx.addChannel("ch1", "standard", "2024-09-02", "2024-09-04")

	result, err := fx.svc.SyncReservations(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, result.Synced)
	require.Len(t, result.Conflicts, 1)
	assert.Empty(t, fx.submitter.calls)
	assert.Equal(t, models.StatusConflict, fx.queue.find("l1").SyncStatus)
}

// raceyQueueRepo reports an entry as pending that another pass has already
// claimed, mimicking two overlapping sync invocations.
type raceyQueueRepo struct {
	*fakeQueueRepo
	stale models.OfflineReservation
}

func (r *raceyQueueRepo) FindByStatus(ctx context.Context, status models.SyncStatus) ([]models.OfflineReservation, error) {
	if status == models.StatusPending {
		return []models.OfflineReservation{r.stale}, nil
	}
	return r.fakeQueueRepo.FindByStatus(ctx, status)
}

func TestSyncReservations_LostClaimIsSkipped(t *testing.T) {
	fx := newSyncFixture()
	r := fx.addLocal("l1", "standard", "2024-09-01", "2024-09-03")

	stale := *r
	r.SyncStatus = models.StatusSyncing // claimed elsewhere

	racey := &raceyQueueRepo{fakeQueueRepo: fx.queue, stale: stale}
	svc := NewSyncService(racey, fx.buffer, fx.conflicts, fx.logs, fx.submitter, nil, time.Second)

	result, err := svc.SyncReservations(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, result.Synced)
	assert.Equal(t, 0, result.Errors)
	assert.Empty(t, fx.submitter.calls)
	assert.Equal(t, models.StatusSyncing, fx.queue.find("l1").SyncStatus)
}

// --- Log cap ---

func TestSyncLogCappedAtMostRecentHundred(t *testing.T) {
	fx := newSyncFixture()

	var last *models.OfflineReservation
	for i := 0; i < 150; i++ {
		res, err := fx.svc.AddToQueue(context.Background(), &models.OfflineReservation{
			GuestName:    "Guest",
			RoomCategory: "standard",
			CheckIn:      date("2024-09-01"),
			CheckOut:     date("2024-09-02"),
		})
		require.NoError(t, err)
		last = res
	}

	entries, err := fx.logs.Recent(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, entries, models.SyncLogCap)
	assert.Equal(t, last.LocalID, entries[0].ReservationID)
	assert.True(t, entries[0].ID > entries[len(entries)-1].ID)
}
