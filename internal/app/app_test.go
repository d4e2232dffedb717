package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"puppymentor/internal/conversation"
	"puppymentor/internal/domain"
	"puppymentor/internal/timer"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type mockReminders struct{ mock.Mock }

func (m *mockReminders) RescheduleAll(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockReminders) CancelUser(userID int64) {
	m.Called(userID)
}

type fakeJobs struct {
	err error
}

func (f fakeJobs) Register(registry *timer.Registry) error {
	if f.err != nil {
		return f.err
	}
	_, err := registry.Register(timer.SystemOwner, timer.Spec{Key: "job", At: domain.TimeOfDay{Hour: 9}}, func(context.Context, timer.Owner, timer.Spec) {})
	return err
}

type mockEraser struct{ mock.Mock }

func (m *mockEraser) Erase(ctx context.Context, userID int64) error {
	return m.Called(ctx, userID).Error(0)
}

type mockFlusher struct{ mock.Mock }

func (m *mockFlusher) Close(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type fixture struct {
	app       *App
	reminders *mockReminders
	eraser    *mockEraser
	flusher   *mockFlusher
}

func newFixture(jobs Jobs) *fixture {
	f := &fixture{
		reminders: new(mockReminders),
		eraser:    new(mockEraser),
		flusher:   new(mockFlusher),
	}
	f.app = New(
		timer.NewRegistry(time.UTC, zap.NewNop()),
		conversation.NewStore(),
		f.reminders,
		jobs,
		f.eraser,
		f.flusher,
		zap.NewNop(),
	)
	return f
}

func TestApp_StartAndShutdown(t *testing.T) {
	f := newFixture(fakeJobs{})
	f.reminders.On("RescheduleAll", mock.Anything).Return(nil)
	f.flusher.On("Close", mock.Anything).Return(nil)

	require.NoError(t, f.app.Start(context.Background()))
	assert.Equal(t, 1, f.app.Registry().Count())

	require.NoError(t, f.app.Shutdown(context.Background()))
	assert.Equal(t, 0, f.app.Registry().Count())

	f.reminders.AssertExpectations(t)
	f.flusher.AssertExpectations(t)
}

func TestApp_StartSurvivesRestoreFailure(t *testing.T) {
	f := newFixture(fakeJobs{})
	f.reminders.On("RescheduleAll", mock.Anything).Return(errors.New("db down"))
	f.flusher.On("Close", mock.Anything).Return(nil)

	require.NoError(t, f.app.Start(context.Background()))
	assert.Equal(t, 1, f.app.Registry().Count())

	require.NoError(t, f.app.Shutdown(context.Background()))
}

func TestApp_StartFailsOnJobError(t *testing.T) {
	f := newFixture(fakeJobs{err: errors.New("boom")})
	f.reminders.On("RescheduleAll", mock.Anything).Return(nil)

	err := f.app.Start(context.Background())

	assert.Error(t, err)
	f.app.Registry().Stop()
}

func TestApp_StartToleratesPartialJobs(t *testing.T) {
	partial := &timer.ScheduleConsistencyError{Owner: timer.SystemOwner}
	f := newFixture(fakeJobs{err: partial})
	f.reminders.On("RescheduleAll", mock.Anything).Return(nil)
	f.flusher.On("Close", mock.Anything).Return(nil)

	require.NoError(t, f.app.Start(context.Background()))
	require.NoError(t, f.app.Shutdown(context.Background()))
}

func TestApp_ShutdownReportsFlushError(t *testing.T) {
	f := newFixture(fakeJobs{})
	f.flusher.On("Close", mock.Anything).Return(errors.New("tx failed"))

	err := f.app.Shutdown(context.Background())

	assert.ErrorContains(t, err, "flush pending writes")
}

func TestApp_ResetUser(t *testing.T) {
	f := newFixture(fakeJobs{})
	f.app.States().Set(5, domain.AwaitingWeight())
	f.reminders.On("CancelUser", int64(5)).Return()
	f.eraser.On("Erase", mock.Anything, int64(5)).Return(nil)

	require.NoError(t, f.app.ResetUser(context.Background(), 5))

	assert.False(t, f.app.States().Get(5).Active())
	f.reminders.AssertExpectations(t)
	f.eraser.AssertExpectations(t)
	f.app.Registry().Stop()
}

func TestApp_ResetUserEraseError(t *testing.T) {
	f := newFixture(fakeJobs{})
	f.reminders.On("CancelUser", int64(5)).Return()
	f.eraser.On("Erase", mock.Anything, int64(5)).Return(errors.New("db down"))

	err := f.app.ResetUser(context.Background(), 5)

	assert.ErrorContains(t, err, "erase user")
	f.app.Registry().Stop()
}
