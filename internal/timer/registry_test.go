package timer

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"puppymentor/internal/domain"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestRegistry() *Registry {
	return NewRegistry(time.UTC, zap.NewNop())
}

func noop(context.Context, Owner, Spec) {}

func at(h, m int) domain.TimeOfDay {
	return domain.TimeOfDay{Hour: h, Minute: m}
}

func TestOwner(t *testing.T) {
	id, ok := UserOwner(12345).UserID()
	assert.True(t, ok)
	assert.Equal(t, int64(12345), id)

	_, ok = SystemOwner.UserID()
	assert.False(t, ok)

	_, ok = Owner("user:abc").UserID()
	assert.False(t, ok)
}

func TestRegistry_Register(t *testing.T) {
	tests := []struct {
		name    string
		spec    Spec
		action  Action
		wantErr error
	}{
		{name: "valid", spec: Spec{Key: "a", At: at(8, 20)}, action: noop},
		{name: "default key", spec: Spec{At: at(9, 0)}, action: noop},
		{name: "hour out of range", spec: Spec{Key: "b", At: at(24, 0)}, action: noop, wantErr: ErrInvalidSpec},
		{name: "minute out of range", spec: Spec{Key: "c", At: at(10, 61)}, action: noop, wantErr: ErrInvalidSpec},
		{name: "nil action", spec: Spec{Key: "d", At: at(10, 0)}, wantErr: ErrNilAction},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRegistry()
			h, err := r.Register(UserOwner(1), tt.spec, tt.action)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, 0, r.Count())
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, UserOwner(1), h.Owner())
			assert.Equal(t, 1, r.Count())
		})
	}
}

func TestRegistry_RegisterRejectsDuplicateKey(t *testing.T) {
	r := newTestRegistry()

	_, err := r.Register(UserOwner(1), Spec{Key: "ev", At: at(8, 0)}, noop)
	require.NoError(t, err)

	_, err = r.Register(UserOwner(1), Spec{Key: "ev", At: at(9, 0)}, noop)
	assert.ErrorIs(t, err, ErrDuplicateKey)

	// same key under another owner is a different identity
	_, err = r.Register(UserOwner(2), Spec{Key: "ev", At: at(9, 0)}, noop)
	assert.NoError(t, err)

	assert.Equal(t, 2, r.Count())
}

func TestRegistry_CancelAll(t *testing.T) {
	r := newTestRegistry()
	var fired atomic.Int32
	action := func(context.Context, Owner, Spec) { fired.Add(1) }

	h, err := r.Register(UserOwner(1), Spec{Key: "ev", At: at(8, 0)}, action)
	require.NoError(t, err)
	_, err = r.Register(UserOwner(2), Spec{Key: "ev", At: at(8, 0)}, action)
	require.NoError(t, err)

	r.CancelAll(UserOwner(1))
	r.CancelAll(UserOwner(3))

	h.Run()
	assert.Equal(t, int32(0), fired.Load())
	assert.Empty(t, r.Specs(UserOwner(1)))
	assert.Len(t, r.Specs(UserOwner(2)), 1)
	assert.Equal(t, 1, r.Count())
}

func TestRegistry_ActionReceivesOwnerAndSpec(t *testing.T) {
	r := newTestRegistry()
	var gotOwner Owner
	var gotSpec Spec

	spec := Spec{Key: "ev-1", At: at(7, 50)}
	h, err := r.Register(UserOwner(77), spec, func(_ context.Context, o Owner, s Spec) {
		gotOwner = o
		gotSpec = s
	})
	require.NoError(t, err)

	h.Run()
	assert.Equal(t, UserOwner(77), gotOwner)
	assert.Equal(t, spec, gotSpec)
}

func TestRegistry_CancelAllWaitsForRunningAction(t *testing.T) {
	r := newTestRegistry()
	started := make(chan struct{})
	release := make(chan struct{})

	h, err := r.Register(UserOwner(1), Spec{Key: "ev", At: at(8, 0)}, func(context.Context, Owner, Spec) {
		close(started)
		<-release
	})
	require.NoError(t, err)

	runDone := make(chan struct{})
	go func() {
		h.Run()
		close(runDone)
	}()
	<-started

	cancelled := make(chan struct{})
	go func() {
		r.CancelAll(UserOwner(1))
		close(cancelled)
	}()

	select {
	case <-cancelled:
		t.Fatal("CancelAll returned while the action was still running")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	<-runDone

	select {
	case <-cancelled:
	case <-time.After(time.Second):
		t.Fatal("CancelAll did not return after the action finished")
	}
}

func TestRegistry_ReplaceAll(t *testing.T) {
	r := newTestRegistry()
	owner := UserOwner(5)

	first := []Spec{{Key: "a", At: at(8, 0)}, {Key: "b", At: at(12, 0)}}
	require.NoError(t, r.ReplaceAll(owner, first, noop))
	assert.Equal(t, first, r.Specs(owner))

	second := []Spec{{Key: "c", At: at(18, 30)}}
	require.NoError(t, r.ReplaceAll(owner, second, noop))
	assert.Equal(t, second, r.Specs(owner))
	assert.Equal(t, 1, r.Count())

	require.NoError(t, r.ReplaceAll(owner, nil, noop))
	assert.Empty(t, r.Specs(owner))
}

func TestRegistry_ReplaceAllIsIdempotent(t *testing.T) {
	r := newTestRegistry()
	owner := UserOwner(5)
	specs := []Spec{{Key: "a", At: at(23, 55)}, {Key: "b", At: at(23, 50)}}

	require.NoError(t, r.ReplaceAll(owner, specs, noop))
	once := r.Specs(owner)

	require.NoError(t, r.ReplaceAll(owner, specs, noop))
	assert.Equal(t, once, r.Specs(owner))
	assert.Equal(t, 2, r.Count())
}

func TestRegistry_ReplaceAllIsolatesFailures(t *testing.T) {
	r := newTestRegistry()
	owner := UserOwner(5)

	err := r.ReplaceAll(owner, []Spec{
		{Key: "a", At: at(8, 0)},
		{Key: "bad", At: at(25, 0)},
		{Key: "a", At: at(9, 0)},
		{Key: "c", At: at(10, 0)},
	}, noop)

	var consistencyErr *ScheduleConsistencyError
	require.True(t, errors.As(err, &consistencyErr))
	assert.Equal(t, owner, consistencyErr.Owner)
	assert.Len(t, consistencyErr.Failures, 2)
	assert.ErrorIs(t, err, ErrInvalidSpec)
	assert.ErrorIs(t, err, ErrDuplicateKey)

	assert.Equal(t, []Spec{{Key: "a", At: at(8, 0)}, {Key: "c", At: at(10, 0)}}, r.Specs(owner))
}

func TestRegistry_ReplacedHandleNeverFires(t *testing.T) {
	r := newTestRegistry()
	owner := UserOwner(5)
	var fired atomic.Int32
	action := func(context.Context, Owner, Spec) { fired.Add(1) }

	h, err := r.Register(owner, Spec{Key: "deleted", At: at(8, 0)}, action)
	require.NoError(t, err)

	require.NoError(t, r.ReplaceAll(owner, []Spec{{Key: "kept", At: at(9, 0)}}, action))

	h.Run()
	assert.Equal(t, int32(0), fired.Load())
	_, ok := r.Next(owner, "deleted", time.Now())
	assert.False(t, ok)
}

func TestRegistry_RecoversPanickingAction(t *testing.T) {
	r := newTestRegistry()
	h, err := r.Register(SystemOwner, Spec{Key: "boom", At: at(9, 0)}, func(context.Context, Owner, Spec) {
		panic("boom")
	})
	require.NoError(t, err)

	assert.NotPanics(t, h.Run)
}

func TestRegistry_Next(t *testing.T) {
	loc := time.FixedZone("MSK", 3*3600)
	r := NewRegistry(loc, zap.NewNop())
	_, err := r.Register(SystemOwner, Spec{Key: "tip", At: at(9, 0)}, noop)
	require.NoError(t, err)

	now := time.Date(2025, 6, 1, 10, 0, 0, 0, loc)
	next, ok := r.Next(SystemOwner, "tip", now)
	assert.True(t, ok)
	assert.Equal(t, time.Date(2025, 6, 2, 9, 0, 0, 0, loc), next.In(loc))
}

func TestRegistry_StartStop(t *testing.T) {
	r := newTestRegistry()
	_, err := r.Register(UserOwner(1), Spec{Key: "ev", At: at(8, 0)}, noop)
	require.NoError(t, err)

	r.Start()
	r.Stop()

	assert.Equal(t, 0, r.Count())
}
