// Package timer keeps the live set of daily recurring triggers, grouped by owner.
package timer

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"puppymentor/internal/domain"
)

var (
	ErrInvalidSpec  = errors.New("invalid trigger spec")
	ErrDuplicateKey = errors.New("trigger key already registered for owner")
	ErrNilAction    = errors.New("nil action")
)

// Owner groups triggers that are replaced and cancelled together
type Owner string

// SystemOwner owns the fixed process-wide jobs
const SystemOwner Owner = "system"

const userOwnerPrefix = "user:"

// UserOwner returns the owner key of a user's reminders
func UserOwner(userID int64) Owner {
	return Owner(userOwnerPrefix + strconv.FormatInt(userID, 10))
}

// UserID extracts the user ID from a user owner key
func (o Owner) UserID() (int64, bool) {
	s, ok := strings.CutPrefix(string(o), userOwnerPrefix)
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// Spec describes a trigger firing once a day at At in the registry timezone.
// Key identifies the trigger within its owner; it defaults to the time of day.
type Spec struct {
	Key string
	At  domain.TimeOfDay
}

func (s Spec) key() string {
	if s.Key != "" {
		return s.Key
	}
	return s.At.String()
}

func (s Spec) cronExpr() string {
	return fmt.Sprintf("%d %d * * *", s.At.Minute, s.At.Hour)
}

// Action is invoked on every firing with the owner and spec it was registered under
type Action func(ctx context.Context, owner Owner, spec Spec)

// Handle is a live registration. It doubles as the cron job.
type Handle struct {
	reg    *Registry
	owner  Owner
	spec   Spec
	action Action
	entry  cron.EntryID

	mu        sync.Mutex
	cancelled bool
}

func (h *Handle) Owner() Owner { return h.owner }
func (h *Handle) Spec() Spec   { return h.spec }

// Run fires the action unless the handle has been cancelled.
// It holds the handle lock for the whole call so cancellation waits for it.
func (h *Handle) Run() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.cancelled {
		return
	}

	defer func() {
		if rec := recover(); rec != nil {
			h.reg.log.Error("Trigger action panicked",
				zap.String("owner", string(h.owner)),
				zap.String("key", h.spec.key()),
				zap.Any("panic", rec))
		}
	}()

	h.action(h.reg.ctx, h.owner, h.spec)
}

func (h *Handle) cancel() {
	h.mu.Lock()
	h.cancelled = true
	h.mu.Unlock()
}

// Registry owns every active trigger of the process
type Registry struct {
	cron *cron.Cron
	loc  *time.Location
	log  *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	owners map[Owner]map[string]*Handle

	ownerLocks map[Owner]*sync.Mutex
	locksMux   sync.Mutex
}

// NewRegistry creates a stopped registry evaluating specs in loc
func NewRegistry(loc *time.Location, log *zap.Logger) *Registry {
	ctx, cancel := context.WithCancel(context.Background())
	return &Registry{
		cron:       cron.New(cron.WithLocation(loc)),
		loc:        loc,
		log:        log,
		ctx:        ctx,
		cancel:     cancel,
		owners:     make(map[Owner]map[string]*Handle),
		ownerLocks: make(map[Owner]*sync.Mutex),
	}
}

// Location returns the reference timezone
func (r *Registry) Location() *time.Location {
	return r.loc
}

func (r *Registry) ownerLock(owner Owner) *sync.Mutex {
	r.locksMux.Lock()
	defer r.locksMux.Unlock()

	if _, exists := r.ownerLocks[owner]; !exists {
		r.ownerLocks[owner] = &sync.Mutex{}
	}
	return r.ownerLocks[owner]
}

// Register schedules action at every daily occurrence of spec
func (r *Registry) Register(owner Owner, spec Spec, action Action) (*Handle, error) {
	lock := r.ownerLock(owner)
	lock.Lock()
	defer lock.Unlock()

	return r.register(owner, spec, action)
}

func (r *Registry) register(owner Owner, spec Spec, action Action) (*Handle, error) {
	if action == nil {
		return nil, ErrNilAction
	}
	if !spec.At.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidSpec, spec.At)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := spec.key()
	handles := r.owners[owner]
	if _, exists := handles[key]; exists {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateKey, key)
	}

	h := &Handle{reg: r, owner: owner, spec: spec, action: action}
	id, err := r.cron.AddJob(spec.cronExpr(), h)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSpec, err)
	}
	h.entry = id

	if handles == nil {
		handles = make(map[string]*Handle)
		r.owners[owner] = handles
	}
	handles[key] = h

	return h, nil
}

// CancelAll cancels every trigger of owner. When it returns no cancelled action is running or will run.
func (r *Registry) CancelAll(owner Owner) {
	lock := r.ownerLock(owner)
	lock.Lock()
	defer lock.Unlock()

	r.cancelAll(owner)
}

func (r *Registry) cancelAll(owner Owner) {
	r.mu.Lock()
	handles := r.owners[owner]
	delete(r.owners, owner)
	for _, h := range handles {
		r.cron.Remove(h.entry)
	}
	r.mu.Unlock()

	// outside r.mu so a running action may still query the registry
	for _, h := range handles {
		h.cancel()
	}
}

// ReplaceAll atomically swaps the owner's triggers for specs.
// Failed specs are skipped and reported together in a *ScheduleConsistencyError.
func (r *Registry) ReplaceAll(owner Owner, specs []Spec, action Action) error {
	lock := r.ownerLock(owner)
	lock.Lock()
	defer lock.Unlock()

	r.cancelAll(owner)

	var failures []SpecError
	for _, spec := range specs {
		if _, err := r.register(owner, spec, action); err != nil {
			r.log.Error("Failed to register trigger",
				zap.String("owner", string(owner)),
				zap.String("key", spec.key()),
				zap.String("at", spec.At.String()),
				zap.Error(err))
			failures = append(failures, SpecError{Spec: spec, Err: err})
		}
	}

	if len(failures) > 0 {
		return &ScheduleConsistencyError{Owner: owner, Failures: failures}
	}
	return nil
}

// Specs returns the live specs of owner ordered by key
func (r *Registry) Specs(owner Owner) []Spec {
	r.mu.Lock()
	defer r.mu.Unlock()

	specs := make([]Spec, 0, len(r.owners[owner]))
	for _, h := range r.owners[owner] {
		specs = append(specs, h.spec)
	}
	sort.Slice(specs, func(i, j int) bool {
		return specs[i].key() < specs[j].key()
	})
	return specs
}

// Next returns the next firing time of the owner's trigger with key after now
func (r *Registry) Next(owner Owner, key string, now time.Time) (time.Time, bool) {
	r.mu.Lock()
	h, ok := r.owners[owner][key]
	r.mu.Unlock()
	if !ok {
		return time.Time{}, false
	}

	sched, err := cron.ParseStandard(h.spec.cronExpr())
	if err != nil {
		return time.Time{}, false
	}
	return sched.Next(now.In(r.loc)), true
}

// Count returns the number of live triggers across all owners
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, handles := range r.owners {
		n += len(handles)
	}
	return n
}

// Start begins firing triggers
func (r *Registry) Start() {
	r.cron.Start()
	r.log.Info("Timer registry started", zap.Int("triggers", r.Count()), zap.String("tz", r.loc.String()))
}

// Stop cancels every trigger and waits for running actions to return
func (r *Registry) Stop() {
	r.cancel()
	<-r.cron.Stop().Done()

	r.mu.Lock()
	owners := make([]Owner, 0, len(r.owners))
	for owner := range r.owners {
		owners = append(owners, owner)
	}
	r.mu.Unlock()

	for _, owner := range owners {
		r.CancelAll(owner)
	}
	r.log.Info("Timer registry stopped")
}
