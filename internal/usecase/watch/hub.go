// Package watch keeps live views of flags and withdrawal progress. One cached
// snapshot is held per key and refreshed once per change event, however many
// subscribers share it. Callbacks run one at a time on the hub's dispatch goroutine.
package watch

import (
	"context"
	"sync"
	"time"

	"treasury-desk/internal/domain/event"
	flaguc "treasury-desk/internal/usecase/flag"
	"treasury-desk/internal/usecase/progress"

	"go.uber.org/zap"
)

type FlagSource interface {
	Snapshot(ctx context.Context, withdrawalID string) (*flaguc.Snapshot, error)
	ListPending(ctx context.Context) ([]flaguc.FlagDTO, error)
}

type ProgressSource interface {
	Get(ctx context.Context, withdrawalID string) (*progress.Progress, error)
}

const (
	PendingFlagsKey     = event.CollectionFlags + ":pending"
	defaultFetchTimeout = 5 * time.Second
)

func FlagsKey(withdrawalID string) string    { return event.CollectionFlags + ":" + withdrawalID }
func ProgressKey(withdrawalID string) string { return event.CollectionWithdrawals + ":" + withdrawalID }

type subscription struct {
	id      uint64
	deliver func(any)
	onError func(error)
}

type topic struct {
	fetch    func(ctx context.Context) (any, error)
	subs     map[uint64]*subscription
	value    any
	hasValue bool
	queued   bool
}

type Hub struct {
	flags    FlagSource
	progress ProgressSource
	log      *zap.Logger
	timeout  time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
	wake   chan struct{}

	mu     sync.Mutex
	nextID uint64
	topics map[string]*topic
	tasks  []func()
}

func NewHub(flags FlagSource, prog ProgressSource, log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	h := &Hub{
		flags:    flags,
		progress: prog,
		log:      log,
		timeout:  defaultFetchTimeout,
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
		wake:     make(chan struct{}, 1),
		topics:   map[string]*topic{},
	}
	go h.loop()
	return h
}

// Close stops dispatching; pending callbacks are dropped.
func (h *Hub) Close() {
	h.cancel()
	<-h.done
}

func (h *Hub) SubscribeFlags(withdrawalID string, onChange func(flaguc.Snapshot), onError func(error)) func() {
	fetch := func(ctx context.Context) (any, error) {
		s, err := h.flags.Snapshot(ctx, withdrawalID)
		if err != nil {
			return nil, err
		}
		return *s, nil
	}
	return h.subscribe(FlagsKey(withdrawalID), fetch, func(v any) { onChange(v.(flaguc.Snapshot)) }, onError)
}

func (h *Hub) SubscribePendingFlags(onChange func([]flaguc.FlagDTO), onError func(error)) func() {
	fetch := func(ctx context.Context) (any, error) {
		return h.flags.ListPending(ctx)
	}
	return h.subscribe(PendingFlagsKey, fetch, func(v any) { onChange(v.([]flaguc.FlagDTO)) }, onError)
}

func (h *Hub) SubscribeProgress(withdrawalID string, onChange func(progress.Progress), onError func(error)) func() {
	fetch := func(ctx context.Context) (any, error) {
		p, err := h.progress.Get(ctx, withdrawalID)
		if err != nil {
			return nil, err
		}
		return *p, nil
	}
	return h.subscribe(ProgressKey(withdrawalID), fetch, func(v any) { onChange(v.(progress.Progress)) }, onError)
}

// Publish lets the hub stand in as the usecases' event.Publisher when the
// process runs without Redis.
func (h *Hub) Publish(_ context.Context, e event.Event) error {
	h.Notify(e)
	return nil
}

// Notify schedules a refresh of every key the event touches.
func (h *Hub) Notify(e event.Event) {
	var keys []string
	switch e.Collection {
	case event.CollectionFlags:
		keys = []string{FlagsKey(e.WithdrawalID), PendingFlagsKey}
	case event.CollectionWithdrawals:
		keys = []string{ProgressKey(e.WithdrawalID)}
	default:
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, k := range keys {
		t, ok := h.topics[k]
		if !ok || t.queued {
			continue
		}
		t.queued = true
		key := k
		h.enqueueLocked(func() { h.refresh(key) })
	}
}

func (h *Hub) subscribe(key string, fetch func(context.Context) (any, error), deliver func(any), onError func(error)) func() {
	h.mu.Lock()
	t, ok := h.topics[key]
	if !ok {
		t = &topic{fetch: fetch, subs: map[uint64]*subscription{}}
		h.topics[key] = t
	}
	h.nextID++
	s := &subscription{id: h.nextID, deliver: deliver, onError: onError}
	t.subs[s.id] = s
	h.enqueueLocked(func() { h.initial(key, s) })
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { h.unsubscribe(key, s.id) })
	}
}

func (h *Hub) unsubscribe(key string, id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	t, ok := h.topics[key]
	if !ok {
		return
	}
	delete(t.subs, id)
	// nobody left to keep the cache fresh
	if len(t.subs) == 0 {
		delete(h.topics, key)
	}
}

// initial hands a new subscriber the cached snapshot, fetching one if needed.
func (h *Hub) initial(key string, s *subscription) {
	h.mu.Lock()
	t, ok := h.topics[key]
	if !ok || t.subs[s.id] == nil {
		h.mu.Unlock()
		return
	}
	if t.hasValue {
		v := t.value
		h.mu.Unlock()
		s.deliver(v)
		return
	}
	h.mu.Unlock()
	h.refresh(key)
}

func (h *Hub) refresh(key string) {
	h.mu.Lock()
	t, ok := h.topics[key]
	if !ok {
		h.mu.Unlock()
		return
	}
	t.queued = false
	fetch := t.fetch
	h.mu.Unlock()

	ctx, cancel := context.WithTimeout(h.ctx, h.timeout)
	v, err := fetch(ctx)
	cancel()

	h.mu.Lock()
	t, ok = h.topics[key]
	if !ok {
		h.mu.Unlock()
		return
	}
	if err == nil {
		t.value, t.hasValue = v, true
	}
	subs := make([]*subscription, 0, len(t.subs))
	for _, s := range t.subs {
		subs = append(subs, s)
	}
	h.mu.Unlock()

	if err != nil {
		h.log.Warn("watch refresh failed", zap.String("key", key), zap.Error(err))
		for _, s := range subs {
			if s.onError != nil {
				s.onError(err)
			}
		}
		return
	}
	for _, s := range subs {
		s.deliver(v)
	}
}

func (h *Hub) enqueueLocked(task func()) {
	h.tasks = append(h.tasks, task)
	select {
	case h.wake <- struct{}{}:
	default:
	}
}

func (h *Hub) loop() {
	defer close(h.done)
	for {
		select {
		case <-h.ctx.Done():
			return
		case <-h.wake:
		}
		for {
			h.mu.Lock()
			if len(h.tasks) == 0 {
				h.mu.Unlock()
				break
			}
			task := h.tasks[0]
			h.tasks = h.tasks[1:]
			h.mu.Unlock()

			if h.ctx.Err() != nil {
				return
			}
			task()
		}
	}
}
