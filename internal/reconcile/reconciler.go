package reconcile

import (
	"context"
	"fmt"
	"log"
	"time"

	"internfinder-engine/internal/domain"
)

// Producer yields one batch of raw records for a skills query. Producers may
// parallelize internally but return their full result set at once; a failed
// producer degrades to zero results for the run, it never aborts it.
type Producer interface {
	Source() domain.Source
	Fetch(ctx context.Context, query string) ([]domain.RawListing, error)
}

// Store is the durable, append-only, key-unique collection of every listing
// ever accepted. AppendAll is atomic: either the whole batch is durably
// recorded or none of it is, and an already-present key must fail loudly.
type Store interface {
	Load(ctx context.Context) ([]domain.Listing, error)
	ExistingKeys(ctx context.Context) (map[domain.IdentityKey]struct{}, error)
	AppendAll(ctx context.Context, listings []domain.Listing) error
}

// Notifier is told about the new subset of a run. It is only invoked when
// that subset is non-empty.
type Notifier interface {
	Notify(ctx context.Context, fresh []domain.Listing) error
}

// Reconciler pulls from all producers in a fixed order, normalizes, dedupes
// against the store, appends the new subset atomically and hands it to the
// notifiers. Producer order is a user-visible policy: when two sources yield
// the same key in one run, the first one encountered wins.
type Reconciler struct {
	store     Store
	producers []Producer
	notifiers []Notifier
	timeout   time.Duration
	now       func() time.Time
	running   chan struct{}
}

type Option func(*Reconciler)

// WithNotifier appends a notifier for the run's new subset.
func WithNotifier(n Notifier) Option {
	return func(r *Reconciler) { r.notifiers = append(r.notifiers, n) }
}

// WithProducerTimeout bounds each producer invocation.
func WithProducerTimeout(d time.Duration) Option {
	return func(r *Reconciler) { r.timeout = d }
}

// WithClock overrides the run-start clock.
func WithClock(now func() time.Time) Option {
	return func(r *Reconciler) { r.now = now }
}

func New(store Store, producers []Producer, opts ...Option) *Reconciler {
	r := &Reconciler{
		store:     store,
		producers: producers,
		timeout:   2 * time.Minute,
		now:       time.Now,
		running:   make(chan struct{}, 1),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Run executes one reconciliation pass and returns the newly accepted
// listings plus the full stored set (prior sequence concatenated with the new
// subset). At most one run is in flight per Reconciler; a second concurrent
// call fails fast with ErrRunInFlight instead of racing the first run's view
// of the stored keys. Per-source and per-record failures are absorbed with a
// warning; a persistence failure is fatal and leaves the store untouched, so
// the next run recomputes the same new subset.
func (r *Reconciler) Run(ctx context.Context, query string) (fresh, all []domain.Listing, err error) {
	select {
	case r.running <- struct{}{}:
	default:
		return nil, nil, ErrRunInFlight
	}
	defer func() { <-r.running }()

	existing, err := r.store.Load(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load store: %w", err)
	}
	seen, err := r.store.ExistingKeys(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load store keys: %w", err)
	}

	startedAt := r.now().UTC()
	warnings := 0

	for _, p := range r.producers {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		fctx, cancel := context.WithTimeout(ctx, r.timeout)
		raws, ferr := p.Fetch(fctx, query)
		cancel()
		if ferr != nil {
			warnings++
			log.Printf("[reconcile] source=%s failed, degrading to empty: %v", p.Source(), ferr)
			continue
		}
		log.Printf("[reconcile] source=%s yielded=%d", p.Source(), len(raws))

		for _, raw := range raws {
			l, nerr := Normalize(raw, p.Source(), startedAt)
			if nerr != nil {
				warnings++
				log.Printf("[reconcile] source=%s dropped record company=%q role=%q: %v",
					p.Source(), raw.Company, raw.Role, nerr)
				continue
			}

			k := domain.KeyOf(l)
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			fresh = append(fresh, l)
		}
	}

	// Cancellation before this point must not mutate the store.
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	if len(fresh) > 0 {
		if err := r.store.AppendAll(ctx, fresh); err != nil {
			return nil, nil, fmt.Errorf("persist %d new listings: %w", len(fresh), err)
		}
	}

	if warnings > 0 {
		log.Printf("[reconcile] run completed with %d warnings", warnings)
	}
	log.Printf("[reconcile] new=%d total=%d", len(fresh), len(existing)+len(fresh))

	all = make([]domain.Listing, 0, len(existing)+len(fresh))
	all = append(all, existing...)
	all = append(all, fresh...)

	if len(fresh) > 0 {
		for _, n := range r.notifiers {
			if nerr := n.Notify(ctx, fresh); nerr != nil {
				log.Printf("[reconcile] notify failed: %v", nerr)
			}
		}
	}

	return fresh, all, nil
}
