package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/aaraaapps/aaraa.app/pkg/logger"
	"golang.org/x/sync/errgroup"
)

// DefaultOrphanGrace keeps fresh uploads out of reach while their
// submission insert is still on its way.
const DefaultOrphanGrace = 10 * time.Minute

// ErrRetentionCapped is returned by Purge when the submission store evicts
// old rows, since an evicted row's object would look orphaned.
var ErrRetentionCapped = errors.New("submission retention is capped; purge disabled")

// StoredObject is one bucket entry
type StoredObject struct {
	Key          string
	LastModified time.Time
}

// ObjectLister is the part of the bucket the reconciler needs
type ObjectLister interface {
	ListObjects(ctx context.Context, prefix string) ([]StoredObject, error)
	PublicURL(key string) string
	Remove(ctx context.Context, key string) error
}

// RetentionLimiter is implemented by stores that drop old submissions
type RetentionLimiter interface {
	RetentionCapped() bool
}

// Orphan is a stored object no submission points at
type Orphan struct {
	Key          string    `json:"key"`
	URL          string    `json:"url"`
	LastModified time.Time `json:"last_modified"`
}

// Reconciler finds objects left behind when an upload succeeded but the
// submission insert did not.
type Reconciler struct {
	objects     ObjectLister
	submissions SubmissionRepository
	grace       time.Duration
	now         func() time.Time
}

// NewReconciler ignores objects modified within grace. A non-positive grace
// selects DefaultOrphanGrace.
func NewReconciler(objects ObjectLister, submissions SubmissionRepository, grace time.Duration) *Reconciler {
	if grace <= 0 {
		grace = DefaultOrphanGrace
	}
	return &Reconciler{
		objects:     objects,
		submissions: submissions,
		grace:       grace,
		now:         time.Now,
	}
}

func (r *Reconciler) Orphans(ctx context.Context, prefix string) ([]Orphan, error) {
	var objects []StoredObject
	referenced := make(map[string]struct{})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		objects, err = r.objects.ListObjects(gctx, prefix)
		return err
	})
	g.Go(func() error {
		subs, err := r.submissions.ListSubmissions(gctx, SubmissionFilter{})
		if err != nil {
			return err
		}
		for _, s := range subs {
			referenced[s.URL] = struct{}{}
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("reconcile: %w", err)
	}

	cutoff := r.now().Add(-r.grace)
	orphans := make([]Orphan, 0)
	recent := 0
	for _, obj := range objects {
		if obj.LastModified.After(cutoff) {
			recent++
			continue
		}
		url := r.objects.PublicURL(obj.Key)
		if _, ok := referenced[url]; !ok {
			orphans = append(orphans, Orphan{Key: obj.Key, URL: url, LastModified: obj.LastModified})
		}
	}
	sort.Slice(orphans, func(i, j int) bool { return orphans[i].Key < orphans[j].Key })

	logger.Info(ctx, "reconciled bucket",
		"prefix", prefix,
		"objects", len(objects),
		"recent", recent,
		"orphans", len(orphans),
	)
	return orphans, nil
}

// Purge removes every orphan under prefix and returns what was deleted
func (r *Reconciler) Purge(ctx context.Context, prefix string) ([]Orphan, error) {
	if l, ok := r.submissions.(RetentionLimiter); ok && l.RetentionCapped() {
		return []Orphan{}, ErrRetentionCapped
	}
	orphans, err := r.Orphans(ctx, prefix)
	if err != nil {
		return nil, err
	}
	removed := make([]Orphan, 0, len(orphans))
	for _, o := range orphans {
		if err := r.objects.Remove(ctx, o.Key); err != nil {
			return removed, err
		}
		removed = append(removed, o)
	}
	return removed, nil
}
