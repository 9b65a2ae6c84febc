package treemap

import (
	"go.opentelemetry.io/otel/metric"

	"github.com/benz9527/xcoll/lib/coll"
	"github.com/benz9527/xcoll/lib/tree"
	"github.com/benz9527/xcoll/lib/xlog"
)

// treeMapOptions is shared, read only, by a map and all of its views.
type treeMapOptions[K, V any] struct {
	cmp      coll.Comparator[K] // effective ordering of the backing tree
	valEq    coll.Equaler[V]
	logger   xlog.XLogger
	meters   metric.MeterProvider
	metered  bool
	isDesc   bool
	treeOpts []tree.RBTreeOpt[K, V]
}

type TreeMapOption[K, V any] func(*treeMapOptions[K, V])

// WithTreeMapValueEqual sets the value equality of ContainsValue,
// RemoveEntry and entry containment. Defaults to coll.DeepEqual.
func WithTreeMapValueEqual[K, V any](eq coll.Equaler[V]) TreeMapOption[K, V] {
	return func(opts *treeMapOptions[K, V]) {
		if eq != nil {
			opts.valEq = eq
		}
	}
}

func WithTreeMapLogger[K, V any](logger xlog.XLogger) TreeMapOption[K, V] {
	return func(opts *treeMapOptions[K, V]) {
		if logger != nil {
			opts.logger = logger
		}
	}
}

func WithTreeMapStats[K, V any](provider metric.MeterProvider) TreeMapOption[K, V] {
	return func(opts *treeMapOptions[K, V]) {
		opts.meters, opts.metered = provider, true
	}
}

// WithTreeMapDesc orders the map by the inverse of its comparator.
func WithTreeMapDesc[K, V any]() TreeMapOption[K, V] {
	return func(opts *treeMapOptions[K, V]) {
		opts.isDesc = true
	}
}

func newTreeMapOptions[K, V any](opts ...TreeMapOption[K, V]) *treeMapOptions[K, V] {
	o := &treeMapOptions[K, V]{
		valEq:  coll.DeepEqual[V](),
		logger: xlog.NewNopXLogger(),
	}
	for _, opt := range opts {
		opt(o)
	}
	o.treeOpts = append(o.treeOpts, tree.WithRBTreeLogger[K, V](o.logger))
	if o.metered {
		o.treeOpts = append(o.treeOpts, tree.WithRBTreeStats[K, V](o.meters))
	}
	if o.isDesc {
		o.treeOpts = append(o.treeOpts, tree.WithRBTreeDesc[K, V]())
	}
	return o
}
