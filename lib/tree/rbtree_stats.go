package tree

import (
	"context"

	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	RBTreeStatsName = "xcoll/rbtree"
)

type rbTreeStats struct {
	attrs        metric.MeasurementOption
	insertCount  metric.Int64Counter
	replaceCount metric.Int64Counter
	removeCount  metric.Int64Counter
	rotateCount  metric.Int64Counter
	size         metric.Int64UpDownCounter
}

func (stats *rbTreeStats) RecordInsert() {
	if stats == nil {
		return
	}
	stats.insertCount.Add(context.Background(), 1, stats.attrs)
	stats.size.Add(context.Background(), 1, stats.attrs)
}

func (stats *rbTreeStats) RecordReplace() {
	if stats == nil {
		return
	}
	stats.replaceCount.Add(context.Background(), 1, stats.attrs)
}

func (stats *rbTreeStats) RecordRemove() {
	if stats == nil {
		return
	}
	stats.removeCount.Add(context.Background(), 1, stats.attrs)
	stats.size.Add(context.Background(), -1, stats.attrs)
}

func (stats *rbTreeStats) RecordRelease(count int64) {
	if stats == nil || count <= 0 {
		return
	}
	stats.removeCount.Add(context.Background(), count, stats.attrs)
	stats.size.Add(context.Background(), -count, stats.attrs)
}

// RecordBulk counts the nodes linked in without insertion, by a bulk
// build or a clone.
func (stats *rbTreeStats) RecordBulk(count int64) {
	if stats == nil || count <= 0 {
		return
	}
	stats.insertCount.Add(context.Background(), count, stats.attrs)
	stats.size.Add(context.Background(), count, stats.attrs)
}

func (stats *rbTreeStats) RecordRotation() {
	if stats == nil {
		return
	}
	stats.rotateCount.Add(context.Background(), 1, stats.attrs)
}

func newRBTreeStats(provider metric.MeterProvider, isDesc bool) *rbTreeStats {
	if provider == nil {
		provider = otel.GetMeterProvider()
	}
	meter := provider.Meter(RBTreeStatsName)
	order := "asc"
	if isDesc {
		order = "desc"
	}
	return &rbTreeStats{
		attrs: metric.WithAttributeSet(attribute.NewSet(
			attribute.String("rbtree.order", order),
		)),
		insertCount: lo.Must[metric.Int64Counter](meter.
			Int64Counter(
				"rbtree.insert.count",
				metric.WithDescription("The number of nodes created by insertion."),
			),
		),
		replaceCount: lo.Must[metric.Int64Counter](meter.
			Int64Counter(
				"rbtree.replace.count",
				metric.WithDescription("The number of in place value replacements."),
			),
		),
		removeCount: lo.Must[metric.Int64Counter](meter.
			Int64Counter(
				"rbtree.remove.count",
				metric.WithDescription("The number of nodes removed, release included."),
			),
		),
		rotateCount: lo.Must[metric.Int64Counter](meter.
			Int64Counter(
				"rbtree.rotate.count",
				metric.WithDescription("The number of rotations run by rebalancing."),
			),
		),
		size: lo.Must[metric.Int64UpDownCounter](meter.
			Int64UpDownCounter(
				"rbtree.size",
				metric.WithDescription("The number of nodes in the tree."),
			),
		),
	}
}
