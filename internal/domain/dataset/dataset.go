// Package dataset is a small in-process partitioned-collection engine.
//
// A Dataset is a list of partitions. Transformations run one goroutine per
// partition, bounded by the worker limit, and return a new Dataset; nothing is
// ever mutated in place. Every transformation is eager, so a returned Dataset
// is already materialized and may be consumed any number of times.
//
// Key-based operations (ReduceByKey, GroupByKey) are shuffle boundaries: all
// input partitions are combined locally, redistributed by key hash, and only
// then reduced. TopK is a barrier too. Results never depend on partition count
// or partition boundaries as long as reduce functions are commutative and
// associative and TopK's comparison is a total order.
package dataset

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Options controls partitioning and parallelism.
type Options struct {
	// Partitions is the number of partitions created by Parallelize and by
	// shuffles. Defaults to Workers.
	Partitions int
	// Workers bounds the number of partitions processed concurrently.
	// Defaults to GOMAXPROCS.
	Workers int
}

func (o Options) normalized() Options {
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	if o.Partitions <= 0 {
		o.Partitions = o.Workers
	}
	return o
}

// Dataset is an immutable partitioned collection.
type Dataset[T any] struct {
	parts [][]T
	opts  Options
}

// KV is a keyed record produced by shuffles.
type KV[K comparable, V any] struct {
	Key   K
	Value V
}

// Parallelize splits items into contiguous partitions. The items slice is
// not copied; callers must not modify it afterwards.
func Parallelize[T any](items []T, opts Options) *Dataset[T] {
	opts = opts.normalized()
	n := opts.Partitions
	parts := make([][]T, n)
	size := (len(items) + n - 1) / n
	for i := range n {
		lo := min(i*size, len(items))
		hi := min(lo+size, len(items))
		parts[i] = items[lo:hi:hi]
	}
	return &Dataset[T]{parts: parts, opts: opts}
}

// Partitions returns the number of partitions.
func (d *Dataset[T]) Partitions() int {
	return len(d.parts)
}

// Options returns the options the dataset was created with.
func (d *Dataset[T]) Options() Options {
	return d.opts
}

// Len returns the total number of elements.
func (d *Dataset[T]) Len() int {
	n := 0
	for _, p := range d.parts {
		n += len(p)
	}
	return n
}

// Collect concatenates all partitions in partition order.
func (d *Dataset[T]) Collect() []T {
	out := make([]T, 0, d.Len())
	for _, p := range d.parts {
		out = append(out, p...)
	}
	return out
}

// forEachPartition runs fn for partitions 0..n-1 with at most workers
// goroutines. The first error cancels the remaining partitions.
func forEachPartition(ctx context.Context, n, workers int, fn func(ctx context.Context, i int) error) error {
	if n == 0 {
		return ctx.Err()
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(workers, n)))
	for i := range n {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			return fn(gctx, i)
		})
	}
	return g.Wait()
}

// Map applies fn to every element.
func Map[T, U any](ctx context.Context, d *Dataset[T], fn func(T) U) (*Dataset[U], error) {
	out := make([][]U, len(d.parts))
	err := forEachPartition(ctx, len(d.parts), d.opts.Workers, func(_ context.Context, i int) error {
		part := make([]U, len(d.parts[i]))
		for j, v := range d.parts[i] {
			part[j] = fn(v)
		}
		out[i] = part
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &Dataset[U]{parts: out, opts: d.opts}, nil
}

// FlatMap calls fn for every element; fn may emit any number of outputs.
func FlatMap[T, U any](ctx context.Context, d *Dataset[T], fn func(v T, emit func(U))) (*Dataset[U], error) {
	out := make([][]U, len(d.parts))
	err := forEachPartition(ctx, len(d.parts), d.opts.Workers, func(_ context.Context, i int) error {
		var part []U
		emit := func(u U) { part = append(part, u) }
		for _, v := range d.parts[i] {
			fn(v, emit)
		}
		out[i] = part
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &Dataset[U]{parts: out, opts: d.opts}, nil
}

// Filter keeps the elements for which keep returns true.
func Filter[T any](ctx context.Context, d *Dataset[T], keep func(T) bool) (*Dataset[T], error) {
	return FlatMap(ctx, d, func(v T, emit func(T)) {
		if keep(v) {
			emit(v)
		}
	})
}

// TryMap is Map with a fallible function. The first error aborts the job.
func TryMap[T, U any](ctx context.Context, d *Dataset[T], fn func(T) (U, error)) (*Dataset[U], error) {
	out := make([][]U, len(d.parts))
	err := forEachPartition(ctx, len(d.parts), d.opts.Workers, func(_ context.Context, i int) error {
		part := make([]U, len(d.parts[i]))
		for j, v := range d.parts[i] {
			u, err := fn(v)
			if err != nil {
				return err
			}
			part[j] = u
		}
		out[i] = part
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &Dataset[U]{parts: out, opts: d.opts}, nil
}
