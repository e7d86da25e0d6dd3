package dataset

import (
	"context"
	"hash/maphash"
	"slices"
)

// ReduceByKey maps each element to a key/value pair and merges all values
// sharing a key with reduce. reduce must be commutative and associative.
//
// Values are combined within each input partition first, then redistributed
// by key hash into d.Options().Partitions output partitions and merged there.
func ReduceByKey[T any, K comparable, V any](ctx context.Context, d *Dataset[T], kv func(T) (K, V), reduce func(a, b V) V) (*Dataset[KV[K, V]], error) {
	nOut := max(1, d.opts.Partitions)
	seed := maphash.MakeSeed()

	// buckets[p][b] holds partition p's combined records destined for output b.
	buckets := make([][][]KV[K, V], len(d.parts))
	err := forEachPartition(ctx, len(d.parts), d.opts.Workers, func(_ context.Context, p int) error {
		local := make(map[K]V)
		for _, v := range d.parts[p] {
			k, val := kv(v)
			if prev, ok := local[k]; ok {
				local[k] = reduce(prev, val)
			} else {
				local[k] = val
			}
		}
		out := make([][]KV[K, V], nOut)
		for k, val := range local {
			b := bucketOf(seed, k, nOut)
			out[b] = append(out[b], KV[K, V]{Key: k, Value: val})
		}
		buckets[p] = out
		return nil
	})
	if err != nil {
		return nil, err
	}

	parts := make([][]KV[K, V], nOut)
	err = forEachPartition(ctx, nOut, d.opts.Workers, func(_ context.Context, b int) error {
		merged := make(map[K]V)
		var order []K
		for p := range buckets {
			for _, rec := range buckets[p][b] {
				if prev, ok := merged[rec.Key]; ok {
					merged[rec.Key] = reduce(prev, rec.Value)
				} else {
					merged[rec.Key] = rec.Value
					order = append(order, rec.Key)
				}
			}
		}
		part := make([]KV[K, V], 0, len(order))
		for _, k := range order {
			part = append(part, KV[K, V]{Key: k, Value: merged[k]})
		}
		parts[b] = part
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &Dataset[KV[K, V]]{parts: parts, opts: d.opts}, nil
}

// GroupByKey collects every element under its key. Within a group, elements
// keep their input partition order; callers that need a specific order must
// sort the group themselves.
func GroupByKey[T any, K comparable](ctx context.Context, d *Dataset[T], key func(T) K) (*Dataset[KV[K, []T]], error) {
	return ReduceByKey(ctx, d,
		func(v T) (K, []T) { return key(v), []T{v} },
		func(a, b []T) []T { return append(slices.Clip(a), b...) },
	)
}

// TopK returns the first k elements of d under cmp, in cmp order. cmp must be
// a total order for the result to be reproducible. If d holds fewer than k
// elements, all of them are returned.
//
// Each partition is sorted and truncated to k independently, then the
// candidates are merged; d itself is not modified.
func TopK[T any](ctx context.Context, d *Dataset[T], k int, cmp func(a, b T) int) ([]T, error) {
	if k <= 0 {
		return nil, nil
	}
	heads := make([][]T, len(d.parts))
	err := forEachPartition(ctx, len(d.parts), d.opts.Workers, func(_ context.Context, p int) error {
		part := slices.Clone(d.parts[p])
		slices.SortFunc(part, cmp)
		heads[p] = part[:min(k, len(part))]
		return nil
	})
	if err != nil {
		return nil, err
	}

	var merged []T
	for _, h := range heads {
		merged = append(merged, h...)
	}
	slices.SortFunc(merged, cmp)
	return merged[:min(k, len(merged))], nil
}

func bucketOf[K comparable](seed maphash.Seed, k K, n int) int {
	return int(maphash.Comparable(seed, k) % uint64(n))
}
