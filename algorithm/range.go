/*
 * Radon
 *
 * Copyright 2018 The Radon Authors.
 * Code is licensed under the GPLv3.
 *
 */

package algorithm

import (
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

var _ StandardAlgorithm = &Boundary{}

// Boundary splits the value space by ascending boundaries.
// Partition 0 is (-inf, b0), partition i is [b(i-1), bi), the last is [bn, +inf).
// Partition i lives in the target with suffix i.
type Boundary struct {
	typ        string
	boundaries []decimal.Decimal
}

// NewBoundaryRange creates the range algorithm from prop 'sharding-ranges', like '10,20,30'.
func NewBoundaryRange(props map[string]string) (Algorithm, error) {
	raw, ok := props["sharding-ranges"]
	if !ok || strings.TrimSpace(raw) == "" {
		return nil, errors.New("boundary.range.sharding-ranges.can't.be.empty")
	}
	var bounds []decimal.Decimal
	for _, s := range strings.Split(raw, ",") {
		d, err := decimal.NewFromString(strings.TrimSpace(s))
		if err != nil {
			return nil, errors.Errorf("boundary.range.sharding-ranges[%s].malformed", s)
		}
		bounds = append(bounds, d)
	}
	return newBoundary(TypeBoundaryRange, bounds)
}

// NewVolumeRange creates the range algorithm from 'range-lower', 'range-upper' and 'sharding-volume'.
func NewVolumeRange(props map[string]string) (Algorithm, error) {
	parse := func(key string) (decimal.Decimal, error) {
		d, err := decimal.NewFromString(strings.TrimSpace(props[key]))
		if err != nil {
			return decimal.Zero, errors.Errorf("volume.range.%s[%s].malformed", key, props[key])
		}
		return d, nil
	}
	lower, err := parse("range-lower")
	if err != nil {
		return nil, err
	}
	upper, err := parse("range-upper")
	if err != nil {
		return nil, err
	}
	volume, err := parse("sharding-volume")
	if err != nil {
		return nil, err
	}
	if !volume.IsPositive() || !upper.GreaterThan(lower) {
		return nil, errors.Errorf("volume.range[%v,%v,%v].invalid", lower, upper, volume)
	}
	var bounds []decimal.Decimal
	for b := lower; b.LessThan(upper); b = b.Add(volume) {
		bounds = append(bounds, b)
	}
	bounds = append(bounds, upper)
	return newBoundary(TypeVolumeRange, bounds)
}

func newBoundary(typ string, bounds []decimal.Decimal) (*Boundary, error) {
	for i := 1; i < len(bounds); i++ {
		if !bounds[i].GreaterThan(bounds[i-1]) {
			return nil, errors.Errorf("range.boundaries.must.be.ascending[%v]", bounds)
		}
	}
	return &Boundary{typ: typ, boundaries: bounds}, nil
}

// Type returns the range type.
func (b *Boundary) Type() string {
	return b.typ
}

// partition returns the partition index of d.
func (b *Boundary) partition(d decimal.Decimal) int {
	return sort.Search(len(b.boundaries), func(i int) bool {
		return d.LessThan(b.boundaries[i])
	})
}

// DoSharding impl.
func (b *Boundary) DoSharding(targets []string, value PreciseValue) (string, error) {
	d, err := ToDecimal(value.Value)
	if err != nil {
		return "", errors.Wrapf(err, "range.table[%s].column[%s]", value.Table, value.Column)
	}
	return matchSuffix(targets, strconv.Itoa(b.partition(d))), nil
}

// DoRangeSharding returns the targets of every overlapped partition.
func (b *Boundary) DoRangeSharding(targets []string, value RangeValue) ([]string, error) {
	first, last := 0, len(b.boundaries)
	if value.Range.Lower != nil {
		d, err := ToDecimal(value.Range.Lower.Value)
		if err != nil {
			return nil, err
		}
		first = b.partition(d)
	}
	if value.Range.Upper != nil {
		d, err := ToDecimal(value.Range.Upper.Value)
		if err != nil {
			return nil, err
		}
		last = b.partition(d)
		// 'x < b' never reaches the partition starting at b.
		if !value.Range.Upper.Inclusive && last > 0 && d.Equal(b.boundaries[last-1]) {
			last--
		}
	}
	if last < first {
		return []string{}, nil
	}
	hits := make([]string, 0, last-first+1)
	for i := first; i <= last; i++ {
		if target := matchSuffix(targets, strconv.Itoa(i)); target != "" {
			hits = append(hits, target)
		}
	}
	return filterTargets(targets, hits), nil
}
