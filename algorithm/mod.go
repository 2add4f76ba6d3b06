/*
 * Radon
 *
 * Copyright 2018 The Radon Authors.
 * Code is licensed under the GPLv3.
 *
 */

package algorithm

import (
	"strconv"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// maxModRangeEnumerate bounds the range width enumerated by Mod.
const maxModRangeEnumerate = 1024

var _ StandardAlgorithm = &Mod{}

// Mod routes 'value % count' to the target with the same suffix.
type Mod struct {
	// 0 means the number of targets.
	count int64
}

// NewMod creates the mod algorithm, prop 'sharding-count' is optional.
func NewMod(props map[string]string) (Algorithm, error) {
	m := &Mod{}
	if s, ok := props["sharding-count"]; ok {
		count, err := strconv.ParseInt(s, 10, 64)
		if err != nil || count <= 0 {
			return nil, errors.Errorf("mod.sharding-count[%v].must.be.positive.integer", s)
		}
		m.count = count
	}
	return m, nil
}

// Type returns the mod type.
func (m *Mod) Type() string {
	return TypeMod
}

func (m *Mod) modulus(targets []string) int64 {
	if m.count > 0 {
		return m.count
	}
	return int64(len(targets))
}

func (m *Mod) shard(targets []string, d decimal.Decimal) string {
	n := m.modulus(targets)
	if n == 0 {
		return ""
	}
	mod := d.Truncate(0).Mod(decimal.NewFromInt(n)).Abs().IntPart()
	return matchSuffix(targets, strconv.FormatInt(mod, 10))
}

// DoSharding impl.
func (m *Mod) DoSharding(targets []string, value PreciseValue) (string, error) {
	d, err := ToDecimal(value.Value)
	if err != nil {
		return "", errors.Wrapf(err, "mod.table[%s].column[%s]", value.Table, value.Column)
	}
	return m.shard(targets, d), nil
}

// DoRangeSharding enumerates narrow closed ranges, wider ranges hit all targets.
func (m *Mod) DoRangeSharding(targets []string, value RangeValue) ([]string, error) {
	r := value.Range
	if r.Lower == nil || r.Upper == nil {
		return targets, nil
	}
	lower, err := ToDecimal(r.Lower.Value)
	if err != nil {
		return nil, err
	}
	upper, err := ToDecimal(r.Upper.Value)
	if err != nil {
		return nil, err
	}
	if !lower.Equal(lower.Truncate(0)) || !upper.Equal(upper.Truncate(0)) {
		return targets, nil
	}
	if !r.Lower.Inclusive {
		lower = lower.Add(decimal.NewFromInt(1))
	}
	if !r.Upper.Inclusive {
		upper = upper.Sub(decimal.NewFromInt(1))
	}
	if lower.GreaterThan(upper) {
		return []string{}, nil
	}
	width := upper.Sub(lower).IntPart() + 1
	if width >= m.modulus(targets) || width > maxModRangeEnumerate {
		return targets, nil
	}

	hits := make([]string, 0, width)
	one := decimal.NewFromInt(1)
	for d := lower; d.LessThanOrEqual(upper); d = d.Add(one) {
		if target := m.shard(targets, d); target != "" {
			hits = append(hits, target)
		}
	}
	return filterTargets(targets, hits), nil
}
