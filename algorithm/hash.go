/*
 * Radon
 *
 * Copyright 2018 The Radon Authors.
 * Code is licensed under the GPLv3.
 *
 */

package algorithm

import (
	"github.com/pkg/errors"
	jump "github.com/lithammer/go-jump-consistent-hash"
)

var _ StandardAlgorithm = &HashMod{}

// HashMod routes by jump consistent hash over the target count.
type HashMod struct {
}

// NewHashMod creates the hash mod algorithm.
func NewHashMod(props map[string]string) (Algorithm, error) {
	return &HashMod{}, nil
}

// Type returns the hash mod type.
func (h *HashMod) Type() string {
	return TypeHashMod
}

// DoSharding impl.
// Integers hash by value, everything else by its CRC64 string hash.
func (h *HashMod) DoSharding(targets []string, value PreciseValue) (string, error) {
	if len(targets) == 0 {
		return "", nil
	}
	if value.Value.IsNull() {
		return "", errors.Errorf("hash.mod.table[%s].column[%s].value.can't.be.null", value.Table, value.Column)
	}

	var idx int32
	if value.Value.IsIntegral() {
		d, err := ToDecimal(value.Value)
		if err != nil {
			return "", err
		}
		idx = jump.Hash(uint64(d.IntPart()), int32(len(targets)))
	} else {
		idx = jump.HashString(value.Value.ToString(), int32(len(targets)), jump.CRC64)
	}
	return targets[idx], nil
}

// DoRangeSharding returns all targets, hash does not keep order.
func (h *HashMod) DoRangeSharding(targets []string, value RangeValue) ([]string, error) {
	return targets, nil
}
