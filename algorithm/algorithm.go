/*
 * Radon
 *
 * Copyright 2018 The Radon Authors.
 * Code is licensed under the GPLv3.
 *
 */

package algorithm

import (
	"strings"
	"sync"

	"github.com/shardroute/shardroute/config"

	"github.com/pkg/errors"
	"github.com/xelabs/go-mysqlstack/sqlparser/depends/sqltypes"
)

// Bound is one side of a range, a nil *Bound means unbounded.
type Bound struct {
	Value     sqltypes.Value
	Inclusive bool
}

// Range tuple.
type Range struct {
	Lower *Bound
	Upper *Bound
}

// PreciseValue carries one equality value of a sharding column.
type PreciseValue struct {
	Table  string
	Column string
	Value  sqltypes.Value
}

// RangeValue carries a range of a sharding column.
type RangeValue struct {
	Table  string
	Column string
	Range  Range
}

// ComplexValue carries the values of several sharding columns, key is column name.
type ComplexValue struct {
	Table  string
	Values map[string][]sqltypes.Value
	Ranges map[string]Range
}

// HintValue carries the hint values of one table.
type HintValue struct {
	Table  string
	Values []sqltypes.Value
}

// Algorithm is the common part of all sharding algorithms.
type Algorithm interface {
	Type() string
}

// StandardAlgorithm shards by one column.
// DoSharding returns "" when no target matches.
type StandardAlgorithm interface {
	Algorithm
	DoSharding(targets []string, value PreciseValue) (string, error)
	DoRangeSharding(targets []string, value RangeValue) ([]string, error)
}

// ComplexAlgorithm shards by several columns.
type ComplexAlgorithm interface {
	Algorithm
	DoSharding(targets []string, value ComplexValue) ([]string, error)
}

// HintAlgorithm shards by values supplied out of band.
type HintAlgorithm interface {
	Algorithm
	DoSharding(targets []string, value HintValue) ([]string, error)
}

// Factory creates an algorithm from its props.
type Factory func(props map[string]string) (Algorithm, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{
		TypeMod:           NewMod,
		TypeHashMod:       NewHashMod,
		TypeInline:        NewInline,
		TypeVolumeRange:   NewVolumeRange,
		TypeBoundaryRange: NewBoundaryRange,
		TypeList:          NewList,
		TypeComplexInline: NewComplexInline,
		TypeHintInline:    NewHintInline,
	}
)

const (
	// TypeMod algorithm.
	TypeMod = "MOD"
	// TypeHashMod algorithm.
	TypeHashMod = "HASH_MOD"
	// TypeInline algorithm.
	TypeInline = "INLINE"
	// TypeVolumeRange algorithm.
	TypeVolumeRange = "VOLUME_RANGE"
	// TypeBoundaryRange algorithm.
	TypeBoundaryRange = "BOUNDARY_RANGE"
	// TypeList algorithm.
	TypeList = "LIST"
	// TypeComplexInline algorithm.
	TypeComplexInline = "COMPLEX_INLINE"
	// TypeHintInline algorithm.
	TypeHintInline = "HINT_INLINE"
)

// Register adds a custom algorithm type, it replaces an existing one with the same type.
func Register(typ string, factory Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[strings.ToUpper(typ)] = factory
}

// New creates the algorithm described by conf.
func New(conf *config.AlgorithmConfig) (Algorithm, error) {
	if conf == nil {
		return nil, errors.New("algorithm.config.can't.be.nil")
	}
	mu.RLock()
	factory, ok := factories[strings.ToUpper(conf.Type)]
	mu.RUnlock()
	if !ok {
		return nil, errors.Errorf("algorithm.unsupported.type[%v]", conf.Type)
	}
	props := conf.Props
	if props == nil {
		props = map[string]string{}
	}
	return factory(props)
}
