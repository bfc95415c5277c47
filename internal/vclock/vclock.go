// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package vclock implements vector clocks used to track causality between
// events produced on independent devices.
//
// Every function in this package is pure: inputs are never mutated and a new
// clock is returned instead. A nil clock is a valid empty clock.
package vclock

import (
	"fmt"
	"sort"
	"strings"
)

// VectorClock maps a device ID to the number of events that device has
// produced and that are known to the clock holder.
type VectorClock map[string]uint64

// Ordering is the result of comparing two vector clocks.
type Ordering int

const (
	// Equal means both clocks have identical components.
	Equal Ordering = iota
	// Before means the left clock causally precedes the right one.
	Before
	// After means the left clock causally follows the right one.
	After
	// Concurrent means neither clock dominates the other.
	Concurrent
)

// String implements fmt.Stringer.
func (o Ordering) String() string {
	switch o {
	case Equal:
		return "equal"
	case Before:
		return "before"
	case After:
		return "after"
	case Concurrent:
		return "concurrent"
	default:
		return fmt.Sprintf("ordering(%d)", int(o))
	}
}

// New returns an empty clock.
func New() VectorClock {
	return make(VectorClock)
}

// Clone returns a deep copy of c. The copy is never nil.
func Clone(c VectorClock) VectorClock {
	out := make(VectorClock, len(c))
	for device, counter := range c {
		out[device] = counter
	}
	return out
}

// Get returns the counter for device, 0 if absent.
func (c VectorClock) Get(device string) uint64 {
	return c[device]
}

// Increment returns a copy of c with the counter of device advanced by one.
// An absent device starts from zero.
func Increment(c VectorClock, device string) VectorClock {
	out := Clone(c)
	out[device] = out[device] + 1
	return out
}

// Merge returns the pointwise maximum of a and b over the union of their keys.
func Merge(a, b VectorClock) VectorClock {
	out := Clone(a)
	for device, counter := range b {
		if counter > out[device] {
			out[device] = counter
		}
	}
	return out
}

// Compare reports how a relates to b. Missing components count as zero, so
// {A:0} and {} are Equal.
func Compare(a, b VectorClock) Ordering {
	less, greater := false, false

	for device, av := range a {
		bv := b[device]
		switch {
		case av < bv:
			less = true
		case av > bv:
			greater = true
		}
	}
	for device, bv := range b {
		if _, seen := a[device]; seen {
			continue
		}
		if bv > 0 {
			less = true
		}
	}

	switch {
	case less && greater:
		return Concurrent
	case less:
		return Before
	case greater:
		return After
	default:
		return Equal
	}
}

// DominatedBy reports whether every component of c is <= the matching
// component of other, i.e. Compare(c, other) is Equal or Before.
func (c VectorClock) DominatedBy(other VectorClock) bool {
	ord := Compare(c, other)
	return ord == Equal || ord == Before
}

// HasNewerThan reports whether any component of c is strictly greater than
// the matching component of other. It is the "events after clock X" predicate
// used by replication requests.
func (c VectorClock) HasNewerThan(other VectorClock) bool {
	for device, counter := range c {
		if counter > other[device] {
			return true
		}
	}
	return false
}

// String renders the clock with sorted keys, e.g. "{A:1, B:3}".
func (c VectorClock) String() string {
	devices := make([]string, 0, len(c))
	for device := range c {
		devices = append(devices, device)
	}
	sort.Strings(devices)

	var b strings.Builder
	b.WriteByte('{')
	for i, device := range devices {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s:%d", device, c[device])
	}
	b.WriteByte('}')
	return b.String()
}
