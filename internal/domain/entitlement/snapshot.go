package entitlement

import (
	"sort"
	"time"
)

// Snapshot is the immutable result of one reconciliation pass. The store
// replaces its snapshot wholesale; readers hold a value copy and never lock.
type Snapshot struct {
	isSubscribed bool
	ownedUnits   map[UnitID]struct{}
	observedAt   time.Time
}

func NewSnapshot(isSubscribed bool, ownedUnits []UnitID, observedAt time.Time) Snapshot {
	units := make(map[UnitID]struct{}, len(ownedUnits))
	for _, u := range ownedUnits {
		units[u] = struct{}{}
	}
	return Snapshot{
		isSubscribed: isSubscribed,
		ownedUnits:   units,
		observedAt:   observedAt,
	}
}

func EmptySnapshot() Snapshot {
	return Snapshot{ownedUnits: map[UnitID]struct{}{}}
}

func (s Snapshot) IsSubscribed() bool {
	return s.isSubscribed
}

func (s Snapshot) ObservedAt() time.Time {
	return s.observedAt
}

func (s Snapshot) Owns(unit UnitID) bool {
	_, ok := s.ownedUnits[unit]
	return ok
}

// OwnedUnits returns a sorted copy of the owned unit identifiers.
func (s Snapshot) OwnedUnits() []UnitID {
	units := make([]UnitID, 0, len(s.ownedUnits))
	for u := range s.ownedUnits {
		units = append(units, u)
	}
	sort.Slice(units, func(i, j int) bool { return units[i] < units[j] })
	return units
}

// Unlocks reports whether the feature is usable under this snapshot. The
// subscription unlocks everything; otherwise the feature must match an owned
// unit.
func (s Snapshot) Unlocks(feature FeatureID) bool {
	if s.isSubscribed {
		return true
	}
	return s.Owns(UnitID(feature))
}

// NewerThan orders snapshots by observation time. Equal timestamps are not
// newer, so replaying an identical snapshot is a no-op.
func (s Snapshot) NewerThan(other Snapshot) bool {
	return s.observedAt.After(other.observedAt)
}

// SameGrants compares entitlement content ignoring observation time.
func (s Snapshot) SameGrants(other Snapshot) bool {
	if s.isSubscribed != other.isSubscribed || len(s.ownedUnits) != len(other.ownedUnits) {
		return false
	}
	for u := range s.ownedUnits {
		if _, ok := other.ownedUnits[u]; !ok {
			return false
		}
	}
	return true
}

func (s Snapshot) IsZero() bool {
	return !s.isSubscribed && len(s.ownedUnits) == 0 && s.observedAt.IsZero()
}
