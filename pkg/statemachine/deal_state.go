// Copyright 2025 Arcade Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package statemachine

// DealState is the lifecycle state of a bookbuilding deal.
type DealState string

const (
	DealDraft         DealState = "DRAFT"
	DealOpen          DealState = "OPEN"
	DealClosed        DealState = "CLOSED"
	DealRangeSelected DealState = "RANGE_SELECTED"
)

const (
	EventOpenBook    Event = "open_book"
	EventCloseBook   Event = "close_book"
	EventSelectRange Event = "select_range"
)

// Valid reports whether s is a known deal state.
func (s DealState) Valid() bool {
	switch s {
	case DealDraft, DealOpen, DealClosed, DealRangeSelected:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition exists.
func (s DealState) IsTerminal() bool {
	return s == DealRangeSelected
}

// BandsFrozen reports whether the band set can no longer change.
func (s DealState) BandsFrozen() bool {
	return s != DealDraft
}

// AcceptsIOIs reports whether the IOI ledger is writable.
func (s DealState) AcceptsIOIs() bool {
	return s == DealOpen
}

// NewDealStateMachine returns the deal lifecycle positioned at current.
// Transitions only move forward one step; there is no reopening.
func NewDealStateMachine(current DealState) *StateMachine[DealState] {
	sm := NewWithState(current)
	sm.AddEventTransition(DealDraft, EventOpenBook, DealOpen).
		AddEventTransition(DealOpen, EventCloseBook, DealClosed).
		AddEventTransition(DealClosed, EventSelectRange, DealRangeSelected)
	return sm
}

// DealTargetOf returns the state event leads to, if declared from any state.
func DealTargetOf(event Event) DealState {
	switch event {
	case EventOpenBook:
		return DealOpen
	case EventCloseBook:
		return DealClosed
	case EventSelectRange:
		return DealRangeSelected
	}
	return ""
}
