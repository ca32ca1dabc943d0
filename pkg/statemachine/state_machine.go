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

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"
)

// ErrInvalidTransition is wrapped by every error reporting an undeclared transition.
var ErrInvalidTransition = errors.New("invalid transition")

// Event names the trigger of a state transition.
type Event string

// StateHook is triggered when entering a state.
type StateHook[T comparable] func(state T) error

// TransitionValidator validates whether a state transition is allowed.
type TransitionValidator[T comparable] func(from, to T, event Event) error

// TransitionRecord records a state transition in the history.
type TransitionRecord[T comparable] struct {
	From      T
	To        T
	Event     Event
	Timestamp time.Time
	Error     error
}

// StateMachine is a generic finite state machine with enter hooks, validators
// and bounded transition history. It is safe for concurrent use.
type StateMachine[T comparable] struct {
	mu sync.RWMutex

	currentState T

	validTransitions map[T][]T
	eventTransitions map[transitionKey[T]]T

	history        []TransitionRecord[T]
	maxHistorySize int

	onEnter    map[T][]StateHook[T]
	validators []TransitionValidator[T]
}

type transitionKey[T comparable] struct {
	From  T
	Event Event
}

// New creates a new StateMachine instance.
func New[T comparable]() *StateMachine[T] {
	return &StateMachine[T]{
		validTransitions: make(map[T][]T),
		eventTransitions: make(map[transitionKey[T]]T),
		onEnter:          make(map[T][]StateHook[T]),
		history:          make([]TransitionRecord[T], 0),
		maxHistorySize:   100,
	}
}

// NewWithState creates a new StateMachine with an initial state.
func NewWithState[T comparable](initialState T) *StateMachine[T] {
	sm := New[T]()
	sm.currentState = initialState
	return sm
}

// Allow registers valid transitions from one state.
func (sm *StateMachine[T]) Allow(from T, to ...T) *StateMachine[T] {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	for _, target := range to {
		if !slices.Contains(sm.validTransitions[from], target) {
			sm.validTransitions[from] = append(sm.validTransitions[from], target)
		}
	}
	return sm
}

// AddEventTransition declares that event moves the machine from one state to another.
func (sm *StateMachine[T]) AddEventTransition(from T, event Event, to T) *StateMachine[T] {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.eventTransitions[transitionKey[T]{From: from, Event: event}] = to
	if !slices.Contains(sm.validTransitions[from], to) {
		sm.validTransitions[from] = append(sm.validTransitions[from], to)
	}
	return sm
}

// CanTransition checks if a transition from one state to another is declared.
func (sm *StateMachine[T]) CanTransition(from, to T) bool {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return slices.Contains(sm.validTransitions[from], to)
}

// CanTransitionTo checks the transition from the current state.
func (sm *StateMachine[T]) CanTransitionTo(to T) bool {
	return sm.CanTransition(sm.Current(), to)
}

// Current returns the current state.
func (sm *StateMachine[T]) Current() T {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.currentState
}

// GetValidNextStates returns all declared next states from the given state.
func (sm *StateMachine[T]) GetValidNextStates(from T) []T {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return slices.Clone(sm.validTransitions[from])
}

// History returns a copy of the transition history.
func (sm *StateMachine[T]) History() []TransitionRecord[T] {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return slices.Clone(sm.history)
}

// SetMaxHistorySize sets the maximum number of history records to keep.
func (sm *StateMachine[T]) SetMaxHistorySize(size int) *StateMachine[T] {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.maxHistorySize = size
	if len(sm.history) > size {
		sm.history = sm.history[len(sm.history)-size:]
	}
	return sm
}

// OnEnter registers a hook that is called when entering a specific state.
func (sm *StateMachine[T]) OnEnter(state T, h StateHook[T]) *StateMachine[T] {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.onEnter[state] = append(sm.onEnter[state], h)
	return sm
}

// AddValidator adds a guard consulted before any hook runs.
// Validator errors are returned unwrapped so callers can match typed errors.
func (sm *StateMachine[T]) AddValidator(v TransitionValidator[T]) *StateMachine[T] {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.validators = append(sm.validators, v)
	return sm
}

// Transition validates and performs a transition, runs hooks and records history.
func (sm *StateMachine[T]) Transition(from, to T, event Event) (transitionErr error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	startTime := time.Now()
	defer func() {
		sm.record(TransitionRecord[T]{
			From:      from,
			To:        to,
			Event:     event,
			Timestamp: startTime,
			Error:     transitionErr,
		})
	}()

	if from != sm.currentState || !slices.Contains(sm.validTransitions[from], to) {
		return fmt.Errorf("%w: %v → %v", ErrInvalidTransition, sm.currentState, to)
	}

	for _, validator := range sm.validators {
		if err := validator(from, to, event); err != nil {
			return err
		}
	}

	sm.currentState = to

	for _, h := range sm.onEnter[to] {
		if err := h(to); err != nil {
			return fmt.Errorf("enter hook failed for state %v: %w", to, err)
		}
	}

	return nil
}

// TransitionTo performs a transition from the current state to the target state.
func (sm *StateMachine[T]) TransitionTo(to T) error {
	return sm.Transition(sm.Current(), to, "")
}

// TriggerEvent performs the transition declared for event in the current state.
// An undeclared event is recorded in the history as a failed transition.
func (sm *StateMachine[T]) TriggerEvent(event Event) error {
	sm.mu.Lock()
	current := sm.currentState
	to, exists := sm.eventTransitions[transitionKey[T]{From: current, Event: event}]
	if !exists {
		err := fmt.Errorf("%w: no transition for event %v in state %v", ErrInvalidTransition, event, current)
		sm.record(TransitionRecord[T]{From: current, Event: event, Timestamp: time.Now(), Error: err})
		sm.mu.Unlock()
		return err
	}
	sm.mu.Unlock()
	return sm.Transition(current, to, event)
}

// record appends r and trims the history. Callers hold sm.mu.
func (sm *StateMachine[T]) record(r TransitionRecord[T]) {
	sm.history = append(sm.history, r)
	if len(sm.history) > sm.maxHistorySize {
		sm.history = sm.history[len(sm.history)-sm.maxHistorySize:]
	}
}
