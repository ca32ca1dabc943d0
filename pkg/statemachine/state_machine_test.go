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
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type OrderStatus string

const (
	OrderCreated   OrderStatus = "CREATED"
	OrderPaid      OrderStatus = "PAID"
	OrderShipped   OrderStatus = "SHIPPED"
	OrderDelivered OrderStatus = "DELIVERED"
	OrderCanceled  OrderStatus = "CANCELED"
)

func newOrderMachine() *StateMachine[OrderStatus] {
	sm := NewWithState(OrderCreated)
	sm.Allow(OrderCreated, OrderPaid, OrderCanceled).
		Allow(OrderPaid, OrderShipped, OrderCanceled).
		Allow(OrderShipped, OrderDelivered)
	return sm
}

func TestStateMachine_Basic(t *testing.T) {
	sm := newOrderMachine()

	assert.Equal(t, OrderCreated, sm.Current())

	require.NoError(t, sm.TransitionTo(OrderPaid))
	assert.Equal(t, OrderPaid, sm.Current())

	err := sm.TransitionTo(OrderDelivered)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, OrderPaid, sm.Current())
}

func TestStateMachine_TransitionFromStaleState(t *testing.T) {
	sm := newOrderMachine()
	require.NoError(t, sm.TransitionTo(OrderPaid))

	// from must match the current state
	err := sm.Transition(OrderCreated, OrderPaid, "")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestStateMachine_CanTransition(t *testing.T) {
	sm := newOrderMachine()

	assert.True(t, sm.CanTransitionTo(OrderPaid))
	assert.False(t, sm.CanTransitionTo(OrderShipped))
	assert.True(t, sm.CanTransition(OrderShipped, OrderDelivered))
}

func TestStateMachine_Hooks(t *testing.T) {
	sm := newOrderMachine()

	var executionOrder []string
	sm.AddValidator(func(from, to OrderStatus, event Event) error {
		executionOrder = append(executionOrder, "validate")
		return nil
	})
	sm.OnEnter(OrderPaid, func(state OrderStatus) error {
		executionOrder = append(executionOrder, "enter:"+string(state))
		return nil
	})
	sm.OnEnter(OrderShipped, func(OrderStatus) error {
		executionOrder = append(executionOrder, "enter:shipped")
		return nil
	})

	require.NoError(t, sm.TransitionTo(OrderPaid))
	assert.Equal(t, []string{"validate", "enter:PAID"}, executionOrder)
}

func TestStateMachine_HookErrors(t *testing.T) {
	sm := newOrderMachine()
	testErr := errors.New("hook error")
	sm.OnEnter(OrderPaid, func(OrderStatus) error { return testErr })

	err := sm.TransitionTo(OrderPaid)
	assert.ErrorIs(t, err, testErr)
	// enter hooks run after the state changed
	assert.Equal(t, OrderPaid, sm.Current())
}

func TestStateMachine_Validators(t *testing.T) {
	sm := newOrderMachine()
	errNoPayment := errors.New("payment not allowed")
	sm.AddValidator(func(from, to OrderStatus, event Event) error {
		if to == OrderPaid {
			return errNoPayment
		}
		return nil
	})

	err := sm.TransitionTo(OrderPaid)
	assert.Same(t, errNoPayment, err)
	assert.Equal(t, OrderCreated, sm.Current())
}

func TestStateMachine_Events(t *testing.T) {
	sm := NewWithState(OrderCreated)
	sm.AddEventTransition(OrderCreated, "pay", OrderPaid).
		AddEventTransition(OrderPaid, "ship", OrderShipped)

	require.NoError(t, sm.TriggerEvent("pay"))
	assert.Equal(t, OrderPaid, sm.Current())

	err := sm.TriggerEvent("pay")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	require.NoError(t, sm.TriggerEvent("ship"))
	history := sm.History()
	require.Len(t, history, 3)
	assert.Equal(t, Event("pay"), history[1].Event)
	assert.Equal(t, OrderPaid, history[1].From)
	assert.ErrorIs(t, history[1].Error, ErrInvalidTransition)
	assert.Equal(t, Event("ship"), history[2].Event)
	assert.NoError(t, history[2].Error)
}

func TestStateMachine_History(t *testing.T) {
	sm := newOrderMachine()
	require.NoError(t, sm.TransitionTo(OrderPaid))
	require.NoError(t, sm.TransitionTo(OrderShipped))
	_ = sm.TransitionTo(OrderPaid)

	history := sm.History()
	require.Len(t, history, 3)
	assert.Equal(t, OrderCreated, history[0].From)
	assert.Equal(t, OrderPaid, history[0].To)
	assert.NoError(t, history[1].Error)
	assert.Error(t, history[2].Error)
	assert.False(t, history[1].Timestamp.Before(history[0].Timestamp))
}

func TestStateMachine_MaxHistorySize(t *testing.T) {
	sm := NewWithState(OrderCreated)
	sm.SetMaxHistorySize(2)
	sm.Allow(OrderCreated, OrderPaid).Allow(OrderPaid, OrderCreated)

	for range 5 {
		_ = sm.TransitionTo(OrderPaid)
		_ = sm.TransitionTo(OrderCreated)
	}
	assert.Len(t, sm.History(), 2)
}

func TestStateMachine_GetValidNextStates(t *testing.T) {
	sm := newOrderMachine()
	assert.ElementsMatch(t, []OrderStatus{OrderPaid, OrderCanceled}, sm.GetValidNextStates(OrderCreated))
	assert.Empty(t, sm.GetValidNextStates(OrderDelivered))
}

func TestStateMachine_Concurrency(t *testing.T) {
	sm := NewWithState(OrderCreated)
	sm.Allow(OrderCreated, OrderPaid).Allow(OrderPaid, OrderCreated)

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = sm.TransitionTo(OrderPaid)
		}()
		go func() {
			defer wg.Done()
			_ = sm.TransitionTo(OrderCreated)
		}()
	}
	wg.Wait()

	assert.Contains(t, []OrderStatus{OrderCreated, OrderPaid}, sm.Current())
	assert.Len(t, sm.History(), 100)
}
