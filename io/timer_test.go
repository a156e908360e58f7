package io

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	now time.Time
}

func (fc *fakeClock) Now() time.Time {
	return fc.now
}

func TestTimer_Poll(t *testing.T) {
	assert := assert.New(t)

	clock := &fakeClock{now: time.Unix(1000, 0)}
	tm := &Timer{Now: clock.Now}

	tm.Rewind()
	assert.False(tm.Poll())

	clock.now = clock.now.Add(TIMER_PERIOD)
	assert.False(tm.Poll(), "fires only after more than a period")

	clock.now = clock.now.Add(time.Millisecond)
	assert.True(tm.Poll())
	assert.False(tm.Poll(), "next interval starts at the fire")

	clock.now = clock.now.Add(TIMER_PERIOD + time.Millisecond)
	assert.True(tm.Poll())
}

func TestTimer_Period(t *testing.T) {
	assert := assert.New(t)

	clock := &fakeClock{now: time.Unix(1000, 0)}
	tm := &Timer{Now: clock.Now, Period: 10 * time.Millisecond}

	tm.Rewind()
	clock.now = clock.now.Add(11 * time.Millisecond)
	assert.True(tm.Poll())
}

func TestTimer_FirstPollArms(t *testing.T) {
	assert := assert.New(t)

	clock := &fakeClock{now: time.Unix(1000, 0)}
	tm := &Timer{Now: clock.Now}

	assert.False(tm.Poll())
	clock.now = clock.now.Add(2 * TIMER_PERIOD)
	assert.True(tm.Poll())
}

func TestTimer_Rewind(t *testing.T) {
	assert := assert.New(t)

	clock := &fakeClock{now: time.Unix(1000, 0)}
	tm := &Timer{Now: clock.Now}

	tm.Rewind()
	clock.now = clock.now.Add(2 * TIMER_PERIOD)
	tm.Rewind()
	assert.False(tm.Poll())
}
