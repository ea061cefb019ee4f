package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type ManualSuite struct {
	suite.Suite

	sched *Manual
}

func TestManualSuite(t *testing.T) {
	suite.Run(t, new(ManualSuite))
}

func (s *ManualSuite) SetupTest() {
	s.sched = NewManual()
}

func (s *ManualSuite) TestNothingFiresBeforeDue() {
	fired := false
	s.sched.After(5*time.Second, func() { fired = true })

	s.sched.Advance(4 * time.Second)
	s.False(fired)
	s.Equal(1, s.sched.Pending())

	s.sched.Advance(1 * time.Second)
	s.True(fired)
	s.Equal(0, s.sched.Pending())
}

func (s *ManualSuite) TestFiresInDueOrder() {
	var order []string
	s.sched.After(3*time.Second, func() { order = append(order, "late") })
	s.sched.After(1*time.Second, func() { order = append(order, "early") })

	s.sched.Advance(10 * time.Second)
	s.Equal([]string{"early", "late"}, order)
}

func (s *ManualSuite) TestNestedTaskFiresWithinSameAdvance() {
	var order []string
	s.sched.After(2*time.Second, func() {
		order = append(order, "first")
		s.sched.After(3*time.Second, func() { order = append(order, "second") })
	})

	// 2s + 3s both fall inside one 10s advance.
	s.sched.Advance(10 * time.Second)
	s.Equal([]string{"first", "second"}, order)
}

func (s *ManualSuite) TestNestedTaskBeyondAdvanceStaysPending() {
	var order []string
	s.sched.After(2*time.Second, func() {
		order = append(order, "first")
		s.sched.After(5*time.Second, func() { order = append(order, "second") })
	})

	s.sched.Advance(3 * time.Second)
	s.Equal([]string{"first"}, order)
	s.Equal(1, s.sched.Pending())

	s.sched.Advance(4 * time.Second)
	s.Equal([]string{"first", "second"}, order)
}

func (s *ManualSuite) TestTieBreaksTowardOlderTaskAfterRemovals() {
	var order []string
	// Two short tasks fire and are removed, shrinking the queue below
	// the surviving task's position.
	s.sched.After(time.Second, func() {})
	s.sched.After(time.Second, func() {})
	s.sched.After(10*time.Second, func() { order = append(order, "first") })

	s.sched.Advance(time.Second)

	// Armed later, due at the same instant as the survivor.
	s.sched.After(9*time.Second, func() { order = append(order, "second") })

	s.sched.Advance(9 * time.Second)
	s.Equal([]string{"first", "second"}, order)
}

func (s *ManualSuite) TestPendingAt() {
	s.sched.After(7*time.Second, func() {})
	s.sched.After(2*time.Second, func() {})

	s.Equal([]time.Duration{2 * time.Second, 7 * time.Second}, s.sched.PendingAt())
}

func (s *ManualSuite) TestTimerFires() {
	done := make(chan struct{})
	NewTimer().After(time.Millisecond, func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		s.Fail("timer did not fire")
	}
}
