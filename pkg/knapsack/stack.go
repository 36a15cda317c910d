package knapsack

import (
	"unsafe"

	kerrors "github.com/matzehuels/knapsack/pkg/errors"
)

const (
	// DefaultInitialStack is the frame capacity the search stack starts with.
	DefaultInitialStack = 1024

	// MaxInitialStack bounds the starting capacity. Larger requests fail with
	// RESOURCE_EXHAUSTED instead of attempting the allocation.
	MaxInitialStack = 1 << 24
)

// Decision is the state of a search frame. A frame moves through
// Undecided -> Included -> Excluded and is popped after Excluded.
type Decision uint8

const (
	Undecided Decision = iota
	Included
	Excluded
)

// String returns the decision name.
func (d Decision) String() string {
	switch d {
	case Included:
		return "include"
	case Excluded:
		return "exclude"
	default:
		return "undecided"
	}
}

// frame is one decision point on the current search path.
type frame struct {
	level    int // index into the density-sorted item list
	decision Decision
	weight   float64
	value    float64
	node     int // trace node id
}

var frameBytes = int(unsafe.Sizeof(frame{}))

// frameStack is an explicit, doubling stack of frames. It replaces native
// recursion so the search depth is limited by memory, not by a call stack.
type frameStack struct {
	frames  []frame
	top     int // index of the top frame, -1 when empty
	peak    int
	growths int
	limit   int // 0 means unlimited
	logf    Logf
}

func newFrameStack(initial, limit int, logf Logf) (*frameStack, error) {
	if initial <= 0 {
		initial = DefaultInitialStack
	}
	if limit > 0 && initial > limit {
		initial = limit
	}
	if initial > MaxInitialStack {
		return nil, kerrors.New(kerrors.ErrCodeResourceExhausted,
			"initial search stack of %d frames (%.0f KB) exceeds the limit of %d frames",
			initial, stackKB(initial), MaxInitialStack)
	}
	return &frameStack{
		frames: make([]frame, initial),
		top:    -1,
		limit:  limit,
		logf:   logf,
	}, nil
}

// stackKB is the size of n frames in kilobytes, computed in floating point
// so absurd frame counts cannot overflow.
func stackKB(n int) float64 {
	return float64(n) * float64(frameBytes) / 1024
}

// push places f on top of the stack, doubling the backing array first when
// it is full.
func (s *frameStack) push(f frame) error {
	if s.top+1 >= len(s.frames) {
		if err := s.grow(s.top + 2); err != nil {
			return err
		}
	}
	s.top++
	s.frames[s.top] = f
	if s.top+1 > s.peak {
		s.peak = s.top + 1
	}
	return nil
}

func (s *frameStack) pop() {
	s.top--
}

// peek returns a pointer to the top frame. The pointer is invalidated by the
// next push.
func (s *frameStack) peek() *frame {
	return &s.frames[s.top]
}

func (s *frameStack) empty() bool {
	return s.top < 0
}

// grow doubles the capacity until it holds needed frames. A doubling that
// would pass the limit is cut back to the limit when needed still fits.
func (s *frameStack) grow(needed int) error {
	size := len(s.frames) * 2
	for size < needed {
		size *= 2
	}
	if s.limit > 0 && size > s.limit {
		if needed > s.limit {
			return kerrors.New(kerrors.ErrCodeResourceExhausted,
				"search stack growth to %d frames (%.0f KB) exceeds the limit of %d frames",
				needed, stackKB(needed), s.limit)
		}
		size = s.limit
	}
	grown := make([]frame, size)
	copy(grown, s.frames[:s.top+1])
	s.frames = grown
	s.growths++
	s.logf.printf("search stack grown to %d frames (%d KB)", size, size*frameBytes/1024)
	return nil
}
