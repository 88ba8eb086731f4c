package erlang

import (
	"fmt"
	"math"
)

// DefaultMaxChannels bounds the forward scan of the sizing searches.
const DefaultMaxChannels = 50

// RequiredChannels returns the smallest channel count in 1..maxChannels whose
// Erlang-B blocking does not exceed target. It returns ErrNotFound when the
// ceiling is reached first.
func RequiredChannels(traffic, target float64, maxChannels int) (int, error) {
	return RequiredChannelsInBlocks(traffic, target, 1, maxChannels)
}

// RequiredChannelsInBlocks is RequiredChannels with capacity provisioned in
// whole blocks: the scan visits blockSize, 2*blockSize, ... up to maxChannels,
// so any returned count is a positive multiple of blockSize.
func RequiredChannelsInBlocks(traffic, target float64, blockSize, maxChannels int) (int, error) {
	if err := checkTraffic(traffic); err != nil {
		return 0, err
	}
	if math.IsNaN(target) || target < 0 || target > 1 {
		return 0, fmt.Errorf("%w: target GOS must be within [0,1], got %v", ErrInvalidInput, target)
	}
	if blockSize < 1 {
		return 0, fmt.Errorf("%w: block size must be positive, got %d", ErrInvalidInput, blockSize)
	}
	if maxChannels < 1 {
		return 0, fmt.Errorf("%w: max channels must be positive, got %d", ErrInvalidInput, maxChannels)
	}

	// B is non-increasing in n, so the recurrence is advanced once and
	// checked at every block boundary.
	b := 1.0
	for n := 1; n <= maxChannels; n++ {
		b = step(traffic, n, b)
		if n%blockSize == 0 && b <= target {
			return n, nil
		}
	}
	return 0, fmt.Errorf("%w: traffic %.3f E, target %v, block %d, ceiling %d",
		ErrNotFound, traffic, target, blockSize, maxChannels)
}

// Sizer carries the parameters of a block-constrained sizing search.
type Sizer struct {
	Target      float64
	BlockSize   int
	MaxChannels int
}

// Size runs the search for the given traffic. A zero BlockSize or MaxChannels
// falls back to 1 and DefaultMaxChannels.
func (s Sizer) Size(traffic float64) (int, error) {
	return RequiredChannelsInBlocks(traffic, s.Target, s.block(), s.ceiling())
}

// Largest returns the largest channel count the search can return.
func (s Sizer) Largest() int {
	block := s.block()
	largest := s.ceiling() / block * block
	if largest < block {
		return block
	}
	return largest
}

func (s Sizer) block() int {
	if s.BlockSize <= 0 {
		return 1
	}
	return s.BlockSize
}

func (s Sizer) ceiling() int {
	if s.MaxChannels <= 0 {
		return DefaultMaxChannels
	}
	return s.MaxChannels
}
