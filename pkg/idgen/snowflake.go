// Package idgen produces sortable 64-bit run identifiers.
package idgen

import (
	"errors"
	"strconv"
	"sync"
	"time"
)

const (
	// Layout of an ID, most significant first:
	// 1 bit sign, 41 bits milliseconds since Epoch, 10 bits node, 12 bits sequence.
	nodeBits     = 10
	sequenceBits = 12

	maxNodeID   = -1 ^ (-1 << nodeBits)
	maxSequence = -1 ^ (-1 << sequenceBits)

	nodeShift      = sequenceBits
	timestampShift = sequenceBits + nodeBits

	// Epoch is 2024-01-01T00:00:00Z in milliseconds.
	Epoch = 1704067200000
)

var (
	ErrNodeIDTooLarge = errors.New("node ID too large")
	ErrClockMovedBack = errors.New("clock moved backwards")
)

// Snowflake generates unique, time-ordered IDs for one node.
type Snowflake struct {
	mu       sync.Mutex
	clock    Clock
	nodeID   int64
	lastTime int64
	sequence int64
}

func New(nodeID int64, clock Clock) (*Snowflake, error) {
	if nodeID < 0 || nodeID > int64(maxNodeID) {
		return nil, ErrNodeIDTooLarge
	}
	if clock == nil {
		clock = SystemClock{}
	}

	return &Snowflake{
		clock:    clock,
		nodeID:   nodeID,
		lastTime: -1,
	}, nil
}

// Next generates the next ID.
func (s *Snowflake) Next() (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	if now < s.lastTime {
		return 0, ErrClockMovedBack
	}

	if now == s.lastTime {
		s.sequence = (s.sequence + 1) & int64(maxSequence)
		if s.sequence == 0 {
			for now <= s.lastTime {
				now = s.clock.Now()
			}
		}
	} else {
		s.sequence = 0
	}
	s.lastTime = now

	return ((now - Epoch) << timestampShift) | (s.nodeID << nodeShift) | s.sequence, nil
}

// NextRunID returns Next formatted for journals and progress files.
func (s *Snowflake) NextRunID() (string, error) {
	id, err := s.Next()
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(id, 10), nil
}

// Time extracts the creation time of an ID.
func Time(id int64) time.Time {
	return time.UnixMilli((id >> timestampShift) + Epoch).UTC()
}

// ParseRunID reverses NextRunID and returns the run's start time.
func ParseRunID(runID string) (time.Time, error) {
	id, err := strconv.ParseInt(runID, 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return Time(id), nil
}
