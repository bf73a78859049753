package framebuffer

import (
	"sync"

	"github.com/tauraamui/dragonmosaic/pkg/videoframe"
)

const DefaultBound = 3

// Store keeps a bounded FIFO of the most recent frames per source.
// Frames pushed past the bound are evicted oldest first and closed,
// the store owns every frame handed to Receive until eviction or Clear.
type Store struct {
	mu      sync.Mutex
	bound   int
	buffers map[string][]videoframe.Frame
}

func New(bound int) *Store {
	if bound < 1 {
		bound = DefaultBound
	}
	return &Store{
		bound:   bound,
		buffers: map[string][]videoframe.Frame{},
	}
}

func (s *Store) Receive(frame videoframe.Frame) {
	if frame == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	src := frame.SourceUUID()
	buffer := append(s.buffers[src], frame)
	for len(buffer) > s.bound {
		buffer[0].Close()
		buffer = buffer[1:]
	}
	s.buffers[src] = buffer
}

func (s *Store) Latest(sourceUUID string) (videoframe.Frame, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	buffer := s.buffers[sourceUUID]
	if len(buffer) == 0 {
		return nil, false
	}
	return buffer[len(buffer)-1], true
}

func (s *Store) AllLatest() map[string]videoframe.Frame {
	s.mu.Lock()
	defer s.mu.Unlock()

	latest := map[string]videoframe.Frame{}
	for src, buffer := range s.buffers {
		if len(buffer) == 0 {
			continue
		}
		latest[src] = buffer[len(buffer)-1]
	}
	return latest
}

func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, buffer := range s.buffers {
		for _, frame := range buffer {
			frame.Close()
		}
	}
	s.buffers = map[string][]videoframe.Frame{}
}
