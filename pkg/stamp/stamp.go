// Package stamp provides the timestamp source used to synthesize unique,
// filename-safe output names.
package stamp

import (
	"fmt"
	"sync"
	"time"
)

// Stamper produces a string uniquely identifying "now". The result contains
// only filename-safe characters and is expected to differ between calls at
// normal CLI invocation rates.
type Stamper interface {
	Stamp() string
}

// System returns a Stamper backed by the wall clock, formatted in UTC with
// millisecond precision, e.g. "20260831-142233-041".
func System() Stamper {
	return systemStamper{}
}

type systemStamper struct{}

func (systemStamper) Stamp() string {
	t := time.Now().UTC()
	return fmt.Sprintf("%s-%03d", t.Format("20060102-150405"), t.Nanosecond()/int(time.Millisecond))
}

// Fixed returns a Stamper that always produces the same value. It exists so
// tests can pin auto-generated names to a known string.
func Fixed(value string) Stamper {
	return fixedStamper(value)
}

type fixedStamper string

func (f fixedStamper) Stamp() string {
	return string(f)
}

// Sequence returns a Stamper producing "<prefix>1", "<prefix>2", ... across
// calls. Unlike the system stamper it is guaranteed to never repeat, which
// makes it useful for tests that resolve the same inputs twice.
func Sequence(prefix string) Stamper {
	return &sequenceStamper{prefix: prefix}
}

type sequenceStamper struct {
	mu     sync.Mutex
	prefix string
	n      int
}

func (s *sequenceStamper) Stamp() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return fmt.Sprintf("%s%d", s.prefix, s.n)
}
