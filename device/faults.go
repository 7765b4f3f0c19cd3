package device

import "fmt"

// FaultCounter counts consecutive failures of a recurring operation. One
// success forgives all earlier failures; once the limit is hit the device
// should give up instead of logging the same error forever.
type FaultCounter struct {
	name  string
	limit int
	count int
	last  error
}

// DefaultFaultLimit is how many consecutive failures a recurring operation
// may accumulate before the device shuts down.
const DefaultFaultLimit = 10

func NewFaultCounter(name string, limit int) *FaultCounter {
	if limit <= 0 {
		limit = DefaultFaultLimit
	}
	return &FaultCounter{name: name, limit: limit}
}

// Fail records a failure and returns a non-nil error once the consecutive
// failure count reaches the limit.
func (f *FaultCounter) Fail(err error) error {
	f.count++
	f.last = err
	if f.count >= f.limit {
		return fmt.Errorf("%s failed %d times in a row: %w", f.name, f.count, err)
	}
	return nil
}

// OK records a success and resets the counter.
func (f *FaultCounter) OK() {
	f.count = 0
	f.last = nil
}

func (f *FaultCounter) Count() int {
	return f.count
}
