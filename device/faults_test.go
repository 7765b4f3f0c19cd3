package device

import (
	"errors"
	"testing"
)

func TestFaultCounterTripsAtLimit(t *testing.T) {
	f := NewFaultCounter("display", 3)
	cause := errors.New("spi write failed")
	for i := 0; i < 2; i++ {
		if err := f.Fail(cause); err != nil {
			t.Fatalf("tripped after %v failures, limit is 3", i+1)
		}
	}
	err := f.Fail(cause)
	if err == nil {
		t.Fatal("expected an error after 3 consecutive failures")
	}
	if !errors.Is(err, cause) {
		t.Fatalf("error should wrap the underlying cause, got %v", err)
	}
}

func TestFaultCounterResetsOnSuccess(t *testing.T) {
	f := NewFaultCounter("display", 3)
	cause := errors.New("spi write failed")
	f.Fail(cause)
	f.Fail(cause)
	f.OK()
	if f.Count() != 0 {
		t.Fatalf("count not reset by success: %v", f.Count())
	}
	if err := f.Fail(cause); err != nil {
		t.Fatalf("tripped on first failure after a success: %v", err)
	}
}

func TestFaultCounterDefaultLimit(t *testing.T) {
	f := NewFaultCounter("display", 0)
	cause := errors.New("spi write failed")
	for i := 0; i < DefaultFaultLimit-1; i++ {
		if err := f.Fail(cause); err != nil {
			t.Fatalf("tripped after %v failures, default limit is %v", i+1, DefaultFaultLimit)
		}
	}
	if err := f.Fail(cause); err == nil {
		t.Fatalf("expected an error after %v consecutive failures", DefaultFaultLimit)
	}
}
