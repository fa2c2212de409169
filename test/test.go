// Package test contains helper functions for the testing of other packages.
//
// The Expect*() functions report a failure with t.Errorf() and return false.
// The Demand*() functions report a failure with t.Fatalf() and end the test.
package test

import (
	"testing"
)

// ExpectEquality compares value with expectedValue and fails the test if they
// are not equal.
func ExpectEquality[T comparable](t *testing.T, value T, expectedValue T) bool {
	t.Helper()
	if value != expectedValue {
		t.Errorf("equality test of type %T failed: '%v' does not equal '%v')", value, value, expectedValue)
		return false
	}
	return true
}

// DemandEquality is like ExpectEquality but ends the test immediately on
// failure.
func DemandEquality[T comparable](t *testing.T, value T, expectedValue T) {
	t.Helper()
	if value != expectedValue {
		t.Fatalf("equality test of type %T failed: '%v' does not equal '%v')", value, value, expectedValue)
	}
}

// ExpectInequality is the inverse of ExpectEquality.
func ExpectInequality[T comparable](t *testing.T, value T, expectedValue T) bool {
	t.Helper()
	if value == expectedValue {
		t.Errorf("inequality test of type %T failed: '%v' does equal '%v')", value, value, expectedValue)
		return false
	}
	return true
}

// ExpectSuccess tests argument v for a success condition suitable for its
// type. Types bool and error are supported. A nil value is considered a
// success.
func ExpectSuccess(t *testing.T, v any) bool {
	t.Helper()

	switch v := v.(type) {
	case bool:
		if !v {
			t.Errorf("a success value is expected for type %T", v)
			return false
		}
	case error:
		if v != nil {
			t.Errorf("a success value is expected for type %T (%s)", v, v)
			return false
		}
	case nil:
		return true
	default:
		t.Fatalf("unsupported type %T for ExpectSuccess()", v)
		return false
	}

	return true
}

// DemandSuccess is like ExpectSuccess but ends the test immediately on
// failure.
func DemandSuccess(t *testing.T, v any) {
	t.Helper()
	if !ExpectSuccess(t, v) {
		t.FailNow()
	}
}

// ExpectFailure tests argument v for a failure condition suitable for its
// type. Types bool and error are supported. A nil value is considered a
// success and therefore a failure of the test.
func ExpectFailure(t *testing.T, v any) bool {
	t.Helper()

	switch v := v.(type) {
	case bool:
		if v {
			t.Errorf("a failure value is expected for type %T", v)
			return false
		}
	case error:
		if v == nil {
			t.Errorf("a failure value is expected for type %T", v)
			return false
		}
	case nil:
		t.Errorf("a failure value is expected for type %T", v)
		return false
	default:
		t.Fatalf("unsupported type %T for ExpectFailure()", v)
		return false
	}

	return true
}
