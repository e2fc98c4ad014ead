package service

import (
	"fmt"
	"math/rand"
	"time"
)

// Clock supplies the current time for order dates
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the wall clock
var SystemClock Clock = ClockFunc(time.Now)

// FixedClock always reports t
func FixedClock(t time.Time) Clock {
	return ClockFunc(func() time.Time { return t })
}

// IDGenerator produces candidate order ids. Uniqueness against history is checked by the caller.
type IDGenerator interface {
	NewID() string
}

// IDGeneratorFunc adapts a function to IDGenerator
type IDGeneratorFunc func() string

func (f IDGeneratorFunc) NewID() string { return f() }

const orderIDSpace = 1_000_000

// RandomIDGenerator returns ids of the form PREFIX-NNNNNN
func RandomIDGenerator(prefix string) IDGenerator {
	return IDGeneratorFunc(func() string {
		return fmt.Sprintf("%s-%06d", prefix, rand.Intn(orderIDSpace))
	})
}
