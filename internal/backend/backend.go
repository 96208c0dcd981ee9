// Package backend defines the boundary to the generation backend.
//
// The core never links a concrete language-model SDK. It sees only the
// Generator interface and an Availability value that is threaded through
// request handling, so unavailability is an input to routing rather than
// an exception to unwind past.
package backend

import (
	"context"
	"errors"
)

// ErrUnavailable is returned by generators that cannot produce output.
// Callers treat it as a signal, not a failure: it drives offline mode.
var ErrUnavailable = errors.New("generation backend unavailable")

// Generator produces text from a prompt plus supporting context.
type Generator interface {
	Generate(ctx context.Context, prompt, contextText string) (string, error)
}

// Availability says whether the generation backend can be used right now.
// It is passed explicitly into request handling so tests can inject it.
type Availability struct {
	Available bool
	Reason    string
}

// Online returns an Availability for a working backend.
func Online() Availability {
	return Availability{Available: true}
}

// Offline returns an Availability for an unusable backend.
func Offline(reason string) Availability {
	return Availability{Available: false, Reason: reason}
}

// From reports availability for a generator reference. A nil generator is
// never available.
func From(g Generator) Availability {
	if g == nil {
		return Offline("no generator attached")
	}
	return Online()
}
