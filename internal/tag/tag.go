// Package tag generates the fixed-length numeric codes affixed to gear
// items and member cards.
package tag

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"github.com/clubtools/gearshed/internal/model"
)

// ErrExhausted is returned when a generator cannot find an unused tag
// within its attempt budget.
var ErrExhausted = errors.New("no unused tag found within attempt budget")

// ExistsFunc reports whether a tag is already in use.
type ExistsFunc func(ctx context.Context, tag string) (bool, error)

// Generator produces unused tag identifiers.
type Generator interface {
	Next(ctx context.Context) (string, error)
}

// DefaultMaxAttempts bounds collision retries for RandomGenerator.
const DefaultMaxAttempts = 16

// RandomGenerator draws uniformly random tags and retries on collision, up
// to a fixed attempt count. Collisions are resolved by iteration rather
// than recursion, and running out of attempts is an error instead of a
// hang when the tag space fills up.
type RandomGenerator struct {
	Exists      ExistsFunc
	MaxAttempts int
}

// NewRandom returns a RandomGenerator checking collisions through exists.
func NewRandom(exists ExistsFunc) *RandomGenerator {
	return &RandomGenerator{Exists: exists, MaxAttempts: DefaultMaxAttempts}
}

// Next returns a random tag that exists reports as unused.
func (g *RandomGenerator) Next(ctx context.Context) (string, error) {
	attempts := g.MaxAttempts
	if attempts <= 0 {
		attempts = DefaultMaxAttempts
	}

	for i := 0; i < attempts; i++ {
		t, err := random()
		if err != nil {
			return "", err
		}

		used, err := g.Exists(ctx, t)
		if err != nil {
			return "", fmt.Errorf("checking tag %s: %w", t, err)
		}
		if !used {
			return t, nil
		}
	}

	return "", fmt.Errorf("%w (%d attempts)", ErrExhausted, attempts)
}

// random draws one tag uniformly from the non-zero-prefixed tag space, so
// generated tags never collide with the reserved all-zeros system tag.
func random() (string, error) {
	// [1000000000, 9999999999]
	span := big.NewInt(9_000_000_000)
	n, err := rand.Int(rand.Reader, span)
	if err != nil {
		return "", fmt.Errorf("drawing random tag: %w", err)
	}
	return fmt.Sprintf("%0*d", model.TagLength, n.Int64()+1_000_000_000), nil
}

// Fixed is a Generator that returns a predetermined sequence of tags.
// Intended for tests.
type Fixed struct {
	Tags []string
	next int
}

// Next returns the next predetermined tag.
func (f *Fixed) Next(context.Context) (string, error) {
	if f.next >= len(f.Tags) {
		return "", ErrExhausted
	}
	t := f.Tags[f.next]
	f.next++
	return t, nil
}
