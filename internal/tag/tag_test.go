package tag

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clubtools/gearshed/internal/model"
)

func TestRandomGeneratorProducesValidTags(t *testing.T) {
	gen := NewRandom(func(context.Context, string) (bool, error) { return false, nil })

	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		tag, err := gen.Next(context.Background())
		require.NoError(t, err)
		assert.True(t, model.ValidTag(tag), "tag %q is not %d digits", tag, model.TagLength)
		assert.NotEqual(t, byte('0'), tag[0], "tag %q collides with the reserved zero prefix", tag)
		seen[tag] = true
	}

	// 100 draws from 9e9 values colliding would point at a broken RNG.
	assert.Len(t, seen, 100)
}

func TestRandomGeneratorRetriesCollisions(t *testing.T) {
	collisions := 0
	gen := NewRandom(func(_ context.Context, tag string) (bool, error) {
		if collisions < 3 {
			collisions++
			return true, nil
		}
		return false, nil
	})

	tag, err := gen.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, collisions)
	assert.True(t, model.ValidTag(tag))
}

func TestRandomGeneratorBoundedAttempts(t *testing.T) {
	calls := 0
	gen := NewRandom(func(context.Context, string) (bool, error) {
		calls++
		return true, nil // everything is taken
	})
	gen.MaxAttempts = 5

	_, err := gen.Next(context.Background())
	require.ErrorIs(t, err, ErrExhausted)
	assert.Equal(t, 5, calls)
}

func TestFixedGenerator(t *testing.T) {
	gen := &Fixed{Tags: []string{"1111111111", "2222222222"}}

	first, err := gen.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1111111111", first)

	second, err := gen.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2222222222", second)

	_, err = gen.Next(context.Background())
	require.ErrorIs(t, err, ErrExhausted)
}
