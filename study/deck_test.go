package study

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeckWrapsBothDirections(t *testing.T) {
	d := NewDeck(3)
	assert.Equal(t, 0, d.Index())

	d.Prev()
	assert.Equal(t, 2, d.Index())

	d.Next()
	assert.Equal(t, 0, d.Index())

	d.Next()
	d.Next()
	d.Next()
	assert.Equal(t, 0, d.Index())
}

func TestDeckPrevThenNextReturnsToSameCard(t *testing.T) {
	d := NewDeck(5)
	d.Next()
	d.Next()
	start := d.Index()

	d.Prev()
	d.Next()
	assert.Equal(t, start, d.Index())
}

func TestDeckFlipResetsOnNavigation(t *testing.T) {
	d := NewDeck(2)

	d.Flip()
	assert.True(t, d.Flipped())

	d.Next()
	assert.False(t, d.Flipped())

	d.Flip()
	d.Prev()
	assert.False(t, d.Flipped())
}

func TestEmptyDeckNavigationIsNoop(t *testing.T) {
	d := NewDeck(0)
	d.Next()
	d.Prev()
	assert.Equal(t, 0, d.Index())
}
