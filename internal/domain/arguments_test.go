package domain_test

import (
	"testing"

	"github.com/DanielPopoola/ficmart-checkout/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestArgumentBag(t *testing.T) {
	t.Run("last write wins", func(t *testing.T) {
		bag := domain.NewArgumentBag()
		bag.Set("nonce", "first")
		bag.Set("nonce", "second")

		v, ok := bag.Get("nonce")
		assert.True(t, ok)
		assert.Equal(t, "second", v)
		assert.Equal(t, 1, bag.Len())
	})

	t.Run("keeps insertion order", func(t *testing.T) {
		bag := domain.NewArgumentBag()
		bag.Set("b", "1")
		bag.Set("a", "2")
		bag.Set("b", "3")

		assert.Equal(t, []string{"b", "a"}, bag.Names())
	})

	t.Run("copies are detached", func(t *testing.T) {
		bag := domain.NewArgumentBag()
		bag.Set("token", "tok-1")

		m := bag.Map()
		m["token"] = "changed"
		names := bag.Names()
		names[0] = "changed"

		v, _ := bag.Get("token")
		assert.Equal(t, "tok-1", v)
		assert.Equal(t, []string{"token"}, bag.Names())
	})

	t.Run("missing argument", func(t *testing.T) {
		_, ok := domain.NewArgumentBag().Get("nonce")
		assert.False(t, ok)
	})
}
