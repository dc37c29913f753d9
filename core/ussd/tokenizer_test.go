package ussd_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kawacukennedy/AgriCredit-Africa-sub000/core/ussd"
)

func TestTokenize(t *testing.T) {
	t.Parallel()

	t.Run("empty text is first turn", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, ussd.Tokenize(""))
	})

	t.Run("single input", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, []string{"1"}, ussd.Tokenize("1"))
	})

	t.Run("full history", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, []string{"1", "1", "3", "0"}, ussd.Tokenize("1*1*3*0"))
	})

	t.Run("preserves empty tokens", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, []string{"1", ""}, ussd.Tokenize("1*"))
	})

	t.Run("trims whitespace", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, []string{"1", "500"}, ussd.Tokenize("1* 500 "))
	})
}

func TestLatestInput(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "", ussd.LatestInput(nil))
	assert.Equal(t, "3", ussd.LatestInput([]string{"1", "3"}))
}
