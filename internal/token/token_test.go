package token

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlphabets(t *testing.T) {
	for _, r := range Excluded {
		assert.NotContains(t, Alphanumeric, string(r))
		assert.NotContains(t, Digits, string(r))
	}

	assert.Len(t, Digits, 8)
	assert.Len(t, Letters, 49)
	assert.Len(t, Alphanumeric, 57)
}

func TestGenerate(t *testing.T) {
	t.Run("invalid length", func(t *testing.T) {
		for _, length := range []int{0, -1} {
			tok, err := Generate(length, Alphanumeric, Digits)

			assert.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidLength)
			assert.Empty(t, tok)
		}
	})

	t.Run("empty alphabet", func(t *testing.T) {
		tok, err := Generate(5, "", Digits)

		assert.ErrorIs(t, err, ErrEmptyAlphabet)
		assert.Empty(t, tok)

		tok, err = Generate(5, Alphanumeric, "")

		assert.ErrorIs(t, err, ErrEmptyAlphabet)
		assert.Empty(t, tok)
	})

	t.Run("explicit alphabets", func(t *testing.T) {
		tok, err := Generate(9, "a", "7")

		require.NoError(t, err)
		assert.Equal(t, "aa7aa7aa7", tok)
	})

	t.Run("short lengths have no restricted position", func(t *testing.T) {
		tok, err := Generate(2, "x", "9")

		require.NoError(t, err)
		assert.Equal(t, "xx", tok)
	})
}

func TestNew(t *testing.T) {
	for length := 1; length <= 20; length++ {
		for i := 0; i < 200; i++ {
			tok, err := New(length)
			require.NoError(t, err)
			require.Len(t, tok, length)

			for p, r := range tok {
				pos := p + 1

				assert.False(t, strings.ContainsRune(Excluded, r), "token %q has excluded char %q", tok, r)

				if pos%3 == 0 {
					assert.True(t, strings.ContainsRune(Digits, r), "token %q position %d is %q", tok, pos, r)
				} else {
					assert.True(t, strings.ContainsRune(Alphanumeric, r), "token %q position %d is %q", tok, pos, r)
				}
			}

			assert.True(t, IsValid(tok))
		}
	}
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{name: "empty", token: "", want: false},
		{name: "valid five chars", token: "ab2de", want: true},
		{name: "letter at third position", token: "abcde", want: false},
		{name: "ambiguous zero", token: "0b2de", want: false},
		{name: "ambiguous lowercase l", token: "lb2de", want: false},
		{name: "ambiguous uppercase O", token: "Ob2de", want: false},
		{name: "digit one at third position", token: "ab1de", want: false},
		{name: "punctuation", token: "a.2de", want: false},
		{name: "valid six chars", token: "Xy7Qk9", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValid(tt.token))
		})
	}
}
