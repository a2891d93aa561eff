package usecase

import (
	"testing"

	"github.com/pricelens/web/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatter(t *testing.T) {
	cards, err := LocaleFor(VariantCards)
	require.NoError(t, err)
	table, err := LocaleFor(VariantTable)
	require.NoError(t, err)

	vi := NewFormatter(cards)
	en := NewFormatter(table)

	t.Run("price", func(t *testing.T) {
		assert.Equal(t, "0₫", vi.Price(0))
		assert.Equal(t, "999₫", vi.Price(999))
		assert.Equal(t, "1.234.567₫", vi.Price(1234567))
		assert.Equal(t, "1,234,567", en.Price(1234567))
	})

	t.Run("amount", func(t *testing.T) {
		assert.Equal(t, "20.000.000", vi.Amount(20000000))
		assert.Equal(t, "5,000", en.Amount(5000))
	})

	t.Run("category", func(t *testing.T) {
		assert.Equal(t, "Không xác định", vi.Category(""))
		assert.Equal(t, "phones", en.Category(domain.CategoryID("phones")))
	})

	t.Run("rating", func(t *testing.T) {
		r := 4.56
		assert.Equal(t, "4.6", en.Rating(domain.SearchResult{Rating: &r}))
		assert.Equal(t, "N/A", en.Rating(domain.SearchResult{}))
	})

	t.Run("updated at", func(t *testing.T) {
		tests := []struct {
			in   string
			want string
		}{
			{"", ""},
			{"2024-05-01T10:20:30Z", "2024-05-01 10:20"},
			{"2024-05-01T10:20:30.5", "2024-05-01 10:20"},
			{"2024-05-01 08:00:00", "2024-05-01 08:00"},
			{"yesterday", "yesterday"},
		}
		for _, tt := range tests {
			assert.Equal(t, tt.want, en.UpdatedAt(tt.in), "UpdatedAt(%q)", tt.in)
		}
	})
}

func TestLocaleFor(t *testing.T) {
	for _, v := range Variants() {
		l, err := LocaleFor(v)
		require.NoError(t, err)
		assert.Equal(t, v, l.Variant)
		assert.NotEmpty(t, l.NoResults)
		assert.NotEmpty(t, l.ErrorPrefix)
	}

	_, err := LocaleFor("grid")
	assert.Error(t, err)
}
