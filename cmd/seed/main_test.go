package main

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baharkarakas/shelfhub/internal/models"
)

func TestISBN13_CheckDigit(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		s := isbn13(rng)
		assert.Len(t, s, 17)
		digits := strings.ReplaceAll(s, "-", "")
		require.Len(t, digits, 13)
		sum := 0
		for j, c := range digits {
			d := int(c - '0')
			if j%2 == 1 {
				d *= 3
			}
			sum += d
		}
		assert.Zero(t, sum%10, s)
	}
}

func TestRandomBook_SubCategoryMatchesCategory(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	cats := []models.Category{{ID: 1}, {ID: 2}}
	subs := []models.SubCategory{{ID: 10, CategoryID: 1}, {ID: 11, CategoryID: 1}}

	for i := 0; i < 30; i++ {
		b := randomBook(rng, cats, subs)
		assert.NotEmpty(t, b.Title)
		assert.GreaterOrEqual(t, b.Pages, 100)
		assert.LessOrEqual(t, b.Pages, 1000)
		if b.CategoryID == 2 {
			assert.Nil(t, b.SubCategoryID)
			continue
		}
		require.NotNil(t, b.SubCategoryID)
		assert.Contains(t, []int64{10, 11}, *b.SubCategoryID)
	}
}
