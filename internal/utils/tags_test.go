package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitTags(t *testing.T) {
	assert.Equal(t, []string{"Excel", "Word", "Java"}, SplitTags("Excel, Word, Java"))
	assert.Equal(t, []string{"Go"}, SplitTags(" , Go ,, "))
	assert.Equal(t, []string{"Go", "SQL"}, SplitTags("Go, go, SQL, GO"))
	assert.Empty(t, SplitTags(""))
	assert.NotNil(t, SplitTags(""))
}

func TestNormalizeTags(t *testing.T) {
	assert.Equal(t, []string{"React", "node"}, NormalizeTags([]string{" React", "", "node, Node", "react"}))
}

func TestPage(t *testing.T) {
	p, size, off := Page(0, 0)
	assert.Equal(t, 1, p)
	assert.Equal(t, DefaultPageSize, size)
	assert.Equal(t, 0, off)

	p, size, off = Page(3, 500)
	assert.Equal(t, 3, p)
	assert.Equal(t, MaxPageSize, size)
	assert.Equal(t, 100, off)

	p, _, off = Page(math.MaxInt, MaxPageSize)
	assert.Equal(t, MaxPage, p)
	assert.Equal(t, (MaxPage-1)*MaxPageSize, off)
}
