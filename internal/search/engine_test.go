package search

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/glimpse/internal/storage"
)

type memorySource struct {
	favs []*storage.Favorite
	err  error
}

func (m *memorySource) GetFavorites() ([]*storage.Favorite, error) {
	return m.favs, m.err
}

func (m *memorySource) GetFavorite(id int) (*storage.Favorite, error) {
	for _, f := range m.favs {
		if f.Image.ID == id {
			return f, nil
		}
	}
	return nil, storage.ErrNotFound
}

func sampleFavorites() *memorySource {
	return &memorySource{favs: []*storage.Favorite{
		{Image: storage.Image{ID: 1, Tags: "cat, kitten, pet", User: "Alexas_Fotos", Likes: 120}, Query: "cats"},
		{Image: storage.Image{ID: 2, Tags: "dog, puppy, pet", User: "Pezibear", Likes: 80}, Query: "dogs"},
		{Image: storage.Image{ID: 3, Tags: "mountain, lake, sunrise", User: "catmoon", Likes: 5}, Query: "landscape"},
	}}
}

func TestNewEngine(t *testing.T) {
	source := &memorySource{}
	engine := NewEngine(source)
	assert.NotNil(t, engine)
	assert.Equal(t, source, engine.source)
}

func TestSearchMinLength(t *testing.T) {
	engine := NewEngine(sampleFavorites())

	tests := []struct {
		name  string
		query string
	}{
		{
			name:  "Empty query",
			query: "",
		},
		{
			name:  "Single character query",
			query: "a",
		},
		{
			name:  "Whitespace only",
			query: "   ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := engine.Search(tt.query, 10)
			assert.NoError(t, err)
			assert.NotNil(t, results)
			assert.Equal(t, 0, len(results), "short queries should return empty results")
		})
	}
}

func TestSearchRanksTagsAboveUser(t *testing.T) {
	engine := NewEngine(sampleFavorites())

	results, err := engine.Search("cat", 10)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, 1, results[0].Favorite.Image.ID, "tag match should rank first")
	assert.Equal(t, 3, results[1].Favorite.Image.ID, "user name match ranks second")
	assert.Greater(t, results[0].Score, results[1].Score)
	assert.Equal(t, "tags", results[0].Matches[0].Field)
}

func TestSearchSharedTerm(t *testing.T) {
	engine := NewEngine(sampleFavorites())

	results, err := engine.Search("pet", 10)
	require.NoError(t, err)
	assert.Len(t, results, 2)

	limited, err := engine.Search("pet", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestSearchByOriginalQuery(t *testing.T) {
	engine := NewEngine(sampleFavorites())

	results, err := engine.Search("landscape", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 3, results[0].Favorite.Image.ID)
	assert.Equal(t, "query", results[0].Matches[0].Field)
}

func TestSearchNoMatch(t *testing.T) {
	engine := NewEngine(sampleFavorites())

	results, err := engine.Search("submarine", 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchSourceError(t *testing.T) {
	engine := NewEngine(&memorySource{err: errors.New("db closed")})

	_, err := engine.Search("cats", 10)
	assert.Error(t, err)
}

func TestMatchStructure(t *testing.T) {
	match := Match{
		Field:  "tags",
		Text:   "matched text",
		Weight: 1.0,
	}

	assert.Equal(t, "tags", match.Field)
	assert.Equal(t, "matched text", match.Text)
	assert.Equal(t, 1.0, match.Weight)
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "simple words",
			input:    "hello world",
			expected: []string{"hello", "world"},
		},
		{
			name:     "comma separated tags",
			input:    "cat, kitten, pet",
			expected: []string{"cat", "kitten", "pet"},
		},
		{
			name:     "with numbers",
			input:    "test123 456hello",
			expected: []string{"test123", "456hello"},
		},
		{
			name:     "mixed case",
			input:    "Hello WORLD Test",
			expected: []string{"hello", "world", "test"},
		},
		{
			name:     "single characters filtered",
			input:    "a b test c d word",
			expected: []string{"test", "word"},
		},
		{
			name:     "empty string",
			input:    "",
			expected: nil,
		},
		{
			name:     "special characters",
			input:    "Alexas_Fotos hello-world",
			expected: []string{"alexas", "fotos", "hello", "world"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tokenize(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		maxLen   int
		expected string
	}{
		{
			name:     "text shorter than limit",
			text:     "short",
			maxLen:   10,
			expected: "short",
		},
		{
			name:     "text exactly at limit",
			text:     "exactlyten",
			maxLen:   10,
			expected: "exactlyten",
		},
		{
			name:     "text longer than limit",
			text:     "this is a very long text",
			maxLen:   10,
			expected: "this is a…",
		},
		{
			name:     "multibyte text",
			text:     "blütenblätter",
			maxLen:   6,
			expected: "blüte…",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, truncate(tt.text, tt.maxLen))
		})
	}
}

func TestPopularityBoost(t *testing.T) {
	assert.Equal(t, 0.0, popularityBoost(0))
	assert.Greater(t, popularityBoost(100), popularityBoost(10))
	assert.LessOrEqual(t, popularityBoost(1_000_000_000), 0.1)
}
