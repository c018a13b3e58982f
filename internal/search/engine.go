package search

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/pders01/glimpse/internal/storage"
)

// Result is a favorite that matched, with its relevance score.
type Result struct {
	Favorite *storage.Favorite
	Score    float64
	Matches  []Match
}

// Match represents where text was found
type Match struct {
	Field  string // "tags", "user", "query"
	Text   string // matched text snippet
	Weight float64
}

// Engine scores favorites in memory without an index
type Engine struct {
	source FavoriteSource
}

func NewEngine(source FavoriteSource) *Engine {
	return &Engine{source: source}
}

// Search ranks all favorites against the query, best first.
func (e *Engine) Search(query string, limit int) ([]*Result, error) {
	if len(strings.TrimSpace(query)) < 2 {
		return []*Result{}, nil
	}

	terms := tokenize(query)
	if len(terms) == 0 {
		return []*Result{}, nil
	}

	favs, err := e.source.GetFavorites()
	if err != nil {
		return nil, err
	}

	results := []*Result{}
	for _, fav := range favs {
		if result := e.scoreFavorite(fav, terms); result != nil {
			results = append(results, result)
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	return results, nil
}

func (e *Engine) scoreFavorite(fav *storage.Favorite, terms []string) *Result {
	var matches []Match
	var totalScore float64

	// Tags carry the subject of the image
	if tagScore := e.scoreField(fav.Image.Tags, terms, 3.0); tagScore > 0 {
		matches = append(matches, Match{
			Field:  "tags",
			Text:   truncate(fav.Image.Tags, 100),
			Weight: tagScore,
		})
		totalScore += tagScore
	}

	if userScore := e.scoreField(fav.Image.User, terms, 1.5); userScore > 0 {
		matches = append(matches, Match{
			Field:  "user",
			Text:   fav.Image.User,
			Weight: userScore,
		})
		totalScore += userScore
	}

	if queryScore := e.scoreField(fav.Query, terms, 1.0); queryScore > 0 {
		matches = append(matches, Match{
			Field:  "query",
			Text:   fav.Query,
			Weight: queryScore,
		})
		totalScore += queryScore
	}

	if totalScore == 0 {
		return nil
	}

	// Well liked images edge ahead of equally relevant ones
	totalScore *= 1.0 + popularityBoost(fav.Image.Likes)

	return &Result{
		Favorite: fav,
		Score:    totalScore,
		Matches:  matches,
	}
}

// scoreField calculates relevance score for a field
func (e *Engine) scoreField(text string, terms []string, weight float64) float64 {
	if text == "" {
		return 0
	}

	lower := strings.ToLower(text)
	words := tokenize(text)
	if len(words) == 0 {
		return 0
	}

	var score float64
	matchedTerms := 0

	for _, term := range terms {
		// Exact phrase match (highest score)
		if strings.Contains(lower, term) {
			score += 2.0
			matchedTerms++
		}

		// Word boundary matches (medium score)
		for _, word := range words {
			switch {
			case word == term:
				score += 1.5
				matchedTerms++
			case strings.HasPrefix(word, term) || strings.HasSuffix(word, term):
				score += 1.0
				matchedTerms++
			case strings.Contains(word, term):
				score += 0.5
				matchedTerms++
			}
		}
	}

	// Boost score if multiple terms match
	if len(terms) > 1 && matchedTerms > 1 {
		score *= 1.0 + float64(matchedTerms)/float64(len(terms))
	}

	tf := float64(matchedTerms) / float64(len(words))
	score *= 1.0 + math.Log(1.0+tf)

	return score * weight
}

// popularityBoost is at most 10%.
func popularityBoost(likes int) float64 {
	if likes <= 0 {
		return 0
	}
	return math.Min(0.1, math.Log10(1+float64(likes))/30)
}

// tokenize breaks text into lowercase searchable terms
func tokenize(text string) []string {
	var terms []string
	current := strings.Builder{}

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			current.WriteRune(unicode.ToLower(r))
		} else if current.Len() > 0 {
			if term := current.String(); len(term) > 1 { // Skip single chars
				terms = append(terms, term)
			}
			current.Reset()
		}
	}

	if current.Len() > 1 {
		terms = append(terms, current.String())
	}

	return terms
}

// truncate limits text length with ellipsis
func truncate(text string, maxLen int) string {
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	return string(runes[:maxLen-1]) + "…"
}
