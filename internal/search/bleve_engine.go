package search

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	bleveQuery "github.com/blevesearch/bleve/v2/search/query"
	"github.com/pders01/glimpse/internal/debuglog"
	"github.com/pders01/glimpse/internal/storage"
)

// BleveEngine keeps a full-text index of favorites next to the store.
type BleveEngine struct {
	source FavoriteSource
	idx    bleve.Index
}

// NewBleveEngine creates or opens a Bleve index at indexPath and indexes
// the current favorites.
func NewBleveEngine(source FavoriteSource, indexPath string) (*BleveEngine, error) {
	if err := os.MkdirAll(filepath.Dir(indexPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	idx, err := bleve.Open(indexPath)
	if errors.Is(err, bleve.ErrorIndexPathDoesNotExist) {
		idx, err = bleve.New(indexPath, buildIndexMapping())
	}
	if err != nil {
		return nil, fmt.Errorf("opening search index: %w", err)
	}

	be := &BleveEngine{source: source, idx: idx}
	if err := be.reindexAll(); err != nil {
		_ = idx.Close()
		return nil, err
	}
	return be, nil
}

func buildIndexMapping() mapping.IndexMapping {
	im := bleve.NewIndexMapping()
	im.DefaultAnalyzer = standard.Name

	dm := bleve.NewDocumentMapping()

	tags := bleve.NewTextFieldMapping()
	tags.Analyzer = standard.Name
	tags.Store = true
	tags.IncludeTermVectors = true

	user := bleve.NewTextFieldMapping()
	user.Analyzer = standard.Name
	user.Store = true

	query := bleve.NewTextFieldMapping()
	query.Analyzer = standard.Name
	query.Store = false

	pageURL := bleve.NewTextFieldMapping()
	pageURL.Analyzer = standard.Name
	pageURL.Store = true

	dm.AddFieldMappingsAt("tags", tags)
	dm.AddFieldMappingsAt("user", user)
	dm.AddFieldMappingsAt("query", query)
	dm.AddFieldMappingsAt("page_url", pageURL)

	im.DefaultMapping = dm
	return im
}

func favoriteDoc(fav *storage.Favorite) map[string]any {
	return map[string]any{
		"tags":     fav.Image.Tags,
		"user":     fav.Image.User,
		"query":    fav.Query,
		"page_url": fav.Image.PageURL,
	}
}

func (b *BleveEngine) reindexAll() error {
	favs, err := b.source.GetFavorites()
	if err != nil {
		return err
	}

	batch := b.idx.NewBatch()
	for _, fav := range favs {
		if err := batch.Index(docIDForFavorite(fav.Image.ID), favoriteDoc(fav)); err != nil {
			return fmt.Errorf("indexing favorite %d: %w", fav.Image.ID, err)
		}
	}
	return b.idx.Batch(batch)
}

func (b *BleveEngine) Search(query string, limit int) ([]*Result, error) {
	if len(strings.TrimSpace(query)) < 2 {
		return []*Result{}, nil
	}
	if limit <= 0 {
		limit = 50
	}

	// An OR of per-term matches across fields with boosts
	fields := []struct {
		name  string
		boost float64
	}{
		{"tags", 4.0},
		{"user", 2.0},
		{"query", 1.0},
		{"page_url", 0.5},
	}
	var qs []bleveQuery.Query
	for _, tok := range tokenize(query) {
		for _, f := range fields {
			qm := bleve.NewMatchQuery(tok)
			qm.SetField(f.name)
			qm.SetBoost(f.boost)
			qs = append(qs, qm)

			qp := bleve.NewPrefixQuery(tok)
			qp.SetField(f.name)
			qp.SetBoost(f.boost * 0.8)
			qs = append(qs, qp)
		}
	}
	if len(qs) == 0 {
		return []*Result{}, nil
	}

	srch := bleve.NewSearchRequestOptions(bleve.NewDisjunctionQuery(qs...), limit, 0, false)
	srch.Fields = []string{"tags", "user"}
	res, err := b.idx.Search(srch)
	if err != nil {
		return nil, err
	}

	out := make([]*Result, 0, len(res.Hits))
	for _, h := range res.Hits {
		id, ok := favoriteIDFromDoc(h.ID)
		if !ok {
			continue
		}
		fav, err := b.source.GetFavorite(id)
		if err != nil {
			// Stale document for a favorite removed behind our back
			debuglog.Debugf("search: skipping index hit %s: %v", h.ID, err)
			continue
		}
		r := &Result{Favorite: fav, Score: h.Score}
		if tags, ok := h.Fields["tags"].(string); ok {
			r.Matches = append(r.Matches, Match{Field: "tags", Text: truncate(tags, 100), Weight: h.Score})
		}
		out = append(out, r)
	}
	return out, nil
}

// OnFavoriteSaved indexes a newly saved favorite.
func (b *BleveEngine) OnFavoriteSaved(fav *storage.Favorite) {
	if fav == nil {
		return
	}
	if err := b.idx.Index(docIDForFavorite(fav.Image.ID), favoriteDoc(fav)); err != nil {
		debuglog.Warnf("search: indexing favorite %d: %v", fav.Image.ID, err)
	}
}

// OnFavoriteDeleted drops a favorite from the index.
func (b *BleveEngine) OnFavoriteDeleted(id int) {
	if err := b.idx.Delete(docIDForFavorite(id)); err != nil {
		debuglog.Warnf("search: removing favorite %d: %v", id, err)
	}
}

// DocCount reports total documents in the index.
func (b *BleveEngine) DocCount() (int, error) {
	n, err := b.idx.DocCount()
	return int(n), err
}

func (b *BleveEngine) Close() error {
	return b.idx.Close()
}

func docIDForFavorite(id int) string { return "fav:" + strconv.Itoa(id) }

func favoriteIDFromDoc(docID string) (int, bool) {
	raw, ok := strings.CutPrefix(docID, "fav:")
	if !ok {
		return 0, false
	}
	id, err := strconv.Atoi(raw)
	return id, err == nil
}
