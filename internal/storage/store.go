package storage

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	bolt "go.etcd.io/bbolt"
)

var (
	historyBucket   = []byte("history")
	favoritesBucket = []byte("favorites")
)

// ErrNotFound is returned when a favorite does not exist.
var ErrNotFound = errors.New("not found")

const (
	defaultHistoryLimit = 50
	defaultLockTimeout  = 1 * time.Second
)

type Store struct {
	db           *bolt.DB
	historyLimit int
}

func NewStore(dbPath string) (*Store, error) {
	return NewStoreWithTimeout(dbPath, defaultLockTimeout)
}

// NewStoreWithTimeout opens the database, waiting up to timeout for another
// process holding the file lock.
func NewStoreWithTimeout(dbPath string, timeout time.Duration) (*Store, error) {
	if timeout <= 0 {
		timeout = defaultLockTimeout
	}
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := bolt.Open(dbPath, 0o600, &bolt.Options{Timeout: timeout})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{historyBucket, favoritesBucket} {
			if _, createErr := tx.CreateBucketIfNotExists(bucket); createErr != nil {
				return createErr
			}
		}
		return nil
	})

	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating buckets: %w", err)
	}

	return &Store{db: db, historyLimit: defaultHistoryLimit}, nil
}

// SetHistoryLimit caps how many distinct queries RecordQuery keeps.
func (s *Store) SetHistoryLimit(n int) {
	if n > 0 {
		s.historyLimit = n
	}
}

func (s *Store) Close() error {
	return s.db.Close()
}

func historyKey(query string) []byte {
	return []byte(strings.ToLower(strings.TrimSpace(query)))
}

// RecordQuery stores a submitted search term, bumping its count and
// timestamp when it was searched before. The oldest entries beyond the
// history limit are dropped.
func (s *Store) RecordQuery(query string, at time.Time) error {
	key := historyKey(query)
	if len(key) == 0 {
		return nil
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(historyBucket)

		entry := HistoryEntry{Query: strings.TrimSpace(query)}
		if data := b.Get(key); data != nil {
			if err := json.Unmarshal(data, &entry); err != nil {
				return err
			}
			entry.Query = strings.TrimSpace(query)
		}
		entry.Count++
		entry.LastSearched = at

		data, err := json.Marshal(entry)
		if err != nil {
			return err
		}
		if err := b.Put(key, data); err != nil {
			return err
		}

		return pruneHistory(b, s.historyLimit)
	})
}

func pruneHistory(b *bolt.Bucket, limit int) error {
	type keyed struct {
		key []byte
		at  time.Time
	}
	var all []keyed
	err := b.ForEach(func(k, v []byte) error {
		var e HistoryEntry
		if err := json.Unmarshal(v, &e); err != nil {
			return nil
		}
		all = append(all, keyed{key: append([]byte(nil), k...), at: e.LastSearched})
		return nil
	})
	if err != nil {
		return err
	}
	if len(all) <= limit {
		return nil
	}

	sort.Slice(all, func(i, j int) bool { return all[i].at.After(all[j].at) })
	for _, k := range all[limit:] {
		if err := b.Delete(k.key); err != nil {
			return err
		}
	}
	return nil
}

// RecentQueries returns history entries, most recent first.
func (s *Store) RecentQueries(limit int) ([]*HistoryEntry, error) {
	var entries []*HistoryEntry
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(historyBucket).ForEach(func(_ []byte, v []byte) error {
			var e HistoryEntry
			if err := json.Unmarshal(v, &e); err != nil {
				return nil
			}
			entries = append(entries, &e)
			return nil
		})
	})
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].LastSearched.After(entries[j].LastSearched)
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, err
}

// ClearHistory removes every recorded query.
func (s *Store) ClearHistory() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(historyBucket); err != nil {
			return err
		}
		_, err := tx.CreateBucket(historyBucket)
		return err
	})
}

func favoriteKey(id int) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, uint64(id))
	return key
}

func (s *Store) SaveFavorite(fav *Favorite) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		data, err := json.Marshal(fav)
		if err != nil {
			return err
		}
		return tx.Bucket(favoritesBucket).Put(favoriteKey(fav.Image.ID), data)
	})
}

func (s *Store) GetFavorite(id int) (*Favorite, error) {
	var fav Favorite
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(favoritesBucket).Get(favoriteKey(id))
		if data == nil {
			return fmt.Errorf("favorite %d: %w", id, ErrNotFound)
		}
		return json.Unmarshal(data, &fav)
	})
	if err != nil {
		return nil, err
	}
	return &fav, nil
}

func (s *Store) IsFavorite(id int) bool {
	found := false
	_ = s.db.View(func(tx *bolt.Tx) error {
		found = tx.Bucket(favoritesBucket).Get(favoriteKey(id)) != nil
		return nil
	})
	return found
}

// GetFavorites returns all favorites, newest first.
func (s *Store) GetFavorites() ([]*Favorite, error) {
	var favs []*Favorite
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(favoritesBucket).ForEach(func(_ []byte, v []byte) error {
			var fav Favorite
			if err := json.Unmarshal(v, &fav); err != nil {
				return err
			}
			favs = append(favs, &fav)
			return nil
		})
	})
	sort.Slice(favs, func(i, j int) bool {
		return favs[i].SavedAt.After(favs[j].SavedAt)
	})
	return favs, err
}

func (s *Store) DeleteFavorite(id int) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(favoritesBucket)
		if b.Get(favoriteKey(id)) == nil {
			return fmt.Errorf("favorite %d: %w", id, ErrNotFound)
		}
		return b.Delete(favoriteKey(id))
	})
}

// ToggleFavorite saves img when it is not a favorite yet and removes it
// otherwise. It reports whether the image is a favorite afterwards.
func (s *Store) ToggleFavorite(img *Image, query string, at time.Time) (bool, error) {
	if s.IsFavorite(img.ID) {
		return false, s.DeleteFavorite(img.ID)
	}
	return true, s.SaveFavorite(&Favorite{Image: *img, Query: query, SavedAt: at})
}
