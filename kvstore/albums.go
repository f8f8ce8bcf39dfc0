package kvstore

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/facette/natsort"
	log "github.com/sirupsen/logrus"

	"github.com/mtcweb/gallerybackend/models"
)

const defaultFetchConcurrency = 16

// AlbumStore materializes the album collection from a KV namespace. Every
// call reads the store fresh; there is no cache between requests.
type AlbumStore struct {
	KV         *Client
	CounterKey string

	// bound on concurrent value fetches during a listing
	FetchConcurrency int
}

func NewAlbumStore(kv *Client, counterKey string) *AlbumStore {
	return &AlbumStore{
		KV:               kv,
		CounterKey:       counterKey,
		FetchConcurrency: defaultFetchConcurrency,
	}
}

// ListAlbums enumerates the namespace, fetches each record concurrently and
// returns the collection sorted by code, numeric-aware, newest first.
// Records that are absent or fail to parse are dropped, not reported.
func (s *AlbumStore) ListAlbums(ctx context.Context) ([]models.Album, error) {
	keys, err := s.KV.ListKeys(ctx)
	if err != nil {
		return nil, err
	}

	codes := make([]string, 0, len(keys))
	for _, k := range keys {
		if k != s.CounterKey {
			codes = append(codes, k)
		}
	}

	concurrency := s.FetchConcurrency
	if concurrency <= 0 {
		concurrency = defaultFetchConcurrency
	}

	results := make([]*models.Album, len(codes))
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup
	for i, code := range codes {
		wg.Add(1)
		go func(i int, code string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			raw, err := s.KV.Get(ctx, code)
			if err != nil {
				if !errors.Is(err, ErrKeyNotFound) {
					log.WithField("code", code).WithError(err).Warn("skipping unreadable album record")
				}
				return
			}
			album, err := models.AlbumFromJSON(code, raw)
			if err != nil {
				log.WithField("code", code).WithError(err).Warn("skipping unparsable album record")
				return
			}
			results[i] = &album
		}(i, code)
	}
	wg.Wait()

	albums := make([]models.Album, 0, len(results))
	for _, a := range results {
		if a != nil {
			albums = append(albums, *a)
		}
	}

	// fetch completion order is arbitrary; the sort makes output order
	// deterministic: code descending, "a10" newer than "a9"
	sort.SliceStable(albums, func(i, j int) bool {
		return natsort.Compare(albums[j].Code, albums[i].Code)
	})
	return albums, nil
}

// GetAlbum fetches a single record by code. A missing key maps to
// ErrNotFound; a record that exists but does not parse maps to
// ErrDataCorrupted.
func (s *AlbumStore) GetAlbum(ctx context.Context, code string) (models.Album, error) {
	raw, err := s.KV.Get(ctx, code)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return models.Album{}, models.ErrNotFound
		}
		return models.Album{}, err
	}
	album, err := models.AlbumFromJSON(code, raw)
	if err != nil {
		return models.Album{}, models.ErrDataCorrupted
	}
	return album, nil
}
