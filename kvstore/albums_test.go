package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtcweb/gallerybackend/models"
)

// fakeKV serves the subset of the KV REST API the client uses: key listing
// with cursor pagination and value fetches.
type fakeKV struct {
	values   map[string]string
	keyPages [][]string
	listHits int
}

func (f *fakeKV) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/accounts/acct/storage/kv/namespaces/ns/keys", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))

		page := f.listHits
		f.listHits++
		if page >= len(f.keyPages) {
			t.Errorf("client requested page %d, only %d exist", page, len(f.keyPages))
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		type key struct {
			Name string `json:"name"`
		}
		var keys []key
		for _, name := range f.keyPages[page] {
			keys = append(keys, key{Name: name})
		}
		cursor := ""
		if page < len(f.keyPages)-1 {
			cursor = fmt.Sprintf("cursor-%d", page+1)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success":     true,
			"result":      keys,
			"result_info": map[string]string{"cursor": cursor},
		})
	})
	mux.HandleFunc("/accounts/acct/storage/kv/namespaces/ns/values/", func(w http.ResponseWriter, r *http.Request) {
		key := r.URL.Path[len("/accounts/acct/storage/kv/namespaces/ns/values/"):]
		value, ok := f.values[key]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(value))
	})
	return mux
}

func newTestStore(t *testing.T, fake *fakeKV) *AlbumStore {
	srv := httptest.NewServer(fake.handler(t))
	t.Cleanup(srv.Close)
	return NewAlbumStore(NewClient(srv.URL, "acct", "ns", "token"), "__counter")
}

func TestListAlbums_SortedNewestFirst(t *testing.T) {
	fake := &fakeKV{
		keyPages: [][]string{{"a9", "a10", "a2"}},
		values: map[string]string{
			"a9":  `{"title":"Nine"}`,
			"a10": `{"title":"Ten"}`,
			"a2":  `{"title":"Two"}`,
		},
	}
	store := newTestStore(t, fake)

	albums, err := store.ListAlbums(context.Background())
	require.NoError(t, err)

	codes := make([]string, len(albums))
	for i, a := range albums {
		codes[i] = a.Code
	}
	// numeric-aware descending: a10 is newer than a9
	assert.Equal(t, []string{"a10", "a9", "a2"}, codes)
}

func TestListAlbums_ExcludesCounterAndBadRecords(t *testing.T) {
	fake := &fakeKV{
		keyPages: [][]string{{"a3", "__counter", "a2", "a1"}},
		values: map[string]string{
			"a3":        `{"title":"Three"}`,
			"__counter": `17`,
			"a2":        `{not json`,
			// a1 listed but absent: dropped silently
		},
	}
	store := newTestStore(t, fake)

	albums, err := store.ListAlbums(context.Background())
	require.NoError(t, err)

	require.Len(t, albums, 1)
	assert.Equal(t, "a3", albums[0].Code)
}

func TestListAlbums_FollowsCursor(t *testing.T) {
	fake := &fakeKV{
		keyPages: [][]string{{"a2"}, {"a1"}},
		values: map[string]string{
			"a2": `{"title":"Two"}`,
			"a1": `{"title":"One"}`,
		},
	}
	store := newTestStore(t, fake)

	albums, err := store.ListAlbums(context.Background())
	require.NoError(t, err)

	require.Len(t, albums, 2)
	assert.Equal(t, 2, fake.listHits, "should have followed the cursor once")
	assert.Equal(t, "a2", albums[0].Code)
}

func TestListAlbums_NormalizesFields(t *testing.T) {
	fake := &fakeKV{
		keyPages: [][]string{{"a1"}},
		values:   map[string]string{"a1": `{"category":"Cosplay"}`},
	}
	store := newTestStore(t, fake)

	albums, err := store.ListAlbums(context.Background())
	require.NoError(t, err)

	require.Len(t, albums, 1)
	assert.Equal(t, "a1", albums[0].Title, "title defaults to code")
	assert.NotNil(t, albums[0].Files)
	assert.NotNil(t, albums[0].Attachments)
}

func TestGetAlbum(t *testing.T) {
	fake := &fakeKV{
		keyPages: [][]string{{}},
		values: map[string]string{
			"a1":  `{"title":"One","password":"secret"}`,
			"bad": `{broken`,
		},
	}
	store := newTestStore(t, fake)
	ctx := context.Background()

	album, err := store.GetAlbum(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, "One", album.Title)
	assert.True(t, album.HasPassword())

	_, err = store.GetAlbum(ctx, "missing")
	assert.True(t, errors.Is(err, models.ErrNotFound), "missing key should map to ErrNotFound, got %v", err)

	_, err = store.GetAlbum(ctx, "bad")
	assert.True(t, errors.Is(err, models.ErrDataCorrupted), "unparsable record should map to ErrDataCorrupted, got %v", err)
}
