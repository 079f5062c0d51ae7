package docstore

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/holmberd/go-zson/datastore"
	"github.com/holmberd/go-zson/encoder"
	"github.com/holmberd/go-zson/keyfactory"
	"github.com/holmberd/go-zson/testutil"
	"github.com/holmberd/go-zson/zson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const suiteCollection = "orders"

// StoreTestSuite runs the Store contract against one codec.
type StoreTestSuite struct {
	Codec    encoder.Codec
	DSClient *datastore.Client

	// SetupStore returns a store isolated under a random namespace and
	// flushed when the test ends.
	SetupStore func(t *testing.T) (*Store, context.Context)
}

func NewStoreTestSuite(dsClient *datastore.Client, codec encoder.Codec) *StoreTestSuite {
	return &StoreTestSuite{
		Codec:    codec,
		DSClient: dsClient,
		SetupStore: func(t *testing.T) (*Store, context.Context) {
			t.Helper()
			ctx := context.Background()
			store, err := New(suiteCollection, keyfactory.GenerateRandomKey(), dsClient, WithCodec(codec))
			require.NoError(t, err)
			t.Cleanup(func() {
				if err := store.flush(ctx); err != nil {
					t.Fatalf("failed to flush store: %v", err)
				}
			})
			return store, ctx
		},
	}
}

func generateDocuments(n int) ([]Document, []string) {
	docs := make([]Document, n)
	ids := make([]string, n)
	for i := range n {
		id := fmt.Sprintf("o-%03d", i+1)
		docs[i] = Document{ID: id, Value: zson.NewMap(
			zson.Entry{Key: "id", Value: zson.String(id)},
			zson.Entry{Key: "qty", Value: zson.Int(i + 1)},
			zson.Entry{Key: "price", Value: zson.Float(float64(i) + 0.5)},
			zson.Entry{Key: "tags", Value: zson.List{zson.String("new"), zson.Bool(i%2 == 0)}},
		)}
		ids[i] = id
	}
	return docs, ids
}

func (s *StoreTestSuite) Run(t *testing.T) {
	t.Run("Put", s.TestPut)
	t.Run("PutBatch", s.TestPutBatch)
	t.Run("Get", s.TestGet)
	t.Run("GetByIDs", s.TestGetByIDs)
	t.Run("GetWithPagination", s.TestGetWithPagination)
	t.Run("GetAll", s.TestGetAll)
	t.Run("Exists", s.TestExists)
	t.Run("Remove", s.TestRemove)
	t.Run("RemoveByIDs", s.TestRemoveByIDs)
	t.Run("RemoveAll", s.TestRemoveAll)
}

func (s *StoreTestSuite) TestPut(t *testing.T) {
	t.Run("Put document", func(t *testing.T) {
		store, ctx := s.SetupStore(t)
		docs, ids := generateDocuments(1)
		require.NoError(t, store.Put(ctx, ids[0], docs[0].Value))
		got, err := store.Get(ctx, ids[0])
		require.NoError(t, err)
		assert.True(t, zson.Equal(docs[0].Value, got))
	})

	t.Run("Put replaces document", func(t *testing.T) {
		store, ctx := s.SetupStore(t)
		require.NoError(t, store.Put(ctx, "o-1", map[string]any{"v": 1}))
		require.NoError(t, store.Put(ctx, "o-1", map[string]any{"v": 2}))
		got, err := store.Get(ctx, "o-1")
		require.NoError(t, err)
		assert.True(t, zson.Equal(zson.NewMap(zson.Entry{Key: "v", Value: zson.Int(2)}), got))
	})

	t.Run("Put triggers synchronous listeners", func(t *testing.T) {
		store, ctx := s.SetupStore(t)
		var receivedCtx context.Context
		var receivedIDs []string
		token := store.OnPut().AddListener(func(ctx context.Context, ids []string) {
			receivedCtx = ctx
			receivedIDs = ids
		})
		defer store.OnPut().RemoveListener(token)

		require.NoError(t, store.Put(ctx, "o-1", zson.Int(1)))
		assert.Equal(t, []string{"o-1"}, receivedIDs)
		assert.Equal(t, ctx, receivedCtx)
	})

	t.Run("Put triggers asynchronous listeners", func(t *testing.T) {
		store, ctx := s.SetupStore(t)
		var wg sync.WaitGroup
		var received atomic.Value
		token := store.OnPut().AddListener(func(_ context.Context, ids []string) {
			wg.Add(1)
			go func() {
				defer wg.Done()
				received.Store(ids)
			}()
		})
		defer store.OnPut().RemoveListener(token)

		require.NoError(t, store.Put(ctx, "o-1", zson.Int(1)))
		testutil.WaitTimeout(t, &wg, time.Second)
		assert.Equal(t, []string{"o-1"}, received.Load())
	})
}

func (s *StoreTestSuite) TestPutBatch(t *testing.T) {
	t.Run("Put documents", func(t *testing.T) {
		store, ctx := s.SetupStore(t)
		docs, ids := generateDocuments(10)
		var receivedIDs []string
		store.OnPut().AddListener(func(_ context.Context, ids []string) { receivedIDs = ids })

		written, err := store.PutBatch(ctx, docs)
		require.NoError(t, err)
		assert.Equal(t, ids, written)
		assert.Equal(t, ids, receivedIDs)

		got, err := store.GetByIDs(ctx, ids)
		require.NoError(t, err)
		assert.Len(t, got, len(ids))
	})

	t.Run("Batch with unencodable document writes nothing", func(t *testing.T) {
		store, ctx := s.SetupStore(t)
		docs, ids := generateDocuments(2)
		docs = append(docs, Document{ID: "bad", Value: zson.ListFunc(func(*zson.Encoder) error {
			return fmt.Errorf("producer failed")
		})})
		_, err := store.PutBatch(ctx, docs)
		assert.Error(t, err)

		got, err := store.GetByIDs(ctx, ids)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func (s *StoreTestSuite) TestGet(t *testing.T) {
	t.Run("Get existing document", func(t *testing.T) {
		store, ctx := s.SetupStore(t)
		docs, ids := generateDocuments(3)
		_, err := store.PutBatch(ctx, docs)
		require.NoError(t, err)
		got, err := store.Get(ctx, ids[1])
		require.NoError(t, err)
		assert.True(t, zson.Equal(docs[1].Value, got))
	})

	t.Run("Get missing document", func(t *testing.T) {
		store, ctx := s.SetupStore(t)
		got, err := store.Get(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Nil(t, got)
	})
}

func (s *StoreTestSuite) TestGetByIDs(t *testing.T) {
	store, ctx := s.SetupStore(t)
	docs, ids := generateDocuments(3)
	_, err := store.PutBatch(ctx, docs)
	require.NoError(t, err)

	got, err := store.GetByIDs(ctx, []string{ids[2], "missing", ids[0]})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, ids[2], got[0].ID)
	assert.Equal(t, ids[0], got[1].ID)
	assert.True(t, zson.Equal(docs[2].Value, got[0].Value))
}

func (s *StoreTestSuite) TestGetWithPagination(t *testing.T) {
	const numDocs = 25
	store, ctx := s.SetupStore(t)
	docs, _ := generateDocuments(numDocs)
	_, err := store.PutBatch(ctx, docs)
	require.NoError(t, err)

	seen := make(map[string]bool)
	var cursor uint64
	for {
		page, err := store.GetWithPagination(ctx, cursor, 10)
		require.NoError(t, err)
		for _, d := range page.Documents {
			seen[d.ID] = true
		}
		if page.Cursor == 0 {
			break
		}
		cursor = page.Cursor
	}
	assert.Len(t, seen, numDocs)
}

func (s *StoreTestSuite) TestGetAll(t *testing.T) {
	store, ctx := s.SetupStore(t)
	docs, ids := generateDocuments(25)
	_, err := store.PutBatch(ctx, docs)
	require.NoError(t, err)

	all, err := store.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, len(docs))
	for i, d := range all {
		assert.Equal(t, ids[i], d.ID, "documents are ordered by id")
	}
}

func (s *StoreTestSuite) TestExists(t *testing.T) {
	store, ctx := s.SetupStore(t)
	exists, err := store.Exists(ctx, "o-1")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, store.Put(ctx, "o-1", zson.Null{}))
	exists, err = store.Exists(ctx, "o-1")
	require.NoError(t, err)
	assert.True(t, exists)
}

func (s *StoreTestSuite) TestRemove(t *testing.T) {
	store, ctx := s.SetupStore(t)
	require.NoError(t, store.Put(ctx, "o-1", zson.Int(1)))

	var receivedIDs []string
	token := store.OnRemoved().AddListener(func(_ context.Context, ids []string) { receivedIDs = ids })
	defer store.OnRemoved().RemoveListener(token)

	require.NoError(t, store.Remove(ctx, "o-1"))
	assert.Equal(t, []string{"o-1"}, receivedIDs)
	exists, err := store.Exists(ctx, "o-1")
	require.NoError(t, err)
	assert.False(t, exists)

	assert.NoError(t, store.Remove(ctx, "o-1"), "removing a missing document is not an error")
}

func (s *StoreTestSuite) TestRemoveByIDs(t *testing.T) {
	store, ctx := s.SetupStore(t)
	docs, ids := generateDocuments(5)
	_, err := store.PutBatch(ctx, docs)
	require.NoError(t, err)

	require.NoError(t, store.RemoveByIDs(ctx, ids[:3]))
	all, err := store.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, ids[3], all[0].ID)
}

func (s *StoreTestSuite) TestRemoveAll(t *testing.T) {
	store, ctx := s.SetupStore(t)
	docs, ids := generateDocuments(12)
	_, err := store.PutBatch(ctx, docs)
	require.NoError(t, err)

	var receivedIDs []string
	store.OnRemoved().AddListener(func(_ context.Context, ids []string) { receivedIDs = ids })

	removed, err := store.RemoveAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, ids, removed)
	assert.Equal(t, ids, receivedIDs)

	all, err := store.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	removed, err = store.RemoveAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, removed)
}

func TestStoreCodecs(t *testing.T) {
	rdb, _ := testutil.NewRedisClient(t)
	dsClient, err := datastore.NewClient(rdb)
	require.NoError(t, err)

	codecs := []encoder.Codec{
		encoder.ZSONCodec{},
		encoder.ProtoCodec{},
		encoder.CBORCodec{},
		encoder.Compress(encoder.ZSONCodec{}, encoder.LZ4Compressor{}),
		encoder.Compress(encoder.ZSONCodec{}, encoder.ZstdCompressor{}),
	}
	for _, c := range codecs {
		t.Run(c.Name(), NewStoreTestSuite(dsClient, c).Run)
	}
}
