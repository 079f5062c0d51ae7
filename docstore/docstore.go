// Package docstore keeps zson documents in Redis. Each store owns one
// collection; documents are addressed by id and encoded with a pluggable
// codec.
package docstore

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"slices"
	"strings"

	"github.com/holmberd/go-zson/datastore"
	"github.com/holmberd/go-zson/encoder"
	"github.com/holmberd/go-zson/eventemitter"
	"github.com/holmberd/go-zson/keyfactory"
	"github.com/holmberd/go-zson/zson"
)

// ErrNotFound is returned when a document does not exist.
var ErrNotFound = datastore.ErrKeyNotFound

const maxPageSize = 1000

type Event int

const (
	DocumentsPut Event = iota
	DocumentsRemoved
	DocumentsFlushed
)

func (e Event) String() string {
	switch e {
	case DocumentsPut:
		return "DocumentsPut"
	case DocumentsRemoved:
		return "DocumentsRemoved"
	case DocumentsFlushed:
		return "DocumentsFlushed"
	default:
		return fmt.Sprintf("event(%d)", e)
	}
}

// EventTarget delivers the ids affected by a store operation.
type EventTarget = eventemitter.Target[[]string]

// Document is a stored value and its id.
type Document struct {
	ID    string
	Value zson.Value
}

// Page is one page of a paginated read. Cursor is 0 once iteration is done.
type Page struct {
	Cursor    uint64
	Documents []Document
}

// Store reads and writes the documents of one collection. It is safe for
// concurrent use.
type Store struct {
	collection string
	namespace  string
	ds         *datastore.Client
	opts       options
	onPut      *EventTarget
	onRemoved  *EventTarget
	onFlushed  *EventTarget
}

// New returns a store for collection. Keys are prefixed with namespace when
// it is not empty.
func New(collection, namespace string, ds *datastore.Client, opts ...Option) (*Store, error) {
	if ds == nil {
		return nil, errors.New("docstore: datastore client must not be nil")
	}
	if err := keyfactory.ValidateKeyFragment(collection); err != nil {
		return nil, fmt.Errorf("docstore: collection: %w", err)
	}
	if namespace != "" {
		if err := keyfactory.ValidateKeyFragment(namespace); err != nil {
			return nil, fmt.Errorf("docstore: namespace: %w", err)
		}
	}
	o := newOptions(opts)
	if o.parentKey != "" {
		// Building a throwaway key validates the parent.
		if _, err := keyfactory.NewDocumentKey(collection, "x", o.parentKey); err != nil {
			return nil, fmt.Errorf("docstore: parent key: %w", err)
		}
	}
	return &Store{
		collection: strings.ToLower(collection),
		namespace:  namespace,
		ds:         ds,
		opts:       o,
		onPut:      eventemitter.NewTarget[[]string](DocumentsPut.String()),
		onRemoved:  eventemitter.NewTarget[[]string](DocumentsRemoved.String()),
		onFlushed:  eventemitter.NewTarget[[]string](DocumentsFlushed.String()),
	}, nil
}

func (s *Store) Collection() string { return s.collection }

// Codec returns the codec documents are stored with.
func (s *Store) Codec() encoder.Codec { return s.opts.codec }

func (s *Store) OnPut() *EventTarget     { return s.onPut }
func (s *Store) OnRemoved() *EventTarget { return s.onRemoved }
func (s *Store) OnFlushed() *EventTarget { return s.onFlushed }

func (s *Store) newKeyBuilder() *keyfactory.KeyBuilderWithNamespace {
	return keyfactory.NewKeyBuilderWithNamespace(s.namespace)
}

func (s *Store) key(id string) (*keyfactory.Key, error) {
	docKey, err := keyfactory.NewDocumentKey(s.collection, id, s.opts.parentKey)
	if err != nil {
		return nil, fmt.Errorf("docstore: %w", err)
	}
	return s.newKeyBuilder().WithKey(docKey).Build()
}

func (s *Store) keys(ids []string) ([]*keyfactory.Key, error) {
	keys := make([]*keyfactory.Key, len(ids))
	for i, id := range ids {
		k, err := s.key(id)
		if err != nil {
			return nil, err
		}
		keys[i] = k
	}
	return keys, nil
}

// pattern matches every document key of the collection.
func (s *Store) pattern() (*keyfactory.Key, error) {
	return s.newKeyBuilder().
		WithParentKey(s.opts.parentKey).
		WithKey(s.collection).
		WithWildcard(keyfactory.WildcardAnyString).
		Build()
}

// owned drops scanned keys that match the pattern but belong to another
// collection nested under this one.
func (s *Store) owned(keys []*keyfactory.Key) []*keyfactory.Key {
	return slices.DeleteFunc(keys, func(k *keyfactory.Key) bool {
		_, ok := keyfactory.ParseDocumentKey(k.Key(), s.collection, s.opts.parentKey)
		return !ok
	})
}

func (s *Store) encode(id string, doc any) ([]byte, error) {
	data, err := s.opts.codec.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("docstore: encode %q: %w", id, err)
	}
	return data, nil
}

func (s *Store) decode(id string, data []byte) (zson.Value, error) {
	var v zson.Value
	if err := s.opts.codec.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("docstore: decode %q: %w", id, err)
	}
	return v, nil
}

// decodeAll decodes the documents read for keys. Missing documents are
// skipped and so are undecodable ones, which are logged.
func (s *Store) decodeAll(ctx context.Context, keys []*keyfactory.Key, data [][]byte) []Document {
	docs := make([]Document, 0, len(data))
	for i, d := range data {
		if d == nil {
			continue
		}
		id := keyfactory.DocumentID(keys[i].Key())
		v, err := s.decode(id, d)
		if err != nil {
			s.opts.logger.WarnContext(ctx, "docstore: skipping undecodable document",
				slog.String("collection", s.collection),
				slog.String("id", id),
				slog.String("codec", s.opts.codec.Name()),
				slog.Any("error", err),
			)
			continue
		}
		docs = append(docs, Document{ID: id, Value: v})
	}
	return docs
}

// flush deletes every key in the store's namespace. It triggers the
// DocumentsFlushed event.
func (s *Store) flush(ctx context.Context) error {
	if s.namespace == "" {
		log.Panic("docstore: flush called without key namespace set")
	}
	match, err := s.newKeyBuilder().WithWildcard(keyfactory.WildcardAnyString).Build()
	if err != nil {
		return err
	}
	if _, err := s.ds.DeleteMatch(ctx, match); err != nil {
		return err
	}
	s.onFlushed.Emit(ctx, []string{})
	return nil
}

// Put stores doc under id, replacing any previous document. doc is a
// zson.Value or any Go value the codec accepts.
func (s *Store) Put(ctx context.Context, id string, doc any) error {
	key, err := s.key(id)
	if err != nil {
		return err
	}
	data, err := s.encode(id, doc)
	if err != nil {
		return err
	}
	if err := s.ds.Put(ctx, key, data, s.opts.expiration); err != nil {
		return fmt.Errorf("docstore: %w", err)
	}
	s.onPut.Emit(ctx, []string{id})
	return nil
}

// PutBatch stores docs in one round trip and returns their ids. Nothing is
// written if any document fails to encode.
func (s *Store) PutBatch(ctx context.Context, docs []Document) ([]string, error) {
	if len(docs) == 0 {
		return nil, nil
	}
	ids := make([]string, len(docs))
	keys := make([]*keyfactory.Key, len(docs))
	data := make([][]byte, len(docs))
	for i, doc := range docs {
		key, err := s.key(doc.ID)
		if err != nil {
			return nil, err
		}
		if data[i], err = s.encode(doc.ID, doc.Value); err != nil {
			return nil, err
		}
		ids[i] = doc.ID
		keys[i] = key
	}
	if err := s.ds.PutMulti(ctx, keys, data, s.opts.expiration); err != nil {
		return nil, fmt.Errorf("docstore: %w", err)
	}
	s.opts.logger.DebugContext(ctx, "docstore: put batch",
		slog.String("collection", s.collection),
		slog.Int("documents", len(docs)),
	)
	s.onPut.Emit(ctx, ids)
	return ids, nil
}

// Get returns the document stored under id, or ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (zson.Value, error) {
	key, err := s.key(id)
	if err != nil {
		return nil, err
	}
	data, err := s.ds.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	return s.decode(id, data)
}

// GetByIDs returns the documents stored under ids, in order. Ids with no
// document are left out.
func (s *Store) GetByIDs(ctx context.Context, ids []string) ([]Document, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	keys, err := s.keys(ids)
	if err != nil {
		return nil, err
	}
	data, err := s.ds.GetMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("docstore: %w", err)
	}
	return s.decodeAll(ctx, keys, data), nil
}

// GetWithPagination returns one page of the collection. A page may hold more
// or fewer than limit documents and a document may appear on more than one
// page.
func (s *Store) GetWithPagination(ctx context.Context, cursor uint64, limit int) (*Page, error) {
	if limit <= 0 || limit > maxPageSize {
		limit = maxPageSize
	}
	match, err := s.pattern()
	if err != nil {
		return nil, err
	}
	keys, next, err := s.ds.GetKeysWithCursor(ctx, cursor, limit, match)
	if err != nil {
		return nil, fmt.Errorf("docstore: %w", err)
	}
	keys = s.owned(keys)
	page := &Page{Cursor: next}
	if len(keys) == 0 {
		return page, nil
	}
	data, err := s.ds.GetMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("docstore: %w", err)
	}
	page.Documents = s.decodeAll(ctx, keys, data)
	return page, nil
}

// GetAll returns every document of the collection ordered by id.
func (s *Store) GetAll(ctx context.Context) ([]Document, error) {
	match, err := s.pattern()
	if err != nil {
		return nil, err
	}
	keys, err := s.ds.ScanKeys(ctx, match)
	if err != nil {
		return nil, fmt.Errorf("docstore: %w", err)
	}
	keys = s.owned(keys)
	if len(keys) == 0 {
		return nil, nil
	}
	data, err := s.ds.GetMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("docstore: %w", err)
	}
	docs := s.decodeAll(ctx, keys, data)
	slices.SortFunc(docs, func(a, b Document) int { return strings.Compare(a.ID, b.ID) })
	return docs, nil
}

// Exists reports whether a document is stored under id.
func (s *Store) Exists(ctx context.Context, id string) (bool, error) {
	key, err := s.key(id)
	if err != nil {
		return false, err
	}
	n, err := s.ds.Exists(ctx, key)
	if err != nil {
		return false, fmt.Errorf("docstore: %w", err)
	}
	return n > 0, nil
}

// Remove deletes the document stored under id. Removing a missing document
// is not an error.
func (s *Store) Remove(ctx context.Context, id string) error {
	return s.RemoveByIDs(ctx, []string{id})
}

// RemoveByIDs deletes the documents stored under ids.
func (s *Store) RemoveByIDs(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	keys, err := s.keys(ids)
	if err != nil {
		return err
	}
	if _, err := s.ds.Delete(ctx, keys...); err != nil {
		return fmt.Errorf("docstore: %w", err)
	}
	s.onRemoved.Emit(ctx, ids)
	return nil
}

// RemoveAll deletes every document of the collection and returns their ids.
// Documents written during the call may survive.
func (s *Store) RemoveAll(ctx context.Context) ([]string, error) {
	match, err := s.pattern()
	if err != nil {
		return nil, err
	}
	keys, err := s.ds.ScanKeys(ctx, match)
	if err != nil {
		return nil, fmt.Errorf("docstore: %w", err)
	}
	keys = s.owned(keys)
	if len(keys) == 0 {
		return nil, nil
	}
	for batch := range slices.Chunk(keys, maxPageSize) {
		if _, err := s.ds.Delete(ctx, batch...); err != nil {
			return nil, fmt.Errorf("docstore: %w", err)
		}
	}
	ids := make([]string, len(keys))
	for i, k := range keys {
		ids[i] = keyfactory.DocumentID(k.Key())
	}
	slices.Sort(ids)
	s.onRemoved.Emit(ctx, ids)
	return ids, nil
}
