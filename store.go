package strtables

import (
	"sort"
)

// Tables is the loaded set of locale buckets, in load order.
type Tables []*LocalizedTable

// Store exposes read only access to locale buckets grouped by table name
type Store interface {
	// Tables returns the sorted table names
	Tables() []string
	// Buckets returns every locale bucket of a table
	Buckets(table string) []*LocalizedTable
	// Bucket returns the bucket of a table for one locale
	Bucket(table string, locale Locale) (*LocalizedTable, bool)
	// Keys returns the key set of a table in one locale
	Keys(table string, locale Locale) []string
	// AllKeys returns the union of keys over every locale of a table
	AllKeys(table string) []string
}

// Loader retrieves the buckets used to seed a Store. Recoverable problems
// come back as diagnostics, anything else aborts the run.
type Loader interface {
	Load() (Tables, Diagnostics, error)
}

// LoaderFunc adapters allow bare functions to implement Loader interface
type LoaderFunc func() (Tables, Diagnostics, error)

// Load implements Loader for LoaderFunc
func (fn LoaderFunc) Load() (Tables, Diagnostics, error) {
	return fn()
}

// StaticStore is an in memory store, read only after construction
type StaticStore struct {
	tables map[string][]*LocalizedTable
	names  []string
}

var _ Store = &StaticStore{}

// NewStaticStore groups buckets by table and locale. Buckets for the same
// (table, locale) pair are merged; later buckets win on shared keys.
func NewStaticStore(data Tables) *StaticStore {
	type bucketID struct {
		table  string
		locale Locale
	}

	merged := make(map[bucketID]*LocalizedTable)
	var order []bucketID

	for _, table := range data {
		if table == nil {
			continue
		}
		id := bucketID{table: table.Name, locale: table.Locale}
		existing, ok := merged[id]
		if !ok {
			merged[id] = NewLocalizedTable(table.Name, table.Locale, table.Entries(), table.Sources...)
			order = append(order, id)
			continue
		}
		entries := append(existing.Entries(), table.Entries()...)
		sources := append(append([]string(nil), existing.Sources...), table.Sources...)
		merged[id] = NewLocalizedTable(table.Name, table.Locale, entries, sources...)
	}

	store := &StaticStore{tables: make(map[string][]*LocalizedTable)}
	for _, id := range order {
		if _, ok := store.tables[id.table]; !ok {
			store.names = append(store.names, id.table)
		}
		store.tables[id.table] = append(store.tables[id.table], merged[id])
	}

	// make table and locale order deterministic
	sort.Strings(store.names)
	for _, buckets := range store.tables {
		sort.SliceStable(buckets, func(i, j int) bool {
			return localeLess(buckets[i].Locale, buckets[j].Locale)
		})
	}

	return store
}

// NewStaticStoreFromLoader hydrates a StaticStore using the provided loader
func NewStaticStoreFromLoader(loader Loader) (*StaticStore, Diagnostics, error) {
	if loader == nil {
		return NewStaticStore(nil), nil, nil
	}

	tables, diags, err := loader.Load()
	if err != nil {
		return nil, nil, err
	}

	return NewStaticStore(tables), diags, nil
}

func (s *StaticStore) Tables() []string {
	if s == nil || len(s.names) == 0 {
		return nil
	}
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

func (s *StaticStore) Buckets(table string) []*LocalizedTable {
	if s == nil {
		return nil
	}
	buckets := s.tables[table]
	if len(buckets) == 0 {
		return nil
	}
	out := make([]*LocalizedTable, len(buckets))
	copy(out, buckets)
	return out
}

// Locales returns the locales a table is localized into
func (s *StaticStore) Locales(table string) []Locale {
	buckets := s.Buckets(table)
	if len(buckets) == 0 {
		return nil
	}
	locales := make([]Locale, len(buckets))
	for i, bucket := range buckets {
		locales[i] = bucket.Locale
	}
	return locales
}

func (s *StaticStore) Bucket(table string, locale Locale) (*LocalizedTable, bool) {
	for _, bucket := range s.Buckets(table) {
		if bucket.Locale == locale {
			return bucket, true
		}
	}
	return nil, false
}

func (s *StaticStore) Keys(table string, locale Locale) []string {
	bucket, ok := s.Bucket(table, locale)
	if !ok {
		return nil
	}
	return bucket.Keys()
}

func (s *StaticStore) AllKeys(table string) []string {
	seen := make(map[string]struct{})
	var keys []string
	for _, bucket := range s.Buckets(table) {
		for _, key := range bucket.Keys() {
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}
