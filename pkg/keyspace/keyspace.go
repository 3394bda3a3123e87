// The keyspace maps names to lists of strings and is the only place where lists are shared between goroutines.
// Lists themselves are unsynchronized, so every list is guarded by the lock of the shard its key hashes into;
// sharding spreads the locks so clients working on different keys rarely wait on each other.
//
// A key holds either a basic list (values pushed at either end) or a sorted list (values placed by order). The
// kind is fixed when the key is created by its first insertion, and a list that becomes empty is dropped along
// with its key.

package keyspace

import (
	"errors"
	"flag"
	"fmt"
	"maps"
	"runtime"
	"slices"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/nobletooth/dlist/pkg/list"
	"github.com/nobletooth/dlist/pkg/scan"
	"github.com/nobletooth/dlist/pkg/utils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ErrKeyNotFound = errors.New("key was not found")
	// ErrWrongKind is returned when an ordered insert targets a key holding a basic list.
	ErrWrongKind = errors.New("operation against a key holding the wrong kind of list")
)

var (
	shardCount = flag.Int("keyspace_shard_count", runtime.NumCPU(),
		"The number of lock shards in the keyspace; 0 or negative falls back to a single shard.")
	sortedOrder = flag.String("sorted_order", string(OrderLexical),
		"How sorted lists order their values: lexical/numeric")

	operations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "keyspace_operations_total",
		Help: "Total number of keyspace operations.",
	}, []string{"op"})
	liveKeys = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "keyspace_keys",
		Help: "Number of keys currently held in the keyspace.",
	})
)

// Order names a comparison used by sorted lists.
type Order string

const (
	OrderLexical Order = "lexical"
	OrderNumeric Order = "numeric"
)

// Compare returns the comparison function of the order.
func (o Order) Compare() (utils.CompareFn[string], error) {
	switch o {
	case OrderLexical:
		return utils.Natural[string](), nil
	case OrderNumeric:
		return utils.NumericStrings, nil
	default:
		return nil, fmt.Errorf("unknown sorted order '%s'", o)
	}
}

// Kind tells which list flavour a key holds.
type Kind uint8

const (
	KindNone Kind = iota // The key doesn't exist.
	KindBasic
	KindSorted
)

func (k Kind) String() string {
	switch k {
	case KindBasic:
		return "list"
	case KindSorted:
		return "sortedlist"
	default:
		return "none"
	}
}

// kindOf reports the flavour of the given container.
func kindOf(c list.Container[string]) Kind {
	switch c.(type) {
	case list.Positional[string]:
		return KindBasic
	case list.Ordered[string]:
		return KindSorted
	default:
		return KindNone
	}
}

// equal is the match function of removals; values are removed only on an exact match regardless of list order.
var equal = utils.Natural[string]()

// shard owns the lists of every key that hashes into it.
type shard struct {
	mux   sync.RWMutex
	lists map[string]list.Container[string]
}

// Keyspace is a thread-safe collection of named lists.
type Keyspace struct {
	shards []*shard
	order  utils.CompareFn[string] // Order of every sorted list in the keyspace.
}

// New creates a keyspace configured by the --keyspace_shard_count and --sorted_order flags.
func New() (*Keyspace, error) {
	order, err := Order(*sortedOrder).Compare()
	if err != nil {
		return nil, fmt.Errorf("invalid --sorted_order flag: %w", err)
	}
	return NewWith(*shardCount, order), nil
}

// NewWith creates a keyspace with `count` shards whose sorted lists are ordered by `order`.
func NewWith(count int, order utils.CompareFn[string]) *Keyspace {
	if count <= 0 {
		utils.RaiseInvariant("keyspace", "non_positive_shard_count",
			"Invalid shard count has been given to the keyspace.", "shardCount", count)
		count = 1
	}
	if order == nil {
		utils.RaiseInvariant("keyspace", "nil_order", "Keyspace was created without a sorted list order.")
		order = utils.Natural[string]()
	}
	ks := &Keyspace{shards: make([]*shard, count), order: order}
	for i := range count {
		ks.shards[i] = &shard{lists: make(map[string]list.Container[string])}
	}
	return ks
}

// getShard returns the shard responsible for `key`.
func (ks *Keyspace) getShard(key string) *shard {
	return ks.shards[xxhash.Sum64String(key)%uint64(len(ks.shards))]
}

// dropIfEmpty removes `key` once its list has no values left. The shard lock must be held.
func (s *shard) dropIfEmpty(key string, c list.Container[string]) {
	if c.Len() == 0 {
		delete(s.lists, key)
		liveKeys.Dec()
	}
}

// push adds `values` one by one to either end of the basic list at `key`, creating it if needed.
func (ks *Keyspace) push(op, key string, front bool, values []string) (int, error) {
	operations.WithLabelValues(op).Inc()
	s := ks.getShard(key)
	s.mux.Lock()
	defer s.mux.Unlock()

	c, exists := s.lists[key]
	if !exists {
		if len(values) == 0 {
			return 0, nil
		}
		c = list.NewBasic[string]()
	}
	positional, ok := c.(list.Positional[string])
	if !ok {
		return 0, fmt.Errorf("%w: can't push to the %s at '%s'", list.ErrUnsupportedOperation, kindOf(c), key)
	}
	for _, v := range values {
		if front {
			positional.PushFront(v)
		} else {
			positional.PushBack(v)
		}
	}
	if !exists {
		s.lists[key] = c
		liveKeys.Inc()
	}
	return c.Len(), nil
}

// PushFront adds each of `values` before the head of the list at `key` and returns the new length.
func (ks *Keyspace) PushFront(key string, values ...string) (int, error) {
	return ks.push("push_front", key, true /*front*/, values)
}

// PushBack adds each of `values` after the tail of the list at `key` and returns the new length.
func (ks *Keyspace) PushBack(key string, values ...string) (int, error) {
	return ks.push("push_back", key, false /*front*/, values)
}

// Insert adds `values` to the sorted list at `key`, creating it if needed, and returns the new length.
func (ks *Keyspace) Insert(key string, values ...string) (int, error) {
	operations.WithLabelValues("insert").Inc()
	s := ks.getShard(key)
	s.mux.Lock()
	defer s.mux.Unlock()

	c, exists := s.lists[key]
	if !exists {
		if len(values) == 0 {
			return 0, nil
		}
		c = list.NewSorted(ks.order)
	}
	ordered, ok := c.(list.Ordered[string])
	if !ok {
		return 0, fmt.Errorf("%w: can't insert in order into the %s at '%s'", ErrWrongKind, kindOf(c), key)
	}
	for _, v := range values {
		ordered.Add(v)
	}
	if !exists {
		s.lists[key] = c
		liveKeys.Inc()
	}
	return c.Len(), nil
}

// retrieve removes one value from the list at `key` with `take`.
func (ks *Keyspace) retrieve(op, key string, take func(list.Container[string]) (string, bool)) (string, error) {
	operations.WithLabelValues(op).Inc()
	s := ks.getShard(key)
	s.mux.Lock()
	defer s.mux.Unlock()

	c, exists := s.lists[key]
	if !exists {
		return "", fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	value, ok := take(c)
	if !ok { // Empty lists are dropped as soon as they empty out.
		utils.RaiseInvariant("keyspace", "empty_list_kept", "An empty list was kept in the keyspace.", "key", key)
		s.dropIfEmpty(key, c)
		return "", fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	s.dropIfEmpty(key, c)
	return value, nil
}

// PopFront removes and returns the head value of the list at `key`.
func (ks *Keyspace) PopFront(key string) (string, error) {
	return ks.retrieve("pop_front", key, func(c list.Container[string]) (string, bool) {
		return c.RetrieveFirst()
	})
}

// PopBack removes and returns the tail value of the list at `key`.
func (ks *Keyspace) PopBack(key string) (string, error) {
	return ks.retrieve("pop_back", key, func(c list.Container[string]) (string, bool) {
		return c.RetrieveLast()
	})
}

// peek reads one value of the list at `key` with `read`.
func (ks *Keyspace) peek(op, key string, read func(list.Container[string]) (string, bool)) (string, error) {
	operations.WithLabelValues(op).Inc()
	s := ks.getShard(key)
	s.mux.RLock()
	defer s.mux.RUnlock()

	if c, exists := s.lists[key]; exists {
		if value, ok := read(c); ok {
			return value, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrKeyNotFound, key)
}

// First returns the head value of the list at `key` without removing it.
func (ks *Keyspace) First(key string) (string, error) {
	return ks.peek("first", key, func(c list.Container[string]) (string, bool) {
		return c.First()
	})
}

// Last returns the tail value of the list at `key` without removing it.
func (ks *Keyspace) Last(key string) (string, error) {
	return ks.peek("last", key, func(c list.Container[string]) (string, bool) {
		return c.Last()
	})
}

// Len returns the length of the list at `key`; 0 if the key doesn't exist.
func (ks *Keyspace) Len(key string) int {
	operations.WithLabelValues("len").Inc()
	s := ks.getShard(key)
	s.mux.RLock()
	defer s.mux.RUnlock()

	if c, exists := s.lists[key]; exists {
		return c.Len()
	}
	return 0
}

// Kind returns the flavour of the list at `key`.
func (ks *Keyspace) Kind(key string) Kind {
	s := ks.getShard(key)
	s.mux.RLock()
	defer s.mux.RUnlock()

	if c, exists := s.lists[key]; exists {
		return kindOf(c)
	}
	return KindNone
}

// Remove removes the first occurrence of `value`, walking from the head, out of the list at `key`.
// It reports whether a value was removed.
func (ks *Keyspace) Remove(key, value string) bool {
	operations.WithLabelValues("remove").Inc()
	s := ks.getShard(key)
	s.mux.Lock()
	defer s.mux.Unlock()

	c, exists := s.lists[key]
	if !exists || !c.Delete(value, equal) {
		return false
	}
	s.dropIfEmpty(key, c)
	return true
}

// Items returns a snapshot of the list at `key` from head to tail; empty if the key doesn't exist.
func (ks *Keyspace) Items(key string) []string {
	operations.WithLabelValues("items").Inc()
	s := ks.getShard(key)
	s.mux.RLock()
	defer s.mux.RUnlock()

	if c, exists := s.lists[key]; exists {
		return c.ToSlice()
	}
	return []string{}
}

// ReverseItems returns a snapshot of the list at `key` from tail to head; empty if the key doesn't exist.
func (ks *Keyspace) ReverseItems(key string) ([]string, error) {
	operations.WithLabelValues("reverse_items").Inc()
	s := ks.getShard(key)
	s.mux.RLock()
	defer s.mux.RUnlock()

	c, exists := s.lists[key]
	if !exists {
		return []string{}, nil
	}
	// Run the cursor to the tail, then walk it back.
	cursor := c.Iterator()
	for cursor.HasNext() {
		if _, err := cursor.Next(); err != nil {
			return nil, fmt.Errorf("failed to walk '%s' forward: %w", key, err)
		}
	}
	values := make([]string, 0, c.Len())
	for cursor.HasPrevious() {
		value, err := cursor.Previous()
		if err != nil {
			return nil, fmt.Errorf("failed to walk '%s' backward: %w", key, err)
		}
		values = append(values, value)
	}
	return values, nil
}

// Delete drops the given keys and returns how many of them existed.
func (ks *Keyspace) Delete(keys ...string) int {
	operations.WithLabelValues("delete").Inc()
	deleted := 0
	for _, key := range keys {
		s := ks.getShard(key)
		s.mux.Lock()
		if _, exists := s.lists[key]; exists {
			delete(s.lists, key)
			liveKeys.Dec()
			deleted++
		}
		s.mux.Unlock()
	}
	return deleted
}

// Keys returns the sorted names of all keys matching the glob `pattern`.
func (ks *Keyspace) Keys(pattern string) ([]string, error) {
	operations.WithLabelValues("keys").Inc()
	keys := make([]string, 0)
	for _, s := range ks.shards {
		s.mux.RLock()
		matched, err := scan.MatchGlob(pattern, maps.Keys(s.lists))
		if err != nil {
			s.mux.RUnlock()
			return nil, err
		}
		keys = slices.AppendSeq(keys, matched)
		s.mux.RUnlock()
	}
	slices.Sort(keys)
	return keys, nil
}
