package offsetpager

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"

	"github.com/samber/lo"
	"gorm.io/gorm"
)

// PagingSource is an offset-based paging source over a single GORM query.
//
// A source is built once per paged view of a query, loaded any number of times
// while valid, and discarded after the first relevant table change flips
// Invalid. It never writes to the store: every Load issues exactly one count
// query and one window query, both inside the same read-only transaction so
// they observe a consistent snapshot.
type PagingSource[T any] struct {
	db     *gorm.DB
	count  CountFunc
	window WindowFunc[T]

	pageSize  int
	txOptions *sql.TxOptions

	invalid       atomic.Bool
	onInvalidated func()
	unsubscribe   func()
}

// NewPagingSource builds a source from explicit count and window collaborators.
func NewPagingSource[T any](db *gorm.DB, count CountFunc, window WindowFunc[T]) *PagingSource[T] {
	return &PagingSource[T]{
		db:        db,
		count:     count,
		window:    window,
		pageSize:  DefaultPageSize,
		txOptions: &sql.TxOptions{ReadOnly: true},
	}
}

// NewTableSource builds a source whose count and window share one scope and
// ordering. Shorthand for NewPagingSource over CountOf and WindowOf.
func NewTableSource[T any](db *gorm.DB, scope Scope, sort Orderings) *PagingSource[T] {
	return NewPagingSource[T](db, CountOf(scope), WindowOf[T](scope, sort))
}

// WithPageSize sets the page size used when a LoadRequest carries none.
// The value is normalized via NormalizePageSize.
func (s *PagingSource[T]) WithPageSize(pageSize int) *PagingSource[T] {
	s.pageSize = NormalizePageSize(pageSize)

	return s
}

// WithTxOptions overrides the transaction options of every Load. The default
// is a read-only transaction.
func (s *PagingSource[T]) WithTxOptions(opts *sql.TxOptions) *PagingSource[T] {
	s.txOptions = opts

	return s
}

// WithOnInvalidated sets a hook fired exactly once when the source becomes
// invalid, so the paging consumer can schedule a fresh source. Configure it
// before WithNotifier, otherwise a notification may arrive with no hook set.
func (s *PagingSource[T]) WithOnInvalidated(fn func()) *PagingSource[T] {
	s.onInvalidated = fn

	return s
}

// WithNotifier subscribes the source to change notifications for the given
// tables. The first notification invalidates the source irreversibly.
func (s *PagingSource[T]) WithNotifier(n *Notifier, tables ...string) *PagingSource[T] {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
	s.unsubscribe = n.Subscribe(tables, s.Invalidate)

	return s
}

// Invalid reports whether the source has been invalidated. Monotonic: once
// true it never returns to false; the consumer replaces the source instead.
func (s *PagingSource[T]) Invalid() bool {
	return s.invalid.Load()
}

// Invalidate marks the source invalid by hand. Idempotent; the hook set via
// WithOnInvalidated fires only on the first call.
func (s *PagingSource[T]) Invalidate() {
	if s.invalid.CompareAndSwap(false, true) && s.onInvalidated != nil {
		s.onInvalidated()
	}
}

// Close detaches the source from its notifier. Safe to call multiple times
// and on sources built without a notifier. Close does not invalidate.
func (s *PagingSource[T]) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
}

// Load retrieves one page of the dataset.
//
// The requested key is validated against the current dataset size: a key at or
// beyond the end of a non-empty dataset fails with ErrOutOfBounds. An empty
// dataset yields an empty page regardless of the key. A negative key (the
// prepend sentinel from Page.PrevKey) fetches the short window ending at
// offset 0.
//
// Once the source is invalid, Load fails with ErrInvalidated without touching
// the store.
func (s *PagingSource[T]) Load(ctx context.Context, req LoadRequest) (*Page[T], error) {
	err := s.validate()
	if err != nil {
		return nil, fmt.Errorf("cannot load page: %w", err)
	}

	if s.Invalid() {
		return nil, fmt.Errorf("cannot load page: %w", ErrInvalidated)
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = s.pageSize
	}

	var page *Page[T]
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var txErr error
		page, txErr = s.loadPage(tx, req.Key, pageSize)
		return txErr
	}, s.txOptions)
	if err != nil {
		return nil, fmt.Errorf("cannot load page: %w", err)
	}

	return page, nil
}

// loadPage runs the count and window queries on one transaction handle and
// derives the page's keys and counts from the offset arithmetic.
func (s *PagingSource[T]) loadPage(tx *gorm.DB, requestedKey *int, pageSize int) (*Page[T], error) {
	total64, err := s.count(tx)
	if err != nil {
		return nil, fmt.Errorf("count dataset: %w", err)
	}
	total := int(total64)

	if total == 0 {
		return &Page[T]{Data: []T{}}, nil
	}

	key := lo.FromPtr(requestedKey)
	if key >= total {
		return nil, fmt.Errorf("key %d, dataset size %d: %w", key, total, ErrOutOfBounds)
	}

	// A negative key asks for the short window ending exactly at offset 0.
	offset := max(key, 0)
	windowSize := pageSize
	if key < 0 {
		// Keys at or below -pageSize cannot come from this source's own key
		// lattice; an empty window beats an unbounded query.
		windowSize = max(pageSize+key, 0)
	}

	data, err := s.window(tx, windowSize, offset)
	if err != nil {
		return nil, fmt.Errorf("fetch window: %w", err)
	}

	page := &Page[T]{
		Data:        data,
		ItemsBefore: offset,
		ItemsAfter:  max(total-offset-len(data), 0),
	}

	// PrevKey stays unclamped on purpose: a misaligned page reports the
	// algebraically exact previous offset, and the next Prepend load resolves
	// a negative key into the short window at the start of the dataset.
	if offset > 0 {
		page.PrevKey = lo.ToPtr(offset - pageSize)
	}
	if next := offset + len(data); next < total {
		page.NextKey = lo.ToPtr(next)
	}

	return page, nil
}

func (s *PagingSource[T]) validate() error {
	if s == nil {
		return fmt.Errorf("paging source is nil")
	}
	if s.db == nil {
		return fmt.Errorf("paging source has no database")
	}
	if s.count == nil {
		return fmt.Errorf("paging source has no count source")
	}
	if s.window == nil {
		return fmt.Errorf("paging source has no window source")
	}

	return nil
}
