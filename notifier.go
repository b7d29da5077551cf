package offsetpager

import (
	"fmt"
	"sync"

	"gorm.io/gorm"
)

// Notifier fans table-change notifications out to subscribed listeners. It is
// the invalidation channel between the write side of an application and its
// paging sources. Safe for concurrent use.
//
// The notification carries no payload: "something in these tables changed" is
// the whole contract.
type Notifier struct {
	mu             sync.RWMutex
	nextListenerID int
	listeners      map[string]map[int]func()
}

func NewNotifier() *Notifier {
	return &Notifier{
		listeners: make(map[string]map[int]func()),
	}
}

// Subscribe registers fn to be called whenever any of the given tables
// changes. Returns an idempotent unsubscribe function.
func (n *Notifier) Subscribe(tables []string, fn func()) (unsubscribe func()) {
	n.mu.Lock()
	id := n.nextListenerID
	n.nextListenerID++

	for _, table := range tables {
		byID := n.listeners[table]
		if byID == nil {
			byID = make(map[int]func())
			n.listeners[table] = byID
		}

		byID[id] = fn
	}
	n.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			n.mu.Lock()
			defer n.mu.Unlock()

			for _, table := range tables {
				delete(n.listeners[table], id)
			}
		})
	}
}

// Notify invokes every listener subscribed to at least one of the given
// tables. A listener fires at most once per call even when several of its
// tables match. Callbacks run on the calling goroutine, outside the registry
// lock, so they may unsubscribe.
func (n *Notifier) Notify(tables ...string) {
	n.mu.RLock()
	matched := make(map[int]func())
	for _, table := range tables {
		for id, fn := range n.listeners[table] {
			matched[id] = fn
		}
	}
	n.mu.RUnlock()

	for _, fn := range matched {
		fn()
	}
}

// TrackWrites registers GORM callbacks on db that feed n after every
// successful create, update and delete statement, keyed by the statement's
// table. Statements that affect no rows do not notify.
//
// Raw SQL executed without a table context (plain db.Exec) carries no table
// name and is not tracked; route such writes through db.Table(...) or call
// Notifier.Notify by hand.
func TrackWrites(db *gorm.DB, n *Notifier) error {
	hook := func(db *gorm.DB) {
		if db.Error != nil || db.Statement == nil {
			return
		}
		if db.Statement.Table == "" || db.RowsAffected == 0 {
			return
		}

		n.Notify(db.Statement.Table)
	}

	err := db.Callback().Create().After("gorm:create").Register("offsetpager:notify_create", hook)
	if err != nil {
		return fmt.Errorf("cannot register create callback: %w", err)
	}

	err = db.Callback().Update().After("gorm:update").Register("offsetpager:notify_update", hook)
	if err != nil {
		return fmt.Errorf("cannot register update callback: %w", err)
	}

	err = db.Callback().Delete().After("gorm:delete").Register("offsetpager:notify_delete", hook)
	if err != nil {
		return fmt.Errorf("cannot register delete callback: %w", err)
	}

	err = db.Callback().Raw().After("gorm:raw").Register("offsetpager:notify_raw", hook)
	if err != nil {
		return fmt.Errorf("cannot register raw callback: %w", err)
	}

	return nil
}
