package crud

import "sync"

// stmtCache is a cache of statements for a schema.
type stmtCache struct {
	mu    sync.RWMutex
	stmts map[stmtKey]*Stmt
}

// stmtKey is the unique key used to identify statements within
// a statement cache. Insert statements also depend on the adapter
// used to retrieve generated keys.
type stmtKey struct {
	kind    stmtKind
	table   *Table
	adapter string
}

func (c *stmtCache) lookup(key stmtKey) (*Stmt, bool) {
	c.mu.RLock()
	stmt, ok := c.stmts[key]
	c.mu.RUnlock()
	return stmt, ok
}

// set the statement for the given key. Returns the statement, which could
// be different from the input statement if another goroutine has already
// set a statement for the same key.
func (c *stmtCache) set(key stmtKey, stmt *Stmt) *Stmt {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stmts == nil {
		c.stmts = make(map[stmtKey]*Stmt)
	}
	if existing, ok := c.stmts[key]; ok {
		// another goroutine beat us to adding the stmt, use its value
		stmt = existing
	} else {
		c.stmts[key] = stmt
	}
	return stmt
}
