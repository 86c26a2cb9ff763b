package database

import "fmt"

// PersistenceError wraps a storage failure. When a repository operation
// returns one, none of the in-memory mutations from that operation are
// durable and the caller may retry.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Persistence wraps err into a PersistenceError, passing nil through so
// callers can use it directly on a transaction result.
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	return &PersistenceError{Op: op, Err: err}
}

// ValidationError rejects an entity with an empty required field before it
// reaches the store. The presentation layer guards against these too; the
// repository check is the last line of defense.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
