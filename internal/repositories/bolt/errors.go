package bolt

import "fmt"

// storeError implements repositories.RepositoryError.
type storeError struct {
	op       string
	msg      string
	notFound bool
	conflict bool
}

func (e *storeError) Error() string {
	if e.op != "" {
		return fmt.Sprintf("%s: %s", e.op, e.msg)
	}
	return e.msg
}

func (e *storeError) IsNotFound() bool    { return e != nil && e.notFound }
func (e *storeError) IsConflict() bool    { return e != nil && e.conflict }
func (e *storeError) IsUnavailable() bool { return false }

func notFoundError(op, msg string) error {
	return &storeError{op: op, msg: msg, notFound: true}
}

func conflictError(op, msg string) error {
	return &storeError{op: op, msg: msg, conflict: true}
}

func invalidError(op, msg string) error {
	return &storeError{op: op, msg: msg}
}
