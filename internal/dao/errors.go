package dao

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates no site is stored under the requested ID.
	ErrNotFound = errors.New("dao: site not found")

	// ErrConsistency indicates the ID index and the site hashes disagree.
	ErrConsistency = errors.New("dao: index and data diverged")
)

// NotFoundError is returned by FindByID when the site hash is absent or empty.
type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("dao: site %d not found", e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// ConsistencyError is returned by FindAll when the index names a site whose
// hash is missing or belongs to another ID, or holds a member that is not a
// site ID.
type ConsistencyError struct {
	Member string
	Key    string
}

func (e *ConsistencyError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("dao: index member %q is not a site id", e.Member)
	}
	return fmt.Sprintf("dao: site %s is indexed but %s does not hold it", e.Member, e.Key)
}

func (e *ConsistencyError) Unwrap() error {
	return ErrConsistency
}
