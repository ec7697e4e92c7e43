// Package resource defines references to the collections that hold a
// subject's records and the store contract used to find and delete them.
package resource

import (
	"context"
	"fmt"

	"github.com/jozzer182/Yuva"
)

// DocumentKey is the owner field of collections whose record key is the
// subject identifier itself (one record per subject, e.g. a profile).
const DocumentKey = "$key"

// Collection names a data store partition and the field that stores the
// owning subject identifier. Owner fields differ per collection.
type Collection struct {
	Name       string `json:"name" yaml:"name" toml:"name"`
	OwnerField string `json:"owner_field" yaml:"owner_field" toml:"owner_field"`
}

// KeyOwned reports whether records are addressed by the subject as their key.
func (c Collection) KeyOwned() bool { return c.OwnerField == DocumentKey }

// Validate checks the reference is usable.
func (c Collection) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("%w: empty collection name", yuva.ErrInvalidCollection)
	}
	if c.OwnerField == "" {
		return fmt.Errorf("%w: collection %q has no owner field", yuva.ErrInvalidCollection, c.Name)
	}
	return nil
}

func (c Collection) String() string {
	return c.Name + "." + c.OwnerField
}

// Handle identifies one matched record. Key is the printable record key;
// Native is the backend's own key value when it differs in type.
type Handle struct {
	Collection string `json:"collection"`
	Key        string `json:"key"`
	Native     any    `json:"-"`
}

// Store finds and deletes the records a subject owns.
type Store interface {
	// Find returns handles of every record in c whose owner field equals
	// subject. An empty result is not an error.
	Find(ctx context.Context, c Collection, subject string) ([]Handle, error)

	// DeleteBatch deletes the given records of c as one atomic operation:
	// either all of them are removed or none is.
	DeleteBatch(ctx context.Context, c Collection, handles []Handle) error
}
