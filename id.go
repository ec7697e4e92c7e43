package yuva

import "github.com/jozzer182/Yuva/id"

// ID is the identifier type for deletion runs and sessions.
type ID = id.ID

// Prefix identifies the entity type encoded in a TypeID.
type Prefix = id.Prefix
