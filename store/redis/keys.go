package redis

// Redis key naming conventions for record data.
// All keys are prefixed (default "yuva:") to avoid collisions.

// DefaultPrefix is the key prefix used unless WithPrefix says otherwise.
const DefaultPrefix = "yuva:"

// recordKey returns the Hash key for a record: yuva:{collection}:{key}
func (s *Store) recordKey(collection, key string) string {
	return s.prefix + collection + ":" + key
}

// indexKey returns the Set key indexing a field value:
// yuva:{collection}:idx:{field}:{value}
func (s *Store) indexKey(collection, field, value string) string {
	return s.prefix + collection + ":idx:" + field + ":" + value
}
