package entities

import (
	"fmt"

	"github.com/goliatone/go-entities/internal/hydrate"
)

// RecordInto decodes the edited view of one record into a typed struct.
func RecordInto[T any](s *Store, kind, name, id string, opts ...hydrate.DecoderOption[T]) (T, error) {
	var zero T
	record := s.GetEditedEntityRecord(kind, name, id)
	if record == nil {
		return zero, fmt.Errorf("entities: no record cached for %s/%s/%s", kind, name, id)
	}
	decoder := hydrate.NewDecoder(opts...)
	return decoder.Decode(hydrate.Context{Kind: kind, Name: name, ID: id}, record)
}
