package port

import (
	"iter"

	"cloudquote/internal/domain"
)

// Source yields the records of one input document. Implementations parse
// eagerly at construction time so Stream never blocks on I/O.
type Source interface {
	// Count returns how many records the source holds.
	Count() int
	// Stream yields the records in source order.
	Stream() iter.Seq[domain.SourceRecord]
}
