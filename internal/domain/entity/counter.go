package entity

// ReferenceCounter is the durable sequence row behind reference allocation,
// one per (document type, calendar year). LastNumber starts at 0, never
// decreases and is only ever mutated through the storage engine's atomic
// upsert, never read-then-written from application code.
type ReferenceCounter struct {
	DocType    DocumentType
	Year       int
	LastNumber int
}
