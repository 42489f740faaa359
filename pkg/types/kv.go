package types

// Keys under which the catalog and the journal are persisted. The names
// match the data files written by earlier deployments.
const (
	KeyCatalog = "sentimentos"
	KeyRecords = "registro"
)

// KV is the persistence interface the catalog and journal write through.
// Load reports ok=false when the key has never been saved. Save replaces the
// whole value for the key.
type KV interface {
	Load(key string) (data []byte, ok bool, err error)
	Save(key string, data []byte) error
	Close() error
}
