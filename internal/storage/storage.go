// Package storage defines the key/value persistence port used by the ledger
// and the history log. Writes are last-write-wins with no transactions.
package storage

type Store interface {
	// Load returns found=false with a nil error when the key was never saved.
	Load(key string) (blob []byte, found bool, err error)
	Save(key string, blob []byte) error
}
