package tt

import (
	"encoding/binary"
	"fmt"

	badger "github.com/dgraph-io/badger/v4"
)

// entryKeyPrefix namespaces transposition entries within a shared badger
// database, so a TT snapshot can coexist with other keyspaces.
var entryKeyPrefix = []byte("tt/")

// SaveToDisk persists every non-empty entry into a badger database rooted
// at dir, keyed by the entry's Zobrist key. SaveToDisk opens the database,
// writes, and closes it in one shot.
func (t *Table) SaveToDisk(dir string) error {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return fmt.Errorf("opening tt snapshot db: %w", err)
	}
	defer db.Close()

	batch := db.NewWriteBatch()
	defer batch.Cancel()

	for i := range t.entries {
		e := &t.entries[i]
		if e.Key == 0 {
			continue
		}
		if err := batch.Set(entryDBKey(e.Key), encodeEntry(e)); err != nil {
			return fmt.Errorf("writing tt entry: %w", err)
		}
	}

	return batch.Flush()
}

// LoadFromDisk restores entries from a badger database previously written
// by SaveToDisk, re-inserting each one through Put so the usual
// replacement rule still applies against anything already in the table.
func (t *Table) LoadFromDisk(dir string) error {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return fmt.Errorf("opening tt snapshot db: %w", err)
	}
	defer db.Close()

	return db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(entryKeyPrefix); it.ValidForPrefix(entryKeyPrefix); it.Next() {
			item := it.Item()
			err := item.Value(func(val []byte) error {
				e, err := decodeEntry(val)
				if err != nil {
					return err
				}
				t.Put(e.Key, e.Depth(), e.BestMove(), e.Value, e.Type(), e.Eval, e.MateThreat())
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func entryDBKey(key uint64) []byte {
	buf := make([]byte, len(entryKeyPrefix)+8)
	copy(buf, entryKeyPrefix)
	binary.BigEndian.PutUint64(buf[len(entryKeyPrefix):], key)
	return buf
}

func encodeEntry(e *Entry) []byte {
	buf := make([]byte, entrySize)
	binary.BigEndian.PutUint64(buf[0:8], e.Key)
	binary.BigEndian.PutUint16(buf[8:10], e.Move)
	binary.BigEndian.PutUint16(buf[10:12], uint16(e.Eval))
	binary.BigEndian.PutUint16(buf[12:14], uint16(e.Value))
	binary.BigEndian.PutUint16(buf[14:16], e.meta)
	return buf
}

func decodeEntry(buf []byte) (*Entry, error) {
	if len(buf) != entrySize {
		return nil, fmt.Errorf("tt snapshot: bad entry length %d", len(buf))
	}
	return &Entry{
		Key:   binary.BigEndian.Uint64(buf[0:8]),
		Move:  binary.BigEndian.Uint16(buf[8:10]),
		Eval:  int16(binary.BigEndian.Uint16(buf[10:12])),
		Value: int16(binary.BigEndian.Uint16(buf[12:14])),
		meta:  binary.BigEndian.Uint16(buf[14:16]),
	}, nil
}
