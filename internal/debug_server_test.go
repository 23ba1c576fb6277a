package internal

import (
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
)

func TestScan_Uses_Prefix(t *testing.T) {
	req := require.New(t)
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	req.NoError(err)
	defer db.Close()
	req.NoError(db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte("doc:posts:p1"), []byte("abc")); err != nil {
			return err
		}
		return txn.Set([]byte("other:key"), []byte("x"))
	}))

	rows, err := Scan(db, "doc:", nil)

	req.NoError(err)
	req.Len(rows, 1)
	req.Equal("doc:posts:p1", rows[0].Key)
	req.Equal("Size: 3 bytes", rows[0].Detail)
}
