package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDocumentMapper_Falls_Back_On_Foreign_Keys(t *testing.T) {
	req := require.New(t)

	row := DocumentMapper("idx:whatever", []byte("abc"))

	req.Equal("idx:whatever", row.Key)
	req.Equal("-", row.Collection)
	req.Equal("Size: 3 bytes", row.Detail)
}
