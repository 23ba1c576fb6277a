package storage

import (
	"taskmarket/contract"
	"taskmarket/errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEnvelope_Keeps_Times_And_Arrays(t *testing.T) {
	req := require.New(t)
	at := time.Date(2026, 3, 14, 9, 26, 53, 589793238, time.UTC)

	// Given an envelope with every supported kind of value
	data, err := encodeEnvelope(envelope{
		Fields: contract.Fields{
			"category":        "Home",
			"createdAt":       at,
			"interestedUsers": []string{"u1", "u2"},
			"count":           3,
			"open":            true,
			"nested":          map[string]any{"city": "Lagos"},
			"nothing":         nil,
		},
		Version:    7,
		CreateTime: at,
		UpdateTime: at.Add(time.Minute),
	})
	req.NoError(err)

	// When it is read back
	e, err := decodeEnvelope(data)
	req.NoError(err)

	// Then times keep their nanoseconds and numbers come back as float64
	req.Equal(int64(7), e.Version)
	req.True(at.Equal(e.CreateTime))
	req.True(at.Add(time.Minute).Equal(e.UpdateTime))
	req.True(at.Equal(e.Fields.Time("createdAt")))
	req.Equal("Home", e.Fields.String("category"))
	req.Equal([]string{"u1", "u2"}, e.Fields.Strings("interestedUsers"))
	req.Equal(float64(3), e.Fields["count"])
	req.Equal(true, e.Fields["open"])
	req.Equal(map[string]any{"city": "Lagos"}, e.Fields["nested"])
	req.Nil(e.Fields["nothing"])
}

func TestEnvelope_Rejects_Unsupported_Values(t *testing.T) {
	req := require.New(t)

	_, err := encodeEnvelope(envelope{Fields: contract.Fields{"ch": make(chan int)}})

	req.ErrorIs(err, errors.ErrInvalidDocument)
}

func TestDecodeEnvelope_Rejects_Garbage(t *testing.T) {
	req := require.New(t)

	_, err := decodeEnvelope([]byte{0xff, 0xff, 0xff})

	req.ErrorIs(err, errors.ErrInvalidDocument)
}
