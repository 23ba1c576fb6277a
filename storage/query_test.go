package storage

import (
	"taskmarket/contract"
	"taskmarket/errors"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func TestApplyQuery(t *testing.T) {
	at := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	docs := []contract.Snapshot{
		{ID: "a", Fields: contract.Fields{"creatorId": "u1", "createdAt": at, "confirmedUserIds": []any{"u2"}}},
		{ID: "b", Fields: contract.Fields{"creatorId": "u2", "createdAt": at.Add(time.Hour), "confirmedUserIds": []any{}}},
		{ID: "c", Fields: contract.Fields{"creatorId": "u1", "createdAt": at.Add(2 * time.Hour), "confirmedUserIds": []any{"u2", "u3"}}},
		{ID: "d", Fields: contract.Fields{"creatorId": "u3", "createdAt": at.Add(time.Hour)}},
	}

	tests := []struct {
		name  string
		query contract.Query
		want  []string
	}{
		{
			name:  "equality filter",
			query: contract.NewQuery("posts").Where("creatorId", contract.OpEqual, "u1"),
			want:  []string{"a", "c"},
		},
		{
			name:  "array contains filter",
			query: contract.NewQuery("posts").Where("confirmedUserIds", contract.OpArrayContains, "u2"),
			want:  []string{"a", "c"},
		},
		{
			name:  "document id filter",
			query: contract.DocumentQuery("posts", "b"),
			want:  []string{"b"},
		},
		{
			name:  "descending order with ties broken by id",
			query: contract.NewQuery("posts").OrderBy("createdAt", true),
			want:  []string{"c", "b", "d", "a"},
		},
		{
			name:  "limit",
			query: contract.NewQuery("posts").OrderBy("createdAt", false).WithLimit(2),
			want:  []string{"a", "b"},
		},
		{
			name:  "no match",
			query: contract.NewQuery("posts").Where("creatorId", contract.OpEqual, "nobody"),
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			res := applyQuery(append([]contract.Snapshot(nil), docs...), tt.query)
			req.Equal(tt.want, lo.Map(res, func(s contract.Snapshot, _ int) string { return s.ID }))
		})
	}
}

func TestApplyWrite_Resolves_Transforms(t *testing.T) {
	req := require.New(t)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	existing := contract.Fields{"interestedUsers": []any{"u1"}, "status": "Active"}

	res := applyWrite(existing, contract.Fields{
		"interestedUsers": contract.ArrayUnion("u1", "u2"),
		"updatedAt":       contract.ServerTimestamp,
	}, true, now)

	req.Equal([]string{"u1", "u2"}, res["interestedUsers"])
	req.Equal(now, res["updatedAt"])
	req.Equal("Active", res["status"])
}

func TestApplyWrite_Without_Merge_Drops_Previous_Fields(t *testing.T) {
	req := require.New(t)
	now := time.Now().UTC()

	res := applyWrite(contract.Fields{"status": "Active"}, contract.Fields{"text": "hi"}, false, now)

	req.Equal(contract.Fields{"text": "hi"}, res)
}

func TestValidatePath(t *testing.T) {
	req := require.New(t)

	req.NoError(validatePath("posts", "p1"))
	req.NoError(validatePath("chats/p1_a_b/messages", "m1"))
	req.ErrorIs(validatePath("chats/p1", "m1"), errors.ErrInvalidDocument)
	req.ErrorIs(validatePath("posts", "a/b"), errors.ErrInvalidDocument)
	req.ErrorIs(validatePath("po:sts", "p1"), errors.ErrInvalidDocument)
	req.ErrorIs(validatePath("", "p1"), errors.ErrInvalidDocument)
	req.ErrorIs(validatePath("posts", ""), errors.ErrInvalidDocument)
}
