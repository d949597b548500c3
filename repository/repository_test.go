package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arolang/aro-sub008/value"
)

func TestRetrieveEmptyRepositoryReturnsEmptyNotError(t *testing.T) {
	s := New()
	out := s.Retrieve("message-repository", "checkout", nil)
	assert.Empty(t, out)
}

func TestStoreWithChangeInfoCreatedThenUpdated(t *testing.T) {
	s := New()
	msg := value.Map(map[string]value.Value{"id": value.String("m1"), "text": value.String("hi")})

	res := s.StoreWithChangeInfo(msg, "message-repository", "checkout")
	assert.False(t, res.IsUpdate)
	assert.Equal(t, "m1", res.EntityID)

	updated := value.Map(map[string]value.Value{"id": value.String("m1"), "text": value.String("bye")})
	res2 := s.StoreWithChangeInfo(updated, "message-repository", "checkout")
	require.True(t, res2.IsUpdate)
	require.True(t, res2.HasOld)
	oldText, _ := res2.OldValue.Raw().(map[string]value.Value)["text"].AsString()
	assert.Equal(t, "hi", oldText)

	all := s.Retrieve("message-repository", "checkout", nil)
	assert.Len(t, all, 1)
}

func TestRetrieveWhereClauseScalarVsList(t *testing.T) {
	s := New()
	s.StoreWithChangeInfo(value.Map(map[string]value.Value{"id": value.String("m1")}), "message-repository", "checkout")

	one := s.Retrieve("message-repository", "checkout", &WhereClause{Field: "id", Op: "==", Value: value.String("m1")})
	assert.Len(t, one, 1)

	none := s.Retrieve("message-repository", "checkout", &WhereClause{Field: "id", Op: "==", Value: value.String("nope")})
	assert.Empty(t, none)
}

func TestDeleteRequiresMatchAndReturnsRemoved(t *testing.T) {
	s := New()
	s.StoreWithChangeInfo(value.Map(map[string]value.Value{"id": value.String("m1")}), "message-repository", "checkout")
	s.StoreWithChangeInfo(value.Map(map[string]value.Value{"id": value.String("m2")}), "message-repository", "checkout")

	res := s.Delete("message-repository", "checkout", &WhereClause{Field: "id", Op: "==", Value: value.String("m1")})
	assert.Equal(t, 1, res.Count)

	remaining := s.Retrieve("message-repository", "checkout", nil)
	assert.Len(t, remaining, 1)
}

func TestCrossRepoPartitionsAreIndependent(t *testing.T) {
	s := New()
	s.StoreWithChangeInfo(value.String("a"), "foo-repository", "biz1")
	s.StoreWithChangeInfo(value.String("b"), "foo-repository", "biz2")

	assert.Len(t, s.Retrieve("foo-repository", "biz1", nil), 1)
	assert.Len(t, s.Retrieve("foo-repository", "biz2", nil), 1)
}
