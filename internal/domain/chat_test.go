package domain

import (
	"testing"

	apperrors "messenger/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalize_Symmetric(t *testing.T) {
	pairs := [][2]string{
		{"alice", "bob"},
		{"bob", "alice"},
		{"a", "ab"},
		{"user|1", "user"},
		{"same", "same"},
		{"Zed", "zed"},
	}

	for _, p := range pairs {
		ab, err := Canonicalize(p[0], p[1])
		require.NoError(t, err)
		ba, err := Canonicalize(p[1], p[0])
		require.NoError(t, err)
		assert.Equal(t, ab, ba, "pair %v", p)
	}
}

func TestCanonicalize_DistinctPairs(t *testing.T) {
	// Без префикса длины "a|b"+"c" и "a"+"b|c" дали бы одинаковый ключ
	k1, err := Canonicalize("a|b", "c")
	require.NoError(t, err)
	k2, err := Canonicalize("a", "b|c")
	require.NoError(t, err)
	assert.NotEqual(t, k1, k2)

	k3, err := Canonicalize("alice", "bob")
	require.NoError(t, err)
	k4, err := Canonicalize("alice", "carol")
	require.NoError(t, err)
	assert.NotEqual(t, k3, k4)
}

func TestCanonicalize_EmptyID(t *testing.T) {
	_, err := Canonicalize("", "bob")
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)

	_, err = Canonicalize("alice", "   ")
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
}

func TestGroupKey_Participants(t *testing.T) {
	key, err := Canonicalize("bob", "a|lice")
	require.NoError(t, err)

	lo, hi, ok := key.Participants()
	require.True(t, ok)
	assert.Equal(t, "a|lice", lo)
	assert.Equal(t, "bob", hi)

	_, _, ok = GroupKey("garbage").Participants()
	assert.False(t, ok)
	_, _, ok = GroupKey("9:short|x").Participants()
	assert.False(t, ok)
}

func TestPersonalChat_GroupKey(t *testing.T) {
	c1 := &PersonalChat{SenderID: "alice", ReceiverID: "bob"}
	c2 := &PersonalChat{SenderID: "bob", ReceiverID: "alice"}
	assert.Equal(t, c1.GroupKey(), c2.GroupKey())
}

func TestPersonalChat_Clone(t *testing.T) {
	c := &PersonalChat{ID: 1, Content: "hi"}
	cp := c.Clone()
	cp.IsRead = true
	assert.False(t, c.IsRead)

	var nilChat *PersonalChat
	assert.Nil(t, nilChat.Clone())
}
