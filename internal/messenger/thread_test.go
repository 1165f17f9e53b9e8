package messenger

import (
	"reflect"
	"testing"
	"time"

	"chantierpro/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func msg(id uint, parentID *uint, createdAt time.Time, content string) models.Message {
	m := models.Message{
		ConversationID: 1,
		SenderID:       7,
		Content:        content,
		ParentID:       parentID,
	}
	m.ID = id
	m.CreatedAt = createdAt
	return m
}

func uintPtr(v uint) *uint { return &v }

func flatten(roots []*ThreadNode) []uint {
	var ids []uint
	Walk(roots, func(node *ThreadNode) {
		ids = append(ids, node.Message.ID)
	})
	return ids
}

func TestBuildThread_BasicChain(t *testing.T) {
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	messages := []models.Message{
		msg(1, nil, base, "root"),
		msg(2, uintPtr(1), base.Add(time.Second), "reply"),
		msg(3, uintPtr(2), base.Add(2*time.Second), "reply to reply"),
	}

	roots := BuildThread(messages)
	require.Len(t, roots, 1)

	a := roots[0]
	require.Equal(t, uint(1), a.Message.ID)
	require.Len(t, a.Replies, 1)

	b := a.Replies[0]
	require.Equal(t, uint(2), b.Message.ID)
	require.Len(t, b.Replies, 1)

	c := b.Replies[0]
	require.Equal(t, uint(3), c.Message.ID)
	assert.Empty(t, c.Replies)
}

func TestBuildThread_Idempotent(t *testing.T) {
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	messages := []models.Message{
		msg(3, uintPtr(1), base.Add(3*time.Second), "c"),
		msg(1, nil, base, "a"),
		msg(4, uintPtr(9), base.Add(4*time.Second), "orphan"),
		msg(2, uintPtr(1), base.Add(2*time.Second), "b"),
	}

	first := BuildThread(messages)
	second := BuildThread(messages)

	require.True(t, reflect.DeepEqual(first, second), "two builds over the same input must be identical")
}

func TestBuildThread_DoesNotMutateInput(t *testing.T) {
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	messages := []models.Message{
		msg(2, uintPtr(1), base.Add(time.Second), "b"),
		msg(1, nil, base, "a"),
	}
	snapshot := make([]models.Message, len(messages))
	copy(snapshot, messages)

	BuildThread(messages)

	require.Equal(t, snapshot, messages)
}

func TestBuildThread_OrphanBecomesRoot(t *testing.T) {
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	messages := []models.Message{
		msg(1, nil, base, "a"),
		msg(5, uintPtr(42), base.Add(time.Second), "orphan"),
	}

	roots := BuildThread(messages)
	require.Len(t, roots, 2)
	assert.Equal(t, uint(1), roots[0].Message.ID)
	assert.Equal(t, uint(5), roots[1].Message.ID)
}

func TestBuildThread_ParentAppearsOnce(t *testing.T) {
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	messages := []models.Message{
		msg(1, nil, base, "root"),
		msg(2, uintPtr(1), base.Add(time.Second), "r1"),
		msg(3, uintPtr(1), base.Add(2*time.Second), "r2"),
	}

	roots := BuildThread(messages)

	seen := map[uint]int{}
	for _, id := range flatten(roots) {
		seen[id]++
	}
	for id, count := range seen {
		assert.Equalf(t, 1, count, "message %d appears %d times", id, count)
	}
	require.Len(t, roots, 1)
	require.Len(t, roots[0].Replies, 2)
}

func TestBuildThread_SelfReferenceBecomesRoot(t *testing.T) {
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	messages := []models.Message{
		msg(1, uintPtr(1), base, "self"),
	}

	roots := BuildThread(messages)
	require.Len(t, roots, 1)
	assert.Empty(t, roots[0].Replies)
}

func TestBuildThread_CycleBroken(t *testing.T) {
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	// 1 replies to 2, 2 replies to 1. Linking runs chronologically, so 1
	// links under 2 first and the back-link is dropped.
	messages := []models.Message{
		msg(1, uintPtr(2), base, "a"),
		msg(2, uintPtr(1), base.Add(time.Second), "b"),
	}

	roots := BuildThread(messages)
	require.Len(t, roots, 1)
	assert.Equal(t, []uint{2, 1}, flatten(roots))
}

func TestBuildThread_SiblingsChronological(t *testing.T) {
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	messages := []models.Message{
		msg(4, uintPtr(1), base.Add(3*time.Second), "late"),
		msg(1, nil, base, "root"),
		msg(2, uintPtr(1), base.Add(time.Second), "early"),
	}

	roots := BuildThread(messages)
	require.Len(t, roots, 1)
	require.Len(t, roots[0].Replies, 2)
	assert.Equal(t, uint(2), roots[0].Replies[0].Message.ID)
	assert.Equal(t, uint(4), roots[0].Replies[1].Message.ID)
}
