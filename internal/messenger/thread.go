package messenger

import (
	"sort"

	"chantierpro/internal/models"
)

// ThreadNode is one message in a reconstructed reply tree.
type ThreadNode struct {
	Message models.Message
	Replies []*ThreadNode

	// LocalID and Pending are set on provisional messages inserted by the
	// optimistic send pipeline before server confirmation.
	LocalID string
	Pending bool
}

// BuildThread reconstructs the reply tree from a flat message list. Messages
// whose parent id is missing from the batch become roots; that hides upstream
// integrity bugs, so callers may want to log orphans, but it is not an error.
// Self-references and reply cycles are broken by turning the offending
// message into a root.
//
// The input slice is never mutated and every message is cloned, so calling
// BuildThread twice on the same input yields two identical, independent
// trees. Roots and sibling replies are ordered chronologically by server
// timestamp, id as tiebreak.
func BuildThread(messages []models.Message) []*ThreadNode {
	nodes := make(map[uint]*ThreadNode, len(messages))
	ordered := make([]*ThreadNode, 0, len(messages))
	for i := range messages {
		clone := messages[i]
		node := &ThreadNode{Message: clone}
		ordered = append(ordered, node)
		if clone.ID != 0 {
			nodes[clone.ID] = node
		}
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		return messageLess(ordered[i].Message, ordered[j].Message)
	})

	// Link children to parents present in the batch. parentOf tracks the
	// accepted links so cycles can be detected without recursion.
	parentOf := make(map[uint]uint, len(ordered))
	roots := make([]*ThreadNode, 0, len(ordered))
	for _, node := range ordered {
		parentID := node.Message.ParentID
		if parentID == nil || *parentID == node.Message.ID {
			roots = append(roots, node)
			continue
		}
		parent, ok := nodes[*parentID]
		if !ok || wouldCreateCycle(parentOf, node.Message.ID, *parentID) {
			roots = append(roots, node)
			continue
		}
		parentOf[node.Message.ID] = *parentID
		parent.Replies = append(parent.Replies, node)
	}

	return roots
}

func wouldCreateCycle(parentOf map[uint]uint, childID, parentID uint) bool {
	cur := parentID
	for cur != 0 {
		if cur == childID {
			return true
		}
		next, ok := parentOf[cur]
		if !ok {
			return false
		}
		cur = next
	}
	return false
}

// Walk visits every node of the thread depth-first using an explicit stack.
func Walk(roots []*ThreadNode, visit func(node *ThreadNode)) {
	stack := make([]*ThreadNode, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, roots[i])
	}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if node == nil {
			continue
		}
		visit(node)
		for i := len(node.Replies) - 1; i >= 0; i-- {
			stack = append(stack, node.Replies[i])
		}
	}
}

func messageLess(a, b models.Message) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}
