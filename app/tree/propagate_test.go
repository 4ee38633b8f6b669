package tree

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFixture(t *testing.T) (*Tree, *Propagator) {
	t.Helper()
	tr := New()
	return tr, NewPropagator(tr)
}

// addSubtask performs the create-then-uncheck pair every caller must do.
func addSubtask(t *testing.T, tr *Tree, p *Propagator, parent *Task, text string) *Task {
	t.Helper()
	child, err := tr.CreateSubtask(parent, text)
	require.NoError(t, err)
	require.NoError(t, p.UncheckAncestors(child))
	return child
}

func snapshot(tr *Tree) map[*Task]bool {
	out := make(map[*Task]bool, tr.Len())
	tr.Walk(func(t *Task) { out[t] = t.Completed() })
	return out
}

func TestToggle_TopLevel(t *testing.T) {
	t.Parallel()
	tr, p := newFixture(t)
	t1 := tr.CreateTopLevel("Buy milk")
	require.False(t, t1.Completed())

	require.NoError(t, p.Toggle(t1))

	assert.True(t, t1.Completed())
	assert.Equal(t, "Buy milk", t1.Text())
}

func TestUncheckAncestors_AfterInsertUnderCompletedTask(t *testing.T) {
	t.Parallel()
	tr, p := newFixture(t)
	t1 := tr.CreateTopLevel("Buy milk")
	require.NoError(t, p.Toggle(t1))
	require.True(t, t1.Completed())

	t2 := addSubtask(t, tr, p, t1, "2% milk")

	assert.False(t, t1.Completed())
	assert.False(t, t2.Completed())
	require.NoError(t, tr.Check())
}

func TestToggle_CompletesAllDescendants(t *testing.T) {
	t.Parallel()
	tr, p := newFixture(t)
	t1 := tr.CreateTopLevel("parent")
	t2 := addSubtask(t, tr, p, t1, "a")
	t3 := addSubtask(t, tr, p, t1, "b")
	t4 := addSubtask(t, tr, p, t3, "deep")

	require.NoError(t, p.Toggle(t1))

	for _, task := range []*Task{t1, t2, t3, t4} {
		assert.True(t, task.Completed(), task.Text())
	}
	require.NoError(t, tr.Check())
}

func TestToggle_UncompletesAncestorsButNotSiblings(t *testing.T) {
	t.Parallel()
	tr, p := newFixture(t)
	t1 := tr.CreateTopLevel("parent")
	t2 := addSubtask(t, tr, p, t1, "a")
	t3 := addSubtask(t, tr, p, t1, "b")
	require.NoError(t, p.Toggle(t1))
	require.True(t, t2.Completed())

	require.NoError(t, p.Toggle(t2))

	assert.False(t, t2.Completed())
	assert.False(t, t1.Completed())
	assert.True(t, t3.Completed())
	require.NoError(t, tr.Check())
}

func TestToggle_WalksToRoot(t *testing.T) {
	t.Parallel()
	tr, p := newFixture(t)
	root := tr.CreateTopLevel("root")
	mid := addSubtask(t, tr, p, root, "mid")
	leaf := addSubtask(t, tr, p, mid, "leaf")
	require.NoError(t, p.Toggle(root))

	// Force a malformed middle: mid incomplete while root is complete.
	mid.completed = false
	require.NoError(t, p.Toggle(leaf))

	assert.False(t, leaf.Completed())
	assert.False(t, mid.Completed())
	assert.False(t, root.Completed())
}

func TestToggle_DoubleToggleRestoresOwnFlag(t *testing.T) {
	t.Parallel()
	tr, p := newFixture(t)
	root := tr.CreateTopLevel("root")
	a := addSubtask(t, tr, p, root, "a")
	a1 := addSubtask(t, tr, p, a, "a1")
	b := addSubtask(t, tr, p, root, "b")
	require.NoError(t, p.Toggle(b))

	for _, node := range []*Task{root, a, a1, b} {
		before := node.Completed()
		require.NoError(t, p.Toggle(node))
		require.NoError(t, p.Toggle(node))
		assert.Equal(t, before, node.Completed(), node.Text())
		require.NoError(t, tr.Check())
	}
}

// A double toggle restores the whole tree whenever the first toggle did not
// have to repair any other task.
func TestToggle_DoubleToggleRestoresTree(t *testing.T) {
	t.Parallel()
	tr, p := newFixture(t)
	root := tr.CreateTopLevel("root")
	done := addSubtask(t, tr, p, root, "done")
	addSubtask(t, tr, p, done, "done child")
	open := addSubtask(t, tr, p, root, "open")
	leaf := addSubtask(t, tr, p, open, "leaf")
	require.NoError(t, p.Toggle(done))

	for _, node := range []*Task{done, leaf} {
		before := snapshot(tr)
		require.NoError(t, p.Toggle(node))
		require.NoError(t, p.Toggle(node))
		assert.Equal(t, before, snapshot(tr), node.Text())
	}
}

// Completing an incomplete parent also completes its subtasks, and the
// second toggle only reverts the parent.
func TestToggle_DoubleToggleKeepsCompletedDescendants(t *testing.T) {
	t.Parallel()
	tr, p := newFixture(t)
	root := tr.CreateTopLevel("root")
	child := addSubtask(t, tr, p, root, "child")

	require.NoError(t, p.Toggle(root))
	require.NoError(t, p.Toggle(root))

	assert.False(t, root.Completed())
	assert.True(t, child.Completed())
	require.NoError(t, tr.Check())
}

func TestEnclosingTask_ReturnsCreatingParent(t *testing.T) {
	t.Parallel()
	tr, p := newFixture(t)
	parent := tr.CreateTopLevel("parent")
	child := addSubtask(t, tr, p, parent, "child")

	got, err := tr.EnclosingTask(child)

	require.NoError(t, err)
	assert.Same(t, parent, got)
}

func TestRemovedTasks_Rejected(t *testing.T) {
	t.Parallel()
	tr, p := newFixture(t)
	root := tr.CreateTopLevel("root")
	node := addSubtask(t, tr, p, root, "node")
	under := addSubtask(t, tr, p, node, "under")

	require.NoError(t, tr.Remove(node))

	for _, task := range []*Task{node, under} {
		_, err := tr.EnclosingTask(task)
		assert.ErrorIs(t, err, ErrNotInTree)
		assert.ErrorIs(t, p.Toggle(task), ErrNotInTree)
		assert.ErrorIs(t, p.UncheckAncestors(task), ErrNotInTree)
		_, err = tr.CreateSubtask(task, "x")
		assert.ErrorIs(t, err, ErrInvalidParent)
	}
	assert.False(t, node.Completed())
}

func TestInvariantsHoldUnderRandomOperations(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewSource(42))
	tr, p := newFixture(t)

	pick := func() *Task {
		var all []*Task
		tr.Walk(func(task *Task) { all = append(all, task) })
		if len(all) == 0 {
			return nil
		}
		return all[rng.Intn(len(all))]
	}

	for i := 0; i < 2000; i++ {
		target := pick()
		switch op := rng.Intn(10); {
		case target == nil || op == 0:
			tr.CreateTopLevel("top")
		case op < 4:
			addSubtask(t, tr, p, target, "sub")
		case op < 9:
			require.NoError(t, p.Toggle(target))
		default:
			require.NoError(t, tr.Remove(target))
		}
		require.NoError(t, tr.Check(), "step %d", i)
	}
}

func TestCheck_DetectsViolation(t *testing.T) {
	t.Parallel()
	tr, p := newFixture(t)
	root := tr.CreateTopLevel("root")
	addSubtask(t, tr, p, root, "child")

	root.completed = true

	assert.Error(t, tr.Check())
}
