package timeline

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshharrison/procsched/internal/graph"
	"github.com/joshharrison/procsched/internal/schederr"
	"github.com/joshharrison/procsched/internal/taskfile"
)

func build(t *testing.T, raw ...taskfile.RawTask) *graph.TaskGraph {
	t.Helper()
	g, err := graph.BuildFromRaw(raw)
	require.NoError(t, err)
	return g
}

func rt(id, dur int, deps ...int) taskfile.RawTask {
	return taskfile.RawTask{ID: id, Duration: dur, Deps: deps}
}

func TestCompute_FanOut(t *testing.T) {
	res, err := Compute(build(t, rt(1, 5), rt(2, 3, 1), rt(3, 2, 1)))
	require.NoError(t, err)

	assert.Equal(t, Entry{TaskID: 1, Start: 0, Finish: 5}, res.Entry(1))
	assert.Equal(t, Entry{TaskID: 2, Start: 5, Finish: 8}, res.Entry(2))
	assert.Equal(t, Entry{TaskID: 3, Start: 5, Finish: 7}, res.Entry(3))
	assert.Equal(t, 8, res.TN)
}

func TestCompute_TakesLongestPredecessor(t *testing.T) {
	// 4 waits for the slower of 2 (ends 5) and 3 (ends 9).
	res, err := Compute(build(t,
		rt(1, 2),
		rt(2, 3, 1),
		rt(3, 7, 1),
		rt(4, 1, 2, 3),
	))
	require.NoError(t, err)
	assert.Equal(t, 9, res.Entry(4).Start)
	assert.Equal(t, 10, res.TN)
}

func TestCompute_PredecessorWithHigherID(t *testing.T) {
	res, err := Compute(build(t, rt(1, 2, 3), rt(2, 1), rt(3, 4, 2)))
	require.NoError(t, err)
	assert.Equal(t, 0, res.Entry(2).Start)
	assert.Equal(t, 1, res.Entry(3).Start)
	assert.Equal(t, 5, res.Entry(1).Start)
	assert.Equal(t, 7, res.TN)

	var ids []int
	for _, e := range res.ByStart() {
		ids = append(ids, e.TaskID)
	}
	assert.Equal(t, []int{2, 3, 1}, ids)
}

func TestCompute_Cycle(t *testing.T) {
	res, err := Compute(build(t, rt(1, 5, 2), rt(2, 3, 1)))
	assert.Nil(t, res)
	assert.True(t, schederr.IsCycle(err))
}

func TestCompute_Empty(t *testing.T) {
	res, err := Compute(build(t))
	require.NoError(t, err)
	assert.Equal(t, 0, res.TN)
	assert.Empty(t, res.Entries)
}

func TestCompute_DurationsUpToTheLimit(t *testing.T) {
	res, err := Compute(build(t, rt(1, math.MaxInt-1), rt(2, 1, 1)))
	require.NoError(t, err)

	assert.Equal(t, Entry{TaskID: 2, Start: math.MaxInt - 1, Finish: math.MaxInt}, res.Entry(2))
	assert.Equal(t, math.MaxInt, res.TN)
}
