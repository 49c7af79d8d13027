package overlay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chartmark/chartmark/internal/errors"
	"github.com/chartmark/chartmark/pkg/types"
)

func TestBindEvents_NearestBucket(t *testing.T) {
	rows := rowsAt("ts", 0, 10, 20)
	res := BindEvents(rows, "ts", []types.EventSet{
		{ID: "deploys", Name: "Deployments", Times: []int64{14}},
	})

	// 14 is distance 4 from 10 and distance 6 from 20.
	assert.Equal(t, int64(1), res.Rows[1].Count("deploys"))
	assert.Equal(t, int64(0), res.Rows[2].Count("deploys"))
	assert.Equal(t, 1, res.Placed)
}

func TestBindEvents_TieBreaksToLowerRow(t *testing.T) {
	rows := rowsAt("ts", 0, 10, 20)
	res := BindEvents(rows, "ts", []types.EventSet{
		{ID: "deploys", Name: "Deployments", Times: []int64{15}},
	})

	assert.Equal(t, int64(1), res.Rows[1].Count("deploys"))
	assert.Equal(t, int64(0), res.Rows[2].Count("deploys"))
}

func TestBindEvents_Overflow(t *testing.T) {
	rows := rowsAt("ts", 0, 10, 20)
	res := BindEvents(rows, "ts", []types.EventSet{
		{ID: "alerts", Name: "Alerts", Times: []int64{-100, 99}},
	})

	assert.Equal(t, int64(1), res.Rows[0].Count("alerts"), "below-range event binds to first row")
	assert.Equal(t, int64(1), res.Rows[2].Count("alerts"), "above-range event binds to last row")
}

func TestBindEvents_SingleRowCollapse(t *testing.T) {
	rows := rowsAt("ts", 50)
	res := BindEvents(rows, "ts", []types.EventSet{
		{ID: "deploys", Name: "Deployments", Times: []int64{1, 2, 3}},
	})

	assert.Equal(t, int64(3), res.Rows[0].Count("deploys"))
	assert.Equal(t, 3, res.Placed)
}

func TestBindEvents_EmptyRowsDiscardsEvents(t *testing.T) {
	res := BindEvents(nil, "ts", []types.EventSet{
		{ID: "deploys", Name: "Deployments", Times: []int64{1, 2, 3}},
	})

	assert.Empty(t, res.Rows)
	assert.Equal(t, 0, res.Placed)
	assert.Equal(t, 3, res.Dropped, "discard is explicit, not silent")
	// The descriptor still appears even though nothing was binned.
	require.Len(t, res.Columns, 1)
	assert.Equal(t, "deploys", res.Columns[0].ID)
	assert.Equal(t, types.KindEventMarker, res.Columns[0].Kind)
}

func TestBindEvents_NoSetsLeavesRowsUntouched(t *testing.T) {
	rows := rowsAt("ts", 0, 10)
	rows[0]["value"] = 7.0

	res := BindEvents(rows, "ts", nil)

	assert.Empty(t, res.Columns)
	assert.Equal(t, 0, res.Placed)
	assert.Len(t, res.Rows[0], 2)
	assert.Len(t, res.Rows[1], 1)
}

func TestBindEvents_DescriptorForEmptySet(t *testing.T) {
	rows := rowsAt("ts", 0, 10)
	res := BindEvents(rows, "ts", []types.EventSet{
		{ID: "deploys", Name: "Deployments"},
	})

	require.Len(t, res.Columns, 1)
	assert.Equal(t, "Deployments", res.Columns[0].Name)
	assert.Equal(t, int64(0), res.Rows[0].Count("deploys"))
}

func TestBindEvents_UnsortedTimesAndMultipleSets(t *testing.T) {
	rows := rowsAt("ts", 0, 10, 20, 30)
	sets := []types.EventSet{
		{ID: "deploys", Name: "Deployments", Times: []int64{28, 3, 12, 9}},
		{ID: "alerts", Name: "Alerts", Times: []int64{30, 0}},
	}

	res := BindEvents(rows, "ts", sets)

	require.Len(t, res.Columns, 2)
	assert.Equal(t, 6, res.Placed)

	// Conservation per set.
	var deploys, alerts int64
	for _, row := range res.Rows {
		deploys += row.Count("deploys")
		alerts += row.Count("alerts")
	}
	assert.Equal(t, int64(4), deploys)
	assert.Equal(t, int64(2), alerts)

	// 3 -> row 0, 9 -> row 1, 12 -> row 1, 28 -> row 3.
	assert.Equal(t, int64(1), res.Rows[0].Count("deploys"))
	assert.Equal(t, int64(2), res.Rows[1].Count("deploys"))
	assert.Equal(t, int64(0), res.Rows[2].Count("deploys"))
	assert.Equal(t, int64(1), res.Rows[3].Count("deploys"))
}

func TestBindEvents_ManyEventsOneBucket(t *testing.T) {
	rows := rowsAt("ts", 0, 100)
	times := make([]int64, 50)
	for i := range times {
		times[i] = 10 // all nearest to row 0
	}

	res := BindEvents(rows, "ts", []types.EventSet{{ID: "e", Name: "E", Times: times}})

	assert.Equal(t, int64(50), res.Rows[0].Count("e"))
	assert.Equal(t, int64(0), res.Rows[1].Count("e"))
}

func TestValidateEventSets(t *testing.T) {
	err := ValidateEventSets("ts", []types.EventSet{{ID: "ts", Name: "clash"}})
	require.Error(t, err)
	assert.Equal(t, errors.CodeKeyCollision, errors.GetCode(err))

	err = ValidateEventSets("ts", []types.EventSet{
		{ID: "a", Name: "A"},
		{ID: "a", Name: "B"},
	})
	require.Error(t, err)
	assert.Equal(t, errors.CodeKeyCollision, errors.GetCode(err))

	err = ValidateEventSets("ts", []types.EventSet{{ID: "", Name: "unnamed"}})
	require.Error(t, err)

	assert.NoError(t, ValidateEventSets("ts", []types.EventSet{
		{ID: "a", Name: "A"},
		{ID: "b", Name: "B"},
	}))
}

func TestApply_EndToEnd(t *testing.T) {
	frame := types.Frame{
		Columns: []types.Column{{ID: "ts", Name: "Time", Kind: types.KindTime}},
		Rows:    rowsAt("ts", 100, 150),
	}
	dim := types.AxisDimension{Key: "ts", Label: "Time", IntervalMs: 50, StartMs: 0, EndMs: 300}
	sets := []types.EventSet{{ID: "deploys", Name: "Deployments", Times: []int64{5, 149, 500}}}

	out, res, err := Apply(frame, dim, sets)
	require.NoError(t, err)

	assert.Len(t, out.Rows, 7)
	require.Len(t, out.Columns, 2)
	assert.Equal(t, "deploys", out.Columns[1].ID)
	assert.Equal(t, 3, res.Placed)

	var total int64
	for _, row := range out.Rows {
		total += row.Count("deploys")
	}
	assert.Equal(t, int64(3), total)
}
