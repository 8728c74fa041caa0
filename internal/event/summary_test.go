package event

import (
	"math"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/last-obs/lastvis/api"
	"github.com/last-obs/lastvis/internal/extract"
	"github.com/last-obs/lastvis/internal/store"
)

func TestTotalSignal(t *testing.T) {
	assert.Equal(t, 6.0, TotalSignal([]float64{1, 2, 3}))
	assert.Equal(t, 3.0, TotalSignal([]float64{1, math.NaN(), 2}))
	assert.Equal(t, 0.0, TotalSignal([]float64{math.NaN(), math.NaN()}))
	assert.Equal(t, 0.0, TotalSignal(nil))
}

func TestSelectByExtremum(t *testing.T) {
	ids := []int64{65, 66, 67, 68}
	values := []float64{3, 7, 1, 7}

	id, ok := SelectByExtremum(ids, values, Max)
	require.True(t, ok)
	assert.Equal(t, int64(66), id) // first occurrence on ties

	id, ok = SelectByExtremum(ids, values, Min)
	require.True(t, ok)
	assert.Equal(t, int64(67), id)

	_, ok = SelectByExtremum(nil, nil, Max)
	assert.False(t, ok)
	_, ok = SelectByExtremum(ids[:2], values, Max)
	assert.False(t, ok)
}

func summaryFixture() *extract.Extraction {
	m := store.NewMemStore()
	m.AddTable("true_image;1")
	m.SetColumn("true_image", "event_id", scalars(20, 21, 22))
	m.SetColumn("true_image", "tel_id", scalars(1, 1, 1))
	m.SetColumn("true_image", "true_pe", ragged(
		[]float64{2}, []float64{1}, []float64{5, 5}))

	m.AddTable("arrayevent;1")
	m.SetColumn("arrayevent", "event_id", scalars(10, 11, 12))
	m.SetColumn("arrayevent", "energy", scalars(5, 1, 9))

	addTruth(m, 1, 2, 3)
	return extract.FromStore(m, api.Default())
}

func TestSummarize(t *testing.T) {
	r := Summarize(summaryFixture())

	require.True(t, r.EventIDMin.Present)
	assert.Equal(t, int64(1), r.EventIDMin.Value)
	assert.Equal(t, int64(3), r.EventIDMax.Value)
	assert.Equal(t, int64(11), r.MinEnergyEvent.Value)
	assert.Equal(t, int64(12), r.MaxEnergyEvent.Value)
	assert.Equal(t, int64(21), r.MinSignalEvent.Value)
	assert.Equal(t, int64(22), r.MaxSignalEvent.Value)

	g := goldie.New(t)
	g.Assert(t, "report", []byte(r.String()))
}

func TestSummarizeWithoutTables(t *testing.T) {
	x := extract.FromStore(store.NewMemStore(), api.Default())
	r := Summarize(x)
	assert.False(t, r.EventIDMin.Present)
	assert.Equal(t,
		"Event ID range: unavailable (no truth table)\n"+
			"Min/Max energy event: n/a / n/a\n"+
			"Min/Max signal event: n/a / n/a\n",
		r.String())
}

func TestBrightestEvent(t *testing.T) {
	id, ok := BrightestEvent(summaryFixture())
	require.True(t, ok)
	assert.Equal(t, int64(22), id)

	_, ok = BrightestEvent(extract.FromStore(store.NewMemStore(), api.Default()))
	assert.False(t, ok)
}

func TestReportDecompose(t *testing.T) {
	d := Summarize(summaryFixture()).Decompose()
	assert.Equal(t, int64(1), d["event_id_min"])
	assert.Equal(t, int64(22), d["max_signal_event"])

	empty := (&Report{}).Decompose()
	assert.Nil(t, empty["event_id_min"])
}
