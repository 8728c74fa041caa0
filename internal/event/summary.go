package event

import (
	"fmt"
	"math"
	"strings"

	"github.com/last-obs/lastvis/api"
	"github.com/last-obs/lastvis/internal/extract"
)

// TotalSignal reduces one per-pixel signal sequence to its sum. NaN cells
// and empty sequences reduce to zero.
func TotalSignal(cells []float64) float64 {
	var sum float64
	for _, v := range cells {
		if math.IsNaN(v) {
			continue
		}
		sum += v
	}
	return sum
}

// Totals computes the per-row signal totals of a ragged signal column.
func Totals(rows [][]float64) []float64 {
	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i] = TotalSignal(r)
	}
	return out
}

// Extremum selects which end of a value sequence to pick.
type Extremum int

const (
	Min Extremum = iota
	Max
)

// SelectByExtremum returns the identifier of the row achieving the
// extremum. Ties keep the first occurrence. Deterministic for identical
// inputs; ok is false for empty input.
func SelectByExtremum(ids []int64, values []float64, mode Extremum) (int64, bool) {
	if len(values) == 0 || len(ids) != len(values) {
		return 0, false
	}
	best := 0
	for i := 1; i < len(values); i++ {
		if mode == Max && values[i] > values[best] {
			best = i
		}
		if mode == Min && values[i] < values[best] {
			best = i
		}
	}
	return ids[best], true
}

// Report holds the summary scalars used to pick representative events.
// Optional halves stay absent when their source table did not load.
type Report struct {
	EventIDMin Maybe[int64]
	EventIDMax Maybe[int64]
	// Min/MaxEnergyEvent come from the array-level table.
	MinEnergyEvent Maybe[int64]
	MaxEnergyEvent Maybe[int64]
	// Min/MaxSignalEvent come from the per-telescope signal totals.
	MinSignalEvent Maybe[int64]
	MaxSignalEvent Maybe[int64]
}

// Summarize aggregates the extraction into a report. Absent tables disable
// the corresponding statistics rather than failing.
func Summarize(x *extract.Extraction) *Report {
	r := &Report{}

	if ids, ok := x.Truth.Scalars(api.FieldEventID); ok && len(ids) > 0 {
		lo, hi := ids[0], ids[0]
		for _, v := range ids {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
		r.EventIDMin = Some(int64(lo))
		r.EventIDMax = Some(int64(hi))
	}

	if energies, ok := x.Array.Scalars(api.FieldEnergy); ok {
		if ids, ok := x.Array.Scalars(api.FieldEventID); ok {
			idv := toIDs(ids)
			if id, ok := SelectByExtremum(idv, energies, Min); ok {
				r.MinEnergyEvent = Some(id)
			}
			if id, ok := SelectByExtremum(idv, energies, Max); ok {
				r.MaxEnergyEvent = Some(id)
			}
		}
	}

	if signal, ok := x.Events.Ragged(api.FieldSignal); ok {
		if ids, ok := x.Events.Scalars(api.FieldEventID); ok {
			idv := toIDs(ids)
			totals := Totals(signal)
			if id, ok := SelectByExtremum(idv, totals, Min); ok {
				r.MinSignalEvent = Some(id)
			}
			if id, ok := SelectByExtremum(idv, totals, Max); ok {
				r.MaxSignalEvent = Some(id)
			}
		}
	}

	return r
}

// BrightestEvent returns the event id with the maximum total signal.
func BrightestEvent(x *extract.Extraction) (int64, bool) {
	signal, ok := x.Events.Ragged(api.FieldSignal)
	if !ok {
		return 0, false
	}
	ids, ok := x.Events.Scalars(api.FieldEventID)
	if !ok {
		return 0, false
	}
	return SelectByExtremum(toIDs(ids), Totals(signal), Max)
}

func toIDs(vs []float64) []int64 {
	out := make([]int64, len(vs))
	for i, v := range vs {
		out[i] = int64(v)
	}
	return out
}

// String renders the report in the printed form of the info command.
func (r *Report) String() string {
	var b strings.Builder
	if r.EventIDMin.Present {
		fmt.Fprintf(&b, "Event ID range: %d ~ %d\n", r.EventIDMin.Value, r.EventIDMax.Value)
		b.WriteString("Note: some event IDs carry no trigger image.\n")
	} else {
		b.WriteString("Event ID range: unavailable (no truth table)\n")
	}
	fmt.Fprintf(&b, "Min/Max energy event: %s / %s\n",
		formatID(r.MinEnergyEvent), formatID(r.MaxEnergyEvent))
	fmt.Fprintf(&b, "Min/Max signal event: %s / %s\n",
		formatID(r.MinSignalEvent), formatID(r.MaxSignalEvent))
	return b.String()
}

// Decompose flattens the report for JSON encoding. Absent fields encode as
// null.
func (r *Report) Decompose() map[string]any {
	out := make(map[string]any, 6)
	put := func(key string, m Maybe[int64]) {
		if m.Present {
			out[key] = m.Value
		} else {
			out[key] = nil
		}
	}
	put("event_id_min", r.EventIDMin)
	put("event_id_max", r.EventIDMax)
	put("min_energy_event", r.MinEnergyEvent)
	put("max_energy_event", r.MaxEnergyEvent)
	put("min_signal_event", r.MinSignalEvent)
	put("max_signal_event", r.MaxSignalEvent)
	return out
}

func formatID(m Maybe[int64]) string {
	if !m.Present {
		return "n/a"
	}
	return fmt.Sprintf("%d", m.Value)
}
