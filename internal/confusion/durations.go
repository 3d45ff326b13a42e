package confusion

import (
	"maps"
	"slices"
)

// Durations maps labels to accumulated seconds. The default policy is
// explicit: Get on a label that was never added returns 0 and never fails.
type Durations struct {
	values map[string]float64
}

// Add accumulates seconds under label. Adding 0 still registers the label.
func (d *Durations) Add(label string, seconds float64) {
	if d.values == nil {
		d.values = make(map[string]float64)
	}
	d.values[label] += seconds
}

// Get returns the accumulated seconds for label, or 0 when unseen.
func (d Durations) Get(label string) float64 {
	return d.values[label]
}

// Has reports whether label was ever added.
func (d Durations) Has(label string) bool {
	_, ok := d.values[label]
	return ok
}

// Labels returns the registered labels in sorted order.
func (d Durations) Labels() []string {
	return slices.Sorted(maps.Keys(d.values))
}

// Sum totals every label.
func (d Durations) Sum() float64 {
	var total float64
	for _, label := range d.Labels() {
		total += d.values[label]
	}
	return total
}
