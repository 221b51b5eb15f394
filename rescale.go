/*
Copyright © 2026 the gridtiff authors.
This file is part of gridtiff.

gridtiff is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

gridtiff is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with gridtiff.  If not, see <http://www.gnu.org/licenses/>.
*/

package gridtiff

import (
	"math"
	"sort"
)

// Polarity tells Rescale on which side of the data the no-data value
// lies.
type Polarity int

const (
	// LargeOutlier means the no-data value is larger than the valid data.
	LargeOutlier Polarity = iota

	// SmallOutlier means the no-data value is smaller than the valid data.
	SmallOutlier
)

func (p Polarity) String() string {
	if p == SmallOutlier {
		return "small"
	}
	return "large"
}

// PolarityOf returns SmallOutlier for negative no-data values and
// LargeOutlier otherwise.
func PolarityOf(noData float64) Polarity {
	if noData < 0 {
		return SmallOutlier
	}
	return LargeOutlier
}

// Rescale moves the no-data value in data next to the valid data so that
// it does not stretch the range of a linear rendering.
//
// The reference value is the second-smallest (SmallOutlier) or
// second-largest (LargeOutlier) distinct value in data, ignoring NaNs.
// If it is more than 1 away from the no-data value, every sample at or
// beyond noData is set to one unit beyond the reference. Rescale returns
// the replacement and the number of samples replaced. When n is zero,
// data is unchanged and replacement is noData. A NaN noData value and
// data with fewer than two distinct values are left alone.
func Rescale(data []float64, noData float64, p Polarity) (replacement float64, n int) {
	if math.IsNaN(noData) {
		return noData, 0
	}
	distinct := make([]float64, 0, len(data))
	for _, v := range data {
		if !math.IsNaN(v) {
			distinct = append(distinct, v)
		}
	}
	sort.Float64s(distinct)
	k := 0
	for i, v := range distinct {
		if i == 0 || v != distinct[k-1] {
			distinct[k] = v
			k++
		}
	}
	distinct = distinct[:k]
	if len(distinct) < 2 {
		return noData, 0
	}

	switch p {
	case SmallOutlier:
		ref := distinct[1]
		if abs(ref+noData) <= 1 {
			return noData, 0
		}
		replacement = ref - 1
		for i, v := range data {
			if v <= noData {
				data[i] = replacement
				n++
			}
		}
	default:
		ref := distinct[len(distinct)-2]
		if abs(noData-ref) <= 1 {
			return noData, 0
		}
		replacement = ref + 1
		for i, v := range data {
			if v >= noData {
				data[i] = replacement
				n++
			}
		}
	}
	if n == 0 {
		return noData, 0
	}
	return replacement, n
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
