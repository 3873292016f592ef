package qsearch

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestAggregates(t *testing.T) {
	Convey("Median", t, func() {
		So(Median(nil), ShouldEqual, 0)
		So(Median([]float64{3, 1, 2}), ShouldEqual, 2)
		So(Median([]float64{4, 1, 3, 2}), ShouldEqual, 2.5)

		xs := []float64{3, 1, 2}
		Median(xs)
		So(xs, ShouldResemble, []float64{3, 1, 2})
	})

	Convey("MedianDuration", t, func() {
		ds := []time.Duration{3 * time.Millisecond, time.Millisecond, 2 * time.Millisecond}
		So(MedianDuration(ds), ShouldEqual, 2*time.Millisecond)
	})

	Convey("MeanStdDev", t, func() {
		mean, std := MeanStdDev(nil)
		So(mean, ShouldEqual, 0)
		So(std, ShouldEqual, 0)

		mean, std = MeanStdDev([]float64{5})
		So(mean, ShouldEqual, 5)
		So(std, ShouldEqual, 0)

		mean, std = MeanStdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9})
		So(mean, ShouldEqual, 5)
		So(std, ShouldAlmostEqual, 2.138, 1e-3)
	})

	Convey("Quantile", t, func() {
		So(Quantile(0.5, nil), ShouldEqual, 0)
		So(Quantile(1, []float64{5, 1, 9, 3}), ShouldEqual, 9)
		So(Quantile(0, []float64{5, 1, 9, 3}), ShouldEqual, 1)
	})
}
