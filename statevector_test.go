package qsearch

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestStateVector(t *testing.T) {
	Convey("Given a fresh register", t, func() {
		sv, err := NewStateVector(3)
		So(err, ShouldBeNil)
		So(sv.Vector, ShouldHaveLength, 8)
		So(real(sv.Vector[0]), ShouldEqual, 1)

		Convey("Prepare gives the uniform superposition", func() {
			sv.Prepare()

			for _, p := range sv.Probabilities() {
				So(p, ShouldAlmostEqual, 0.125, 1e-12)
			}
			So(sv.Norm(), ShouldAlmostEqual, 1, 1e-12)
		})

		Convey("A Hadamard applied twice is the identity", func() {
			sv.ApplyHadamard(1)
			sv.ApplyHadamard(1)

			probs := sv.Probabilities()
			So(probs[0], ShouldAlmostEqual, 1, 1e-12)
			So(probs[2], ShouldAlmostEqual, 0, 1e-12)
		})
	})

	Convey("Given four states and one round", t, func() {
		sv, _ := NewStateVector(2)
		sv.Prepare()
		sv.Iterate(2)

		Convey("The target is measured with certainty", func() {
			probs := sv.Probabilities()
			So(probs[2], ShouldAlmostEqual, 1, 1e-9)
			So(probs[0], ShouldAlmostEqual, 0, 1e-9)
		})
	})

	Convey("Given several sizes and round counts", t, func() {
		Convey("The simulated target probability matches the closed form", func() {
			for q := 1; q <= 8; q++ {
				n := 1 << q
				target := n - 1

				sv, err := NewStateVector(q)
				So(err, ShouldBeNil)
				sv.Prepare()

				for k := 0; k <= 10; k++ {
					want, err := SuccessProbability(n, k)
					So(err, ShouldBeNil)
					So(sv.Probabilities()[target], ShouldAlmostEqual, want, 1e-9)
					So(sv.Norm(), ShouldAlmostEqual, 1, 1e-9)

					sv.Iterate(target)
				}
			}
		})
	})

	Convey("Given an invalid register size", t, func() {
		_, err := NewStateVector(0)
		So(errors.Is(err, ErrInvalidSize), ShouldBeTrue)
	})
}
