package dataset

import (
	"errors"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/theapemachine/qsearch"
)

func writeFile(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestEncode(t *testing.T) {
	Convey("Encode is a stable SHA-256 digest", t, func() {
		So(Encode("abc"), ShouldEqual, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad")
		So(Encode(42), ShouldEqual, Encode("42"))
		So(Encode("a"), ShouldNotEqual, Encode("b"))
	})
}

func TestLoad(t *testing.T) {
	Convey("Given a log file", t, func() {
		path := writeFile(t, "app.log", "INFO start\n\n  WARN disk low  \nERROR crash\n")

		ds, err := Load(path, 0)
		So(err, ShouldBeNil)
		So(ds.Raw, ShouldResemble, []string{"INFO start", "WARN disk low", "ERROR crash"})
		So(ds.Encoded[1], ShouldEqual, Encode("WARN disk low"))

		Convey("maxRows counts input lines", func() {
			ds, err := Load(path, 2)
			So(err, ShouldBeNil)
			So(ds.Raw, ShouldResemble, []string{"INFO start"})
		})

		Convey("Find matches case-insensitively", func() {
			m, err := ds.Find("error")
			So(err, ShouldBeNil)
			So(m.Index, ShouldEqual, 2)
			So(m.Raw, ShouldEqual, "ERROR crash")
			So(m.Encoded, ShouldEqual, Encode("ERROR crash"))
		})

		Convey("Find reports a missing needle", func() {
			_, err := ds.Find("panic")
			So(errors.Is(err, ErrTargetNotFound), ShouldBeTrue)
		})
	})

	Convey("Given a CSV file", t, func() {
		path := writeFile(t, "users.csv", "id,name\n1,alice\n2,bob\n")

		ds, err := Load(path, 0)
		So(err, ShouldBeNil)
		So(ds.Raw, ShouldResemble, []string{"id name", "1 alice", "2 bob"})

		m, err := ds.Find("BOB")
		So(err, ShouldBeNil)
		So(m.Index, ShouldEqual, 2)
	})

	Convey("Given a JSON array", t, func() {
		path := writeFile(t, "items.json", `["plain", {"id": 1, "tag": "x"}, 7]`)

		ds, err := Load(path, 0)
		So(err, ShouldBeNil)
		So(ds.Raw, ShouldResemble, []string{"plain", `{"id":1,"tag":"x"}`, "7"})

		ds, err = Load(path, 1)
		So(err, ShouldBeNil)
		So(ds.Len(), ShouldEqual, 1)
	})

	Convey("Given a JSON object", t, func() {
		path := writeFile(t, "obj.json", `{"id": 1}`)
		_, err := Load(path, 0)
		So(err, ShouldNotBeNil)
	})

	Convey("Given a gzipped log", t, func() {
		path := filepath.Join(t.TempDir(), "app.log.gz")
		f, err := os.Create(path)
		So(err, ShouldBeNil)

		gz := gzip.NewWriter(f)
		_, err = gz.Write([]byte("alpha\nbeta\n"))
		So(err, ShouldBeNil)
		So(gz.Close(), ShouldBeNil)
		So(f.Close(), ShouldBeNil)

		ds, err := Load(path, 0)
		So(err, ShouldBeNil)
		So(ds.Raw, ShouldResemble, []string{"alpha", "beta"})
	})

	Convey("Given an unsupported extension", t, func() {
		path := writeFile(t, "data.xml", "<x/>")
		_, err := Load(path, 0)
		So(errors.Is(err, ErrUnsupportedType), ShouldBeTrue)
	})
}

func TestWindow(t *testing.T) {
	Convey("Given ten records", t, func() {
		ds := &Dataset{}
		for i := 0; i < 10; i++ {
			ds.Raw = append(ds.Raw, string(rune('a'+i)))
			ds.Encoded = append(ds.Encoded, Encode(ds.Raw[i]))
		}
		rng := rand.New(rand.NewPCG(1, 2))

		Convey("A window holds distinct records", func() {
			window, err := ds.Window(8, rng)
			So(err, ShouldBeNil)
			So(window, ShouldHaveLength, 8)

			seen := map[string]bool{}
			for _, w := range window {
				So(seen[w], ShouldBeFalse)
				seen[w] = true
				So(ds.Encoded, ShouldContain, w)
			}
		})

		Convey("Oversized and invalid windows are rejected", func() {
			_, err := ds.Window(16, rng)
			So(errors.Is(err, ErrWindowTooLarge), ShouldBeTrue)

			_, err = ds.Window(6, rng)
			So(errors.Is(err, qsearch.ErrInvalidSize), ShouldBeTrue)
		})

		Convey("The qubit window fits inside the dataset", func() {
			q, err := QubitWindow(ds)
			So(err, ShouldBeNil)
			So(q, ShouldEqual, 3)
		})
	})

	Convey("Given a single record", t, func() {
		_, err := QubitWindow(&Dataset{Raw: []string{"x"}})
		So(errors.Is(err, ErrWindowTooLarge), ShouldBeTrue)
	})
}
