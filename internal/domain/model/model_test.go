package model_test

import (
	"encoding/json"
	"testing"

	model "github.com/okian/tracker/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestStudentRecord(t *testing.T) {
	convey.Convey("Given positional cells", t, func() {
		convey.Convey("When there are exactly eight", func() {
			rec := model.RecordFromCells([]string{"Ann", "5", "8", "2", "90", "3", "1", "70"})

			convey.Convey("Then every named field is filled", func() {
				convey.So(rec.Name, convey.ShouldEqual, "Ann")
				convey.So(rec.PreviousScore, convey.ShouldEqual, "70")
				convey.So(rec.Extra, convey.ShouldBeNil)
				convey.So(rec.Metrics(), convey.ShouldResemble, [7]string{"5", "8", "2", "90", "3", "1", "70"})
			})
		})

		convey.Convey("When there are more than eight", func() {
			rec := model.RecordFromCells([]string{"Ann", "5", "8", "2", "90", "3", "1", "70", ""})

			convey.Convey("Then the surplus is kept in order", func() {
				convey.So(rec.Extra, convey.ShouldResemble, []string{""})
				convey.So(rec.Cells(), convey.ShouldHaveLength, 9)
			})
		})

		convey.Convey("When there are fewer than eight", func() {
			rec := model.RecordFromCells([]string{"Ann"})

			convey.Convey("Then the rest are empty", func() {
				convey.So(rec.Cells(), convey.ShouldResemble, []string{"Ann", "", "", "", "", "", "", ""})
			})
		})
	})

	convey.Convey("Given a record to edit", t, func() {
		rec := model.RecordFromCells([]string{"Ann", "1", "2", "3", "4", "5", "6", "7", "x"})

		convey.Convey("When setting valid columns", func() {
			convey.So(rec.Set(0, "Bea"), convey.ShouldBeNil)
			convey.So(rec.Set(7, "99"), convey.ShouldBeNil)
			convey.So(rec.Set(8, "y"), convey.ShouldBeNil)

			convey.Convey("Then the cells change", func() {
				convey.So(rec.Cells(), convey.ShouldResemble, []string{"Bea", "1", "2", "3", "4", "5", "6", "99", "y"})
			})
		})

		convey.Convey("When setting an invalid column", func() {
			convey.Convey("Then an error is returned", func() {
				convey.So(rec.Set(-1, "a"), convey.ShouldNotBeNil)
				convey.So(rec.Set(9, "a"), convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When cloning", func() {
			c := rec.Clone()
			c.Extra[0] = "changed"

			convey.Convey("Then the original is untouched", func() {
				convey.So(rec.Extra[0], convey.ShouldEqual, "x")
			})
		})
	})

	convey.Convey("Blank detection ignores whitespace", t, func() {
		convey.So(model.StudentRecord{}.IsBlank(), convey.ShouldBeTrue)
		convey.So(model.RecordFromCells([]string{" ", "", "\t"}).IsBlank(), convey.ShouldBeTrue)
		convey.So(model.RecordFromCells([]string{"", "1"}).IsBlank(), convey.ShouldBeFalse)
	})
}

func TestStudentRecordJSON(t *testing.T) {
	convey.Convey("Given JSON rows", t, func() {
		convey.Convey("When a row mixes strings, numbers and null", func() {
			var rec model.StudentRecord
			err := json.Unmarshal([]byte(`["Ann", 5, "8", null, true, "3", "1", "70"]`), &rec)

			convey.Convey("Then scalars keep their literal text", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(rec.Study, convey.ShouldEqual, "5")
				convey.So(rec.Screen, convey.ShouldEqual, "")
				convey.So(rec.Attendance, convey.ShouldEqual, "true")
			})
		})

		convey.Convey("When a row is short", func() {
			var rec model.StudentRecord
			convey.So(json.Unmarshal([]byte(`["Ann","5"]`), &rec), convey.ShouldBeNil)
			out, err := json.Marshal(rec)

			convey.Convey("Then it is written back with its original width", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(string(out), convey.ShouldEqual, `["Ann","5"]`)
			})
		})

		convey.Convey("When a short row was edited past its width", func() {
			var rec model.StudentRecord
			convey.So(json.Unmarshal([]byte(`["Ann","5"]`), &rec), convey.ShouldBeNil)
			rec.Exercise = "4"
			out, _ := json.Marshal(rec)

			convey.Convey("Then all eight cells are written", func() {
				convey.So(string(out), convey.ShouldEqual, `["Ann","5","","","","","4",""]`)
			})
		})

		convey.Convey("When a cell is nested", func() {
			var rec model.StudentRecord
			err := json.Unmarshal([]byte(`["Ann", ["x"]]`), &rec)

			convey.Convey("Then decoding fails", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})
	})
}

func TestDirectory(t *testing.T) {
	convey.Convey("Given an empty directory", t, func() {
		dir := model.NewDirectory()

		convey.Convey("When accounts are added", func() {
			convey.So(dir.Add(model.Account{Username: "zed", Password: "p", Email: "z@x"}), convey.ShouldBeTrue)
			convey.So(dir.Add(model.Account{Username: "amy", Password: "q", Email: "a@x"}), convey.ShouldBeTrue)

			convey.Convey("Then insertion order is kept", func() {
				convey.So(dir.Usernames(), convey.ShouldResemble, []string{"zed", "amy"})
				convey.So(dir.Len(), convey.ShouldEqual, 2)
			})

			convey.Convey("Then a duplicate is refused", func() {
				convey.So(dir.Add(model.Account{Username: "amy"}), convey.ShouldBeFalse)
				acc, _ := dir.Get("amy")
				convey.So(acc.Password, convey.ShouldEqual, "q")
			})

			convey.Convey("Then a new account has an empty, non-nil record list", func() {
				acc, ok := dir.Get("zed")
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(acc.Students, convey.ShouldNotBeNil)
				convey.So(acc.Students, convey.ShouldBeEmpty)
			})

			convey.Convey("Then removal drops the account and its position", func() {
				dir.Remove("zed")
				dir.Remove("nobody")
				convey.So(dir.Usernames(), convey.ShouldResemble, []string{"amy"})
				convey.So(dir.Has("zed"), convey.ShouldBeFalse)
			})

			convey.Convey("Then a clone is independent", func() {
				c := dir.Clone()
				acc, _ := c.Get("zed")
				acc.Password = "changed"
				orig, _ := dir.Get("zed")
				convey.So(orig.Password, convey.ShouldEqual, "p")
			})
		})
	})
}

func TestDirectoryJSON(t *testing.T) {
	convey.Convey("Given a document with keys out of alphabetical order", t, func() {
		doc := `{"zed":{"password":"p","email":"z@x","students":[["A","1","2","3","4","5","6","7",""]]},` +
			`"amy":{"password":"q","email":"a@x","students":[]}}`

		convey.Convey("When it is decoded and encoded again", func() {
			dir := model.NewDirectory()
			err := json.Unmarshal([]byte(doc), dir)
			convey.So(err, convey.ShouldBeNil)
			out, err := json.Marshal(dir)

			convey.Convey("Then the bytes are identical", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(string(out), convey.ShouldEqual, doc)
				convey.So(dir.Usernames(), convey.ShouldResemble, []string{"zed", "amy"})
			})
		})

		convey.Convey("When a key repeats", func() {
			dir := model.NewDirectory()
			err := json.Unmarshal([]byte(`{"a":{"password":"1"},"b":{"password":"2"},"a":{"password":"3"}}`), dir)

			convey.Convey("Then it keeps the first position and the last value", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(dir.Usernames(), convey.ShouldResemble, []string{"a", "b"})
				acc, _ := dir.Get("a")
				convey.So(acc.Password, convey.ShouldEqual, "3")
				convey.So(acc.Students, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When the document is not an object", func() {
			dir := model.NewDirectory()
			err := json.Unmarshal([]byte(`[1,2]`), dir)

			convey.Convey("Then decoding fails", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})
	})
}
