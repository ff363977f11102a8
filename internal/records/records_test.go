package records_test

import (
	"context"
	"errors"
	"testing"

	"github.com/okian/tracker/internal/adapters/repository"
	"github.com/okian/tracker/internal/domain/model"
	"github.com/okian/tracker/internal/records"
	. "github.com/smartystreets/goconvey/convey"
)

type memStore struct {
	saves   int
	saveErr error
}

func (m *memStore) Load(context.Context) *model.Directory { return model.NewDirectory() }

func (m *memStore) Save(context.Context, *model.Directory) error {
	m.saves++
	return m.saveErr
}

func (m *memStore) Close() error { return nil }

func row(cells ...string) model.StudentRecord {
	return model.RecordFromCells(cells)
}

func names(recs []model.StudentRecord) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.Name
	}
	return out
}

func fixture() *model.Directory {
	dir := model.NewDirectory()
	dir.Add(model.Account{Username: "zoe", Password: "p", Email: "z@x", Students: []model.StudentRecord{row("Ann"), row("Ben")}})
	dir.Add(model.Account{Username: "adam", Password: "p", Email: "a@x", Students: []model.StudentRecord{row("Cid")}})
	dir.Add(model.Account{Username: "eve", Password: "p", Email: "e@x"})
	return dir
}

func TestListVisible(t *testing.T) {
	ctx := context.Background()

	Convey("Given a directory with three accounts", t, func() {
		repo := records.New(&memStore{}, fixture())

		Convey("Then a plain session sees only its own records", func() {
			So(names(repo.ListVisible(ctx, model.Session{Username: "zoe"})), ShouldResemble, []string{"Ann", "Ben"})
			So(repo.ListVisible(ctx, model.Session{Username: "eve"}), ShouldBeEmpty)
		})

		Convey("Then a privileged session sees everything in directory order", func() {
			got := repo.ListVisible(ctx, model.Session{Username: "prosun07a", Privileged: true})
			So(names(got), ShouldResemble, []string{"Ann", "Ben", "Cid"})
		})

		Convey("Then the returned list is a copy", func() {
			got := repo.ListVisible(ctx, model.Session{Username: "zoe"})
			got[0].Name = "changed"
			So(repo.ListVisible(ctx, model.Session{Username: "zoe"})[0].Name, ShouldEqual, "Ann")
		})
	})
}

func TestReplace(t *testing.T) {
	ctx := context.Background()

	Convey("Given a repository", t, func() {
		store := &memStore{}
		repo := records.New(store, fixture())
		zoe := model.Session{Username: "zoe"}

		Convey("When a plain session replaces its records", func() {
			out, err := repo.Replace(ctx, zoe, []model.StudentRecord{row("Dee", "1")})

			Convey("Then the change is saved and visible", func() {
				So(err, ShouldBeNil)
				So(out, ShouldEqual, records.OutcomeSaved)
				So(store.saves, ShouldEqual, 1)
				So(names(repo.ListVisible(ctx, zoe)), ShouldResemble, []string{"Dee"})
			})
		})

		Convey("When a privileged session replaces records", func() {
			admin := model.Session{Username: "prosun07a", Privileged: true}
			out, err := repo.Replace(ctx, admin, []model.StudentRecord{row("X")})

			Convey("Then the save is denied and nothing changes", func() {
				So(err, ShouldBeNil)
				So(out, ShouldEqual, records.OutcomeDenied)
				So(store.saves, ShouldEqual, 0)
				So(names(repo.ListVisible(ctx, admin)), ShouldResemble, []string{"Ann", "Ben", "Cid"})
			})
		})

		Convey("When the account is unknown", func() {
			_, err := repo.Replace(ctx, model.Session{Username: "ghost"}, nil)
			So(errors.Is(err, records.ErrUnknownAccount), ShouldBeTrue)
		})

		Convey("When the store fails", func() {
			store.saveErr = repository.ErrStorageUnavailable
			_, err := repo.Replace(ctx, zoe, []model.StudentRecord{row("Dee")})

			Convey("Then the previous list is restored", func() {
				So(errors.Is(err, repository.ErrStorageUnavailable), ShouldBeTrue)
				So(names(repo.ListVisible(ctx, zoe)), ShouldResemble, []string{"Ann", "Ben"})
			})
		})

		Convey("When appending", func() {
			out, err := repo.Append(ctx, zoe, []model.StudentRecord{row("Eli")})
			So(err, ShouldBeNil)
			So(out, ShouldEqual, records.OutcomeSaved)
			So(names(repo.ListVisible(ctx, zoe)), ShouldResemble, []string{"Ann", "Ben", "Eli"})
		})
	})
}

func TestView(t *testing.T) {
	ctx := context.Background()

	Convey("Given an opened view", t, func() {
		store := &memStore{}
		repo := records.New(store, fixture())
		zoe := model.Session{Username: "zoe"}
		view := repo.Open(ctx, zoe)

		Convey("When appending a blank row", func() {
			i := view.Append()

			Convey("Then it exists only in the view", func() {
				So(i, ShouldEqual, 2)
				So(view.Len(), ShouldEqual, 3)
				So(view.Records()[2].IsBlank(), ShouldBeTrue)
				So(repo.ListVisible(ctx, zoe), ShouldHaveLength, 2)
				So(store.saves, ShouldEqual, 0)
			})

			Convey("Then filling and replacing makes it durable", func() {
				So(view.SetCell(i, 0, "Fay"), ShouldBeNil)
				_, err := repo.Replace(ctx, view.Session(), view.Records())
				So(err, ShouldBeNil)
				So(names(repo.ListVisible(ctx, zoe)), ShouldResemble, []string{"Ann", "Ben", "Fay"})
			})
		})

		Convey("When editing out of range", func() {
			So(errors.Is(view.Set(5, row("x")), records.ErrIndexOutOfRange), ShouldBeTrue)
			So(errors.Is(view.SetCell(-1, 0, "x"), records.ErrIndexOutOfRange), ShouldBeTrue)
			So(errors.Is(view.SetCell(0, 42, "x"), records.ErrIndexOutOfRange), ShouldBeTrue)
		})

		Convey("When setting a row", func() {
			So(view.Set(1, row("Bea", "9")), ShouldBeNil)
			So(names(view.Records()), ShouldResemble, []string{"Ann", "Bea"})
		})
	})
}

func TestFilter(t *testing.T) {
	Convey("Given named records", t, func() {
		recs := []model.StudentRecord{row("Anna"), row("Hannah"), row("Bob")}

		Convey("Then matching ignores case", func() {
			So(names(records.Filter(recs, "ANN")), ShouldResemble, []string{"Anna", "Hannah"})
		})

		Convey("Then an empty query matches all", func() {
			So(records.Filter(recs, " "), ShouldHaveLength, 3)
		})

		Convey("Then no match yields an empty list", func() {
			So(records.Filter(recs, "zed"), ShouldBeEmpty)
		})

		Convey("Then matches keep their positions in the full list", func() {
			So(records.FilterIndex(recs, "bob"), ShouldResemble, []int{2})
			So(records.FilterIndex(recs, "an"), ShouldResemble, []int{0, 1})
		})
	})
}
