package auth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/okian/tracker/internal/auth"
	"github.com/okian/tracker/internal/domain/model"
	"github.com/okian/tracker/internal/domain/verify"
	. "github.com/smartystreets/goconvey/convey"
)

type memStore struct {
	saves   int
	saveErr error
	last    *model.Directory
}

func (m *memStore) Load(context.Context) *model.Directory { return model.NewDirectory() }

func (m *memStore) Save(_ context.Context, dir *model.Directory) error {
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.last = dir.Clone()
	return nil
}

func (m *memStore) Close() error { return nil }

func accept(context.Context, string) (bool, error) { return true, nil }
func reject(context.Context, string) (bool, error) { return false, nil }

func TestLogin(t *testing.T) {
	ctx := context.Background()

	Convey("Given a directory with one account", t, func() {
		dir := model.NewDirectory()
		dir.Add(model.Account{Username: "alice", Password: "pw", Email: "a@x"})
		svc := auth.New(&memStore{}, dir, verify.Func(accept))

		Convey("When the password matches", func() {
			sess, err := svc.Login(ctx, "alice", "pw")

			Convey("Then a normal session is issued", func() {
				So(err, ShouldBeNil)
				So(sess.Username, ShouldEqual, "alice")
				So(sess.Privileged, ShouldBeFalse)
				So(sess.ID, ShouldNotBeEmpty)
			})
		})

		Convey("When the password is wrong", func() {
			_, err := svc.Login(ctx, "alice", "nope")
			So(errors.Is(err, auth.ErrInvalidCredentials), ShouldBeTrue)
		})

		Convey("When the user is unknown", func() {
			_, err := svc.Login(ctx, "bob", "pw")
			So(errors.Is(err, auth.ErrInvalidCredentials), ShouldBeTrue)
		})

		Convey("When the author logs in", func() {
			sess, err := svc.Login(ctx, auth.DefaultAuthorUsername, auth.DefaultAuthorPassword)

			Convey("Then the session is privileged", func() {
				So(err, ShouldBeNil)
				So(sess.Privileged, ShouldBeTrue)
				So(svc.IsAuthor(sess.Username), ShouldBeTrue)
			})
		})

		Convey("When the author uses the wrong password", func() {
			_, err := svc.Login(ctx, auth.DefaultAuthorUsername, "x")
			So(errors.Is(err, auth.ErrInvalidCredentials), ShouldBeTrue)
		})
	})

	Convey("Given a store with no accounts at all", t, func() {
		dir := model.NewDirectory()
		svc := auth.New(&memStore{}, dir, verify.Func(accept))

		Convey("When the author logs in", func() {
			sess, err := svc.Login(ctx, auth.DefaultAuthorUsername, auth.DefaultAuthorPassword)

			Convey("Then a privileged session is issued without any account", func() {
				So(err, ShouldBeNil)
				So(sess.Privileged, ShouldBeTrue)
				So(sess.Username, ShouldEqual, auth.DefaultAuthorUsername)
				So(dir.Len(), ShouldEqual, 0)
			})
		})

		Convey("When anyone else logs in", func() {
			_, err := svc.Login(ctx, "alice", "pw")
			So(errors.Is(err, auth.ErrInvalidCredentials), ShouldBeTrue)
		})
	})

	Convey("Given a configured author identity", t, func() {
		svc := auth.New(&memStore{}, model.NewDirectory(), verify.Func(accept), auth.WithAuthor("root", "toor"))

		Convey("Then only the configured pair is privileged", func() {
			sess, err := svc.Login(ctx, "root", "toor")
			So(err, ShouldBeNil)
			So(sess.Privileged, ShouldBeTrue)

			_, err = svc.Login(ctx, auth.DefaultAuthorUsername, auth.DefaultAuthorPassword)
			So(errors.Is(err, auth.ErrInvalidCredentials), ShouldBeTrue)
		})
	})
}

func TestSignup(t *testing.T) {
	ctx := context.Background()

	Convey("Given an empty directory", t, func() {
		dir := model.NewDirectory()
		store := &memStore{}
		svc := auth.New(store, dir, verify.Func(accept))

		Convey("When signing up with all fields", func() {
			acc, err := svc.Signup(ctx, "bob", "pw", "bob@x")

			Convey("Then the account is added and saved with no records", func() {
				So(err, ShouldBeNil)
				So(acc.Students, ShouldBeEmpty)
				So(dir.Has("bob"), ShouldBeTrue)
				So(store.saves, ShouldEqual, 1)
				So(store.last.Has("bob"), ShouldBeTrue)
			})

			Convey("Then the new account can log in", func() {
				sess, err := svc.Login(ctx, "bob", "pw")
				So(err, ShouldBeNil)
				So(sess.Username, ShouldEqual, "bob")
			})

			Convey("Then the same name is refused", func() {
				_, err := svc.Signup(ctx, "bob", "other", "o@x")
				So(errors.Is(err, auth.ErrDuplicateUsername), ShouldBeTrue)
				So(store.saves, ShouldEqual, 1)
			})
		})

		Convey("When a field is empty", func() {
			for _, in := range [][3]string{{"", "p", "e"}, {"u", "", "e"}, {"u", "p", ""}} {
				_, err := svc.Signup(ctx, in[0], in[1], in[2])
				So(errors.Is(err, auth.ErrMissingField), ShouldBeTrue)
			}
			So(dir.Len(), ShouldEqual, 0)
			So(store.saves, ShouldEqual, 0)
		})

		Convey("When the author name is requested", func() {
			_, err := svc.Signup(ctx, auth.DefaultAuthorUsername, "p", "e")
			So(errors.Is(err, auth.ErrDuplicateUsername), ShouldBeTrue)
		})

		Convey("When the store cannot save", func() {
			store.saveErr = errors.New("disk full")
			_, err := svc.Signup(ctx, "bob", "pw", "bob@x")

			Convey("Then the error surfaces and the account is rolled back", func() {
				So(err, ShouldNotBeNil)
				So(dir.Has("bob"), ShouldBeFalse)
			})
		})
	})

	Convey("Given a verifier that rejects", t, func() {
		dir := model.NewDirectory()
		store := &memStore{}
		svc := auth.New(store, dir, verify.Func(reject))

		Convey("When signing up", func() {
			_, err := svc.Signup(ctx, "bob", "pw", "bob@x")

			Convey("Then nothing is created", func() {
				So(errors.Is(err, auth.ErrEmailVerificationFailed), ShouldBeTrue)
				So(dir.Len(), ShouldEqual, 0)
				So(store.saves, ShouldEqual, 0)
			})
		})
	})

	Convey("Given a verifier that fails", t, func() {
		boom := errors.New("stdin closed")
		svc := auth.New(&memStore{}, model.NewDirectory(), verify.Func(func(context.Context, string) (bool, error) {
			return false, boom
		}))

		Convey("Then the failure is a verification failure carrying the cause", func() {
			_, err := svc.Signup(ctx, "bob", "pw", "bob@x")
			So(errors.Is(err, auth.ErrEmailVerificationFailed), ShouldBeTrue)
			So(errors.Is(err, boom), ShouldBeTrue)
		})
	})

	Convey("Given a duplicate and a rejecting verifier", t, func() {
		dir := model.NewDirectory()
		dir.Add(model.Account{Username: "bob", Password: "pw", Email: "e"})
		called := false
		svc := auth.New(&memStore{}, dir, verify.Func(func(context.Context, string) (bool, error) {
			called = true
			return false, nil
		}))

		Convey("Then the duplicate is reported before verification runs", func() {
			_, err := svc.Signup(ctx, "bob", "x", "y")
			So(errors.Is(err, auth.ErrDuplicateUsername), ShouldBeTrue)
			So(called, ShouldBeFalse)
		})
	})
}
