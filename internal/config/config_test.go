package config_test

import (
	"testing"

	"github.com/okian/tracker/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.StoreBackend, convey.ShouldEqual, config.BackendJSON)
			convey.So(cfg.AccountsPath, convey.ShouldEqual, "accounts.json")
			convey.So(cfg.AuthorUsername, convey.ShouldEqual, "prosun07a")
			convey.So(cfg.AuthorPassword, convey.ShouldEqual, "147911")
			convey.So(cfg.LinesPerPage, convey.ShouldEqual, 36)
			convey.So(cfg.HighlightCount, convey.ShouldEqual, 3)
			convey.So(cfg.MetricsFile, convey.ShouldBeEmpty)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}
