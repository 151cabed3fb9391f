package query

import (
	"testing"

	"github.com/recap-cli/recap/filesystem"
	"github.com/recap-cli/recap/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
	viper.Set(key.SearchShowQuerySuggestions, true)
}

func TestQuery(t *testing.T) {
	Convey("Given query history", t, func() {
		q1 := "action items"
		q2 := "budget review"

		Convey("When remembering queries", func() {
			err := Remember(q1, 1)
			So(err, ShouldBeNil)
			err = Remember(q2, 10)
			So(err, ShouldBeNil)

			Convey("Then suggestions should be sorted by rank", func() {
				// Clear memory cache to force read from file
				suggestionCache = make(map[string][]*queryRecord)

				s := SuggestMany("bud")
				So(len(s), ShouldBeGreaterThanOrEqualTo, 1)
				So(s[0], ShouldEqual, "budget review")
			})

			Convey("It sanitizes input", func() {
				So(sanitize("  Action Items  "), ShouldEqual, "action items")
			})
		})
	})
}
