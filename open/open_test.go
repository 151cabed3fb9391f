package open

import (
	"runtime"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/recap-cli/recap/constant"
)

func TestCommand(t *testing.T) {
	Convey("command", t, func() {
		supported := []string{constant.Windows, constant.Darwin, constant.Linux, constant.Android}

		Convey("The running platform is supported", func() {
			So(supported, ShouldContain, runtime.GOOS)

			cmd, ok := command("https://example.org")
			So(ok, ShouldBeTrue)
			So(cmd.Args, ShouldContain, "https://example.org")
		})

		Convey("An application override keeps the target", func() {
			cmd, ok := commandWith("https://example.org", "mpv")
			So(ok, ShouldBeTrue)
			So(cmd.Args, ShouldContain, "https://example.org")
		})
	})
}
