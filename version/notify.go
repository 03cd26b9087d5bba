package version

import (
	"context"
	"fmt"
	"time"

	"github.com/lnget-cli/lnget/color"
	"github.com/lnget-cli/lnget/constant"
	"github.com/lnget-cli/lnget/icon"
	"github.com/lnget-cli/lnget/key"
	"github.com/lnget-cli/lnget/log"
	"github.com/lnget-cli/lnget/style"
	"github.com/lnget-cli/lnget/util"
	"github.com/spf13/viper"
)

// Notify prints a notice when a newer release than the running one exists.
func Notify(ctx context.Context) {
	if !viper.GetBool(key.CliVersionCheck) {
		return
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	erase := util.PrintErasable(fmt.Sprintf("%s Checking if new version is available...", icon.Get(icon.Progress)))
	latest, err := Latest(ctx)
	erase()
	if err != nil {
		log.Warnf("version check: %s", err)
		return
	}

	if comp, err := Compare(latest, constant.Version); err != nil || comp <= 0 {
		return
	}

	fmt.Printf(`
%s New version is available %s %s
%s

`,
		style.Fg(color.Green)("▇▇▇"),
		style.Bold(latest),
		style.Faint(fmt.Sprintf("(You're on %s)", constant.Version)),
		style.Faint("https://github.com/lnget-cli/lnget/releases/tag/v"+latest),
	)
}
