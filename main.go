package main

import (
	"github.com/lnget-cli/lnget/cmd"
	"github.com/lnget-cli/lnget/config"
	"github.com/lnget-cli/lnget/internal/cache"
	"github.com/lnget-cli/lnget/log"
	"github.com/samber/lo"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	go func() {
		if err := cache.CollectGarbage(); err != nil {
			log.Warnf("cache cleanup: %s", err)
		}
	}()

	cmd.Execute()
}
