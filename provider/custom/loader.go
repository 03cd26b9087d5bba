// Package custom runs Lua scraper scripts as novel sources.
package custom

import (
	"fmt"

	"github.com/lnget-cli/lnget/constant"
	"github.com/lnget-cli/lnget/internal/scraper"
	"github.com/lnget-cli/lnget/util"
	libs "github.com/metafates/mangal-lua-libs"
	lua "github.com/yuin/gopher-lua"
)

// IDfromName is the provider id of the script with the given base name.
func IDfromName(name string) string {
	return name + " custom"
}

// LoadSource executes the script at path and validates the functions it must define.
func LoadSource(path string) (*luaSource, error) {
	state := lua.NewState()
	libs.Preload(state)
	registerTLSClient(state)

	if err := scraper.Load(state, path); err != nil {
		state.Close()
		return nil, err
	}

	name := util.FileStem(path)
	for _, fn := range []string{constant.NovelInfoFn, constant.ChapterBodyFn} {
		if state.GetGlobal(fn).Type() != lua.LTFunction {
			state.Close()
			return nil, fmt.Errorf("function %s is required but not defined in %s", fn, name)
		}
	}

	return newLuaSource(name, state), nil
}
