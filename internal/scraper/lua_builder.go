// Package scraper compiles and runs Lua scraper scripts.
package scraper

import (
	"sync"

	"github.com/lnget-cli/lnget/filesystem"
	lua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/parse"
)

var protos sync.Map

// Load runs the script at path inside L, reusing its compiled prototype across states.
func Load(L *lua.LState, path string) error {
	if cached, ok := protos.Load(path); ok {
		L.Push(L.NewFunctionFromProto(cached.(*lua.FunctionProto)))
		return L.PCall(0, lua.MultRet, nil)
	}

	file, err := filesystem.API().Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	chunk, err := parse.Parse(file, path)
	if err != nil {
		return err
	}

	proto, err := lua.Compile(chunk, path)
	if err != nil {
		return err
	}
	protos.Store(path, proto)

	L.Push(L.NewFunctionFromProto(proto))
	return L.PCall(0, lua.MultRet, nil)
}

// Forget drops the compiled prototype for path, e.g. after the script was replaced.
func Forget(path string) {
	protos.Delete(path)
}
