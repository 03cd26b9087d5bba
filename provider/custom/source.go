package custom

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/lnget-cli/lnget/constant"
	"github.com/lnget-cli/lnget/internal/cache"
	"github.com/lnget-cli/lnget/source"
	lua "github.com/yuin/gopher-lua"
)

type luaSource struct {
	name  string
	state *lua.LState

	// LState is not safe for concurrent use; downloads call ChapterBody from workers.
	mu sync.Mutex
}

func newLuaSource(name string, state *lua.LState) *luaSource {
	return &luaSource{name: name, state: state}
}

func (s *luaSource) Name() string {
	return s.name
}

func (s *luaSource) ID() string {
	return IDfromName(s.name)
}

func (s *luaSource) CanDo(capability string) bool {
	switch capability {
	case source.CapabilitySearch:
		return s.defines(constant.SearchNovelsFn)
	case source.CapabilityLogin:
		return s.defines(constant.LoginFn)
	default:
		return false
	}
}

func (s *luaSource) defines(fn string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.GetGlobal(fn).Type() == lua.LTFunction
}

func (s *luaSource) Login(username, password string) error {
	_, err := s.call(constant.LoginFn, lua.LTNil, lua.LString(username), lua.LString(password))
	return err
}

func (s *luaSource) Search(query string) ([]*source.SearchResult, error) {
	cacheKey := cache.Key(query, s.ID()+"/search")
	if cached, ok := cache.Read[[]*source.SearchResult](cacheKey); ok {
		for _, r := range cached {
			r.Source = s.ID()
		}
		return cached, nil
	}

	val, err := s.call(constant.SearchNovelsFn, lua.LTTable, lua.LString(query))
	if err != nil {
		return nil, err
	}

	var (
		results []*source.SearchResult
		errs    []error
	)
	forEachIndexed(val.(*lua.LTable), func(_ int, t *lua.LTable) {
		r, err := resultFromTable(t)
		if err != nil {
			errs = append(errs, err)
			return
		}
		r.Source = s.ID()
		results = append(results, r)
	})

	if len(results) == 0 && len(errs) > 0 {
		return nil, errs[0]
	}
	if len(results) > 0 {
		_ = cache.Write(cacheKey, results)
	}
	return results, nil
}

func (s *luaSource) NovelInfo(url string) (*source.Novel, error) {
	cacheKey := cache.Key(url, s.ID()+"/novel")
	if cached, ok := cache.Read[*source.Novel](cacheKey); ok && cached != nil {
		return cached, nil
	}

	val, err := s.call(constant.NovelInfoFn, lua.LTTable, lua.LString(url))
	if err != nil {
		return nil, err
	}

	novel, err := novelFromTable(val.(*lua.LTable), url)
	if err != nil {
		return nil, err
	}
	if err := novel.Validate(); err != nil {
		return nil, err
	}

	if len(novel.Chapters) > 0 {
		_ = cache.Write(cacheKey, novel)
	}
	return novel, nil
}

func (s *luaSource) ChapterBody(chapter *source.Chapter) (string, error) {
	val, err := s.call(constant.ChapterBodyFn, lua.LTString, lua.LString(chapter.URL))
	if err != nil {
		return "", err
	}
	return val.String(), nil
}

// call runs a global function and checks its single return value has type ret.
// LTNil accepts any return value.
func (s *luaSource) call(fn string, ret lua.LValueType, args ...lua.LValue) (lua.LValue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	luaFn := s.state.GetGlobal(fn)
	if luaFn.Type() != lua.LTFunction {
		return nil, fmt.Errorf("%s: function %s is not defined", s.name, fn)
	}

	if err := s.state.CallByParam(lua.P{Fn: luaFn, NRet: 1, Protect: true}, args...); err != nil {
		return nil, fmt.Errorf("%s: %s: %w", s.name, fn, err)
	}

	val := s.state.Get(-1)
	s.state.Pop(1)

	if ret != lua.LTNil && val.Type() != ret {
		return nil, fmt.Errorf("%s: %s returned %s, expected %s", s.name, fn, val.Type(), ret)
	}
	return val, nil
}

// forEachIndexed visits the array part of t, skipping non-table values.
func forEachIndexed(t *lua.LTable, visit func(i int, item *lua.LTable)) {
	t.ForEach(func(k, v lua.LValue) {
		if k.Type() != lua.LTNumber || v.Type() != lua.LTTable {
			return
		}
		i, err := strconv.Atoi(k.String())
		if err != nil {
			return
		}
		visit(i, v.(*lua.LTable))
	})
}
