package session

import (
	"fmt"
	"time"

	"github.com/invopop/jsonschema"
	"github.com/lnget-cli/lnget/filesystem"
	"github.com/lnget-cli/lnget/where"
	"github.com/metafates/gache"
	"github.com/samber/lo"
	"golang.org/x/exp/slices"
)

type sessions = map[string]*Session

func store() *gache.Cache[sessions] {
	return gache.New[sessions](&gache.Options{
		Path:       where.Sessions(),
		FileSystem: &filesystem.GacheFs{},
	})
}

func load(c *gache.Cache[sessions]) (sessions, error) {
	cached, expired, err := c.Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return make(sessions), nil
	}
	return cached, nil
}

// Save persists s so it can be resumed.
func Save(s *Session) error {
	c := store()
	saved, err := load(c)
	if err != nil {
		return err
	}

	s.Updated = time.Now()
	saved[s.ID] = s
	return c.Set(saved)
}

// List returns the saved sessions, most recently updated first.
func List() ([]*Session, error) {
	saved, err := load(store())
	if err != nil {
		return nil, err
	}

	list := lo.Values(saved)
	slices.SortFunc(list, func(a, b *Session) int {
		return b.Updated.Compare(a.Updated)
	})
	return list, nil
}

// Find returns the saved session with the given id or id prefix.
// An empty id finds the most recent unfinished session.
func Find(id string) (*Session, error) {
	list, err := List()
	if err != nil {
		return nil, err
	}

	var matches []*Session
	if id == "" {
		matches = lo.Filter(list, func(s *Session, _ int) bool { return !s.Completed })
		if len(matches) == 0 {
			return nil, fmt.Errorf("no unfinished session to resume")
		}
		return matches[0], nil
	}

	matches = lo.Filter(list, func(s *Session, _ int) bool {
		return len(id) <= len(s.ID) && s.ID[:len(id)] == id
	})
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("no session %q", id)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("session id %q is ambiguous", id)
	}
}

// Remove deletes the saved session with the given id.
func Remove(id string) error {
	c := store()
	saved, err := load(c)
	if err != nil {
		return err
	}
	if _, ok := saved[id]; !ok {
		return fmt.Errorf("no session %q", id)
	}

	delete(saved, id)
	return c.Set(saved)
}

// Schema describes the persisted session format.
func Schema() *jsonschema.Schema {
	return new(jsonschema.Reflector).Reflect(&Session{})
}
