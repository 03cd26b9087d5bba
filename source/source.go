// Package source defines the novel domain model and the interface every source implements.
package source

// Capabilities a Source may advertise through CanDo.
const (
	CapabilityLogin  = "login"
	CapabilitySearch = "search"
)

// Source is a stateful handle to one novel site, bound for a session.
type Source interface {
	// Name is the display name of the source.
	Name() string

	// ID uniquely identifies the source across runs; persisted sessions refer to it.
	ID() string

	// CanDo reports whether the source supports the named capability.
	CanDo(capability string) bool

	// Login authenticates the session. Only called when CanDo(CapabilityLogin).
	Login(username, password string) error

	// Search returns novels matching query. Only called when CanDo(CapabilitySearch).
	Search(query string) ([]*SearchResult, error)

	// NovelInfo fetches metadata and the ordered chapter list of the novel at url.
	NovelInfo(url string) (*Novel, error)

	// ChapterBody fetches the content of a single chapter.
	ChapterBody(chapter *Chapter) (string, error)
}
