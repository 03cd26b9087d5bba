// Package constant defines immutable application-level identifiers and configuration defaults.
package constant

// Scraper function names a Lua source may define.
// NovelInfoFn and ChapterBodyFn are required, the rest are optional capabilities.
const (
	SearchNovelsFn = "SearchNovels"
	NovelInfoFn    = "NovelInfo"
	ChapterBodyFn  = "ChapterBody"
	LoginFn        = "Login"
)

// SourceTemplate is a Go text/template for scaffolding new Lua scraper files.
const SourceTemplate = `{{ $divider := repeat "-" (plus (max (len .URL) (len .Name) (len .Author) 3) 12) }}{{ $divider }}
-- @name    {{ .Name }}
-- @url     {{ .URL }}
-- @author  {{ .Author }}
-- @license MIT
{{ $divider }}


---@alias result { title: string, url: string, info: string|nil }
---@alias chapter { id: number, volume: number|nil, title: string, url: string }
---@alias novel { title: string, url: string, author: string|nil, cover: string|nil, synopsis: string|nil, volumes: table|nil, chapters: chapter[] }


----- IMPORTS -----
--- END IMPORTS ---



----- MAIN -----

--- Searches for novels with given query. Remove it if the site has no search.
-- @param query string Query to search for
-- @return result[] Table of search results
function {{ .SearchNovelsFn }}(query)
	return {}
end


--- Gets the novel metadata and its chapter list.
-- @param novelURL string URL of the novel
-- @return novel
function {{ .NovelInfoFn }}(novelURL)
	return { title = "", url = novelURL, chapters = {} }
end


--- Gets the chapter body as HTML or plain text.
-- @param chapterURL string URL of the chapter
-- @return string
function {{ .ChapterBodyFn }}(chapterURL)
	return ""
end


--- END MAIN ---

-- ex: ts=4 sw=4 et filetype=lua
`
