package custom

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lnget-cli/lnget/source"
	lua "github.com/yuin/gopher-lua"
)

func getString(table *lua.LTable, key string) string {
	val := table.RawGetString(key)
	if val.Type() == lua.LTString {
		return val.String()
	}
	return ""
}

// getInt reads a number or a numeric string; ok is false when the key is absent or malformed.
func getInt(table *lua.LTable, key string) (n int, ok bool) {
	switch val := table.RawGetString(key).(type) {
	case lua.LNumber:
		return int(val), true
	case lua.LString:
		n, err := strconv.Atoi(strings.TrimSpace(string(val)))
		return n, err == nil
	default:
		return 0, false
	}
}

func resultFromTable(table *lua.LTable) (*source.SearchResult, error) {
	title := getString(table, "title")
	url := getString(table, "url")
	if title == "" || url == "" {
		return nil, errors.New("search result must have title and url")
	}

	return &source.SearchResult{
		Title: title,
		URL:   url,
		Info:  getString(table, "info"),
	}, nil
}

// chapterFromTable converts a chapter entry. Missing ids fall back to the
// 1-based position; missing volumes are derived as one volume per 100 chapters.
func chapterFromTable(table *lua.LTable, position int) (*source.Chapter, error) {
	url := getString(table, "url")
	if url == "" {
		return nil, fmt.Errorf("chapter %d must have url", position)
	}

	id, ok := getInt(table, "id")
	if !ok {
		id = position
	}

	volume, ok := getInt(table, "volume")
	if !ok {
		volume = 1 + (id-1)/100
	}

	return &source.Chapter{
		ID:     id,
		Volume: volume,
		Title:  getString(table, "title"),
		URL:    url,
	}, nil
}

func novelFromTable(table *lua.LTable, requestedURL string) (*source.Novel, error) {
	novel := &source.Novel{
		Title:    getString(table, "title"),
		URL:      getString(table, "url"),
		Author:   getString(table, "author"),
		Cover:    getString(table, "cover"),
		Synopsis: getString(table, "synopsis"),
	}
	if novel.Title == "" {
		return nil, fmt.Errorf("novel at %s has no title", requestedURL)
	}
	if novel.URL == "" {
		novel.URL = requestedURL
	}

	if volumes, ok := table.RawGetString("volumes").(*lua.LTable); ok {
		forEachIndexed(volumes, func(i int, t *lua.LTable) {
			id, ok := getInt(t, "id")
			if !ok {
				id = i
			}
			novel.Volumes = append(novel.Volumes, &source.Volume{ID: id, Title: getString(t, "title")})
		})
	}

	chapters, ok := table.RawGetString("chapters").(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("novel %q has no chapter table", novel.Title)
	}

	// ForEach does not promise array order, so walk the array part by index.
	for i := 1; i <= chapters.Len(); i++ {
		t, ok := chapters.RawGetInt(i).(*lua.LTable)
		if !ok {
			continue
		}
		c, err := chapterFromTable(t, i)
		if err != nil {
			return nil, err
		}
		novel.Chapters = append(novel.Chapters, c)
	}

	return novel, nil
}
