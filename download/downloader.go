package download

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/lnget-cli/lnget/filesystem"
	"github.com/lnget-cli/lnget/log"
	"github.com/lnget-cli/lnget/source"
	"github.com/lnget-cli/lnget/util"
	"golang.org/x/sync/errgroup"
)

// Content is a chapter together with its body.
type Content struct {
	*source.Chapter
	Body string `json:"body"`
}

// Observer is told about every finished chapter. Calls are serialized.
type Observer interface {
	Start(total int)
	Done(chapter *source.Chapter, err error)
	Finish()
}

// Result lists what a download produced.
type Result struct {
	Files  []string
	Failed []*source.Chapter
}

// Downloader fetches chapters concurrently and binds them.
type Downloader struct {
	// Workers is the number of chapters fetched at once. Values below 1 mean 1.
	Workers  int
	Observer Observer
}

// Run fetches the job's chapters and writes the output files.
// Failed chapters are left out of the output and listed in the result.
func (d *Downloader) Run(ctx context.Context, job *Job) (*Result, error) {
	formats, err := ParseFormats(formatNames(job.Formats))
	if err != nil {
		return nil, err
	}
	job.Formats = formats

	contents, failed, err := d.fetch(ctx, job)
	if err != nil {
		return nil, err
	}
	if len(contents) == 0 {
		return &Result{Failed: failed}, fmt.Errorf("no chapter of %s could be downloaded", job.Novel.Title)
	}

	files, err := bind(job, contents)
	if err != nil {
		return nil, err
	}
	return &Result{Files: files, Failed: failed}, nil
}

func formatNames(formats []Format) []string {
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = string(f)
	}
	return names
}

// fetch returns contents in the order of job.Chapters.
func (d *Downloader) fetch(ctx context.Context, job *Job) ([]*Content, []*source.Chapter, error) {
	var (
		mu       sync.Mutex
		contents = make([]*Content, len(job.Chapters))
		failed   []*source.Chapter
	)

	if d.Observer != nil {
		d.Observer.Start(len(job.Chapters))
		defer d.Observer.Finish()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(util.Max(d.Workers, 1))

	for i, chapter := range job.Chapters {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			content, err := fetchChapter(job, chapter)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Warnf("chapter %d of %s: %s", chapter.ID, job.Novel.Title, err)
				failed = append(failed, chapter)
			} else {
				contents[i] = content
			}
			if d.Observer != nil {
				d.Observer.Done(chapter, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var ok []*Content
	for _, c := range contents {
		if c != nil {
			ok = append(ok, c)
		}
	}
	return ok, failed, nil
}

// fetchChapter reuses a stored body unless the job overwrites.
func fetchChapter(job *Job, chapter *source.Chapter) (*Content, error) {
	path := job.chapterPath(chapter)

	if !job.Overwrite {
		if data, err := filesystem.API().ReadFile(path); err == nil {
			var stored Content
			if json.Unmarshal(data, &stored) == nil && stored.Chapter != nil && stored.URL == chapter.URL {
				return &Content{Chapter: chapter, Body: stored.Body}, nil
			}
		}
	}

	body, err := job.Source.ChapterBody(chapter)
	if err != nil {
		return nil, err
	}

	content := &Content{Chapter: chapter, Body: body}
	data, err := json.Marshal(content)
	if err != nil {
		return nil, err
	}
	if err := filesystem.API().MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	if err := filesystem.API().WriteFile(path, data, 0o644); err != nil {
		return nil, err
	}
	return content, nil
}
