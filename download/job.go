// Package download fetches chapter bodies and binds them into output files.
package download

import (
	"fmt"
	"path/filepath"

	"github.com/lnget-cli/lnget/source"
)

// Job is one novel to download. Source must be bound and logged in.
type Job struct {
	Source   source.Source
	Novel    *source.Novel
	Chapters []*source.Chapter

	// Dir is the output directory.
	Dir string

	// Filename overrides the output file name. FilenameOnly writes every
	// format straight into Dir instead of a directory per format.
	Filename     string
	FilenameOnly bool

	Formats      []Format
	PackByVolume bool

	// Overwrite refetches chapters already stored in Dir.
	Overwrite bool
}

func (j *Job) chapterPath(c *source.Chapter) string {
	return filepath.Join(j.Dir, "chapters", fmt.Sprintf("%05d.json", c.ID))
}

func (j *Job) basename() string {
	if j.Filename != "" {
		return j.Filename
	}
	return j.Novel.Dirname()
}

func (j *Job) outputPath(f Format, part string) string {
	name := j.basename()
	if part != "" {
		name += "_" + part
	}
	name += "." + f.Extension()

	if j.FilenameOnly {
		return filepath.Join(j.Dir, name)
	}
	return filepath.Join(j.Dir, string(f), name)
}
