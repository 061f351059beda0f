package writer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dastanaron/bookmarks-convert/internal/diagnostics"
	"github.com/dastanaron/bookmarks-convert/internal/models"
	"github.com/dastanaron/bookmarks-convert/internal/timestamp"
	"github.com/dastanaron/bookmarks-convert/internal/utils"
)

// WriteError is a failed filesystem operation on one folder or bookmark
type WriteError struct {
	Op   string
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// FileOutput writes a directory per folder and a file per bookmark
type FileOutput struct {
	format Format
	names  utils.NameSanitizer
	diag   *diagnostics.Sink

	// names handed out per directory in this run, lower-cased so that
	// case-insensitive filesystems get distinct files too
	taken map[string]map[string]struct{}
}

// NewFileOutput creates a new file output
func NewFileOutput(format Format, names utils.NameSanitizer, diag *diagnostics.Sink) *FileOutput {
	if diag == nil {
		diag = diagnostics.New(nil)
	}
	return &FileOutput{
		format: format,
		names:  names,
		diag:   diag,
		taken:  make(map[string]map[string]struct{}),
	}
}

// EnterFolder creates the directory for a folder below parentDir
func (o *FileOutput) EnterFolder(parentDir, name string, depth int) (string, error) {
	base := o.claim(parentDir, o.names.Sanitize(name), "")
	dir := filepath.Join(parentDir, base)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", &WriteError{Op: "mkdir", Path: dir, Err: err}
	}
	o.diag.Infof("%s %s", strings.Repeat("*", depth+1), base)
	return dir, nil
}

// WriteBookmark writes b into dir, named after its sanitized title
func (o *FileOutput) WriteBookmark(b *models.Bookmark, dir string, depth int) error {
	base := o.names.Sanitize(b.Title)
	if strings.TrimSpace(b.Title) == "" {
		o.diag.MissingField("bookmark %q has no title, writing it as %s", b.URL, base)
	}
	if b.URL == "" {
		o.diag.MissingField("bookmark %q has no url", b.Title)
	}

	ext := o.format.Extension()
	path := filepath.Join(dir, o.claim(dir, base, ext)+ext)
	if err := o.writeFile(path, b); err != nil {
		return err
	}
	o.diag.Infof("+ %s", b.Title)
	return nil
}

// writeFile renders b into a new file at path. Closing the file and
// setting its modification time to the added date happen on every return
// path, including a failed write.
func (o *FileOutput) writeFile(path string, b *models.Bookmark) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return &WriteError{Op: "create", Path: path, Err: err}
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = &WriteError{Op: "close", Path: path, Err: cerr}
		}
		if terr := timestamp.Restamp(path, b.AddedAt); terr != nil && err == nil {
			err = &WriteError{Op: "restamp", Path: path, Err: terr}
		}
	}()

	if werr := Render(file, b, o.format); werr != nil {
		return &WriteError{Op: "write", Path: path, Err: werr}
	}
	return nil
}

// MaxComponentLength is the longest file or directory name written, in
// bytes, extension and collision suffix included
const MaxComponentLength = 255

// claim returns base, or base_2, base_3... if an earlier sibling already
// took that name in dir. base is shortened as needed so the name stays
// within MaxComponentLength.
func (o *FileOutput) claim(dir, base, ext string) string {
	taken, ok := o.taken[dir]
	if !ok {
		taken = make(map[string]struct{})
		o.taken[dir] = taken
	}

	suffix := ""
	for n := 2; ; n++ {
		name := fit(base, suffix, ext)
		key := strings.ToLower(name + ext)
		if _, dup := taken[key]; !dup {
			taken[key] = struct{}{}
			return name
		}
		suffix = fmt.Sprintf("_%d", n)
	}
}

// fit truncates base so that base+suffix+ext fits one path component.
// Sanitized names are ASCII, so bytes and characters agree.
func fit(base, suffix, ext string) string {
	room := MaxComponentLength - len(suffix) - len(ext)
	if room < 1 {
		room = 1
	}
	if len(base) > room {
		base = base[:room]
	}
	return base + suffix
}
