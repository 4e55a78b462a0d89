package crawler

import (
	"errors"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

// IgnoreFile is read from the scan root when present. It uses .gitignore syntax.
const IgnoreFile = ".stubignore"

// DefaultIgnored lists directories skipped unless the caller says otherwise.
var DefaultIgnored = []string{".git", "__pycache__", "node_modules"}

// Crawler scans a directory for stub files.
type Crawler struct {
	extensions []string
	patterns   []string
}

// NewCrawler creates a new crawler instance. Extensions default to ".pyi";
// patterns default to DefaultIgnored.
func NewCrawler(extensions, patterns []string) *Crawler {
	if len(extensions) == 0 {
		extensions = []string{".pyi"}
	}
	if patterns == nil {
		patterns = DefaultIgnored
	}
	return &Crawler{extensions: extensions, patterns: patterns}
}

// ScanProject walks root and calls onFile with the slash-separated path of
// every stub file relative to root.
func (c *Crawler) ScanProject(root string, onFile func(rel string) error) error {
	matcher, err := c.compile(root)
	if err != nil {
		return err
	}

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if matcher.MatchesPath(rel + "/") {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() || !c.hasStubExtension(d.Name()) || matcher.MatchesPath(rel) {
			return nil
		}
		return onFile(rel)
	})
}

// Collect returns the sorted relative paths of all stub files under root.
func (c *Crawler) Collect(root string) ([]string, error) {
	var files []string
	err := c.ScanProject(root, func(rel string) error {
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

func (c *Crawler) compile(root string) (*ignore.GitIgnore, error) {
	path := filepath.Join(root, IgnoreFile)
	matcher, err := ignore.CompileIgnoreFileAndLines(path, c.patterns...)
	if errors.Is(err, fs.ErrNotExist) {
		return ignore.CompileIgnoreLines(c.patterns...), nil
	}
	return matcher, err
}

func (c *Crawler) hasStubExtension(name string) bool {
	for _, ext := range c.extensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}
