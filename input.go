package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
	ignore "github.com/sabhiram/go-gitignore"
	"gopkg.in/yaml.v3"
)

var (
	// ErrNoInput is returned when discovery finds no declaration file.
	ErrNoInput = errors.New("no declaration files found")
	// ErrUnknownFormat is returned for a file that is not YAML or JSON.
	ErrUnknownFormat = errors.New("unknown declaration file format")
	// ErrInvalidPattern is returned for a malformed include/exclude glob.
	ErrInvalidPattern = errors.New("invalid glob pattern")
)

// DefaultInclude matches the files the external parser writes.
var DefaultInclude = []string{"*.{yaml,yml,json}"}

// declarationFile is the on-disk form of one parsed source file.
type declarationFile struct {
	Module string        `yaml:"module"`
	Items  []Declaration `yaml:"items"`
}

// InputOptions filters directory discovery.
type InputOptions struct {
	Include []string
	Exclude []string
	Logger  *slog.Logger
}

// DiscoverInputs expands paths into declaration files. Files named
// explicitly are always kept; directories are walked, honouring the
// root's .gitignore and the include/exclude globs.
func DiscoverInputs(paths []string, opts InputOptions) ([]string, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	include := opts.Include
	if len(include) == 0 {
		include = DefaultInclude
	}
	includes, err := compileGlobs(include)
	if err != nil {
		return nil, err
	}
	excludes, err := compileGlobs(opts.Exclude)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", root, err)
		}
		if !info.IsDir() {
			files = append(files, root)
			continue
		}

		var gitignore *ignore.GitIgnore
		if gi, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore")); err == nil {
			gitignore = gi
		}

		err = filepath.WalkDir(root, func(p string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			rel, err := filepath.Rel(root, p)
			if err != nil {
				return err
			}
			rel = filepath.ToSlash(rel)
			if rel == "." {
				return nil
			}
			if d.IsDir() {
				if d.Name() == ".git" || (gitignore != nil && gitignore.MatchesPath(rel+"/")) {
					return filepath.SkipDir
				}
				return nil
			}
			if gitignore != nil && gitignore.MatchesPath(rel) {
				logger.Debug("skipping ignored file", "path", rel)
				return nil
			}
			if !matchAny(includes, rel) || matchAny(excludes, rel) {
				return nil
			}
			files = append(files, p)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", root, err)
		}
	}

	if len(files) == 0 {
		return nil, ErrNoInput
	}
	logger.Info("discovered declaration files", "count", len(files))
	return files, nil
}

// compileGlobs compiles patterns with `/` as the separator.
func compileGlobs(patterns []string) ([]glob.Glob, error) {
	matchers := make([]glob.Glob, 0, len(patterns))
	for _, pattern := range patterns {
		matcher, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, errors.Join(ErrInvalidPattern, err)
		}
		matchers = append(matchers, matcher)
	}
	return matchers, nil
}

// matchAny matches either the slash-separated relative path or its base name.
func matchAny(matchers []glob.Glob, rel string) bool {
	base := path.Base(rel)
	for _, m := range matchers {
		if m.Match(rel) || m.Match(base) {
			return true
		}
	}
	return false
}

// LoadDeclarations decodes every file and concatenates the streams in the
// order given. Any failure aborts the whole load.
func LoadDeclarations(files []string, logger *slog.Logger) ([]Declaration, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var decls []Declaration
	for _, file := range files {
		switch strings.ToLower(filepath.Ext(file)) {
		case ".yaml", ".yml", ".json":
		default:
			return nil, fmt.Errorf("%s: %w", file, ErrUnknownFormat)
		}
		f, err := os.Open(file)
		if err != nil {
			return nil, err
		}
		items, err := DecodeDeclarations(f, ModulePath(file))
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", file, err)
		}
		logger.Debug("decoded declarations", "file", file, "items", len(items))
		decls = append(decls, items...)
	}
	return decls, nil
}

// DecodeDeclarations reads one declaration file, which may hold several
// YAML documents. JSON is accepted as YAML. Items without their own module
// tag inherit their document's, then fallback.
func DecodeDeclarations(r io.Reader, fallback string) ([]Declaration, error) {
	var decls []Declaration
	dec := yaml.NewDecoder(r)
	for {
		var doc declarationFile
		if err := dec.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				return decls, nil
			}
			return nil, err
		}
		module := doc.Module
		if module == "" {
			module = fallback
		}
		for i := range doc.Items {
			if doc.Items[i].Module == "" {
				doc.Items[i].Module = module
			}
		}
		decls = append(decls, doc.Items...)
	}
}

// ModulePath derives the module tag of a file: its path without extension,
// leading component dropped, joined with `::`.
func ModulePath(file string) string {
	p := filepath.ToSlash(filepath.Clean(file))
	p = strings.TrimSuffix(p, path.Ext(p))
	p = strings.TrimPrefix(p, "./")
	parts := strings.Split(strings.Trim(p, "/"), "/")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	return strings.Join(parts, "::")
}
