package strtables

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const (
	extStrings     = ".strings"
	extStringsdict = ".stringsdict"
)

// TableFile is a discovered table file with its inferred table and locale.
type TableFile struct {
	Path   string
	Table  string
	Locale Locale
	Format Format
}

// NewTableFile classifies path by extension and directory.
func NewTableFile(p string) (TableFile, error) {
	format, err := formatOf(p)
	if err != nil {
		return TableFile{}, err
	}
	base := filepath.Base(filepath.ToSlash(p))
	table := strings.TrimSuffix(base, filepath.Ext(base))
	if table == "" {
		return TableFile{}, fmt.Errorf("strtables: cannot derive a table name from %s", p)
	}
	return TableFile{
		Path:   p,
		Table:  table,
		Locale: LocaleFromPath(p),
		Format: format,
	}, nil
}

func formatOf(p string) (Format, error) {
	switch ext := filepath.Ext(p); strings.ToLower(ext) {
	case extStrings:
		return FormatStrings, nil
	case extStringsdict:
		return FormatStringsdict, nil
	default:
		return "", fmt.Errorf("%w %q for %s (supported: %s, %s)", ErrUnsupportedExtension, ext, p, extStrings, extStringsdict)
	}
}

// FileLoader reads table files from the OS or from an fs.FS. Paths may name
// files or directories; directories are walked for table files.
type FileLoader struct {
	paths       []string
	fsys        fs.FS
	concurrency int
	logger      *slog.Logger
}

func NewFileLoader(paths ...string) *FileLoader {
	return &FileLoader{paths: append([]string(nil), paths...)}
}

// NewFSLoader reads from fsys; paths default to the root.
func NewFSLoader(fsys fs.FS, paths ...string) *FileLoader {
	if len(paths) == 0 {
		paths = []string{"."}
	}
	return &FileLoader{paths: append([]string(nil), paths...), fsys: fsys}
}

// WithConcurrency bounds the number of files parsed at once.
func (l *FileLoader) WithConcurrency(n int) *FileLoader {
	if l == nil {
		return l
	}
	l.concurrency = n
	return l
}

func (l *FileLoader) WithLogger(logger *slog.Logger) *FileLoader {
	if l == nil {
		return l
	}
	l.logger = logger
	return l
}

// Discover resolves the configured paths into table files sorted by path.
func (l *FileLoader) Discover() ([]TableFile, error) {
	if l == nil || len(l.paths) == 0 {
		return nil, ErrNoPaths
	}

	seen := make(map[string]struct{})
	var files []TableFile
	add := func(p string) error {
		if _, ok := seen[p]; ok {
			return nil
		}
		file, err := NewTableFile(p)
		if err != nil {
			return err
		}
		seen[p] = struct{}{}
		files = append(files, file)
		return nil
	}

	for _, root := range l.paths {
		if l.fsys != nil {
			root = path.Clean(root)
		}
		info, err := l.stat(root)
		if err != nil {
			return nil, fmt.Errorf("strtables: stat %s: %w", root, err)
		}
		if !info.IsDir() {
			if err := add(root); err != nil {
				return nil, err
			}
			continue
		}

		err = l.walk(root, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			if _, err := formatOf(p); err != nil {
				return nil
			}
			return add(p)
		})
		if err != nil {
			return nil, fmt.Errorf("strtables: walk %s: %w", root, err)
		}
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Path < files[j].Path
	})
	return files, nil
}

type parsedFile struct {
	table *LocalizedTable
	diags Diagnostics
}

// Load discovers and parses every table file. Files are parsed concurrently
// but results keep path order, so diagnostics are reproducible.
func (l *FileLoader) Load() (Tables, Diagnostics, error) {
	files, err := l.Discover()
	if err != nil {
		return nil, nil, err
	}

	results := make([]parsedFile, len(files))
	var g errgroup.Group
	if l.concurrency > 0 {
		g.SetLimit(l.concurrency)
	}

	for i, file := range files {
		g.Go(func() error {
			data, err := l.readFile(file.Path)
			if err != nil {
				return fmt.Errorf("strtables: read %s: %w", file.Path, err)
			}
			table, diags, err := ParseTableFile(file, data)
			if err != nil {
				return err
			}
			results[i] = parsedFile{table: table, diags: diags}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	tables := make(Tables, 0, len(results))
	var diags Diagnostics
	for i, result := range results {
		l.log().Debug("loaded table file",
			slog.String("path", files[i].Path),
			slog.String("table", files[i].Table),
			slog.String("locale", files[i].Locale.String()),
			slog.Int("entries", result.table.Len()),
		)
		tables = append(tables, result.table)
		diags.Add(result.diags...)
	}
	return tables, diags, nil
}

// ParseTableFile parses the content of one table file into a bucket.
func ParseTableFile(file TableFile, data []byte) (*LocalizedTable, Diagnostics, error) {
	switch file.Format {
	case FormatStrings:
		text, err := decodeText(data)
		if err != nil {
			return nil, nil, fmt.Errorf("strtables: decode %s: %w", file.Path, err)
		}
		return parseStringsTable(file, text)
	case FormatStringsdict:
		root, err := DecodeStringsdict(file.Path, data)
		if err != nil {
			return nil, nil, err
		}
		entries, diags := ResolveStringsdict(file.Table, file.Locale, file.Path, root)
		return NewLocalizedTable(file.Table, file.Locale, entries, file.Path), diags, nil
	default:
		return nil, nil, fmt.Errorf("%w %q for %s", ErrUnsupportedExtension, file.Format, file.Path)
	}
}

func parseStringsTable(file TableFile, text string) (*LocalizedTable, Diagnostics, error) {
	raw, err := ParseStrings(file.Path, text)
	if err != nil {
		return nil, nil, err
	}

	var diags Diagnostics
	where := file.Locale.WithTable(file.Table + extStrings)
	entries := make([]Entry, 0, len(raw))
	lines := make(map[string]int, len(raw))

	for _, parsed := range raw {
		first, redefined := lines[parsed.Key]
		if redefined {
			diags.Add(Diagnostic{
				Kind:    DiagDuplicateKey,
				Table:   file.Table,
				Locale:  file.Locale,
				Key:     parsed.Key,
				Message: fmt.Sprintf("Duplicate key '%s' in %s on lines %d and %d, using the last value", parsed.Key, where, first, parsed.Line),
			})
		}
		lines[parsed.Key] = parsed.Line

		specs, err := Specifiers(parsed.Value)
		if err != nil {
			message := fmt.Sprintf("Non-specifier reference in %s: %s = %s", where, parsed.Key, parsed.Value)
			if redefined {
				message += fmt.Sprintf(", the earlier value on line %d is dropped as well", first)
			}
			diags.Add(Diagnostic{
				Kind:    DiagNonSpecifierReference,
				Table:   file.Table,
				Locale:  file.Locale,
				Key:     parsed.Key,
				Message: message,
				Err:     err,
			})
			delete(lines, parsed.Key)
			entries = dropKey(entries, parsed.Key)
			continue
		}

		entries = append(entries, Entry{
			Key:        parsed.Key,
			Value:      parsed.Value,
			Specifiers: specs,
			Comment:    parsed.Comment,
			Source:     file.Path,
		})
	}

	return NewLocalizedTable(file.Table, file.Locale, entries, file.Path), diags, nil
}

func dropKey(entries []Entry, key string) []Entry {
	out := entries[:0]
	for _, entry := range entries {
		if entry.Key != key {
			out = append(out, entry)
		}
	}
	return out
}

// decodeText accepts UTF-8 with or without BOM and UTF-16 with BOM.
func decodeText(data []byte) (string, error) {
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	out, _, err := transform.Bytes(decoder, data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func (l *FileLoader) stat(p string) (fs.FileInfo, error) {
	if l.fsys != nil {
		return fs.Stat(l.fsys, p)
	}
	return os.Stat(p)
}

func (l *FileLoader) walk(root string, fn fs.WalkDirFunc) error {
	if l.fsys != nil {
		return fs.WalkDir(l.fsys, root, fn)
	}
	return filepath.WalkDir(root, fn)
}

func (l *FileLoader) readFile(p string) ([]byte, error) {
	if l.fsys != nil {
		return fs.ReadFile(l.fsys, p)
	}
	return os.ReadFile(p)
}

func (l *FileLoader) log() *slog.Logger {
	if l.logger == nil {
		return nopLogger
	}
	return l.logger
}
