// Package assets holds the files compiled into the server binary:
// SQL migrations per dialect and the JSON schemas used to validate
// request payloads.
package assets

import (
	"embed"
	"io/fs"
	"path"
	"sort"
	"strings"
)

//go:embed migrations schemas
var FS embed.FS

// Migration is a single SQL script, identified by its file name.
type Migration struct {
	Name string
	SQL  string
}

func readDir(dir, suffix string) ([]string, error) {
	entries, err := fs.ReadDir(FS, dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), suffix) {
			continue
		}
		names = append(names, path.Join(dir, e.Name()))
	}
	sort.Strings(names)
	return names, nil
}

// Migrations returns the scripts for dialect ("sqlite" or "postgres")
// in lexical order.
func Migrations(dialect string) ([]Migration, error) {
	names, err := readDir(path.Join("migrations", dialect), ".sql")
	if err != nil {
		return nil, err
	}
	out := make([]Migration, 0, len(names))
	for _, n := range names {
		b, err := FS.ReadFile(n)
		if err != nil {
			return nil, err
		}
		out = append(out, Migration{Name: path.Base(n), SQL: string(b)})
	}
	return out, nil
}

// SchemaDocuments returns every embedded JSON schema document.
func SchemaDocuments() ([]string, error) {
	names, err := readDir("schemas", ".json")
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(names))
	for _, n := range names {
		b, err := FS.ReadFile(n)
		if err != nil {
			return nil, err
		}
		out = append(out, string(b))
	}
	return out, nil
}
