// Package templates embeds the code samples used to preview themes.
package templates

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

// DefaultSample is the sample shown when none is named.
const DefaultSample = "go"

// samples embeds one source file per language:
//   - samples/<language>.txt
//
//go:embed samples
var samples embed.FS

// SamplesFS returns the embedded filesystem rooted at the samples directory.
func SamplesFS() fs.FS {
	sub, err := fs.Sub(samples, "samples")
	if err != nil {
		panic(err) // the directory is embedded at build time
	}
	return sub
}

// SampleNames returns the available sample languages in sorted order.
func SampleNames() []string {
	entries, err := fs.ReadDir(SamplesFS(), ".")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && path.Ext(e.Name()) == ".txt" {
			names = append(names, strings.TrimSuffix(e.Name(), ".txt"))
		}
	}
	sort.Strings(names)
	return names
}

// Sample returns the source of the named sample, without its trailing newline.
func Sample(name string) (string, error) {
	if name == "" {
		name = DefaultSample
	}
	data, err := fs.ReadFile(SamplesFS(), name+".txt")
	if err != nil {
		return "", fmt.Errorf("unknown sample %q (available: %s)", name, strings.Join(SampleNames(), ", "))
	}
	return strings.TrimSuffix(string(data), "\n"), nil
}
