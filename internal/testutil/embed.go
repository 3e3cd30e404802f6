package testutil

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"
)

// TestdataFS holds the embedded test data files.
//
//go:embed testdata
var TestdataFS embed.FS

// ReadTestData reads and returns the content of an embedded test file.
func ReadTestData(name string) ([]byte, error) {
	p := fmt.Sprintf("testdata/%s", name)
	data, err := fs.ReadFile(TestdataFS, p)
	if err != nil {
		return nil, fmt.Errorf("failed to read test data file '%s': %w", name, err)
	}
	return data, nil
}

// Fixture is an embedded test document.
type Fixture struct {
	// Name is the file name without directory, e.g. "sample1.xtn".
	Name string
	// Base is Name without the extension.
	Base string
	Data []byte
}

// Fixtures returns every .xtn file of the embedded directory dir
// ("valid" or "invalid"), sorted by name.
func Fixtures(dir string) ([]Fixture, error) {
	matches, err := fs.Glob(TestdataFS, path.Join("testdata", dir, "*.xtn"))
	if err != nil {
		return nil, err
	}
	fixtures := make([]Fixture, 0, len(matches))
	for _, m := range matches {
		data, err := fs.ReadFile(TestdataFS, m)
		if err != nil {
			return nil, err
		}
		name := path.Base(m)
		fixtures = append(fixtures, Fixture{
			Name: name,
			Base: strings.TrimSuffix(name, ".xtn"),
			Data: data,
		})
	}
	return fixtures, nil
}
