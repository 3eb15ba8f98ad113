package bench

import (
	"fmt"
	"math/rand"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"pcmax/internal/pcmax"
)

// Case is one benchmark instance: a file when Path is set, otherwise a random
// instance generated from InstanceSeed.
type Case struct {
	Name         string
	Path         string
	Processors   int
	Tasks        int
	InstanceSeed int64
}

func (c Case) Instance() (*pcmax.Instance, error) {
	if c.Path != "" {
		return pcmax.LoadFile(c.Path)
	}
	if c.Processors <= 0 || c.Tasks <= 0 {
		return nil, fmt.Errorf("case %q: processors and tasks must be > 0", c.Name)
	}
	return pcmax.RandomInstance(c.Processors, c.Tasks, 1, 99, rand.New(rand.NewSource(c.InstanceSeed))), nil
}

// GlobCases expands a doublestar pattern (e.g. "data/**/*.txt") into file
// cases, sorted by path. Processor and task counts are filled from the files.
func GlobCases(pattern string) ([]Case, error) {
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("pattern %q: %w", pattern, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no files matched the pattern: %s", pattern)
	}
	sort.Strings(matches)

	cases := make([]Case, 0, len(matches))
	for _, path := range matches {
		inst, err := pcmax.LoadFile(path)
		if err != nil {
			return nil, err
		}
		cases = append(cases, Case{
			Name:       strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
			Path:       path,
			Processors: inst.Processors,
			Tasks:      inst.Tasks,
		})
	}
	return cases, nil
}
