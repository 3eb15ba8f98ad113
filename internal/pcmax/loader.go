package pcmax

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
)

// ErrShortInstance reports instance data with fewer integers than its header
// announces.
var ErrShortInstance = errors.New("instance data ended early")

// Load parses "P N t1 ... tN" as whitespace separated integers. Data after the
// N-th processing time is ignored.
func Load(r io.Reader) (*Instance, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	sc.Split(bufio.ScanWords)

	next := func(what string) (int, error) {
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return 0, fmt.Errorf("read %s: %w", what, err)
			}
			return 0, fmt.Errorf("%w: missing %s", ErrShortInstance, what)
		}
		v, err := strconv.Atoi(sc.Text())
		if err != nil {
			return 0, fmt.Errorf("parse %s: %w", what, err)
		}
		return v, nil
	}

	processors, err := next("processor count")
	if err != nil {
		return nil, err
	}
	tasks, err := next("task count")
	if err != nil {
		return nil, err
	}
	if processors <= 0 || tasks <= 0 {
		return nil, fmt.Errorf("%w: processors=%d tasks=%d", ErrInvalidInstance, processors, tasks)
	}

	// The header is untrusted; grow with the data instead of sizing from it.
	times := make([]int, 0, min(tasks, 1<<16))
	for i := 0; i < tasks; i++ {
		v, err := next(fmt.Sprintf("time of task %d/%d", i+1, tasks))
		if err != nil {
			return nil, err
		}
		times = append(times, v)
	}
	return NewInstance(processors, times)
}

// LoadFile opens path and parses it with Load. Errors carry the path.
func LoadFile(path string) (*Instance, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	inst, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return inst, nil
}
