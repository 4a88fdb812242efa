package sortlite

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// LoadLabels reads the class labels of the detector from the given text
// file.  It should contain one label per line, the line number being the
// class label.
func LoadLabels(file string) ([]string, error) {

	f, err := os.Open(file)

	if err != nil {
		return nil, fmt.Errorf("error opening file: %w", err)
	}

	defer f.Close()

	scanner := bufio.NewScanner(f)

	var labels []string

	for scanner.Scan() {
		labels = append(labels, strings.TrimSpace(scanner.Text()))
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}

	return labels, nil
}

// LabelFilter selects detections by class name
type LabelFilter struct {
	keep map[int]bool
}

// NewLabelFilter returns a filter keeping the classes named in keep.  Names
// not found in labels are returned as an error.
func NewLabelFilter(labels []string, keep ...string) (*LabelFilter, error) {

	index := make(map[string]int, len(labels))

	for i, name := range labels {
		if _, exists := index[name]; !exists {
			index[name] = i
		}
	}

	lf := &LabelFilter{keep: make(map[int]bool)}

	for _, name := range keep {
		i, ok := index[name]

		if !ok {
			return nil, fmt.Errorf("unknown label %q", name)
		}

		lf.keep[i] = true
	}

	return lf, nil
}

// Keep reports whether detections of the class label should be tracked.  An
// empty filter keeps everything.
func (lf *LabelFilter) Keep(label int) bool {
	if lf == nil || len(lf.keep) == 0 {
		return true
	}
	return lf.keep[label]
}
