// Package fixture loads fully-connected test vectors from YAML and turns them
// into runnable graphs.
//
// A fixture file holds one or more YAML documents, each describing a case:
//
//	name: worked-example
//	variant: q7        # q7, q15 or q15q7
//	layout: std        # std or opt
//	input: [1, 2, 3, 4]
//	weights:           # row-major, one list per output row
//	  - [1, 0, -1, 2]
//	  - [3, 3, 3, 3]
//	bias: [1, -2]
//	bias_shift: 0
//	out_shift: 0
//	expect: [7, 28]    # optional
//
// Weights are always written row-major; Build interleaves them when the case
// selects the optimized layout.
package fixture

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hunglethanh9/uTensor/internal/ops"
)

// ErrInvalidCase is returned for fixtures that do not describe a valid layer.
var ErrInvalidCase = errors.New("invalid fixture case")

// Case is one fully-connected test vector.
type Case struct {
	Name      string    `yaml:"name"`
	Variant   string    `yaml:"variant"`
	Layout    string    `yaml:"layout,omitempty"`
	Input     []int32   `yaml:"input"`
	Weights   [][]int32 `yaml:"weights"`
	Bias      []int32   `yaml:"bias"`
	BiasShift uint16    `yaml:"bias_shift"`
	OutShift  uint16    `yaml:"out_shift"`
	Expect    []int32   `yaml:"expect,omitempty"`

	variant ops.Variant
	layout  ops.Layout
}

// Load reads every case in the file at path.
func Load(path string) ([]*Case, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cases, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cases, nil
}

// Parse decodes and validates the YAML documents in data.
func Parse(data []byte) ([]*Case, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var cases []*Case
	for i := 0; ; i++ {
		var c Case
		if err := dec.Decode(&c); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("document %d: %w", i, err)
		}
		if c.Name == "" {
			c.Name = fmt.Sprintf("case-%d", i)
		}
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", c.Name, err)
		}
		cases = append(cases, &c)
	}
	return cases, nil
}

// OpName returns the registry name of the node the case builds.
func (c *Case) OpName() string {
	return ops.OpName(c.variant, c.layout)
}

// DimVec returns the input vector length.
func (c *Case) DimVec() int {
	return len(c.Input)
}

// NumRows returns the number of output rows.
func (c *Case) NumRows() int {
	return len(c.Weights)
}

// Validate checks the case and resolves its variant and layout. Parse calls it
// for every decoded document.
func (c *Case) Validate() error {
	var err error
	if c.variant, err = ops.ParseVariant(c.Variant); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidCase, err)
	}
	if c.layout, err = ops.ParseLayout(c.Layout); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidCase, err)
	}

	dimVec, numRows := c.DimVec(), c.NumRows()
	switch {
	case dimVec == 0:
		return fmt.Errorf("%w: empty input", ErrInvalidCase)
	case numRows == 0:
		return fmt.Errorf("%w: empty weights", ErrInvalidCase)
	case dimVec > 0xffff || numRows > 0xffff:
		return fmt.Errorf("%w: %dx%d exceeds 16-bit dimensions", ErrInvalidCase, numRows, dimVec)
	case len(c.Bias) != numRows:
		return fmt.Errorf("%w: %d bias values for %d rows", ErrInvalidCase, len(c.Bias), numRows)
	case c.Expect != nil && len(c.Expect) != numRows:
		return fmt.Errorf("%w: %d expected values for %d rows", ErrInvalidCase, len(c.Expect), numRows)
	}
	for i, row := range c.Weights {
		if len(row) != dimVec {
			return fmt.Errorf("%w: weight row %d has %d columns, want %d", ErrInvalidCase, i, len(row), dimVec)
		}
	}
	return nil
}
