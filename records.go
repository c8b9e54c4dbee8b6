// SPDX-License-Identifier: MIT
package idtree

import (
	"context"
	"errors"
	"fmt"
	"io"

	"golang.org/x/exp/constraints"
	"gopkg.in/yaml.v3"
)

// Record decoding errors.
var ErrDecodeRecords = errors.New("failed to decode records")

// DecodeRecords reads a YAML sequence of parent-pointer records.
//
//	- id: 1
//	  value: a
//	- id: 2
//	  parentId: 1
//	  value: b
func DecodeRecords[K constraints.Integer, V any](r io.Reader) (nodes []Node[K, V], err error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	if err = decoder.Decode(&nodes); err != nil {
		if errors.Is(err, io.EOF) {
			return []Node[K, V]{}, nil
		}

		return nil, fmt.Errorf("%w: %w", ErrDecodeRecords, err)
	}

	return
}

// Load decodes records from r & builds a [Tree] regardless of their order.
func Load[K constraints.Integer, V any](ctx context.Context, r io.Reader, options ...Option) (*Tree[K, V], error) {
	nodes, err := DecodeRecords[K, V](r)
	if err != nil {
		return nil, err
	}

	if len(nodes) < 1 {
		return New[K, V](options...), nil
	}

	return NewBuildSource(WithNodes(nodes...)).Build(ctx, options...)
}
