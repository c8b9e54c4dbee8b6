// SPDX-License-Identifier: MIT
package idtree

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unsafe"

	"golang.org/x/exp/constraints"

	"gitlab.com/fisherprime/idtree/lexer"
)

// REF: https://www.geeksforgeeks.org/serialize-deserialize-n-ary-tree

// Serialization errors.
var (
	ErrNotFound = errors.New("not found")

	ErrEmptyDeserializationSrc = errors.New("empty deserialization source")
	ErrInvalidNotation         = errors.New("invalid notation")
)

// Serialize renders the shape of the subtree at id, e.g. "1,2,4)),3))".
//
// Payloads are not rendered. The lexer options configure the markers.
func (t *Tree[K, V]) Serialize(ctx context.Context, id K, options ...lexer.Option) (output string, err error) {
	if _, ok := t.nodes[id]; !ok {
		err = fmt.Errorf("(%v) %w", id, ErrNotFound)
		return
	}

	cfg := lexer.New(options...)
	if err = cfg.Validate(); err != nil {
		return
	}

	var buffer strings.Builder
	if err = t.serialize(ctx, id, cfg, &buffer); err != nil {
		// Invalidate serialization output.
		return
	}
	output = buffer.String()

	return
}

// SerializeAll renders the shape of every root's subtree, splitter separated.
func (t *Tree[K, V]) SerializeAll(ctx context.Context, options ...lexer.Option) (output string, err error) {
	cfg := lexer.New(options...)
	if err = cfg.Validate(); err != nil {
		return
	}

	var buffer strings.Builder
	for index, id := range t.roots {
		if index > 0 {
			buffer.WriteRune(cfg.Splitter())
		}

		if err = t.serialize(ctx, id, cfg, &buffer); err != nil {
			return
		}
	}
	output = buffer.String()

	return
}

// serialize performs the serialization grunt work in pre-order.
func (t *Tree[K, V]) serialize(ctx context.Context, id K, cfg *lexer.Lexer, buffer *strings.Builder) (err error) {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	fmt.Fprint(buffer, id)
	for _, childID := range t.children[id] {
		buffer.WriteRune(cfg.Splitter())
		if err = t.serialize(ctx, childID, cfg, buffer); err != nil {
			return
		}
	}
	buffer.WriteRune(cfg.EndMarker())

	return
}

// Deserialize parses the notation produced by [Tree.Serialize] & adds its nodes to the Tree.
//
// Payloads are zero valued. Nothing is added on a notation error; an [Tree.Add] error leaves
// the nodes preceding the failure in place.
func (t *Tree[K, V]) Deserialize(ctx context.Context, options ...lexer.Option) (err error) {
	lexCtx, lexCancel := context.WithCancel(ctx)
	defer lexCancel()

	l := lexer.New(options...)
	go l.Lex(lexCtx)

	d := &decoder[K, V]{l: l}
	if err = d.decode(ctx); err != nil {
		return
	}
	if t.cfg.Debug {
		t.cfg.Logger.Debugf("deserialized %d value(s), %d end marker(s)", l.ValueCounter(), l.EndCounter())
	}

	return t.AddAll(d.nodes...)
}

// decoder collects the nodes of a lexed notation in pre-order.
type decoder[K constraints.Integer, V any] struct {
	l     *lexer.Lexer
	nodes []Node[K, V]
}

func (d *decoder[K, V]) next(ctx context.Context) (item lexer.Item, err error) {
	select {
	case <-ctx.Done():
		err = ctx.Err()
	case i, proceed := <-d.l.C():
		if !proceed {
			// Closed without an ItemEOF, on lexer cancellation.
			return lexer.Item{ID: lexer.ItemEOF}, nil
		}
		item = i
	}

	return
}

func (d *decoder[K, V]) decode(ctx context.Context) (err error) {
	item, err := d.next(ctx)
	if err != nil {
		return
	}
	if item.ID == lexer.ItemEOF {
		return ErrEmptyDeserializationSrc
	}

	for {
		if err = d.node(ctx, item, nil); err != nil {
			return
		}

		if item, err = d.next(ctx); err != nil {
			return
		}

		switch item.ID {
		case lexer.ItemEOF:
			return
		case lexer.ItemSplitter:
			// Another root.
			if item, err = d.next(ctx); err != nil {
				return
			}
		default:
			return unexpected(item)
		}
	}
}

// node decodes a value & its children up to & including its end marker.
func (d *decoder[K, V]) node(ctx context.Context, item lexer.Item, parent *K) (err error) {
	if item.ID != lexer.ItemValue {
		return unexpected(item)
	}

	id, err := parseID[K](item.Val)
	if err != nil {
		return fmt.Errorf("%w: value %q at %d: %w", ErrInvalidNotation, item.Val, item.Pos, err)
	}
	d.nodes = append(d.nodes, Node[K, V]{ID: id, ParentID: parent})

	for {
		if item, err = d.next(ctx); err != nil {
			return
		}

		switch item.ID {
		case lexer.ItemEndMarker:
			return
		case lexer.ItemSplitter:
			if item, err = d.next(ctx); err != nil {
				return
			}
			if err = d.node(ctx, item, &id); err != nil {
				return
			}
		case lexer.ItemEOF:
			return fmt.Errorf("%w: (%v) lacks an end marker", ErrInvalidNotation, id)
		default:
			return unexpected(item)
		}
	}
}

// parseID reads a base 10 identifier sized to K; leading zeros are insignificant.
func parseID[K constraints.Integer](val string) (id K, err error) {
	bits := int(unsafe.Sizeof(id) * 8)

	if ^K(0) < 0 {
		var parsed int64
		if parsed, err = strconv.ParseInt(val, 10, bits); err == nil {
			id = K(parsed)
		}
		return
	}

	var parsed uint64
	if parsed, err = strconv.ParseUint(val, 10, bits); err == nil {
		id = K(parsed)
	}

	return
}

func unexpected(item lexer.Item) error {
	if item.ID == lexer.ItemError {
		return fmt.Errorf("%w: %w", ErrInvalidNotation, item.Err)
	}

	return fmt.Errorf("%w: unexpected %s", ErrInvalidNotation, item)
}
