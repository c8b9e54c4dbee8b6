// SPDX-License-Identifier: MIT

// Package lexer tokenizes the shape notation of an idtree.Tree, e.g. "1,2,4)),3))".
//
// Every node is an integer identifier; its children follow, each preceded by the splitter, and
// the end marker closes the node.
package lexer

// REF: https://github.com/sh4t/sql-parser
// REF: https://gitlab.com/fisherprime/go-ddbms/-/blob/master/internal/v1/lexer.go

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/sirupsen/logrus"
)

type (
	// NextOperation type for the next function to be executed
	NextOperation func(context.Context) NextOperation

	// Lexer defines a type to capture identifiers from a source.
	Lexer struct {
		debug     bool
		endMarker rune
		splitter  rune
		logger    logrus.FieldLogger

		// c is a channel for communicating lexed Items.
		c chan Item

		// source is the input source.
		source io.RuneReader

		// buffer holds the runes of the pending Item.
		buffer []rune
		// start is the byte offset of the pending Item, pos the offset of the next rune.
		start, pos int

		// last holds the most recent rune & its width for Backup.
		last      rune
		lastWidth int
		backedUp  bool

		valueCounter int
		endCounter   int
	}

	// Option defines the Lexer functional option type
	Option func(*Lexer)
)

const (
	// DefaultEndMarker a rune indicating the end of a node's children.
	DefaultEndMarker = ')'

	// DefaultSplitter is the rune preceding a child node.
	DefaultSplitter = ','

	defBufferSize = 10

	signRune = '-'
)

// Lexing errors.
var (
	ErrUnknownTokens  = errors.New("unknown tokens")
	ErrInvalidValue   = errors.New("invalid value")
	ErrInvalidMarkers = errors.New("invalid markers")
)

// New creates a new scanner for the configured source.
func New(opts ...Option) *Lexer {
	l := &Lexer{
		endMarker: DefaultEndMarker,
		splitter:  DefaultSplitter,
		logger:    logrus.New(),

		c: make(chan Item, defBufferSize),

		buffer: make([]rune, 0, defBufferSize),
		source: strings.NewReader(""),
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// WithDebug configures the debug option.
func WithDebug(debug bool) Option { return func(l *Lexer) { l.debug = debug } }

// WithEndMarker configures the endMarker option.
func WithEndMarker(r rune) Option { return func(l *Lexer) { l.endMarker = r } }

// WithSplitter configures the splitter option.
func WithSplitter(r rune) Option { return func(l *Lexer) { l.splitter = r } }

// WithLogger configures the logger option.
func WithLogger(logger logrus.FieldLogger) Option { return func(l *Lexer) { l.logger = logger } }

// WithSource configures the source option.
func WithSource(source io.RuneReader) Option { return func(l *Lexer) { l.source = source } }

// WithInput configures a string source.
func WithInput(input string) Option { return WithSource(strings.NewReader(input)) }

// Validate checks that the markers are distinct & can't be mistaken for values or whitespace.
func (l *Lexer) Validate() error {
	for _, r := range []rune{l.endMarker, l.splitter} {
		if isValueStart(r) || unicode.IsSpace(r) || r == 0 {
			return fmt.Errorf("%w: %q", ErrInvalidMarkers, r)
		}
	}
	if l.endMarker == l.splitter {
		return fmt.Errorf("%w: end marker equals splitter %q", ErrInvalidMarkers, l.splitter)
	}

	return nil
}

// EndMarker obtains the configured end marker.
func (l *Lexer) EndMarker() rune { return l.endMarker }

// Splitter obtains the configured splitter.
func (l *Lexer) Splitter() rune { return l.splitter }

// ValueCounter obtains the number of lexed values.
func (l *Lexer) ValueCounter() int { return l.valueCounter }

// EndCounter obtains the number of lexed end markers.
func (l *Lexer) EndCounter() int { return l.endCounter }

// Lex lexes the input by executing state functions.
//
// The Item channel is closed once an ItemEOF or ItemError is emitted, or ctx is canceled.
func (l *Lexer) Lex(ctx context.Context) {
	defer close(l.c)

	if err := l.Validate(); err != nil {
		l.EmitError(ctx, err)
		return
	}

	for stateFunction := l.LexAny; stateFunction != nil; {
		stateFunction = stateFunction(ctx)
	}
}

// LexAny dispatches on the next rune, discarding whitespace.
func (l *Lexer) LexAny(ctx context.Context) NextOperation {
	r, ok := l.Next()
	switch {
	case !ok:
		l.Emit(ctx, ItemEOF)
		return nil
	case unicode.IsSpace(r):
		l.Discard()
		return l.LexAny
	case r == l.endMarker:
		l.endCounter++
		return l.continueAfter(ctx, ItemEndMarker)
	case r == l.splitter:
		return l.continueAfter(ctx, ItemSplitter)
	case isValueStart(r):
		l.Backup()
		return l.LexValue
	default:
		return l.EmitError(ctx, fmt.Errorf("%w: %q at %d", ErrUnknownTokens, r, l.start))
	}
}

// LexValue captures an optionally signed integer.
func (l *Lexer) LexValue(ctx context.Context) NextOperation {
	if r, _ := l.Next(); r == signRune {
		if r, ok := l.Next(); !ok || !isDigit(r) {
			return l.EmitError(ctx, fmt.Errorf("%w: %q at %d", ErrInvalidValue, string(l.buffer), l.start))
		}
	}

	for {
		r, ok := l.Next()
		if !ok {
			break
		}

		// End of current token type.
		if !isDigit(r) {
			l.Backup()
			break
		}
	}

	l.valueCounter++

	return l.continueAfter(ctx, ItemValue)
}

func (l *Lexer) continueAfter(ctx context.Context, t ItemID) NextOperation {
	if !l.Emit(ctx, t) {
		return nil
	}

	return l.LexAny
}

// Next returns the next rune in the input, ok is false at the end of the source.
func (l *Lexer) Next() (r rune, ok bool) {
	if l.backedUp {
		l.backedUp = false
	} else {
		var err error
		if l.last, l.lastWidth, err = l.source.ReadRune(); err != nil {
			// Error is io.EOF for well behaved sources.
			return 0, false
		}
	}

	l.buffer = append(l.buffer, l.last)
	l.pos += l.lastWidth

	return l.last, true
}

// Backup steps back one rune; only a single step is supported.
func (l *Lexer) Backup() {
	if l.backedUp || len(l.buffer) < 1 {
		return
	}

	l.buffer = l.buffer[:len(l.buffer)-1]
	l.pos -= l.lastWidth
	l.backedUp = true
}

// Discard the pending runes.
func (l *Lexer) Discard() {
	l.buffer = l.buffer[:0]
	l.start = l.pos
}

// Emit sends an Item over the communication channel, reporting false on cancellation.
func (l *Lexer) Emit(ctx context.Context, t ItemID) bool {
	item := Item{ID: t, Val: string(l.buffer), Pos: l.start}
	if l.debug {
		l.logger.Debugf("lexer emit: %s", item)
	}
	l.Discard()

	select {
	case <-ctx.Done():
		return false
	case l.c <- item:
		return true
	}
}

// EmitError sends an error over the Lexer's channel, terminating the scan.
func (l *Lexer) EmitError(ctx context.Context, err error) NextOperation {
	select {
	case <-ctx.Done():
	case l.c <- Item{ID: ItemError, Pos: l.start, Err: err}:
	}

	return nil
}

// C exposes the Item channel.
func (l *Lexer) C() <-chan Item { return l.c }

// Item returns a lexed Item from the input.
func (l *Lexer) Item() (i Item, ok bool) {
	i, ok = <-l.c
	return
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isValueStart(r rune) bool { return r == signRune || isDigit(r) }
