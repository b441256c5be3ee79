// Package decode turns uploaded documents into plain text. Dispatch is by
// filename extension only; a failure for the declared format is final.
package decode

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyDocument  = errors.New("document is empty")
	ErrNoText         = errors.New("no extractable text")
	ErrOCRUnavailable = errors.New("ocr engine not configured")
	ErrTooLarge       = errors.New("document expands beyond the allowed size")
)

// Decoder converts the raw bytes of one format into text.
type Decoder interface {
	Decode(ctx context.Context, data []byte) (string, error)
}

// DecoderFunc adapts a function to Decoder.
type DecoderFunc func(ctx context.Context, data []byte) (string, error)

func (f DecoderFunc) Decode(ctx context.Context, data []byte) (string, error) {
	return f(ctx, data)
}

// OCR recognizes text in an encoded image.
type OCR interface {
	RecognizeText(ctx context.Context, image []byte, mimeType string) (string, error)
}

// DecodeError reports that a document could not be turned into text for its
// declared format.
type DecodeError struct {
	Format   Format
	Filename string
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s document %q failed: %v", e.Format, e.Filename, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

type Config struct {
	// StagingDir is the parent for per-call scratch directories; empty means os.TempDir().
	StagingDir string
	// MaxImageEdge bounds the longest image edge sent to OCR.
	MaxImageEdge int
}

// Registry holds one Decoder per Format.
type Registry struct {
	decoders map[Format]Decoder
}

// NewRegistry wires the default decoder for every format. ocr may be nil, in
// which case images fail with ErrOCRUnavailable.
func NewRegistry(cfg Config, ocr OCR) *Registry {
	return &Registry{
		decoders: map[Format]Decoder{
			FormatPDF:   &PDFDecoder{StagingDir: cfg.StagingDir},
			FormatDOC:   &DOCDecoder{},
			FormatImage: &ImageDecoder{OCR: ocr, MaxEdge: cfg.MaxImageEdge},
			FormatPlain: &PlainDecoder{},
		},
	}
}

// Register replaces the decoder used for f.
func (r *Registry) Register(f Format, d Decoder) {
	r.decoders[f] = d
}

// Decode extracts trimmed text from data, choosing the decoder by filename.
// Every failure is a *DecodeError.
func (r *Registry) Decode(ctx context.Context, data []byte, filename string) (string, error) {
	format := FormatOf(filename)
	fail := func(err error) (string, error) {
		return "", &DecodeError{Format: format, Filename: filename, Err: err}
	}

	if len(data) == 0 {
		return fail(ErrEmptyDocument)
	}
	d, ok := r.decoders[format]
	if !ok || d == nil {
		return fail(fmt.Errorf("no decoder registered for %s", format))
	}

	text, err := d.Decode(ctx, data)
	if err != nil {
		return fail(err)
	}
	text = strings.TrimSpace(text)
	// Plain text may legitimately be blank; structured formats that yield
	// nothing are treated as unreadable.
	if text == "" && format != FormatPlain {
		return fail(ErrNoText)
	}
	return text, nil
}
