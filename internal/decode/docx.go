package decode

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

const docxBodyPart = "word/document.xml"

// maxDocxPartBytes caps the uncompressed size of a container part.
var maxDocxPartBytes int64 = 64 << 20

// DOCDecoder reads the OpenXML word-processing container. Legacy binary
// .doc files are not zip archives and fail to open.
type DOCDecoder struct{}

func (DOCDecoder) Decode(ctx context.Context, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open word container failed: %w", err)
	}
	body, err := readZipFile(zr.File, docxBodyPart)
	if err != nil {
		return "", err
	}
	return extractDocxText(body)
}

func readZipFile(files []*zip.File, target string) ([]byte, error) {
	for _, f := range files {
		if f == nil || !strings.EqualFold(strings.TrimSpace(f.Name), target) {
			continue
		}
		if f.UncompressedSize64 > uint64(maxDocxPartBytes) {
			return nil, fmt.Errorf("%s: %w", target, ErrTooLarge)
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		body, err := io.ReadAll(io.LimitReader(rc, maxDocxPartBytes+1))
		if err != nil {
			return nil, err
		}
		if int64(len(body)) > maxDocxPartBytes {
			return nil, fmt.Errorf("%s: %w", target, ErrTooLarge)
		}
		return body, nil
	}
	return nil, fmt.Errorf("file not found: %s", target)
}

// extractDocxText walks the document body. Text runs are concatenated,
// paragraph ends and breaks become newlines, tabs stay tabs.
func extractDocxText(body []byte) (string, error) {
	dec := xml.NewDecoder(bytes.NewReader(body))
	var (
		inText bool
		out    strings.Builder
	)
	for {
		tok, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return "", fmt.Errorf("parse %s failed: %w", docxBodyPart, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				out.WriteByte('\t')
			case "br", "cr":
				out.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				out.Write(t)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				out.WriteByte('\n')
			}
		}
	}
	return out.String(), nil
}
