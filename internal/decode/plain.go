package decode

import (
	"context"
	"strings"
)

// PlainDecoder reads bytes as UTF-8, dropping invalid sequences.
type PlainDecoder struct{}

func (PlainDecoder) Decode(_ context.Context, data []byte) (string, error) {
	text := strings.ToValidUTF8(string(data), "")
	return strings.TrimPrefix(text, "\ufeff"), nil
}
