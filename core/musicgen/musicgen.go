// Package musicgen wraps the external text-to-music model behind a narrow
// prompt-in/audio-out contract. The model itself runs out of process as an
// inference sidecar; this package only speaks its HTTP surface.
package musicgen

import (
	"context"

	"github.com/suwook2/project-musicgen/core/errs"
)

// Audio is the raw output of one generation: 16-bit little-endian mono PCM
// plus its sample rate. Encoding to a file format is the caller's concern.
type Audio struct {
	SampleRate int
	PCM        []byte
}

// Synthesizer generates audio from a text prompt. The call is synchronous
// and expensive; cancellation and deadlines propagate through ctx.
type Synthesizer interface {
	Synthesize(ctx context.Context, prompt string) (*Audio, error)
}

func validatePrompt(prompt string) error {
	if prompt == "" {
		return errs.InvalidInputf("prompt is required")
	}
	return nil
}
