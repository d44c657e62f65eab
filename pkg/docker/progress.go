package docker

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"

	"github.com/docker/docker/pkg/jsonmessage"
)

// Progress lazily decodes an engine progress stream (pull, push, build).
// Iteration stops at the end of the stream or at the first decoding error.
func Progress(r io.Reader) iter.Seq2[jsonmessage.JSONMessage, error] {
	return func(yield func(jsonmessage.JSONMessage, error) bool) {
		dec := json.NewDecoder(r)
		for {
			var msg jsonmessage.JSONMessage
			if err := dec.Decode(&msg); err != nil {
				if !errors.Is(err, io.EOF) {
					yield(msg, fmt.Errorf("failed to decode progress stream: %w", err))
				}
				return
			}
			if !yield(msg, nil) {
				return
			}
		}
	}
}

// awaitCompletion drains a progress stream and closes it.
// The first error event in the stream becomes the returned error.
func awaitCompletion(rc io.ReadCloser) error {
	defer rc.Close()

	for msg, err := range Progress(rc) {
		if err != nil {
			return err
		}
		if msg.Error != nil {
			return msg.Error
		}
	}
	return nil
}
