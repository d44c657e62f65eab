// Package validation checks user supplied image references before they reach the engine.
package validation

import (
	"fmt"

	"github.com/distribution/reference"
)

// ImageReference reports whether ref parses the way the engine parses it:
// [registry[:port]/]path[:tag][@digest], with short names normalized to docker.io.
func ImageReference(ref string) error {
	if ref == "" {
		return fmt.Errorf("image reference cannot be empty")
	}
	if _, err := reference.ParseNormalizedNamed(ref); err != nil {
		return fmt.Errorf("invalid image reference %q: %w", ref, err)
	}
	return nil
}
