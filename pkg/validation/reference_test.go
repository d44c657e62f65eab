package validation

import (
	"strings"
	"testing"

	"github.com/distribution/reference"
	"github.com/stretchr/testify/assert"
)

func TestImageReference(t *testing.T) {
	tests := []string{
		"nginx",
		"nginx:1.27-alpine",
		"library/redis:7",
		"ghcr.io/bnema/app:v1.0.0",
		"localhost:5000/app",
		"registry.local:5000/team/app:2",
		"[::1]:5000/app:1.0",
		"[fe80::1]/app",
		"alpine@sha256:" + strings.Repeat("a", 64),
		"registry.example.com:5000/team/app@sha384:" + strings.Repeat("b", 96),
		"alpine:3.20@sha512:" + strings.Repeat("c", 128),
	}

	for _, ref := range tests {
		t.Run(ref, func(t *testing.T) {
			assert.NoError(t, ImageReference(ref))
		})
	}
}

func TestImageReferenceInvalid(t *testing.T) {
	tests := []struct {
		name string
		ref  string
		err  error
	}{
		{"empty", "", nil},
		{"uppercase", "Nginx", nil},
		{"bad tag", "nginx:-latest", reference.ErrReferenceInvalidFormat},
		{"double slash", "team//app", reference.ErrReferenceInvalidFormat},
		{"spaces", "nginx latest", reference.ErrReferenceInvalidFormat},
		{"short digest", "nginx@sha256:abc", nil},
		{"name too long", strings.Repeat("a", 256), reference.ErrNameTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ImageReference(tt.ref)
			assert.Error(t, err)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
			}
		})
	}
}
