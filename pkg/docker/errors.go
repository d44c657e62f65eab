package docker

import "github.com/docker/docker/errdefs"

// Error kinds reported by ErrorKind.
const (
	KindNotFound         = "not_found"
	KindConflict         = "conflict"
	KindInvalidParameter = "invalid_parameter"
	KindUnauthorized     = "unauthorized"
	KindForbidden        = "forbidden"
	KindUnavailable      = "unavailable"
	KindCancelled        = "cancelled"
	KindDeadline         = "deadline"
	KindSystem           = "system"
	KindUnknown          = "unknown"
)

// ErrorKind classifies an engine error, looking through wrapped errors.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errdefs.IsNotFound(err):
		return KindNotFound
	case errdefs.IsConflict(err):
		return KindConflict
	case errdefs.IsInvalidParameter(err):
		return KindInvalidParameter
	case errdefs.IsUnauthorized(err):
		return KindUnauthorized
	case errdefs.IsForbidden(err):
		return KindForbidden
	case errdefs.IsUnavailable(err):
		return KindUnavailable
	case errdefs.IsCancelled(err):
		return KindCancelled
	case errdefs.IsDeadline(err):
		return KindDeadline
	case errdefs.IsSystem(err):
		return KindSystem
	default:
		return KindUnknown
	}
}
