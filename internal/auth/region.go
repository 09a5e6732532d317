package auth

import "context"

// ResolveRegion applies the caller's pinned region to a requested region.
// Unpinned callers get the request unchanged; pinned callers get their region,
// or ErrRegionMismatch when they asked for a different one.
func ResolveRegion(ctx context.Context, requested string) (string, error) {
	pinned := RegionIDFromContext(ctx)
	if pinned == "" {
		return requested, nil
	}
	if requested == "" || requested == "all" || requested == pinned {
		return pinned, nil
	}
	return "", ErrRegionMismatch
}
