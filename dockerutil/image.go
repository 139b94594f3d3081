package dockerutil

import (
	"context"
	"fmt"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/filters"
)

// ImageLister is the slice of the Docker client used for tag lookups.
// *client.Client satisfies it.
type ImageLister interface {
	ImageList(ctx context.Context, options types.ImageListOptions) ([]types.ImageSummary, error)
}

// ImageExists reports whether the toolchain image for the given tag is
// already present locally, so a matrix run can skip the build until the
// context hash changes.
func ImageExists(ctx context.Context, cli ImageLister, tag string) (bool, error) {
	f := filters.NewArgs()
	f.Add("reference", tag)
	imgs, err := cli.ImageList(ctx, types.ImageListOptions{Filters: f})
	if err != nil {
		return false, fmt.Errorf("image list: %w", err)
	}
	return len(imgs) > 0, nil
}
