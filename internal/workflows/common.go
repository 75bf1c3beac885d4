package workflows

import (
	"context"
	"fmt"
	"os"

	"github.com/PolarWolf314/dyad/internal/configs"
	kerrors "github.com/PolarWolf314/dyad/internal/errors"
	"github.com/PolarWolf314/dyad/internal/storage"
)

// ProgressFunc is told which file a multi-file workflow is about to process.
type ProgressFunc func(index, total int, location string)

func (f ProgressFunc) report(index, total int, location string) {
	if f != nil {
		f(index, total, location)
	}
}

func routerOrDefault(r *storage.Router) *storage.Router {
	if r == nil {
		return storage.NewRouter(storage.S3Config{})
	}
	return r
}

func baseDirOrCwd(dir string) (string, error) {
	if dir != "" {
		return dir, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	return wd, nil
}

func suffixOrDefault(suffix string) string {
	if suffix == "" {
		return configs.DefaultSuffix
	}
	return suffix
}

// refuseOverwrite fails with ErrFileExists when location exists and force is off.
func refuseOverwrite(ctx context.Context, store storage.Store, location string, force bool) error {
	if force {
		return nil
	}
	exists, err := store.Exists(ctx, location)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: %s", kerrors.ErrFileExists, location)
	}
	return nil
}
