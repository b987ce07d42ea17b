package driven

import "context"

// DirectoryWatcher emits paths of files that were created or moved into
// a watched directory.
type DirectoryWatcher interface {
	// Watch starts watching dir. The returned channel is closed when ctx
	// is cancelled or the watcher is closed.
	Watch(ctx context.Context, dir string) (<-chan string, error)

	// Close releases watcher resources.
	Close() error
}
