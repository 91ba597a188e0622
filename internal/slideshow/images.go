package slideshow

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var imageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".webp": {},
	".bmp":  {},
	".tif":  {},
	".tiff": {},
}

// DiscoverImages returns the image files in dir sorted by filename. The fetch
// pipeline prefixes filenames with the album order, so the sorted listing
// reproduces the album sequence.
func DiscoverImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read images directory: %w", err)
	}

	var images []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if _, ok := imageExtensions[ext]; !ok {
			continue
		}
		images = append(images, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(images)

	if len(images) == 0 {
		return nil, fmt.Errorf("no image files found in %s", dir)
	}
	return images, nil
}
