package slideshow

// splitBatches partitions images into render batches of at most size images.
// Consecutive batches share their boundary image so the crossfade across a
// batch join is rendered inside the later batch; the earlier segment is
// trimmed right after that crossfade completes.
func splitBatches(images []string, size int) [][]string {
	if len(images) <= size {
		return [][]string{images}
	}

	var batches [][]string
	start := 0
	for start < len(images)-1 {
		end := start + size
		if end > len(images) {
			end = len(images)
		}
		batches = append(batches, images[start:end])
		if end == len(images) {
			break
		}
		// Overlap by one: the next batch re-opens with this batch's last image.
		start = end - 1
	}
	return batches
}
