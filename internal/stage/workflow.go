package stage

// dedupe removes duplicate paths, preserving first-seen order.
func dedupe(paths []string) []string {
	seen := make(map[string]bool, len(paths))
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}

// batch splits paths into chunks of at most size, preserving order. size <= 0
// is treated as 1.
func batch(paths []string, size int) [][]string {
	if size <= 0 {
		size = 1
	}

	var batches [][]string
	for i := 0; i < len(paths); i += size {
		end := i + size
		if end > len(paths) {
			end = len(paths)
		}
		batches = append(batches, paths[i:end])
	}
	return batches
}
