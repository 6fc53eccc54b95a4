package converter

// NotFound is returned by Find when the marker does not occur
const NotFound = -1

// Find scans haystack from start for marker and returns the index just
// past the first full match, or NotFound.
// Every position is tried in turn, so overlapping partial matches are handled.
func Find(start int, marker, haystack []byte) int {
	if len(marker) == 0 {
		return NotFound
	}
	if start < 0 {
		start = 0
	}
	for i := start; i+len(marker) <= len(haystack); i++ {
		j := 0
		for j < len(marker) && haystack[i+j] == marker[j] {
			j++
		}
		if j == len(marker) {
			return i + len(marker)
		}
	}
	return NotFound
}
