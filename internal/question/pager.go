package question

// Paginate returns the 1-based page of items holding at most size entries.
// Pages outside the listing, including page < 1, are empty.
func Paginate[T any](page, size int, items []T) []T {
	if page < 1 || size <= 0 {
		return []T{}
	}
	pages := (len(items) + size - 1) / size
	if page > pages {
		return []T{}
	}
	start := (page - 1) * size
	end := min(start+size, len(items))
	return items[start:end]
}
