package history

// Entry pairs an original URL with its shortened form.
type Entry struct {
	LongURL  string `json:"longUrl"`
	ShortURL string `json:"shortUrl"`
}

// List is ordered most recent first.
type List []Entry

// Equal reports whether two lists hold the same entries in the same order.
func (l List) Equal(other List) bool {
	if len(l) != len(other) {
		return false
	}
	for i := range l {
		if l[i] != other[i] {
			return false
		}
	}
	return true
}
