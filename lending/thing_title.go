package lending

// ThingTitle describes what a thing is, independent of the physical copy.
type ThingTitle struct {
	Name        string
	UPC         string
	ISBN        string
	Description string
}

// Equal requires the same name. UPC and ISBN must also match when both sides carry them.
func (t ThingTitle) Equal(other ThingTitle) bool {
	if t.Name != other.Name {
		return false
	}

	if t.UPC != "" && other.UPC != "" && t.UPC != other.UPC {
		return false
	}

	if t.ISBN != "" && other.ISBN != "" && t.ISBN != other.ISBN {
		return false
	}

	return true
}

// UniqueTitles returns the titles of things with duplicates removed, keeping first occurrences.
func UniqueTitles(things []*Thing) []ThingTitle {
	titles := make([]ThingTitle, 0, len(things))

	for _, thing := range things {
		seen := false
		for _, title := range titles {
			if title.Equal(thing.Title) {
				seen = true
				break
			}
		}

		if !seen {
			titles = append(titles, thing.Title)
		}
	}

	return titles
}
