package gallery

import "github.com/mtcweb/gallerybackend/models"

// Neighbors are the detail page's adjacent albums in the newest-first
// collection: Next is the next-newer album, Prev the next-older one. A nil
// field means the boundary was reached.
type Neighbors struct {
	Prev *models.Album
	Next *models.Album
}

// FindNeighbors locates code in a collection sorted newest-first and returns
// its index plus both neighbors. The index is -1 when the code is absent.
func FindNeighbors(albums []models.Album, code string) (int, Neighbors) {
	idx := -1
	for i := range albums {
		if albums[i].Code == code {
			idx = i
			break
		}
	}
	if idx < 0 {
		return -1, Neighbors{}
	}

	var n Neighbors
	if idx > 0 {
		n.Next = &albums[idx-1]
	}
	if idx < len(albums)-1 {
		n.Prev = &albums[idx+1]
	}
	return idx, n
}
