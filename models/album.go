package models

import (
	"encoding/json"
	"strings"
)

// Attachment is a downloadable or streamable resource attached to an album.
// Exactly one of FileID and DirectURL is normally set; DirectURL wins when
// both are present.
type Attachment struct {
	FileName  string `json:"file_name"`
	FileID    string `json:"file_id,omitempty"`
	DirectURL string `json:"direct_url,omitempty"`
}

// Reference returns the opaque reference the file proxy resolves: the direct
// URL when present, otherwise the foreign file identifier.
func (a Attachment) Reference() string {
	if a.DirectURL != "" {
		return a.DirectURL
	}
	return a.FileID
}

var videoExtensions = map[string]bool{
	".mp4":  true,
	".mov":  true,
	".webm": true,
	".mkv":  true,
}

// IsVideo reports whether the attachment name looks like a playable video.
func (a Attachment) IsVideo() bool {
	name := strings.ToLower(a.FileName)
	idx := strings.LastIndex(name, ".")
	if idx < 0 {
		return false
	}
	return videoExtensions[name[idx:]]
}

// Album is one gallery entry, keyed by its code in the store. Records are
// read-only here; they are created and updated out-of-band.
type Album struct {
	Code        string       `json:"code"`
	Title       string       `json:"title"`
	Category    string       `json:"category"`
	Files       []string     `json:"files"`
	Attachments []Attachment `json:"attachments"`
	Zip         *Attachment  `json:"zip,omitempty"`
	Password    string       `json:"password,omitempty"`
}

// Normalize fills the defaults for missing optional fields so the rest of
// the pipeline never has to null-check: title falls back to the code,
// category to "", files and attachments to empty slices.
func (a *Album) Normalize(code string) {
	a.Code = code
	if a.Title == "" {
		a.Title = code
	}
	if a.Files == nil {
		a.Files = []string{}
	}
	if a.Attachments == nil {
		a.Attachments = []Attachment{}
	}
}

// AlbumFromJSON parses a raw store record and normalizes it. The code comes
// from the store key, not the body.
func AlbumFromJSON(code string, raw []byte) (Album, error) {
	var a Album
	if err := json.Unmarshal(raw, &a); err != nil {
		return Album{}, err
	}
	a.Normalize(code)
	return a, nil
}

// HasPassword reports whether the detail view should show the client-side
// password gate. This is a display convenience, not a security boundary.
func (a Album) HasPassword() bool {
	return a.Password != ""
}

// CoverKind classifies what the listing card shows when an album has no
// cover image.
type CoverKind string

const (
	CoverImage   CoverKind = "image"
	CoverVideo   CoverKind = "video"
	CoverArchive CoverKind = "archive"
	CoverAPK     CoverKind = "apk"
	CoverEXE     CoverKind = "exe"
	CoverPDF     CoverKind = "pdf"
	CoverText    CoverKind = "text"
	CoverFile    CoverKind = "file"
)

// Cover describes the listing card cover: either the first image file, or a
// placeholder kind derived from the first attachment. Reference is empty for
// placeholder covers, so a card never renders a broken image.
type Cover struct {
	Kind      CoverKind
	Reference string
}

// Cover picks the album's listing cover.
func (a Album) Cover() Cover {
	if len(a.Files) > 0 {
		return Cover{Kind: CoverImage, Reference: a.Files[0]}
	}
	if len(a.Attachments) > 0 {
		name := strings.ToLower(a.Attachments[0].FileName)
		switch {
		case a.Attachments[0].IsVideo():
			return Cover{Kind: CoverVideo}
		case strings.HasSuffix(name, ".zip"), strings.HasSuffix(name, ".rar"), strings.HasSuffix(name, ".7z"):
			return Cover{Kind: CoverArchive}
		case strings.HasSuffix(name, ".apk"):
			return Cover{Kind: CoverAPK}
		case strings.HasSuffix(name, ".exe"):
			return Cover{Kind: CoverEXE}
		case strings.HasSuffix(name, ".pdf"):
			return Cover{Kind: CoverPDF}
		case strings.HasSuffix(name, ".txt"):
			return Cover{Kind: CoverText}
		}
	}
	return Cover{Kind: CoverFile}
}
