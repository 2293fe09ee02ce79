package services

import (
	"io"
	"path/filepath"
	"strings"
)

// Upload is a file already vetted by the HTTP layer (size, sniffed type).
type Upload struct {
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

func (u *Upload) Ext() string {
	if u == nil {
		return ""
	}
	return strings.ToLower(filepath.Ext(u.FileName))
}
