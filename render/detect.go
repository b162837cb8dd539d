package render

import (
	"archive/zip"
	"io"
	"os"

	"github.com/h2non/filetype"
)

// enough to recognize any of the formats filetype knows about
const headerSize = 262

// isArchiveFile checks file signature, not extension.
func isArchiveFile(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	header := make([]byte, headerSize)
	n, err := io.ReadFull(f, header)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return false, err
	}
	return filetype.Is(header[:n], "zip"), nil
}

// isDocumentInArchive only looks at the name, content is checked when
// document is decoded.
func isDocumentInArchive(f *zip.File) bool {
	return IsDocumentFile(f.FileHeader.Name)
}
