package utils

import (
	"bytes"
	"io"
	"os"
)

// SniffLength is the number of leading bytes inspected when detecting binary content.
const SniffLength = 8 * 1024

// IsBinary reports whether the provided leading chunk contains a NUL byte.
// An empty chunk is never binary.
func IsBinary(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	if len(data) > SniffLength {
		data = data[:SniffLength]
	}
	return bytes.IndexByte(data, 0) >= 0
}

// ReadHead returns up to limit leading bytes of the file at path.
func ReadHead(path string, limit int) ([]byte, error) {
	fileHandle, openError := os.Open(path)
	if openError != nil {
		return nil, openError
	}
	defer fileHandle.Close()

	buffer := make([]byte, limit)
	bytesRead, readError := io.ReadFull(fileHandle, buffer)
	if readError != nil && readError != io.EOF && readError != io.ErrUnexpectedEOF {
		return nil, readError
	}
	return buffer[:bytesRead], nil
}
