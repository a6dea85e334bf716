package constants

import (
	"path/filepath"
	"strings"
)

const (
	FileAudio   = 2
	FileDOCX    = 3
	FilePDF     = 4
	FilePPT     = 5
	FileImage   = 6
	FileUnknown = 99
)

func DetectFileTypeFromExt(filename string) int {
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".mp3", ".wav":
		return FileAudio
	case ".doc", ".docx":
		return FileDOCX
	case ".pdf":
		return FilePDF
	case ".ppt", ".pptx":
		return FilePPT
	case ".png", ".jpg", ".jpeg", ".webp":
		return FileImage
	default:
		return FileUnknown
	}
}

// IsAllowedAttachment: dokumen & gambar yang boleh dilampirkan di pengumuman.
func IsAllowedAttachment(filename string) bool {
	switch DetectFileTypeFromExt(filename) {
	case FileDOCX, FilePDF, FilePPT, FileImage:
		return true
	default:
		return false
	}
}
