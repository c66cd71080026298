// Copyright (c) 2026 Sakan. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package storage manages user-supplied files kept in object storage.

Clients upload directly to the bucket through presigned URLs; the API only
records what it handed out and later verifies that the object exists and was
issued for the expected purpose before another entity references it.

# Architecture

  - Entities: FileRef, UploadType, Mime, StorageType.
  - Backend: one [Store] per StorageType, S3 being the only one today.
  - Registry: Redis keeps the pending uploads for an hour.
*/
package storage

import "strings"

// # Storage Types

// StorageType names the backend that holds a file.
type StorageType string

const (
	StorageS3 StorageType = "S3"
)

// ParseStorageType validates a path or body value.
func ParseStorageType(value string) (StorageType, bool) {
	switch StorageType(value) {
	case StorageS3:
		return StorageS3, true
	}
	return "", false
}

// # Upload Types

// UploadType records what a file is going to be used for.
type UploadType string

const (
	UploadAdImage        UploadType = "AD_IMAGE"
	UploadUserImage      UploadType = "USER_IMAGE"
	UploadUserDocument   UploadType = "USER_DOCUMENT"
	UploadUniversityLogo UploadType = "UNIVERSITY_LOGO"
)

// UploadTypes lists every accepted upload type.
var UploadTypes = []string{
	string(UploadAdImage), string(UploadUserImage), string(UploadUserDocument), string(UploadUniversityLogo),
}

// # Mime Types

// Mime is a content type accepted for upload.
type Mime string

const (
	MimePNG  Mime = "image/png"
	MimeJPEG Mime = "image/jpeg"
	MimeWEBP Mime = "image/webp"
	MimePDF  Mime = "application/pdf"
	MimeMP4  Mime = "video/mp4"
	MimeWEBM Mime = "video/webm"
	MimeOGG  Mime = "video/ogg"
	MimeAVI  Mime = "video/x-msvideo"
	MimeMOV  Mime = "video/quicktime"
)

// extensions maps each supported mime to the object key suffix.
var extensions = map[Mime]string{
	MimePNG:  "png",
	MimeJPEG: "jpeg",
	MimeWEBP: "webp",
	MimePDF:  "pdf",
	MimeMP4:  "mp4",
	MimeWEBM: "webm",
	MimeOGG:  "ogv",
	MimeAVI:  "avi",
	MimeMOV:  "mov",
}

// SupportedMimes lists every accepted mime in a stable order.
var SupportedMimes = []string{
	string(MimePNG), string(MimeJPEG), string(MimeWEBP), string(MimePDF),
	string(MimeMP4), string(MimeWEBM), string(MimeOGG), string(MimeAVI), string(MimeMOV),
}

// Extension returns the file extension for a supported mime.
func (m Mime) Extension() (string, bool) {
	ext, ok := extensions[Mime(strings.ToLower(string(m)))]
	return ext, ok
}

// IsImage reports whether the mime is one of the image types.
func (m Mime) IsImage() bool {
	return m == MimePNG || m == MimeJPEG || m == MimeWEBP
}

// MaxFileSize bounds every upload, presigned or proxied.
const MaxFileSize = 15 * 1024 * 1024

// # File References

// FileRef points at a stored object. Entities persist it as JSONB.
type FileRef struct {
	Path        string      `json:"path"`
	StorageType StorageType `json:"storageType"`
}

// UploadingFile is the pending-upload record kept until the object is verified.
type UploadingFile struct {
	Type UploadType `json:"type"`
	Mime Mime       `json:"mime"`
}

// PresignedURL is handed to clients so they can PUT the object themselves.
type PresignedURL struct {
	URL  string `json:"url"`
	Path string `json:"path"`
}
