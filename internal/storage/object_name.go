package storage

import (
	"path"

	"github.com/google/uuid"
)

// ApplicationCV is where a CV attached to an application lives.
func ApplicationCV(jobID, candidateID, ext string) string {
	return path.Join("applications", jobID, candidateID, uuid.NewString()+ext)
}

// ProfileDocument is where an avatar, CV, ID card or diploma of a profile lives.
func ProfileDocument(userID, kind, ext string) string {
	return path.Join("profiles", userID, kind, uuid.NewString()+ext)
}
