package util

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
)

// ownerDirBytes keeps directory names short while leaving collisions
// between farmers out of reach.
const ownerDirBytes = 16

// ErrEmptyOwner is returned when an upload has no owning user.
var ErrEmptyOwner = errors.New("owner id is empty")

// OwnerDir returns the object-store directory holding a user's soil photos.
// Provider IDs such as "google:1234" never appear in bucket paths.
func OwnerDir(userID string) (string, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", ErrEmptyOwner
	}
	sum := sha256.Sum256([]byte(userID))
	return hex.EncodeToString(sum[:ownerDirBytes]), nil
}
