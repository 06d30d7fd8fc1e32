package onboarding

import "context"

// AvatarStore is the hosted file-storage collaborator for the optional
// profile picture. Upload returns the stored reference.
type AvatarStore interface {
	Upload(ctx context.Context, userID, localRef string) (string, error)
}
