package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"taskmarket/contract"
	"taskmarket/domain"
	"taskmarket/domain/mimetypes"
	"taskmarket/errors"
	"taskmarket/repositories"

	"github.com/gabriel-vasile/mimetype"
)

type IProfileService interface {
	GetProfile(ctx context.Context, uid string) (domain.UserProfile, error)
	UpdateProfile(ctx context.Context, currentUser string, profile domain.UserProfile) error
	UploadPhoto(ctx context.Context, currentUser string, data []byte) (string, error)
}

type ProfileService struct {
	users repositories.IUserRepository
	blobs contract.BlobStore
	clock contract.Clock
	opts  Options
	log   *slog.Logger
}

func NewProfileService(users repositories.IUserRepository, blobs contract.BlobStore, clock contract.Clock, opts Options, log *slog.Logger) *ProfileService {
	return &ProfileService{users: users, blobs: blobs, clock: clock, opts: opts, log: log}
}

func (s *ProfileService) GetProfile(ctx context.Context, uid string) (domain.UserProfile, error) {
	return call(ctx, s.opts.StoreTimeout, func(ctx context.Context) (domain.UserProfile, error) {
		return s.users.GetProfile(ctx, uid)
	})
}

// UpdateProfile only lets users edit their own profile.
func (s *ProfileService) UpdateProfile(ctx context.Context, currentUser string, profile domain.UserProfile) error {
	if currentUser == "" {
		return errors.ErrNotSignedIn
	}
	if profile.UID != currentUser {
		return fmt.Errorf("%w: profile of another user", errors.ErrPermissionDenied)
	}
	profile.FirstName = strings.TrimSpace(profile.FirstName)
	profile.LastName = strings.TrimSpace(profile.LastName)
	if profile.FirstName == "" || profile.LastName == "" {
		return errors.ErrMissingFields
	}
	return exec(ctx, s.opts.StoreTimeout, func(ctx context.Context) error {
		return s.users.SaveProfile(ctx, profile)
	})
}

// UploadPhoto sniffs the image type from its content, stores it under
// profile_pictures/{uid}/{millis}.{ext} and points the profile at it.
func (s *ProfileService) UploadPhoto(ctx context.Context, currentUser string, data []byte) (string, error) {
	if currentUser == "" {
		return "", errors.ErrNotSignedIn
	}
	detected := mimetype.Detect(data).String()
	ext, ok := mimetypes.Extension(detected)
	if !ok {
		return "", fmt.Errorf("%w: %s", errors.ErrInvalidBlob, detected)
	}
	path := fmt.Sprintf("profile_pictures/%s/%d.%s", currentUser, s.clock().UnixMilli(), ext)
	url, err := call(ctx, s.opts.StoreTimeout, func(ctx context.Context) (string, error) {
		return s.blobs.UploadBlob(ctx, path, data)
	})
	if err != nil {
		return "", err
	}
	err = exec(ctx, s.opts.StoreTimeout, func(ctx context.Context) error {
		return s.users.SetPhotoURL(ctx, currentUser, url)
	})
	if err != nil {
		return "", err
	}
	s.log.Info("Profile picture uploaded", "user_id", currentUser, "mime", detected)
	return url, nil
}
