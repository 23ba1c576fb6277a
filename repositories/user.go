//go:generate go run go.uber.org/mock/mockgen -source=user.go -destination=../mocks/mock_user.go -package=mocks
package repositories

import (
	"context"
	"fmt"
	"strings"
	"taskmarket/contract"
	"taskmarket/domain"
	"taskmarket/errors"
	"time"
)

const (
	UsersCollection       = "users"
	CredentialsCollection = "credentials"
)

const (
	fieldUserID       = "userId"
	fieldEmail        = "email"
	fieldPasswordHash = "passwordHash"
	fieldFirstName    = "firstName"
	fieldLastName     = "lastName"
	fieldPhone        = "phone"
	fieldAddress      = "address"
	fieldPhotoURL     = "photoURL"
)

type IUserRepository interface {
	CreateCredentials(ctx context.Context, email, userID, passwordHash string) error
	GetCredentials(ctx context.Context, email string) (Credentials, error)
	SaveProfile(ctx context.Context, profile domain.UserProfile) error
	GetProfile(ctx context.Context, uid string) (domain.UserProfile, error)
	SetPhotoURL(ctx context.Context, uid, url string) error
}

type UserRepository struct {
	store contract.DocumentStore
}

func NewUserRepository(store contract.DocumentStore) UserRepository {
	return UserRepository{store: store}
}

// Credentials is what sign in checks, stored under credentials/{email}.
// Profiles never hold the password hash.
type Credentials struct {
	UserID       string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// NormalizeEmail is the credentials key of an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateCredentials fails with ErrUserAlreadyExists when the email is taken.
func (r UserRepository) CreateCredentials(ctx context.Context, email, userID, passwordHash string) error {
	email = NormalizeEmail(email)
	_, err := r.store.CreateDocument(ctx, CredentialsCollection, contract.Fields{
		fieldUserID:       userID,
		fieldEmail:        email,
		fieldPasswordHash: passwordHash,
		fieldCreatedAt:    contract.ServerTimestamp,
	}, contract.WithDocumentID(email))
	if errors.Is(err, errors.ErrAlreadyExists) {
		return fmt.Errorf("%w: %s", errors.ErrUserAlreadyExists, email)
	}
	return err
}

func (r UserRepository) GetCredentials(ctx context.Context, email string) (Credentials, error) {
	email = NormalizeEmail(email)
	snapshot, err := r.store.GetDocument(ctx, CredentialsCollection, email)
	if errors.Is(err, errors.ErrNotFound) {
		return Credentials{}, fmt.Errorf("%w: %s", errors.ErrUserNotFound, email)
	}
	if err != nil {
		return Credentials{}, err
	}
	return Credentials{
		UserID:       snapshot.Fields.String(fieldUserID),
		Email:        snapshot.Fields.String(fieldEmail),
		PasswordHash: snapshot.Fields.String(fieldPasswordHash),
		CreatedAt:    snapshot.Fields.Time(fieldCreatedAt),
	}, nil
}

// SaveProfile merges the profile into users/{uid}; the photo is kept when the
// profile carries none.
func (r UserRepository) SaveProfile(ctx context.Context, profile domain.UserProfile) error {
	fields := contract.Fields{
		fieldFirstName: profile.FirstName,
		fieldLastName:  profile.LastName,
		fieldPhone:     profile.Phone,
		fieldAddress:   profile.Address,
		fieldEmail:     NormalizeEmail(profile.Email),
	}
	if profile.PhotoURL != "" {
		fields[fieldPhotoURL] = profile.PhotoURL
	}
	return r.store.SetDocument(ctx, UsersCollection, profile.UID, fields, true)
}

func (r UserRepository) GetProfile(ctx context.Context, uid string) (domain.UserProfile, error) {
	snapshot, err := r.store.GetDocument(ctx, UsersCollection, uid)
	if errors.Is(err, errors.ErrNotFound) {
		return domain.UserProfile{}, fmt.Errorf("%w: %s", errors.ErrUserNotFound, uid)
	}
	if err != nil {
		return domain.UserProfile{}, err
	}
	return domain.UserProfile{
		UID:       snapshot.ID,
		FirstName: snapshot.Fields.String(fieldFirstName),
		LastName:  snapshot.Fields.String(fieldLastName),
		Phone:     snapshot.Fields.String(fieldPhone),
		Address:   snapshot.Fields.String(fieldAddress),
		Email:     snapshot.Fields.String(fieldEmail),
		PhotoURL:  snapshot.Fields.String(fieldPhotoURL),
	}, nil
}

func (r UserRepository) SetPhotoURL(ctx context.Context, uid, url string) error {
	err := r.store.UpdateDocument(ctx, UsersCollection, uid, contract.Fields{fieldPhotoURL: url})
	if errors.Is(err, errors.ErrNotFound) {
		return fmt.Errorf("%w: %s", errors.ErrUserNotFound, uid)
	}
	return err
}
