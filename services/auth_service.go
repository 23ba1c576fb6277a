package services

import (
	"context"
	"log/slog"
	"sync"
	"taskmarket/auth"
	"taskmarket/contract"
	"taskmarket/domain"
	"taskmarket/errors"
	"taskmarket/repositories"

	"github.com/google/uuid"
)

type IAuthService interface {
	SignUp(ctx context.Context, cmd domain.SignUpCommand) (auth.Session, error)
	SignIn(ctx context.Context, email, password string) (auth.Session, error)
	SignOut() error
	Restore() (auth.Session, error)
	CurrentUser() (auth.Session, error)
	OnAuthStateChanged(listener func(session *auth.Session)) contract.Unsubscribe
}

type AuthService struct {
	users    repositories.IUserRepository
	tokens   *auth.TokenIssuer
	sessions auth.SessionStore
	opts     Options
	log      *slog.Logger

	mu        sync.Mutex
	current   *auth.Session
	listeners map[int]func(session *auth.Session)
	nextID    int
}

func NewAuthService(
	users repositories.IUserRepository,
	tokens *auth.TokenIssuer,
	sessions auth.SessionStore,
	opts Options,
	log *slog.Logger) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		sessions:  sessions,
		opts:      opts,
		log:       log,
		listeners: make(map[int]func(session *auth.Session)),
	}
}

// SignUp validates the form before any hashing, then stores the credentials
// and the profile and signs the new user in.
func (s *AuthService) SignUp(ctx context.Context, cmd domain.SignUpCommand) (auth.Session, error) {
	cmd, err := auth.ValidateSignUp(cmd)
	if err != nil {
		return auth.Session{}, err
	}
	hash, err := auth.HashPassword(cmd.Password)
	if err != nil {
		return auth.Session{}, err
	}
	uid, err := uuid.NewV7()
	if err != nil {
		return auth.Session{}, err
	}
	userID := uid.String()

	err = exec(ctx, s.opts.StoreTimeout, func(ctx context.Context) error {
		return s.users.CreateCredentials(ctx, cmd.Email, userID, hash)
	})
	if err != nil {
		return auth.Session{}, err
	}
	err = exec(ctx, s.opts.StoreTimeout, func(ctx context.Context) error {
		return s.users.SaveProfile(ctx, domain.UserProfile{
			UID:       userID,
			FirstName: cmd.FirstName,
			LastName:  cmd.LastName,
			Phone:     cmd.Phone,
			Address:   cmd.Address,
			Email:     cmd.Email,
		})
	})
	if err != nil {
		s.log.Error("Profile not saved after sign up", "user_id", userID, "error", err)
		return auth.Session{}, err
	}
	s.log.Info("User signed up", "user_id", userID)
	return s.open(userID, repositories.NormalizeEmail(cmd.Email))
}

// SignIn never tells an unknown email apart from a wrong password.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (auth.Session, error) {
	if email == "" || password == "" {
		return auth.Session{}, errors.ErrMissingFields
	}
	credentials, err := call(ctx, s.opts.StoreTimeout, func(ctx context.Context) (repositories.Credentials, error) {
		return s.users.GetCredentials(ctx, email)
	})
	if auth.IsInvalidCredentials(err) {
		return auth.Session{}, errors.ErrInvalidCredentials
	}
	if err != nil {
		return auth.Session{}, err
	}
	match, err := auth.ComparePassword(password, credentials.PasswordHash)
	if err != nil || !match {
		return auth.Session{}, errors.ErrInvalidCredentials
	}
	s.log.Info("User signed in", "user_id", credentials.UserID)
	return s.open(credentials.UserID, credentials.Email)
}

func (s *AuthService) SignOut() error {
	if err := s.sessions.Clear(); err != nil {
		return err
	}
	s.set(nil)
	return nil
}

// Restore reloads a saved session, dropping it when its token no longer validates.
func (s *AuthService) Restore() (auth.Session, error) {
	session, ok, err := s.sessions.Load()
	if err != nil {
		return auth.Session{}, err
	}
	if !ok {
		return auth.Session{}, errors.ErrNotSignedIn
	}
	if _, err := s.tokens.Validate(session.Token); err != nil {
		s.log.Debug("Saved session rejected", "error", err)
		_ = s.sessions.Clear()
		return auth.Session{}, errors.ErrNotSignedIn
	}
	s.set(&session)
	return session, nil
}

func (s *AuthService) CurrentUser() (auth.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return auth.Session{}, errors.ErrNotSignedIn
	}
	return *s.current, nil
}

// OnAuthStateChanged calls listener with the current session, nil when signed
// out, then after every sign in or sign out.
func (s *AuthService) OnAuthStateChanged(listener func(session *auth.Session)) contract.Unsubscribe {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = listener
	current := s.current
	s.mu.Unlock()

	listener(current)
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

func (s *AuthService) open(userID, email string) (auth.Session, error) {
	token, claims, err := s.issue(userID, email)
	if err != nil {
		return auth.Session{}, err
	}
	session := auth.Session{UserID: userID, Email: email, Token: token, ExpiresAt: claims.ExpiresAt.Time}
	if err := s.sessions.Save(session); err != nil {
		return auth.Session{}, err
	}
	s.set(&session)
	return session, nil
}

func (s *AuthService) issue(userID, email string) (string, *auth.CustomClaims, error) {
	token, err := s.tokens.Generate(userID, email)
	if err != nil {
		return "", nil, errors.ErrTokenGeneration
	}
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return "", nil, errors.ErrTokenGeneration
	}
	return token, claims, nil
}

func (s *AuthService) set(session *auth.Session) {
	s.mu.Lock()
	s.current = session
	listeners := make([]func(*auth.Session), 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()
	for _, l := range listeners {
		l(session)
	}
}
