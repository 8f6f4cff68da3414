package account

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"sublease-marketplace/internal/auth"
	"sublease-marketplace/internal/biddingerrors"
	"sublease-marketplace/internal/config"
	"sublease-marketplace/internal/models"
	"sublease-marketplace/internal/repository"
	"sublease-marketplace/internal/storage"
	"sublease-marketplace/internal/testutil"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 32)...)

type fixture struct {
	db      *gorm.DB
	svc     *AccountService
	tokens  *auth.TokenIssuer
	uploads string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	db := testutil.NewTestDB(t)

	tokens, err := auth.NewTokenIssuer(config.JWTConfig{
		Secret:     "test-secret-test-secret-test-secret",
		Expiration: time.Hour,
		Issuer:     "sublease-test",
	})
	require.NoError(t, err)

	dir := t.TempDir()
	store, err := storage.NewLocalStore(dir, "/uploads")
	require.NoError(t, err)

	svc := NewAccountService(
		repository.NewGormUserRepo(db),
		repository.NewGormPropertyRepo(db),
		tokens,
		store,
		1024,
		WithClock(func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }),
	)
	return fixture{db: db, svc: svc, tokens: tokens, uploads: dir}
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		input   RegisterInput
		wantErr error
	}{
		{name: "valid", input: RegisterInput{Email: "Alice@Example.com ", Password: "correct-horse", Name: "Alice", PhoneNumber: "555-0100"}},
		{name: "bad_email", input: RegisterInput{Email: "not-an-email", Password: "correct-horse", Name: "Alice"}, wantErr: biddingerrors.ErrValidation},
		{name: "short_password", input: RegisterInput{Email: "bob@example.com", Password: "short", Name: "Bob"}, wantErr: biddingerrors.ErrValidation},
		{name: "blank_name", input: RegisterInput{Email: "carol@example.com", Password: "correct-horse", Name: "  "}, wantErr: biddingerrors.ErrValidation},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			session, err := f.svc.Register(ctx, tc.input)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, "alice@example.com", session.User.Email)
			require.NotEqual(t, tc.input.Password, session.User.PasswordHash)

			claims, err := f.tokens.Verify(session.Token)
			require.NoError(t, err)
			require.Equal(t, session.User.ID, claims.UserID)
			require.Equal(t, "user", claims.Role)
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.Register(ctx, RegisterInput{Email: "dup@example.com", Password: "password123", Name: "First"})
	require.NoError(t, err)

	_, err = f.svc.Register(ctx, RegisterInput{Email: "DUP@example.com", Password: "password456", Name: "Second"})
	require.ErrorIs(t, err, biddingerrors.ErrEmailTaken)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	registered, err := f.svc.Register(ctx, RegisterInput{Email: "login@example.com", Password: "password123", Name: "Login"})
	require.NoError(t, err)

	session, err := f.svc.Login(ctx, "LOGIN@example.com", "password123")
	require.NoError(t, err)
	require.Equal(t, registered.User.ID, session.User.ID)
	require.NotEmpty(t, session.Token)

	_, err = f.svc.Login(ctx, "login@example.com", "wrong-password")
	require.ErrorIs(t, err, biddingerrors.ErrInvalidCredential)

	_, err = f.svc.Login(ctx, "nobody@example.com", "password123")
	require.ErrorIs(t, err, biddingerrors.ErrInvalidCredential)
}

func TestGetProfile_IncludesReceivedReviews(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	owner := testutil.CreateUser(t, f.db, "owner", "Owner")
	reviewer := testutil.CreateUser(t, f.db, "reviewer", "Reviewer")
	testutil.CreateProperty(t, f.db, "p1", owner.ID, 100)
	require.NoError(t, f.db.Create(&models.Review{
		ID: "r1", ReviewerID: reviewer.ID, ReviewedID: owner.ID, PropertyID: "p1", Rating: 5, Comment: "great",
	}).Error)

	profile, err := f.svc.GetProfile(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, profile.ReceivedReviews, 1)
	require.Equal(t, "Reviewer", profile.ReceivedReviews[0].Reviewer.Name)

	_, err = f.svc.GetProfile(ctx, "missing")
	require.ErrorIs(t, err, biddingerrors.ErrNotFound)
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	testutil.CreateUser(t, f.db, "u1", "Before")

	name, bio := "After", "likes quiet neighbours"
	updated, err := f.svc.UpdateProfile(ctx, "u1", "u1", UpdateProfileInput{Name: &name, Bio: &bio})
	require.NoError(t, err)
	require.Equal(t, "After", updated.Name)
	require.Equal(t, bio, updated.Bio)

	_, err = f.svc.UpdateProfile(ctx, "u1", "someone-else", UpdateProfileInput{Name: &name})
	require.ErrorIs(t, err, biddingerrors.ErrForbidden)

	blank := " "
	_, err = f.svc.UpdateProfile(ctx, "u1", "u1", UpdateProfileInput{Name: &blank})
	require.ErrorIs(t, err, biddingerrors.ErrValidation)

	_, err = f.svc.UpdateProfile(ctx, "u1", "u1", UpdateProfileInput{})
	require.ErrorIs(t, err, biddingerrors.ErrValidation)
}

func TestSetProfileImage(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	testutil.CreateUser(t, f.db, "u1", "Pic")

	user, err := f.svc.SetProfileImage(ctx, "u1", "u1", bytes.NewReader(pngBytes))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(user.ProfileImageURL, "/uploads/profiles/2024/06/"))
	require.True(t, strings.HasSuffix(user.ProfileImageURL, ".png"))

	stored := filepath.Join(f.uploads, filepath.FromSlash(strings.TrimPrefix(user.ProfileImageURL, "/uploads/")))
	_, err = os.Stat(stored)
	require.NoError(t, err)

	_, err = f.svc.SetProfileImage(ctx, "u1", "u1", strings.NewReader("plain text is not an image"))
	require.ErrorIs(t, err, biddingerrors.ErrUnsupportedMedia)

	_, err = f.svc.SetProfileImage(ctx, "u1", "u1", bytes.NewReader(make([]byte, 2048)))
	require.ErrorIs(t, err, biddingerrors.ErrValidation)

	_, err = f.svc.SetProfileImage(ctx, "u1", "u2", bytes.NewReader(pngBytes))
	require.ErrorIs(t, err, biddingerrors.ErrForbidden)
}

func TestListUserProperties(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	testutil.CreateUser(t, f.db, "owner", "Owner")
	testutil.CreateProperty(t, f.db, "open", "owner", 100)
	testutil.CreateProperty(t, f.db, "closed", "owner", 100, func(p *models.Property) { p.Status = models.PropertyEnded })

	listings, err := f.svc.ListUserProperties(ctx, "owner")
	require.NoError(t, err)
	require.Len(t, listings.Active, 1)
	require.Equal(t, "open", listings.Active[0].ID)
	require.Len(t, listings.Past, 1)
	require.Equal(t, "closed", listings.Past[0].ID)

	_, err = f.svc.ListUserProperties(ctx, "ghost")
	require.ErrorIs(t, err, biddingerrors.ErrNotFound)
}
