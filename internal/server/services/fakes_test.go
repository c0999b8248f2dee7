package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/funnelforge/adminauth/internal/dbx"
	"github.com/funnelforge/adminauth/internal/server/models"
	adminsrepo "github.com/funnelforge/adminauth/internal/server/repositories/admins"
	refreshtokensrepo "github.com/funnelforge/adminauth/internal/server/repositories/refreshtokens"
	resettokensrepo "github.com/funnelforge/adminauth/internal/server/repositories/resettokens"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

// --- fake repositories ---

type fakeAdminsRepo struct {
	createErr  error
	createdIn  *models.AdminUser
	byEmailOut *models.AdminUser
	byEmailErr error
	byIDOut    *models.AdminUser
	byIDErr    error

	updateErr     error
	updateCalls   int
	lastUpdateID  string
	lastUpdateHsh string
	lastUpdatedAt time.Time
}

func (f *fakeAdminsRepo) Create(ctx context.Context, u *models.AdminUser) (*models.AdminUser, error) {
	f.createdIn = u
	if f.createErr != nil {
		return nil, f.createErr
	}
	return u, nil
}

func (f *fakeAdminsRepo) GetByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	if f.byEmailErr != nil {
		return nil, f.byEmailErr
	}
	return f.byEmailOut, nil
}

func (f *fakeAdminsRepo) GetByID(ctx context.Context, id string) (*models.AdminUser, error) {
	if f.byIDErr != nil {
		return nil, f.byIDErr
	}
	return f.byIDOut, nil
}

func (f *fakeAdminsRepo) UpdatePassword(ctx context.Context, id string, hash string, updatedAt time.Time) error {
	f.updateCalls++
	f.lastUpdateID = id
	f.lastUpdateHsh = hash
	f.lastUpdatedAt = updatedAt
	return f.updateErr
}

type fakeRefreshRepo struct {
	createErr      error
	lastCreateUser string
	lastCreateHash string
	lastExpiresAt  time.Time

	findOut      *models.RefreshToken
	findErr      error
	lastFindHash string

	delErr       error
	lastDelHash  string
	deleteCalled bool
}

func (f *fakeRefreshRepo) Create(ctx context.Context, adminUserID string, tokenHash string, expiresAt time.Time) error {
	f.lastCreateUser = adminUserID
	f.lastCreateHash = tokenHash
	f.lastExpiresAt = expiresAt
	return f.createErr
}

func (f *fakeRefreshRepo) FindByHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error) {
	f.lastFindHash = tokenHash
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.findOut, nil
}

func (f *fakeRefreshRepo) Delete(ctx context.Context, tokenHash string) error {
	f.deleteCalled = true
	f.lastDelHash = tokenHash
	return f.delErr
}

type consumeResult struct {
	out *models.PasswordResetToken
	err error
}

type fakeResetRepo struct {
	createErr      error
	lastCreateUser string
	lastToken      string
	lastExpiresAt  time.Time

	consumeQueue []consumeResult
	consumeCalls int
}

func (f *fakeResetRepo) Create(ctx context.Context, adminUserID string, token string, expiresAt time.Time) error {
	f.lastCreateUser = adminUserID
	f.lastToken = token
	f.lastExpiresAt = expiresAt
	return f.createErr
}

func (f *fakeResetRepo) Consume(ctx context.Context, token string) (*models.PasswordResetToken, error) {
	f.consumeCalls++
	if len(f.consumeQueue) == 0 {
		return nil, errBoom{}
	}
	res := f.consumeQueue[0]
	f.consumeQueue = f.consumeQueue[1:]
	return res.out, res.err
}

type fakeRepoManager struct {
	a *fakeAdminsRepo
	r *fakeRefreshRepo
	p *fakeResetRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }

func (m *fakeRepoManager) Admins(db dbx.DBTX) adminsrepo.Repository { return m.a }

func (m *fakeRepoManager) RefreshTokens(db dbx.DBTX) refreshtokensrepo.Repository { return m.r }

func (m *fakeRepoManager) ResetTokens(db dbx.DBTX) resettokensrepo.Repository { return m.p }
