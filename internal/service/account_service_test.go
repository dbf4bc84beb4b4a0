package service

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/admarket/admarket/internal/apperr"
	"github.com/admarket/admarket/internal/auth"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func influencerColumns() []string {
	return []string{"id", "name", "email", "password", "category", "niche", "reach", "is_flagged"}
}

func sponsorColumns() []string {
	return []string{"id", "name", "email", "password", "industry", "max_budget", "is_approved", "is_flagged"}
}

func TestRegister_Validation(t *testing.T) {
	db, _ := newMockDB(t)
	svc := NewAccountService(db)
	ctx := context.Background()

	cases := []struct {
		name  string
		input RegisterInput
		msg   string
	}{
		{
			name:  "missing fields",
			input: RegisterInput{Role: "INF", Name: "Maya"},
			msg:   "role,name,email,password are required",
		},
		{
			name:  "admin not self registrable",
			input: RegisterInput{Role: "ADM", Name: "Eve", Email: "eve@example.com", Password: "secret1"},
			msg:   "Invalid role , must be in INF, SPR",
		},
		{
			name:  "bad email",
			input: RegisterInput{Role: "INF", Name: "Maya", Email: "not-an-email", Password: "secret1"},
			msg:   "Invalid email format",
		},
		{
			name:  "short password",
			input: RegisterInput{Role: "INF", Name: "Maya", Email: "maya@example.com", Password: "abc"},
			msg:   "Password must be at least 6 characters",
		},
		{
			name:  "long password",
			input: RegisterInput{Role: "INF", Name: "Maya", Email: "maya@example.com", Password: "waytoolongpassword"},
			msg:   "Password must be at most 12 characters",
		},
		{
			name:  "missing influencer fields",
			input: RegisterInput{Role: "INF", Name: "Maya", Email: "maya@example.com", Password: "secret1"},
			msg:   "category, niche and reach are required for influencers",
		},
		{
			name:  "missing sponsor fields",
			input: RegisterInput{Role: "SPR", Name: "Acme", Email: "acme@example.com", Password: "secret1"},
			msg:   "industry and max_budget are required for sponsors",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tc.input)
			require.Error(t, err)
			require.Equal(t, apperr.CodeValidation, apperr.CodeOf(err))
			require.Equal(t, tc.msg, apperr.Message(err))
		})
	}
}

func TestRegister_Influencer(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewAccountService(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM influencers WHERE email = $1`)).
		WithArgs("maya@example.com").
		WillReturnRows(sqlmock.NewRows(influencerColumns()))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO influencers`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))

	result, err := svc.Register(context.Background(), RegisterInput{
		Role: "INF", Name: "Maya", Email: "maya@example.com", Password: "secret1",
		Category: "tech", Niche: "gadgets", Reach: 50000,
	})
	require.NoError(t, err)
	require.Equal(t, int64(42), result.ID)
	require.Equal(t, "Influencer registered successfully", result.Message)
	require.Equal(t, "INF", result.Claims.Role)
	require.Equal(t, "Influencer", result.Claims.FullRole)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRegister_DuplicateEmail(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewAccountService(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM influencers WHERE email = $1`)).
		WithArgs("maya@example.com").
		WillReturnRows(sqlmock.NewRows(influencerColumns()).
			AddRow(int64(1), "Maya", "maya@example.com", "digest", "tech", "gadgets", int64(50000), false))

	_, err := svc.Register(context.Background(), RegisterInput{
		Role: "INF", Name: "Maya", Email: "maya@example.com", Password: "secret1",
		Category: "tech", Niche: "gadgets", Reach: 50000,
	})
	require.Error(t, err)
	require.Equal(t, apperr.CodeConflict, apperr.CodeOf(err))
	require.Equal(t, "Influencer with email maya@example.com already exists", apperr.Message(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLogin_Influencer(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewAccountService(db)

	digest, err := auth.HashPassword("secret1")
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM influencers WHERE email = $1`)).
		WithArgs("maya@example.com").
		WillReturnRows(sqlmock.NewRows(influencerColumns()).
			AddRow(int64(5), "Maya", "maya@example.com", digest, "tech", "gadgets", int64(50000), false))

	result, err := svc.Login(context.Background(), LoginInput{
		Role: "INF", Email: "maya@example.com", Password: "secret1",
	})
	require.NoError(t, err)
	require.Equal(t, int64(5), result.ID)
	require.Equal(t, "Welcome back Influencer maya@example.com", result.Message)
	require.Equal(t, "Maya", result.Claims.Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLogin_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewAccountService(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM influencers WHERE email = $1`)).
		WithArgs("ghost@example.com").
		WillReturnRows(sqlmock.NewRows(influencerColumns()))

	_, err := svc.Login(context.Background(), LoginInput{
		Role: "INF", Email: "ghost@example.com", Password: "secret1",
	})
	require.Error(t, err)
	require.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
	require.Equal(t, "Influencer with email ghost@example.com not found", apperr.Message(err))
}

func TestLogin_WrongPassword(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewAccountService(db)

	digest, err := auth.HashPassword("secret1")
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM influencers WHERE email = $1`)).
		WithArgs("maya@example.com").
		WillReturnRows(sqlmock.NewRows(influencerColumns()).
			AddRow(int64(5), "Maya", "maya@example.com", digest, "tech", "gadgets", int64(50000), false))

	_, err = svc.Login(context.Background(), LoginInput{
		Role: "INF", Email: "maya@example.com", Password: "secret2",
	})
	require.Error(t, err)
	require.Equal(t, apperr.CodeValidation, apperr.CodeOf(err))
	require.Equal(t, "Invalid password", apperr.Message(err))
}

func TestLogin_FlaggedInfluencer(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewAccountService(db)

	digest, err := auth.HashPassword("secret1")
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM influencers WHERE email = $1`)).
		WithArgs("maya@example.com").
		WillReturnRows(sqlmock.NewRows(influencerColumns()).
			AddRow(int64(5), "Maya", "maya@example.com", digest, "tech", "gadgets", int64(50000), true))

	_, err = svc.Login(context.Background(), LoginInput{
		Role: "INF", Email: "maya@example.com", Password: "secret1",
	})
	require.Error(t, err)
	require.Equal(t, apperr.CodeForbidden, apperr.CodeOf(err))
	require.Equal(t, "You have been flagged by the admin for your actions , please contact support team", apperr.Message(err))
}

func TestLogin_UnapprovedSponsor(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewAccountService(db)

	digest, err := auth.HashPassword("secret1")
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM sponsors WHERE email = $1`)).
		WithArgs("acme@example.com").
		WillReturnRows(sqlmock.NewRows(sponsorColumns()).
			AddRow(int64(3), "Acme", "acme@example.com", digest, "retail", int64(100000), false, false))

	_, err = svc.Login(context.Background(), LoginInput{
		Role: "SPR", Email: "acme@example.com", Password: "secret1",
	})
	require.Error(t, err)
	require.Equal(t, apperr.CodeForbidden, apperr.CodeOf(err))
	require.Equal(t, "You cannot login until admin approves your profile , please be patient or contact support team", apperr.Message(err))
}

func TestUpdateProfile_EmailCollision(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewAccountService(db)
	claims := auth.Claims{ID: 5, Role: "INF"}

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM influencers WHERE email = $1`)).
		WithArgs("taken@example.com").
		WillReturnRows(sqlmock.NewRows(influencerColumns()).
			AddRow(int64(9), "Other", "taken@example.com", "digest", "tech", "gadgets", int64(10), false))

	err := svc.UpdateProfile(context.Background(), claims, ProfileUpdateInput{
		Name: "Maya", Email: "taken@example.com", Category: "tech", Niche: "gadgets", Reach: 50000,
	})
	require.Error(t, err)
	require.Equal(t, apperr.CodeConflict, apperr.CodeOf(err))
}

func TestUpdateProfile_KeepOwnEmail(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewAccountService(db)
	claims := auth.Claims{ID: 5, Role: "INF"}

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM influencers WHERE email = $1`)).
		WithArgs("maya@example.com").
		WillReturnRows(sqlmock.NewRows(influencerColumns()).
			AddRow(int64(5), "Maya", "maya@example.com", "digest", "tech", "gadgets", int64(10), false))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE influencers`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := svc.UpdateProfile(context.Background(), claims, ProfileUpdateInput{
		Name: "Maya", Email: "maya@example.com", Category: "tech", Niche: "gadgets", Reach: 50000,
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
