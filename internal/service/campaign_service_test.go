package service

import (
	"context"
	"database/sql/driver"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/admarket/admarket/internal/apperr"
	"github.com/admarket/admarket/internal/auth"
)

func campaignColumns() []string {
	return []string{"id", "name", "description", "start_date", "end_date", "budget", "goals", "is_private", "is_flagged", "sponsor_id"}
}

func campaignRow(id, sponsorID int64) []driver.Value {
	return []driver.Value{
		id, "Summer Launch", "desc",
		time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC),
		int64(5000), "awareness", false, false, sponsorID,
	}
}

func budget(v int64) *int64 { return &v }

func validCampaignInput() CampaignInput {
	return CampaignInput{
		Name:        "Summer Launch",
		Description: "desc",
		StartDate:   "2026-06-01",
		EndDate:     "2026-06-30",
		Budget:      budget(5000),
		Goals:       "awareness",
	}
}

func TestCampaignCreate_Validation(t *testing.T) {
	db, _ := newMockDB(t)
	svc := NewCampaignService(db)
	ctx := context.Background()
	claims := auth.Claims{ID: 1, Role: "SPR"}

	cases := []struct {
		name   string
		mutate func(*CampaignInput)
		msg    string
	}{
		{
			name:   "missing name",
			mutate: func(in *CampaignInput) { in.Name = "" },
			msg:    "name, description, start_date, end_date, budget, goals are required",
		},
		{
			name:   "missing budget",
			mutate: func(in *CampaignInput) { in.Budget = nil },
			msg:    "name, description, start_date, end_date, budget, goals are required",
		},
		{
			name:   "bad start date",
			mutate: func(in *CampaignInput) { in.StartDate = "01-06-2026" },
			msg:    "start_date must be a valid date in YYYY-MM-DD format",
		},
		{
			name:   "bad end date",
			mutate: func(in *CampaignInput) { in.EndDate = "soon" },
			msg:    "end_date must be a valid date in YYYY-MM-DD format",
		},
		{
			name: "start after end",
			mutate: func(in *CampaignInput) {
				in.StartDate = "2026-07-01"
				in.EndDate = "2026-06-01"
			},
			msg: "start_date must be less than end_date",
		},
		{
			name:   "negative budget",
			mutate: func(in *CampaignInput) { in.Budget = budget(-1) },
			msg:    "budget must be a positive number",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := validCampaignInput()
			tc.mutate(&input)
			_, err := svc.Create(ctx, claims, input)
			require.Error(t, err)
			require.Equal(t, apperr.CodeValidation, apperr.CodeOf(err))
			require.Equal(t, tc.msg, apperr.Message(err))
		})
	}
}

func TestCampaignCreate_Duplicate(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewCampaignService(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM campaigns WHERE name = $1 AND start_date = $2 AND end_date = $3`)).
		WithArgs("Summer Launch", "2026-06-01", "2026-06-30").
		WillReturnRows(sqlmock.NewRows(campaignColumns()).AddRow(campaignRow(1, 1)...))

	_, err := svc.Create(context.Background(), auth.Claims{ID: 1, Role: "SPR"}, validCampaignInput())
	require.Error(t, err)
	require.Equal(t, apperr.CodeConflict, apperr.CodeOf(err))
	require.Equal(t,
		"The campaign name Summer Launch already exists for the same start_date 2026-06-01 and end_date 2026-06-30",
		apperr.Message(err))
}

func TestCampaignCreate_Success(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewCampaignService(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM campaigns WHERE name = $1 AND start_date = $2 AND end_date = $3`)).
		WillReturnRows(sqlmock.NewRows(campaignColumns()))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO campaigns`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(11)))

	msg, err := svc.Create(context.Background(), auth.Claims{ID: 1, Role: "SPR"}, validCampaignInput())
	require.NoError(t, err)
	require.Equal(t, "Campaign added successfully", msg)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCampaignUpdate_NotOwner(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewCampaignService(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM campaigns WHERE id = $1`)).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(campaignColumns()).AddRow(campaignRow(7, 99)...))

	_, err := svc.Update(context.Background(), auth.Claims{ID: 1, Role: "SPR"}, 7, validCampaignInput())
	require.Error(t, err)
	require.Equal(t, apperr.CodeForbidden, apperr.CodeOf(err))
}

func TestCampaignDelete_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewCampaignService(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM campaigns WHERE id = $1`)).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(campaignColumns()))

	err := svc.Delete(context.Background(), auth.Claims{ID: 1, Role: "SPR"}, 7)
	require.Error(t, err)
	require.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
	require.Equal(t, "Campaign with id 7 not found", apperr.Message(err))
}

func TestCampaignDelete_WithAdRequests(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewCampaignService(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM campaigns WHERE id = $1`)).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(campaignColumns()).AddRow(campaignRow(7, 1)...))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(1) FROM ad_requests WHERE campaign_id = $1`)).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(3)))

	err := svc.Delete(context.Background(), auth.Claims{ID: 1, Role: "SPR"}, 7)
	require.Error(t, err)
	require.Equal(t, apperr.CodeValidation, apperr.CodeOf(err))
	require.Equal(t, "Cannot delete campaign with id 7 , there are 3 ad requests for this campaign", apperr.Message(err))
}

func TestCampaignDelete_NotOwner(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewCampaignService(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM campaigns WHERE id = $1`)).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(campaignColumns()).AddRow(campaignRow(7, 99)...))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(1) FROM ad_requests WHERE campaign_id = $1`)).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(0)))

	err := svc.Delete(context.Background(), auth.Claims{ID: 1, Role: "SPR"}, 7)
	require.Error(t, err)
	require.Equal(t, apperr.CodeForbidden, apperr.CodeOf(err))
}

func TestCampaignDelete_Success(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewCampaignService(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM campaigns WHERE id = $1`)).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(campaignColumns()).AddRow(campaignRow(7, 1)...))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(1) FROM ad_requests WHERE campaign_id = $1`)).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(0)))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM campaigns WHERE id = $1`)).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := svc.Delete(context.Background(), auth.Claims{ID: 1, Role: "SPR"}, 7)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCampaignFilter_RejectsUnknownField(t *testing.T) {
	db, _ := newMockDB(t)
	svc := NewCampaignService(db)

	_, err := svc.Filter(context.Background(), auth.Claims{ID: 1, Role: "SPR"}, map[string]string{
		"sponsor_id": "1",
	})
	require.Error(t, err)
	require.Equal(t, apperr.CodeValidation, apperr.CodeOf(err))
	require.Equal(t, "sponsor_id is not a filterable field", apperr.Message(err))
}

func TestCampaignFilter_BadBudget(t *testing.T) {
	db, _ := newMockDB(t)
	svc := NewCampaignService(db)

	_, err := svc.Filter(context.Background(), auth.Claims{ID: 1, Role: "SPR"}, map[string]string{
		"budget_lte": "lots",
	})
	require.Error(t, err)
	require.Equal(t, apperr.CodeValidation, apperr.CodeOf(err))
	require.Equal(t, "budget_lte must be a number", apperr.Message(err))
}

func TestCampaignFilter_BudgetRange(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewCampaignService(db)

	listingColumns := []string{"id", "name", "description", "start_date", "end_date", "budget", "goals", "sponsor_name"}
	mock.ExpectQuery(`SELECT .+ FROM campaigns c JOIN sponsors s ON c\.sponsor_id = s\.id WHERE c\.sponsor_id = \$1`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(listingColumns).
			AddRow(int64(1), "A", "d", "01-06-2026", "30-06-2026", int64(2000), "g", "Acme").
			AddRow(int64(2), "B", "d", "01-07-2026", "31-07-2026", int64(9000), "g", "Acme").
			AddRow(int64(3), "C", "d", "01-08-2026", "31-08-2026", int64(4000), "g", "Acme"))

	result, err := svc.Filter(context.Background(), auth.Claims{ID: 1, Role: "SPR"}, map[string]string{})
	require.NoError(t, err)
	require.Len(t, result.Campaigns, 3)
	require.Equal(t, int64(2000), result.MinBudget)
	require.Equal(t, int64(9000), result.MaxBudget)
}

func TestCampaignFilter_Empty(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewCampaignService(db)

	listingColumns := []string{"id", "name", "description", "start_date", "end_date", "budget", "goals", "sponsor_name"}
	mock.ExpectQuery(`SELECT .+ FROM campaigns c JOIN sponsors s`).
		WillReturnRows(sqlmock.NewRows(listingColumns))

	result, err := svc.Filter(context.Background(), auth.Claims{ID: 1, Role: "SPR"}, map[string]string{})
	require.NoError(t, err)
	require.Empty(t, result.Campaigns)
	require.Zero(t, result.MinBudget)
	require.Zero(t, result.MaxBudget)
}
