package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"

	"bodyfit-workers/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSession() *models.TryOnSession {
	return &models.TryOnSession{
		ID:          "s-1",
		BodyModelID: "bm-1",
		GarmentIDs:  []string{"top-1", "jeans-2"},
		PoseType:    models.DefaultPoseType,
		Lighting:    models.DefaultLighting,
		Status:      models.SessionStatusInitialized,
		CreatedAt:   stamp,
		UpdatedAt:   stamp,
	}
}

func TestSessions_Create(t *testing.T) {
	db, mock := setupMockDB(t)
	s := testSession()

	mock.ExpectExec(`INSERT INTO tryon_sessions`).
		WithArgs(s.ID, s.BodyModelID, models.SessionStatusInitialized, sqlmock.AnyArg(), stamp, stamp).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, NewSessions(db).Create(context.Background(), s))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessions_Update(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		execErr  error
		wantErr  error
		wantFail bool
	}{
		{name: "updated", affected: 1},
		{name: "unknown session", affected: 0, wantErr: models.ErrNotFound},
		{name: "database error", execErr: errors.New("deadlock detected"), wantFail: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := setupMockDB(t)
			s := testSession()
			s.Status = models.SessionStatusUpdated

			exp := mock.ExpectExec(`UPDATE tryon_sessions SET status = \$2, payload = \$3, updated_at = \$4 WHERE id = \$1`).
				WithArgs(s.ID, models.SessionStatusUpdated, sqlmock.AnyArg(), stamp)
			if tt.execErr != nil {
				exp.WillReturnError(tt.execErr)
			} else {
				exp.WillReturnResult(sqlmock.NewResult(0, tt.affected))
			}

			err := NewSessions(db).Update(context.Background(), s)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.wantFail:
				assert.Error(t, err)
				assert.NotErrorIs(t, err, models.ErrNotFound)
			default:
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSessions_Get(t *testing.T) {
	db, mock := setupMockDB(t)
	want := testSession()
	payload, err := json.Marshal(want)
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT payload FROM tryon_sessions WHERE id = \$1`).
		WithArgs("s-1").
		WillReturnRows(sqlmock.NewRows([]string{"payload"}).AddRow(payload))
	mock.ExpectQuery(`SELECT payload FROM tryon_sessions`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	repo := NewSessions(db)

	got, err := repo.Get(context.Background(), "s-1")
	require.NoError(t, err)
	assert.Equal(t, want.GarmentIDs, got.GarmentIDs)
	assert.Equal(t, want.BodyModelID, got.BodyModelID)
	assert.True(t, want.CreatedAt.Equal(got.CreatedAt))

	_, err = repo.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
