package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"puppymentor/internal/domain"
	"puppymentor/internal/repository"
)

func TestUserRepo_GetUser(t *testing.T) {
	birth := time.Date(2025, 5, 24, 21, 0, 0, 0, time.UTC)
	created := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		userID        int64
		mockRows      *sqlmock.Rows
		mockError     error
		expectedUser  *domain.User
		expectedError error
	}{
		{
			name:   "registered user",
			userID: 123,
			mockRows: sqlmock.NewRows([]string{"user_id", "subscribed", "puppy_name", "birth_date", "created_at"}).
				AddRow(123, true, "Бобик", birth, created),
			expectedUser: &domain.User{UserID: 123, Subscribed: true, PuppyName: "Бобик", BirthDate: &birth, CreatedAt: created},
		},
		{
			name:   "user without birth date",
			userID: 456,
			mockRows: sqlmock.NewRows([]string{"user_id", "subscribed", "puppy_name", "birth_date", "created_at"}).
				AddRow(456, false, "", nil, created),
			expectedUser: &domain.User{UserID: 456, CreatedAt: created},
		},
		{
			name:          "user not exists",
			userID:        789,
			mockError:     sql.ErrNoRows,
			expectedError: repository.ErrNotFound,
		},
		{
			name:          "database error",
			userID:        789,
			mockError:     errors.New("connection reset"),
			expectedError: errors.New("connection reset"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			assert.NoError(t, err)
			defer db.Close()

			repo := NewUserRepo(db)

			query := "SELECT user_id, subscribed, puppy_name, birth_date, created_at FROM users WHERE user_id = \\$1"
			if tt.mockError != nil {
				mock.ExpectQuery(query).WithArgs(tt.userID).WillReturnError(tt.mockError)
			} else {
				mock.ExpectQuery(query).WithArgs(tt.userID).WillReturnRows(tt.mockRows)
			}

			user, err := repo.GetUser(context.Background(), tt.userID)

			if tt.expectedError != nil {
				assert.EqualError(t, err, tt.expectedError.Error())
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedUser, user)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepo_GetUserNotFoundIsSentinel(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT user_id").WithArgs(int64(1)).WillReturnError(sql.ErrNoRows)

	_, err = NewUserRepo(db).GetUser(context.Background(), 1)
	assert.True(t, errors.Is(err, repository.ErrNotFound))
}

func TestUserRepo_Writes(t *testing.T) {
	ctx := context.Background()
	userID := int64(123)

	tests := []struct {
		name  string
		query string
		args  []driver.Value
		call  func(r *UserRepo) error
	}{
		{
			name:  "ensure user",
			query: "INSERT INTO users \\(user_id\\)",
			args:  []driver.Value{userID},
			call:  func(r *UserRepo) error { return r.EnsureUser(ctx, userID) },
		},
		{
			name:  "set puppy name",
			query: "INSERT INTO users \\(user_id, puppy_name\\)",
			args:  []driver.Value{userID, "Рекс"},
			call:  func(r *UserRepo) error { return r.SetPuppyName(ctx, userID, "Рекс") },
		},
		{
			name:  "subscribe",
			query: "INSERT INTO users \\(user_id, subscribed\\)",
			args:  []driver.Value{userID},
			call:  func(r *UserRepo) error { return r.Subscribe(ctx, userID) },
		},
		{
			name:  "unsubscribe",
			query: "UPDATE users SET subscribed = FALSE",
			args:  []driver.Value{userID},
			call:  func(r *UserRepo) error { return r.Unsubscribe(ctx, userID) },
		},
		{
			name:  "reset user",
			query: "DELETE FROM users",
			args:  []driver.Value{userID},
			call:  func(r *UserRepo) error { return r.ResetUser(ctx, userID) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			assert.NoError(t, err)
			defer db.Close()

			mock.ExpectExec(tt.query).WithArgs(tt.args...).WillReturnResult(sqlmock.NewResult(0, 1))

			assert.NoError(t, tt.call(NewUserRepo(db)))
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepo_Subscribers(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT user_id FROM users WHERE subscribed = TRUE").
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(1).AddRow(2).AddRow(3))

	ids, err := NewUserRepo(db).Subscribers(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_SetBirthDate(t *testing.T) {
	userID := int64(123)
	birth := time.Date(2025, 5, 24, 21, 0, 0, 0, time.UTC)
	schedule := domain.BuildVaccinationSchedule(userID, birth)

	t.Run("commits birth date and schedule together", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO users \\(user_id, birth_date\\)").
			WithArgs(userID, birth).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("DELETE FROM vaccinations").
			WithArgs(userID).
			WillReturnResult(sqlmock.NewResult(0, 3))
		for _, e := range schedule {
			mock.ExpectExec("INSERT INTO vaccinations").
				WithArgs(userID, e.Title, e.ScheduledAt, false).
				WillReturnResult(sqlmock.NewResult(1, 1))
		}
		mock.ExpectCommit()

		err = NewUserRepo(db).SetBirthDate(context.Background(), userID, birth, schedule)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back when schedule insert fails", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO users").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("DELETE FROM vaccinations").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec("INSERT INTO vaccinations").WillReturnError(errors.New("disk full"))
		mock.ExpectRollback()

		err = NewUserRepo(db).SetBirthDate(context.Background(), userID, birth, schedule)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "disk full")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
