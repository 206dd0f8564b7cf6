package postgres

import (
	"net/http"
	"testing"

	domainerrors "iner/internal/domain/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslateAccountWriteError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantErr  string
	}{
		{name: "unique", err: &pgconn.PgError{Code: "23505"}, wantCode: http.StatusConflict, wantErr: "ACCOUNT_ALREADY_EXISTS"},
		{name: "value too long", err: &pgconn.PgError{Code: "22001"}, wantCode: http.StatusBadRequest, wantErr: "VALIDATION_FAILED"},
		{name: "not null", err: &pgconn.PgError{Code: "23502"}, wantCode: http.StatusBadRequest, wantErr: "VALIDATION_FAILED"},
		{name: "other", err: errors.New("connection reset"), wantCode: http.StatusInternalServerError, wantErr: "DATABASE_EXECUTE_FAILED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := translateAccountWriteError(errors.Wrap(tt.err, "insert"), "failed to create account")

			var appErr domainerrors.AppError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, tt.wantCode, appErr.HTTPCode())
			assert.Equal(t, tt.wantErr, appErr.ErrorCode())
		})
	}
}

func TestTranslateRatingWriteError_ValueTooLong(t *testing.T) {
	err := translateRatingWriteError(&pgconn.PgError{Code: "22001"}, "failed to create service rating")

	var appErr domainerrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusBadRequest, appErr.HTTPCode())
}
