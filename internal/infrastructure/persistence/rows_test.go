package persistence

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/consulting-marketplace/internal/domain/valueobject"
	"github.com/ignatzorin/consulting-marketplace/internal/pkg/apperror"
)

func TestRowsParseStatus(t *testing.T) {
	job, err := (&jobRow{ID: uuid.New(), Status: "open"}).toEntity()
	require.NoError(t, err)
	assert.Equal(t, valueobject.JobStatusOpen, job.Status)

	p, err := (&proposalRow{ID: uuid.New(), Status: "accepted"}).toEntity()
	require.NoError(t, err)
	assert.Equal(t, valueobject.ProposalStatusAccepted, p.Status)

	o, err := (&orderRow{ID: uuid.New(), Status: "pending_completion"}).toEntity()
	require.NoError(t, err)
	assert.Equal(t, valueobject.OrderStatusPendingCompletion, o.Status)
}

func TestRowsRejectUnknownStatus(t *testing.T) {
	_, err := (&jobRow{Status: "draft"}).toEntity()
	assert.Equal(t, apperror.ErrCodeDatabaseError, apperror.CodeOf(err))

	_, err = (&proposalRow{Status: "withdrawn"}).toEntity()
	assert.Equal(t, apperror.ErrCodeDatabaseError, apperror.CodeOf(err))

	_, err = (&orderRow{Status: "disputed"}).toEntity()
	assert.Equal(t, apperror.ErrCodeDatabaseError, apperror.CodeOf(err))
}
