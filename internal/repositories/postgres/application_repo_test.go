package postgres

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yoockh/yoojob/internal/models"
	"github.com/yoockh/yoojob/internal/utils"
)

func TestApplicationRepoDuplicate(t *testing.T) {
	db := setupTestDB(t)
	repo := NewApplicationRepo(db)
	rec := seedProfile(t, db, models.RoleRecruiter, "R")
	cand := seedProfile(t, db, models.RoleCandidate, "C")
	job := seedJob(t, db, rec.ID, "Go dev", "X", time.Now().UTC())

	seedApplication(t, db, job.ID, cand.ID, time.Now().UTC())

	ok, err := repo.Exists(ctx(), job.ID, cand.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	err = repo.Create(ctx(), &models.Application{ID: uuid.NewString(), JobID: job.ID, CandidateID: cand.ID})
	assert.ErrorIs(t, err, utils.ErrDuplicate)
}

func TestApplicationRepoMarkReadAndStatus(t *testing.T) {
	db := setupTestDB(t)
	repo := NewApplicationRepo(db)
	rec := seedProfile(t, db, models.RoleRecruiter, "R")
	c1 := seedProfile(t, db, models.RoleCandidate, "C1")
	c2 := seedProfile(t, db, models.RoleCandidate, "C2")
	job := seedJob(t, db, rec.ID, "Go dev", "X", time.Now().UTC())
	other := seedJob(t, db, rec.ID, "Other", "X", time.Now().UTC())

	a1 := seedApplication(t, db, job.ID, c1.ID, time.Now().UTC())
	seedApplication(t, db, job.ID, c2.ID, time.Now().UTC())
	a3 := seedApplication(t, db, other.ID, c1.ID, time.Now().UTC())

	n, err := repo.MarkReadForJob(ctx(), job.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	rows, err := repo.ListByJob(ctx(), job.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, r := range rows {
		assert.True(t, r.ReadByRecruiter)
	}

	untouched, err := repo.GetByID(ctx(), a3.ID)
	require.NoError(t, err)
	assert.False(t, untouched.ReadByRecruiter)

	require.NoError(t, repo.UpdateStatus(ctx(), a1.ID, models.StatusAccepted))
	got, err := repo.GetByID(ctx(), a1.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAccepted, got.Status)

	assert.ErrorIs(t, repo.UpdateStatus(ctx(), "missing", models.StatusAccepted), utils.ErrNotFound)

	byStatus, err := repo.CountByStatusForCandidate(ctx(), c1.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, byStatus[models.StatusAccepted])
	assert.EqualValues(t, 1, byStatus[models.StatusPending])

	mine, err := repo.ListByCandidate(ctx(), c1.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 2)
}

func TestApplicationRepoRecruiterStats(t *testing.T) {
	db := setupTestDB(t)
	repo := NewApplicationRepo(db)
	rec := seedProfile(t, db, models.RoleRecruiter, "R")
	otherRec := seedProfile(t, db, models.RoleRecruiter, "R2")
	c1 := seedProfile(t, db, models.RoleCandidate, "C1")
	c2 := seedProfile(t, db, models.RoleCandidate, "C2")

	now := time.Now().UTC()
	j1 := seedJob(t, db, rec.ID, "J1", "X", now)
	j2 := seedJob(t, db, rec.ID, "J2", "X", now)
	foreign := seedJob(t, db, otherRec.ID, "J3", "X", now)

	seedApplication(t, db, j1.ID, c1.ID, now.Add(-10*24*time.Hour))
	seedApplication(t, db, j1.ID, c2.ID, now.Add(-time.Hour))
	seedApplication(t, db, j2.ID, c1.ID, now.Add(-time.Hour))
	seedApplication(t, db, foreign.ID, c1.ID, now)

	_, err := repo.MarkReadForJob(ctx(), j2.ID)
	require.NoError(t, err)

	totals, err := repo.RecruiterTotals(ctx(), rec.ID, now.Add(-7*24*time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 3, totals.Total)
	assert.EqualValues(t, 2, totals.Since)
	assert.EqualValues(t, 2, totals.Unread)

	counts, err := repo.CountsByJob(ctx(), rec.ID)
	require.NoError(t, err)
	assert.Equal(t, JobCounts{Applicants: 2, Unread: 2}, counts[j1.ID])
	assert.Equal(t, JobCounts{Applicants: 1, Unread: 0}, counts[j2.ID])
	_, ok := counts[foreign.ID]
	assert.False(t, ok)
}
