package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yoockh/yoojob/internal/models"
)

func TestFavoriteRepo(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFavoriteRepo(db)
	rec := seedProfile(t, db, models.RoleRecruiter, "R")
	u := seedProfile(t, db, models.RoleCandidate, "U")
	j1 := seedJob(t, db, rec.ID, "J1", "X", time.Now().UTC())
	j2 := seedJob(t, db, rec.ID, "J2", "X", time.Now().UTC())

	require.NoError(t, repo.Add(ctx(), u.ID, j1.ID))
	require.NoError(t, repo.Add(ctx(), u.ID, j1.ID), "adding twice is a no-op")
	require.NoError(t, repo.Add(ctx(), u.ID, j2.ID))

	n, err := repo.Count(ctx(), u.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	jobs, err := repo.ListJobs(ctx(), u.ID)
	require.NoError(t, err)
	assert.Len(t, jobs, 2)

	require.NoError(t, repo.Remove(ctx(), u.ID, j1.ID))
	jobs, err = repo.ListJobs(ctx(), u.ID)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, j2.ID, jobs[0].ID)
}
