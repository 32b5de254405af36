package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakshiot4/UrbanWatch-plus/internal/models"
	"github.com/sakshiot4/UrbanWatch-plus/internal/pkg/apperror"
)

func TestTrackByToken_TimelineFollowsLifecycle(t *testing.T) {
	w := newWorld()
	tracking := NewTrackingService(w.store)
	citizen := w.addCitizen(models.RegionSouth)
	officer := w.addOfficer(models.RegionSouth)
	contractorP, contractor := w.addContractor(models.RegionSouth, models.CategoryRoad, models.ApprovalApproved)
	ctx := context.Background()

	c := w.submit(t, citizen, SubmitInput{Region: models.RegionSouth})

	view, err := tracking.TrackByToken(ctx, c.TrackingToken.String())
	require.NoError(t, err)
	assert.Equal(t, models.StatusReported, view.Status)
	require.Len(t, view.Timeline, 5)
	assert.Equal(t, []string{"Submitted", "Assigned", "In Progress", "Completed", "Closed"},
		[]string{view.Timeline[0].Label, view.Timeline[1].Label, view.Timeline[2].Label, view.Timeline[3].Label, view.Timeline[4].Label})
	assert.True(t, view.Timeline[0].Reached)
	for _, step := range view.Timeline[1:] {
		assert.False(t, step.Reached)
		assert.Nil(t, step.Timestamp)
	}

	_, err = w.svc.Claim(ctx, officer, c.ID)
	require.NoError(t, err)
	_, err = w.svc.AssignContractor(ctx, officer, c.ID, contractor.ID)
	require.NoError(t, err)
	_, err = w.svc.Complete(ctx, contractorP, c.ID, "uploads/after.jpg")
	require.NoError(t, err)

	view, err = tracking.TrackByToken(ctx, c.TrackingToken.String())
	require.NoError(t, err)
	assert.True(t, view.Timeline[3].Reached)
	assert.False(t, view.Timeline[4].Reached)

	// Rejection moves the timeline backwards with the complaint.
	_, err = w.svc.RejectWork(ctx, officer, c.ID, "redo the seams")
	require.NoError(t, err)

	view, err = tracking.TrackByToken(ctx, c.TrackingToken.String())
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, view.Status)
	assert.True(t, view.Timeline[2].Reached)
	assert.False(t, view.Timeline[3].Reached)
	assert.Nil(t, view.Timeline[3].Timestamp)
}

func TestTrackByToken_UnknownReadsAsNotFound(t *testing.T) {
	w := newWorld()
	tracking := NewTrackingService(w.store)

	_, err := tracking.TrackByToken(context.Background(), "not-a-token")
	assert.True(t, apperror.IsNotFound(err))

	_, err = tracking.TrackByToken(context.Background(), "7b7c3ba1-7b5a-4c09-9260-5e3f7cf2f4a0")
	assert.True(t, apperror.IsNotFound(err))
}

func TestHomeStats(t *testing.T) {
	w := newWorld()
	tracking := NewTrackingService(w.store)
	citizen := w.addCitizen(models.RegionSouth)
	officer := w.addOfficer(models.RegionSouth)
	contractorP, contractor := w.addContractor(models.RegionSouth, models.CategoryRoad, models.ApprovalApproved)
	ctx := context.Background()

	finish := func() *models.Complaint {
		c := w.submit(t, citizen, SubmitInput{Region: models.RegionSouth})
		_, err := w.svc.Claim(ctx, officer, c.ID)
		require.NoError(t, err)
		_, err = w.svc.AssignContractor(ctx, officer, c.ID, contractor.ID)
		require.NoError(t, err)
		_, err = w.svc.Complete(ctx, contractorP, c.ID, "uploads/after.jpg")
		require.NoError(t, err)
		closed, err := w.svc.Close(ctx, officer, c.ID)
		require.NoError(t, err)
		return closed
	}
	finish()
	finish()
	w.submit(t, citizen, SubmitInput{Region: models.RegionSouth})

	stats, err := tracking.HomeStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalFixed)
	assert.Len(t, stats.RecentlyResolved, 2)
	assert.Len(t, stats.SampleTokens, 2)
}
