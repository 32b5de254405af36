package service

import (
	"context"
	"os"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakshiot4/UrbanWatch-plus/internal/authz"
	"github.com/sakshiot4/UrbanWatch-plus/internal/logger"
	"github.com/sakshiot4/UrbanWatch-plus/internal/models"
	"github.com/sakshiot4/UrbanWatch-plus/internal/pkg/apperror"
	"github.com/sakshiot4/UrbanWatch-plus/internal/repository"
)

func TestMain(m *testing.M) {
	logger.Init("error")
	os.Exit(m.Run())
}

// fakeComplaintStore is an in-memory ComplaintStore. Its UpdateLocked holds
// a per-store mutex for the whole callback, mirroring the serialization the
// SQL implementation gets from SELECT ... FOR UPDATE.
type fakeComplaintStore struct {
	mu         sync.Mutex
	complaints map[uuid.UUID]*models.Complaint
}

func newFakeComplaintStore() *fakeComplaintStore {
	return &fakeComplaintStore{complaints: make(map[uuid.UUID]*models.Complaint)}
}

func clone(c *models.Complaint) *models.Complaint {
	cp := *c
	return &cp
}

func (f *fakeComplaintStore) Create(ctx context.Context, c *models.Complaint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.complaints[c.ID] = clone(c)
	return nil
}

func (f *fakeComplaintStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Complaint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.complaints[id]
	if !ok {
		return nil, apperror.ErrComplaintNotFound
	}
	return clone(c), nil
}

func (f *fakeComplaintStore) GetByTrackingToken(ctx context.Context, token uuid.UUID) (*models.Complaint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.complaints {
		if c.TrackingToken == token {
			return clone(c), nil
		}
	}
	return nil, apperror.ErrComplaintNotFound
}

func (f *fakeComplaintStore) UpdateLocked(ctx context.Context, id uuid.UUID, fn func(c *models.Complaint) error) (*models.Complaint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.complaints[id]
	if !ok {
		return nil, apperror.ErrComplaintNotFound
	}
	working := clone(stored)
	if err := fn(working); err != nil {
		return nil, err
	}
	f.complaints[id] = clone(working)
	return working, nil
}

func complaintMatches(c *models.Complaint, f repository.ComplaintFilter) bool {
	if len(f.Statuses) > 0 {
		found := false
		for _, s := range f.Statuses {
			if c.Status == s {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.Region != "" && c.Region != f.Region {
		return false
	}
	if f.CitizenID != nil && c.CitizenID != *f.CitizenID {
		return false
	}
	if f.OfficerID != nil && (c.OfficerID == nil || *c.OfficerID != *f.OfficerID) {
		return false
	}
	if f.ContractorID != nil && (c.ContractorID == nil || *c.ContractorID != *f.ContractorID) {
		return false
	}
	if f.Unassigned && c.OfficerID != nil {
		return false
	}
	return true
}

func (f *fakeComplaintStore) List(ctx context.Context, filter repository.ComplaintFilter) ([]models.Complaint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []models.Complaint
	for _, c := range f.complaints {
		if complaintMatches(c, filter) {
			out = append(out, *clone(c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

	if filter.Offset > 0 {
		if filter.Offset >= len(out) {
			return []models.Complaint{}, nil
		}
		out = out[filter.Offset:]
	}
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (f *fakeComplaintStore) Count(ctx context.Context, filter repository.ComplaintFilter) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, c := range f.complaints {
		if complaintMatches(c, filter) {
			count++
		}
	}
	return count, nil
}

func (f *fakeComplaintStore) CountResolved(ctx context.Context) (int, error) {
	return f.Count(ctx, repository.ComplaintFilter{
		Statuses: []models.ComplaintStatus{models.StatusCompleted, models.StatusClosed},
	})
}

func (f *fakeComplaintStore) ListRecentlyClosed(ctx context.Context, limit int) ([]models.Complaint, error) {
	return f.List(ctx, repository.ComplaintFilter{
		Statuses: []models.ComplaintStatus{models.StatusClosed},
		Limit:    limit,
	})
}

type fakeContractorStore struct {
	mu          sync.Mutex
	contractors map[uuid.UUID]*models.Contractor
}

func newFakeContractorStore() *fakeContractorStore {
	return &fakeContractorStore{contractors: make(map[uuid.UUID]*models.Contractor)}
}

func (f *fakeContractorStore) Create(ctx context.Context, c *models.Contractor) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *c
	f.contractors[c.ID] = &cp
	return nil
}

func (f *fakeContractorStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Contractor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.contractors[id]
	if !ok {
		return nil, apperror.ErrContractorNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeContractorStore) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Contractor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.contractors {
		if c.UserID == userID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, apperror.ErrContractorNotFound
}

func (f *fakeContractorStore) ListEligible(ctx context.Context, region, category string) ([]models.Contractor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Contractor
	for _, c := range f.contractors {
		if c.IsEligibleFor(region, category) {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeContractorStore) ListPending(ctx context.Context) ([]models.Contractor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Contractor
	for _, c := range f.contractors {
		if c.Status == models.ApprovalPending {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeContractorStore) Approve(ctx context.Context, id, officerID uuid.UUID, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.contractors[id]
	if !ok {
		return apperror.ErrContractorNotFound
	}
	if c.Status != models.ApprovalPending {
		return apperror.New(apperror.ErrCodeConflict, "contractor is not awaiting approval")
	}
	c.Status = models.ApprovalApproved
	c.ApprovedByID = &officerID
	c.ApprovedAt = &at
	c.RejectionReason = nil
	return nil
}

func (f *fakeContractorStore) Reject(ctx context.Context, id uuid.UUID, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.contractors[id]
	if !ok {
		return apperror.ErrContractorNotFound
	}
	if c.Status != models.ApprovalPending {
		return apperror.New(apperror.ErrCodeConflict, "contractor is not awaiting approval")
	}
	c.Status = models.ApprovalRejected
	c.RejectionReason = &reason
	return nil
}

type fakeCitizenStore struct {
	citizens map[uuid.UUID]*models.Citizen
}

func (f *fakeCitizenStore) Create(ctx context.Context, c *models.Citizen) error {
	f.citizens[c.ID] = c
	return nil
}

func (f *fakeCitizenStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Citizen, error) {
	c, ok := f.citizens[id]
	if !ok {
		return nil, apperror.ErrCitizenNotFound
	}
	return c, nil
}

func (f *fakeCitizenStore) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Citizen, error) {
	for _, c := range f.citizens {
		if c.UserID == userID {
			return c, nil
		}
	}
	return nil, apperror.ErrCitizenNotFound
}

type fakeOfficerStore struct {
	officers map[uuid.UUID]*models.Officer
}

func (f *fakeOfficerStore) Create(ctx context.Context, o *models.Officer) error {
	f.officers[o.ID] = o
	return nil
}

func (f *fakeOfficerStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Officer, error) {
	o, ok := f.officers[id]
	if !ok {
		return nil, apperror.ErrOfficerNotFound
	}
	return o, nil
}

func (f *fakeOfficerStore) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Officer, error) {
	for _, o := range f.officers {
		if o.UserID == userID {
			return o, nil
		}
	}
	return nil, apperror.ErrOfficerNotFound
}

type fakeUserStore struct {
	users map[uuid.UUID]*models.User
}

func (f *fakeUserStore) Create(ctx context.Context, u *models.User) error {
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserStore) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, apperror.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperror.ErrUserNotFound
}

func (f *fakeUserStore) UpdateLastLoginAt(ctx context.Context, id uuid.UUID) error {
	now := time.Now()
	if u, ok := f.users[id]; ok {
		u.LastLoginAt = &now
	}
	return nil
}

type sentMail struct {
	To      string
	Subject string
	Body    string
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentMail
}

func (f *fakeNotifier) Notify(to, subject, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMail{To: to, Subject: subject, Body: body})
}

func (f *fakeNotifier) sentTo(addr string) []sentMail {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []sentMail
	for _, m := range f.sent {
		if m.To == addr {
			out = append(out, m)
		}
	}
	return out
}

type fakeHub struct {
	mu     sync.Mutex
	events map[uuid.UUID]int
}

func (f *fakeHub) BroadcastToUser(userID uuid.UUID, event string, data any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.events == nil {
		f.events = make(map[uuid.UUID]int)
	}
	f.events[userID]++
	return nil
}

// world bundles the fakes behind a ComplaintService and helpers to mint
// principals.
type world struct {
	store       *fakeComplaintStore
	contractors *fakeContractorStore
	citizens    *fakeCitizenStore
	officers    *fakeOfficerStore
	users       *fakeUserStore
	notifier    *fakeNotifier
	hub         *fakeHub
	svc         *ComplaintService
}

func newWorld() *world {
	w := &world{
		store:       newFakeComplaintStore(),
		contractors: newFakeContractorStore(),
		citizens:    &fakeCitizenStore{citizens: make(map[uuid.UUID]*models.Citizen)},
		officers:    &fakeOfficerStore{officers: make(map[uuid.UUID]*models.Officer)},
		users:       &fakeUserStore{users: make(map[uuid.UUID]*models.User)},
		notifier:    &fakeNotifier{},
		hub:         &fakeHub{},
	}
	w.svc = NewComplaintService(w.store, w.contractors, w.citizens, w.officers, w.users, w.notifier, w.hub)
	return w
}

func (w *world) addCitizen(regionName string) authz.Principal {
	user := &models.User{ID: uuid.New(), Email: uuid.NewString() + "@example.com", Role: models.RoleCitizen, IsActive: true}
	w.users.users[user.ID] = user
	citizen := &models.Citizen{ID: uuid.New(), UserID: user.ID, Name: "Test Citizen", Region: regionName}
	w.citizens.citizens[citizen.ID] = citizen
	return authz.CitizenPrincipal(citizen)
}

func (w *world) addOfficer(regionName string) authz.Principal {
	user := &models.User{ID: uuid.New(), Email: uuid.NewString() + "@example.com", Role: models.RoleOfficer, IsActive: true}
	w.users.users[user.ID] = user
	officer := &models.Officer{ID: uuid.New(), UserID: user.ID, Name: "Test Officer", Email: user.Email, Region: regionName}
	w.officers.officers[officer.ID] = officer
	return authz.OfficerPrincipal(officer)
}

func (w *world) addContractor(regionName, category, status string) (authz.Principal, *models.Contractor) {
	user := &models.User{ID: uuid.New(), Email: uuid.NewString() + "@example.com", Role: models.RoleContractor, IsActive: true}
	w.users.users[user.ID] = user
	contractor := &models.Contractor{
		ID: uuid.New(), UserID: user.ID, Name: "Test Contractor", Email: user.Email,
		Specialization: category, Region: regionName, Status: status,
	}
	w.contractors.contractors[contractor.ID] = contractor
	return authz.ContractorPrincipal(contractor), contractor
}

func (w *world) submit(t *testing.T, citizen authz.Principal, in SubmitInput) *models.Complaint {
	t.Helper()
	if in.Title == "" {
		in.Title = "Pothole on the main road"
	}
	if in.Description == "" {
		in.Description = "A deep pothole has formed and is a danger to two-wheelers."
	}
	if in.Category == "" {
		in.Category = models.CategoryRoad
	}
	c, err := w.svc.Submit(context.Background(), citizen, in)
	require.NoError(t, err)
	return c
}

func TestSubmit_CreatesReportedComplaint(t *testing.T) {
	w := newWorld()
	citizen := w.addCitizen(models.RegionSouth)

	c := w.submit(t, citizen, SubmitInput{Region: models.RegionSouth})

	assert.Equal(t, models.StatusReported, c.Status)
	assert.Equal(t, citizen.ProfileID, c.CitizenID)
	assert.NotEqual(t, uuid.Nil, c.TrackingToken)
	assert.Nil(t, c.OfficerID)
	assert.Nil(t, c.AssignedAt)

	// Submission receipt goes to the reporting citizen.
	user := w.users.users[citizen.UserID]
	mails := w.notifier.sentTo(user.Email)
	require.Len(t, mails, 1)
	assert.Contains(t, mails[0].Body, c.TrackingToken.String())
}

func TestSubmit_ResolvesRegionFromPincode(t *testing.T) {
	w := newWorld()
	citizen := w.addCitizen(models.RegionNorth)

	c := w.submit(t, citizen, SubmitInput{Pincode: "400050"})
	assert.Equal(t, models.RegionWest, c.Region)

	// Unknown pincodes land in central rather than failing.
	c = w.submit(t, citizen, SubmitInput{Pincode: "999999"})
	assert.Equal(t, models.RegionCentral, c.Region)

	// Without region or pincode the citizen's home region wins.
	c = w.submit(t, citizen, SubmitInput{})
	assert.Equal(t, models.RegionNorth, c.Region)
}

func TestSubmit_RejectsBadInput(t *testing.T) {
	w := newWorld()
	citizen := w.addCitizen(models.RegionSouth)
	ctx := context.Background()

	_, err := w.svc.Submit(ctx, citizen, SubmitInput{Title: "x", Description: "valid description here", Category: models.CategoryRoad})
	assert.True(t, apperror.IsValidation(err))

	_, err = w.svc.Submit(ctx, citizen, SubmitInput{Title: "Valid title", Description: "valid description here", Category: "plumbing"})
	assert.True(t, apperror.IsValidation(err))

	officer := w.addOfficer(models.RegionSouth)
	_, err = w.svc.Submit(ctx, officer, SubmitInput{Title: "Valid title", Description: "valid description here", Category: models.CategoryRoad})
	assert.True(t, apperror.IsForbidden(err))
}

func TestClaim_SetsOfficerAndAssignedAt(t *testing.T) {
	w := newWorld()
	citizen := w.addCitizen(models.RegionSouth)
	officer := w.addOfficer(models.RegionSouth)
	c := w.submit(t, citizen, SubmitInput{Region: models.RegionSouth})

	claimed, err := w.svc.Claim(context.Background(), officer, c.ID)
	require.NoError(t, err)

	assert.Equal(t, models.StatusAssigned, claimed.Status)
	require.NotNil(t, claimed.OfficerID)
	assert.Equal(t, officer.ProfileID, *claimed.OfficerID)
	assert.NotNil(t, claimed.AssignedAt)
}

func TestClaim_WrongRegionLeavesComplaintUntouched(t *testing.T) {
	w := newWorld()
	citizen := w.addCitizen(models.RegionSouth)
	northOfficer := w.addOfficer(models.RegionNorth)
	c := w.submit(t, citizen, SubmitInput{Region: models.RegionSouth})

	_, err := w.svc.Claim(context.Background(), northOfficer, c.ID)
	assert.True(t, apperror.IsForbidden(err))

	stored, err := w.store.GetByID(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusReported, stored.Status)
	assert.Nil(t, stored.OfficerID)
}

func TestClaim_SecondOfficerGetsConflict(t *testing.T) {
	w := newWorld()
	citizen := w.addCitizen(models.RegionEast)
	first := w.addOfficer(models.RegionEast)
	second := w.addOfficer(models.RegionEast)
	c := w.submit(t, citizen, SubmitInput{Region: models.RegionEast})

	_, err := w.svc.Claim(context.Background(), first, c.ID)
	require.NoError(t, err)

	_, err = w.svc.Claim(context.Background(), second, c.ID)
	assert.True(t, apperror.IsConflict(err))

	stored, err := w.store.GetByID(context.Background(), c.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.OfficerID)
	assert.Equal(t, first.ProfileID, *stored.OfficerID)
}

func TestClaim_ConcurrentRaceHasOneWinner(t *testing.T) {
	w := newWorld()
	citizen := w.addCitizen(models.RegionWest)
	c := w.submit(t, citizen, SubmitInput{Region: models.RegionWest})

	const racers = 8
	officers := make([]authz.Principal, racers)
	for i := range officers {
		officers[i] = w.addOfficer(models.RegionWest)
	}

	errs := make([]error, racers)
	var wg sync.WaitGroup
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = w.svc.Claim(context.Background(), officers[i], c.ID)
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
		} else {
			assert.True(t, apperror.IsConflict(err))
		}
	}
	assert.Equal(t, 1, winners)
}

func TestAssignContractor_AdvancesToInProgress(t *testing.T) {
	w := newWorld()
	citizen := w.addCitizen(models.RegionSouth)
	officer := w.addOfficer(models.RegionSouth)
	_, contractor := w.addContractor(models.RegionSouth, models.CategoryRoad, models.ApprovalApproved)
	c := w.submit(t, citizen, SubmitInput{Region: models.RegionSouth})

	_, err := w.svc.Claim(context.Background(), officer, c.ID)
	require.NoError(t, err)

	assigned, err := w.svc.AssignContractor(context.Background(), officer, c.ID, contractor.ID)
	require.NoError(t, err)

	assert.Equal(t, models.StatusInProgress, assigned.Status)
	require.NotNil(t, assigned.ContractorID)
	assert.Equal(t, contractor.ID, *assigned.ContractorID)
	assert.NotNil(t, assigned.InProgressAt)

	mails := w.notifier.sentTo(contractor.Email)
	require.Len(t, mails, 1)
	assert.Equal(t, "New work assignment", mails[0].Subject)
}

func TestAssignContractor_IneligibleRejected(t *testing.T) {
	w := newWorld()
	citizen := w.addCitizen(models.RegionSouth)
	officer := w.addOfficer(models.RegionSouth)
	c := w.submit(t, citizen, SubmitInput{Region: models.RegionSouth, Category: models.CategoryRoad})

	_, err := w.svc.Claim(context.Background(), officer, c.ID)
	require.NoError(t, err)

	cases := map[string]*models.Contractor{}
	_, cases["wrong specialization"] = w.addContractor(models.RegionSouth, models.CategoryWater, models.ApprovalApproved)
	_, cases["wrong region"] = w.addContractor(models.RegionNorth, models.CategoryRoad, models.ApprovalApproved)
	_, cases["not approved"] = w.addContractor(models.RegionSouth, models.CategoryRoad, models.ApprovalPending)

	for name, contractor := range cases {
		_, err := w.svc.AssignContractor(context.Background(), officer, c.ID, contractor.ID)
		assert.True(t, apperror.IsValidation(err), name)
	}

	stored, err := w.store.GetByID(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAssigned, stored.Status)
	assert.Nil(t, stored.ContractorID)
}

func TestAssignContractor_OnlyAssignedOfficer(t *testing.T) {
	w := newWorld()
	citizen := w.addCitizen(models.RegionSouth)
	officer := w.addOfficer(models.RegionSouth)
	other := w.addOfficer(models.RegionSouth)
	_, contractor := w.addContractor(models.RegionSouth, models.CategoryRoad, models.ApprovalApproved)
	c := w.submit(t, citizen, SubmitInput{Region: models.RegionSouth})

	_, err := w.svc.Claim(context.Background(), officer, c.ID)
	require.NoError(t, err)

	_, err = w.svc.AssignContractor(context.Background(), other, c.ID, contractor.ID)
	assert.True(t, apperror.IsForbidden(err))
}

func TestRemoveContractor_KeepsInProgressAt(t *testing.T) {
	w := newWorld()
	citizen := w.addCitizen(models.RegionSouth)
	officer := w.addOfficer(models.RegionSouth)
	_, contractor := w.addContractor(models.RegionSouth, models.CategoryRoad, models.ApprovalApproved)
	c := w.submit(t, citizen, SubmitInput{Region: models.RegionSouth})

	_, err := w.svc.Claim(context.Background(), officer, c.ID)
	require.NoError(t, err)
	assigned, err := w.svc.AssignContractor(context.Background(), officer, c.ID, contractor.ID)
	require.NoError(t, err)
	firstProgress := *assigned.InProgressAt

	removed, err := w.svc.RemoveContractor(context.Background(), officer, c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAssigned, removed.Status)
	assert.Nil(t, removed.ContractorID)
	require.NotNil(t, removed.InProgressAt)
	assert.True(t, removed.InProgressAt.Equal(firstProgress))

	// Re-assignment does not rewrite the first in_progress entry.
	reassigned, err := w.svc.AssignContractor(context.Background(), officer, c.ID, contractor.ID)
	require.NoError(t, err)
	assert.True(t, reassigned.InProgressAt.Equal(firstProgress))
}

func TestComplete_RequiresCompletionImage(t *testing.T) {
	w := newWorld()
	citizen := w.addCitizen(models.RegionSouth)
	officer := w.addOfficer(models.RegionSouth)
	contractorP, contractor := w.addContractor(models.RegionSouth, models.CategoryRoad, models.ApprovalApproved)
	c := w.submit(t, citizen, SubmitInput{Region: models.RegionSouth})

	_, err := w.svc.Claim(context.Background(), officer, c.ID)
	require.NoError(t, err)
	_, err = w.svc.AssignContractor(context.Background(), officer, c.ID, contractor.ID)
	require.NoError(t, err)

	_, err = w.svc.Complete(context.Background(), contractorP, c.ID, "")
	assert.True(t, apperror.IsValidation(err))

	stored, err := w.store.GetByID(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, stored.Status)
	assert.Nil(t, stored.CompletedAt)

	done, err := w.svc.Complete(context.Background(), contractorP, c.ID, "uploads/after.jpg")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, done.Status)
	assert.NotNil(t, done.CompletedAt)
}

func TestComplete_OnlyAssignedContractor(t *testing.T) {
	w := newWorld()
	citizen := w.addCitizen(models.RegionSouth)
	officer := w.addOfficer(models.RegionSouth)
	_, contractor := w.addContractor(models.RegionSouth, models.CategoryRoad, models.ApprovalApproved)
	otherP, _ := w.addContractor(models.RegionSouth, models.CategoryRoad, models.ApprovalApproved)
	c := w.submit(t, citizen, SubmitInput{Region: models.RegionSouth})

	_, err := w.svc.Claim(context.Background(), officer, c.ID)
	require.NoError(t, err)
	_, err = w.svc.AssignContractor(context.Background(), officer, c.ID, contractor.ID)
	require.NoError(t, err)

	_, err = w.svc.Complete(context.Background(), otherP, c.ID, "uploads/after.jpg")
	assert.True(t, apperror.IsForbidden(err))
}

func TestRejectWork_ReopensWithFreshInProgressAt(t *testing.T) {
	w := newWorld()
	citizen := w.addCitizen(models.RegionSouth)
	officer := w.addOfficer(models.RegionSouth)
	contractorP, contractor := w.addContractor(models.RegionSouth, models.CategoryRoad, models.ApprovalApproved)
	c := w.submit(t, citizen, SubmitInput{Region: models.RegionSouth})

	_, err := w.svc.Claim(context.Background(), officer, c.ID)
	require.NoError(t, err)
	assigned, err := w.svc.AssignContractor(context.Background(), officer, c.ID, contractor.ID)
	require.NoError(t, err)
	firstProgress := *assigned.InProgressAt

	time.Sleep(5 * time.Millisecond)
	_, err = w.svc.Complete(context.Background(), contractorP, c.ID, "uploads/after.jpg")
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	rejected, err := w.svc.RejectWork(context.Background(), officer, c.ID, "redo the seams")
	require.NoError(t, err)

	assert.Equal(t, models.StatusInProgress, rejected.Status)
	assert.Nil(t, rejected.CompletedAt)
	require.NotNil(t, rejected.OfficerFeedback)
	assert.Equal(t, "redo the seams", *rejected.OfficerFeedback)
	// The rework cycle shows in the record: in_progress_at is refreshed.
	assert.True(t, rejected.InProgressAt.After(firstProgress))

	mails := w.notifier.sentTo(contractor.Email)
	require.NotEmpty(t, mails)
	assert.Contains(t, mails[len(mails)-1].Body, "redo the seams")
}

func TestRejectWork_RequiresReason(t *testing.T) {
	w := newWorld()
	officer := w.addOfficer(models.RegionSouth)

	_, err := w.svc.RejectWork(context.Background(), officer, uuid.New(), "   ")
	assert.True(t, apperror.IsValidation(err))
}

func TestClose_IsTerminal(t *testing.T) {
	w := newWorld()
	citizen := w.addCitizen(models.RegionSouth)
	officer := w.addOfficer(models.RegionSouth)
	contractorP, contractor := w.addContractor(models.RegionSouth, models.CategoryRoad, models.ApprovalApproved)
	c := w.submit(t, citizen, SubmitInput{Region: models.RegionSouth})

	_, err := w.svc.Claim(context.Background(), officer, c.ID)
	require.NoError(t, err)
	_, err = w.svc.AssignContractor(context.Background(), officer, c.ID, contractor.ID)
	require.NoError(t, err)
	_, err = w.svc.Complete(context.Background(), contractorP, c.ID, "uploads/after.jpg")
	require.NoError(t, err)

	closed, err := w.svc.Close(context.Background(), officer, c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusClosed, closed.Status)
	assert.NotNil(t, closed.ClosedAt)

	_, err = w.svc.RejectWork(context.Background(), officer, c.ID, "changed my mind")
	assert.True(t, apperror.IsInvalidTransition(err))
	_, err = w.svc.Close(context.Background(), officer, c.ID)
	assert.True(t, apperror.IsInvalidTransition(err))
	_, err = w.svc.RemoveContractor(context.Background(), officer, c.ID)
	assert.True(t, apperror.IsInvalidTransition(err))
}

func TestClose_RequiresCompletedStatus(t *testing.T) {
	w := newWorld()
	citizen := w.addCitizen(models.RegionSouth)
	officer := w.addOfficer(models.RegionSouth)
	c := w.submit(t, citizen, SubmitInput{Region: models.RegionSouth})

	_, err := w.svc.Claim(context.Background(), officer, c.ID)
	require.NoError(t, err)

	_, err = w.svc.Close(context.Background(), officer, c.ID)
	assert.True(t, apperror.IsInvalidTransition(err))

	stored, err := w.store.GetByID(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAssigned, stored.Status)
	assert.Nil(t, stored.ClosedAt)
}

func TestFullLifecycleWithReworkCycle(t *testing.T) {
	w := newWorld()
	citizen := w.addCitizen(models.RegionSouth)
	officer := w.addOfficer(models.RegionSouth)
	contractorP, contractor := w.addContractor(models.RegionSouth, models.CategoryRoad, models.ApprovalApproved)
	ctx := context.Background()

	c := w.submit(t, citizen, SubmitInput{Region: models.RegionSouth})

	claimed, err := w.svc.Claim(ctx, officer, c.ID)
	require.NoError(t, err)
	assignedAt := *claimed.AssignedAt

	_, err = w.svc.AssignContractor(ctx, officer, c.ID, contractor.ID)
	require.NoError(t, err)

	_, err = w.svc.Complete(ctx, contractorP, c.ID, "uploads/v1.jpg")
	require.NoError(t, err)

	rejected, err := w.svc.RejectWork(ctx, officer, c.ID, "redo the seams")
	require.NoError(t, err)
	require.NotNil(t, rejected.OfficerFeedback)

	redone, err := w.svc.Complete(ctx, contractorP, c.ID, "uploads/v2.jpg")
	require.NoError(t, err)
	// A fresh completion wipes the stale feedback.
	assert.Nil(t, redone.OfficerFeedback)
	require.NotNil(t, redone.CompletionImage)
	assert.Equal(t, "uploads/v2.jpg", *redone.CompletionImage)

	closed, err := w.svc.Close(ctx, officer, c.ID)
	require.NoError(t, err)

	// assigned_at survived the whole lifecycle untouched.
	assert.True(t, closed.AssignedAt.Equal(assignedAt))
	// Timestamps appear in lifecycle order.
	assert.False(t, closed.AssignedAt.After(*closed.InProgressAt))
	assert.False(t, closed.InProgressAt.After(*closed.CompletedAt))
	assert.False(t, closed.CompletedAt.After(*closed.ClosedAt))
}

func TestOfficerQueue_OnlyUnclaimedInRegion(t *testing.T) {
	w := newWorld()
	south := w.addCitizen(models.RegionSouth)
	north := w.addCitizen(models.RegionNorth)
	officer := w.addOfficer(models.RegionSouth)

	inRegion := w.submit(t, south, SubmitInput{Region: models.RegionSouth})
	w.submit(t, north, SubmitInput{Region: models.RegionNorth})
	claimed := w.submit(t, south, SubmitInput{Region: models.RegionSouth})
	_, err := w.svc.Claim(context.Background(), officer, claimed.ID)
	require.NoError(t, err)

	page, err := w.svc.OfficerQueue(context.Background(), officer, 1)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, inRegion.ID, page.Items[0].ID)
	assert.Equal(t, 1, page.Total)
}

func TestContractorDashboard_GatedByApproval(t *testing.T) {
	w := newWorld()
	pendingP, _ := w.addContractor(models.RegionSouth, models.CategoryRoad, models.ApprovalPending)
	rejectedP, _ := w.addContractor(models.RegionSouth, models.CategoryRoad, models.ApprovalRejected)
	approvedP, _ := w.addContractor(models.RegionSouth, models.CategoryRoad, models.ApprovalApproved)

	_, err := w.svc.ContractorActive(context.Background(), pendingP, 1)
	assert.True(t, apperror.IsForbidden(err))

	_, err = w.svc.ContractorActive(context.Background(), rejectedP, 1)
	assert.True(t, apperror.IsForbidden(err))

	page, err := w.svc.ContractorActive(context.Background(), approvedP, 1)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}

func TestCitizenListings_SplitByProgress(t *testing.T) {
	w := newWorld()
	citizen := w.addCitizen(models.RegionSouth)
	officer := w.addOfficer(models.RegionSouth)
	contractorP, contractor := w.addContractor(models.RegionSouth, models.CategoryRoad, models.ApprovalApproved)
	ctx := context.Background()

	open := w.submit(t, citizen, SubmitInput{Region: models.RegionSouth})
	done := w.submit(t, citizen, SubmitInput{Region: models.RegionSouth})
	_, err := w.svc.Claim(ctx, officer, done.ID)
	require.NoError(t, err)
	_, err = w.svc.AssignContractor(ctx, officer, done.ID, contractor.ID)
	require.NoError(t, err)
	_, err = w.svc.Complete(ctx, contractorP, done.ID, "uploads/after.jpg")
	require.NoError(t, err)

	pending, err := w.svc.CitizenPending(ctx, citizen, 1)
	require.NoError(t, err)
	require.Len(t, pending.Items, 1)
	assert.Equal(t, open.ID, pending.Items[0].ID)

	resolved, err := w.svc.CitizenResolved(ctx, citizen, 1)
	require.NoError(t, err)
	require.Len(t, resolved.Items, 1)
	assert.Equal(t, done.ID, resolved.Items[0].ID)
}

func TestGet_EnforcesViewScope(t *testing.T) {
	w := newWorld()
	owner := w.addCitizen(models.RegionSouth)
	stranger := w.addCitizen(models.RegionSouth)
	c := w.submit(t, owner, SubmitInput{Region: models.RegionSouth})

	got, err := w.svc.Get(context.Background(), owner, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.ID)

	_, err = w.svc.Get(context.Background(), stranger, c.ID)
	assert.True(t, apperror.IsForbidden(err))
}

func TestDetail_IncludesParticipantNames(t *testing.T) {
	w := newWorld()
	citizen := w.addCitizen(models.RegionSouth)
	officer := w.addOfficer(models.RegionSouth)
	_, contractor := w.addContractor(models.RegionSouth, models.CategoryRoad, models.ApprovalApproved)
	c := w.submit(t, citizen, SubmitInput{Region: models.RegionSouth, Category: models.CategoryRoad})

	detail, err := w.svc.Detail(context.Background(), citizen, c.ID)
	require.NoError(t, err)
	assert.Nil(t, detail.OfficerName)
	assert.Nil(t, detail.ContractorName)
	require.Len(t, detail.Timeline, 5)
	assert.True(t, detail.Timeline[0].Reached)

	_, err = w.svc.Claim(context.Background(), officer, c.ID)
	require.NoError(t, err)
	_, err = w.svc.AssignContractor(context.Background(), officer, c.ID, contractor.ID)
	require.NoError(t, err)

	detail, err = w.svc.Detail(context.Background(), citizen, c.ID)
	require.NoError(t, err)
	require.NotNil(t, detail.OfficerName)
	assert.Equal(t, "Test Officer", *detail.OfficerName)
	require.NotNil(t, detail.ContractorName)
	assert.Equal(t, "Test Contractor", *detail.ContractorName)
}

func TestEligibleContractors_OrderedByName(t *testing.T) {
	w := newWorld()
	citizen := w.addCitizen(models.RegionSouth)
	officer := w.addOfficer(models.RegionSouth)
	c := w.submit(t, citizen, SubmitInput{Region: models.RegionSouth, Category: models.CategoryRoad})

	_, err := w.svc.Claim(context.Background(), officer, c.ID)
	require.NoError(t, err)

	_, b := w.addContractor(models.RegionSouth, models.CategoryRoad, models.ApprovalApproved)
	b.Name = "Bravo Works"
	_, a := w.addContractor(models.RegionSouth, models.CategoryRoad, models.ApprovalApproved)
	a.Name = "Alpha Works"
	w.addContractor(models.RegionSouth, models.CategoryWater, models.ApprovalApproved)
	w.addContractor(models.RegionNorth, models.CategoryRoad, models.ApprovalApproved)

	eligible, err := w.svc.EligibleContractors(context.Background(), officer, c.ID)
	require.NoError(t, err)
	require.Len(t, eligible, 2)
	assert.Equal(t, "Alpha Works", eligible[0].Name)
	assert.Equal(t, "Bravo Works", eligible[1].Name)
}

// rowLockedComplaintStore flags the window in which the complaint row is
// held, so collaborating fakes can tell locked reads from unlocked ones.
type rowLockedComplaintStore struct {
	*fakeComplaintStore
	rowHeld bool
}

func (s *rowLockedComplaintStore) UpdateLocked(ctx context.Context, id uuid.UUID, fn func(c *models.Complaint) error) (*models.Complaint, error) {
	return s.fakeComplaintStore.UpdateLocked(ctx, id, func(c *models.Complaint) error {
		s.rowHeld = true
		defer func() { s.rowHeld = false }()
		return fn(c)
	})
}

type lockAwareContractorStore struct {
	*fakeContractorStore
	complaints      *rowLockedComplaintStore
	readWhileLocked bool
}

func (s *lockAwareContractorStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Contractor, error) {
	if s.complaints.rowHeld {
		s.readWhileLocked = true
	}
	return s.fakeContractorStore.GetByID(ctx, id)
}

func TestRemoveContractor_LooksUpContractorAfterCommit(t *testing.T) {
	w := newWorld()
	cs := &rowLockedComplaintStore{fakeComplaintStore: w.store}
	ks := &lockAwareContractorStore{fakeContractorStore: w.contractors, complaints: cs}
	svc := NewComplaintService(cs, ks, w.citizens, w.officers, w.users, w.notifier, w.hub)

	citizen := w.addCitizen(models.RegionSouth)
	officer := w.addOfficer(models.RegionSouth)
	_, contractor := w.addContractor(models.RegionSouth, models.CategoryRoad, models.ApprovalApproved)
	c := w.submit(t, citizen, SubmitInput{Region: models.RegionSouth})

	_, err := svc.Claim(context.Background(), officer, c.ID)
	require.NoError(t, err)
	_, err = svc.AssignContractor(context.Background(), officer, c.ID, contractor.ID)
	require.NoError(t, err)

	removed, err := svc.RemoveContractor(context.Background(), officer, c.ID)
	require.NoError(t, err)
	assert.Nil(t, removed.ContractorID)

	// The withdrawal mail still goes out, but the contractor lookup backing
	// it must not happen while the complaint row is held.
	assert.False(t, ks.readWhileLocked)
	mails := w.notifier.sentTo(contractor.Email)
	require.NotEmpty(t, mails)
	assert.Equal(t, "Assignment withdrawn", mails[len(mails)-1].Subject)
}
