package service

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saltriver-hospitality/staff-roster/backend/internal/domain"
	"github.com/saltriver-hospitality/staff-roster/backend/internal/roster"
)

func waiterEntry(id int64, userID int64, workDate time.Time) *domain.ScheduleEntry {
	return &domain.ScheduleEntry{
		ID:           id,
		ScheduleRole: domain.RoleWaiter,
		UserID:       userID,
		WorkDate:     workDate,
		ShiftType:    domain.ShiftDay,
		Version:      1,
	}
}

func exchangeFixture(users []*domain.User, entries []*domain.ScheduleEntry) (*fakeStore, *fakeNotifier, *ExchangeService) {
	store := &fakeStore{users: users, entries: entries, nextID: 1000}
	notifier := &fakeNotifier{}
	return store, notifier, NewExchangeService(store, notifier, testLogger())
}

func TestRequestSwap_CreatesRequestAndNotifies(t *testing.T) {
	owner := testUser(1, "Nadia Fourie", domain.RoleWaiter)
	coverer := testUser(2, "Sipho Dlamini", domain.RoleWaiter)
	manager := testUser(3, "Anele Khumalo", domain.RoleManager)
	wednesday := testWeek.AddDate(0, 0, 2)
	now := testWeek.Add(9 * time.Hour)

	store, notifier, svc := exchangeFixture(
		[]*domain.User{owner, coverer, manager},
		[]*domain.ScheduleEntry{waiterEntry(10, owner.ID, wednesday)},
	)

	req, err := svc.RequestSwap(owner, 10, &coverer.ID, now)
	require.NoError(t, err)
	require.NotZero(t, req.ID)
	assert.Equal(t, domain.SwapStatusPending, req.Status)
	require.NotNil(t, req.SuggestedCovererID)
	assert.Equal(t, coverer.ID, *req.SuggestedCovererID)

	entry, err := store.GetScheduleEntryByID(10)
	require.NoError(t, err)
	require.NotNil(t, entry.Exchange)
	assert.Equal(t, domain.ExchangeKindSwap, entry.Exchange.Kind)
	assert.Equal(t, req.ID, entry.Exchange.RequestID)
	assert.Equal(t, owner.FullName, entry.Exchange.RequesterName)

	// Suggested coverer first, then the adjudicators.
	assert.Equal(t, []int64{coverer.ID, manager.ID}, notifier.recipients(domain.NotificationSwapRequested))
}

func TestRequestSwap_WithoutSuggestionNotifiesAdjudicatorsOnly(t *testing.T) {
	owner := testUser(1, "Nadia Fourie", domain.RoleWaiter)
	colleague := testUser(2, "Sipho Dlamini", domain.RoleWaiter)
	manager := testUser(3, "Anele Khumalo", domain.RoleManager)
	wednesday := testWeek.AddDate(0, 0, 2)

	_, notifier, svc := exchangeFixture(
		[]*domain.User{owner, colleague, manager},
		[]*domain.ScheduleEntry{waiterEntry(10, owner.ID, wednesday)},
	)

	req, err := svc.RequestSwap(owner, 10, nil, testWeek.Add(9*time.Hour))
	require.NoError(t, err)
	assert.Nil(t, req.SuggestedCovererID)

	assert.Equal(t, []int64{manager.ID}, notifier.recipients(domain.NotificationSwapRequested))
}

func TestRequestSwap_RejectsForeignShift(t *testing.T) {
	owner := testUser(1, "Nadia Fourie", domain.RoleWaiter)
	other := testUser(2, "Sipho Dlamini", domain.RoleWaiter)
	wednesday := testWeek.AddDate(0, 0, 2)

	_, _, svc := exchangeFixture(
		[]*domain.User{owner, other},
		[]*domain.ScheduleEntry{waiterEntry(10, owner.ID, wednesday)},
	)

	_, err := svc.RequestSwap(other, 10, &owner.ID, testWeek.Add(9*time.Hour))
	require.Error(t, err)
	assert.True(t, roster.IsCode(err, roster.CodeNotOwner))
	assert.Equal(t, roster.KindPolicy, roster.KindOf(err))
}

func TestRequestSwap_ShiftActionableUntilMidnight(t *testing.T) {
	owner := testUser(1, "Nadia Fourie", domain.RoleWaiter)
	coverer := testUser(2, "Sipho Dlamini", domain.RoleWaiter)
	wednesday := testWeek.AddDate(0, 0, 2)

	_, _, svc := exchangeFixture(
		[]*domain.User{owner, coverer},
		[]*domain.ScheduleEntry{waiterEntry(10, owner.ID, wednesday)},
	)

	// Late on the shift date itself the request still goes through.
	lateWednesday := wednesday.Add(23 * time.Hour)
	_, err := svc.RequestSwap(owner, 10, &coverer.ID, lateWednesday)
	require.NoError(t, err)

	_, _, svc = exchangeFixture(
		[]*domain.User{owner, coverer},
		[]*domain.ScheduleEntry{waiterEntry(10, owner.ID, wednesday)},
	)

	pastMidnight := wednesday.AddDate(0, 0, 1).Add(30 * time.Minute)
	_, err = svc.RequestSwap(owner, 10, &coverer.ID, pastMidnight)
	require.Error(t, err)
	assert.True(t, roster.IsCode(err, roster.CodeShiftInPast))
	assert.Equal(t, roster.KindPolicy, roster.KindOf(err))
}

func TestRequestSwap_RejectsCovererWithoutSharedRole(t *testing.T) {
	owner := testUser(1, "Nadia Fourie", domain.RoleWaiter)
	skuller := testUser(2, "Thabo Nkosi", domain.RoleSkuller)
	wednesday := testWeek.AddDate(0, 0, 2)

	_, _, svc := exchangeFixture(
		[]*domain.User{owner, skuller},
		[]*domain.ScheduleEntry{waiterEntry(10, owner.ID, wednesday)},
	)

	_, err := svc.RequestSwap(owner, 10, &skuller.ID, testWeek.Add(9*time.Hour))
	require.Error(t, err)
	assert.True(t, roster.IsCode(err, roster.CodeIneligibleCoverer))
	assert.Equal(t, roster.KindStateConflict, roster.KindOf(err))
}

func TestRequestSwap_RejectsEntryAlreadyInExchange(t *testing.T) {
	owner := testUser(1, "Nadia Fourie", domain.RoleWaiter)
	coverer := testUser(2, "Sipho Dlamini", domain.RoleWaiter)
	third := testUser(3, "Anele Khumalo", domain.RoleWaiter)
	wednesday := testWeek.AddDate(0, 0, 2)
	now := testWeek.Add(9 * time.Hour)

	_, _, svc := exchangeFixture(
		[]*domain.User{owner, coverer, third},
		[]*domain.ScheduleEntry{waiterEntry(10, owner.ID, wednesday)},
	)

	_, err := svc.RequestSwap(owner, 10, &coverer.ID, now)
	require.NoError(t, err)

	_, err = svc.RequestSwap(owner, 10, &third.ID, now)
	require.Error(t, err)
	assert.True(t, roster.IsCode(err, roster.CodeAlreadyInExchange))
	assert.Equal(t, roster.KindStateConflict, roster.KindOf(err))
}

func TestApproveSwap_ReassignsEntry(t *testing.T) {
	owner := testUser(1, "Nadia Fourie", domain.RoleWaiter)
	coverer := testUser(2, "Sipho Dlamini", domain.RoleWaiter)
	wednesday := testWeek.AddDate(0, 0, 2)
	now := testWeek.Add(9 * time.Hour)

	store, notifier, svc := exchangeFixture(
		[]*domain.User{owner, coverer},
		[]*domain.ScheduleEntry{waiterEntry(10, owner.ID, wednesday)},
	)

	req, err := svc.RequestSwap(owner, 10, &coverer.ID, now)
	require.NoError(t, err)

	resolved, err := svc.ApproveSwap(req.ID, 0, now)
	require.NoError(t, err)
	assert.Equal(t, domain.SwapStatusApproved, resolved.Status)
	require.NotNil(t, resolved.ResolvedAt)

	entry, err := store.GetScheduleEntryByID(10)
	require.NoError(t, err)
	assert.Equal(t, coverer.ID, entry.UserID)
	assert.Nil(t, entry.Exchange)

	assert.Equal(t, []int64{owner.ID, coverer.ID}, notifier.recipients(domain.NotificationSwapApproved))
}

func TestApproveSwap_ChosenCovererOverridesSuggestion(t *testing.T) {
	owner := testUser(1, "Nadia Fourie", domain.RoleWaiter)
	suggested := testUser(2, "Sipho Dlamini", domain.RoleWaiter)
	chosen := testUser(3, "Anele Khumalo", domain.RoleWaiter)
	wednesday := testWeek.AddDate(0, 0, 2)
	now := testWeek.Add(9 * time.Hour)

	store, _, svc := exchangeFixture(
		[]*domain.User{owner, suggested, chosen},
		[]*domain.ScheduleEntry{waiterEntry(10, owner.ID, wednesday)},
	)

	req, err := svc.RequestSwap(owner, 10, &suggested.ID, now)
	require.NoError(t, err)

	resolved, err := svc.ApproveSwap(req.ID, chosen.ID, now)
	require.NoError(t, err)
	assert.Equal(t, domain.SwapStatusApproved, resolved.Status)

	entry, err := store.GetScheduleEntryByID(10)
	require.NoError(t, err)
	assert.Equal(t, chosen.ID, entry.UserID)
}

func TestApproveSwap_NeedsACovererFromSomewhere(t *testing.T) {
	owner := testUser(1, "Nadia Fourie", domain.RoleWaiter)
	colleague := testUser(2, "Sipho Dlamini", domain.RoleWaiter)
	wednesday := testWeek.AddDate(0, 0, 2)
	now := testWeek.Add(9 * time.Hour)

	_, _, svc := exchangeFixture(
		[]*domain.User{owner, colleague},
		[]*domain.ScheduleEntry{waiterEntry(10, owner.ID, wednesday)},
	)

	req, err := svc.RequestSwap(owner, 10, nil, now)
	require.NoError(t, err)

	_, err = svc.ApproveSwap(req.ID, 0, now)
	require.Error(t, err)
	assert.True(t, roster.IsCode(err, roster.CodeInvalidInput))
	assert.Equal(t, roster.KindValidation, roster.KindOf(err))

	resolved, err := svc.ApproveSwap(req.ID, colleague.ID, now)
	require.NoError(t, err)
	assert.Equal(t, domain.SwapStatusApproved, resolved.Status)
}

func TestApproveSwap_RejectsCovererBusySinceRequest(t *testing.T) {
	owner := testUser(1, "Nadia Fourie", domain.RoleWaiter)
	coverer := testUser(2, "Sipho Dlamini", domain.RoleWaiter)
	wednesday := testWeek.AddDate(0, 0, 2)
	now := testWeek.Add(9 * time.Hour)

	store, _, svc := exchangeFixture(
		[]*domain.User{owner, coverer},
		[]*domain.ScheduleEntry{waiterEntry(10, owner.ID, wednesday)},
	)

	req, err := svc.RequestSwap(owner, 10, &coverer.ID, now)
	require.NoError(t, err)

	// The coverer picked up another shift on the same date in the meantime.
	store.mu.Lock()
	store.entries = append(store.entries, waiterEntry(11, coverer.ID, wednesday))
	store.mu.Unlock()

	_, err = svc.ApproveSwap(req.ID, 0, now)
	require.Error(t, err)
	assert.True(t, roster.IsCode(err, roster.CodeIneligibleCoverer))
	assert.Equal(t, roster.KindStateConflict, roster.KindOf(err))

	entry, err := store.GetScheduleEntryByID(10)
	require.NoError(t, err)
	assert.Equal(t, owner.ID, entry.UserID)
}

func TestApproveSwap_ConcurrentResolutionLeavesOneWinner(t *testing.T) {
	owner := testUser(1, "Nadia Fourie", domain.RoleWaiter)
	coverer := testUser(2, "Sipho Dlamini", domain.RoleWaiter)
	wednesday := testWeek.AddDate(0, 0, 2)
	now := testWeek.Add(9 * time.Hour)

	_, _, svc := exchangeFixture(
		[]*domain.User{owner, coverer},
		[]*domain.ScheduleEntry{waiterEntry(10, owner.ID, wednesday)},
	)

	req, err := svc.RequestSwap(owner, 10, &coverer.ID, now)
	require.NoError(t, err)

	results := make(chan error, 2)
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, err := svc.ApproveSwap(req.ID, 0, now)
		results <- err
	}()
	go func() {
		defer wg.Done()
		_, err := svc.DenySwap(req.ID)
		results <- err
	}()
	wg.Wait()
	close(results)

	succeeded := 0
	var conflicts []error
	for err := range results {
		if err == nil {
			succeeded++
			continue
		}
		conflicts = append(conflicts, err)
	}

	require.Equal(t, 1, succeeded)
	require.Len(t, conflicts, 1)
	assert.True(t, roster.IsCode(conflicts[0], roster.CodeAlreadyResolved))
	assert.Equal(t, roster.KindStateConflict, roster.KindOf(conflicts[0]))
}

func TestDenySwap_LeavesEntryWithOwner(t *testing.T) {
	owner := testUser(1, "Nadia Fourie", domain.RoleWaiter)
	coverer := testUser(2, "Sipho Dlamini", domain.RoleWaiter)
	wednesday := testWeek.AddDate(0, 0, 2)
	now := testWeek.Add(9 * time.Hour)

	store, notifier, svc := exchangeFixture(
		[]*domain.User{owner, coverer},
		[]*domain.ScheduleEntry{waiterEntry(10, owner.ID, wednesday)},
	)

	req, err := svc.RequestSwap(owner, 10, &coverer.ID, now)
	require.NoError(t, err)

	resolved, err := svc.DenySwap(req.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SwapStatusDenied, resolved.Status)

	entry, err := store.GetScheduleEntryByID(10)
	require.NoError(t, err)
	assert.Equal(t, owner.ID, entry.UserID)
	assert.Nil(t, entry.Exchange)

	assert.Equal(t, []int64{owner.ID, coverer.ID}, notifier.recipients(domain.NotificationSwapDenied))

	// A second deny hits the already resolved row.
	_, err = svc.DenySwap(req.ID)
	require.Error(t, err)
	assert.True(t, roster.IsCode(err, roster.CodeAlreadyResolved))
}

func TestOpenVolunteerRequest_NotifiesEligibleColleagues(t *testing.T) {
	owner := testUser(1, "Nadia Fourie", domain.RoleWaiter)
	colleague := testUser(2, "Sipho Dlamini", domain.RoleWaiter)
	skuller := testUser(3, "Thabo Nkosi", domain.RoleSkuller)
	wednesday := testWeek.AddDate(0, 0, 2)

	store, notifier, svc := exchangeFixture(
		[]*domain.User{owner, colleague, skuller},
		[]*domain.ScheduleEntry{waiterEntry(10, owner.ID, wednesday)},
	)

	req, err := svc.OpenVolunteerRequest(owner, 10, "family commitment", testWeek.Add(9*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, domain.VolunteerStatusOpen, req.Status)
	require.NotNil(t, req.Reason)
	assert.Equal(t, "family commitment", *req.Reason)

	entry, err := store.GetScheduleEntryByID(10)
	require.NoError(t, err)
	require.NotNil(t, entry.Exchange)
	assert.Equal(t, domain.ExchangeKindVolunteer, entry.Exchange.Kind)

	// Only staff sharing a role with the owner hear about it.
	assert.Equal(t, []int64{colleague.ID}, notifier.recipients(domain.NotificationVolunteerOpened))
}

func TestVolunteer_MovesRequestToPendingApproval(t *testing.T) {
	owner := testUser(1, "Nadia Fourie", domain.RoleWaiter)
	colleague := testUser(2, "Sipho Dlamini", domain.RoleWaiter)
	manager := testUser(3, "Anele Khumalo", domain.RoleManager)
	wednesday := testWeek.AddDate(0, 0, 2)
	now := testWeek.Add(9 * time.Hour)

	_, notifier, svc := exchangeFixture(
		[]*domain.User{owner, colleague, manager},
		[]*domain.ScheduleEntry{waiterEntry(10, owner.ID, wednesday)},
	)

	req, err := svc.OpenVolunteerRequest(owner, 10, "", now)
	require.NoError(t, err)

	updated, err := svc.Volunteer(colleague, req.ID, now)
	require.NoError(t, err)
	assert.Equal(t, domain.VolunteerStatusPendingApproval, updated.Status)
	require.Len(t, updated.Volunteers, 1)
	assert.Equal(t, colleague.ID, updated.Volunteers[0].UserID)
	assert.Equal(t, colleague.FullName, updated.Volunteers[0].FullName)

	assert.Equal(t, []int64{owner.ID, manager.ID}, notifier.recipients(domain.NotificationShiftVolunteered))
}

func TestVolunteer_RejectsIneligibleAndDuplicate(t *testing.T) {
	owner := testUser(1, "Nadia Fourie", domain.RoleWaiter)
	colleague := testUser(2, "Sipho Dlamini", domain.RoleWaiter)
	skuller := testUser(3, "Thabo Nkosi", domain.RoleSkuller)
	wednesday := testWeek.AddDate(0, 0, 2)
	now := testWeek.Add(9 * time.Hour)

	_, _, svc := exchangeFixture(
		[]*domain.User{owner, colleague, skuller},
		[]*domain.ScheduleEntry{waiterEntry(10, owner.ID, wednesday)},
	)

	req, err := svc.OpenVolunteerRequest(owner, 10, "", now)
	require.NoError(t, err)

	_, err = svc.Volunteer(skuller, req.ID, now)
	require.Error(t, err)
	assert.True(t, roster.IsCode(err, roster.CodeIneligibleCoverer))
	assert.Equal(t, roster.KindStateConflict, roster.KindOf(err))

	// The requester cannot take their own shift back through volunteering.
	_, err = svc.Volunteer(owner, req.ID, now)
	require.Error(t, err)
	assert.True(t, roster.IsCode(err, roster.CodeIneligibleCoverer))
	assert.Equal(t, roster.KindStateConflict, roster.KindOf(err))

	_, err = svc.Volunteer(colleague, req.ID, now)
	require.NoError(t, err)

	_, err = svc.Volunteer(colleague, req.ID, now)
	require.Error(t, err)
	assert.True(t, roster.IsCode(err, roster.CodeAlreadyVolunteered))
	assert.Equal(t, roster.KindStateConflict, roster.KindOf(err))
}

func TestApproveVolunteer_RequiresListedVolunteer(t *testing.T) {
	owner := testUser(1, "Nadia Fourie", domain.RoleWaiter)
	colleague := testUser(2, "Sipho Dlamini", domain.RoleWaiter)
	bystander := testUser(3, "Anele Khumalo", domain.RoleWaiter)
	wednesday := testWeek.AddDate(0, 0, 2)
	now := testWeek.Add(9 * time.Hour)

	_, _, svc := exchangeFixture(
		[]*domain.User{owner, colleague, bystander},
		[]*domain.ScheduleEntry{waiterEntry(10, owner.ID, wednesday)},
	)

	req, err := svc.OpenVolunteerRequest(owner, 10, "", now)
	require.NoError(t, err)

	// Nobody has volunteered yet.
	_, err = svc.ApproveVolunteer(req.ID, bystander.ID, now)
	require.Error(t, err)
	assert.True(t, roster.IsCode(err, roster.CodeNotAVolunteer))
	assert.Equal(t, roster.KindStateConflict, roster.KindOf(err))

	_, err = svc.Volunteer(colleague, req.ID, now)
	require.NoError(t, err)

	// An eligible bystander who never volunteered still cannot be chosen.
	_, err = svc.ApproveVolunteer(req.ID, bystander.ID, now)
	require.Error(t, err)
	assert.True(t, roster.IsCode(err, roster.CodeNotAVolunteer))
	assert.Equal(t, roster.KindStateConflict, roster.KindOf(err))
}

func TestApproveVolunteer_ReassignsEntry(t *testing.T) {
	owner := testUser(1, "Nadia Fourie", domain.RoleWaiter)
	colleague := testUser(2, "Sipho Dlamini", domain.RoleWaiter)
	wednesday := testWeek.AddDate(0, 0, 2)
	now := testWeek.Add(9 * time.Hour)

	store, notifier, svc := exchangeFixture(
		[]*domain.User{owner, colleague},
		[]*domain.ScheduleEntry{waiterEntry(10, owner.ID, wednesday)},
	)

	req, err := svc.OpenVolunteerRequest(owner, 10, "", now)
	require.NoError(t, err)
	_, err = svc.Volunteer(colleague, req.ID, now)
	require.NoError(t, err)

	resolved, err := svc.ApproveVolunteer(req.ID, colleague.ID, now)
	require.NoError(t, err)
	assert.Equal(t, domain.VolunteerStatusApproved, resolved.Status)

	entry, err := store.GetScheduleEntryByID(10)
	require.NoError(t, err)
	assert.Equal(t, colleague.ID, entry.UserID)
	assert.Nil(t, entry.Exchange)

	assert.Equal(t, []int64{owner.ID, colleague.ID}, notifier.recipients(domain.NotificationVolunteerApproved))
}

func TestCancelVolunteerRequest_OnlyWhileOpen(t *testing.T) {
	owner := testUser(1, "Nadia Fourie", domain.RoleWaiter)
	colleague := testUser(2, "Sipho Dlamini", domain.RoleWaiter)
	wednesday := testWeek.AddDate(0, 0, 2)
	now := testWeek.Add(9 * time.Hour)

	store, _, svc := exchangeFixture(
		[]*domain.User{owner, colleague},
		[]*domain.ScheduleEntry{waiterEntry(10, owner.ID, wednesday)},
	)

	req, err := svc.OpenVolunteerRequest(owner, 10, "", now)
	require.NoError(t, err)

	_, err = svc.CancelVolunteerRequest(colleague, req.ID)
	require.Error(t, err)
	assert.True(t, roster.IsCode(err, roster.CodeNotOwner))

	resolved, err := svc.CancelVolunteerRequest(owner, req.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.VolunteerStatusCancelled, resolved.Status)

	entry, err := store.GetScheduleEntryByID(10)
	require.NoError(t, err)
	assert.Nil(t, entry.Exchange)
}

func TestCancelVolunteerRequest_BlockedOnceSomeoneVolunteered(t *testing.T) {
	owner := testUser(1, "Nadia Fourie", domain.RoleWaiter)
	colleague := testUser(2, "Sipho Dlamini", domain.RoleWaiter)
	wednesday := testWeek.AddDate(0, 0, 2)
	now := testWeek.Add(9 * time.Hour)

	_, _, svc := exchangeFixture(
		[]*domain.User{owner, colleague},
		[]*domain.ScheduleEntry{waiterEntry(10, owner.ID, wednesday)},
	)

	req, err := svc.OpenVolunteerRequest(owner, 10, "", now)
	require.NoError(t, err)
	_, err = svc.Volunteer(colleague, req.ID, now)
	require.NoError(t, err)

	_, err = svc.CancelVolunteerRequest(owner, req.ID)
	require.Error(t, err)
	assert.True(t, roster.IsCode(err, roster.CodeNotCancellable))
	assert.Equal(t, roster.KindStateConflict, roster.KindOf(err))
}

func TestEligibleCoverers_HintIncludesBusyStaff(t *testing.T) {
	owner := testUser(1, "Nadia Fourie", domain.RoleWaiter)
	busy := testUser(2, "Sipho Dlamini", domain.RoleWaiter)
	wednesday := testWeek.AddDate(0, 0, 2)
	now := testWeek.Add(9 * time.Hour)

	_, _, svc := exchangeFixture(
		[]*domain.User{owner, busy},
		[]*domain.ScheduleEntry{
			waiterEntry(10, owner.ID, wednesday),
			waiterEntry(11, busy.ID, wednesday),
		},
	)

	// The hint tier only checks roles, so the busy colleague still shows up.
	hints, err := svc.EligibleCoverers(owner, 10)
	require.NoError(t, err)
	require.Len(t, hints, 1)
	assert.Equal(t, busy.ID, hints[0].ID)

	// The authoritative tier refuses the same colleague.
	_, err = svc.RequestSwap(owner, 10, &busy.ID, now)
	require.Error(t, err)
	assert.True(t, roster.IsCode(err, roster.CodeIneligibleCoverer))
	assert.Equal(t, roster.KindStateConflict, roster.KindOf(err))
}

func TestListWeek_SplitsByKind(t *testing.T) {
	owner := testUser(1, "Nadia Fourie", domain.RoleWaiter)
	coverer := testUser(2, "Sipho Dlamini", domain.RoleWaiter)
	wednesday := testWeek.AddDate(0, 0, 2)
	thursday := testWeek.AddDate(0, 0, 3)
	now := testWeek.Add(9 * time.Hour)

	_, _, svc := exchangeFixture(
		[]*domain.User{owner, coverer},
		[]*domain.ScheduleEntry{
			waiterEntry(10, owner.ID, wednesday),
			waiterEntry(11, owner.ID, thursday),
		},
	)

	_, err := svc.RequestSwap(owner, 10, &coverer.ID, now)
	require.NoError(t, err)
	_, err = svc.OpenVolunteerRequest(owner, 11, "", now)
	require.NoError(t, err)

	week, err := svc.ListWeek(testWeek)
	require.NoError(t, err)
	assert.Len(t, week.Swaps, 1)
	assert.Len(t, week.Volunteers, 1)

	_, err = svc.ListWeek(testWeek.AddDate(0, 0, 1))
	require.Error(t, err)
	assert.True(t, roster.IsCode(err, roster.CodeInvalidInput))
}
