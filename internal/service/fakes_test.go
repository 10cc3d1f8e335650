package service

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/saltriver-hospitality/staff-roster/backend/internal/domain"
	"github.com/saltriver-hospitality/staff-roster/backend/internal/repository"
	"github.com/saltriver-hospitality/staff-roster/backend/internal/roster"
)

// testWeek is a Monday.
var testWeek = time.Date(2026, 3, 2, 0, 0, 0, 0, time.Local)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func ptr[T any](v T) *T {
	return &v
}

func testUser(id int64, fullName string, roles ...domain.Role) *domain.User {
	return &domain.User{
		ID:       id,
		Username: fmt.Sprintf("user%d", id),
		FullName: fullName,
		Email:    fmt.Sprintf("user%d@saltriver.example", id),
		Roles:    roles,
		IsActive: true,
	}
}

// fakeNotifier records published messages. Set err to simulate a broker
// outage.
type fakeNotifier struct {
	mu       sync.Mutex
	messages []domain.NotificationMessage
	err      error
}

func (n *fakeNotifier) Publish(messages ...domain.NotificationMessage) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.messages = append(n.messages, messages...)
	return nil
}

// recipients returns the user IDs that received a given kind, in publish
// order.
func (n *fakeNotifier) recipients(kind domain.NotificationKind) []int64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	ids := make([]int64, 0)
	for _, m := range n.messages {
		if m.Kind == kind {
			ids = append(ids, m.To.UserID)
		}
	}
	return ids
}

// fakeStore is an in-memory stand-in for the repository. It reproduces the
// compare-and-swap behavior of the SQL layer: stale versions and already
// resolved requests surface sql.ErrNoRows exactly like a zero-row UPDATE.
type fakeStore struct {
	mu sync.Mutex

	users        []*domain.User
	catalog      []domain.ShiftTypeDefinition
	availability []domain.AvailabilityEntry
	requirements []*domain.StaffingRequirement
	drafts       []*domain.RosterDraft
	entries      []*domain.ScheduleEntry
	swaps        map[int64]*domain.SwapRequest
	volunteers   map[int64]*domain.VolunteerRequest

	nextID int64
	err    error
}

func (f *fakeStore) id() int64 {
	f.nextID++
	return f.nextID
}

func inWeek(d time.Time, weekStart time.Time) bool {
	day := roster.DateOnly(d)
	return !day.Before(weekStart) && day.Before(weekStart.AddDate(0, 0, 7))
}

func (f *fakeStore) GetUserByID(id int64) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeStore) GetActiveUsers() ([]*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]*domain.User, 0, len(f.users))
	for _, u := range f.users {
		if u.IsActive {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeStore) GetCatalog() ([]domain.ShiftTypeDefinition, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.catalog, nil
}

func (f *fakeStore) ReplaceCatalog(defs []domain.ShiftTypeDefinition) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.catalog = defs
	return nil
}

func (f *fakeStore) ReplaceAvailabilityForDates(userID int64, dates []time.Time, atomsByDate map[string][]domain.ShiftType) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}

	replaced := make(map[string]bool, len(dates))
	for _, d := range dates {
		replaced[roster.FormatDate(d)] = true
	}

	kept := f.availability[:0]
	for _, a := range f.availability {
		if a.UserID == userID && replaced[roster.FormatDate(a.WorkDate)] {
			continue
		}
		kept = append(kept, a)
	}
	f.availability = kept

	for _, d := range dates {
		for _, atom := range atomsByDate[roster.FormatDate(d)] {
			f.availability = append(f.availability, domain.AvailabilityEntry{
				ID:        f.id(),
				UserID:    userID,
				WorkDate:  d,
				ShiftType: atom,
				CreatedAt: time.Now(),
			})
		}
	}
	return nil
}

func (f *fakeStore) GetAvailabilityForUserWeek(userID int64, weekStart time.Time) ([]domain.AvailabilityEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]domain.AvailabilityEntry, 0)
	for _, a := range f.availability {
		if a.UserID == userID && inWeek(a.WorkDate, weekStart) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeStore) GetAvailabilityForWeek(weekStart time.Time) ([]domain.AvailabilityEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]domain.AvailabilityEntry, 0)
	for _, a := range f.availability {
		if inWeek(a.WorkDate, weekStart) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeStore) GetUserIDsWithAvailability(weekStart time.Time) (map[int64]bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[int64]bool)
	for _, a := range f.availability {
		if inWeek(a.WorkDate, weekStart) {
			out[a.UserID] = true
		}
	}
	return out, nil
}

func (f *fakeStore) UpsertStaffingRequirement(req *domain.StaffingRequirement) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for i, existing := range f.requirements {
		if existing.Scope == req.Scope && roster.DateOnly(existing.WorkDate).Equal(roster.DateOnly(req.WorkDate)) {
			req.ID = existing.ID
			req.CreatedAt = existing.CreatedAt
			req.Version = existing.Version + 1
			cp := *req
			f.requirements[i] = &cp
			return nil
		}
	}
	req.ID = f.id()
	req.CreatedAt = time.Now()
	req.Version = 1
	cp := *req
	f.requirements = append(f.requirements, &cp)
	return nil
}

func (f *fakeStore) GetStaffingRequirementsForWeek(weekStart time.Time) ([]*domain.StaffingRequirement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]*domain.StaffingRequirement, 0)
	for _, r := range f.requirements {
		if inWeek(r.WorkDate, weekStart) {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeStore) GetStaffingRequirementsForScopeWeek(scope domain.Role, weekStart time.Time) ([]*domain.StaffingRequirement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]*domain.StaffingRequirement, 0)
	for _, r := range f.requirements {
		if r.Scope == scope && inWeek(r.WorkDate, weekStart) {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeStore) entryByID(id int64) *domain.ScheduleEntry {
	for _, e := range f.entries {
		if e.ID == id {
			return e
		}
	}
	return nil
}

func (f *fakeStore) copyEntries(match func(*domain.ScheduleEntry) bool) []*domain.ScheduleEntry {
	out := make([]*domain.ScheduleEntry, 0)
	for _, e := range f.entries {
		if match(e) {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out
}

func (f *fakeStore) GetScheduleEntryByID(id int64) (*domain.ScheduleEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	e := f.entryByID(id)
	if e == nil {
		return nil, sql.ErrNoRows
	}
	cp := *e
	return &cp, nil
}

func (f *fakeStore) GetEntriesForWeek(weekStart time.Time) ([]*domain.ScheduleEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.copyEntries(func(e *domain.ScheduleEntry) bool {
		return inWeek(e.WorkDate, weekStart)
	}), nil
}

func (f *fakeStore) GetEntriesForRoleWeek(role domain.Role, weekStart time.Time) ([]*domain.ScheduleEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.copyEntries(func(e *domain.ScheduleEntry) bool {
		return e.ScheduleRole == role && inWeek(e.WorkDate, weekStart)
	}), nil
}

func (f *fakeStore) GetEntriesForUserWeek(userID int64, weekStart time.Time) ([]*domain.ScheduleEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.copyEntries(func(e *domain.ScheduleEntry) bool {
		return e.UserID == userID && inWeek(e.WorkDate, weekStart)
	}), nil
}

func (f *fakeStore) GetEntriesForDate(date time.Time) ([]*domain.ScheduleEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	day := roster.DateOnly(date)
	return f.copyEntries(func(e *domain.ScheduleEntry) bool {
		return roster.DateOnly(e.WorkDate).Equal(day)
	}), nil
}

func (f *fakeStore) draftByID(id int64) *domain.RosterDraft {
	for _, d := range f.drafts {
		if d.ID == id {
			return d
		}
	}
	return nil
}

func (f *fakeStore) GetDraft(role domain.Role, weekStart time.Time) (*domain.RosterDraft, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, d := range f.drafts {
		if d.ScheduleRole == role && roster.DateOnly(d.WeekStart).Equal(roster.DateOnly(weekStart)) {
			cp := *d
			cp.Cells = append([]domain.RosterDraftCell(nil), d.Cells...)
			if cp.Cells == nil {
				cp.Cells = []domain.RosterDraftCell{}
			}
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeStore) CreateDraft(draft *domain.RosterDraft) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for _, d := range f.drafts {
		if d.ScheduleRole == draft.ScheduleRole && roster.DateOnly(d.WeekStart).Equal(roster.DateOnly(draft.WeekStart)) {
			return errors.New("draft already exists for this role and week")
		}
	}
	draft.ID = f.id()
	draft.Status = domain.DraftStatusDrafting
	draft.Version = 1
	draft.CreatedAt = time.Now()
	draft.UpdatedAt = draft.CreatedAt
	cp := *draft
	cp.Cells = append([]domain.RosterDraftCell(nil), draft.Cells...)
	f.drafts = append(f.drafts, &cp)
	return nil
}

func (f *fakeStore) bumpDraft(draftID int64, version int32, status domain.DraftStatus) (*domain.RosterDraft, error) {
	d := f.draftByID(draftID)
	if d == nil || d.Version != version {
		return nil, sql.ErrNoRows
	}
	d.Status = status
	d.Version++
	d.UpdatedAt = time.Now()
	return d, nil
}

func (f *fakeStore) UpsertDraftCell(draftID int64, version int32, cell *domain.RosterDraftCell) (int32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	d, err := f.bumpDraft(draftID, version, domain.DraftStatusDrafting)
	if err != nil {
		return 0, err
	}
	for i := range d.Cells {
		if d.Cells[i].UserID == cell.UserID && roster.DateOnly(d.Cells[i].WorkDate).Equal(roster.DateOnly(cell.WorkDate)) {
			cell.ID = d.Cells[i].ID
			d.Cells[i] = *cell
			return d.Version, nil
		}
	}
	cell.ID = f.id()
	d.Cells = append(d.Cells, *cell)
	return d.Version, nil
}

func (f *fakeStore) DeleteDraftCell(draftID int64, version int32, userID int64, workDate time.Time) (int32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	d, err := f.bumpDraft(draftID, version, domain.DraftStatusDrafting)
	if err != nil {
		return 0, err
	}
	kept := d.Cells[:0]
	for _, c := range d.Cells {
		if c.UserID == userID && roster.DateOnly(c.WorkDate).Equal(roster.DateOnly(workDate)) {
			continue
		}
		kept = append(kept, c)
	}
	d.Cells = kept
	return d.Version, nil
}

func (f *fakeStore) MarkDraftSaved(draftID int64, version int32) (int32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	d, err := f.bumpDraft(draftID, version, domain.DraftStatusSaved)
	if err != nil {
		return 0, err
	}
	return d.Version, nil
}

func draftCellMatches(entry *domain.ScheduleEntry, cell *domain.RosterDraftCell) bool {
	if entry.ShiftType != cell.ShiftType || entry.OnLeave {
		return false
	}
	strEq := func(a, b *string) bool {
		if (a == nil) != (b == nil) {
			return false
		}
		return a == nil || *a == *b
	}
	return strEq(entry.CustomStartTime, cell.CustomStartTime) && strEq(entry.CustomEndTime, cell.CustomEndTime)
}

func (f *fakeStore) resolveDanglingRequests(entryID int64) {
	for _, req := range f.swaps {
		if req.ScheduleEntryID == entryID && req.Status == domain.SwapStatusPending {
			req.Status = domain.SwapStatusDenied
			req.ResolvedAt = ptr(time.Now())
			req.Version++
		}
	}
	for _, req := range f.volunteers {
		if req.ScheduleEntryID == entryID && (req.Status == domain.VolunteerStatusOpen || req.Status == domain.VolunteerStatusPendingApproval) {
			req.Status = domain.VolunteerStatusCancelled
			req.ResolvedAt = ptr(time.Now())
			req.Version++
		}
	}
}

func (f *fakeStore) PublishDraft(draft *domain.RosterDraft) (int32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	d, err := f.bumpDraft(draft.ID, draft.Version, domain.DraftStatusPublished)
	if err != nil {
		return 0, err
	}

	type key struct {
		userID  int64
		dateKey string
	}
	existing := make(map[key]*domain.ScheduleEntry)
	for _, e := range f.entries {
		if e.ScheduleRole == d.ScheduleRole && inWeek(e.WorkDate, d.WeekStart) {
			existing[key{e.UserID, roster.FormatDate(e.WorkDate)}] = e
		}
	}
	desired := make(map[key]*domain.RosterDraftCell, len(d.Cells))
	for i := range d.Cells {
		desired[key{d.Cells[i].UserID, roster.FormatDate(d.Cells[i].WorkDate)}] = &d.Cells[i]
	}

	for k, cell := range desired {
		entry, exists := existing[k]
		if exists && draftCellMatches(entry, cell) {
			continue
		}
		if exists {
			f.resolveDanglingRequests(entry.ID)
			entry.ShiftType = cell.ShiftType
			entry.CustomStartTime = cell.CustomStartTime
			entry.CustomEndTime = cell.CustomEndTime
			entry.Exchange = nil
			entry.OnLeave = false
			entry.Version++
			continue
		}
		f.entries = append(f.entries, &domain.ScheduleEntry{
			ID:              f.id(),
			ScheduleRole:    d.ScheduleRole,
			UserID:          cell.UserID,
			WorkDate:        cell.WorkDate,
			ShiftType:       cell.ShiftType,
			CustomStartTime: cell.CustomStartTime,
			CustomEndTime:   cell.CustomEndTime,
			CreatedAt:       time.Now(),
			Version:         1,
		})
	}

	removed := make(map[int64]bool)
	for k, entry := range existing {
		if _, keep := desired[k]; keep || entry.OnLeave {
			continue
		}
		f.resolveDanglingRequests(entry.ID)
		removed[entry.ID] = true
	}
	if len(removed) > 0 {
		kept := f.entries[:0]
		for _, e := range f.entries {
			if !removed[e.ID] {
				kept = append(kept, e)
			}
		}
		f.entries = kept
	}

	return d.Version, nil
}

func (f *fakeStore) clearExchangeByRequest(kind domain.ExchangeKind, requestID int64) {
	for _, e := range f.entries {
		if e.Exchange != nil && e.Exchange.Kind == kind && e.Exchange.RequestID == requestID {
			e.Exchange = nil
			e.Version++
		}
	}
}

func (f *fakeStore) CreateSwapRequest(req *domain.SwapRequest, requesterName string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	entry := f.entryByID(req.ScheduleEntryID)
	if entry == nil {
		return sql.ErrNoRows
	}
	if entry.Exchange != nil {
		return repository.ErrAlreadyInExchange
	}

	req.ID = f.id()
	req.Status = domain.SwapStatusPending
	req.CreatedAt = time.Now()
	req.Version = 1
	if f.swaps == nil {
		f.swaps = make(map[int64]*domain.SwapRequest)
	}
	cp := *req
	f.swaps[cp.ID] = &cp

	entry.Exchange = &domain.ExchangeState{
		Kind:          domain.ExchangeKindSwap,
		RequestID:     req.ID,
		SwapStatus:    ptr(domain.SwapStatusPending),
		RequesterName: requesterName,
	}
	entry.Version++
	return nil
}

func (f *fakeStore) ApproveSwapRequest(requestID int64, entryID int64, covererID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	req := f.swaps[requestID]
	if req == nil || req.Status != domain.SwapStatusPending {
		return sql.ErrNoRows
	}
	req.Status = domain.SwapStatusApproved
	req.ResolvedAt = ptr(time.Now())
	req.Version++

	if entry := f.entryByID(entryID); entry != nil {
		entry.UserID = covererID
		entry.Exchange = nil
		entry.Version++
	}
	return nil
}

func (f *fakeStore) DenySwapRequest(requestID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	req := f.swaps[requestID]
	if req == nil || req.Status != domain.SwapStatusPending {
		return sql.ErrNoRows
	}
	req.Status = domain.SwapStatusDenied
	req.ResolvedAt = ptr(time.Now())
	req.Version++
	f.clearExchangeByRequest(domain.ExchangeKindSwap, requestID)
	return nil
}

func (f *fakeStore) ExpireSwapRequest(requestID int64) error {
	return f.DenySwapRequest(requestID)
}

func (f *fakeStore) GetSwapRequestByID(id int64) (*domain.SwapRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	req := f.swaps[id]
	if req == nil {
		return nil, sql.ErrNoRows
	}
	cp := *req
	return &cp, nil
}

func (f *fakeStore) GetSwapRequestsForWeek(weekStart time.Time) ([]*domain.SwapRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]*domain.SwapRequest, 0)
	for _, req := range f.swaps {
		if inWeek(req.WorkDate, weekStart) {
			cp := *req
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeStore) GetExpiredSwapRequests(today time.Time) ([]*domain.SwapRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]*domain.SwapRequest, 0)
	for _, req := range f.swaps {
		if req.Status == domain.SwapStatusPending && roster.DateOnly(req.WorkDate).Before(today) {
			cp := *req
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeStore) CreateVolunteerRequest(req *domain.VolunteerRequest, requesterName string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	entry := f.entryByID(req.ScheduleEntryID)
	if entry == nil {
		return sql.ErrNoRows
	}
	if entry.Exchange != nil {
		return repository.ErrAlreadyInExchange
	}

	req.ID = f.id()
	req.Status = domain.VolunteerStatusOpen
	req.CreatedAt = time.Now()
	req.Version = 1
	if f.volunteers == nil {
		f.volunteers = make(map[int64]*domain.VolunteerRequest)
	}
	cp := *req
	f.volunteers[cp.ID] = &cp

	entry.Exchange = &domain.ExchangeState{
		Kind:            domain.ExchangeKindVolunteer,
		RequestID:       req.ID,
		VolunteerStatus: ptr(domain.VolunteerStatusOpen),
		RequesterName:   requesterName,
		Reason:          req.Reason,
	}
	entry.Version++
	return nil
}

func (f *fakeStore) AddVolunteer(requestID int64, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	req := f.volunteers[requestID]
	if req == nil || (req.Status != domain.VolunteerStatusOpen && req.Status != domain.VolunteerStatusPendingApproval) {
		return sql.ErrNoRows
	}
	for _, v := range req.Volunteers {
		if v.UserID == userID {
			return repository.ErrAlreadyVolunteered
		}
	}

	fullName := ""
	for _, u := range f.users {
		if u.ID == userID {
			fullName = u.FullName
		}
	}
	req.Volunteers = append(req.Volunteers, domain.RequestVolunteer{
		UserID:        userID,
		FullName:      fullName,
		VolunteeredAt: time.Now(),
	})
	req.Status = domain.VolunteerStatusPendingApproval
	req.Version++

	for _, e := range f.entries {
		if e.Exchange != nil && e.Exchange.Kind == domain.ExchangeKindVolunteer && e.Exchange.RequestID == requestID {
			e.Exchange.VolunteerStatus = ptr(domain.VolunteerStatusPendingApproval)
			e.Version++
		}
	}
	return nil
}

func (f *fakeStore) ApproveVolunteerRequest(requestID int64, entryID int64, volunteerID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	req := f.volunteers[requestID]
	if req == nil || req.Status != domain.VolunteerStatusPendingApproval {
		return sql.ErrNoRows
	}
	req.Status = domain.VolunteerStatusApproved
	req.ResolvedAt = ptr(time.Now())
	req.Version++

	if entry := f.entryByID(entryID); entry != nil {
		entry.UserID = volunteerID
		entry.Exchange = nil
		entry.Version++
	}
	return nil
}

func (f *fakeStore) CancelVolunteerRequest(requestID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	req := f.volunteers[requestID]
	if req == nil || req.Status != domain.VolunteerStatusOpen {
		return sql.ErrNoRows
	}
	req.Status = domain.VolunteerStatusCancelled
	req.ResolvedAt = ptr(time.Now())
	req.Version++
	f.clearExchangeByRequest(domain.ExchangeKindVolunteer, requestID)
	return nil
}

func (f *fakeStore) ExpireVolunteerRequest(requestID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	req := f.volunteers[requestID]
	if req == nil || (req.Status != domain.VolunteerStatusOpen && req.Status != domain.VolunteerStatusPendingApproval) {
		return sql.ErrNoRows
	}
	req.Status = domain.VolunteerStatusCancelled
	req.ResolvedAt = ptr(time.Now())
	req.Version++
	f.clearExchangeByRequest(domain.ExchangeKindVolunteer, requestID)
	return nil
}

func (f *fakeStore) GetVolunteerRequestByID(id int64) (*domain.VolunteerRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	req := f.volunteers[id]
	if req == nil {
		return nil, sql.ErrNoRows
	}
	cp := *req
	cp.Volunteers = append([]domain.RequestVolunteer(nil), req.Volunteers...)
	return &cp, nil
}

func (f *fakeStore) GetVolunteerRequestsForWeek(weekStart time.Time) ([]*domain.VolunteerRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]*domain.VolunteerRequest, 0)
	for _, req := range f.volunteers {
		if inWeek(req.WorkDate, weekStart) {
			cp := *req
			cp.Volunteers = append([]domain.RequestVolunteer(nil), req.Volunteers...)
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeStore) GetExpiredVolunteerRequests(today time.Time) ([]*domain.VolunteerRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]*domain.VolunteerRequest, 0)
	for _, req := range f.volunteers {
		open := req.Status == domain.VolunteerStatusOpen || req.Status == domain.VolunteerStatusPendingApproval
		if open && roster.DateOnly(req.WorkDate).Before(today) {
			cp := *req
			cp.Volunteers = append([]domain.RequestVolunteer(nil), req.Volunteers...)
			out = append(out, &cp)
		}
	}
	return out, nil
}
