package services

import (
	"context"
	"sort"
	"time"

	"fcr-robofed/internal/adapters/persistence/models"
	"fcr-robofed/internal/adapters/persistence/repositories"
	"fcr-robofed/internal/core/domain"

	"gorm.io/gorm"
)

// Map-backed repository fakes. Mutators honor the same contracts as
// the GORM implementations (sentinel errors, conditional transitions)
// so the services under test cannot tell the difference.

// ---------------------------------------------------------------
// membership
// ---------------------------------------------------------------

type fakeMembershipRepo struct {
	capacities map[uint]*domain.ClubCapacity
	members    map[uint][]domain.ClubMember
	cleared    []uint
}

func newFakeMembershipRepo() *fakeMembershipRepo {
	return &fakeMembershipRepo{
		capacities: make(map[uint]*domain.ClubCapacity),
		members:    make(map[uint][]domain.ClubMember),
	}
}

func (f *fakeMembershipRepo) addClub(id uint, active bool, focus string, slots int) {
	f.capacities[id] = &domain.ClubCapacity{
		ClubID:         id,
		Active:         active,
		CategoryFocus:  focus,
		AvailableSlots: slots,
	}
}

func (f *fakeMembershipRepo) GetMembers(_ context.Context, clubID uint) ([]domain.ClubMember, error) {
	out := append([]domain.ClubMember(nil), f.members[clubID]...)
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (f *fakeMembershipRepo) GetClubCapacity(_ context.Context, clubID uint) (*domain.ClubCapacity, error) {
	c, ok := f.capacities[clubID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeMembershipRepo) ListOpenClubs(_ context.Context, excludeClubID uint) ([]domain.ClubCapacity, error) {
	var out []domain.ClubCapacity
	for _, c := range f.capacities {
		if c.ClubID == excludeClubID || !c.Active || c.AvailableSlots <= 0 {
			continue
		}
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AvailableSlots != out[j].AvailableSlots {
			return out[i].AvailableSlots > out[j].AvailableSlots
		}
		return out[i].ClubID < out[j].ClubID
	})
	return out, nil
}

func (f *fakeMembershipRepo) MoveUser(_ context.Context, userID, fromClubID, toClubID uint) error {
	if toClubID != 0 {
		dest, ok := f.capacities[toClubID]
		if !ok {
			return domain.ErrNotFound
		}
		if !dest.Active || dest.AvailableSlots <= 0 {
			return domain.ErrCapacityExceeded
		}
		dest.AvailableSlots--
	}
	if fromClubID != 0 {
		if origin, ok := f.capacities[fromClubID]; ok {
			origin.AvailableSlots++
		}
	}
	return nil
}

func (f *fakeMembershipRepo) ClearMembership(_ context.Context, userID uint) error {
	f.cleared = append(f.cleared, userID)
	return nil
}

// ---------------------------------------------------------------
// clubs
// ---------------------------------------------------------------

type fakeClubRepo struct {
	clubs  map[uint]*models.Club
	nextID uint
}

func newFakeClubRepo() *fakeClubRepo {
	return &fakeClubRepo{clubs: make(map[uint]*models.Club)}
}

func (f *fakeClubRepo) Create(_ context.Context, club *models.Club) error {
	f.nextID++
	club.ID = f.nextID
	f.clubs[club.ID] = club
	return nil
}

func (f *fakeClubRepo) GetByID(_ context.Context, id uint) (*models.Club, error) {
	c, ok := f.clubs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (f *fakeClubRepo) GetByName(_ context.Context, name string) (*models.Club, error) {
	for _, c := range f.clubs {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeClubRepo) Update(_ context.Context, club *models.Club) error {
	f.clubs[club.ID] = club
	return nil
}

func (f *fakeClubRepo) Delete(_ context.Context, id uint) error {
	delete(f.clubs, id)
	return nil
}

func (f *fakeClubRepo) List(_ context.Context, _, _ int) ([]*models.Club, int64, error) {
	var out []*models.Club
	for _, c := range f.clubs {
		out = append(out, c)
	}
	return out, int64(len(out)), nil
}

func (f *fakeClubRepo) ListNames(_ context.Context) ([]string, error) {
	var names []string
	for _, c := range f.clubs {
		names = append(names, c.Name)
	}
	return names, nil
}

func (f *fakeClubRepo) ListMembers(_ context.Context, _ uint) ([]*models.User, error) {
	return nil, nil
}

// ---------------------------------------------------------------
// disablements
// ---------------------------------------------------------------

type fakeDisablementRepo struct {
	membership   *fakeMembershipRepo
	records      map[uint]*models.ClubDisablement
	members      map[uint][]*models.AffectedMember
	nextID       uint
	nextMemberID uint
	degradeCalls int
}

func newFakeDisablementRepo(membership *fakeMembershipRepo) *fakeDisablementRepo {
	return &fakeDisablementRepo{
		membership: membership,
		records:    make(map[uint]*models.ClubDisablement),
		members:    make(map[uint][]*models.AffectedMember),
	}
}

func (f *fakeDisablementRepo) Create(_ context.Context, d *models.ClubDisablement, members []models.AffectedMember) error {
	for _, r := range f.records {
		if r.ClubID == d.ClubID && r.IsActive() {
			return domain.ErrConflict
		}
	}
	f.nextID++
	d.ID = f.nextID
	f.records[d.ID] = d
	for i := range members {
		f.nextMemberID++
		m := members[i]
		m.ID = f.nextMemberID
		m.DisablementID = d.ID
		f.members[d.ID] = append(f.members[d.ID], &m)
	}
	return nil
}

func (f *fakeDisablementRepo) GetByID(_ context.Context, id uint) (*models.ClubDisablement, error) {
	d, ok := f.records[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return d, nil
}

func (f *fakeDisablementRepo) List(_ context.Context, _, _ int) ([]*models.ClubDisablement, int64, error) {
	var out []*models.ClubDisablement
	for _, d := range f.records {
		out = append(out, d)
	}
	return out, int64(len(out)), nil
}

func (f *fakeDisablementRepo) HasActiveByClub(_ context.Context, clubID uint) (bool, error) {
	for _, r := range f.records {
		if r.ClubID == clubID && r.IsActive() {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeDisablementRepo) SetStatus(_ context.Context, id uint, from, to string) error {
	d, ok := f.records[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if d.Status != from {
		return domain.ErrInvalidState
	}
	d.Status = to
	return nil
}

func (f *fakeDisablementRepo) PendingMembers(_ context.Context, disablementID uint) ([]models.AffectedMember, error) {
	var out []models.AffectedMember
	for _, m := range f.members[disablementID] {
		if m.Status == models.AffectedStatusPending {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *fakeDisablementRepo) TransferMember(_ context.Context, member *models.AffectedMember, destClubID uint) error {
	stored := f.findMember(member.DisablementID, member.ID)
	if stored == nil || stored.Status != models.AffectedStatusPending {
		return domain.ErrInvalidState
	}
	dest, ok := f.membership.capacities[destClubID]
	if !ok || !dest.Active || dest.AvailableSlots <= 0 {
		return domain.ErrCapacityExceeded
	}
	dest.AvailableSlots--
	now := time.Now()
	stored.Status = models.AffectedStatusTransferred
	stored.DestClubID = &destClubID
	stored.ResolvedAt = &now
	*member = *stored
	return nil
}

func (f *fakeDisablementRepo) DegradeMember(_ context.Context, member *models.AffectedMember) error {
	f.degradeCalls++
	stored := f.findMember(member.DisablementID, member.ID)
	if stored == nil || stored.Status != models.AffectedStatusPending {
		return domain.ErrInvalidState
	}
	now := time.Now()
	stored.Status = models.AffectedStatusDegraded
	stored.ResolvedAt = &now
	f.membership.cleared = append(f.membership.cleared, stored.UserID)
	*member = *stored
	return nil
}

func (f *fakeDisablementRepo) RefreshCounts(_ context.Context, disablementID uint) (int, error) {
	d, ok := f.records[disablementID]
	if !ok {
		return 0, gorm.ErrRecordNotFound
	}
	var reallocated, degraded, pending int
	for _, m := range f.members[disablementID] {
		switch m.Status {
		case models.AffectedStatusTransferred:
			reallocated++
		case models.AffectedStatusDegraded:
			degraded++
		default:
			pending++
		}
	}
	d.Reallocated = reallocated
	d.Degraded = degraded
	d.Pending = pending
	return pending, nil
}

func (f *fakeDisablementRepo) Complete(_ context.Context, id uint, completedAt time.Time) error {
	d, ok := f.records[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if !d.IsActive() {
		return nil
	}
	d.Status = models.DisablementStatusCompleted
	d.CompletedAt = &completedAt
	return nil
}

func (f *fakeDisablementRepo) MarkNotified(_ context.Context, id uint) error {
	if d, ok := f.records[id]; ok {
		d.NotifySent = true
	}
	return nil
}

func (f *fakeDisablementRepo) ListExpiredActive(_ context.Context, now time.Time) ([]models.ClubDisablement, error) {
	var out []models.ClubDisablement
	for _, d := range f.records {
		if d.IsActive() && d.IsExpired(now) {
			out = append(out, *d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeDisablementRepo) CountResolved(_ context.Context, disablementID uint) (int64, error) {
	var n int64
	for _, m := range f.members[disablementID] {
		if m.Status != models.AffectedStatusPending {
			n++
		}
	}
	return n, nil
}

func (f *fakeDisablementRepo) DeleteMembers(_ context.Context, disablementID uint) error {
	delete(f.members, disablementID)
	return nil
}

func (f *fakeDisablementRepo) findMember(disablementID, memberID uint) *models.AffectedMember {
	for _, m := range f.members[disablementID] {
		if m.ID == memberID {
			return m
		}
	}
	return nil
}

// ---------------------------------------------------------------
// transfers
// ---------------------------------------------------------------

type fakeTransferRepo struct {
	membership *fakeMembershipRepo
	requests   map[uint]*models.TransferRequest
	nextID     uint
}

func newFakeTransferRepo(membership *fakeMembershipRepo) *fakeTransferRepo {
	return &fakeTransferRepo{
		membership: membership,
		requests:   make(map[uint]*models.TransferRequest),
	}
}

func (f *fakeTransferRepo) Create(_ context.Context, t *models.TransferRequest) error {
	for _, r := range f.requests {
		if r.UserID == t.UserID && !r.IsTerminal() {
			return domain.ErrConflict
		}
	}
	f.nextID++
	t.ID = f.nextID
	f.requests[t.ID] = t
	return nil
}

func (f *fakeTransferRepo) GetByID(_ context.Context, id uint) (*models.TransferRequest, error) {
	t, ok := f.requests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return t, nil
}

func (f *fakeTransferRepo) GetActiveByUser(_ context.Context, userID uint) (*models.TransferRequest, error) {
	for _, r := range f.requests {
		if r.UserID == userID && !r.IsTerminal() {
			return r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeTransferRepo) ListByUser(_ context.Context, userID uint) ([]*models.TransferRequest, error) {
	var out []*models.TransferRequest
	for _, r := range f.requests {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeTransferRepo) ListPendingForClub(_ context.Context, clubID uint) ([]*models.TransferRequest, error) {
	var out []*models.TransferRequest
	for _, r := range f.requests {
		exit := r.Status == models.TransferStatusPendingExit && r.OriginClubID == clubID
		entry := r.Status == models.TransferStatusPendingEntry && r.DestClubID == clubID
		if exit || entry {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeTransferRepo) ApproveExit(_ context.Context, id uint, approver string, at time.Time) error {
	t, ok := f.requests[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if t.Status != models.TransferStatusPendingExit {
		return domain.ErrInvalidState
	}
	t.Status = models.TransferStatusPendingEntry
	t.ExitApprovedBy = approver
	t.ExitApprovedAt = &at
	return nil
}

func (f *fakeTransferRepo) ApproveEntry(_ context.Context, t *models.TransferRequest, approver string, at time.Time) error {
	stored, ok := f.requests[t.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if stored.Status != models.TransferStatusPendingEntry {
		return domain.ErrInvalidState
	}
	dest, ok := f.membership.capacities[stored.DestClubID]
	if !ok || !dest.Active || dest.AvailableSlots <= 0 {
		return domain.ErrCapacityExceeded
	}
	dest.AvailableSlots--
	stored.Status = models.TransferStatusApproved
	stored.EntryApprovedBy = approver
	stored.EntryApprovedAt = &at
	return nil
}

func (f *fakeTransferRepo) Reject(_ context.Context, id uint, approver, reason string, at time.Time) error {
	t, ok := f.requests[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if t.IsTerminal() {
		return domain.ErrInvalidState
	}
	t.Status = models.TransferStatusRejected
	t.RejectedBy = approver
	t.RejectionReason = reason
	t.RejectedAt = &at
	return nil
}

// ---------------------------------------------------------------
// robots and users (only the methods the services touch)
// ---------------------------------------------------------------

type fakeRobotRepo struct {
	repositories.RobotRepository
	dominant map[uint]string
	counts   map[uint]int64
}

func newFakeRobotRepo() *fakeRobotRepo {
	return &fakeRobotRepo{
		dominant: make(map[uint]string),
		counts:   make(map[uint]int64),
	}
}

func (f *fakeRobotRepo) DominantCategory(_ context.Context, ownerID uint) (string, error) {
	return f.dominant[ownerID], nil
}

func (f *fakeRobotRepo) CountByOwner(_ context.Context, ownerID uint) (int64, error) {
	return f.counts[ownerID], nil
}

type fakeUserRepo struct {
	repositories.UserRepository
	users map[uint]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uint]*models.User)}
}

func (f *fakeUserRepo) GetByID(_ context.Context, id uint) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *models.User) error {
	f.users[user.ID] = user
	return nil
}

type fakeCategoryRepo struct {
	categories map[string]*models.RobotCategory
}

func newFakeCategoryRepo(codes ...string) *fakeCategoryRepo {
	f := &fakeCategoryRepo{categories: make(map[string]*models.RobotCategory)}
	for i, code := range codes {
		f.categories[code] = &models.RobotCategory{ID: uint(i + 1), Code: code, Name: code}
	}
	return f
}

func (f *fakeCategoryRepo) Create(_ context.Context, category *models.RobotCategory) error {
	f.categories[category.Code] = category
	return nil
}

func (f *fakeCategoryRepo) GetByID(_ context.Context, id uint) (*models.RobotCategory, error) {
	for _, c := range f.categories {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCategoryRepo) GetByCode(_ context.Context, code string) (*models.RobotCategory, error) {
	c, ok := f.categories[code]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (f *fakeCategoryRepo) List(_ context.Context) ([]*models.RobotCategory, error) {
	var out []*models.RobotCategory
	for _, c := range f.categories {
		out = append(out, c)
	}
	return out, nil
}
