package services

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"repair-office/internal/entities"
	"repair-office/internal/repositories"
	apperrors "repair-office/pkg/errors"
	"repair-office/pkg/types"
)

// fakeTx runs fn with a nil tx; the fake repositories ignore it.
type fakeTx struct {
	calls int
}

func (f *fakeTx) RunInTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	f.calls++
	return fn(nil)
}

// fakeIDs hands out PREFIX-001, PREFIX-002 and so on per prefix.
type fakeIDs struct {
	mu   sync.Mutex
	next map[string]int
}

func (f *fakeIDs) Next(ctx context.Context, q repositories.Querier, prefix string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.next == nil {
		f.next = map[string]int{}
	}
	f.next[prefix]++
	return fmt.Sprintf("%s-%03d", prefix, f.next[prefix]), nil
}

var errDuplicate = &pgconn.PgError{Code: "23505"}

type fakeRepairRepo struct {
	cases        map[string]entities.RepairCase
	conflicts    int
	options      entities.RepairFilterOptions
	optionsCalls int
	links        map[string]string
	updated      []entities.RepairCase
}

func newFakeRepairRepo() *fakeRepairRepo {
	return &fakeRepairRepo{cases: map[string]entities.RepairCase{}, links: map[string]string{}}
}

func (f *fakeRepairRepo) GetRepairCases(ctx context.Context, opts types.ListOptions) (types.ListResult[entities.RepairCase], error) {
	res := types.ListResult[entities.RepairCase]{Page: opts.Page, Limit: opts.Limit}
	for _, c := range f.cases {
		res.Rows = append(res.Rows, c)
	}
	total := uint64(len(res.Rows))
	res.Total = &total
	return res, nil
}

func (f *fakeRepairRepo) ExportRepairCases(ctx context.Context, opts types.ListOptions) ([]entities.RepairCase, error) {
	res, _ := f.GetRepairCases(ctx, opts)
	return res.Rows, nil
}

func (f *fakeRepairRepo) FindRepairCase(ctx context.Context, id string) (*entities.RepairCase, error) {
	c, ok := f.cases[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &c, nil
}

func (f *fakeRepairRepo) CreateRepairCase(ctx context.Context, tx pgx.Tx, c entities.RepairCase) error {
	if f.conflicts > 0 {
		f.conflicts--
		return errDuplicate
	}
	f.cases[c.CaseID] = c
	return nil
}

func (f *fakeRepairRepo) UpdateRepairCase(ctx context.Context, c entities.RepairCase) error {
	if _, ok := f.cases[c.CaseID]; !ok {
		return apperrors.ErrNotFound
	}
	f.updated = append(f.updated, c)
	f.cases[c.CaseID] = c
	return nil
}

func (f *fakeRepairRepo) DeleteRepairCase(ctx context.Context, id string) error {
	if _, ok := f.cases[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(f.cases, id)
	return nil
}

func (f *fakeRepairRepo) LinkSentRepair(ctx context.Context, q repositories.Querier, caseID, sentRepairID string) (bool, error) {
	c, ok := f.cases[caseID]
	if !ok {
		return false, nil
	}
	c.CaseStatus = entities.RepairStatusSentOut
	c.RefSentRepairID = &sentRepairID
	f.cases[caseID] = c
	f.links[caseID] = sentRepairID
	return true, nil
}

func (f *fakeRepairRepo) GetFilterOptions(ctx context.Context) (*entities.RepairFilterOptions, error) {
	f.optionsCalls++
	o := f.options
	return &o, nil
}

type fakeSentRepairRepo struct {
	rows map[string]entities.SentRepair
}

func newFakeSentRepairRepo() *fakeSentRepairRepo {
	return &fakeSentRepairRepo{rows: map[string]entities.SentRepair{}}
}

func (f *fakeSentRepairRepo) GetSentRepairs(ctx context.Context, opts types.ListOptions) (types.ListResult[entities.SentRepair], error) {
	res := types.ListResult[entities.SentRepair]{}
	for _, s := range f.rows {
		res.Rows = append(res.Rows, s)
	}
	return res, nil
}

func (f *fakeSentRepairRepo) FindSentRepair(ctx context.Context, id string) (*entities.SentRepair, error) {
	s, ok := f.rows[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &s, nil
}

func (f *fakeSentRepairRepo) CreateSentRepair(ctx context.Context, tx pgx.Tx, s entities.SentRepair) error {
	f.rows[s.CaseSID] = s
	return nil
}

func (f *fakeSentRepairRepo) UpdateSentRepair(ctx context.Context, s entities.SentRepair) error {
	if _, ok := f.rows[s.CaseSID]; !ok {
		return apperrors.ErrNotFound
	}
	f.rows[s.CaseSID] = s
	return nil
}

func (f *fakeSentRepairRepo) DeleteSentRepair(ctx context.Context, id string) error {
	if _, ok := f.rows[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(f.rows, id)
	return nil
}

type fakeProjectRepo struct {
	rows      map[string]entities.Project
	failWrite error
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{rows: map[string]entities.Project{}}
}

func (f *fakeProjectRepo) GetProjects(ctx context.Context, opts types.ListOptions) (types.ListResult[entities.Project], error) {
	res := types.ListResult[entities.Project]{}
	for _, p := range f.rows {
		res.Rows = append(res.Rows, p)
	}
	return res, nil
}

func (f *fakeProjectRepo) FindProject(ctx context.Context, id string) (*entities.Project, error) {
	p, ok := f.rows[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &p, nil
}

func (f *fakeProjectRepo) CreateProject(ctx context.Context, tx pgx.Tx, p entities.Project) error {
	if f.failWrite != nil {
		return f.failWrite
	}
	f.rows[p.PID] = p
	return nil
}

func (f *fakeProjectRepo) UpdateProject(ctx context.Context, q repositories.Querier, p entities.Project) error {
	if f.failWrite != nil {
		return f.failWrite
	}
	old, ok := f.rows[p.PID]
	if !ok {
		return apperrors.ErrNotFound
	}
	p.Images = old.Images
	f.rows[p.PID] = p
	return nil
}

func (f *fakeProjectRepo) AppendImages(ctx context.Context, q repositories.Querier, projectID string, paths []string) error {
	p := f.rows[projectID]
	for _, path := range paths {
		p.Images = append(p.Images, entities.ProjectImage{Path: path, SortOrder: len(p.Images) + 1})
	}
	f.rows[projectID] = p
	return nil
}

func (f *fakeProjectRepo) DeleteProject(ctx context.Context, id string) ([]string, error) {
	p, ok := f.rows[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	delete(f.rows, id)
	return p.ImagePaths(), nil
}

type fakeQuotationRepo struct {
	docs     map[string]entities.Quotation
	sections map[string][]entities.QuotationSection
}

func newFakeQuotationRepo() *fakeQuotationRepo {
	return &fakeQuotationRepo{docs: map[string]entities.Quotation{}, sections: map[string][]entities.QuotationSection{}}
}

func (f *fakeQuotationRepo) GetQuotations(ctx context.Context, opts types.ListOptions) (types.ListResult[entities.QuotationSummary], error) {
	res := types.ListResult[entities.QuotationSummary]{}
	for id, q := range f.docs {
		q.Sections = f.sections[id]
		res.Rows = append(res.Rows, entities.QuotationSummary{
			ID:            q.ID,
			QuotationID:   q.QuotationID,
			CustomerName:  q.CustomerName,
			CurrentStatus: q.CurrentStatus,
			IssueDate:     q.IssueDate,
			Total:         q.Total(),
		})
	}
	return res, nil
}

func (f *fakeQuotationRepo) FindQuotation(ctx context.Context, id string) (*entities.Quotation, error) {
	q, ok := f.docs[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	q.Sections = f.sections[id]
	return &q, nil
}

func (f *fakeQuotationRepo) InsertQuotation(ctx context.Context, tx pgx.Tx, q entities.Quotation) error {
	f.docs[q.ID] = q
	return nil
}

func (f *fakeQuotationRepo) UpdateQuotation(ctx context.Context, tx pgx.Tx, q entities.Quotation) error {
	if _, ok := f.docs[q.ID]; !ok {
		return apperrors.ErrNotFound
	}
	f.docs[q.ID] = q
	return nil
}

func (f *fakeQuotationRepo) ReplaceSections(ctx context.Context, tx pgx.Tx, documentID string, sections []entities.QuotationSection) error {
	f.sections[documentID] = sections
	return nil
}

func (f *fakeQuotationRepo) DeleteQuotation(ctx context.Context, id string) error {
	if _, ok := f.docs[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(f.docs, id)
	delete(f.sections, id)
	return nil
}

type fakeDashboardRepo struct {
	mu         sync.Mutex
	statsCalls int
	limits     []uint64
	activities []types.RecentActivity
	fail       error
}

func (f *fakeDashboardRepo) GetRepairStats(ctx context.Context) (types.RepairStats, error) {
	f.mu.Lock()
	f.statsCalls++
	f.mu.Unlock()
	return types.RepairStats{Total: 10, Received: 4, Repairing: 3, RepairComplete: 3}, nil
}

func (f *fakeDashboardRepo) GetSentRepairStats(ctx context.Context) (types.SentRepairStats, error) {
	if f.fail != nil {
		return types.SentRepairStats{}, f.fail
	}
	return types.SentRepairStats{Total: 5, Sending: 2, Received: 3}, nil
}

func (f *fakeDashboardRepo) GetProjectStats(ctx context.Context) (types.ProjectStats, error) {
	return types.ProjectStats{Total: 4, Waiting: 1, InProgress: 1, Completed: 2}, nil
}

func (f *fakeDashboardRepo) GetRecentActivities(ctx context.Context, limit uint64) ([]types.RecentActivity, error) {
	f.limits = append(f.limits, limit)
	if uint64(len(f.activities)) > limit {
		return f.activities[:limit], nil
	}
	return f.activities, nil
}

type fakeMemberRepo struct {
	byEmail map[string]entities.Member
	nextID  int64
}

func newFakeMemberRepo() *fakeMemberRepo {
	return &fakeMemberRepo{byEmail: map[string]entities.Member{}}
}

func (f *fakeMemberRepo) CreateMember(ctx context.Context, m entities.Member) (int64, error) {
	if _, ok := f.byEmail[m.Email]; ok {
		return 0, apperrors.ErrUserExists
	}
	f.nextID++
	m.ID = f.nextID
	m.CreatedAt = time.Now()
	f.byEmail[m.Email] = m
	return m.ID, nil
}

func (f *fakeMemberRepo) FindByEmail(ctx context.Context, email string) (*entities.Member, error) {
	m, ok := f.byEmail[email]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return &m, nil
}

func (f *fakeMemberRepo) FindByID(ctx context.Context, id int64) (*entities.Member, error) {
	for _, m := range f.byEmail {
		if m.ID == id {
			return &m, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

type fakeRenderer struct {
	html string
}

func (f *fakeRenderer) RenderHTML(ctx context.Context, html string) ([]byte, error) {
	f.html = html
	return []byte("%PDF-1.4 fake"), nil
}

type fakeStorage struct {
	saved   []string
	deleted []string
	failOn  int
}

func (f *fakeStorage) Save(ctx context.Context, file io.Reader, originalFileName, prefix string) (string, error) {
	if f.failOn > 0 && len(f.saved)+1 == f.failOn {
		return "", fmt.Errorf("disk full")
	}
	if _, err := io.Copy(io.Discard, file); err != nil {
		return "", err
	}
	p := fmt.Sprintf("/uploads/%s/%d-%s", prefix, len(f.saved)+1, originalFileName)
	f.saved = append(f.saved, p)
	return p, nil
}

func (f *fakeStorage) Delete(ctx context.Context, filePath string) error {
	f.deleted = append(f.deleted, filePath)
	return nil
}
