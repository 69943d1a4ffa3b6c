package service

import (
	"database/sql"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/sysu-ecnc-dev/employee-portal/backend/internal/domain"
)

// memStore 是测试用的内存存储，唯一约束与数据库中的保持一致
type memStore struct {
	mu sync.Mutex

	nextID     int64
	users      map[int64]*domain.User
	employees  map[int64]*domain.Employee
	attendance map[int64]*domain.AttendanceRecord
	leaves     map[int64]*domain.LeaveRequest
	audit      []*domain.AuditEntry

	auditErr error
	clock    func() time.Time
}

func newMemStore(clock func() time.Time) *memStore {
	return &memStore{
		users:      map[int64]*domain.User{},
		employees:  map[int64]*domain.Employee{},
		attendance: map[int64]*domain.AttendanceRecord{},
		leaves:     map[int64]*domain.LeaveRequest{},
		clock:      clock,
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func dayKey(t time.Time) string {
	return t.Format(time.DateOnly)
}

// dateColumn 模拟 DATE 列：只保留日历日期，读出来是 UTC 零点
func dateColumn(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (m *memStore) CreateUser(user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Email == user.Email {
			return domain.ErrEmailExists
		}
	}
	user.ID = m.id()
	user.CreatedAt = m.clock()
	user.Version = 1
	c := *user
	m.users[user.ID] = &c
	return nil
}

func (m *memStore) GetUserByID(id int64) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	c := *u
	return &c, nil
}

func (m *memStore) GetUserByEmail(email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *memStore) GetAllUsers() ([]*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	users := make([]*domain.User, 0, len(m.users))
	for _, u := range m.users {
		c := *u
		users = append(users, &c)
	}
	slices.SortFunc(users, func(a, b *domain.User) int { return int(a.ID - b.ID) })
	return users, nil
}

func (m *memStore) UpdateUser(user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[user.ID]
	if !ok || u.Version != user.Version {
		return sql.ErrNoRows
	}
	user.Version++
	c := *user
	m.users[user.ID] = &c
	return nil
}

func (m *memStore) CreateEmployee(e *domain.Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, other := range m.employees {
		if other.Email == e.Email {
			return domain.ErrEmailExists
		}
	}
	e.ID = m.id()
	e.CreatedAt = m.clock()
	e.UpdatedAt = e.CreatedAt
	e.Version = 1
	c := *e
	m.employees[e.ID] = &c
	return nil
}

func (m *memStore) GetEmployeeByID(id int64) (*domain.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.employees[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	c := *e
	return &c, nil
}

func (m *memStore) GetAllEmployees() ([]*domain.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.sortedEmployees(func(*domain.Employee) bool { return true }), nil
}

func (m *memStore) sortedEmployees(keep func(*domain.Employee) bool) []*domain.Employee {
	list := make([]*domain.Employee, 0, len(m.employees))
	for _, e := range m.employees {
		if keep(e) {
			c := *e
			list = append(list, &c)
		}
	}
	slices.SortFunc(list, func(a, b *domain.Employee) int { return int(a.ID - b.ID) })
	return list
}

func (m *memStore) ListEmployees(filter domain.EmployeeFilter) ([]*domain.Employee, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	q := strings.ToLower(filter.Query)
	list := m.sortedEmployees(func(e *domain.Employee) bool {
		if q != "" &&
			!strings.Contains(strings.ToLower(e.FirstName), q) &&
			!strings.Contains(strings.ToLower(e.LastName), q) &&
			!strings.Contains(strings.ToLower(e.Email), q) {
			return false
		}
		if filter.Department != "" && e.Department != filter.Department {
			return false
		}
		if filter.Role != "" && e.Role != filter.Role {
			return false
		}
		if filter.Status != "" && e.Status != filter.Status {
			return false
		}
		return true
	})

	total := len(list)
	start := min((filter.Page-1)*filter.Limit, total)
	end := min(start+filter.Limit, total)
	return list[start:end], total, nil
}

func (m *memStore) UpdateEmployee(e *domain.Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cur, ok := m.employees[e.ID]
	if !ok || cur.Version != e.Version {
		return sql.ErrNoRows
	}
	for _, other := range m.employees {
		if other.ID != e.ID && other.Email == e.Email {
			return domain.ErrEmailExists
		}
	}
	e.Version++
	e.UpdatedAt = m.clock()
	c := *e
	m.employees[e.ID] = &c
	return nil
}

func (m *memStore) DeleteEmployee(id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.employees[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.employees, id)
	return nil
}

func (m *memStore) CountEmployees(status domain.EmployeeStatus) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, e := range m.employees {
		if status == "" || e.Status == status {
			n++
		}
	}
	return n, nil
}

func (m *memStore) CreateAttendance(rec *domain.AttendanceRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, other := range m.attendance {
		if other.EmployeeID == rec.EmployeeID && dayKey(other.Date) == dayKey(rec.Date) {
			return domain.ErrDuplicateCheckIn
		}
	}
	rec.ID = m.id()
	rec.CreatedAt = m.clock()
	rec.UpdatedAt = rec.CreatedAt
	rec.Version = 1
	c := *rec
	c.Date = dateColumn(c.Date)
	m.attendance[rec.ID] = &c
	return nil
}

func (m *memStore) GetAttendanceByID(id int64) (*domain.AttendanceRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.attendance[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	c := *rec
	return &c, nil
}

func (m *memStore) GetAttendanceByEmployeeAndDate(employeeID int64, day time.Time) (*domain.AttendanceRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, rec := range m.attendance {
		if rec.EmployeeID == employeeID && dayKey(rec.Date) == dayKey(day) {
			c := *rec
			return &c, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *memStore) CloseAttendance(rec *domain.AttendanceRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cur, ok := m.attendance[rec.ID]
	if !ok || cur.CheckOut != nil {
		return sql.ErrNoRows
	}
	cur.CheckOut = rec.CheckOut
	cur.TotalHours = rec.TotalHours
	cur.Version++
	rec.Version = cur.Version
	return nil
}

func (m *memStore) UpdateAttendance(rec *domain.AttendanceRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cur, ok := m.attendance[rec.ID]
	if !ok || cur.Version != rec.Version {
		return sql.ErrNoRows
	}
	for _, other := range m.attendance {
		if other.ID != rec.ID && other.EmployeeID == rec.EmployeeID && dayKey(other.Date) == dayKey(rec.Date) {
			return domain.ErrDuplicateCheckIn
		}
	}
	rec.Version++
	c := *rec
	c.Date = dateColumn(c.Date)
	c.Employee = nil
	m.attendance[rec.ID] = &c
	return nil
}

func (m *memStore) QueryAttendance(filter domain.AttendanceFilter) ([]*domain.AttendanceRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var list []*domain.AttendanceRecord
	for _, rec := range m.attendance {
		if filter.EmployeeID != nil && rec.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.DateFrom != nil && dayKey(rec.Date) < dayKey(*filter.DateFrom) {
			continue
		}
		if filter.DateTo != nil && dayKey(rec.Date) > dayKey(*filter.DateTo) {
			continue
		}
		c := *rec
		if e, ok := m.employees[rec.EmployeeID]; ok {
			ec := *e
			c.Employee = &ec
		}
		list = append(list, &c)
	}
	return list, nil
}

func (m *memStore) CountAttendanceByDay(since time.Time) ([]domain.DailyCount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	counts := map[string]*domain.DailyCount{}
	for _, rec := range m.attendance {
		if dayKey(rec.Date) < dayKey(since) {
			continue
		}
		key := dayKey(rec.Date)
		if counts[key] == nil {
			counts[key] = &domain.DailyCount{Date: rec.Date}
		}
		counts[key].Count++
	}

	result := make([]domain.DailyCount, 0, len(counts))
	for _, c := range counts {
		result = append(result, *c)
	}
	slices.SortFunc(result, func(a, b domain.DailyCount) int { return a.Date.Compare(b.Date) })
	return result, nil
}

func (m *memStore) CreateLeave(leave *domain.LeaveRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	leave.ID = m.id()
	leave.CreatedAt = m.clock()
	leave.UpdatedAt = leave.CreatedAt
	c := *leave
	c.StartDate = dateColumn(c.StartDate)
	c.EndDate = dateColumn(c.EndDate)
	m.leaves[leave.ID] = &c
	return nil
}

func (m *memStore) GetLeaveByID(id int64) (*domain.LeaveRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	leave, ok := m.leaves[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	c := *leave
	return &c, nil
}

func (m *memStore) UpdateLeaveStatus(leave *domain.LeaveRequest, from domain.LeaveStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cur, ok := m.leaves[leave.ID]
	if !ok || (from != "" && cur.Status != from) {
		return sql.ErrNoRows
	}
	cur.Status = leave.Status
	cur.UpdatedAt = m.clock()
	leave.UpdatedAt = cur.UpdatedAt
	return nil
}

func (m *memStore) ListLeaves(status domain.LeaveStatus) ([]*domain.LeaveRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var list []*domain.LeaveRequest
	for _, leave := range m.leaves {
		if status != "" && leave.Status != status {
			continue
		}
		c := *leave
		if e, ok := m.employees[leave.EmployeeID]; ok {
			ec := *e
			c.Employee = &ec
		}
		if u, ok := m.users[leave.AppliedBy]; ok {
			uc := *u
			c.Applicant = &uc
		}
		list = append(list, &c)
	}
	slices.SortFunc(list, func(a, b *domain.LeaveRequest) int { return int(a.ID - b.ID) })
	return list, nil
}

func (m *memStore) SumApprovedLeaveDays() (map[int64]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	used := map[int64]int{}
	for _, leave := range m.leaves {
		if leave.Status == domain.LeaveApproved {
			used[leave.EmployeeID] += leave.Days
		}
	}
	return used, nil
}

func (m *memStore) InsertAuditEntry(entry *domain.AuditEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.auditErr != nil {
		return m.auditErr
	}
	entry.ID = m.id()
	entry.CreatedAt = m.clock()
	c := *entry
	m.audit = append(m.audit, &c)
	return nil
}

func (m *memStore) ListAuditEntries(limit int) ([]*domain.AuditEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	list := make([]*domain.AuditEntry, 0, min(limit, len(m.audit)))
	for i := len(m.audit) - 1; i >= 0 && len(list) < limit; i-- {
		c := *m.audit[i]
		if u, ok := m.users[c.ActorID]; ok {
			uc := *u
			c.Actor = &uc
		}
		list = append(list, &c)
	}
	return list, nil
}

func (m *memStore) auditEntries() []*domain.AuditEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.audit)
}

var errAuditDown = errors.New("audit store unavailable")

type recordedMail struct {
	mu   sync.Mutex
	msgs []domain.MailMessage
	err  error
}

func (r *recordedMail) Publish(msg domain.MailMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.msgs = append(r.msgs, msg)
	return nil
}
