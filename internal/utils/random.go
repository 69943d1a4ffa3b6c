package utils

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/mozillazg/go-pinyin"
	"github.com/sysu-ecnc-dev/employee-portal/backend/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

var commonSurnames = []string{
	"王", "李", "张", "刘", "陈", "杨", "赵", "黄", "周", "吴",
	"徐", "孙", "胡", "朱", "高", "林", "何", "郭", "马", "罗",
}
var commonNameCharacters = []string{
	"伟", "强", "芳", "敏", "静", "丽", "刚", "杰", "娟", "勇",
	"艳", "涛", "明", "军", "磊", "洋", "勇", "霞", "飞", "玲",
	"超", "华", "平", "辉", "梅", "鑫", "龙", "鹏", "玉", "斌",
	"庆", "建", "丹", "彬", "凤", "旭", "宁", "乐", "成", "欣",
}

// GenerateRandomChineseName 返回随机的姓和名
func GenerateRandomChineseName() (string, string) {
	surname := commonSurnames[rand.Intn(len(commonSurnames))]
	nameLength := rand.Intn(2) + 1
	name := ""

	for i := 0; i < nameLength; i++ {
		name += commonNameCharacters[rand.Intn(len(commonNameCharacters))]
	}
	return surname, name
}

var roles = []domain.Role{
	domain.RoleAdmin,
	domain.RoleHR,
	domain.RoleManager,
	domain.RoleEmployee,
}

func GenerateRandomRole() domain.Role {
	return roles[rand.Intn(len(roles))]
}

var digits = "0123456789"

// GenerateEmailLocalPart 用姓名拼音的前缀加上随机数字生成邮箱前缀
func GenerateEmailLocalPart(chineseName string) string {
	pinyinArray := pinyin.LazyConvert(chineseName, nil)
	local := ""

	for _, py := range pinyinArray {
		length := rand.Intn(len(py)) + 1
		local += py[:length]
	}

	digitsLength := rand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		local += string(digits[rand.Intn(len(digits))])
	}

	return local
}

func GenerateRandomUser(password string, emailDomainName string) (*domain.User, error) {
	surname, name := GenerateRandomChineseName()
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:         surname + name,
		Email:        GenerateEmailLocalPart(surname+name) + "@" + emailDomainName,
		PasswordHash: string(passwordHash),
		Role:         GenerateRandomRole(),
	}

	return user, nil
}

var departments = []string{"研发部", "市场部", "人事部", "财务部", "运营部"}
var positions = []string{"工程师", "专员", "主管", "经理", "实习生"}

func GenerateRandomEmployee(emailDomainName string) *domain.Employee {
	surname, name := GenerateRandomChineseName()
	joined := time.Now().AddDate(0, 0, -rand.Intn(365*5)).Truncate(24 * time.Hour)

	employee := &domain.Employee{
		FirstName:     name,
		LastName:      surname,
		Email:         GenerateEmailLocalPart(surname+name) + "@" + emailDomainName,
		Phone:         fmt.Sprintf("1%d%09d", 3+rand.Intn(7), rand.Intn(1000000000)),
		Department:    departments[rand.Intn(len(departments))],
		Role:          positions[rand.Intn(len(positions))],
		DateOfJoining: &joined,
		Salary: domain.Salary{
			Basic:      float64(5000 + rand.Intn(20)*500),
			Allowances: float64(rand.Intn(10) * 200),
			Deductions: float64(rand.Intn(5) * 100),
		},
		Status: domain.EmployeeActive,
	}

	// 大约五分之一的员工有单独设置的假期额度
	if rand.Intn(5) == 0 {
		allocation := 5 + rand.Intn(20)
		employee.LeaveAllocation = &allocation
	}
	if rand.Intn(10) == 0 {
		employee.Status = domain.EmployeeInactive
	}

	return employee
}

var leaveTypes = []string{"年假", "病假", "事假", "婚假"}

// GenerateRandomLeave 生成最近三个月内的一条请假申请
func GenerateRandomLeave(employeeID, appliedBy int64) *domain.LeaveRequest {
	start := time.Now().AddDate(0, 0, -rand.Intn(90)).Truncate(24 * time.Hour)
	end := start.AddDate(0, 0, rand.Intn(5))

	statuses := []domain.LeaveStatus{domain.LeavePending, domain.LeaveApproved, domain.LeaveRejected}

	return &domain.LeaveRequest{
		EmployeeID: employeeID,
		Type:       leaveTypes[rand.Intn(len(leaveTypes))],
		StartDate:  start,
		EndDate:    end,
		Days:       domain.InclusiveDays(start, end),
		Reason:     "随机生成的请假申请",
		Status:     statuses[rand.Intn(len(statuses))],
		AppliedBy:  appliedBy,
	}
}

// GenerateRandomAttendance 生成某天的考勤记录，签到时间在 8 点到 10 点之间
func GenerateRandomAttendance(employeeID int64, day time.Time) *domain.AttendanceRecord {
	checkIn := day.Add(8*time.Hour + time.Duration(rand.Intn(120))*time.Minute)
	checkOut := checkIn.Add(7*time.Hour + time.Duration(rand.Intn(180))*time.Minute)
	hours := domain.Hours(checkIn, checkOut)

	return &domain.AttendanceRecord{
		EmployeeID: employeeID,
		Date:       day,
		CheckIn:    &checkIn,
		CheckOut:   &checkOut,
		TotalHours: &hours,
	}
}

func GenerateRandomOTP() string {
	return fmt.Sprintf("%06d", rand.Intn(1000000))
}

// NormalizeEmail 用于比较 CSV 中的邮箱
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
