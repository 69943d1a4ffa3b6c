package seed

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/sysu-ecnc-dev/employee-portal/backend/internal/domain"
	"github.com/sysu-ecnc-dev/employee-portal/backend/internal/utils"
)

// 导入员工花名册时必须存在的列
var requiredHeaders = []string{"姓", "名", "邮箱"}

// EmployeeCreator 是导入花名册需要的存储能力
type EmployeeCreator interface {
	CreateEmployee(e *domain.Employee) error
}

type ImportResult struct {
	Created int
	Skipped int
}

// ImportEmployees 从 CSV 花名册导入员工，已存在的邮箱会被跳过
//
// 可选列：电话、部门、职位、入职日期、基本工资、津贴、扣款、假期额度、状态。
func ImportEmployees(store EmployeeCreator, rd io.Reader, loc *time.Location) (ImportResult, error) {
	result := ImportResult{}
	reader := csv.NewReader(rd)

	// 读取表头
	headers, err := reader.Read()
	if err != nil {
		return result, fmt.Errorf("读取表头失败: %w", err)
	}
	for i := range headers {
		headers[i] = strings.TrimSpace(strings.TrimPrefix(headers[i], "\ufeff"))
	}
	for _, key := range requiredHeaders {
		if !slices.Contains(headers, key) {
			return result, fmt.Errorf("没有找到 %s 列", key)
		}
	}

	seen := make(map[string]bool)
	line := 1
	for {
		row, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return result, fmt.Errorf("读取第 %d 行失败: %w", line+1, err)
		}
		line++

		record := make(map[string]string, len(headers))
		for i, value := range row {
			if i < len(headers) {
				record[headers[i]] = strings.TrimSpace(value)
			}
		}

		email := utils.NormalizeEmail(record["邮箱"])
		if email == "" || seen[email] {
			slog.Warn("跳过邮箱为空或重复的行", "line", line)
			result.Skipped++
			continue
		}
		seen[email] = true

		employee, err := employeeFromRecord(record, loc)
		if err != nil {
			slog.Warn("跳过格式错误的行", "line", line, "error", err)
			result.Skipped++
			continue
		}
		employee.Email = email

		if err := store.CreateEmployee(employee); err != nil {
			switch {
			case errors.Is(err, domain.ErrEmailExists):
				result.Skipped++
				continue
			default:
				return result, err
			}
		}
		result.Created++
	}

	return result, nil
}

func employeeFromRecord(record map[string]string, loc *time.Location) (*domain.Employee, error) {
	employee := &domain.Employee{
		FirstName:  record["名"],
		LastName:   record["姓"],
		Phone:      record["电话"],
		Department: record["部门"],
		Role:       record["职位"],
		Status:     domain.EmployeeActive,
	}

	if v := record["入职日期"]; v != "" {
		t, err := domain.ParseDate(v, loc)
		if err != nil {
			return nil, fmt.Errorf("入职日期格式错误: %s", v)
		}
		employee.DateOfJoining = &t
	}

	amounts := []struct {
		header string
		dst    *float64
	}{
		{"基本工资", &employee.Salary.Basic},
		{"津贴", &employee.Salary.Allowances},
		{"扣款", &employee.Salary.Deductions},
	}
	for _, a := range amounts {
		if v := record[a.header]; v != "" {
			n, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, fmt.Errorf("%s格式错误: %s", a.header, v)
			}
			*a.dst = n
		}
	}

	if v := record["假期额度"]; v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("假期额度格式错误: %s", v)
		}
		employee.LeaveAllocation = &n
	}

	switch v := domain.EmployeeStatus(record["状态"]); v {
	case "":
	case domain.EmployeeActive, domain.EmployeeInactive:
		employee.Status = v
	default:
		return nil, fmt.Errorf("无效的员工状态: %s", v)
	}

	return employee, nil
}
