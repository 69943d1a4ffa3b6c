package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/sysu-ecnc-dev/employee-portal/backend/internal/config"
	"github.com/sysu-ecnc-dev/employee-portal/backend/internal/domain"
	"github.com/sysu-ecnc-dev/employee-portal/backend/internal/repository"
	"github.com/sysu-ecnc-dev/employee-portal/backend/internal/seed"
	"github.com/sysu-ecnc-dev/employee-portal/backend/internal/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int
	var file string

	flag.IntVar(&op, "op", 0, "要执行的操作 (1: 插入随机用户, 2: 插入随机员工, 3: 插入随机请假申请, 4: 插入最近 n 天的考勤, 5: 从 CSV 导入员工花名册)")
	flag.IntVar(&n, "n", 5, "要插入的记录数量或天数")
	flag.StringVar(&file, "file", "./internal/seed/data/employees.csv", "员工花名册 CSV 文件")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// 读取配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		os.Exit(1)
	}

	loc, err := cfg.Location()
	if err != nil {
		logger.Error("无法加载时区", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 创建数据库连接池
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("无法创建数据库连接池", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open 只是创建数据库连接池对象，并不会立即连接到数据库，因此需要显式地 ping 一下
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("无法连接到数据库", "error", err)
		return
	}

	// 创建 repository
	repo := repository.NewRepository(cfg, dbpool)

	// 执行操作
	switch op {
	case 0:
		slog.Error("未指定操作")
	case 1:
		if n <= 0 {
			slog.Error("请输入合法的用户数量")
			return
		}

		cnt := 0
		for i := 0; i < n; i++ {
			user, err := utils.GenerateRandomUser(cfg.Seed.User.Password, cfg.Email.UserDomain)
			if err != nil {
				slog.Error("无法生成随机用户", slog.String("error", err.Error()))
				continue
			}

			if err := repo.CreateUser(user); err != nil {
				slog.Error("无法插入用户", slog.String("error", err.Error()))
				continue
			}

			cnt++
		}

		slog.Info("插入用户成功", slog.Int("count", cnt))
	case 2:
		if n <= 0 {
			slog.Error("请输入合法的员工数量")
			return
		}

		cnt := 0
		for i := 0; i < n; i++ {
			employee := utils.GenerateRandomEmployee(cfg.Email.UserDomain)
			if err := repo.CreateEmployee(employee); err != nil {
				slog.Error("无法插入员工", slog.String("error", err.Error()))
				continue
			}

			cnt++
		}

		slog.Info("插入员工成功", slog.Int("count", cnt))
	case 3:
		if n <= 0 {
			slog.Error("请输入合法的请假申请数量")
			return
		}

		employees, err := repo.GetAllEmployees()
		if err != nil {
			slog.Error("无法获取所有员工", slog.String("error", err.Error()))
			return
		}
		users, err := repo.GetAllUsers()
		if err != nil {
			slog.Error("无法获取所有用户", slog.String("error", err.Error()))
			return
		}
		if len(employees) == 0 || len(users) == 0 {
			slog.Error("请先插入员工和用户")
			return
		}

		cnt := 0
		for i := 0; i < n; i++ {
			employee := employees[rand.Intn(len(employees))]
			applicant := users[rand.Intn(len(users))]

			leave := utils.GenerateRandomLeave(employee.ID, applicant.ID)
			if err := repo.CreateLeave(leave); err != nil {
				slog.Error("无法插入请假申请", slog.String("error", err.Error()))
				continue
			}

			cnt++
		}

		slog.Info("插入请假申请成功", slog.Int("count", cnt))
	case 4:
		if n <= 0 {
			slog.Error("请输入合法的天数")
			return
		}

		employees, err := repo.GetAllEmployees()
		if err != nil {
			slog.Error("无法获取所有员工", slog.String("error", err.Error()))
			return
		}

		today := domain.StartOfDay(time.Now(), loc)
		cnt := 0
		for d := 1; d <= n; d++ {
			day := today.AddDate(0, 0, -d)
			for _, employee := range employees {
				// 大约十分之一的员工当天缺勤
				if employee.Status != domain.EmployeeActive || rand.Intn(10) == 0 {
					continue
				}

				rec := utils.GenerateRandomAttendance(employee.ID, day)
				if err := repo.CreateAttendance(rec); err != nil {
					switch {
					case errors.Is(err, domain.ErrDuplicateCheckIn):
						// 已经有当天的记录
					default:
						slog.Error("无法插入考勤记录", slog.String("error", err.Error()))
					}
					continue
				}

				cnt++
			}
		}

		slog.Info("插入考勤记录成功", slog.Int("count", cnt))
	case 5:
		f, err := os.Open(file)
		if err != nil {
			slog.Error("打开文件失败", slog.String("error", err.Error()))
			return
		}
		defer f.Close()

		result, err := seed.ImportEmployees(repo, f, loc)
		if err != nil {
			slog.Error("导入员工失败", slog.String("error", err.Error()))
			return
		}

		slog.Info("导入员工完成", slog.Int("created", result.Created), slog.Int("skipped", result.Skipped))
	default:
		slog.Error("指定的操作非法")
	}
}
