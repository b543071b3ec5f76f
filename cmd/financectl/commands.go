package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"finance-dashboard-go/internal/app"
	"finance-dashboard-go/internal/config"
	"finance-dashboard-go/internal/db"
	analyticsdomain "finance-dashboard-go/internal/domain/analytics"
	txdomain "finance-dashboard-go/internal/domain/transactions"
	userdomain "finance-dashboard-go/internal/domain/user"
	"finance-dashboard-go/internal/report"
	"finance-dashboard-go/pkg/logger"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

// environment opens configuration and the database on first use so that
// --help never needs a reachable postgres.
type environment struct {
	log      logger.Logger
	cfg      config.Config
	db       *gorm.DB
	services app.Services
}

func (e *environment) open(migrate bool) error {
	cfg, err := config.Load(e.log)
	if err != nil {
		return err
	}
	cfg.DB.AutoMigrate = cfg.DB.AutoMigrate && migrate

	dbConn, err := app.Open(cfg, e.log)
	if err != nil {
		return err
	}
	e.cfg = cfg
	e.db = dbConn
	e.services = app.NewServices(cfg, dbConn, e.log)
	return nil
}

func (e *environment) close() {
	if err := db.Close(e.db); err != nil {
		e.log.Error("db: close failed", "err", err)
	}
}

func newMigrateCmd(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(env.log)
			if err != nil {
				return err
			}
			dbConn, err := db.NewPostgres(cfg.DB, env.log)
			if err != nil {
				return err
			}
			defer db.Close(dbConn)
			return db.Migrate(dbConn, env.log)
		},
	}
}

func newSeedUsersCmd(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:   "seed-users",
		Short: "Replace the demo accounts user_001 through user_004",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := env.open(true); err != nil {
				return err
			}
			defer env.close()

			users, err := env.services.Users.Seed(cmd.Context(), userdomain.DefaultSeedUsers())
			for _, user := range users {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", user.UserID, user.Email)
			}
			if err != nil {
				return fmt.Errorf("seed users: %w", err)
			}
			return nil
		},
	}
}

type filterFlags struct {
	userID    string
	startDate string
	endDate   string
	category  string
	status    string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.userID, "user", "", "Owner user id, e.g. user_001")
	cmd.Flags().StringVar(&f.startDate, "start", "", "Start date (YYYY-MM-DD), inclusive")
	cmd.Flags().StringVar(&f.endDate, "end", "", "End date (YYYY-MM-DD), inclusive instant")
	cmd.Flags().StringVar(&f.category, "category", "", "Revenue or Expense")
	cmd.Flags().StringVar(&f.status, "status", "", "Paid, Pending, Failed or Cancelled")
	_ = cmd.MarkFlagRequired("user")
}

func (f *filterFlags) filter() (txdomain.Filter, error) {
	filter, err := f.fields()
	if err != nil {
		return filter, err
	}
	return filter, checkDateOrder(filter)
}

func (f *filterFlags) fields() (txdomain.Filter, error) {
	var filter txdomain.Filter
	var err error

	if filter.From, err = parseDate(f.startDate); err != nil {
		return filter, fmt.Errorf("--start: %w", err)
	}
	if filter.To, err = parseDate(f.endDate); err != nil {
		return filter, fmt.Errorf("--end: %w", err)
	}
	if f.category != "" {
		category := txdomain.Category(f.category)
		if !category.Valid() {
			return filter, txdomain.ErrInvalidCategory
		}
		filter.Category = &category
	}
	if f.status != "" {
		status := txdomain.Status(f.status)
		if !status.Valid() {
			return filter, txdomain.ErrInvalidStatus
		}
		filter.Status = &status
	}
	return filter, nil
}

func checkDateOrder(filter txdomain.Filter) error {
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return errors.New("--start must not be after --end")
	}
	return nil
}

type reportCmd struct {
	env       *environment
	filters   filterFlags
	timeRange string
	format    string
	lenient   bool
}

func newReportCmd(env *environment) *cobra.Command {
	rc := &reportCmd{env: env}
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print a user's analytics as JSON or CSV",
		Args:  cobra.NoArgs,
		RunE:  rc.run,
	}

	rc.filters.register(cmd)
	cmd.Flags().StringVar(&rc.timeRange, "time-range", string(analyticsdomain.TimeRangeLast30Days), "all, monthly, last30days or selectrange")
	cmd.Flags().StringVar(&rc.format, "format", "json", "Output format: json or csv")
	cmd.Flags().BoolVar(&rc.lenient, "lenient", false, "Treat an unknown --time-range as a custom range instead of failing")

	return cmd
}

func (rc *reportCmd) query() (analyticsdomain.Query, error) {
	timeRange, err := analyticsdomain.ParseTimeRange(rc.timeRange)
	if err != nil && !rc.lenient {
		return analyticsdomain.Query{}, fmt.Errorf("%w: %q", err, rc.timeRange)
	}

	filter, err := rc.filters.fields()
	if err != nil {
		return analyticsdomain.Query{}, err
	}
	if timeRange == analyticsdomain.TimeRangeSelectRange || timeRange == analyticsdomain.TimeRangeCustom {
		if err := checkDateOrder(filter); err != nil {
			return analyticsdomain.Query{}, err
		}
	}

	return analyticsdomain.Query{
		TimeRange: timeRange,
		StartDate: filter.From,
		EndDate:   filter.To,
		Category:  filter.Category,
		Status:    filter.Status,
	}, nil
}

func (rc *reportCmd) run(cmd *cobra.Command, _ []string) error {
	if rc.format != "json" && rc.format != "csv" {
		return fmt.Errorf("unsupported --format %q: must be json or csv", rc.format)
	}
	if err := rc.env.open(false); err != nil {
		return err
	}
	defer rc.env.close()

	query, err := rc.query()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
	defer cancel()

	result, err := rc.env.services.Analytics.Analytics(ctx, rc.filters.userID, query)
	if err != nil {
		return fmt.Errorf("build analytics: %w", err)
	}
	return writeReport(cmd.OutOrStdout(), rc.format, result)
}

func writeReport(w io.Writer, format string, result analyticsdomain.Result) error {
	if format == "csv" {
		return report.WriteAnalyticsCSV(w, result)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

type exportCmd struct {
	env     *environment
	filters filterFlags
}

func newExportCmd(env *environment) *cobra.Command {
	ec := &exportCmd{env: env}
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print a user's transactions as CSV",
		Args:  cobra.NoArgs,
		RunE:  ec.run,
	}
	ec.filters.register(cmd)
	return cmd
}

func (ec *exportCmd) run(cmd *cobra.Command, _ []string) error {
	if err := ec.env.open(false); err != nil {
		return err
	}
	defer ec.env.close()

	loc := ec.env.services.Analytics.Location()
	filter, err := ec.filters.filter()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
	defer cancel()

	items, err := ec.env.services.Transactions.Export(ctx, ec.filters.userID, filter)
	if err != nil {
		return err
	}
	return report.WriteTransactionsCSV(cmd.OutOrStdout(), items, loc)
}

// parseDate reads YYYY-MM-DD as UTC midnight, the same instant the HTTP
// API uses for startDate and endDate.
func parseDate(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	parsed, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
