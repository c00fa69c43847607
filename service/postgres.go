package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/aaraaapps/aaraa.app/config"
	"github.com/aaraaapps/aaraa.app/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

// PostgresStore is the Store backed by the hosted relational database
type PostgresStore struct {
	pool *pgxpool.Pool
}

var _ Store = (*PostgresStore)(nil)

func NewPostgresStore(ctx context.Context, cfg *config.DatabaseConfig) (*PostgresStore, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("database url is not set")
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database url: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	s := &PostgresStore{pool: pool}
	if err := s.initSchema(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}

// Ping checks the connection for the health endpoint
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PostgresStore) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS profiles (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		designation TEXT NOT NULL DEFAULT '',
		department TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL DEFAULT 'USER',
		dashboard TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS submissions (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		employee_name TEXT NOT NULL,
		type TEXT NOT NULL,
		title TEXT NOT NULL,
		amount DOUBLE PRECISION,
		url TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'PENDING',
		reason TEXT NOT NULL DEFAULT '',
		decided_by TEXT NOT NULL DEFAULT '',
		department TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);

	CREATE TABLE IF NOT EXISTS boq_items (
		id TEXT PRIMARY KEY,
		item_name TEXT NOT NULL,
		unit TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS boq_units (
		id TEXT PRIMARY KEY,
		unit_name TEXT NOT NULL UNIQUE
	);

	CREATE TABLE IF NOT EXISTS projects (
		id TEXT PRIMARY KEY,
		project_code TEXT NOT NULL UNIQUE,
		project_name TEXT NOT NULL,
		created_by TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		payload JSONB NOT NULL
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_profiles_lower_id ON profiles(lower(id));
	CREATE INDEX IF NOT EXISTS idx_submissions_employee ON submissions(lower(employee_id));
	CREATE INDEX IF NOT EXISTS idx_submissions_status ON submissions(status);
	`
	_, err := s.pool.Exec(ctx, schema)
	return err
}

// SeedEmployees inserts the given profiles, leaving existing rows untouched.
// IDs are unique regardless of case.
func (s *PostgresStore) SeedEmployees(ctx context.Context, employees []model.Employee) error {
	batch := &pgx.Batch{}
	for _, e := range employees {
		batch.Queue(
			`INSERT INTO profiles (id, name, designation, department, role, dashboard)
			 VALUES ($1, $2, $3, $4, $5, $6) ON CONFLICT DO NOTHING`,
			e.ID, e.Name, e.Designation, e.Department, string(e.Role), e.Dashboard,
		)
	}
	return s.pool.SendBatch(ctx, batch).Close()
}

func (s *PostgresStore) FindEmployee(ctx context.Context, id string) (*model.Employee, error) {
	var e model.Employee
	var role string
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, designation, department, role, dashboard
		 FROM profiles WHERE lower(id) = lower($1)`,
		strings.TrimSpace(id),
	).Scan(&e.ID, &e.Name, &e.Designation, &e.Department, &role, &e.Dashboard)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrEmployeeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up employee: %w", err)
	}
	e.Role = model.Role(role)
	return &e, nil
}

func (s *PostgresStore) ListEmployees(ctx context.Context) ([]model.Employee, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, designation, department, role, dashboard FROM profiles ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var employees []model.Employee
	for rows.Next() {
		var e model.Employee
		var role string
		if err := rows.Scan(&e.ID, &e.Name, &e.Designation, &e.Department, &role, &e.Dashboard); err != nil {
			return nil, err
		}
		e.Role = model.Role(role)
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

const submissionColumns = `id, employee_id, employee_name, type, title, amount, url, status, reason, decided_by, department, created_at, updated_at`

func scanSubmission(row pgx.Row) (*model.Submission, error) {
	var sub model.Submission
	var typ, status string
	err := row.Scan(&sub.ID, &sub.EmployeeID, &sub.EmployeeName, &typ, &sub.Title, &sub.Amount,
		&sub.URL, &status, &sub.Reason, &sub.DecidedBy, &sub.Department, &sub.CreatedAt, &sub.UpdatedAt)
	if err != nil {
		return nil, err
	}
	sub.Type = model.SubmissionType(typ)
	sub.Status = model.SubmissionStatus(status)
	return &sub, nil
}

func (s *PostgresStore) CreateSubmission(ctx context.Context, sub *model.Submission) error {
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	err := s.pool.QueryRow(ctx,
		`INSERT INTO submissions (id, employee_id, employee_name, type, title, amount, url, status, department)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING created_at, updated_at`,
		sub.ID, sub.EmployeeID, sub.EmployeeName, string(sub.Type), sub.Title, sub.Amount,
		sub.URL, string(sub.Status), sub.Department,
	).Scan(&sub.CreatedAt, &sub.UpdatedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("submission %s: %w", sub.ID, ErrDuplicate)
	}
	if err != nil {
		return fmt.Errorf("failed to insert submission: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetSubmission(ctx context.Context, id string) (*model.Submission, error) {
	sub, err := scanSubmission(s.pool.QueryRow(ctx,
		`SELECT `+submissionColumns+` FROM submissions WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load submission: %w", err)
	}
	return sub, nil
}

func (s *PostgresStore) ListSubmissions(ctx context.Context, f SubmissionFilter) ([]*model.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions WHERE true`
	var args []any
	if f.EmployeeID != "" {
		args = append(args, f.EmployeeID)
		query += fmt.Sprintf(" AND lower(employee_id) = lower($%d)", len(args))
	}
	if f.Department != "" {
		args = append(args, f.Department)
		query += fmt.Sprintf(" AND department = $%d", len(args))
	}
	if len(f.Statuses) > 0 {
		args = append(args, statusStrings(f.Statuses))
		query += fmt.Sprintf(" AND status = ANY($%d)", len(args))
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	defer rows.Close()

	result := make([]*model.Submission, 0)
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, sub)
	}
	return result, rows.Err()
}

// TransitionSubmission performs a compare-and-set on status so that
// concurrent decisions cannot un-approve a submission.
func (s *PostgresStore) TransitionSubmission(ctx context.Context, id string, to model.SubmissionStatus, reason, decidedBy string) (*model.Submission, error) {
	var from []model.SubmissionStatus
	for _, st := range []model.SubmissionStatus{model.StatusPending, model.StatusEscalated} {
		if st.CanTransition(to) {
			from = append(from, st)
		}
	}

	sub, err := scanSubmission(s.pool.QueryRow(ctx,
		`UPDATE submissions SET status = $2, reason = $3, decided_by = $4, updated_at = now()
		 WHERE id = $1 AND status = ANY($5)
		 RETURNING `+submissionColumns,
		id, string(to), reason, decidedBy, statusStrings(from),
	))
	if err == nil {
		return sub, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to update submission: %w", err)
	}

	current, getErr := s.GetSubmission(ctx, id)
	if getErr != nil {
		return nil, getErr
	}
	return nil, fmt.Errorf("%s %s -> %s: %w", id, current.Status, to, ErrInvalidTransition)
}

func (s *PostgresStore) ListBOQItems(ctx context.Context) ([]model.BOQItem, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, item_name, unit FROM boq_items ORDER BY item_name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list boq items: %w", err)
	}
	defer rows.Close()

	items := make([]model.BOQItem, 0)
	for rows.Next() {
		var item model.BOQItem
		if err := rows.Scan(&item.ID, &item.ItemName, &item.Unit); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (s *PostgresStore) CreateBOQItem(ctx context.Context, name, unit string) (model.BOQItem, error) {
	name, unit = strings.TrimSpace(name), strings.TrimSpace(unit)
	if name == "" || unit == "" {
		return model.BOQItem{}, fmt.Errorf("item name and unit are required: %w", ErrInvalidSubmission)
	}
	item := model.BOQItem{ID: uuid.NewString(), ItemName: name, Unit: unit}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO boq_items (id, item_name, unit) VALUES ($1, $2, $3)`,
		item.ID, item.ItemName, item.Unit)
	if err != nil {
		return model.BOQItem{}, fmt.Errorf("failed to insert boq item: %w", err)
	}
	return item, nil
}

func (s *PostgresStore) ListUnits(ctx context.Context) ([]model.BOQUnit, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, unit_name FROM boq_units ORDER BY unit_name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list units: %w", err)
	}
	defer rows.Close()

	units := make([]model.BOQUnit, 0)
	for rows.Next() {
		var u model.BOQUnit
		if err := rows.Scan(&u.ID, &u.UnitName); err != nil {
			return nil, err
		}
		units = append(units, u)
	}
	return units, rows.Err()
}

func (s *PostgresStore) CreateUnit(ctx context.Context, name string) (model.BOQUnit, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.BOQUnit{}, fmt.Errorf("unit name is required: %w", ErrInvalidSubmission)
	}
	unit := model.BOQUnit{ID: uuid.NewString(), UnitName: name}
	_, err := s.pool.Exec(ctx, `INSERT INTO boq_units (id, unit_name) VALUES ($1, $2)`, unit.ID, unit.UnitName)
	if isUniqueViolation(err) {
		return model.BOQUnit{}, fmt.Errorf("unit %q: %w", name, ErrDuplicate)
	}
	if err != nil {
		return model.BOQUnit{}, fmt.Errorf("failed to insert unit: %w", err)
	}
	return unit, nil
}

func (s *PostgresStore) CreateProject(ctx context.Context, p *model.Project) error {
	p.ID = uuid.NewString()
	payload, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode project: %w", err)
	}

	err = s.pool.QueryRow(ctx,
		`INSERT INTO projects (id, project_code, project_name, created_by, payload)
		 VALUES ($1, $2, $3, $4, $5) RETURNING created_at`,
		p.ID, p.ProjectCode, p.ProjectName, p.CreatedBy, payload,
	).Scan(&p.CreatedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("project %s: %w", p.ProjectCode, ErrDuplicate)
	}
	if err != nil {
		return fmt.Errorf("failed to insert project: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListProjects(ctx context.Context) ([]*model.Project, error) {
	rows, err := s.pool.Query(ctx, `SELECT payload, created_at FROM projects ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	projects := make([]*model.Project, 0)
	for rows.Next() {
		var payload []byte
		var p model.Project
		if err := rows.Scan(&payload, &p.CreatedAt); err != nil {
			return nil, err
		}
		createdAt := p.CreatedAt
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, fmt.Errorf("failed to decode project: %w", err)
		}
		p.CreatedAt = createdAt
		projects = append(projects, &p)
	}
	return projects, rows.Err()
}

func statusStrings(statuses []model.SubmissionStatus) []string {
	out := make([]string, len(statuses))
	for i, st := range statuses {
		out[i] = string(st)
	}
	return out
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
