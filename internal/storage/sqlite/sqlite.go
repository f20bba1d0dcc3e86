// Package sqlite provides a SQLite-backed implementation of the
// storage.Storage interface using Go's standard database/sql package.
//
// Each record kind gets its own table. Identifiers are random UUIDs
// generated on insert, so they look the same whichever collection they
// come from and cannot be guessed from insertion order.
//
// The blank import below registers the sqlite3 driver with database/sql.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/aanand-mishra/portal-api/internal/storage"
	"github.com/aanand-mishra/portal-api/internal/types"
	"github.com/google/uuid"

	// Blank import: side-effect only (registers the "sqlite3" driver).
	_ "github.com/mattn/go-sqlite3"
)

// SQLite is the concrete implementation of storage.Storage.
// A single *sql.DB is a connection pool and is safe for concurrent use.
type SQLite struct {
	Db *sql.DB
}

// Column whitelists. Patch keys are mapped through these so a request can
// never inject a column name into the UPDATE statement.
var (
	studentColumns = map[string]string{
		"studentID": "student_id",
		"firstName": "first_name",
		"lastName":  "last_name",
		"section":   "section",
		"file":      "file",
	}
	adminColumns = map[string]string{
		"adminID":    "admin_id",
		"firstName":  "first_name",
		"lastName":   "last_name",
		"department": "department",
		"file":       "file",
	}
)

// New opens the SQLite database at path and creates both tables if they
// do not already exist.
func New(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}

	// CREATE TABLE IF NOT EXISTS is idempotent and runs on every startup.
	// Every field column is nullable: a record may be created with any
	// subset of its fields.
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS students (
			id         TEXT PRIMARY KEY,
			student_id TEXT,
			first_name TEXT,
			last_name  TEXT,
			section    TEXT,
			file       TEXT
		);
		CREATE TABLE IF NOT EXISTS admins (
			id         TEXT PRIMARY KEY,
			admin_id   TEXT,
			first_name TEXT,
			last_name  TEXT,
			department TEXT,
			file       TEXT
		)
	`)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: create tables: %w", err)
	}

	return &SQLite{Db: db}, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Students
// ─────────────────────────────────────────────────────────────────────────────

func (s *SQLite) CreateStudent(ctx context.Context, student types.Student) (types.Student, error) {
	student.ID = uuid.NewString()

	_, err := s.Db.ExecContext(ctx,
		"INSERT INTO students (id, student_id, first_name, last_name, section, file) VALUES (?, ?, ?, ?, ?, ?)",
		student.ID, student.StudentID, student.FirstName, student.LastName, student.Section, student.File,
	)
	if err != nil {
		return types.Student{}, fmt.Errorf("CreateStudent: exec: %w", err)
	}

	return student, nil
}

func (s *SQLite) GetStudents(ctx context.Context) ([]types.Student, error) {
	rows, err := s.Db.QueryContext(ctx,
		"SELECT id, student_id, first_name, last_name, section, file FROM students ORDER BY rowid",
	)
	if err != nil {
		return nil, fmt.Errorf("GetStudents: query: %w", err)
	}
	defer rows.Close()

	// Returning [] instead of null in JSON is better API behaviour.
	students := make([]types.Student, 0)

	for rows.Next() {
		var student types.Student
		if err := rows.Scan(
			&student.ID,
			&student.StudentID,
			&student.FirstName,
			&student.LastName,
			&student.Section,
			&student.File,
		); err != nil {
			return nil, fmt.Errorf("GetStudents: scan row: %w", err)
		}

		students = append(students, student)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetStudents: rows iteration: %w", err)
	}

	return students, nil
}

func (s *SQLite) getStudentByID(ctx context.Context, id string) (types.Student, error) {
	var student types.Student

	err := s.Db.QueryRowContext(ctx,
		"SELECT id, student_id, first_name, last_name, section, file FROM students WHERE id = ? LIMIT 1", id,
	).Scan(
		&student.ID,
		&student.StudentID,
		&student.FirstName,
		&student.LastName,
		&student.Section,
		&student.File,
	)

	return student, err
}

// UpdateStudentByID writes only the patched columns, then re-fetches the
// row so the caller sees exactly what is stored.
func (s *SQLite) UpdateStudentByID(ctx context.Context, id string, patch types.Patch) (types.Student, storage.Outcome, error) {
	if err := s.patch(ctx, "students", studentColumns, id, patch); err != nil {
		return types.Student{}, storage.OutcomeFault, fmt.Errorf("UpdateStudentByID: %w", err)
	}

	student, err := s.getStudentByID(ctx, id)
	if err == sql.ErrNoRows {
		return types.Student{}, storage.OutcomeNotFound, nil
	}
	if err != nil {
		return types.Student{}, storage.OutcomeFault, fmt.Errorf("UpdateStudentByID: scan: %w", err)
	}

	return student, storage.OutcomeApplied, nil
}

func (s *SQLite) DeleteStudentByID(ctx context.Context, id string) (storage.Outcome, error) {
	return s.delete(ctx, "students", id)
}

// ─────────────────────────────────────────────────────────────────────────────
// Admins
// ─────────────────────────────────────────────────────────────────────────────

func (s *SQLite) CreateAdmin(ctx context.Context, admin types.Admin) (types.Admin, error) {
	admin.ID = uuid.NewString()

	_, err := s.Db.ExecContext(ctx,
		"INSERT INTO admins (id, admin_id, first_name, last_name, department, file) VALUES (?, ?, ?, ?, ?, ?)",
		admin.ID, admin.AdminID, admin.FirstName, admin.LastName, admin.Department, admin.File,
	)
	if err != nil {
		return types.Admin{}, fmt.Errorf("CreateAdmin: exec: %w", err)
	}

	return admin, nil
}

func (s *SQLite) GetAdmins(ctx context.Context) ([]types.Admin, error) {
	rows, err := s.Db.QueryContext(ctx,
		"SELECT id, admin_id, first_name, last_name, department, file FROM admins ORDER BY rowid",
	)
	if err != nil {
		return nil, fmt.Errorf("GetAdmins: query: %w", err)
	}
	defer rows.Close()

	admins := make([]types.Admin, 0)

	for rows.Next() {
		var admin types.Admin
		if err := rows.Scan(
			&admin.ID,
			&admin.AdminID,
			&admin.FirstName,
			&admin.LastName,
			&admin.Department,
			&admin.File,
		); err != nil {
			return nil, fmt.Errorf("GetAdmins: scan row: %w", err)
		}

		admins = append(admins, admin)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetAdmins: rows iteration: %w", err)
	}

	return admins, nil
}

func (s *SQLite) getAdminByID(ctx context.Context, id string) (types.Admin, error) {
	var admin types.Admin

	err := s.Db.QueryRowContext(ctx,
		"SELECT id, admin_id, first_name, last_name, department, file FROM admins WHERE id = ? LIMIT 1", id,
	).Scan(
		&admin.ID,
		&admin.AdminID,
		&admin.FirstName,
		&admin.LastName,
		&admin.Department,
		&admin.File,
	)

	return admin, err
}

func (s *SQLite) UpdateAdminByID(ctx context.Context, id string, patch types.Patch) (types.Admin, storage.Outcome, error) {
	if err := s.patch(ctx, "admins", adminColumns, id, patch); err != nil {
		return types.Admin{}, storage.OutcomeFault, fmt.Errorf("UpdateAdminByID: %w", err)
	}

	admin, err := s.getAdminByID(ctx, id)
	if err == sql.ErrNoRows {
		return types.Admin{}, storage.OutcomeNotFound, nil
	}
	if err != nil {
		return types.Admin{}, storage.OutcomeFault, fmt.Errorf("UpdateAdminByID: scan: %w", err)
	}

	return admin, storage.OutcomeApplied, nil
}

func (s *SQLite) DeleteAdminByID(ctx context.Context, id string) (storage.Outcome, error) {
	return s.delete(ctx, "admins", id)
}

// ─────────────────────────────────────────────────────────────────────────────
// Shared helpers. table is always one of our two constants, never input.
// ─────────────────────────────────────────────────────────────────────────────

// patch runs "UPDATE <table> SET col = ?, ... WHERE id = ?" for the
// patched columns. An empty patch is a no-op.
func (s *SQLite) patch(ctx context.Context, table string, columns map[string]string, id string, patch types.Patch) error {
	sets := make([]string, 0, len(patch))
	args := make([]any, 0, len(patch)+1)

	for field, value := range patch {
		column, ok := columns[field]
		if !ok {
			continue
		}
		sets = append(sets, column+" = ?")
		args = append(args, value)
	}

	if len(sets) == 0 {
		return nil
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", table, strings.Join(sets, ", "))

	if _, err := s.Db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("exec: %w", err)
	}

	return nil
}

func (s *SQLite) delete(ctx context.Context, table, id string) (storage.Outcome, error) {
	result, err := s.Db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = ?", table), id)
	if err != nil {
		return storage.OutcomeFault, fmt.Errorf("delete from %s: exec: %w", table, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return storage.OutcomeFault, fmt.Errorf("delete from %s: rows affected: %w", table, err)
	}

	if affected == 0 {
		return storage.OutcomeNotFound, nil
	}

	return storage.OutcomeApplied, nil
}

// Close closes the underlying connection pool.
func (s *SQLite) Close(context.Context) error {
	return s.Db.Close()
}
