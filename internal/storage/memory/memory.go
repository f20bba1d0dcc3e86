// Package memory is a process-local implementation of storage.Storage.
// Records vanish when the process exits; it is meant for local runs
// (storage.driver: memory) and for handler tests.
package memory

import (
	"context"
	"sync"

	"github.com/aanand-mishra/portal-api/internal/storage"
	"github.com/aanand-mishra/portal-api/internal/types"
	"github.com/google/uuid"
)

// Memory keeps both collections in slices, in insertion order.
type Memory struct {
	mu       sync.RWMutex
	students []types.Student
	admins   []types.Admin
}

// New returns an empty store.
func New() *Memory {
	return &Memory{}
}

func (m *Memory) CreateStudent(_ context.Context, student types.Student) (types.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	student.ID = uuid.NewString()
	m.students = append(m.students, student)

	return student, nil
}

func (m *Memory) GetStudents(_ context.Context) ([]types.Student, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	students := make([]types.Student, len(m.students))
	copy(students, m.students)

	return students, nil
}

func (m *Memory) UpdateStudentByID(_ context.Context, id string, patch types.Patch) (types.Student, storage.Outcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.students {
		if m.students[i].ID == id {
			m.students[i].Apply(patch)
			return m.students[i], storage.OutcomeApplied, nil
		}
	}

	return types.Student{}, storage.OutcomeNotFound, nil
}

func (m *Memory) DeleteStudentByID(_ context.Context, id string) (storage.Outcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.students {
		if m.students[i].ID == id {
			m.students = append(m.students[:i], m.students[i+1:]...)
			return storage.OutcomeApplied, nil
		}
	}

	return storage.OutcomeNotFound, nil
}

func (m *Memory) CreateAdmin(_ context.Context, admin types.Admin) (types.Admin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	admin.ID = uuid.NewString()
	m.admins = append(m.admins, admin)

	return admin, nil
}

func (m *Memory) GetAdmins(_ context.Context) ([]types.Admin, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	admins := make([]types.Admin, len(m.admins))
	copy(admins, m.admins)

	return admins, nil
}

func (m *Memory) UpdateAdminByID(_ context.Context, id string, patch types.Patch) (types.Admin, storage.Outcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.admins {
		if m.admins[i].ID == id {
			m.admins[i].Apply(patch)
			return m.admins[i], storage.OutcomeApplied, nil
		}
	}

	return types.Admin{}, storage.OutcomeNotFound, nil
}

func (m *Memory) DeleteAdminByID(_ context.Context, id string) (storage.Outcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.admins {
		if m.admins[i].ID == id {
			m.admins = append(m.admins[:i], m.admins[i+1:]...)
			return storage.OutcomeApplied, nil
		}
	}

	return storage.OutcomeNotFound, nil
}

func (m *Memory) Close(context.Context) error {
	return nil
}
