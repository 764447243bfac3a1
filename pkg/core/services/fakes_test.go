package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/crewcall-tv/crewcall/pkg/core/model"
	"github.com/crewcall-tv/crewcall/pkg/db"
)

// memoryStore is an in-memory implementation of every pkg/db interface,
// shared by the service tests. Guarded by a mutex because the
// reconciler's writes run concurrently.
type memoryStore struct {
	mu            sync.Mutex
	seq           int
	productions   map[string]model.Production
	requirements  map[string][]model.Requirement
	users         map[string]model.User
	assignments   map[string]model.Assignment
	notifications map[string]model.Notification

	insertAssignmentErr error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		productions:   map[string]model.Production{},
		requirements:  map[string][]model.Requirement{},
		users:         map[string]model.User{},
		assignments:   map[string]model.Assignment{},
		notifications: map[string]model.Notification{},
	}
}

func (m *memoryStore) nextID(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s-%d", prefix, m.seq)
}

func (m *memoryStore) addUser(user model.User) model.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user.ID == "" {
		user.ID = m.nextID("user")
	}
	m.users[user.ID] = user
	return user
}

func (m *memoryStore) GetProduction(ctx context.Context, id string) (*model.Production, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	production, ok := m.productions[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return &production, nil
}

func (m *memoryStore) ListProductions(ctx context.Context) ([]model.Production, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []model.Production
	for _, production := range m.productions {
		all = append(all, production)
	}
	return all, nil
}

func (m *memoryStore) InsertProduction(ctx context.Context, production *model.Production) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if production.ID == "" {
		production.ID = m.nextID("prod")
	}
	m.productions[production.ID] = *production
	return nil
}

func (m *memoryStore) UpdateProductionStatus(ctx context.Context, id string, status model.ProductionStatus, actorID string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	production, ok := m.productions[id]
	if !ok {
		return db.ErrNotFound
	}
	production.Status = status
	production.UpdatedAt = at
	if status == model.StatusConfirmed {
		production.ConfirmedBy = actorID
	}
	m.productions[id] = production
	return nil
}

func (m *memoryStore) GetRequirementsByProduction(ctx context.Context, productionID string) ([]model.Requirement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.requirements[productionID], nil
}

func (m *memoryStore) InsertRequirements(ctx context.Context, requirements []model.Requirement) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, requirement := range requirements {
		if requirement.ID == "" {
			requirement.ID = m.nextID("req")
		}
		m.requirements[requirement.ProductionID] = append(m.requirements[requirement.ProductionID], requirement)
	}
	return nil
}

func (m *memoryStore) GetUser(ctx context.Context, id string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return &user, nil
}

func (m *memoryStore) ListOperatorsBySpecialization(ctx context.Context, specialization model.CrewRole) ([]model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var operators []model.User
	for _, user := range m.users {
		if user.Role == model.RoleOperator && user.Specialization == specialization {
			operators = append(operators, user)
		}
	}
	return operators, nil
}

func (m *memoryStore) ListUsersByRole(ctx context.Context, role model.UserRole) ([]model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var matched []model.User
	for _, user := range m.users {
		if user.Role == role {
			matched = append(matched, user)
		}
	}
	return matched, nil
}

func (m *memoryStore) SetPushToken(ctx context.Context, userID, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[userID]
	if !ok {
		return db.ErrNotFound
	}
	user.PushToken = token
	m.users[userID] = user
	return nil
}

func (m *memoryStore) GetAssignment(ctx context.Context, id string) (*model.Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	assignment, ok := m.assignments[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return &assignment, nil
}

func (m *memoryStore) GetAssignmentsByProduction(ctx context.Context, productionID string) ([]model.Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var matched []model.Assignment
	for _, assignment := range m.assignments {
		if assignment.ProductionID == productionID {
			matched = append(matched, assignment)
		}
	}
	return matched, nil
}

func (m *memoryStore) GetAssignmentsByUser(ctx context.Context, userID string) ([]model.Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var matched []model.Assignment
	for _, assignment := range m.assignments {
		if assignment.UserID == userID {
			matched = append(matched, assignment)
		}
	}
	return matched, nil
}

func (m *memoryStore) InsertAssignment(ctx context.Context, assignment *model.Assignment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertAssignmentErr != nil {
		return m.insertAssignmentErr
	}
	if assignment.ID == "" {
		assignment.ID = m.nextID("assign")
	}
	m.assignments[assignment.ID] = *assignment
	return nil
}

func (m *memoryStore) DeleteAssignment(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.assignments[id]; !ok {
		return db.ErrNotFound
	}
	delete(m.assignments, id)
	return nil
}

func (m *memoryStore) UpdateAssignmentStatus(ctx context.Context, id string, status model.AssignmentStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	assignment, ok := m.assignments[id]
	if !ok {
		return db.ErrNotFound
	}
	assignment.Status = status
	m.assignments[id] = assignment
	return nil
}

func (m *memoryStore) InsertNotification(ctx context.Context, notification *model.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if notification.ID == "" {
		notification.ID = m.nextID("notif")
	}
	m.notifications[notification.ID] = *notification
	return nil
}

func (m *memoryStore) ListNotificationsForUser(ctx context.Context, userID string) ([]model.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var matched []model.Notification
	for _, notification := range m.notifications {
		if notification.UserID == userID {
			matched = append(matched, notification)
		}
	}
	return matched, nil
}

func (m *memoryStore) MarkNotificationRead(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	notification, ok := m.notifications[id]
	if !ok {
		return db.ErrNotFound
	}
	notification.Read = true
	m.notifications[id] = notification
	return nil
}

// notificationsOfType filters a user's notifications by type, for
// assertions.
func (m *memoryStore) notificationsOfType(userID string, notificationType model.NotificationType) []model.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	var matched []model.Notification
	for _, notification := range m.notifications {
		if notification.UserID == userID && notification.Type == notificationType {
			matched = append(matched, notification)
		}
	}
	return matched
}
