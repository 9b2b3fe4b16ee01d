package service

import (
	"context"
	"sync"
	"time"

	"carelink/api/internal/config"
	"carelink/api/internal/models"
	"carelink/api/internal/repository"
	"carelink/api/internal/security"
)

type memUserStore struct {
	mu    sync.Mutex
	users map[string]models.User // keyed by id
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: map[string]models.User{}}
}

func (m *memUserStore) Create(_ context.Context, user models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
	return nil
}

func (m *memUserStore) ExistsByEmail(_ context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *memUserStore) FindByEmail(_ context.Context, email string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, repository.ErrUserNotFound
}

func (m *memUserStore) GetByID(_ context.Context, id string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return models.User{}, repository.ErrUserNotFound
	}
	return user, nil
}

func (m *memUserStore) ListByRole(_ context.Context, role models.UserRole) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.User
	for _, user := range m.users {
		if user.Role == role {
			out = append(out, user)
		}
	}
	return out, nil
}

type memSessionStore struct {
	mu       sync.Mutex
	sessions map[string]models.Session
	extends  int
}

func newMemSessionStore() *memSessionStore {
	return &memSessionStore{sessions: map[string]models.Session{}}
}

func (m *memSessionStore) Create(_ context.Context, session models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.ID] = session
	return nil
}

func (m *memSessionStore) GetByID(_ context.Context, id string) (models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[id]
	if !ok {
		return models.Session{}, repository.ErrSessionNotFound
	}
	return session, nil
}

func (m *memSessionStore) Extend(_ context.Context, id string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[id]
	if !ok {
		return repository.ErrSessionNotFound
	}
	session.ExpiresAt = expiresAt
	m.sessions[id] = session
	m.extends++
	return nil
}

func (m *memSessionStore) DeleteByID(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *memSessionStore) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *memSessionStore) only() models.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, session := range m.sessions {
		return session
	}
	return models.Session{}
}

type memVerificationStore struct {
	mu    sync.Mutex
	codes []models.VerificationCode
}

func (m *memVerificationStore) Create(_ context.Context, code models.VerificationCode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.codes = append(m.codes, code)
	return nil
}

type memAssignmentStore struct {
	mu    sync.Mutex
	links map[[2]string]struct{} // doctor, patient
	users *memUserStore
}

func newMemAssignmentStore(users *memUserStore) *memAssignmentStore {
	return &memAssignmentStore{links: map[[2]string]struct{}{}, users: users}
}

func (m *memAssignmentStore) Upsert(_ context.Context, doctorID, patientID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.links[[2]string{doctorID, patientID}] = struct{}{}
	return nil
}

func (m *memAssignmentStore) DoctorFor(ctx context.Context, patientID string) (models.User, error) {
	m.mu.Lock()
	var doctorID string
	for link := range m.links {
		if link[1] == patientID {
			doctorID = link[0]
			break
		}
	}
	m.mu.Unlock()

	if doctorID == "" {
		return models.User{}, repository.ErrNoDoctorAssigned
	}
	return m.users.GetByID(ctx, doctorID)
}

func (m *memAssignmentStore) ListPatients(ctx context.Context, doctorID string) ([]models.User, error) {
	m.mu.Lock()
	links := make([][2]string, 0, len(m.links))
	for link := range m.links {
		links = append(links, link)
	}
	m.mu.Unlock()

	var patients []models.User
	for _, link := range links {
		if link[0] != doctorID {
			continue
		}
		user, err := m.users.GetByID(ctx, link[1])
		if err != nil {
			return nil, err
		}
		patients = append(patients, user)
	}
	return patients, nil
}

func testSecurityConfig() config.SecurityConfig {
	return config.SecurityConfig{
		JWTAccessSecret:  "access-secret",
		JWTRefreshSecret: "refresh-secret",
		JWTAccessTTL:     15 * time.Minute,
		JWTRefreshTTL:    30 * 24 * time.Hour,
		SessionTTL:       31 * 24 * time.Hour,
		RotationWindow:   24 * time.Hour,
		VerificationTTL:  183 * 24 * time.Hour,
	}
}

func testCodec() *security.TokenCodec {
	return security.NewTokenCodec(testSecurityConfig())
}
