package usecase_test

import (
	"context"
	"time"

	"candidate-portal/internal/domain"
	"candidate-portal/pkg/email"

	"github.com/stretchr/testify/mock"
)

// ctxFor returns a context carrying an authenticated session for userID.
func ctxFor(userID string, role domain.Role) context.Context {
	return domain.WithSession(context.Background(), &domain.Session{UserID: userID, Role: role, Token: "tok-" + userID})
}

type MockCompletionFetcher struct {
	mock.Mock
}

func (m *MockCompletionFetcher) GetCompletion(ctx context.Context, userID string) (*domain.ProfileCompletion, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProfileCompletion), args.Error(1)
}

type MockProfileRepo struct {
	mock.Mock
}

func (m *MockProfileRepo) ListCompletedSections(ctx context.Context, userID string) ([]domain.SectionKey, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SectionKey), args.Error(1)
}

func (m *MockProfileRepo) GetSection(ctx context.Context, userID string, key domain.SectionKey) (*domain.SectionRecord, error) {
	args := m.Called(ctx, userID, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SectionRecord), args.Error(1)
}

func (m *MockProfileRepo) SaveSection(ctx context.Context, rec *domain.SectionRecord) error {
	return m.Called(ctx, rec).Error(0)
}

type MockProfileUsecase struct {
	MockCompletionFetcher
}

func (m *MockProfileUsecase) GetSection(ctx context.Context, userID string, key domain.SectionKey) (*domain.SectionRecord, error) {
	args := m.Called(ctx, userID, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SectionRecord), args.Error(1)
}

func (m *MockProfileUsecase) result(args mock.Arguments) (*domain.UpdateResult, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UpdateResult), args.Error(1)
}

func (m *MockProfileUsecase) UpdateAccountIdentity(ctx context.Context, userID string, data *domain.AccountIdentity) (*domain.UpdateResult, error) {
	return m.result(m.Called(ctx, userID, data))
}

func (m *MockProfileUsecase) UpdatePersonalSocial(ctx context.Context, userID string, data *domain.PersonalSocial) (*domain.UpdateResult, error) {
	return m.result(m.Called(ctx, userID, data))
}

func (m *MockProfileUsecase) UpdateEmployment(ctx context.Context, userID string, data *domain.Employment) (*domain.UpdateResult, error) {
	return m.result(m.Called(ctx, userID, data))
}

func (m *MockProfileUsecase) UpdateEducation(ctx context.Context, userID string, data *domain.Education) (*domain.UpdateResult, error) {
	return m.result(m.Called(ctx, userID, data))
}

func (m *MockProfileUsecase) UpdateSkills(ctx context.Context, userID string, data *domain.Skills) (*domain.UpdateResult, error) {
	return m.result(m.Called(ctx, userID, data))
}

func (m *MockProfileUsecase) UpdateLocationPreferences(ctx context.Context, userID string, data *domain.LocationPreferences) (*domain.UpdateResult, error) {
	return m.result(m.Called(ctx, userID, data))
}

type MockWaitlistRepo struct {
	mock.Mock
}

func (m *MockWaitlistRepo) Create(ctx context.Context, entry *domain.WaitlistEntry) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *MockWaitlistRepo) MarkSynced(ctx context.Context, id string, at time.Time) error {
	return m.Called(ctx, id, at).Error(0)
}

func (m *MockWaitlistRepo) CountBySource(ctx context.Context) (map[string]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int64), args.Error(1)
}

func (m *MockWaitlistRepo) List(ctx context.Context, limit int) ([]domain.WaitlistEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.WaitlistEntry), args.Error(1)
}

type MockContactSyncer struct {
	mock.Mock
}

func (m *MockContactSyncer) UpsertContact(ctx context.Context, entry *domain.WaitlistEntry) error {
	return m.Called(ctx, entry).Error(0)
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendWaitlistWelcome(data email.WelcomeEmailData) error {
	return m.Called(data).Error(0)
}

func (m *MockMailer) SendContactEmail(data email.ContactEmailData) error {
	return m.Called(data).Error(0)
}

type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) ListByUser(ctx context.Context, userID string, limit int) ([]domain.Notification, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Notification), args.Error(1)
}

func (m *MockNotificationRepo) CountUnread(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepo) MarkRead(ctx context.Context, userID, id string, at time.Time) error {
	return m.Called(ctx, userID, id, at).Error(0)
}
