package mocks

import (
	"context"

	"zomatify/storefront-svc/internal/domain"

	"github.com/stretchr/testify/mock"
)

type AuthClient struct {
	mock.Mock
}

func (m *AuthClient) GetSession(ctx context.Context) (*domain.Session, error) {
	args := m.Called(ctx)
	return sessionArg(args, 0), args.Error(1)
}

func (m *AuthClient) SignInWithPassword(ctx context.Context, email, password string) (*domain.Session, error) {
	args := m.Called(ctx, email, password)
	return sessionArg(args, 0), args.Error(1)
}

func (m *AuthClient) SignUp(ctx context.Context, req domain.SignUpRequest) (*domain.Session, error) {
	args := m.Called(ctx, req)
	return sessionArg(args, 0), args.Error(1)
}

func (m *AuthClient) SignOut(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *AuthClient) OnAuthStateChange(listener func(domain.AuthEvent)) func() {
	args := m.Called(listener)
	if fn, ok := args.Get(0).(func()); ok {
		return fn
	}
	return func() {}
}

func sessionArg(args mock.Arguments, i int) *domain.Session {
	if v := args.Get(i); v != nil {
		return v.(*domain.Session)
	}
	return nil
}

func NewAuthClient(t testingT) *AuthClient {
	m := &AuthClient{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

type ProfileStore struct {
	mock.Mock
}

func (m *ProfileStore) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	args := m.Called(ctx, userID)
	return profileArg(args, 0), args.Error(1)
}

func (m *ProfileStore) CreateProfile(ctx context.Context, profile domain.Profile) (*domain.Profile, error) {
	args := m.Called(ctx, profile)
	return profileArg(args, 0), args.Error(1)
}

func (m *ProfileStore) UpdateProfile(ctx context.Context, userID string, patch domain.ProfilePatch) (*domain.Profile, error) {
	args := m.Called(ctx, userID, patch)
	return profileArg(args, 0), args.Error(1)
}

func profileArg(args mock.Arguments, i int) *domain.Profile {
	if v := args.Get(i); v != nil {
		return v.(*domain.Profile)
	}
	return nil
}

func NewProfileStore(t testingT) *ProfileStore {
	m := &ProfileStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
