package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/bizdesk/internal/apperrors"
	"github.com/SscSPs/bizdesk/internal/core/domain"
	"github.com/SscSPs/bizdesk/internal/core/services"
	"github.com/SscSPs/bizdesk/internal/dto"
	"github.com/SscSPs/bizdesk/internal/platform/config"
	"github.com/SscSPs/bizdesk/internal/utils"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type AuthServiceTestSuite struct {
	suite.Suite
	ctx      context.Context
	cfg      *config.Config
	mockRepo *MockUserRepository
}

func (suite *AuthServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.cfg = &config.Config{
		JWTSecret:                  "test-secret",
		JWTExpiryDuration:          15 * time.Minute,
		JWTIssuer:                  "bizdesk-test",
		RefreshTokenExpiryDuration: 24 * time.Hour,
	}
	suite.mockRepo = new(MockUserRepository)
}

func (suite *AuthServiceTestSuite) TestRegister_CreatesTenantRoot() {
	svc := services.NewAuthService(anonymous(), suite.mockRepo, services.WithClock(fixedClock))

	suite.mockRepo.On("FindUserByEmail", suite.ctx, "owner@shop.test").
		Return(nil, apperrors.NewNotFoundError("user not found")).Once()
	suite.mockRepo.On("SaveUser", suite.ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.Role == domain.RoleAdmin && u.ParentAdminID == nil && u.CreatedBy == u.UserID
	})).Return(nil).Once()

	user, err := svc.Register(suite.ctx, dto.RegisterRequest{Name: "Owner", Email: "Owner@Shop.Test", Password: "password123"})

	suite.Require().NoError(err)
	suite.True(user.IsTenantRoot())
	suite.Equal(user.UserID, domain.ResolveTenant(user.Identity()).TenantID)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AuthServiceTestSuite) TestAuthenticate_WrongPasswordIsGeneric() {
	svc := services.NewAuthService(anonymous(), suite.mockRepo)
	hash, err := utils.HashPassword("right-password")
	suite.Require().NoError(err)

	suite.mockRepo.On("FindUserByEmail", suite.ctx, "owner@shop.test").
		Return(&domain.User{UserID: "u1", PasswordHash: hash}, nil).Once()
	suite.mockRepo.On("FindUserByEmail", suite.ctx, "ghost@shop.test").
		Return(nil, apperrors.NewNotFoundError("user not found")).Once()

	_, wrongPassword := svc.Authenticate(suite.ctx, dto.LoginRequest{Email: "owner@shop.test", Password: "wrong-password"})
	_, unknownUser := svc.Authenticate(suite.ctx, dto.LoginRequest{Email: "ghost@shop.test", Password: "whatever"})

	suite.ErrorIs(wrongPassword, apperrors.ErrUnauthenticated)
	suite.Equal(wrongPassword.Error(), unknownUser.Error())
}

func (suite *AuthServiceTestSuite) TestRefresh_RotatesToken() {
	svc := services.NewTokenService(suite.cfg, suite.mockRepo, services.WithClock(fixedClock))
	expiry := fixedNow.Add(time.Hour)
	user := &domain.User{
		UserID:                 "u1",
		Role:                   domain.RoleAdmin,
		RefreshTokenHash:       utils.HashRefreshToken("old-token"),
		RefreshTokenExpiryTime: &expiry,
	}

	suite.mockRepo.On("FindUserByID", suite.ctx, "u1").Return(user, nil).Once()
	suite.mockRepo.On("UpdateRefreshToken", suite.ctx, "u1", mock.AnythingOfType("string"), fixedNow.Add(24*time.Hour)).Return(nil).Once()

	session, refreshed, err := svc.Refresh(suite.ctx, "u1", "old-token")

	suite.Require().NoError(err)
	suite.Equal("u1", refreshed.UserID)
	suite.NotEmpty(session.AccessToken)
	suite.NotEqual("old-token", session.RefreshToken)
	suite.Len(session.RefreshToken, 64)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AuthServiceTestSuite) TestRefresh_MismatchAndExpiry() {
	svc := services.NewTokenService(suite.cfg, suite.mockRepo, services.WithClock(fixedClock))
	future := fixedNow.Add(time.Hour)
	past := fixedNow.Add(-time.Hour)

	suite.mockRepo.On("FindUserByID", suite.ctx, "u1").Return(&domain.User{
		UserID: "u1", RefreshTokenHash: utils.HashRefreshToken("real"), RefreshTokenExpiryTime: &future,
	}, nil).Once()
	suite.mockRepo.On("FindUserByID", suite.ctx, "u2").Return(&domain.User{
		UserID: "u2", RefreshTokenHash: utils.HashRefreshToken("real"), RefreshTokenExpiryTime: &past,
	}, nil).Once()

	_, _, mismatch := svc.Refresh(suite.ctx, "u1", "forged")
	_, _, expired := svc.Refresh(suite.ctx, "u2", "real")

	suite.ErrorIs(mismatch, apperrors.ErrUnauthenticated)
	suite.ErrorIs(expired, apperrors.ErrRefreshTokenExpired)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateRefreshToken", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}
