package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/elevenxsolutions/elevenx-api/internal/entity"
	"github.com/elevenxsolutions/elevenx-api/internal/usecase"
)

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendLeadNotification(lead *entity.Lead) error {
	args := m.Called(lead)
	return args.Error(0)
}

func (m *MockEmailService) SendLeadAcknowledgment(lead *entity.Lead) error {
	args := m.Called(lead)
	return args.Error(0)
}

func makeLead(id string) *entity.Lead {
	return &entity.Lead{
		ID:      id,
		Name:    "Lead " + id,
		Email:   id + "@example.com",
		Message: "hello",
	}
}

func TestDispatchMarksProcessedWhenBothEmailsSucceed(t *testing.T) {
	lead := makeLead("lead-1")

	mockRepo := new(MockLeadRepository)
	mockRepo.On("ClaimUnprocessed", mock.Anything, usecase.DispatchBatchSize).Return([]*entity.Lead{lead}, nil)
	mockRepo.On("MarkProcessed", mock.Anything, "lead-1").Return(nil)

	mockEmail := new(MockEmailService)
	mockEmail.On("SendLeadNotification", lead).Return(nil)
	mockEmail.On("SendLeadAcknowledgment", lead).Return(nil)

	uc := usecase.NewDispatchEmailsUseCase(mockRepo, mockEmail)

	result, err := uc.Execute(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 1, result.Processed)
	assert.Equal(t, usecase.OutcomeSuccess, result.Details[0].Status)
	mockRepo.AssertExpectations(t)
	mockEmail.AssertExpectations(t)
}

func TestDispatchLeavesLeadUnprocessedWhenNotificationFails(t *testing.T) {
	lead := makeLead("lead-1")

	mockRepo := new(MockLeadRepository)
	mockRepo.On("ClaimUnprocessed", mock.Anything, mock.Anything).Return([]*entity.Lead{lead}, nil)

	mockEmail := new(MockEmailService)
	mockEmail.On("SendLeadNotification", lead).Return(errors.New("smtp timeout"))
	mockEmail.On("SendLeadAcknowledgment", lead).Return(nil)

	uc := usecase.NewDispatchEmailsUseCase(mockRepo, mockEmail)

	result, err := uc.Execute(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 0, result.Processed)
	assert.Equal(t, "lead-1", result.Details[0].ID)
	assert.Equal(t, usecase.OutcomeFailedEmail, result.Details[0].Status)
	assert.Contains(t, result.Details[0].Error, "notification")
	mockRepo.AssertNotCalled(t, "MarkProcessed", mock.Anything, mock.Anything)
}

func TestDispatchReportsFailedUpdateDistinctly(t *testing.T) {
	lead := makeLead("lead-1")

	mockRepo := new(MockLeadRepository)
	mockRepo.On("ClaimUnprocessed", mock.Anything, mock.Anything).Return([]*entity.Lead{lead}, nil)
	mockRepo.On("MarkProcessed", mock.Anything, "lead-1").Return(errors.New("update failed"))

	mockEmail := new(MockEmailService)
	mockEmail.On("SendLeadNotification", lead).Return(nil)
	mockEmail.On("SendLeadAcknowledgment", lead).Return(nil)

	uc := usecase.NewDispatchEmailsUseCase(mockRepo, mockEmail)

	result, err := uc.Execute(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 0, result.Processed)
	assert.Equal(t, usecase.OutcomeFailedUpdate, result.Details[0].Status)
}

func TestDispatchOneBadLeadDoesNotAbortBatch(t *testing.T) {
	good := makeLead("lead-good")
	bad := makeLead("lead-bad")

	mockRepo := new(MockLeadRepository)
	mockRepo.On("ClaimUnprocessed", mock.Anything, mock.Anything).Return([]*entity.Lead{bad, good}, nil)
	mockRepo.On("MarkProcessed", mock.Anything, "lead-good").Return(nil)

	mockEmail := new(MockEmailService)
	mockEmail.On("SendLeadNotification", bad).Return(errors.New("bounced"))
	mockEmail.On("SendLeadAcknowledgment", bad).Return(nil)
	mockEmail.On("SendLeadNotification", good).Return(nil)
	mockEmail.On("SendLeadAcknowledgment", good).Return(nil)

	uc := usecase.NewDispatchEmailsUseCase(mockRepo, mockEmail)

	result, err := uc.Execute(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 1, result.Processed)
	assert.Len(t, result.Details, 2)
	assert.Equal(t, usecase.OutcomeFailedEmail, result.Details[0].Status)
	assert.Equal(t, usecase.OutcomeSuccess, result.Details[1].Status)
}

func TestDispatchClaimFailureAbortsRun(t *testing.T) {
	mockRepo := new(MockLeadRepository)
	mockRepo.On("ClaimUnprocessed", mock.Anything, mock.Anything).Return(nil, errors.New("db down"))

	mockEmail := new(MockEmailService)

	uc := usecase.NewDispatchEmailsUseCase(mockRepo, mockEmail)

	result, err := uc.Execute(context.Background())

	assert.Nil(t, result)
	assert.True(t, usecase.IsTechnicalError(err))
	mockEmail.AssertNotCalled(t, "SendLeadNotification", mock.Anything)
}

func TestDispatchBatchIsBounded(t *testing.T) {
	mockRepo := new(MockLeadRepository)
	mockRepo.On("ClaimUnprocessed", mock.Anything, 10).Return([]*entity.Lead{}, nil)

	uc := usecase.NewDispatchEmailsUseCase(mockRepo, new(MockEmailService))

	result, err := uc.Execute(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 0, result.Processed)
	assert.Empty(t, result.Details)
	mockRepo.AssertExpectations(t)
}
