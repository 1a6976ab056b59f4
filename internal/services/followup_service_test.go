package services

import (
	"context"
	"net/smtp"
	"testing"

	"github.com/admithub/backend-go/internal/config"
	apperrors "github.com/admithub/backend-go/internal/errors"
	"github.com/admithub/backend-go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedMail struct {
	addr string
	from string
	to   []string
	msg  []byte
}

func testSMTPConfig() config.SMTPConfig {
	return config.SMTPConfig{
		Host:     "smtp.example.com",
		Port:     587,
		Username: "mailer",
		Password: "secret",
		From:     "admissions@university.edu",
		Enabled:  true,
	}
}

func TestSendFollowUpDeliversMail(t *testing.T) {
	var captured capturedMail
	sender := func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error {
		captured = capturedMail{addr: addr, from: from, to: to, msg: msg}
		return nil
	}
	svc := NewFollowUpService(testSMTPConfig(), nil, sender)

	err := svc.SendFollowUp(context.Background(), "student@example.com", "Alex", "financial_aid", "")
	require.NoError(t, err)

	assert.Equal(t, "smtp.example.com:587", captured.addr)
	assert.Equal(t, "admissions@university.edu", captured.from)
	assert.Equal(t, []string{"student@example.com"}, captured.to)

	body := string(captured.msg)
	assert.Contains(t, body, "Subject: Financial Aid Information - University Name")
	assert.Contains(t, body, "Dear Alex,")
	assert.Contains(t, body, "Complete FAFSA at studentaid.gov")
}

func TestSendFollowUpDefaultsNameAndTemplate(t *testing.T) {
	var captured capturedMail
	sender := func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error {
		captured = capturedMail{msg: msg}
		return nil
	}
	svc := NewFollowUpService(testSMTPConfig(), nil, sender)

	// 未知咨询类型回落到通用模板
	err := svc.SendFollowUp(context.Background(), "student@example.com", "", "something_else", "")
	require.NoError(t, err)

	body := string(captured.msg)
	assert.Contains(t, body, "Dear Student,")
	assert.Contains(t, body, "Thank you for your inquiry - University Name")
}

func TestSendFollowUpRejectsInvalidEmail(t *testing.T) {
	svc := NewFollowUpService(testSMTPConfig(), nil, func(string, smtp.Auth, string, []string, []byte) error {
		t.Fatal("sender should not be called")
		return nil
	})

	err := svc.SendFollowUp(context.Background(), "not-an-email", "Alex", "general", "")
	require.Error(t, err)
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)
}

func TestSendFollowUpRequiresSMTPConfig(t *testing.T) {
	svc := NewFollowUpService(config.SMTPConfig{}, nil, func(string, smtp.Auth, string, []string, []byte) error {
		t.Fatal("sender should not be called")
		return nil
	})

	err := svc.SendFollowUp(context.Background(), "student@example.com", "Alex", "general", "")
	assert.Error(t, err)
}

func TestSummarizeHistoryListsTopicsAndQuestions(t *testing.T) {
	history := []models.Interaction{
		{UserInput: "What are the admission requirements?", Intent: "admission_requirements"},
		{UserInput: "ok", Intent: "unknown"},
		{UserInput: "When is the application deadline?", Intent: "application_deadline"},
	}

	summary := summarizeHistory(history)
	assert.Contains(t, summary, "Admission Requirements")
	assert.Contains(t, summary, "Application Deadline")
	assert.Contains(t, summary, "1. What are the admission requirements?")
	assert.NotContains(t, summary, "Unknown")
}

func TestSummarizeHistoryEmpty(t *testing.T) {
	assert.Equal(t,
		"We had a brief conversation about your interest in our university.",
		summarizeHistory(nil))
}
