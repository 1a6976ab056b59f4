package services

import (
	"context"
	"fmt"
	"net/smtp"
	"regexp"
	"strings"

	"github.com/admithub/backend-go/internal/config"
	apperrors "github.com/admithub/backend-go/internal/errors"
	"github.com/admithub/backend-go/internal/logger"
	"github.com/admithub/backend-go/internal/models"
	"github.com/admithub/backend-go/internal/repository"
	"go.uber.org/zap"
)

var emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

// MailSender 邮件发送接口，测试时可注入假实现
type MailSender func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error

// FollowUpService 跟进邮件服务
type FollowUpService struct {
	cfg  config.SMTPConfig
	repo repository.InteractionRepository
	send MailSender
}

// NewFollowUpService 创建跟进邮件服务；sender为nil时使用smtp.SendMail
func NewFollowUpService(cfg config.SMTPConfig, repo repository.InteractionRepository, sender MailSender) *FollowUpService {
	if sender == nil {
		sender = smtp.SendMail
	}
	return &FollowUpService{cfg: cfg, repo: repo, send: sender}
}

// SendFollowUp 按咨询类型发送跟进邮件，正文附上会话摘要
func (s *FollowUpService) SendFollowUp(ctx context.Context, email, name, inquiryType, sessionID string) error {
	if !s.configured() {
		return apperrors.NewMailDeliveryError("smtp is not configured")
	}
	if !emailPattern.MatchString(email) {
		return apperrors.NewValidationError("invalid email address")
	}
	if name == "" {
		name = "Student"
	}

	var history []models.Interaction
	if s.repo != nil && sessionID != "" {
		var err error
		history, err = s.repo.GetSessionHistory(ctx, sessionID, 50)
		if err != nil {
			logger.Warn("failed to load session history for follow-up",
				zap.String("session_id", sessionID), zap.Error(err))
		}
	}

	subject, body := s.composeEmail(name, inquiryType, history)
	msg := buildMessage(s.cfg.From, email, subject, body)

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	if err := s.send(addr, auth, s.cfg.From, []string{email}, msg); err != nil {
		followupEmailsTotal.WithLabelValues("failed").Inc()
		return apperrors.NewMailDeliveryError("failed to send follow-up email").WithCause(err)
	}

	followupEmailsTotal.WithLabelValues("sent").Inc()
	logger.Info("follow-up email sent",
		zap.String("email", email), zap.String("inquiry_type", inquiryType))
	return nil
}

func (s *FollowUpService) configured() bool {
	return s.cfg.Host != "" && s.cfg.Port > 0 && s.cfg.Username != "" &&
		s.cfg.Password != "" && s.cfg.From != ""
}

func (s *FollowUpService) composeEmail(name, inquiryType string, history []models.Interaction) (string, string) {
	tmpl, ok := emailTemplates[inquiryType]
	if !ok {
		tmpl = emailTemplates["general"]
	}

	vars := map[string]string{
		"name":                 name,
		"university_name":      "University Name",
		"conversation_summary": summarizeHistory(history),
		"next_steps":           nextSteps(inquiryType),
	}

	return expand(tmpl.subject, vars), expand(tmpl.body, vars)
}

// summarizeHistory 用最近五轮交互生成对话摘要
func summarizeHistory(history []models.Interaction) string {
	if len(history) == 0 {
		return "We had a brief conversation about your interest in our university."
	}

	if len(history) > 5 {
		history = history[len(history)-5:]
	}

	seen := make(map[string]bool)
	var topics []string
	var questions []string
	for _, h := range history {
		if h.Intent != "" && h.Intent != "unknown" && !seen[h.Intent] {
			seen[h.Intent] = true
			topics = append(topics, titleCase(h.Intent))
		}
		if len(h.UserInput) > 10 {
			q := h.UserInput
			if len(q) > 100 {
				q = q[:100] + "..."
			}
			questions = append(questions, q)
		}
	}

	var parts []string
	if len(topics) > 0 {
		parts = append(parts, fmt.Sprintf("During our conversation, we discussed: %s.", strings.Join(topics, ", ")))
	}
	if len(questions) > 0 {
		parts = append(parts, "Some of your specific questions included:")
		for i, q := range questions {
			if i >= 3 {
				break
			}
			parts = append(parts, fmt.Sprintf("%d. %s", i+1, q))
		}
	}
	if len(parts) == 0 {
		return "Thank you for your interest in our university programs and admissions process."
	}
	return strings.Join(parts, "\n")
}

func nextSteps(inquiryType string) string {
	steps, ok := nextStepsByType[inquiryType]
	if !ok {
		steps = nextStepsByType["general"]
	}
	return strings.Join(steps, "\n")
}

func titleCase(intent string) string {
	words := strings.Split(intent, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func expand(template string, vars map[string]string) string {
	for key, value := range vars {
		template = strings.ReplaceAll(template, "{"+key+"}", value)
	}
	return template
}

func buildMessage(from, to, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}

type emailTemplate struct {
	subject string
	body    string
}

var emailTemplates = map[string]emailTemplate{
	"general": {
		subject: "Thank you for your inquiry - {university_name}",
		body: `Dear {name},

Thank you for contacting our admissions office! We're excited about your interest in {university_name}.

Based on our conversation, here's a summary of what we discussed:

{conversation_summary}

Next Steps:
{next_steps}

Important Dates to Remember:
- Application Deadline: March 1st (Fall), October 1st (Spring)
- Financial Aid Priority Deadline: March 1st
- Campus Visit Registration: Available year-round

If you have any additional questions, please don't hesitate to contact us:
- Email: admissions@university.edu
- Phone: (555) 123-4567
- Office Hours: Monday-Friday, 8:00 AM - 5:00 PM

We look forward to hearing from you soon!

Best regards,
{university_name} Admissions Team
`,
	},
	"admission_requirements": {
		subject: "Admission Requirements Information - {university_name}",
		body: `Dear {name},

Thank you for your inquiry about admission requirements for {university_name}.

Here's a complete checklist of what you'll need for your application:

REQUIRED DOCUMENTS:
- Completed online application
- Official high school transcripts
- SAT (1200+) or ACT (26+) scores
- Two letters of recommendation
- Personal statement/essay
- Application fee ($50)

DEADLINES:
- Fall Semester: March 1st (Regular), November 15th (Early Decision)
- Spring Semester: October 1st
- Summer Semester: March 1st

{conversation_summary}

Next Steps:
{next_steps}

Questions? Contact us:
- Email: admissions@university.edu
- Phone: (555) 123-4567

Best of luck with your application!

{university_name} Admissions Team
`,
	},
	"financial_aid": {
		subject: "Financial Aid Information - {university_name}",
		body: `Dear {name},

Thank you for your inquiry about financial aid opportunities at {university_name}.

FINANCIAL AID OPTIONS:
- Federal Grants (Pell Grant, SEOG)
- State Grants and Scholarships
- University Merit Scholarships
- Need-based Aid
- Work-Study Programs
- Student Loans

IMPORTANT DATES:
- FAFSA Priority Deadline: March 1st
- Scholarship Application Deadline: February 1st

{conversation_summary}

Next Steps:
{next_steps}

Over 80% of our students receive some form of financial aid!

Questions about financial aid?
- Email: finaid@university.edu
- Phone: (555) 123-4568

Best regards,
{university_name} Financial Aid Office
`,
	},
	"programs_offered": {
		subject: "Academic Programs Information - {university_name}",
		body: `Dear {name},

Thank you for your interest in our academic programs at {university_name}.

{conversation_summary}

POPULAR UNDERGRADUATE PROGRAMS:
- Business Administration
- Computer Science
- Engineering
- Pre-Health Programs
- Psychology
- Education
- Arts & Sciences

GRADUATE PROGRAMS:
- MBA (Full-time, Part-time, Executive)
- Master's Programs (30+ fields)
- Doctoral Programs (PhD, Professional)

Next Steps:
{next_steps}

We're here to help you find the perfect program!

{university_name} Admissions Team
`,
	},
}

var nextStepsByType = map[string][]string{
	"admission_requirements": {
		"1. Review the complete requirements checklist above",
		"2. Start gathering your required documents",
		"3. Register for SAT/ACT if needed",
		"4. Begin your online application",
		"5. Schedule a campus visit or virtual tour",
	},
	"application_deadline": {
		"1. Mark important deadlines in your calendar",
		"2. Start your application early to avoid rush",
		"3. Prepare required documents in advance",
		"4. Submit FAFSA by the priority deadline",
		"5. Follow up on application status regularly",
	},
	"financial_aid": {
		"1. Complete FAFSA at studentaid.gov",
		"2. Apply for university scholarships",
		"3. Research external scholarship opportunities",
		"4. Submit required verification documents",
		"5. Schedule a financial aid counseling session",
	},
	"programs_offered": {
		"1. Explore detailed program information on our website",
		"2. Schedule a meeting with an academic advisor",
		"3. Attend a program-specific information session",
		"4. Connect with current students in your field of interest",
		"5. Consider scheduling a campus visit",
	},
	"general": {
		"1. Explore our website for detailed information",
		"2. Schedule a campus visit or virtual tour",
		"3. Attend an upcoming information session",
		"4. Connect with our admissions counselors",
		"5. Start your application when ready",
	},
}
