package usecase

import (
	"time"

	"github.com/shandysiswandi/onboard/internal/otp/entity"
)

const defaultMessage = "Your verification code is %s. It expires in %d minutes."

// Config values are read per call so a reload applies to the next request.

func (s *Usecase) codeTTL() time.Duration {
	if d := s.cfg.GetMinute("modules.otp.code_ttl_minutes"); d > 0 {
		return d
	}
	return entity.DefaultTTL
}

func (s *Usecase) maxAttempts() int16 {
	if n := s.cfg.GetInt("modules.otp.max_attempts"); n > 0 && n < 100 {
		return int16(n)
	}
	return entity.DefaultMaxAttempts
}

func (s *Usecase) issuePolicy(resend bool) entity.IssuePolicy {
	p := entity.IssuePolicy{
		Window:    s.cfg.GetMinute("modules.otp.rate_limit.window_minutes"),
		MaxIssues: int64(s.cfg.GetInt("modules.otp.rate_limit.max_issues")),
	}
	if p.Window <= 0 {
		p.Window = 5 * time.Minute
	}
	if p.MaxIssues <= 0 {
		p.MaxIssues = 3
	}

	if resend {
		p.Cooldown = s.cfg.GetSecond("modules.otp.resend.cooldown_seconds")
		if p.Cooldown <= 0 {
			p.Cooldown = 60 * time.Second
		}
	}

	return p
}

func (s *Usecase) phonePlan() entity.PhonePlan {
	p := entity.PhonePlan{
		CountryCode:      s.cfg.GetString("modules.otp.phone.country_code"),
		SubscriberLength: s.cfg.GetInt("modules.otp.phone.subscriber_length"),
	}
	if p.CountryCode == "" {
		p.CountryCode = entity.DefaultPhonePlan.CountryCode
	}
	if p.SubscriberLength <= 0 {
		p.SubscriberLength = entity.DefaultPhonePlan.SubscriberLength
	}
	return p
}

func (s *Usecase) messageTemplate() string {
	if m := s.cfg.GetString("modules.otp.delivery.message"); m != "" {
		return m
	}
	return defaultMessage
}

func (s *Usecase) sweepRetention() time.Duration {
	if d := s.cfg.GetMinute("modules.otp.sweep.retention_minutes"); d > 0 {
		return d
	}
	return 24 * time.Hour
}

func (s *Usecase) sweepBatchSize() int32 {
	if n := s.cfg.GetInt32("modules.otp.sweep.batch_size"); n > 0 {
		return n
	}
	return 1000
}
