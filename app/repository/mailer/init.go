package mailer

import (
	"fmt"

	"stock-alert-service/app/domain"
	"stock-alert-service/config"
)

// New builds the email dispatcher selected by EMAIL_DRIVER.
func New(cfg config.EmailConfig) (domain.EmailDispatcher, error) {
	switch cfg.Driver {
	case "postmark":
		return NewPostmarkDispatcher(cfg.PostmarkToken, cfg.FromEmail, cfg.FromName), nil
	case "dev":
		return NewDevDispatcher(cfg.DevDir), nil
	default:
		return nil, fmt.Errorf("unknown email driver %q", cfg.Driver)
	}
}
