package mailer

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"stock-alert-service/app/domain"
)

var filenameSanitizer = regexp.MustCompile(`[^a-zA-Z0-9\-_.]`)

// devDispatcher writes each email to disk instead of sending it: a .html
// file with the body and a .json file with the envelope, named by
// timestamp and subject.
type devDispatcher struct {
	dir string
}

func NewDevDispatcher(dir string) domain.EmailDispatcher {
	return &devDispatcher{dir: dir}
}

type devEnvelope struct {
	Timestamp string `json:"timestamp"`
	To        string `json:"to"`
	Subject   string `json:"subject"`
}

func (d *devDispatcher) Send(ctx context.Context, to, subject, htmlBody string) error {
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return fmt.Errorf("%w: create outbox dir: %v", domain.ErrDispatchFailed, err)
	}

	now := time.Now()
	base := fmt.Sprintf("%s_%s", now.Format("2006_01_02_150405"), filenameSanitizer.ReplaceAllString(subject, "_"))

	htmlPath := filepath.Join(d.dir, base+".html")
	if err := os.WriteFile(htmlPath, []byte(htmlBody), 0o644); err != nil {
		return fmt.Errorf("%w: write html: %v", domain.ErrDispatchFailed, err)
	}

	envelope, err := json.MarshalIndent(devEnvelope{
		Timestamp: now.Format(time.RFC3339),
		To:        to,
		Subject:   subject,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: marshal envelope: %v", domain.ErrDispatchFailed, err)
	}

	jsonPath := filepath.Join(d.dir, base+".json")
	if err := os.WriteFile(jsonPath, envelope, 0o644); err != nil {
		return fmt.Errorf("%w: write envelope: %v", domain.ErrDispatchFailed, err)
	}

	return nil
}
