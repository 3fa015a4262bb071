package requester

import (
	"time"

	"github.com/kbukum/requester/validation"
)

// Service is the target API: its base URL, the headers sent on every call,
// and the per-request timeout. A Service is read-only and may be shared.
type Service struct {
	URL            string            `json:"url" validate:"required,url"`
	Headers        map[string]string `json:"headers"`
	RequestTimeout time.Duration     `json:"request_timeout" validate:"gte=0"`
}

// Validate checks that URL is absolute and the timeout is not negative.
func (s Service) Validate() error {
	if err := validation.Validate(s); err != nil {
		return err
	}
	return validation.New().AbsoluteURL("url", s.URL).Validate()
}
