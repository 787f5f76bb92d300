package outbox

import (
	"fmt"

	"escrow/internal/pkg/errs"
)

// Status is the relay state of a Message.
type Status int

const (
	Unknown Status = iota
	Pending
	Published
	Dead
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "Unknown",
		Pending:   "Pending",
		Published: "Published",
		Dead:      "Dead",
	}
}

func (s Status) Validate() error {
	if s != Pending && s != Published && s != Dead {
		return errs.NewValueIsInvalidErrorWithCause("message status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}
