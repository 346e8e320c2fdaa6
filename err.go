package worklog

import (
	"errors"

	"github.com/worklogbot/worklog/pkg/confluence"
	"github.com/worklogbot/worklog/pkg/constants"
)

// ErrorKind tells apart the ways a run can fail.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	// KindConfig is a missing or malformed setting, detected before any request.
	KindConfig
	// KindAPI is a non-2xx or undecodable response from Confluence.
	KindAPI
	// KindTransport is anything that kept a request from completing.
	KindTransport
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindConfig:
		return "config"
	case KindAPI:
		return "api"
	default:
		return "transport"
	}
}

// Classify maps err onto an ErrorKind. A page that already existed is not an
// error and never reaches here.
func Classify(err error) ErrorKind {
	if err == nil {
		return KindNone
	}
	if errors.Is(err, constants.ErrMissingConfig) || errors.Is(err, constants.ErrInvalidConfig) {
		return KindConfig
	}
	var apiErr *confluence.APIError
	if errors.As(err, &apiErr) || errors.Is(err, constants.ErrUnexpectedResponse) {
		return KindAPI
	}
	return KindTransport
}

// ExitCode is the process status for err.
func ExitCode(err error) int {
	switch Classify(err) {
	case KindNone:
		return 0
	case KindConfig:
		return 2
	default:
		return 1
	}
}
