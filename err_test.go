package worklog_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/worklogbot/worklog"
	"github.com/worklogbot/worklog/pkg/confluence"
	"github.com/worklogbot/worklog/pkg/constants"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind worklog.ErrorKind
		code int
	}{
		{"nil", nil, worklog.KindNone, 0},
		{"missing config", fmt.Errorf("%w: SPACE_ID", constants.ErrMissingConfig), worklog.KindConfig, 2},
		{"invalid config", fmt.Errorf("%w: HTTP_TIMEOUT", constants.ErrInvalidConfig), worklog.KindConfig, 2},
		{"api", fmt.Errorf("create folder: %w", &confluence.APIError{StatusCode: 500}), worklog.KindAPI, 1},
		{"undecodable", fmt.Errorf("%w: decode", constants.ErrUnexpectedResponse), worklog.KindAPI, 1},
		{"transport", errors.New("dial tcp: i/o timeout"), worklog.KindTransport, 1},
		{"cancelled", context.Canceled, worklog.KindTransport, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, worklog.Classify(tt.err))
			assert.Equal(t, tt.code, worklog.ExitCode(tt.err))
		})
	}
}

func TestErrorKind_String(t *testing.T) {
	assert.Equal(t, "none", worklog.KindNone.String())
	assert.Equal(t, "config", worklog.KindConfig.String())
	assert.Equal(t, "api", worklog.KindAPI.String())
	assert.Equal(t, "transport", worklog.KindTransport.String())
}
