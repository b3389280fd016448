package model

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/nao1215/fragnav/internal/fragment"
)

// TestErrorClasses tests that each typed error matches its own class only.
func TestErrorClasses(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")

	tests := []struct {
		name string
		err  error
		want error
	}{
		{
			name: "configuration error",
			err:  NewConfigurationError("register", "TicketPage", "duplicate name %q", "ticket"),
			want: ErrConfiguration,
		},
		{
			name: "param error",
			err:  &ParamError{PageID: "TicketPage", Position: 0, Reason: "missing"},
			want: ErrParam,
		},
		{
			name: "page instantiation error",
			err:  &PageInstantiationError{PageID: "TicketPage", Err: cause},
			want: ErrPageInstantiation,
		},
	}

	classes := []error{ErrConfiguration, ErrParam, ErrPageInstantiation}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			wrapped := fmt.Errorf("failed to navigate: %w", tt.err)
			for _, class := range classes {
				got := errors.Is(wrapped, class)
				if got != (class == tt.want) {
					t.Errorf("errors.Is(%v, %v) = %v", tt.err, class, got)
				}
			}
		})
	}
}

// TestConfigurationError_Error tests the message format.
func TestConfigurationError_Error(t *testing.T) {
	t.Parallel()

	err := NewConfigurationError("build", "TicketPage", "required value missing for position %d", 0)
	want := `build page "TicketPage": required value missing for position 0`
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}

	err = NewConfigurationError("register", "", "no page registered")
	if strings.Contains(err.Error(), "page \"") {
		t.Errorf("expected no page in message, got %q", err.Error())
	}
}

// TestPageInstantiationError_Unwrap tests access to the cause.
func TestPageInstantiationError_Unwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("database down")
	err := &PageInstantiationError{PageID: "ReportPage", Params: fragment.ParamsOf("2024"), Err: cause}

	if !errors.Is(err, cause) {
		t.Error("expected cause to be reachable")
	}
	if !strings.Contains(err.Error(), "ReportPage") {
		t.Errorf("expected page id in message, got %q", err.Error())
	}
}
