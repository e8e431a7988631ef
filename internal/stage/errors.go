package stage

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel markers used to classify stage failures. Fatal markers abort the
// run; everything else is recorded per file and the run continues.
var (
	ErrCorruptIndex           = errors.New("corrupt index")
	ErrIndexPersist           = errors.New("index persist error")
	ErrDestinationUnavailable = errors.New("destination unavailable")
	ErrValidation             = errors.New("validation error")
	ErrTransient              = errors.New("transient failure")
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsFatal reports whether an error must abort the run rather than be recorded
// against a single file.
func IsFatal(err error) bool {
	return errors.Is(err, ErrCorruptIndex) ||
		errors.Is(err, ErrIndexPersist) ||
		errors.Is(err, ErrDestinationUnavailable)
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "stage failure"
	}
	return strings.Join(parts, ": ")
}
