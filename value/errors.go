package value

import "github.com/pkg/errors"

// ErrInvalidArgument is the single error kind of the translation engine. Every
// failure can be matched with errors.Is against it.
var ErrInvalidArgument = errors.New("invalid argument")

// InvalidArgumentf annotates ErrInvalidArgument with a formatted message.
func InvalidArgumentf(format string, args ...any) error {
	return errors.WithMessagef(ErrInvalidArgument, format, args...)
}
