package shaders

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/gogpu/naga"
)

//go:embed lattice.wgsl
var LatticeWGSL string

//go:embed text.wgsl
var TextWGSL string

//go:embed blit.wgsl
var BlitWGSL string

var (
	ErrShaderInvalid = errors.New("invalid shader")
	// ErrValidatorUnsupported means naga could not check the source; the
	// GPU driver still validates it when the module is created.
	ErrValidatorUnsupported = errors.New("shader validator does not support source")
)

// Validate compiles WGSL offline through naga so that a broken shader is
// reported before any GPU object exists.
func Validate(label, code string) error {
	if strings.TrimSpace(code) == "" {
		return fmt.Errorf("%s: %w: empty source", label, ErrShaderInvalid)
	}
	if _, err := naga.Compile(code); err != nil {
		return fmt.Errorf("%s: %w: %v", label, classify(err), err)
	}
	return nil
}

// unsupportedMarkers are the texts gogpu/naga v0.17.13 puts in errors for
// valid WGSL it cannot lower yet. naga exports no error types to match on,
// so a version bump must recheck these.
var unsupportedMarkers = []string{"not yet implemented", "not supported"}

// classify maps a naga error to ErrValidatorUnsupported or ErrShaderInvalid.
func classify(err error) error {
	msg := strings.ToLower(err.Error())
	for _, m := range unsupportedMarkers {
		if strings.Contains(msg, m) {
			return ErrValidatorUnsupported
		}
	}
	return ErrShaderInvalid
}

// ValidateAll checks every embedded shader, stopping at the first hard
// failure. Unsupported results are joined and returned only if nothing
// failed outright.
func ValidateAll() error {
	var unsupported []error
	for _, s := range []struct{ label, code string }{
		{"lattice", LatticeWGSL},
		{"text", TextWGSL},
		{"blit", BlitWGSL},
	} {
		err := Validate(s.label, s.code)
		switch {
		case err == nil:
		case errors.Is(err, ErrValidatorUnsupported):
			unsupported = append(unsupported, err)
		default:
			return err
		}
	}
	return errors.Join(unsupported...)
}
