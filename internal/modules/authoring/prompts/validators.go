package prompts

import (
	"fmt"
	"strings"
)

type Validator func(Input) error

func RequireAnyNonEmpty(msg string, getter ...func(Input) string) Validator {
	return func(in Input) error {
		for _, g := range getter {
			if g == nil {
				continue
			}
			if strings.TrimSpace(g(in)) != "" {
				return nil
			}
		}
		return fmt.Errorf("%s", msg)
	}
}
