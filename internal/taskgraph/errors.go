package taskgraph

import (
	"errors"
	"strconv"
	"strings"

	ferrors "git.home.luguber.info/inful/readmegen/internal/foundation/errors"
)

var (
	// ErrUnknownTask is returned when a task or one of its dependencies is not registered.
	ErrUnknownTask = errors.New("unknown task")
	// ErrCycle is returned when the dependency closure of a task is not acyclic.
	ErrCycle = errors.New("dependency cycle")
)

func unknownTaskError(name, requiredBy string) error {
	b := ferrors.WrapError(ErrUnknownTask, ferrors.CategoryValidation, "resolve task "+strconv.Quote(name)).
		Fatal().
		WithContext("task", name)
	if requiredBy != "" {
		b = b.WithContext("required_by", requiredBy)
	}
	return b.Build()
}

func cycleError(path []string) error {
	return ferrors.WrapError(ErrCycle, ferrors.CategoryValidation, "cycle: "+strings.Join(path, " -> ")).
		Fatal().
		WithContext("cycle", path).
		Build()
}
