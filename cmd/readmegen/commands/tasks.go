package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"
)

// TasksCmd implements the 'tasks' command.
type TasksCmd struct{}

// Run executes the tasks command.
func (t *TasksCmd) Run(_ *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	gen, _ := root.newGenerator(cfg)

	w := tabwriter.NewWriter(root.stdout(), 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "TASK\tDEPENDS ON\tDESCRIPTION")
	for _, task := range gen.Tasks() {
		deps := strings.Join(task.Deps, ", ")
		if deps == "" {
			deps = "-"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", task.Name, deps, task.Description)
	}
	return w.Flush()
}
