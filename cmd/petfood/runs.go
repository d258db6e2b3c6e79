package main

import (
	"fmt"

	petfood "github.com/thaochithai/pet-food-analysis"
)

// Run executes the runs command.
func (c *RunsCmd) Run(deps *Dependencies) error {
	store := deps.newStore(c.Dir)

	runs, err := store.Runs(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", petfood.ErrorMessage(err))
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(deps.Stdout, "No runs found.")
		return nil
	}

	for _, key := range runs {
		fmt.Fprintln(deps.Stdout, key.String())
	}
	return nil
}
