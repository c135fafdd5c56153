package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/pkg/errors"

	"github.com/trezcool/mitihani/core"
)

func (cli *commandLine) catalog(ctx context.Context, ordering []core.DBOrdering) error {
	classes, err := cli.examSvc.ListClasses(ctx, ordering...)
	if err != nil {
		return errors.Wrap(err, "listing classes")
	}
	subjects, err := cli.examSvc.ListSubjects(ctx, ordering...)
	if err != nil {
		return errors.Wrap(err, "listing subjects")
	}

	tw := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CLASS ID\tCLASS")
	for _, c := range classes {
		fmt.Fprintf(tw, "%s\t%s\n", c.ID, c.DisplayName())
	}
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "SUBJECT ID\tSUBJECT")
	for _, s := range subjects {
		fmt.Fprintf(tw, "%s\t%s\n", s.ID, s.Name)
	}
	return tw.Flush()
}
