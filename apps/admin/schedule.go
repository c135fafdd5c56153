package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/trezcool/mitihani/core/exam"
)

type (
	// schedulePlan is the YAML description of one wizard run.
	schedulePlan struct {
		exam.Parameters `yaml:",inline"`

		Mode        exam.Mode           `yaml:"mode"`
		Classes     []string            `yaml:"classes"`
		Slots       []exam.TimeSlot     `yaml:"slots"`
		Subjects    map[string][]string `yaml:"subjects"` // class ID -> subject IDs; omitted classes keep every subject
		Assignments []planAssignment    `yaml:"assignments"`
	}

	planAssignment struct {
		Date      exam.Date `yaml:"date"`
		SlotID    string    `yaml:"slot_id"`
		ClassID   string    `yaml:"class_id"`
		SubjectID string    `yaml:"subject_id"`
	}
)

func loadPlan(path string) (schedulePlan, error) {
	f, err := os.Open(path)
	if err != nil {
		return schedulePlan{}, errors.Wrap(err, "opening plan")
	}
	defer func() { _ = f.Close() }()

	var plan schedulePlan
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err = dec.Decode(&plan); err != nil {
		return schedulePlan{}, errors.Wrapf(err, "decoding plan %s", path)
	}
	return plan, nil
}

// steps walks the wizard from step 1 to step 6, one transition per func.
func (cli *commandLine) steps(id string, plan schedulePlan) []func() (exam.Wizard, error) {
	svc := cli.examSvc
	next := func() (exam.Wizard, error) { return svc.Next(id) }

	steps := []func() (exam.Wizard, error){
		func() (exam.Wizard, error) { return svc.SetParameters(id, plan.Parameters) },
		next,
		func() (exam.Wizard, error) { return svc.SelectClasses(id, plan.Classes) },
		next,
		func() (exam.Wizard, error) { return svc.ChooseMode(id, plan.Mode) },
		next,
	}
	if len(plan.Slots) > 0 {
		steps = append(steps, func() (exam.Wizard, error) { return svc.SetSlots(id, plan.Slots) })
	}
	steps = append(steps, next)
	for _, classID := range plan.Classes {
		subjects, ok := plan.Subjects[classID]
		if !ok {
			continue
		}
		classID := classID
		steps = append(steps, func() (exam.Wizard, error) { return svc.SetClassSubjects(id, classID, subjects) })
	}
	return append(steps, next)
}

func (cli *commandLine) schedule(ctx context.Context, planPath string, commit, yes bool) error {
	plan, err := loadPlan(planPath)
	if err != nil {
		return err
	}

	id, _, err := cli.examSvc.Open(ctx, cli.operator)
	if err != nil {
		return errors.Wrap(err, "opening wizard")
	}
	committed := false
	defer func() {
		if !committed {
			_ = cli.examSvc.Close(id)
		}
	}()

	for _, step := range cli.steps(id, plan) {
		if _, err = step(); err != nil {
			return err
		}
	}

	w, res, err := cli.examSvc.Generate(id)
	if err != nil {
		return err
	}
	for _, a := range plan.Assignments {
		cell := exam.Cell{Date: a.Date, SlotID: a.SlotID, ClassID: a.ClassID}
		if w, err = cli.examSvc.Assign(id, cell, a.SubjectID); err != nil {
			return errors.Wrapf(err, "assigning %s on %s", a.SubjectID, a.Date)
		}
	}

	if err = printGrid(cli, w); err != nil {
		return err
	}
	if !res.Complete() {
		fmt.Fprintf(cli.out, "\nno exam day left for: %s\n", strings.Join(res.Unplaced, ", "))
	}
	if !commit {
		return nil
	}

	if !yes {
		question := fmt.Sprintf("\nCommit %d exams for %q? [y/N] ", len(w.Schedule()), w.Form().Parameters.Title())
		ok, err := confirmFunc(question)
		if err != nil {
			return err
		}
		if !ok {
			return errAborted
		}
	}

	records, err := cli.examSvc.Commit(ctx, id)
	if err != nil {
		return err
	}
	committed = true
	fmt.Fprintf(cli.out, "\n%d exams committed\n", len(records))
	return nil
}

// printGrid prints one row per (date, slot) and one column per selected class.
func printGrid(cli *commandLine, w exam.Wizard) error {
	view := w.View()
	tw := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)

	header := []string{"DATE", "SLOT"}
	if len(view.Days) > 0 && len(view.Days[0].Slots) > 0 {
		for _, cell := range view.Days[0].Slots[0].Cells {
			header = append(header, cell.ClassName)
		}
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	for _, day := range view.Days {
		for _, sv := range day.Slots {
			row := []string{day.Date.String(), sv.Slot.Label + " (" + sv.Slot.Period() + ")"}
			for _, cell := range sv.Cells {
				if cell.Entry != nil {
					row = append(row, cell.Entry.SubjectName)
				} else {
					row = append(row, "-")
				}
			}
			fmt.Fprintln(tw, strings.Join(row, "\t"))
		}
	}
	return tw.Flush()
}
