package main

import (
	"fmt"
	"strings"
	"time"

	"bodyfit-workers/pkg/registry"

	"github.com/spf13/cobra"
)

type addOptions struct {
	id          string
	displayName string
	description string
	category    string
	taskType    string
	version     string
	status      string
	errorCodes  []string
	timeout     string
	retries     int
}

func newAddCmd(path func() string) *cobra.Command {
	opts := &addOptions{}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a new activity to the registry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := registry.LoadOrCreate(path())
			if err != nil {
				return fmt.Errorf("failed to load registry: %w", err)
			}
			if err := reg.Add(opts.activity(), time.Now()); err != nil {
				return err
			}
			if err := reg.Save(path()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added activity: %s\n", opts.id)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.id, "id", "", "Activity ID (e.g. export-body-mesh)")
	f.StringVar(&opts.displayName, "display-name", "", "Display name (e.g. Export Body Mesh)")
	f.StringVar(&opts.description, "description", "", "Description")
	f.StringVar(&opts.category, "category", "", "Category (body or tryon)")
	f.StringVar(&opts.taskType, "task-type", "", "Zeebe task type (e.g. export-body-mesh)")
	f.StringVar(&opts.version, "version", "1.0.0", "Version")
	f.StringVar(&opts.status, "status", registry.StatusPlanned, "Implementation status (planned, in-progress, completed, verified)")
	f.StringSliceVar(&opts.errorCodes, "error-codes", []string{"VALIDATION_FAILED", "INTERNAL_ERROR"}, "BPMN error codes the worker may throw")
	f.StringVar(&opts.timeout, "timeout", "10s", "Job timeout")
	f.IntVar(&opts.retries, "retries", 3, "Job retries")
	for _, name := range []string{"id", "display-name", "description", "category", "task-type"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func (o *addOptions) activity() registry.Activity {
	codes := make([]string, 0, len(o.errorCodes))
	for _, c := range o.errorCodes {
		if c = strings.TrimSpace(c); c != "" {
			codes = append(codes, c)
		}
	}
	return registry.Activity{
		ID:                   o.id,
		DisplayName:          o.displayName,
		Description:          o.description,
		Category:             o.category,
		Version:              o.version,
		TaskType:             o.taskType,
		ImplementationStatus: o.status,
		InputSchema:          map[string]interface{}{},
		OutputSchema:         map[string]interface{}{},
		ErrorCodes:           codes,
		Timeout:              o.timeout,
		Retries:              o.retries,
		Workflows:            []string{},
		Tags:                 []string{},
	}
}
