package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gorewood/contentbot/internal/output"
	"github.com/gorewood/contentbot/internal/prompt"
)

// newTemplatesCmd creates the templates command.
func newTemplatesCmd() *cobra.Command {
	var showFlag string

	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List prompt templates",
		Long: `List the prompt templates used to write drafts.

Templates resolve: project (.contentbot/templates/) → global → built-in.
A project or global file named social.md replaces the built-in prompt.
Templates use {{commits}} where the commit list goes.

Examples:
  contentbot templates                # List templates and where they come from
  contentbot templates --show social  # Print a template`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if showFlag != "" {
				return runTemplatesShow(cmd, showFlag)
			}
			return runTemplatesList(cmd)
		},
	}
	cmd.Flags().StringVar(&showFlag, "show", "", "Print the named template")

	return cmd
}

func runTemplatesList(cmd *cobra.Command) error {
	printer := newPrinter(cmd)

	templates, err := prompt.ListTemplates()
	if err != nil {
		sysErr := output.NewSystemErrorWithCause("failed to list templates", err)
		printer.Error(sysErr)
		return sysErr
	}

	if printer.IsJSON() {
		return printer.WriteJSON(templates)
	}

	rows := make([][]string, 0, len(templates))
	for _, t := range templates {
		source := t.Source
		if t.Overrides != "" {
			source += " (overrides " + t.Overrides + ")"
		}
		rows = append(rows, []string{t.Name, source, t.Description})
	}
	printer.Table([]string{"NAME", "SOURCE", "DESCRIPTION"}, rows)
	return nil
}

func runTemplatesShow(cmd *cobra.Command, name string) error {
	printer := newPrinter(cmd)

	tmpl, err := prompt.LoadTemplate(name)
	if err != nil {
		userErr := output.NewUserErrorWithCause(fmt.Sprintf("template %q not found", name), err)
		printer.Error(userErr)
		return userErr
	}

	if printer.IsJSON() {
		return printer.Success(map[string]any{
			"name":        tmpl.Name,
			"description": tmpl.Description,
			"version":     tmpl.Version,
			"source":      tmpl.Source,
			"content":     tmpl.Content,
		})
	}
	printer.Box(fmt.Sprintf("%s (%s)", tmpl.Name, tmpl.Source), tmpl.Content)
	return nil
}
