package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lumen-dev/lumen/internal/config"
	"github.com/lumen-dev/lumen/internal/errors"
	"github.com/lumen-dev/lumen/internal/templates"
)

func createCmd() *cobra.Command {
	var (
		tmplName    string
		description string
		port        int
	)

	cmd := &cobra.Command{
		Use:   "create [name]",
		Short: "Scaffold a new project",
		Long: `Create a new project directory with a starter configuration,
an app shell, and example pages.

Available templates: ` + strings.Join(templates.List(), ", ") + `

Examples:
  lumen create my-site
  lumen create my-site --template site`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(args[0], tmplName, description, port)
		},
	}

	cmd.Flags().StringVarP(&tmplName, "template", "t", "minimal", "Project template")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Project description")
	cmd.Flags().IntVarP(&port, "port", "p", config.DefaultPort, "Dev server port")

	return cmd
}

func runCreate(name, tmplName, description string, port int) error {
	if _, err := os.Stat(name); err == nil {
		return errors.Newf(errors.CategoryCLI, "directory %s already exists", name)
	}

	tmpl, err := templates.Get(tmplName)
	if err != nil {
		return err
	}

	if description == "" {
		description = "A " + name + " site built with Lumen"
	}

	if err := tmpl.Create(name, templates.Config{
		ProjectName: name,
		Description: description,
		Port:        port,
	}); err != nil {
		return err
	}

	printBanner()
	success("created %s from the %s template", name, tmpl.Name)
	info("next steps:")
	info("  cd %s", name)
	info("  lumen dev")
	return nil
}
