// Package cli: services.go implements the "composectl services" command.
//
// services lists what the compose files define without contacting Docker:
// the project name, each service and the container name it will get.
package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/modjke/docker-compose/internal/composefile"
	"github.com/modjke/docker-compose/internal/model"
)

// NewServicesCommand creates the "services" cobra command.
func NewServicesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "services",
		Short: "List the services defined in the compose files",
		Long: `List the services defined in the compose files, with the project name
and the container name each service's first container will get.

Examples:
  composectl services
  composectl -f docker-compose-2.yml --json services`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := resolveSettings(cmd)
			if err != nil {
				return err
			}
			p, err := s.loadProject()
			if err != nil {
				return model.WrapCLIError(model.ExitInvalidOptions, "failed to read compose files", err)
			}
			if s.opts.ProjectName != "" {
				p.Name = s.opts.ProjectName
			}
			return printServices(cmd.OutOrStdout(), p)
		},
	}
}

type servicesJSON struct {
	Project  string        `json:"project"`
	Files    []string      `json:"files"`
	Services []serviceJSON `json:"services"`
}

type serviceJSON struct {
	Name          string `json:"name"`
	ContainerName string `json:"containerName"`
	Image         string `json:"image,omitempty"`
}

func printServices(w io.Writer, p *composefile.Project) error {
	names := p.ServiceNames()

	if IsJSONOutput() {
		out := servicesJSON{
			Project:  p.Name,
			Files:    p.Files,
			Services: make([]serviceJSON, 0, len(names)),
		}
		for _, name := range names {
			out.Services = append(out.Services, serviceJSON{
				Name:          name,
				ContainerName: p.ContainerName(name),
				Image:         p.Services[name].Image,
			})
		}
		return writeJSON(w, out)
	}

	_, _ = fmt.Fprintf(w, "Project: %s\n", p.Name)
	if len(names) == 0 {
		_, err := fmt.Fprintln(w, "No services defined.")
		return err
	}
	_, _ = fmt.Fprintf(w, "%-20s %-30s %s\n", "SERVICE", "CONTAINER", "IMAGE")
	for _, name := range names {
		image := p.Services[name].Image
		if image == "" {
			image = "-"
		}
		_, _ = fmt.Fprintf(w, "%-20s %-30s %s\n", name, p.ContainerName(name), image)
	}
	return nil
}
