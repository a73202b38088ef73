package composefile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// DefaultFileNames are the file names the compose tool looks for when no -f
// flag is given, in the order it tries them.
var DefaultFileNames = []string{
	"compose.yaml",
	"compose.yml",
	"docker-compose.yaml",
	"docker-compose.yml",
}

// ErrNoComposeFile is returned by Discover when none of DefaultFileNames
// exists in the directory.
var ErrNoComposeFile = errors.New("no compose file found")

// Service is the part of a service definition this package reads.
type Service struct {
	// Name is the key under "services".
	Name string `json:"name"`

	// ContainerName is the explicit container_name, if the file sets one.
	ContainerName string `json:"containerName,omitempty"`

	// Image is the image reference, if the file sets one.
	Image string `json:"image,omitempty"`
}

// Project is the merged view of one or more compose files.
type Project struct {
	// Dir is the project directory relative file paths resolve against.
	Dir string `json:"dir"`

	// Files are the absolute paths of the files that were read, in order.
	Files []string `json:"files"`

	// Name is the project name: the top-level "name" of the last file that
	// sets one, otherwise derived from Dir.
	Name string `json:"name"`

	// Services maps service names to their definitions. A service defined
	// in several files keeps the last non-empty value of each field.
	Services map[string]Service `json:"services"`
}

// rawFile mirrors the YAML layout. Services are decoded as nodes first so a
// service with an empty body ("cache:") is still recorded.
type rawFile struct {
	Name     string               `yaml:"name"`
	Services map[string]yaml.Node `yaml:"services"`
}

type rawService struct {
	ContainerName string `yaml:"container_name"`
	Image         string `yaml:"image"`
}

// Discover returns the path of the first default compose file present in
// dir, or ErrNoComposeFile.
func Discover(fs afero.Fs, dir string) (string, error) {
	for _, name := range DefaultFileNames {
		path := filepath.Join(dir, name)
		info, err := fs.Stat(path)
		if err == nil && !info.IsDir() {
			return path, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("failed to check %s: %w", path, err)
		}
	}
	return "", fmt.Errorf("%w in %s (looked for %s)", ErrNoComposeFile, dir, strings.Join(DefaultFileNames, ", "))
}

// Load reads files (relative paths resolve against dir) and merges them in
// order. With no files the default file in dir is used, as the compose tool
// would do.
func Load(fs afero.Fs, dir string, files []string) (*Project, error) {
	paths := make([]string, 0, len(files))
	if len(files) == 0 {
		path, err := Discover(fs, dir)
		if err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	for _, f := range files {
		if !filepath.IsAbs(f) {
			f = filepath.Join(dir, f)
		}
		paths = append(paths, filepath.Clean(f))
	}

	project := &Project{
		Dir:      dir,
		Files:    paths,
		Services: make(map[string]Service),
	}

	for _, path := range paths {
		raw, err := readFile(fs, path)
		if err != nil {
			return nil, err
		}
		if raw.Name != "" {
			project.Name = raw.Name
		}
		for name, node := range raw.Services {
			merged, err := mergeService(project.Services[name], name, &node)
			if err != nil {
				return nil, fmt.Errorf("invalid service %q in %s: %w", name, path, err)
			}
			project.Services[name] = merged
		}
	}

	if project.Name == "" {
		project.Name = NormalizeProjectName(filepath.Base(filepath.Clean(dir)))
	}
	return project, nil
}

func readFile(fs afero.Fs, path string) (*rawFile, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read compose file %s: %w", path, err)
	}

	var raw rawFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse compose file %s: %w", path, err)
	}
	return &raw, nil
}

func mergeService(base Service, name string, node *yaml.Node) (Service, error) {
	base.Name = name

	// "svc:" with no body decodes as a null scalar.
	if node.Kind == 0 || node.Tag == "!!null" {
		return base, nil
	}

	var raw rawService
	if err := node.Decode(&raw); err != nil {
		return base, err
	}
	if raw.ContainerName != "" {
		base.ContainerName = raw.ContainerName
	}
	if raw.Image != "" {
		base.Image = raw.Image
	}
	return base, nil
}

// ServiceNames returns the service names in sorted order.
func (p *Project) ServiceNames() []string {
	names := make([]string, 0, len(p.Services))
	for name := range p.Services {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HasService reports whether the project defines service.
func (p *Project) HasService(service string) bool {
	_, ok := p.Services[service]
	return ok
}

// ContainerName returns the name the compose tool gives the first replica
// of service: its container_name if set, otherwise "<project>-<service>-1".
func (p *Project) ContainerName(service string) string {
	if svc, ok := p.Services[service]; ok && svc.ContainerName != "" {
		return svc.ContainerName
	}
	return fmt.Sprintf("%s-%s-1", p.Name, service)
}

var invalidProjectChars = regexp.MustCompile(`[^a-z0-9_-]`)

// NormalizeProjectName lowercases name and drops the characters the compose
// tool does not allow in project names. Leading "-" and "_" are removed too.
func NormalizeProjectName(name string) string {
	name = invalidProjectChars.ReplaceAllString(strings.ToLower(name), "")
	return strings.TrimLeft(name, "_-")
}
