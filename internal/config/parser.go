package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	fdperrors "github.com/ktritz/fdp/pkg/errors"
)

// Extension is the file extension of facility documents.
const Extension = ".yaml"

var yamlLineRegex = regexp.MustCompile(`line (\d+)`)

// ParseContainer loads a facility document from disk and validates it.
func ParseContainer(path string) (*Facility, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fdperrors.NewParseError(path, 0, err)
	}
	return ParseContainerBytes(data, path)
}

// ParseContainerBytes decodes and validates a facility document. source
// names the document in errors.
func ParseContainerBytes(data []byte, source string) (*Facility, error) {
	var f Facility
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fdperrors.NewParseError(source, extractLine(err), err)
	}

	if err := ValidateFacility(&f); err != nil {
		return nil, err
	}

	return &f, nil
}

// LoadFacility reads <dir>/<identity>.yaml and checks that it describes
// identity.
func LoadFacility(dir, identity string) (*Facility, error) {
	path := filepath.Join(dir, identity+Extension)
	f, err := ParseContainer(path)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(f.Machine, identity) {
		return nil, fdperrors.NewValidationError("machine",
			fmt.Sprintf("document %s describes %q, expected %q", path, f.Machine, identity), nil)
	}
	return f, nil
}

func extractLine(err error) int {
	if err == nil {
		return 0
	}

	matches := yamlLineRegex.FindStringSubmatch(err.Error())
	if len(matches) != 2 {
		return 0
	}

	var line int
	if _, scanErr := fmt.Sscanf(matches[1], "%d", &line); scanErr != nil {
		return 0
	}

	return line
}
