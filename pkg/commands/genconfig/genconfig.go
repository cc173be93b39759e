package genconfig

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/arthur-debert/mwu/pkg/config"
	"github.com/arthur-debert/mwu/pkg/fleet"
	"github.com/arthur-debert/mwu/pkg/logging"
	"github.com/arthur-debert/mwu/pkg/terminus"
	"github.com/arthur-debert/mwu/pkg/types"
	"gopkg.in/yaml.v3"
)

// GenConfigOptions holds options for the genconfig command
type GenConfigOptions struct {
	// FromFleet lists the sites picked by Selectors instead of the sample
	FromFleet bool
	Selectors fleet.Selectors
	Cached    bool
	Inventory fleet.Inventory

	Write bool

	// Path is where Write puts the file. Defaults to the XDG config location.
	Path string
}

// GenConfigResult is the generated file and where it was written
type GenConfigResult struct {
	ConfigContent string
	FilesWritten  []string
}

type fleetDoc struct {
	Sites fleetSites `yaml:"sites"`
}

type fleetSites struct {
	Settings map[string]interface{} `yaml:"settings"`
	Update   []fleetEntry           `yaml:"update"`
	Skip     []string               `yaml:"skip"`
}

type fleetEntry struct {
	Name     string `yaml:"name"`
	Workflow string `yaml:"workflow,omitempty"`
}

const fleetHeader = "# Generated by mwu genconfig from the current inventory.\n# Frozen sites are listed under skip.\n"

// GenConfig outputs or writes a fleet configuration file
func GenConfig(ctx context.Context, opts GenConfigOptions) (*GenConfigResult, error) {
	logger := logging.GetLogger("commands.genconfig")

	content := config.SampleContent()
	if opts.FromFleet {
		generated, err := fromFleet(ctx, opts)
		if err != nil {
			return nil, err
		}
		content = generated
	}

	result := &GenConfigResult{
		ConfigContent: content,
		FilesWritten:  []string{},
	}

	if !opts.Write {
		logger.Debug().Msg("Outputting config to stdout")
		return result, nil
	}

	target := opts.Path
	if target == "" {
		target = config.DefaultConfigPath()
	}
	if _, err := os.Stat(target); err == nil {
		logger.Warn().Str("path", target).Msg("Config file already exists, skipping")
		return result, nil
	}
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return result, fmt.Errorf("failed to create directory %s: %w", filepath.Dir(target), err)
	}
	if err := os.WriteFile(target, []byte(content), 0644); err != nil {
		return result, fmt.Errorf("failed to write config to %s: %w", target, err)
	}

	logger.Info().Str("path", target).Msg("Written config file")
	result.FilesWritten = append(result.FilesWritten, target)
	return result, nil
}

func fromFleet(ctx context.Context, opts GenConfigOptions) (string, error) {
	inv := opts.Inventory
	if inv == nil {
		inv = terminus.NewInventory(terminus.NewExecRunner(""))
	}
	sites, err := fleet.NewResolver(fleet.NewCachedInventory(inv, opts.Cached)).Resolve(ctx, opts.Selectors)
	if err != nil {
		return "", err
	}

	doc := fleetDoc{Sites: fleetSites{
		Settings: config.Defaults(),
		Update:   []fleetEntry{},
		Skip:     []string{},
	}}
	for _, s := range sites {
		if s.Frozen {
			doc.Sites.Skip = append(doc.Sites.Skip, s.Name)
			continue
		}
		entry := fleetEntry{Name: s.Name}
		if w, ok := types.WorkflowFor(s.Framework); ok && w != types.WorkflowWordPress {
			entry.Workflow = string(w)
		}
		doc.Sites.Update = append(doc.Sites.Update, entry)
	}

	var buf bytes.Buffer
	buf.WriteString(fleetHeader)
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return "", fmt.Errorf("failed to encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("failed to encode config: %w", err)
	}
	return buf.String(), nil
}
